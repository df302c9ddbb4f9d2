package tour

import (
	"fmt"
	"time"

	"github.com/vango-dev/signals/pkg/reactive"
)

// DateLayout is the date format accepted by SetDate.
const DateLayout = "2006-01-02"

// InitialDate is the date the page starts on, a Saturday.
var InitialDate = time.Date(2023, time.July, 22, 0, 0, 0, 0, time.UTC)

// ControlFlow derives a weekend/weekday message from a date.
type ControlFlow struct {
	Date    *reactive.Signal[time.Time]
	Weekend *reactive.Memo[bool]
}

// MountControlFlow mounts the control flow page into scope.
func MountControlFlow(scope *reactive.Scope, screen *Screen) (*ControlFlow, error) {
	cf := &ControlFlow{
		Date: reactive.NewSignal(scope, InitialDate, reactive.Named("date")),
	}
	cf.Weekend = reactive.NewMemo(scope, func() bool {
		switch cf.Date.Get().Weekday() {
		case time.Saturday, time.Sunday:
			return true
		}
		return false
	}, reactive.Named("weekend"))

	if err := Bind(scope, screen, "control.title", func() string {
		return "Control Flow"
	}); err != nil {
		return nil, err
	}
	if err := Bind(scope, screen, "control.input", func() string {
		return fmt.Sprintf(`<input type="date" value=%q>`, cf.Date.Get().Format(DateLayout))
	}); err != nil {
		return nil, err
	}
	if err := Bind(scope, screen, "control.message", func() string {
		day := cf.Date.Get().Format(DateLayout)
		if cf.Weekend.Get() {
			return day + " is a weekend"
		}
		return day + " is a weekday"
	}); err != nil {
		return nil, err
	}
	return cf, nil
}

// SetDate parses value as YYYY-MM-DD and stores it. A value that does not
// parse leaves the date unchanged.
func (cf *ControlFlow) SetDate(value string) error {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value, err)
	}
	return cf.Date.Set(d)
}

func controlFlowPage(scope *reactive.Scope, screen *Screen, _ Env) ([]Action, error) {
	cf, err := MountControlFlow(scope, screen)
	if err != nil {
		return nil, err
	}
	return []Action{
		{Label: "pick 2023-07-24", Run: func() error { return cf.SetDate("2023-07-24") }},
		{Label: "pick 2023-07-29", Run: func() error { return cf.SetDate("2023-07-29") }},
	}, nil
}

package tour

import (
	"fmt"
	"strings"

	"github.com/vango-dev/signals/pkg/reactive"
)

// CountStep is how far one click moves the counter.
const CountStep = 5

// DefaultProgressMax is the ProgressBar maximum when none is given.
const DefaultProgressMax = 100

// ProgressBarProps configures a ProgressBar.
type ProgressBarProps struct {
	// Max is the value of a full bar. Zero means DefaultProgressMax.
	Max int

	// Progress is read inside the bar's effect.
	Progress func() int
}

// ProgressBar renders a twenty cell bar for Progress out of Max.
func ProgressBar(scope *reactive.Scope, screen *Screen, key string, props ProgressBarProps) error {
	limit := props.Max
	if limit <= 0 {
		limit = DefaultProgressMax
	}
	const cells = 20
	return Bind(scope, screen, key, func() string {
		value := props.Progress()
		filled := value * cells / limit
		filled = min(max(filled, 0), cells)
		return fmt.Sprintf("progress [%s%s] %d/%d",
			strings.Repeat("#", filled), strings.Repeat(".", cells-filled), value, limit)
	})
}

// ItsMeMario renders the image whose width follows width.
func ItsMeMario(scope *reactive.Scope, screen *Screen, key string, width func() int) error {
	return Bind(scope, screen, key, func() string {
		return fmt.Sprintf(`<img src="mario.png" width="%d">`, width())
	})
}

// Home is the counter page.
type Home struct {
	Count  *reactive.Signal[int]
	Pixels *reactive.Memo[int]
}

// MountHome mounts the counter page into scope.
func MountHome(scope *reactive.Scope, screen *Screen) (*Home, error) {
	h := &Home{
		Count: reactive.NewSignal(scope, 0, reactive.Named("count")),
	}
	h.Pixels = reactive.NewMemo(scope, func() int {
		return h.Count.Get() * CountStep
	}, reactive.Named("pixels"))

	if err := Bind(scope, screen, "home.title", func() string {
		return "Welcome to the tour"
	}); err != nil {
		return nil, err
	}
	if err := ProgressBar(scope.Child(), screen, "home.progress", ProgressBarProps{
		Max:      200,
		Progress: h.Count.Get,
	}); err != nil {
		return nil, err
	}
	if err := Bind(scope, screen, "home.buttons", func() string {
		return fmt.Sprintf("[-] %d [+]", h.Count.Get())
	}); err != nil {
		return nil, err
	}
	if err := Bind(scope, screen, "home.pixels", func() string {
		return fmt.Sprintf("pixels: %d", h.Pixels.Get())
	}); err != nil {
		return nil, err
	}
	if err := ItsMeMario(scope.Child(), screen, "home.mario", h.Count.Get); err != nil {
		return nil, err
	}
	return h, nil
}

// Increment moves the counter up one step.
func (h *Home) Increment() error {
	return h.Count.Update(func(n int) int { return n + CountStep })
}

// Decrement moves the counter down one step.
func (h *Home) Decrement() error {
	return h.Count.Update(func(n int) int { return n - CountStep })
}

func homePage(scope *reactive.Scope, screen *Screen, _ Env) ([]Action, error) {
	h, err := MountHome(scope, screen)
	if err != nil {
		return nil, err
	}
	return []Action{
		{Label: "click +", Run: h.Increment},
		{Label: "click +", Run: h.Increment},
		{Label: "click -", Run: h.Decrement},
	}, nil
}

package tour

import (
	"fmt"

	"github.com/vango-dev/signals/pkg/reactive"
)

// InitialText is the input's starting value.
const InitialText = "Enter some text"

// TextInput binds an input's value to a heading. The heading turns blue
// when the text is "blue".
type TextInput struct {
	Text *reactive.Signal[string]
}

// MountTextInput mounts the input binding page into scope.
func MountTextInput(scope *reactive.Scope, screen *Screen) (*TextInput, error) {
	ti := &TextInput{
		Text: reactive.NewSignal(scope, InitialText, reactive.Named("text")),
	}
	classes := reactive.NewMemo(scope, func() string {
		if ti.Text.Get() == "blue" {
			return "mt-4 text-2xl shadow bg-blue-100"
		}
		return "mt-4 text-2xl shadow"
	}, reactive.Named("classes"))

	if err := Bind(scope, screen, "text.title", func() string {
		return "Input binding and conditional classes"
	}); err != nil {
		return nil, err
	}
	if err := Bind(scope, screen, "text.input", func() string {
		return fmt.Sprintf("<input value=%q>", ti.Text.Get())
	}); err != nil {
		return nil, err
	}
	if err := Bind(scope, screen, "text.heading", func() string {
		return fmt.Sprintf("<div class=%q><h2>%s</h2></div>", classes.Get(), ti.Text.Get())
	}); err != nil {
		return nil, err
	}
	return ti, nil
}

// Input simulates typing value into the field.
func (ti *TextInput) Input(value string) error {
	return ti.Text.Set(value)
}

func textPage(scope *reactive.Scope, screen *Screen, _ Env) ([]Action, error) {
	ti, err := MountTextInput(scope, screen)
	if err != nil {
		return nil, err
	}
	return []Action{
		{Label: `type "hello"`, Run: func() error { return ti.Input("hello") }},
		{Label: `type "blue"`, Run: func() error { return ti.Input("blue") }},
	}, nil
}

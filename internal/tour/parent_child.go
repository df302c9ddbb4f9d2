package tour

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/vango-dev/signals/internal/errors"
	"github.com/vango-dev/signals/pkg/reactive"
)

// ErrNoProvider is returned when a component consumes a context value
// that no ancestor provided.
var ErrNoProvider = stderrors.New("tour: no context provider")

// ObjectContainSetter is the context value ObjectContain consumes. The
// parent provides it so the child can flip the parent's flag.
type ObjectContainSetter struct {
	Flag *reactive.Signal[bool]
}

// Button is a rendered button with its click handler.
type Button struct {
	Label   string
	OnClick func() error
}

// Click runs the button's handler.
func (b *Button) Click() error {
	if b.OnClick == nil {
		return nil
	}
	return b.OnClick()
}

func toggle(flag *reactive.Signal[bool]) func() error {
	return func() error {
		return flag.Update(func(v bool) bool { return !v })
	}
}

func mountButton(scope *reactive.Scope, screen *Screen, key string, b *Button) (*Button, error) {
	if err := Bind(scope, screen, key, func() string {
		return "[" + b.Label + "]"
	}); err != nil {
		return nil, err
	}
	return b, nil
}

// ObjectCover receives the setter as a prop and toggles it on click.
func ObjectCover(scope *reactive.Scope, screen *Screen, key string, setter *reactive.Signal[bool]) (*Button, error) {
	return mountButton(scope, screen, key, &Button{Label: "Object Cover", OnClick: toggle(setter)})
}

// ObjectScaleDown is a plain button. Its behavior is whatever handler the
// parent attaches.
func ObjectScaleDown(scope *reactive.Scope, screen *Screen, key string, onClick func() error) (*Button, error) {
	return mountButton(scope, screen, key, &Button{Label: "Object Scale Down", OnClick: onClick})
}

// ObjectContain finds its setter through context. Mounting it under a
// scope without an ObjectContainSetter fails with ErrNoProvider.
func ObjectContain(scope *reactive.Scope, screen *Screen, key string) (*Button, error) {
	setter, ok := reactive.Consume[ObjectContainSetter](scope)
	if !ok || setter.Flag == nil {
		return nil, errors.New("R004").
			WithDetail("ObjectContain needs an ObjectContainSetter from a parent scope.").
			Wrap(ErrNoProvider)
	}
	return mountButton(scope, screen, key, &Button{Label: "Object Contain", OnClick: toggle(setter.Flag)})
}

// ParentChild shows three ways a child can update its parent's state.
type ParentChild struct {
	Cover     *reactive.Signal[bool]
	ScaleDown *reactive.Signal[bool]
	Contain   *reactive.Signal[bool]

	CoverButton     *Button
	ScaleDownButton *Button
	ContainButton   *Button
}

// MountParentChild mounts the parent/child page into scope.
func MountParentChild(scope *reactive.Scope, screen *Screen) (*ParentChild, error) {
	pc := &ParentChild{
		Cover:     reactive.NewSignal(scope, false, reactive.Named("object-cover")),
		ScaleDown: reactive.NewSignal(scope, false, reactive.Named("object-scale-down")),
		Contain:   reactive.NewSignal(scope, false, reactive.Named("object-contain")),
	}
	reactive.Provide(scope, ObjectContainSetter{Flag: pc.Contain})

	classes := reactive.NewMemo(scope, func() string {
		list := []string{"w-44", "h-44"}
		if pc.Cover.Get() {
			list = append(list, "object-cover")
		}
		if pc.ScaleDown.Get() {
			list = append(list, "object-scale-down")
		}
		if pc.Contain.Get() {
			list = append(list, "object-contain")
		}
		return strings.Join(list, " ")
	}, reactive.Named("image-classes"))

	if err := Bind(scope, screen, "parent.image", func() string {
		return fmt.Sprintf(`<img class=%q src="gameplay.jpg">`, classes.Get())
	}); err != nil {
		return nil, err
	}

	var err error
	if pc.CoverButton, err = ObjectCover(scope.Child(), screen, "parent.cover", pc.Cover); err != nil {
		return nil, err
	}
	if pc.ScaleDownButton, err = ObjectScaleDown(scope.Child(), screen, "parent.scale-down", toggle(pc.ScaleDown)); err != nil {
		return nil, err
	}
	if pc.ContainButton, err = ObjectContain(scope.Child(), screen, "parent.contain"); err != nil {
		return nil, err
	}
	return pc, nil
}

func parentChildPage(scope *reactive.Scope, screen *Screen, _ Env) ([]Action, error) {
	pc, err := MountParentChild(scope, screen)
	if err != nil {
		return nil, err
	}
	return []Action{
		{Label: "click Object Cover", Run: pc.CoverButton.Click},
		{Label: "click Object Scale Down", Run: pc.ScaleDownButton.Click},
		{Label: "click Object Contain", Run: pc.ContainButton.Click},
		{Label: "click Object Cover", Run: pc.CoverButton.Click},
	}, nil
}

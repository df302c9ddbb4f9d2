package tour

import (
	"strings"

	"github.com/vango-dev/signals/pkg/reactive"
)

// Children builds a component's children. It may be called more than
// once, and each call renders them afresh.
type Children func(scope *reactive.Scope) []string

// AcceptsChildren renders its children three times: twice as a plain list
// and once as a styled list.
func AcceptsChildren(scope *reactive.Scope, screen *Screen, key string, children Children) error {
	items := children(scope)

	list := func(class string) string {
		var b strings.Builder
		b.WriteString("<ul>")
		for _, item := range items {
			b.WriteString("\n  <li")
			if class != "" {
				b.WriteString(` class="` + class + `"`)
			}
			b.WriteString(">" + item + "</li>")
		}
		b.WriteString("\n</ul>")
		return b.String()
	}

	if err := Bind(scope, screen, key+".list", func() string { return list("") }); err != nil {
		return err
	}
	if err := Bind(scope, screen, key+".again", func() string { return list("") }); err != nil {
		return err
	}
	return Bind(scope, screen, key+".styled", func() string {
		return list("pl-4 mt-4 tracking-widest bg-blue-100 border rounded-lg shadow")
	})
}

// MountPassChildren mounts AcceptsChildren with two paragraphs.
func MountPassChildren(scope *reactive.Scope, screen *Screen) error {
	return AcceptsChildren(scope.Child(), screen, "children", func(*reactive.Scope) []string {
		return []string{"<p>Item 1</p>", "<p>Item 2</p>"}
	})
}

func childrenPage(scope *reactive.Scope, screen *Screen, _ Env) ([]Action, error) {
	return nil, MountPassChildren(scope, screen)
}

package tour

import (
	"io"
	"strings"

	"github.com/vango-dev/signals/pkg/reactive"
)

// Screen is a keyed text surface. Lines keep the order in which their key
// was first set. A Screen belongs to the runtime goroutine.
type Screen struct {
	keys  []string
	lines map[string]string
}

// NewScreen creates an empty screen.
func NewScreen() *Screen {
	return &Screen{lines: make(map[string]string)}
}

// Set replaces the text under key, appending key if it is new.
func (s *Screen) Set(key, text string) {
	if _, ok := s.lines[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.lines[key] = text
}

// Get returns the text under key.
func (s *Screen) Get(key string) (string, bool) {
	text, ok := s.lines[key]
	return text, ok
}

// Remove deletes key from the screen.
func (s *Screen) Remove(key string) {
	if _, ok := s.lines[key]; !ok {
		return
	}
	delete(s.lines, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return
		}
	}
}

// Keys returns the keys in display order.
func (s *Screen) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Lines returns the rendered text in display order. Multi-line entries
// are split.
func (s *Screen) Lines() []string {
	var out []string
	for _, k := range s.keys {
		out = append(out, strings.Split(s.lines[k], "\n")...)
	}
	return out
}

// String renders the screen with one trailing newline per line.
func (s *Screen) String() string {
	var b strings.Builder
	for _, line := range s.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTo writes the rendered screen to w.
func (s *Screen) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// Bind keeps the line under key equal to render. render runs inside an
// Effect, so every signal it reads re-renders the line when it changes.
// The line is removed when scope is disposed.
func Bind(scope *reactive.Scope, screen *Screen, key string, render func() string) error {
	_, err := reactive.NewEffect(scope, func() reactive.Cleanup {
		screen.Set(key, render())
		return nil
	}, reactive.Named(key))
	if err != nil {
		return err
	}
	scope.OnCleanup(func() {
		screen.Remove(key)
	})
	return nil
}

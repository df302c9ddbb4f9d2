package tour

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vango-dev/signals/internal/config"
	"github.com/vango-dev/signals/internal/errors"
	"github.com/vango-dev/signals/pkg/features/resource"
	"github.com/vango-dev/signals/pkg/reactive"
)

// DefaultFetchURL is the endpoint the fetch page uses when Env has none.
const DefaultFetchURL = config.DefaultFetchURL

// pollInterval is how often Play drains dispatched work while awaiting.
const pollInterval = 10 * time.Millisecond

// Env carries what pages need from the host program.
type Env struct {
	HTTPClient   *http.Client
	FetchURL     string
	FetchOptions []resource.Option
}

// EnvFromConfig builds an Env from the fetch section of cfg.
func EnvFromConfig(cfg *config.Config) Env {
	return Env{
		FetchURL: cfg.Fetch.URL,
		FetchOptions: []resource.Option{
			resource.WithTimeout(cfg.Fetch.Timeout),
			resource.WithRetry(cfg.Fetch.Retries, cfg.Fetch.RetryDelay),
		},
	}
}

// Action is one scripted interaction with a mounted page.
type Action struct {
	Label string

	// Run performs the interaction. Optional.
	Run func() error

	// Await, when set, is polled after Run until it reports done,
	// draining dispatched callbacks between polls.
	Await func() (done bool, err error)
}

// MountFunc mounts a page into scope and returns its script.
type MountFunc func(scope *reactive.Scope, screen *Screen, env Env) ([]Action, error)

// Page is a tour page.
type Page struct {
	Name  string
	Title string
	Mount MountFunc
}

// Pages lists the tour in order.
var Pages = []Page{
	{Name: "home", Title: "Signals, derived signals and props", Mount: homePage},
	{Name: "text", Title: "Input binding and conditional classes", Mount: textPage},
	{Name: "control-flow", Title: "Control flow", Mount: controlFlowPage},
	{Name: "parent-child", Title: "Parent and child communication", Mount: parentChildPage},
	{Name: "children", Title: "Passing children", Mount: childrenPage},
	{Name: "fetch", Title: "Fetching data", Mount: fetchPage},
}

// Names returns the page names in tour order.
func Names() []string {
	names := make([]string, len(Pages))
	for i, p := range Pages {
		names[i] = p.Name
	}
	return names
}

// Lookup finds a page by name. Unknown names yield an X001 error.
func Lookup(name string) (Page, error) {
	for _, p := range Pages {
		if p.Name == name {
			return p, nil
		}
	}
	return Page{}, errors.New("X001").
		WithDetail(fmt.Sprintf("%q is not a tour page.", name))
}

// Play mounts page in a child of rt's root scope, writes the screen, then
// runs each action and writes the screen again. The page is unmounted
// when Play returns.
func Play(ctx context.Context, rt *reactive.Runtime, page Page, env Env, w io.Writer) error {
	screen := NewScreen()
	var actions []Action
	scope, err := rt.Root().WithScope(func(s *reactive.Scope) error {
		var err error
		actions, err = page.Mount(s, screen, env)
		return err
	})
	if err != nil {
		return fmt.Errorf("mount %s: %w", page.Name, err)
	}
	defer scope.Dispose()

	fmt.Fprintf(w, "== %s ==\n", page.Title)
	if _, err := screen.WriteTo(w); err != nil {
		return err
	}

	for _, a := range actions {
		if a.Run != nil {
			if err := a.Run(); err != nil {
				return fmt.Errorf("%s: %w", a.Label, err)
			}
		}
		if err := rt.Flush(); err != nil {
			return fmt.Errorf("%s: %w", a.Label, err)
		}
		if a.Await != nil {
			if err := await(ctx, rt, a.Await); err != nil {
				return fmt.Errorf("%s: %w", a.Label, err)
			}
		}
		fmt.Fprintf(w, "-- %s --\n", a.Label)
		if _, err := screen.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

// await drains rt's dispatch queue until cond reports done or ctx ends.
func await(ctx context.Context, rt *reactive.Runtime, cond func() (bool, error)) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if err := rt.Drain(); err != nil {
			return err
		}
		if err := rt.Flush(); err != nil {
			return err
		}
		done, err := cond()
		if done || err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

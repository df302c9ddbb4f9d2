package tour

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vango-dev/signals/internal/errors"
	"github.com/vango-dev/signals/pkg/features/resource"
	"github.com/vango-dev/signals/pkg/reactive"
)

// Amiibo is one figure returned by the amiibo API.
type Amiibo struct {
	AmiiboSeries string `json:"amiiboSeries"`
	Character    string `json:"character"`
	GameSeries   string `json:"gameSeries"`
	Head         string `json:"head"`
	Image        string `json:"image"`
	Name         string `json:"name"`
}

// amiiboResponse is the body of an amiibo API response.
type amiiboResponse struct {
	Amiibo []Amiibo `json:"amiibo"`
}

// FetchAmiibo returns a fetcher that GETs url and decodes the amiibo list.
// A nil client means http.DefaultClient.
func FetchAmiibo(client *http.Client, url string) func(ctx context.Context) ([]Amiibo, error) {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) ([]Amiibo, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, errors.New("F002").
				WithDetail(fmt.Sprintf("GET %s returned %s", url, resp.Status))
		}

		var body amiiboResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, errors.New("F002").Wrap(fmt.Errorf("decode %s: %w", url, err))
		}
		return body.Amiibo, nil
	}
}

// Fetch loads amiibo figures and lists their game series.
type Fetch struct {
	Characters *resource.Resource[[]Amiibo]
}

// MountFetch mounts the fetch page into scope. The request starts
// immediately; its result arrives through the runtime's dispatch queue.
func MountFetch(scope *reactive.Scope, screen *Screen, env Env) (*Fetch, error) {
	url := env.FetchURL
	if url == "" {
		url = DefaultFetchURL
	}
	scope.Runtime().Logger().Info("fetching amiibo", "url", url)

	f := &Fetch{
		Characters: resource.New(scope, FetchAmiibo(env.HTTPClient, url), env.FetchOptions...),
	}
	f.Characters.OnError(func(err error) {
		scope.Runtime().Logger().Warn("amiibo fetch failed", "url", url, "error", err)
	})

	if err := Bind(scope, screen, "fetch.series", func() string {
		view, _ := resource.Match(f.Characters,
			resource.OnLoadingOrPending[[]Amiibo](func() string {
				return "Loading..."
			}),
			resource.OnError[[]Amiibo](func(err error) string {
				return "Error: " + err.Error()
			}),
			resource.OnReady(func(list []Amiibo) string {
				if len(list) == 0 {
					return "<ul></ul>"
				}
				var b strings.Builder
				b.WriteString("<ul>")
				for _, a := range list {
					b.WriteString("\n  <li>" + a.GameSeries + "</li>")
				}
				b.WriteString("\n</ul>")
				return b.String()
			}),
		)
		return view
	}); err != nil {
		return nil, err
	}
	return f, nil
}

// Settled reports whether the fetch finished. A failed fetch is returned
// as an F001 error.
func (f *Fetch) Settled() (bool, error) {
	switch f.Characters.State() {
	case resource.Ready:
		return true, nil
	case resource.Error:
		return true, errors.FromError(f.Characters.Error(), "F001")
	}
	return false, nil
}

func fetchPage(scope *reactive.Scope, screen *Screen, env Env) ([]Action, error) {
	f, err := MountFetch(scope, screen, env)
	if err != nil {
		return nil, err
	}
	return []Action{
		{Label: "response", Await: f.Settled},
	}, nil
}

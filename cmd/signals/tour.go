package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/signals/internal/tour"
	"github.com/vango-dev/signals/pkg/reactive"
)

// shutdownTimeout bounds the metrics server and span flush on exit.
const shutdownTimeout = 5 * time.Second

func tourCmd(a *app) *cobra.Command {
	var wait bool

	pages := append(tour.Names(), "all")
	cmd := &cobra.Command{
		Use:   "tour [" + strings.Join(pages, "|") + "]",
		Short: "Walk through the tutorial pages",
		Long: `Mount a tutorial page, run its scripted interactions and print the
screen after every step.

Without an argument every page is played in order.

Examples:
  signals tour
  signals tour home
  signals tour fetch --log-level=debug
  signals tour all --metrics-addr=:9090 --wait`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: pages,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "all"
			if len(args) == 1 {
				name = args[0]
			}
			return runTour(cmd, a, name, wait)
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Keep serving metrics after the tour until interrupted")

	return cmd
}

func runTour(cmd *cobra.Command, a *app, name string, wait bool) (err error) {
	selected := tour.Pages
	if name != "all" {
		page, err := tour.Lookup(name)
		if err != nil {
			return err
		}
		selected = []tour.Page{page}
	}

	ctx := cmd.Context()
	if _, err := a.serve(); err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := a.shutdown(sctx); serr != nil && err == nil {
			err = serr
		}
	}()

	out := cmd.OutOrStdout()
	env := tour.EnvFromConfig(a.cfg)
	for i, page := range selected {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := playPage(ctx, a, page, env, cmd); err != nil {
			return err
		}
	}

	success(cmd.ErrOrStderr(), "Played %d page(s)", len(selected))

	if wait && a.server != nil {
		info(cmd.ErrOrStderr(), "Tour finished. Serving metrics until interrupted.")
		<-ctx.Done()
	}
	return nil
}

// playPage plays one page on a fresh runtime.
func playPage(ctx context.Context, a *app, page tour.Page, env tour.Env, cmd *cobra.Command) error {
	rt := reactive.NewRuntime(a.runtimeOptions()...)
	defer rt.Close()

	a.logger.Debug("playing page", "page", page.Name, "runtime", rt.ID())
	if err := tour.Play(ctx, rt, page, env, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("tour %s: %w", page.Name, err)
	}
	return nil
}

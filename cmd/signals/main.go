package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/signals/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┬┌─┐┌┐┌┌─┐┬  ┌─┐
  ╚═╗││ ┬│││├─┤│  └─┐
  ╚═╝┴└─┘┘└┘┴ ┴┴─┘└─┘
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		errors.PrintError(os.Stderr, errors.Classify(err, "X002"))
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "signals",
		Short: "A fine-grained reactive engine for Go",
		Long: `Signals is a fine-grained reactive engine.

Signals hold values, memos derive from them and effects react to
them. A write re-runs exactly the computations that depend on it,
once per propagation pass, in dependency order.

The tour command walks through the tutorial pages headlessly:

  • Signals, derived signals and props
  • Input binding and conditional classes
  • Control flow
  • Parent and child communication
  • Passing children
  • Fetching data`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default ./signals.yaml)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	flags.Bool("trace", false, "Print pass spans to stderr")

	rootCmd.AddCommand(
		tourCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

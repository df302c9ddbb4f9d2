package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// buildRows lists the fields printed by the version command, in order.
func buildRows() [][2]string {
	rows := [][2]string{
		{"Version:", version},
		{"Commit:", commit},
		{"Built:", date},
		{"Go version:", runtime.Version()},
		{"OS/Arch:", runtime.GOOS + "/" + runtime.GOARCH},
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path != "" {
		rows = append(rows, [2]string{"Module:", info.Main.Path})
	}
	return rows
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, version)
				return err
			}

			printBanner(out)
			tw := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
			fmt.Fprintln(tw)
			for _, row := range buildRows() {
				fmt.Fprintf(tw, "  %s\t%s\n", row[0], row[1])
			}
			fmt.Fprintln(tw)
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "print the version number only")
	return cmd
}

package commands

import (
	"fmt"
	"runtime"

	"github.com/leapstack-labs/sqlsh/pkg/adapter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqlsh version, build information and the compiled-in drivers.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqlsh v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s with %s\n", commit, buildDate, runtime.Version())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "drivers:")
			for _, d := range driverSummaries() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", d)
			}
		},
	}
}

func driverSummaries() []string {
	names := adapter.ListAdapters()
	out := make([]string, 0, len(names))
	for _, name := range names {
		caps, err := adapter.Lookup(name)
		if err != nil {
			continue
		}
		out = append(out, caps.String())
	}
	return out
}

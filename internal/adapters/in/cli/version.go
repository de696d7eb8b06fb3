package cli

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/pkg/version"
)

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Printing the version must not depend on a valid configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			label := color.New(color.Bold)
			value := color.New(color.FgCyan)
			out := cmd.OutOrStdout()

			_, _ = label.Fprint(out, "composer ")
			_, _ = value.Fprintln(out, version.Version())
			_, _ = label.Fprint(out, "commit:     ")
			_, _ = value.Fprintln(out, version.Commit())
			_, _ = label.Fprint(out, "built:      ")
			_, _ = value.Fprintln(out, version.BuildDate())
			_, _ = label.Fprint(out, "go:         ")
			_, _ = value.Fprintln(out, runtime.Version())
		},
	}
}

// Package cmd is the composer binary's entry point.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli"
	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/styles"
)

// ExecuteCLI runs the command tree and exits non-zero on failure.
func ExecuteCLI(build, commit, date string) {
	cli.SetVersionInfo(build, commit, date)

	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(1)
	}
}

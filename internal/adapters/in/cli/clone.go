package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/internal/usecase/composer"
)

func newCloneCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <repo-url>",
		Short: "Ask the registry to clone a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClone(cmd.Context(), root.composer().controller, args[0], cmd.OutOrStdout())
		},
	}
}

func runClone(ctx context.Context, controller *composer.Controller, repoURL string, out io.Writer) error {
	status, err := controller.Clone(ctx, repoURL)
	if werr := cliWriteLine(out, cliRenderStatus(status, err != nil)); werr != nil {
		return werr
	}
	return err
}

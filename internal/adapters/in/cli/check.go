package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/styles"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	var version string

	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Check a service name, and optionally a version, against the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), root.composer(), args[0], version, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&version, "version", "v", "", "Version to check for this name")
	return cmd
}

func runCheck(ctx context.Context, parts composerParts, name, version string, out io.Writer) error {
	if err := parts.validator.OnNameChange(ctx, name); err != nil {
		return fmt.Errorf("unable to check name: %w", err)
	}

	draft := parts.session.Draft()
	if draft.ExistsRemotely {
		lines := []string{
			styles.RenderWarning(fmt.Sprintf("%s already exists and would be updated", draft.Name)),
			cliRenderMeta("version:", draft.Version),
			cliRenderMeta("description:", draft.Description),
			cliRenderMeta("icon:", draft.IconURL),
		}
		for _, line := range lines {
			if err := cliWriteLine(out, line); err != nil {
				return err
			}
		}
	} else {
		if err := cliWriteLine(out, styles.RenderSuccess(fmt.Sprintf("%s is available", draft.Name))); err != nil {
			return err
		}
	}

	if version == "" {
		return nil
	}
	if err := parts.validator.OnVersionChange(ctx, version); err != nil {
		return fmt.Errorf("unable to check version: %w", err)
	}
	if status := parts.session.Status(); status.Visible {
		if err := cliWriteLine(out, cliRenderStatus(status, true)); err != nil {
			return err
		}
		return ErrVersionRejected
	}
	return cliWriteLine(out, styles.RenderSuccess(fmt.Sprintf("version %s is accepted", version)))
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/components"
	"github.com/logilab/onyxia-composer/internal/usecase/composer"
)

func newListCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the services published on the registry",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), root.composer().controller, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, yaml or json")
	return cmd
}

func runList(ctx context.Context, controller *composer.Controller, format string, out io.Writer) error {
	if err := checkOutputFormat(format, outputTable, outputYAML, outputJSON); err != nil {
		return err
	}

	listing, err := controller.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}

	if format != outputTable {
		return writeStructured(out, format, listing)
	}
	if len(listing) == 0 {
		return cliWriteLine(out, cliRenderMuted("No services registered"))
	}
	if err := cliWriteLine(out, cliRenderTitle("Services")); err != nil {
		return err
	}
	if err := cliWriteLine(out, components.ListingTable(listing)); err != nil {
		return err
	}
	return cliWriteLine(out, cliRenderMuted(fmt.Sprintf("%d service(s)", len(listing))))
}

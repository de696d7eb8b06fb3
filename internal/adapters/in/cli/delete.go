package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/internal/usecase/composer"
)

// confirmFunc asks the user a yes/no question.
type confirmFunc func(question string) (bool, error)

func surveyConfirm(question string) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: question, Default: false}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func newDeleteCmd(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a service from the registry",
		Long: `Deletes a published service. The composer's own service (jupyter-composer)
is protected and can never be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := surveyConfirm
			if yes {
				confirm = nil
			}
			return runDelete(cmd.Context(), root.composer().controller, args[0], confirm, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// runDelete deletes name. A nil confirm skips the prompt. The protected service
// is refused before prompting.
func runDelete(ctx context.Context, controller *composer.Controller, name string, confirm confirmFunc, out io.Writer) error {
	entry := domain.RegistryEntry{Name: name}
	if confirm != nil && entry.Deletable() {
		ok, err := confirm(fmt.Sprintf("Delete service %s?", name))
		if err != nil {
			return err
		}
		if !ok {
			return cliWriteLine(out, cliRenderMuted("Aborted"))
		}
	}

	status, err := controller.Delete(ctx, name)
	if werr := cliWriteLine(out, cliRenderStatus(status, err != nil)); werr != nil {
		return werr
	}
	return err
}

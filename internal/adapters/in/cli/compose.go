package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/compose"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

func newComposeCmd(root *rootOptions) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Describe and publish a service with the interactive form",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The form owns the terminal; log lines would tear it.
			var sink io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("unable to open log file: %w", err)
				}
				defer f.Close()
				sink = f
			}
			logger.GetLogger().Redirect(sink)
			defer logger.GetLogger().Redirect(os.Stderr)

			parts := root.composer()
			model := compose.New(cmd.Context(), parts.session, parts.validator, parts.controller)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("compose form: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the form is open")
	return cmd
}

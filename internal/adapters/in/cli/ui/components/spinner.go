package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/styles"
)

// Spinner is a labelled bubbles spinner shown while a registry call is in flight.
type Spinner struct {
	spinner spinner.Model
	label   string
	active  bool
}

// NewSpinner creates an idle spinner.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)
	return Spinner{spinner: s}
}

// Start shows the spinner with label and returns the first tick.
func (s *Spinner) Start(label string) tea.Cmd {
	s.label = label
	if s.active {
		return nil
	}
	s.active = true
	return s.spinner.Tick
}

// Stop hides the spinner. Pending ticks are dropped by Update.
func (s *Spinner) Stop() {
	s.active = false
	s.label = ""
}

// Active reports whether the spinner is shown.
func (s Spinner) Active() bool {
	return s.active
}

// Update advances the animation while active.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View returns "" when idle.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	return s.spinner.View() + " " + styles.Theme.Muted.Render(s.label)
}

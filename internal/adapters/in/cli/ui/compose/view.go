package compose

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/components"
	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/styles"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/pkg/richtext"
)

var labels = [fieldCount]string{
	fieldName:        "Name",
	fieldVersion:     "Version",
	fieldDescription: "Description",
	fieldIcon:        "Icon URL",
	fieldNotebook:    "Notebook",
	fieldSourceKind:  "Build source",
	fieldRevision:    "Revision",
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(styles.Theme.Title.Render("Onyxia composer"))
	b.WriteString("  ")
	b.WriteString(styles.Theme.Muted.Render(m.session.State().String()))
	b.WriteString("\n\n")

	if m.mode == modeList {
		b.WriteString(m.listView())
	} else {
		b.WriteString(m.formView())
	}

	if status := m.controller.Status(); status.Visible {
		b.WriteString("\n")
		b.WriteString(styles.Theme.StatusBox.Render(richtext.PlainText(status.Text)))
		b.WriteString("\n")
	}
	if s := m.spinner.View(); s != "" {
		b.WriteString("\n" + s + "\n")
	}
	b.WriteString("\n" + m.helpView() + "\n")
	return b.String()
}

func (m Model) formView() string {
	var b strings.Builder
	nameState, versionState := m.session.FieldStates()

	for f := fieldName; f < fieldSubmit; f++ {
		if f == fieldRevision && m.currentKind() != domain.SourceFromRepo {
			continue
		}

		label := labels[f]
		if f == fieldSourceValue {
			label = m.currentKind().Label()
		}
		labelStyle := styles.Theme.FormLabel
		if f == m.focus {
			labelStyle = styles.Theme.FormFocused
		}
		b.WriteString(labelStyle.Render(label))

		switch f {
		case fieldSourceKind:
			b.WriteString(m.kindSelector())
		default:
			b.WriteString(m.inputs[f].View())
		}

		switch f {
		case fieldName:
			b.WriteString(" " + indicator(nameState))
		case fieldVersion:
			b.WriteString(" " + indicator(versionState))
		}
		b.WriteString("\n")
	}

	button := styles.Theme.Button
	if m.focus == fieldSubmit {
		button = styles.Theme.ButtonFocused
	}
	b.WriteString("\n")
	b.WriteString(button.Render(m.session.Draft().SubmitLabel()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) kindSelector() string {
	parts := make([]string, len(domain.SourceKinds))
	for i, kind := range domain.SourceKinds {
		name := string(kind)
		if i == m.kindIdx {
			parts[i] = styles.Theme.Title.Render(styles.IconCursor + " " + name)
		} else {
			parts[i] = styles.Theme.Muted.Render("  " + name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func indicator(state domain.FieldState) string {
	switch state {
	case domain.FieldPending:
		return styles.Theme.Muted.Render(styles.IconPending)
	case domain.FieldConfirmed:
		return styles.Theme.Success.Render(styles.IconSuccess)
	default:
		return ""
	}
}

func (m Model) listView() string {
	listing := m.controller.Listing()
	if len(listing) == 0 {
		return styles.Theme.Muted.Render("No services registered.") + "\n"
	}

	var b strings.Builder
	b.WriteString(components.ListingTable(listing))
	b.WriteString("\n")
	if m.selected < len(listing) {
		b.WriteString(styles.RenderListItem(listing[m.selected].Name))
		b.WriteString("\n")
	}
	if m.confirmDelete != "" {
		b.WriteString(styles.RenderWarning("Delete " + m.confirmDelete + "? (y/N)"))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpView() string {
	var keys []string
	if m.mode == modeList {
		keys = []string{
			styles.RenderKeyHelp("↑/↓", "select"),
			styles.RenderKeyHelp("d", "delete"),
			styles.RenderKeyHelp("r", "refresh"),
			styles.RenderKeyHelp("esc", "back"),
		}
	} else {
		keys = []string{
			styles.RenderKeyHelp("tab", "next"),
			styles.RenderKeyHelp("ctrl+s", "submit"),
			styles.RenderKeyHelp("ctrl+l", "services"),
			styles.RenderKeyHelp("ctrl+k", "clone repo"),
			styles.RenderKeyHelp("esc", "dismiss"),
		}
	}
	keys = append(keys, styles.RenderKeyHelp("ctrl+c", "quit"))
	return strings.Join(keys, "  ")
}

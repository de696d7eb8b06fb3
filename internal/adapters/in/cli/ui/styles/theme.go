package styles

import "github.com/charmbracelet/lipgloss"

// Theme groups the composed styles by component.
var Theme = struct {
	Title lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FormLabel   lipgloss.Style
	FormFocused lipgloss.Style
	FormHint    lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	StatusBox lipgloss.Style

	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style
}{
	Title: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
	Muted: lipgloss.NewStyle().Foreground(ColorTextMuted),
	Bold:  lipgloss.NewStyle().Bold(true).Foreground(ColorText),

	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Info:    lipgloss.NewStyle().Foreground(ColorInfo),

	FormLabel:   lipgloss.NewStyle().Bold(true).Foreground(ColorText).Width(20),
	FormFocused: lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Width(20),
	FormHint:    lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true),

	Button: lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(ColorText).
		Background(ColorBgMuted),
	ButtonFocused: lipgloss.NewStyle().
		Padding(0, 2).
		Bold(true).
		Foreground(ColorBg).
		Background(ColorPrimary),

	StatusBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(0, 1),

	HelpKey:  lipgloss.NewStyle().Foreground(ColorPrimary),
	HelpDesc: lipgloss.NewStyle().Foreground(ColorTextMuted),
}

// RenderKeyHelp returns formatted key binding help text.
func RenderKeyHelp(key, desc string) string {
	return Theme.HelpKey.Render(key) + " " + Theme.HelpDesc.Render(desc)
}

// RenderListItem returns a bulleted list item.
func RenderListItem(item string) string {
	return Theme.Title.Render(IconBullet) + " " + item
}

func RenderError(msg string) string {
	return Theme.Error.Render(IconError + " " + msg)
}

func RenderSuccess(msg string) string {
	return Theme.Success.Render(IconSuccess + " " + msg)
}

func RenderWarning(msg string) string {
	return Theme.Warning.Render(IconWarning + " " + msg)
}

func RenderInfo(msg string) string {
	return Theme.Info.Render(IconInfo + " " + msg)
}

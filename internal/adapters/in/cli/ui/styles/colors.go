// Package styles holds the lipgloss palette and composed styles of the composer TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Orange400 = lipgloss.Color("#ff7a57")
	Orange500 = lipgloss.Color("#ff562c")
	Blue300   = lipgloss.Color("#8fa4d9")
	Blue500   = lipgloss.Color("#5c76c2")
	Green400  = lipgloss.Color("#39d98a")
	Yellow400 = lipgloss.Color("#fbbf24")
	Red400    = lipgloss.Color("#ff4d4f")

	Neutral200 = lipgloss.Color("#e5e5e5")
	Neutral500 = lipgloss.Color("#737373")
	Neutral700 = lipgloss.Color("#404040")
	Neutral800 = lipgloss.Color("#262626")
	Neutral950 = lipgloss.Color("#0a0a0a")

	ColorPrimary   = Orange500
	ColorSecondary = Blue300
	ColorSuccess   = Green400
	ColorWarning   = Yellow400
	ColorError     = Red400
	ColorInfo      = Blue300

	ColorText      = Neutral200
	ColorTextMuted = Neutral500
	ColorBg        = Neutral950
	ColorBgMuted   = Neutral800
	ColorBorder    = Neutral700
)

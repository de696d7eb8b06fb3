package styles

// Plain Unicode glyphs; the composer runs in Jupyter terminals without Nerd Fonts.
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconInfo    = "i"
	IconPending = "…"
	IconLocked  = "⊘"
	IconBullet  = "▸"
	IconCursor  = "›"
)

package domain

// SessionState is the composition session's position in the submit lifecycle.
type SessionState int

const (
	StateEditing SessionState = iota
	StateValidating
	StateReadyNew
	StateReadyExisting
	StateSubmitting
	StateDoneSuccess
	StateDoneFailed
)

func (s SessionState) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateReadyNew:
		return "ready(new)"
	case StateReadyExisting:
		return "ready(existing)"
	case StateSubmitting:
		return "submitting"
	case StateDoneSuccess:
		return "done(success)"
	case StateDoneFailed:
		return "done(failed)"
	default:
		return "unknown"
	}
}

// FieldState tracks what the registry last said about a validated field.
type FieldState int

const (
	FieldUnknown FieldState = iota
	FieldPending
	FieldConfirmed
)

func (s FieldState) String() string {
	switch s {
	case FieldPending:
		return "pending"
	case FieldConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// StatusMessage is the transient feedback line of a session. Text may hold markup
// coming from the registry and must be sanitized before an HTML render.
type StatusMessage struct {
	Text    string
	Visible bool
}

// NewStatus returns a visible message.
func NewStatus(text string) StatusMessage {
	return StatusMessage{Text: text, Visible: text != ""}
}

// Hidden is the cleared message.
var Hidden = StatusMessage{}

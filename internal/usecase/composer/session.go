// Package composer implements the client-side composition session: the service
// draft, name/version validation against the registry and the submit lifecycle.
package composer

import (
	"sync"

	"github.com/logilab/onyxia-composer/internal/boundaries/out"
	"github.com/logilab/onyxia-composer/internal/domain"
)

type outcome int

const (
	outcomeNone outcome = iota
	outcomeSuccess
	outcomeFailed
)

// fieldTracker carries the last-request-wins sequence of one validated field.
type fieldTracker struct {
	seq   uint64
	state domain.FieldState
}

func (f *fieldTracker) issue() uint64 {
	f.seq++
	f.state = domain.FieldPending
	return f.seq
}

func (f *fieldTracker) isLatest(seq uint64) bool {
	return seq == f.seq
}

// Session owns the draft, the status message and the cached listing of one
// composition session. All mutations go through its methods; network calls are
// made outside the lock so edits are never blocked by an outstanding request.
type Session struct {
	mu sync.Mutex

	draft   domain.ServiceDraft
	status  domain.StatusMessage
	listing domain.Listing

	name    fieldTracker
	version fieldTracker

	submitting bool
	outcome    outcome

	reporter out.ErrorReporter
}

// NewSession starts a session with a default draft.
func NewSession(reporter out.ErrorReporter) *Session {
	if reporter == nil {
		reporter = discardReporter{}
	}
	return &Session{
		draft:    domain.NewServiceDraft(),
		reporter: reporter,
	}
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() domain.ServiceDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Status returns the current status message.
func (s *Session) Status() domain.StatusMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// FieldStates returns the validation state of the name and version fields.
func (s *Session) FieldStates() (name, version domain.FieldState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name.state, s.version.state
}

// State derives the lifecycle state from the session's bookkeeping. A finished
// submit stays Done until the next edit so its outcome can still be shown.
func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() domain.SessionState {
	switch {
	case s.submitting:
		return domain.StateSubmitting
	case s.outcome == outcomeSuccess:
		return domain.StateDoneSuccess
	case s.outcome == outcomeFailed:
		return domain.StateDoneFailed
	case s.name.state == domain.FieldPending || s.version.state == domain.FieldPending:
		return domain.StateValidating
	case s.name.state == domain.FieldConfirmed && s.draft.ExistsRemotely:
		return domain.StateReadyExisting
	case s.name.state == domain.FieldConfirmed:
		return domain.StateReadyNew
	default:
		return domain.StateEditing
	}
}

// edited moves a finished session back to editing.
func (s *Session) edited() {
	s.outcome = outcomeNone
}

// SetDescription updates the description.
func (s *Session) SetDescription(desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Description = desc
	s.edited()
}

// SetIconURL updates the icon URL.
func (s *Session) SetIconURL(iconURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.IconURL = iconURL
	s.edited()
}

// SetNotebookName updates the notebook served by the app.
func (s *Session) SetNotebookName(notebook string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.NotebookName = notebook
	s.edited()
}

// SelectSourceKind switches the build source kind. The previous variant's value
// is dropped, so the shared input starts empty.
func (s *Session) SelectSourceKind(kind domain.SourceKind) error {
	return s.Resolve(kind, "")
}

// Resolve replaces the build source with value written into kind's field.
// An unsupported kind is reported and leaves the draft unchanged.
func (s *Session) Resolve(kind domain.SourceKind, value string) error {
	src, err := domain.ResolveBuildSource(kind, value)
	if err != nil {
		s.reporter.Report("resolve_build_source", err, "kind", string(kind))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.BuildSource = src
	s.edited()
	return nil
}

// SetSourceValue writes value into the active build source. A repository revision
// entered earlier is kept while the kind stays FromRepo.
func (s *Session) SetSourceValue(value string) error {
	s.mu.Lock()
	current := s.draft.BuildSource
	s.mu.Unlock()

	if err := s.Resolve(current.Kind(), value); err != nil {
		return err
	}
	if repo, ok := current.Repo(); ok && repo.Revision != "" {
		s.SetRevision(repo.Revision)
	}
	return nil
}

// SetRevision sets the repository revision; it has no effect for other kinds.
func (s *Session) SetRevision(revision string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.BuildSource = s.draft.BuildSource.WithRevision(revision)
	s.edited()
}

func (s *Session) setStatusLocked(text string) {
	s.status = domain.NewStatus(text)
}

func (s *Session) clearStatusLocked() {
	s.status = domain.Hidden
}

type discardReporter struct{}

func (discardReporter) Report(string, error, ...any) {}

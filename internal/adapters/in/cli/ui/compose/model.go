// Package compose is the interactive form behind `composer compose`.
//
// Registry lookups run as tea.Cmds. Every edit of the name or version issues a
// new lookup; replies are merged through the validator, which drops any reply
// overtaken by a later edit.
package compose

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/logilab/onyxia-composer/internal/adapters/in/cli/ui/components"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/internal/usecase/composer"
)

type field int

const (
	fieldName field = iota
	fieldVersion
	fieldDescription
	fieldIcon
	fieldNotebook
	fieldSourceKind
	fieldSourceValue
	fieldRevision
	fieldSubmit
	fieldCount
)

type mode int

const (
	modeForm mode = iota
	modeList
)

type (
	nameCheckedMsg    composer.NameResult
	versionCheckedMsg composer.VersionResult
	listedMsg         struct{ err error }
	opDoneMsg         struct {
		op  string
		err error
	}
)

// Model is the bubbletea model of the compose form and its listing pane.
type Model struct {
	ctx        context.Context
	session    *composer.Session
	validator  *composer.Validator
	controller *composer.Controller

	inputs  [fieldCount]textinput.Model
	kindIdx int
	focus   field
	mode    mode

	spinner  components.Spinner
	inflight int

	selected      int
	confirmDelete string
	width         int
}

// New creates the form. ctx bounds every registry call started from it.
func New(ctx context.Context, session *composer.Session, validator *composer.Validator, controller *composer.Controller) Model {
	m := Model{
		ctx:        ctx,
		session:    session,
		validator:  validator,
		controller: controller,
		spinner:    components.NewSpinner(),
	}

	placeholders := map[field]string{
		fieldName:        "my-app",
		fieldVersion:     domain.DefaultVersion,
		fieldDescription: "What the app does",
		fieldIcon:        "https://…/icon.svg",
		fieldNotebook:    domain.DefaultNotebookName,
		fieldRevision:    "branch or tag (optional)",
	}
	for f := fieldName; f < fieldCount; f++ {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[f]
		ti.Cursor.SetMode(cursor.CursorStatic)
		m.inputs[f] = ti
	}

	draft := session.Draft()
	m.inputs[fieldVersion].SetValue(draft.Version)
	m.inputs[fieldNotebook].SetValue(draft.NotebookName)
	m.inputs[fieldSourceValue].Placeholder = draft.BuildSource.Kind().Label()
	for i, kind := range domain.SourceKinds {
		if kind == draft.BuildSource.Kind() {
			m.kindIdx = i
		}
	}
	m.inputs[fieldName].Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case nameCheckedMsg:
		m.settle()
		err := m.validator.ApplyName(composer.NameResult(msg))
		if !errors.Is(err, domain.ErrStaleResponse) {
			m.syncFromDraft()
		}
		return m, nil

	case versionCheckedMsg:
		m.settle()
		_ = m.validator.ApplyVersion(composer.VersionResult(msg))
		return m, nil

	case opDoneMsg:
		m.settle()
		if msg.op == "submit" && msg.err == nil {
			m.syncFromDraft()
		}
		return m, nil

	case listedMsg:
		m.settle()
		if listing := m.controller.Listing(); m.selected >= len(listing) {
			m.selected = max(len(listing)-1, 0)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode == modeList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	case "esc":
		m.controller.DismissStatus()
		return m, nil
	case "ctrl+s":
		return m, m.submit()
	case "ctrl+l":
		m.mode = modeList
		m.confirmDelete = ""
		return m, m.list()
	case "ctrl+k":
		return m, m.clone()
	case "enter":
		if m.focus == fieldSubmit {
			return m, m.submit()
		}
		return m, m.moveFocus(1)
	}

	if m.focus == fieldSourceKind {
		switch msg.String() {
		case "left", "h":
			m.cycleKind(-1)
		case "right", "l", " ":
			m.cycleKind(1)
		}
		return m, nil
	}
	if m.focus == fieldSubmit {
		return m, nil
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	after := m.inputs[m.focus].Value()
	if after == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.edit(m.focus, after))
}

// edit pushes a changed input into the session. Name and version edits return
// the lookup to run.
func (m *Model) edit(f field, value string) tea.Cmd {
	switch f {
	case fieldName:
		lookup := m.validator.BeginName(value)
		return m.track("checking name", func() tea.Msg {
			return nameCheckedMsg(m.validator.FetchName(m.ctx, lookup))
		})
	case fieldVersion:
		lookup := m.validator.BeginVersion(value)
		return m.track("checking version", func() tea.Msg {
			return versionCheckedMsg(m.validator.FetchVersion(m.ctx, lookup))
		})
	case fieldDescription:
		m.session.SetDescription(value)
	case fieldIcon:
		m.session.SetIconURL(value)
	case fieldNotebook:
		m.session.SetNotebookName(value)
	case fieldSourceValue:
		_ = m.session.SetSourceValue(value)
	case fieldRevision:
		m.session.SetRevision(value)
	}
	return nil
}

func (m *Model) submit() tea.Cmd {
	return m.track("submitting", func() tea.Msg {
		_, err := m.controller.Submit(m.ctx)
		return opDoneMsg{op: "submit", err: err}
	})
}

func (m *Model) list() tea.Cmd {
	return m.track("loading services", func() tea.Msg {
		_, err := m.controller.List(m.ctx)
		return listedMsg{err: err}
	})
}

func (m *Model) clone() tea.Cmd {
	repo, ok := m.session.Draft().BuildSource.Repo()
	if !ok || repo.URL == "" {
		return nil
	}
	return m.track("cloning", func() tea.Msg {
		_, err := m.controller.Clone(m.ctx, repo.URL)
		return opDoneMsg{op: "clone", err: err}
	})
}

func (m *Model) deleteService(name string) tea.Cmd {
	return m.track("deleting "+name, func() tea.Msg {
		_, err := m.controller.Delete(m.ctx, name)
		return opDoneMsg{op: "delete", err: err}
	})
}

// track starts the spinner for a registry call.
func (m *Model) track(label string, call tea.Cmd) tea.Cmd {
	m.inflight++
	return tea.Batch(m.spinner.Start(label), call)
}

func (m *Model) settle() {
	if m.inflight > 0 {
		m.inflight--
	}
	if m.inflight == 0 {
		m.spinner.Stop()
	}
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	listing := m.controller.Listing()

	if m.confirmDelete != "" {
		name := m.confirmDelete
		m.confirmDelete = ""
		if msg.String() == "y" || msg.String() == "Y" {
			return m, m.deleteService(name)
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "ctrl+l", "q":
		m.mode = modeForm
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(listing)-1 {
			m.selected++
		}
	case "r":
		return m, m.list()
	case "d", "delete":
		if m.selected >= len(listing) {
			return m, nil
		}
		entry := listing[m.selected]
		if !entry.Deletable() {
			// Refused locally, no request is made.
			_, _ = m.controller.Delete(m.ctx, entry.Name)
			return m, nil
		}
		m.confirmDelete = entry.Name
	}
	return m, nil
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	next := m.focus
	for {
		next = (next + field(delta) + fieldCount) % fieldCount
		if next != fieldRevision || m.currentKind() == domain.SourceFromRepo {
			break
		}
	}
	m.focus = next
	return m.inputs[m.focus].Focus()
}

func (m *Model) cycleKind(delta int) {
	n := len(domain.SourceKinds)
	m.kindIdx = (m.kindIdx + delta + n) % n
	kind := domain.SourceKinds[m.kindIdx]
	_ = m.session.SelectSourceKind(kind)
	m.inputs[fieldSourceValue].SetValue("")
	m.inputs[fieldSourceValue].Placeholder = kind.Label()
	m.inputs[fieldRevision].SetValue("")
}

func (m Model) currentKind() domain.SourceKind {
	return domain.SourceKinds[m.kindIdx]
}

// syncFromDraft copies fields the registry may have filled in back into the
// inputs, leaving the focused one alone so typing is never clobbered.
func (m *Model) syncFromDraft() {
	draft := m.session.Draft()
	values := map[field]string{
		fieldVersion:     draft.Version,
		fieldDescription: draft.Description,
		fieldIcon:        draft.IconURL,
	}
	for f, v := range values {
		if f != m.focus {
			m.inputs[f].SetValue(v)
		}
	}
}

// Draft exposes the session's draft, mainly for tests.
func (m Model) Draft() domain.ServiceDraft {
	return m.session.Draft()
}

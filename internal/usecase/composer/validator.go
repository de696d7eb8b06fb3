package composer

import (
	"context"
	"fmt"

	"github.com/logilab/onyxia-composer/internal/boundaries/out"
	"github.com/logilab/onyxia-composer/internal/domain"
)

// NameLookup is a name check that has been issued but not applied yet.
type NameLookup struct {
	Seq  uint64
	Name string
}

// NameResult carries the registry's answer for a NameLookup.
type NameResult struct {
	Lookup NameLookup
	Check  domain.NameCheck
	Err    error
}

// VersionLookup is a version check that has been issued but not applied yet.
type VersionLookup struct {
	Seq     uint64
	Name    string
	Version string
}

// VersionResult carries the registry's answer for a VersionLookup.
type VersionResult struct {
	Lookup VersionLookup
	Check  domain.VersionCheck
	Err    error
}

// Validator reconciles name and version edits with the registry.
//
// Each edit goes through three steps: Begin updates the draft and issues a
// sequence number, Fetch performs the network call without touching the session,
// and Apply merges the answer only if no newer edit of the same field was issued
// in the meantime. Callers that dispatch Fetch asynchronously (a goroutine, a
// bubbletea command) get last-request-wins ordering regardless of completion order.
type Validator struct {
	session  *Session
	registry out.Registry
}

// NewValidator creates a validator working on session.
func NewValidator(session *Session, registry out.Registry) *Validator {
	return &Validator{session: session, registry: registry}
}

// BeginName records a name edit and returns the lookup to perform.
func (v *Validator) BeginName(name string) NameLookup {
	s := v.session
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Name = name
	s.edited()
	return NameLookup{Seq: s.name.issue(), Name: name}
}

// FetchName queries the registry for l. It does not touch the session.
func (v *Validator) FetchName(ctx context.Context, l NameLookup) NameResult {
	check, err := v.registry.CheckName(ctx, l.Name)
	return NameResult{Lookup: l, Check: check, Err: err}
}

// ApplyName merges r into the draft. It returns domain.ErrStaleResponse when a
// newer name edit exists, and the lookup error (already reported) when the
// registry call failed. Neither is fatal to the session.
func (v *Validator) ApplyName(r NameResult) error {
	s := v.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.name.isLatest(r.Lookup.Seq) {
		return domain.ErrStaleResponse
	}

	if r.Err != nil {
		s.name.state = domain.FieldUnknown
		s.reporter.Report("check_name", r.Err, "name", r.Lookup.Name, "seq", r.Lookup.Seq)
		return fmt.Errorf("check name %q: %w", r.Lookup.Name, r.Err)
	}

	s.name.state = domain.FieldConfirmed
	if r.Check.Exists {
		s.draft.ExistsRemotely = true
		s.draft.Version = r.Check.Version
		s.draft.Description = r.Check.Description
		s.draft.IconURL = r.Check.IconURL
		s.setStatusLocked(fmt.Sprintf("WARNING: %s already exists, it will be updated", r.Lookup.Name))
		return nil
	}

	s.draft.ExistsRemotely = false
	s.clearStatusLocked()
	return nil
}

// OnNameChange runs a complete name edit. It blocks for the duration of the
// lookup; run it in its own goroutine to keep the input surface responsive.
func (v *Validator) OnNameChange(ctx context.Context, name string) error {
	l := v.BeginName(name)
	return v.ApplyName(v.FetchName(ctx, l))
}

// BeginVersion records a version edit and returns the lookup to perform.
func (v *Validator) BeginVersion(version string) VersionLookup {
	s := v.session
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Version = version
	s.edited()
	return VersionLookup{Seq: s.version.issue(), Name: s.draft.Name, Version: version}
}

// FetchVersion queries the registry for l. It does not touch the session.
func (v *Validator) FetchVersion(ctx context.Context, l VersionLookup) VersionResult {
	check, err := v.registry.CheckVersion(ctx, l.Name, l.Version)
	return VersionResult{Lookup: l, Check: check, Err: err}
}

// ApplyVersion surfaces the registry's version message, following the same
// ordering and failure rules as ApplyName.
func (v *Validator) ApplyVersion(r VersionResult) error {
	s := v.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.version.isLatest(r.Lookup.Seq) {
		return domain.ErrStaleResponse
	}

	if r.Err != nil {
		s.version.state = domain.FieldUnknown
		s.reporter.Report("check_version", r.Err, "name", r.Lookup.Name, "version", r.Lookup.Version, "seq", r.Lookup.Seq)
		return fmt.Errorf("check version %q: %w", r.Lookup.Version, r.Err)
	}

	s.version.state = domain.FieldConfirmed
	if r.Check.Message != "" {
		s.setStatusLocked(r.Check.Message)
	} else {
		s.clearStatusLocked()
	}
	return nil
}

// OnVersionChange runs a complete version edit.
func (v *Validator) OnVersionChange(ctx context.Context, version string) error {
	l := v.BeginVersion(version)
	return v.ApplyVersion(v.FetchVersion(ctx, l))
}

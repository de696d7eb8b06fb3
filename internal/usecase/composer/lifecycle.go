package composer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/logilab/onyxia-composer/internal/boundaries/out"
	"github.com/logilab/onyxia-composer/internal/domain"
)

// Controller sequences submit, list, delete and clone against the registry and
// owns the session's status message and cached listing.
type Controller struct {
	session  *Session
	registry out.Registry
}

// NewController creates a controller working on session.
func NewController(session *Session, registry out.Registry) *Controller {
	return &Controller{session: session, registry: registry}
}

// Submit creates the draft's service, or updates it when it already exists.
// The returned status is also stored on the session. On success it holds the
// registry's message verbatim; treat it as markup from a semi-trusted source.
func (c *Controller) Submit(ctx context.Context) (domain.StatusMessage, error) {
	s := c.session
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return c.Status(), domain.ErrSubmitInProgress
	}
	s.clearStatusLocked()
	if err := s.draft.Validate(); err != nil {
		s.outcome = outcomeFailed
		s.setStatusLocked(domain.DescribeError(err))
		status := s.status
		s.mu.Unlock()
		return status, err
	}
	s.submitting = true
	req := s.draft.CreateRequest()
	s.mu.Unlock()

	message, err := c.registry.Create(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		s.outcome = outcomeFailed
		s.setStatusLocked(domain.DescribeError(err))
		return s.status, fmt.Errorf("submit %q: %w", req.Name, err)
	}

	s.outcome = outcomeSuccess
	if s.draft.Name == req.Name {
		s.draft.ExistsRemotely = true
		// Name lookups issued before the create are now outdated.
		s.name.issue()
		s.name.state = domain.FieldConfirmed
	}
	s.setStatusLocked(message)
	return s.status, nil
}

// List refreshes the cached listing from the registry, replacing it wholesale.
// On failure the previous snapshot is kept and the error becomes the status.
func (c *Controller) List(ctx context.Context) (domain.Listing, error) {
	c.resetStatus()

	services, err := c.registry.Services(ctx)

	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.setStatusLocked(domain.DescribeError(err))
		return s.listing, fmt.Errorf("list services: %w", err)
	}
	s.listing = domain.NewListing(services)
	return s.listing, nil
}

// Listing returns the last fetched snapshot.
func (c *Controller) Listing() domain.Listing {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing
}

// Delete removes a service. The composer's own service is refused before any
// request is made.
func (c *Controller) Delete(ctx context.Context, name string) (domain.StatusMessage, error) {
	c.resetStatus()

	name = strings.TrimSpace(name)
	if name == "" {
		return c.fail(fmt.Errorf("%w: service name is required", domain.ErrInvalidRequest))
	}
	if name == domain.ProtectedService {
		err := fmt.Errorf("%w: %s cannot be deleted", domain.ErrProtectedService, name)
		return c.fail(err)
	}

	message, err := c.registry.Delete(ctx, name)
	if err != nil {
		status, _ := c.fail(err)
		return status, fmt.Errorf("delete %q: %w", name, err)
	}
	return c.succeed(message), nil
}

// Clone asks the registry to clone repoURL, independently of any submit.
func (c *Controller) Clone(ctx context.Context, repoURL string) (domain.StatusMessage, error) {
	c.resetStatus()

	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return c.fail(fmt.Errorf("%w: repository URL is required", domain.ErrInvalidRequest))
	}

	message, err := c.registry.Clone(ctx, repoURL)
	if err != nil {
		status, _ := c.fail(err)
		return status, fmt.Errorf("clone %q: %w", repoURL, err)
	}
	return c.succeed(message), nil
}

// Status returns the current status message.
func (c *Controller) Status() domain.StatusMessage {
	return c.session.Status()
}

// DismissStatus hides the status message.
func (c *Controller) DismissStatus() {
	c.resetStatus()
}

func (c *Controller) resetStatus() {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearStatusLocked()
}

func (c *Controller) fail(err error) (domain.StatusMessage, error) {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatusLocked(domain.DescribeError(err))
	return s.status, err
}

func (c *Controller) succeed(message string) domain.StatusMessage {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatusLocked(message)
	return s.status
}

// IsRejectedLocally reports whether err was raised before reaching the registry.
func IsRejectedLocally(err error) bool {
	return errors.Is(err, domain.ErrProtectedService) ||
		errors.Is(err, domain.ErrInvalidRequest) ||
		errors.Is(err, domain.ErrInvalidDraft)
}

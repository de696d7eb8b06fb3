// Package in defines the use case contracts driven by the CLI and HTTP adapters.
package in

import (
	"context"

	"github.com/logilab/onyxia-composer/internal/domain"
)

// ComposerSession is the client-side composition session.
type ComposerSession interface {
	// Draft returns a copy of the current draft.
	Draft() domain.ServiceDraft
	// Status returns the current status message.
	Status() domain.StatusMessage
	// State returns the lifecycle state.
	State() domain.SessionState
}

// CatalogService is the reference registry's use case, one method per endpoint.
type CatalogService interface {
	CheckName(ctx context.Context, name string) (domain.NameCheck, error)
	CheckVersion(ctx context.Context, name, version string) (domain.VersionCheck, error)
	Create(ctx context.Context, req domain.CreateRequest) (string, error)
	Clone(ctx context.Context, repoURL string) (string, error)
	Services(ctx context.Context) (map[string]domain.ServiceSummary, error)
	Delete(ctx context.Context, name string) (string, error)
}

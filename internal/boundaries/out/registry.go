// Package out defines the ports the use cases drive: the remote registry, the
// catalog store behind the reference server, and error reporting.
package out

import (
	"context"

	"github.com/logilab/onyxia-composer/internal/domain"
)

// Registry defines the contract for the remote app registry.
// Transport failures are returned as *domain.NetworkError and rejected or
// malformed replies as *domain.ResponseError.
type Registry interface {
	// CheckName looks a service name up.
	CheckName(ctx context.Context, name string) (domain.NameCheck, error)

	// CheckVersion asks whether version is acceptable for name.
	CheckVersion(ctx context.Context, name, version string) (domain.VersionCheck, error)

	// Create creates or updates a service and returns the registry's message.
	Create(ctx context.Context, req domain.CreateRequest) (string, error)

	// Clone asks the registry to clone a repository ahead of a create.
	Clone(ctx context.Context, repoURL string) (string, error)

	// Services returns every published service keyed by name.
	Services(ctx context.Context) (map[string]domain.ServiceSummary, error)

	// Delete removes a service and returns the registry's message.
	Delete(ctx context.Context, name string) (string, error)
}

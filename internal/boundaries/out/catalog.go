package out

import (
	"context"

	"github.com/logilab/onyxia-composer/internal/domain"
)

// CatalogStore persists the reference registry's services.
type CatalogStore interface {
	// Get returns domain.ErrServiceNotFound when name is unknown.
	Get(ctx context.Context, name string) (*domain.Service, error)

	// Upsert inserts or replaces the service keyed by its name.
	Upsert(ctx context.Context, svc *domain.Service) error

	// List returns every service ordered by name.
	List(ctx context.Context) ([]domain.Service, error)

	// Delete returns domain.ErrServiceNotFound when name is unknown.
	Delete(ctx context.Context, name string) error
}

// RepositoryCloner fetches a repository into the server's work directory.
type RepositoryCloner interface {
	// Clone returns the directory the repository was checked out to.
	Clone(ctx context.Context, repoURL, revision string) (string, error)
}

// Package catalog implements the reference registry: it answers the composer's
// endpoints from a persistent catalog of services.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/logilab/onyxia-composer/internal/boundaries/out"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

// Service implements the in.CatalogService interface.
type Service struct {
	store  out.CatalogStore
	cloner out.RepositoryCloner
	log    *log.Logger
	now    func() time.Time
}

// NewService creates a catalog service. cloner may be nil, in which case clone
// requests are refused.
func NewService(store out.CatalogStore, cloner out.RepositoryCloner) *Service {
	return &Service{
		store:  store,
		cloner: cloner,
		log:    logger.GetLogger().WithPrefix("catalog"),
		now:    time.Now,
	}
}

// CheckName reports whether name is registered and, if so, its published metadata.
func (s *Service) CheckName(ctx context.Context, name string) (domain.NameCheck, error) {
	name = domain.NormalizeServiceName(name)
	if name == "" {
		return domain.NameCheck{Exists: false, Version: domain.DefaultVersion}, nil
	}

	svc, err := s.store.Get(ctx, name)
	if errors.Is(err, domain.ErrServiceNotFound) {
		return domain.NameCheck{Exists: false, Version: domain.DefaultVersion}, nil
	}
	if err != nil {
		return domain.NameCheck{}, fmt.Errorf("%w: lookup %s: %v", domain.ErrCatalogOperation, name, err)
	}

	return domain.NameCheck{
		Exists:      true,
		Version:     svc.Tag,
		Description: svc.Description,
		IconURL:     svc.IconURL,
	}, nil
}

// CheckVersion explains why version cannot be published for name. An empty
// message means it can.
func (s *Service) CheckVersion(ctx context.Context, name, version string) (domain.VersionCheck, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(version))
	if err != nil {
		return domain.VersionCheck{
			Message: fmt.Sprintf("%s is not a valid semantic version", html.EscapeString(version)),
		}, nil
	}

	name = domain.NormalizeServiceName(name)
	if name == "" {
		return domain.VersionCheck{}, nil
	}

	svc, err := s.store.Get(ctx, name)
	if errors.Is(err, domain.ErrServiceNotFound) {
		return domain.VersionCheck{}, nil
	}
	if err != nil {
		return domain.VersionCheck{}, fmt.Errorf("%w: lookup %s: %v", domain.ErrCatalogOperation, name, err)
	}

	return domain.VersionCheck{Message: html.EscapeString(notNewerMessage(v, svc.Tag))}, nil
}

// notNewerMessage explains why v cannot follow the published tag, or returns
// "" when v is strictly greater. A tag that does not parse never blocks.
func notNewerMessage(v *semver.Version, tag string) string {
	current, err := semver.NewVersion(tag)
	if err != nil || v.GreaterThan(current) {
		return ""
	}
	return fmt.Sprintf("Version %s must be greater than %s", v.Original(), tag)
}

// Create registers a new service or publishes a new version of an existing one.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (string, error) {
	name := domain.NormalizeServiceName(req.Name)
	log := s.log.With("usecase", "Create", "name", name, "version", req.Version)

	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}
	v, err := semver.StrictNewVersion(strings.TrimSpace(req.Version))
	if err != nil {
		return "", fmt.Errorf("%w: %s is not a valid semantic version", domain.ErrInvalidVersion, req.Version)
	}
	src, err := req.BuildSource()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if src.IsEmpty() {
		return "", fmt.Errorf("%w: %s is required for %s", domain.ErrInvalidRequest, strings.ToLower(src.Kind().Label()), src.Kind())
	}

	now := s.now().UTC()
	svc := &domain.Service{
		Name:         name,
		Description:  req.Description,
		IconURL:      strings.TrimSpace(req.IconURL),
		NotebookName: strings.TrimSpace(req.NotebookName),
		Tag:          v.Original(),
		Source:       src,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if svc.IconURL == "" {
		svc.IconURL = domain.DefaultIconURL
	}
	if svc.NotebookName == "" {
		svc.NotebookName = domain.DefaultNotebookName
	}

	existing, err := s.store.Get(ctx, name)
	switch {
	case errors.Is(err, domain.ErrServiceNotFound):
		existing = nil
	case err != nil:
		return "", fmt.Errorf("%w: lookup %s: %v", domain.ErrCatalogOperation, name, err)
	default:
		if msg := notNewerMessage(v, existing.Tag); msg != "" {
			return "", fmt.Errorf("%w: %s", domain.ErrVersionNotNewer, msg)
		}
		svc.CreatedAt = existing.CreatedAt
	}

	if err := s.store.Upsert(ctx, svc); err != nil {
		return "", fmt.Errorf("%w: store %s: %v", domain.ErrCatalogOperation, name, err)
	}

	if existing != nil {
		log.Info("service updated", "previous", existing.Tag, "source", src.Kind())
		return fmt.Sprintf("Service <b>%s</b> is updated to %s", html.EscapeString(name), html.EscapeString(svc.Tag)), nil
	}
	log.Info("service created", "source", src.Kind())
	return fmt.Sprintf("Service <b>%s</b> is created", html.EscapeString(name)), nil
}

// Clone checks repoURL out into the server's work directory.
func (s *Service) Clone(ctx context.Context, repoURL string) (string, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return "", fmt.Errorf("%w: repository URL is required", domain.ErrInvalidRequest)
	}
	if s.cloner == nil {
		return "", fmt.Errorf("%w: cloning is disabled on this registry", domain.ErrCloneFailed)
	}

	dir, err := s.cloner.Clone(ctx, repoURL, "")
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrCloneFailed, err)
	}

	s.log.Info("repository cloned", "url", repoURL, "dir", dir)
	return fmt.Sprintf("Repository %s cloned", html.EscapeString(repoURL)), nil
}

// Services returns every registered service keyed by name.
func (s *Service) Services(ctx context.Context) (map[string]domain.ServiceSummary, error) {
	services, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", domain.ErrCatalogOperation, err)
	}

	result := make(map[string]domain.ServiceSummary, len(services))
	for _, svc := range services {
		result[svc.Name] = svc.Summary()
	}
	return result, nil
}

// Delete removes a service. The composer's own service cannot be removed.
func (s *Service) Delete(ctx context.Context, name string) (string, error) {
	name = domain.NormalizeServiceName(name)
	if name == "" {
		return "", fmt.Errorf("%w: service name is required", domain.ErrInvalidRequest)
	}
	if name == domain.ProtectedService {
		return "", fmt.Errorf("%w: %s cannot be deleted", domain.ErrProtectedService, name)
	}

	if err := s.store.Delete(ctx, name); err != nil {
		if errors.Is(err, domain.ErrServiceNotFound) {
			return "", fmt.Errorf("%w: %s", domain.ErrServiceNotFound, name)
		}
		return "", fmt.Errorf("%w: delete %s: %v", domain.ErrCatalogOperation, name, err)
	}

	s.log.Info("service deleted", "name", name)
	return fmt.Sprintf("Service <b>%s</b> is deleted", html.EscapeString(name)), nil
}

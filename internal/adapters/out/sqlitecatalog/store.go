// Package sqlitecatalog persists the reference registry catalog in SQLite.
package sqlitecatalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/logilab/onyxia-composer/internal/boundaries/out"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

// Ensure Store implements out.CatalogStore.
var _ out.CatalogStore = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS service (
	name          TEXT PRIMARY KEY,
	description   TEXT NOT NULL DEFAULT '',
	icon_url      TEXT NOT NULL DEFAULT '',
	notebook_name TEXT NOT NULL DEFAULT '',
	tag           TEXT NOT NULL,
	app_type      TEXT NOT NULL,
	app_value     TEXT NOT NULL,
	revision      TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
)`

const (
	selectColumns = `SELECT name, description, icon_url, notebook_name, tag, app_type, app_value, revision, created_at, updated_at FROM service`

	upsertService = `
		INSERT INTO service (name, description, icon_url, notebook_name, tag, app_type, app_value, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			icon_url = excluded.icon_url,
			notebook_name = excluded.notebook_name,
			tag = excluded.tag,
			app_type = excluded.app_type,
			app_value = excluded.app_value,
			revision = excluded.revision,
			updated_at = excluded.updated_at`
)

// Store is a CatalogStore backed by a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog database at path. Use ":memory:"
// for a throwaway catalog.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("catalog database ready", "path", path)
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, name string) (*domain.Service, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE name = ?`, name)
	svc, err := scanService(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service %s: %w", name, err)
	}
	return svc, nil
}

func (s *Store) Upsert(ctx context.Context, svc *domain.Service) error {
	revision := ""
	if repo, ok := svc.Source.Repo(); ok {
		revision = repo.Revision
	}

	_, err := s.db.ExecContext(ctx, upsertService,
		svc.Name, svc.Description, svc.IconURL, svc.NotebookName, svc.Tag,
		string(svc.Source.Kind()), svc.Source.Value(), revision,
		svc.CreatedAt.UTC().Format(time.RFC3339Nano), svc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert service %s: %w", svc.Name, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.Service, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, *svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM service WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete service %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete service %s: %w", name, err)
	}
	if n == 0 {
		return domain.ErrServiceNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanService(row scanner) (*domain.Service, error) {
	var (
		svc                      domain.Service
		appType, value, revision string
		createdAt, updatedAt     string
	)
	if err := row.Scan(&svc.Name, &svc.Description, &svc.IconURL, &svc.NotebookName, &svc.Tag,
		&appType, &value, &revision, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	src, err := domain.ResolveBuildSource(domain.SourceKind(appType), value)
	if err != nil {
		return nil, err
	}
	svc.Source = src.WithRevision(revision)

	if svc.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at for %s: %w", svc.Name, err)
	}
	if svc.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at for %s: %w", svc.Name, err)
	}
	return &svc, nil
}

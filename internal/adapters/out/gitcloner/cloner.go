// Package gitcloner checks repositories out for the reference registry.
package gitcloner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/logilab/onyxia-composer/internal/boundaries/out"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

// Ensure Cloner implements out.RepositoryCloner.
var _ out.RepositoryCloner = (*Cloner)(nil)

// Cloner makes shallow checkouts under a work directory, one directory per
// repository name. A repeated clone replaces the previous checkout.
type Cloner struct {
	workdir string
	mu      sync.Mutex
}

// New returns a cloner writing under workdir.
func New(workdir string) *Cloner {
	return &Cloner{workdir: workdir}
}

// Clone checks out repoURL at revision (a branch or tag; empty means the
// default branch) and returns the checkout directory.
func (c *Cloner) Clone(ctx context.Context, repoURL, revision string) (string, error) {
	name, err := domain.CloneDirName(repoURL)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.workdir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	target := filepath.Join(c.workdir, name)
	staging, err := os.MkdirTemp(c.workdir, "."+name+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := c.cloneInto(ctx, staging, repoURL, revision); err != nil {
		return "", err
	}

	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", target, err)
	}
	if err := os.Rename(staging, target); err != nil {
		return "", fmt.Errorf("failed to move checkout into place: %w", err)
	}

	logger.Debug("repository checked out", "url", repoURL, "revision", revision, "dir", target)
	return target, nil
}

func (c *Cloner) cloneInto(ctx context.Context, dir, repoURL, revision string) error {
	if revision == "" {
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: repoURL, Depth: 1})
		if err != nil {
			return fmt.Errorf("failed to clone repository: %w", err)
		}
		return nil
	}

	refs := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(revision),
		plumbing.NewTagReferenceName(revision),
	}
	var lastErr error
	for _, ref := range refs {
		_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
			URL:           repoURL,
			Depth:         1,
			ReferenceName: ref,
			SingleBranch:  true,
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, plumbing.ErrReferenceNotFound) && !isNoMatchingRef(err) {
			break
		}
		// A failed attempt can leave a partial .git behind.
		if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
			return fmt.Errorf("failed to reset staging directory: %w", err)
		}
	}
	return fmt.Errorf("failed to clone repository at %s: %w", revision, lastErr)
}

func isNoMatchingRef(err error) bool {
	var noMatch git.NoMatchingRefSpecError
	return errors.As(err, &noMatch)
}

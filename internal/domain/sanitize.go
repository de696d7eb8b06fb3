package domain

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// NormalizeServiceName is the key a service is stored under: surrounding
// whitespace is trimmed and inner spaces become underscores, so "my app"
// and "my_app" address the same entry.
func NormalizeServiceName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

var cloneDirPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// CloneDirName derives the checkout directory name from a repository URL.
// "https://host/org/repo.git" and "git@host:org/repo" both give "repo".
//
// The result is a single path element; anything that could escape the clone
// root is rejected.
func CloneDirName(repoURL string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	if trimmed == "" {
		return "", fmt.Errorf("%w: repository URL is required", ErrInvalidRequest)
	}

	if i := strings.LastIndex(trimmed, ":"); i > strings.LastIndex(trimmed, "/") {
		trimmed = trimmed[i+1:]
	}
	name := strings.TrimSuffix(path.Base(trimmed), ".git")

	if name == "." || name == ".." || !cloneDirPattern.MatchString(name) {
		return "", fmt.Errorf("%w: cannot derive a directory from %q", ErrInvalidRequest, repoURL)
	}
	return name, nil
}

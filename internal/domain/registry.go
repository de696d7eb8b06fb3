package domain

import (
	"sort"
	"time"
)

// ProtectedService backs the composer itself and is never offered for deletion.
const ProtectedService = "jupyter-composer"

// DefaultIconURL is used by the registry when an app is created without an icon.
const DefaultIconURL = "https://raw.githubusercontent.com/voila-dashboards/voila/main/docs/voila-logo.svg"

// RegistryEntry is one row of the remote listing.
type RegistryEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Tag         string `json:"tag" yaml:"tag"`
}

// Listing is a snapshot of the registry, ordered by name.
type Listing []RegistryEntry

// NewListing builds a listing from the registry's name-keyed map.
func NewListing(services map[string]ServiceSummary) Listing {
	listing := make(Listing, 0, len(services))
	for name, svc := range services {
		listing = append(listing, RegistryEntry{Name: name, Description: svc.Description, Tag: svc.Tag})
	}
	sort.Slice(listing, func(i, j int) bool { return listing[i].Name < listing[j].Name })
	return listing
}

// Deletable reports whether the entry may be offered for deletion.
func (e RegistryEntry) Deletable() bool {
	return e.Name != ProtectedService
}

// ServiceSummary is the value side of the services map.
type ServiceSummary struct {
	Description string `json:"description"`
	Tag         string `json:"tag"`
}

// NameCheck is the registry's answer to a name lookup.
type NameCheck struct {
	Exists      bool
	Version     string
	Description string
	IconURL     string
}

// VersionCheck is the registry's answer to a version lookup. An empty Message means
// the version is acceptable.
type VersionCheck struct {
	Message string
}

// Service is a catalog record held by the reference registry.
type Service struct {
	Name         string
	Description  string
	IconURL      string
	NotebookName string
	Tag          string
	Source       BuildSource
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary projects the record onto the listing shape.
func (s Service) Summary() ServiceSummary {
	return ServiceSummary{Description: s.Description, Tag: s.Tag}
}

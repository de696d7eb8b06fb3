// Package dto holds the JSON bodies exchanged on the registry endpoints.
package dto

import "github.com/logilab/onyxia-composer/internal/domain"

// checkSrvName takes a bare JSON string and clone takes the repository URL the
// same way; create takes domain.CreateRequest.

// VersionCheckRequest is the body of checkSrvVersion.
type VersionCheckRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DeleteRequest is the body of delete.
type DeleteRequest struct {
	Service string `json:"service"`
}

// NameCheckResponse answers checkSrvName. The published fields are only set
// when the service exists.
type NameCheckResponse struct {
	Exists      bool   `json:"exists"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// MessageResponse carries a human-readable message, possibly with markup.
type MessageResponse struct {
	Message string `json:"message"`
}

// ServicesResponse answers services.
type ServicesResponse struct {
	Services map[string]domain.ServiceSummary `json:"services"`
}

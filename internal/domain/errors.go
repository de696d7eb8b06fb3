package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business-level errors that can occur in the system.
// These errors are used across layers to communicate specific failure conditions.
var (
	// Draft errors
	ErrUnsupportedSourceKind = errors.New("unsupported build source kind")
	ErrInvalidDraft          = errors.New("invalid service draft")

	// Session errors
	ErrStaleResponse    = errors.New("stale response discarded")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrProtectedService = errors.New("service is protected")

	// Catalog errors
	ErrServiceNotFound  = errors.New("service not found")
	ErrInvalidVersion   = errors.New("invalid version")
	ErrVersionNotNewer  = errors.New("version is not newer than the published tag")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrCloneFailed      = errors.New("failed to clone repository")
	ErrCatalogOperation = errors.New("catalog operation failed")
)

// NetworkError reports a transport failure: connection refused, timeout, DNS.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ResponseError reports a request the registry rejected, or a reply it could not decode.
type ResponseError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *ResponseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: request failed with status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: %d %s: %s", e.Endpoint, e.Status, http.StatusText(e.Status), e.Detail)
}

// DescribeError turns an operation failure into the text shown to the user.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Error()
	}

	var respErr *ResponseError
	if errors.As(err, &respErr) {
		if respErr.Detail != "" {
			return respErr.Detail
		}
		return fmt.Sprintf("request failed with status %d", respErr.Status)
	}

	return err.Error()
}

// Package registryhttp provides the HTTP client for the composer registry.
package registryhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/logilab/onyxia-composer/internal/adapters/dto"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/pkg/logger"
)

// DefaultNamespace is the path prefix every endpoint lives under.
const DefaultNamespace = "jupyterlab-onyxia-composer"

// Registry endpoints.
const (
	EndpointCheckName    = "checkSrvName"
	EndpointCheckVersion = "checkSrvVersion"
	EndpointCreate       = "create"
	EndpointClone        = "clone"
	EndpointServices     = "services"
	EndpointDelete       = "delete"
)

// maxReplySize caps how much of a reply body is read.
const maxReplySize = 4 << 20

// Client is an HTTP client for the registry. It keeps no state between calls
// and never retries.
type Client struct {
	baseURL    string
	namespace  string
	httpClient *http.Client
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// NewClient creates a registry client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		namespace: DefaultNamespace,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithNamespace overrides the endpoint path prefix.
func WithNamespace(namespace string) ClientOption {
	return func(c *Client) {
		if ns := strings.Trim(namespace, "/"); ns != "" {
			c.namespace = ns
		}
	}
}

// Reply is a successful registry response. JSON holds the body when it parsed
// as JSON (an empty body reads as "{}"); otherwise Text holds it verbatim.
type Reply struct {
	Status int
	JSON   json.RawMessage
	Text   string
}

// IsJSON reports whether the reply body was JSON.
func (r Reply) IsJSON() bool {
	return r.JSON != nil
}

// Call issues one request. Transport failures return *domain.NetworkError and
// non-2xx replies return *domain.ResponseError.
func (c *Client) Call(ctx context.Context, endpoint, method string, body any) (Reply, error) {
	url := c.baseURL + "/" + c.namespace + "/" + endpoint

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return Reply{}, fmt.Errorf("failed to marshal %s request body: %w", endpoint, err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return Reply{}, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Reply{}, &domain.NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return Reply{}, &domain.NetworkError{Endpoint: endpoint, Err: err}
	}
	logger.Debug("registry call", "endpoint", endpoint, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", resp.Header.Get("X-Request-ID"))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Reply{}, responseError(endpoint, resp.StatusCode, raw)
	}

	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0:
		return Reply{Status: resp.StatusCode, JSON: json.RawMessage("{}")}, nil
	case json.Valid(trimmed):
		return Reply{Status: resp.StatusCode, JSON: json.RawMessage(trimmed)}, nil
	default:
		return Reply{Status: resp.StatusCode, Text: string(raw)}, nil
	}
}

func responseError(endpoint string, status int, raw []byte) *domain.ResponseError {
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Message != "" {
		return &domain.ResponseError{Endpoint: endpoint, Status: status, Detail: errResp.Message}
	}
	return &domain.ResponseError{Endpoint: endpoint, Status: status, Detail: strings.TrimSpace(string(raw))}
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (Reply, error) {
	return c.Call(ctx, endpoint, http.MethodPost, body)
}

// CheckName asks whether name is already registered.
func (c *Client) CheckName(ctx context.Context, name string) (domain.NameCheck, error) {
	reply, err := c.post(ctx, EndpointCheckName, name)
	if err != nil {
		return domain.NameCheck{}, err
	}
	return decodeNameCheck(EndpointCheckName, reply)
}

// CheckVersion asks whether version may be published for name.
func (c *Client) CheckVersion(ctx context.Context, name, version string) (domain.VersionCheck, error) {
	reply, err := c.post(ctx, EndpointCheckVersion, dto.VersionCheckRequest{Name: name, Version: version})
	if err != nil {
		return domain.VersionCheck{}, err
	}
	message, err := decodeMessage(EndpointCheckVersion, reply, false)
	if err != nil {
		return domain.VersionCheck{}, err
	}
	return domain.VersionCheck{Message: message}, nil
}

// Create creates or updates a service.
func (c *Client) Create(ctx context.Context, req domain.CreateRequest) (string, error) {
	reply, err := c.post(ctx, EndpointCreate, req)
	if err != nil {
		return "", err
	}
	return decodeMessage(EndpointCreate, reply, true)
}

// Clone asks the registry to clone repoURL.
func (c *Client) Clone(ctx context.Context, repoURL string) (string, error) {
	reply, err := c.post(ctx, EndpointClone, repoURL)
	if err != nil {
		return "", err
	}
	return decodeMessage(EndpointClone, reply, true)
}

// Services returns the registry's catalog keyed by service name.
func (c *Client) Services(ctx context.Context) (map[string]domain.ServiceSummary, error) {
	reply, err := c.post(ctx, EndpointServices, nil)
	if err != nil {
		return nil, err
	}
	return decodeServices(EndpointServices, reply)
}

// Delete removes a service.
func (c *Client) Delete(ctx context.Context, name string) (string, error) {
	reply, err := c.post(ctx, EndpointDelete, dto.DeleteRequest{Service: name})
	if err != nil {
		return "", err
	}
	return decodeMessage(EndpointDelete, reply, true)
}

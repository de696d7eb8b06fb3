package registryhttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logilab/onyxia-composer/internal/domain"
)

func newTestServer(t *testing.T, endpoint string, handler func(w http.ResponseWriter, body []byte)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+DefaultNamespace+"/"+endpoint, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		handler(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClient_CheckName(t *testing.T) {
	client := newTestServer(t, EndpointCheckName, func(w http.ResponseWriter, body []byte) {
		assert.JSONEq(t, `"myapp"`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"exists":true,"version":"1.2.0","description":"d","icon":"i"}`))
	})

	check, err := client.CheckName(context.Background(), "myapp")
	require.NoError(t, err)
	assert.Equal(t, domain.NameCheck{Exists: true, Version: "1.2.0", Description: "d", IconURL: "i"}, check)
}

func TestClient_CheckName_FailsClosed(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "missing exists", reply: `{"version":"1.0.0"}`},
		{name: "wrong type", reply: `{"exists":"yes"}`},
		{name: "plain text", reply: `ok`},
		{name: "empty body", reply: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, EndpointCheckName, func(w http.ResponseWriter, _ []byte) {
				_, _ = w.Write([]byte(tt.reply))
			})

			_, err := client.CheckName(context.Background(), "x")
			var respErr *domain.ResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, http.StatusOK, respErr.Status)
			assert.Contains(t, respErr.Detail, "malformed reply")
		})
	}
}

func TestClient_CheckVersion(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "message", reply: `{"message":"Version 1.0.0 must be greater than 1.2.0"}`, want: "Version 1.0.0 must be greater than 1.2.0"},
		{name: "empty object", reply: `{}`, want: ""},
		{name: "empty body", reply: ``, want: ""},
		{name: "plain text", reply: `looks fine`, want: "looks fine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, EndpointCheckVersion, func(w http.ResponseWriter, body []byte) {
				assert.JSONEq(t, `{"name":"myapp","version":"1.0.0"}`, string(body))
				_, _ = w.Write([]byte(tt.reply))
			})

			check, err := client.CheckVersion(context.Background(), "myapp", "1.0.0")
			require.NoError(t, err)
			assert.Equal(t, tt.want, check.Message)
		})
	}
}

func TestClient_Create(t *testing.T) {
	client := newTestServer(t, EndpointCreate, func(w http.ResponseWriter, body []byte) {
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "fromRepo", req["appType"])
		assert.Equal(t, "https://x/y.git", req["appRepoURL"])
		assert.NotContains(t, req, "appImage")
		_, _ = w.Write([]byte(`{"message":"created"}`))
	})

	d := domain.NewServiceDraft()
	d.Name = "myapp"
	d.BuildSource, _ = domain.ResolveBuildSource(domain.SourceFromRepo, "https://x/y.git")

	message, err := client.Create(context.Background(), d.CreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "created", message)
}

func TestClient_Create_RichTextKeptVerbatim(t *testing.T) {
	client := newTestServer(t, EndpointCreate, func(w http.ResponseWriter, _ []byte) {
		_, _ = w.Write([]byte(`{"message":"Service <b>myapp</b> is created"}`))
	})

	message, err := client.Create(context.Background(), domain.CreateRequest{Name: "myapp"})
	require.NoError(t, err)
	assert.Equal(t, "Service <b>myapp</b> is created", message)
}

func TestClient_Clone(t *testing.T) {
	client := newTestServer(t, EndpointClone, func(w http.ResponseWriter, body []byte) {
		assert.JSONEq(t, `"https://x/y.git"`, string(body))
		_, _ = w.Write([]byte(`"Repository cloned"`))
	})

	message, err := client.Clone(context.Background(), "https://x/y.git")
	require.NoError(t, err)
	assert.Equal(t, "Repository cloned", message)
}

func TestClient_Services(t *testing.T) {
	client := newTestServer(t, EndpointServices, func(w http.ResponseWriter, body []byte) {
		assert.Empty(t, body)
		_, _ = w.Write([]byte(`{"services":{"a":{"description":"first","tag":"1.0.0"},"b":{"description":"","tag":"0.1.0"}}}`))
	})

	services, err := client.Services(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.ServiceSummary{
		"a": {Description: "first", Tag: "1.0.0"},
		"b": {Tag: "0.1.0"},
	}, services)
}

func TestClient_Services_FailsClosed(t *testing.T) {
	for _, reply := range []string{`{}`, `{"services":null}`, `{"services":[1,2]}`, `<html>`} {
		t.Run(reply, func(t *testing.T) {
			client := newTestServer(t, EndpointServices, func(w http.ResponseWriter, _ []byte) {
				_, _ = w.Write([]byte(reply))
			})

			_, err := client.Services(context.Background())
			assert.ErrorAs(t, err, new(*domain.ResponseError))
		})
	}
}

func TestClient_Delete(t *testing.T) {
	client := newTestServer(t, EndpointDelete, func(w http.ResponseWriter, body []byte) {
		assert.JSONEq(t, `{"service":"old-app"}`, string(body))
		_, _ = w.Write([]byte(`{"message":"old-app deleted"}`))
	})

	message, err := client.Delete(context.Background(), "old-app")
	require.NoError(t, err)
	assert.Equal(t, "old-app deleted", message)
}

func TestClient_MessageRequiredOnMutations(t *testing.T) {
	calls := []struct {
		endpoint string
		call     func(c *Client) (string, error)
	}{
		{EndpointCreate, func(c *Client) (string, error) {
			return c.Create(context.Background(), domain.CreateRequest{Name: "myapp"})
		}},
		{EndpointDelete, func(c *Client) (string, error) { return c.Delete(context.Background(), "old-app") }},
		{EndpointClone, func(c *Client) (string, error) { return c.Clone(context.Background(), "https://x/y.git") }},
	}

	for _, tt := range calls {
		for _, reply := range []string{`{"status":"queued"}`, `{}`, ``} {
			t.Run(tt.endpoint+" "+reply, func(t *testing.T) {
				client := newTestServer(t, tt.endpoint, func(w http.ResponseWriter, _ []byte) {
					_, _ = w.Write([]byte(reply))
				})

				message, err := tt.call(client)
				var respErr *domain.ResponseError
				require.ErrorAs(t, err, &respErr)
				assert.Equal(t, tt.endpoint, respErr.Endpoint)
				assert.Contains(t, respErr.Detail, "missing message")
				assert.Empty(t, message)
			})
		}
	}
}

func TestClient_ErrorReplies(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{name: "json message", status: http.StatusConflict, body: `{"message":"version exists"}`, wantDetail: "version exists"},
		{name: "json without message", status: http.StatusBadRequest, body: `{"error":"bad"}`, wantDetail: `{"error":"bad"}`},
		{name: "plain text", status: http.StatusInternalServerError, body: "Internal Server Error\n", wantDetail: "Internal Server Error"},
		{name: "empty", status: http.StatusBadGateway, body: "", wantDetail: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, EndpointDelete, func(w http.ResponseWriter, _ []byte) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Delete(context.Background(), "x")
			var respErr *domain.ResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, tt.status, respErr.Status)
			assert.Equal(t, tt.wantDetail, respErr.Detail)
			assert.Equal(t, EndpointDelete, respErr.Endpoint)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Services(context.Background())
	var netErr *domain.NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, EndpointServices, netErr.Endpoint)
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := client.CheckName(context.Background(), "slow")
	assert.ErrorAs(t, err, new(*domain.NetworkError))
}

func TestClient_WithNamespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/jovyan/composer/services", r.URL.Path)
		_, _ = w.Write([]byte(`{"services":{}}`))
	}))
	defer srv.Close()

	services, err := NewClient(srv.URL, WithNamespace("/user/jovyan/composer/")).Services(context.Background())
	require.NoError(t, err)
	assert.Empty(t, services)
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/logilab/onyxia-composer/internal/boundaries/out/mocks"
	"github.com/logilab/onyxia-composer/internal/domain"
	"github.com/logilab/onyxia-composer/internal/usecase/composer"
)

func newParts(t *testing.T) (composerParts, *mocks.MockRegistry) {
	t.Helper()
	registry := mocks.NewMockRegistry(t)
	session := composer.NewSession(&mocks.RecordingReporter{})
	return composerParts{
		session:    session,
		validator:  composer.NewValidator(session, registry),
		controller: composer.NewController(session, registry),
	}, registry
}

func TestRunCreate_NewService(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("CheckName", mock.Anything, "myapp").Return(domain.NameCheck{Exists: false, Version: "0.0.1"}, nil).Once()
	registry.On("CheckVersion", mock.Anything, "myapp", "0.0.1").Return(domain.VersionCheck{}, nil).Once()
	registry.On("Create", mock.Anything, domain.CreateRequest{
		Name:         "myapp",
		Version:      "0.0.1",
		NotebookName: "index.ipynb",
		AppType:      domain.SourceFromRepo,
		AppRepoURL:   "https://x/y.git",
		Revision:     "main",
	}).Return("Service <b>myapp</b> is created", nil).Once()

	var out bytes.Buffer
	err := runCreate(context.Background(), parts, createOptions{
		Name:         "myapp",
		Version:      "0.0.1",
		NotebookName: "index.ipynb",
		Repo:         "https://x/y.git",
		Revision:     "main",
	}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Service myapp is created")
	assert.NotContains(t, out.String(), "<b>")
}

func TestRunCreate_ExistingServiceKeepsPublishedFields(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("CheckName", mock.Anything, "myapp").
		Return(domain.NameCheck{Exists: true, Version: "1.0.0", Description: "published", IconURL: "https://i/x.svg"}, nil).Once()
	registry.On("CheckVersion", mock.Anything, "myapp", "1.1.0").Return(domain.VersionCheck{}, nil).Once()
	registry.On("Create", mock.Anything, mock.MatchedBy(func(req domain.CreateRequest) bool {
		return req.Version == "1.1.0" && req.Description == "published" &&
			req.IconURL == "https://i/x.svg" && req.AppImage == "python:3.12"
	})).Return("Service <b>myapp</b> is updated to 1.1.0", nil).Once()

	var out bytes.Buffer
	err := runCreate(context.Background(), parts, createOptions{
		Name:       "myapp",
		Version:    "1.1.0",
		Image:      "python:3.12",
		versionSet: true,
	}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "myapp already exists, it will be updated")
	assert.Contains(t, out.String(), "is updated to 1.1.0")
}

func TestRunCreate_VersionRejected(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("CheckName", mock.Anything, "myapp").Return(domain.NameCheck{Exists: true, Version: "2.0.0"}, nil).Once()
	registry.On("CheckVersion", mock.Anything, "myapp", "1.0.0").
		Return(domain.VersionCheck{Message: "Version 1.0.0 must be greater than 2.0.0"}, nil).Once()

	var out bytes.Buffer
	err := runCreate(context.Background(), parts, createOptions{
		Name: "myapp", Version: "1.0.0", Dir: "/srv/app", versionSet: true,
	}, &out)

	require.ErrorIs(t, err, ErrVersionRejected)
	assert.Contains(t, out.String(), "must be greater than 2.0.0")
	registry.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRunCreate_ExistingServiceWithoutVersionFlag(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("CheckName", mock.Anything, "myapp").Return(domain.NameCheck{Exists: true, Version: "1.0.0"}, nil).Once()
	registry.On("CheckVersion", mock.Anything, "myapp", "1.0.0").
		Return(domain.VersionCheck{Message: "Version 1.0.0 must be greater than 1.0.0"}, nil).Once()

	var out bytes.Buffer
	err := runCreate(context.Background(), parts, createOptions{
		Name: "myapp", Version: domain.DefaultVersion, Repo: "https://x/y.git",
	}, &out)

	require.ErrorIs(t, err, ErrVersionRejected)
	assert.Contains(t, out.String(), "must be greater than 1.0.0")
	assert.Contains(t, out.String(), "pass --version")
	registry.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRunCreate_DryRun(t *testing.T) {
	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{outputJSON, json.Unmarshal},
		{outputYAML, yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			parts, registry := newParts(t)
			registry.On("CheckName", mock.Anything, "myapp").Return(domain.NameCheck{}, nil).Once()
			registry.On("CheckVersion", mock.Anything, "myapp", "0.2.0").Return(domain.VersionCheck{}, nil).Once()

			var out bytes.Buffer
			err := runCreate(context.Background(), parts, createOptions{
				Name: "myapp", Version: "0.2.0", NotebookName: "app.ipynb", Image: "python:3.12",
				DryRun: true, Output: tt.format, versionSet: true, notebookSet: true,
			}, &out)
			require.NoError(t, err)

			var req domain.CreateRequest
			require.NoError(t, tt.decode(out.Bytes(), &req))
			assert.Equal(t, domain.CreateRequest{
				Name:         "myapp",
				Version:      "0.2.0",
				NotebookName: "app.ipynb",
				AppType:      domain.SourceFromDockerImage,
				AppImage:     "python:3.12",
			}, req)
			registry.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRunCreate_InvalidOptions(t *testing.T) {
	parts, _ := newParts(t)

	err := runCreate(context.Background(), parts, createOptions{Name: "x", Revision: "main", Image: "img"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "--revision requires --repo")

	err = runCreate(context.Background(), parts, createOptions{Name: "x", Image: "img", DryRun: true, Output: "xml"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestRunCheck(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("CheckName", mock.Anything, "myapp").Return(domain.NameCheck{Exists: true, Version: "1.0.0", Description: "d"}, nil).Once()
	registry.On("CheckVersion", mock.Anything, "myapp", "1.0.1").Return(domain.VersionCheck{}, nil).Once()

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), parts, "myapp", "1.0.1", &out))

	assert.Contains(t, out.String(), "myapp already exists")
	assert.Contains(t, out.String(), "1.0.0")
	assert.Contains(t, out.String(), "version 1.0.1 is accepted")
}

func TestRunCheck_AvailableName(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("CheckName", mock.Anything, "fresh").Return(domain.NameCheck{}, nil).Once()

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), parts, "fresh", "", &out))
	assert.Contains(t, out.String(), "fresh is available")
}

func TestRunCheck_RegistryDown(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("CheckName", mock.Anything, "x").
		Return(domain.NameCheck{}, &domain.NetworkError{Endpoint: "checkSrvName", Err: errors.New("connection refused")}).Once()

	err := runCheck(context.Background(), parts, "x", "", &bytes.Buffer{})
	var netErr *domain.NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestRunList(t *testing.T) {
	services := map[string]domain.ServiceSummary{
		"beta":  {Description: "second", Tag: "0.1.0"},
		"alpha": {Description: "first", Tag: "1.0.0"},
	}

	t.Run("table", func(t *testing.T) {
		parts, registry := newParts(t)
		registry.On("Services", mock.Anything).Return(services, nil).Once()

		var out bytes.Buffer
		require.NoError(t, runList(context.Background(), parts.controller, outputTable, &out))
		assert.Contains(t, out.String(), "alpha")
		assert.Contains(t, out.String(), "2 service(s)")
	})

	t.Run("json", func(t *testing.T) {
		parts, registry := newParts(t)
		registry.On("Services", mock.Anything).Return(services, nil).Once()

		var out bytes.Buffer
		require.NoError(t, runList(context.Background(), parts.controller, outputJSON, &out))
		assert.JSONEq(t, `[
			{"name":"alpha","description":"first","tag":"1.0.0"},
			{"name":"beta","description":"second","tag":"0.1.0"}
		]`, out.String())
	})

	t.Run("empty", func(t *testing.T) {
		parts, registry := newParts(t)
		registry.On("Services", mock.Anything).Return(map[string]domain.ServiceSummary{}, nil).Once()

		var out bytes.Buffer
		require.NoError(t, runList(context.Background(), parts.controller, outputTable, &out))
		assert.Contains(t, out.String(), "No services registered")
	})
}

func TestRunDelete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		parts, registry := newParts(t)
		registry.On("Delete", mock.Anything, "old").Return("Service <b>old</b> is deleted", nil).Once()

		var asked string
		confirm := func(q string) (bool, error) { asked = q; return true, nil }

		var out bytes.Buffer
		require.NoError(t, runDelete(context.Background(), parts.controller, "old", confirm, &out))
		assert.Equal(t, "Delete service old?", asked)
		assert.Contains(t, out.String(), "Service old is deleted")
	})

	t.Run("declined", func(t *testing.T) {
		parts, registry := newParts(t)

		var out bytes.Buffer
		confirm := func(string) (bool, error) { return false, nil }
		require.NoError(t, runDelete(context.Background(), parts.controller, "old", confirm, &out))
		assert.Contains(t, out.String(), "Aborted")
		registry.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("protected service is refused without prompting", func(t *testing.T) {
		parts, registry := newParts(t)

		confirm := func(string) (bool, error) {
			t.Fatal("prompted for the protected service")
			return false, nil
		}
		var out bytes.Buffer
		err := runDelete(context.Background(), parts.controller, domain.ProtectedService, confirm, &out)
		require.ErrorIs(t, err, domain.ErrProtectedService)
		assert.Contains(t, out.String(), "cannot be deleted")
		registry.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestRunClone(t *testing.T) {
	parts, registry := newParts(t)
	registry.On("Clone", mock.Anything, "https://x/y.git").
		Return("", &domain.ResponseError{Endpoint: "clone", Status: 502, Detail: "failed to clone repository: auth required"}).Once()

	var out bytes.Buffer
	err := runClone(context.Background(), parts.controller, "https://x/y.git", &out)

	require.Error(t, err)
	assert.Contains(t, out.String(), "auth required")
}

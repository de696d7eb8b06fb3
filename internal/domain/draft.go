package domain

import (
	"fmt"
	"strings"
)

const (
	// DefaultVersion is the version a fresh draft starts with.
	DefaultVersion = "0.0.1"
	// DefaultNotebookName is the notebook served by the app unless overridden.
	DefaultNotebookName = "index.ipynb"
)

// ServiceDraft accumulates user input for one app before it is submitted.
type ServiceDraft struct {
	Name           string
	Version        string
	Description    string
	IconURL        string
	NotebookName   string
	BuildSource    BuildSource
	ExistsRemotely bool
}

// NewServiceDraft returns a draft with the documented defaults.
func NewServiceDraft() ServiceDraft {
	return ServiceDraft{
		Version:      DefaultVersion,
		NotebookName: DefaultNotebookName,
		BuildSource:  NewBuildSource(),
	}
}

// SubmitLabel is the action a submit performs for this draft.
func (d ServiceDraft) SubmitLabel() string {
	if d.ExistsRemotely {
		return "Update"
	}
	return "Create"
}

// Validate checks the required fields before a submit.
func (d ServiceDraft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Version) == "" {
		missing = append(missing, "version")
	}
	if d.BuildSource.IsEmpty() {
		missing = append(missing, strings.ToLower(d.BuildSource.Kind().Label()))
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDraft, strings.Join(missing, ", "))
	}
	return nil
}

// CreateRequest is the wire payload of the create endpoint.
type CreateRequest struct {
	Name         string     `json:"name" yaml:"name"`
	Version      string     `json:"version" yaml:"version"`
	Description  string     `json:"description" yaml:"description"`
	IconURL      string     `json:"iconURL" yaml:"iconURL"`
	NotebookName string     `json:"notebookName" yaml:"notebookName"`
	AppType      SourceKind `json:"appType" yaml:"appType"`
	AppRepoURL   string     `json:"appRepoURL,omitempty" yaml:"appRepoURL,omitempty"`
	Revision     string     `json:"revision,omitempty" yaml:"revision,omitempty"`
	AppImage     string     `json:"appImage,omitempty" yaml:"appImage,omitempty"`
	AppDir       string     `json:"appDir,omitempty" yaml:"appDir,omitempty"`
}

// CreateRequest serializes the draft. Only the fields of the active build source are set.
func (d ServiceDraft) CreateRequest() CreateRequest {
	req := CreateRequest{
		Name:         d.Name,
		Version:      d.Version,
		Description:  d.Description,
		IconURL:      d.IconURL,
		NotebookName: d.NotebookName,
		AppType:      d.BuildSource.Kind(),
	}
	if repo, ok := d.BuildSource.Repo(); ok {
		req.AppRepoURL = repo.URL
		req.Revision = repo.Revision
	}
	if img, ok := d.BuildSource.DockerImage(); ok {
		req.AppImage = img.Image
	}
	if dir, ok := d.BuildSource.LocalDirectory(); ok {
		req.AppDir = dir.Path
	}
	return req
}

// BuildSource reconstructs the tagged union from the wire payload.
func (r CreateRequest) BuildSource() (BuildSource, error) {
	switch r.AppType {
	case SourceFromRepo:
		src, _ := ResolveBuildSource(SourceFromRepo, r.AppRepoURL)
		return src.WithRevision(r.Revision), nil
	case SourceFromDockerImage:
		return ResolveBuildSource(SourceFromDockerImage, r.AppImage)
	case SourceFromLocalDirectory:
		return ResolveBuildSource(SourceFromLocalDirectory, r.AppDir)
	}
	return BuildSource{}, fmt.Errorf("%w: %q", ErrUnsupportedSourceKind, r.AppType)
}

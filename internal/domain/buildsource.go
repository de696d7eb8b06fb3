package domain

import "fmt"

// SourceKind identifies how the registry obtains the app's code.
type SourceKind string

const (
	SourceFromRepo           SourceKind = "fromRepo"
	SourceFromDockerImage    SourceKind = "fromDockerImage"
	SourceFromLocalDirectory SourceKind = "fromLocalDirectory"
)

// SourceKinds lists the supported kinds in display order.
var SourceKinds = []SourceKind{SourceFromRepo, SourceFromDockerImage, SourceFromLocalDirectory}

// Label returns the input label used for the kind's single value.
func (k SourceKind) Label() string {
	switch k {
	case SourceFromRepo:
		return "Repo URL"
	case SourceFromDockerImage:
		return "Docker image name"
	case SourceFromLocalDirectory:
		return "App path"
	default:
		return string(k)
	}
}

// Valid reports whether k is one of the supported kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceFromRepo, SourceFromDockerImage, SourceFromLocalDirectory:
		return true
	}
	return false
}

// ParseSourceKind accepts the wire name ("fromRepo") or a short alias ("repo").
func ParseSourceKind(s string) (SourceKind, error) {
	switch s {
	case string(SourceFromRepo), "repo":
		return SourceFromRepo, nil
	case string(SourceFromDockerImage), "image", "docker":
		return SourceFromDockerImage, nil
	case string(SourceFromLocalDirectory), "dir", "directory":
		return SourceFromLocalDirectory, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedSourceKind, s)
}

// FromRepo builds the app from a git repository.
type FromRepo struct {
	URL      string
	Revision string
}

// FromDockerImage runs a prebuilt image.
type FromDockerImage struct {
	Image string
}

// FromLocalDirectory builds from a directory on the notebook server.
type FromLocalDirectory struct {
	Path string
}

// BuildSource is a tagged union: exactly one of the variant pointers matching Kind is set.
// The zero value is an empty FromRepo source.
type BuildSource struct {
	kind  SourceKind
	repo  *FromRepo
	image *FromDockerImage
	dir   *FromLocalDirectory
}

// NewBuildSource returns an empty source of the default kind (FromRepo).
func NewBuildSource() BuildSource {
	return BuildSource{kind: SourceFromRepo, repo: &FromRepo{}}
}

// ResolveBuildSource writes value into the field matching kind and drops every other
// variant. Fields of the previous variant are not carried over.
func ResolveBuildSource(kind SourceKind, value string) (BuildSource, error) {
	switch kind {
	case SourceFromRepo:
		return BuildSource{kind: kind, repo: &FromRepo{URL: value}}, nil
	case SourceFromDockerImage:
		return BuildSource{kind: kind, image: &FromDockerImage{Image: value}}, nil
	case SourceFromLocalDirectory:
		return BuildSource{kind: kind, dir: &FromLocalDirectory{Path: value}}, nil
	}
	return BuildSource{}, fmt.Errorf("%w: %q", ErrUnsupportedSourceKind, kind)
}

// Kind returns the active variant's kind.
func (b BuildSource) Kind() SourceKind {
	if b.kind == "" {
		return SourceFromRepo
	}
	return b.kind
}

// Value returns the single user-entered value of the active variant.
func (b BuildSource) Value() string {
	switch b.Kind() {
	case SourceFromDockerImage:
		if b.image != nil {
			return b.image.Image
		}
	case SourceFromLocalDirectory:
		if b.dir != nil {
			return b.dir.Path
		}
	default:
		if b.repo != nil {
			return b.repo.URL
		}
	}
	return ""
}

// Repo returns the FromRepo variant when it is active.
func (b BuildSource) Repo() (FromRepo, bool) {
	if b.Kind() != SourceFromRepo {
		return FromRepo{}, false
	}
	if b.repo == nil {
		return FromRepo{}, true
	}
	return *b.repo, true
}

// DockerImage returns the FromDockerImage variant when it is active.
func (b BuildSource) DockerImage() (FromDockerImage, bool) {
	if b.Kind() != SourceFromDockerImage || b.image == nil {
		return FromDockerImage{}, false
	}
	return *b.image, true
}

// LocalDirectory returns the FromLocalDirectory variant when it is active.
func (b BuildSource) LocalDirectory() (FromLocalDirectory, bool) {
	if b.Kind() != SourceFromLocalDirectory || b.dir == nil {
		return FromLocalDirectory{}, false
	}
	return *b.dir, true
}

// WithRevision sets the repository revision. It is ignored unless the source is FromRepo.
func (b BuildSource) WithRevision(revision string) BuildSource {
	repo, ok := b.Repo()
	if !ok {
		return b
	}
	repo.Revision = revision
	return BuildSource{kind: SourceFromRepo, repo: &repo}
}

// PopulatedVariants counts the non-empty variants. A resolved source always reports 1.
func (b BuildSource) PopulatedVariants() int {
	n := 0
	if b.repo != nil {
		n++
	}
	if b.image != nil {
		n++
	}
	if b.dir != nil {
		n++
	}
	return n
}

// IsEmpty reports whether the active variant has no value.
func (b BuildSource) IsEmpty() bool {
	return b.Value() == ""
}

package records

import (
	"io"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/curioworks/curio/pkg/errors"
)

// ProjectVersion is the current project file schema version.
const ProjectVersion = 1

// Project is a serializable snapshot of a reconciliation session:
// the items with their reconciliation state plus the property mapping
// that produced them. Loading a project replaces any in-memory store
// wholesale; snapshots are never merged.
type Project struct {
	Version int       `yaml:"version"`
	SavedAt time.Time `yaml:"savedAt"`

	Mapped []PropertyDescriptor `yaml:"mappedProperties"`
	Manual []ManualProperty     `yaml:"manualProperties,omitempty"`

	Items []*Item `yaml:"items"`
}

// Write serializes the project as YAML to the given writer.
func (p *Project) Write(w io.Writer) error {
	p.Version = ProjectVersion
	if p.SavedAt.IsZero() {
		p.SavedAt = time.Now().UTC()
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.WrapParse("yaml", "", err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.WrapIO("write", "", err)
	}
	return nil
}

// Read deserializes a project from YAML.
func Read(r io.Reader) (*Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}

	if p.Version > ProjectVersion {
		return nil, &errors.ValidationError{
			Field:   "version",
			Value:   p.Version,
			Message: "project file written by a newer version",
		}
	}

	// Re-establish the parallel-slice invariant defensively: a hand
	// edited file must not corrupt progress accounting.
	for _, item := range p.Items {
		for key, prop := range item.Properties {
			if !prop.Consistent() {
				return nil, &errors.ValidationError{
					Field:   key,
					Message: "originalValues and reconciled have different lengths",
				}
			}
		}
	}

	return &p, nil
}

// SaveFile writes the project to the given path.
func (p *Project) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := p.Write(f); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// LoadFile reads a project from the given path.
func LoadFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("project", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	p, err := Read(f)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return p, nil
}

package transform

import (
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/curioworks/curio/pkg/errors"
)

// Resolver looks up the transformation chain for a mapping, if any.
// The extractor consults it with ids produced by ChainID.
type Resolver interface {
	Resolve(id string) (*Chain, bool)
}

// Library is an in-memory chain collection keyed by chain id.
type Library struct {
	chains map[string]*Chain
}

// NewLibrary creates an empty chain library.
func NewLibrary() *Library {
	return &Library{chains: make(map[string]*Chain)}
}

// Resolve implements the Resolver interface.
func (l *Library) Resolve(id string) (*Chain, bool) {
	if l == nil {
		return nil, false
	}
	c, ok := l.chains[id]
	return c, ok
}

// Add registers a chain under its id, replacing any existing chain.
func (l *Library) Add(chain *Chain) error {
	if chain == nil || chain.ID == "" {
		return &errors.ValidationError{Field: "id", Message: "chain id cannot be empty"}
	}
	l.chains[chain.ID] = chain
	return nil
}

// Bind registers a chain for a mapping, deriving its id from the
// mapping coordinates.
func (l *Library) Bind(propertyKey, target, subField string, steps []Step) *Chain {
	chain := &Chain{
		ID:    ChainID(propertyKey, target, subField),
		Steps: steps,
	}
	l.chains[chain.ID] = chain
	return chain
}

// Len returns the number of registered chains.
func (l *Library) Len() int {
	return len(l.chains)
}

// libraryFile is the YAML schema for a chain library file.
type libraryFile struct {
	Chains []*Chain `yaml:"chains"`
}

// ReadLibrary loads a chain library from YAML.
func ReadLibrary(r io.Reader) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}

	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}

	lib := NewLibrary()
	for _, chain := range file.Chains {
		if err := lib.Add(chain); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// LoadLibrary loads a chain library from a YAML file.
func LoadLibrary(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("transform library", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	lib, err := ReadLibrary(f)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return lib, nil
}

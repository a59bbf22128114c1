package app

import (
	"encoding/json"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/records"
)

// Mapping is the property-mapping input file: which source properties
// to reconcile, where they point in the knowledge base, and any
// curator-added properties.
type Mapping struct {
	Mapped []records.PropertyDescriptor `yaml:"mappedProperties"`
	Manual []records.ManualProperty     `yaml:"manualProperties,omitempty"`
}

// LoadMapping reads a mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("mapping", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if len(m.Mapped) == 0 {
		return nil, errors.NewValidationError("mappedProperties", nil, "mapping file declares no mapped properties")
	}
	return &m, nil
}

// LoadRecords reads a JSON records file: either a top-level array of
// objects or an API-style envelope with an "items" array.
func LoadRecords(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("records", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err == nil {
		return raw, nil
	}

	var envelope struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	if envelope.Items == nil {
		return nil, errors.NewValidationError("items", nil, "records file has neither a top-level array nor an items array")
	}
	return envelope.Items, nil
}

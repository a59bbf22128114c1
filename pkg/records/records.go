// Package records defines the data model for a reconciliation session:
// source items exported from a content-management API, their mapped
// properties, and the per-value reconciliation state mutated by the
// matching and validation engines.
package records

// Item represents one source record in the loaded dataset.
// OriginalData holds the raw record as exported and is never mutated;
// all reconciliation state lives in the Properties map.
type Item struct {
	// ID is a synthetic identifier assigned at store construction
	ID string `yaml:"id" json:"id"`

	// OriginalData is the raw record as exported from the source API
	OriginalData map[string]any `yaml:"originalData,omitempty" json:"originalData,omitempty"`

	// Properties maps property identifiers to reconciliation entries
	Properties map[string]*Property `yaml:"properties" json:"properties"`
}

// Property holds the reconciliation entry for one property on one item.
// OriginalValues and Reconciled are parallel slices: the value at index
// i of Reconciled tracks the decision for OriginalValues[i]. The two
// slices always have the same length.
type Property struct {
	// OriginalValues are the canonical strings produced by extraction,
	// in source order
	OriginalValues []string `yaml:"originalValues" json:"originalValues"`

	// Metadata carries the property's datatype and constraints when known
	Metadata *PropertyMetadata `yaml:"propertyMetadata,omitempty" json:"propertyMetadata,omitempty"`

	// Reconciled tracks per-value reconciliation state
	Reconciled []*ReconciledValue `yaml:"reconciled" json:"reconciled"`

	// IsManual marks curator-added properties, which always carry
	// exactly one value per item
	IsManual bool `yaml:"isManualProperty,omitempty" json:"isManualProperty,omitempty"`
}

// Property looks up a property entry on an item, returning nil when absent.
func (i *Item) Property(key string) *Property {
	if i == nil || i.Properties == nil {
		return nil
	}
	return i.Properties[key]
}

// Consistent reports whether the parallel-slice invariant holds for
// this property entry.
func (p *Property) Consistent() bool {
	return len(p.OriginalValues) == len(p.Reconciled)
}

// ValueCount returns the number of values tracked by this entry.
func (p *Property) ValueCount() int {
	return len(p.Reconciled)
}

package records

// PropertyDescriptor describes one mapped property: which source
// property to extract and which knowledge-base property it targets.
type PropertyDescriptor struct {
	// Key is the source property identifier, e.g. "dcterms:subject"
	Key string `yaml:"key" json:"key"`

	// Target is the knowledge-base property id this key maps to,
	// e.g. "P921"
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// SubField selects one field of structured source values, e.g.
	// "@id". When set, extraction drops elements lacking the field
	// rather than falling back to another representation.
	SubField string `yaml:"selectedAtField,omitempty" json:"selectedAtField,omitempty"`

	// Metadata carries the target property's datatype and constraints
	// when already fetched
	Metadata *PropertyMetadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ManualProperty describes a curator-added property that is not present
// in the source records. Every item receives exactly one value for it.
type ManualProperty struct {
	// Key is the property identifier
	Key string `yaml:"key" json:"key"`

	// Target is the knowledge-base property id
	Target string `yaml:"target,omitempty" json:"target,omitempty"`

	// Default optionally pre-fills each item's single value
	Default string `yaml:"default,omitempty" json:"default,omitempty"`

	// Metadata carries the target property's datatype and constraints
	Metadata *PropertyMetadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// SchemaSuggestions are the property suggestions derived from an entity
// schema by the external parser: ids the schema requires and ids it
// merely allows. Consumed to pre-seed mapped-property descriptors.
type SchemaSuggestions struct {
	Required []string `yaml:"required" json:"required"`
	Optional []string `yaml:"optional" json:"optional"`
}

package records

// Datatype identifies the value type a knowledge-base property expects.
type Datatype string

const (
	// DatatypeItem marks an entity-valued property, reconciled through
	// the matching engine.
	DatatypeItem Datatype = "wikibase-item"
	// DatatypeExternalID marks an external-identifier literal.
	DatatypeExternalID Datatype = "external-id"
	// DatatypeString marks a plain string literal.
	DatatypeString Datatype = "string"
	// DatatypeURL marks a URL literal.
	DatatypeURL Datatype = "url"
	// DatatypeTime marks a point-in-time literal.
	DatatypeTime Datatype = "time"
	// DatatypeQuantity marks a numeric literal.
	DatatypeQuantity Datatype = "quantity"
	// DatatypeMonolingual marks a monolingual text literal.
	DatatypeMonolingual Datatype = "monolingualtext"
)

// EntityValued reports whether values of this datatype are reconciled
// against knowledge-base entities rather than validated as literals.
func (d Datatype) EntityValued() bool {
	return d == DatatypeItem
}

// ConstraintTypeFormat is the constraint type carrying a value pattern.
const ConstraintTypeFormat = "format"

// Constraint is one property constraint from the knowledge base.
type Constraint struct {
	Type        string `yaml:"type" json:"type"`
	Pattern     string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Regex       string `yaml:"regex,omitempty" json:"regex,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// PatternValue returns the constraint pattern, preferring the Pattern
// field over the legacy Regex field.
func (c Constraint) PatternValue() string {
	if c.Pattern != "" {
		return c.Pattern
	}
	return c.Regex
}

// PropertyMetadata describes a knowledge-base property: its datatype
// and any constraints attached to it.
type PropertyMetadata struct {
	Datatype    Datatype     `yaml:"datatype" json:"datatype"`
	Constraints []Constraint `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// FormatConstraint returns the first format constraint with a usable
// pattern, or nil when none is attached.
func (m *PropertyMetadata) FormatConstraint() *Constraint {
	if m == nil {
		return nil
	}
	for i := range m.Constraints {
		c := &m.Constraints[i]
		if c.Type == ConstraintTypeFormat && c.PatternValue() != "" {
			return c
		}
	}
	return nil
}

// EntityValued reports whether this property is reconciled against
// entities. Missing metadata defaults to entity-valued so that the
// curator is always offered candidates rather than a bare text field.
func (m *PropertyMetadata) EntityValued() bool {
	if m == nil {
		return true
	}
	return m.Datatype.EntityValued()
}

package records

// Status represents the reconciliation state of one value.
type Status string

const (
	// StatusPending indicates no decision has been made yet.
	StatusPending Status = "pending"
	// StatusReconciled indicates the value was matched to an entity or
	// confirmed as a literal.
	StatusReconciled Status = "reconciled"
	// StatusSkipped indicates the curator chose to skip the value.
	StatusSkipped Status = "skipped"
	// StatusNoItem indicates no suitable entity exists in the knowledge base.
	StatusNoItem Status = "no-item"
	// StatusError indicates the value was marked as erroneous source data.
	StatusError Status = "error"
)

// String returns the string representation of a status.
func (s Status) String() string {
	return string(s)
}

// Terminal reports whether the status counts as decided for progress
// accounting. Terminal cells may still be overwritten by a later
// decision; corrections are first-class.
func (s Status) Terminal() bool {
	switch s {
	case StatusReconciled, StatusSkipped, StatusNoItem, StatusError:
		return true
	default:
		return false
	}
}

// Completed reports whether the status counts toward workflow completion.
// Both a successful match and an explicit "no suitable entity" decision
// complete a cell.
func (s Status) Completed() bool {
	return s == StatusReconciled || s == StatusNoItem
}

// Match is one ranked candidate returned by the entity search endpoint.
type Match struct {
	ID          string `yaml:"id" json:"id"`
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Score is the 0-100 match quality estimate; nil when the endpoint
	// did not supply a well-formed score
	Score *float64 `yaml:"score,omitempty" json:"score,omitempty"`
}

// MatchKind discriminates the SelectedMatch tagged union.
type MatchKind string

const (
	// MatchKindEntity selects a knowledge-base entity.
	MatchKindEntity MatchKind = "wikidata"
	// MatchKindCustom selects a curator-supplied value with an explicit datatype.
	MatchKindCustom MatchKind = "custom"
	// MatchKindString selects a plain literal string.
	MatchKindString MatchKind = "string"
	// MatchKindNoItem records that no suitable entity exists.
	MatchKindNoItem MatchKind = "no-item"
)

// SelectedMatch is the decision recorded for a reconciled value. Exactly
// one variant is populated, discriminated by Kind.
type SelectedMatch struct {
	Kind MatchKind `yaml:"type" json:"type"`

	// Entity variant
	ID          string `yaml:"id,omitempty" json:"id,omitempty"`
	Label       string `yaml:"label,omitempty" json:"label,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Custom and string variants
	Value    string `yaml:"value,omitempty" json:"value,omitempty"`
	Datatype string `yaml:"datatype,omitempty" json:"datatype,omitempty"`

	// No-item variant
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// EntityMatch creates a SelectedMatch for a knowledge-base entity.
func EntityMatch(id, label, description string) *SelectedMatch {
	return &SelectedMatch{Kind: MatchKindEntity, ID: id, Label: label, Description: description}
}

// CustomMatch creates a SelectedMatch for a curator-supplied typed value.
func CustomMatch(value, datatype string) *SelectedMatch {
	return &SelectedMatch{Kind: MatchKindCustom, Value: value, Datatype: datatype}
}

// StringMatch creates a SelectedMatch for a plain literal.
func StringMatch(value, label string) *SelectedMatch {
	return &SelectedMatch{Kind: MatchKindString, Value: value, Label: label}
}

// NoItemMatch creates a SelectedMatch recording that no entity exists.
func NoItemMatch(reason string) *SelectedMatch {
	return &SelectedMatch{Kind: MatchKindNoItem, Reason: reason}
}

// ReconciledValue tracks the reconciliation state of a single value.
type ReconciledValue struct {
	// Status is the current cell state
	Status Status `yaml:"status" json:"status"`

	// Matches are the candidates from the most recent entity query
	Matches []Match `yaml:"matches" json:"matches"`

	// Selected is the recorded decision; nil while pending or skipped
	Selected *SelectedMatch `yaml:"selectedMatch,omitempty" json:"selectedMatch,omitempty"`

	// Confidence is the 0-100 quality estimate of the selected match
	Confidence float64 `yaml:"confidence" json:"confidence"`

	// ManualValue seeds a curator-added property's default; informational
	// only, a default does not imply acceptance
	ManualValue string `yaml:"manualValue,omitempty" json:"manualValue,omitempty"`

	// Qualifiers is reserved for statement qualifiers
	Qualifiers map[string]string `yaml:"qualifiers,omitempty" json:"qualifiers,omitempty"`
}

// NewPendingValue creates a fresh pending reconciliation state.
func NewPendingValue() *ReconciledValue {
	return &ReconciledValue{
		Status:  StatusPending,
		Matches: []Match{},
	}
}

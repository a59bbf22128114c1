package records

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatusTerminal tests terminal classification of statuses.
func TestStatusTerminal(t *testing.T) {
	tests := []struct {
		status    Status
		terminal  bool
		completed bool
	}{
		{StatusPending, false, false},
		{StatusReconciled, true, true},
		{StatusSkipped, true, false},
		{StatusNoItem, true, true},
		{StatusError, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
			assert.Equal(t, tt.completed, tt.status.Completed())
		})
	}
}

// TestSelectedMatchConstructors tests the tagged union constructors.
func TestSelectedMatchConstructors(t *testing.T) {
	entity := EntityMatch("Q42", "Douglas Adams", "English writer")
	assert.Equal(t, MatchKindEntity, entity.Kind)
	assert.Equal(t, "Q42", entity.ID)

	custom := CustomMatch("1979", "time")
	assert.Equal(t, MatchKindCustom, custom.Kind)
	assert.Equal(t, "time", custom.Datatype)

	str := StringMatch("Hitchhiker's Guide", "title")
	assert.Equal(t, MatchKindString, str.Kind)
	assert.Equal(t, "Hitchhiker's Guide", str.Value)

	noItem := NoItemMatch("local collection term")
	assert.Equal(t, MatchKindNoItem, noItem.Kind)
	assert.Equal(t, "local collection term", noItem.Reason)
}

// TestPropertyConsistent tests the parallel-slice invariant check.
func TestPropertyConsistent(t *testing.T) {
	p := &Property{
		OriginalValues: []string{"Art", "History"},
		Reconciled:     []*ReconciledValue{NewPendingValue(), NewPendingValue()},
	}
	assert.True(t, p.Consistent())
	assert.Equal(t, 2, p.ValueCount())

	p.Reconciled = p.Reconciled[:1]
	assert.False(t, p.Consistent())
}

// TestFormatConstraint tests format constraint lookup.
func TestFormatConstraint(t *testing.T) {
	meta := &PropertyMetadata{
		Datatype: DatatypeExternalID,
		Constraints: []Constraint{
			{Type: "allowed-values"},
			{Type: ConstraintTypeFormat, Regex: `\d{4}`, Description: "four digits"},
		},
	}

	c := meta.FormatConstraint()
	require.NotNil(t, c)
	assert.Equal(t, `\d{4}`, c.PatternValue())

	var nilMeta *PropertyMetadata
	assert.Nil(t, nilMeta.FormatConstraint())
	assert.True(t, nilMeta.EntityValued(), "missing metadata defaults to entity-valued")
}

// TestProjectRoundTrip tests YAML save/load of a session snapshot.
func TestProjectRoundTrip(t *testing.T) {
	project := &Project{
		Mapped: []PropertyDescriptor{
			{Key: "dcterms:subject", Target: "P921"},
			{Key: "schema:itemLocation", Target: "P276", SubField: "@id"},
		},
		Manual: []ManualProperty{
			{Key: "instanceOf", Target: "P31", Default: "Q3331189"},
		},
		Items: []*Item{
			{
				ID: "item-1",
				Properties: map[string]*Property{
					"dcterms:subject": {
						OriginalValues: []string{"Art"},
						Reconciled: []*ReconciledValue{
							{
								Status:     StatusReconciled,
								Matches:    []Match{{ID: "Q735", Label: "art"}},
								Selected:   EntityMatch("Q735", "art", "form of expression"),
								Confidence: 95,
							},
						},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, project.Write(&buf))

	loaded, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, ProjectVersion, loaded.Version)
	assert.False(t, loaded.SavedAt.IsZero())
	if diff := cmp.Diff(project.Items, loaded.Items); diff != "" {
		t.Errorf("Items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(project.Mapped, loaded.Mapped); diff != "" {
		t.Errorf("Mapped mismatch (-want +got):\n%s", diff)
	}
}

// TestProjectReadRejectsInconsistent tests that a corrupted snapshot is refused.
func TestProjectReadRejectsInconsistent(t *testing.T) {
	project := &Project{
		Items: []*Item{
			{
				ID: "item-1",
				Properties: map[string]*Property{
					"dcterms:title": {
						OriginalValues: []string{"a", "b"},
						Reconciled:     []*ReconciledValue{NewPendingValue()},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, project.Write(&buf))

	_, err := Read(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different lengths")
}

// TestProjectReadRejectsNewerVersion tests forward-compat refusal.
func TestProjectReadRejectsNewerVersion(t *testing.T) {
	_, err := Read(bytes.NewBufferString("version: 99\nitems: []\n"))
	require.Error(t, err)
}

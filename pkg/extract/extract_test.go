package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/curioworks/curio/pkg/records"
	"github.com/curioworks/curio/pkg/transform"
)

func extractValues(t *testing.T, record map[string]any, desc records.PropertyDescriptor) []string {
	t.Helper()
	return New(nil).Values(context.Background(), record, desc)
}

// TestValuesMixedRepresentations tests element-wise extraction across
// mixed literal and labeled elements.
func TestValuesMixedRepresentations(t *testing.T) {
	record := map[string]any{
		"dcterms:subject": []any{
			map[string]any{"@value": "Art"},
			map[string]any{"o:label": "History"},
		},
	}

	got := extractValues(t, record, records.PropertyDescriptor{Key: "dcterms:subject"})
	assert.Equal(t, []string{"Art", "History"}, got)
}

// TestValuesSubFieldDropsMissing tests that a requested sub-field never
// falls back to another representation.
func TestValuesSubFieldDropsMissing(t *testing.T) {
	record := map[string]any{
		"schema:itemLocation": []any{
			map[string]any{"@id": "http://x/1", "@value": "v1"},
			map[string]any{"@value": "v2"},
			"plain scalar",
		},
	}

	got := extractValues(t, record, records.PropertyDescriptor{
		Key:      "schema:itemLocation",
		SubField: "@id",
	})
	assert.Equal(t, []string{"http://x/1"}, got)
}

// TestValuesDefaultPriority tests the default field priority.
func TestValuesDefaultPriority(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		expected []string
	}{
		{
			name:     "label wins over value",
			raw:      []any{map[string]any{"o:label": "History", "@value": "hist."}},
			expected: []string{"History"},
		},
		{
			name:     "plain scalar",
			raw:      "Art",
			expected: []string{"Art"},
		},
		{
			name:     "scalar array",
			raw:      []any{"Art", "History"},
			expected: []string{"Art", "History"},
		},
		{
			name:     "numeric coercion",
			raw:      []any{float64(1979), 20.5},
			expected: []string{"1979", "20.5"},
		},
		{
			name:     "boolean coercion",
			raw:      true,
			expected: []string{"true"},
		},
		{
			name:     "object without known fields coerces to JSON",
			raw:      []any{map[string]any{"@id": "http://x/1"}},
			expected: []string{`{"@id":"http://x/1"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := map[string]any{"p": tt.raw}
			got := extractValues(t, record, records.PropertyDescriptor{Key: "p"})
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestValuesMissingProperty tests the empty-list contract.
func TestValuesMissingProperty(t *testing.T) {
	record := map[string]any{"other": "x"}

	got := extractValues(t, record, records.PropertyDescriptor{Key: "dcterms:subject"})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = extractValues(t, map[string]any{"dcterms:subject": nil}, records.PropertyDescriptor{Key: "dcterms:subject"})
	assert.Empty(t, got)
}

// TestValuesAppliesChain tests transformation chain application.
func TestValuesAppliesChain(t *testing.T) {
	lib := transform.NewLibrary()
	lib.Bind("dcterms:identifier", "P212", "", []transform.Step{
		{Kind: transform.StepRegexReplace, Pattern: `[-\s]`, Replacement: ""},
	})

	record := map[string]any{
		"dcterms:identifier": []any{"978-0-14-028329-7"},
	}

	got := New(lib).Values(context.Background(), record, records.PropertyDescriptor{
		Key:    "dcterms:identifier",
		Target: "P212",
	})
	assert.Equal(t, []string{"9780140283297"}, got)
}

// TestValuesChainFailureFallsBack tests that a failing chain keeps the
// untransformed value instead of failing extraction.
func TestValuesChainFailureFallsBack(t *testing.T) {
	lib := transform.NewLibrary()
	lib.Bind("dcterms:subject", "P921", "", []transform.Step{
		{Kind: transform.StepSplitTake, Separator: ";", Index: 5},
	})

	record := map[string]any{"dcterms:subject": "Art"}

	got := New(lib).Values(context.Background(), record, records.PropertyDescriptor{
		Key:    "dcterms:subject",
		Target: "P921",
	})
	assert.Equal(t, []string{"Art"}, got)
}

// TestValuesChainOnlyForMatchingMapping tests chain id selectivity: a
// chain bound with a sub-field does not fire for the bare mapping.
func TestValuesChainOnlyForMatchingMapping(t *testing.T) {
	lib := transform.NewLibrary()
	lib.Bind("dcterms:subject", "P921", "@id", []transform.Step{
		{Kind: transform.StepUppercase},
	})

	record := map[string]any{"dcterms:subject": "Art"}

	got := New(lib).Values(context.Background(), record, records.PropertyDescriptor{
		Key:    "dcterms:subject",
		Target: "P921",
	})
	assert.Equal(t, []string{"Art"}, got)
}

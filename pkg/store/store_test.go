package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/records"
)

func testRecords() []map[string]any {
	return []map[string]any{
		{
			"dcterms:subject": []any{
				map[string]any{"@value": "Art"},
				map[string]any{"o:label": "History"},
			},
			"dcterms:title": "Catalog of Paintings",
		},
		{
			"dcterms:subject": "Sculpture",
		},
	}
}

func testMapped() []records.PropertyDescriptor {
	return []records.PropertyDescriptor{
		{Key: "dcterms:subject", Target: "P921"},
		{Key: "dcterms:title", Target: "P1476", Metadata: &records.PropertyMetadata{Datatype: records.DatatypeString}},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), testRecords(), testMapped(), nil, nil)
	require.NoError(t, err)
	return s
}

// TestNewParallelSliceInvariant tests that every property entry has
// matching value and state lengths after construction.
func TestNewParallelSliceInvariant(t *testing.T) {
	s := newTestStore(t)

	require.Len(t, s.Items(), 2)
	for _, item := range s.Items() {
		for key, prop := range item.Properties {
			assert.True(t, prop.Consistent(), "item %s property %s", item.ID, key)
			for _, rv := range prop.Reconciled {
				assert.Equal(t, records.StatusPending, rv.Status)
				assert.NotNil(t, rv.Matches)
				assert.Empty(t, rv.Matches)
				assert.Zero(t, rv.Confidence)
			}
		}
	}

	// Two subjects + one title on the first item, one subject and an
	// empty title entry on the second.
	p := s.Progress()
	assert.Equal(t, 4, p.Total)
	assert.Equal(t, 4, p.Pending)
	assert.True(t, p.Consistent())
}

// TestNewPreconditions tests typed precondition failures.
func TestNewPreconditions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		raw       []map[string]any
		mapped    []records.PropertyDescriptor
		condition string
	}{
		{
			name:      "empty dataset",
			raw:       nil,
			mapped:    testMapped(),
			condition: "dataset-non-empty",
		},
		{
			name:      "no mapped properties",
			raw:       testRecords(),
			mapped:    nil,
			condition: "mapped-properties-present",
		},
		{
			name:      "mapped properties not applicable",
			raw:       []map[string]any{{"other:field": "x"}},
			mapped:    testMapped(),
			condition: "mapped-properties-applicable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(ctx, tt.raw, tt.mapped, nil, nil)
			require.Error(t, err)
			assert.Nil(t, s, "no partial store on precondition failure")
			assert.True(t, errors.IsPreconditionFailed(err))

			var precondition *errors.PreconditionError
			require.ErrorAs(t, err, &precondition)
			assert.Equal(t, tt.condition, precondition.Condition)
		})
	}
}

// TestNewManualProperties tests manual property seeding.
func TestNewManualProperties(t *testing.T) {
	manual := []records.ManualProperty{
		{Key: "instanceOf", Target: "P31", Default: "Q3331189"},
		{Key: "collection", Target: "P195"},
	}

	s, err := New(context.Background(), testRecords(), testMapped(), manual, nil)
	require.NoError(t, err)

	for _, item := range s.Items() {
		prop := item.Property("instanceOf")
		require.NotNil(t, prop)
		assert.True(t, prop.IsManual)
		require.Len(t, prop.Reconciled, 1, "manual properties carry exactly one value")
		rv := prop.Reconciled[0]
		assert.Equal(t, records.StatusPending, rv.Status, "a default does not imply acceptance")
		assert.Equal(t, "Q3331189", rv.ManualValue)

		empty := item.Property("collection")
		require.NotNil(t, empty)
		assert.Empty(t, empty.Reconciled[0].ManualValue)
	}

	// 4 extracted cells + 2 manual cells per item.
	assert.Equal(t, 8, s.Progress().Total)
}

// TestApplyTransitions tests the full state machine walk.
func TestApplyTransitions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ref := CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0}

	rv, err := s.Apply(ctx, ref, Accept(records.EntityMatch("Q735", "art", "form of expression"), 95))
	require.NoError(t, err)
	assert.Equal(t, records.StatusReconciled, rv.Status)
	assert.Equal(t, records.MatchKindEntity, rv.Selected.Kind)
	assert.Equal(t, float64(95), rv.Confidence)

	p := s.Progress()
	assert.Equal(t, 1, p.Reconciled)
	assert.Equal(t, 3, p.Pending)
	assert.True(t, p.Consistent())

	// Overwriting a terminal cell is not an error.
	rv, err = s.Apply(ctx, ref, MarkNoItem("too ambiguous"))
	require.NoError(t, err)
	assert.Equal(t, records.StatusNoItem, rv.Status)
	assert.Equal(t, "too ambiguous", rv.Selected.Reason)

	p = s.Progress()
	assert.Equal(t, 0, p.Reconciled)
	assert.Equal(t, 1, p.NoItem)
	assert.True(t, p.Consistent())

	// And back to pending.
	rv, err = s.Apply(ctx, ref, Reset())
	require.NoError(t, err)
	assert.Equal(t, records.StatusPending, rv.Status)
	assert.Nil(t, rv.Selected)
	assert.True(t, s.Progress().Consistent())
	assert.Equal(t, s.Recompute(), s.Progress(), "incremental counters must match a full scan")
}

// TestApplyUnknownCell tests transition targeting.
func TestApplyUnknownCell(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, CellRef{ItemID: "item-9", Property: "dcterms:subject", Index: 0}, Skip())
	assert.True(t, errors.IsNotFound(err))

	_, err = s.Apply(ctx, CellRef{ItemID: "item-1", Property: "missing", Index: 0}, Skip())
	assert.True(t, errors.IsNotFound(err))

	_, err = s.Apply(ctx, CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 7}, Skip())
	assert.True(t, errors.IsNotFound(err))

	_, err = s.Apply(ctx, CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0}, Transition{Status: "bogus"})
	assert.True(t, errors.IsValidationError(err))
}

// TestProgressGate tests the workflow advancement gate.
func TestProgressGate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	assert.False(t, s.Progress().CanAdvance())

	var refs []CellRef
	s.EachCell(func(ref CellRef, _ *records.Property, _ *records.ReconciledValue) bool {
		refs = append(refs, ref)
		return true
	})
	require.Len(t, refs, 4)

	transitions := []Transition{
		Accept(records.EntityMatch("Q735", "art", ""), 95),
		MarkNoItem("no match"),
		Skip(),
	}
	for i, ref := range refs[:3] {
		_, err := s.Apply(ctx, ref, transitions[i])
		require.NoError(t, err)
	}
	assert.False(t, s.Progress().CanAdvance(), "one cell still pending")

	_, err := s.Apply(ctx, refs[3], Accept(records.StringMatch("Catalog of Paintings", "title"), 100))
	require.NoError(t, err)
	assert.True(t, s.Progress().CanAdvance())

	// An errored cell holds the gate closed.
	_, err = s.Apply(ctx, refs[0], MarkError())
	require.NoError(t, err)
	assert.False(t, s.Progress().CanAdvance())
}

// TestRecencyCacheFeeding tests that entity acceptances feed the cache.
func TestRecencyCacheFeeding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Apply(ctx, CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0},
		Accept(records.EntityMatch("Q735", "art", ""), 95))
	require.NoError(t, err)

	// String acceptances do not feed the cache.
	_, err = s.Apply(ctx, CellRef{ItemID: "item-1", Property: "dcterms:title", Index: 0},
		Accept(records.StringMatch("Catalog of Paintings", ""), 100))
	require.NoError(t, err)

	seed := s.Recency().Seed("dcterms:subject")
	require.Len(t, seed, 1)
	assert.Equal(t, "Q735", seed[0].ID)
	assert.Nil(t, s.Recency().Seed("dcterms:title"))
}

// TestSetMatches tests recording query results without deciding.
func TestSetMatches(t *testing.T) {
	s := newTestStore(t)
	ref := CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0}

	matches := []records.Match{{ID: "Q735", Label: "art"}}
	require.NoError(t, s.SetMatches(ref, matches, 40))

	rv, _, err := s.Cell(ref)
	require.NoError(t, err)
	assert.Equal(t, records.StatusPending, rv.Status)
	assert.Equal(t, matches, rv.Matches)
	assert.Equal(t, float64(40), rv.Confidence)

	// Nil normalizes to an empty list.
	require.NoError(t, s.SetMatches(ref, nil, 0))
	rv, _, _ = s.Cell(ref)
	assert.NotNil(t, rv.Matches)
	assert.Empty(t, rv.Matches)
}

// TestFromProjectReplacesSession tests snapshot restore.
func TestFromProjectReplacesSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Apply(ctx, CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0},
		Accept(records.EntityMatch("Q735", "art", ""), 95))
	require.NoError(t, err)

	restored, err := FromProject(s.Project())
	require.NoError(t, err)

	assert.Equal(t, s.Progress(), restored.Progress())
	rv, original, err := restored.Cell(CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "Art", original)
	assert.Equal(t, records.StatusReconciled, rv.Status)

	_, err = FromProject(&records.Project{})
	assert.True(t, errors.IsPreconditionFailed(err))
}

// TestRecencyCacheEviction tests size and move-to-front behavior.
func TestRecencyCacheEviction(t *testing.T) {
	cache := NewRecencyCache(2)

	cache.Add("p", records.Match{ID: "Q1"})
	cache.Add("p", records.Match{ID: "Q2"})
	cache.Add("p", records.Match{ID: "Q3"})

	seed := cache.Seed("p")
	require.Len(t, seed, 2)
	assert.Equal(t, "Q3", seed[0].ID)
	assert.Equal(t, "Q2", seed[1].ID)

	// Re-accepting moves to front without duplicating.
	cache.Add("p", records.Match{ID: "Q2"})
	seed = cache.Seed("p")
	require.Len(t, seed, 2)
	assert.Equal(t, "Q2", seed[0].ID)
	assert.Equal(t, "Q3", seed[1].ID)
}

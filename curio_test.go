package curio

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/records"
	"github.com/curioworks/curio/pkg/store"
	"github.com/curioworks/curio/pkg/validate"
)

type stubSearcher struct {
	results map[string][]records.Match
}

func (s *stubSearcher) SearchEntities(_ context.Context, query string, _ int) ([]records.Match, error) {
	return s.results[query], nil
}

func sessionRecords() []map[string]any {
	return []map[string]any{
		{
			"dcterms:subject": []any{map[string]any{"@value": "Art"}},
			"bibo:isbn":       "978--0-14--028329-7",
		},
	}
}

func sessionMapping() []records.PropertyDescriptor {
	return []records.PropertyDescriptor{
		{Key: "dcterms:subject", Target: "P921"},
		{Key: "bibo:isbn", Target: "P212", Metadata: &records.PropertyMetadata{Datatype: records.DatatypeExternalID}},
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(WithEndpoint(""))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithSearchLimit(0))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithAutoAcceptThreshold(150))
	assert.True(t, errors.IsValidationError(err))
}

func TestOperationsRequireSession(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.Progress()
	assert.True(t, errors.IsPreconditionFailed(err))

	_, err = c.Resolve(context.Background(), store.CellRef{})
	assert.True(t, errors.IsPreconditionFailed(err))

	_, err = c.ReconcileAll(context.Background())
	assert.True(t, errors.IsPreconditionFailed(err))
}

func TestLoadAndResolve(t *testing.T) {
	score := 97.0
	searcher := &stubSearcher{results: map[string][]records.Match{
		"Art": {{ID: "Q735", Label: "art", Score: &score}},
	}}
	c, err := New(WithSearcher(searcher))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Load(ctx, sessionRecords(), sessionMapping(), nil))

	outcome, err := c.Resolve(ctx, store.CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0})
	require.NoError(t, err)
	assert.True(t, outcome.AutoAccepted)

	p, err := c.Progress()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Reconciled)
}

func TestCheckUsesBuiltinConstraints(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, sessionRecords(), sessionMapping(), nil))

	ref := store.CellRef{ItemID: "item-1", Property: "bibo:isbn", Index: 0}
	result, err := c.Check(ctx, ref, "978--0-14--028329-7")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Fixes)

	result, err = c.Check(ctx, ref, "978-0-14-028329-7")
	require.NoError(t, err)
	assert.True(t, result.Valid)

	// Empty input is a hint in the live variant, a failure otherwise.
	live, err := c.CheckLive(ctx, ref, "")
	require.NoError(t, err)
	assert.True(t, live.Hint)

	mode, err := c.ConfirmModeFor(ref)
	require.NoError(t, err)
	assert.Equal(t, validate.ConfirmOverride, mode)
}

func TestProjectRoundTrip(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Load(ctx, sessionRecords(), sessionMapping(), nil))

	ref := store.CellRef{ItemID: "item-1", Property: "dcterms:subject", Index: 0}
	_, err = c.Decide(ctx, ref, store.Accept(records.EntityMatch("Q735", "art", ""), 95))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "session.curio.yaml")
	require.NoError(t, c.SaveProject(ctx, path))

	restored, err := New()
	require.NoError(t, err)
	require.NoError(t, restored.LoadProject(ctx, path))

	p1, err := c.Progress()
	require.NoError(t, err)
	p2, err := restored.Progress()
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

package store

import (
	"context"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/records"
)

// Transition is one reconciliation decision applied to a cell. It is a
// plain command value: engines and presentation layers construct
// transitions and the store applies them, with no callback dispatch in
// between. Re-applying a transition to a terminal cell overwrites it
// without error; corrections are first-class.
type Transition struct {
	Status     records.Status
	Selected   *records.SelectedMatch
	Confidence float64
}

// Accept transitions a cell to reconciled with the given decision.
func Accept(selected *records.SelectedMatch, confidence float64) Transition {
	return Transition{
		Status:     records.StatusReconciled,
		Selected:   selected,
		Confidence: confidence,
	}
}

// Skip transitions a cell to skipped, clearing any earlier decision.
func Skip() Transition {
	return Transition{Status: records.StatusSkipped}
}

// MarkNoItem records that no suitable entity exists for the value.
func MarkNoItem(reason string) Transition {
	return Transition{
		Status:   records.StatusNoItem,
		Selected: records.NoItemMatch(reason),
	}
}

// MarkError flags the value as erroneous source data.
func MarkError() Transition {
	return Transition{Status: records.StatusError}
}

// Reset returns a cell to pending, clearing any earlier decision.
func Reset() Transition {
	return Transition{Status: records.StatusPending}
}

// Apply writes a transition to the referenced cell, updates the
// aggregate progress counters, and on an entity acceptance feeds the
// property's recency cache.
func (s *Store) Apply(ctx context.Context, ref CellRef, t Transition) (*records.ReconciledValue, error) {
	if !validTransitionStatus(t.Status) {
		return nil, &errors.ValidationError{
			Field:   "status",
			Value:   string(t.Status),
			Message: "unknown transition status",
		}
	}

	rv, _, err := s.Cell(ref)
	if err != nil {
		return nil, err
	}

	s.progress.count(rv.Status, -1)
	rv.Status = t.Status
	rv.Selected = t.Selected
	rv.Confidence = t.Confidence
	s.progress.count(rv.Status, 1)

	if t.Selected != nil && t.Selected.Kind == records.MatchKindEntity {
		s.recency.Add(ref.Property, records.Match{
			ID:          t.Selected.ID,
			Label:       t.Selected.Label,
			Description: t.Selected.Description,
		})
	}

	logging.FromContext(ctx).Debug().
		Str("cell", ref.String()).
		Str("status", rv.Status.String()).
		Float64("confidence", rv.Confidence).
		Msg("Cell transition applied")

	return rv, nil
}

// SetMatches records query results on a cell without deciding it. The
// cell stays in its current state; an empty candidate list simply means
// a user decision is required.
func (s *Store) SetMatches(ref CellRef, matches []records.Match, confidence float64) error {
	rv, _, err := s.Cell(ref)
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []records.Match{}
	}
	rv.Matches = matches
	rv.Confidence = confidence
	return nil
}

// validTransitionStatus limits transitions to known states.
func validTransitionStatus(status records.Status) bool {
	switch status {
	case records.StatusPending, records.StatusReconciled, records.StatusSkipped,
		records.StatusNoItem, records.StatusError:
		return true
	default:
		return false
	}
}

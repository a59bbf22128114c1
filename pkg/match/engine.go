// Package match decides entity-valued cells: it queries the knowledge
// base search endpoint, scores the candidates, auto-accepts clear
// winners, and surfaces the rest for manual choice. Each cell carries a
// monotonically increasing request generation so a response that lost
// the race against a newer query is detected and discarded instead of
// overwriting fresher state.
package match

import (
	"context"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/records"
	"github.com/curioworks/curio/pkg/store"
)

const (
	// AutoAcceptThreshold is the score at or above which a candidate is
	// accepted without manual confirmation.
	AutoAcceptThreshold = 90.0

	// TopCandidates is how many candidates are surfaced by default; the
	// full list stays available for expansion.
	TopCandidates = 3
)

// Searcher is the knowledge base free-text entity search.
type Searcher interface {
	SearchEntities(ctx context.Context, query string, limit int) ([]records.Match, error)
}

// Engine reconciles entity-valued cells against the knowledge base.
type Engine struct {
	searcher  Searcher
	store     *store.Store
	limit     int
	threshold float64

	// generations tags the most recent request per cell
	generations map[store.CellRef]uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimit sets the per-query candidate limit.
func WithLimit(limit int) Option {
	return func(e *Engine) { e.limit = limit }
}

// WithThreshold overrides the auto-accept threshold.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) { e.threshold = threshold }
}

// NewEngine creates a matching engine bound to one store.
func NewEngine(searcher Searcher, s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		searcher:    searcher,
		store:       s,
		limit:       15,
		threshold:   AutoAcceptThreshold,
		generations: make(map[store.CellRef]uint64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Outcome reports what happened to one cell.
type Outcome struct {
	Cell store.CellRef

	// AutoAccepted is set when a candidate cleared the threshold and
	// the cell transitioned directly to reconciled
	AutoAccepted bool
	Accepted     *records.Match

	// Candidates are the top candidates for manual choice; All holds
	// the full expandable list
	Candidates []records.Match
	All        []records.Match

	// NoResults marks an empty candidate list; the cell stays pending
	// because a user decision is still required
	NoResults bool

	// Retryable marks a transient query failure; the cell is untouched
	// and the caller should offer a retry
	Retryable bool
}

// Resolve queries candidates for one cell and applies the auto-accept
// rule. The cell must be pending or terminal; either way the outcome of
// this resolution overwrites earlier state (last decision wins).
func (e *Engine) Resolve(ctx context.Context, ref store.CellRef) (*Outcome, error) {
	query, err := e.queryValue(ref)
	if err != nil {
		return nil, err
	}

	generation := e.begin(ref)
	matches, err := e.searcher.SearchEntities(ctx, query, e.limit)
	return e.ingest(ctx, ref, generation, query, matches, err)
}

// queryValue picks the free-text query for a cell: the extracted
// canonical value, falling back to a manual property's seeded default.
func (e *Engine) queryValue(ref store.CellRef) (string, error) {
	rv, original, err := e.store.Cell(ref)
	if err != nil {
		return "", err
	}
	if original == "" {
		return rv.ManualValue, nil
	}
	return original, nil
}

// begin tags a new outstanding request for a cell and returns its
// generation.
func (e *Engine) begin(ref store.CellRef) uint64 {
	e.generations[ref]++
	return e.generations[ref]
}

// ingest applies a query result to a cell, discarding it when a newer
// request has been issued since.
func (e *Engine) ingest(ctx context.Context, ref store.CellRef, generation uint64, query string, matches []records.Match, queryErr error) (*Outcome, error) {
	logger := logging.FromContext(ctx)

	if latest := e.generations[ref]; generation != latest {
		staleErr := &errors.StaleResponseError{Cell: ref.String(), Generation: generation, Latest: latest}
		logger.Debug().Err(staleErr).Msg("Discarding stale candidate response")
		return nil, staleErr
	}

	if queryErr != nil {
		// Transient by classification: leave the cell pending with its
		// matches untouched and let the caller offer a retry.
		logger.Warn().Err(queryErr).Str("cell", ref.String()).Msg("Candidate query failed")
		return &Outcome{Cell: ref, Retryable: true}, queryErr
	}

	scored, best := scoreAll(query, matches)
	candidates := e.withRecencySeed(ref.Property, scored)

	if len(candidates) == 0 {
		if err := e.store.SetMatches(ref, nil, 0); err != nil {
			return nil, err
		}
		return &Outcome{Cell: ref, NoResults: true}, nil
	}

	confidence := displayConfidence(candidates)
	if err := e.store.SetMatches(ref, candidates, confidence); err != nil {
		return nil, err
	}

	if best != nil && *best.Score >= e.threshold {
		selected := records.EntityMatch(best.ID, best.Label, best.Description)
		if _, err := e.store.Apply(ctx, ref, store.Accept(selected, *best.Score)); err != nil {
			return nil, err
		}
		logger.Info().
			Str("cell", ref.String()).
			Str("entity", best.ID).
			Float64("score", *best.Score).
			Msg("Auto-accepted candidate")
		return &Outcome{Cell: ref, AutoAccepted: true, Accepted: best, All: candidates}, nil
	}

	top := candidates
	if len(top) > TopCandidates {
		top = top[:TopCandidates]
	}
	return &Outcome{Cell: ref, Candidates: top, All: candidates}, nil
}

// withRecencySeed prepends recently accepted entities for the property,
// deduplicated against the fresh candidates. The seed is a heuristic
// convenience, so seeded entries carry no score.
func (e *Engine) withRecencySeed(property string, candidates []records.Match) []records.Match {
	seed := e.store.Recency().Seed(property)
	if len(seed) == 0 {
		return candidates
	}

	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c.ID] = true
	}

	out := make([]records.Match, 0, len(seed)+len(candidates))
	for _, s := range seed {
		if !seen[s.ID] {
			out = append(out, s)
		}
	}
	return append(out, candidates...)
}

// displayConfidence is the confidence recorded on the cell while it
// awaits a manual decision: the best available score of any kind.
func displayConfidence(candidates []records.Match) float64 {
	best := 0.0
	for _, c := range candidates {
		if c.Score != nil && *c.Score > best {
			best = *c.Score
		}
	}
	return best
}

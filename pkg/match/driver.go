package match

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/records"
	"github.com/curioworks/curio/pkg/store"
)

// DefaultConcurrency bounds parallel candidate queries in a batch run.
const DefaultConcurrency = 4

// Driver runs the matching engine over every pending entity-valued
// cell. Only the network queries run concurrently; store mutations stay
// on the calling goroutine, so the store's single-threaded contract
// holds.
type Driver struct {
	engine      *Engine
	concurrency int
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithConcurrency bounds the number of in-flight queries.
func WithConcurrency(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// NewDriver creates a batch driver over the given engine.
func NewDriver(engine *Engine, opts ...DriverOption) *Driver {
	d := &Driver{engine: engine, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Summary aggregates one batch run. Failed cells stay pending and can
// be retried; a single failing query never aborts the batch.
type Summary struct {
	Queried      int
	AutoAccepted int
	NeedsReview  int
	NoResults    int
	Failed       int
}

// task is one cell queued for resolution.
type task struct {
	ref        store.CellRef
	query      string
	generation uint64

	matches []records.Match
	err     error
}

// Run queries candidates for every pending entity-valued cell and
// applies the results. Queries run concurrently up to the configured
// bound; results are ingested sequentially in collection order.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	e := d.engine
	tasks := d.collect()

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(d.concurrency)
	for i := range tasks {
		t := &tasks[i]
		group.Go(func() error {
			t.matches, t.err = e.searcher.SearchEntities(groupCtx, t.query, e.limit)
			// Per-cell failures are recorded on the task, not returned,
			// so one bad query cannot cancel the rest of the batch.
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Queried: len(tasks)}
	for i := range tasks {
		t := &tasks[i]
		outcome, err := e.ingest(ctx, t.ref, t.generation, t.query, t.matches, t.err)
		if err != nil {
			summary.Failed++
			continue
		}
		switch {
		case outcome.AutoAccepted:
			summary.AutoAccepted++
		case outcome.NoResults:
			summary.NoResults++
		default:
			summary.NeedsReview++
		}
	}

	logging.FromContext(ctx).Info().
		Int("queried", summary.Queried).
		Int("auto_accepted", summary.AutoAccepted).
		Int("needs_review", summary.NeedsReview).
		Int("no_results", summary.NoResults).
		Int("failed", summary.Failed).
		Msg("Batch reconciliation finished")

	return summary, nil
}

// collect gathers pending entity-valued cells and tags a fresh request
// generation for each before any query is issued.
func (d *Driver) collect() []task {
	e := d.engine
	var tasks []task
	e.store.EachCell(func(ref store.CellRef, prop *records.Property, rv *records.ReconciledValue) bool {
		if rv.Status != records.StatusPending || !prop.Metadata.EntityValued() {
			return true
		}
		query, err := e.queryValue(ref)
		if err != nil || query == "" {
			return true
		}
		tasks = append(tasks, task{ref: ref, query: query, generation: e.begin(ref)})
		return true
	})
	return tasks
}

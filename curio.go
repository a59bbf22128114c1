// Package curio guides a curator through reconciling heterogeneous CMS
// records against a linked-data knowledge base, one property value at a
// time. The root package ties the engines together behind one session
// facade: extraction, the reconciliation store, candidate matching,
// and literal validation.
package curio

import (
	"context"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/extract"
	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/match"
	"github.com/curioworks/curio/pkg/records"
	"github.com/curioworks/curio/pkg/store"
	"github.com/curioworks/curio/pkg/validate"
	"github.com/curioworks/curio/pkg/wikidata"
)

// Curio manages one reconciliation session over a loaded dataset
type Curio interface {
	// Load builds a fresh session from raw records and the property
	// mapping, replacing any previous session
	Load(ctx context.Context, raw []map[string]any, mapped []records.PropertyDescriptor, manual []records.ManualProperty) error

	// LoadProject restores a session from a saved project file
	LoadProject(ctx context.Context, path string) error

	// SaveProject writes the current session to a project file
	SaveProject(ctx context.Context, path string) error

	// Store exposes the live session state
	Store() (*store.Store, error)

	// Progress returns the aggregate cell counters
	Progress() (store.Progress, error)

	// Resolve queries candidates for one cell and applies the
	// auto-accept rule
	Resolve(ctx context.Context, ref store.CellRef) (*match.Outcome, error)

	// ReconcileAll batch-resolves every pending entity-valued cell
	ReconcileAll(ctx context.Context) (*match.Summary, error)

	// Decide applies a curator decision to one cell
	Decide(ctx context.Context, ref store.CellRef, t store.Transition) (*records.ReconciledValue, error)

	// Check validates a literal value for a cell's property
	Check(ctx context.Context, ref store.CellRef, value string) (validate.Result, error)

	// CheckLive validates as the curator types; empty input yields a
	// hint instead of a failure
	CheckLive(ctx context.Context, ref store.CellRef, value string) (validate.Result, error)

	// ConfirmModeFor reports how an invalid value may be confirmed for
	// a cell's datatype
	ConfirmModeFor(ref store.CellRef) (validate.ConfirmMode, error)

	// Describe fetches datatype and constraints for a knowledge-base
	// property
	Describe(ctx context.Context, propertyID string) (*records.PropertyMetadata, error)

	// Suggestions fetches required and optional properties for an
	// entity schema
	Suggestions(ctx context.Context, schemaID string) (*records.SchemaSuggestions, error)
}

// curio is the internal implementation of the Curio interface
type curio struct {
	config    *config
	client    *wikidata.Client
	extractor *extract.Extractor

	store  *store.Store
	engine *match.Engine
	driver *match.Driver
}

// New creates a session facade with the given options. No dataset is
// loaded yet; most operations fail with a precondition error until
// Load or LoadProject succeeds.
func New(opts ...Option) (Curio, error) {
	c := &curio{config: defaultConfig()}
	if err := c.options(opts...); err != nil {
		return nil, err
	}

	c.client = c.config.client
	if c.client == nil {
		c.client = wikidata.New(c.config.clientOptions()...)
	}
	c.extractor = extract.New(c.config.chains)

	return c, nil
}

// Load builds a fresh session, replacing any previous one.
func (c *curio) Load(ctx context.Context, raw []map[string]any, mapped []records.PropertyDescriptor, manual []records.ManualProperty) error {
	s, err := store.New(ctx, raw, mapped, manual, c.extractor)
	if err != nil {
		return err
	}
	c.attach(s)

	logging.FromContext(ctx).Info().
		Int("items", len(s.Items())).
		Msg("Session loaded")
	return nil
}

// LoadProject restores a session from a saved project file.
func (c *curio) LoadProject(ctx context.Context, path string) error {
	p, err := records.LoadFile(path)
	if err != nil {
		return err
	}
	s, err := store.FromProject(p)
	if err != nil {
		return err
	}
	c.attach(s)

	logging.FromContext(ctx).Info().
		Str("path", path).
		Int("items", len(s.Items())).
		Msg("Project restored")
	return nil
}

// SaveProject snapshots the current session to a project file.
func (c *curio) SaveProject(ctx context.Context, path string) error {
	s, err := c.Store()
	if err != nil {
		return err
	}
	if err := s.Project().SaveFile(path); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Str("path", path).Msg("Project saved")
	return nil
}

// attach wires the matching engine and batch driver to a new session.
func (c *curio) attach(s *store.Store) {
	c.store = s
	searcher := c.config.searcher
	if searcher == nil {
		searcher = c.client
	}
	c.engine = match.NewEngine(searcher, s,
		match.WithLimit(c.config.searchLimit),
		match.WithThreshold(c.config.threshold),
	)
	c.driver = match.NewDriver(c.engine, match.WithConcurrency(c.config.concurrency))
}

// Store exposes the live session state.
func (c *curio) Store() (*store.Store, error) {
	if c.store == nil {
		return nil, errors.NewPreconditionError("session-loaded", "no dataset loaded")
	}
	return c.store, nil
}

// Progress returns the aggregate cell counters.
func (c *curio) Progress() (store.Progress, error) {
	s, err := c.Store()
	if err != nil {
		return store.Progress{}, err
	}
	return s.Progress(), nil
}

// Resolve queries candidates for one cell.
func (c *curio) Resolve(ctx context.Context, ref store.CellRef) (*match.Outcome, error) {
	if _, err := c.Store(); err != nil {
		return nil, err
	}
	ctx = logging.WithCell(ctx, ref.ItemID, ref.Property, ref.Index)
	return c.engine.Resolve(ctx, ref)
}

// ReconcileAll batch-resolves every pending entity-valued cell.
func (c *curio) ReconcileAll(ctx context.Context) (*match.Summary, error) {
	if _, err := c.Store(); err != nil {
		return nil, err
	}
	return c.driver.Run(ctx)
}

// Decide applies a curator decision to one cell.
func (c *curio) Decide(ctx context.Context, ref store.CellRef, t store.Transition) (*records.ReconciledValue, error) {
	s, err := c.Store()
	if err != nil {
		return nil, err
	}
	ctx = logging.WithCell(ctx, ref.ItemID, ref.Property, ref.Index)
	return s.Apply(ctx, ref, t)
}

// Check validates a literal value for a cell's property.
func (c *curio) Check(ctx context.Context, ref store.CellRef, value string) (validate.Result, error) {
	constraint, err := c.constraintFor(ctx, ref)
	if err != nil {
		return validate.Result{}, err
	}
	return validate.Value(value, constraint), nil
}

// CheckLive validates as the curator types.
func (c *curio) CheckLive(ctx context.Context, ref store.CellRef, value string) (validate.Result, error) {
	constraint, err := c.constraintFor(ctx, ref)
	if err != nil {
		return validate.Result{}, err
	}
	return validate.Live(value, constraint), nil
}

// ConfirmModeFor reports how an invalid value may be confirmed for the
// cell's datatype.
func (c *curio) ConfirmModeFor(ref store.CellRef) (validate.ConfirmMode, error) {
	meta, _, err := c.propertyFor(ref)
	if err != nil {
		return "", err
	}
	datatype := records.DatatypeString
	if meta != nil {
		datatype = meta.Datatype
	}
	return c.config.policy.ModeFor(datatype), nil
}

// Describe fetches datatype and constraints for a knowledge-base
// property.
func (c *curio) Describe(ctx context.Context, propertyID string) (*records.PropertyMetadata, error) {
	return c.client.PropertyMetadata(ctx, propertyID)
}

// Suggestions fetches required and optional properties for an entity
// schema.
func (c *curio) Suggestions(ctx context.Context, schemaID string) (*records.SchemaSuggestions, error) {
	return c.client.SchemaSuggestions(ctx, schemaID)
}

// propertyFor resolves a cell's property metadata and key.
func (c *curio) propertyFor(ref store.CellRef) (*records.PropertyMetadata, string, error) {
	s, err := c.Store()
	if err != nil {
		return nil, "", err
	}
	item, ok := s.Item(ref.ItemID)
	if !ok {
		return nil, "", errors.NewNotFoundError("item", ref.ItemID)
	}
	prop := item.Property(ref.Property)
	if prop == nil {
		return nil, "", errors.NewNotFoundError("property", ref.Property)
	}
	return prop.Metadata, ref.Property, nil
}

// constraintFor resolves the format constraint for a cell's property.
func (c *curio) constraintFor(ctx context.Context, ref store.CellRef) (*validate.Constraint, error) {
	meta, key, err := c.propertyFor(ref)
	if err != nil {
		return nil, err
	}
	return validate.Resolve(ctx, key, meta), nil
}

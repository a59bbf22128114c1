// Package store holds the authoritative per-item/per-property/per-value
// reconciliation state for one dataset-load session. The store is built
// once from extractor output, mutated in place by every reconciliation
// decision, and replaced wholesale on a new dataset load. It is not
// safe for concurrent use; the workflow runs on a single logical thread.
package store

import (
	"context"
	"fmt"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/extract"
	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/records"
)

// CellRef identifies one (item, property, value-index) reconciliation
// unit.
type CellRef struct {
	ItemID   string
	Property string
	Index    int
}

// String returns the canonical cell key.
func (c CellRef) String() string {
	return fmt.Sprintf("%s/%s/%d", c.ItemID, c.Property, c.Index)
}

// Store is the per-session reconciliation state table.
type Store struct {
	items  []*records.Item
	byID   map[string]*records.Item
	mapped []records.PropertyDescriptor
	manual []records.ManualProperty

	progress Progress
	recency  *RecencyCache
}

// New builds a store from raw records and the property mapping. All
// preconditions are checked before any state is built; a violation
// returns a typed PreconditionError naming the failed condition and no
// partial store.
func New(ctx context.Context, raw []map[string]any, mapped []records.PropertyDescriptor, manual []records.ManualProperty, extractor *extract.Extractor) (*Store, error) {
	if len(raw) == 0 {
		return nil, errors.NewPreconditionError("dataset-non-empty", "no records loaded")
	}
	if len(mapped) == 0 {
		return nil, errors.NewPreconditionError("mapped-properties-present", "no properties mapped")
	}
	if !anyApplicable(raw, mapped) {
		return nil, errors.NewPreconditionError("mapped-properties-applicable", "no mapped property occurs in the loaded records")
	}

	if extractor == nil {
		extractor = extract.New(nil)
	}

	s := &Store{
		byID:    make(map[string]*records.Item, len(raw)),
		mapped:  mapped,
		manual:  manual,
		recency: NewRecencyCache(DefaultRecencySize),
	}

	for i, record := range raw {
		item := &records.Item{
			ID:           fmt.Sprintf("item-%d", i+1),
			OriginalData: record,
			Properties:   make(map[string]*records.Property, len(mapped)+len(manual)),
		}

		for _, desc := range mapped {
			values := extractor.Values(ctx, record, desc)
			prop := &records.Property{
				OriginalValues: values,
				Metadata:       desc.Metadata,
				Reconciled:     make([]*records.ReconciledValue, len(values)),
			}
			for j := range values {
				prop.Reconciled[j] = records.NewPendingValue()
			}
			item.Properties[desc.Key] = prop
		}

		for _, m := range manual {
			// Manual properties carry exactly one value per item. The
			// default only seeds the cell; it does not imply acceptance.
			rv := records.NewPendingValue()
			rv.ManualValue = m.Default
			item.Properties[m.Key] = &records.Property{
				OriginalValues: []string{m.Default},
				Metadata:       m.Metadata,
				Reconciled:     []*records.ReconciledValue{rv},
				IsManual:       true,
			}
		}

		s.items = append(s.items, item)
		s.byID[item.ID] = item
	}

	s.progress = s.Recompute()

	logging.FromContext(ctx).Info().
		Int("items", len(s.items)).
		Int("mapped_properties", len(mapped)).
		Int("manual_properties", len(manual)).
		Int("cells", s.progress.Total).
		Msg("Reconciliation store initialized")

	return s, nil
}

// anyApplicable reports whether at least one mapped property occurs in
// at least one record.
func anyApplicable(raw []map[string]any, mapped []records.PropertyDescriptor) bool {
	for _, desc := range mapped {
		for _, record := range raw {
			if v, ok := record[desc.Key]; ok && v != nil {
				return true
			}
		}
	}
	return false
}

// FromProject rebuilds a store from a saved project snapshot. The
// resulting store replaces any previous session state.
func FromProject(p *records.Project) (*Store, error) {
	if p == nil || len(p.Items) == 0 {
		return nil, errors.NewPreconditionError("dataset-non-empty", "project contains no items")
	}

	s := &Store{
		items:   p.Items,
		byID:    make(map[string]*records.Item, len(p.Items)),
		mapped:  p.Mapped,
		manual:  p.Manual,
		recency: NewRecencyCache(DefaultRecencySize),
	}
	for _, item := range p.Items {
		s.byID[item.ID] = item
	}
	s.progress = s.Recompute()
	return s, nil
}

// Project captures the current state as a serializable snapshot.
func (s *Store) Project() *records.Project {
	return &records.Project{
		Mapped: s.mapped,
		Manual: s.manual,
		Items:  s.items,
	}
}

// Items returns the items in load order.
func (s *Store) Items() []*records.Item {
	return s.items
}

// Item looks up an item by id.
func (s *Store) Item(id string) (*records.Item, bool) {
	item, ok := s.byID[id]
	return item, ok
}

// Mapped returns the mapped property descriptors.
func (s *Store) Mapped() []records.PropertyDescriptor {
	return s.mapped
}

// Manual returns the manual property definitions.
func (s *Store) Manual() []records.ManualProperty {
	return s.manual
}

// Recency returns the per-property recent-acceptance cache.
func (s *Store) Recency() *RecencyCache {
	return s.recency
}

// Cell resolves a cell reference to its state and original value.
func (s *Store) Cell(ref CellRef) (*records.ReconciledValue, string, error) {
	item, ok := s.byID[ref.ItemID]
	if !ok {
		return nil, "", errors.NewNotFoundError("item", ref.ItemID)
	}
	prop := item.Property(ref.Property)
	if prop == nil {
		return nil, "", errors.NewNotFoundError("property", ref.Property)
	}
	if ref.Index < 0 || ref.Index >= len(prop.Reconciled) {
		return nil, "", errors.NewNotFoundError("cell", ref.String())
	}
	original := ""
	if ref.Index < len(prop.OriginalValues) {
		original = prop.OriginalValues[ref.Index]
	}
	return prop.Reconciled[ref.Index], original, nil
}

// EachCell visits every cell in item order. Returning false from the
// visitor stops the walk.
func (s *Store) EachCell(visit func(ref CellRef, prop *records.Property, rv *records.ReconciledValue) bool) {
	for _, item := range s.items {
		for key, prop := range item.Properties {
			for i, rv := range prop.Reconciled {
				ref := CellRef{ItemID: item.ID, Property: key, Index: i}
				if !visit(ref, prop, rv) {
					return
				}
			}
		}
	}
}

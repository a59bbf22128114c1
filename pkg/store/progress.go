package store

import "github.com/curioworks/curio/pkg/records"

// Progress aggregates cell states across the whole store. Counters are
// maintained incrementally on every transition; Recompute derives them
// from scratch for verification and after bulk loads.
type Progress struct {
	Total      int `yaml:"total" json:"total"`
	Pending    int `yaml:"pending" json:"pending"`
	Reconciled int `yaml:"reconciled" json:"reconciled"`
	Skipped    int `yaml:"skipped" json:"skipped"`
	NoItem     int `yaml:"noItem" json:"noItem"`
	Errors     int `yaml:"errors" json:"errors"`
}

// Completed returns the number of cells counting toward completion:
// successful matches plus explicit no-item decisions.
func (p Progress) Completed() int {
	return p.Reconciled + p.NoItem
}

// CanAdvance reports whether the workflow may move to the next stage:
// every cell decided or skipped, and at least one cell exists.
func (p Progress) CanAdvance() bool {
	return p.Total > 0 && p.Completed()+p.Skipped >= p.Total
}

// Consistent reports whether the counters still sum to the total.
func (p Progress) Consistent() bool {
	return p.Total == p.Pending+p.Reconciled+p.Skipped+p.NoItem+p.Errors
}

// Progress returns the current aggregate counters.
func (s *Store) Progress() Progress {
	return s.progress
}

// Recompute derives progress counters by scanning every cell.
func (s *Store) Recompute() Progress {
	var p Progress
	s.EachCell(func(_ CellRef, _ *records.Property, rv *records.ReconciledValue) bool {
		p.Total++
		p.count(rv.Status, 1)
		return true
	})
	return p
}

// count adjusts the counter for one status by delta.
func (p *Progress) count(status records.Status, delta int) {
	switch status {
	case records.StatusPending:
		p.Pending += delta
	case records.StatusReconciled:
		p.Reconciled += delta
	case records.StatusSkipped:
		p.Skipped += delta
	case records.StatusNoItem:
		p.NoItem += delta
	case records.StatusError:
		p.Errors += delta
	}
}

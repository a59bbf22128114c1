package store

import "github.com/curioworks/curio/pkg/records"

// DefaultRecencySize is how many recent acceptances are remembered per
// property.
const DefaultRecencySize = 5

// RecencyCache remembers entities recently accepted for a property,
// most recent first. It pre-seeds candidate lists for later cells of
// the same property; it is a heuristic, never authoritative.
type RecencyCache struct {
	size    int
	entries map[string][]records.Match
}

// NewRecencyCache creates a cache keeping up to size entries per
// property.
func NewRecencyCache(size int) *RecencyCache {
	if size <= 0 {
		size = DefaultRecencySize
	}
	return &RecencyCache{
		size:    size,
		entries: make(map[string][]records.Match),
	}
}

// Add records an accepted entity for a property. Re-accepting a known
// entity moves it to the front rather than duplicating it.
func (c *RecencyCache) Add(property string, match records.Match) {
	recent := c.entries[property]

	filtered := make([]records.Match, 0, len(recent)+1)
	filtered = append(filtered, match)
	for _, m := range recent {
		if m.ID != match.ID {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) > c.size {
		filtered = filtered[:c.size]
	}
	c.entries[property] = filtered
}

// Seed returns the recent acceptances for a property, most recent
// first. The returned slice is a copy.
func (c *RecencyCache) Seed(property string) []records.Match {
	recent := c.entries[property]
	if len(recent) == 0 {
		return nil
	}
	out := make([]records.Match, len(recent))
	copy(out, recent)
	return out
}

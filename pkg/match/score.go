package match

import (
	"strings"

	"github.com/curioworks/curio/pkg/records"
)

// HeuristicCap bounds locally computed scores. The endpoint's ranking
// is the only signal trusted above the auto-accept threshold, so a
// heuristic score can never auto-accept on its own.
const HeuristicCap = 85.0

// scoreAll fills in heuristic scores for candidates the endpoint
// returned without one, and returns the best candidate that carried an
// explicit endpoint score. Only that candidate is eligible for
// auto-accept.
func scoreAll(query string, matches []records.Match) ([]records.Match, *records.Match) {
	var best *records.Match
	out := make([]records.Match, len(matches))
	for i, m := range matches {
		if m.Score != nil {
			if best == nil || *m.Score > *best.Score {
				authoritative := m
				best = &authoritative
			}
		} else {
			score := similarity(query, m.Label)
			m.Score = &score
		}
		out[i] = m
	}
	return out, best
}

// similarity estimates 0..HeuristicCap match quality from the query and
// a candidate label. It is deliberately crude: exact and containment
// checks plus token overlap, enough to order candidates for display.
func similarity(query, label string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	l := strings.ToLower(strings.TrimSpace(label))
	if q == "" || l == "" {
		return 0
	}
	if q == l {
		return HeuristicCap
	}
	if strings.HasPrefix(l, q) || strings.HasPrefix(q, l) {
		return 70
	}
	if strings.Contains(l, q) || strings.Contains(q, l) {
		return 60
	}
	return tokenOverlap(q, l) * 50
}

// tokenOverlap returns the fraction of query tokens present in the
// label.
func tokenOverlap(query, label string) float64 {
	queryTokens := strings.Fields(query)
	if len(queryTokens) == 0 {
		return 0
	}
	labelTokens := make(map[string]bool)
	for _, tok := range strings.Fields(label) {
		labelTokens[tok] = true
	}
	hits := 0
	for _, tok := range queryTokens {
		if labelTokens[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

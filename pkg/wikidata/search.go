package wikidata

import (
	"context"
	"net/url"
	"strconv"

	"github.com/curioworks/curio/pkg/records"
)

// searchResponse is the wbsearchentities payload shape.
type searchResponse struct {
	Search []searchResult `json:"search"`
	Error  *apiError      `json:"error,omitempty"`
}

type searchResult struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Score       *float64 `json:"score,omitempty"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// SearchEntities performs a free-text entity search and returns ranked
// candidates. The limit is clamped to MaxSearchLimit; non-positive
// limits request the maximum. Scores are passed through only when the
// endpoint supplied a well-formed 0-100 value; anything else is
// discarded rather than trusted.
func (c *Client) SearchEntities(ctx context.Context, query string, limit int) ([]records.Match, error) {
	if limit <= 0 || limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", query)
	params.Set("language", c.language)
	params.Set("type", "item")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("format", "json")

	var resp searchResponse
	if err := c.get(ctx, "wbsearchentities", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, newAPIError("wbsearchentities", resp.Error)
	}

	matches := make([]records.Match, 0, len(resp.Search))
	for _, r := range resp.Search {
		m := records.Match{
			ID:          r.ID,
			Label:       r.Label,
			Description: r.Description,
		}
		if r.Score != nil && *r.Score >= 0 && *r.Score <= 100 {
			score := *r.Score
			m.Score = &score
		}
		matches = append(matches, m)
	}
	return matches, nil
}

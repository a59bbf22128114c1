package wikidata

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/records"
)

// SchemaSuggestions fetches the required/optional property suggestions
// the external entity-schema parser derived for a schema id. The parser
// itself is a separate service; this client only consumes its output to
// pre-seed mapped-property descriptors.
func (c *Client) SchemaSuggestions(ctx context.Context, schemaID string) (*records.SchemaSuggestions, error) {
	if c.schemaURL == "" {
		return nil, &errors.ValidationError{
			Field:   "schemaURL",
			Message: "no entity-schema service configured",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.schemaURL+"/"+schemaID, nil)
	if err != nil {
		return nil, errors.WrapQuery("entity-schema", 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	c.auth.Apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapQuery("entity-schema", 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.NewNotFoundError("entity schema", schemaID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewQueryError("entity-schema", resp.StatusCode, string(body))
	}

	var suggestions records.SchemaSuggestions
	if err := json.NewDecoder(resp.Body).Decode(&suggestions); err != nil {
		return nil, errors.WrapQuery("entity-schema", resp.StatusCode, err)
	}
	return &suggestions, nil
}

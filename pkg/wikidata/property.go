package wikidata

import (
	"context"
	"net/url"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/records"
)

// Knowledge base identifiers for constraint statements.
const (
	// constraintProperty carries property constraints (P2302).
	constraintProperty = "P2302"
	// formatConstraintItem identifies the format constraint type (Q21502404).
	formatConstraintItem = "Q21502404"
	// regexQualifier carries the format pattern (P1793).
	regexQualifier = "P1793"
	// syntaxClarificationQualifier carries the human description (P2916).
	syntaxClarificationQualifier = "P2916"
)

// entitiesResponse is the wbgetentities payload shape, reduced to the
// fields reconciliation consumes.
type entitiesResponse struct {
	Entities map[string]entityPayload `json:"entities"`
	Error    *apiError                `json:"error,omitempty"`
}

type entityPayload struct {
	Datatype string                 `json:"datatype"`
	Claims   map[string][]statement `json:"claims"`
	Missing  *string                `json:"missing,omitempty"`
}

type statement struct {
	MainSnak   snak              `json:"mainsnak"`
	Qualifiers map[string][]snak `json:"qualifiers"`
}

type snak struct {
	DataValue struct {
		Value any `json:"value"`
	} `json:"datavalue"`
}

// PropertyMetadata fetches a property's datatype and format constraints.
func (c *Client) PropertyMetadata(ctx context.Context, propertyID string) (*records.PropertyMetadata, error) {
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", propertyID)
	params.Set("props", "datatype|claims")
	params.Set("format", "json")

	var resp entitiesResponse
	if err := c.get(ctx, "wbgetentities", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, newAPIError("wbgetentities", resp.Error)
	}

	entity, ok := resp.Entities[propertyID]
	if !ok || entity.Missing != nil {
		return nil, errors.NewNotFoundError("property", propertyID)
	}

	meta := &records.PropertyMetadata{
		Datatype: records.Datatype(entity.Datatype),
	}

	for _, stmt := range entity.Claims[constraintProperty] {
		if constraintTypeOf(stmt) != formatConstraintItem {
			continue
		}
		constraint := records.Constraint{
			Type:        records.ConstraintTypeFormat,
			Pattern:     qualifierString(stmt, regexQualifier),
			Description: qualifierText(stmt, syntaxClarificationQualifier),
		}
		if constraint.Pattern != "" {
			meta.Constraints = append(meta.Constraints, constraint)
		}
	}

	return meta, nil
}

// constraintTypeOf returns the constraint type item id of a P2302
// statement, or empty when the statement is malformed.
func constraintTypeOf(stmt statement) string {
	value, ok := stmt.MainSnak.DataValue.Value.(map[string]any)
	if !ok {
		return ""
	}
	id, _ := value["id"].(string)
	return id
}

// qualifierString extracts a plain-string qualifier value.
func qualifierString(stmt statement, qualifier string) string {
	for _, q := range stmt.Qualifiers[qualifier] {
		if s, ok := q.DataValue.Value.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// qualifierText extracts a monolingual-text qualifier value.
func qualifierText(stmt statement, qualifier string) string {
	for _, q := range stmt.Qualifiers[qualifier] {
		if obj, ok := q.DataValue.Value.(map[string]any); ok {
			if text, ok := obj["text"].(string); ok && text != "" {
				return text
			}
		}
	}
	return ""
}

// newAPIError converts an in-band API error into a QueryError.
func newAPIError(endpoint string, apiErr *apiError) error {
	return errors.NewQueryError(endpoint, 0, apiErr.Code+": "+apiErr.Info)
}

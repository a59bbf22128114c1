// Package extract normalizes heterogeneous source value shapes into
// canonical strings. Records exported from the content-management API
// mix plain scalars with structured JSON-LD objects; extraction flattens
// one property of one record into an ordered string list, optionally
// applying a transformation chain bound to the mapping.
package extract

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/records"
	"github.com/curioworks/curio/pkg/transform"
)

// Source value fields recognized by default extraction, in priority
// order: the human-readable label wins over the raw literal.
const (
	labelField = "o:label"
	valueField = "@value"
)

// Extractor normalizes property values for one session. The chain
// resolver may be nil, in which case no transformations apply.
type Extractor struct {
	chains transform.Resolver
}

// New creates an extractor with the given chain resolver.
func New(chains transform.Resolver) *Extractor {
	return &Extractor{chains: chains}
}

// Values extracts the canonical string list for one property of one
// record, preserving source order. A missing property yields an empty
// list, never an error: extraction must not fail the pipeline.
func (e *Extractor) Values(ctx context.Context, record map[string]any, desc records.PropertyDescriptor) []string {
	raw, ok := record[desc.Key]
	if !ok || raw == nil {
		return []string{}
	}

	elements, ok := raw.([]any)
	if !ok {
		// Scalar values become a singleton list.
		elements = []any{raw}
	}

	values := make([]string, 0, len(elements))
	for _, element := range elements {
		value, ok := extractElement(element, desc.SubField)
		if !ok {
			// Elements lacking a requested sub-field are dropped, never
			// defaulted: falling back would silently blend two different
			// structured representations of the property.
			continue
		}
		values = append(values, e.apply(ctx, desc, value))
	}
	return values
}

// apply runs the mapping's transformation chain over a value when one
// resolves. Transformation failure falls back to the untransformed
// value.
func (e *Extractor) apply(ctx context.Context, desc records.PropertyDescriptor, value string) string {
	if e.chains == nil {
		return value
	}

	chain, ok := e.chains.Resolve(transform.ChainID(desc.Key, desc.Target, desc.SubField))
	if !ok {
		return value
	}

	transformed, err := chain.Final(value)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("property", desc.Key).
			Str("chain_id", chain.ID).
			Msg("Transformation failed, keeping original value")
		return value
	}
	return transformed
}

// extractElement normalizes one source element. When subField is set,
// only that field qualifies; the second return reports whether the
// element produced a value at all.
func extractElement(element any, subField string) (string, bool) {
	if subField != "" {
		obj, ok := element.(map[string]any)
		if !ok {
			return "", false
		}
		field, ok := obj[subField]
		if !ok || field == nil {
			return "", false
		}
		return coerce(field), true
	}

	if obj, ok := element.(map[string]any); ok {
		if label, ok := obj[labelField]; ok && label != nil {
			return coerce(label), true
		}
		if value, ok := obj[valueField]; ok && value != nil {
			return coerce(value), true
		}
		// Structured element with neither known field: coerce the whole
		// object so the curator at least sees something recognizable.
		return coerce(obj), true
	}

	return coerce(element), true
}

// coerce converts an arbitrary decoded JSON value to its canonical
// string form.
func coerce(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Package validate resolves and applies format constraints for
// literal-valued properties. Constraints come from the knowledge base
// when available and from a built-in table of well-known identifier
// patterns otherwise; a property with neither is unconstrained.
package validate

import (
	"context"
	"regexp"
	"strings"

	"github.com/curioworks/curio/pkg/errors"
	"github.com/curioworks/curio/pkg/logging"
	"github.com/curioworks/curio/pkg/records"
)

// Source records where a resolved constraint came from.
type Source string

const (
	// SourceExplicit marks a constraint attached to property metadata.
	SourceExplicit Source = "explicit"
	// SourceBuiltin marks a constraint from the built-in pattern table.
	SourceBuiltin Source = "builtin"
)

// Constraint is a resolved, compiled format constraint for one property.
// A nil *Constraint means the property is unconstrained. A Constraint
// whose pattern failed to compile validates everything: malformed
// definitions fail open instead of blocking the curator.
type Constraint struct {
	Name        string
	Pattern     string
	Description string
	Source      Source

	// FixKind selects the suggested-fix rewrites for this constraint
	FixKind FixKind

	compiled *regexp.Regexp
}

// builtinPattern is one entry of the well-known pattern table.
type builtinPattern struct {
	name        string
	keys        []string // exact property-name aliases, lowercase
	pattern     string
	description string
	fixKind     FixKind
}

// The table order decides precedence when several substrings match.
var builtinPatterns = []builtinPattern{
	{
		name:        "ISBN",
		keys:        []string{"isbn", "bibo:isbn", "bibo:isbn13", "bibo:isbn10"},
		pattern:     `^(?:\d[- ]?){9}[\dXx]$|^(?:\d[- ]?){12}\d$`,
		description: "ISBN-10 or ISBN-13, separators optional",
		fixKind:     FixISBN,
	},
	{
		name:        "ISSN",
		keys:        []string{"issn", "bibo:issn"},
		pattern:     `^\d{4}-?\d{3}[\dXx]$`,
		description: "eight digits with an optional hyphen",
		fixKind:     FixISSN,
	},
	{
		name:        "DOI",
		keys:        []string{"doi", "bibo:doi"},
		pattern:     `^10\.\d{4,9}/\S+$`,
		description: "DOI starting with 10.",
	},
	{
		name:        "ORCID",
		keys:        []string{"orcid"},
		pattern:     `^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`,
		description: "four groups of four digits",
	},
	{
		name:        "URL",
		keys:        []string{"url", "uri", "schema:url", "bibo:uri"},
		pattern:     `^https?://\S+$`,
		description: "http or https URL",
		fixKind:     FixURL,
	},
	{
		name:        "email",
		keys:        []string{"email", "mbox", "foaf:mbox"},
		pattern:     `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
		description: "email address",
	},
	{
		name:        "year",
		keys:        []string{"year", "dcterms:issued"},
		pattern:     `^\d{4}$`,
		description: "four-digit year",
		fixKind:     FixYear,
	},
	{
		name:        "ISO date",
		keys:        []string{"date", "dcterms:date", "dcterms:created"},
		pattern:     `^\d{4}-\d{2}-\d{2}$`,
		description: "YYYY-MM-DD",
	},
	{
		name:        "entity id",
		keys:        []string{"qid", "wikidata"},
		pattern:     `^Q\d+$`,
		description: "knowledge base item id",
	},
	{
		name:        "property id",
		keys:        []string{"pid"},
		pattern:     `^P\d+$`,
		description: "knowledge base property id",
	},
}

// Resolve finds the format constraint for a property. Resolution order:
// an explicit format constraint on the supplied metadata, then the
// built-in table matched first by exact property-name equality and then
// by substring containment. Nil means unconstrained.
func Resolve(ctx context.Context, propertyKey string, meta *records.PropertyMetadata) *Constraint {
	if explicit := meta.FormatConstraint(); explicit != nil {
		return compile(ctx, &Constraint{
			Name:        "format constraint",
			Pattern:     anchored(explicit.PatternValue()),
			Description: explicit.Description,
			Source:      SourceExplicit,
		}, propertyKey)
	}

	key := strings.ToLower(propertyKey)

	for _, b := range builtinPatterns {
		for _, alias := range b.keys {
			if key == alias {
				return compile(ctx, builtinConstraint(b), propertyKey)
			}
		}
	}
	for _, b := range builtinPatterns {
		for _, alias := range b.keys {
			if strings.Contains(key, alias) {
				return compile(ctx, builtinConstraint(b), propertyKey)
			}
		}
	}

	return nil
}

func builtinConstraint(b builtinPattern) *Constraint {
	return &Constraint{
		Name:        b.name,
		Pattern:     b.pattern,
		Description: b.description,
		Source:      SourceBuiltin,
		FixKind:     b.fixKind,
	}
}

// compile prepares the constraint's pattern. Compilation failure leaves
// compiled nil, which Validate treats as "skip": fail open.
func compile(ctx context.Context, c *Constraint, propertyKey string) *Constraint {
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		patternErr := errors.NewPatternError(propertyKey, c.Pattern, err)
		logging.FromContext(ctx).Warn().
			Err(patternErr).
			Str("property", propertyKey).
			Msg("Malformed constraint pattern, validation disabled for property")
		return c
	}
	c.compiled = re
	return c
}

// anchored wraps knowledge-base patterns in ^...$: upstream format
// constraints describe the whole value, not a substring.
func anchored(pattern string) string {
	if strings.HasPrefix(pattern, "^") && strings.HasSuffix(pattern, "$") {
		return pattern
	}
	return "^(?:" + pattern + ")$"
}

// Enforceable reports whether the constraint's pattern compiled and
// will actually be tested.
func (c *Constraint) Enforceable() bool {
	return c != nil && c.compiled != nil
}

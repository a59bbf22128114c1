// Package transform applies ordered transformation chains to extracted
// values. Chains are identified by a deterministic id derived from the
// source property, the target property, and the selected sub-field, so
// the same mapping always resolves the same chain across sessions.
package transform

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/curioworks/curio/pkg/errors"
)

// StepKind identifies a transformation step type.
type StepKind string

const (
	// StepTrim removes surrounding whitespace.
	StepTrim StepKind = "trim"
	// StepLowercase lowercases the value.
	StepLowercase StepKind = "lowercase"
	// StepUppercase uppercases the value.
	StepUppercase StepKind = "uppercase"
	// StepTitlecase title-cases the value using English casing rules.
	StepTitlecase StepKind = "titlecase"
	// StepStripPrefix removes a literal prefix when present.
	StepStripPrefix StepKind = "strip-prefix"
	// StepStripSuffix removes a literal suffix when present.
	StepStripSuffix StepKind = "strip-suffix"
	// StepRegexReplace rewrites the value with a regular expression.
	StepRegexReplace StepKind = "regex-replace"
	// StepSplitTake splits on a separator and keeps one part.
	StepSplitTake StepKind = "split-take"
)

// Step is one transformation applied to a value. The meaning of the
// auxiliary fields depends on Kind.
type Step struct {
	Kind StepKind `yaml:"kind" json:"kind"`

	// Pattern and Replacement configure regex-replace
	Pattern     string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Replacement string `yaml:"replacement,omitempty" json:"replacement,omitempty"`

	// Text configures strip-prefix and strip-suffix
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// Separator and Index configure split-take; a negative index counts
	// from the end
	Separator string `yaml:"separator,omitempty" json:"separator,omitempty"`
	Index     int    `yaml:"index,omitempty" json:"index,omitempty"`
}

var titleCaser = cases.Title(language.English)

// Apply runs a single step against a value.
func (s Step) Apply(value string) (string, error) {
	switch s.Kind {
	case StepTrim:
		return strings.TrimSpace(value), nil
	case StepLowercase:
		return strings.ToLower(value), nil
	case StepUppercase:
		return strings.ToUpper(value), nil
	case StepTitlecase:
		return titleCaser.String(value), nil
	case StepStripPrefix:
		return strings.TrimPrefix(value, s.Text), nil
	case StepStripSuffix:
		return strings.TrimSuffix(value, s.Text), nil
	case StepRegexReplace:
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return "", errors.NewPatternError("", s.Pattern, err)
		}
		return re.ReplaceAllString(value, s.Replacement), nil
	case StepSplitTake:
		if s.Separator == "" {
			return "", &errors.ValidationError{Field: "separator", Message: "cannot be empty for split-take"}
		}
		parts := strings.Split(value, s.Separator)
		idx := s.Index
		if idx < 0 {
			idx += len(parts)
		}
		if idx < 0 || idx >= len(parts) {
			return "", &errors.ValidationError{
				Field:   "index",
				Value:   s.Index,
				Message: fmt.Sprintf("out of range for %d parts", len(parts)),
			}
		}
		return parts[idx], nil
	default:
		return "", &errors.ValidationError{
			Field:   "kind",
			Value:   string(s.Kind),
			Message: "unknown transformation step",
		}
	}
}

// Chain is an ordered list of transformation steps bound to one mapping.
type Chain struct {
	ID    string `yaml:"id" json:"id"`
	Steps []Step `yaml:"steps" json:"steps"`
}

// Run applies every step in order and returns all intermediate results,
// starting with the input value. Callers that only need the outcome use
// the last element. An error aborts the chain at the failing step.
func (c *Chain) Run(value string) ([]string, error) {
	results := make([]string, 0, len(c.Steps)+1)
	results = append(results, value)

	current := value
	for i, step := range c.Steps {
		next, err := step.Apply(current)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i, step.Kind, err)
		}
		current = next
		results = append(results, current)
	}
	return results, nil
}

// Final applies the chain and returns only the final value.
func (c *Chain) Final(value string) (string, error) {
	results, err := c.Run(value)
	if err != nil {
		return "", err
	}
	return results[len(results)-1], nil
}

// ChainID derives the deterministic chain id for a mapping. The id is
// stable across processes: FNV-1a over the property key, the target
// property id, and the selected sub-field.
func ChainID(propertyKey, target, subField string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(propertyKey))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(target))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(subField))
	return fmt.Sprintf("t%016x", h.Sum64())
}

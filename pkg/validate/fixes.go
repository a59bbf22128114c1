package validate

import (
	"regexp"
	"strings"
)

// FixKind selects the cheap rewrites a constraint can suggest.
type FixKind int

const (
	// FixNone offers no rewrites.
	FixNone FixKind = iota
	// FixISBN strips separators from ISBN-like values.
	FixISBN
	// FixISSN inserts the ISSN hyphen.
	FixISSN
	// FixURL prefixes a protocol.
	FixURL
	// FixYear extracts the first four-digit year.
	FixYear
)

// Fix is one advisory rewrite of a failing value. Fixes are offered to
// the curator, never applied automatically.
type Fix struct {
	Label string
	Value string
}

var yearRun = regexp.MustCompile(`\b(\d{4})\b`)

// suggestFixes produces constraint-specific rewrites for a failed
// value. Only rewrites that change the value are returned.
func suggestFixes(value string, c *Constraint) []Fix {
	if c == nil {
		return nil
	}

	var fixes []Fix
	add := func(label, fixed string) {
		if fixed != "" && fixed != value {
			fixes = append(fixes, Fix{Label: label, Value: fixed})
		}
	}

	switch c.FixKind {
	case FixISBN:
		stripped := strings.NewReplacer("-", "", " ", "").Replace(value)
		add("strip separators", stripped)
	case FixISSN:
		compact := strings.NewReplacer("-", "", " ", "").Replace(value)
		if len(compact) == 8 {
			add("insert hyphen", compact[:4]+"-"+compact[4:])
		}
	case FixURL:
		if !strings.Contains(value, "://") {
			add("prefix protocol", "https://"+value)
		}
	case FixYear:
		if m := yearRun.FindString(value); m != "" {
			add("extract year", m)
		}
	}

	return fixes
}

package validate

import "github.com/curioworks/curio/pkg/records"

// ConfirmMode decides what a failed validation means for confirming a
// value. The engine only reports the mode; enforcing it is the
// caller's decision.
type ConfirmMode string

const (
	// ConfirmAllow lets the value through without ceremony.
	ConfirmAllow ConfirmMode = "allow"
	// ConfirmOverride permits confirmation after an explicit override
	// prompt.
	ConfirmOverride ConfirmMode = "override"
	// ConfirmBlock withholds confirmation until the value passes.
	ConfirmBlock ConfirmMode = "block"
)

// Policy maps value datatypes to a confirmation mode for failed
// validations. The split between blocking and advisory behavior is
// deliberately configurable per datatype rather than one global rule.
type Policy map[records.Datatype]ConfirmMode

// DefaultPolicy mirrors the established workflow behavior: external
// identifiers may be confirmed over a failed validation after an
// explicit override, plain strings are held until fixed.
func DefaultPolicy() Policy {
	return Policy{
		records.DatatypeExternalID: ConfirmOverride,
		records.DatatypeString:     ConfirmBlock,
		records.DatatypeURL:        ConfirmOverride,
	}
}

// ModeFor returns the confirmation mode for a datatype. Datatypes
// without an entry block on failure, the conservative default.
func (p Policy) ModeFor(datatype records.Datatype) ConfirmMode {
	if mode, ok := p[datatype]; ok {
		return mode
	}
	return ConfirmBlock
}

package validate

import "strings"

// Result is the outcome of validating one literal value.
type Result struct {
	// Valid reports whether the value passed
	Valid bool

	// Message is the guidance shown next to the value; set for failures
	// and for informational hints
	Message string

	// Hint marks Message as informational rather than a failure; only
	// the real-time variant produces hints
	Hint bool

	// Constraint is the constraint that was applied, nil when the
	// property is unconstrained
	Constraint *Constraint

	// Fixes are advisory rewrites offered on failure, never auto-applied
	Fixes []Fix
}

// Value validates a literal value against a resolved constraint.
// The empty value is always invalid regardless of pattern presence.
// An unenforceable constraint (nil, or a pattern that failed to
// compile) validates any non-empty value.
func Value(value string, constraint *Constraint) Result {
	if strings.TrimSpace(value) == "" {
		return Result{
			Valid:      false,
			Message:    "value cannot be empty",
			Constraint: constraint,
		}
	}

	if !constraint.Enforceable() {
		return Result{Valid: true, Constraint: constraint}
	}

	if constraint.compiled.MatchString(value) {
		return Result{Valid: true, Constraint: constraint}
	}

	return Result{
		Valid:      false,
		Message:    failureMessage(constraint),
		Constraint: constraint,
		Fixes:      suggestFixes(value, constraint),
	}
}

// Live validates a value as the curator types. It differs from Value
// only for the empty value, which yields an informational hint instead
// of a hard failure.
func Live(value string, constraint *Constraint) Result {
	if strings.TrimSpace(value) == "" {
		return Result{
			Valid:      false,
			Hint:       true,
			Message:    "enter a value",
			Constraint: constraint,
		}
	}
	return Value(value, constraint)
}

// failureMessage builds the inline guidance for a failed match.
func failureMessage(c *Constraint) string {
	if c.Description != "" {
		return "value does not match expected format: " + c.Description
	}
	return "value does not match expected format for " + c.Name
}

package logging

import (
	"context"
	"testing"
)

// TestFromContextDefault tests that a bare context yields the default logger.
func TestFromContextDefault(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("Expected non-nil logger from bare context")
	}
	if logger != Default() {
		t.Error("Expected default logger for context without logger")
	}
}

// TestWithLoggerRoundTrip tests storing and retrieving a logger.
func TestWithLoggerRoundTrip(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)

	got := FromContext(ctx)
	if got != tl.Logger {
		t.Error("Expected logger stored in context to be returned")
	}
}

// TestWithCell tests that cell coordinates appear in log output.
func TestWithCell(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithCell(ctx, "item-3", "dcterms:subject", 1)

	FromContext(ctx).Info().Msg("transition applied")

	tl.AssertContains(t, "item-3")
	tl.AssertContains(t, "dcterms:subject")
	tl.AssertContains(t, "value_index")
	tl.AssertContains(t, "transition applied")
}

// TestWithProperty tests the property helper.
func TestWithProperty(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithProperty(ctx, "schema:itemLocation")

	FromContext(ctx).Debug().Msg("resolving constraints")

	tl.AssertContains(t, "schema:itemLocation")
}

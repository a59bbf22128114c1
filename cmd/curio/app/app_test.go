package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioworks/curio/pkg/logging"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	logger := logging.NewNopLogger()
	a, err := New("1.2.3", "abc123", "2026-08-25", "test", WithLogger(logger))
	require.NoError(t, err)
	return a
}

func TestNewApp(t *testing.T) {
	a := newTestApp(t)
	assert.Equal(t, "1.2.3", a.Version())
	assert.NotNil(t, a.Config())
	assert.NotNil(t, a.Logger())
}

func TestSessionLazyInit(t *testing.T) {
	a := newTestApp(t)

	first, err := a.Session()
	require.NoError(t, err)
	second, err := a.Session()
	require.NoError(t, err)
	assert.Same(t, first, second, "session is created once")
}

func TestVersionCommand(t *testing.T) {
	a := newTestApp(t)

	cmd := a.NewVersionCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.Run(cmd, nil)
	assert.Contains(t, buf.String(), "curio 1.2.3")
}

func TestExecuteUnknownCommand(t *testing.T) {
	a := newTestApp(t)
	err := a.Execute(context.Background(), []string{"definitely-not-a-command"})
	assert.Error(t, err)
}

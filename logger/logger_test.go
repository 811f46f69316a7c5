package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsSafe(t *testing.T) {
	// Before Initialize the logger must be usable without panicking.
	require.NotNil(t, Logger)
	Logger.Infow("no-op log", FieldComponent, "test")
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	assert.True(t, JSONOutput)
	require.NotNil(t, Logger)
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	assert.False(t, JSONOutput)
	require.NotNil(t, Logger)
}

func TestWith(t *testing.T) {
	child := With(FieldUserID, "u-123")
	require.NotNil(t, child)
	child.Debugw("child logger usable")
}

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		require.NoError(t, Init(env), "env %q", env)
		assert.NotNil(t, GetLogger())
	}
}

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	Info("import started", "rows", 3)
	Warn("Skipping invalid row", "line", 4)
	With("run_id", "abc").Debugw("connected")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "import started", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "abc", entries[2].ContextMap()["run_id"])
}

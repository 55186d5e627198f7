package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
)

func TestNewFromConfig(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := &config.Config{Log: config.LogConfig{Level: "warn", Format: format, Output: "stderr"}}
		l, err := New(cfg)
		require.NoError(t, err)
		assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(-1), "debug should be disabled")
		l.With("component", "test").Warn("hello", "k", "v")
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	l, err := New(&config.Config{Log: config.LogConfig{Level: "loud"}})
	require.NoError(t, err)
	assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(0))
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored")
	l.Sync()
}

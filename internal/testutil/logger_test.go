package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingLogger(t *testing.T) {
	logger, rec := NewRecordingLogger(t)
	logger.With("component", "warehouse").Warn("close failed", "error", "boom")
	logger.Debug("sample loaded", "rows", 3)

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, slog.LevelWarn, entries[0].Level)
	assert.Equal(t, map[string]string{"component": "warehouse", "error": "boom"}, entries[0].Attrs)

	e, ok := rec.Find("sample loaded")
	require.True(t, ok)
	assert.Equal(t, "3", e.Attrs["rows"])

	_, ok = rec.Find("missing")
	assert.False(t, ok)
}

package world

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadArena(t *testing.T) *World {
	t.Helper()
	w, err := Load("testdata/arena.geojson", quietLogger())
	require.NoError(t, err)
	return w
}

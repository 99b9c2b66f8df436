package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesTaggedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")
	f, err := os.Create(path)
	require.NoError(t, err)

	l := New(f)
	l.Info("booting system")
	l.Warn("no existing index found")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "booting system")
	assert.Contains(t, out, "[WARN]")
}

func TestLogger_PerfScope(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "perf.log")
	f, err := os.Create(path)
	require.NoError(t, err)

	l := New(f)
	done := l.PerfScope("unit test op")
	done()
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.Contains(out, "[PERF]"))
	assert.True(t, strings.Contains(out, "unit test op took"))
}

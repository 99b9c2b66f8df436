package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RecordQuery_WritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry_latest.json")
	rec := New(path)

	rec.RecordQuery("the quick fox", []string{"the", "quick", "fox"}, []ResultDebug{
		{DocID: 1, Score: 0.91, Text: "The quick brown fox jumps over the lazy dog"},
	}, 1.25)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "the quick fox", snap.Query)
	assert.Equal(t, 1.25, snap.LatencyMs)
	require.Len(t, snap.Results, 1)
	assert.Equal(t, int32(1), snap.Results[0].ID)
	assert.NotEmpty(t, snap.DebugTree.Ngrams)
}

func TestRecorder_RecordQuery_TruncatesSnippet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry_latest.json")
	rec := New(path)

	longText := ""
	for i := 0; i < 200; i++ {
		longText += "x"
	}
	rec.RecordQuery("q", []string{"q"}, []ResultDebug{{DocID: 1, Score: 1, Text: longText}}, 0.1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Len(t, snap.Results, 1)
	assert.LessOrEqual(t, len(snap.Results[0].Snippet), 103)
}

func TestRecorder_RecordQuery_CapsResultCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry_latest.json")
	rec := New(path)

	results := make([]ResultDebug, 0, 60)
	for i := int32(0); i < 60; i++ {
		results = append(results, ResultDebug{DocID: i, Score: 1, Text: "doc"})
	}
	rec.RecordQuery("q", []string{"q"}, results, 0.1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.LessOrEqual(t, len(snap.Results), 50)
}

func TestRecorder_RecordIngest_NoFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry_latest.json")
	rec := New(path)

	rec.RecordIngest(1, 0.5)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

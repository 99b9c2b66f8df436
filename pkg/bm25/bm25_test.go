package bm25

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umaarov/goat-search/pkg/normalize"
)

func processDoc(id int32, text string) ProcessedDocument {
	tokens := normalize.Tokenize(text)
	return ProcessedDocument{ID: id, Length: int32(len(tokens)), Tokens: tokens}
}

func TestIndex_SelfRecall(t *testing.T) {
	idx := New()
	idx.Add(processDoc(1, "The quick brown fox"))
	idx.Finalize()

	results := idx.Search(normalize.Tokenize("The quick brown fox"))
	require.NotEmpty(t, results)
	assert.Equal(t, int32(1), results[0].DocID)
}

func TestIndex_RankingOrder(t *testing.T) {
	idx := New()
	idx.Add(processDoc(1, "The quick brown fox"))
	idx.Add(processDoc(2, "Quick foxes leap"))
	idx.Finalize()

	results := idx.Search(normalize.Tokenize("quick fox"))
	require.Len(t, results, 2)
	assert.Equal(t, int32(1), results[0].DocID)
	assert.Equal(t, int32(2), results[1].DocID)
}

func TestIndex_EmptyIndexSearchIsEmpty(t *testing.T) {
	idx := New()
	assert.Empty(t, idx.Search(normalize.Tokenize("anything")))
}

func TestIndex_EmptyDocument(t *testing.T) {
	idx := New()
	idx.Add(processDoc(5, ""))
	idx.Finalize()

	assert.Equal(t, int32(0), idx.docLengths[5])
	assert.Empty(t, idx.Search(normalize.Tokenize("xyz")))
}

func TestIndex_FinalizeIdempotent(t *testing.T) {
	idx := New()
	idx.Add(processDoc(1, "one two three"))
	idx.Add(processDoc(2, "one two"))
	idx.Finalize()
	first := idx.AvgDocLength()
	idx.Finalize()
	assert.Equal(t, first, idx.AvgDocLength())
	assert.InDelta(t, 2.5, idx.AvgDocLength(), 1e-9)
}

func TestIndex_FinalizeEmptyLeavesZero(t *testing.T) {
	idx := New()
	idx.Finalize()
	assert.Equal(t, 0.0, idx.AvgDocLength())
}

func TestIndex_ReindexingAppendsPostings(t *testing.T) {
	idx := New()
	idx.Add(processDoc(1, "alpha"))
	idx.Add(processDoc(1, "alpha"))
	assert.Len(t, idx.inverted["alpha"], 2)
}

func TestIndex_SaveLoadRoundTrip(t *testing.T) {
	idx := New()
	idx.Add(processDoc(1, "The quick brown fox"))
	idx.Add(processDoc(2, "Quick foxes leap over lazy dogs"))
	idx.Add(processDoc(3, "Completely unrelated text here"))
	idx.Finalize()

	dir := t.TempDir()
	path := filepath.Join(dir, "index.bm25")
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	want := idx.Search(normalize.Tokenize("quick fox"))
	got := loaded.Search(normalize.Tokenize("quick fox"))
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].DocID, got[i].DocID)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-9)
	}
	assert.InDelta(t, idx.AvgDocLength(), loaded.AvgDocLength(), 1e-9)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.bm25"))
	require.Error(t, err)
}

func TestMain_tempDirUsable(t *testing.T) {
	// sanity check that the test harness's temp dir is writable in this sandbox
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "probe"), []byte("x"), 0o644))
}

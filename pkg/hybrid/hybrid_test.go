package hybrid

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearcher_SelfRecall(t *testing.T) {
	s := New(nil, nil)
	s.AddDocument(InputDocument{ID: 1, Text: "The quick brown fox jumps over the lazy dog"})

	results := s.Search("quick brown fox", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, int32(1), results[0].DocID)
}

func TestSearcher_DocumentTextRoundTrip(t *testing.T) {
	s := New(nil, nil)
	s.AddDocument(InputDocument{ID: 1, Text: "hello world"})
	assert.Equal(t, "hello world", s.DocumentText(1))
	assert.Equal(t, "[Text not found in cache]", s.DocumentText(999))
}

func TestSearcher_EmptyTextDocument(t *testing.T) {
	s := New(nil, nil)
	s.AddDocument(InputDocument{ID: 1, Text: ""})
	results := s.Search("anything", 10)
	assert.Empty(t, results)
}

func TestSearcher_BM25FallsBackToVectorOnly(t *testing.T) {
	s := New(nil, nil)
	// "application" and "applications" are distinct BM25 tokens (no exact
	// overlap) but share nearly every 3-gram, so only the vector branch
	// can surface this match.
	s.AddDocument(InputDocument{ID: 1, Text: "application"})

	results := s.Search("applications", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, int32(1), results[0].DocID)
}

func TestSearcher_NoOverlapReturnsEmpty(t *testing.T) {
	s := New(nil, nil)
	s.AddDocument(InputDocument{ID: 1, Text: "alpha beta gamma delta epsilon"})

	results := s.Search("zzznomatch yyynomatch", 10)
	assert.Empty(t, results)
}

func TestSearcher_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	prevWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(prevWd)

	s := New(nil, nil)
	s.AddDocument(InputDocument{ID: 1, Text: "The quick brown fox"})
	s.AddDocument(InputDocument{ID: 2, Text: "Completely unrelated text here"})

	bm25Path := filepath.Join(dir, "index.bm25")
	vecPath := filepath.Join(dir, "index.vec")
	require.NoError(t, s.Save(bm25Path, vecPath))

	loaded, err := Load(bm25Path, vecPath, nil, nil)
	require.NoError(t, err)

	want := s.Search("quick fox", 10)
	got := loaded.Search("quick fox", 10)
	require.Equal(t, len(want), len(got))
	for i := range want {
		assert.Equal(t, want[i].DocID, got[i].DocID)
	}
	assert.Equal(t, "The quick brown fox", loaded.DocumentText(1))
}

func TestSearcher_LoadToleratesMissingDocCache(t *testing.T) {
	dir := t.TempDir()
	prevWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(prevWd)

	s := New(nil, nil)
	s.AddDocument(InputDocument{ID: 1, Text: "some text"})

	bm25Path := filepath.Join(dir, "index.bm25")
	vecPath := filepath.Join(dir, "index.vec")
	require.NoError(t, s.Save(bm25Path, vecPath))
	require.NoError(t, os.Remove(filepath.Join(dir, "index.docs")))

	loaded, err := Load(bm25Path, vecPath, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "[Text not found in cache]", loaded.DocumentText(1))
}

func TestSearcher_Load_MissingBM25File(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.bm25"), filepath.Join(dir, "missing.vec"), nil, nil)
	require.Error(t, err)
}

func TestSearcher_ManyDocumentsSelfRecall(t *testing.T) {
	s := New(nil, nil)
	for i := int32(1); i <= 1000; i++ {
		s.AddDocument(InputDocument{
			ID:   i,
			Text: "document number " + strconv.Itoa(int(i)) + " contains some unique filler words",
		})
	}

	results := s.Search("document number 537", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, int32(537), results[0].DocID)
}

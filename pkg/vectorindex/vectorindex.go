// Package vectorindex implements a brute-force cosine-similarity index over
// hashed character n-gram embeddings. There is no trained model here: a
// document's vector is built deterministically from its tokens, which is
// what lets the same embedding function serve both indexing and querying.
package vectorindex

import (
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Dimensions is the fixed embedding width. It is not configurable: the
// on-disk format (see persist.go) hard-codes it, matching the fixed-size
// float array the original implementation stored per document.
const Dimensions = 1024

// NgramSize is the character n-gram length used to build embeddings.
const NgramSize = 3

// MinScoreThreshold is the cosine-similarity floor a result must exceed
// (strictly, not >=) to be returned from Search.
const MinScoreThreshold = 0.20

// Result is one scored document from Search.
type Result struct {
	DocID int32
	Score float64
}

// Index is a brute-force cosine-similarity store over normalized
// fixed-width vectors. It is not safe for concurrent use; callers
// (pkg/hybrid, pkg/server) serialize access.
type Index struct {
	vectors map[int32][]float32
}

// New creates an empty vector index.
func New() *Index {
	return &Index{vectors: make(map[int32][]float32)}
}

// GenerateEmbedding builds a Dimensions-wide embedding from a document's (or
// query's) tokens. Each token contributes its distinct 3-character n-grams
// (duplicates within a token are not double-counted); each n-gram is hashed
// with xxhash to a stable bucket in [0, Dimensions) and increments that
// bucket by one. The resulting vector is L2-normalized; an all-zero input
// (e.g. every token shorter than NgramSize) yields the zero vector.
func GenerateEmbedding(tokens []string) []float32 {
	vec := make([]float32, Dimensions)

	for _, token := range tokens {
		for gram := range ngrams(token, NgramSize) {
			h := xxhash.Sum64String(gram)
			idx := h % uint64(Dimensions)
			vec[idx]++
		}
	}

	return normalize(vec)
}

// ngrams returns the set of distinct n-length substrings of s.
func ngrams(s string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	if len(s) < n {
		return set
	}
	for i := 0; i <= len(s)-n; i++ {
		set[s[i:i+n]] = struct{}{}
	}
	return set
}

func normalize(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vec
	}
	norm := math.Sqrt(sumSquares)
	for i, v := range vec {
		vec[i] = float32(float64(v) / norm)
	}
	return vec
}

// CosineSimilarity computes the cosine similarity of two equal-length
// vectors using float64 accumulation for precision. Returns 0 for
// mismatched lengths or a zero-magnitude operand.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Add stores vec (already an embedding, e.g. from GenerateEmbedding) under
// docID, replacing any previous vector for that ID.
func (idx *Index) Add(docID int32, vec []float32) {
	idx.vectors[docID] = vec
}

// Search scores every indexed vector against queryVec by cosine similarity,
// keeps only scores strictly greater than MinScoreThreshold, and returns the
// top k sorted by score descending, ties broken by ascending doc ID.
func (idx *Index) Search(queryVec []float32, k int) []Result {
	results := make([]Result, 0, len(idx.vectors))
	for docID, vec := range idx.vectors {
		score := CosineSimilarity(queryVec, vec)
		if score > MinScoreThreshold {
			results = append(results, Result{DocID: docID, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Count returns the number of vectors in the index.
func (idx *Index) Count() int {
	return len(idx.vectors)
}

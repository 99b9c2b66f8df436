// Package bm25 implements an Okapi BM25 inverted index: per-term postings
// lists, per-document length bookkeeping, and the BM25+ ranking formula used
// to score free-text queries against indexed documents.
package bm25

import (
	"math"
	"sort"
)

// DefaultK1 is the term-frequency saturation parameter.
const DefaultK1 = 1.2

// DefaultB is the length-normalization parameter.
const DefaultB = 0.75

// Posting is a single (doc, term-frequency) entry in a term's postings list.
type Posting struct {
	DocID int32
	Freq  int32
}

// ProcessedDocument is the tokenized form of a document handed to Add.
type ProcessedDocument struct {
	ID     int32
	Length int32
	Tokens []string
}

// Result is one scored document from Search.
type Result struct {
	DocID int32
	Score float64
}

// Index is an inverted index with BM25 scoring. It is not safe for
// concurrent use; callers (pkg/hybrid, pkg/server) are responsible for
// serializing access.
type Index struct {
	K1 float64
	B  float64

	avgDocLength float64
	docLengths   map[int32]int32
	inverted     map[string][]Posting
}

// New creates an empty index using the default k1/b parameters.
func New() *Index {
	return &Index{
		K1:         DefaultK1,
		B:          DefaultB,
		docLengths: make(map[int32]int32),
		inverted:   make(map[string][]Posting),
	}
}

// Add indexes a processed document: term frequencies are counted once and
// appended as postings. Re-adding a previously seen doc ID appends another
// set of postings rather than replacing the existing ones — ids are
// write-once by convention, not enforced here (see DESIGN.md Open Question 1).
// Add does not update AvgDocLength; call Finalize before relying on it.
func (idx *Index) Add(doc ProcessedDocument) {
	idx.docLengths[doc.ID] = doc.Length

	termFreq := make(map[string]int32, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		termFreq[tok]++
	}
	for term, freq := range termFreq {
		idx.inverted[term] = append(idx.inverted[term], Posting{DocID: doc.ID, Freq: freq})
	}
}

// Finalize recomputes AvgDocLength from the current doc lengths. It is
// idempotent and must be called before Save. If no documents are indexed,
// avgDocLength is left at 0.
func (idx *Index) Finalize() {
	if len(idx.docLengths) == 0 {
		idx.avgDocLength = 0
		return
	}
	var total int64
	for _, l := range idx.docLengths {
		total += int64(l)
	}
	idx.avgDocLength = float64(total) / float64(len(idx.docLengths))
}

// AvgDocLength returns the average document length as of the last Finalize
// or Load.
func (idx *Index) AvgDocLength() float64 {
	return idx.avgDocLength
}

// DocCount returns the number of distinct documents indexed.
func (idx *Index) DocCount() int {
	return len(idx.docLengths)
}

// Search scores every document containing at least one query token using
// BM25, and returns results sorted by score descending, ties broken by
// ascending doc ID. A query token appearing twice is scored twice. Returns
// an empty slice if the index holds no documents.
func (idx *Index) Search(queryTokens []string) []Result {
	n := len(idx.docLengths)
	if n == 0 {
		return nil
	}

	scores := make(map[int32]float64)
	for _, term := range queryTokens {
		postings, ok := idx.inverted[term]
		if !ok {
			continue
		}

		df := float64(len(postings))
		idf := math.Log((float64(n)-df+0.5)/(df+0.5) + 1.0)

		for _, p := range postings {
			docLen := float64(idx.docLengths[p.DocID])
			tf := float64(p.Freq)
			denom := tf + idx.K1*(1-idx.B+idx.B*(docLen/idx.avgDocLength))
			scores[p.DocID] += idf * (tf * (idx.K1 + 1)) / denom
		}
	}

	results := make([]Result, 0, len(scores))
	for id, score := range scores {
		results = append(results, Result{DocID: id, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	return results
}

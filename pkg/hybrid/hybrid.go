// Package hybrid fuses BM25 lexical search and hashed-n-gram vector search
// into a single ranked result list, and owns the raw document text cache
// needed to answer both search and snippet requests. It is the Go
// counterpart of original_source/src/cpp/HybridSearcher.{h,cpp}.
package hybrid

import (
	"fmt"
	"sort"
	"time"

	"github.com/umaarov/goat-search/pkg/bm25"
	"github.com/umaarov/goat-search/pkg/config"
	"github.com/umaarov/goat-search/pkg/logging"
	"github.com/umaarov/goat-search/pkg/normalize"
	"github.com/umaarov/goat-search/pkg/telemetry"
	"github.com/umaarov/goat-search/pkg/vectorindex"
)

// InputDocument is a document as submitted to Add: an id chosen by the
// caller and its raw, unprocessed text.
type InputDocument struct {
	ID   int32
	Text string
}

// Result is one fused, scored document from Search.
type Result struct {
	DocID int32
	Score float64
}

// Searcher combines a BM25 index, a vector index, and a cache of raw
// document text under one set of operations. It is not safe for concurrent
// use; pkg/server serializes all access through a single mutex, matching
// the single searcher_mutex in the original's main.cpp.
type Searcher struct {
	bm25Index   *bm25.Index
	vectorIndex *vectorindex.Index
	docCache    map[int32]string

	log       *logging.Logger
	telemetry *telemetry.Recorder
}

// New creates an empty Searcher. log and rec may be nil: a nil log falls
// back to logging.Default, and a nil rec disables telemetry recording
// entirely — tests construct Searchers this way to avoid touching the
// filesystem for every case.
func New(log *logging.Logger, rec *telemetry.Recorder) *Searcher {
	if log == nil {
		log = logging.Default
	}
	return &Searcher{
		bm25Index:   bm25.New(),
		vectorIndex: vectorindex.New(),
		docCache:    make(map[int32]string),
		log:         log,
		telemetry:   rec,
	}
}

// AddDocument tokenizes doc.Text once, caches the raw text for later
// retrieval, then indexes the tokens into both the BM25 and vector indexes.
func (s *Searcher) AddDocument(doc InputDocument) {
	start := time.Now()
	tokens := normalize.Tokenize(doc.Text)

	s.docCache[doc.ID] = doc.Text
	s.log.Debugf("Indexing Doc %d", doc.ID)

	s.bm25Index.Add(bm25.ProcessedDocument{ID: doc.ID, Length: int32(len(tokens)), Tokens: tokens})
	s.vectorIndex.Add(doc.ID, vectorindex.GenerateEmbedding(tokens))

	if s.telemetry != nil {
		s.telemetry.RecordIngest(doc.ID, float64(time.Since(start).Microseconds())/1000.0)
	}
}

// DocumentText returns the cached raw text for id, or a placeholder if id
// was never indexed (or its cache entry was lost, e.g. index.docs was
// missing at load time).
func (s *Searcher) DocumentText(id int32) string {
	if text, ok := s.docCache[id]; ok {
		return text
	}
	return "[Text not found in cache]"
}

// Search runs a query through both sub-indexes, fuses their scores with the
// linear weighting from config (BM25Weight/VectorWeight, or VectorOnlyWeight
// when BM25 finds nothing at all), and returns the top topK documents by
// fused score descending, ties broken by ascending doc ID. The BM25 index is
// finalized first so its average document length covers every document
// added so far. It also records the query to the telemetry recorder, if one
// was configured.
func (s *Searcher) Search(query string, topK int) []Result {
	start := time.Now()
	tokens := normalize.Tokenize(query)

	s.bm25Index.Finalize()
	bm25Results := s.bm25Index.Search(tokens)
	queryVec := vectorindex.GenerateEmbedding(tokens)
	vecResults := s.vectorIndex.Search(queryVec, topK)

	bm25Weight := config.BM25Weight
	vectorWeight := config.VectorWeight
	if len(bm25Results) == 0 {
		bm25Weight = 0.0
		vectorWeight = config.VectorOnlyWeight
	}

	fused := make(map[int32]float64)
	for _, r := range bm25Results {
		fused[r.DocID] += r.Score * bm25Weight
	}
	for _, r := range vecResults {
		fused[r.DocID] += r.Score * vectorWeight
	}

	results := make([]Result, 0, len(fused))
	for id, score := range fused {
		results = append(results, Result{DocID: id, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	if len(results) > topK {
		results = results[:topK]
	}

	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0
	if s.telemetry != nil {
		debug := make([]telemetry.ResultDebug, len(results))
		for i, r := range results {
			debug[i] = telemetry.ResultDebug{DocID: r.DocID, Score: r.Score, Text: s.DocumentText(r.DocID)}
		}
		s.telemetry.RecordQuery(query, tokens, debug, latencyMs)
	}

	return results
}

// Save finalizes the BM25 index and writes all three on-disk artifacts:
// the BM25 file, the vector file, and the document text cache under the
// fixed name config.DocCachePath.
func (s *Searcher) Save(bm25Path, vecPath string) error {
	s.bm25Index.Finalize()

	if err := s.bm25Index.Save(bm25Path); err != nil {
		return fmt.Errorf("hybrid: save bm25 index: %w", err)
	}
	if err := s.vectorIndex.Save(vecPath); err != nil {
		return fmt.Errorf("hybrid: save vector index: %w", err)
	}
	if err := s.saveDocCache(config.DocCachePath); err != nil {
		return fmt.Errorf("hybrid: save document cache: %w", err)
	}

	s.log.Infof("Saved %d documents to %s", len(s.docCache), config.DocCachePath)
	return nil
}

// Load builds a new Searcher from the indexes stored at bm25Path and
// vecPath, plus the document cache at config.DocCachePath. A missing or unreadable document cache is tolerated — the
// original's load() logged a warning and continued with an empty cache
// rather than failing the whole load, and this does the same.
func Load(bm25Path, vecPath string, log *logging.Logger, rec *telemetry.Recorder) (*Searcher, error) {
	if log == nil {
		log = logging.Default
	}

	bm25Index, err := bm25.Load(bm25Path)
	if err != nil {
		return nil, fmt.Errorf("hybrid: load bm25 index: %w", err)
	}
	vectorIndex, err := vectorindex.Load(vecPath)
	if err != nil {
		return nil, fmt.Errorf("hybrid: load vector index: %w", err)
	}

	s := &Searcher{
		bm25Index:   bm25Index,
		vectorIndex: vectorIndex,
		docCache:    make(map[int32]string),
		log:         log,
		telemetry:   rec,
	}

	docCache, err := loadDocCache(config.DocCachePath)
	if err != nil {
		log.Warnf("Could not load %s (Cache empty): %v", config.DocCachePath, err)
	} else {
		s.docCache = docCache
		log.Infof("Loaded %d documents from %s", len(docCache), config.DocCachePath)
	}

	return s, nil
}

// Package telemetry records search and ingest activity. It mirrors the
// original Telemetry singleton's behavior of overwriting a single JSON
// snapshot file after every query (grounded in
// original_source/src/cpp/Telemetry.cpp), and additionally feeds the same
// events into OpenTelemetry metric instruments — a real call site for the
// go.opentelemetry.io/otel dependency the teacher repo declares in its
// go.mod but never actually imports anywhere in its source.
package telemetry

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/umaarov/goat-search/pkg/config"
)

// ResultDebug is one row of a search result as recorded in a telemetry
// snapshot: enough to reconstruct what a query returned without re-running
// it.
type ResultDebug struct {
	DocID int32
	Score float64
	Text  string
}

type snapshotResult struct {
	ID      int32   `json:"id"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

type snapshot struct {
	Timestamp string            `json:"timestamp"`
	Query     string            `json:"query"`
	LatencyMs float64           `json:"latency_ms"`
	DebugTree snapshotDebugTree `json:"debug_tree"`
	Results   []snapshotResult  `json:"results"`
}

type snapshotDebugTree struct {
	Tokens []string `json:"tokens"`
	Ngrams []string `json:"ngrams"`
}

// Recorder owns the telemetry snapshot file and the OpenTelemetry
// instruments fed by query and ingest activity. The zero value is not
// usable; construct one with New.
type Recorder struct {
	mu           sync.Mutex
	snapshotPath string

	reader *sdkmetric.ManualReader

	queryLatency  metric.Float64Histogram
	ingestLatency metric.Float64Histogram
	queryCount    metric.Int64Counter
	ingestCount   metric.Int64Counter
}

// New creates a Recorder that writes its query snapshot to snapshotPath
// (typically config.TelemetrySnapshotPath) and registers its instruments
// against a dedicated in-process OpenTelemetry MeterProvider.
func New(snapshotPath string) *Recorder {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("goat-search")

	queryLatency, _ := meter.Float64Histogram(
		"goat_search.query.latency_ms",
		metric.WithDescription("Hybrid search latency in milliseconds"),
	)
	ingestLatency, _ := meter.Float64Histogram(
		"goat_search.ingest.latency_ms",
		metric.WithDescription("Document indexing latency in milliseconds"),
	)
	queryCount, _ := meter.Int64Counter(
		"goat_search.query.count",
		metric.WithDescription("Number of SEARCH requests served"),
	)
	ingestCount, _ := meter.Int64Counter(
		"goat_search.ingest.count",
		metric.WithDescription("Number of documents indexed"),
	)

	return &Recorder{
		snapshotPath:  snapshotPath,
		reader:        reader,
		queryLatency:  queryLatency,
		ingestLatency: ingestLatency,
		queryCount:    queryCount,
		ingestCount:   ingestCount,
	}
}

// RecordQuery records a completed search: it updates the OpenTelemetry
// histogram/counter instruments and overwrites the snapshot file with this
// query's full debug detail, exactly as the original recordQuery did
// (debug token/n-gram breakdown, up to
// config.TelemetrySnapshotMaxResults results, each snippet truncated to
// config.TelemetrySnippetMaxChars characters).
func (r *Recorder) RecordQuery(query string, tokens []string, results []ResultDebug, latencyMs float64) {
	ctx := context.Background()
	r.queryLatency.Record(ctx, latencyMs)
	r.queryCount.Add(ctx, 1)

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := snapshot{
		Timestamp: time.Now().Format("15:04:05"),
		Query:     query,
		LatencyMs: latencyMs,
		DebugTree: snapshotDebugTree{
			Tokens: tokens,
			Ngrams: debugNgrams(tokens),
		},
		Results: make([]snapshotResult, 0, len(results)),
	}

	for i, res := range results {
		if i >= config.TelemetrySnapshotMaxResults {
			break
		}
		snippet := res.Text
		if len(snippet) > config.TelemetrySnippetMaxChars {
			snippet = snippet[:config.TelemetrySnippetMaxChars] + "..."
		}
		snap.Results = append(snap.Results, snapshotResult{ID: res.DocID, Score: res.Score, Snippet: snippet})
	}

	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return
	}
	_ = os.WriteFile(r.snapshotPath, data, 0o644)
}

// RecordIngest records a completed INDEX request. Unlike RecordQuery it has
// no file-visible effect; it only feeds the OpenTelemetry instruments —
// the original's updateSystemStats call was likewise metrics-only (its
// dashboard-writing sibling, writeDashboardData, was dead code; see
// DESIGN.md).
func (r *Recorder) RecordIngest(docID int32, latencyMs float64) {
	ctx := context.Background()
	r.ingestLatency.Record(ctx, latencyMs)
	r.ingestCount.Add(ctx, 1)
	_ = docID
}

// debugNgrams mirrors the original's debug n-gram breakdown: the distinct
// 3-character n-grams of every query token, concatenated in token order.
func debugNgrams(tokens []string) []string {
	const n = 3
	var out []string
	for _, tok := range tokens {
		if len(tok) < n {
			continue
		}
		seen := make(map[string]struct{})
		for i := 0; i <= len(tok)-n; i++ {
			gram := tok[i : i+n]
			if _, ok := seen[gram]; ok {
				continue
			}
			seen[gram] = struct{}{}
			out = append(out, gram)
		}
	}
	return out
}

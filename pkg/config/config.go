// Package config holds the fixed operating parameters of goat-search. Per
// spec.md §6, the daemon takes no flags and reads no environment variables:
// every value here is a compile-time constant, matching the original's
// hard-coded port, buffer size, and weight literals.
package config

// ListenPort is the TCP port the daemon listens on.
const ListenPort = 9999

// MaxRequestBytes is the maximum number of bytes read from a single
// connection in one read(2) call. A request larger than this is truncated,
// not rejected, matching the original's fixed 8192-byte stack buffer.
const MaxRequestBytes = 8192

// DefaultSearchTopK is the number of results requested from the vector
// sub-search before fusion, and the cap on the final fused result count,
// when a SEARCH request does not specify one. The BM25 sub-search is not
// truncated before fusion.
const DefaultSearchTopK = 50

// BM25PersistPath and VectorPersistPath are the fixed on-disk artifact
// names written and read by SAVE and by startup load.
const (
	BM25PersistPath   = "index.bm25"
	VectorPersistPath = "index.vec"
)

// DocCachePath is the fixed name of the raw-text cache written alongside
// the two index artifacts.
const DocCachePath = "index.docs"

// TelemetrySnapshotPath is the fixed name of the latest-query debug
// snapshot written after every search.
const TelemetrySnapshotPath = "telemetry_latest.json"

// BM25Weight and VectorWeight are the linear fusion weights applied when
// the BM25 sub-search returns at least one result.
const (
	BM25Weight   = 0.7
	VectorWeight = 0.3
)

// VectorOnlyWeight is the vector weight applied when the BM25 sub-search
// returns nothing at all — the query degrades to pure vector search rather
// than scoring everything at zero.
const VectorOnlyWeight = 1.0

// TelemetrySnapshotMaxResults caps how many result rows are recorded in a
// telemetry snapshot, regardless of how many the query actually returned.
const TelemetrySnapshotMaxResults = 50

// TelemetrySnippetMaxChars is the maximum length of a document snippet
// recorded in a telemetry snapshot before it is truncated with "...".
const TelemetrySnippetMaxChars = 100

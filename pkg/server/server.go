package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/umaarov/goat-search/pkg/config"
	"github.com/umaarov/goat-search/pkg/hybrid"
	"github.com/umaarov/goat-search/pkg/logging"
)

// Server accepts one TCP connection per client, reads a single request from
// it, and serializes all access to the hybrid Searcher behind one mutex —
// the searcher never needs to be internally thread-safe, matching the
// single searcher_mutex guarding HybridSearcher in the original main.cpp.
type Server struct {
	searcher *hybrid.Searcher
	mu       sync.Mutex
	log      *logging.Logger
	listener net.Listener
}

// New creates a Server fronting searcher. If log is nil, logging.Default is
// used.
func New(searcher *hybrid.Searcher, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Default
	}
	return &Server{searcher: searcher, log: log}
}

// ListenAndServe binds config.ListenPort and accepts connections until the
// listener is closed, then returns nil. Any other Accept error is logged
// and the loop keeps accepting.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", config.ListenPort)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.log.Info("GOAT SEARCH ENGINE STARTED")
	s.log.Netf("Daemon listening on port %d...", config.ListenPort)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Errorf("Socket Accept Failed: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Close stops the listener, causing ListenAndServe's accept loop to return.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorf("Recovered from panic in connection handler: %v", r)
		}
	}()

	buf := make([]byte, config.MaxRequestBytes)
	n, err := conn.Read(buf)
	if n <= 0 || (err != nil && n == 0) {
		return
	}

	raw := string(buf[:n])
	preview := raw
	if len(preview) > 60 {
		preview = preview[:60] + "..."
	}
	preview = strings.ReplaceAll(preview, "\n", " ")
	s.log.Netf("Received Payload (%d bytes): %s", n, preview)

	response := s.dispatch(raw)

	_, _ = conn.Write(response)
}

// dispatch parses "<COMMAND> <payload>" and routes to the matching handler,
// returning the raw response bytes to write back. All searcher access is
// held behind s.mu for the duration of a command.
func (s *Server) dispatch(raw string) []byte {
	spaceIdx := strings.IndexByte(raw, ' ')
	if spaceIdx < 0 {
		return errorJSON("Invalid Protocol Format")
	}
	command := raw[:spaceIdx]
	payload := raw[spaceIdx+1:]

	s.mu.Lock()
	defer s.mu.Unlock()

	switch command {
	case "INDEX":
		return s.handleIndex(payload)
	case "SEARCH":
		return s.handleSearch(payload)
	case "SAVE":
		return s.handleSave()
	default:
		s.log.Warnf("Unknown Command Received: %s", command)
		return errorJSON("unknown command")
	}
}

func (s *Server) handleIndex(payload string) []byte {
	done := s.log.PerfScope("Indexing Document")
	defer done()

	var req indexRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return errorJSON(err.Error())
	}
	if req.ID == nil {
		return errorJSON("missing required field: id")
	}
	if req.Text == nil {
		return errorJSON("missing required field: text")
	}

	s.searcher.AddDocument(hybrid.InputDocument{ID: *req.ID, Text: *req.Text})
	s.log.Infof("Indexed Doc ID: %d", *req.ID)

	data, _ := json.Marshal(indexResponse{Status: "ok"})
	return data
}

func (s *Server) handleSearch(payload string) []byte {
	done := s.log.PerfScope("Full Search Request")
	defer done()

	var req searchRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return errorJSON(err.Error())
	}
	if req.Query == nil {
		return errorJSON("missing required field: query")
	}
	s.log.Infof("Processing Query: %q", *req.Query)

	topK := req.TopK
	if topK <= 0 {
		topK = config.DefaultSearchTopK
	}

	results := s.searcher.Search(*req.Query, topK)
	ids := make([]int32, len(results))
	for i, r := range results {
		ids[i] = r.DocID
	}
	s.log.Infof("Returning %d results.", len(ids))

	data, _ := json.Marshal(ids)
	return data
}

func (s *Server) handleSave() []byte {
	s.log.Info("Saving Index to disk...")
	if err := s.searcher.Save(config.BM25PersistPath, config.VectorPersistPath); err != nil {
		return errorJSON(err.Error())
	}
	s.log.Info("Index Saved Successfully.")

	data, _ := json.Marshal(saveResponse{Status: "saved"})
	return data
}

func errorJSON(msg string) []byte {
	data, _ := json.Marshal(errorResponse{Error: msg})
	return data
}

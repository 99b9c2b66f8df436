// Package server implements the line-oriented TCP protocol goat-search
// speaks: a single "<COMMAND> <JSON-payload>" line per connection, one
// read, one JSON response, then close. It is a direct port of
// original_source/src/cpp/main.cpp's handle_connection/start_server pair.
package server

// indexRequest is the payload of an INDEX command. ID and Text are pointers
// so a missing field unmarshals to nil rather than silently defaulting to a
// zero value — spec §7 treats a missing required field as a protocol error,
// not as doc id 0 / empty text.
type indexRequest struct {
	ID   *int32  `json:"id"`
	Text *string `json:"text"`
}

// indexResponse is returned on a successful INDEX.
type indexResponse struct {
	Status string `json:"status"`
}

// searchRequest is the payload of a SEARCH command. Query is a pointer for
// the same missing-field reason as indexRequest above. TopK is optional and
// not part of the spec's wire protocol (which hard-codes an implicit top-K
// of 50, see SPEC_FULL.md §1); zero means "use config.DefaultSearchTopK".
type searchRequest struct {
	Query *string `json:"query"`
	TopK  int     `json:"topk"`
}

// saveResponse is returned on a successful SAVE.
type saveResponse struct {
	Status string `json:"status"`
}

// errorResponse is returned whenever a request cannot be fulfilled, mirroring
// the original's bare {"error": "..."} body on both parse failures and
// unknown commands.
type errorResponse struct {
	Error string `json:"error"`
}

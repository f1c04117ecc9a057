package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Payload Decoding
// =============================================================================

// UnmarshalPayload deserializes JSON bytes to a Payload.
//
// Besides the bare {"vertices", "edges"} object, the query API's envelope
// {"graph_view": {...}} is accepted, so responses can be passed through as-is.
func UnmarshalPayload(data []byte) (Payload, error) {
	return readPayloadFrom(bytes.NewReader(data))
}

// ReadPayload decodes a JSON payload from an io.Reader.
func ReadPayload(r io.Reader) (Payload, error) {
	return readPayloadFrom(r)
}

// ReadPayloadFile reads a JSON payload from a file.
func ReadPayloadFile(path string) (Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return Payload{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readPayloadFrom(f)
}

// =============================================================================
// Fragment Encoding
// =============================================================================

// MarshalFragment converts a fragment to indented JSON bytes.
func MarshalFragment(f Fragment) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFragment writes a fragment as JSON to an io.Writer.
func WriteFragment(f Fragment, w io.Writer) error {
	return writeJSON(w, f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

type envelope struct {
	GraphView *Payload    `json:"graph_view"`
	Vertices  []RawVertex `json:"vertices"`
	Edges     []RawEdge   `json:"edges"`
}

func readPayloadFrom(r io.Reader) (Payload, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return Payload{}, fmt.Errorf("decode: %w", err)
	}
	if env.GraphView != nil {
		return *env.GraphView, nil
	}
	return Payload{Vertices: env.Vertices, Edges: env.Edges}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

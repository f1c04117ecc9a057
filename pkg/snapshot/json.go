package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/graphview/pkg/graph"
)

// MarshalJSON encodes the snapshot as {"nodes": [...], "edges": [...]}.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Fragment())
}

// UnmarshalJSON replaces the snapshot's contents with the decoded fragment.
// Duplicate IDs and dangling edges are rejected.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var f graph.Fragment
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	fresh := New()
	for _, n := range f.Nodes {
		if err := fresh.AddNode(n); err != nil {
			return fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range f.Edges {
		if err := fresh.AddEdge(e); err != nil {
			return fmt.Errorf("edge %q: %w", e.ID, err)
		}
	}
	*s = *fresh
	return nil
}

// Marshal encodes a snapshot to indented JSON.
func Marshal(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a snapshot from JSON.
func Unmarshal(data []byte) (*Snapshot, error) {
	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Write encodes a snapshot as indented JSON to w.
func Write(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Read decodes a snapshot from r.
func Read(r io.Reader) (*Snapshot, error) {
	s := New()
	if err := json.NewDecoder(r).Decode(s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

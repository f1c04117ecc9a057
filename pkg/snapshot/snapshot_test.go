package snapshot

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matzehuels/graphview/pkg/graph"
)

func node(id string) graph.VisualNode { return graph.VisualNode{ID: id, Label: "person"} }

func edge(id, src, dst string) graph.VisualEdge {
	return graph.NewVisualEdge(graph.RawEdge{ID: id, Label: "knows", Source: src, Target: dst})
}

func build(t *testing.T, nodes []string, edges [][3]string) *Snapshot {
	t.Helper()
	s := New()
	for _, id := range nodes {
		if err := s.AddNode(node(id)); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := s.AddEdge(edge(e[0], e[1], e[2])); err != nil {
			t.Fatalf("AddEdge(%s): %v", e[0], err)
		}
	}
	return s
}

func TestAddNodeErrors(t *testing.T) {
	s := New()
	if err := s.AddNode(node("")); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty id: err = %v, want ErrInvalidNodeID", err)
	}
	if err := s.AddNode(node("a")); err != nil {
		t.Fatal(err)
	}
	if err := s.AddNode(node("a")); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateNodeID", err)
	}
	if s.NodeCount() != 1 {
		t.Errorf("NodeCount = %d, want 1", s.NodeCount())
	}
}

func TestAddEdgeErrors(t *testing.T) {
	s := build(t, []string{"a", "b"}, [][3]string{{"e1", "a", "b"}})

	tests := []struct {
		name string
		e    graph.VisualEdge
		want error
	}{
		{"EmptyID", edge("", "a", "b"), ErrInvalidEdgeID},
		{"Duplicate", edge("e1", "b", "a"), ErrDuplicateEdgeID},
		{"UnknownSource", edge("e2", "x", "b"), ErrUnknownSourceNode},
		{"UnknownTarget", edge("e2", "a", "x"), ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.AddEdge(tt.e); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if s.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1", s.EdgeCount())
	}
}

func TestQueryInterface(t *testing.T) {
	s := build(t, []string{"c", "a", "b"}, [][3]string{
		{"e2", "b", "a"},
		{"e1", "a", "b"},
		{"e3", "b", "c"},
	})

	if ids := s.NodeIDs(); !ids.Has("a") || ids.Has("z") || len(ids) != 3 {
		t.Errorf("NodeIDs = %v", ids.Sorted())
	}
	if got := s.EdgeIDs().Sorted(); strings.Join(got, ",") != "e1,e2,e3" {
		t.Errorf("EdgeIDs = %v", got)
	}

	var order []string
	for _, n := range s.Nodes() {
		order = append(order, n.ID)
	}
	if strings.Join(order, ",") != "c,a,b" {
		t.Errorf("Nodes order = %v, want insertion order", order)
	}

	pair := s.PairEdges(graph.PairKey("a", "b"))
	if len(pair) != 2 || pair[0].ID != "e2" || pair[1].ID != "e1" {
		t.Errorf("PairEdges(a|b) = %v", pair)
	}
	if s.PairEdges(graph.PairKey("a", "c")) != nil {
		t.Error("PairEdges for an empty pair should be nil")
	}
}

func TestCollectionsAreCopies(t *testing.T) {
	s := build(t, []string{"a"}, nil)
	nodes := s.Nodes()
	nodes[0].Label = "changed"
	if n, _ := s.Node("a"); n.Label != "person" {
		t.Error("Nodes() should return copies")
	}

	ids := s.NodeIDs()
	delete(ids, "a")
	if !s.HasNode("a") {
		t.Error("NodeIDs() should return a copy")
	}
}

func TestReplaceEdge(t *testing.T) {
	s := build(t, []string{"a", "b"}, [][3]string{{"e1", "a", "b"}})

	e, _ := s.Edge("e1")
	moved := *e
	moved.Curvature = 50
	if err := s.ReplaceEdge(moved); err != nil {
		t.Fatalf("ReplaceEdge: %v", err)
	}
	if e, _ := s.Edge("e1"); e.Curvature != 50 {
		t.Errorf("Curvature = %v, want 50", e.Curvature)
	}

	if err := s.ReplaceEdge(edge("nope", "a", "b")); !errors.Is(err, ErrUnknownEdge) {
		t.Errorf("err = %v, want ErrUnknownEdge", err)
	}
	if err := s.ReplaceEdge(edge("e1", "b", "a")); !errors.Is(err, ErrEndpointChanged) {
		t.Errorf("err = %v, want ErrEndpointChanged", err)
	}
}

func TestRemoveNode(t *testing.T) {
	s := build(t, []string{"a", "b", "c"}, [][3]string{
		{"e1", "a", "b"},
		{"e2", "b", "c"},
		{"e3", "b", "b"},
	})

	removed := s.RemoveNode("b")
	if len(removed) != 3 {
		t.Errorf("removed edges = %v, want 3", removed)
	}
	if s.HasNode("b") || s.EdgeCount() != 0 {
		t.Errorf("after RemoveNode: nodes=%v edges=%d", s.NodeIDs().Sorted(), s.EdgeCount())
	}
	if s.PairEdges(graph.PairKey("a", "b")) != nil {
		t.Error("pair index not cleaned up")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if s.RemoveNode("missing") != nil {
		t.Error("removing a missing node should be a no-op")
	}
}

func TestHighlights(t *testing.T) {
	s := build(t, []string{"a", "b"}, [][3]string{{"e1", "a", "b"}})

	if !s.SetNodeHighlight("b", true) || !s.SetEdgeHighlight("e1", true) {
		t.Fatal("Set*Highlight should report present elements")
	}
	if s.SetNodeHighlight("zz", true) {
		t.Error("SetNodeHighlight on a missing node should return false")
	}

	nodes, edges := s.Highlighted()
	if len(nodes) != 1 || nodes[0] != "b" || len(edges) != 1 {
		t.Errorf("Highlighted = %v %v", nodes, edges)
	}
	if n := s.ClearHighlights(); n != 2 {
		t.Errorf("ClearHighlights = %d, want 2", n)
	}
	if nodes, edges := s.Highlighted(); nodes != nil || edges != nil {
		t.Errorf("after clear: %v %v", nodes, edges)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := build(t, []string{"a", "b"}, [][3]string{{"e1", "a", "b"}, {"e2", "b", "a"}})
	s.SetEdgeHighlight("e2", true)

	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.NodeCount() != 2 || got.EdgeCount() != 2 {
		t.Errorf("decoded %d nodes, %d edges", got.NodeCount(), got.EdgeCount())
	}
	if e, _ := got.Edge("e2"); !e.Highlighted {
		t.Error("highlight flag lost in round trip")
	}
	if len(got.PairEdges(graph.PairKey("a", "b"))) != 2 {
		t.Error("pair index not rebuilt")
	}
}

func TestUnmarshalRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"DuplicateNode", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, ErrDuplicateNodeID},
		{"DanglingEdge", `{"nodes":[{"id":"a"}],"edges":[{"id":"e","source":"a","target":"b"}]}`, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.input)); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := Unmarshal([]byte(`{broken`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestClone(t *testing.T) {
	s := build(t, []string{"a", "b"}, [][3]string{{"e1", "a", "b"}})
	c := s.Clone()
	_ = c.AddNode(node("c"))
	c.SetNodeHighlight("a", true)

	if s.HasNode("c") {
		t.Error("clone shares node index")
	}
	if n, _ := s.Node("a"); n.Highlighted {
		t.Error("clone shares node structs")
	}
}

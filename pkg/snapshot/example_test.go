package snapshot_test

import (
	"fmt"

	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/snapshot"
)

func ExampleSnapshot() {
	s := snapshot.New()
	_ = s.AddNode(graph.VisualNode{ID: "A"})
	_ = s.AddNode(graph.VisualNode{ID: "B"})
	_ = s.AddEdge(graph.VisualEdge{ID: "A-knows->B", Source: "A", Target: "B"})

	err := s.AddNode(graph.VisualNode{ID: "A"})
	fmt.Println("Nodes:", s.NodeCount())
	fmt.Println("Duplicate:", err)
	fmt.Println("Has edge:", s.EdgeIDs().Has("A-knows->B"))
	// Output:
	// Nodes: 2
	// Duplicate: duplicate node ID
	// Has edge: true
}

package snapshot

// SetNodeHighlight sets the highlight flag of a node. Returns false if the
// node does not exist.
func (s *Snapshot) SetNodeHighlight(id string, on bool) bool {
	n, ok := s.nodes[id]
	if ok {
		n.Highlighted = on
	}
	return ok
}

// SetEdgeHighlight sets the highlight flag of an edge. Returns false if the
// edge does not exist.
func (s *Snapshot) SetEdgeHighlight(id string, on bool) bool {
	e, ok := s.edges[id]
	if ok {
		e.Highlighted = on
	}
	return ok
}

// ClearHighlights resets every highlight flag and returns how many were set.
func (s *Snapshot) ClearHighlights() int {
	cleared := 0
	for _, n := range s.nodes {
		if n.Highlighted {
			n.Highlighted = false
			cleared++
		}
	}
	for _, e := range s.edges {
		if e.Highlighted {
			e.Highlighted = false
			cleared++
		}
	}
	return cleared
}

// Highlighted returns the IDs of highlighted nodes and edges in insertion
// order.
func (s *Snapshot) Highlighted() (nodes, edges []string) {
	for _, id := range s.nodeOrder {
		if s.nodes[id].Highlighted {
			nodes = append(nodes, id)
		}
	}
	for _, id := range s.edgeOrder {
		if s.edges[id].Highlighted {
			edges = append(edges, id)
		}
	}
	return nodes, edges
}

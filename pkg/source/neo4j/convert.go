package neo4j

import (
	"fmt"

	driver "github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/matzehuels/graphview/pkg/graph"
)

// PayloadFromRecords collects every node, relationship and path found in
// records, including inside lists and maps, into a payload. Each element
// appears once, in first-seen order. Relationships whose endpoints are not
// among the collected nodes keep the endpoint's element id.
func PayloadFromRecords(records []*driver.Record, idProperty string) graph.Payload {
	c := collector{
		idProperty: idProperty,
		vertexIDs:  make(map[string]string),
		seenEdges:  make(map[string]struct{}),
	}
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for _, v := range rec.Values {
			c.visit(v)
		}
	}
	return c.payload()
}

type collector struct {
	idProperty string
	vertices   []graph.RawVertex
	vertexIDs  map[string]string // element id -> vertex id
	rels       []driver.Relationship
	seenEdges  map[string]struct{}
}

func (c *collector) visit(v any) {
	switch x := v.(type) {
	case driver.Node:
		c.addNode(x)
	case *driver.Node:
		if x != nil {
			c.addNode(*x)
		}
	case driver.Relationship:
		c.addRel(x)
	case *driver.Relationship:
		if x != nil {
			c.addRel(*x)
		}
	case driver.Path:
		for _, n := range x.Nodes {
			c.addNode(n)
		}
		for _, r := range x.Relationships {
			c.addRel(r)
		}
	case []any:
		for _, item := range x {
			c.visit(item)
		}
	case map[string]any:
		for _, item := range x {
			c.visit(item)
		}
	}
}

func (c *collector) addNode(n driver.Node) {
	if _, ok := c.vertexIDs[n.ElementId]; ok {
		return
	}
	id := n.ElementId
	if c.idProperty != "" {
		if v, ok := n.Props[c.idProperty]; ok && v != nil {
			id = fmt.Sprint(v)
		}
	}
	c.vertexIDs[n.ElementId] = id

	var label string
	if len(n.Labels) > 0 {
		label = n.Labels[0]
	}
	c.vertices = append(c.vertices, graph.RawVertex{ID: id, Label: label, Properties: n.Props})
}

func (c *collector) addRel(r driver.Relationship) {
	if _, ok := c.seenEdges[r.ElementId]; ok {
		return
	}
	c.seenEdges[r.ElementId] = struct{}{}
	c.rels = append(c.rels, r)
}

// payload resolves relationship endpoints once all nodes are known, since a
// relationship may be returned before its end nodes.
func (c *collector) payload() graph.Payload {
	p := graph.Payload{Vertices: c.vertices}
	for _, r := range c.rels {
		p.Edges = append(p.Edges, graph.RawEdge{
			Label:      r.Type,
			Source:     c.resolve(r.StartElementId),
			Target:     c.resolve(r.EndElementId),
			Properties: r.Props,
		})
	}
	return p
}

func (c *collector) resolve(elementID string) string {
	if id, ok := c.vertexIDs[elementID]; ok {
		return id
	}
	return elementID
}

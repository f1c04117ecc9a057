package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Constants
// =============================================================================

// IDField is the pseudo property name that selects the element id in
// display_fields.
const IDField = "~id"

// DefaultJoinSymbol joins display field values when no join symbol is given.
const DefaultJoinSymbol = "-"

// EdgeShape tells the renderer how to draw an edge.
type EdgeShape string

// Edge shapes assigned by the parallel-edge processor.
const (
	ShapeLine      EdgeShape = "line"      // single edge between a pair, drawn straight
	ShapeQuadratic EdgeShape = "quadratic" // bundled edge, bowed by Curvature
	ShapeLoop      EdgeShape = "loop"      // self-loop, spread by LoopOffset
)

// Line types and thickness names used by edge style hints.
const (
	LineSolid  = "SOLID"
	LineDashed = "DASHED"
	LineDotted = "DOTTED"

	ThicknessFine   = "FINE"
	ThicknessNormal = "NORMAL"
	ThicknessThick  = "THICK"
)

// =============================================================================
// Raw Records
// =============================================================================

// Payload is a raw graph result as returned by the query or expansion API.
type Payload struct {
	Vertices []RawVertex `json:"vertices"`
	Edges    []RawEdge   `json:"edges"`
}

// VertexStyle holds the server-supplied presentation hints for a vertex.
type VertexStyle struct {
	Color         string   `json:"color,omitempty"`
	Icon          string   `json:"icon,omitempty"`
	Size          string   `json:"size,omitempty"`
	DisplayFields []string `json:"display_fields,omitempty"`
	JoinSymbols   []string `json:"join_symbols,omitempty"`
}

// EdgeStyle holds the server-supplied presentation hints for an edge.
// WithArrow is a pointer so an absent hint can fall back to schema defaults.
type EdgeStyle struct {
	Color         string   `json:"color,omitempty"`
	WithArrow     *bool    `json:"with_arrow,omitempty"`
	LineType      string   `json:"line_type,omitempty"`
	Thickness     string   `json:"thickness,omitempty"`
	DisplayFields []string `json:"display_fields,omitempty"`
	JoinSymbols   []string `json:"join_symbols,omitempty"`
}

// RawVertex is a vertex record from the backend. IDs are unique within a
// single fetch.
type RawVertex struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
	Style      *VertexStyle   `json:"~style,omitempty"`

	// Malformed is set by decoding when a field had an unusable value. The
	// record is kept so the normalizer can drop and report it.
	Malformed bool `json:"-"`
}

// RawEdge is an edge record from the backend.
type RawEdge struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Properties map[string]any `json:"properties,omitempty"`
	Style      *EdgeStyle     `json:"~style,omitempty"`

	// Malformed is set by decoding when a field had an unusable value.
	Malformed bool `json:"-"`
}

// UnmarshalJSON accepts string or numeric ids. A record that is not an
// object, or has a field of the wrong type, decodes with Malformed set
// instead of failing the whole payload.
func (v *RawVertex) UnmarshalJSON(data []byte) error {
	*v = RawVertex{}
	fields, ok := objectFields(data)
	if !ok {
		v.Malformed = true
		return nil
	}
	var id string
	okID := decodeIDField(fields, "id", &id)
	v.ID = id
	v.Malformed = !okID ||
		!decodeField(fields, "label", &v.Label) ||
		!decodeField(fields, "properties", &v.Properties) ||
		!decodeField(fields, "~style", &v.Style)
	return nil
}

// UnmarshalJSON accepts string or numeric ids and endpoints, and marks the
// record Malformed rather than failing, like [RawVertex.UnmarshalJSON].
func (e *RawEdge) UnmarshalJSON(data []byte) error {
	*e = RawEdge{}
	fields, ok := objectFields(data)
	if !ok {
		e.Malformed = true
		return nil
	}
	okID := decodeIDField(fields, "id", &e.ID)
	okSrc := decodeIDField(fields, "source", &e.Source)
	okDst := decodeIDField(fields, "target", &e.Target)
	e.Malformed = !okID || !okSrc || !okDst ||
		!decodeField(fields, "label", &e.Label) ||
		!decodeField(fields, "properties", &e.Properties) ||
		!decodeField(fields, "~style", &e.Style)
	return nil
}

func objectFields(data []byte) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

// decodeField decodes fields[key] into dst. An absent key is fine.
func decodeField(fields map[string]json.RawMessage, key string, dst any) bool {
	raw, ok := fields[key]
	if !ok {
		return true
	}
	return json.Unmarshal(raw, dst) == nil
}

func decodeIDField(fields map[string]json.RawMessage, key string, dst *string) bool {
	id, err := decodeID(fields[key])
	if err != nil {
		return false
	}
	*dst = id
	return true
}

// decodeID turns a JSON string, number or null into a string id.
// Missing and null ids decode to "".
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("unsupported id %s", raw)
	}
	return n.String(), nil
}

// =============================================================================
// Visual Model
// =============================================================================

// VisualNode is a vertex with resolved rendering attributes.
type VisualNode struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Properties   map[string]any `json:"properties,omitempty"`
	Style        VertexStyle    `json:"~style"`
	DisplayLabel string         `json:"display_label"`
	FillColor    string         `json:"fill_color"`
	IconName     string         `json:"icon_name,omitempty"`
	IconGlyph    string         `json:"icon_glyph,omitempty"`
	Highlighted  bool           `json:"highlighted,omitempty"`
}

// VisualEdge is an edge with resolved rendering attributes and its
// parallel-edge placement.
type VisualEdge struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Source       string         `json:"source"`
	Target       string         `json:"target"`
	Properties   map[string]any `json:"properties,omitempty"`
	Style        EdgeStyle      `json:"~style"`
	DisplayLabel string         `json:"display_label"`
	StrokeColor  string         `json:"stroke_color"`
	Arrow        bool           `json:"arrow"`
	Shape        EdgeShape      `json:"shape"`
	Curvature    float64        `json:"curvature,omitempty"`   // relative to the PairKey direction
	LoopOffset   float64        `json:"loop_offset,omitempty"` // self-loops only
	GroupIndex   int            `json:"group_index"`
	GroupSize    int            `json:"group_size"`
	Highlighted  bool           `json:"highlighted,omitempty"`
}

// IsLoop reports whether the edge starts and ends at the same vertex.
func (e *VisualEdge) IsLoop() bool { return e.Source == e.Target }

// Pair returns the unordered endpoint key of the edge.
func (e *VisualEdge) Pair() string { return PairKey(e.Source, e.Target) }

// DirectedCurvature returns the curvature in the edge's own source to target
// direction. Curvature is stored relative to the PairKey direction, so edges
// running the other way are negated.
func (e *VisualEdge) DirectedCurvature() float64 {
	if e.Target < e.Source {
		return -e.Curvature
	}
	return e.Curvature
}

// SamePlacement reports whether two edges carry the same parallel-edge
// placement.
func (e *VisualEdge) SamePlacement(o *VisualEdge) bool {
	return e.Shape == o.Shape &&
		e.Curvature == o.Curvature &&
		e.LoopOffset == o.LoopOffset &&
		e.GroupIndex == o.GroupIndex &&
		e.GroupSize == o.GroupSize
}

// Fragment is a normalized result that has not been merged into a snapshot.
type Fragment struct {
	Nodes []VisualNode `json:"nodes"`
	Edges []VisualEdge `json:"edges"`
}

// Empty reports whether the fragment holds no nodes and no edges.
func (f Fragment) Empty() bool { return len(f.Nodes) == 0 && len(f.Edges) == 0 }

// =============================================================================
// Identity
// =============================================================================

// EdgeID builds the canonical composite edge id "{source}-{label}->{target}".
func EdgeID(source, label, target string) string {
	return source + "-" + label + "->" + target
}

// PairKey returns the unordered endpoint key for a vertex pair, so a→b and
// b→a produce the same key. The lower id is length-prefixed, so ids that
// contain the separator cannot collide with another pair.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return strconv.Itoa(len(a)) + ":" + a + "|" + b
}

// copyProps creates a shallow copy of a property map to avoid aliasing the
// raw record.
func copyProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NewVisualNode copies the domain part of a raw vertex into a visual node.
// Rendering attributes are left for the normalizer to fill in.
func NewVisualNode(v RawVertex) VisualNode {
	n := VisualNode{
		ID:         v.ID,
		Label:      v.Label,
		Properties: copyProps(v.Properties),
	}
	if v.Style != nil {
		n.Style = *v.Style
		n.Style.DisplayFields = append([]string(nil), v.Style.DisplayFields...)
		n.Style.JoinSymbols = append([]string(nil), v.Style.JoinSymbols...)
	}
	return n
}

// NewVisualEdge copies the domain part of a raw edge into a visual edge.
// Rendering attributes are left for the normalizer to fill in.
func NewVisualEdge(e RawEdge) VisualEdge {
	ve := VisualEdge{
		ID:         e.ID,
		Label:      e.Label,
		Source:     e.Source,
		Target:     e.Target,
		Properties: copyProps(e.Properties),
		Shape:      ShapeLine,
		GroupSize:  1,
	}
	if e.Style != nil {
		ve.Style = *e.Style
		ve.Style.DisplayFields = append([]string(nil), e.Style.DisplayFields...)
		ve.Style.JoinSymbols = append([]string(nil), e.Style.JoinSymbols...)
	}
	return ve
}

// DisplayLabel builds the text shown on a node or edge from display_fields.
// Field values are joined with the first join symbol ("-" if none). The
// special field "~id" selects the id. Missing properties are skipped; if
// nothing remains the label is returned.
func DisplayLabel(id, label string, props map[string]any, fields, joins []string) string {
	sep := DefaultJoinSymbol
	if len(joins) > 0 && joins[0] != "" {
		sep = joins[0]
	}
	var parts []string
	for _, f := range fields {
		if f == IDField {
			if id != "" {
				parts = append(parts, id)
			}
			continue
		}
		if v, ok := props[f]; ok && v != nil {
			parts = append(parts, fmt.Sprint(v))
		}
	}
	if len(parts) == 0 {
		return label
	}
	return strings.Join(parts, sep)
}

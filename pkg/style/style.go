package style

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/graphview/pkg/graph"
)

// DefaultColor is the neutral gray used when no usable color is supplied.
const DefaultColor = "#eeeeee"

// Descriptor is the raw style input for a single element.
type Descriptor struct {
	Color string
	Icon  string
}

// Resolved holds renderer-ready vertex attributes.
type Resolved struct {
	FillColor string
	IconName  string // empty when the icon did not resolve
	IconGlyph string
	// Fallback is set when a supplied color or icon could not be resolved
	// and a default was used instead.
	Fallback bool
}

// ResolvedEdge holds renderer-ready edge attributes.
type ResolvedEdge struct {
	StrokeColor string
	Arrow       bool
	Fallback    bool
}

// Resolver maps style hints to rendering attributes. A Resolver is
// immutable after construction and safe for concurrent use.
type Resolver struct {
	defaultColor string
	withArrow    bool
	icons        map[string]string
	schema       Schema
}

// NewResolver builds a resolver from cfg. Icon overrides in cfg are layered
// on top of the built-in icon table. A malformed default color in cfg falls
// back to [DefaultColor].
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		defaultColor: DefaultColor,
		withArrow:    cfg.WithArrow,
		icons:        make(map[string]string, len(icons)+len(cfg.Icons)),
		schema:       cfg.Schema,
	}
	if c, ok := normalizeColor(cfg.DefaultColor); ok {
		r.defaultColor = c
	}
	for name, glyph := range icons {
		r.icons[name] = glyph
	}
	for name, glyph := range cfg.Icons {
		r.icons[name] = glyph
	}
	return r
}

// Default returns a resolver with the built-in defaults.
func Default() *Resolver { return NewResolver(Config{}) }

// Resolve maps a descriptor to fill color and icon glyph. It never fails:
// a missing or malformed color yields the default color, and an unknown or
// empty icon name yields no icon.
func (r *Resolver) Resolve(d Descriptor) Resolved {
	out := Resolved{FillColor: r.defaultColor}
	if d.Color != "" {
		if c, ok := normalizeColor(d.Color); ok {
			out.FillColor = c
		} else {
			out.Fallback = true
		}
	}
	if d.Icon != "" {
		if glyph, ok := r.icons[d.Icon]; ok {
			out.IconName = d.Icon
			out.IconGlyph = glyph
		} else {
			out.Fallback = true
		}
	}
	return out
}

// ResolveVertex resolves a vertex's hints, filling gaps from the schema
// defaults for its label.
func (r *Resolver) ResolveVertex(label string, hint graph.VertexStyle) Resolved {
	d := Descriptor{Color: hint.Color, Icon: hint.Icon}
	if def, ok := r.schema.Vertices[label]; ok {
		if d.Color == "" {
			d.Color = def.Color
		}
		if d.Icon == "" {
			d.Icon = def.Icon
		}
	}
	return r.Resolve(d)
}

// ResolveEdge resolves an edge's stroke color and arrow flag. An explicit
// with_arrow hint wins over the schema default, which wins over the
// resolver's global default.
func (r *Resolver) ResolveEdge(label string, hint graph.EdgeStyle) ResolvedEdge {
	color := hint.Color
	arrow := r.withArrow
	def, hasDef := r.schema.Edges[label]
	if hasDef {
		if color == "" {
			color = def.Color
		}
		if def.WithArrow != nil {
			arrow = *def.WithArrow
		}
	}
	if hint.WithArrow != nil {
		arrow = *hint.WithArrow
	}

	res := r.Resolve(Descriptor{Color: color})
	return ResolvedEdge{StrokeColor: res.FillColor, Arrow: arrow, Fallback: res.Fallback}
}

// DisplayFields returns the schema's display fields for a label, used when
// an element carries none of its own.
func (r *Resolver) DisplayFields(label string, vertex bool) []string {
	if vertex {
		return r.schema.Vertices[label].DisplayFields
	}
	return r.schema.Edges[label].DisplayFields
}

// DefaultColor returns the color used when no usable color is supplied.
func (r *Resolver) DefaultColor() string { return r.defaultColor }

// normalizeColor parses a hex color ("#rgb" or "#rrggbb", case-insensitive)
// and returns it in lower-case "#rrggbb" form.
func normalizeColor(s string) (string, bool) {
	if len(s) != 4 && len(s) != 7 {
		return "", false
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}
	return c.Hex(), true
}

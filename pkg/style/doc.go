// Package style resolves raw presentation hints into renderer-ready
// attributes.
//
// The backend attaches a "~style" object to every vertex and edge. Those
// hints are optional and loosely validated upstream, so the [Resolver] turns
// whatever arrives into a complete set of attributes:
//
//   - fill/stroke color: the hint color if it parses as a hex color,
//     otherwise the schema default for the element's label, otherwise
//     [DefaultColor]
//   - icon glyph: looked up in a fixed icon table; unknown or empty icon
//     names resolve to no icon
//   - arrow flag: the hint's with_arrow if present, otherwise the schema
//     default, otherwise the configured global default
//
// Resolution never fails. Hints that name an unknown icon or carry a
// malformed color are reported through [Resolved.Fallback] so callers can
// count them, but the returned attributes are always usable.
//
// # Configuration
//
// A [Config] can be decoded from TOML (see [LoadConfig]) to change the
// default color, add or override icon glyphs, and set per-label defaults:
//
//	default_color = "#dddddd"
//
//	[icons]
//	server = "\ue6f0"
//
//	[schema.vertices.person]
//	color = "#5c73e6"
//	icon = "user"
//
//	[schema.edges.knows]
//	with_arrow = true
package style

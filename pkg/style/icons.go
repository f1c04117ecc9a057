package style

import (
	"maps"
	"slices"
)

// icons maps icon names used in ~style hints to glyphs in the console's
// icon font. The glyphs live in the Unicode private use area.
var icons = map[string]string{
	"user":        "\ue6a0",
	"users":       "\ue6a1",
	"building":    "\ue6a2",
	"database":    "\ue6a3",
	"server":      "\ue6a4",
	"cloud":       "\ue6a5",
	"file":        "\ue6a6",
	"folder":      "\ue6a7",
	"tag":         "\ue6a8",
	"home":        "\ue6a9",
	"mail":        "\ue6aa",
	"phone":       "\ue6ab",
	"global":      "\ue6ac",
	"shop":        "\ue6ad",
	"car":         "\ue6ae",
	"bank":        "\ue6af",
	"heart":       "\ue6b0",
	"star":        "\ue6b1",
	"flag":        "\ue6b2",
	"calendar":    "\ue6b3",
	"environment": "\ue6b4",
	"apartment":   "\ue6b5",
	"team":        "\ue6b6",
	"idcard":      "\ue6b7",
	"key":         "\ue6b8",
	"lock":        "\ue6b9",
	"link":        "\ue6ba",
	"wifi":        "\ue6bb",
	"mobile":      "\ue6bc",
	"laptop":      "\ue6bd",
}

// IconNames returns the names in the built-in icon table, sorted.
func IconNames() []string {
	return slices.Sorted(maps.Keys(icons))
}

// Glyph returns the built-in glyph for an icon name, or "" if the name is
// not in the table.
func Glyph(name string) string { return icons[name] }

package style

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LabelStyle is the schema-level default style for one vertex or edge label.
type LabelStyle struct {
	Color         string   `toml:"color" json:"color,omitempty"`
	Icon          string   `toml:"icon" json:"icon,omitempty"`
	WithArrow     *bool    `toml:"with_arrow" json:"with_arrow,omitempty"`
	DisplayFields []string `toml:"display_fields" json:"display_fields,omitempty"`
}

// Schema holds per-label default styles. Per-item hints win over these.
type Schema struct {
	Vertices map[string]LabelStyle `toml:"vertices" json:"vertices,omitempty"`
	Edges    map[string]LabelStyle `toml:"edges" json:"edges,omitempty"`
}

// Config configures a [Resolver]. The zero value selects the built-in
// defaults.
type Config struct {
	DefaultColor string            `toml:"default_color" json:"default_color,omitempty"`
	WithArrow    bool              `toml:"with_arrow" json:"with_arrow,omitempty"`
	Icons        map[string]string `toml:"icons" json:"icons,omitempty"`
	Schema       Schema            `toml:"schema" json:"schema,omitempty"`
}

// LoadConfig decodes a TOML style configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode style config %s: %w", path, err)
	}
	return cfg, nil
}

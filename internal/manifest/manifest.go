// Package manifest loads TOML descriptions of type systems: which
// composites to declare, their type arguments, and the fields that define
// them. Manifests are the scripting surface of the CLI; the store itself
// never reads files.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a parsed and validated type-system description.
type Manifest struct {
	Path   string
	Source []byte
	Config Config
}

// Config mirrors the TOML document.
type Config struct {
	Manifest Info         `toml:"manifest"`
	Types    []TypeConfig `toml:"types"`
}

// Info is the [manifest] table.
type Info struct {
	Name string `toml:"name"`
}

// TypeConfig is one [[types]] entry: a composite to declare and define, in
// document order.
type TypeConfig struct {
	Role   string        `toml:"role"` // "struct" or "enum"
	Name   string        `toml:"name"`
	Args   []string      `toml:"args"`   // type expressions
	Fields []FieldConfig `toml:"fields"` // empty for fieldless types
}

// FieldConfig is one [[types.fields]] entry.
type FieldConfig struct {
	Type      string `toml:"type"` // type expression
	OutOfLine bool   `toml:"out_of_line"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var cfg Config
	meta, err := toml.Decode(string(src), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("manifest") {
		return nil, fmt.Errorf("%s: missing [manifest]", path)
	}
	if !meta.IsDefined("manifest", "name") || strings.TrimSpace(cfg.Manifest.Name) == "" {
		return nil, fmt.Errorf("%s: missing [manifest].name", path)
	}
	for i, tc := range cfg.Types {
		if strings.TrimSpace(tc.Name) == "" {
			return nil, fmt.Errorf("%s: types[%d]: missing name", path, i)
		}
		switch tc.Role {
		case "struct", "enum":
		default:
			return nil, fmt.Errorf("%s: types[%d] (%s): role must be \"struct\" or \"enum\", got %q", path, i, tc.Name, tc.Role)
		}
	}
	return &Manifest{Path: path, Source: src, Config: cfg}, nil
}

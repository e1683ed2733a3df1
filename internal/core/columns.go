package core

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed columns.yaml
var defaultColumnsYAML []byte

// ColumnSpecification is the ordered set of columns an import file is
// checked against.
type ColumnSpecification []ColumnSpec

type columnsFile struct {
	Columns []ColumnSpec `yaml:"columns"`
}

// DefaultColumns returns the built-in vehicle column specification.
func DefaultColumns() ColumnSpecification {
	cols, err := ParseColumns(defaultColumnsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded columns.yaml: %v", err))
	}
	return cols
}

// LoadColumns reads a column specification from a YAML file. An empty
// path returns the built-in specification.
func LoadColumns(path string) (ColumnSpecification, error) {
	if path == "" {
		return DefaultColumns(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read column spec: %w", err)
	}
	return ParseColumns(data)
}

// ParseColumns decodes and checks a YAML column specification.
// Names are normalized; duplicates and unknown types are rejected.
func ParseColumns(data []byte) (ColumnSpecification, error) {
	var f columnsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse column spec: %w", err)
	}
	if len(f.Columns) == 0 {
		return nil, fmt.Errorf("column spec has no columns")
	}

	seen := make(map[string]bool, len(f.Columns))
	cols := make(ColumnSpecification, 0, len(f.Columns))
	for i, c := range f.Columns {
		c.Name = NormalizeHeader(c.Name)
		if c.Name == "" {
			return nil, fmt.Errorf("column %d: name is empty", i+1)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("column %q listed twice", c.Name)
		}
		seen[c.Name] = true

		switch c.Type {
		case FieldString, FieldInteger:
		case "":
			c.Type = FieldString
		default:
			return nil, fmt.Errorf("column %q: unknown type %q", c.Name, c.Type)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// Names returns the column names in specification order.
func (cs ColumnSpecification) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

// Lookup returns the column for a normalized name.
func (cs ColumnSpecification) Lookup(name string) (ColumnSpec, bool) {
	for _, c := range cs {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Missing returns the required columns absent from headers, in
// specification order. Headers must already be normalized.
func (cs ColumnSpecification) Missing(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	var missing []string
	for _, c := range cs {
		if c.Required && !present[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// NormalizeHeader lowercases and trims a header and replaces each inner
// space with "_", so " Tipo Combustible" becomes "tipo_combustible" and
// "Tipo  Combustible" becomes "tipo__combustible".
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	return strings.ReplaceAll(strings.ToLower(h), " ", "_")
}

// NormalizeHeaders normalizes a header row. Empty headers become
// "unnamed_<n>" and repeated names get a ".1", ".2" suffix so every
// column keeps a distinct key.
func NormalizeHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		name := NormalizeHeader(h)
		if name == "" {
			name = fmt.Sprintf("unnamed_%d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

package core

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultColumns(t *testing.T) {
	cols := DefaultColumns()
	want := []string{"marca", "modelo", "anio", "kilometraje", "tipo_combustible", "caballos", "torque", "segmento"}
	if got := cols.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	for _, c := range cols {
		if !c.Required {
			t.Errorf("column %q should be required", c.Name)
		}
	}
	if c, ok := cols.Lookup("torque"); !ok || c.Type != FieldInteger {
		t.Errorf("Lookup(torque) = %+v, %v", c, ok)
	}
}

func TestParseColumns(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		want    []string
	}{
		{
			name: "names normalized and type defaulted",
			yaml: "columns:\n  - name: \" Tipo Combustible\"\n    required: true\n  - name: color\n",
			want: []string{"tipo_combustible", "color"},
		},
		{name: "empty list", yaml: "columns: []\n", wantErr: "no columns"},
		{name: "duplicate", yaml: "columns:\n  - name: marca\n  - name: MARCA\n", wantErr: "listed twice"},
		{name: "unknown type", yaml: "columns:\n  - name: anio\n    type: date\n", wantErr: "unknown type"},
		{name: "blank name", yaml: "columns:\n  - name: \"  \"\n", wantErr: "name is empty"},
		{name: "bad yaml", yaml: "columns: [", wantErr: "parse column spec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := ParseColumns([]byte(tt.yaml))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := cols.Names(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Names() = %v, want %v", got, tt.want)
			}
			if cols[1].Type != FieldString {
				t.Errorf("default type = %q, want string", cols[1].Type)
			}
		})
	}
}

func TestLoadColumns(t *testing.T) {
	cols, err := LoadColumns("")
	if err != nil || len(cols) != 8 {
		t.Fatalf("LoadColumns(\"\") = %d columns, %v", len(cols), err)
	}

	path := filepath.Join(t.TempDir(), "cols.yaml")
	if err := os.WriteFile(path, []byte("columns:\n  - name: marca\n    required: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cols, err = LoadColumns(path)
	if err != nil {
		t.Fatalf("LoadColumns: %v", err)
	}
	if len(cols) != 1 || cols[0].Name != "marca" {
		t.Errorf("got %+v", cols)
	}

	if _, err := LoadColumns(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMissing(t *testing.T) {
	cols := DefaultColumns()
	headers := []string{"marca", "modelo", "anio", "kilometraje", "tipo_combustible", "caballos", "segmento"}
	if got := cols.Missing(headers); !reflect.DeepEqual(got, []string{"torque"}) {
		t.Errorf("Missing() = %v, want [torque]", got)
	}
	if got := cols.Missing(append(headers, "torque")); len(got) != 0 {
		t.Errorf("Missing() = %v, want none", got)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Marca", "marca"},
		{"  Tipo Combustible ", "tipo_combustible"},
		{"Tipo  Combustible", "tipo__combustible"},
		{"\tSegmento\n", "segmento"},
		{"\ufeffMarca", "marca"},
		{"ANIO", "anio"},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeHeader(tt.input); got != tt.want {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHeaders_BlankAndDuplicate(t *testing.T) {
	got := NormalizeHeaders([]string{"Marca", "", "marca", " MARCA "})
	want := []string{"marca", "unnamed_1", "marca.1", "marca.2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeHeaders() = %v, want %v", got, want)
	}
}

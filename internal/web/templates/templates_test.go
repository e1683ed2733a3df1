package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestErrorAlert(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		want    []string
		notWant []string
	}{
		{
			name:   "with action",
			action: "Intente de nuevo",
			want:   []string{"alert-message", "&lt;b&gt;falló&lt;/b&gt;", "Intente de nuevo", "Código: DB003"},
		},
		{
			name:    "without action",
			want:    []string{"Código: DB003"},
			notWant: []string{"alert-action"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ErrorAlert("<b>falló</b>", tt.action, "DB003").Render(context.Background(), &buf); err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q: %s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q: %s", s, out)
				}
			}
		})
	}
}

func TestIndex(t *testing.T) {
	var buf bytes.Buffer
	err := Index("API Taller", []Endpoint{{Name: "vehiculos", Path: "/vehiculos"}}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "<code>/vehiculos</code>") {
		t.Errorf("output = %s", buf.String())
	}
}

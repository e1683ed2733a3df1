package core

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
)

// ----------------------------------------------------------------------------
// ParseInteger Tests
// ----------------------------------------------------------------------------

func TestParseInteger(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		// Valid: plain integers
		{name: "positive", input: "2020", want: 2020},
		{name: "zero", input: "0", want: 0},
		{name: "negative", input: "-15", want: -15},
		{name: "surrounding whitespace", input: "  350 ", want: 350},

		// Valid: decimals from numeric spreadsheet cells
		{name: "whole decimal", input: "2020.0", want: 2020},
		{name: "fraction truncated", input: "15000.9", want: 15000},
		{name: "negative fraction toward zero", input: "-3.7", want: -3},
		{name: "scientific notation", input: "1.5e3", want: 1500},

		// Invalid
		{name: "empty", input: "", wantErr: errNotNumeric},
		{name: "text", input: "abc", wantErr: errNotNumeric},
		{name: "thousands separator", input: "15,000", wantErr: errNotNumeric},
		{name: "NaN", input: "NaN", wantErr: errNotNumeric},
		{name: "infinity", input: "Inf", wantErr: errNotNumeric},
		{name: "above int32", input: "3000000000", wantErr: errOutOfRange},
		{name: "below int32", input: "-3000000000.5", wantErr: errOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInteger(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseInteger(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInteger(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseInteger(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple string unchanged", input: "Toyota", want: "Toyota"},
		{name: "empty string", input: "", want: ""},
		{name: "surrounded by whitespace", input: "  Corolla  ", want: "Corolla"},
		{name: "Excel text formula", input: `="2020"`, want: "2020"},
		{name: "Excel text formula with spaces", input: ` =" SUV " `, want: "SUV"},
		{name: "lone equals kept", input: "=", want: "="},
		{name: "other formula kept", input: "=SUM(A1)", want: "=SUM(A1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// pgtype mapping Tests
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantValid  bool
		wantString string
	}{
		{name: "simple string", input: "Gasolina", wantValid: true, wantString: "Gasolina"},
		{name: "trimmed", input: "  Diesel ", wantValid: true, wantString: "Diesel"},
		{name: "unicode preserved", input: "Eléctrico", wantValid: true, wantString: "Eléctrico"},
		{name: "empty", input: "", wantValid: false},
		{name: "only whitespace", input: " \t\n", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToPgText(tt.input)
			if result.Valid != tt.wantValid {
				t.Errorf("ToPgText(%q).Valid = %v, want %v", tt.input, result.Valid, tt.wantValid)
				return
			}
			if tt.wantValid && result.String != tt.wantString {
				t.Errorf("ToPgText(%q).String = %q, want %q", tt.input, result.String, tt.wantString)
			}
		})
	}
}

func TestPointerConversions(t *testing.T) {
	if got := ToPgInt4Ptr(nil); got.Valid {
		t.Error("ToPgInt4Ptr(nil) should be NULL")
	}
	if got := ToPgInt4Ptr(intPtr(150)); !got.Valid || got.Int32 != 150 {
		t.Errorf("ToPgInt4Ptr(150) = %+v", got)
	}
	if got := ToPgTextPtr(nil); got.Valid {
		t.Error("ToPgTextPtr(nil) should be NULL")
	}
	if got := ToPgTextPtr(strPtr("  ")); got.Valid {
		t.Error("ToPgTextPtr(blank) should be NULL")
	}

	if got := FromPgInt4(pgtype.Int4{}); got != nil {
		t.Errorf("FromPgInt4(NULL) = %v, want nil", *got)
	}
	if got := FromPgInt4(pgtype.Int4{Int32: 7, Valid: true}); got == nil || *got != 7 {
		t.Errorf("FromPgInt4(7) = %v", got)
	}
	if got := FromPgText(pgtype.Text{}); got != nil {
		t.Errorf("FromPgText(NULL) = %q, want nil", *got)
	}
	if got := FromPgText(pgtype.Text{String: "Sedan", Valid: true}); got == nil || *got != "Sedan" {
		t.Errorf("FromPgText(Sedan) = %v", got)
	}
}

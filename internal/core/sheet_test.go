package core

import (
	"errors"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseSheet_CSV(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantHeaders []string
		wantRows    []RawRow
	}{
		{
			name:        "comma separated",
			data:        "Marca,Modelo,Anio\nToyota,Corolla,2020\n",
			wantHeaders: []string{"marca", "modelo", "anio"},
			wantRows:    []RawRow{{"marca": "Toyota", "modelo": "Corolla", "anio": "2020"}},
		},
		{
			name:        "semicolon separated",
			data:        "Marca;Tipo Combustible\nRenault;Diésel\n",
			wantHeaders: []string{"marca", "tipo_combustible"},
			wantRows:    []RawRow{{"marca": "Renault", "tipo_combustible": "Diésel"}},
		},
		{
			name:        "tab separated",
			data:        "Marca\tModelo\nKia\tRio\n",
			wantHeaders: []string{"marca", "modelo"},
			wantRows:    []RawRow{{"marca": "Kia", "modelo": "Rio"}},
		},
		{
			name:        "byte order mark stripped",
			data:        "\xEF\xBB\xBFMarca,Modelo\nKia,Rio\n",
			wantHeaders: []string{"marca", "modelo"},
			wantRows:    []RawRow{{"marca": "Kia", "modelo": "Rio"}},
		},
		{
			name:        "windows-1252 decoded",
			data:        "Marca,Modelo\nCitro\xebn,C3\n",
			wantHeaders: []string{"marca", "modelo"},
			wantRows:    []RawRow{{"marca": "Citroën", "modelo": "C3"}},
		},
		{
			name:        "empty cells absent and ragged rows tolerated",
			data:        "Marca,Modelo,Anio\nFord,,\nFord,Fiesta,2019,extra\nFord\n",
			wantHeaders: []string{"marca", "modelo", "anio"},
			wantRows: []RawRow{
				{"marca": "Ford"},
				{"marca": "Ford", "modelo": "Fiesta", "anio": "2019"},
				{"marca": "Ford"},
			},
		},
		{
			name:        "outer blank rows dropped, inner kept",
			data:        ",,\nMarca,Modelo\nA,B\n,\nC,D\n,\n",
			wantHeaders: []string{"marca", "modelo"},
			wantRows: []RawRow{
				{"marca": "A", "modelo": "B"},
				{},
				{"marca": "C", "modelo": "D"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSheet([]byte(tt.data))
			if err != nil {
				t.Fatalf("ParseSheet() error: %v", err)
			}
			if !reflect.DeepEqual(s.Headers, tt.wantHeaders) {
				t.Errorf("Headers = %v, want %v", s.Headers, tt.wantHeaders)
			}
			if !reflect.DeepEqual(s.Rows, tt.wantRows) {
				t.Errorf("Rows = %v, want %v", s.Rows, tt.wantRows)
			}
			if s.TotalRows() != len(tt.wantRows) {
				t.Errorf("TotalRows() = %d, want %d", s.TotalRows(), len(tt.wantRows))
			}
		})
	}
}

func TestParseSheet_Workbook(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Marca", "Modelo", "Año Fabricación", "Kilometraje"},
		{"Toyota", "Corolla", 2020, 15000.5},
		{"Mazda", "CX-5", nil, 32000},
	})

	s, err := ParseSheet(data)
	if err != nil {
		t.Fatalf("ParseSheet() error: %v", err)
	}

	wantHeaders := []string{"marca", "modelo", "año_fabricación", "kilometraje"}
	if !reflect.DeepEqual(s.Headers, wantHeaders) {
		t.Errorf("Headers = %v, want %v", s.Headers, wantHeaders)
	}
	if s.TotalRows() != 2 {
		t.Fatalf("TotalRows() = %d, want 2", s.TotalRows())
	}
	if got := s.Rows[0]["kilometraje"]; got != "15000.5" {
		t.Errorf("kilometraje = %q, want raw value 15000.5", got)
	}
	if got := s.Rows[0]["año_fabricación"]; got != "2020" {
		t.Errorf("año = %q, want 2020", got)
	}
	if _, ok := s.Rows[1]["año_fabricación"]; ok {
		t.Error("empty workbook cell should be absent")
	}
}

func TestParseSheet_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: ErrEmptyFile},
		{name: "whitespace only", data: []byte("  \n\n"), want: ErrEmptyFile},
		{name: "only blank rows", data: []byte(",,\n,,\n"), want: ErrEmptyFile},
		{name: "binary", data: []byte{0x00, 0x01, 0x02, 'a', 'b'}, want: ErrUnreadableFile},
		{name: "legacy xls", data: []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, want: ErrUnreadableFile},
		{name: "broken zip", data: []byte("PK\x03\x04not really a workbook"), want: ErrUnreadableFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSheet(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseSheet() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		line string
		want rune
	}{
		{"a,b,c", ','},
		{"a;b;c", ';'},
		{"a\tb\tc", '\t'},
		{"a;b,c;d", ';'},
		{"single", ','},
	}

	for _, tt := range tests {
		if got := detectDelimiter([]byte(tt.line + "\nx,y")); got != tt.want {
			t.Errorf("detectDelimiter(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

package core

import (
	"bytes"
	"fmt"
	"testing"
)

// ============================================================================
// Coercion Benchmarks
// ============================================================================

// BenchmarkCoerceVehicle runs once per data row during import.
func BenchmarkCoerceVehicle(b *testing.B) {
	row := RawRow{
		"marca":            "Toyota",
		"modelo":           "Corolla",
		"anio":             "2020.0",
		"kilometraje":      "15000",
		"tipo_combustible": "Gasolina",
		"caballos":         "140",
		"torque":           `="180"`,
		"segmento":         "Sedan",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CoerceVehicle(row, i+1)
	}
}

// BenchmarkParseInteger covers the integer and decimal paths.
func BenchmarkParseInteger(b *testing.B) {
	testCases := []string{"2020", "15000.5", "-3", "abc"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, tc := range testCases {
			_, _ = ParseInteger(tc)
		}
	}
}

// ============================================================================
// Sheet Parsing Benchmarks
// ============================================================================

func BenchmarkParseSheet_CSV(b *testing.B) {
	var buf bytes.Buffer
	buf.WriteString("Marca,Modelo,Anio,Kilometraje,Tipo Combustible,Caballos,Torque,Segmento\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&buf, "Toyota,Corolla %d,2020,%d,Gasolina,140,180,Sedan\n", i, i*100)
	}
	data := buf.Bytes()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParseSheet(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNormalizeHeader(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NormalizeHeader("  Tipo Combustible ")
	}
}

// BenchmarkDecodeText_Windows1252 covers the fallback path taken by
// CSV exports from Excel on Windows.
func BenchmarkDecodeText_Windows1252(b *testing.B) {
	line := []byte("Pe\xf1a;Cami\xf3n;2019;45000;Di\xe9sel\n")
	data := bytes.Repeat(line, 2000)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeText(data); err != nil {
			b.Fatal(err)
		}
	}
}

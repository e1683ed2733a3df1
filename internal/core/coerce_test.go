package core

import "testing"

func TestCoerceVehicle(t *testing.T) {
	full := RawRow{
		"marca":            " Toyota ",
		"modelo":           "Corolla",
		"anio":             "2020",
		"kilometraje":      "15000.0",
		"tipo_combustible": "Gasolina",
		"caballos":         "140",
		"torque":           `="180"`,
		"segmento":         " Sedan ",
	}

	t.Run("complete row", func(t *testing.T) {
		r := CoerceVehicle(full, 1)
		if !r.Ok() {
			t.Fatalf("expected success, got %q", r.Reason)
		}
		v := r.Record
		if v.Marca != "Toyota" || v.Modelo != "Corolla" {
			t.Errorf("identity = %q %q", v.Marca, v.Modelo)
		}
		if v.Anio == nil || *v.Anio != 2020 {
			t.Errorf("Anio = %v, want 2020", v.Anio)
		}
		if v.Kilometraje == nil || *v.Kilometraje != 15000 {
			t.Errorf("Kilometraje = %v, want 15000", v.Kilometraje)
		}
		if v.Torque == nil || *v.Torque != 180 {
			t.Errorf("Torque = %v, want 180", v.Torque)
		}
		if v.Segmento == nil || *v.Segmento != "Sedan" {
			t.Errorf("Segmento = %v, want Sedan", v.Segmento)
		}
	})

	t.Run("optional fields absent are nil", func(t *testing.T) {
		r := CoerceVehicle(RawRow{"marca": "Mazda", "modelo": "3", "caballos": "  "}, 2)
		if !r.Ok() {
			t.Fatalf("expected success, got %q", r.Reason)
		}
		v := r.Record
		if v.Anio != nil || v.Kilometraje != nil || v.Caballos != nil || v.Torque != nil {
			t.Error("blank integer fields should be nil")
		}
		if v.TipoCombustible != nil || v.Segmento != nil {
			t.Error("blank text fields should be nil")
		}
	})

	failures := []struct {
		name string
		row  RawRow
		want string
	}{
		{
			name: "missing marca",
			row:  RawRow{"modelo": "Corolla"},
			want: "Fila 5: Marca o modelo faltante",
		},
		{
			name: "blank modelo",
			row:  RawRow{"marca": "Toyota", "modelo": "   "},
			want: "Fila 5: Marca o modelo faltante",
		},
		{
			name: "non numeric year",
			row:  RawRow{"marca": "Toyota", "modelo": "Corolla", "anio": "dos mil"},
			want: `Fila 5: valor no numérico en anio: "dos mil"`,
		},
		{
			name: "first bad field wins",
			row:  RawRow{"marca": "Toyota", "modelo": "Corolla", "kilometraje": "x", "torque": "y"},
			want: `Fila 5: valor no numérico en kilometraje: "x"`,
		},
		{
			name: "out of range",
			row:  RawRow{"marca": "Toyota", "modelo": "Corolla", "torque": "99999999999"},
			want: `Fila 5: valor fuera de rango en torque: "99999999999"`,
		},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			r := CoerceVehicle(tt.row, 5)
			if r.Ok() {
				t.Fatal("expected failure")
			}
			if r.Index != 5 {
				t.Errorf("Index = %d, want 5", r.Index)
			}
			if got := r.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCoercer_FollowsDeclaredTypes(t *testing.T) {
	spec, err := ParseColumns([]byte(`
columns:
  - {name: marca, required: true}
  - {name: modelo, required: true}
  - {name: anio, type: string}
  - {name: segmento, type: integer}
  - {name: puertas, type: integer}
`))
	if err != nil {
		t.Fatal(err)
	}
	c := NewCoercer(spec)

	t.Run("string year accepts text", func(t *testing.T) {
		r := c.Coerce(RawRow{"marca": "Toyota", "modelo": "Corolla", "anio": "dos mil"}, 1)
		if !r.Ok() {
			t.Fatalf("expected success, got %q", r.Reason)
		}
		if r.Record.Anio != nil {
			t.Errorf("Anio = %d, want nil", *r.Record.Anio)
		}
	})

	t.Run("string year keeps numbers", func(t *testing.T) {
		r := c.Coerce(RawRow{"marca": "Toyota", "modelo": "Corolla", "anio": "2019"}, 1)
		if !r.Ok() || deref(r.Record.Anio) != 2019 {
			t.Fatalf("result = %+v", r)
		}
	})

	tests := []struct {
		name string
		row  RawRow
		want string
	}{
		{
			name: "integer text column",
			row:  RawRow{"marca": "Toyota", "modelo": "Corolla", "segmento": "Sedan"},
			want: `Fila 3: valor no numérico en segmento: "Sedan"`,
		},
		{
			name: "integer column outside the record",
			row:  RawRow{"marca": "Toyota", "modelo": "Corolla", "puertas": "cuatro"},
			want: `Fila 3: valor no numérico en puertas: "cuatro"`,
		},
		{
			name: "unlisted fields keep their type",
			row:  RawRow{"marca": "Toyota", "modelo": "Corolla", "torque": "alto"},
			want: `Fila 3: valor no numérico en torque: "alto"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := c.Coerce(tt.row, 3)
			if r.Ok() {
				t.Fatal("expected failure")
			}
			if got := r.Message(); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("numeric segmento stored as text", func(t *testing.T) {
		r := c.Coerce(RawRow{"marca": "Toyota", "modelo": "Corolla", "segmento": "3"}, 1)
		if !r.Ok() || r.Record.Segmento == nil || *r.Record.Segmento != "3" {
			t.Fatalf("result = %+v", r)
		}
	})
}

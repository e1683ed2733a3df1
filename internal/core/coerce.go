package core

import (
	"errors"
	"fmt"
)

// ReasonMissingIdentity is the failure reason for rows without marca or modelo.
const ReasonMissingIdentity = "Marca o modelo faltante"

// RowResult is the outcome of coercing one row: either a Vehicle or a
// failure reason. Index is the 1-based data row number.
type RowResult struct {
	Index  int
	Record *Vehicle
	Reason string
}

// Ok reports whether the row produced a record.
func (r RowResult) Ok() bool { return r.Record != nil }

// Message formats a failed row for the job's error list.
func (r RowResult) Message() string {
	return fmt.Sprintf("Fila %d: %s", r.Index, r.Reason)
}

func rowOk(index int, v Vehicle) RowResult { return RowResult{Index: index, Record: &v} }

func rowErr(index int, reason string) RowResult { return RowResult{Index: index, Reason: reason} }

// vehicleField is an optional Vehicle field filled from one column.
// Exactly one of num and text is set.
type vehicleField struct {
	column string
	num    func(*Vehicle) **int
	text   func(*Vehicle) **string
}

// vehicleFields is the order optional fields are coerced in. The first
// failing field decides the row's reason.
var vehicleFields = []vehicleField{
	{column: "anio", num: func(v *Vehicle) **int { return &v.Anio }},
	{column: "kilometraje", num: func(v *Vehicle) **int { return &v.Kilometraje }},
	{column: "caballos", num: func(v *Vehicle) **int { return &v.Caballos }},
	{column: "torque", num: func(v *Vehicle) **int { return &v.Torque }},
	{column: "tipo_combustible", text: func(v *Vehicle) **string { return &v.TipoCombustible }},
	{column: "segmento", text: func(v *Vehicle) **string { return &v.Segmento }},
}

// Coercer converts raw rows into vehicles using the column types of a
// specification.
//
// An integer column must hold a number or be blank, whatever field it
// feeds. A string column is never rejected: numeric fields keep the value
// when it parses and stay nil when it does not. Integer columns with no
// vehicle field are still checked.
type Coercer struct {
	types map[string]FieldType
	extra []string
}

// NewCoercer builds a Coercer for spec. Vehicle fields the spec does not
// list keep their natural type.
func NewCoercer(spec ColumnSpecification) Coercer {
	c := Coercer{types: make(map[string]FieldType, len(vehicleFields)+len(spec))}
	known := make(map[string]bool, len(vehicleFields))
	for _, f := range vehicleFields {
		known[f.column] = true
		c.types[f.column] = FieldString
		if f.num != nil {
			c.types[f.column] = FieldInteger
		}
	}
	for _, col := range spec {
		c.types[col.Name] = col.Type
		if !known[col.Name] && col.Type == FieldInteger && col.Name != "marca" && col.Name != "modelo" {
			c.extra = append(c.extra, col.Name)
		}
	}
	return c
}

var defaultCoercer = NewCoercer(DefaultColumns())

// CoerceVehicle converts a raw row with the built-in column types.
func CoerceVehicle(row RawRow, index int) RowResult {
	return defaultCoercer.Coerce(row, index)
}

// Coerce converts a raw row into a Vehicle. It never panics: any problem
// is returned as a failed RowResult.
//
// marca and modelo must be non-blank. Blank cells give nil fields and
// text is trimmed.
func (c Coercer) Coerce(row RawRow, index int) RowResult {
	marca := CleanCell(row["marca"])
	modelo := CleanCell(row["modelo"])
	if marca == "" || modelo == "" {
		return rowErr(index, ReasonMissingIdentity)
	}

	v := Vehicle{Marca: marca, Modelo: modelo}
	for _, f := range vehicleFields {
		raw := CleanCell(row[f.column])
		if raw == "" {
			continue
		}

		n, err := ParseInteger(raw)
		if err != nil && c.types[f.column] == FieldInteger {
			return rowErr(index, numericReason(f.column, raw, err))
		}

		switch {
		case f.text != nil:
			*f.text(&v) = strPtr(raw)
		case err == nil:
			*f.num(&v) = intPtr(n)
		}
	}

	for _, col := range c.extra {
		raw := CleanCell(row[col])
		if raw == "" {
			continue
		}
		if _, err := ParseInteger(raw); err != nil {
			return rowErr(index, numericReason(col, raw, err))
		}
	}

	return rowOk(index, v)
}

func numericReason(column, raw string, err error) string {
	if errors.Is(err, errOutOfRange) {
		return fmt.Sprintf("valor fuera de rango en %s: %q", column, raw)
	}
	return fmt.Sprintf("valor no numérico en %s: %q", column, raw)
}

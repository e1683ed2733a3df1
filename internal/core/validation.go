package core

// validation.go checks an upload's header row against the column
// specification before any row is imported.

import (
	"fmt"
	"strings"
)

const (
	msgColumnFound    = "Columna encontrada"
	msgColumnMissing  = "Columna faltante"
	msgOptionalFound  = "Columna opcional encontrada"
	msgOptionalAbsent = "Columna opcional no incluida"
	msgColumnExtra    = "Columna adicional (se ignorará)"
)

// MissingColumnsError is returned by direct imports when required
// columns are absent. No rows are processed in that case.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "Columnas faltantes: " + strings.Join(e.Columns, ", ")
}

// ValidateColumns compares normalized headers with the specification.
// Every expected column gets an entry in specification order, followed by one
// entry per unexpected header in file order. Extras never fail the check;
// only a missing required column sets Valido to false.
func ValidateColumns(spec ColumnSpecification, headers []string, totalRows int) ValidationReport {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	report := ValidationReport{
		Valido:        true,
		Validaciones:  make([]ColumnCheck, 0, len(spec)+len(headers)),
		TotalColumnas: len(headers),
		TotalFilas:    totalRows,
	}

	for _, col := range spec {
		check := ColumnCheck{Columna: col.Name, Requerida: col.Required, Valida: true}
		switch {
		case col.Required && present[col.Name]:
			check.Mensaje = msgColumnFound
		case col.Required:
			check.Valida = false
			check.Mensaje = msgColumnMissing
			report.Valido = false
		case present[col.Name]:
			check.Mensaje = msgOptionalFound
		default:
			check.Mensaje = msgOptionalAbsent
		}
		report.Validaciones = append(report.Validaciones, check)
	}

	for _, h := range headers {
		if _, known := spec.Lookup(h); known {
			continue
		}
		report.Validaciones = append(report.Validaciones, ColumnCheck{
			Columna:   h,
			Requerida: false,
			Valida:    true,
			Mensaje:   msgColumnExtra,
		})
	}

	return report
}

// RequireColumns returns a *MissingColumnsError when any required column
// is absent from headers.
func RequireColumns(spec ColumnSpecification, headers []string) error {
	if missing := spec.Missing(headers); len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// describeColumns is used in log lines.
func describeColumns(headers []string) string {
	return fmt.Sprintf("%d columns [%s]", len(headers), strings.Join(headers, ", "))
}

package core

// PreviewRows is how many data rows BuildPreview returns.
const PreviewRows = 10

// BuildPreview returns the column names, the first limit rows as read
// (no coercion) and the total row count. Empty cells are nil so they
// encode as JSON null.
func BuildPreview(s *Sheet, limit int) PreviewResult {
	if limit <= 0 {
		limit = PreviewRows
	}
	n := min(limit, len(s.Rows))

	filas := make([]map[string]*string, 0, n)
	for _, row := range s.Rows[:n] {
		fila := make(map[string]*string, len(s.Headers))
		for _, col := range s.Headers {
			if v, ok := row[col]; ok {
				fila[col] = strPtr(v)
			} else {
				fila[col] = nil
			}
		}
		filas = append(filas, fila)
	}

	return PreviewResult{
		Columnas:       s.Headers,
		Filas:          filas,
		TotalRegistros: len(s.Rows),
	}
}

package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// iteratorForCopyVehiculos implements pgx.CopyFromSource.
type iteratorForCopyVehiculos struct {
	rows                 []CopyVehiculosParams
	skippedFirstNextCall bool
}

func (r *iteratorForCopyVehiculos) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForCopyVehiculos) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].Marca,
		r.rows[0].Modelo,
		r.rows[0].Anio,
		r.rows[0].Kilometraje,
		r.rows[0].TipoCombustible,
		r.rows[0].Caballos,
		r.rows[0].Torque,
		r.rows[0].Segmento,
	}, nil
}

func (r iteratorForCopyVehiculos) Err() error {
	return nil
}

func (q *Queries) CopyVehiculos(ctx context.Context, arg []CopyVehiculosParams) (int64, error) {
	return q.db.CopyFrom(ctx, pgx.Identifier{"vehiculos"}, []string{"marca", "modelo", "anio", "kilometraje", "tipo_combustible", "caballos", "torque", "segmento"}, &iteratorForCopyVehiculos{rows: arg})
}

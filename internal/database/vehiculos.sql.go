package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countVehiculos = `-- name: CountVehiculos :one
SELECT count(*) FROM vehiculos
`

func (q *Queries) CountVehiculos(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countVehiculos)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAllVehiculos = `-- name: DeleteAllVehiculos :execrows
DELETE FROM vehiculos
`

func (q *Queries) DeleteAllVehiculos(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAllVehiculos)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getVehiculo = `-- name: GetVehiculo :one
SELECT id, marca, modelo, anio, kilometraje, tipo_combustible, caballos, torque, segmento FROM vehiculos
WHERE id = $1
`

func (q *Queries) GetVehiculo(ctx context.Context, id int32) (Vehiculo, error) {
	row := q.db.QueryRow(ctx, getVehiculo, id)
	var i Vehiculo
	err := row.Scan(
		&i.ID,
		&i.Marca,
		&i.Modelo,
		&i.Anio,
		&i.Kilometraje,
		&i.TipoCombustible,
		&i.Caballos,
		&i.Torque,
		&i.Segmento,
	)
	return i, err
}

const insertVehiculo = `-- name: InsertVehiculo :one
INSERT INTO vehiculos (
    marca, modelo, anio, kilometraje, tipo_combustible, caballos, torque, segmento
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8
)
RETURNING id, marca, modelo, anio, kilometraje, tipo_combustible, caballos, torque, segmento
`

type InsertVehiculoParams struct {
	Marca           string
	Modelo          string
	Anio            pgtype.Int4
	Kilometraje     pgtype.Int4
	TipoCombustible pgtype.Text
	Caballos        pgtype.Int4
	Torque          pgtype.Int4
	Segmento        pgtype.Text
}

func (q *Queries) InsertVehiculo(ctx context.Context, arg InsertVehiculoParams) (Vehiculo, error) {
	row := q.db.QueryRow(ctx, insertVehiculo,
		arg.Marca,
		arg.Modelo,
		arg.Anio,
		arg.Kilometraje,
		arg.TipoCombustible,
		arg.Caballos,
		arg.Torque,
		arg.Segmento,
	)
	var i Vehiculo
	err := row.Scan(
		&i.ID,
		&i.Marca,
		&i.Modelo,
		&i.Anio,
		&i.Kilometraje,
		&i.TipoCombustible,
		&i.Caballos,
		&i.Torque,
		&i.Segmento,
	)
	return i, err
}

const listVehiculos = `-- name: ListVehiculos :many
SELECT id, marca, modelo, anio, kilometraje, tipo_combustible, caballos, torque, segmento FROM vehiculos
ORDER BY id
`

func (q *Queries) ListVehiculos(ctx context.Context) ([]Vehiculo, error) {
	rows, err := q.db.Query(ctx, listVehiculos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Vehiculo
	for rows.Next() {
		var i Vehiculo
		if err := rows.Scan(
			&i.ID,
			&i.Marca,
			&i.Modelo,
			&i.Anio,
			&i.Kilometraje,
			&i.TipoCombustible,
			&i.Caballos,
			&i.Torque,
			&i.Segmento,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type CopyVehiculosParams struct {
	Marca           string
	Modelo          string
	Anio            pgtype.Int4
	Kilometraje     pgtype.Int4
	TipoCombustible pgtype.Text
	Caballos        pgtype.Int4
	Torque          pgtype.Int4
	Segmento        pgtype.Text
}

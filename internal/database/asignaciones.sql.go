package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const deleteAsignacion = `-- name: DeleteAsignacion :execrows
DELETE FROM asignaciones
WHERE id = $1
`

func (q *Queries) DeleteAsignacion(ctx context.Context, id int32) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAsignacion, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getAsignacion = `-- name: GetAsignacion :one
SELECT id, id_vehiculo, id_mecanico, descripcion, estado, fecha_asignacion FROM asignaciones
WHERE id = $1
`

func (q *Queries) GetAsignacion(ctx context.Context, id int32) (Asignacione, error) {
	row := q.db.QueryRow(ctx, getAsignacion, id)
	var i Asignacione
	err := row.Scan(
		&i.ID,
		&i.IDVehiculo,
		&i.IDMecanico,
		&i.Descripcion,
		&i.Estado,
		&i.FechaAsignacion,
	)
	return i, err
}

const insertAsignacion = `-- name: InsertAsignacion :one
INSERT INTO asignaciones (id_vehiculo, id_mecanico, descripcion, estado)
VALUES ($1, $2, $3, $4)
RETURNING id, id_vehiculo, id_mecanico, descripcion, estado, fecha_asignacion
`

type InsertAsignacionParams struct {
	IDVehiculo  pgtype.Int4
	IDMecanico  pgtype.Int4
	Descripcion string
	Estado      string
}

func (q *Queries) InsertAsignacion(ctx context.Context, arg InsertAsignacionParams) (Asignacione, error) {
	row := q.db.QueryRow(ctx, insertAsignacion,
		arg.IDVehiculo,
		arg.IDMecanico,
		arg.Descripcion,
		arg.Estado,
	)
	var i Asignacione
	err := row.Scan(
		&i.ID,
		&i.IDVehiculo,
		&i.IDMecanico,
		&i.Descripcion,
		&i.Estado,
		&i.FechaAsignacion,
	)
	return i, err
}

const listAsignaciones = `-- name: ListAsignaciones :many
SELECT a.id, a.id_vehiculo, a.id_mecanico, a.descripcion, a.estado, a.fecha_asignacion,
       v.marca AS vehiculo_marca, v.modelo AS vehiculo_modelo,
       m.nombre AS mecanico_nombre, m.apellido AS mecanico_apellido
FROM asignaciones a
LEFT JOIN vehiculos v ON v.id = a.id_vehiculo
LEFT JOIN mecanicos m ON m.id = a.id_mecanico
ORDER BY a.id
`

type ListAsignacionesRow struct {
	ID               int32
	IDVehiculo       pgtype.Int4
	IDMecanico       pgtype.Int4
	Descripcion      string
	Estado           string
	FechaAsignacion  pgtype.Timestamptz
	VehiculoMarca    pgtype.Text
	VehiculoModelo   pgtype.Text
	MecanicoNombre   pgtype.Text
	MecanicoApellido pgtype.Text
}

func (q *Queries) ListAsignaciones(ctx context.Context) ([]ListAsignacionesRow, error) {
	rows, err := q.db.Query(ctx, listAsignaciones)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListAsignacionesRow
	for rows.Next() {
		var i ListAsignacionesRow
		if err := rows.Scan(
			&i.ID,
			&i.IDVehiculo,
			&i.IDMecanico,
			&i.Descripcion,
			&i.Estado,
			&i.FechaAsignacion,
			&i.VehiculoMarca,
			&i.VehiculoModelo,
			&i.MecanicoNombre,
			&i.MecanicoApellido,
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

const updateAsignacion = `-- name: UpdateAsignacion :one
UPDATE asignaciones
SET estado = COALESCE($1, estado),
    descripcion = COALESCE($2, descripcion)
WHERE id = $3
RETURNING id, id_vehiculo, id_mecanico, descripcion, estado, fecha_asignacion
`

type UpdateAsignacionParams struct {
	Estado      pgtype.Text
	Descripcion pgtype.Text
	ID          int32
}

func (q *Queries) UpdateAsignacion(ctx context.Context, arg UpdateAsignacionParams) (Asignacione, error) {
	row := q.db.QueryRow(ctx, updateAsignacion, arg.Estado, arg.Descripcion, arg.ID)
	var i Asignacione
	err := row.Scan(
		&i.ID,
		&i.IDVehiculo,
		&i.IDMecanico,
		&i.Descripcion,
		&i.Estado,
		&i.FechaAsignacion,
	)
	return i, err
}

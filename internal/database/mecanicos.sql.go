package database

import (
	"context"
)

const countMecanicos = `-- name: CountMecanicos :one
SELECT count(*) FROM mecanicos
`

func (q *Queries) CountMecanicos(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countMecanicos)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getMecanico = `-- name: GetMecanico :one
SELECT id, nombre, apellido FROM mecanicos
WHERE id = $1
`

func (q *Queries) GetMecanico(ctx context.Context, id int32) (Mecanico, error) {
	row := q.db.QueryRow(ctx, getMecanico, id)
	var i Mecanico
	err := row.Scan(&i.ID, &i.Nombre, &i.Apellido)
	return i, err
}

const insertMecanico = `-- name: InsertMecanico :one
INSERT INTO mecanicos (nombre, apellido)
VALUES ($1, $2)
RETURNING id, nombre, apellido
`

type InsertMecanicoParams struct {
	Nombre   string
	Apellido string
}

func (q *Queries) InsertMecanico(ctx context.Context, arg InsertMecanicoParams) (Mecanico, error) {
	row := q.db.QueryRow(ctx, insertMecanico, arg.Nombre, arg.Apellido)
	var i Mecanico
	err := row.Scan(&i.ID, &i.Nombre, &i.Apellido)
	return i, err
}

const listMecanicos = `-- name: ListMecanicos :many
SELECT id, nombre, apellido FROM mecanicos
ORDER BY id
`

func (q *Queries) ListMecanicos(ctx context.Context) ([]Mecanico, error) {
	rows, err := q.db.Query(ctx, listMecanicos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Mecanico
	for rows.Next() {
		var i Mecanico
		if err := rows.Scan(&i.ID, &i.Nombre, &i.Apellido); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Asignacione struct {
	ID              int32
	IDVehiculo      pgtype.Int4
	IDMecanico      pgtype.Int4
	Descripcion     string
	Estado          string
	FechaAsignacion pgtype.Timestamptz
}

type Mecanico struct {
	ID       int32
	Nombre   string
	Apellido string
}

type Vehiculo struct {
	ID              int32
	Marca           string
	Modelo          string
	Anio            pgtype.Int4
	Kilometraje     pgtype.Int4
	TipoCombustible pgtype.Text
	Caballos        pgtype.Int4
	Torque          pgtype.Int4
	Segmento        pgtype.Text
}

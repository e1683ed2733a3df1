package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
)

func int4(v int32) pgtype.Int4 { return pgtype.Int4{Int32: v, Valid: true} }

func text(s string) pgtype.Text { return pgtype.Text{String: s, Valid: true} }

var seedVehiculos = []InsertVehiculoParams{
	{Marca: "Tesla", Modelo: "Model S", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(670), Torque: int4(1050), Segmento: text("Premium")},
	{Marca: "Nissan", Modelo: "Leaf", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(147), Torque: int4(320), Segmento: text("Compacto")},
	{Marca: "Chevrolet", Modelo: "Bolt", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(200), Torque: int4(360), Segmento: text("Compacto")},
	{Marca: "BMW", Modelo: "i3", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(170), Torque: int4(250), Segmento: text("Subcompacto")},
	{Marca: "Audi", Modelo: "e-tron", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(355), Torque: int4(561), Segmento: text("SUV")},
	{Marca: "Ford", Modelo: "Mustang Mach-E", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(346), Torque: int4(580), Segmento: text("SUV")},
	{Marca: "Hyundai", Modelo: "Kona Electric", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(201), Torque: int4(395), Segmento: text("SUV")},
	{Marca: "Kia", Modelo: "Soul EV", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(201), Torque: int4(395), Segmento: text("Subcompacto")},
	{Marca: "Porsche", Modelo: "Taycan", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(522), Torque: int4(650), Segmento: text("Premium")},
	{Marca: "Volkswagen", Modelo: "ID.4", Kilometraje: int4(0), TipoCombustible: text("Eléctrico"), Caballos: int4(201), Torque: int4(310), Segmento: text("SUV")},
}

var seedMecanicos = []InsertMecanicoParams{
	{Nombre: "Juan", Apellido: "Pérez"},
	{Nombre: "Ana", Apellido: "Gómez"},
	{Nombre: "Luis", Apellido: "Martínez"},
	{Nombre: "María", Apellido: "Rodríguez"},
	{Nombre: "Carlos", Apellido: "López"},
	{Nombre: "Sofía", Apellido: "Hernández"},
	{Nombre: "Andrés", Apellido: "García"},
	{Nombre: "Paula", Apellido: "Jiménez"},
	{Nombre: "Diego", Apellido: "Santos"},
	{Nombre: "Camila", Apellido: "Torres"},
}

// SeedResult reports how many sample rows Seed inserted.
type SeedResult struct {
	Vehiculos int
	Mecanicos int
}

// Seed inserts the sample vehicles and mechanics. Each table is only
// seeded when it is empty, so running it twice does not duplicate data.
func (q *Queries) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	n, err := q.CountVehiculos(ctx)
	if err != nil {
		return res, fmt.Errorf("count vehiculos: %w", err)
	}
	if n == 0 {
		for _, v := range seedVehiculos {
			if _, err := q.InsertVehiculo(ctx, v); err != nil {
				return res, fmt.Errorf("seed vehiculo %s %s: %w", v.Marca, v.Modelo, err)
			}
			res.Vehiculos++
		}
	}

	n, err = q.CountMecanicos(ctx)
	if err != nil {
		return res, fmt.Errorf("count mecanicos: %w", err)
	}
	if n == 0 {
		for _, m := range seedMecanicos {
			if _, err := q.InsertMecanico(ctx, m); err != nil {
				return res, fmt.Errorf("seed mecanico %s %s: %w", m.Nombre, m.Apellido, err)
			}
			res.Mecanicos++
		}
	}

	return res, nil
}

package core

import (
	"context"
	"fmt"
	"strings"

	db "github.com/JonMunkholm/taller/internal/database"
	"github.com/jackc/pgx/v5/pgtype"
)

const unknownParty = "Sin información"

// ListVehicles returns every vehicle ordered by id.
func (s *Service) ListVehicles(ctx context.Context) ([]StoredVehicle, error) {
	rows, err := s.queries.ListVehiculos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list vehiculos: %w", err)
	}

	out := make([]StoredVehicle, len(rows))
	for i, r := range rows {
		out[i] = vehicleFromRow(r)
	}
	return out, nil
}

// CountVehicles returns the number of stored vehicles.
func (s *Service) CountVehicles(ctx context.Context) (int64, error) {
	n, err := s.queries.CountVehiculos(ctx)
	if err != nil {
		return 0, fmt.Errorf("count vehiculos: %w", err)
	}
	return n, nil
}

// ListMechanics returns every mechanic ordered by id.
func (s *Service) ListMechanics(ctx context.Context) ([]Mechanic, error) {
	rows, err := s.queries.ListMecanicos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mecanicos: %w", err)
	}

	out := make([]Mechanic, len(rows))
	for i, r := range rows {
		out[i] = Mechanic{ID: r.ID, Nombre: r.Nombre, Apellido: r.Apellido}
	}
	return out, nil
}

// ListAssignments returns every assignment with the vehicle and mechanic
// names resolved. States are in display form.
func (s *Service) ListAssignments(ctx context.Context) ([]Assignment, error) {
	rows, err := s.queries.ListAsignaciones(ctx)
	if err != nil {
		return nil, fmt.Errorf("list asignaciones: %w", err)
	}

	out := make([]Assignment, len(rows))
	for i, r := range rows {
		out[i] = Assignment{
			ID:              r.ID,
			IDMecanico:      r.IDMecanico.Int32,
			IDVehiculo:      r.IDVehiculo.Int32,
			Vehiculo:        joinName(r.VehiculoMarca, r.VehiculoModelo),
			Mecanico:        joinName(r.MecanicoNombre, r.MecanicoApellido),
			Descripcion:     r.Descripcion,
			FechaAsignacion: timePtr(r.FechaAsignacion),
			Estado:          StateToDisplay(r.Estado),
		}
	}
	return out, nil
}

func vehicleFromRow(r db.Vehiculo) StoredVehicle {
	return StoredVehicle{
		ID: r.ID,
		Vehicle: Vehicle{
			Marca:           r.Marca,
			Modelo:          r.Modelo,
			Anio:            FromPgInt4(r.Anio),
			Kilometraje:     FromPgInt4(r.Kilometraje),
			TipoCombustible: FromPgText(r.TipoCombustible),
			Caballos:        FromPgInt4(r.Caballos),
			Torque:          FromPgInt4(r.Torque),
			Segmento:        FromPgText(r.Segmento),
		},
	}
}

// joinName renders "first last", or a placeholder when the joined row is
// gone.
func joinName(first, last pgtype.Text) string {
	if !first.Valid && !last.Valid {
		return unknownParty
	}
	return strings.TrimSpace(first.String + " " + last.String)
}

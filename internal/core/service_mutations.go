package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	db "github.com/JonMunkholm/taller/internal/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// CreateVehicle stores a single vehicle. marca and modelo are required.
func (s *Service) CreateVehicle(ctx context.Context, v Vehicle) (StoredVehicle, error) {
	v.Marca = strings.TrimSpace(v.Marca)
	v.Modelo = strings.TrimSpace(v.Modelo)
	if v.Marca == "" || v.Modelo == "" {
		return StoredVehicle{}, fmt.Errorf("%w: marca y modelo son obligatorios", ErrInvalidInput)
	}

	row, err := s.queries.InsertVehiculo(ctx, db.InsertVehiculoParams{
		Marca:           v.Marca,
		Modelo:          v.Modelo,
		Anio:            ToPgInt4Ptr(v.Anio),
		Kilometraje:     ToPgInt4Ptr(v.Kilometraje),
		TipoCombustible: ToPgTextPtr(v.TipoCombustible),
		Caballos:        ToPgInt4Ptr(v.Caballos),
		Torque:          ToPgInt4Ptr(v.Torque),
		Segmento:        ToPgTextPtr(v.Segmento),
	})
	if err != nil {
		return StoredVehicle{}, fmt.Errorf("insert vehiculo: %w", err)
	}
	return vehicleFromRow(row), nil
}

// ClearVehicles deletes every vehicle and returns how many were removed.
func (s *Service) ClearVehicles(ctx context.Context) (int64, error) {
	n, err := s.queries.DeleteAllVehiculos(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete vehiculos: %w", err)
	}
	return n, nil
}

// CreateMechanic stores a mechanic. Both names are required.
func (s *Service) CreateMechanic(ctx context.Context, in MechanicInput) (Mechanic, error) {
	nombre := strings.TrimSpace(in.Nombre)
	apellido := strings.TrimSpace(in.Apellido)
	if nombre == "" || apellido == "" {
		return Mechanic{}, fmt.Errorf("%w: nombre y apellido son obligatorios", ErrInvalidInput)
	}

	row, err := s.queries.InsertMecanico(ctx, db.InsertMecanicoParams{Nombre: nombre, Apellido: apellido})
	if err != nil {
		return Mechanic{}, fmt.Errorf("insert mecanico: %w", err)
	}
	return Mechanic{ID: row.ID, Nombre: row.Nombre, Apellido: row.Apellido}, nil
}

// CreateAssignment links a mechanic to a vehicle. Both must exist.
func (s *Service) CreateAssignment(ctx context.Context, in AssignmentInput) (Assignment, error) {
	mec, err := s.queries.GetMecanico(ctx, in.IDMecanico)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, &NotFoundError{Entity: "Mecánico", ID: in.IDMecanico}
	}
	if err != nil {
		return Assignment{}, fmt.Errorf("get mecanico: %w", err)
	}

	veh, err := s.queries.GetVehiculo(ctx, in.IDVehiculo)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, &NotFoundError{Entity: "Vehículo", ID: in.IDVehiculo}
	}
	if err != nil {
		return Assignment{}, fmt.Errorf("get vehiculo: %w", err)
	}

	row, err := s.queries.InsertAsignacion(ctx, db.InsertAsignacionParams{
		IDVehiculo:  pgtype.Int4{Int32: veh.ID, Valid: true},
		IDMecanico:  pgtype.Int4{Int32: mec.ID, Valid: true},
		Descripcion: in.Descripcion,
		Estado:      StateToStorage(in.Estado),
	})
	if err != nil {
		return Assignment{}, fmt.Errorf("insert asignacion: %w", err)
	}

	return Assignment{
		ID:              row.ID,
		IDMecanico:      mec.ID,
		IDVehiculo:      veh.ID,
		Vehiculo:        veh.Marca + " " + veh.Modelo,
		Mecanico:        mec.Nombre + " " + mec.Apellido,
		Descripcion:     row.Descripcion,
		FechaAsignacion: timePtr(row.FechaAsignacion),
		Estado:          StateToDisplay(row.Estado),
	}, nil
}

// UpdateAssignment changes the state and/or description of an
// assignment. An empty state is ignored.
func (s *Service) UpdateAssignment(ctx context.Context, id int32, patch AssignmentPatch) (Assignment, error) {
	params := db.UpdateAsignacionParams{ID: id}
	if patch.Estado != nil && *patch.Estado != "" {
		params.Estado = pgtype.Text{String: StateToStorage(*patch.Estado), Valid: true}
	}
	if patch.Descripcion != nil {
		params.Descripcion = pgtype.Text{String: *patch.Descripcion, Valid: true}
	}

	row, err := s.queries.UpdateAsignacion(ctx, params)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assignment{}, &NotFoundError{Entity: "Asignación", ID: id}
	}
	if err != nil {
		return Assignment{}, fmt.Errorf("update asignacion: %w", err)
	}

	return Assignment{
		ID:              row.ID,
		IDMecanico:      row.IDMecanico.Int32,
		IDVehiculo:      row.IDVehiculo.Int32,
		Descripcion:     row.Descripcion,
		FechaAsignacion: timePtr(row.FechaAsignacion),
		Estado:          StateToDisplay(row.Estado),
	}, nil
}

// DeleteAssignment removes an assignment.
func (s *Service) DeleteAssignment(ctx context.Context, id int32) error {
	n, err := s.queries.DeleteAsignacion(ctx, id)
	if err != nil {
		return fmt.Errorf("delete asignacion: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Entity: "Asignación", ID: id}
	}
	return nil
}

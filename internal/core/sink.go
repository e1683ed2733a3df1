package core

import (
	"context"
	"fmt"

	db "github.com/JonMunkholm/taller/internal/database"
	"github.com/jackc/pgx/v5"
)

// VehicleSink is the storage side of an import. Add stages a record,
// Commit persists everything staged since the last commit, and Rollback
// discards staged records. After a failed Commit nothing from that batch
// is persisted.
type VehicleSink interface {
	Add(v Vehicle)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SinkFactory returns a fresh sink for one import job.
type SinkFactory func() VehicleSink

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgVehicleSink stages vehicles in memory and writes each batch with one
// COPY inside its own transaction.
type PgVehicleSink struct {
	db     TxBeginner
	staged []db.CopyVehiculosParams
}

// NewPgVehicleSink creates a sink writing to the vehiculos table.
func NewPgVehicleSink(conn TxBeginner) *PgVehicleSink {
	return &PgVehicleSink{db: conn}
}

// PgSinkFactory returns a SinkFactory backed by conn.
func PgSinkFactory(conn TxBeginner) SinkFactory {
	return func() VehicleSink { return NewPgVehicleSink(conn) }
}

func (s *PgVehicleSink) Add(v Vehicle) {
	s.staged = append(s.staged, db.CopyVehiculosParams{
		Marca:           v.Marca,
		Modelo:          v.Modelo,
		Anio:            ToPgInt4Ptr(v.Anio),
		Kilometraje:     ToPgInt4Ptr(v.Kilometraje),
		TipoCombustible: ToPgTextPtr(v.TipoCombustible),
		Caballos:        ToPgInt4Ptr(v.Caballos),
		Torque:          ToPgInt4Ptr(v.Torque),
		Segmento:        ToPgTextPtr(v.Segmento),
	})
}

func (s *PgVehicleSink) Commit(ctx context.Context) error {
	if len(s.staged) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	n, err := db.New(tx).CopyVehiculos(ctx, s.staged)
	if err != nil {
		return fmt.Errorf("copy vehiculos: %w", err)
	}
	if int(n) != len(s.staged) {
		return fmt.Errorf("copy vehiculos: wrote %d of %d rows", n, len(s.staged))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.staged = s.staged[:0]
	return nil
}

func (s *PgVehicleSink) Rollback(context.Context) error {
	s.staged = s.staged[:0]
	return nil
}

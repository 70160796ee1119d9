//go:generate mockgen -source ./postgres.go -destination=./mocks/postgres.go -package=mock_storage
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fleetops/rental/internal/apperrors"
	"github.com/fleetops/rental/internal/db"
	"github.com/fleetops/rental/internal/domain"
	"github.com/fleetops/rental/internal/repository"
)

type VehicleRepository interface {
	Create(ctx context.Context, row *repository.VehicleRow) error
	GetByID(ctx context.Context, id string) (*repository.VehicleRow, error)
	Update(ctx context.Context, row *repository.VehicleRow) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]*repository.VehicleRow, error)
}

type RenterRepository interface {
	Create(ctx context.Context, row *repository.RenterRow) error
	GetByID(ctx context.Context, id string) (*repository.RenterRow, error)
	Update(ctx context.Context, row *repository.RenterRow) error
	SetActive(ctx context.Context, id string, active bool) error
	List(ctx context.Context) ([]*repository.RenterRow, error)
}

type RentalRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, row *repository.RentalRow) error
	GetByID(ctx context.Context, id string) (*repository.RentalRow, error)
	Update(ctx context.Context, row *repository.RentalRow) error
	List(ctx context.Context) ([]*repository.RentalRow, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]*repository.RentalRow, error)
	ListByRenter(ctx context.Context, renterID string) ([]*repository.RentalRow, error)
}

// PostgresStorage serves the same contract as SnapshotStorage from a
// relational backend. History references are derived from the ledger
// table, so the rental insert is the only write a rent transaction needs.
type PostgresStorage struct {
	db          db.DB
	vehicleRepo VehicleRepository
	renterRepo  RenterRepository
	rentalRepo  RentalRepository
}

func NewPostgresStorage(db db.DB, vehicles VehicleRepository, renters RenterRepository, rentals RentalRepository) *PostgresStorage {
	return &PostgresStorage{
		db:          db,
		vehicleRepo: vehicles,
		renterRepo:  renters,
		rentalRepo:  rentals,
	}
}

func mapRepoErr(err error, entity, id string) error {
	if errors.Is(err, repository.ErrObjectNotFound) {
		return &apperrors.NotFoundError{Entity: entity, ID: id}
	}
	return &apperrors.PersistenceError{Path: "postgres", Cause: err}
}

func (s *PostgresStorage) AddVehicle(ctx context.Context, v *domain.Vehicle) error {
	if err := s.vehicleRepo.Create(ctx, repository.FromVehicle(v)); err != nil {
		return fmt.Errorf("failed to add vehicle: %w", &apperrors.PersistenceError{Path: "postgres", Cause: err})
	}
	return nil
}

func (s *PostgresStorage) AddRenter(ctx context.Context, r *domain.Renter) error {
	if err := s.renterRepo.Create(ctx, repository.FromRenter(r)); err != nil {
		return fmt.Errorf("failed to add renter: %w", &apperrors.PersistenceError{Path: "postgres", Cause: err})
	}
	return nil
}

func (s *PostgresStorage) Vehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	row, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "vehicle", id)
	}
	rentals, err := s.rentalRepo.ListByVehicle(ctx, id)
	if err != nil {
		return nil, &apperrors.PersistenceError{Path: "postgres", Cause: err}
	}
	ids := make([]string, 0, len(rentals))
	for _, rec := range rentals {
		ids = append(ids, rec.ID)
	}
	return row.ToDomain(ids)
}

func (s *PostgresStorage) Renter(ctx context.Context, id string) (*domain.Renter, error) {
	row, err := s.renterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "renter", id)
	}
	rentals, err := s.rentalRepo.ListByRenter(ctx, id)
	if err != nil {
		return nil, &apperrors.PersistenceError{Path: "postgres", Cause: err}
	}
	ids := make([]string, 0, len(rentals))
	for _, rec := range rentals {
		ids = append(ids, rec.ID)
	}
	return row.ToDomain(ids), nil
}

func (s *PostgresStorage) Rental(ctx context.Context, id string) (*domain.RentalRecord, error) {
	row, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "rental record", id)
	}
	return row.ToDomain()
}

func (s *PostgresStorage) Vehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	rows, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, &apperrors.PersistenceError{Path: "postgres", Cause: err}
	}
	out := make([]*domain.Vehicle, 0, len(rows))
	for _, row := range rows {
		v, err := s.Vehicle(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *PostgresStorage) Renters(ctx context.Context) ([]*domain.Renter, error) {
	rows, err := s.renterRepo.List(ctx)
	if err != nil {
		return nil, &apperrors.PersistenceError{Path: "postgres", Cause: err}
	}
	out := make([]*domain.Renter, 0, len(rows))
	for _, row := range rows {
		r, err := s.Renter(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *PostgresStorage) Rentals(ctx context.Context) ([]*domain.RentalRecord, error) {
	rows, err := s.rentalRepo.List(ctx)
	if err != nil {
		return nil, &apperrors.PersistenceError{Path: "postgres", Cause: err}
	}
	return rowsToRecords(rows)
}

func (s *PostgresStorage) RentalsForVehicle(ctx context.Context, vehicleID string) ([]*domain.RentalRecord, error) {
	rows, err := s.rentalRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Path: "postgres", Cause: err}
	}
	return rowsToRecords(rows)
}

func (s *PostgresStorage) RentalsForRenter(ctx context.Context, renterID string) ([]*domain.RentalRecord, error) {
	rows, err := s.rentalRepo.ListByRenter(ctx, renterID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Path: "postgres", Cause: err}
	}
	return rowsToRecords(rows)
}

func rowsToRecords(rows []*repository.RentalRow) ([]*domain.RentalRecord, error) {
	out := make([]*domain.RentalRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *PostgresStorage) UpdateRenter(ctx context.Context, r *domain.Renter) error {
	if err := s.renterRepo.Update(ctx, repository.FromRenter(r)); err != nil {
		return fmt.Errorf("failed to update renter: %w", mapRepoErr(err, "renter", r.ID))
	}
	return nil
}

func (s *PostgresStorage) RemoveVehicle(ctx context.Context, id string) error {
	if err := s.vehicleRepo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("failed to remove vehicle: %w", mapRepoErr(err, "vehicle", id))
	}
	return nil
}

func (s *PostgresStorage) RemoveRenter(ctx context.Context, id string) error {
	if err := s.renterRepo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("failed to remove renter: %w", mapRepoErr(err, "renter", id))
	}
	return nil
}

// RecordRental writes the ledger entry transactionally. Vehicle and renter
// history are views over the rentals table, so no further writes are
// needed for the references to resolve.
func (s *PostgresStorage) RecordRental(ctx context.Context, rec *domain.RentalRecord, _ *domain.Vehicle, _ *domain.Renter) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", &apperrors.PersistenceError{Path: "postgres", Cause: err})
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := s.rentalRepo.CreateTx(ctx, tx, repository.FromRental(rec)); err != nil {
		return fmt.Errorf("failed to persist rental record: %w", &apperrors.PersistenceError{Path: "postgres", Cause: err})
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rental: %w", &apperrors.PersistenceError{Path: "postgres", Cause: err})
	}
	return nil
}

func (s *PostgresStorage) RecordReturn(ctx context.Context, rec *domain.RentalRecord) error {
	if err := s.rentalRepo.Update(ctx, repository.FromRental(rec)); err != nil {
		return fmt.Errorf("failed to persist return: %w", mapRepoErr(err, "rental record", rec.ID))
	}
	return nil
}

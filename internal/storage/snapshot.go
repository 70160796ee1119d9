package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fleetops/rental/internal/apperrors"
	"github.com/fleetops/rental/internal/domain"
)

// SnapshotStorage keeps the three entity families in independent JSON
// snapshots under one directory. The rental ledger is written before the
// referencing vehicle/renter snapshots, so a crash never leaves dangling
// history references.
type SnapshotStorage struct {
	vehicles *RecordStore[*domain.Vehicle]
	renters  *RecordStore[*domain.Renter]
	rentals  *RecordStore[*domain.RentalRecord]
}

// NewSnapshotStorage opens (or creates) the snapshot directory.
func NewSnapshotStorage(dir string) (*SnapshotStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &apperrors.PersistenceError{Path: dir, Cause: err}
	}

	vehicles, err := NewRecordStore[*domain.Vehicle](filepath.Join(dir, "vehicles.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to open vehicle store: %w", err)
	}
	renters, err := NewRecordStore[*domain.Renter](filepath.Join(dir, "renters.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to open renter store: %w", err)
	}
	rentals, err := NewRecordStore[*domain.RentalRecord](filepath.Join(dir, "rentals.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to open rental store: %w", err)
	}

	return &SnapshotStorage{vehicles: vehicles, renters: renters, rentals: rentals}, nil
}

func (s *SnapshotStorage) AddVehicle(_ context.Context, v *domain.Vehicle) error {
	if err := s.vehicles.Add(v); err != nil {
		return fmt.Errorf("failed to add vehicle: %w", err)
	}
	return nil
}

func (s *SnapshotStorage) AddRenter(_ context.Context, r *domain.Renter) error {
	if err := s.renters.Add(r); err != nil {
		return fmt.Errorf("failed to add renter: %w", err)
	}
	return nil
}

func (s *SnapshotStorage) Vehicle(_ context.Context, id string) (*domain.Vehicle, error) {
	v, ok := s.vehicles.Get(id)
	if !ok {
		return nil, &apperrors.NotFoundError{Entity: "vehicle", ID: id}
	}
	return v, nil
}

func (s *SnapshotStorage) Renter(_ context.Context, id string) (*domain.Renter, error) {
	r, ok := s.renters.Get(id)
	if !ok {
		return nil, &apperrors.NotFoundError{Entity: "renter", ID: id}
	}
	return r, nil
}

func (s *SnapshotStorage) Rental(_ context.Context, id string) (*domain.RentalRecord, error) {
	rec, ok := s.rentals.Get(id)
	if !ok {
		return nil, &apperrors.NotFoundError{Entity: "rental record", ID: id}
	}
	return rec, nil
}

func (s *SnapshotStorage) Vehicles(_ context.Context) ([]*domain.Vehicle, error) {
	return s.vehicles.All(), nil
}

func (s *SnapshotStorage) Renters(_ context.Context) ([]*domain.Renter, error) {
	return s.renters.All(), nil
}

func (s *SnapshotStorage) Rentals(_ context.Context) ([]*domain.RentalRecord, error) {
	return s.rentals.All(), nil
}

func (s *SnapshotStorage) RentalsForVehicle(_ context.Context, vehicleID string) ([]*domain.RentalRecord, error) {
	return s.rentals.FindBy(func(rec *domain.RentalRecord) bool {
		return rec.VehicleID == vehicleID
	}), nil
}

func (s *SnapshotStorage) RentalsForRenter(_ context.Context, renterID string) ([]*domain.RentalRecord, error) {
	return s.rentals.FindBy(func(rec *domain.RentalRecord) bool {
		return rec.RenterID == renterID
	}), nil
}

func (s *SnapshotStorage) UpdateRenter(_ context.Context, r *domain.Renter) error {
	if err := s.renters.Update(r); err != nil {
		return fmt.Errorf("failed to update renter: %w", err)
	}
	return nil
}

func (s *SnapshotStorage) RemoveVehicle(_ context.Context, id string) error {
	if err := s.vehicles.Remove(id); err != nil {
		return fmt.Errorf("failed to remove vehicle: %w", err)
	}
	return nil
}

func (s *SnapshotStorage) RemoveRenter(_ context.Context, id string) error {
	if err := s.renters.Remove(id); err != nil {
		return fmt.Errorf("failed to remove renter: %w", err)
	}
	return nil
}

// RecordRental persists a new ledger entry and the updated history
// references of its vehicle and renter. The ledger write lands first; if a
// later write fails, the earlier ones are compensated so the caller sees
// all-or-nothing.
func (s *SnapshotStorage) RecordRental(_ context.Context, rec *domain.RentalRecord, v *domain.Vehicle, r *domain.Renter) error {
	prevVehicle, hadVehicle := s.vehicles.Get(v.ID)

	if err := s.rentals.Add(rec); err != nil {
		return fmt.Errorf("failed to persist rental record: %w", err)
	}
	if err := s.vehicles.Update(v); err != nil {
		s.rentals.discard(rec.ID)
		return fmt.Errorf("failed to persist vehicle history: %w", err)
	}
	if err := s.renters.Update(r); err != nil {
		s.rentals.discard(rec.ID)
		if hadVehicle {
			_ = s.vehicles.Update(prevVehicle)
		}
		return fmt.Errorf("failed to persist renter history: %w", err)
	}
	return nil
}

// RecordReturn persists the closed ledger entry.
func (s *SnapshotStorage) RecordReturn(_ context.Context, rec *domain.RentalRecord) error {
	if err := s.rentals.Update(rec); err != nil {
		return fmt.Errorf("failed to persist return: %w", err)
	}
	return nil
}

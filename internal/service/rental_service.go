package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fleetops/rental/internal/apperrors"
	"github.com/fleetops/rental/internal/domain"
	"github.com/fleetops/rental/internal/metrics"
)

// Storage is the persistence contract the transaction service runs on.
// Both the snapshot and the postgres backends satisfy it.
type Storage interface {
	AddVehicle(ctx context.Context, v *domain.Vehicle) error
	AddRenter(ctx context.Context, r *domain.Renter) error

	Vehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	Renter(ctx context.Context, id string) (*domain.Renter, error)
	Rental(ctx context.Context, id string) (*domain.RentalRecord, error)

	Vehicles(ctx context.Context) ([]*domain.Vehicle, error)
	Renters(ctx context.Context) ([]*domain.Renter, error)
	Rentals(ctx context.Context) ([]*domain.RentalRecord, error)

	RentalsForVehicle(ctx context.Context, vehicleID string) ([]*domain.RentalRecord, error)
	RentalsForRenter(ctx context.Context, renterID string) ([]*domain.RentalRecord, error)

	UpdateRenter(ctx context.Context, r *domain.Renter) error
	RemoveVehicle(ctx context.Context, id string) error
	RemoveRenter(ctx context.Context, id string) error

	RecordRental(ctx context.Context, rec *domain.RentalRecord, v *domain.Vehicle, r *domain.Renter) error
	RecordReturn(ctx context.Context, rec *domain.RentalRecord) error
}

// Auditor receives an event for every rent/return attempt.
type Auditor interface {
	Record(ctx context.Context, event AuditEvent)
}

// VehicleFilter narrows fleet listings. Zero values mean "any"; a
// non-nil Available keeps only vehicles free over that whole period.
type VehicleFilter struct {
	Category     domain.Category
	Make         string
	MinYear      int
	MinDailyRate decimal.Decimal
	MaxDailyRate decimal.Decimal
	Available    *domain.Period
	OnlyActive   bool
}

// RentalService owns the rent/return state machine. Concurrent rentals of
// the same vehicle are serialized on a per-vehicle lock, so the
// availability check and the ledger write are atomic with respect to each
// other.
type RentalService struct {
	storage Storage
	audit   Auditor
	logger  *zap.Logger
	timeNow func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRentalService(storage Storage, audit Auditor, logger *zap.Logger) *RentalService {
	return &RentalService{
		storage: storage,
		audit:   audit,
		logger:  logger,
		timeNow: time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *RentalService) entityLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	return m
}

// Rent creates a ledger record for the vehicle, renter and period. The
// quoted cost is frozen on the record. Exactly one of two concurrent
// requests for overlapping periods on the same vehicle succeeds.
func (s *RentalService) Rent(ctx context.Context, vehicleID, renterID string, period domain.Period) (string, decimal.Decimal, error) {
	vl := s.entityLock("vehicle/" + vehicleID)
	vl.Lock()
	defer vl.Unlock()
	rl := s.entityLock("renter/" + renterID)
	rl.Lock()
	defer rl.Unlock()

	recordID, cost, err := s.rentLocked(ctx, vehicleID, renterID, period)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("rent").Inc()
		s.auditEvent(ctx, "rent", recordID, vehicleID, renterID, "", err)
		return "", decimal.Zero, err
	}

	metrics.RentalsCreatedTotal.Inc()
	metrics.LedgerRecords.Inc()
	s.auditEvent(ctx, "rent", recordID, vehicleID, renterID, cost.StringFixed(2), nil)
	s.logger.Info("rental created",
		zap.String("record_id", recordID),
		zap.String("vehicle_id", vehicleID),
		zap.String("renter_id", renterID),
		zap.String("cost", cost.StringFixed(2)),
	)
	return recordID, cost, nil
}

func (s *RentalService) rentLocked(ctx context.Context, vehicleID, renterID string, period domain.Period) (string, decimal.Decimal, error) {
	vehicle, err := s.storage.Vehicle(ctx, vehicleID)
	if err != nil {
		return "", decimal.Zero, err
	}
	renter, err := s.storage.Renter(ctx, renterID)
	if err != nil {
		return "", decimal.Zero, err
	}

	if !renter.Active {
		return "", decimal.Zero, &apperrors.PermissionError{RenterID: renterID, Reason: "account is deactivated"}
	}
	if !renter.CanRent() {
		return "", decimal.Zero, &apperrors.PermissionError{RenterID: renterID, Reason: "staff accounts cannot rent vehicles"}
	}
	if !vehicle.Active {
		return "", decimal.Zero, &apperrors.AvailabilityError{VehicleID: vehicleID, Period: period.String()}
	}

	history, err := s.storage.RentalsForVehicle(ctx, vehicleID)
	if err != nil {
		return "", decimal.Zero, err
	}
	if !vehicle.AvailableFor(period, history) {
		return "", decimal.Zero, &apperrors.AvailabilityError{VehicleID: vehicleID, Period: period.String()}
	}

	discount := renter.DiscountFactor(period.Days())
	cost, err := vehicle.Quote(period, discount)
	if err != nil {
		return "", decimal.Zero, err
	}

	rec := &domain.RentalRecord{
		ID:         uuid.NewString(),
		VehicleID:  vehicleID,
		RenterID:   renterID,
		Period:     period,
		AgreedCost: cost,
		CreatedAt:  s.timeNow().UTC(),
	}

	// vehicle and renter are the service's own copies; on a failed write
	// the appended references are simply discarded with them.
	vehicle.AddRentalRef(rec.ID)
	renter.AddRentalRef(rec.ID)

	if err := s.storage.RecordRental(ctx, rec, vehicle, renter); err != nil {
		return rec.ID, decimal.Zero, err
	}
	return rec.ID, cost, nil
}

// Return closes a rental record at the given time. Idempotence is
// rejected loudly: returning a closed record fails without touching it.
func (s *RentalService) Return(ctx context.Context, recordID string, at time.Time) error {
	rec, err := s.storage.Rental(ctx, recordID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("return").Inc()
		s.auditEvent(ctx, "return", recordID, "", "", "", err)
		return err
	}

	vl := s.entityLock("vehicle/" + rec.VehicleID)
	vl.Lock()
	defer vl.Unlock()

	// Re-read under the lock: the first read only picked the lock key, and
	// a concurrent return may have closed the record since.
	rec, err = s.storage.Rental(ctx, recordID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("return").Inc()
		s.auditEvent(ctx, "return", recordID, "", "", "", err)
		return err
	}

	if err := s.returnLocked(ctx, rec, at); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("return").Inc()
		s.auditEvent(ctx, "return", recordID, rec.VehicleID, rec.RenterID, "", err)
		return err
	}

	metrics.ReturnsCompletedTotal.Inc()
	s.auditEvent(ctx, "return", recordID, rec.VehicleID, rec.RenterID, rec.AgreedCost.StringFixed(2), nil)
	s.logger.Info("rental returned",
		zap.String("record_id", recordID),
		zap.Time("at", at),
	)
	return nil
}

func (s *RentalService) returnLocked(ctx context.Context, rec *domain.RentalRecord, at time.Time) error {
	if err := rec.MarkReturned(at); err != nil {
		return err
	}
	return s.storage.RecordReturn(ctx, rec)
}

// Quote prices a prospective rental without creating a record. The same
// permission rules apply as for Rent.
func (s *RentalService) Quote(ctx context.Context, vehicleID, renterID string, period domain.Period) (decimal.Decimal, error) {
	vehicle, err := s.storage.Vehicle(ctx, vehicleID)
	if err != nil {
		return decimal.Zero, err
	}
	renter, err := s.storage.Renter(ctx, renterID)
	if err != nil {
		return decimal.Zero, err
	}
	if !renter.CanRent() {
		return decimal.Zero, &apperrors.PermissionError{RenterID: renterID, Reason: "staff accounts cannot rent vehicles"}
	}
	return vehicle.Quote(period, renter.DiscountFactor(period.Days()))
}

// AvailableVehicles lists active vehicles free over the whole period.
func (s *RentalService) AvailableVehicles(ctx context.Context, period domain.Period) ([]*domain.Vehicle, error) {
	vehicles, err := s.storage.Vehicles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !v.Active {
			continue
		}
		history, err := s.storage.RentalsForVehicle(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		if v.AvailableFor(period, history) {
			out = append(out, v)
		}
	}
	sortVehicles(out)
	return out, nil
}

// RentedVehicles lists vehicles with an open rental overlapping the
// period.
func (s *RentalService) RentedVehicles(ctx context.Context, period domain.Period) ([]*domain.Vehicle, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]*domain.Vehicle, 0)
	for _, rec := range rentals {
		if rec.Returned || !rec.Period.Overlaps(period) {
			continue
		}
		if _, ok := seen[rec.VehicleID]; ok {
			continue
		}
		seen[rec.VehicleID] = struct{}{}
		v, err := s.storage.Vehicle(ctx, rec.VehicleID)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	sortVehicles(out)
	return out, nil
}

// FilterVehicles lists vehicles matching every set filter field.
func (s *RentalService) FilterVehicles(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error) {
	vehicles, err := s.storage.Vehicles(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if filter.OnlyActive && !v.Active {
			continue
		}
		if filter.Category != "" && v.Category != filter.Category {
			continue
		}
		if filter.Make != "" && v.Make != filter.Make {
			continue
		}
		if filter.MinYear != 0 && v.Year < filter.MinYear {
			continue
		}
		if !filter.MinDailyRate.IsZero() && v.DailyRate.LessThan(filter.MinDailyRate) {
			continue
		}
		if !filter.MaxDailyRate.IsZero() && v.DailyRate.GreaterThan(filter.MaxDailyRate) {
			continue
		}
		if filter.Available != nil {
			history, err := s.storage.RentalsForVehicle(ctx, v.ID)
			if err != nil {
				return nil, err
			}
			if !v.AvailableFor(*filter.Available, history) {
				continue
			}
		}
		out = append(out, v)
	}
	sortVehicles(out)
	return out, nil
}

// VehicleHistory lists the vehicle's ledger records, oldest first.
func (s *RentalService) VehicleHistory(ctx context.Context, vehicleID string) ([]*domain.RentalRecord, error) {
	if _, err := s.storage.Vehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	records, err := s.storage.RentalsForVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	return records, nil
}

// RenterHistory lists the renter's ledger records, oldest first.
func (s *RentalService) RenterHistory(ctx context.Context, renterID string) ([]*domain.RentalRecord, error) {
	if _, err := s.storage.Renter(ctx, renterID); err != nil {
		return nil, err
	}
	records, err := s.storage.RentalsForRenter(ctx, renterID)
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	return records, nil
}

// ActiveRentals lists every open ledger record.
func (s *RentalService) ActiveRentals(ctx context.Context) ([]*domain.RentalRecord, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.RentalRecord, 0, len(rentals))
	for _, rec := range rentals {
		if !rec.Returned {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// OverdueRentals lists open records past their period end.
func (s *RentalService) OverdueRentals(ctx context.Context) ([]*domain.RentalRecord, error) {
	rentals, err := s.storage.Rentals(ctx)
	if err != nil {
		return nil, err
	}
	now := s.timeNow()
	out := make([]*domain.RentalRecord, 0)
	for _, rec := range rentals {
		if rec.OverdueAt(now) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// RegisterVehicle adds a fleet vehicle, assigning an id when absent.
func (s *RentalService) RegisterVehicle(ctx context.Context, v *domain.Vehicle) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.DailyRate.IsNegative() {
		return &apperrors.ValidationError{Field: "daily_rate", Reason: "must not be negative"}
	}
	if !domain.KnownCategory(v.Category) {
		return &apperrors.ValidationError{Field: "category", Reason: "unknown vehicle category"}
	}
	v.Active = true
	if err := s.storage.AddVehicle(ctx, v); err != nil {
		return err
	}
	s.logger.Info("vehicle registered", zap.String("vehicle_id", v.ID), zap.String("category", string(v.Category)))
	return nil
}

// RegisterRenter creates an account with a hashed credential.
func (s *RentalService) RegisterRenter(ctx context.Context, kind domain.Kind, name, contact, password string) (*domain.Renter, error) {
	r := &domain.Renter{
		ID:     uuid.NewString(),
		Kind:   kind,
		Active: true,
	}
	if err := r.SetName(name); err != nil {
		return nil, err
	}
	if err := r.SetContact(contact); err != nil {
		return nil, err
	}
	if err := r.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.storage.AddRenter(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("renter registered", zap.String("renter_id", r.ID), zap.String("kind", string(kind)))
	return r, nil
}

// UpdateRenterProfile replaces the renter's name and contact. Empty fields
// are left untouched.
func (s *RentalService) UpdateRenterProfile(ctx context.Context, renterID, name, contact string) error {
	rl := s.entityLock("renter/" + renterID)
	rl.Lock()
	defer rl.Unlock()

	r, err := s.storage.Renter(ctx, renterID)
	if err != nil {
		return err
	}
	if name != "" {
		if err := r.SetName(name); err != nil {
			return err
		}
	}
	if contact != "" {
		if err := r.SetContact(contact); err != nil {
			return err
		}
	}
	return s.storage.UpdateRenter(ctx, r)
}

// ChangeRenterPassword rotates the credential after verifying the old one.
func (s *RentalService) ChangeRenterPassword(ctx context.Context, renterID, oldPassword, newPassword string) error {
	rl := s.entityLock("renter/" + renterID)
	rl.Lock()
	defer rl.Unlock()

	r, err := s.storage.Renter(ctx, renterID)
	if err != nil {
		return err
	}
	if !r.CheckPassword(oldPassword) {
		return &apperrors.PermissionError{RenterID: renterID, Reason: "current password does not match"}
	}
	if err := r.SetPassword(newPassword); err != nil {
		return err
	}
	return s.storage.UpdateRenter(ctx, r)
}

// Authenticate verifies a renter credential.
func (s *RentalService) Authenticate(ctx context.Context, renterID, password string) error {
	r, err := s.storage.Renter(ctx, renterID)
	if err != nil {
		return err
	}
	if !r.Active {
		return &apperrors.PermissionError{RenterID: renterID, Reason: "account is deactivated"}
	}
	if !r.CheckPassword(password) {
		return &apperrors.PermissionError{RenterID: renterID, Reason: "invalid credentials"}
	}
	return nil
}

// DeactivateVehicle soft-removes a vehicle from the fleet.
func (s *RentalService) DeactivateVehicle(ctx context.Context, vehicleID string) error {
	vl := s.entityLock("vehicle/" + vehicleID)
	vl.Lock()
	defer vl.Unlock()
	return s.storage.RemoveVehicle(ctx, vehicleID)
}

// DeactivateRenter soft-disables an account. Its ledger history survives.
func (s *RentalService) DeactivateRenter(ctx context.Context, renterID string) error {
	rl := s.entityLock("renter/" + renterID)
	rl.Lock()
	defer rl.Unlock()
	return s.storage.RemoveRenter(ctx, renterID)
}

func (s *RentalService) auditEvent(ctx context.Context, operation, recordID, vehicleID, renterID, cost string, opErr error) {
	if s.audit == nil {
		return
	}
	outcome := "ok"
	if opErr != nil {
		outcome = opErr.Error()
	}
	s.audit.Record(ctx, AuditEvent{
		Timestamp: s.timeNow().UTC(),
		Operation: operation,
		RecordID:  recordID,
		VehicleID: vehicleID,
		RenterID:  renterID,
		Cost:      cost,
		Outcome:   outcome,
	})
}

func sortRecords(records []*domain.RentalRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}

func sortVehicles(vehicles []*domain.Vehicle) {
	sort.Slice(vehicles, func(i, j int) bool {
		return vehicles[i].ID < vehicles[j].ID
	})
}

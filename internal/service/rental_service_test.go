package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetops/rental/internal/apperrors"
	"github.com/fleetops/rental/internal/domain"
	"github.com/fleetops/rental/internal/storage"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (a *recordingAuditor) Record(_ context.Context, event AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAuditor) all() []AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]AuditEvent, len(a.events))
	copy(out, a.events)
	return out
}

type fixture struct {
	svc   *RentalService
	stg   *storage.SnapshotStorage
	audit *recordingAuditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stg, err := storage.NewSnapshotStorage(t.TempDir())
	require.NoError(t, err)

	audit := &recordingAuditor{}
	svc := NewRentalService(stg, audit, zap.NewNop())
	svc.timeNow = func() time.Time {
		return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	}
	return &fixture{svc: svc, stg: stg, audit: audit}
}

func (f *fixture) addVehicle(t *testing.T, v *domain.Vehicle) {
	t.Helper()
	require.NoError(t, f.stg.AddVehicle(context.Background(), v))
}

func (f *fixture) addRenter(t *testing.T, r *domain.Renter) {
	t.Helper()
	require.NoError(t, f.stg.AddRenter(context.Background(), r))
}

func car(id string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:        id,
		Category:  domain.CategoryCar,
		Make:      "Toyota",
		Model:     "Corolla",
		Year:      2024,
		DailyRate: decimal.RequireFromString("50"),
		Doors:     4,
		Active:    true,
	}
}

func corporate(id string) *domain.Renter {
	return &domain.Renter{ID: id, Kind: domain.KindCorporate, Name: "Acme", Contact: "fleet@acme.example", Active: true}
}

func individual(id string) *domain.Renter {
	return &domain.Renter{ID: id, Kind: domain.KindIndividual, Name: "Ada", Contact: "ada@example.com", Active: true}
}

func period(t *testing.T, start, end string) domain.Period {
	t.Helper()
	p, err := domain.ParsePeriod(start, end)
	require.NoError(t, err)
	return p
}

func TestRentalService_Rent(t *testing.T) {
	ctx := context.Background()

	t.Run("corporate three day rental", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		f.addRenter(t, corporate("r1"))

		recordID, cost, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 10:00", "2026-01-04 10:00"))
		require.NoError(t, err)
		assert.NotEmpty(t, recordID)
		assert.Equal(t, "127.50", cost.StringFixed(2))

		rec, err := f.stg.Rental(ctx, recordID)
		require.NoError(t, err)
		assert.Equal(t, "v1", rec.VehicleID)
		assert.Equal(t, "r1", rec.RenterID)
		assert.False(t, rec.Returned)

		v, err := f.stg.Vehicle(ctx, "v1")
		require.NoError(t, err)
		assert.Contains(t, v.RentalIDs, recordID)

		events := f.audit.all()
		require.Len(t, events, 1)
		assert.Equal(t, "rent", events[0].Operation)
		assert.Equal(t, "ok", events[0].Outcome)
	})

	t.Run("individual long rental discount", func(t *testing.T) {
		f := newFixture(t)
		sports := car("v1")
		sports.Doors = 2
		f.addVehicle(t, sports)
		f.addRenter(t, individual("r1"))

		_, cost, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 10:00", "2026-01-11 10:00"))
		require.NoError(t, err)
		assert.Equal(t, "495.00", cost.StringFixed(2))
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		f := newFixture(t)
		f.addRenter(t, corporate("r1"))

		_, _, err := f.svc.Rent(ctx, "ghost", "r1", period(t, "2026-01-01 10:00", "2026-01-02 10:00"))
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unknown renter", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))

		_, _, err := f.svc.Rent(ctx, "v1", "ghost", period(t, "2026-01-01 10:00", "2026-01-02 10:00"))
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("staff cannot rent", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		f.addRenter(t, &domain.Renter{ID: "r1", Kind: domain.KindStaff, Name: "Ops", Contact: "ops@example.com", Active: true})

		_, _, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 10:00", "2026-01-02 10:00"))
		assert.ErrorIs(t, err, apperrors.ErrPermission)

		events := f.audit.all()
		require.Len(t, events, 1)
		assert.NotEqual(t, "ok", events[0].Outcome)
	})

	t.Run("deactivated renter cannot rent", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		r := corporate("r1")
		r.Active = false
		f.addRenter(t, r)

		_, _, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 10:00", "2026-01-02 10:00"))
		assert.ErrorIs(t, err, apperrors.ErrPermission)
	})

	t.Run("deactivated vehicle is unavailable", func(t *testing.T) {
		f := newFixture(t)
		v := car("v1")
		v.Active = false
		f.addVehicle(t, v)
		f.addRenter(t, corporate("r1"))

		_, _, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 10:00", "2026-01-02 10:00"))
		assert.ErrorIs(t, err, apperrors.ErrAvailability)
	})

	t.Run("overlapping booking rejected", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		f.addRenter(t, corporate("r1"))
		f.addRenter(t, individual("r2"))

		_, _, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 00:00", "2026-01-03 00:00"))
		require.NoError(t, err)

		_, _, err = f.svc.Rent(ctx, "v1", "r2", period(t, "2026-01-02 00:00", "2026-01-04 00:00"))
		assert.ErrorIs(t, err, apperrors.ErrAvailability)
	})

	t.Run("back to back booking succeeds", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		f.addRenter(t, corporate("r1"))
		f.addRenter(t, individual("r2"))

		_, _, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 00:00", "2026-01-03 00:00"))
		require.NoError(t, err)

		_, _, err = f.svc.Rent(ctx, "v1", "r2", period(t, "2026-01-03 00:00", "2026-01-05 00:00"))
		assert.NoError(t, err, "periods touching at a boundary do not conflict")
	})

	t.Run("rebooking after return", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		f.addRenter(t, corporate("r1"))

		p := period(t, "2026-01-01 00:00", "2026-01-03 00:00")
		recordID, _, err := f.svc.Rent(ctx, "v1", "r1", p)
		require.NoError(t, err)
		require.NoError(t, f.svc.Return(ctx, recordID, p.Start.Add(time.Hour)))

		_, _, err = f.svc.Rent(ctx, "v1", "r1", p)
		assert.NoError(t, err, "a returned record no longer blocks the period")
	})
}

func TestRentalService_ConcurrentRent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addVehicle(t, car("v1"))
	f.addRenter(t, corporate("r1"))
	f.addRenter(t, individual("r2"))

	p := period(t, "2026-01-01 00:00", "2026-01-03 00:00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, renterID := range []string{"r1", "r2"} {
		wg.Add(1)
		go func(i int, renterID string) {
			defer wg.Done()
			_, _, errs[i] = f.svc.Rent(ctx, "v1", renterID, p)
		}(i, renterID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrAvailability)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent booking may win")

	rentals, err := f.stg.Rentals(ctx)
	require.NoError(t, err)
	assert.Len(t, rentals, 1)
}

func TestRentalService_ConcurrentReadsDuringReturn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addVehicle(t, car("v1"))
	f.addRenter(t, corporate("r1"))

	p := period(t, "2026-01-01 10:00", "2026-01-03 10:00")
	recordID, _, err := f.svc.Rent(ctx, "v1", "r1", p)
	require.NoError(t, err)

	// Move the clock past the deadline so the open record shows up in
	// every listing the readers walk.
	f.svc.timeNow = func() time.Time {
		return time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				_, err := f.svc.OverdueRentals(ctx)
				assert.NoError(t, err)
				_, err = f.svc.ActiveRentals(ctx)
				assert.NoError(t, err)
			}
		}()
	}

	require.NoError(t, f.svc.Return(ctx, recordID, p.End))
	close(done)
	wg.Wait()

	overdue, err := f.svc.OverdueRentals(ctx)
	require.NoError(t, err)
	assert.Empty(t, overdue, "returned record is no longer overdue")
}

func TestRentalService_Return(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, string, domain.Period) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		f.addRenter(t, corporate("r1"))
		p := period(t, "2026-01-01 10:00", "2026-01-03 10:00")
		recordID, _, err := f.svc.Rent(ctx, "v1", "r1", p)
		require.NoError(t, err)
		return f, recordID, p
	}

	t.Run("closes the record", func(t *testing.T) {
		f, recordID, p := setup(t)

		require.NoError(t, f.svc.Return(ctx, recordID, p.End.Add(-time.Hour)))

		rec, err := f.stg.Rental(ctx, recordID)
		require.NoError(t, err)
		assert.True(t, rec.Returned)
		require.NotNil(t, rec.ActualReturnTime)
	})

	t.Run("late return keeps the agreed cost", func(t *testing.T) {
		f, recordID, p := setup(t)

		require.NoError(t, f.svc.Return(ctx, recordID, p.End.Add(72*time.Hour)))

		rec, err := f.stg.Rental(ctx, recordID)
		require.NoError(t, err)
		assert.Equal(t, "85.00", rec.AgreedCost.StringFixed(2), "cost is frozen at rental time")
	})

	t.Run("double return rejected", func(t *testing.T) {
		f, recordID, p := setup(t)

		require.NoError(t, f.svc.Return(ctx, recordID, p.End))
		err := f.svc.Return(ctx, recordID, p.End.Add(time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrAlreadyReturned)
	})

	t.Run("return before start rejected", func(t *testing.T) {
		f, recordID, p := setup(t)

		err := f.svc.Return(ctx, recordID, p.Start.Add(-time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrInvalidReturn)

		rec, err := f.stg.Rental(ctx, recordID)
		require.NoError(t, err)
		assert.False(t, rec.Returned)
	})

	t.Run("unknown record", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Return(ctx, "ghost", time.Now())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRentalService_Quote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addVehicle(t, car("v1"))
	f.addRenter(t, corporate("r1"))

	cost, err := f.svc.Quote(ctx, "v1", "r1", period(t, "2026-01-01 10:00", "2026-01-04 10:00"))
	require.NoError(t, err)
	assert.Equal(t, "127.50", cost.StringFixed(2))

	rentals, err := f.stg.Rentals(ctx)
	require.NoError(t, err)
	assert.Empty(t, rentals, "quoting must not create records")
}

func TestRentalService_Listings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addVehicle(t, car("v1"))
	truck := &domain.Vehicle{
		ID: "v2", Category: domain.CategoryTruck, Make: "Volvo", Model: "FH",
		Year: 2023, DailyRate: decimal.RequireFromString("100"), LoadTons: 3, Active: true,
	}
	f.addVehicle(t, truck)
	f.addRenter(t, corporate("r1"))

	p := period(t, "2026-01-01 00:00", "2026-01-03 00:00")
	recordID, _, err := f.svc.Rent(ctx, "v1", "r1", p)
	require.NoError(t, err)

	t.Run("available vehicles", func(t *testing.T) {
		available, err := f.svc.AvailableVehicles(ctx, p)
		require.NoError(t, err)
		require.Len(t, available, 1)
		assert.Equal(t, "v2", available[0].ID)
	})

	t.Run("rented vehicles over a period", func(t *testing.T) {
		rented, err := f.svc.RentedVehicles(ctx, p)
		require.NoError(t, err)
		require.Len(t, rented, 1)
		assert.Equal(t, "v1", rented[0].ID)

		later := period(t, "2026-01-03 00:00", "2026-01-05 00:00")
		none, err := f.svc.RentedVehicles(ctx, later)
		require.NoError(t, err)
		assert.Empty(t, none, "a period touching only the boundary does not count")
	})

	t.Run("filter by category", func(t *testing.T) {
		trucks, err := f.svc.FilterVehicles(ctx, VehicleFilter{Category: domain.CategoryTruck})
		require.NoError(t, err)
		require.Len(t, trucks, 1)
		assert.Equal(t, "v2", trucks[0].ID)
	})

	t.Run("filter by availability window", func(t *testing.T) {
		free, err := f.svc.FilterVehicles(ctx, VehicleFilter{Available: &p, OnlyActive: true})
		require.NoError(t, err)
		require.Len(t, free, 1)
		assert.Equal(t, "v2", free[0].ID, "the booked car drops out of the window")
	})

	t.Run("filter by make", func(t *testing.T) {
		volvos, err := f.svc.FilterVehicles(ctx, VehicleFilter{Make: "Volvo"})
		require.NoError(t, err)
		require.Len(t, volvos, 1)
		assert.Equal(t, "v2", volvos[0].ID)
	})

	t.Run("filter by rate cap", func(t *testing.T) {
		cheap, err := f.svc.FilterVehicles(ctx, VehicleFilter{MaxDailyRate: decimal.RequireFromString("60")})
		require.NoError(t, err)
		require.Len(t, cheap, 1)
		assert.Equal(t, "v1", cheap[0].ID)
	})

	t.Run("histories", func(t *testing.T) {
		byVehicle, err := f.svc.VehicleHistory(ctx, "v1")
		require.NoError(t, err)
		require.Len(t, byVehicle, 1)
		assert.Equal(t, recordID, byVehicle[0].ID)

		byRenter, err := f.svc.RenterHistory(ctx, "r1")
		require.NoError(t, err)
		require.Len(t, byRenter, 1)

		_, err = f.svc.VehicleHistory(ctx, "ghost")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("active and overdue", func(t *testing.T) {
		active, err := f.svc.ActiveRentals(ctx)
		require.NoError(t, err)
		assert.Len(t, active, 1)

		f.svc.timeNow = func() time.Time { return p.End.Add(time.Hour) }
		overdue, err := f.svc.OverdueRentals(ctx)
		require.NoError(t, err)
		require.Len(t, overdue, 1)
		assert.Equal(t, recordID, overdue[0].ID)

		require.NoError(t, f.svc.Return(ctx, recordID, p.End.Add(time.Hour)))
		overdue, err = f.svc.OverdueRentals(ctx)
		require.NoError(t, err)
		assert.Empty(t, overdue)
	})
}

func TestRentalService_Accounts(t *testing.T) {
	ctx := context.Background()

	t.Run("register renter hashes the credential", func(t *testing.T) {
		f := newFixture(t)
		r, err := f.svc.RegisterRenter(ctx, domain.KindIndividual, "Ada", "ada@example.com", "correct horse battery")
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID)
		assert.True(t, r.CheckPassword("correct horse battery"))

		assert.NoError(t, f.svc.Authenticate(ctx, r.ID, "correct horse battery"))
		assert.ErrorIs(t, f.svc.Authenticate(ctx, r.ID, "wrong"), apperrors.ErrPermission)
	})

	t.Run("register renter rejects weak input", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.RegisterRenter(ctx, domain.KindIndividual, "", "ada@example.com", "correct horse battery")
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = f.svc.RegisterRenter(ctx, domain.KindIndividual, "Ada", "nope", "correct horse battery")
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = f.svc.RegisterRenter(ctx, domain.KindIndividual, "Ada", "ada@example.com", "short")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("register vehicle validates category and rate", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.svc.RegisterVehicle(ctx, car("v1")))

		bad := car("v2")
		bad.Category = domain.Category("hovercraft")
		assert.ErrorIs(t, f.svc.RegisterVehicle(ctx, bad), apperrors.ErrValidation)

		negative := car("v3")
		negative.DailyRate = decimal.RequireFromString("-5")
		assert.ErrorIs(t, f.svc.RegisterVehicle(ctx, negative), apperrors.ErrValidation)
	})

	t.Run("profile update", func(t *testing.T) {
		f := newFixture(t)
		f.addRenter(t, individual("r1"))

		require.NoError(t, f.svc.UpdateRenterProfile(ctx, "r1", "Grace", "grace@example.com"))
		r, err := f.stg.Renter(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, "Grace", r.Name)
		assert.Equal(t, "grace@example.com", r.Contact)

		err = f.svc.UpdateRenterProfile(ctx, "r1", "", "not-an-email")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("password rotation", func(t *testing.T) {
		f := newFixture(t)
		r, err := f.svc.RegisterRenter(ctx, domain.KindIndividual, "Ada", "ada@example.com", "first password")
		require.NoError(t, err)

		err = f.svc.ChangeRenterPassword(ctx, r.ID, "wrong password", "second password")
		assert.ErrorIs(t, err, apperrors.ErrPermission)

		require.NoError(t, f.svc.ChangeRenterPassword(ctx, r.ID, "first password", "second password"))
		assert.NoError(t, f.svc.Authenticate(ctx, r.ID, "second password"))
	})

	t.Run("deactivation keeps history", func(t *testing.T) {
		f := newFixture(t)
		f.addVehicle(t, car("v1"))
		f.addRenter(t, corporate("r1"))

		recordID, _, err := f.svc.Rent(ctx, "v1", "r1", period(t, "2026-01-01 00:00", "2026-01-03 00:00"))
		require.NoError(t, err)

		require.NoError(t, f.svc.DeactivateRenter(ctx, "r1"))
		require.NoError(t, f.svc.DeactivateVehicle(ctx, "v1"))

		r, err := f.stg.Renter(ctx, "r1")
		require.NoError(t, err)
		assert.False(t, r.Active)
		assert.Contains(t, r.RentalIDs, recordID)

		_, _, err = f.svc.Rent(ctx, "v1", "r1", period(t, "2026-02-01 00:00", "2026-02-03 00:00"))
		assert.ErrorIs(t, err, apperrors.ErrPermission, "deactivated renter is refused first")
	})
}

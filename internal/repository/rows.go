// Package repository defines the row shapes shared by the SQL
// repositories and the conversion helpers back to domain types.
package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/rental/internal/domain"
)

// ErrObjectNotFound is the repository-level miss sentinel; the storage
// adapter maps it onto the domain error taxonomy.
var ErrObjectNotFound = errors.New("not found")

// VehicleRow mirrors the vehicles table. Money travels as text so the
// database never re-interprets the decimal representation.
type VehicleRow struct {
	ID        string  `db:"id"`
	Category  string  `db:"category"`
	Make      string  `db:"make"`
	Model     string  `db:"model"`
	Year      int     `db:"year"`
	DailyRate string  `db:"daily_rate"`
	Doors     int     `db:"doors"`
	EngineCC  int     `db:"engine_cc"`
	LoadTons  float64 `db:"load_tons"`
	Active    bool    `db:"active"`
}

type RenterRow struct {
	ID           string `db:"id"`
	Kind         string `db:"kind"`
	Name         string `db:"name"`
	Contact      string `db:"contact"`
	PasswordHash string `db:"password_hash"`
	Active       bool   `db:"active"`
}

type RentalRow struct {
	ID               string     `db:"id"`
	VehicleID        string     `db:"vehicle_id"`
	RenterID         string     `db:"renter_id"`
	PeriodStart      time.Time  `db:"period_start"`
	PeriodEnd        time.Time  `db:"period_end"`
	AgreedCost       string     `db:"agreed_cost"`
	Returned         bool       `db:"returned"`
	ActualReturnTime *time.Time `db:"actual_return_time"`
	CreatedAt        time.Time  `db:"created_at"`
}

func FromVehicle(v *domain.Vehicle) *VehicleRow {
	return &VehicleRow{
		ID:        v.ID,
		Category:  string(v.Category),
		Make:      v.Make,
		Model:     v.Model,
		Year:      v.Year,
		DailyRate: v.DailyRate.String(),
		Doors:     v.Doors,
		EngineCC:  v.EngineCC,
		LoadTons:  v.LoadTons,
		Active:    v.Active,
	}
}

func (row *VehicleRow) ToDomain(rentalIDs []string) (*domain.Vehicle, error) {
	rate, err := decimal.NewFromString(row.DailyRate)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s has malformed daily rate %q: %w", row.ID, row.DailyRate, err)
	}
	return &domain.Vehicle{
		ID:        row.ID,
		Category:  domain.Category(row.Category),
		Make:      row.Make,
		Model:     row.Model,
		Year:      row.Year,
		DailyRate: rate,
		Doors:     row.Doors,
		EngineCC:  row.EngineCC,
		LoadTons:  row.LoadTons,
		Active:    row.Active,
		RentalIDs: rentalIDs,
	}, nil
}

func FromRenter(r *domain.Renter) *RenterRow {
	return &RenterRow{
		ID:           r.ID,
		Kind:         string(r.Kind),
		Name:         r.Name,
		Contact:      r.Contact,
		PasswordHash: r.PasswordHash,
		Active:       r.Active,
	}
}

func (row *RenterRow) ToDomain(rentalIDs []string) *domain.Renter {
	return &domain.Renter{
		ID:           row.ID,
		Kind:         domain.Kind(row.Kind),
		Name:         row.Name,
		Contact:      row.Contact,
		PasswordHash: row.PasswordHash,
		Active:       row.Active,
		RentalIDs:    rentalIDs,
	}
}

func FromRental(rec *domain.RentalRecord) *RentalRow {
	return &RentalRow{
		ID:               rec.ID,
		VehicleID:        rec.VehicleID,
		RenterID:         rec.RenterID,
		PeriodStart:      rec.Period.Start,
		PeriodEnd:        rec.Period.End,
		AgreedCost:       rec.AgreedCost.String(),
		Returned:         rec.Returned,
		ActualReturnTime: rec.ActualReturnTime,
		CreatedAt:        rec.CreatedAt,
	}
}

func (row *RentalRow) ToDomain() (*domain.RentalRecord, error) {
	cost, err := decimal.NewFromString(row.AgreedCost)
	if err != nil {
		return nil, fmt.Errorf("rental %s has malformed cost %q: %w", row.ID, row.AgreedCost, err)
	}
	return &domain.RentalRecord{
		ID:               row.ID,
		VehicleID:        row.VehicleID,
		RenterID:         row.RenterID,
		Period:           domain.Period{Start: row.PeriodStart, End: row.PeriodEnd},
		AgreedCost:       cost,
		Returned:         row.Returned,
		ActualReturnTime: row.ActualReturnTime,
		CreatedAt:        row.CreatedAt,
	}, nil
}

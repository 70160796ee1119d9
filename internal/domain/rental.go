package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetops/rental/internal/apperrors"
)

// RentalRecord is the ledger entry for one rent/return transaction. It is
// the single source of truth: vehicles and renters only hold references to
// it. AgreedCost is computed once at rental time and never revised — a
// late return changes the derived overdue flag, not the bill. Records are
// never deleted.
type RentalRecord struct {
	ID         string          `json:"id"`
	VehicleID  string          `json:"vehicle_id"`
	RenterID   string          `json:"renter_id"`
	Period     Period          `json:"period"`
	AgreedCost decimal.Decimal `json:"agreed_cost"`

	Returned         bool       `json:"returned"`
	ActualReturnTime *time.Time `json:"actual_return_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// MarkReturned closes the record. It mutates Returned and
// ActualReturnTime exactly once; a second call fails with
// AlreadyReturnedError and leaves the record unchanged.
func (rec *RentalRecord) MarkReturned(at time.Time) error {
	if rec.Returned {
		return &apperrors.AlreadyReturnedError{RecordID: rec.ID}
	}
	if at.Before(rec.Period.Start) {
		return &apperrors.InvalidReturnError{RecordID: rec.ID, At: at}
	}
	at = at.UTC()
	rec.Returned = true
	rec.ActualReturnTime = &at
	return nil
}

// OverdueAt reports whether the record is unreturned past its period end.
func (rec *RentalRecord) OverdueAt(now time.Time) bool {
	return !rec.Returned && now.After(rec.Period.End)
}

// EntityID implements the record store key contract.
func (rec *RentalRecord) EntityID() string { return rec.ID }

// Clone returns a deep copy, including the return timestamp.
func (rec *RentalRecord) Clone() *RentalRecord {
	c := *rec
	if rec.ActualReturnTime != nil {
		at := *rec.ActualReturnTime
		c.ActualReturnTime = &at
	}
	return &c
}

// Deactivate is a no-op: the ledger is append-only and records are never
// removed or disabled.
func (rec *RentalRecord) Deactivate() {}

func (rec *RentalRecord) String() string {
	return fmt.Sprintf("rental %s: vehicle %s by %s over %s for %s",
		rec.ID, rec.VehicleID, rec.RenterID, rec.Period, rec.AgreedCost.StringFixed(2))
}

package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fleetops/rental/internal/apperrors"
)

// Category tags the vehicle variant. Pricing is dispatched on this tag.
type Category string

const (
	CategoryCar       Category = "car"
	CategoryMotorbike Category = "motorbike"
	CategoryTruck     Category = "truck"
)

// Pricing thresholds and fees. Door counts at or below SportsDoorMax take
// the sports surcharge, at or above LargeDoorMin the large-vehicle
// adjustment.
const (
	SportsDoorMax      = 2
	LargeDoorMin       = 5
	HighDisplacementCC = 250
	HeavyLoadTons      = 2.0
)

var (
	sportsSurcharge       = decimal.RequireFromString("1.10")
	largeAdjustment       = decimal.RequireFromString("0.95")
	displacementSurcharge = decimal.RequireFromString("1.15")
	heavyLoadSurcharge    = decimal.RequireFromString("1.20")

	// HelmetFeePerDay is added to the motorbike daily rate before any
	// surcharge. LogisticsFee is charged once per truck rental.
	HelmetFeePerDay = decimal.RequireFromString("5.00")
	LogisticsFee    = decimal.RequireFromString("20.00")
)

// Vehicle is a rentable fleet asset. Category-specific attributes are only
// meaningful for the matching category. RentalIDs are non-owning references
// into the rental ledger; the records themselves live in the rental store.
type Vehicle struct {
	ID        string          `json:"id"`
	Category  Category        `json:"category"`
	Make      string          `json:"make"`
	Model     string          `json:"model"`
	Year      int             `json:"year"`
	DailyRate decimal.Decimal `json:"daily_rate"`

	Doors    int     `json:"doors,omitempty"`
	EngineCC int     `json:"engine_cc,omitempty"`
	LoadTons float64 `json:"load_tons,omitempty"`

	Active    bool     `json:"active"`
	RentalIDs []string `json:"rental_ids"`
}

type pricingFunc func(v *Vehicle, days int) decimal.Decimal

// pricing maps each category to its subtotal rule. Adding a vehicle
// category means adding a tag and a table entry.
var pricing = map[Category]pricingFunc{
	CategoryCar:       priceCar,
	CategoryMotorbike: priceMotorbike,
	CategoryTruck:     priceTruck,
}

func priceCar(v *Vehicle, days int) decimal.Decimal {
	base := v.DailyRate.Mul(decimal.NewFromInt(int64(days)))
	switch {
	case v.Doors <= SportsDoorMax:
		base = base.Mul(sportsSurcharge)
	case v.Doors >= LargeDoorMin:
		base = base.Mul(largeAdjustment)
	}
	return base
}

func priceMotorbike(v *Vehicle, days int) decimal.Decimal {
	base := v.DailyRate.Add(HelmetFeePerDay).Mul(decimal.NewFromInt(int64(days)))
	if v.EngineCC > HighDisplacementCC {
		base = base.Mul(displacementSurcharge)
	}
	return base
}

func priceTruck(v *Vehicle, days int) decimal.Decimal {
	base := v.DailyRate.Mul(decimal.NewFromInt(int64(days)))
	if v.LoadTons > HeavyLoadTons {
		base = base.Mul(heavyLoadSurcharge)
	}
	return base.Add(LogisticsFee)
}

// KnownCategory reports whether the category has a pricing rule.
func KnownCategory(c Category) bool {
	_, ok := pricing[c]
	return ok
}

// Quote computes the rental cost for a period: the category subtotal with
// surcharges and fees, multiplied by the renter discount, rounded to two
// decimal places.
func (v *Vehicle) Quote(period Period, discount decimal.Decimal) (decimal.Decimal, error) {
	price, ok := pricing[v.Category]
	if !ok {
		return decimal.Zero, &apperrors.ValidationError{
			Field:  "category",
			Reason: fmt.Sprintf("has no pricing rule: %q", v.Category),
		}
	}
	return price(v, period.Days()).Mul(discount).Round(2), nil
}

// AvailableFor reports whether no unreturned record in the vehicle's
// history overlaps the requested period. The caller resolves the records
// from the ledger; an empty history is trivially available.
func (v *Vehicle) AvailableFor(period Period, history []*RentalRecord) bool {
	for _, rec := range history {
		if rec == nil || rec.VehicleID != v.ID {
			continue
		}
		if !rec.Returned && rec.Period.Overlaps(period) {
			return false
		}
	}
	return true
}

// AddRentalRef appends a ledger reference to the vehicle's history.
func (v *Vehicle) AddRentalRef(recordID string) {
	v.RentalIDs = append(v.RentalIDs, recordID)
}

// EntityID implements the record store key contract.
func (v *Vehicle) EntityID() string { return v.ID }

// Clone returns a deep copy. The history slice is not shared, so callers
// may append references without affecting the original.
func (v *Vehicle) Clone() *Vehicle {
	c := *v
	c.RentalIDs = append([]string(nil), v.RentalIDs...)
	return &c
}

// Deactivate soft-removes the vehicle. History references stay resolvable.
func (v *Vehicle) Deactivate() { v.Active = false }

func (v *Vehicle) String() string {
	return fmt.Sprintf("%s %d %s %s (%s) - %s/day",
		v.Category, v.Year, v.Make, v.Model, v.ID, v.DailyRate.StringFixed(2))
}

package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetops/rental/internal/apperrors"
)

// Kind tags the renter variant. Discount policy and rental permission are
// dispatched on this tag.
type Kind string

const (
	KindCorporate  Kind = "corporate"
	KindIndividual Kind = "individual"
	KindStaff      Kind = "staff"
)

// LongRentalDays is the duration at which individual renters start
// receiving a discount.
const LongRentalDays = 7

// MinPasswordLen is the minimum accepted credential length.
const MinPasswordLen = 8

var (
	corporateFactor  = decimal.RequireFromString("0.85")
	individualFactor = decimal.RequireFromString("0.90")
	noDiscount       = decimal.NewFromInt(1)
)

var validate = validator.New()

// Renter is an account holder. PasswordHash is an opaque bcrypt digest,
// compared but never exposed. RentalIDs are non-owning references into the
// rental ledger.
type Renter struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"kind"`
	Name         string `json:"name"`
	Contact      string `json:"contact"`
	PasswordHash string `json:"password_hash"`

	Active    bool     `json:"active"`
	RentalIDs []string `json:"rental_ids"`
}

type discountFunc func(days int) decimal.Decimal

// discounts maps each renter kind to its policy. Staff never rent, so
// their entry is the identity factor; the transaction service refuses them
// before pricing ever runs.
var discounts = map[Kind]discountFunc{
	KindCorporate:  func(int) decimal.Decimal { return corporateFactor },
	KindIndividual: individualDiscount,
	KindStaff:      func(int) decimal.Decimal { return noDiscount },
}

func individualDiscount(days int) decimal.Decimal {
	if days >= LongRentalDays {
		return individualFactor
	}
	return noDiscount
}

// DiscountFactor returns the cost multiplier for a rental of the given
// duration in days.
func (r *Renter) DiscountFactor(days int) decimal.Decimal {
	if f, ok := discounts[r.Kind]; ok {
		return f(days)
	}
	return noDiscount
}

// CanRent reports whether this renter kind may appear on a rental record.
// False only for staff.
func (r *Renter) CanRent() bool { return r.Kind != KindStaff }

// SetName updates the display name.
func (r *Renter) SetName(name string) error {
	if err := validate.Var(name, "required"); err != nil {
		return &apperrors.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	r.Name = name
	return nil
}

// SetContact updates the contact address, which must be email-shaped.
func (r *Renter) SetContact(contact string) error {
	if err := validate.Var(contact, "required,email"); err != nil {
		return &apperrors.ValidationError{Field: "contact", Reason: "must be a valid email address"}
	}
	r.Contact = contact
	return nil
}

// SetPassword hashes and stores a new credential after a minimum-strength
// check. The plaintext is never retained.
func (r *Renter) SetPassword(password string) error {
	if len(password) < MinPasswordLen {
		return &apperrors.ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be at least %d characters", MinPasswordLen),
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	r.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a candidate credential against the stored hash.
func (r *Renter) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(r.PasswordHash), []byte(password)) == nil
}

// AddRentalRef appends a ledger reference to the renter's history.
func (r *Renter) AddRentalRef(recordID string) {
	r.RentalIDs = append(r.RentalIDs, recordID)
}

// EntityID implements the record store key contract.
func (r *Renter) EntityID() string { return r.ID }

// Clone returns a deep copy with its own history slice.
func (r *Renter) Clone() *Renter {
	c := *r
	c.RentalIDs = append([]string(nil), r.RentalIDs...)
	return &c
}

// Deactivate soft-disables the account. Ledger back-references to the id
// must remain resolvable, so accounts are never deleted.
func (r *Renter) Deactivate() { r.Active = false }

func (r *Renter) String() string {
	return fmt.Sprintf("%s renter %s (%s)", r.Kind, r.Name, r.ID)
}

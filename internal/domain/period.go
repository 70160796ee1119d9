package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/fleetops/rental/internal/apperrors"
)

// PeriodLayout is the external string representation of period bounds.
const PeriodLayout = "2006-01-02 15:04"

// Period is a half-open time interval [Start, End). End is strictly after
// Start; a zero-length period is rejected. Immutable once constructed.
type Period struct {
	Start time.Time `json:"start" db:"period_start"`
	End   time.Time `json:"end" db:"period_end"`
}

// NewPeriod builds a period from already-parsed bounds.
func NewPeriod(start, end time.Time) (Period, error) {
	if !end.After(start) {
		return Period{}, &apperrors.RangeError{Start: start, End: end}
	}
	return Period{Start: start.UTC(), End: end.UTC()}, nil
}

// ParsePeriod builds a period from external strings in PeriodLayout.
func ParsePeriod(startStr, endStr string) (Period, error) {
	start, err := time.Parse(PeriodLayout, startStr)
	if err != nil {
		return Period{}, &apperrors.FormatError{Field: "start", Input: startStr}
	}
	end, err := time.Parse(PeriodLayout, endStr)
	if err != nil {
		return Period{}, &apperrors.FormatError{Field: "end", Input: endStr}
	}
	return NewPeriod(start, end)
}

// Days returns the billing duration: the span rounded up to whole days,
// never less than one.
func (p Period) Days() int {
	days := int(math.Ceil(p.End.Sub(p.Start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// Overlaps reports whether two periods share interior time. Periods that
// only touch at a boundary do not overlap.
func (p Period) Overlaps(other Period) bool {
	return p.Start.Before(other.End) && other.Start.Before(p.End)
}

// Contains reports whether t falls inside the half-open interval.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s -> %s", p.Start.Format(PeriodLayout), p.End.Format(PeriodLayout))
}

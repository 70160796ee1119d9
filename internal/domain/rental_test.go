package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/rental/internal/apperrors"
)

func TestRentalRecordMarkReturned(t *testing.T) {
	period := mustPeriod(t, "2026-01-01 10:00", "2026-01-03 10:00")

	newRecord := func() *RentalRecord {
		return &RentalRecord{ID: "rec-1", VehicleID: "v1", RenterID: "r1", Period: period}
	}

	t.Run("on time return", func(t *testing.T) {
		rec := newRecord()
		at := period.End.Add(-time.Hour)

		require.NoError(t, rec.MarkReturned(at))
		assert.True(t, rec.Returned)
		require.NotNil(t, rec.ActualReturnTime)
		assert.True(t, rec.ActualReturnTime.Equal(at))
	})

	t.Run("late return is accepted", func(t *testing.T) {
		rec := newRecord()
		require.NoError(t, rec.MarkReturned(period.End.Add(48*time.Hour)))
		assert.True(t, rec.Returned)
	})

	t.Run("second return rejected without mutation", func(t *testing.T) {
		rec := newRecord()
		first := period.End.Add(-time.Hour)
		require.NoError(t, rec.MarkReturned(first))

		err := rec.MarkReturned(period.End)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyReturned)
		assert.True(t, rec.ActualReturnTime.Equal(first), "first return time must survive")
	})

	t.Run("return before period start rejected", func(t *testing.T) {
		rec := newRecord()
		err := rec.MarkReturned(period.Start.Add(-time.Minute))
		assert.ErrorIs(t, err, apperrors.ErrInvalidReturn)
		assert.False(t, rec.Returned)
		assert.Nil(t, rec.ActualReturnTime)
	})
}

func TestRentalRecordOverdueAt(t *testing.T) {
	period := mustPeriod(t, "2026-01-01 10:00", "2026-01-03 10:00")
	rec := &RentalRecord{ID: "rec-1", Period: period}

	assert.False(t, rec.OverdueAt(period.End), "not overdue at the deadline itself")
	assert.True(t, rec.OverdueAt(period.End.Add(time.Minute)))

	require.NoError(t, rec.MarkReturned(period.End.Add(time.Hour)))
	assert.False(t, rec.OverdueAt(period.End.Add(48*time.Hour)), "returned records are never overdue")
}

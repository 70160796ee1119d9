package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetops/rental/internal/apperrors"
)

func mustPeriod(t *testing.T, start, end string) Period {
	t.Helper()
	p, err := ParsePeriod(start, end)
	require.NoError(t, err)
	return p
}

func TestNewPeriod(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("valid range", func(t *testing.T) {
		p, err := NewPeriod(start, start.Add(24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, start, p.Start)
	})

	t.Run("end equal to start rejected", func(t *testing.T) {
		_, err := NewPeriod(start, start)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRange)
	})

	t.Run("end before start rejected", func(t *testing.T) {
		_, err := NewPeriod(start, start.Add(-time.Minute))
		assert.ErrorIs(t, err, apperrors.ErrInvalidRange)

		var rangeErr *apperrors.RangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, start, rangeErr.Start)
	})

	t.Run("bounds normalized to UTC", func(t *testing.T) {
		loc := time.FixedZone("UTC+3", 3*60*60)
		p, err := NewPeriod(start.In(loc), start.Add(time.Hour).In(loc))
		require.NoError(t, err)
		assert.Equal(t, time.UTC, p.Start.Location())
		assert.True(t, p.Start.Equal(start))
	})
}

func TestParsePeriod(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		p := mustPeriod(t, "2026-01-01 10:00", "2026-01-03 10:00")
		assert.Equal(t, 2, p.Days())
	})

	t.Run("malformed start", func(t *testing.T) {
		_, err := ParsePeriod("01-01-2026 10:00", "2026-01-03 10:00")
		assert.ErrorIs(t, err, apperrors.ErrFormat)

		var formatErr *apperrors.FormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, "start", formatErr.Field)
	})

	t.Run("malformed end", func(t *testing.T) {
		_, err := ParsePeriod("2026-01-01 10:00", "garbage")
		var formatErr *apperrors.FormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, "end", formatErr.Field)
	})
}

func TestPeriodDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"exactly one day", "2026-01-01 10:00", "2026-01-02 10:00", 1},
		{"one minute over rounds up", "2026-01-01 10:00", "2026-01-02 10:01", 2},
		{"half an hour bills one day", "2026-01-01 10:00", "2026-01-01 10:30", 1},
		{"exactly one week", "2026-01-01 00:00", "2026-01-08 00:00", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustPeriod(t, tt.start, tt.end).Days())
		})
	}
}

func TestPeriodOverlaps(t *testing.T) {
	a := mustPeriod(t, "2026-01-01 00:00", "2026-01-03 00:00")

	t.Run("interior overlap", func(t *testing.T) {
		b := mustPeriod(t, "2026-01-02 00:00", "2026-01-04 00:00")
		assert.True(t, a.Overlaps(b))
		assert.True(t, b.Overlaps(a), "overlap must be symmetric")
	})

	t.Run("touching at boundary does not overlap", func(t *testing.T) {
		b := mustPeriod(t, "2026-01-03 00:00", "2026-01-05 00:00")
		assert.False(t, a.Overlaps(b))
		assert.False(t, b.Overlaps(a))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		b := mustPeriod(t, "2026-01-01 12:00", "2026-01-02 12:00")
		assert.True(t, a.Overlaps(b))
		assert.True(t, b.Overlaps(a))
	})

	t.Run("disjoint", func(t *testing.T) {
		b := mustPeriod(t, "2026-02-01 00:00", "2026-02-02 00:00")
		assert.False(t, a.Overlaps(b))
	})
}

func TestPeriodContains(t *testing.T) {
	p := mustPeriod(t, "2026-01-01 00:00", "2026-01-03 00:00")

	assert.True(t, p.Contains(p.Start), "start is inside the half-open interval")
	assert.False(t, p.Contains(p.End), "end is outside the half-open interval")
	assert.True(t, p.Contains(p.Start.Add(24*time.Hour)))
	assert.False(t, p.Contains(p.Start.Add(-time.Minute)))
}

package finance

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduleClosesBalance проверяет, что график гасит весь долг.
func TestScheduleClosesBalance(t *testing.T) {
	entries, err := Schedule(500000, 8.5, 5)
	require.NoError(t, err)
	require.Len(t, entries, 60)

	first := entries[0]
	assert.Equal(t, 1, first.Month)
	// 500000 * 8.5 / 1200
	assert.True(t, first.Interest.Equal(decimal.RequireFromString("3541.67")), "got %s", first.Interest)
	assert.True(t, first.Payment.Sub(decimal.NewFromFloat(10258.27)).Abs().LessThan(decimal.NewFromFloat(0.01)))

	last := entries[len(entries)-1]
	assert.True(t, last.RemainingBalance.IsZero(), "got %s", last.RemainingBalance)

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.Principal)
	}
	assert.True(t, total.Equal(decimal.NewFromInt(500000)), "got %s", total)
}

// TestScheduleZeroRate проверяет равные доли без процентов.
func TestScheduleZeroRate(t *testing.T) {
	entries, err := Schedule(1200, 0, 1)
	require.NoError(t, err)
	require.Len(t, entries, 12)

	for _, entry := range entries {
		assert.True(t, entry.Interest.IsZero())
		assert.True(t, entry.Payment.Equal(decimal.NewFromInt(100)), "got %s", entry.Payment)
	}
}

// TestScheduleInvalidInput проверяет передачу ошибки валидации.
func TestScheduleInvalidInput(t *testing.T) {
	_, err := Schedule(1000, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestScheduleRejectsLongTenure проверяет, что график не строится для срока сверх предела.
func TestScheduleRejectsLongTenure(t *testing.T) {
	for _, years := range []int{MaxTenureYears + 1, 100000, math.MaxInt / 6} {
		entries, err := Schedule(1000, 5, years)
		assert.ErrorIs(t, err, ErrInvalidInput, "years=%v", years)
		assert.Nil(t, entries)
	}
}

// TestScheduleMaxTenure проверяет закрытие баланса на предельном сроке.
func TestScheduleMaxTenure(t *testing.T) {
	entries, err := Schedule(500000, 8.5, MaxTenureYears)
	require.NoError(t, err)

	require.Len(t, entries, MaxTenureYears*12)
	assert.True(t, entries[len(entries)-1].RemainingBalance.IsZero())
}

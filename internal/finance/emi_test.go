package finance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeEMIReference сверяет платеж с эталонным калькулятором.
func TestComputeEMIReference(t *testing.T) {
	result, err := ComputeEMI(500000, 8.5, 5)
	require.NoError(t, err)

	assert.Equal(t, 60, result.TenureMonths)
	assert.InDelta(t, 10258.70, result.MonthlyEMI, 0.5)
	assert.InDelta(t, result.MonthlyEMI*60, result.TotalPayment, 1e-6)
	assert.InDelta(t, result.TotalPayment-500000, result.TotalInterest, 1e-6)
}

// TestComputeEMIZeroRate проверяет вырожденный случай без процентов.
func TestComputeEMIZeroRate(t *testing.T) {
	result, err := ComputeEMI(120000, 0, 5)
	require.NoError(t, err)

	assert.Equal(t, 2000.0, result.MonthlyEMI)
	assert.Equal(t, 120000.0, result.TotalPayment)
	assert.Equal(t, 0.0, result.TotalInterest)
}

// TestComputeEMITotalPaymentCoversPrincipal проверяет, что проценты неотрицательны.
func TestComputeEMITotalPaymentCoversPrincipal(t *testing.T) {
	principals := []float64{1, 1500.5, 250000, 9_999_999}
	rates := []float64{0, 0.5, 8.5, 18, 36}
	tenures := []int{1, 3, 10, 30}

	for _, p := range principals {
		for _, r := range rates {
			for _, years := range tenures {
				result, err := ComputeEMI(p, r, years)
				require.NoError(t, err)

				if r == 0 {
					assert.Equal(t, p, result.TotalPayment)
					continue
				}
				assert.Greater(t, result.TotalPayment, p, "p=%v r=%v t=%v", p, r, years)
				eps := 1e-9 * result.TotalPayment
				assert.InDelta(t, result.MonthlyEMI*float64(result.TenureMonths), result.TotalPayment, eps)
			}
		}
	}
}

// TestComputeEMIInvalidInput проверяет структурированные ошибки валидации.
func TestComputeEMIInvalidInput(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		tenure    int
		field     string
	}{
		{"zero principal", 0, 8, 5, "principal"},
		{"negative principal", -1, 8, 5, "principal"},
		{"nan principal", math.NaN(), 8, 5, "principal"},
		{"negative rate", 1000, -0.1, 5, "annual_rate_percent"},
		{"infinite rate", 1000, math.Inf(1), 5, "annual_rate_percent"},
		{"zero tenure", 1000, 8, 0, "tenure_years"},
		{"negative tenure", 1000, 8, -3, "tenure_years"},
		{"tenure above limit", 1000, 8, MaxTenureYears + 1, "tenure_years"},
		{"very long tenure", 500000, 8.5, 9000, "tenure_years"},
		{"overflowing tenure", 1000, 5, math.MaxInt / 6, "tenure_years"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeEMI(tc.principal, tc.rate, tc.tenure)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var financeErr *Error
			require.True(t, errors.As(err, &financeErr))
			assert.Equal(t, tc.field, financeErr.Field)
			assert.Equal(t, "invalid_input", financeErr.KindName())
		})
	}
}

// TestComputeEMITinyRate проверяет, что ставка у нуля дает платеж около P/n, а не Inf.
func TestComputeEMITinyRate(t *testing.T) {
	const principal = 500000.0
	floor := principal / 60

	for _, rate := range []float64{1e-6, 1e-9, 1e-11, 1e-15, 1e-17, 1e-300} {
		result, err := ComputeEMI(principal, rate, 5)
		require.NoError(t, err, "rate=%v", rate)

		assert.False(t, math.IsInf(result.MonthlyEMI, 0) || math.IsNaN(result.MonthlyEMI), "rate=%v", rate)
		assert.GreaterOrEqual(t, result.MonthlyEMI, floor, "rate=%v", rate)
		assert.InDelta(t, floor, result.MonthlyEMI, 0.01, "rate=%v", rate)
		assert.GreaterOrEqual(t, result.TotalPayment, principal, "rate=%v", rate)
		assert.GreaterOrEqual(t, result.TotalInterest, 0.0, "rate=%v", rate)
	}
}

// TestComputeEMIMaxTenure проверяет расчет на предельном сроке.
func TestComputeEMIMaxTenure(t *testing.T) {
	result, err := ComputeEMI(500000, 8.5, MaxTenureYears)
	require.NoError(t, err)

	assert.Equal(t, MaxTenureYears*12, result.TenureMonths)
	assert.InDelta(t, 3593.70, result.MonthlyEMI, 0.01)
	assert.Greater(t, result.TotalPayment, 500000.0)
}

// TestComputeEMIMonotonicInRate проверяет, что платеж не убывает с ростом ставки,
// включая ставки у машинного нуля.
func TestComputeEMIMonotonicInRate(t *testing.T) {
	rates := []float64{0, 1e-17, 1e-14, 1e-11, 1e-8, 1e-5, 0.01, 0.5, 3, 8.5, 24, 120, 1000}
	for _, years := range []int{1, 5, 25, MaxTenureYears} {
		previous := 0.0
		for _, rate := range rates {
			result, err := ComputeEMI(250000, rate, years)
			require.NoError(t, err, "rate=%v years=%v", rate, years)

			assert.GreaterOrEqual(t, result.MonthlyEMI, previous, "rate=%v years=%v", rate, years)
			assert.GreaterOrEqual(t, result.TotalPayment, 250000.0, "rate=%v years=%v", rate, years)
			previous = result.MonthlyEMI
		}
	}
}

// TestComputeEMINonFinitePayment проверяет, что переполнение платежа не уходит дальше как Inf.
func TestComputeEMINonFinitePayment(t *testing.T) {
	_, err := ComputeEMI(1e6, 1e306, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStressTestShocksAreIndependent проверяет, что каждый шок считается от базовой ставки.
func TestStressTestShocksAreIndependent(t *testing.T) {
	loan := LoanRequest{Principal: 500000, AnnualRatePercent: 8.5}
	income := IncomeProfile{MonthlySalary: 50000, MonthlyExpenses: 20000}

	results, err := StressTest(DefaultPolicy(), loan, income, []float64{1, 2}, 5)
	require.NoError(t, err)
	require.Len(t, results, 2)

	base, err := ComputeEMI(500000, 8.5, 5)
	require.NoError(t, err)
	direct, err := ComputeEMI(500000, 10.5, 5)
	require.NoError(t, err)

	assert.Equal(t, 9.5, results[0].ShockedRatePercent)
	assert.Equal(t, 10.5, results[1].ShockedRatePercent)
	assert.Equal(t, direct.MonthlyEMI, results[1].ShockedEMI.MonthlyEMI)
	assert.InDelta(t, direct.MonthlyEMI-base.MonthlyEMI, results[1].DeltaEMI, 1e-9)

	for _, result := range results {
		assert.GreaterOrEqual(t, result.DeltaEMI, 0.0)
		assert.Equal(t, result.ShockedEMI.MonthlyEMI, result.DeltaAffordability.MonthlyEMI)
	}
}

// TestStressTestDefaultShocks проверяет шоки из политики.
func TestStressTestDefaultShocks(t *testing.T) {
	loan := LoanRequest{Principal: 100000, AnnualRatePercent: 0}
	results, err := StressTest(DefaultPolicy(), loan, IncomeProfile{MonthlySalary: 10000}, nil, 3)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 1.0, results[0].ShockPercent)
	assert.Equal(t, 2.0, results[1].ShockPercent)
	assert.Greater(t, results[0].DeltaEMI, 0.0)
	assert.Greater(t, results[1].DeltaEMI, results[0].DeltaEMI)
}

// TestStressTestDeltaNonNegative проверяет инвариант по множеству ставок и шоков.
func TestStressTestDeltaNonNegative(t *testing.T) {
	income := IncomeProfile{MonthlySalary: 80000, MonthlyExpenses: 30000}
	for _, rate := range []float64{0, 1, 7.25, 15} {
		for _, tenure := range []int{1, 5, 20} {
			loan := LoanRequest{Principal: 750000, AnnualRatePercent: rate}
			results, err := StressTest(DefaultPolicy(), loan, income, []float64{0.25, 1, 3, 10}, tenure)
			require.NoError(t, err)
			for _, result := range results {
				assert.GreaterOrEqual(t, result.DeltaEMI, 0.0, "rate=%v tenure=%v shock=%v", rate, tenure, result.ShockPercent)
			}
		}
	}
}

// TestStressTestRateCutBelowZero проверяет отказ при отрицательной итоговой ставке.
func TestStressTestRateCutBelowZero(t *testing.T) {
	loan := LoanRequest{Principal: 1000, AnnualRatePercent: 1}
	_, err := StressTest(DefaultPolicy(), loan, IncomeProfile{MonthlySalary: 1000}, []float64{-2}, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestStressTestInvalidBase проверяет, что ошибка базового расчета не глотается.
func TestStressTestInvalidBase(t *testing.T) {
	_, err := StressTest(DefaultPolicy(), LoanRequest{Principal: 0, AnnualRatePercent: 5}, IncomeProfile{MonthlySalary: 1}, nil, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestStressTestTinyShockOnZeroRate проверяет малые шоки от нулевой ставки.
func TestStressTestTinyShockOnZeroRate(t *testing.T) {
	loan := LoanRequest{Principal: 500000, AnnualRatePercent: 0}
	income := IncomeProfile{MonthlySalary: 50000, MonthlyExpenses: 10000}

	results, err := StressTest(DefaultPolicy(), loan, income, []float64{1e-9, 1e-11, 1e-17}, 5)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, result := range results {
		assert.GreaterOrEqual(t, result.DeltaEMI, 0.0, "shock=%v", result.ShockPercent)
		assert.GreaterOrEqual(t, result.ShockedEMI.TotalPayment, 500000.0, "shock=%v", result.ShockPercent)
	}
}

package finance

import "fmt"

// StressTest пересчитывает платеж и доступность для каждого шока ставки.
// Каждый шок задает абсолютную надбавку к базовой ставке, шоки не накапливаются.
// nil вместо списка шоков означает шоки из политики.
func StressTest(policy Policy, loan LoanRequest, income IncomeProfile, shocks []float64, baseTenure int) ([]StressResult, error) {
	base, err := ComputeEMI(loan.Principal, loan.AnnualRatePercent, baseTenure)
	if err != nil {
		return nil, err
	}
	return stressFromBase(policy, base, income, policy.shocksOrDefault(shocks))
}

func stressFromBase(policy Policy, base EMIResult, income IncomeProfile, shocks []float64) ([]StressResult, error) {
	results := make([]StressResult, 0, len(shocks))
	for i, shock := range shocks {
		field := fmt.Sprintf("shocks[%d]", i)
		if !isFinite(shock) {
			return nil, invalidInput(field, "must be a finite number")
		}

		shockedRate := base.AnnualRatePercent + shock
		if shockedRate < 0 {
			return nil, invalidInput(field, "shocked rate must not be negative")
		}

		shocked, err := ComputeEMI(base.Principal, shockedRate, base.TenureYears)
		if err != nil {
			return nil, err
		}

		delta := shocked.MonthlyEMI - base.MonthlyEMI
		if shock > 0 && delta < 0 {
			return nil, invariantViolation(field, fmt.Sprintf("negative emi delta %g for positive shock %g", delta, shock))
		}

		assessment, err := AssessAffordability(policy, income, shocked)
		if err != nil {
			return nil, err
		}

		results = append(results, StressResult{
			ShockPercent:       shock,
			ShockedRatePercent: shockedRate,
			ShockedEMI:         shocked,
			DeltaEMI:           delta,
			DeltaAffordability: assessment,
		})
	}
	return results, nil
}

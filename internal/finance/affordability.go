package finance

import "math"

const (
	RuleDisposableNonNegative = "disposable_income_non_negative"
	RuleRatioHigh             = "emi_ratio_high"
	RuleRatioModerate         = "emi_ratio_moderate"
	RuleWithinPolicy          = "within_policy"
)

// EMIToIncomeRatio делит платеж на доход. Для нулевого дохода возвращает
// ErrDivisionUndefined.
func EMIToIncomeRatio(monthlySalary, monthlyEMI float64) (float64, error) {
	if monthlySalary == 0 {
		return math.Inf(1), &Error{Kind: ErrDivisionUndefined, Field: "monthly_salary", Message: "salary is zero"}
	}
	return monthlyEMI / monthlySalary, nil
}

// AssessAffordability классифицирует риск по цепочке правил сверху вниз.
// Побеждает первое непройденное правило, но в трассу попадают все правила.
//
// Нулевой доход: отношение считается бесконечным, оба правила по отношению
// не пройдены, а итоговая категория SEVERE.
func AssessAffordability(policy Policy, income IncomeProfile, emi EMIResult) (AffordabilityAssessment, error) {
	if !isFinite(income.MonthlySalary) || income.MonthlySalary < 0 {
		return AffordabilityAssessment{}, invalidInput("monthly_salary", "must not be negative")
	}
	if !isFinite(income.MonthlyExpenses) || income.MonthlyExpenses < 0 {
		return AffordabilityAssessment{}, invalidInput("monthly_expenses", "must not be negative")
	}
	if !isFinite(emi.MonthlyEMI) || emi.MonthlyEMI < 0 {
		return AffordabilityAssessment{}, invalidInput("monthly_emi", "must not be negative")
	}

	disposable := income.MonthlySalary - income.MonthlyExpenses - emi.MonthlyEMI

	ratioDefined := true
	ratio, err := EMIToIncomeRatio(income.MonthlySalary, emi.MonthlyEMI)
	if err != nil {
		ratioDefined = false
	}

	disposablePercent := 0.0
	if ratioDefined {
		disposablePercent = disposable / income.MonthlySalary * 100
	}

	rules := []RuleOutcome{
		{
			Rule:       RuleDisposableNonNegative,
			Threshold:  0,
			Observed:   disposable,
			Passed:     disposable >= 0,
			BandOnFail: RiskSevere,
		},
		{
			Rule:       RuleRatioHigh,
			Threshold:  policy.HighRatio,
			Observed:   ratio,
			Passed:     ratioDefined && ratio <= policy.HighRatio,
			BandOnFail: RiskHigh,
		},
		{
			Rule:       RuleRatioModerate,
			Threshold:  policy.ModerateRatio,
			Observed:   ratio,
			Passed:     ratioDefined && ratio <= policy.ModerateRatio,
			BandOnFail: RiskModerate,
		},
	}

	band := RiskLow
	decisive := RuleWithinPolicy
	for _, rule := range rules {
		if !rule.Passed {
			band = rule.BandOnFail
			decisive = rule.Rule
			break
		}
	}
	if !ratioDefined {
		band = RiskSevere
		if decisive != RuleDisposableNonNegative {
			decisive = RuleRatioHigh
		}
	}

	return AffordabilityAssessment{
		MonthlySalary:     income.MonthlySalary,
		MonthlyExpenses:   income.MonthlyExpenses,
		MonthlyEMI:        emi.MonthlyEMI,
		DisposableIncome:  disposable,
		DisposablePercent: disposablePercent,
		EMIToIncomeRatio:  ratio,
		RatioDefined:      ratioDefined,
		RiskBand:          band,
		DecisiveRule:      decisive,
		TriggeredRules:    rules,
	}, nil
}

package finance

import (
	"fmt"
	"math"
)

const monthsPerYear = 12

// MaxTenureYears ограничивает срок кредита в годах.
const MaxTenureYears = 50

// ComputeEMI считает аннуитетный платеж по стандартной формуле.
//
//	r   = annualRatePercent / 1200
//	n   = tenureYears * 12
//	emi = P * r / (1 - (1+r)^-n)
//
// Знаменатель считается через Expm1 и Log1p, иначе при малой ставке
// (1+r)^n - 1 теряет точность, а при большом n переполняется.
// При нулевой ставке платеж равен P / n. Округление не выполняется.
func ComputeEMI(principal, annualRatePercent float64, tenureYears int) (EMIResult, error) {
	if !isFinite(principal) || principal <= 0 {
		return EMIResult{}, invalidInput("principal", "must be greater than 0")
	}
	if !isFinite(annualRatePercent) || annualRatePercent < 0 {
		return EMIResult{}, invalidInput("annual_rate_percent", "must not be negative")
	}
	if tenureYears <= 0 {
		return EMIResult{}, invalidInput("tenure_years", "must be greater than 0")
	}
	if tenureYears > MaxTenureYears {
		return EMIResult{}, invalidInput("tenure_years", fmt.Sprintf("must not exceed %d", MaxTenureYears))
	}

	months := tenureYears * monthsPerYear
	n := float64(months)
	floor := principal / n

	emi := floor
	if r := annualRatePercent / 1200; r > 0 {
		emi = principal * r / -math.Expm1(-n*math.Log1p(r))
		// при r, сравнимом с машинным эпсилоном, результат может уйти на ulp ниже P/n
		if emi < floor {
			emi = floor
		}
	}

	total := emi * n
	if annualRatePercent == 0 || total < principal {
		// P/n*n can drift by an ulp.
		total = principal
	}
	interest := total - principal

	if !isFinite(emi) || !isFinite(total) {
		return EMIResult{}, invariantViolation("monthly_emi", fmt.Sprintf("non-finite payment for principal %g at %g%%", principal, annualRatePercent))
	}

	return EMIResult{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TenureYears:       tenureYears,
		TenureMonths:      months,
		MonthlyEMI:        emi,
		TotalPayment:      total,
		TotalInterest:     interest,
	}, nil
}

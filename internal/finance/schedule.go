package finance

import "github.com/shopspring/decimal"

// ScheduleEntry описывает один месяц графика погашения, в валютных единицах с двумя знаками.
type ScheduleEntry struct {
	Month            int             `json:"month"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Schedule строит помесячный график для фиксированной ставки.
// Платеж берется из ComputeEMI и округляется до копеек; последний месяц
// закрывает остаток целиком, чтобы баланс сошелся в ноль.
func Schedule(principal, annualRatePercent float64, tenureYears int) ([]ScheduleEntry, error) {
	emi, err := ComputeEMI(principal, annualRatePercent, tenureYears)
	if err != nil {
		return nil, err
	}

	payment := decimal.NewFromFloat(emi.MonthlyEMI).Round(2)
	monthlyRate := decimal.NewFromFloat(annualRatePercent).Div(decimal.NewFromInt(1200))
	remaining := decimal.NewFromFloat(principal).Round(2)

	entries := make([]ScheduleEntry, 0, emi.TenureMonths)
	for month := 1; month <= emi.TenureMonths; month++ {
		interest := remaining.Mul(monthlyRate).Round(2)
		principalPart := payment.Sub(interest)

		if month == emi.TenureMonths || principalPart.GreaterThan(remaining) {
			principalPart = remaining
		}

		remaining = remaining.Sub(principalPart)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		entries = append(entries, ScheduleEntry{
			Month:            month,
			Payment:          principalPart.Add(interest),
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		})
	}

	return entries, nil
}

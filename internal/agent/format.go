package agent

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

const currencySymbol = "₹"

var bandMarkers = map[finance.RiskBand]string{
	finance.RiskLow:      "🟢",
	finance.RiskModerate: "🟡",
	finance.RiskHigh:     "🟠",
	finance.RiskSevere:   "🔴",
}

var ruleDescriptions = map[string]string{
	finance.RuleDisposableNonNegative: "Disposable income after expenses and EMI must not be negative",
	finance.RuleRatioHigh:             "EMI-to-salary ratio must not exceed the high threshold",
	finance.RuleRatioModerate:         "EMI-to-salary ratio must not exceed the moderate threshold",
	finance.RuleWithinPolicy:          "All affordability rules passed",
}

// FormatToolOutput собирает текстовый отчет по разделам в фиксированном порядке.
// Этот текст модель получает вместе с JSON-трассой.
func FormatToolOutput(response Response) string {
	var sections []string

	if response.EMI != nil {
		sections = append(sections, "=== EMI Calculation ===", formatEMI(*response.EMI))
	}
	if response.Affordability != nil {
		sections = append(sections,
			"=== Budget-Aware Affordability Assessment ===", formatAffordability(*response.Affordability),
			"=== Explainability (XAI) ===", formatXAI(*response.Affordability),
		)
	}
	if response.Report != nil {
		sections = append(sections, "=== Scenario Comparison ===", formatScenarios(*response.Report))
	}
	if len(response.Stress) > 0 {
		sections = append(sections, "=== Stress Test (Rate Shocks) ===", formatStress(response.Stress))
	}

	return strings.Join(sections, "\n\n")
}

func formatEMI(result finance.EMIResult) string {
	lines := []string{
		"• Loan Amount: " + formatMoney(result.Principal),
		fmt.Sprintf("• Interest Rate: %s%% p.a.", formatRate(result.AnnualRatePercent)),
		fmt.Sprintf("• Tenure: %d months", result.TenureMonths),
		"• Monthly EMI: " + formatMoney(result.MonthlyEMI),
		"• Total Interest: " + formatMoney(result.TotalInterest),
		"• Total Payment: " + formatMoney(result.TotalPayment),
	}
	return strings.Join(lines, "\n")
}

func formatAffordability(assessment finance.AffordabilityAssessment) string {
	lines := []string{
		"• Monthly Salary: " + formatMoney(assessment.MonthlySalary),
		"• Fixed Expenses: " + formatMoney(assessment.MonthlyExpenses),
		"• Monthly EMI: " + formatMoney(assessment.MonthlyEMI),
		"• Disposable Income (after expenses + EMI): " + formatMoney(assessment.DisposableIncome),
		"• EMI-to-Salary Ratio: " + formatRatio(assessment),
		"• Disposable Income %: " + formatPercent(assessment.DisposablePercent),
		fmt.Sprintf("• Risk Level: %s %s", bandMarkers[assessment.RiskBand], assessment.RiskBand),
	}
	if assessment.MonthlyExpenses > assessment.MonthlySalary {
		lines = append(lines, "• Note: fixed expenses exceed salary")
	}
	return strings.Join(lines, "\n")
}

func formatXAI(assessment finance.AffordabilityAssessment) string {
	lines := []string{"Decision Rules Applied:"}
	for _, rule := range assessment.TriggeredRules {
		mark := "✓"
		if !rule.Passed {
			mark = "✗"
		}
		lines = append(lines, fmt.Sprintf("  %s %s (%s): observed %s, threshold %s",
			mark, ruleDescriptions[rule.Rule], rule.Rule, formatObserved(rule), formatThreshold(rule)))
	}

	lines = append(lines,
		"",
		"Income Breakdown:",
		"  Salary: "+formatMoney(assessment.MonthlySalary),
		"  − Expenses: "+formatMoney(assessment.MonthlyExpenses),
		"  − EMI: "+formatMoney(assessment.MonthlyEMI),
		fmt.Sprintf("  = Disposable: %s (%s)", formatMoney(assessment.DisposableIncome), formatPercent(assessment.DisposablePercent)),
		"",
		fmt.Sprintf("Decisive Factor: %s (%s)", ruleDescriptions[assessment.DecisiveRule], assessment.DecisiveRule),
	)
	return strings.Join(lines, "\n")
}

func formatScenarios(report finance.ComparisonReport) string {
	lines := []string{
		"Tenure Comparison:",
		fmt.Sprintf("%-10s %14s %16s %16s %10s %5s", "Tenure", "EMI", "Total Interest", "Total Payment", "Risk", "Pick"),
		strings.Repeat("-", 75),
	}
	for i, scenario := range report.Scenarios {
		pick := ""
		if i == report.RecommendedIndex {
			pick = "⭐"
		}
		lines = append(lines, fmt.Sprintf("%-10s %14s %16s %16s %10s %5s",
			fmt.Sprintf("%d years", scenario.TenureYears),
			formatMoney(scenario.EMI.MonthlyEMI),
			formatMoney(scenario.EMI.TotalInterest),
			formatMoney(scenario.EMI.TotalPayment),
			scenario.Affordability.RiskBand,
			pick,
		))
	}

	lines = append(lines, "", "Recommendation Rationale:")
	for _, entry := range report.Rationale {
		lines = append(lines, "  - "+entry.Detail)
	}
	if report.AllSevere {
		lines = append(lines, "", "WARNING: every tenure is SEVERE risk; no option is affordable under the current policy.")
	}
	return strings.Join(lines, "\n")
}

func formatStress(results []finance.StressResult) string {
	lines := []string{"Interest Rate Stress Test:"}
	for _, result := range results {
		lines = append(lines, fmt.Sprintf("  %s%% → Rate %s%% | EMI %s (%s/mo) | Risk: %s %s",
			signed(result.ShockPercent),
			formatRate(result.ShockedRatePercent),
			formatMoney(result.ShockedEMI.MonthlyEMI),
			signedMoney(result.DeltaEMI),
			bandMarkers[result.DeltaAffordability.RiskBand],
			result.DeltaAffordability.RiskBand,
		))
	}
	return strings.Join(lines, "\n")
}

func formatMoney(value float64) string {
	if value < 0 {
		return "-" + currencySymbol + humanize.FormatFloat("#,###.##", -value)
	}
	return currencySymbol + humanize.FormatFloat("#,###.##", value)
}

func formatWholeMoney(value float64) string {
	return currencySymbol + humanize.FormatFloat("#,###.", math.Round(value))
}

func signedMoney(value float64) string {
	if value < 0 {
		return formatMoney(value)
	}
	return "+" + formatMoney(value)
}

func formatRate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func signed(value float64) string {
	if value < 0 {
		return formatRate(value)
	}
	return "+" + formatRate(value)
}

func formatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

func formatRatio(assessment finance.AffordabilityAssessment) string {
	if !assessment.RatioDefined {
		return "undefined (salary is zero)"
	}
	return formatPercent(assessment.EMIToIncomeRatio * 100)
}

func formatObserved(rule finance.RuleOutcome) string {
	if math.IsInf(rule.Observed, 0) {
		return "undefined"
	}
	if rule.Rule == finance.RuleDisposableNonNegative {
		return formatMoney(rule.Observed)
	}
	return strconv.FormatFloat(rule.Observed, 'f', 4, 64)
}

func formatThreshold(rule finance.RuleOutcome) string {
	if rule.Rule == finance.RuleDisposableNonNegative {
		return formatMoney(rule.Threshold)
	}
	return strconv.FormatFloat(rule.Threshold, 'f', 2, 64)
}

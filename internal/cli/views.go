package cli

import (
	"fmt"
	"strconv"
	"strings"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

// RenderEMI выводит результат расчета платежа.
func RenderEMI(view finance.EMIView) string {
	return RenderKeyValue([][2]string{
		{"Loan amount", FormatMoney(view.Principal)},
		{"Interest rate", fmt.Sprintf("%g%% p.a.", view.AnnualRatePercent)},
		{"Tenure", fmt.Sprintf("%d years (%d months)", view.TenureYears, view.TenureMonths)},
		{"Monthly EMI", FormatMoney(view.MonthlyEMI)},
		{"Total interest", FormatMoney(view.TotalInterest)},
		{"Total payment", FormatMoney(view.TotalPayment)},
	})
}

// RenderAssessment выводит категорию риска и трассу правил.
func RenderAssessment(view finance.AssessmentView) string {
	var b strings.Builder
	b.WriteString(RenderKeyValue([][2]string{
		{"Risk band", RenderBand(view.RiskBand)},
		{"Decisive rule", view.DecisiveRule},
		{"EMI to income", FormatRatio(view.EMIToIncomeRatio)},
		{"Disposable income", FormatMoney(view.DisposableIncome)},
	}))
	if view.ExpensesExceedSalary {
		b.WriteString("  ")
		b.WriteString(RenderBand(finance.RiskSevere))
		b.WriteString(" expenses exceed salary\n")
	}

	rows := make([][]string, 0, len(view.TriggeredRules))
	for _, rule := range view.TriggeredRules {
		observed := "undefined"
		if rule.Observed != nil {
			observed = strconv.FormatFloat(*rule.Observed, 'f', -1, 64)
		}
		status := "pass"
		if !rule.Passed {
			status = "FAIL"
		}
		rows = append(rows, []string{
			rule.Rule,
			strconv.FormatFloat(rule.Threshold, 'f', -1, 64),
			observed,
			status,
			RenderBand(rule.BandOnFail),
		})
	}

	b.WriteString("\n")
	b.WriteString(RenderTable(Table{
		Title:   "Rule trace",
		Headers: []string{"Rule", "Threshold", "Observed", "Result", "Band on fail"},
		Rows:    rows,
	}))
	return b.String()
}

// RenderStress выводит таблицу шоков ставки.
func RenderStress(base finance.EMIView, results []finance.StressView) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{
			fmt.Sprintf("%+g%%", result.ShockPercent),
			fmt.Sprintf("%g%%", result.ShockedRatePercent),
			FormatMoney(result.ShockedEMI.MonthlyEMI),
			FormatMoney(result.DeltaEMI),
			RenderBand(result.DeltaAffordability.RiskBand),
		})
	}

	return RenderTable(Table{
		Title:   fmt.Sprintf("Rate shocks on %s EMI", FormatMoney(base.MonthlyEMI)),
		Headers: []string{"Shock", "Rate", "EMI", "Delta", "Risk"},
		Rows:    rows,
	})
}

// RenderReport выводит сравнение сроков и обоснование рекомендации.
func RenderReport(report finance.ReportView) string {
	rows := make([][]string, 0, len(report.Scenarios))
	for _, scenario := range report.Scenarios {
		marker := ""
		if scenario.Recommended {
			marker = "★"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d years", scenario.TenureYears),
			FormatMoney(scenario.EMI.MonthlyEMI),
			FormatMoney(scenario.EMI.TotalInterest),
			FormatRatio(scenario.Affordability.EMIToIncomeRatio),
			RenderBand(scenario.Affordability.RiskBand),
			marker,
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Title:   "Scenario comparison",
		Headers: []string{"Tenure", "EMI", "Interest", "Ratio", "Risk", ""},
		Rows:    rows,
	}))
	if report.AllSevere {
		b.WriteString("\n  ")
		b.WriteString(RenderBand(finance.RiskSevere))
		b.WriteString(" every tenure is unaffordable\n")
	}

	b.WriteString("\n")
	for _, entry := range report.Rationale {
		b.WriteString("  • ")
		b.WriteString(entry.Detail)
		if entry.Rule != "" {
			b.WriteString(RenderMuted(" (" + entry.Rule + ")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderSchedule выводит график погашения. При limit > 0 показываются
// первые и последние limit/2 месяцев.
func RenderSchedule(entries []finance.ScheduleEntry, limit int) string {
	shown := entries
	skipped := 0
	if limit > 0 && len(entries) > limit {
		head := limit / 2
		tail := limit - head
		shown = append(append([]finance.ScheduleEntry(nil), entries[:head]...), entries[len(entries)-tail:]...)
		skipped = len(entries) - limit
	}

	rows := make([][]string, 0, len(shown))
	for i, entry := range shown {
		if skipped > 0 && i == limit/2 {
			rows = append(rows, []string{"…", "", "", "", ""})
		}
		rows = append(rows, []string{
			strconv.Itoa(entry.Month),
			FormatMoney(entry.Payment.InexactFloat64()),
			FormatMoney(entry.Principal.InexactFloat64()),
			FormatMoney(entry.Interest.InexactFloat64()),
			FormatMoney(entry.RemainingBalance.InexactFloat64()),
		})
	}

	return RenderTable(Table{
		Title:   "Amortization schedule",
		Headers: []string{"Month", "Payment", "Principal", "Interest", "Balance"},
		Rows:    rows,
	})
}

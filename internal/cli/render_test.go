package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

// TestFormatMoney проверяет разделители разрядов и знак.
func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₹10,258.27", FormatMoney(10258.27))
	assert.Equal(t, "-₹1,500.00", FormatMoney(-1500))
}

// TestFormatRatio проверяет неопределенную долю.
func TestFormatRatio(t *testing.T) {
	ratio := 0.2052
	assert.Equal(t, "20.5%", FormatRatio(&ratio))
	assert.Equal(t, "undefined", FormatRatio(nil))
}

// TestRenderTableAlignment проверяет, что все строки таблицы одной ширины.
func TestRenderTableAlignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Tenure", "EMI"},
		Rows: [][]string{
			{"3 years", "₹15,783.47"},
			{"5 years", RenderBand(finance.RiskLow)},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	width := lipgloss.Width(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, lipgloss.Width(line))
	}
}

// TestRenderReportMarksRecommended проверяет отметку и обоснование.
func TestRenderReportMarksRecommended(t *testing.T) {
	report, err := finance.CompareScenarios(
		finance.DefaultPolicy(),
		finance.LoanRequest{Principal: 500000, AnnualRatePercent: 8.5, TenureYears: []int{3, 5}},
		finance.IncomeProfile{MonthlySalary: 50000, MonthlyExpenses: 20000},
		nil,
	)
	require.NoError(t, err)

	out := RenderReport(finance.NewReportView(report))
	assert.Contains(t, out, "★")
	assert.Contains(t, out, "3 years")
	assert.NotContains(t, out, "every tenure is unaffordable")
}

// TestRenderScheduleTruncates проверяет сокращенный вывод графика.
func TestRenderScheduleTruncates(t *testing.T) {
	entries, err := finance.Schedule(500000, 8.5, 5)
	require.NoError(t, err)

	out := RenderSchedule(entries, 4)
	assert.Contains(t, out, "…")
	assert.Contains(t, out, "₹0.00")

	full := RenderSchedule(entries, 0)
	assert.NotContains(t, full, "…")
}

package handlers

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

// TestWriteScenariosCSVWithoutShocks проверяет строку без стресс-колонок.
func TestWriteScenariosCSVWithoutShocks(t *testing.T) {
	report, err := finance.CompareScenarios(
		finance.DefaultPolicy(),
		finance.LoanRequest{Principal: 500000, AnnualRatePercent: 8.5, TenureYears: []int{5}},
		finance.IncomeProfile{MonthlySalary: 0, MonthlyExpenses: 0},
		[]float64{},
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	require.NoError(t, writeScenariosCSV(writer, finance.NewReportView(report)))
	writer.Flush()
	require.NoError(t, writer.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	row := records[1]
	assert.Equal(t, "5", row[0])
	assert.Equal(t, "60", row[1])
	assert.Equal(t, "10258.27", row[2])
	assert.Equal(t, "SEVERE", row[5])
	// доля не определена при нулевой зарплате
	assert.Equal(t, "", row[7])
	assert.Equal(t, "true", row[9])
	assert.Equal(t, "", row[10])
}

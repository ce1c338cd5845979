package finance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewReportViewRoundsAndMarksRecommendation проверяет округление и отметку рекомендации.
func TestNewReportViewRoundsAndMarksRecommendation(t *testing.T) {
	loan := LoanRequest{Principal: 500000, AnnualRatePercent: 8.5, TenureYears: []int{3, 5, 7}}
	report, err := CompareScenarios(DefaultPolicy(), loan, IncomeProfile{MonthlySalary: 40000, MonthlyExpenses: 10000}, nil)
	require.NoError(t, err)

	view := NewReportView(report)
	require.Len(t, view.Scenarios, 3)
	assert.False(t, view.Scenarios[0].Recommended)
	assert.True(t, view.Scenarios[1].Recommended)
	assert.Equal(t, 10258.27, view.Scenarios[1].EMI.MonthlyEMI)
	assert.Len(t, view.Scenarios[1].Affordability.TriggeredRules, 3)
	assert.Len(t, view.Rationale, len(report.Rationale))

	payload, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"recommendation_rationale"`)
	assert.Contains(t, string(payload), `"triggered_rules"`)
}

// TestNewAssessmentViewUndefinedRatio проверяет сериализацию бесконечного отношения.
func TestNewAssessmentViewUndefinedRatio(t *testing.T) {
	assessment, err := AssessAffordability(DefaultPolicy(), IncomeProfile{}, EMIResult{MonthlyEMI: 500})
	require.NoError(t, err)

	view := NewAssessmentView(assessment)
	assert.Nil(t, view.EMIToIncomeRatio)
	assert.Nil(t, view.TriggeredRules[1].Observed)
	require.NotNil(t, view.TriggeredRules[0].Observed)
	assert.Equal(t, -500.0, *view.TriggeredRules[0].Observed)

	payload, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"emi_to_income_ratio":null`)
}

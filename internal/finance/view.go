package finance

import (
	"math"

	"github.com/shopspring/decimal"
)

// Представления ниже являются единственным местом, где числа округляются.
// Они сериализуются в стабильный JSON для UI и слоя нарратива.

type EMIView struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TenureYears       int     `json:"tenure_years"`
	TenureMonths      int     `json:"tenure_months"`
	MonthlyEMI        float64 `json:"monthly_emi"`
	TotalPayment      float64 `json:"total_payment"`
	TotalInterest     float64 `json:"total_interest"`
}

type RuleView struct {
	Rule       string   `json:"rule"`
	Threshold  float64  `json:"threshold"`
	Observed   *float64 `json:"observed"`
	Passed     bool     `json:"passed"`
	BandOnFail RiskBand `json:"band_on_fail"`
}

type AssessmentView struct {
	MonthlySalary        float64    `json:"monthly_salary"`
	MonthlyExpenses      float64    `json:"monthly_expenses"`
	MonthlyEMI           float64    `json:"monthly_emi"`
	DisposableIncome     float64    `json:"disposable_income"`
	DisposablePercent    float64    `json:"disposable_percent"`
	EMIToIncomeRatio     *float64   `json:"emi_to_income_ratio"`
	RiskBand             RiskBand   `json:"risk_band"`
	DecisiveRule         string     `json:"decisive_rule"`
	ExpensesExceedSalary bool       `json:"expenses_exceed_salary"`
	TriggeredRules       []RuleView `json:"triggered_rules"`
}

type StressView struct {
	ShockPercent       float64        `json:"shock_percent"`
	ShockedRatePercent float64        `json:"shocked_rate_percent"`
	ShockedEMI         EMIView        `json:"shocked_emi"`
	DeltaEMI           float64        `json:"delta_emi"`
	DeltaAffordability AssessmentView `json:"delta_affordability"`
}

type ScenarioView struct {
	TenureYears   int            `json:"tenure_years"`
	EMI           EMIView        `json:"emi"`
	Affordability AssessmentView `json:"affordability"`
	Stress        []StressView   `json:"stress"`
	Recommended   bool           `json:"recommended"`
}

type RationaleView struct {
	Criterion string `json:"criterion"`
	Rule      string `json:"rule,omitempty"`
	Detail    string `json:"detail"`
}

type ReportView struct {
	Scenarios        []ScenarioView  `json:"scenarios"`
	RecommendedIndex int             `json:"recommended_index"`
	Rationale        []RationaleView `json:"recommendation_rationale"`
	AllSevere        bool            `json:"all_severe_warning"`
	Policy           Policy          `json:"policy"`
}

func NewEMIView(result EMIResult) EMIView {
	return EMIView{
		Principal:         round2(result.Principal),
		AnnualRatePercent: result.AnnualRatePercent,
		TenureYears:       result.TenureYears,
		TenureMonths:      result.TenureMonths,
		MonthlyEMI:        round2(result.MonthlyEMI),
		TotalPayment:      round2(result.TotalPayment),
		TotalInterest:     round2(result.TotalInterest),
	}
}

func NewAssessmentView(assessment AffordabilityAssessment) AssessmentView {
	rules := make([]RuleView, 0, len(assessment.TriggeredRules))
	for _, rule := range assessment.TriggeredRules {
		rules = append(rules, RuleView{
			Rule:       rule.Rule,
			Threshold:  rule.Threshold,
			Observed:   roundedPtr(rule.Observed, 4),
			Passed:     rule.Passed,
			BandOnFail: rule.BandOnFail,
		})
	}

	var ratio *float64
	if assessment.RatioDefined {
		ratio = roundedPtr(assessment.EMIToIncomeRatio, 4)
	}

	return AssessmentView{
		MonthlySalary:        round2(assessment.MonthlySalary),
		MonthlyExpenses:      round2(assessment.MonthlyExpenses),
		MonthlyEMI:           round2(assessment.MonthlyEMI),
		DisposableIncome:     round2(assessment.DisposableIncome),
		DisposablePercent:    round2(assessment.DisposablePercent),
		EMIToIncomeRatio:     ratio,
		RiskBand:             assessment.RiskBand,
		DecisiveRule:         assessment.DecisiveRule,
		ExpensesExceedSalary: assessment.MonthlyExpenses > assessment.MonthlySalary,
		TriggeredRules:       rules,
	}
}

func NewStressViews(results []StressResult) []StressView {
	views := make([]StressView, 0, len(results))
	for _, result := range results {
		views = append(views, StressView{
			ShockPercent:       result.ShockPercent,
			ShockedRatePercent: round2(result.ShockedRatePercent),
			ShockedEMI:         NewEMIView(result.ShockedEMI),
			DeltaEMI:           round2(result.DeltaEMI),
			DeltaAffordability: NewAssessmentView(result.DeltaAffordability),
		})
	}
	return views
}

func NewReportView(report ComparisonReport) ReportView {
	scenarios := make([]ScenarioView, 0, len(report.Scenarios))
	for i, scenario := range report.Scenarios {
		scenarios = append(scenarios, ScenarioView{
			TenureYears:   scenario.TenureYears,
			EMI:           NewEMIView(scenario.EMI),
			Affordability: NewAssessmentView(scenario.Affordability),
			Stress:        NewStressViews(scenario.Stress),
			Recommended:   i == report.RecommendedIndex,
		})
	}

	rationale := make([]RationaleView, 0, len(report.Rationale))
	for _, entry := range report.Rationale {
		rationale = append(rationale, RationaleView(entry))
	}

	return ReportView{
		Scenarios:        scenarios,
		RecommendedIndex: report.RecommendedIndex,
		Rationale:        rationale,
		AllSevere:        report.AllSevere,
		Policy:           report.Policy,
	}
}

func round2(value float64) float64 {
	return roundTo(value, 2)
}

func roundTo(value float64, places int32) float64 {
	if !isFinite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// roundedPtr возвращает nil для бесконечных значений: JSON их не кодирует.
func roundedPtr(value float64, places int32) *float64 {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return nil
	}
	rounded := roundTo(value, places)
	return &rounded
}

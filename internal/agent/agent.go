package agent

import (
	"context"
	"fmt"
	"math"
	"strings"

	"example.com/ai-finance-copilot/backend/internal/ai"
	"example.com/ai-finance-copilot/backend/internal/finance"
)

// Narrator описывает часть ai.Narrator, нужную агенту.
type Narrator interface {
	Explain(ctx context.Context, input ai.NarrationInput) ai.Narration
}

// Request содержит значения, введенные пользователем, и выбранная операция.
type Request struct {
	Query             string
	Operation         Operation
	MonthlySalary     float64
	MonthlyExpenses   float64
	Principal         float64
	AnnualRatePercent float64
	TenureYears       int
	// CompareTenures == nil берет сроки из политики.
	CompareTenures []int
	// Shocks == nil берет шоки из политики.
	Shocks     []float64
	SkipStress bool
	Narrate    bool
}

// Response содержит детерминированные результаты и, если просили, объяснение.
type Response struct {
	Operation     Operation
	Query         string
	EMI           *finance.EMIResult
	Affordability *finance.AffordabilityAssessment
	Stress        []finance.StressResult
	Report        *finance.ComparisonReport
	ToolOutput    string
	Summary       string
	Narration     *ai.Narration
}

// Trace задает стабильное JSON-представление результатов для слоя объяснений.
type Trace struct {
	Operation     Operation               `json:"operation"`
	EMI           *finance.EMIView        `json:"emi,omitempty"`
	Affordability *finance.AssessmentView `json:"affordability,omitempty"`
	Stress        []finance.StressView    `json:"stress_test,omitempty"`
	Comparison    *finance.ReportView     `json:"comparison,omitempty"`
}

// Agent выбирает операции движка по намерению пользователя.
type Agent struct {
	policy   finance.Policy
	narrator Narrator
}

// New создает агента; narrator может быть nil, тогда объяснение не строится.
func New(policy finance.Policy, narrator Narrator) *Agent {
	return &Agent{policy: policy, narrator: narrator}
}

// Policy возвращает политику, с которой работает агент.
func (a *Agent) Policy() finance.Policy {
	return a.policy
}

// Run проверяет все поля сразу, выполняет операцию и при необходимости
// передает готовые результаты в слой объяснений. Ошибки движка
// возвращаются как есть, без частичного ответа.
func (a *Agent) Run(ctx context.Context, req Request) (Response, error) {
	if err := validateRequest(req); err != nil {
		return Response{}, err
	}

	op := req.Operation
	if op == "" {
		op = ParseIntent(req.Query)
	}

	response := Response{Operation: op, Query: strings.TrimSpace(req.Query)}
	loan := finance.LoanRequest{
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TenureYears:       []int{req.TenureYears},
	}
	income := finance.IncomeProfile{
		MonthlySalary:   req.MonthlySalary,
		MonthlyExpenses: req.MonthlyExpenses,
	}

	emi, err := finance.ComputeEMI(req.Principal, req.AnnualRatePercent, req.TenureYears)
	if err != nil {
		return Response{}, err
	}
	response.EMI = &emi

	if op == OpAffordability || op == OpFull {
		assessment, err := finance.AssessAffordability(a.policy, income, emi)
		if err != nil {
			return Response{}, err
		}
		response.Affordability = &assessment
	}

	if op == OpStress || (op == OpFull && !req.SkipStress) {
		stress, err := finance.StressTest(a.policy, loan, income, req.Shocks, req.TenureYears)
		if err != nil {
			return Response{}, err
		}
		response.Stress = stress
	}

	if op == OpCompare || op == OpFull {
		tenures := req.CompareTenures
		if tenures == nil {
			tenures = a.policy.DefaultTenures
		}
		compareLoan := loan
		compareLoan.TenureYears = tenures

		report, err := finance.CompareScenarios(a.policy, compareLoan, income, req.Shocks)
		if err != nil {
			return Response{}, err
		}
		response.Report = &report
	}

	response.ToolOutput = FormatToolOutput(response)
	response.Summary = summarize(response)

	if a.narrator != nil && (op == OpFull || req.Narrate) {
		if response.Query == "" {
			response.Query = DefaultQuery(req)
		}
		narration := a.narrator.Explain(ctx, ai.NarrationInput{
			Query:      response.Query,
			ToolOutput: response.ToolOutput,
			Trace:      BuildTrace(response),
			Summary:    response.Summary,
		})
		response.Narration = &narration
	}

	return response, nil
}

// BuildTrace собирает округленные представления всех посчитанных результатов.
func BuildTrace(response Response) Trace {
	trace := Trace{Operation: response.Operation}
	if response.EMI != nil {
		view := finance.NewEMIView(*response.EMI)
		trace.EMI = &view
	}
	if response.Affordability != nil {
		view := finance.NewAssessmentView(*response.Affordability)
		trace.Affordability = &view
	}
	if len(response.Stress) > 0 {
		trace.Stress = finance.NewStressViews(response.Stress)
	}
	if response.Report != nil {
		view := finance.NewReportView(*response.Report)
		trace.Comparison = &view
	}
	return trace
}

// DefaultQuery формулирует вопрос из введенных значений, если пользователь его не задал.
func DefaultQuery(req Request) string {
	return fmt.Sprintf(
		"I earn %s/month with %s in fixed expenses. I want a %s loan at %s%% for %d years. Is it affordable? What happens if rates increase?",
		formatWholeMoney(req.MonthlySalary),
		formatWholeMoney(req.MonthlyExpenses),
		formatWholeMoney(req.Principal),
		formatRate(req.AnnualRatePercent),
		req.TenureYears,
	)
}

func summarize(response Response) string {
	var lines []string
	if response.EMI != nil {
		lines = append(lines, fmt.Sprintf("Monthly EMI for %d years: %s.", response.EMI.TenureYears, formatMoney(response.EMI.MonthlyEMI)))
	}
	if response.Affordability != nil {
		lines = append(lines, fmt.Sprintf("Risk level: %s (decided by %s).", response.Affordability.RiskBand, response.Affordability.DecisiveRule))
	}
	if response.Report != nil {
		recommended := response.Report.Recommended()
		lines = append(lines, fmt.Sprintf("Recommended tenure: %d years (%s risk).", recommended.TenureYears, recommended.Affordability.RiskBand))
		if response.Report.AllSevere {
			lines = append(lines, "Warning: every tenure is SEVERE risk.")
		}
	}
	return strings.Join(lines, "\n")
}

var maxTenureMessage = fmt.Sprintf("tenure must not exceed %d years", finance.MaxTenureYears)

func validateRequest(req Request) error {
	var problems ValidationError
	check := func(ok bool, field, message string) {
		if !ok {
			problems.Fields = append(problems.Fields, &finance.Error{Kind: finance.ErrInvalidInput, Field: field, Message: message})
		}
	}

	check(isFinite(req.MonthlySalary) && req.MonthlySalary >= 0, "monthly_salary", "salary cannot be negative")
	check(isFinite(req.MonthlyExpenses) && req.MonthlyExpenses >= 0, "monthly_expenses", "expenses cannot be negative")
	check(isFinite(req.Principal) && req.Principal > 0, "principal", "loan amount must be positive")
	check(isFinite(req.AnnualRatePercent) && req.AnnualRatePercent >= 0, "annual_rate_percent", "interest rate cannot be negative")
	check(req.TenureYears > 0, "tenure_years", "tenure must be at least 1 year")
	check(req.TenureYears <= finance.MaxTenureYears, "tenure_years", maxTenureMessage)
	if len(req.CompareTenures) > finance.MaxCompareTenures {
		check(false, "compare_tenures", fmt.Sprintf("at most %d tenures can be compared", finance.MaxCompareTenures))
	} else {
		for i, tenure := range req.CompareTenures {
			field := fmt.Sprintf("compare_tenures[%d]", i)
			check(tenure > 0, field, "tenure must be at least 1 year")
			check(tenure <= finance.MaxTenureYears, field, maxTenureMessage)
		}
	}
	if req.CompareTenures != nil && len(req.CompareTenures) == 0 {
		check(false, "compare_tenures", "at least one tenure is required")
	}
	for i, shock := range req.Shocks {
		check(isFinite(shock), fmt.Sprintf("shocks[%d]", i), "shock must be a finite number")
	}

	if len(problems.Fields) > 0 {
		return &problems
	}
	return nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

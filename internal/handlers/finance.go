package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-finance-copilot/backend/internal/finance"
	"example.com/ai-finance-copilot/backend/internal/metrics"
)

const (
	operationEMI           = "emi"
	operationAffordability = "affordability"
	operationStress        = "stress_test"
	operationCompare       = "compare"
	operationSchedule      = "schedule"
)

type FinanceHandler struct {
	Policy  finance.Policy
	Metrics *metrics.Metrics
}

// NewFinanceHandler создает обработчик расчетных эндпоинтов.
func NewFinanceHandler(policy finance.Policy, m *metrics.Metrics) *FinanceHandler {
	return &FinanceHandler{Policy: policy, Metrics: m}
}

type LoanTermsRequest struct {
	Principal         float64 `json:"principal" validate:"gt=0"`
	AnnualRatePercent float64 `json:"annual_rate_percent" validate:"gte=0"`
	TenureYears       int     `json:"tenure_years" validate:"gt=0,lte=50"`
}

type AffordabilityRequest struct {
	LoanTermsRequest
	MonthlySalary   float64 `json:"monthly_salary" validate:"gte=0"`
	MonthlyExpenses float64 `json:"monthly_expenses" validate:"gte=0"`
}

type StressTestRequest struct {
	AffordabilityRequest
	Shocks []float64 `json:"shocks"`
}

type ScenariosRequest struct {
	Principal         float64   `json:"principal" validate:"gt=0"`
	AnnualRatePercent float64   `json:"annual_rate_percent" validate:"gte=0"`
	TenureYears       []int     `json:"tenure_years" validate:"omitempty,max=10,dive,gt=0,lte=50"`
	MonthlySalary     float64   `json:"monthly_salary" validate:"gte=0"`
	MonthlyExpenses   float64   `json:"monthly_expenses" validate:"gte=0"`
	Shocks            []float64 `json:"shocks"`
}

type AffordabilityResponse struct {
	EMI        finance.EMIView        `json:"emi"`
	Assessment finance.AssessmentView `json:"assessment"`
}

type StressTestResponse struct {
	Base    finance.EMIView        `json:"base"`
	Results []finance.StressView   `json:"results"`
	Policy  finance.Policy         `json:"policy"`
	Current finance.AssessmentView `json:"current_affordability"`
}

type ScheduleResponse struct {
	EMI      finance.EMIView         `json:"emi"`
	Schedule []finance.ScheduleEntry `json:"schedule"`
}

// EMI считает ежемесячный платеж для одного срока.
func (h *FinanceHandler) EMI(c echo.Context) error {
	var req LoanTermsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	result, err := finance.ComputeEMI(req.Principal, req.AnnualRatePercent, req.TenureYears)
	if err != nil {
		return h.engineError(c, operationEMI, err)
	}

	h.observe(operationEMI)
	return c.JSON(http.StatusOK, finance.NewEMIView(result))
}

// Affordability классифицирует риск и возвращает полную трассу правил.
func (h *FinanceHandler) Affordability(c echo.Context) error {
	var req AffordabilityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	emi, err := finance.ComputeEMI(req.Principal, req.AnnualRatePercent, req.TenureYears)
	if err != nil {
		return h.engineError(c, operationAffordability, err)
	}

	assessment, err := finance.AssessAffordability(h.Policy, incomeOf(req), emi)
	if err != nil {
		return h.engineError(c, operationAffordability, err)
	}

	h.observe(operationAffordability)
	h.observeBand(assessment.RiskBand)
	return c.JSON(http.StatusOK, AffordabilityResponse{
		EMI:        finance.NewEMIView(emi),
		Assessment: finance.NewAssessmentView(assessment),
	})
}

// StressTest пересчитывает платеж и риск при шоках ставки.
func (h *FinanceHandler) StressTest(c echo.Context) error {
	var req StressTestRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	base, err := finance.ComputeEMI(req.Principal, req.AnnualRatePercent, req.TenureYears)
	if err != nil {
		return h.engineError(c, operationStress, err)
	}

	income := incomeOf(req.AffordabilityRequest)
	current, err := finance.AssessAffordability(h.Policy, income, base)
	if err != nil {
		return h.engineError(c, operationStress, err)
	}

	loan := finance.LoanRequest{Principal: req.Principal, AnnualRatePercent: req.AnnualRatePercent, TenureYears: []int{req.TenureYears}}
	results, err := finance.StressTest(h.Policy, loan, income, req.Shocks, req.TenureYears)
	if err != nil {
		return h.engineError(c, operationStress, err)
	}

	h.observe(operationStress)
	return c.JSON(http.StatusOK, StressTestResponse{
		Base:    finance.NewEMIView(base),
		Results: finance.NewStressViews(results),
		Policy:  h.Policy,
		Current: finance.NewAssessmentView(current),
	})
}

// Scenarios сравнивает сроки и возвращает рекомендацию с обоснованием.
func (h *FinanceHandler) Scenarios(c echo.Context) error {
	report, written, err := h.compare(c)
	if written {
		return err
	}

	return c.JSON(http.StatusOK, finance.NewReportView(report))
}

// Schedule возвращает помесячный график погашения.
func (h *FinanceHandler) Schedule(c echo.Context) error {
	var req LoanTermsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	emi, err := finance.ComputeEMI(req.Principal, req.AnnualRatePercent, req.TenureYears)
	if err != nil {
		return h.engineError(c, operationSchedule, err)
	}

	entries, err := finance.Schedule(req.Principal, req.AnnualRatePercent, req.TenureYears)
	if err != nil {
		return h.engineError(c, operationSchedule, err)
	}

	h.observe(operationSchedule)
	return c.JSON(http.StatusOK, ScheduleResponse{
		EMI:      finance.NewEMIView(emi),
		Schedule: entries,
	})
}

// GetPolicy возвращает действующие пороги и параметры по умолчанию.
func (h *FinanceHandler) GetPolicy(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Policy)
}

// compare разбирает запрос и строит отчет. written == true означает, что
// ответ с ошибкой уже записан и обработчик должен вернуть err как есть.
func (h *FinanceHandler) compare(c echo.Context) (report finance.ComparisonReport, written bool, err error) {
	var req ScenariosRequest
	if err := c.Bind(&req); err != nil {
		return report, true, badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return report, true, validationFailed(c, err)
	}

	tenures := req.TenureYears
	if tenures == nil {
		tenures = h.Policy.DefaultTenures
	}

	loan := finance.LoanRequest{Principal: req.Principal, AnnualRatePercent: req.AnnualRatePercent, TenureYears: tenures}
	income := finance.IncomeProfile{MonthlySalary: req.MonthlySalary, MonthlyExpenses: req.MonthlyExpenses}

	report, err = finance.CompareScenarios(h.Policy, loan, income, req.Shocks)
	if err != nil {
		return report, true, h.engineError(c, operationCompare, err)
	}

	h.observe(operationCompare)
	h.observeBand(report.Recommended().Affordability.RiskBand)
	return report, false, nil
}

func (h *FinanceHandler) engineError(c echo.Context, operation string, err error) error {
	if h.Metrics != nil {
		h.Metrics.ObserveOperationError(operation, errorKind(err))
	}
	return writeEngineError(c, err)
}

func (h *FinanceHandler) observe(operation string) {
	if h.Metrics != nil {
		h.Metrics.ObserveOperation(operation)
	}
}

func (h *FinanceHandler) observeBand(band finance.RiskBand) {
	if h.Metrics != nil {
		h.Metrics.ObserveRiskBand(string(band))
	}
}

func incomeOf(req AffordabilityRequest) finance.IncomeProfile {
	return finance.IncomeProfile{
		MonthlySalary:   req.MonthlySalary,
		MonthlyExpenses: req.MonthlyExpenses,
	}
}

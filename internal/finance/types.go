package finance

type RiskBand string

const (
	RiskLow      RiskBand = "LOW"
	RiskModerate RiskBand = "MODERATE"
	RiskHigh     RiskBand = "HIGH"
	RiskSevere   RiskBand = "SEVERE"
)

// Rank возвращает порядок тяжести: чем меньше, тем лучше.
func (b RiskBand) Rank() int {
	switch b {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	case RiskSevere:
		return 3
	default:
		return 4
	}
}

type LoanRequest struct {
	Principal         float64
	AnnualRatePercent float64
	TenureYears       []int
}

type IncomeProfile struct {
	MonthlySalary   float64
	MonthlyExpenses float64
}

// ExpensesExceedSalary отмечает профиль, в котором расходы больше дохода.
func (p IncomeProfile) ExpensesExceedSalary() bool {
	return p.MonthlyExpenses > p.MonthlySalary
}

type EMIResult struct {
	Principal         float64
	AnnualRatePercent float64
	TenureYears       int
	TenureMonths      int
	MonthlyEMI        float64
	TotalPayment      float64
	TotalInterest     float64
}

// RuleOutcome описывает одну запись XAI-трассы.
type RuleOutcome struct {
	Rule       string
	Threshold  float64
	Observed   float64
	Passed     bool
	BandOnFail RiskBand
}

type AffordabilityAssessment struct {
	MonthlySalary     float64
	MonthlyExpenses   float64
	MonthlyEMI        float64
	DisposableIncome  float64
	DisposablePercent float64
	EMIToIncomeRatio  float64
	RatioDefined      bool
	RiskBand          RiskBand
	DecisiveRule      string
	TriggeredRules    []RuleOutcome
}

type StressResult struct {
	ShockPercent       float64
	ShockedRatePercent float64
	ShockedEMI         EMIResult
	DeltaEMI           float64
	DeltaAffordability AffordabilityAssessment
}

type Scenario struct {
	TenureYears   int
	EMI           EMIResult
	Affordability AffordabilityAssessment
	Stress        []StressResult
}

type RationaleEntry struct {
	Criterion string
	Rule      string
	Detail    string
}

// ComparisonReport является корневым объектом результата, который уходит в слой нарратива.
type ComparisonReport struct {
	Scenarios        []Scenario
	RecommendedIndex int
	Rationale        []RationaleEntry
	AllSevere        bool
	Policy           Policy
}

// Recommended возвращает рекомендованный сценарий.
func (r ComparisonReport) Recommended() Scenario {
	return r.Scenarios[r.RecommendedIndex]
}

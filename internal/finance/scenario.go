package finance

import (
	"fmt"
	"strings"
)

const (
	CriterionRiskBand      = "risk_band"
	CriterionTotalInterest = "total_interest"
	CriterionTenure        = "tenure"
	CriterionAllSevere     = "all_severe"
)

// MaxCompareTenures ограничивает число сроков в одном сравнении.
const MaxCompareTenures = 10

// CompareScenarios строит сценарий для каждого срока и выбирает рекомендацию:
// минимальная категория риска, затем минимальные проценты, затем кратчайший срок.
// Повторяющиеся сроки схлопываются с сохранением первого вхождения.
func CompareScenarios(policy Policy, loan LoanRequest, income IncomeProfile, shocks []float64) (ComparisonReport, error) {
	if len(loan.TenureYears) > MaxCompareTenures {
		return ComparisonReport{}, invalidInput("tenure_years", fmt.Sprintf("must contain at most %d tenures", MaxCompareTenures))
	}
	tenures := uniqueTenures(loan.TenureYears)
	if len(tenures) == 0 {
		return ComparisonReport{}, invalidInput("tenure_years", "must contain at least one tenure")
	}

	shocks = policy.shocksOrDefault(shocks)
	scenarios := make([]Scenario, 0, len(tenures))
	for _, tenure := range tenures {
		emi, err := ComputeEMI(loan.Principal, loan.AnnualRatePercent, tenure)
		if err != nil {
			return ComparisonReport{}, err
		}

		assessment, err := AssessAffordability(policy, income, emi)
		if err != nil {
			return ComparisonReport{}, err
		}

		stress, err := stressFromBase(policy, emi, income, shocks)
		if err != nil {
			return ComparisonReport{}, err
		}

		scenarios = append(scenarios, Scenario{
			TenureYears:   tenure,
			EMI:           emi,
			Affordability: assessment,
			Stress:        stress,
		})
	}

	best := 0
	for i := 1; i < len(scenarios); i++ {
		if betterScenario(scenarios[i], scenarios[best]) {
			best = i
		}
	}

	allSevere := true
	for _, scenario := range scenarios {
		if scenario.Affordability.RiskBand != RiskSevere {
			allSevere = false
			break
		}
	}

	return ComparisonReport{
		Scenarios:        scenarios,
		RecommendedIndex: best,
		Rationale:        buildRationale(scenarios, best, allSevere),
		AllSevere:        allSevere,
		Policy:           policy,
	}, nil
}

// betterScenario задает строгий полный порядок над сценариями.
func betterScenario(a, b Scenario) bool {
	if ra, rb := a.Affordability.RiskBand.Rank(), b.Affordability.RiskBand.Rank(); ra != rb {
		return ra < rb
	}
	if a.EMI.TotalInterest != b.EMI.TotalInterest {
		return a.EMI.TotalInterest < b.EMI.TotalInterest
	}
	return a.TenureYears < b.TenureYears
}

func buildRationale(scenarios []Scenario, best int, allSevere bool) []RationaleEntry {
	winner := scenarios[best]
	band := winner.Affordability.RiskBand

	var sameBand []Scenario
	for _, scenario := range scenarios {
		if scenario.Affordability.RiskBand == band {
			sameBand = append(sameBand, scenario)
		}
	}

	rationale := []RationaleEntry{{
		Criterion: CriterionRiskBand,
		Rule:      winner.Affordability.DecisiveRule,
		Detail:    fmt.Sprintf("%d-year tenure has the lowest risk band %s among %s", winner.TenureYears, band, describeBands(scenarios)),
	}}

	for _, rule := range winner.Affordability.TriggeredRules {
		status := "passed"
		if !rule.Passed {
			status = "failed"
		}
		rationale = append(rationale, RationaleEntry{
			Criterion: CriterionRiskBand,
			Rule:      rule.Rule,
			Detail:    fmt.Sprintf("%s: observed %.4f against threshold %.4f", status, rule.Observed, rule.Threshold),
		})
	}

	if len(sameBand) > 1 {
		rationale = append(rationale, RationaleEntry{
			Criterion: CriterionTotalInterest,
			Detail:    fmt.Sprintf("%d scenarios share band %s; lowest total interest %.2f wins", len(sameBand), band, winner.EMI.TotalInterest),
		})

		ties := 0
		for _, scenario := range sameBand {
			if scenario.EMI.TotalInterest == winner.EMI.TotalInterest {
				ties++
			}
		}
		if ties > 1 {
			rationale = append(rationale, RationaleEntry{
				Criterion: CriterionTenure,
				Detail:    fmt.Sprintf("%d scenarios tie on total interest; shortest tenure %d years wins", ties, winner.TenureYears),
			})
		}
	}

	if allSevere {
		rationale = append(rationale, RationaleEntry{
			Criterion: CriterionAllSevere,
			Rule:      RuleDisposableNonNegative,
			Detail:    "every compared tenure is SEVERE; the recommendation is the least bad option, not an affordable one",
		})
	}

	return rationale
}

func describeBands(scenarios []Scenario) string {
	parts := make([]string, 0, len(scenarios))
	for _, scenario := range scenarios {
		parts = append(parts, fmt.Sprintf("%dy=%s", scenario.TenureYears, scenario.Affordability.RiskBand))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func uniqueTenures(tenures []int) []int {
	seen := make(map[int]struct{}, len(tenures))
	out := make([]int, 0, len(tenures))
	for _, tenure := range tenures {
		if _, ok := seen[tenure]; ok {
			continue
		}
		seen[tenure] = struct{}{}
		out = append(out, tenure)
	}
	return out
}

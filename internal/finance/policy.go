package finance

import (
	"fmt"
	"math"
)

const (
	defaultHighRatio     = 0.50
	defaultModerateRatio = 0.35
)

// Policy хранит продуктовые пороги классификации и параметры стресс-теста.
type Policy struct {
	HighRatio      float64   `json:"high_ratio" toml:"high_ratio"`
	ModerateRatio  float64   `json:"moderate_ratio" toml:"moderate_ratio"`
	DefaultShocks  []float64 `json:"default_shocks" toml:"default_shocks"`
	DefaultTenures []int     `json:"default_tenures" toml:"default_tenures"`
}

// DefaultPolicy возвращает пороги 0.35/0.50, шоки +1%/+2% и сроки 3/5/7 лет.
func DefaultPolicy() Policy {
	return Policy{
		HighRatio:      defaultHighRatio,
		ModerateRatio:  defaultModerateRatio,
		DefaultShocks:  []float64{1.0, 2.0},
		DefaultTenures: []int{3, 5, 7},
	}
}

// Validate проверяет согласованность порогов.
func (p Policy) Validate() error {
	if !isFinite(p.ModerateRatio) || p.ModerateRatio <= 0 {
		return invalidInput("moderate_ratio", "must be a positive number")
	}
	if !isFinite(p.HighRatio) || p.HighRatio <= 0 {
		return invalidInput("high_ratio", "must be a positive number")
	}
	if p.ModerateRatio >= p.HighRatio {
		return invalidInput("moderate_ratio", fmt.Sprintf("must be below high_ratio (%g)", p.HighRatio))
	}
	for _, shock := range p.DefaultShocks {
		if !isFinite(shock) {
			return invalidInput("default_shocks", "must contain finite numbers")
		}
	}
	if len(p.DefaultTenures) == 0 {
		return invalidInput("default_tenures", "must not be empty")
	}
	if len(p.DefaultTenures) > MaxCompareTenures {
		return invalidInput("default_tenures", fmt.Sprintf("must contain at most %d tenures", MaxCompareTenures))
	}
	for _, tenure := range p.DefaultTenures {
		if tenure <= 0 || tenure > MaxTenureYears {
			return invalidInput("default_tenures", fmt.Sprintf("must contain years between 1 and %d", MaxTenureYears))
		}
	}
	return nil
}

func (p Policy) shocksOrDefault(shocks []float64) []float64 {
	if shocks == nil {
		return append([]float64(nil), p.DefaultShocks...)
	}
	return shocks
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

package finance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultPolicyValid проверяет значения по умолчанию.
func TestDefaultPolicyValid(t *testing.T) {
	policy := DefaultPolicy()

	require.NoError(t, policy.Validate())
	assert.Equal(t, 0.35, policy.ModerateRatio)
	assert.Equal(t, 0.50, policy.HighRatio)
	assert.Equal(t, []float64{1.0, 2.0}, policy.DefaultShocks)
	assert.Equal(t, []int{3, 5, 7}, policy.DefaultTenures)
}

// TestPolicyValidateRejects проверяет несогласованные пороги.
func TestPolicyValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Policy)
		field  string
	}{
		{"moderate above high", func(p *Policy) { p.ModerateRatio = 0.6 }, "moderate_ratio"},
		{"moderate equals high", func(p *Policy) { p.ModerateRatio = p.HighRatio }, "moderate_ratio"},
		{"zero high", func(p *Policy) { p.HighRatio = 0 }, "high_ratio"},
		{"nan moderate", func(p *Policy) { p.ModerateRatio = math.NaN() }, "moderate_ratio"},
		{"infinite shock", func(p *Policy) { p.DefaultShocks = []float64{math.Inf(1)} }, "default_shocks"},
		{"no tenures", func(p *Policy) { p.DefaultTenures = nil }, "default_tenures"},
		{"zero tenure", func(p *Policy) { p.DefaultTenures = []int{5, 0} }, "default_tenures"},
		{"tenure above limit", func(p *Policy) { p.DefaultTenures = []int{5, MaxTenureYears + 1} }, "default_tenures"},
		{"too many tenures", func(p *Policy) { p.DefaultTenures = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11} }, "default_tenures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := DefaultPolicy()
			tt.mutate(&policy)

			err := policy.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var engineErr *Error
			require.True(t, errors.As(err, &engineErr))
			assert.Equal(t, tt.field, engineErr.Field)
		})
	}
}

// TestShocksOrDefault проверяет, что пустой список шоков не заменяется.
func TestShocksOrDefault(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t, []float64{1.0, 2.0}, policy.shocksOrDefault(nil))
	assert.Empty(t, policy.shocksOrDefault([]float64{}))
	assert.Equal(t, []float64{0.5}, policy.shocksOrDefault([]float64{0.5}))

	shocks := policy.shocksOrDefault(nil)
	shocks[0] = 9
	assert.Equal(t, 1.0, policy.DefaultShocks[0])
}

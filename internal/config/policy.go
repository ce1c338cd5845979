package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

// LoadPolicy собирает политику без остальной конфигурации сервера:
// значения по умолчанию, затем POLICY_FILE, затем переменные окружения.
func LoadPolicy() (finance.Policy, error) {
	if err := loadEnv(); err != nil {
		return finance.Policy{}, err
	}

	policy, err := loadPolicy()
	if err != nil {
		return finance.Policy{}, err
	}

	if err := policy.Validate(); err != nil {
		return finance.Policy{}, fmt.Errorf("policy: %w", err)
	}
	return policy, nil
}

func loadPolicy() (finance.Policy, error) {
	policy := finance.DefaultPolicy()

	if path := getEnv("POLICY_FILE", ""); path != "" {
		if err := decodePolicyFile(path, &policy); err != nil {
			return policy, err
		}
	}

	highRatio, err := parseFloatEnv("POLICY_HIGH_RATIO", policy.HighRatio)
	if err != nil {
		return policy, err
	}
	policy.HighRatio = highRatio

	moderateRatio, err := parseFloatEnv("POLICY_MODERATE_RATIO", policy.ModerateRatio)
	if err != nil {
		return policy, err
	}
	policy.ModerateRatio = moderateRatio

	if values := parseCSVEnv("POLICY_SHOCKS"); values != nil {
		shocks := make([]float64, 0, len(values))
		for _, value := range values {
			shock, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return policy, fmt.Errorf("POLICY_SHOCKS must contain numbers: %w", err)
			}
			shocks = append(shocks, shock)
		}
		policy.DefaultShocks = shocks
	}

	if values := parseCSVEnv("POLICY_TENURES"); values != nil {
		tenures := make([]int, 0, len(values))
		for _, value := range values {
			tenure, err := strconv.Atoi(value)
			if err != nil {
				return policy, fmt.Errorf("POLICY_TENURES must contain integers: %w", err)
			}
			tenures = append(tenures, tenure)
		}
		policy.DefaultTenures = tenures
	}

	return policy, nil
}

// decodePolicyFile читает TOML поверх уже заполненной политики,
// поэтому отсутствующие в файле ключи сохраняют значения по умолчанию.
func decodePolicyFile(path string, policy *finance.Policy) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, policy); err != nil {
		return fmt.Errorf("parse policy file %s: %w", path, err)
	}

	return nil
}

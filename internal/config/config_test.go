package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestParseCSVEnv проверяет разбор списка значений из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("POLICY_SHOCKS", " 0.5, ,1.5 ")

	got := parseCSVEnv("POLICY_SHOCKS")
	want := []string{"0.5", "1.5"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestLoadDefaults проверяет значения по умолчанию без окружения.
func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "groq-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AI.APIKey != "groq-key" {
		t.Fatalf("expected key from GROQ_API_KEY, got %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model %q", cfg.AI.Model)
	}
	if cfg.Database.Enabled {
		t.Fatalf("database must be disabled by default")
	}
	if cfg.Cache.Driver != CacheDriverMemory {
		t.Fatalf("expected memory cache, got %q", cfg.Cache.Driver)
	}
	if cfg.Policy.HighRatio != 0.50 || cfg.Policy.ModerateRatio != 0.35 {
		t.Fatalf("unexpected policy thresholds %+v", cfg.Policy)
	}
}

// TestLoadPolicyFromFile проверяет переопределение политики из TOML и ENV.
func TestLoadPolicyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.toml")
	content := "moderate_ratio = 0.30\ndefault_tenures = [2, 4]\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}

	t.Setenv("POLICY_FILE", path)
	t.Setenv("POLICY_SHOCKS", "0.5,1,3")

	policy, err := LoadPolicy()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if policy.ModerateRatio != 0.30 {
		t.Fatalf("expected moderate ratio from file, got %v", policy.ModerateRatio)
	}
	if policy.HighRatio != 0.50 {
		t.Fatalf("expected default high ratio, got %v", policy.HighRatio)
	}
	if !reflect.DeepEqual(policy.DefaultTenures, []int{2, 4}) {
		t.Fatalf("unexpected tenures %v", policy.DefaultTenures)
	}
	if !reflect.DeepEqual(policy.DefaultShocks, []float64{0.5, 1, 3}) {
		t.Fatalf("unexpected shocks %v", policy.DefaultShocks)
	}
}

// TestLoadRejectsInconsistentPolicy проверяет проверку порогов.
func TestLoadRejectsInconsistentPolicy(t *testing.T) {
	t.Setenv("POLICY_MODERATE_RATIO", "0.6")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for moderate ratio above high ratio")
	}
}

// TestLoadRejectsUnknownCacheDriver проверяет проверку драйвера кеша.
func TestLoadRejectsUnknownCacheDriver(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "memcached")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown cache driver")
	}
}

// TestDSN проверяет сборку строки подключения.
func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "copilot", Password: "p@ss", Name: "finance", SSLMode: "disable"}

	want := "postgres://copilot:p%40ss@db:5432/finance?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

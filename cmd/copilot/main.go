package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"example.com/ai-finance-copilot/backend/internal/config"
	"example.com/ai-finance-copilot/backend/internal/finance"
)

var (
	flagPrincipal  float64
	flagRate       float64
	flagTenure     int
	flagSalary     float64
	flagExpenses   float64
	flagShocks     []float64
	flagTenures    []int
	flagPolicyFile string
	flagJSON       bool
)

var rootCmd = &cobra.Command{
	Use:           "copilot",
	Short:         "Loan affordability copilot",
	Long:          "Compute EMIs, classify affordability with a rule trace, stress-test rate hikes and compare tenures.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Float64VarP(&flagPrincipal, "principal", "p", 500000, "Loan amount")
	flags.Float64VarP(&flagRate, "rate", "r", 8.5, "Annual interest rate, percent")
	flags.IntVarP(&flagTenure, "tenure", "t", 5, "Tenure in years")
	flags.Float64VarP(&flagSalary, "salary", "s", 0, "Monthly salary")
	flags.Float64VarP(&flagExpenses, "expenses", "e", 0, "Monthly expenses")
	flags.Float64SliceVar(&flagShocks, "shocks", nil, "Rate shocks in percentage points (default from policy)")
	flags.IntSliceVar(&flagTenures, "tenures", nil, "Tenures to compare in years (default from policy)")
	flags.StringVar(&flagPolicyFile, "policy", "", "TOML policy file, overrides POLICY_FILE")
	flags.BoolVar(&flagJSON, "json", false, "Print JSON instead of tables")
}

func loadPolicy() (finance.Policy, error) {
	if flagPolicyFile != "" {
		if err := os.Setenv("POLICY_FILE", flagPolicyFile); err != nil {
			return finance.Policy{}, err
		}
	}
	return config.LoadPolicy()
}

// shocksFlag возвращает nil, если флаг не задан, чтобы сработали шоки политики.
func shocksFlag(cmd *cobra.Command) []float64 {
	if !cmd.Flags().Changed("shocks") {
		return nil
	}
	if flagShocks == nil {
		return []float64{}
	}
	return flagShocks
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"example.com/ai-finance-copilot/backend/internal/agent"
	"example.com/ai-finance-copilot/backend/internal/ai"
	"example.com/ai-finance-copilot/backend/internal/cli"
	"example.com/ai-finance-copilot/backend/internal/config"
	"example.com/ai-finance-copilot/backend/internal/server"
)

var (
	flagOperation string
	flagNarrate   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Route a question to the engine and explain the result",
	Long:  "Runs the operation picked from the question (or --op) and asks the configured model to explain the numbers. Without AI_API_KEY the explanation is built from the tool output.",
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&flagOperation, "op", "", "Operation: emi, affordability, stress_test, compare, full")
	askCmd.Flags().BoolVar(&flagNarrate, "narrate", false, "Explain narrow operations too")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if flagPolicyFile != "" {
		if _, err := loadPolicy(); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	operation, err := agent.ParseOperation(flagOperation)
	if err != nil {
		return err
	}

	var client ai.Client
	if cfg.AI.APIKey != "" {
		client = server.NewAIClient(cfg.AI)
	}
	narrator := ai.NewNarrator(client, nil, cfg.AI.Provider, cfg.AI.Model, cfg.AI.Timeout)
	copilot := agent.New(cfg.Policy, narrator)

	response, err := copilot.Run(context.Background(), agent.Request{
		Query:             strings.Join(args, " "),
		Operation:         operation,
		MonthlySalary:     flagSalary,
		MonthlyExpenses:   flagExpenses,
		Principal:         flagPrincipal,
		AnnualRatePercent: flagRate,
		TenureYears:       flagTenure,
		CompareTenures:    flagTenures,
		Shocks:            shocksFlag(cmd),
		Narrate:           flagNarrate,
	})
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(agent.BuildTrace(response))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(string(response.Operation))))
	fmt.Println()
	fmt.Println(response.ToolOutput)

	if response.Narration != nil {
		fmt.Println()
		fmt.Println(cli.RenderMuted(fmt.Sprintf("explanation (%s)", response.Narration.Source)))
		fmt.Println(response.Narration.Text)
	}
	return nil
}

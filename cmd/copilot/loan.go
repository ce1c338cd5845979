package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"example.com/ai-finance-copilot/backend/internal/cli"
	"example.com/ai-finance-copilot/backend/internal/finance"
)

var flagScheduleRows int

var emiCmd = &cobra.Command{
	Use:   "emi",
	Short: "Monthly EMI, total interest and total payment",
	RunE:  runEMI,
}

var affordCmd = &cobra.Command{
	Use:   "afford",
	Short: "Affordability risk band with the full rule trace",
	RunE:  runAfford,
}

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "EMI and risk under interest rate shocks",
	RunE:  runStress,
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare tenures and recommend one",
	RunE:  runCompare,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Month by month amortization schedule",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().IntVar(&flagScheduleRows, "rows", 12, "Rows to show, 0 for all")
	rootCmd.AddCommand(emiCmd, affordCmd, stressCmd, compareCmd, scheduleCmd)
}

func income() finance.IncomeProfile {
	return finance.IncomeProfile{MonthlySalary: flagSalary, MonthlyExpenses: flagExpenses}
}

func runEMI(_ *cobra.Command, _ []string) error {
	result, err := finance.ComputeEMI(flagPrincipal, flagRate, flagTenure)
	if err != nil {
		return err
	}

	view := finance.NewEMIView(result)
	if flagJSON {
		return printJSON(view)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("EMI CALCULATION"))
	fmt.Println()
	fmt.Print(cli.RenderEMI(view))
	return nil
}

func runAfford(_ *cobra.Command, _ []string) error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	emi, err := finance.ComputeEMI(flagPrincipal, flagRate, flagTenure)
	if err != nil {
		return err
	}

	assessment, err := finance.AssessAffordability(policy, income(), emi)
	if err != nil {
		return err
	}

	view := finance.NewAssessmentView(assessment)
	if flagJSON {
		return printJSON(view)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("AFFORDABILITY"))
	fmt.Println()
	fmt.Print(cli.RenderEMI(finance.NewEMIView(emi)))
	fmt.Println()
	fmt.Print(cli.RenderAssessment(view))
	return nil
}

func runStress(cmd *cobra.Command, _ []string) error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	loan := finance.LoanRequest{Principal: flagPrincipal, AnnualRatePercent: flagRate, TenureYears: []int{flagTenure}}
	results, err := finance.StressTest(policy, loan, income(), shocksFlag(cmd), flagTenure)
	if err != nil {
		return err
	}

	base, err := finance.ComputeEMI(flagPrincipal, flagRate, flagTenure)
	if err != nil {
		return err
	}

	views := finance.NewStressViews(results)
	if flagJSON {
		return printJSON(views)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("STRESS TEST"))
	fmt.Println()
	fmt.Print(cli.RenderStress(finance.NewEMIView(base), views))
	return nil
}

func runCompare(cmd *cobra.Command, _ []string) error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	tenures := flagTenures
	if len(tenures) == 0 {
		tenures = policy.DefaultTenures
	}

	loan := finance.LoanRequest{Principal: flagPrincipal, AnnualRatePercent: flagRate, TenureYears: tenures}
	report, err := finance.CompareScenarios(policy, loan, income(), shocksFlag(cmd))
	if err != nil {
		return err
	}

	view := finance.NewReportView(report)
	if flagJSON {
		return printJSON(view)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TENURE COMPARISON"))
	fmt.Println()
	fmt.Print(cli.RenderReport(view))
	return nil
}

func runSchedule(_ *cobra.Command, _ []string) error {
	entries, err := finance.Schedule(flagPrincipal, flagRate, flagTenure)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(entries)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCHEDULE  %d months", len(entries))))
	fmt.Println()
	fmt.Print(cli.RenderSchedule(entries, flagScheduleRows))
	return nil
}

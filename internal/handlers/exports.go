package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

// ExportScenariosCSV выгружает сравнение сроков в CSV, по строке на сценарий и шок.
func (h *FinanceHandler) ExportScenariosCSV(c echo.Context) error {
	report, written, err := h.compare(c)
	if written {
		return err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writeScenariosCSV(writer, finance.NewReportView(report)); err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\"loan-scenarios.csv\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func writeScenariosCSV(writer *csv.Writer, report finance.ReportView) error {
	header := []string{
		"tenure_years",
		"tenure_months",
		"monthly_emi",
		"total_interest",
		"total_payment",
		"risk_band",
		"decisive_rule",
		"emi_to_income_ratio",
		"disposable_income",
		"recommended",
		"shock_percent",
		"shocked_rate_percent",
		"shocked_emi",
		"delta_emi",
		"shocked_risk_band",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, scenario := range report.Scenarios {
		base := []string{
			formatInt(scenario.TenureYears),
			formatInt(scenario.EMI.TenureMonths),
			formatFloat(scenario.EMI.MonthlyEMI),
			formatFloat(scenario.EMI.TotalInterest),
			formatFloat(scenario.EMI.TotalPayment),
			string(scenario.Affordability.RiskBand),
			scenario.Affordability.DecisiveRule,
			formatOptionalFloat(scenario.Affordability.EMIToIncomeRatio),
			formatFloat(scenario.Affordability.DisposableIncome),
			formatBool(scenario.Recommended),
		}

		if len(scenario.Stress) == 0 {
			if err := writer.Write(append(base, "", "", "", "", "")); err != nil {
				return err
			}
			continue
		}

		for _, stress := range scenario.Stress {
			record := append(append([]string(nil), base...),
				formatFloat(stress.ShockPercent),
				formatFloat(stress.ShockedRatePercent),
				formatFloat(stress.ShockedEMI.MonthlyEMI),
				formatFloat(stress.DeltaEMI),
				string(stress.DeltaAffordability.RiskBand),
			)
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	return nil
}

func formatInt(value int) string {
	return strconv.Itoa(value)
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return formatFloat(*value)
}

func formatBool(value bool) string {
	if value {
		return "true"
	}
	return "false"
}

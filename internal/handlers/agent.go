package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-finance-copilot/backend/internal/agent"
	"example.com/ai-finance-copilot/backend/internal/ai"
	"example.com/ai-finance-copilot/backend/internal/metrics"
	"example.com/ai-finance-copilot/backend/internal/models"
)

// NarrationLogger сохраняет аудит объяснений; при выключенной БД не задается.
type NarrationLogger interface {
	Log(ctx context.Context, log models.NarrationLog) (models.NarrationLog, error)
}

type AgentHandler struct {
	Agent      *agent.Agent
	Narrations NarrationLogger
	Metrics    *metrics.Metrics
}

// NewAgentHandler создает обработчик вопросов к агенту.
func NewAgentHandler(a *agent.Agent, narrations NarrationLogger, m *metrics.Metrics) *AgentHandler {
	return &AgentHandler{Agent: a, Narrations: narrations, Metrics: m}
}

type AskRequest struct {
	Query             string    `json:"query" validate:"max=2000"`
	Operation         string    `json:"operation"`
	MonthlySalary     float64   `json:"monthly_salary"`
	MonthlyExpenses   float64   `json:"monthly_expenses"`
	Principal         float64   `json:"principal"`
	AnnualRatePercent float64   `json:"annual_rate_percent"`
	TenureYears       int       `json:"tenure_years" validate:"lte=50"`
	CompareTenures    []int     `json:"compare_tenures" validate:"max=10"`
	Shocks            []float64 `json:"shocks"`
	SkipStress        bool      `json:"skip_stress"`
	Narrate           bool      `json:"narrate"`
}

type ExplanationResponse struct {
	Text        string     `json:"text"`
	Source      string     `json:"source"`
	Provider    string     `json:"provider"`
	Model       string     `json:"model"`
	NarrationID *uuid.UUID `json:"narration_id,omitempty"`
}

type AskResponse struct {
	agent.Trace
	Query       string               `json:"query"`
	ToolOutput  string               `json:"tool_output"`
	Explanation *ExplanationResponse `json:"explanation,omitempty"`
}

// Ask выполняет выбранную агентом операцию и возвращает объяснение.
// Ошибки модели не ломают ответ: объяснение приходит из запасного текста.
func (h *AgentHandler) Ask(c echo.Context) error {
	var req AskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	operation, err := agent.ParseOperation(req.Operation)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: kindInvalidInput, Field: "operation"})
	}

	started := time.Now()
	response, err := h.Agent.Run(c.Request().Context(), agent.Request{
		Query:             req.Query,
		Operation:         operation,
		MonthlySalary:     req.MonthlySalary,
		MonthlyExpenses:   req.MonthlyExpenses,
		Principal:         req.Principal,
		AnnualRatePercent: req.AnnualRatePercent,
		TenureYears:       req.TenureYears,
		CompareTenures:    req.CompareTenures,
		Shocks:            req.Shocks,
		SkipStress:        req.SkipStress,
		Narrate:           req.Narrate,
	})
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.ObserveOperationError(string(orDefault(operation)), errorKind(err))
		}
		return writeEngineError(c, err)
	}

	trace := agent.BuildTrace(response)
	if h.Metrics != nil {
		h.Metrics.ObserveOperation(string(response.Operation))
		if response.Affordability != nil {
			h.Metrics.ObserveRiskBand(string(response.Affordability.RiskBand))
		}
	}

	body := AskResponse{
		Trace:      trace,
		Query:      response.Query,
		ToolOutput: response.ToolOutput,
	}

	if narration := response.Narration; narration != nil {
		if h.Metrics != nil {
			h.Metrics.ObserveNarration(narration.Provider, narration.Source, time.Since(started))
		}

		body.Explanation = &ExplanationResponse{
			Text:     narration.Text,
			Source:   narration.Source,
			Provider: narration.Provider,
			Model:    narration.Model,
		}
		if id, ok := h.logNarration(c, response, trace, *narration); ok {
			body.Explanation.NarrationID = &id
		}
	}

	return c.JSON(http.StatusOK, body)
}

func (h *AgentHandler) logNarration(c echo.Context, response agent.Response, trace agent.Trace, narration ai.Narration) (uuid.UUID, bool) {
	if h.Narrations == nil {
		return uuid.Nil, false
	}

	log := models.NarrationLog{
		RequestID:   c.Response().Header().Get(echo.HeaderXRequestID),
		Operation:   string(response.Operation),
		Provider:    narration.Provider,
		Model:       narration.Model,
		Source:      models.NarrationSource(narration.Source),
		Query:       response.Query,
		Trace:       encodeTrace(string(response.Operation), trace),
		Explanation: narration.Text,
		Success:     !narration.Failed(),
	}
	if narration.Prompt != "" {
		prompt := narration.Prompt
		log.Prompt = &prompt
	}
	if len(narration.Raw) > 0 {
		raw := string(narration.Raw)
		log.RawResponse = &raw
	}
	if narration.Err != nil {
		errMsg := narration.Err.Error()
		log.ErrorMessage = &errMsg
	}

	saved, err := h.Narrations.Log(c.Request().Context(), log)
	if err != nil {
		slog.Warn("narration log failed", slog.String("operation", log.Operation), slog.String("error", err.Error()))
		return uuid.Nil, false
	}

	return saved.ID, true
}

func orDefault(operation agent.Operation) agent.Operation {
	if operation == "" {
		return agent.OpFull
	}
	return operation
}

// encodeTrace кодирует трассу для журнала. При ошибке запись сохраняется без трассы.
func encodeTrace(operation string, trace any) json.RawMessage {
	payload, err := json.Marshal(trace)
	if err != nil {
		slog.Warn("narration trace encode failed", slog.String("operation", operation), slog.String("error", err.Error()))
		return nil
	}
	return payload
}

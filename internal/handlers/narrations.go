package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/ai-finance-copilot/backend/internal/models"
	"example.com/ai-finance-copilot/backend/internal/repository"
)

const timeLayout = time.RFC3339

type NarrationHandler struct {
	Repo *repository.NarrationRepository
}

// NewNarrationHandler создает обработчик журнала объяснений.
func NewNarrationHandler(repo *repository.NarrationRepository) *NarrationHandler {
	return &NarrationHandler{Repo: repo}
}

type NarrationResponse struct {
	ID           uuid.UUID       `json:"id"`
	RequestID    string          `json:"request_id,omitempty"`
	Operation    string          `json:"operation"`
	Provider     string          `json:"provider"`
	Model        string          `json:"model"`
	Source       string          `json:"source"`
	Query        string          `json:"query"`
	Explanation  string          `json:"explanation"`
	Success      bool            `json:"success"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
	Prompt       *string         `json:"prompt,omitempty"`
	Trace        json.RawMessage `json:"trace,omitempty"`
	RawResponse  *string         `json:"raw_response,omitempty"`
}

type NarrationsResponse struct {
	Total      int                 `json:"total"`
	Narrations []NarrationResponse `json:"narrations"`
}

type NarrationUsageDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type NarrationStatsResponse struct {
	Total    int                 `json:"total"`
	Success  int                 `json:"success"`
	Fallback int                 `json:"fallback"`
	Cached   int                 `json:"cached"`
	ByDay    []NarrationUsageDay `json:"by_day"`
}

// List возвращает журнал объяснений с фильтрами и пагинацией.
func (h *NarrationHandler) List(c echo.Context) error {
	limit, offset, err := parsePagination(c, 50, 200)
	if err != nil {
		return badRequest(c, err.Error())
	}

	filter := repository.NarrationFilter{}
	if raw := strings.TrimSpace(c.QueryParam("success")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "invalid success")
		}
		filter.Success = &parsed
	}

	if raw := strings.TrimSpace(c.QueryParam("source")); raw != "" {
		switch models.NarrationSource(raw) {
		case models.NarrationSourceLLM, models.NarrationSourceFallback, models.NarrationSourceCache:
		default:
			return badRequest(c, "invalid source")
		}
		filter.Source = &raw
	}

	if raw := strings.TrimSpace(c.QueryParam("operation")); raw != "" {
		filter.Operation = &raw
	}

	logs, err := h.Repo.List(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return serverError(c)
	}

	total, err := h.Repo.Count(c.Request().Context(), filter)
	if err != nil {
		return serverError(c)
	}

	response := make([]NarrationResponse, 0, len(logs))
	for _, log := range logs {
		response = append(response, toNarrationResponse(log))
	}

	return c.JSON(http.StatusOK, NarrationsResponse{
		Total:      total,
		Narrations: response,
	})
}

// Get возвращает одну запись журнала вместе с промптом и трассой.
func (h *NarrationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid narration id")
	}

	log, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "narration not found")
		}
		return serverError(c)
	}

	response := toNarrationResponse(log)
	response.Prompt = log.Prompt
	response.Trace = log.Trace
	response.RawResponse = log.RawResponse
	return c.JSON(http.StatusOK, response)
}

// Stats возвращает агрегаты журнала за последние дни.
func (h *NarrationHandler) Stats(c echo.Context) error {
	days := 7
	if raw := strings.TrimSpace(c.QueryParam("days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return badRequest(c, "invalid days")
		}
		if parsed > 30 {
			parsed = 30
		}
		days = parsed
	}

	stats, err := h.Repo.Stats(c.Request().Context(), days)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid days")
		}
		return serverError(c)
	}

	byDay := make([]NarrationUsageDay, 0, len(stats.ByDay))
	for _, day := range stats.ByDay {
		byDay = append(byDay, NarrationUsageDay{
			Date:  day.Day.Format("2006-01-02"),
			Count: day.Count,
		})
	}

	return c.JSON(http.StatusOK, NarrationStatsResponse{
		Total:    stats.Total,
		Success:  stats.Success,
		Fallback: stats.Fallback,
		Cached:   stats.Cached,
		ByDay:    byDay,
	})
}

func toNarrationResponse(log models.NarrationLog) NarrationResponse {
	return NarrationResponse{
		ID:           log.ID,
		RequestID:    log.RequestID,
		Operation:    log.Operation,
		Provider:     log.Provider,
		Model:        log.Model,
		Source:       string(log.Source),
		Query:        log.Query,
		Explanation:  log.Explanation,
		Success:      log.Success,
		ErrorMessage: log.ErrorMessage,
		CreatedAt:    log.CreatedAt.Format(timeLayout),
	}
}

func parsePagination(c echo.Context, defaultLimit, maxLimit int) (int, int, error) {
	limit := defaultLimit
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, 0, errors.New("invalid limit")
		}
		if parsed > maxLimit {
			parsed = maxLimit
		}
		limit = parsed
	}

	offset := 0
	if raw := strings.TrimSpace(c.QueryParam("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, errors.New("invalid offset")
		}
		offset = parsed
	}

	return limit, offset, nil
}

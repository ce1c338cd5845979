package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthResponse struct {
	Status     string `json:"status"`
	Narrations string `json:"narrations"`
	Database   string `json:"database"`
}

type HealthHandler struct {
	AIConfigured bool
	DBEnabled    bool
}

// NewHealthHandler создает обработчик статуса сервиса.
func NewHealthHandler(aiConfigured, dbEnabled bool) *HealthHandler {
	return &HealthHandler{AIConfigured: aiConfigured, DBEnabled: dbEnabled}
}

// Health возвращает статус сервиса. Без ключа модели расчеты работают,
// а объяснения строятся запасным способом.
func (h *HealthHandler) Health(c echo.Context) error {
	response := HealthResponse{Status: "ok", Narrations: "llm", Database: "disabled"}
	if !h.AIConfigured {
		response.Narrations = "fallback"
	}
	if h.DBEnabled {
		response.Database = "enabled"
	}
	return c.JSON(http.StatusOK, response)
}

package handlers

import (
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ai-finance-copilot/backend/internal/agent"
	"example.com/ai-finance-copilot/backend/internal/ai"
	"example.com/ai-finance-copilot/backend/internal/finance"
	"example.com/ai-finance-copilot/backend/internal/models"
)

type recordingLogger struct {
	logs []models.NarrationLog
}

func (r *recordingLogger) Log(_ context.Context, log models.NarrationLog) (models.NarrationLog, error) {
	log.ID = uuid.New()
	r.logs = append(r.logs, log)
	return log, nil
}

// TestLogNarrationStoresTrace проверяет запись трассы и идентификатора запроса.
func TestLogNarrationStoresTrace(t *testing.T) {
	c, _ := newContext()
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")

	emi, err := finance.ComputeEMI(500000, 8.5, 5)
	require.NoError(t, err)
	response := agent.Response{Operation: agent.OpEMI, Query: "emi?", EMI: &emi}

	logger := &recordingLogger{}
	h := NewAgentHandler(nil, logger, nil)
	narration := ai.Narration{Text: "explained", Source: ai.SourceLLM, Provider: ai.ProviderGroq}

	id, ok := h.logNarration(c, response, agent.BuildTrace(response), narration)
	require.True(t, ok)
	require.Len(t, logger.logs, 1)

	saved := logger.logs[0]
	assert.Equal(t, saved.ID, id)
	assert.Equal(t, "req-1", saved.RequestID)
	assert.True(t, saved.Success)

	var trace map[string]any
	require.NoError(t, json.Unmarshal(saved.Trace, &trace))
	assert.Equal(t, "emi", trace["operation"])
}

// TestEncodeTraceFailure проверяет, что некодируемая трасса не превращается в пустой JSON.
func TestEncodeTraceFailure(t *testing.T) {
	assert.Nil(t, encodeTrace("emi", map[string]float64{"ratio": math.Inf(1)}))

	payload := encodeTrace("emi", map[string]float64{"ratio": 0.25})
	assert.JSONEq(t, `{"ratio":0.25}`, string(payload))
}

package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NarrationSource string

const (
	NarrationSourceLLM      NarrationSource = "llm"
	NarrationSourceFallback NarrationSource = "fallback"
	NarrationSourceCache    NarrationSource = "cache"
)

// NarrationLog хранит запись аудита одного запроса к слою объяснений.
type NarrationLog struct {
	ID           uuid.UUID       `json:"id"`
	RequestID    string          `json:"request_id,omitempty"`
	Operation    string          `json:"operation"`
	Provider     string          `json:"provider"`
	Model        string          `json:"model"`
	Source       NarrationSource `json:"source"`
	Query        string          `json:"query"`
	Prompt       *string         `json:"prompt,omitempty"`
	Trace        json.RawMessage `json:"trace,omitempty"`
	Explanation  string          `json:"explanation"`
	RawResponse  *string         `json:"raw_response,omitempty"`
	Success      bool            `json:"success"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type DailyCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// NarrationStats содержит агрегаты журнала объяснений за период.
type NarrationStats struct {
	Total    int          `json:"total"`
	Success  int          `json:"success"`
	Fallback int          `json:"fallback"`
	Cached   int          `json:"cached"`
	ByDay    []DailyCount `json:"by_day"`
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

const (
	defaultMaxTokens   = 1024
	defaultTemperature = 0.4
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client возвращает текст ответа модели и сырой ответ API для аудита.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, []byte, error)
}

// Options задает общие параметры генерации для всех провайдеров.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// APIError описывает ответ провайдера с кодом вне 2xx.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// Temporary сообщает, что запрос имеет смысл повторить позже.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// postJSON отправляет JSON и возвращает тело ответа. Для ответа вне 2xx
// возвращается *APIError, сообщение берется из errorMessage, если оно непустое.
func postJSON(
	ctx context.Context,
	httpClient *http.Client,
	provider, endpoint string,
	headers map[string]string,
	request any,
	errorMessage func(body []byte) string,
) ([]byte, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	response, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", provider, err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		message := errorMessage(body)
		if message == "" {
			message = strings.TrimSpace(string(body))
		}
		return body, &APIError{Provider: provider, StatusCode: response.StatusCode, Message: message}
	}

	return body, nil
}

func resolveMaxTokens(value int) int {
	if value > 0 {
		return value
	}

	return defaultMaxTokens
}

func resolveTemperature(value float64) float64 {
	if value > 0 {
		return value
	}

	return defaultTemperature
}

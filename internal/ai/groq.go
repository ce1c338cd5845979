package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GroqClient вызывает OpenAI-совместимый chat completions API Groq.
type GroqClient struct {
	apiKey     string
	endpoint   string
	model      string
	options    Options
	httpClient *http.Client
}

type groqChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type groqChatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGroqClient создает клиент Groq. baseURL указывается без /chat/completions.
func NewGroqClient(apiKey, baseURL, model string, timeout time.Duration, options Options) *GroqClient {
	return &GroqClient{
		apiKey:     apiKey,
		endpoint:   strings.TrimRight(baseURL, "/") + "/chat/completions",
		model:      model,
		options:    options,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Chat отправляет сообщения в Groq. Пустой ответ модели считается ошибкой.
func (c *GroqClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", nil, errors.New("groq api key is missing")
	}

	request := groqChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: resolveTemperature(c.options.Temperature),
		MaxTokens:   resolveMaxTokens(c.options.MaxTokens),
	}

	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	body, err := postJSON(ctx, c.httpClient, ProviderGroq, c.endpoint, headers, request, groqErrorMessage)
	if err != nil {
		return "", body, err
	}

	var parsed groqChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", body, fmt.Errorf("decode groq response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", body, errors.New("groq response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", body, fmt.Errorf("groq response is empty (finish reason %q)", parsed.Choices[0].FinishReason)
	}

	return content, body, nil
}

func groqErrorMessage(body []byte) string {
	var parsed groqChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == nil {
		return ""
	}
	return parsed.Error.Message
}

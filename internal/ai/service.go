package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const requestTypeNarration = "narration"

const systemPrompt = `You are a personal finance copilot that explains loan calculations.

Rules:
- The tool results were computed by a deterministic calculator. Use the numbers exactly as given and never recompute, round differently or invent figures.
- Explain the risk level by citing the decision rules from the trace: which rule decided the band and which rules passed.
- When a scenario comparison is present, explain why the recommended tenure was picked using the recommendation rationale.
- When stress test results are present, describe how the EMI and the risk level change under each rate shock.
- If every scenario is SEVERE, say clearly that no tenure is affordable.
- Keep the answer short, plain and practical. Do not give legal or tax advice.`

// Narrator превращает результаты расчета в объяснение на естественном языке.
// Любая ошибка модели заменяется детерминированным текстом.
type Narrator struct {
	client   Client
	cache    Cache
	provider string
	model    string
	timeout  time.Duration
}

// NewNarrator создает сервис объяснений. cache может быть nil.
func NewNarrator(client Client, cache Cache, provider, model string, timeout time.Duration) *Narrator {
	return &Narrator{
		client:   client,
		cache:    cache,
		provider: provider,
		model:    model,
		timeout:  timeout,
	}
}

// Explain запрашивает у модели объяснение и никогда не возвращает ошибку:
// при сбое в Narration.Err лежит причина, а текст собран из результатов.
func (n *Narrator) Explain(ctx context.Context, input NarrationInput) Narration {
	narration := Narration{Provider: n.provider, Model: n.model}

	prompt, err := buildNarrationPrompt(input)
	if err != nil {
		return n.fallback(narration, input, err)
	}
	narration.Prompt = prompt

	key := CacheKey(n.provider, n.model, systemPrompt+"\n"+prompt)
	if n.cache != nil {
		cached, ok, err := n.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("narration cache read failed", slog.String("error", err.Error()))
		}
		if ok {
			narration.Text = cached
			narration.Source = SourceCache
			return narration
		}
	}

	if n.client == nil {
		return n.fallback(narration, input, errors.New("ai client is not configured"))
	}

	chatCtx := ctx
	if n.timeout > 0 {
		var cancel context.CancelFunc
		chatCtx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: prompt},
	}

	content, raw, err := n.client.Chat(chatCtx, messages)
	narration.Raw = raw
	if err != nil {
		return n.fallback(narration, input, err)
	}

	narration.Text = strings.TrimSpace(content)
	narration.Source = SourceLLM
	slog.Info("ai narration generated",
		slog.String("request_type", requestTypeNarration),
		slog.String("provider", n.provider),
		slog.String("model", n.model),
	)

	if n.cache != nil {
		if err := n.cache.Set(ctx, key, narration.Text); err != nil {
			slog.Warn("narration cache write failed", slog.String("error", err.Error()))
		}
	}

	return narration
}

func (n *Narrator) fallback(narration Narration, input NarrationInput, err error) Narration {
	attrs := []any{
		slog.String("request_type", requestTypeNarration),
		slog.String("provider", n.provider),
		slog.String("model", n.model),
		slog.String("error", err.Error()),
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		attrs = append(attrs, slog.Int("status", apiErr.StatusCode), slog.Bool("temporary", apiErr.Temporary()))
	}
	slog.Warn("ai narration fallback used", attrs...)

	narration.Text = FallbackExplanation(input)
	narration.Source = SourceFallback
	narration.Err = err
	return narration
}

// FallbackExplanation собирает объяснение без модели из готовых результатов.
func FallbackExplanation(input NarrationInput) string {
	var builder strings.Builder
	builder.WriteString("The AI explanation is unavailable right now. The figures below come straight from the calculator.")

	if summary := strings.TrimSpace(input.Summary); summary != "" {
		builder.WriteString("\n\n")
		builder.WriteString(summary)
	}
	if output := strings.TrimSpace(input.ToolOutput); output != "" {
		builder.WriteString("\n\n")
		builder.WriteString(output)
	}

	return builder.String()
}

func buildNarrationPrompt(input NarrationInput) (string, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return "", errors.New("narration query is empty")
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "User Question: %s\n\n", query)
	fmt.Fprintf(&builder, "Tool Results (use these numbers exactly, do NOT recompute):\n%s", strings.TrimSpace(input.ToolOutput))

	if input.Trace != nil {
		payload, err := json.MarshalIndent(input.Trace, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal narration trace: %w", err)
		}
		fmt.Fprintf(&builder, "\n\nDecision Trace (JSON):\n%s", string(payload))
	}

	return builder.String(), nil
}

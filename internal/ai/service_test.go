package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	content  string
	err      error
	calls    int
	messages []Message
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, []byte, error) {
	f.calls++
	f.messages = messages
	if f.err != nil {
		return "", []byte(`{"error":"boom"}`), f.err
	}
	return f.content, []byte(`{"ok":true}`), nil
}

func sampleInput() NarrationInput {
	return NarrationInput{
		Query:      "Can I afford this loan?",
		ToolOutput: "=== EMI Calculation ===\n• Monthly EMI: ₹10,258.27",
		Trace:      map[string]string{"risk_band": "LOW"},
		Summary:    "Recommended tenure: 5 years (LOW risk).",
	}
}

// TestExplainUsesModelAnswer проверяет успешный ответ модели.
func TestExplainUsesModelAnswer(t *testing.T) {
	client := &fakeClient{content: "  Your EMI is affordable.  "}
	narrator := NewNarrator(client, nil, ProviderGroq, "llama", time.Second)

	narration := narrator.Explain(context.Background(), sampleInput())

	assert.Equal(t, "Your EMI is affordable.", narration.Text)
	assert.Equal(t, SourceLLM, narration.Source)
	assert.False(t, narration.Failed())
	require.Len(t, client.messages, 2)
	assert.Equal(t, "system", client.messages[0].Role)
	user := client.messages[1].Content
	assert.Contains(t, user, "User Question: Can I afford this loan?")
	assert.Contains(t, user, "do NOT recompute")
	assert.Contains(t, user, "₹10,258.27")
	assert.Contains(t, user, `"risk_band": "LOW"`)
}

// TestExplainFallbackOnClientError проверяет запасное объяснение.
func TestExplainFallbackOnClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("groq api error: rate limited")}
	narrator := NewNarrator(client, nil, ProviderGroq, "llama", time.Second)

	narration := narrator.Explain(context.Background(), sampleInput())

	assert.Equal(t, SourceFallback, narration.Source)
	assert.True(t, narration.Failed())
	assert.Contains(t, narration.Text, "Recommended tenure: 5 years")
	assert.Contains(t, narration.Text, "₹10,258.27")
	assert.NotEmpty(t, narration.Raw)
}

// TestExplainWithoutClient проверяет работу без настроенного провайдера.
func TestExplainWithoutClient(t *testing.T) {
	narrator := NewNarrator(nil, nil, "", "", 0)

	narration := narrator.Explain(context.Background(), sampleInput())
	assert.Equal(t, SourceFallback, narration.Source)
	assert.Error(t, narration.Err)
}

// TestExplainCacheHitSkipsClient проверяет, что повторный запрос берется из кеша.
func TestExplainCacheHitSkipsClient(t *testing.T) {
	client := &fakeClient{content: "cached answer"}
	narrator := NewNarrator(client, NewMemoryCache(time.Minute), ProviderGemini, "flash", time.Second)

	first := narrator.Explain(context.Background(), sampleInput())
	second := narrator.Explain(context.Background(), sampleInput())

	assert.Equal(t, SourceLLM, first.Source)
	assert.Equal(t, SourceCache, second.Source)
	assert.Equal(t, "cached answer", second.Text)
	assert.Equal(t, 1, client.calls)
}

// TestExplainFallbackIsNotCached проверяет, что запасной текст не попадает в кеш.
func TestExplainFallbackIsNotCached(t *testing.T) {
	client := &fakeClient{err: errors.New("timeout")}
	cache := NewMemoryCache(time.Minute)
	narrator := NewNarrator(client, cache, ProviderGroq, "llama", time.Second)

	narrator.Explain(context.Background(), sampleInput())
	narrator.Explain(context.Background(), sampleInput())

	assert.Equal(t, 2, client.calls)
}

// TestExplainEmptyQuery проверяет отказ от пустого вопроса.
func TestExplainEmptyQuery(t *testing.T) {
	client := &fakeClient{content: "unused"}
	narrator := NewNarrator(client, nil, ProviderGroq, "llama", time.Second)

	narration := narrator.Explain(context.Background(), NarrationInput{ToolOutput: "x"})
	assert.Equal(t, SourceFallback, narration.Source)
	assert.Zero(t, client.calls)
}

// TestFallbackExplanationDeterministic проверяет стабильность запасного текста.
func TestFallbackExplanationDeterministic(t *testing.T) {
	first := FallbackExplanation(sampleInput())
	second := FallbackExplanation(sampleInput())

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, "The AI explanation is unavailable"))
}

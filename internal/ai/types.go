package ai

const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
	SourceCache    = "cache"
)

// NarrationInput содержит все, что модель видит о расчете. Числа уже посчитаны
// движком и передаются как есть.
type NarrationInput struct {
	Query      string `json:"query"`
	ToolOutput string `json:"tool_output"`
	Trace      any    `json:"trace,omitempty"`
	// Summary используется в запасном объяснении.
	Summary string `json:"summary,omitempty"`
}

// Narration хранит результат объяснения вместе с данными для аудита.
type Narration struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Prompt   string `json:"-"`
	Raw      []byte `json:"-"`
	Err      error  `json:"-"`
}

// Failed сообщает, пришлось ли заменить ответ модели запасным текстом.
func (n Narration) Failed() bool {
	return n.Err != nil
}

package agent

import (
	"strings"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

// ValidationError перечисляет все неверные поля запроса сразу.
type ValidationError struct {
	Fields []*finance.Error
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		messages = append(messages, field.Error())
	}
	return strings.Join(messages, "; ")
}

// Unwrap позволяет проверять ошибку через errors.Is(err, finance.ErrInvalidInput).
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, field := range e.Fields {
		errs = append(errs, field)
	}
	return errs
}

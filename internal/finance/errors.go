package finance

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDivisionUndefined  = errors.New("division undefined")
	ErrInvariantViolation = errors.New("computation invariant violation")
)

// Error описывает ошибку расчета: вид ошибки и поле, которое ее вызвало.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KindName возвращает машинно-читаемое имя вида ошибки.
func (e *Error) KindName() string {
	switch {
	case errors.Is(e.Kind, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(e.Kind, ErrDivisionUndefined):
		return "division_undefined"
	case errors.Is(e.Kind, ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "unknown"
	}
}

func invalidInput(field, message string) *Error {
	return &Error{Kind: ErrInvalidInput, Field: field, Message: message}
}

func invariantViolation(field, message string) *Error {
	return &Error{Kind: ErrInvariantViolation, Field: field, Message: message}
}

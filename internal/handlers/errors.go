package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"example.com/ai-finance-copilot/backend/internal/agent"
	"example.com/ai-finance-copilot/backend/internal/finance"
)

const kindInvalidInput = "invalid_input"

type ErrorResponse struct {
	Error  string       `json:"error"`
	Kind   string       `json:"kind,omitempty"`
	Field  string       `json:"field,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// validationFailed перечисляет поля, не прошедшие проверку тегов validate.
func validationFailed(c echo.Context, err error) error {
	response := ErrorResponse{Error: "validation failed", Kind: kindInvalidInput}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			response.Fields = append(response.Fields, FieldError{
				Field:   fieldErr.Field(),
				Message: "failed on " + fieldErr.Tag(),
			})
		}
	}

	return c.JSON(http.StatusBadRequest, response)
}

// writeEngineError переводит ошибки движка в ответ: ошибки ввода дают 400,
// нарушения инвариантов считаются дефектом и дают 500.
func writeEngineError(c echo.Context, err error) error {
	var validation *agent.ValidationError
	if errors.As(err, &validation) {
		response := ErrorResponse{Error: "validation failed", Kind: kindInvalidInput}
		for _, field := range validation.Fields {
			response.Fields = append(response.Fields, FieldError{Field: field.Field, Message: field.Message})
		}
		return c.JSON(http.StatusBadRequest, response)
	}

	var engineErr *finance.Error
	if errors.As(err, &engineErr) {
		if errors.Is(engineErr, finance.ErrInvariantViolation) {
			slog.Error("finance invariant violated",
				slog.String("field", engineErr.Field),
				slog.String("error", engineErr.Error()),
			)
			return c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error: "internal computation error",
				Kind:  engineErr.KindName(),
				Field: engineErr.Field,
			})
		}

		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: engineErr.Message,
			Kind:  engineErr.KindName(),
			Field: engineErr.Field,
		})
	}

	slog.Error("unexpected engine error", slog.String("error", err.Error()))
	return serverError(c)
}

// errorKind возвращает имя вида ошибки для метрик.
func errorKind(err error) string {
	var validation *agent.ValidationError
	if errors.As(err, &validation) {
		return kindInvalidInput
	}

	var engineErr *finance.Error
	if errors.As(err, &engineErr) {
		return engineErr.KindName()
	}
	return "unknown"
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/ai-finance-copilot/backend/internal/finance"
)

type structValidator struct {
	validate *validator.Validate
}

func (v structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newJSONContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = structValidator{validate: validator.New()}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// TestCompareReportsWrittenResponse проверяет, что при отказе ответ уже записан,
// а при успехе ничего не записано и возвращается отчет.
func TestCompareReportsWrittenResponse(t *testing.T) {
	h := NewFinanceHandler(finance.DefaultPolicy(), nil)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"broken json", `{"principal":`, http.StatusBadRequest},
		{"validation", `{"principal":0,"annual_rate_percent":8.5}`, http.StatusBadRequest},
		{"too many tenures", `{"principal":1000,"annual_rate_percent":5,"tenure_years":[1,2,3,4,5,6,7,8,9,10,11]}`, http.StatusBadRequest},
		{"engine error", `{"principal":1000,"annual_rate_percent":5,"tenure_years":[5],"shocks":[-10]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newJSONContext(tt.body)

			_, written, err := h.compare(c)
			require.NoError(t, err)
			assert.True(t, written)
			assert.Equal(t, tt.code, rec.Code)
			assert.NotEmpty(t, rec.Body.String())
		})
	}

	c, rec := newJSONContext(`{"principal":500000,"annual_rate_percent":8.5,"tenure_years":[3,5],"monthly_salary":50000}`)
	report, written, err := h.compare(c)
	require.NoError(t, err)
	assert.False(t, written)
	assert.Empty(t, rec.Body.String())
	assert.Len(t, report.Scenarios, 2)
}

// TestScenariosRespondsOnce проверяет, что ошибка сравнения не дописывает второй ответ.
func TestScenariosRespondsOnce(t *testing.T) {
	h := NewFinanceHandler(finance.DefaultPolicy(), nil)
	c, rec := newJSONContext(`{"principal":0}`)

	require.NoError(t, h.Scenarios(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "invalid_input", response.Kind)
	assert.False(t, json.NewDecoder(rec.Body).More())
}

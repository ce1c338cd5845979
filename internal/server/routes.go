package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/ai-finance-copilot/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	financeHandler *handlers.FinanceHandler,
	agentHandler *handlers.AgentHandler,
	narrationHandler *handlers.NarrationHandler,
	metricsHandler http.Handler,
	aiRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/metrics", echo.WrapHandler(metricsHandler))

	api := e.Group("/api/v1")
	api.GET("/policy", financeHandler.GetPolicy)
	api.POST("/emi", financeHandler.EMI)
	api.POST("/affordability", financeHandler.Affordability)
	api.POST("/stress-test", financeHandler.StressTest)
	api.POST("/scenarios", financeHandler.Scenarios)
	api.POST("/scenarios/export/csv", financeHandler.ExportScenariosCSV)
	api.POST("/schedule", financeHandler.Schedule)

	agentGroup := api.Group("/agent", aiRateLimiter)
	agentGroup.POST("/ask", agentHandler.Ask)

	// журнал доступен только с включенной БД
	if narrationHandler != nil {
		narrations := api.Group("/narrations")
		narrations.GET("", narrationHandler.List)
		narrations.GET("/stats", narrationHandler.Stats)
		narrations.GET("/:id", narrationHandler.Get)
	}
}

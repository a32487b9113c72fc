// internal/api/api.go
package api

import (
	"crypto/rand"
	"log"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wownom/feedback-collector/internal/conf"
	"github.com/wownom/feedback-collector/internal/datastore"
	"github.com/wownom/feedback-collector/internal/logging"
	"github.com/wownom/feedback-collector/internal/observability"
)

// Controller manages the API routes and handlers
type Controller struct {
	Echo      *echo.Echo
	Group     *echo.Group
	DS        datastore.Interface
	Settings  *conf.Settings
	logger    *log.Logger
	apiLogger *slog.Logger           // Structured logger for API operations
	metrics   *observability.Metrics // Shared metrics instance
}

// New creates a new API controller and registers its routes on the echo instance.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	logger *log.Logger, metrics *observability.Metrics) *Controller {

	if logger == nil {
		logger = log.Default()
	}

	c := &Controller{
		Echo:      e,
		DS:        ds,
		Settings:  settings,
		logger:    logger,
		apiLogger: logging.ForService("api"),
		metrics:   metrics,
	}

	c.Group = e.Group("/api/feedback")
	c.Group.Use(c.LoggingMiddleware())

	c.initRoutes()

	return c
}

// initRoutes registers all API endpoints
func (c *Controller) initRoutes() {
	// Health check endpoints - publicly accessible
	c.Group.GET("/health", c.HealthCheck)
	c.Group.GET("/healthz", c.HealthCheck)

	// Feedback endpoints require an API key, each with its own request quota
	auth := c.AuthMiddleware()
	limits := c.Settings.WebServer.RateLimit
	c.Group.POST("/correction", c.PostCorrection, auth, c.rateLimiter(limits.Correction))
	c.Group.GET("/export", c.ExportCorrections, auth, c.rateLimiter(limits.Export))
	c.Group.GET("/stats", c.GetStats, auth, c.rateLimiter(limits.Stats))
}

// Debug logs debug messages when debug mode is enabled
func (c *Controller) Debug(format string, v ...any) {
	if c.Settings.WebServer.Debug {
		c.logger.Printf(format, v...)
	}
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Code          int    `json:"code"`
	CorrelationID string `json:"correlation_id"` // Unique identifier for tracking this error
}

// NewErrorResponse creates a new API error response
func NewErrorResponse(err error, message string, code int) *ErrorResponse {
	correlationID := generateCorrelationID()

	var errorStr string
	if err != nil {
		errorStr = err.Error()
	} else {
		errorStr = message
	}

	return &ErrorResponse{
		Error:         errorStr,
		Message:       message,
		Code:          code,
		CorrelationID: correlationID,
	}
}

// generateCorrelationID creates a unique identifier for error tracking using
// cryptographic randomness for uniqueness guarantees across all platforms
func generateCorrelationID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		// Fall back to a default ID if crypto/rand fails
		return "ERR-RAND"
	}

	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}

// HandleError logs the error and returns a standardized JSON error response
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorResp := NewErrorResponse(err, message, code)

	ip := ctx.RealIP()
	c.logger.Printf("API Error [%s] from %s: %s: %v", errorResp.CorrelationID, ip, message, err)

	if c.apiLogger != nil {
		c.apiLogger.Error("API Error",
			"correlation_id", errorResp.CorrelationID,
			"error", errorStringOrEmpty(err),
			"message", message,
			"code", code,
			"path", ctx.Request().URL.Path,
			"method", ctx.Request().Method,
			"ip", ip,
		)
	}

	return ctx.JSON(code, errorResp)
}

func errorStringOrEmpty(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}

// HealthCheck handles the health check endpoints
func (c *Controller) HealthCheck(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

package handler

import (
	"net/http"
	"time"

	"github.com/chroniclecms/chronicle/internal/constants"
	"github.com/chroniclecms/chronicle/pkg/health"
	"github.com/chroniclecms/chronicle/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthHandler reports dependency health collected by the background
// monitor.
type HealthHandler struct {
	monitor *health.Monitor
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// HealthCheck performs comprehensive health check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	response := HealthCheckResponse{
		Status:    "healthy",
		Version:   constants.AppVersion,
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
	}

	for name, result := range h.monitor.GetAllResults() {
		check := HealthCheck{
			Status:  result.Status.String(),
			Message: result.Message,
			Latency: result.Latency.String(),
		}
		if result.LastError != nil {
			check.Message = check.Message + ": " + result.LastError.Error()
		}
		response.Checks[name] = check

		// Redis degradation is tolerated, the API serves reads from
		// the database without it. A dead database is fatal.
		if result.Status == health.StatusUnhealthy && name == "database" {
			response.Status = "unhealthy"
		}
	}

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	logger.GetLogger().Debug("Health check performed",
		zap.String("overall_status", response.Status),
		zap.Int("status_code", statusCode),
	)

	c.JSON(statusCode, response)
}

// BasicHealth returns a simple health check (for load balancers)
func (h *HealthHandler) BasicHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   constants.AppVersion,
		"timestamp": time.Now(),
	})
}

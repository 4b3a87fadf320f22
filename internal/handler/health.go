package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carewire/clinical-api/internal/service/auth"
)

// HealthHandler serves liveness, readiness and metrics endpoints.
type HealthHandler struct {
	db       *sqlx.DB
	throttle *auth.LoginThrottle
	gatherer prometheus.Gatherer
}

// NewHealthHandler takes the gatherer the router metrics were registered
// with; a nil gatherer falls back to the default one.
func NewHealthHandler(db *sqlx.DB, throttle *auth.LoginThrottle, gatherer prometheus.Gatherer) *HealthHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &HealthHandler{db: db, throttle: throttle, gatherer: gatherer}
}

func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
		health.GET("/metrics", h.MetricsHandler)
	}
}

func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports ready only when the database answers. The login
// throttle is optional infrastructure and degrades the report without
// failing it.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	checks := gin.H{}
	status := http.StatusOK

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.throttle != nil {
		if err := h.throttle.Ping(c.Request.Context()); err != nil {
			checks["redis"] = err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not ready"
	}
	c.JSON(status, gin.H{
		"status": state,
		"time":   time.Now(),
		"checks": checks,
	})
}

func (h *HealthHandler) MetricsHandler(c *gin.Context) {
	promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}).ServeHTTP(c.Writer, c.Request)
}

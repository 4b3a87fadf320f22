package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/carewire/clinical-api/internal/handler"
	doctorhandler "github.com/carewire/clinical-api/internal/handler/doctor"
	hospitalhandler "github.com/carewire/clinical-api/internal/handler/hospital"
	patienthandler "github.com/carewire/clinical-api/internal/handler/patient"
	prescriptionhandler "github.com/carewire/clinical-api/internal/handler/prescription"
	"github.com/carewire/clinical-api/internal/middleware"
)

type Router struct {
	engine        *gin.Engine
	session       *middleware.SessionMiddleware
	hospitalH     *hospitalhandler.Handler
	doctorH       *doctorhandler.Handler
	patientH      *patienthandler.Handler
	prescriptionH *prescriptionhandler.Handler
	healthH       *handler.HealthHandler
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

type Config struct {
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	CORSConfig       middleware.CORSConfig
	MetricsPrefix    string
	// Registry receives the router metrics; the metrics endpoint must serve
	// the same registry for them to show up in the exposition.
	Registry *prometheus.Registry
}

func NewRouter(
	session *middleware.SessionMiddleware,
	hospitalH *hospitalhandler.Handler,
	doctorH *doctorhandler.Handler,
	patientH *patienthandler.Handler,
	prescriptionH *prescriptionhandler.Handler,
	healthH *handler.HealthHandler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	registerValidations()

	registry := config.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	engine := gin.New()
	metrics := initRouterMetrics(config.MetricsPrefix, registry)

	r := &Router{
		engine:        engine,
		session:       session,
		hospitalH:     hospitalH,
		doctorH:       doctorH,
		patientH:      patientH,
		prescriptionH: prescriptionH,
		healthH:       healthH,
		metrics:       metrics,
	}

	engine.Use(
		middleware.Recovery(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.RequestID(),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPS:   config.RateLimitRPS,
			Burst: config.RateLimitBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)

	r.patientH.RegisterRoutes(api.Group("/patient"), r.session)
	r.doctorH.RegisterRoutes(api.Group("/doctor"), r.session)
	r.hospitalH.RegisterRoutes(api.Group("/hospital"))
	r.prescriptionH.RegisterRoutes(api.Group("/prescription"), r.session)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// registerValidations installs custom binding validators. Registration is
// idempotent; gin keeps a single validator engine.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("rfc3339", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339, fl.Field().String())
		return err == nil
	})
}

func initRouterMetrics(prefix string, registry *prometheus.Registry) *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.errorTotal,
	)

	return m
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}

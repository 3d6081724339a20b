package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	SurveysCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_surveys_created_total",
			Help: "Number of surveys created",
		},
	)

	ResponsesSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_survey_responses_submitted_total",
			Help: "Number of survey responses submitted",
		},
		[]string{"survey_id"},
	)

	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_survey_exports_total",
			Help: "Number of result exports by format",
		},
		[]string{"format"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_survey_notifications_total",
			Help: "Assignment notifications by delivery status",
		},
		[]string{"status"},
	)

	LiveSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_survey_live_subscribers",
			Help: "Open live results websocket connections",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "audit_survey_take_sessions",
			Help: "In-progress survey taking sessions",
		},
	)
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			SurveysCreated,
			ResponsesSubmitted,
			ExportsTotal,
			NotificationsTotal,
			LiveSubscribers,
			ActiveSessions,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

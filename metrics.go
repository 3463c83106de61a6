package blogfs

import (
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/blogfs/content"
)

const metricsNamespace = "blogfs"

// contentMetrics counts boundary calls by operation and outcome.
type contentMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newContentMetrics(reg prometheus.Registerer) (*contentMetrics, error) {
	m := &contentMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "content",
			Name:      "requests_total",
			Help:      "Content boundary calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "content",
			Name:      "request_duration_seconds",
			Help:      "Time spent reading and rendering content.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{m.requests, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *contentMetrics) observe(op string, err *content.Error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = err.Kind.String()
	}
	m.requests.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (a *App) metricsMiddleware() echo.MiddlewareFunc {
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: a.registry,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/metrics" || p == "/healthz" || strings.HasPrefix(p, "/assets/")
		},
	})
}

func (a *App) metricsHandler() echo.HandlerFunc {
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: a.registry,
	})
}

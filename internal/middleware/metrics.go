package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath serves the Prometheus exposition format.
const MetricsPath = "/metrics"

//nolint:gochecknoglobals // collectors are registered once per process
var (
	httpResponse = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "guests_api_http_response_seconds",
		Help:    "Histogram of HTTP response times in seconds",
		Buckets: []float64{.001, .003, .005, .01, .025, .05, .1, .2, .3, .4, .5, .75, 1, 2, 3, 5, 10, 30},
	}, []string{"path", "method", "status"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guests_api_rate_limited_total",
		Help: "Counter of requests rejected by the rate limiter",
	}, []string{"path"})
)

// MetricsMiddleware records request latency by route template, method
// and final status.
type MetricsMiddleware struct{}

func NewMetricsMiddleware() *MetricsMiddleware {
	return &MetricsMiddleware{}
}

// Observe must run inside RequestID and outside the route handlers.
func (m *MetricsMiddleware) Observe() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == MetricsPath {
				return next(c)
			}

			start := time.Now()
			err := next(c)

			httpResponse.
				WithLabelValues(routeLabel(c), c.Request().Method, strconv.Itoa(ResolveStatus(c, err))).
				Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the default Prometheus registry.
func (m *MetricsMiddleware) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

// routeLabel keeps label cardinality bounded: the route template, not the URL.
func routeLabel(c echo.Context) string {
	path := strings.TrimSuffix(c.Path(), "/")
	if path == "" {
		return "unmatched"
	}
	return path
}

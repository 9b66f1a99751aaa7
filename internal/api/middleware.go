package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"TickerLens/internal/logger"
)

// requestLogging logs every request at debug level and server errors at error level.
func requestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			fields := []logger.Field{
				logger.String("method", req.Method),
				logger.String("uri", req.RequestURI),
				logger.String("remote", c.RealIP()),
				logger.Int("status", res.Status),
				logger.Duration("latency", time.Since(start)),
			}
			if res.Status >= 500 {
				log.Error("http request", append(fields, logger.Error(err))...)
			} else {
				log.Debug("http request", fields...)
			}
			return nil
		}
	}
}

// requestMetrics counts requests and observes latency per route.
func requestMetrics(reg prometheus.Registerer) echo.MiddlewareFunc {
	f := promauto.With(reg)
	total := f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickerlens_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	duration := f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tickerlens_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"path", "method"},
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			total.WithLabelValues(path, c.Request().Method, strconv.Itoa(c.Response().Status)).Inc()
			duration.WithLabelValues(path, c.Request().Method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

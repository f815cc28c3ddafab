// Package middleware provides Echo middleware for restock-tracker.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/restock-tracker/internal/metrics"
)

// unmatchedPath labels requests that did not match a registered route.
const unmatchedPath = "unmatched"

var (
	// metricsSkipPaths are excluded from the request histogram and counter.
	metricsSkipPaths = map[string]struct{}{
		"/metrics": {},
		"/healthz": {},
		"/readyz":  {},
	}

	healthGauges = map[string]prometheus.Gauge{
		"/healthz": metrics.HealthzUp,
		"/readyz":  metrics.ReadyzUp,
	}
)

// Metrics returns Echo middleware that records request duration and status
// labelled by route pattern. Probe paths only update their up gauges.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := routePath(c)

			if _, skip := metricsSkipPaths[path]; skip {
				err := next(c)
				if gauge, ok := healthGauges[path]; ok {
					st := c.Response().Status
					gauge.Set(boolToFloat(st >= 200 && st < 300))
				}
				return err
			}

			start := time.Now()
			err := next(c)

			// Handlers returning an error have not written a status yet.
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				status = he.Code
			}
			labels := []string{c.Request().Method, path, strconv.Itoa(status)}

			metrics.HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.WithLabelValues(labels...).Inc()

			return err
		}
	}
}

// routePath returns the matched route pattern so path parameters do not
// inflate label cardinality.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	if p := c.Request().URL.Path; p != "" {
		if _, known := metricsSkipPaths[p]; known {
			return p
		}
	}
	return unmatchedPath
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

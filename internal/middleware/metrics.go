package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"storefront-api/internal/metrics"
)

// Metrics records one latency sample per request under the matched
// route pattern.
func Metrics(collector *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Request().Method + " " + c.Path()
			collector.Record(route, time.Since(start), err != nil)

			return err
		}
	}
}

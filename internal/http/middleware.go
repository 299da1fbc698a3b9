package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"rssagg/backend/internal/logger"
	"rssagg/backend/internal/metrics"
)

// RequestLoggerMiddleware logs HTTP requests using logger and records request metrics.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			latency := time.Since(start)
			status := res.Status

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.RecordHTTPRequest(req.Method, route, status, latency)

			result := "ok"
			if status >= http.StatusBadRequest {
				result = "failed"
			}
			args := []any{
				"module", "http",
				"action", "request",
				"resource", "http",
				"result", result,
				"method", req.Method,
				"path", req.URL.Path,
				"status_code", status,
				"duration_ms", latency.Milliseconds(),
				"remote_ip", c.RealIP(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
			}
			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http request", args...)
			case status >= http.StatusBadRequest:
				logger.Warn("http request", args...)
			default:
				logger.Debug("http request", args...)
			}

			return nil
		}
	}
}

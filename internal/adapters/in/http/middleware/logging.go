// Package middleware holds the echo middleware of the reference registry.
package middleware

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = echo.HeaderXRequestID

const loggerKey = "logger"

// RequestID reuses the caller's X-Request-ID or generates a UUID.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	})
}

// RequestLogger logs one line per request and stores a request-scoped logger
// on the context, retrievable with Logger.
func RequestLogger(l *log.Logger) echo.MiddlewareFunc {
	access := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"remote_ip", v.RemoteIP,
				"latency", v.Latency.Round(time.Microsecond),
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				l.Error("request", append(fields, "error", v.Error)...)
			case v.Status >= http.StatusBadRequest:
				l.Warn("request", fields...)
			default:
				l.Info("request", fields...)
			}
			return nil
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		logged := access(next)
		return func(c echo.Context) error {
			id := c.Response().Header().Get(HeaderRequestID)
			c.Set(loggerKey, l.With("request_id", id))
			return logged(c)
		}
	}
}

// Logger returns the request-scoped logger, or fallback outside RequestLogger.
func Logger(c echo.Context, fallback *log.Logger) *log.Logger {
	if l, ok := c.Get(loggerKey).(*log.Logger); ok {
		return l
	}
	return fallback
}

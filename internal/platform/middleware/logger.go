package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Logger attaches a request-scoped logger to the request context, so
// handlers can use zerolog.Ctx, and logs one line per request.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			rid, _ := c.Get("request_id").(string)

			reqLogger := logger.With().Str("request_id", rid).Logger()
			c.SetRequest(req.WithContext(reqLogger.WithContext(req.Context())))

			err := next(c)
			if err != nil {
				// Let echo write the status before it is logged.
				c.Error(err)
			}

			evt := reqLogger.Info()
			if err != nil {
				evt = reqLogger.Error().Err(err)
			}

			evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("request")

			return nil
		}
	}
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// RequestTimeout bounds each request with a context deadline. The handler
// runs on the request goroutine; the deadline reaches pgx through the
// request context and cancels the running statement. When the deadline has
// passed and nothing was written yet, the caller gets a 504 outcome.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return gatewayTimeout(c)
			}
			return err
		}
	}
}

func gatewayTimeout(c echo.Context) error {
	if c.Response().Committed {
		return nil
	}
	return c.JSON(http.StatusGatewayTimeout, tools.ErrorOutcome("timeout", "request processing exceeded the allowed time limit"))
}

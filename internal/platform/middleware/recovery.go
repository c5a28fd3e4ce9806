package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

// Recovery turns a panic in a tool or route into a 500 outcome. The panic
// value and stack are logged; neither reaches the caller.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				rid, _ := c.Get("request_id").(string)
				evt := logger.Error().
					Str("request_id", rid).
					Str("path", c.Path()).
					Str("panic", fmt.Sprint(r)).
					Bytes("stack", debug.Stack())
				if tool := c.Param("name"); tool != "" {
					evt = evt.Str("tool", tool)
				}
				evt.Msg("panic recovered")

				if c.Response().Committed {
					err = nil
					return
				}
				err = c.JSON(http.StatusInternalServerError, tools.ErrorOutcome("exception", "internal server error"))
			}()
			return next(c)
		}
	}
}

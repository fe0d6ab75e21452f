package middleware

import (
	"gota/business/ranking"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Trace tags each request with an id, reusing X-Request-ID when the caller
// sends one.
func Trace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}

			c.SetRequest(req.WithContext(ranking.ContextWithTraceID(req.Context(), id)))
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			return next(c)
		}
	}
}

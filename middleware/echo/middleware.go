package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reoring/flexjson"
	"github.com/reoring/flexjson/middleware"
)

// DecodeJSON decodes the request body with r, stores Decoded[T] in context on
// success, or returns 400 with the issues when the body is not a JSON object.
func DecodeJSON[T any](r *flexjson.Record[T], opt flexjson.ParseOpt) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			dm, err := middleware.Decode(c.Request(), r, opt)
			if err != nil {
				iss, _ := flexjson.AsIssues(err)
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
			}
			c.SetRequest(c.Request().WithContext(middleware.ContextWithDecoded(c.Request().Context(), dm)))
			return next(c)
		}
	}
}

// GetDecoded fetches Decoded[T] from echo.Context.
func GetDecoded[T any](c echo.Context) (flexjson.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}

package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reoring/flexjson"
	"github.com/reoring/flexjson/middleware"
)

// DecodeJSON decodes the request body with r, stores Decoded[T] in the request
// context, or aborts with 400 and the issues when the body is not a JSON
// object.
func DecodeJSON[T any](r *flexjson.Record[T], opt flexjson.ParseOpt) gin.HandlerFunc {
	return func(c *gin.Context) {
		dm, err := middleware.Decode(c.Request, r, opt)
		if err != nil {
			iss, _ := flexjson.AsIssues(err)
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(iss))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), dm))
		c.Next()
	}
}

// GetDecoded fetches Decoded[T] from gin.Context.
func GetDecoded[T any](c *gin.Context) (flexjson.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}

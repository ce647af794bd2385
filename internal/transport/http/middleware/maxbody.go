package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "member-management/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			abort(c, resp.Error(http.StatusRequestEntityTooLarge, "Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if !c.Writer.Written() && hasMaxBytesError(c) {
			abort(c, resp.Error(http.StatusRequestEntityTooLarge, "Request body too large"))
		}
	}
}

func hasMaxBytesError(c *gin.Context) bool {
	for _, e := range c.Errors {
		var mbe *http.MaxBytesError
		if errors.As(e.Err, &mbe) {
			return true
		}
	}
	return false
}

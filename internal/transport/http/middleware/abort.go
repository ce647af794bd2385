package middleware

import (
	"github.com/gin-gonic/gin"

	resp "member-management/internal/transport/http/response"
)

// abort 写出错误信封；HTTP 状态码与信封 status 一致
func abort(c *gin.Context, env resp.Envelope[any]) {
	c.AbortWithStatusJSON(env.Status, env)
}

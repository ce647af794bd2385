package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"member-management/internal/core/auth"
	"member-management/internal/domain"
	resp "member-management/internal/transport/http/response"
)

const KeyClaims = "claims"

// AuthJWT 校验 Bearer token；requireRole 为空时只要求登录
func AuthJWT(j *auth.JWTer, requireRole domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			abort(c, resp.Unauthorized("Missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			abort(c, resp.Unauthorized("Invalid token"))
			return
		}
		c.Set(KeyClaims, claims)
		if requireRole != "" && claims.Role != requireRole {
			abort(c, resp.FromError(domain.AccessDenied()))
			return
		}
		c.Next()
	}
}

// RequireRole 用在已挂 AuthJWT 的分组内部
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, resp.FromError(domain.UnauthorizedAccess()))
			return
		}
		if claims.Role != role {
			abort(c, resp.FromError(domain.AccessDenied()))
			return
		}
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

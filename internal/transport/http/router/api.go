package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"member-management/internal/core/auth"
	"member-management/internal/core/config"
	"member-management/internal/core/server"
	mdw "member-management/internal/transport/http/middleware"
)

type Deps struct {
	Log     *zap.Logger
	JWT     *auth.JWTer
	Limits  config.Limits
	Server  server.Options
	Modules *Registry
}

// limits 流量保护：限流 → 并发 → 请求体 → 超时；值 <= 0 的项不启用
func limits(l config.Limits) []gin.HandlerFunc {
	var hs []gin.HandlerFunc
	if l.RatePerSec > 0 {
		hs = append(hs, mdw.RateLimit(rate.Limit(l.RatePerSec), max(l.Burst, 1)))
	}
	if l.PerIPRate > 0 {
		hs = append(hs, mdw.RateLimitPerIP(mdw.NewIPLimiter(rate.Limit(l.PerIPRate), max(l.PerIPBurst, 1), 10*time.Minute)))
	}
	if l.MaxConcurrent > 0 {
		hs = append(hs, mdw.ConcurrencyLimit(l.MaxConcurrent, l.AcquireTimeout))
	}
	if l.MaxBodyBytes > 0 {
		hs = append(hs, mdw.MaxBodyBytes(l.MaxBodyBytes))
	}
	if l.RequestTimeout > 0 {
		hs = append(hs, mdw.Timeout(l.RequestTimeout))
	}
	return hs
}

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, d.Server)

	api := r.Group("/api/v1", limits(d.Limits)...)
	authed := api.Group("", mdw.AuthJWT(d.JWT, ""))

	d.Modules.MountAllAPI(api, authed)
	return r
}

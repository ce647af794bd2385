package router

import (
	"github.com/gin-gonic/gin"

	"member-management/internal/core/server"
	"member-management/internal/domain"
	mdw "member-management/internal/transport/http/middleware"
)

// NewAdminEngine 管理端 v1，统一要求 ADMIN 角色
func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, d.Server)

	admin := r.Group("/admin/v1", limits(d.Limits)...)
	admin.Use(mdw.AuthJWT(d.JWT, domain.RoleAdmin))

	d.Modules.MountAllAdmin(admin)
	return r
}

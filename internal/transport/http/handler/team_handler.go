package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"member-management/internal/domain"
	"member-management/internal/feature/team"
	"member-management/internal/transport/http/ez"
	mdw "member-management/internal/transport/http/middleware"
)

// TeamHandler 读接口登录即可，写接口需要 ADMIN
type TeamHandler struct {
	svc TeamService
	log *zap.Logger
}

func NewTeamHandler(svc TeamService, log *zap.Logger) *TeamHandler {
	return &TeamHandler{svc: svc, log: log}
}

func (h *TeamHandler) Priority() int { return 20 }

func (h *TeamHandler) MountAPI(_, authed *gin.RouterGroup) {
	e := ez.New(authed, h.log)
	admin := e.Group("", mdw.RequireRole(domain.RoleAdmin))

	ez.RegisterAction(e, ez.Action[team.ListQuery, *team.Page]{
		Method: http.MethodGet,
		Path:   "/teams",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *team.ListQuery) (*team.Page, error) {
			return h.svc.ListTeams(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *team.DTO]{
		Method: http.MethodGet,
		Path:   "/teams/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*team.DTO, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.GetTeam(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *team.MembersDTO]{
		Method: http.MethodGet,
		Path:   "/teams/:id/members",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*team.MembersDTO, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.ListMembers(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(admin, ez.Action[team.CreateInput, *team.DTO]{
		Method: http.MethodPost,
		Path:   "/teams",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *team.CreateInput) (*team.DTO, error) {
			return h.svc.CreateTeam(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(admin, ez.Action[team.UpdateInput, *team.DTO]{
		Method:  http.MethodPut,
		Path:    "/teams/:id",
		Binder:  ez.BindJSON,
		Message: "Team updated successfully",
		Handler: func(c *gin.Context, in *team.UpdateInput) (*team.DTO, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.UpdateTeam(c.Request.Context(), id, *in)
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, bool]{
		Method:  http.MethodDelete,
		Path:    "/teams/:id",
		Binder:  ez.BindNone,
		Message: "Team deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (bool, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return false, err
			}
			return h.svc.DeleteTeam(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(admin, ez.Action[team.AddMemberInput, *team.MemberDTO]{
		Method: http.MethodPost,
		Path:   "/teams/:id/members",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *team.AddMemberInput) (*team.MemberDTO, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.AddMember(c.Request.Context(), id, in.UserID)
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, bool]{
		Method:  http.MethodDelete,
		Path:    "/teams/:id/members/:userId",
		Binder:  ez.BindNone,
		Message: "Member removed successfully",
		Handler: func(c *gin.Context, _ *struct{}) (bool, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return false, err
			}
			uid, err := ez.ParamID(c, "userId")
			if err != nil {
				return false, err
			}
			if err := h.svc.RemoveMember(c.Request.Context(), id, uid); err != nil {
				return false, err
			}
			return true, nil
		},
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"member-management/internal/feature/user"
	"member-management/internal/transport/http/ez"
)

// UserHandler 管理端用户 CRUD，分组已要求 ADMIN
type UserHandler struct {
	svc UserService
	log *zap.Logger
}

func NewUserHandler(svc UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, h.log)

	ez.RegisterAction(e, ez.Action[user.ListQuery, *user.Page]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *user.ListQuery) (*user.Page, error) {
			return h.svc.ListUsers(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *user.DTO]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*user.DTO, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.GetUser(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(e, ez.Action[user.CreateInput, *user.DTO]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *user.CreateInput) (*user.DTO, error) {
			return h.svc.CreateUser(c.Request.Context(), *in)
		},
	})

	ez.RegisterAction(e, ez.Action[user.UpdateInput, *user.DTO]{
		Method:  http.MethodPut,
		Path:    "/users/:id",
		Binder:  ez.BindJSON,
		Message: "User updated successfully",
		Handler: func(c *gin.Context, in *user.UpdateInput) (*user.DTO, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.UpdateUser(c.Request.Context(), id, *in)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, bool]{
		Method:  http.MethodDelete,
		Path:    "/users/:id",
		Binder:  ez.BindNone,
		Message: "User deleted successfully",
		Handler: func(c *gin.Context, _ *struct{}) (bool, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return false, err
			}
			return h.svc.DeleteUser(c.Request.Context(), id)
		},
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"member-management/internal/domain"
	"member-management/internal/feature/user"
	"member-management/internal/transport/http/ez"
	mdw "member-management/internal/transport/http/middleware"
)

type AuthHandler struct {
	users  UserService
	tokens TokenIssuer
	log    *zap.Logger
}

func NewAuthHandler(users UserService, tokens TokenIssuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log}
}

func (h *AuthHandler) Priority() int { return 10 }

type LoginInput struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      user.DTO  `json:"user"`
}

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	ez.RegisterAction(ez.New(public, h.log), ez.Action[LoginInput, *LoginOutput]{
		Method:  http.MethodPost,
		Path:    "/auth/login",
		Binder:  ez.BindJSON,
		Message: "Login successful",
		Handler: func(c *gin.Context, in *LoginInput) (*LoginOutput, error) {
			u, err := h.users.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			tok, exp, err := h.tokens.Issue(u.ID, domain.Role(u.Role))
			if err != nil {
				return nil, err
			}
			return &LoginOutput{Token: tok, ExpiresAt: exp, User: *u}, nil
		},
	})

	ez.RegisterAction(ez.New(authed, h.log), ez.Action[struct{}, *user.DTO]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*user.DTO, error) {
			claims, ok := mdw.ClaimsFrom(c)
			if !ok {
				return nil, domain.UnauthorizedAccess()
			}
			return h.users.GetUser(c.Request.Context(), claims.UID)
		},
	})
}

package ez

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"member-management/internal/domain"
	mdw "member-management/internal/transport/http/middleware"
	resp "member-management/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, log *zap.Logger) EZ { return EZ{g: g, log: log} }

// Group 子分组，可附加中间件（如 RequireRole）
func (e EZ) Group(path string, hs ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, hs...), log: e.log}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // GET | POST | PUT | DELETE
	Path    string // 例：/teams/:id/members
	Binder  Binder
	Status  int    // 成功状态码，默认 200；201 走 Created 信封
	Message string // 成功消息，空则用默认
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 绑定入参 → 执行 → 统一写信封；HTTP 状态码与信封 status 一致
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			_ = c.Error(bindErr)
			writeBindError(c, a.Binder, bindErr)
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			_ = c.Error(err)
			WriteError(c, e.log, err)
			return
		}

		if a.Status == http.StatusCreated {
			if a.Message != "" {
				c.JSON(http.StatusCreated, resp.CreatedMessage(a.Message, out))
			} else {
				c.JSON(http.StatusCreated, resp.Created(out))
			}
			return
		}
		if a.Message != "" {
			c.JSON(http.StatusOK, resp.SuccessMessage(a.Message, out))
		} else {
			c.JSON(http.StatusOK, resp.Success(out))
		}
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// WriteError 业务错误按类别映射；其余错误记日志并返回 500，不暴露内部信息
func WriteError(c *gin.Context, log *zap.Logger, err error) {
	if kind, ok := domain.KindOf(err); ok {
		mdw.ObserveDomainError(kind.String())
		env := resp.FromError(err)
		c.JSON(env.Status, env)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		mdw.ObserveDomainError("timeout")
		c.JSON(http.StatusGatewayTimeout, resp.Error(http.StatusGatewayTimeout, "Request timeout"))
		return
	}
	mdw.ObserveDomainError("internal")
	log.Error("unhandled error",
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, resp.InternalServerError())
}

func writeBindError(c *gin.Context, b Binder, err error) {
	var ve validator.ValidationErrors
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &ve):
		mdw.ObserveDomainError(domain.KindBadRequest.String())
		env := resp.ValidationError(fieldErrors(ve))
		c.JSON(env.Status, env)
	case errors.As(err, &mbe):
		c.JSON(http.StatusRequestEntityTooLarge, resp.Error(http.StatusRequestEntityTooLarge, "Request body too large"))
	default:
		mdw.ObserveDomainError(domain.KindBadRequest.String())
		msg := "Malformed JSON request"
		if b == BindQuery {
			msg = "Invalid query parameters"
		}
		env := resp.BadRequest(msg)
		c.JSON(env.Status, env)
	}
}

// ParamID 解析路径上的正整数 id
func ParamID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewBadRequest("Invalid " + name + ": " + raw)
	}
	return id, nil
}

package response

import (
	"errors"
	"maps"
	"net/http"
	"sync"
	"time"

	"member-management/internal/core/clock"
	"member-management/internal/domain"
)

// Envelope 统一响应体：{ status, message, data?, errors?, timestamp }
// data 与 errors 互斥只是约定：成功带 data，校验失败带 errors。
type Envelope[T any] struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Data      *T                `json:"data,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

var (
	clkMu sync.RWMutex
	clk   clock.Clock = clock.System{}
)

// UseClock 替换时间来源，返回恢复函数（测试用）
func UseClock(c clock.Clock) (restore func()) {
	clkMu.Lock()
	prev := clk
	clk = c
	clkMu.Unlock()
	return func() {
		clkMu.Lock()
		clk = prev
		clkMu.Unlock()
	}
}

func now() time.Time {
	clkMu.RLock()
	defer clkMu.RUnlock()
	return clk.Now()
}

func build[T any](status int, msg string, data *T, errs map[string]string) Envelope[T] {
	return Envelope[T]{
		Status:    status,
		Message:   msg,
		Data:      data,
		Errors:    errs,
		Timestamp: now(),
	}
}

/* ---------- 成功 ---------- */

func Success[T any](data T) Envelope[T] {
	return build(http.StatusOK, MsgSuccess, &data, nil)
}

func SuccessMessage[T any](msg string, data T) Envelope[T] {
	return build(http.StatusOK, msg, &data, nil)
}

// SuccessMessageOnly 只有提示语，不带 data
func SuccessMessageOnly(msg string) Envelope[any] {
	return build[any](http.StatusOK, msg, nil, nil)
}

func Created[T any](data T) Envelope[T] {
	return build(http.StatusCreated, MsgCreated, &data, nil)
}

func CreatedMessage[T any](msg string, data T) Envelope[T] {
	return build(http.StatusCreated, msg, &data, nil)
}

/* ---------- 失败 ---------- */

func Error(status int, msg string) Envelope[any] {
	return build[any](status, msg, nil, nil)
}

func BadRequest(msg string) Envelope[any] { return Error(http.StatusBadRequest, msg) }

func ValidationError(errs map[string]string) Envelope[any] {
	return ValidationErrorMessage(MsgValidationFailed, errs)
}

func ValidationErrorMessage(msg string, errs map[string]string) Envelope[any] {
	return build[any](http.StatusBadRequest, msg, nil, maps.Clone(errs))
}

func Unauthorized(msg string) Envelope[any] { return Error(http.StatusUnauthorized, msg) }
func Forbidden(msg string) Envelope[any]    { return Error(http.StatusForbidden, msg) }
func NotFound(msg string) Envelope[any]     { return Error(http.StatusNotFound, msg) }
func Conflict(msg string) Envelope[any]     { return Error(http.StatusConflict, msg) }
func InternalError(msg string) Envelope[any] {
	return Error(http.StatusInternalServerError, msg)
}

func InternalServerError() Envelope[any] { return InternalError(MsgInternalError) }

// FromError 业务错误按 kind 映射状态码；其他一律 500，原始错误不外泄
func FromError(err error) Envelope[any] {
	var de *domain.Error
	if errors.As(err, &de) {
		return Error(de.StatusCode(), de.Error())
	}
	return InternalServerError()
}

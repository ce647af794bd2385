package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 业务错误类别，闭集
type Kind uint8

const (
	KindBadRequest Kind = iota + 1
	KindDuplicateResource
	KindForbidden
	KindResourceNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindDuplicateResource:
		return "duplicate_resource"
	case KindForbidden:
		return "forbidden"
	case KindResourceNotFound:
		return "resource_not_found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// StatusCode 每种错误固定绑定一个 HTTP 状态码
func (k Kind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindDuplicateResource:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindResourceNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error 业务错误；service 原样返回，只在 HTTP 层转成响应
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) StatusCode() int { return e.Kind.StatusCode() }

// Is 按类别匹配，与 message 无关：errors.Is(err, ErrNotFound)
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// WithCause 返回带底层原因的副本
func (e *Error) WithCause(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

// 供 errors.Is 使用
var (
	ErrBadRequest   = &Error{Kind: KindBadRequest}
	ErrDuplicate    = &Error{Kind: KindDuplicateResource}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindResourceNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

// ErrUniqueViolation 仓储层遇到唯一索引冲突时返回，service 转成 DuplicateResource
var ErrUniqueViolation = errors.New("unique constraint violation")

func NewBadRequest(msg string) *Error  { return &Error{Kind: KindBadRequest, Message: msg} }
func NewDuplicate(msg string) *Error    { return &Error{Kind: KindDuplicateResource, Message: msg} }
func NewForbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NewNotFound(msg string) *Error     { return &Error{Kind: KindResourceNotFound, Message: msg} }
func NewUnauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

func AccessDenied() *Error { return NewForbidden("Access denied") }

func UnauthorizedAccess() *Error { return NewUnauthorized("Unauthorized access") }

// NotFoundField "{resource} not found with {field}: '{value}'"
func NotFoundField(resource, field string, value any) *Error {
	return NewNotFound(fmt.Sprintf("%s not found with %s: '%v'", resource, field, value))
}

func NotFoundID(resource string, id int64) *Error {
	return NewNotFound(fmt.Sprintf("%s not found with id: %d", resource, id))
}

// DuplicateField "{resource} already exists with {field}: '{value}'"
func DuplicateField(resource, field string, value any) *Error {
	return NewDuplicate(fmt.Sprintf("%s already exists with %s: '%v'", resource, field, value))
}

func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

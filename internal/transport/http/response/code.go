package response

import "net/http"

// 默认提示语（与 HTTP 状态码一一对应）
const (
	MsgSuccess          = "Success"
	MsgCreated          = "Created successfully"
	MsgValidationFailed = "Validation failed"
	MsgInternalError    = "Internal server error"
)

// StatusMsgMap 用于集中管理 status - 默认 msg
var StatusMsgMap = map[int]string{
	http.StatusOK:                    MsgSuccess,
	http.StatusCreated:               MsgCreated,
	http.StatusBadRequest:            "Bad request",
	http.StatusUnauthorized:          "Unauthorized access",
	http.StatusForbidden:             "Access denied",
	http.StatusNotFound:              "Resource not found",
	http.StatusConflict:              "Resource already exists",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests",
	http.StatusInternalServerError:   MsgInternalError,
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timeout",
}

// DefaultMsg 未登记的状态码回退到标准文案
func DefaultMsg(status int) string {
	if m, ok := StatusMsgMap[status]; ok {
		return m
	}
	return http.StatusText(status)
}

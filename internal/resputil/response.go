package resputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response[T any] struct {
	Code ErrorCode `json:"code"`
	Data T         `json:"data"`
	Msg  string    `json:"msg"`
}

func wrapResponse(c *gin.Context, httpCode int, msg string, data any, code ErrorCode) {
	c.JSON(httpCode, Response[any]{
		Code: code,
		Data: data,
		Msg:  msg,
	})
}

func Success(c *gin.Context, data any) {
	wrapResponse(c, http.StatusOK, "", data, OK)
}

// Error answers 500 unless code maps to a more specific status.
func Error(c *gin.Context, msg string, errorCode ErrorCode) {
	wrapResponse(c, statusOf(errorCode), msg, nil, errorCode)
}

func HTTPError(c *gin.Context, httpCode int, msg string, errorCode ErrorCode) {
	wrapResponse(c, httpCode, msg, nil, errorCode)
}

func BadRequestError(c *gin.Context, msg string) {
	HTTPError(c, http.StatusBadRequest, msg, InvalidRequest)
}

func statusOf(code ErrorCode) int {
	switch code {
	case InvalidRequest, NotConfirmed:
		return http.StatusBadRequest
	case TokenExpired, TokenInvalid, InvalidCredentials:
		return http.StatusUnauthorized
	case UserNotAllowed:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case ReplyFailed:
		return http.StatusBadGateway
	case SessionLoading:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

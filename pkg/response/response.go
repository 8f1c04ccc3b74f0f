package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type APIResponse[T any] struct {
	StatusCode int       `json:"statusCode"`
	Message    string    `json:"message"`
	Data       T         `json:"data,omitempty"`
	Meta       any       `json:"meta,omitempty"`
	Error      any       `json:"error,omitempty"`
	RequestID  string    `json:"requestId"`
	Timestamp  time.Time `json:"timestamp"`
	Success    bool      `json:"success"`
}

// Success writes a success envelope with data and optional meta.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	res := APIResponse[T]{
		StatusCode: status,
		Message:    message,
		Data:       data,
		Meta:       meta,
		RequestID:  ctx.GetString("request_id"),
		Timestamp:  time.Now().UTC(),
		Success:    true,
	}
	ctx.JSON(status, res)
	return res
}

// Error writes a failure envelope and aborts the handler chain.
func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	res := APIResponse[T]{
		StatusCode: status,
		Message:    message,
		Error:      err,
		RequestID:  ctx.GetString("request_id"),
		Timestamp:  time.Now().UTC(),
		Success:    false,
	}
	ctx.AbortWithStatusJSON(status, res)
	return res
}

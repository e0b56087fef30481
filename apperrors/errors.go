package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message, nil)
}

// Internal wraps an unexpected failure. The cause is logged, never sent to clients.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

func BadGateway(message string, err error) *Error {
	return New(http.StatusBadGateway, message, err)
}

func Unavailable(message string) *Error {
	return New(http.StatusServiceUnavailable, message, nil)
}

// Respond writes err as a `{message}` body. Errors that are not *Error become a 500.
func Respond(c *gin.Context, err error) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Internal("Internal server error", err)
	}

	if appErr.Code >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.Int("status", appErr.Code),
			zap.String("path", c.Request.URL.Path),
		}
		if rid := c.GetString("request_id"); rid != "" {
			fields = append(fields, zap.String("request_id", rid))
		}
		if appErr.Err != nil {
			fields = append(fields, zap.Error(appErr.Err))
		}
		zap.L().Error(appErr.Message, fields...)
	}

	c.AbortWithStatusJSON(appErr.Code, gin.H{"message": appErr.Message})
}

// Recovery turns a panic into a 500 `{message}` response.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Respond(c, Internal("Internal server error", fmt.Errorf("panic: %v", recovered)))
	})
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/nutritrack/backend/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BindError marks a request that failed validation at the binding layer.
type BindError struct {
	Err error
}

func (e *BindError) Error() string { return e.Err.Error() }
func (e *BindError) Unwrap() error { return e.Err }

// StatusFor maps a failure kind to its HTTP status code.
func StatusFor(err error) int {
	var bindErr *BindError
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, service.ErrInvalidSecret),
		errors.Is(err, service.ErrInvalidDataURI),
		errors.As(err, &bindErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// messageFor keeps backend details out of responses.
func messageFor(err error, status int) string {
	switch {
	case errors.Is(err, service.ErrStorageUnavailable):
		return service.ErrStorageUnavailable.Error()
	case errors.Is(err, service.ErrInvalidToken):
		return service.ErrNotAuthenticated.Error()
	case errors.Is(err, service.ErrInvalidSecret):
		return service.ErrInvalidSecret.Error()
	case status == http.StatusInternalServerError:
		return "Internal Server Error"
	}
	return err.Error()
}

// ErrorHandler renders the last error attached to the gin context as a JSON
// envelope and recovers from panics
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic serving request",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		}
		c.JSON(status, ErrorResponse{Message: messageFor(err, status)})
	}
}

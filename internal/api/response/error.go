package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ctchen222/Prompt-Benchmark/internal/apperror"
)

const internalErrorMessage = "internal server error"

var statusByCode = map[string]int{
	apperror.CodeConflict:       http.StatusConflict,
	apperror.CodeBadCredentials: http.StatusBadRequest,
	apperror.CodeUnauthorized:   http.StatusUnauthorized,
	apperror.CodeForbidden:      http.StatusForbidden,
	apperror.CodeNotFound:       http.StatusNotFound,
	apperror.CodeInvalidInput:   http.StatusBadRequest,
	apperror.CodeModelFailure:   http.StatusInternalServerError,
}

// Status returns the HTTP status for err and the message safe to show the client.
func Status(err error) (int, string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, internalErrorMessage
	}
	status, ok := statusByCode[appErr.Code]
	if !ok {
		return http.StatusInternalServerError, internalErrorMessage
	}
	if appErr.Code == apperror.CodeModelFailure && appErr.Cause != nil {
		return status, appErr.Error()
	}
	return status, appErr.Message
}

// Error writes err as an error envelope. Errors without a known code are
// logged and reported with a generic message.
func Error(c *gin.Context, err error) {
	status, message := Status(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"error", err,
			"http.method", c.Request.Method,
			"http.path", c.FullPath(),
		)
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	ErrorResponse(c, status, message)
}

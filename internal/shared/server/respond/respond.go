package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/shared/apperr"
	"cargo-backend/internal/shared/telemetry"
)

// ErrorBody is the error payload existing clients read.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends an error response and logs it.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if uid := c.GetString("uid"); uid != "" {
		fields["uid"] = uid
	}
	if details != nil {
		fields["details"] = details
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorBody{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Fail renders a pipeline error as 422 with the message for its kind.
func Fail(c *gin.Context, err error) {
	code, message := apperr.Describe(err)
	Error(c, http.StatusUnprocessableEntity, code, message, err.Error())
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 response.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

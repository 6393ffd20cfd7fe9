package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/shared/server/respond"
	"cargo-backend/internal/shared/telemetry"
)

// Recovery turns a panic inside a handler into a 500. The pipeline and uid set by
// the handler, if any, are logged with the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"panic":      rec,
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}
			if p := c.GetString("pipeline"); p != "" {
				fields["pipeline"] = p
			}
			if uid := c.GetString("uid"); uid != "" {
				fields["uid"] = uid
			}
			telemetry.Error("http.panic", fields)
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}

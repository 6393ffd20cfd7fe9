package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/shared/server/respond"
)

const UnauthorizedMessage = "You need to be authorized to access this"

// BearerAuth admits requests whose Authorization header carries the shared secret.
// The "Bearer " prefix is optional. An empty secret rejects everything.
// Rejections answer 422, which is what existing clients expect.
func BearerAuth(secret string) gin.HandlerFunc {
	want := []byte(secret)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if len(want) == 0 || token == "" || subtle.ConstantTimeCompare([]byte(token), want) != 1 {
			respond.Error(c, http.StatusUnprocessableEntity, "unauthorized", UnauthorizedMessage, nil)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	return strings.TrimPrefix(strings.TrimSpace(header), "Bearer ")
}

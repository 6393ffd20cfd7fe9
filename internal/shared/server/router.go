package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargo-backend/internal/conversions"
	"cargo-backend/internal/parsing"
	"cargo-backend/internal/shared/config"
	"cargo-backend/internal/shared/metrics"
	"cargo-backend/internal/shared/server/middleware"
	"cargo-backend/internal/shared/server/respond"
	"cargo-backend/internal/shared/telemetry"
	"cargo-backend/internal/uploads"
)

type RouterDeps struct {
	Config            config.Config
	ConversionHandler *conversions.Handler
	ParsingHandler    *parsing.Handler
	UploadHandler     *uploads.Handler
	RateLimiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	// ClientIP keys the upload throttle, so forwarding headers count only from known proxies.
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		telemetry.Warn("router.trusted_proxies_invalid", map[string]any{
			"proxies": deps.Config.TrustedProxies,
			"error":   err,
		})
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	auth := middleware.BearerAuth(deps.Config.AuthToken)
	throttle := middleware.RateLimit(deps.RateLimiter, middleware.RateLimitRule{
		Rate:  deps.Config.UploadRateLimit,
		Burst: deps.Config.UploadRateBurst,
	})

	root := &r.RouterGroup
	if deps.ConversionHandler != nil {
		deps.ConversionHandler.RegisterRoutes(root, auth)
	}
	if deps.ParsingHandler != nil {
		deps.ParsingHandler.RegisterRoutes(root, auth)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(root, throttle, auth)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

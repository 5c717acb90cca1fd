package http

import (
	"github.com/gin-gonic/gin"

	"github.com/layer-3/gatekeeper/config"
	"github.com/layer-3/gatekeeper/internal/ratelimit"
	"github.com/layer-3/gatekeeper/service"
)

// RouterOptions carry the externally configured transport behavior.
type RouterOptions struct {
	CSRFMode    config.CSRFMode
	CORSOrigins []string
	Cookies     CookieOptions
}

// SetupRouter sets up the Gin router. Middleware order: CORS, then rate
// limiting, then session auth, then the CSRF guard on mutating routes.
func SetupRouter(
	authService *service.AuthService,
	csrfService *service.CSRFService,
	limiter ratelimit.Limiter,
	opts RouterOptions,
) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware(opts.CORSOrigins))

	handlers := NewAuthHandlers(authService, csrfService, opts.Cookies)

	authed := AuthMiddleware(authService)
	csrf := CSRFMiddleware(csrfService, opts.CSRFMode)

	// Sign-in, verification and refresh get the stricter auth budget;
	// successful calls are refunded so legitimate retries are not penalized.
	authLimited := RateLimitMiddleware(limiter, ratelimit.PolicyAuth, true)
	generalLimited := RateLimitMiddleware(limiter, ratelimit.PolicyGeneral, false)

	auth := router.Group("/auth")
	{
		auth.POST("/wallet/nonce", authLimited, handlers.Nonce)
		auth.POST("/wallet/verify", authLimited, handlers.Verify)
		auth.POST("/refresh", authLimited, handlers.Refresh)

		auth.GET("/session", generalLimited, authed, handlers.Session)
		auth.POST("/logout", generalLimited, handlers.Logout)

		auth.POST("/wallet/link", generalLimited, authed, csrf, handlers.LinkWallet)
		auth.POST("/wallet/unlink", generalLimited, authed, csrf, handlers.UnlinkWallet)
	}

	return router
}

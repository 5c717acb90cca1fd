package http

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/gatekeeper/config"
	"github.com/layer-3/gatekeeper/internal/ratelimit"
	"github.com/layer-3/gatekeeper/service"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "auth_token"

// CSRFHeaderName carries CSRF tokens on state-changing requests.
const CSRFHeaderName = "X-CSRF-Token"

// AuthMiddleware creates middleware that validates the session cookie and
// places the claims in the request context.
func AuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			abort(c, http.StatusUnauthorized, "No authentication token")
			return
		}

		claims, err := authService.Session(c.Request.Context(), token)
		if err != nil {
			// The specific failure (malformed, bad signature, expired,
			// revoked) is logged; the external message stays uniform.
			log.Printf("session rejected: %v", err)
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RateLimitMiddleware enforces the policy per client IP and exposes the
// standard RateLimit headers on every response. With forgiveOnSuccess set,
// a request that completes below 400 refunds its slot so legitimate retries
// after transient auth failures are not penalized.
func RateLimitMiddleware(limiter ratelimit.Limiter, policy ratelimit.Policy, forgiveOnSuccess bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		result, err := limiter.Allow(c.Request.Context(), clientIP, policy)
		if err != nil {
			// A broken limiter backend must not take the API down.
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		c.Header("RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("RateLimit-Reset", strconv.FormatInt(int64(time.Until(result.Reset).Seconds()), 10))

		if !result.Allowed {
			abort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}

		c.Next()

		if forgiveOnSuccess && c.Writer.Status() < http.StatusBadRequest {
			if err := limiter.Forgive(c.Request.Context(), clientIP, policy); err != nil {
				log.Printf("rate limiter forgive failed: %v", err)
			}
		}
	}
}

// CSRFMiddleware validates the CSRF token accompanying non-safe requests
// against the caller's session. Must run after AuthMiddleware. In log-only
// mode the check still runs but only logs the would-be rejection.
func CSRFMiddleware(csrf *service.CSRFService, mode config.CSRFMode) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		claims, ok := sessionClaims(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "No authentication token")
			return
		}

		token := c.GetHeader(CSRFHeaderName)
		if token == "" {
			token = c.Query("csrf_token")
		}

		if err := csrf.Validate(c.Request.Context(), token, claims.TokenID); err != nil {
			if mode == config.CSRFLogOnly {
				log.Printf("csrf check failed (log-only): %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				c.Next()
				return
			}
			abort(c, http.StatusForbidden, "Invalid CSRF token")
			return
		}

		c.Next()
	}
}

// CORSMiddleware applies the configured origin allow-list and answers
// preflight requests.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Allow-Headers", "Content-Type, "+CSRFHeaderName)
				c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				c.Header("Access-Control-Expose-Headers", CSRFHeaderName)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/gatekeeper/core"
	"github.com/layer-3/gatekeeper/service"
)

// CookieOptions control how session cookies are written.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
	csrfService *service.CSRFService
	cookies     CookieOptions
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService, csrfService *service.CSRFService, cookies CookieOptions) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		csrfService: csrfService,
		cookies:     cookies,
	}
}

// Nonce handles POST /auth/wallet/nonce
func (h *AuthHandlers) Nonce(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Missing or malformed address")
		return
	}

	challenge, message, err := h.authService.CreateChallenge(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			fail(c, http.StatusBadRequest, "Missing or malformed address")
			return
		}
		log.Printf("failed to create challenge: %v", err)
		fail(c, http.StatusInternalServerError, "Failed to create challenge")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"nonce":     challenge.Nonce,
		"message":   message,
		"domain":    challenge.Domain,
		"expiresAt": challenge.ExpiresAt.Format(time.RFC3339),
	})
}

// Verify handles POST /auth/wallet/verify
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Address   string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Missing message, signature or address")
		return
	}

	claims, token, err := h.authService.VerifyLogin(c.Request.Context(), req.Message, req.Signature, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrMalformedMessage):
			fail(c, http.StatusBadRequest, "Malformed sign-in message")
		case errors.Is(err, core.ErrReplay), errors.Is(err, core.ErrInvalidSignature):
			// Replay and bad signatures are indistinguishable to the caller.
			log.Printf("wallet verification rejected: %v", err)
			fail(c, http.StatusUnauthorized, "Authentication failed")
		default:
			log.Printf("wallet verification error: %v", err)
			fail(c, http.StatusInternalServerError, "Authentication failed")
		}
		return
	}

	h.setSessionCookie(c, token)
	h.issueCSRFToken(c, claims)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    claims.User(),
	})
}

// Session handles GET /auth/session
func (h *AuthHandlers) Session(c *gin.Context) {
	claims, ok := sessionClaims(c)
	if !ok {
		fail(c, http.StatusInternalServerError, "Session missing from context")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    claims.User(),
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil || token == "" {
		fail(c, http.StatusUnauthorized, "No authentication token")
		return
	}

	claims, newToken, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		log.Printf("refresh rejected: %v", err)
		fail(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	h.setSessionCookie(c, newToken)
	h.issueCSRFToken(c, claims)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   newToken,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			log.Printf("logout revocation failed: %v", err)
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// LinkWallet handles POST /auth/wallet/link
func (h *AuthHandlers) LinkWallet(c *gin.Context) {
	h.walletOp(c, h.authService.LinkWallet)
}

// UnlinkWallet handles POST /auth/wallet/unlink
func (h *AuthHandlers) UnlinkWallet(c *gin.Context) {
	h.walletOp(c, h.authService.UnlinkWallet)
}

func (h *AuthHandlers) walletOp(c *gin.Context, op func(ctx context.Context, claims core.SessionClaims, userID, address string) error) {
	claims, ok := sessionClaims(c)
	if !ok {
		fail(c, http.StatusInternalServerError, "Session missing from context")
		return
	}

	var req struct {
		UserID  string `json:"userId" binding:"required"`
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Missing userId or address")
		return
	}

	if err := op(c.Request.Context(), claims, req.UserID, req.Address); err != nil {
		switch {
		case errors.Is(err, core.ErrUnauthorized):
			fail(c, http.StatusForbidden, "Unauthorized user id")
		case errors.Is(err, core.ErrValidation):
			fail(c, http.StatusBadRequest, "Missing userId or address")
		default:
			log.Printf("wallet operation failed: %v", err)
			fail(c, http.StatusInternalServerError, "Wallet operation failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandlers) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(SessionCookieName, token, int(h.authService.SessionTTL().Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *AuthHandlers) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.cookies.Secure, true)
}

func (h *AuthHandlers) issueCSRFToken(c *gin.Context, claims core.SessionClaims) {
	csrfToken, err := h.csrfService.Issue(c.Request.Context(), claims.TokenID)
	if err != nil {
		// The session still works; the client just cannot mutate until the
		// next refresh hands out a token.
		log.Printf("failed to issue csrf token: %v", err)
		return
	}
	c.Header(CSRFHeaderName, csrfToken)
}

package http

import (
	"github.com/gin-gonic/gin"

	"github.com/layer-3/gatekeeper/core"
)

// All error responses share the {success:false, message} shape.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

const claimsContextKey = "sessionClaims"

// sessionClaims returns the claims placed in the context by AuthMiddleware.
func sessionClaims(c *gin.Context) (core.SessionClaims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return core.SessionClaims{}, false
	}
	claims, ok := value.(core.SessionClaims)
	return claims, ok
}

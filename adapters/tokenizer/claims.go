package tokenizer

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/layer-3/gatekeeper/core"
)

// SessionTokenClaims combines standard claims with identity-specific ones
type SessionTokenClaims struct {
	jwt.RegisteredClaims
	UserID     string          `json:"uid"`
	AuthMethod core.AuthMethod `json:"amr"`
}

package tokenizer

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/layer-3/gatekeeper/core"
	"github.com/layer-3/gatekeeper/ports"
)

// AudienceSession marks tokens minted for session use.
const AudienceSession = "session:access"

// JWTTokenizer implements the Tokenizer interface using HS256 JWTs signed
// with a server-held secret. Tokens are tamper-evident, not encrypted, and
// verifiable without a database lookup.
type JWTTokenizer struct {
	secret []byte
}

// NewJWTTokenizer creates a new JWT tokenizer.
func NewJWTTokenizer(secret []byte) ports.Tokenizer {
	return &JWTTokenizer{secret: secret}
}

// Issue converts session claims to a signed JWT token
func (j *JWTTokenizer) Issue(claims core.SessionClaims) (string, error) {
	tokenClaims := SessionTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Address,
			ID:        claims.TokenID,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			Audience:  jwt.ClaimStrings{AudienceSession},
		},
		UserID:     claims.UserID,
		AuthMethod: claims.AuthMethod,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)

	signedToken, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify parses a session token and returns its claims. Failures are typed
// so callers can log the specific reason while the HTTP boundary keeps the
// external message uniform.
func (j *JWTTokenizer) Verify(tokenStr string) (core.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithAudience(AudienceSession))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return core.SessionClaims{}, core.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return core.SessionClaims{}, core.ErrTokenBadSignature
		default:
			return core.SessionClaims{}, fmt.Errorf("%w: %v", core.ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return core.SessionClaims{}, core.ErrTokenBadSignature
	}

	claims, ok := token.Claims.(*SessionTokenClaims)
	if !ok || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return core.SessionClaims{}, core.ErrTokenMalformed
	}

	return core.SessionClaims{
		Address:    claims.Subject,
		UserID:     claims.UserID,
		AuthMethod: claims.AuthMethod,
		TokenID:    claims.ID,
		IssuedAt:   claims.IssuedAt.Time,
		ExpiresAt:  claims.ExpiresAt.Time,
	}, nil
}

package ports

import "github.com/layer-3/gatekeeper/core"

// Tokenizer converts between session claims and signed tokens
type Tokenizer interface {
	// Issue mints a signed session token from the given claims.
	Issue(claims core.SessionClaims) (string, error)

	// Verify checks signature integrity and expiry. Failures are typed:
	// core.ErrTokenMalformed, core.ErrTokenBadSignature, core.ErrTokenExpired.
	Verify(token string) (core.SessionClaims, error)
}

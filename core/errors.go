package core

import "errors"

var (
	// ErrValidation is returned when a request is missing or has malformed fields
	ErrValidation = errors.New("invalid request")

	// ErrNoToken is returned when no session token accompanies the request
	ErrNoToken = errors.New("no authentication token")

	// ErrTokenMalformed is returned when a token cannot be parsed
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenBadSignature is returned when a token signature does not verify
	ErrTokenBadSignature = errors.New("bad token signature")

	// ErrTokenExpired is returned when a token is past its expiry
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenRevoked is returned when a token has been revoked before expiry
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrInvalidSignature is returned when a wallet signature does not recover
	// to the claimed address
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMalformedMessage is returned when a challenge message does not match
	// the canonical grammar
	ErrMalformedMessage = errors.New("malformed challenge message")

	// ErrReplay is returned when a nonce has already been consumed or expired
	ErrReplay = errors.New("nonce already used or expired")

	// ErrUnauthorized is returned when an authenticated caller acts on another
	// subject's resource
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCSRF is returned when a state-changing request carries no valid CSRF token
	ErrCSRF = errors.New("invalid csrf token")

	// ErrRateLimited is returned when a client exceeds its request budget
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrStoreOperationFailed is returned when a store operation fails
	ErrStoreOperationFailed = errors.New("store operation failed")
)

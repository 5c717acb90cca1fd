package core

import "time"

// AuthMethod identifies how a user proved their identity.
type AuthMethod string

const (
	AuthMethodWallet AuthMethod = "wallet"
	AuthMethodEmail  AuthMethod = "email"
)

// Challenge represents a pending sign-in challenge
type Challenge struct {
	Address   string    `json:"address"`    // Ethereum address the challenge was issued for
	ChainID   uint64    `json:"chain_id"`   // EIP-155 chain ID bound into the message
	Domain    string    `json:"domain"`     // Domain requesting the signature
	Nonce     string    `json:"nonce"`      // Single-use random nonce
	IssuedAt  time.Time `json:"issued_at"`  // When the challenge was created
	ExpiresAt time.Time `json:"expires_at"` // When the challenge expires
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// User is the identity a session asserts.
type User struct {
	Address    string     `json:"address"`
	UserID     string     `json:"userId"`
	AuthMethod AuthMethod `json:"authMethod"`
}

// SessionClaims are the identity claims carried by a session token.
type SessionClaims struct {
	Address    string     // Subject wallet address (lowercased)
	UserID     string     // Stable user identifier
	AuthMethod AuthMethod // wallet or email
	TokenID    string     // Unique token identifier (jti)
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// User returns the user view of the claims.
func (c SessionClaims) User() User {
	return User{
		Address:    c.Address,
		UserID:     c.UserID,
		AuthMethod: c.AuthMethod,
	}
}

package siwe

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// nonceBytes gives 128 bits of entropy per nonce.
const nonceBytes = 16

// NewNonce returns a cryptographically random single-use nonce.
func NewNonce() (string, error) {
	buf := make([]byte, nonceBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

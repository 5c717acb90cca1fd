package siwe

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNonce(t *testing.T) {
	nonce, err := NewNonce()
	require.NoError(t, err)

	decoded, err := hex.DecodeString(nonce)
	require.NoError(t, err)
	require.Len(t, decoded, nonceBytes)
}

func TestNewNonceUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		nonce, err := NewNonce()
		require.NoError(t, err)

		_, dup := seen[nonce]
		require.False(t, dup, "nonce %q generated twice", nonce)
		seen[nonce] = struct{}{}
	}
}

// Package eth verifies EIP-191 personal-sign signatures produced by wallets.
package eth

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// signatureLength is r (32) + s (32) + v (1).
const signatureLength = 65

// RecoverAddress recovers the address that produced sig over the
// personal-sign digest of message.
func RecoverAddress(message string, sig []byte) (common.Address, error) {
	if len(sig) != signatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", signatureLength, len(sig))
	}

	// Wallets return the recovery byte as 27/28; crypto.SigToPub wants 0/1.
	normalized := make([]byte, signatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}

	digest := accounts.TextHash([]byte(message))
	pubKey, err := crypto.SigToPub(digest, normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// VerifySignature reports whether sigHex is a valid personal-sign signature
// over message by claimedAddress. Address comparison is case-insensitive.
// All failure paths return false; nothing about the signature is logged.
func VerifySignature(message, sigHex, claimedAddress string) bool {
	if !common.IsHexAddress(claimedAddress) {
		return false
	}

	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return false
	}

	recovered, err := RecoverAddress(message, sig)
	if err != nil {
		return false
	}

	return strings.EqualFold(recovered.Hex(), claimedAddress)
}

// Package siwe builds and parses the canonical Sign-In-With-Ethereum style
// challenge message wallets sign to prove control of an address.
package siwe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/layer-3/gatekeeper/core"
)

// Message is the canonical challenge bound to a single sign-in attempt.
type Message struct {
	Domain    string
	Address   string
	ChainID   uint64
	Nonce     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// String serializes the message deterministically. Equal inputs always
// produce byte-identical output: timestamps are RFC3339 UTC, lines are
// joined with "\n" and carry no trailing whitespace.
func (m Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", m.Domain)
	fmt.Fprintf(&b, "%s\n", m.Address)
	b.WriteString("\n")
	fmt.Fprintf(&b, "URI: https://%s\n", m.Domain)
	b.WriteString("Version: 1\n")
	fmt.Fprintf(&b, "Chain ID: %d\n", m.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", m.Nonce)
	fmt.Fprintf(&b, "Issued At: %s\n", m.IssuedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Expiration Time: %s", m.ExpiresAt.UTC().Format(time.RFC3339))
	return b.String()
}

const (
	headerSuffix = " wants you to sign in with your Ethereum account:"

	uriPrefix        = "URI: https://"
	versionLine      = "Version: 1"
	chainIDPrefix    = "Chain ID: "
	noncePrefix      = "Nonce: "
	issuedAtPrefix   = "Issued At: "
	expirationPrefix = "Expiration Time: "
)

// ParseMessage parses a canonical challenge message. The grammar is strict:
// any missing line, malformed address, non-numeric chain id, malformed
// timestamp, or whitespace deviation from the canonical serialization fails
// with core.ErrMalformedMessage.
func ParseMessage(text string) (Message, error) {
	lines := strings.Split(text, "\n")
	if len(lines) != 9 {
		return Message{}, fmt.Errorf("%w: expected 9 lines, got %d", core.ErrMalformedMessage, len(lines))
	}

	var m Message

	if !strings.HasSuffix(lines[0], headerSuffix) {
		return Message{}, fmt.Errorf("%w: bad header line", core.ErrMalformedMessage)
	}
	m.Domain = strings.TrimSuffix(lines[0], headerSuffix)
	if m.Domain == "" {
		return Message{}, fmt.Errorf("%w: empty domain", core.ErrMalformedMessage)
	}

	m.Address = lines[1]
	if !common.IsHexAddress(m.Address) {
		return Message{}, fmt.Errorf("%w: malformed address", core.ErrMalformedMessage)
	}

	if lines[2] != "" {
		return Message{}, fmt.Errorf("%w: missing separator line", core.ErrMalformedMessage)
	}
	if lines[3] != uriPrefix+m.Domain {
		return Message{}, fmt.Errorf("%w: URI does not match domain", core.ErrMalformedMessage)
	}
	if lines[4] != versionLine {
		return Message{}, fmt.Errorf("%w: unsupported version", core.ErrMalformedMessage)
	}

	chainStr := strings.TrimPrefix(lines[5], chainIDPrefix)
	if chainStr == lines[5] {
		return Message{}, fmt.Errorf("%w: missing chain id", core.ErrMalformedMessage)
	}
	chainID, err := strconv.ParseUint(chainStr, 10, 64)
	if err != nil {
		return Message{}, fmt.Errorf("%w: non-numeric chain id", core.ErrMalformedMessage)
	}
	m.ChainID = chainID

	m.Nonce = strings.TrimPrefix(lines[6], noncePrefix)
	if m.Nonce == lines[6] || m.Nonce == "" {
		return Message{}, fmt.Errorf("%w: missing nonce", core.ErrMalformedMessage)
	}

	m.IssuedAt, err = parseTimestamp(lines[7], issuedAtPrefix)
	if err != nil {
		return Message{}, err
	}
	m.ExpiresAt, err = parseTimestamp(lines[8], expirationPrefix)
	if err != nil {
		return Message{}, err
	}

	// Round-trip check: rebuilding from the parsed fields must reproduce the
	// input exactly, so nothing is normalized in one direction only.
	if m.String() != text {
		return Message{}, fmt.Errorf("%w: non-canonical serialization", core.ErrMalformedMessage)
	}

	return m, nil
}

func parseTimestamp(line, prefix string) (time.Time, error) {
	value := strings.TrimPrefix(line, prefix)
	if value == line {
		return time.Time{}, fmt.Errorf("%w: missing %q field", core.ErrMalformedMessage, strings.TrimSuffix(prefix, ": "))
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed timestamp %q", core.ErrMalformedMessage, value)
	}
	return ts, nil
}

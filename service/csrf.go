package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/layer-3/gatekeeper/core"
	"github.com/layer-3/gatekeeper/ports"
)

const csrfKeyPrefix = "csrf:"

// DefaultCSRFTTL is how long issued CSRF tokens stay valid. Tokens are
// reusable within the window; the store sweep purges them at expiry.
const DefaultCSRFTTL = 24 * time.Hour

// CSRFService issues and validates CSRF tokens bound to a session.
type CSRFService struct {
	store ports.ReplayStore
	ttl   time.Duration
}

// NewCSRFService creates a new CSRF service.
func NewCSRFService(store ports.ReplayStore) *CSRFService {
	return &CSRFService{
		store: store,
		ttl:   DefaultCSRFTTL,
	}
}

// Issue mints a random token mapped to the session id.
func (s *CSRFService) Issue(ctx context.Context, sessionID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.store.Put(ctx, csrfKeyPrefix+token, sessionID, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store csrf token: %w", err)
	}
	return token, nil
}

// Validate checks that the token exists, is unexpired and is bound to the
// caller's session. The session comparison is constant-time.
func (s *CSRFService) Validate(ctx context.Context, token, sessionID string) error {
	if token == "" {
		return core.ErrCSRF
	}

	stored, ok, err := s.store.Get(ctx, csrfKeyPrefix+token)
	if err != nil {
		return fmt.Errorf("failed to look up csrf token: %w", err)
	}
	if !ok {
		return core.ErrCSRF
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(sessionID)) != 1 {
		return core.ErrCSRF
	}
	return nil
}

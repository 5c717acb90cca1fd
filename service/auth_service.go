package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/layer-3/gatekeeper/core"
	"github.com/layer-3/gatekeeper/internal/eth"
	"github.com/layer-3/gatekeeper/internal/siwe"
	"github.com/layer-3/gatekeeper/ports"
)

const (
	challengeKeyPrefix = "challenge:"
	revokedKeyPrefix   = "revoked:"
)

// AuthService handles wallet authentication business logic
type AuthService struct {
	tokenizer ports.Tokenizer
	store     ports.ReplayStore
	users     ports.UserDirectory
	eventPub  ports.EventPublisher

	domain  string
	chainID uint64

	challengeTTL time.Duration
	sessionTTL   time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tokenizer ports.Tokenizer,
	store ports.ReplayStore,
	users ports.UserDirectory,
	eventPub ports.EventPublisher,
	domain string,
	chainID uint64,
) *AuthService {
	return &AuthService{
		tokenizer:    tokenizer,
		store:        store,
		users:        users,
		eventPub:     eventPub,
		domain:       domain,
		chainID:      chainID,
		challengeTTL: 5 * time.Minute,
		sessionTTL:   7 * 24 * time.Hour,
	}
}

// SessionTTL returns the lifetime of issued session tokens.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// CreateChallenge generates a new sign-in challenge for the address and
// returns it together with the canonical message text the wallet must sign.
func (s *AuthService) CreateChallenge(ctx context.Context, address string) (core.Challenge, string, error) {
	if !common.IsHexAddress(address) {
		return core.Challenge{}, "", fmt.Errorf("%w: malformed address", core.ErrValidation)
	}

	nonce, err := siwe.NewNonce()
	if err != nil {
		return core.Challenge{}, "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := time.Now()
	challenge := core.Challenge{
		Address:   strings.ToLower(address),
		ChainID:   s.chainID,
		Domain:    s.domain,
		Nonce:     nonce,
		IssuedAt:  now.UTC().Truncate(time.Second),
		ExpiresAt: now.UTC().Truncate(time.Second).Add(s.challengeTTL),
	}

	payload, err := json.Marshal(challenge)
	if err != nil {
		return core.Challenge{}, "", fmt.Errorf("failed to encode challenge: %w", err)
	}
	if err := s.store.Put(ctx, challengeKeyPrefix+nonce, string(payload), s.challengeTTL); err != nil {
		return core.Challenge{}, "", fmt.Errorf("failed to store challenge: %w", err)
	}

	message := siwe.Message{
		Domain:    challenge.Domain,
		Address:   challenge.Address,
		ChainID:   challenge.ChainID,
		Nonce:     challenge.Nonce,
		IssuedAt:  challenge.IssuedAt,
		ExpiresAt: challenge.ExpiresAt,
	}

	return challenge, message.String(), nil
}

// VerifyLogin checks a signed challenge and mints a session token. The nonce
// is consumed exactly once, before signature verification, so a failed
// attempt burns it just like a successful one.
func (s *AuthService) VerifyLogin(ctx context.Context, messageText, signature, address string) (core.SessionClaims, string, error) {
	if !common.IsHexAddress(address) {
		return core.SessionClaims{}, "", fmt.Errorf("%w: malformed address", core.ErrValidation)
	}

	msg, err := siwe.ParseMessage(messageText)
	if err != nil {
		return core.SessionClaims{}, "", err
	}

	payload, ok, err := s.store.Consume(ctx, challengeKeyPrefix+msg.Nonce)
	if err != nil {
		return core.SessionClaims{}, "", fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !ok {
		return core.SessionClaims{}, "", core.ErrReplay
	}

	var challenge core.Challenge
	if err := json.Unmarshal([]byte(payload), &challenge); err != nil {
		return core.SessionClaims{}, "", fmt.Errorf("failed to decode challenge: %w", err)
	}

	if challenge.Expired(time.Now()) {
		return core.SessionClaims{}, "", core.ErrReplay
	}
	if msg.Domain != challenge.Domain || msg.ChainID != challenge.ChainID {
		return core.SessionClaims{}, "", fmt.Errorf("%w: message does not match challenge", core.ErrMalformedMessage)
	}
	if !strings.EqualFold(msg.Address, challenge.Address) || !strings.EqualFold(address, challenge.Address) {
		return core.SessionClaims{}, "", core.ErrInvalidSignature
	}

	if !eth.VerifySignature(messageText, signature, address) {
		return core.SessionClaims{}, "", core.ErrInvalidSignature
	}

	user, err := s.users.ResolveWallet(ctx, address)
	if err != nil {
		return core.SessionClaims{}, "", fmt.Errorf("failed to resolve user: %w", err)
	}

	claims, token, err := s.issue(user)
	if err != nil {
		return core.SessionClaims{}, "", err
	}

	if err := s.eventPub.PublishLogin(ctx, claims.Address, claims.UserID, claims.TokenID); err != nil {
		// The session is already issued; event delivery is best-effort.
		log.Printf("warning: failed to publish login event: %v", err)
	}

	return claims, token, nil
}

// Session validates a session token and returns its claims, rejecting
// tokens revoked by logout.
func (s *AuthService) Session(ctx context.Context, token string) (core.SessionClaims, error) {
	claims, err := s.tokenizer.Verify(token)
	if err != nil {
		return core.SessionClaims{}, err
	}

	_, revoked, err := s.store.Get(ctx, revokedKeyPrefix+claims.TokenID)
	if err != nil {
		return core.SessionClaims{}, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return core.SessionClaims{}, core.ErrTokenRevoked
	}

	return claims, nil
}

// Refresh requires a currently-valid token and issues a new one with a
// fresh expiry and identical identity claims.
func (s *AuthService) Refresh(ctx context.Context, token string) (core.SessionClaims, string, error) {
	claims, err := s.Session(ctx, token)
	if err != nil {
		return core.SessionClaims{}, "", err
	}

	return s.issueFrom(claims)
}

// Logout revokes the token for its remaining lifetime and publishes a
// logout event. An invalid or expired token still logs out successfully:
// the client clears its cookie either way.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokenizer.Verify(token)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt)
	if remaining <= 0 {
		return nil
	}

	if err := s.store.Put(ctx, revokedKeyPrefix+claims.TokenID, "1", remaining); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if err := s.eventPub.PublishLogout(ctx, claims.Address, claims.UserID, claims.TokenID); err != nil {
		log.Printf("warning: failed to publish logout event: %v", err)
	}

	return nil
}

// LinkWallet links an additional address to the authenticated user. The
// userID in the request must equal the token subject's user id.
func (s *AuthService) LinkWallet(ctx context.Context, claims core.SessionClaims, userID, address string) error {
	if userID != claims.UserID {
		return core.ErrUnauthorized
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: malformed address", core.ErrValidation)
	}
	return s.users.LinkWallet(ctx, userID, address)
}

// UnlinkWallet removes an address association from the authenticated user.
func (s *AuthService) UnlinkWallet(ctx context.Context, claims core.SessionClaims, userID, address string) error {
	if userID != claims.UserID {
		return core.ErrUnauthorized
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("%w: malformed address", core.ErrValidation)
	}
	return s.users.UnlinkWallet(ctx, userID, address)
}

func (s *AuthService) issue(user core.User) (core.SessionClaims, string, error) {
	now := time.Now()
	claims := core.SessionClaims{
		Address:    user.Address,
		UserID:     user.UserID,
		AuthMethod: user.AuthMethod,
		TokenID:    uuid.New().String(),
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.Issue(claims)
	if err != nil {
		return core.SessionClaims{}, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return claims, token, nil
}

func (s *AuthService) issueFrom(old core.SessionClaims) (core.SessionClaims, string, error) {
	return s.issue(core.User{
		Address:    old.Address,
		UserID:     old.UserID,
		AuthMethod: old.AuthMethod,
	})
}

package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/layer-3/gatekeeper/ports"
)

const (
	// LoginTopic carries successful wallet sign-ins
	LoginTopic = "gatekeeper.login"

	// LogoutTopic carries logouts for cross-instance notifications
	LogoutTopic = "gatekeeper.logout"
)

// AuthEvent is the payload published on login and logout
type AuthEvent struct {
	Address string `json:"address"`
	UserID  string `json:"user_id"`
	TokenID string `json:"token_id"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, address, userID, tokenID string) error {
	return p.publish(LoginTopic, address, userID, tokenID)
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, address, userID, tokenID string) error {
	return p.publish(LogoutTopic, address, userID, tokenID)
}

func (p *WatermillPublisher) publish(topic, address, userID, tokenID string) error {
	event := AuthEvent{
		Address: address,
		UserID:  userID,
		TokenID: tokenID,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(tokenID, payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

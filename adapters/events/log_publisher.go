package events

import (
	"context"
	"log"

	"github.com/layer-3/gatekeeper/ports"
)

// LogPublisher writes auth events to the process log. Used in
// single-instance mode where there is no broker to notify.
type LogPublisher struct{}

// NewLogPublisher creates a log-backed publisher.
func NewLogPublisher() ports.EventPublisher {
	return &LogPublisher{}
}

// PublishLogin logs a login event
func (p *LogPublisher) PublishLogin(ctx context.Context, address, userID, tokenID string) error {
	log.Printf("event login: address=%s user=%s token=%s", address, userID, tokenID)
	return nil
}

// PublishLogout logs a logout event
func (p *LogPublisher) PublishLogout(ctx context.Context, address, userID, tokenID string) error {
	log.Printf("event logout: address=%s user=%s token=%s", address, userID, tokenID)
	return nil
}

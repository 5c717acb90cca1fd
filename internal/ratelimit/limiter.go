// Package ratelimit enforces fixed-window request budgets keyed by client
// identifier and route class.
package ratelimit

import (
	"context"
	"time"
)

// Policy describes one request budget.
type Policy struct {
	Name   string // route class, part of the counter key
	Limit  int    // requests allowed per window
	Window time.Duration
}

// Default policies. Authentication routes get the stricter budget.
var (
	PolicyGeneral = Policy{Name: "general", Limit: 100, Window: 15 * time.Minute}
	PolicyAuth    = Policy{Name: "auth", Limit: 10, Window: 15 * time.Minute}
)

// Result reports the state of a budget after an Allow call. The fields map
// onto the RateLimit-Limit, RateLimit-Remaining and RateLimit-Reset headers.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter counts requests against policies. Implementations must increment
// atomically so concurrent requests cannot both land on the last slot.
type Limiter interface {
	// Allow records one request for the client under the policy and reports
	// whether it fits the budget.
	Allow(ctx context.Context, clientID string, p Policy) (Result, error)

	// Forgive refunds one previously counted request, used to exempt
	// successful authentications from the stricter auth budget.
	Forgive(ctx context.Context, clientID string, p Policy) error
}

func counterKey(clientID string, p Policy) string {
	return p.Name + ":" + clientID
}

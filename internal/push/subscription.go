package push

import (
	"context"
	"time"
)

// Subscription is one admin browser registered for push messages. Endpoint
// is both the delivery URL and the identity of the subscription.
type Subscription struct {
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is the payload delivered to every subscription. It is
// never persisted.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Store persists subscriptions keyed by endpoint.
type Store interface {
	// Upsert inserts the subscription or, for a known endpoint, replaces
	// its keys.
	Upsert(ctx context.Context, s Subscription) error
	// List returns all subscriptions, most recently created first.
	List(ctx context.Context) ([]Subscription, error)
	// Delete removes the subscription; deleting an unknown endpoint is a no-op.
	Delete(ctx context.Context, endpoint string) error
}

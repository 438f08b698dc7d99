package push

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// defaultTTL is how long the push service may hold an undelivered message.
const defaultTTL = 24 * 60 * 60

// DeliveryError describes a failed send. Gone means the push service said
// the subscription no longer exists (404 or 410) and it should be removed.
type DeliveryError struct {
	Endpoint   string
	StatusCode int
	Gone       bool
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("push: delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("push: delivery failed: HTTP %d", e.StatusCode)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsGone classifies a push service status code.
func IsGone(status int) bool {
	return status == http.StatusNotFound || status == http.StatusGone
}

// WebPushSender sends VAPID-signed, encrypted Web Push messages.
type WebPushSender struct {
	vapid  VAPIDConfig
	client webpush.HTTPClient
	ttl    int
}

func NewWebPushSender(vapid VAPIDConfig, client *http.Client) *WebPushSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &WebPushSender{
		vapid:  vapid,
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub Subscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		HTTPClient:      s.client,
		Subscriber:      subscriber(s.vapid.Subject),
		VAPIDPublicKey:  s.vapid.PublicKey,
		VAPIDPrivateKey: s.vapid.PrivateKey,
		TTL:             s.ttl,
		Urgency:         webpush.UrgencyHigh,
	})
	if err != nil {
		return &DeliveryError{Endpoint: sub.Endpoint, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return &DeliveryError{
		Endpoint:   sub.Endpoint,
		StatusCode: resp.StatusCode,
		Gone:       IsGone(resp.StatusCode),
	}
}

// subscriber strips the mailto: scheme; webpush-go adds it back for
// anything that is not an https URL.
func subscriber(subject string) string {
	return strings.TrimPrefix(subject, "mailto:")
}

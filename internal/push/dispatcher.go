package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"

	"pickup-service/internal/logger"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// VAPIDConfig is the key material and contact used to sign push requests.
type VAPIDConfig struct {
	PublicKey  string
	PrivateKey string
	Subject    string
}

// Enabled reports whether push is configured at all. Push is optional: a
// missing key pair turns dispatching into a no-op rather than an error.
func (c VAPIDConfig) Enabled() bool {
	return c.PublicKey != "" && c.PrivateKey != ""
}

// Sender delivers one encrypted payload to one subscription. Failures are
// reported as *DeliveryError.
type Sender interface {
	Send(ctx context.Context, sub Subscription, payload []byte) error
}

// Result counts the outcome of one dispatch.
type Result struct {
	Attempted int `json:"attempted"`
	Delivered int `json:"delivered"`
	Pruned    int `json:"pruned"`
	Failed    int `json:"failed"`
}

type Dispatcher struct {
	vapid       VAPIDConfig
	store       Store
	sender      Sender
	concurrency int
}

func NewDispatcher(vapid VAPIDConfig, store Store, sender Sender) *Dispatcher {
	return &Dispatcher{
		vapid:       vapid,
		store:       store,
		sender:      sender,
		concurrency: defaultConcurrency,
	}
}

func (d *Dispatcher) Enabled() bool {
	return d.vapid.Enabled()
}

// PublicKey is the VAPID application server key browsers subscribe with,
// or "" when push is not configured.
func (d *Dispatcher) PublicKey() string {
	if !d.Enabled() {
		return ""
	}
	return d.vapid.PublicKey
}

// Dispatch fans n out to every stored subscription. Each delivery is
// independent: one failing endpoint never stops the others. Subscriptions
// the push service reports as gone are deleted; any other failure is
// counted and left for the next dispatch. Only a failure to load the
// subscriptions is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) (Result, error) {
	if !d.Enabled() {
		return Result{}, nil
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return Result{}, fmt.Errorf("push: encode payload: %w", err)
	}

	subs, err := d.store.List(ctx)
	if err != nil {
		return Result{}, err
	}

	var delivered, pruned, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(d.concurrency)

	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			switch d.deliver(ctx, sub, payload) {
			case outcomeDelivered:
				delivered.Add(1)
			case outcomePruned:
				pruned.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Attempted: len(subs),
		Delivered: int(delivered.Load()),
		Pruned:    int(pruned.Load()),
		Failed:    int(failed.Load()),
	}, nil
}

type outcome int

const (
	outcomeDelivered outcome = iota
	outcomePruned
	outcomeFailed
)

func (d *Dispatcher) deliver(ctx context.Context, sub Subscription, payload []byte) outcome {
	err := d.sender.Send(ctx, sub, payload)
	if err == nil {
		return outcomeDelivered
	}

	var de *DeliveryError
	if errors.As(err, &de) && de.Gone {
		if err := d.store.Delete(ctx, sub.Endpoint); err != nil {
			logger.Error("failed to prune push subscription", map[string]any{
				"endpoint_host": endpointHost(sub.Endpoint),
				"error":         err.Error(),
			})
			return outcomeFailed
		}
		logger.Info("pruned gone push subscription", map[string]any{
			"endpoint_host": endpointHost(sub.Endpoint),
			"status":        de.StatusCode,
		})
		return outcomePruned
	}

	logger.Warn("push delivery failed", map[string]any{
		"endpoint_host": endpointHost(sub.Endpoint),
		"error":         err.Error(),
	})
	return outcomeFailed
}

// endpointHost keeps the per-subscriber path out of the logs.
func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Host
}

package pickup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pickup-service/internal/events"
	"pickup-service/internal/logger"
	"pickup-service/internal/mail"
	"pickup-service/internal/push"
)

// Notifier is told about every stored lead. It runs off the request path
// and must not fail the submission.
type Notifier interface {
	LeadCreated(ctx context.Context, r Request)
}

type PushDispatcher interface {
	Dispatch(ctx context.Context, n push.Notification) (push.Result, error)
}

// Fanout alerts operators through push, mail and the event exchange.
// Each channel is independent; one failing does not stop the others.
type Fanout struct {
	push    PushDispatcher
	mailer  mail.Mailer
	emitter *events.Emitter
	loc     *time.Location
}

func NewFanout(p PushDispatcher, m mail.Mailer, e *events.Emitter) *Fanout {
	return &Fanout{
		push:    p,
		mailer:  m,
		emitter: e,
		loc:     time.Local,
	}
}

func (f *Fanout) LeadCreated(ctx context.Context, r Request) {
	if f.push != nil {
		res, err := f.push.Dispatch(ctx, LeadNotification(r))
		if err != nil {
			logger.Error("lead push failed", map[string]any{
				"id":    r.ID.String(),
				"error": err.Error(),
			})
		} else {
			logger.Info("lead push dispatched", map[string]any{
				"id":        r.ID.String(),
				"attempted": res.Attempted,
				"delivered": res.Delivered,
				"pruned":    res.Pruned,
				"failed":    res.Failed,
			})
		}
	}

	if f.mailer != nil {
		subject, text := f.mailSummary(r)
		if err := f.mailer.Send(ctx, subject, text); err != nil {
			logger.Error("lead mail failed", map[string]any{
				"id":    r.ID.String(),
				"error": err.Error(),
			})
		}
	}

	if err := f.emitter.Emit(ctx, events.TypeLeadCreated, leadEvent(r)); err != nil {
		logger.Error("lead event failed", map[string]any{
			"id":    r.ID.String(),
			"error": err.Error(),
		})
	}
}

// LeadNotification is the push payload shown on admin devices.
func LeadNotification(r Request) push.Notification {
	return push.Notification{
		Title: "New pickup request",
		Body:  fmt.Sprintf("%s %s / %s", r.Maker, r.Model, r.Drivable.Label()),
		URL:   "/admin/pickup",
	}
}

func (f *Fanout) mailSummary(r Request) (string, string) {
	subject := fmt.Sprintf("[Pickup request] %s %s / %s / %s",
		r.Maker, r.Model, r.Drivable.Label(), r.Owner.Label())

	at := r.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}

	text := strings.Join([]string{
		"Received: " + at.In(f.loc).Format("2006-01-02 15:04:05 MST"),
		"Maker: " + r.Maker,
		"Model: " + r.Model,
		"Drivable: " + r.Drivable.Label(),
		"Owner: " + r.Owner.Label(),
		"Address: " + r.Address,
		"Phone: " + r.Phone,
		"Email: " + r.Email,
	}, "\n")

	return subject, text
}

// leadEventData omits contact details from the published event.
type leadEventData struct {
	ID        string    `json:"id"`
	Maker     string    `json:"maker"`
	Model     string    `json:"model"`
	Drivable  Drivable  `json:"drivable"`
	Owner     Owner     `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
}

func leadEvent(r Request) leadEventData {
	return leadEventData{
		ID:        r.ID.String(),
		Maker:     r.Maker,
		Model:     r.Model,
		Drivable:  r.Drivable,
		Owner:     r.Owner,
		CreatedAt: r.CreatedAt,
	}
}

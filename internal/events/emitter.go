package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const TypeLeadCreated = "lead.created"

// Event is the envelope written to the exchange.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Emitter publishes domain events. A nil publisher disables it.
type Emitter struct {
	publisher Publisher
	exchange  string
	now       func() time.Time
}

func NewEmitter(publisher Publisher, exchange string) *Emitter {
	return &Emitter{
		publisher: publisher,
		exchange:  exchange,
		now:       time.Now,
	}
}

func (e *Emitter) Enabled() bool {
	return e != nil && e.publisher != nil
}

func (e *Emitter) Emit(ctx context.Context, eventType string, data any) error {
	if !e.Enabled() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(Event{
		Type:       eventType,
		OccurredAt: e.now().UTC(),
		Data:       data,
	})
	if err != nil {
		return fmt.Errorf("events: encode %s: %w", eventType, err)
	}

	if err := e.publisher.Publish(e.exchange, body); err != nil {
		return fmt.Errorf("events: publish %s: %w", eventType, err)
	}
	return nil
}

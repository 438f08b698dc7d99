package pickup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pickup-service/internal/events"
	"pickup-service/internal/push"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLead() Request {
	return Request{
		ID:        uuid.MustParse("0b7c5d2e-9a41-4f3e-b6a8-1c2d3e4f5a6b"),
		Maker:     "Subaru",
		Model:     "Impreza",
		Drivable:  CannotDrive,
		Owner:     OwnerOther,
		Address:   "Sapporo",
		Phone:     "0111234567",
		Email:     "s@example.com",
		Status:    StatusNew,
		CreatedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestLeadNotification(t *testing.T) {
	assert.Equal(t, push.Notification{
		Title: "New pickup request",
		Body:  "Subaru Impreza / not drivable",
		URL:   "/admin/pickup",
	}, LeadNotification(sampleLead()))
}

func TestFanoutReachesEveryChannel(t *testing.T) {
	d := &fakeDispatcher{}
	m := &fakeMailer{}
	pub := &fakePublisher{}
	f := NewFanout(d, m, events.NewEmitter(pub, "pickup.events"))
	f.loc = time.UTC

	f.LeadCreated(context.Background(), sampleLead())

	require.Len(t, d.got, 1)
	assert.Equal(t, "Subaru Impreza / not drivable", d.got[0].Body)

	assert.Equal(t, "[Pickup request] Subaru Impreza / not drivable / not the registered owner (inheritance etc.)", m.subject)
	assert.Contains(t, m.text, "Received: 2025-06-01 10:30:00 UTC")
	assert.Contains(t, m.text, "Phone: 0111234567")

	require.Len(t, pub.bodies, 1)
	var ev struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(pub.bodies[0], &ev))
	assert.Equal(t, events.TypeLeadCreated, ev.Type)
	assert.Equal(t, "0b7c5d2e-9a41-4f3e-b6a8-1c2d3e4f5a6b", ev.Data["id"])
	assert.Equal(t, "not_drivable", ev.Data["drivable"])
	assert.NotContains(t, ev.Data, "phone")
	assert.NotContains(t, ev.Data, "email")
}

func TestFanoutContinuesAfterFailures(t *testing.T) {
	d := &fakeDispatcher{err: errDown}
	m := &fakeMailer{err: errDown}
	pub := &fakePublisher{}
	f := NewFanout(d, m, events.NewEmitter(pub, "pickup.events"))

	assert.NotPanics(t, func() { f.LeadCreated(context.Background(), sampleLead()) })
	assert.Len(t, d.got, 1)
	assert.NotEmpty(t, m.subject)
	assert.Len(t, pub.bodies, 1)
}

func TestFanoutWithNothingConfigured(t *testing.T) {
	f := NewFanout(nil, nil, nil)
	assert.NotPanics(t, func() { f.LeadCreated(context.Background(), sampleLead()) })
}

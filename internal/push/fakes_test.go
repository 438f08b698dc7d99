package push

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu      sync.Mutex
	subs    map[string]Subscription
	deleted []string
	listErr error
	delErr  error
	clock   time.Time
}

func newMemStore(subs ...Subscription) *memStore {
	s := &memStore{subs: make(map[string]Subscription), clock: time.Unix(1700000000, 0)}
	for _, sub := range subs {
		_ = s.Upsert(context.Background(), sub)
	}
	return s
}

func (s *memStore) Upsert(_ context.Context, sub Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.subs[sub.Endpoint]; ok {
		cur.P256dh, cur.Auth = sub.P256dh, sub.Auth
		s.subs[sub.Endpoint] = cur
		return nil
	}
	s.clock = s.clock.Add(time.Second)
	sub.CreatedAt = s.clock
	s.subs[sub.Endpoint] = sub
	return nil
}

func (s *memStore) List(context.Context) ([]Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) Delete(_ context.Context, endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	s.deleted = append(s.deleted, endpoint)
	delete(s.subs, endpoint)
	return nil
}

func (s *memStore) endpoints() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.subs))
	for e := range s.subs {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// untouchableStore fails the test on any call.
type untouchableStore struct{ t *testing.T }

func (s untouchableStore) Upsert(context.Context, Subscription) error {
	s.t.Error("store.Upsert called")
	return errors.New("unexpected")
}

func (s untouchableStore) List(context.Context) ([]Subscription, error) {
	s.t.Error("store.List called")
	return nil, errors.New("unexpected")
}

func (s untouchableStore) Delete(context.Context, string) error {
	s.t.Error("store.Delete called")
	return errors.New("unexpected")
}

// scriptedSender answers per endpoint and records what it saw.
type scriptedSender struct {
	mu       sync.Mutex
	results  map[string]error
	sent     map[string][]byte
	received []string
}

func newScriptedSender(results map[string]error) *scriptedSender {
	return &scriptedSender{results: results, sent: make(map[string][]byte)}
}

func (s *scriptedSender) Send(_ context.Context, sub Subscription, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, sub.Endpoint)
	s.sent[sub.Endpoint] = payload
	return s.results[sub.Endpoint]
}

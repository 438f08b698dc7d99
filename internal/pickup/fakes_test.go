package pickup

import (
	"context"
	"errors"
	"sync"
	"time"

	"pickup-service/internal/push"
	"pickup-service/internal/ratelimit"

	"github.com/google/uuid"
)

type memStore struct {
	mu      sync.Mutex
	rows    []Request
	lastF   ListFilter
	failErr error
}

func (s *memStore) Create(_ context.Context, r Request) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return Request{}, s.failErr
	}
	r.ID = uuid.New()
	r.Status = StatusNew
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	s.rows = append(s.rows, r)
	return r, nil
}

func (s *memStore) List(_ context.Context, f ListFilter) ([]Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastF = f
	if s.failErr != nil {
		return nil, s.failErr
	}
	return append([]Request{}, s.rows...), nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, status Status, memo *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Status = status
			s.rows[i].Memo = memo
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) UpdateStatus(_ context.Context, ids []uuid.UUID, status Status) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		for i := range s.rows {
			if s.rows[i].ID == id {
				s.rows[i].Status = status
				n++
			}
		}
	}
	return n, nil
}

type recordingNotifier struct {
	got chan Request
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{got: make(chan Request, 8)}
}

func (n *recordingNotifier) LeadCreated(ctx context.Context, r Request) {
	if ctx.Err() != nil {
		return
	}
	n.got <- r
}

type denyLimiter struct {
	retryAfter time.Duration
	err        error
}

func (l denyLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	if l.err != nil {
		return ratelimit.Decision{}, l.err
	}
	return ratelimit.Decision{Allowed: false, RetryAfter: l.retryAfter}, nil
}

type fakeDispatcher struct {
	got []push.Notification
	err error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, n push.Notification) (push.Result, error) {
	d.got = append(d.got, n)
	return push.Result{Attempted: 1, Delivered: 1}, d.err
}

type fakeMailer struct {
	subject, text string
	err           error
}

func (m *fakeMailer) Send(_ context.Context, subject, text string) error {
	m.subject, m.text = subject, text
	return m.err
}

type fakePublisher struct {
	bodies [][]byte
}

func (p *fakePublisher) Publish(_ string, body []byte) error {
	p.bodies = append(p.bodies, body)
	return nil
}

var errDown = errors.New("db down")

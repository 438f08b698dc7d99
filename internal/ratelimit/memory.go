package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local fixed-window limiter. Expired windows are
// swept at most once per window length.
type Memory struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	hits      map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

func NewMemory(limit int, win time.Duration) *Memory {
	return &Memory{
		limit:  limit,
		window: win,
		hits:   make(map[string]*window),
		now:    time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	w, ok := m.hits[key]
	if !ok || !now.Before(w.resetAt) {
		m.hits[key] = &window{count: 1, resetAt: now.Add(m.window)}
		return Decision{Allowed: true}, nil
	}

	w.count++
	if w.count > m.limit {
		return Decision{RetryAfter: w.resetAt.Sub(now)}, nil
	}
	return Decision{Allowed: true}, nil
}

func (m *Memory) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	for k, w := range m.hits {
		if !now.Before(w.resetAt) {
			delete(m.hits, k)
		}
	}
	m.lastSweep = now
}

// Len is the number of tracked keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hits)
}

package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/smartotp/internal/pkg/clock"
)

type entry struct {
	count     int64
	expiresAt time.Time
}

// Memory keeps counters in process memory. It is only correct for a single
// instance.
type Memory struct {
	mu      sync.Mutex
	clock   clock.Clocker
	entries map[string]entry
}

// NewMemory returns an empty in-process store.
func NewMemory(clk clock.Clocker) *Memory {
	return &Memory{clock: clk, entries: make(map[string]entry)}
}

func (m *Memory) Increment(_ context.Context, key string, amount int64, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.sweep(now)

	e := m.entries[key]
	e.count += amount
	e.expiresAt = now.Add(ttl)
	m.entries[key] = e

	return e.count, nil
}

func (m *Memory) Get(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || !m.clock.Now().Before(e.expiresAt) {
		return 0, nil
	}

	return e.count, nil
}

func (m *Memory) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}

// sweep must be called with mu held.
func (m *Memory) sweep(now time.Time) {
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

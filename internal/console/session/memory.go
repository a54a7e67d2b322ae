package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	mu      sync.Mutex
	values  map[string]string
	expires time.Time
}

// MemoryBackend keeps sessions in process. Used for single instance runs
// and tests.
type MemoryBackend struct {
	sessions sync.Map // sid -> *memEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{ttl: ttl, now: time.Now}
}

func (e *memEntry) live(now time.Time, ttl time.Duration) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ttl <= 0 || now.Before(e.expires)
}

func (m *MemoryBackend) entry(sid string, create bool) *memEntry {
	if v, ok := m.sessions.Load(sid); ok {
		e := v.(*memEntry)
		if e.live(m.now(), m.ttl) {
			return e
		}
		// only drop the entry we saw expire, not one stored since
		m.sessions.CompareAndDelete(sid, e)
	}
	if !create {
		return nil
	}
	fresh := &memEntry{values: map[string]string{}, expires: m.now().Add(m.ttl)}
	v, _ := m.sessions.LoadOrStore(sid, fresh)
	return v.(*memEntry)
}

func (m *MemoryBackend) Get(ctx context.Context, sid, key string) (string, bool, error) {
	e := m.entry(sid, false)
	if e == nil {
		return "", false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(ctx context.Context, sid, key, value string) error {
	e := m.entry(sid, true)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[key] = value
	e.expires = m.now().Add(m.ttl)
	return nil
}

func (m *MemoryBackend) Remove(ctx context.Context, sid, key string) error {
	if e := m.entry(sid, false); e != nil {
		e.mu.Lock()
		delete(e.values, key)
		e.mu.Unlock()
	}
	return nil
}

func (m *MemoryBackend) Clear(ctx context.Context, sid string) error {
	m.sessions.Delete(sid)
	return nil
}

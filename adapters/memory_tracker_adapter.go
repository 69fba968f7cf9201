package adapters

import "sync"

// MemoryTrackerAdapter keeps tracker state in memory and records every hit
// it is asked to send. Useful for tests and for running the proxy in
// proxy-only mode without a measurement backend.
type MemoryTrackerAdapter struct {
	mu    sync.RWMutex
	state map[string]string
	sent  []Hit
}

var _ TrackerAdapter = (*MemoryTrackerAdapter)(nil)

// NewMemoryTrackerAdapter creates an empty in-memory tracker.
func NewMemoryTrackerAdapter() *MemoryTrackerAdapter {
	return &MemoryTrackerAdapter{state: make(map[string]string)}
}

// Get returns a tracker attribute. Empty values count as unset.
func (m *MemoryTrackerAdapter) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.state[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set stores a tracker attribute. An empty value clears it.
func (m *MemoryTrackerAdapter) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.state, key)
		return
	}
	m.state[key] = value
}

// Send records a copy of the hit.
func (m *MemoryTrackerAdapter) Send(hit Hit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, hit.Clone())
}

// Sent returns the hits recorded so far, oldest first.
func (m *MemoryTrackerAdapter) Sent() []Hit {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Hit, len(m.sent))
	copy(out, m.sent)
	return out
}

// State returns a copy of all tracker attributes.
func (m *MemoryTrackerAdapter) State() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.state))
	for k, v := range m.state {
		out[k] = v
	}
	return out
}

// Reset forgets recorded hits. Tracker state is kept.
func (m *MemoryTrackerAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

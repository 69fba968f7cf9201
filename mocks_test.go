package hitproxy

import (
	"context"
	"errors"
	"sync"

	"github.com/Tap30/hitproxy-go/adapters"
)

type mockSinkAdapter struct {
	mu     sync.Mutex
	events []CustomEvent
}

func (m *mockSinkAdapter) Record(event CustomEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockSinkAdapter) recorded() []CustomEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CustomEvent, len(m.events))
	copy(out, m.events)
	return out
}

type mockHTTPAdapter struct {
	mu         sync.Mutex
	calls      int
	batches    [][]CustomEvent
	headers    map[string]string
	err        error
	statusCode int
	// statuses, when set, is consumed one entry per call before statusCode applies
	statuses []int
}

func (m *mockHTTPAdapter) Send(ctx context.Context, endpoint string, events []CustomEvent, headers map[string]string) (*HTTPResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.batches = append(m.batches, append([]CustomEvent(nil), events...))
	m.headers = headers
	if m.err != nil {
		return nil, m.err
	}
	status := 200
	if len(m.statuses) > 0 {
		status = m.statuses[0]
		m.statuses = m.statuses[1:]
	} else if m.statusCode != 0 {
		status = m.statusCode
	}
	return &HTTPResponse{Status: status, OK: status >= 200 && status < 300}, nil
}

func (m *mockHTTPAdapter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockStorageAdapter struct {
	mu      sync.Mutex
	saved   []CustomEvent
	loaded  []CustomEvent
	cleared int
	err     error
}

func (m *mockStorageAdapter) Save(events []CustomEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append([]CustomEvent(nil), events...)
	return nil
}

func (m *mockStorageAdapter) Load() ([]CustomEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.loaded, nil
}

func (m *mockStorageAdapter) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	return nil
}

func (m *mockStorageAdapter) savedEvents() []CustomEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved
}

var errNetwork = errors.New("network down")

func newTestProxy(t interface{ Helper() }, config Config) (*Proxy, *adapters.MemoryTrackerAdapter, *mockSinkAdapter) {
	t.Helper()
	tracker := adapters.NewMemoryTrackerAdapter()
	sink := &mockSinkAdapter{}
	if config.TrackerAdapter == nil {
		config.TrackerAdapter = tracker
	}
	if config.SinkAdapter == nil {
		config.SinkAdapter = sink
	}
	if config.LoggerAdapter == nil {
		config.LoggerAdapter = adapters.NewNoOpLoggerAdapter()
	}
	p, err := NewProxy(config)
	if err != nil {
		panic(err)
	}
	return p, tracker, sink
}

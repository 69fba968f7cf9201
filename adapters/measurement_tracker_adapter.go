package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultCollectEndpoint is the Measurement Protocol v1 collection URL.
const DefaultCollectEndpoint = "https://www.google-analytics.com/collect"

// MeasurementTrackerAdapter is a TrackerAdapter that posts hits to a
// Measurement Protocol collect endpoint. Tracker state is merged into every
// hit, hit values win. Keys may carry the SDK-internal "&" prefix, it is
// stripped on the wire.
type MeasurementTrackerAdapter struct {
	logger LoggerAdapter

	// mu guards the request settings and the tracker state.
	mu       sync.RWMutex
	endpoint *url.URL
	client   *http.Client
	timeout  time.Duration
	state    map[string]string
}

var _ TrackerAdapter = (*MeasurementTrackerAdapter)(nil)

// NewMeasurementTrackerAdapter creates a tracker that posts to endpoint.
// An empty endpoint selects DefaultCollectEndpoint; a nil logger discards logs.
func NewMeasurementTrackerAdapter(endpoint string, logger LoggerAdapter) (*MeasurementTrackerAdapter, error) {
	if endpoint == "" {
		endpoint = DefaultCollectEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid collect endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("collect endpoint must be http or https, got %q", endpoint)
	}
	if logger == nil {
		logger = NewNoOpLoggerAdapter()
	}
	return &MeasurementTrackerAdapter{
		endpoint: u,
		client:   &http.Client{},
		timeout:  10 * time.Second,
		logger:   logger,
		state:    make(map[string]string),
	}, nil
}

// SetTimeout bounds each collect request. Zero disables the bound.
func (m *MeasurementTrackerAdapter) SetTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
}

// SetHTTPClient replaces the HTTP client used for collect requests.
func (m *MeasurementTrackerAdapter) SetHTTPClient(client *http.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.client = client
}

// SetUseSecure switches the collect endpoint between https and http.
func (m *MeasurementTrackerAdapter) SetUseSecure(useSecure bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *m.endpoint
	if useSecure {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	m.endpoint = &u
}

// Endpoint returns the current collect URL.
func (m *MeasurementTrackerAdapter) Endpoint() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.endpoint.String()
}

func (m *MeasurementTrackerAdapter) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.state[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (m *MeasurementTrackerAdapter) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.state, key)
		return
	}
	m.state[key] = value
}

// Send posts the hit. Errors are logged, never returned.
func (m *MeasurementTrackerAdapter) Send(hit Hit) {
	m.mu.RLock()
	form := m.payloadLocked(hit)
	endpoint, client, timeout := m.endpoint.String(), m.client, m.timeout
	m.mu.RUnlock()

	if err := postForm(context.Background(), client, endpoint, timeout, form); err != nil {
		m.logger.Warn("Failed to send hit: %v", err)
		return
	}
	m.logger.Debug("Sent hit of type %s", form.Get("t"))
}

// payloadLocked merges state and hit. Callers hold mu.
func (m *MeasurementTrackerAdapter) payloadLocked(hit Hit) url.Values {
	form := url.Values{}
	for k, v := range m.state {
		form.Set(strings.TrimPrefix(k, "&"), v)
	}
	for k, v := range hit {
		if v == "" {
			continue
		}
		form.Set(strings.TrimPrefix(k, "&"), v)
	}
	if form.Get("v") == "" {
		form.Set("v", "1")
	}
	return form
}

func postForm(ctx context.Context, client *http.Client, endpoint string, timeout time.Duration, form url.Values) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collect endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

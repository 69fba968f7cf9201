package adapters

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (r *recordingLogger) Debug(message string, args ...any) {}
func (r *recordingLogger) Info(message string, args ...any)  {}
func (r *recordingLogger) Warn(message string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, message)
}
func (r *recordingLogger) Error(message string, args ...any) {}

func collectServer(t *testing.T, status int) (*httptest.Server, <-chan url.Values) {
	t.Helper()
	forms := make(chan url.Values, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		forms <- r.PostForm
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, forms
}

func newTestTracker(t *testing.T, endpoint string, logger LoggerAdapter) *MeasurementTrackerAdapter {
	t.Helper()
	tracker, err := NewMeasurementTrackerAdapter(endpoint, logger)
	require.NoError(t, err)
	return tracker
}

func TestMeasurementTrackerAdapter_Send(t *testing.T) {
	server, forms := collectServer(t, http.StatusOK)

	tracker := newTestTracker(t, server.URL, nil)
	tracker.Set("&tid", "UA-1")
	tracker.Set("&cid", "c1")
	tracker.Set("&cd", "Home")

	tracker.Send(Hit{"&t": "event", "&ec": "cat", "&cd": "Override", "&el": ""})

	form := <-forms
	assert.Equal(t, "1", form.Get("v"))
	assert.Equal(t, "UA-1", form.Get("tid"))
	assert.Equal(t, "c1", form.Get("cid"))
	assert.Equal(t, "event", form.Get("t"))
	assert.Equal(t, "cat", form.Get("ec"))
	assert.Equal(t, "Override", form.Get("cd"), "hit values override tracker state")
	_, hasLabel := form["el"]
	assert.False(t, hasLabel, "empty hit values are not sent")
}

func TestMeasurementTrackerAdapter_KeepsExplicitVersion(t *testing.T) {
	server, forms := collectServer(t, http.StatusOK)

	tracker := newTestTracker(t, server.URL, nil)
	tracker.Send(Hit{"v": "2", "t": "pageview"})

	assert.Equal(t, "2", (<-forms).Get("v"))
}

func TestMeasurementTrackerAdapter_LogsFailures(t *testing.T) {
	server, forms := collectServer(t, http.StatusBadRequest)
	logger := &recordingLogger{}

	tracker := newTestTracker(t, server.URL, logger)
	tracker.Send(Hit{"t": "pageview"})
	<-forms

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.Len(t, logger.warns, 1)
}

func TestMeasurementTrackerAdapter_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()
	logger := &recordingLogger{}

	tracker := newTestTracker(t, server.URL, logger)
	tracker.SetTimeout(20 * time.Millisecond)
	tracker.Send(Hit{"t": "pageview"})

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.Len(t, logger.warns, 1)
}

func TestMeasurementTrackerAdapter_DefaultEndpoint(t *testing.T) {
	tracker := newTestTracker(t, "", nil)
	assert.Equal(t, DefaultCollectEndpoint, tracker.Endpoint())
}

func TestMeasurementTrackerAdapter_InvalidEndpoint(t *testing.T) {
	_, err := NewMeasurementTrackerAdapter("ftp://example.com/collect", nil)
	assert.Error(t, err)

	_, err = NewMeasurementTrackerAdapter("ht!tp://invalid", nil)
	assert.Error(t, err)
}

func TestMeasurementTrackerAdapter_SetUseSecure(t *testing.T) {
	server, forms := collectServer(t, http.StatusOK)
	secure := "https" + strings.TrimPrefix(server.URL, "http")

	tracker := newTestTracker(t, secure, nil)
	tracker.SetUseSecure(false)
	assert.Equal(t, server.URL, tracker.Endpoint())

	tracker.Send(Hit{"t": "pageview"})
	assert.Equal(t, "pageview", (<-forms).Get("t"))

	tracker.SetUseSecure(true)
	assert.Equal(t, secure, tracker.Endpoint())
}

func TestMeasurementTrackerAdapter_ConcurrentConfig(t *testing.T) {
	server, forms := collectServer(t, http.StatusOK)
	tracker := newTestTracker(t, server.URL, nil)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tracker.Send(Hit{"t": "pageview"})
		}()
		go func() {
			defer wg.Done()
			tracker.SetTimeout(time.Second)
			tracker.SetHTTPClient(&http.Client{})
		}()
	}
	wg.Wait()
	assert.Len(t, forms, 4)
}

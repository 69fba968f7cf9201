package hitproxy

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/Tap30/hitproxy-go/adapters"
)

// BatchSink is a SinkAdapter that queues custom events and uploads them in
// batches. Record never blocks on the network: uploads happen on a flush
// ticker, when a batch fills up, on Flush and on Stop. Events that cannot be
// uploaded are kept in the queue and persisted through the StorageAdapter.
type BatchSink struct {
	config         BatchSinkConfig
	queue          *Queue
	httpAdapter    HTTPAdapter
	storageAdapter StorageAdapter
	loggerAdapter  LoggerAdapter
	headers        map[string]string

	ticker       *time.Ticker
	stopChan     chan struct{}
	flushMu      sync.Mutex
	persistMu    sync.Mutex
	wg           sync.WaitGroup
	timerMu      sync.Mutex
	timerStarted bool
	stopped      bool
}

var _ SinkAdapter = (*BatchSink)(nil)

// NewBatchSink validates config, fills defaults and creates a sink.
// Call Start before recording events.
func NewBatchSink(config BatchSinkConfig) (*BatchSink, error) {
	if config.APIKey == "" {
		return nil, errors.New("APIKey is required")
	}
	if config.Endpoint == "" {
		return nil, errors.New("Endpoint is required")
	}

	if config.FlushInterval <= 0 {
		config.FlushInterval = 5 * time.Second
	}
	if config.MaxBatchSize <= 0 {
		config.MaxBatchSize = 10
	}
	// negative disables retries
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	} else if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = time.Second
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if config.HTTPAdapter == nil {
		config.HTTPAdapter = adapters.NewNetHTTPAdapter()
	}
	if config.StorageAdapter == nil {
		config.StorageAdapter = adapters.NewNoOpStorageAdapter()
	}
	if config.LoggerAdapter == nil {
		config.LoggerAdapter = adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
	}

	apiKeyHeader := "X-API-Key"
	if config.APIKeyHeader != nil {
		apiKeyHeader = *config.APIKeyHeader
	}

	return &BatchSink{
		config:         config,
		queue:          NewQueue(),
		httpAdapter:    config.HTTPAdapter,
		storageAdapter: config.StorageAdapter,
		loggerAdapter:  config.LoggerAdapter,
		headers:        map[string]string{apiKeyHeader: config.APIKey},
		stopChan:       make(chan struct{}),
	}, nil
}

// Start restores events persisted by a previous run.
func (s *BatchSink) Start() error {
	events, err := s.storageAdapter.Load()
	if err != nil {
		return err
	}
	if len(events) > 0 {
		s.loggerAdapter.Info("Restored %d persisted events", len(events))
		s.queue.PushFront(events)
	}
	// the flush timer starts with the first recorded event
	return nil
}

// Record queues an event for upload. After Stop the event is persisted
// instead, so that the next Start restores it.
func (s *BatchSink) Record(event CustomEvent) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	s.queue.Enqueue(event)
	if s.stopped {
		s.loggerAdapter.Warn("Sink stopped, persisting event %s instead of uploading", event.Name)
		_ = s.persist()
		return
	}
	s.startTimerLocked()

	if s.queue.Len() >= s.config.MaxBatchSize {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.Flush()
		}()
	}
}

// startTimerLocked starts the flush loop once. Callers hold timerMu.
func (s *BatchSink) startTimerLocked() {
	if s.timerStarted {
		return
	}
	s.ticker = time.NewTicker(s.config.FlushInterval)
	s.timerStarted = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.ticker.C:
				s.Flush()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Flush uploads every queued event in batches of MaxBatchSize.
func (s *BatchSink) Flush() {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	if s.queue.IsEmpty() {
		return
	}

	s.loggerAdapter.Debug("Starting flush operation")
	allEvents := s.queue.Drain()

	for i := 0; i < len(allEvents); i += s.config.MaxBatchSize {
		end := min(i+s.config.MaxBatchSize, len(allEvents))
		batch := allEvents[i:end]

		s.loggerAdapter.Debug("Sending batch of %d events", len(batch))
		if err := s.sendWithRetry(batch); err != nil {
			s.loggerAdapter.Error("Failed to send batch: %v", err)
			// keep the failed batch and everything behind it
			s.requeue(allEvents[i:])
			return
		}
		s.loggerAdapter.Debug("Successfully sent batch of %d events", len(batch))
	}
}

func (s *BatchSink) sendWithRetry(batch []CustomEvent) error {
	for attempt := 0; ; attempt++ {
		s.loggerAdapter.Debug("Sending HTTP request, attempt %d/%d", attempt+1, s.config.MaxRetries+1)

		ctx, cancel := context.WithTimeout(context.Background(), s.config.RequestTimeout)
		resp, err := s.httpAdapter.Send(ctx, s.config.Endpoint, batch, s.headers)
		cancel()

		var failure error
		switch {
		case err != nil:
			s.loggerAdapter.Warn("Network error: %v", err)
			failure = err
		case resp.OK:
			s.clearStorage()
			return nil
		case resp.Status >= 400 && resp.Status < 500:
			// client errors are not retried: the batch would be rejected again
			s.loggerAdapter.Warn("Client error %d, dropping %d events", resp.Status, len(batch))
			s.clearStorage()
			return nil
		case resp.Status >= 500:
			s.loggerAdapter.Warn("Server error %d", resp.Status)
			failure = &HTTPError{Status: resp.Status}
		default:
			s.loggerAdapter.Warn("Unexpected status code: %d", resp.Status)
			return &HTTPError{Status: resp.Status}
		}

		if attempt >= s.config.MaxRetries {
			s.loggerAdapter.Error("Max retries reached for batch of %d events", len(batch))
			return failure
		}

		backoff := s.config.RetryBackoff << attempt
		jitter := time.Duration(rand.Int63n(int64(s.config.RetryBackoff)))
		s.loggerAdapter.Debug("Retrying in %v", backoff+jitter)
		time.Sleep(backoff + jitter)
	}
}

// requeue puts events back at the head of the queue and persists the queue.
func (s *BatchSink) requeue(events []CustomEvent) {
	if len(events) == 0 {
		return
	}
	s.queue.PushFront(events)
	s.persist()
}

// persist saves a snapshot of the queue. persistMu keeps a stale snapshot
// from overwriting a newer one.
func (s *BatchSink) persist() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	events := s.queue.ToSlice()
	if len(events) == 0 {
		return nil
	}
	if err := s.storageAdapter.Save(events); err != nil {
		var quota *adapters.StorageQuotaExceededError
		if errors.As(err, &quota) {
			s.loggerAdapter.Warn("Persisted only part of %d events: %v", len(events), err)
			return err
		}
		s.loggerAdapter.Error("Failed to persist %d events: %v", len(events), err)
		return err
	}
	return nil
}

func (s *BatchSink) clearStorage() {
	if err := s.storageAdapter.Clear(); err != nil {
		s.loggerAdapter.Warn("Failed to clear storage: %v", err)
	}
}

// Len returns the number of events waiting for upload.
func (s *BatchSink) Len() int {
	return s.queue.Len()
}

// Stop halts the flush loop, uploads what is queued and persists whatever
// could not be uploaded.
func (s *BatchSink) Stop() error {
	if !s.halt() {
		return nil
	}
	s.Flush()
	return s.persist()
}

// StopWithoutFlush halts the flush loop and persists queued events without
// uploading them.
func (s *BatchSink) StopWithoutFlush() error {
	if !s.halt() {
		return nil
	}
	return s.persist()
}

// halt stops the ticker goroutine once; it reports false if already stopped.
func (s *BatchSink) halt() bool {
	s.timerMu.Lock()
	if s.stopped {
		s.timerMu.Unlock()
		return false
	}
	s.stopped = true
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
	s.timerMu.Unlock()

	s.wg.Wait()
	return true
}

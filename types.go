package hitproxy

import (
	"fmt"
	"time"

	"github.com/Tap30/hitproxy-go/adapters"
	"github.com/prometheus/client_golang/prometheus"
)

// Re-export adapter types for convenience
type (
	Hit            = adapters.Hit
	CustomEvent    = adapters.CustomEvent
	TrackerState   = adapters.TrackerState
	TrackerAdapter = adapters.TrackerAdapter
	SinkAdapter    = adapters.SinkAdapter
	HTTPAdapter    = adapters.HTTPAdapter
	HTTPResponse   = adapters.HTTPResponse
	StorageAdapter = adapters.StorageAdapter
	LoggerAdapter  = adapters.LoggerAdapter
	LogLevel       = adapters.LogLevel
)

// InvalidHitError is returned by Send when a hit carries no hit type.
type InvalidHitError struct {
	Key string
}

func (e *InvalidHitError) Error() string {
	return fmt.Sprintf("invalid hit: missing hit type key %q", e.Key)
}

// HTTPError reports an upload that failed with a non-success status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP request failed with status %d", e.Status)
}

// Config configures a Proxy. The zero value of every optional field selects
// the documented default.
type Config struct {
	// Mode selects which downstream receives traffic. Defaults to ModeSDKAndProxy.
	Mode Mode
	// AllowedHitTypes restricts which hit types are proxied. Nil or empty
	// proxies every hit type.
	AllowedHitTypes []string
	// KeyPrefix is "" for protocol keys ("t", "ec") or "&" for SDK-internal
	// keys ("&t", "&ec").
	KeyPrefix string
	// Fields overrides DefaultFieldSets. Nil members keep the default.
	Fields FieldSets
	// HitFieldPolicy decides which hit entries the default mapper copies.
	HitFieldPolicy HitFieldPolicy
	// Mapper replaces the default field mapper.
	Mapper Mapper
	// Extenders post-process every draft event before it is recorded.
	Extenders []Extender

	TrackerAdapter TrackerAdapter
	SinkAdapter    SinkAdapter
	LoggerAdapter  LoggerAdapter

	// MetricsRegisterer, when set, receives the proxy's route counters.
	MetricsRegisterer prometheus.Registerer
}

// BatchSinkConfig configures the batching first-party upload pipeline.
type BatchSinkConfig struct {
	APIKey        string
	Endpoint      string
	APIKeyHeader  *string
	FlushInterval time.Duration
	MaxBatchSize  int
	MaxRetries    int
	// RetryBackoff is the base delay, doubled on each retry. Defaults to 1s.
	RetryBackoff time.Duration
	// RequestTimeout bounds a single upload. Defaults to 10s.
	RequestTimeout time.Duration

	HTTPAdapter    HTTPAdapter
	StorageAdapter StorageAdapter
	LoggerAdapter  LoggerAdapter
}

package hitproxy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Tap30/hitproxy-go/adapters"
)

// Proxy wraps a tracker. Every hit passed to Send is forwarded to the
// tracker and/or mirrored as a custom event to the first-party sink,
// depending on the current mode.
type Proxy struct {
	typeKey   string
	prefix    string
	tracker   TrackerAdapter
	sink      SinkAdapter
	logger    LoggerAdapter
	mapper    Mapper
	extenders *extenderRegistry
	router    *router
	metrics   *metrics

	campaignMu sync.Mutex
	campaign   map[string]string
}

// NewProxy validates config and creates a proxy.
func NewProxy(config Config) (*Proxy, error) {
	if config.TrackerAdapter == nil {
		return nil, errors.New("TrackerAdapter is required")
	}
	if config.SinkAdapter == nil {
		return nil, errors.New("SinkAdapter is required")
	}
	if !config.Mode.valid() {
		return nil, fmt.Errorf("invalid mode %d", int(config.Mode))
	}
	if !config.HitFieldPolicy.valid() {
		return nil, fmt.Errorf("invalid hit field policy %d", int(config.HitFieldPolicy))
	}
	if config.KeyPrefix != "" && config.KeyPrefix != "&" {
		return nil, fmt.Errorf("key prefix must be empty or \"&\", got %q", config.KeyPrefix)
	}

	m, err := newMetrics(config.MetricsRegisterer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	p := &Proxy{
		typeKey:   withPrefix(config.KeyPrefix, KeyHitType),
		prefix:    config.KeyPrefix,
		tracker:   config.TrackerAdapter,
		sink:      config.SinkAdapter,
		logger:    config.LoggerAdapter,
		mapper:    config.Mapper,
		extenders: newExtenderRegistry(config.Extenders),
		router:    newRouter(config.Mode, config.AllowedHitTypes),
		metrics:   m,
	}
	if p.logger == nil {
		p.logger = adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
	}
	if p.mapper == nil {
		p.mapper = NewFieldMapper(config.Fields, config.HitFieldPolicy, config.KeyPrefix)
	}
	return p, nil
}

// Send dispatches one hit. A hit without a hit type is still forwarded to
// the tracker but never recorded; Send returns *InvalidHitError for it.
// Downstream failures are never reported.
func (p *Proxy) Send(hit Hit) error {
	if campaign := p.takeCampaign(); campaign != nil {
		for k, v := range campaign {
			p.Set(k, v)
		}
		defer p.clearCampaign(campaign)
	}

	// read both toggles up front so one send sees a single mode
	toSDK, toProxy := p.router.sdk.Load(), p.router.proxy.Load()

	if toSDK {
		p.tracker.Send(hit)
		p.metrics.observe(routeSDK)
	}

	hitType := hit[p.typeKey]
	if hitType == "" {
		p.metrics.observe(routeInvalid)
		return &InvalidHitError{Key: p.typeKey}
	}
	if !toProxy {
		return nil
	}
	if !p.router.allows(hitType) {
		p.logger.Debug("Hit type %s not allowed, skipping custom event", hitType)
		p.metrics.observe(routeFiltered)
		return nil
	}

	draft := p.mapper.Map(hit, p.tracker)
	if draft == nil {
		draft = NewDraft(hitType)
	}
	if draft.Name == "" {
		draft.Name = hitType
	}
	for _, ext := range p.extenders.snapshot() {
		ext.Extend(draft, hit, p.tracker)
	}

	p.logger.Debug("Recording custom event %s with %d properties", draft.Name, draft.Len())
	p.sink.Record(draft.Finalize())
	p.metrics.observe(routeProxy)
	return nil
}

// AddExtender registers an extender for subsequent sends and returns a
// function that unregisters it.
func (p *Proxy) AddExtender(ext Extender) (remove func()) {
	if ext == nil {
		return func() {}
	}
	return p.extenders.add(ext)
}

// SetSDKEnabled toggles forwarding hits to the tracker.
func (p *Proxy) SetSDKEnabled(enabled bool) {
	p.router.sdk.Store(enabled)
}

// SetProxyEnabled toggles recording custom events.
func (p *Proxy) SetProxyEnabled(enabled bool) {
	p.router.proxy.Store(enabled)
}

// SDKEnabled reports whether hits are forwarded to the tracker.
func (p *Proxy) SDKEnabled() bool {
	return p.router.sdk.Load()
}

// ProxyEnabled reports whether custom events are recorded.
func (p *Proxy) ProxyEnabled() bool {
	return p.router.proxy.Load()
}

// SetMode sets both toggles from mode.
func (p *Proxy) SetMode(mode Mode) error {
	if !mode.valid() {
		return fmt.Errorf("invalid mode %d", int(mode))
	}
	p.router.setMode(mode)
	return nil
}

// Mode returns the current mode. The second result is false when both
// toggles are off and every hit is dropped.
func (p *Proxy) Mode() (Mode, bool) {
	return p.router.mode()
}

// TrackerAdapter returns the wrapped tracker.
func (p *Proxy) TrackerAdapter() TrackerAdapter {
	return p.tracker
}

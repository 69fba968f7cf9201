package adapters

// SinkAdapter is the first-party event pipeline that receives proxied events.
type SinkAdapter interface {
	// Record hands a finalized event to the pipeline. It is fire-and-forget:
	// implementations must not block on network I/O and never report errors.
	Record(event CustomEvent)
}

// NoOpSinkAdapter drops every event.
type NoOpSinkAdapter struct{}

var _ SinkAdapter = (*NoOpSinkAdapter)(nil)

// NewNoOpSinkAdapter creates a sink that discards events.
func NewNoOpSinkAdapter() *NoOpSinkAdapter {
	return &NoOpSinkAdapter{}
}

func (n *NoOpSinkAdapter) Record(event CustomEvent) {}

package adapters

// TrackerState is a read-only view of tracker-level attributes
// (app name, client id, tracking id, ...).
type TrackerState interface {
	// Get returns the value stored under key and whether it is set.
	Get(key string) (string, bool)
}

// TrackerAdapter is the wrapped analytics tracker.
// Implement this interface to bridge a concrete measurement SDK.
type TrackerAdapter interface {
	TrackerState

	// Set stores a tracker-level attribute.
	Set(key, value string)

	// Send forwards the hit, unmodified, to the tracker's own transport.
	// Failures are the tracker's concern and are not reported back.
	Send(hit Hit)
}

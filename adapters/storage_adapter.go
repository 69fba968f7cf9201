package adapters

// StorageAdapter persists events the sink could not upload.
// Implement this interface to use custom storage backends (database, Redis, S3, etc.).
type StorageAdapter interface {
	// Save replaces the persisted events.
	Save(events []CustomEvent) error

	// Load retrieves persisted events. Returns an empty slice when nothing is stored.
	Load() ([]CustomEvent, error)

	// Clear removes all persisted events.
	Clear() error
}

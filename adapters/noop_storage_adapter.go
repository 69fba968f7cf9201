package adapters

// NoOpStorageAdapter is a storage adapter that performs no operations.
// Useful for scenarios where event persistence is not required.
type NoOpStorageAdapter struct{}

var _ StorageAdapter = (*NoOpStorageAdapter)(nil)

// NewNoOpStorageAdapter creates a new NoOpStorageAdapter instance.
func NewNoOpStorageAdapter() *NoOpStorageAdapter {
	return &NoOpStorageAdapter{}
}

// Save does nothing and always returns nil.
func (n *NoOpStorageAdapter) Save(events []CustomEvent) error {
	return nil
}

// Load returns an empty slice and nil error.
func (n *NoOpStorageAdapter) Load() ([]CustomEvent, error) {
	return []CustomEvent{}, nil
}

// Clear does nothing and always returns nil.
func (n *NoOpStorageAdapter) Clear() error {
	return nil
}

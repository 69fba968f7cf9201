package adapters

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// FileStorageAdapter persists events as a JSON array in a single file.
type FileStorageAdapter struct {
	mu        sync.Mutex
	filepath  string
	maxEvents int
}

// Ensure FileStorageAdapter implements StorageAdapter interface
var _ StorageAdapter = (*FileStorageAdapter)(nil)

// NewFileStorageAdapter creates a new FileStorageAdapter instance.
//
// Parameters:
//   - filepath: Path to the file where events will be stored
func NewFileStorageAdapter(filepath string) *FileStorageAdapter {
	return &FileStorageAdapter{filepath: filepath}
}

// SetMaxEvents caps how many events Save keeps. Zero means no cap.
func (f *FileStorageAdapter) SetMaxEvents(maxEvents int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxEvents = maxEvents
}

// Save writes events to the file, replacing previous content. Over the
// cap, the oldest maxEvents are written and *StorageQuotaExceededError
// reports how many were dropped.
func (f *FileStorageAdapter) Save(events []CustomEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var quotaErr error
	if f.maxEvents > 0 && len(events) > f.maxEvents {
		quotaErr = &StorageQuotaExceededError{
			Message: fmt.Sprintf("storage quota of %d events exceeded, dropped %d", f.maxEvents, len(events)-f.maxEvents),
		}
		events = events[:f.maxEvents]
	}

	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.filepath, data, 0644); err != nil {
		return err
	}
	return quotaErr
}

// Load reads events from the file.
// Returns empty slice if the file doesn't exist.
func (f *FileStorageAdapter) Load() ([]CustomEvent, error) {
	f.mu.Lock()
	data, err := os.ReadFile(f.filepath)
	f.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []CustomEvent{}, nil
		}
		return nil, err
	}
	events := []CustomEvent{}
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Clear removes the storage file. A missing file is not an error.
func (f *FileStorageAdapter) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.filepath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

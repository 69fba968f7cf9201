package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageAdapter_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	adapter := NewFileStorageAdapter(path)
	events := []CustomEvent{
		{ID: "1", Name: "event", Properties: map[string]string{"ec": "cat"}, IssuedAt: 10},
		{ID: "2", Name: "screenview", Properties: map[string]string{"cd": "Home"}, IssuedAt: 11},
	}

	require.NoError(t, adapter.Save(events))

	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.Equal(t, events, loaded)
}

func TestFileStorageAdapter_LoadNonExistent(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "missing.json"))
	loaded, err := adapter.Load()
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestFileStorageAdapter_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear.json")
	adapter := NewFileStorageAdapter(path)
	require.NoError(t, adapter.Save([]CustomEvent{{Name: "event"}}))

	require.NoError(t, adapter.Clear())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "expected file to be deleted")
}

func TestFileStorageAdapter_ClearMissingFile(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "never-written.json"))
	assert.NoError(t, adapter.Clear())
}

func TestFileStorageAdapter_SaveError(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "missing-dir", "events.json"))
	assert.Error(t, adapter.Save([]CustomEvent{{Name: "event"}}))
}

func TestFileStorageAdapter_LoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte("invalid json"), 0644))

	_, err := NewFileStorageAdapter(path).Load()
	assert.Error(t, err)
}

func TestFileStorageAdapter_MaxEvents(t *testing.T) {
	adapter := NewFileStorageAdapter(filepath.Join(t.TempDir(), "quota.json"))
	adapter.SetMaxEvents(2)

	err := adapter.Save([]CustomEvent{{Name: "a"}, {Name: "b"}, {Name: "c"}})

	var quota *StorageQuotaExceededError
	require.ErrorAs(t, err, &quota)
	assert.Contains(t, quota.Error(), "dropped 1")

	loaded, err := adapter.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a", loaded[0].Name)
	assert.Equal(t, "b", loaded[1].Name)

	assert.NoError(t, adapter.Save([]CustomEvent{{Name: "d"}}))
}

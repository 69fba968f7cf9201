package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageQuotaExceededError_Error(t *testing.T) {
	t.Run("with custom message", func(t *testing.T) {
		err := &StorageQuotaExceededError{Message: "custom quota error"}
		assert.Equal(t, "custom quota error", err.Error())
	})

	t.Run("with empty message", func(t *testing.T) {
		err := &StorageQuotaExceededError{}
		assert.Equal(t, "storage quota exceeded", err.Error())
	})
}

func TestHit_Clone(t *testing.T) {
	t.Run("should copy entries", func(t *testing.T) {
		h := Hit{"t": "event", "ec": "cat"}
		c := h.Clone()
		c["ec"] = "changed"
		assert.Equal(t, "cat", h["ec"])
		assert.Equal(t, "event", c["t"])
	})

	t.Run("should keep nil as nil", func(t *testing.T) {
		var h Hit
		assert.Nil(t, h.Clone())
	})
}

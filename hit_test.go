package hitproxy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHitConstructors(t *testing.T) {
	t.Run("page view", func(t *testing.T) {
		assert.Equal(t, Hit{"t": "pageview"}, PageView())
	})

	t.Run("screen view without name", func(t *testing.T) {
		assert.Equal(t, Hit{"t": "screenview"}, ScreenView(""))
	})

	t.Run("exception not fatal", func(t *testing.T) {
		assert.Equal(t, "0", Exception("oops", false)[KeyExceptionFatal])
	})

	t.Run("timing in milliseconds", func(t *testing.T) {
		assert.Equal(t, "250", Timing("c", "v", 250*time.Millisecond)[KeyTimingTime])
	})
}

func TestPrefixed(t *testing.T) {
	hit := Hit{"t": "event", "&ec": "cat"}
	got := Prefixed(hit, "&")

	assert.Equal(t, Hit{"&t": "event", "&ec": "cat"}, got)
	assert.Equal(t, Hit{"t": "event", "&ec": "cat"}, hit, "input must not change")
	assert.Equal(t, hit, Prefixed(hit, ""))
}


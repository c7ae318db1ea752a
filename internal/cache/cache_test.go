package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := NewTTLCache[string, int]()
	c.Set("a", 1, time.Minute)

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := NewTTLCache[string, string]()
	c.Set("a", "v", 10*time.Millisecond)

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestZeroTTLNeverExpires(t *testing.T) {
	c := NewTTLCache[string, string]()
	c.Set("a", "v", 0)

	time.Sleep(5 * time.Millisecond)

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestDelete(t *testing.T) {
	c := NewTTLCache[int, int]()
	c.Set(1, 10, time.Minute)
	c.Delete(1)

	_, ok := c.Get(1)
	assert.False(t, ok)
}

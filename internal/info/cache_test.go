package info

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache()

	c.Set("k", "v", time.Minute)

	got, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, "v", got)

	_, found = c.Get("missing")
	assert.False(t, found)
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache()

	c.Set("k", "v", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, found := c.Get("k")
	assert.False(t, found)
}

func TestCacheGenerateKey(t *testing.T) {
	c := NewCache()

	type params struct {
		City string
		Days int
	}

	a := c.GenerateKey(params{"Ouagadougou", 3})
	b := c.GenerateKey(params{"Ouagadougou", 3})
	other := c.GenerateKey(params{"Bobo-Dioulasso", 3})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
}

package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("router.addr", ":8080"))
	require.NoError(t, store.Set("router.addr", ":9090"))

	val, ok := store.Get("router.addr")
	assert.True(t, ok)
	assert.Equal(t, ":9090", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()

	_ = store.Set("s", "text")
	_ = store.Set("i", 42)
	_ = store.Set("i64", int64(7))
	_ = store.Set("f", 2.5)
	_ = store.Set("b", true)
	_ = store.Set("slice", []any{"a", 1, "b"})

	assert.Equal(t, "text", store.GetString("s"))
	assert.Equal(t, "", store.GetString("i"))

	assert.Equal(t, 42, store.GetInt("i"))
	assert.Equal(t, 7, store.GetInt("i64"))
	assert.Equal(t, 2, store.GetInt("f"))
	assert.Equal(t, 0, store.GetInt("s"))

	assert.InDelta(t, 2.5, store.GetFloat("f"), 0.0001)
	assert.InDelta(t, 42.0, store.GetFloat("i"), 0.0001)
	assert.InDelta(t, 7.0, store.GetFloat("i64"), 0.0001)
	assert.Zero(t, store.GetFloat("s"))

	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("s"))
	assert.False(t, store.GetBool("missing"))

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice"))
	assert.Nil(t, store.GetStringSlice("s"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	store := NewConfigStore()

	_ = store.Set("str", "90s")
	_ = store.Set("native", 3*time.Minute)
	_ = store.Set("secs", 5)
	_ = store.Set("secs64", int64(6))
	_ = store.Set("bad", "later")
	_ = store.Set("bool", true)

	d, ok := store.GetDuration("str")
	assert.True(t, ok)
	assert.Equal(t, 90*time.Second, d)

	d, ok = store.GetDuration("native")
	assert.True(t, ok)
	assert.Equal(t, 3*time.Minute, d)

	d, ok = store.GetDuration("secs")
	assert.True(t, ok)
	assert.Equal(t, 5*time.Second, d)

	d, ok = store.GetDuration("secs64")
	assert.True(t, ok)
	assert.Equal(t, 6*time.Second, d)

	_, ok = store.GetDuration("bad")
	assert.False(t, ok)
	_, ok = store.GetDuration("bool")
	assert.False(t, ok)
	_, ok = store.GetDuration("missing")
	assert.False(t, ok)
}

func TestConfigStore_SaveAndLoad_NoOp(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("k", "v")

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("shared", n)
			_ = store.GetInt("shared")
			_, _ = store.GetDuration("shared")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("shared")
	assert.True(t, ok)
}

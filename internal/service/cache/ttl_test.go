package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/distribution-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(capacity int, ttl time.Duration) (*TTL[string, model.Product], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)}
	c := newTTL[string, model.Product](capacity, ttl, clock.Now, time.Hour)
	return c, clock
}

func TestTTL_Get(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(c *TTL[string, model.Product], clock *fakeClock)
		key           string
		expectedValue model.Product
		expectedFound bool
	}{
		{
			name: "returns value when exists and not expired",
			setup: func(c *TTL[string, model.Product], _ *fakeClock) {
				c.Set("cola", model.Product{ID: "cola", Name: "Cola"})
			},
			key:           "cola",
			expectedValue: model.Product{ID: "cola", Name: "Cola"},
			expectedFound: true,
		},
		{
			name:          "returns false when key not found",
			setup:         func(*TTL[string, model.Product], *fakeClock) {},
			key:           "missing",
			expectedFound: false,
		},
		{
			name: "returns false when expired",
			setup: func(c *TTL[string, model.Product], clock *fakeClock) {
				c.Set("cola", model.Product{ID: "cola"})
				clock.Advance(2 * time.Minute)
			},
			key:           "cola",
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestCache(10, time.Minute)
			defer c.Stop()
			tt.setup(c, clock)

			value, found := c.Get(tt.key)

			assert.Equal(t, tt.expectedFound, found)
			if tt.expectedFound {
				assert.Equal(t, tt.expectedValue, value)
			}
		})
	}
}

func TestTTL_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	defer c.Stop()

	c.Set("a", model.Product{ID: "a"})
	c.Set("b", model.Product{ID: "b"})
	_, _ = c.Get("a")
	c.Set("c", model.Product{ID: "c"})

	_, okA := c.Get("a")
	_, okB := c.Get("b")
	_, okC := c.Get("c")
	assert.True(t, okA)
	assert.False(t, okB, "b was least recently used")
	assert.True(t, okC)
	assert.Equal(t, int64(1), c.Metrics().Evictions)
}

func TestTTL_UpdateExistingEntry(t *testing.T) {
	c, clock := newTestCache(2, time.Minute)
	defer c.Stop()

	c.Set("a", model.Product{ID: "a", Name: "old"})
	clock.Advance(50 * time.Second)
	c.Set("a", model.Product{ID: "a", Name: "new"})
	clock.Advance(50 * time.Second)

	got, ok := c.Get("a")
	require.True(t, ok, "update refreshes the expiry")
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, 1, c.Metrics().Size)
}

func TestTTL_InvalidateAndClear(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)
	defer c.Stop()

	c.Set("a", model.Product{ID: "a"})
	c.Set("b", model.Product{ID: "b"})

	c.Invalidate("a")
	c.Invalidate("never-set")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
	m := c.Metrics()
	assert.Equal(t, 0, m.Size)
	assert.Equal(t, int64(1), m.Misses, "counters restart after Clear")
}

func TestTTL_Metrics(t *testing.T) {
	c, _ := newTestCache(5, time.Minute)
	defer c.Stop()

	c.Set("a", model.Product{ID: "a"})
	_, _ = c.Get("a")
	_, _ = c.Get("b")

	m := c.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(1), m.Misses)
	assert.Equal(t, 1, m.Size)
	assert.Equal(t, 5, m.Capacity)
}

func TestTTL_CleanupDropsExpired(t *testing.T) {
	c, clock := newTestCache(3, time.Minute)
	defer c.Stop()

	c.Set("a", model.Product{ID: "a"})
	c.Set("b", model.Product{ID: "b"})
	clock.Advance(2 * time.Minute)
	c.Set("c", model.Product{ID: "c"})

	c.cleanup()

	m := c.Metrics()
	assert.Equal(t, 1, m.Size)
	_, ok := c.Get("c")
	assert.True(t, ok)
}

func TestTTL_StopIsIdempotent(t *testing.T) {
	c := NewTTL[string, int](1, time.Minute)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

func TestTTL_ImplementsInterface(t *testing.T) {
	var _ CacheWithMetrics[string, model.Product] = NewTTL[string, model.Product](1, time.Minute)
}

func TestTTL_Concurrency(t *testing.T) {
	c := NewTTL[string, int](50, time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := strconv.Itoa((n * j) % 80)
				c.Set(key, j)
				_, _ = c.Get(key)
				if j%10 == 0 {
					c.Invalidate(key)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Metrics().Size, 50)
}

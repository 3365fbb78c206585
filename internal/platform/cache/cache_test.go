package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"dnsrake/internal/testutil"
)

func TestNew(t *testing.T) {
	t.Run("disabled for non-positive capacity", func(t *testing.T) {
		c := New[string](0, 0)
		testutil.AssertTrue(t, c == nil, "nil cache")

		c.Set("k", "v")
		_, ok := c.Get("k")
		testutil.AssertFalse(t, ok, "nil cache stores nothing")
		testutil.AssertEqual(t, c.Len(), 0, "nil len")
		testutil.AssertEqual(t, c.Stats(), Stats{}, "nil stats")
	})

	t.Run("empty cache", func(t *testing.T) {
		c := New[int](10, 0)
		testutil.AssertEqual(t, c.Len(), 0, "empty")
		testutil.AssertEqual(t, c.Stats().Capacity, 10, "capacity")
	})
}

func TestLRU_SetAndGet(t *testing.T) {
	c := New[string](10, 0)
	c.Set("key1", "value1")

	v, ok := c.Get("key1")
	testutil.AssertTrue(t, ok, "found")
	testutil.AssertEqual(t, v, "value1", "value")

	_, ok = c.Get("missing")
	testutil.AssertFalse(t, ok, "missing key")

	c.Set("key1", "value2")
	v, _ = c.Get("key1")
	testutil.AssertEqual(t, v, "value2", "overwrite")
	testutil.AssertEqual(t, c.Len(), 1, "overwrite keeps one entry")

	st := c.Stats()
	testutil.AssertEqual(t, st.Hits, int64(2), "hits")
	testutil.AssertEqual(t, st.Misses, int64(1), "misses")
}

func TestLRU_TTL(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	now = now.Add(59 * time.Second)
	_, ok := c.Get("k")
	testutil.AssertTrue(t, ok, "still fresh")

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	testutil.AssertFalse(t, ok, "expired")
	testutil.AssertEqual(t, c.Len(), 0, "expired entry removed")
}

func TestLRU_Eviction(t *testing.T) {
	c := New[int](3, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// a pasa a ser el más reciente; b es ahora el candidato a salir
	c.Get("a")
	c.Set("d", 4)

	_, ok := c.Get("b")
	testutil.AssertFalse(t, ok, "least recently used evicted")
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		testutil.AssertTrue(t, ok, "kept "+k)
	}
	testutil.AssertEqual(t, c.Len(), 3, "bounded")
}

func TestLRU_ConcurrentAccess(t *testing.T) {
	c := New[int](50, 0)
	var wg sync.WaitGroup

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := fmt.Sprintf("k%d", (g*200+i)%100)
				c.Set(k, i)
				c.Get(k)
			}
		}(g)
	}
	wg.Wait()

	testutil.AssertTrue(t, c.Len() <= 50, "capacity respected")
}

func BenchmarkLRU_Get(b *testing.B) {
	c := New[int](1000, 0)
	for i := 0; i < 1000; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("k%d", i%1000))
	}
}

package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestCache_BasicOperations(t *testing.T) {
	c := New[string, int]()

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache should miss")
	}

	c.Put("a", 1)
	c.Put("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Put("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Put should overwrite; got %d", v)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func TestCache_GetOrCompute(t *testing.T) {
	c := New[string, string]()
	calls := 0

	prefix := func(k string) string {
		calls++
		return "@" + k
	}

	if got := c.GetOrCompute("visible", prefix); got != "@visible" {
		t.Errorf("GetOrCompute = %q, want %q", got, "@visible")
	}
	if got := c.GetOrCompute("visible", prefix); got != "@visible" {
		t.Errorf("GetOrCompute = %q, want %q", got, "@visible")
	}
	if calls != 1 {
		t.Errorf("compute ran %d times, want 1", calls)
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int, string]()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := j % 10
				got := c.GetOrCompute(key, func(k int) string {
					return fmt.Sprintf("v%d", k)
				})
				if want := fmt.Sprintf("v%d", key); got != want {
					t.Errorf("worker %d: got %q, want %q", worker, got, want)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() != 10 {
		t.Errorf("Len() = %d, want 10", c.Len())
	}
}

package puzzles

import (
	"sync"
	"testing"
)

func TestRetryCache_PutGetClear(t *testing.T) {
	cache := NewRetryCache()

	if got := cache.Get(1, 10); got != "" {
		t.Errorf("expected empty code before any put, got %q", got)
	}

	cache.Put(1, 10, "def solve(): pass")
	if got := cache.Get(1, 10); got != "def solve(): pass" {
		t.Errorf("expected stored code back, got %q", got)
	}

	cache.Clear(1, 10)
	if got := cache.Get(1, 10); got != "" {
		t.Errorf("expected empty code after clear, got %q", got)
	}
}

func TestRetryCache_IsolatesUsersAndPuzzles(t *testing.T) {
	cache := NewRetryCache()

	cache.Put(1, 10, "user one, puzzle ten")
	cache.Put(2, 10, "user two, puzzle ten")
	cache.Put(1, 11, "user one, puzzle eleven")

	if got := cache.Get(1, 10); got != "user one, puzzle ten" {
		t.Errorf("wrong code for (1,10): %q", got)
	}
	if got := cache.Get(2, 10); got != "user two, puzzle ten" {
		t.Errorf("wrong code for (2,10): %q", got)
	}
	if got := cache.Get(2, 11); got != "" {
		t.Errorf("expected no code for (2,11), got %q", got)
	}

	cache.Clear(1, 10)
	if got := cache.Get(2, 10); got == "" {
		t.Error("clearing one user's entry removed another's")
	}
}

func TestRetryCache_ConcurrentAccess(t *testing.T) {
	cache := NewRetryCache()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			cache.Put(n, n, "code")
			cache.Get(n, n)
			cache.Clear(n, n)
		}(int64(i))
	}
	wg.Wait()
}

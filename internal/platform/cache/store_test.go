package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "team:id:abc", "value")

	got, ok := store.Get(ctx, "team:id:abc")
	if !ok {
		t.Fatalf("expected hit")
	}
	if got != "value" {
		t.Fatalf("unexpected value %v", got)
	}

	if _, ok := store.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.SetWithTTL(ctx, "short", "v", time.Nanosecond)
	time.Sleep(time.Millisecond)

	if _, ok := store.Get(ctx, "short"); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestStoreNegativeTTLIsFifthOfPositive(t *testing.T) {
	store := NewStore(300 * time.Second)

	if got, want := store.NegativeTTL(), 60*time.Second; got != want {
		t.Fatalf("negative ttl = %s, want %s", got, want)
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "sched:Alpha:2026:W10", 1)
	store.Set(ctx, "sched:Alpha:2026:W11", 2)
	store.Set(ctx, "sched:Beta:2026:W10", 3)

	store.DeletePrefix(ctx, "sched:Alpha:")

	if _, ok := store.Get(ctx, "sched:Alpha:2026:W10"); ok {
		t.Fatalf("expected prefix delete to remove Alpha W10")
	}
	if _, ok := store.Get(ctx, "sched:Alpha:2026:W11"); ok {
		t.Fatalf("expected prefix delete to remove Alpha W11")
	}
	if _, ok := store.Get(ctx, "sched:Beta:2026:W10"); !ok {
		t.Fatalf("expected Beta entry to survive")
	}
}

func TestStoreFlush(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)
	store.Flush(ctx)

	if _, ok := store.Get(ctx, "a"); ok {
		t.Fatalf("expected flush to clear entries")
	}
}

func TestStoreGetOrLoadDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)

	var mu sync.Mutex
	loads := 0
	release := make(chan struct{})

	loader := func(context.Context) (any, error) {
		mu.Lock()
		loads++
		mu.Unlock()
		<-release
		return "loaded", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := store.GetOrLoad(ctx, "key", loader)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}
	for i, v := range results {
		if v != "loaded" {
			t.Fatalf("result %d = %v, want loaded", i, v)
		}
	}
}

func TestStoreGetOrLoadError(t *testing.T) {
	ctx := context.Background()
	store := NewStore(time.Minute)
	sentinel := errors.New("backend down")

	_, err := store.GetOrLoad(ctx, "key", func(context.Context) (any, error) {
		return nil, sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected loader error, got %v", err)
	}

	if _, ok := store.Get(ctx, "key"); ok {
		t.Fatalf("failed load must not populate the cache")
	}
}

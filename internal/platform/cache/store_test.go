package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_SetGetRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "standings:2026", []string{"liv", "ars"})
	got, ok := store.Get(ctx, "standings:2026")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	rows, _ := got.([]string)
	if len(rows) != 2 || rows[0] != "liv" {
		t.Fatalf("unexpected cached value: %v", got)
	}

	if _, ok := store.Get(ctx, "standings:2027"); ok {
		t.Fatalf("expected miss for unknown key")
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(10 * time.Millisecond)

	store.Set(ctx, "k", "v")
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after ttl elapsed")
	}
}

func TestStore_ZeroTTLKeepsForever(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(0)

	store.Set(ctx, "k", "v")
	time.Sleep(5 * time.Millisecond)
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatalf("zero ttl entries must not expire")
	}
}

func TestStore_NegativeTTLDisablesCaching(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(-1)

	store.Set(ctx, "k", "v")
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("negative ttl store must never return a hit")
	}

	var loads atomic.Int64
	for i := 0; i < 3; i++ {
		got, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
			loads.Add(1)
			return "fresh", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "fresh" {
			t.Fatalf("unexpected value: %v", got)
		}
	}
	if loads.Load() != 3 {
		t.Fatalf("expected loader on every read, got %d loads", loads.Load())
	}
}

func TestStore_EmptyKeyIgnored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "", "v")
	if _, ok := store.Get(ctx, ""); ok {
		t.Fatalf("empty key must never hit")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	store.Set(ctx, "matches:2026:all", 1)
	store.Set(ctx, "matches:2026:live", 2)
	store.Set(ctx, "standings:2026", 3)

	store.DeletePrefix(ctx, "matches:")

	if _, ok := store.Get(ctx, "matches:2026:all"); ok {
		t.Fatalf("expected matches keys to be deleted")
	}
	if _, ok := store.Get(ctx, "matches:2026:live"); ok {
		t.Fatalf("expected matches keys to be deleted")
	}
	if _, ok := store.Get(ctx, "standings:2026"); !ok {
		t.Fatalf("unrelated keys must survive DeletePrefix")
	}
}

func TestStore_GetOrLoad_CachesResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	var loads atomic.Int64
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		got, err := store.GetOrLoad(ctx, "k", loader)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "loaded" {
			t.Fatalf("unexpected value: %v", got)
		}
	}
	if loads.Load() != 1 {
		t.Fatalf("expected a single load, got %d", loads.Load())
	}
}

func TestStore_GetOrLoad_ErrorNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	boom := errors.New("backend down")
	var loads atomic.Int64

	_, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		loads.Add(1)
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}

	got, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		loads.Add(1)
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Fatalf("unexpected value: %v", got)
	}
	if loads.Load() != 2 {
		t.Fatalf("expected 2 loads, got %d", loads.Load())
	}
}

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)

	var loads atomic.Int64
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		loads.Add(1)
		<-release
		return "shared", nil
	}

	const readers = 8
	var wg sync.WaitGroup
	results := make([]any, readers)
	errs := make([]error, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = store.GetOrLoad(ctx, "k", loader)
		}(i)
	}

	// Give the goroutines a moment to pile onto the same key.
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d: unexpected error: %v", i, errs[i])
		}
		if results[i] != "shared" {
			t.Fatalf("reader %d: unexpected value: %v", i, results[i])
		}
	}
	if loads.Load() != 1 {
		t.Fatalf("expected one collapsed load, got %d", loads.Load())
	}
}

func TestStore_GetOrLoad_RequiresLoader(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	if _, err := store.GetOrLoad(context.Background(), "k", nil); err == nil {
		t.Fatalf("expected error for nil loader")
	}
}

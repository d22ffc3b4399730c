package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "snapshot:0", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Minute)
	var calls atomic.Int32
	boom := errors.New("boom")

	failing := func(context.Context) (int, error) {
		calls.Add(1)
		return 0, boom
	}
	if _, err := store.GetOrLoad(context.Background(), "k", failing); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (int, error) {
		calls.Add(1)
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("unexpected reload result: %d %v", got, err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 loader calls, got %d", calls.Load())
	}
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	store := NewStore[string](time.Second)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "k", "v")
	if _, ok := store.Get(context.Background(), "k"); !ok {
		t.Fatalf("expected fresh entry")
	}
	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("expected expired entry to be dropped")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore[int](0)
	ctx := context.Background()
	store.Set(ctx, "snapshot:1", 1)
	store.Set(ctx, "snapshot:2", 2)
	store.Set(ctx, "other", 3)

	store.DeletePrefix(ctx, "snapshot:")
	if _, ok := store.Get(ctx, "snapshot:1"); ok {
		t.Fatalf("expected snapshot:1 removed")
	}
	if _, ok := store.Get(ctx, "other"); !ok {
		t.Fatalf("expected other to survive")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryJobStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore(time.Hour)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	rec := JobRecord{ID: "a", State: JobCompleted, Errores: []string{"Fila 1: x"}}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Errores[0] = "mutated"

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Errores[0] != "Fila 1: x" {
		t.Error("stored record should not share the caller's slice")
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("expired record should not be returned, got %v", err)
	}

	removed, err := store.Sweep(ctx)
	if err != nil || removed != 1 {
		t.Errorf("Sweep() = %d, %v; want 1", removed, err)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d after sweep", store.Len())
	}
}

func TestMemoryJobStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryJobStore(0)

	_ = store.Save(ctx, JobRecord{ID: "a", State: JobRunning})
	_ = store.Save(ctx, JobRecord{ID: "a", State: JobCompleted})

	got, err := store.Get(ctx, "a")
	if err != nil || got.State != JobCompleted {
		t.Errorf("Get() = %+v, %v", got, err)
	}
}

type countingSweeper struct{ calls chan struct{} }

func (c *countingSweeper) Sweep(context.Context) (int, error) {
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestStartHistorySweeper(t *testing.T) {
	s := &countingSweeper{calls: make(chan struct{}, 10)}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartHistorySweeper(ctx, s, 5*time.Millisecond)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-s.calls:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not run")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

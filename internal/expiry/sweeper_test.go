package expiry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/storage"
)

func TestSweepRemovesIdleSessions(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sessions := []*domain.Session{
		{ID: "fresh", CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-time.Minute)},
		{ID: "stale", CreatedAt: now.Add(-72 * time.Hour), UpdatedAt: now.Add(-48 * time.Hour)},
		{ID: "edge", CreatedAt: now.Add(-25 * time.Hour), UpdatedAt: now.Add(-24 * time.Hour)},
	}
	for _, s := range sessions {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save %s: %v", s.ID, err)
		}
	}

	sw := New(store, log, WithIdleTTL(24*time.Hour), WithClock(func() time.Time { return now }))
	if got := sw.Sweep(ctx); got != 1 {
		t.Fatalf("Sweep removed %d, want 1", got)
	}

	if _, err := store.Load(ctx, "stale"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("stale session: err = %v, want ErrNotFound", err)
	}
	for _, id := range []string{"fresh", "edge"} {
		if _, err := store.Load(ctx, id); err != nil {
			t.Errorf("%s session removed: %v", id, err)
		}
	}
}

func TestSweeperLoop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	ctx := context.Background()

	old := time.Now().Add(-time.Hour)
	if err := store.Save(ctx, &domain.Session{ID: "old", CreatedAt: old, UpdatedAt: old}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sw := New(store, log, WithInterval(10*time.Millisecond), WithIdleTTL(time.Minute))
	sw.Start(ctx)
	sw.Start(ctx) // second start is a no-op

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := store.Load(ctx, "old"); errors.Is(err, domain.ErrNotFound) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("idle session was not swept")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sw.Stop()
	sw.Stop()
}

package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/foods"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/planner"
	"github.com/hammamikhairi/nutriplan/internal/storage"
)

func TestOpenStoreUnknownKind(t *testing.T) {
	_, closeStore, err := openStore(context.Background(), "postgres", false, logger.New(logger.LevelOff, nil))
	if err == nil || !strings.Contains(err.Error(), `unknown store "postgres"`) {
		t.Fatalf("expected unknown store error, got %v", err)
	}
	if closeStore != nil {
		t.Error("closer returned alongside an error")
	}
}

func TestOpenStoreCloserReleasesSQLite(t *testing.T) {
	t.Setenv(envSQLitePath, filepath.Join(t.TempDir(), "sessions.db"))
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, "sqlite", false, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	if err := store.Save(ctx, &domain.Session{ID: "a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	closeStore()

	if err := store.Save(ctx, &domain.Session{ID: "b"}); err == nil {
		t.Error("store still usable after close")
	}
}

func TestRunOneShotExitCodes(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	p := planner.New(storage.NewMemoryStore(log), foods.NewMemoryCatalog(log), log)

	valid := map[domain.QuizStep]string{
		domain.QuizWeight:   "70",
		domain.QuizHeight:   "175",
		domain.QuizAge:      "30",
		domain.QuizSex:      "male",
		domain.QuizGoal:     "maintain",
		domain.QuizActivity: "moderate",
	}
	badWeight := map[domain.QuizStep]string{}
	for k, v := range valid {
		badWeight[k] = v
	}
	badWeight[domain.QuizWeight] = "9000"

	tests := []struct {
		name    string
		answers map[domain.QuizStep]string
		want    int
	}{
		{"valid", valid, 0},
		{"bad weight", badWeight, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runOneShot(p, tt.answers, true); got != tt.want {
				t.Errorf("exit code = %d, want %d", got, tt.want)
			}
		})
	}
}

package vision

import (
	"testing"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

func sampleAnalysis() *domain.FoodAnalysis {
	return &domain.FoodAnalysis{
		Foods:         []domain.RecognizedFood{{Name: "Banana", Calories: 105, Confidence: domain.ConfidenceHigh, Alternatives: []string{"Plantain"}}},
		TotalCalories: 105,
	}
}

func TestCacheMemory(t *testing.T) {
	c := NewCache("m", "", false, logger.New(logger.LevelOff, nil))
	if _, ok := c.Get(testImage); ok {
		t.Fatal("empty cache should miss")
	}
	c.Put(testImage, sampleAnalysis())
	got, ok := c.Get(testImage)
	if !ok || got.TotalCalories != 105 {
		t.Fatalf("Get = %+v, %v", got, ok)
	}

	got.Foods[0].Alternatives[0] = "mutated"
	again, _ := c.Get(testImage)
	if again.Foods[0].Alternatives[0] != "Plantain" {
		t.Error("cache returned shared state")
	}

	hits, misses := c.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("stats = %d/%d, want 2/1", hits, misses)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear should empty memory")
	}
}

func TestCacheDiskSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	log := logger.New(logger.LevelOff, nil)

	NewCache("m", dir, true, log).Put(testImage, sampleAnalysis())

	fresh := NewCache("m", dir, false, log)
	got, ok := fresh.Get(testImage)
	if !ok || got.Foods[0].Name != "Banana" {
		t.Fatalf("disk Get = %+v, %v", got, ok)
	}

	otherModel := NewCache("other", dir, false, log)
	if _, ok := otherModel.Get(testImage); ok {
		t.Error("a different model should miss")
	}
}

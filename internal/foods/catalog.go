// Package foods provides the food catalog used for substitutions and
// plan solving.
package foods

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

// Compile-time interface check.
var _ domain.FoodCatalog = (*MemoryCatalog)(nil)

// altGroup is the alternative list shared by one or more meal slots.
type altGroup string

const (
	altBreakfast altGroup = "breakfast"
	altSnack     altGroup = "snack"
	altLunch     altGroup = "lunch"
	altDinner    altGroup = "dinner"
)

func groupFor(slot domain.MealSlot) (altGroup, bool) {
	switch slot {
	case domain.SlotBreakfast:
		return altBreakfast, true
	case domain.SlotMorningSnack, domain.SlotAfternoonSnack, domain.SlotEveningSnack:
		return altSnack, true
	case domain.SlotLunch:
		return altLunch, true
	case domain.SlotDinner:
		return altDinner, true
	}
	return "", false
}

// MemoryCatalog holds foods in memory. Safe for concurrent reads.
type MemoryCatalog struct {
	mu           sync.RWMutex
	foods        []domain.CatalogFood
	byName       map[string]int
	alternatives map[altGroup][]domain.FoodItem
	log          *logger.Logger
}

// NewMemoryCatalog creates a catalog preloaded with the built-in foods.
func NewMemoryCatalog(log *logger.Logger) *MemoryCatalog {
	c := &MemoryCatalog{
		byName:       make(map[string]int),
		alternatives: make(map[altGroup][]domain.FoodItem),
		log:          log,
	}
	c.seed()
	return c
}

// Add inserts a food. Names are unique, case-insensitively.
func (c *MemoryCatalog) Add(ctx context.Context, food domain.CatalogFood) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := normalize(food.Name)
	if _, ok := c.byName[key]; ok {
		return domain.ErrAlreadyExists
	}
	c.byName[key] = len(c.foods)
	c.foods = append(c.foods, food)
	c.log.Debug("catalog: added %s (%s)", food.Name, food.Category)
	return nil
}

// List returns every food sorted by category, then name.
func (c *MemoryCatalog) List(ctx context.Context) ([]domain.CatalogFood, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := append([]domain.CatalogFood(nil), c.foods...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ByCategory returns the foods of one category in catalog order.
func (c *MemoryCatalog) ByCategory(ctx context.Context, category domain.FoodCategory) ([]domain.CatalogFood, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.CatalogFood
	for _, f := range c.foods {
		if f.Category == category {
			out = append(out, f)
		}
	}
	c.log.Debug("catalog: category %s has %d foods", category, len(out))
	return out, nil
}

// FindByName returns the food whose name matches, ignoring case.
func (c *MemoryCatalog) FindByName(ctx context.Context, name string) (*domain.CatalogFood, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byName[normalize(name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f := c.foods[idx]
	return &f, nil
}

// Search returns foods whose name or category contains query.
func (c *MemoryCatalog) Search(ctx context.Context, query string) ([]domain.CatalogFood, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := normalize(query)
	c.log.Debug("catalog: searching for %q", q)

	var out []domain.CatalogFood
	for _, f := range c.foods {
		if strings.Contains(normalize(f.Name), q) || strings.Contains(string(f.Category), q) {
			out = append(out, f)
		}
	}
	return out, nil
}

// Alternatives returns the substitution list for a meal slot. All snack
// slots share one list.
func (c *MemoryCatalog) Alternatives(ctx context.Context, slot domain.MealSlot) ([]domain.FoodItem, error) {
	g, ok := groupFor(slot)
	if !ok {
		return nil, domain.ErrNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.FoodItem(nil), c.alternatives[g]...), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

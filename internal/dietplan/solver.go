package dietplan

import (
	"math"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

// Solver picks concrete foods for one meal.
type Solver interface {
	Foods(slot domain.MealSlot, target domain.MealTarget) []domain.FoodItem
}

// StaticSolver returns a fixed example menu per slot and ignores the
// target. Its sums deliberately differ from the percentage targets; the
// food list is authoritative for displayed totals.
type StaticSolver struct{}

// Foods returns a copy of the example menu for slot.
func (StaticSolver) Foods(slot domain.MealSlot, _ domain.MealTarget) []domain.FoodItem {
	return append([]domain.FoodItem(nil), staticMenus[slot]...)
}

var staticMenus = map[domain.MealSlot][]domain.FoodItem{
	domain.SlotBreakfast: {
		{Name: "Scrambled eggs", Quantity: "3 eggs", Calories: 210, Protein: 18, Carbs: 2, Fat: 14},
		{Name: "Whole-wheat bread", Quantity: "2 slices", Calories: 160, Protein: 8, Carbs: 28, Fat: 2},
		{Name: "Avocado", Quantity: "1/2 fruit", Calories: 120, Protein: 1, Carbs: 6, Fat: 11},
		{Name: "Coffee with skim milk", Quantity: "200ml", Calories: 60, Protein: 6, Carbs: 9, Fat: 0},
	},
	domain.SlotMorningSnack: {
		{Name: "Plain Greek yogurt", Quantity: "150g", Calories: 100, Protein: 15, Carbs: 6, Fat: 2},
		{Name: "Banana", Quantity: "1 medium", Calories: 105, Protein: 1, Carbs: 27, Fat: 0},
	},
	domain.SlotLunch: {
		{Name: "Grilled chicken breast", Quantity: "150g", Calories: 240, Protein: 45, Carbs: 0, Fat: 5},
		{Name: "Brown rice", Quantity: "4 tablespoons", Calories: 180, Protein: 4, Carbs: 38, Fat: 1},
		{Name: "Pinto beans", Quantity: "2 ladles", Calories: 140, Protein: 9, Carbs: 24, Fat: 1},
		{Name: "Steamed broccoli", Quantity: "1 cup", Calories: 55, Protein: 4, Carbs: 11, Fat: 0},
		{Name: "Green salad", Quantity: "1 plate", Calories: 30, Protein: 2, Carbs: 6, Fat: 0},
	},
	domain.SlotAfternoonSnack: {
		{Name: "Whey protein", Quantity: "1 scoop (30g)", Calories: 120, Protein: 24, Carbs: 3, Fat: 1},
		{Name: "Mixed nuts", Quantity: "20g", Calories: 120, Protein: 3, Carbs: 4, Fat: 11},
	},
	domain.SlotDinner: {
		{Name: "Grilled salmon", Quantity: "150g", Calories: 280, Protein: 34, Carbs: 0, Fat: 15},
		{Name: "Sweet potato", Quantity: "1 medium", Calories: 130, Protein: 2, Carbs: 30, Fat: 0},
		{Name: "Grilled asparagus", Quantity: "1 cup", Calories: 40, Protein: 4, Carbs: 8, Fat: 0},
		{Name: "Olive oil", Quantity: "1 tablespoon", Calories: 120, Protein: 0, Carbs: 0, Fat: 14},
	},
}

// slotCategories is the order in which GreedySolver fills each slot.
var slotCategories = map[domain.MealSlot][]domain.FoodCategory{
	domain.SlotBreakfast:      {domain.CategoryProtein, domain.CategoryCarb, domain.CategoryDairy, domain.CategoryFruit},
	domain.SlotMorningSnack:   {domain.CategoryDairy, domain.CategoryFruit},
	domain.SlotLunch:          {domain.CategoryProtein, domain.CategoryCarb, domain.CategoryOther, domain.CategoryVegetable},
	domain.SlotAfternoonSnack: {domain.CategoryProtein, domain.CategoryFat, domain.CategoryFruit},
	domain.SlotDinner:         {domain.CategoryProtein, domain.CategoryCarb, domain.CategoryVegetable, domain.CategoryFat},
	domain.SlotEveningSnack:   {domain.CategoryDairy, domain.CategoryFruit},
}

// maxFoodsPerMeal caps how many items GreedySolver puts on one plate.
const maxFoodsPerMeal = 6

// GreedySolver fills each slot from catalog foods so the meal's calories
// approach its target. One food per preferred category is placed first,
// each sized to an even split of what is left; extra portions are then
// added while they shrink the remaining gap.
type GreedySolver struct {
	byCategory map[domain.FoodCategory][]domain.FoodItem
}

// NewGreedySolver indexes foods by category.
func NewGreedySolver(foods []domain.CatalogFood) *GreedySolver {
	g := &GreedySolver{byCategory: make(map[domain.FoodCategory][]domain.FoodItem)}
	for _, f := range foods {
		g.byCategory[f.Category] = append(g.byCategory[f.Category], f.FoodItem)
	}
	return g
}

// Foods picks foods for slot. An empty catalog yields an empty meal.
func (g *GreedySolver) Foods(slot domain.MealSlot, target domain.MealTarget) []domain.FoodItem {
	cats := slotCategories[slot]
	remaining := target.Calories
	var picked []domain.FoodItem

	for i, cat := range cats {
		if remaining <= 0 {
			break
		}
		want := remaining / (len(cats) - i)
		if f, ok := closest(g.byCategory[cat], want); ok {
			picked = append(picked, f)
			remaining -= f.Calories
		}
	}

	var pool []domain.FoodItem
	for _, cat := range cats {
		pool = append(pool, g.byCategory[cat]...)
	}
	for len(picked) < maxFoodsPerMeal && remaining > 0 {
		f, ok := closest(pool, remaining)
		if !ok || abs(remaining-f.Calories) >= remaining {
			break
		}
		picked = append(picked, f)
		remaining -= f.Calories
	}
	return picked
}

// closest returns the food whose calories are nearest to want. Ties keep
// the earlier food so results are deterministic.
func closest(foods []domain.FoodItem, want int) (domain.FoodItem, bool) {
	best, bestGap := -1, math.MaxInt
	for i, f := range foods {
		if gap := abs(f.Calories - want); gap < bestGap {
			best, bestGap = i, gap
		}
	}
	if best < 0 {
		return domain.FoodItem{}, false
	}
	return foods[best], true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

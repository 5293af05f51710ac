package foods

import "github.com/hammamikhairi/nutriplan/internal/domain"

func food(name, qty string, kcal, p, c, f int, cat domain.FoodCategory) domain.CatalogFood {
	return domain.CatalogFood{
		FoodItem: domain.FoodItem{Name: name, Quantity: qty, Calories: kcal, Protein: p, Carbs: c, Fat: f},
		Category: cat,
	}
}

func item(name, qty string, kcal, p, c, f int) domain.FoodItem {
	return domain.FoodItem{Name: name, Quantity: qty, Calories: kcal, Protein: p, Carbs: c, Fat: f}
}

// seed populates the catalog with the built-in food database and the
// per-meal alternative lists.
func (c *MemoryCatalog) seed() {
	builtin := []domain.CatalogFood{
		food("Grilled chicken breast", "150g", 240, 45, 0, 5, domain.CategoryProtein),
		food("Grilled salmon", "150g", 280, 34, 0, 15, domain.CategoryProtein),
		food("Scrambled eggs", "3 eggs", 210, 18, 2, 14, domain.CategoryProtein),
		food("Tuna in water", "100g", 120, 26, 0, 1, domain.CategoryProtein),
		food("Whey protein", "1 scoop (30g)", 120, 24, 3, 1, domain.CategoryProtein),
		food("Cottage cheese", "150g", 110, 14, 3, 4, domain.CategoryProtein),
		food("Firm tofu", "150g", 180, 20, 3, 11, domain.CategoryProtein),

		food("Brown rice", "4 tablespoons", 180, 4, 38, 1, domain.CategoryCarb),
		food("Sweet potato", "1 medium", 130, 2, 30, 0, domain.CategoryCarb),
		food("Whole-wheat bread", "2 slices", 160, 8, 28, 2, domain.CategoryCarb),
		food("Cooked quinoa", "4 tablespoons", 140, 5, 25, 2, domain.CategoryCarb),
		food("Rolled oats", "40g", 150, 5, 27, 3, domain.CategoryCarb),
		food("Whole-wheat pasta", "1 plate (cooked)", 220, 8, 42, 1, domain.CategoryCarb),

		food("Avocado", "1/2 fruit", 120, 1, 6, 11, domain.CategoryFat),
		food("Olive oil", "1 tablespoon", 120, 0, 0, 14, domain.CategoryFat),
		food("Mixed nuts", "20g", 120, 3, 4, 11, domain.CategoryFat),
		food("Peanut butter", "1 tablespoon", 95, 4, 3, 8, domain.CategoryFat),

		food("Steamed broccoli", "1 cup", 55, 4, 11, 0, domain.CategoryVegetable),
		food("Grilled asparagus", "1 cup", 40, 4, 8, 0, domain.CategoryVegetable),
		food("Green salad", "1 plate", 30, 2, 6, 0, domain.CategoryVegetable),
		food("Boiled carrots", "1 cup", 55, 1, 13, 0, domain.CategoryVegetable),
		food("Sauteed spinach", "1 cup", 40, 5, 7, 0, domain.CategoryVegetable),

		food("Banana", "1 medium", 105, 1, 27, 0, domain.CategoryFruit),
		food("Apple", "1 medium", 95, 0, 25, 0, domain.CategoryFruit),
		food("Orange", "1 medium", 60, 1, 15, 0, domain.CategoryFruit),
		food("Strawberries", "1 cup", 50, 1, 12, 0, domain.CategoryFruit),

		food("Plain Greek yogurt", "150g", 100, 15, 6, 2, domain.CategoryDairy),
		food("Skim milk", "200ml", 70, 7, 10, 0, domain.CategoryDairy),
		food("Coffee with skim milk", "200ml", 60, 6, 9, 0, domain.CategoryDairy),

		food("Pinto beans", "2 ladles", 140, 9, 24, 1, domain.CategoryOther),
		food("Cooked lentils", "4 tablespoons", 115, 9, 20, 0, domain.CategoryOther),
	}
	for _, f := range builtin {
		c.byName[normalize(f.Name)] = len(c.foods)
		c.foods = append(c.foods, f)
	}

	c.alternatives[altBreakfast] = []domain.FoodItem{
		item("Oats with milk", "50g + 200ml", 180, 8, 30, 4),
		item("French bread roll", "2 rolls", 200, 6, 40, 2),
		item("Breakfast cereal", "40g", 160, 4, 32, 1),
		item("Plain yogurt", "200g", 120, 10, 12, 3),
	}
	c.alternatives[altSnack] = []domain.FoodItem{
		item("Apple", "1 medium", 80, 0, 22, 0),
		item("Banana", "1 medium", 105, 1, 27, 0),
		item("Walnuts", "20g", 120, 3, 3, 12),
		item("Greek yogurt", "150g", 100, 15, 6, 2),
	}
	c.alternatives[altLunch] = []domain.FoodItem{
		item("White rice", "4 tablespoons", 200, 4, 44, 0),
		item("Pasta", "1 plate", 250, 8, 50, 2),
		item("French fries", "100g", 300, 4, 35, 15),
		item("Mixed salad", "1 plate", 50, 2, 10, 0),
	}
	c.alternatives[altDinner] = []domain.FoodItem{
		item("Baked fish", "150g", 200, 30, 0, 8),
		item("Beef", "150g", 300, 35, 0, 15),
		item("Roast chicken", "150g", 220, 40, 0, 5),
		item("Sauteed vegetables", "1 cup", 80, 3, 15, 2),
	}

	c.log.Debug("catalog: seeded %d foods", len(c.foods))
}

package dietplan

import (
	"fmt"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

// ComputeDietPlan builds the day's meals for plan using the static
// example menus.
func ComputeDietPlan(plan domain.NutritionPlan) domain.DietPlan {
	return Generate(plan, StaticSolver{})
}

// Generate builds one meal per required slot with foods chosen by solver.
// Meal totals come from the foods, not from the targets.
func Generate(plan domain.NutritionPlan, solver Solver) domain.DietPlan {
	out := domain.DietPlan{Meals: make([]domain.Meal, 0, len(Distribution))}
	for _, s := range Distribution {
		target := Target(plan, s)
		meal := domain.Meal{
			Slot:   s.Slot,
			Name:   s.Slot.Title(),
			Foods:  solver.Foods(s.Slot, target),
			Target: target,
		}
		recomputeMeal(&meal)
		out.Meals = append(out.Meals, meal)
	}
	recomputeDaily(&out)
	return out
}

// Recompute restores both aggregate invariants of plan in place.
func Recompute(plan *domain.DietPlan) {
	for i := range plan.Meals {
		recomputeMeal(&plan.Meals[i])
	}
	recomputeDaily(plan)
}

// ReplaceFood returns a copy of plan with food at index of slot's meal
// replaced. Only that meal's foods change; every cached total in the copy
// is recomputed from its foods, so stale input comes back consistent.
// plan itself is left untouched.
func ReplaceFood(plan domain.DietPlan, slot domain.MealSlot, index int, food domain.FoodItem) (domain.DietPlan, error) {
	return edit(plan, slot, func(m *domain.Meal) error {
		if index < 0 || index >= len(m.Foods) {
			return fmt.Errorf("%w: %s has no food #%d", domain.ErrInvalidInput, slot, index+1)
		}
		m.Foods[index] = food
		return nil
	})
}

// AddFood returns a copy of plan with food appended to slot's meal.
func AddFood(plan domain.DietPlan, slot domain.MealSlot, food domain.FoodItem) (domain.DietPlan, error) {
	return edit(plan, slot, func(m *domain.Meal) error {
		m.Foods = append(m.Foods, food)
		return nil
	})
}

// RemoveFood returns a copy of plan without the food at index of slot's
// meal.
func RemoveFood(plan domain.DietPlan, slot domain.MealSlot, index int) (domain.DietPlan, error) {
	return edit(plan, slot, func(m *domain.Meal) error {
		if index < 0 || index >= len(m.Foods) {
			return fmt.Errorf("%w: %s has no food #%d", domain.ErrInvalidInput, slot, index+1)
		}
		m.Foods = append(m.Foods[:index], m.Foods[index+1:]...)
		return nil
	})
}

func edit(plan domain.DietPlan, slot domain.MealSlot, fn func(m *domain.Meal) error) (domain.DietPlan, error) {
	out := plan.Clone()
	meal := out.Meal(slot)
	if meal == nil {
		return plan, fmt.Errorf("dietplan: meal %s: %w", slot, domain.ErrNotFound)
	}
	if err := fn(meal); err != nil {
		return plan, err
	}
	Recompute(&out)
	return out, nil
}

func recomputeMeal(m *domain.Meal) {
	m.TotalCalories = 0
	m.Macros = domain.Macros{}
	for _, f := range m.Foods {
		m.TotalCalories += f.Calories
		m.Macros.Protein += f.Protein
		m.Macros.Carbs += f.Carbs
		m.Macros.Fat += f.Fat
	}
}

func recomputeDaily(p *domain.DietPlan) {
	p.DailyTotal = domain.DailyTotal{}
	for _, m := range p.Meals {
		p.DailyTotal.Calories += m.TotalCalories
		p.DailyTotal.Protein += m.Macros.Protein
		p.DailyTotal.Carbs += m.Macros.Carbs
		p.DailyTotal.Fat += m.Macros.Fat
	}
}

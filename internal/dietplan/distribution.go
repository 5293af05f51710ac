// Package dietplan allocates a NutritionPlan across the day's meals and
// keeps meal and daily aggregates consistent while a plan is edited.
package dietplan

import (
	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/nutrition"
)

// Share is one slot's slice of the daily targets, in whole percent.
type Share struct {
	Slot    domain.MealSlot
	Percent int
}

// Fraction returns the share as a fraction of one day.
func (s Share) Fraction() float64 { return float64(s.Percent) / 100 }

// Distribution is the fixed split of daily targets across the required
// slots. The percents add up to exactly 100.
var Distribution = []Share{
	{domain.SlotBreakfast, 25},
	{domain.SlotMorningSnack, 10},
	{domain.SlotLunch, 30},
	{domain.SlotAfternoonSnack, 10},
	{domain.SlotDinner, 25},
}

// Target returns the intended allocation of plan for one share. Calories
// and each macro are scaled independently.
func Target(plan domain.NutritionPlan, s Share) domain.MealTarget {
	scale := func(v int) int {
		return nutrition.Round(float64(v) * float64(s.Percent) / 100)
	}
	return domain.MealTarget{
		Share:    s.Fraction(),
		Calories: scale(plan.TargetCalories),
		Protein:  scale(plan.Macros.Protein),
		Carbs:    scale(plan.Macros.Carbs),
		Fat:      scale(plan.Macros.Fat),
	}
}

// Targets returns the intended allocation for every required slot, in
// Distribution order.
func Targets(plan domain.NutritionPlan) []domain.MealTarget {
	out := make([]domain.MealTarget, len(Distribution))
	for i, s := range Distribution {
		out[i] = Target(plan, s)
	}
	return out
}

// Package nutrition turns biometric inputs into daily caloric,
// macronutrient and micronutrient targets.
//
// Every function here is pure. Intermediate values stay unrounded; the
// only rounding happens when ComputePlan assembles the NutritionPlan (and
// inside ComputeMacros, whose contract is whole grams).
//
// The Compute* functions accept any input, including values outside the
// plausible human ranges. Callers that take untrusted input should run
// Validate first.
package nutrition

import (
	"math"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

// Atwater energy factors, kcal per gram.
const (
	KcalPerGramProtein = 4
	KcalPerGramCarbs   = 4
	KcalPerGramFat     = 9
)

// Goal adjustments in kcal/day.
const (
	LoseDeficit  = 500
	GainSurplus  = 300
	FatShare     = 0.25
	defaultRatio = 1.2
)

var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

// ActivityMultiplier returns the TDEE multiplier for level. Unknown levels
// fall back to the sedentary multiplier.
func ActivityMultiplier(level domain.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultRatio
}

// ProteinPerKg returns grams of protein per kilogram of body weight for
// goal. Anything other than lose or maintain uses the gain ratio.
func ProteinPerKg(goal domain.Goal) float64 {
	switch goal {
	case domain.GoalLose:
		return 2.2
	case domain.GoalMaintain:
		return 1.8
	default:
		return 2.0
	}
}

// ComputeBMR returns the Mifflin–St Jeor basal metabolic rate in kcal/day.
// Any sex other than male uses the female offset.
func ComputeBMR(weightKg, heightCm float64, age int, sex domain.Sex) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == domain.SexMale {
		return base + 5
	}
	return base - 161
}

// ComputeTDEE scales bmr by the activity multiplier.
func ComputeTDEE(bmr float64, level domain.ActivityLevel) float64 {
	return bmr * ActivityMultiplier(level)
}

// ComputeTargetCalories applies the goal adjustment. No floor is applied.
func ComputeTargetCalories(tdee float64, goal domain.Goal) float64 {
	switch goal {
	case domain.GoalLose:
		return tdee - LoseDeficit
	case domain.GoalGain:
		return tdee + GainSurplus
	default:
		return tdee
	}
}

// ComputeMacros splits targetCalories into whole grams of protein, carbs
// and fat. Protein is fixed per kilogram, fat takes FatShare of the
// calories and carbs take the remainder.
//
// When protein and fat already exceed the target, carbs are clamped to
// zero and fat shrinks to whatever calories protein leaves (never below
// zero). feasible is false in that case.
func ComputeMacros(targetCalories, weightKg float64, goal domain.Goal) (m domain.Macros, feasible bool) {
	protein := weightKg * ProteinPerKg(goal)
	proteinCalories := protein * KcalPerGramProtein
	fatCalories := targetCalories * FatShare
	carbCalories := targetCalories - proteinCalories - fatCalories

	feasible = true
	if carbCalories < 0 {
		feasible = false
		carbCalories = 0
		fatCalories = math.Max(targetCalories-proteinCalories, 0)
	}

	return domain.Macros{
		Protein: Round(protein),
		Carbs:   Round(carbCalories / KcalPerGramCarbs),
		Fat:     Round(fatCalories / KcalPerGramFat),
	}, feasible
}

// ComputeMicronutrients returns the reference micronutrient targets.
// Fiber scales with weight rather than calories.
func ComputeMicronutrients(weightKg float64, age int) domain.Micronutrients {
	m := domain.Micronutrients{
		Fiber:     Round(14 * (weightKg * 0.035)),
		VitaminC:  90,
		VitaminB:  2.4,
		VitaminD:  600,
		Magnesium: Round(weightKg * 5),
		Omega3:    1.6,
	}
	if age >= 50 {
		m.VitaminC = 100
	}
	if age >= 70 {
		m.VitaminD = 800
	}
	return m
}

// ComputePlan runs the full pipeline for u.
func ComputePlan(u domain.UserData) domain.NutritionPlan {
	bmr := ComputeBMR(u.WeightKg, u.HeightCm, u.Age, u.Sex)
	tdee := ComputeTDEE(bmr, u.ActivityLevel)
	target := ComputeTargetCalories(tdee, u.Goal)
	macros, feasible := ComputeMacros(target, u.WeightKg, u.Goal)

	plan := domain.NutritionPlan{
		BMR:            Round(bmr),
		TDEE:           Round(tdee),
		TargetCalories: Round(target),
		Macros:         macros,
		Micronutrients: ComputeMicronutrients(u.WeightKg, u.Age),
	}
	if !feasible {
		plan.Warnings = append(plan.Warnings, domain.ErrMacroSplitInfeasible.Error()+
			": protein and fat exceed the calorie target, carbs clamped to zero")
	}
	return plan
}

// Round rounds half up, so 0.5 becomes 1 and -0.5 becomes 0.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

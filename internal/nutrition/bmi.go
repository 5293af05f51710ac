package nutrition

import "github.com/hammamikhairi/nutriplan/internal/domain"

// BMI thresholds used to resolve the "let the app decide" goal.
const (
	BMIUnderweight = 18.5
	BMIOverweight  = 25.0
)

// BMI returns body-mass index for height in centimetres and weight in
// kilograms. Non-positive height yields 0.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := heightCm / 100
	return weightKg / (h * h)
}

// ResolveGoal replaces domain.GoalAuto with a concrete goal picked from
// BMI: underweight gains, overweight loses, everyone else maintains.
// Concrete goals pass through unchanged.
func ResolveGoal(goal domain.Goal, weightKg, heightCm float64) domain.Goal {
	if goal != domain.GoalAuto {
		return goal
	}
	switch bmi := BMI(weightKg, heightCm); {
	case bmi < BMIUnderweight:
		return domain.GoalGain
	case bmi >= BMIOverweight:
		return domain.GoalLose
	default:
		return domain.GoalMaintain
	}
}

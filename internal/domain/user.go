// Package domain defines the core types and interfaces for NutriPlan.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"strings"
)

// Sex selects the Mifflin–St Jeor offset.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex converts a wire string into a Sex.
func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	}
	return "", fmt.Errorf("%w: unknown sex %q", ErrInvalidInput, s)
}

// ActivityLevel selects the energy-expenditure multiplier.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// ActivityLevels lists every level from least to most active.
var ActivityLevels = []ActivityLevel{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityActive,
	ActivityVeryActive,
}

// ParseActivityLevel converts a wire string into an ActivityLevel.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	v := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range ActivityLevels {
		if v == l {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown activity level %q", ErrInvalidInput, s)
}

// Goal selects the caloric adjustment and protein ratio.
type Goal string

const (
	GoalLose     Goal = "lose"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
	// GoalAuto is only valid as a quiz answer; the planner resolves it to
	// one of the three concrete goals before computing anything.
	GoalAuto Goal = "auto"
)

// ParseGoal converts a wire string into a Goal. "auto" is accepted.
func ParseGoal(s string) (Goal, error) {
	switch g := Goal(strings.ToLower(strings.TrimSpace(s))); g {
	case GoalLose, GoalMaintain, GoalGain, GoalAuto:
		return g, nil
	}
	return "", fmt.Errorf("%w: unknown goal %q", ErrInvalidInput, s)
}

// UserData is the biometric input to the calculator.
type UserData struct {
	HeightCm      float64       `json:"height" validate:"gte=100,lte=250"`
	WeightKg      float64       `json:"weight" validate:"gte=30,lte=300"`
	Age           int           `json:"age" validate:"gte=10,lte=120"`
	Sex           Sex           `json:"gender" validate:"oneof=male female"`
	ActivityLevel ActivityLevel `json:"activityLevel" validate:"oneof=sedentary light moderate active very_active"`
	Goal          Goal          `json:"goal" validate:"oneof=lose maintain gain"`
}

// Plausible biometric ranges accepted at the boundary. The validate tags
// on UserData carry the same bounds.
const (
	MinHeightCm = 100
	MaxHeightCm = 250
	MinWeightKg = 30
	MaxWeightKg = 300
	MinAge      = 10
	MaxAge      = 120
)

package conversation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

const (
	kgPerPound  = 0.45359237
	cmPerInch   = 2.54
	cmPerMetre  = 100
	maxMetreCut = 3 // heights below this are read as metres
)

// Question returns the prompt for one quiz step.
func Question(step domain.QuizStep) string {
	switch step {
	case domain.QuizWeight:
		return "What is your current weight? (kg, or add \"lb\")"
	case domain.QuizHeight:
		return "How tall are you? (cm, metres, or add \"in\")"
	case domain.QuizAge:
		return "How old are you?"
	case domain.QuizSex:
		return "What is your sex? (male / female)"
	case domain.QuizGoal:
		return "What is your goal?"
	case domain.QuizActivity:
		return "How active are you?"
	default:
		return ""
	}
}

type option struct {
	label   string
	aliases []string
}

var goalOptions = []struct {
	option
	goal domain.Goal
}{
	{option{"Lose weight", []string{"lose", "lose weight", "cut", "slim down"}}, domain.GoalLose},
	{option{"Maintain weight", []string{"maintain", "maintain weight", "keep", "stay"}}, domain.GoalMaintain},
	{option{"Gain muscle", []string{"gain", "gain muscle", "bulk", "build muscle"}}, domain.GoalGain},
	{option{"Not sure yet (let the app decide)", []string{"auto", "not sure", "dont know", "don't know", "decide", "you decide"}}, domain.GoalAuto},
}

// Activity labels follow the quiz wording: "Very active" is the active
// multiplier and "Athlete" is very_active.
var activityOptions = []struct {
	option
	level domain.ActivityLevel
}{
	{option{"Sedentary", []string{"sedentary", "none", "desk"}}, domain.ActivitySedentary},
	{option{"Lightly active", []string{"light", "lightly active", "lightly"}}, domain.ActivityLight},
	{option{"Moderately active", []string{"moderate", "moderately active", "moderately"}}, domain.ActivityModerate},
	{option{"Very active", []string{"active", "very active"}}, domain.ActivityActive},
	{option{"Athlete", []string{"very_active", "athlete", "pro"}}, domain.ActivityVeryActive},
}

// Options returns the numbered choices for a multiple-choice step, or nil
// for free-form steps.
func Options(step domain.QuizStep) []string {
	var out []string
	switch step {
	case domain.QuizGoal:
		for _, o := range goalOptions {
			out = append(out, o.label)
		}
	case domain.QuizActivity:
		for _, o := range activityOptions {
			out = append(out, o.label)
		}
	case domain.QuizSex:
		out = []string{"Male", "Female"}
	}
	return out
}

// Apply parses raw as the answer to step and stores it in a. Answers
// outside the plausible ranges are rejected with domain.ErrInvalidInput
// and a is left unchanged.
func Apply(a *domain.QuizAnswers, step domain.QuizStep, raw string) error {
	raw = strings.TrimSpace(raw)
	switch step {
	case domain.QuizWeight:
		kg, err := ParseWeight(raw)
		if err != nil {
			return err
		}
		a.WeightKg = kg
	case domain.QuizHeight:
		cm, err := ParseHeight(raw)
		if err != nil {
			return err
		}
		a.HeightCm = cm
	case domain.QuizAge:
		age, err := ParseAge(raw)
		if err != nil {
			return err
		}
		a.Age = age
	case domain.QuizSex:
		sex, err := parseSexAnswer(raw)
		if err != nil {
			return err
		}
		a.Sex = sex
	case domain.QuizGoal:
		goal, err := ParseGoalAnswer(raw)
		if err != nil {
			return err
		}
		a.Goal = goal
	case domain.QuizActivity:
		level, err := ParseActivityAnswer(raw)
		if err != nil {
			return err
		}
		a.ActivityLevel = level
	default:
		return fmt.Errorf("%w: unknown quiz step %d", domain.ErrInvalidInput, step)
	}
	return nil
}

var quantityRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*([a-zA-Z"']*)$`)

func splitQuantity(raw string) (float64, string, error) {
	m := quantityRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, "", fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, raw)
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, raw)
	}
	return v, strings.ToLower(m[2]), nil
}

// ParseWeight reads a body weight in kilograms; "lb"/"lbs" are converted.
func ParseWeight(raw string) (float64, error) {
	v, unit, err := splitQuantity(raw)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "", "kg", "kgs", "kilo", "kilos":
	case "lb", "lbs", "pound", "pounds":
		v = round1(v * kgPerPound)
	default:
		return 0, fmt.Errorf("%w: unknown weight unit %q", domain.ErrInvalidInput, unit)
	}
	if v < domain.MinWeightKg || v > domain.MaxWeightKg {
		return 0, fmt.Errorf("%w: weight must be between %d and %d kg", domain.ErrInvalidInput, domain.MinWeightKg, domain.MaxWeightKg)
	}
	return v, nil
}

// ParseHeight reads a height in centimetres. Bare values below 3 are
// taken as metres; "in" converts from inches.
func ParseHeight(raw string) (float64, error) {
	v, unit, err := splitQuantity(raw)
	if err != nil {
		return 0, err
	}
	switch unit {
	case "":
		if v < maxMetreCut {
			v *= cmPerMetre
		}
	case "cm":
	case "m":
		v *= cmPerMetre
	case "in", "inch", "inches", `"`:
		v = round1(v * cmPerInch)
	default:
		return 0, fmt.Errorf("%w: unknown height unit %q", domain.ErrInvalidInput, unit)
	}
	v = round1(v)
	if v < domain.MinHeightCm || v > domain.MaxHeightCm {
		return 0, fmt.Errorf("%w: height must be between %d and %d cm", domain.ErrInvalidInput, domain.MinHeightCm, domain.MaxHeightCm)
	}
	return v, nil
}

// ParseAge reads a whole number of years.
func ParseAge(raw string) (int, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(raw)), "years")
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", domain.ErrInvalidInput, raw)
	}
	if age < domain.MinAge || age > domain.MaxAge {
		return 0, fmt.Errorf("%w: age must be between %d and %d", domain.ErrInvalidInput, domain.MinAge, domain.MaxAge)
	}
	return age, nil
}

func parseSexAnswer(raw string) (domain.Sex, error) {
	switch strings.ToLower(raw) {
	case "1", "m", "male", "man":
		return domain.SexMale, nil
	case "2", "f", "female", "woman":
		return domain.SexFemale, nil
	}
	return "", fmt.Errorf("%w: answer male or female", domain.ErrInvalidInput)
}

// ParseGoalAnswer accepts an option number, a wire name or a label.
func ParseGoalAnswer(raw string) (domain.Goal, error) {
	idx, err := matchOption(raw, len(goalOptions), func(i int) option { return goalOptions[i].option })
	if err != nil {
		return "", err
	}
	return goalOptions[idx].goal, nil
}

// ParseActivityAnswer accepts an option number, a wire name or a label.
func ParseActivityAnswer(raw string) (domain.ActivityLevel, error) {
	idx, err := matchOption(raw, len(activityOptions), func(i int) option { return activityOptions[i].option })
	if err != nil {
		return "", err
	}
	return activityOptions[idx].level, nil
}

func matchOption(raw string, n int, at func(int) option) (int, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if i, err := strconv.Atoi(key); err == nil {
		if i >= 1 && i <= n {
			return i - 1, nil
		}
		return 0, fmt.Errorf("%w: pick a number from 1 to %d", domain.ErrInvalidInput, n)
	}
	for i := 0; i < n; i++ {
		o := at(i)
		if key == strings.ToLower(o.label) {
			return i, nil
		}
		for _, a := range o.aliases {
			if key == a {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q is not one of the options", domain.ErrInvalidInput, raw)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

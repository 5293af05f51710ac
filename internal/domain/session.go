package domain

import "time"

// Session is one user's lightweight state: quiz answers, the paid flag
// and the latest diet plan. Created on first visit, cleared on reset.
type Session struct {
	ID        string         `json:"id"`
	Quiz      QuizAnswers    `json:"quiz"`
	Paid      bool           `json:"paid"`
	PaidAt    time.Time      `json:"paidAt,omitempty"`
	Plan      *NutritionPlan `json:"plan,omitempty"`
	DietPlan  *DietPlan      `json:"dietPlan,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Clear drops every answer, the paid flag and any computed plan.
func (s *Session) Clear() {
	s.Quiz = QuizAnswers{}
	s.Paid = false
	s.PaidAt = time.Time{}
	s.Plan = nil
	s.DietPlan = nil
}

// QuizStep is one question of the onboarding quiz.
type QuizStep int

const (
	QuizWeight QuizStep = iota
	QuizHeight
	QuizAge
	QuizSex
	QuizGoal
	QuizActivity
)

// QuizSteps lists the questions in the order they are asked.
var QuizSteps = []QuizStep{QuizWeight, QuizHeight, QuizAge, QuizSex, QuizGoal, QuizActivity}

// String returns the wire name of the step.
func (q QuizStep) String() string {
	switch q {
	case QuizWeight:
		return "weight"
	case QuizHeight:
		return "height"
	case QuizAge:
		return "age"
	case QuizSex:
		return "sex"
	case QuizGoal:
		return "goal"
	case QuizActivity:
		return "activity"
	default:
		return "unknown"
	}
}

// QuizStepFromString maps a wire name back to a step.
func QuizStepFromString(s string) (QuizStep, bool) {
	for _, q := range QuizSteps {
		if q.String() == s {
			return q, true
		}
	}
	return 0, false
}

// QuizAnswers holds the parsed answers. Zero values mean "unanswered".
type QuizAnswers struct {
	WeightKg      float64       `json:"weight,omitempty"`
	HeightCm      float64       `json:"height,omitempty"`
	Age           int           `json:"age,omitempty"`
	Sex           Sex           `json:"sex,omitempty"`
	Goal          Goal          `json:"goal,omitempty"`
	ActivityLevel ActivityLevel `json:"activity,omitempty"`
}

// Answered reports whether step has a value.
func (a QuizAnswers) Answered(step QuizStep) bool {
	switch step {
	case QuizWeight:
		return a.WeightKg > 0
	case QuizHeight:
		return a.HeightCm > 0
	case QuizAge:
		return a.Age > 0
	case QuizSex:
		return a.Sex != ""
	case QuizGoal:
		return a.Goal != ""
	case QuizActivity:
		return a.ActivityLevel != ""
	}
	return false
}

// Missing returns the unanswered steps in quiz order.
func (a QuizAnswers) Missing() []QuizStep {
	var out []QuizStep
	for _, q := range QuizSteps {
		if !a.Answered(q) {
			out = append(out, q)
		}
	}
	return out
}

// Complete reports whether every step has been answered.
func (a QuizAnswers) Complete() bool { return len(a.Missing()) == 0 }

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	out := *s
	if s.Plan != nil {
		p := *s.Plan
		p.Warnings = append([]string(nil), s.Plan.Warnings...)
		out.Plan = &p
	}
	if s.DietPlan != nil {
		d := s.DietPlan.Clone()
		out.DietPlan = &d
	}
	return &out
}

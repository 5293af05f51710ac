package nutrition

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError lists every field that failed validation. It wraps
// domain.ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Reason
	}
	return "invalid user data: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// validate reports fields by their JSON names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// reasons maps a JSON field name to its user-facing rule.
var reasons = map[string]string{
	"height":        fmt.Sprintf("must be between %d and %d cm", domain.MinHeightCm, domain.MaxHeightCm),
	"weight":        fmt.Sprintf("must be between %d and %d kg", domain.MinWeightKg, domain.MaxWeightKg),
	"age":           fmt.Sprintf("must be between %d and %d", domain.MinAge, domain.MaxAge),
	"gender":        "must be male or female",
	"activityLevel": "must be one of sedentary, light, moderate, active, very_active",
	"goal":          "must be lose, maintain or gain",
}

// Validate checks u against the plausible human ranges and the enum
// domains declared on domain.UserData. Goal must be concrete; resolve
// "auto" with ResolveGoal first.
func Validate(u domain.UserData) error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		reason, ok := reasons[fe.Field()]
		if !ok {
			reason = "failed " + fe.Tag()
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Reason: reason})
	}
	return out
}

// Normalize trims and lower-cases the enum fields so wire values such as
// "Male" or " Moderate" validate.
func Normalize(u domain.UserData) domain.UserData {
	u.Sex = domain.Sex(strings.ToLower(strings.TrimSpace(string(u.Sex))))
	u.ActivityLevel = domain.ActivityLevel(strings.ToLower(strings.TrimSpace(string(u.ActivityLevel))))
	u.Goal = domain.Goal(strings.ToLower(strings.TrimSpace(string(u.Goal))))
	return u
}

package display

import (
	"strings"
	"testing"

	"github.com/hammamikhairi/nutriplan/internal/dietplan"
	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/nutrition"
)

func samplePlans() (domain.NutritionPlan, domain.DietPlan) {
	plan := nutrition.ComputePlan(domain.UserData{
		HeightCm: 170, WeightKg: 70, Age: 30, Sex: domain.SexMale,
		ActivityLevel: domain.ActivityModerate, Goal: domain.GoalMaintain,
	})
	return plan, dietplan.ComputeDietPlan(plan)
}

func TestRenderNutritionPlan(t *testing.T) {
	plan, _ := samplePlans()
	out := RenderNutritionPlan(plan)
	for _, want := range []string{"2507 kcal", "126g", "344g", "70g", "Magnesium", "Omega-3"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	plan.Warnings = []string{"macro split infeasible"}
	if !strings.Contains(RenderNutritionPlan(plan), "macro split infeasible") {
		t.Error("warnings should be rendered")
	}
}

func TestRenderDietPlan(t *testing.T) {
	_, diet := samplePlans()
	out := RenderDietPlan(diet)
	for _, slot := range domain.RequiredSlots {
		if !strings.Contains(out, slot.Title()) {
			t.Errorf("missing meal %s", slot.Title())
		}
	}
	if !strings.Contains(out, "2210 kcal") {
		t.Errorf("missing day total in:\n%s", out)
	}
}

func TestRenderAnalysis(t *testing.T) {
	a := domain.FoodAnalysis{
		Foods: []domain.RecognizedFood{{
			Name: "Grilled chicken", Portion: "1 fillet", EstimatedWeight: "120g",
			Calories: 198.3, Macros: domain.FoodMacros{Protein: 37.2, Fat: 4.3},
			Confidence: domain.ConfidenceMedium, Alternatives: []string{"Turkey breast"},
		}},
		TotalCalories: 198,
		TotalMacros:   domain.Macros{Protein: 37, Fat: 4},
	}
	out := RenderAnalysis(a)
	for _, want := range []string{"Grilled chicken", "(120g)", "198.3", "[medium]", "Turkey breast", "Total: 198 kcal"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderFoodsAndCatalog(t *testing.T) {
	if !strings.Contains(RenderFoods("Alternatives", nil), "(none)") {
		t.Error("empty list should say none")
	}
	foods := []domain.CatalogFood{
		{FoodItem: domain.FoodItem{Name: "Tuna in water", Quantity: "100g", Calories: 120}, Category: domain.CategoryProtein},
		{FoodItem: domain.FoodItem{Name: "Brown rice", Quantity: "4 tablespoons", Calories: 180}, Category: domain.CategoryCarb},
	}
	out := RenderCatalog(foods)
	if !strings.Contains(out, "protein") || !strings.Contains(out, "carb") {
		t.Errorf("categories missing in:\n%s", out)
	}
}

func TestRenderBar(t *testing.T) {
	out := renderBar(Status{QuizAnswered: 2, QuizTotal: 6}, 80)
	if !strings.Contains(out, "2/6") || !strings.Contains(out, "locked") {
		t.Errorf("quiz bar = %q", out)
	}
	out = renderBar(Status{QuizAnswered: 6, QuizTotal: 6, Paid: true, HasPlan: true, PlanCalories: 2210, TargetCalories: 2507}, 80)
	for _, want := range []string{"done", "unlocked", "2210 kcal", "target 2507"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in bar %q", want, out)
		}
	}
}

func TestRenderBanner(t *testing.T) {
	out := renderBanner(120)
	if !strings.Contains(out, Tagline) {
		t.Error("banner should carry the tagline")
	}
	if !strings.HasPrefix(out, " ") {
		t.Error("banner should be centred on a wide terminal")
	}
}

func TestClip(t *testing.T) {
	if got := clip("abcdef", 4); got != "abc…" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("abc", 4); got != "abc" {
		t.Errorf("clip = %q", got)
	}
}

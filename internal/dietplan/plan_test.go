package dietplan

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/foods"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/nutrition"
)

func samplePlan() domain.NutritionPlan {
	return domain.NutritionPlan{
		BMR: 1600, TDEE: 2000, TargetCalories: 2000,
		Macros: domain.Macros{Protein: 150, Carbs: 200, Fat: 67},
	}
}

func assertConsistent(t *testing.T, p domain.DietPlan) {
	t.Helper()
	var daily domain.DailyTotal
	for _, m := range p.Meals {
		var kcal int
		var macros domain.Macros
		for _, f := range m.Foods {
			kcal += f.Calories
			macros.Protein += f.Protein
			macros.Carbs += f.Carbs
			macros.Fat += f.Fat
		}
		if kcal != m.TotalCalories || macros != m.Macros {
			t.Fatalf("%s totals stale: cached %d/%+v, foods %d/%+v", m.Slot, m.TotalCalories, m.Macros, kcal, macros)
		}
		daily.Calories += kcal
		daily.Protein += macros.Protein
		daily.Carbs += macros.Carbs
		daily.Fat += macros.Fat
	}
	if daily != p.DailyTotal {
		t.Fatalf("daily total stale: cached %+v, meals %+v", p.DailyTotal, daily)
	}
}

func TestDistributionSumsToWholeDay(t *testing.T) {
	total := 0
	for _, s := range Distribution {
		total += s.Percent
	}
	if total != 100 {
		t.Fatalf("expected 100%%, got %d%%", total)
	}
	if len(Distribution) != len(domain.RequiredSlots) {
		t.Fatalf("expected %d slots, got %d", len(domain.RequiredSlots), len(Distribution))
	}
	for i, s := range Distribution {
		if s.Slot != domain.RequiredSlots[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, domain.RequiredSlots[i], s.Slot)
		}
	}
}

func TestTargets(t *testing.T) {
	targets := Targets(samplePlan())

	want := []domain.MealTarget{
		{Share: 0.25, Calories: 500, Protein: 38, Carbs: 50, Fat: 17},
		{Share: 0.10, Calories: 200, Protein: 15, Carbs: 20, Fat: 7},
		{Share: 0.30, Calories: 600, Protein: 45, Carbs: 60, Fat: 20},
		{Share: 0.10, Calories: 200, Protein: 15, Carbs: 20, Fat: 7},
		{Share: 0.25, Calories: 500, Protein: 38, Carbs: 50, Fat: 17},
	}
	if !reflect.DeepEqual(targets, want) {
		t.Fatalf("expected %+v, got %+v", want, targets)
	}
}

func TestComputeDietPlanStaticMenus(t *testing.T) {
	plan := ComputeDietPlan(samplePlan())

	if len(plan.Meals) != 5 {
		t.Fatalf("expected 5 meals, got %d", len(plan.Meals))
	}
	if plan.Meal(domain.SlotEveningSnack) != nil {
		t.Fatal("generator must not emit the evening snack")
	}

	wantKcal := map[domain.MealSlot]int{
		domain.SlotBreakfast:      550,
		domain.SlotMorningSnack:   205,
		domain.SlotLunch:          645,
		domain.SlotAfternoonSnack: 240,
		domain.SlotDinner:         570,
	}
	for _, m := range plan.Meals {
		if m.TotalCalories != wantKcal[m.Slot] {
			t.Fatalf("%s: expected %d kcal, got %d", m.Slot, wantKcal[m.Slot], m.TotalCalories)
		}
		if m.Name != m.Slot.Title() {
			t.Fatalf("%s: unexpected name %q", m.Slot, m.Name)
		}
	}

	want := domain.DailyTotal{Calories: 2210, Protein: 180, Carbs: 202, Fat: 77}
	if plan.DailyTotal != want {
		t.Fatalf("expected daily %+v, got %+v", want, plan.DailyTotal)
	}
	assertConsistent(t, plan)
}

func TestStaticMenusAreCopies(t *testing.T) {
	a := ComputeDietPlan(samplePlan())
	a.Meals[0].Foods[0].Calories = 1

	b := ComputeDietPlan(samplePlan())
	if b.Meals[0].Foods[0].Calories == 1 {
		t.Fatal("static menu was mutated through a generated plan")
	}
}

func TestReplaceFood(t *testing.T) {
	orig := ComputeDietPlan(samplePlan())
	snapshot := orig.Clone()

	apple := domain.FoodItem{Name: "Apple", Quantity: "1 medium", Calories: 80, Carbs: 22}
	edited, err := ReplaceFood(orig, domain.SlotMorningSnack, 1, apple)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}

	if !reflect.DeepEqual(orig, snapshot) {
		t.Fatal("input plan was mutated")
	}
	assertConsistent(t, edited)

	snack := edited.Meal(domain.SlotMorningSnack)
	if snack.TotalCalories != 180 {
		t.Fatalf("expected 180 kcal snack, got %d", snack.TotalCalories)
	}
	if edited.DailyTotal.Calories != 2210-105+80 {
		t.Fatalf("expected daily %d, got %d", 2210-105+80, edited.DailyTotal.Calories)
	}

	for i, m := range edited.Meals {
		if m.Slot == domain.SlotMorningSnack {
			continue
		}
		if !reflect.DeepEqual(m, orig.Meals[i]) {
			t.Fatalf("%s changed by an edit to another meal", m.Slot)
		}
	}
}

func TestReplaceFoodRepairsStaleTotals(t *testing.T) {
	stale := ComputeDietPlan(samplePlan())
	lunch := stale.Meal(domain.SlotLunch)
	lunch.Foods = lunch.Foods[:1]

	egg := domain.FoodItem{Name: "Boiled egg", Quantity: "1 large", Calories: 78, Protein: 6, Fat: 5}
	edited, err := ReplaceFood(stale, domain.SlotBreakfast, 0, egg)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	assertConsistent(t, edited)

	if got, want := edited.Meal(domain.SlotLunch).TotalCalories, lunch.Foods[0].Calories; got != want {
		t.Fatalf("expected lunch %d kcal from its one food, got %d", want, got)
	}
}

func TestReplaceFoodErrors(t *testing.T) {
	plan := ComputeDietPlan(samplePlan())
	food := domain.FoodItem{Name: "x"}

	tests := []struct {
		name  string
		slot  domain.MealSlot
		index int
		want  error
	}{
		{"missing slot", domain.SlotEveningSnack, 0, domain.ErrNotFound},
		{"negative index", domain.SlotLunch, -1, domain.ErrInvalidInput},
		{"index past end", domain.SlotLunch, 5, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReplaceFood(plan, tt.slot, tt.index, food)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !reflect.DeepEqual(got, plan) {
				t.Fatal("failed edit must return the plan unchanged")
			}
		})
	}
}

func TestAddAndRemoveFood(t *testing.T) {
	plan := ComputeDietPlan(samplePlan())

	added, err := AddFood(plan, domain.SlotDinner, domain.FoodItem{Name: "Orange", Calories: 60, Protein: 1, Carbs: 15})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	assertConsistent(t, added)
	if got := len(added.Meal(domain.SlotDinner).Foods); got != 5 {
		t.Fatalf("expected 5 dinner foods, got %d", got)
	}

	removed, err := RemoveFood(added, domain.SlotDinner, 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertConsistent(t, removed)
	if removed.Meal(domain.SlotDinner).Foods[0].Name != "Sweet potato" {
		t.Fatalf("unexpected first dinner food %q", removed.Meal(domain.SlotDinner).Foods[0].Name)
	}
	if len(added.Meal(domain.SlotDinner).Foods) != 5 {
		t.Fatal("remove mutated its input")
	}
}

func TestRecompute(t *testing.T) {
	plan := ComputeDietPlan(samplePlan())
	plan.Meals[2].Foods = plan.Meals[2].Foods[:1]
	Recompute(&plan)
	assertConsistent(t, plan)
}

func TestGreedySolverApproachesTargets(t *testing.T) {
	catalog := foods.NewMemoryCatalog(logger.New(logger.LevelOff, nil))
	all, err := catalog.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	plan := Generate(samplePlan(), NewGreedySolver(all))
	assertConsistent(t, plan)

	for _, m := range plan.Meals {
		if len(m.Foods) == 0 {
			t.Fatalf("%s has no foods", m.Slot)
		}
		if len(m.Foods) > maxFoodsPerMeal {
			t.Fatalf("%s has %d foods", m.Slot, len(m.Foods))
		}
		lo := float64(m.Target.Calories) * 0.75
		hi := float64(m.Target.Calories) * 1.25
		if kcal := float64(m.TotalCalories); kcal < lo || kcal > hi {
			t.Fatalf("%s: %v kcal is too far from target %d", m.Slot, kcal, m.Target.Calories)
		}
	}
}

func TestGreedySolverEmptyCatalog(t *testing.T) {
	plan := Generate(samplePlan(), NewGreedySolver(nil))
	assertConsistent(t, plan)
	if plan.DailyTotal.Calories != 0 {
		t.Fatalf("expected empty plan, got %d kcal", plan.DailyTotal.Calories)
	}
}

func TestEndToEndFromUserData(t *testing.T) {
	u := domain.UserData{HeightCm: 170, WeightKg: 70, Age: 30, Sex: domain.SexMale, ActivityLevel: domain.ActivityModerate, Goal: domain.GoalMaintain}
	plan := ComputeDietPlan(nutrition.ComputePlan(u))
	assertConsistent(t, plan)
	if plan.Meals[2].Target.Calories != nutrition.Round(2507*0.3) {
		t.Fatalf("unexpected lunch target %d", plan.Meals[2].Target.Calories)
	}
}

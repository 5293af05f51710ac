package nutrition

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeBMR(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		height float64
		age    int
		sex    domain.Sex
		want   float64
	}{
		{"male", 70, 170, 30, domain.SexMale, 1617.5},
		{"female", 60, 160, 25, domain.SexFemale, 1314},
		{"unknown sex uses female offset", 60, 160, 25, domain.Sex("other"), 1314},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBMR(tt.weight, tt.height, tt.age, tt.sex)
			if !approx(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestComputeTDEEMultipliers(t *testing.T) {
	tests := []struct {
		level domain.ActivityLevel
		want  float64
	}{
		{domain.ActivitySedentary, 1.2},
		{domain.ActivityLight, 1.375},
		{domain.ActivityModerate, 1.55},
		{domain.ActivityActive, 1.725},
		{domain.ActivityVeryActive, 1.9},
		{domain.ActivityLevel("couch"), 1.2},
		{"", 1.2},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := ComputeTDEE(1000, tt.level)
			if !approx(got, 1000*tt.want) {
				t.Fatalf("expected %v, got %v", 1000*tt.want, got)
			}
		})
	}
}

func TestComputeTargetCalories(t *testing.T) {
	const tdee = 2000.5
	tests := []struct {
		goal domain.Goal
		want float64
	}{
		{domain.GoalLose, tdee - 500},
		{domain.GoalGain, tdee + 300},
		{domain.GoalMaintain, tdee},
		{domain.Goal("bulk"), tdee},
	}

	for _, tt := range tests {
		t.Run(string(tt.goal), func(t *testing.T) {
			if got := ComputeTargetCalories(tdee, tt.goal); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestComputeMacros(t *testing.T) {
	tests := []struct {
		name     string
		target   float64
		weight   float64
		goal     domain.Goal
		want     domain.Macros
		feasible bool
	}{
		// 132g protein (528 kcal), 314.2 kcal fat, (1256.8-528-314.2)/4 = 103.65g carbs.
		{"lose", 1256.8, 60, domain.GoalLose, domain.Macros{Protein: 132, Carbs: 104, Fat: 35}, true},
		{"maintain", 2500, 70, domain.GoalMaintain, domain.Macros{Protein: 126, Carbs: 343, Fat: 69}, true},
		{"gain", 3000, 80, domain.GoalGain, domain.Macros{Protein: 160, Carbs: 403, Fat: 83}, true},
		{"unknown goal uses gain ratio", 3000, 80, domain.Goal("x"), domain.Macros{Protein: 160, Carbs: 403, Fat: 83}, true},
		// 120kg * 2.2 = 264g protein = 1056 kcal; 250 kcal fat would leave negative carbs.
		{"infeasible clamps carbs", 1000, 120, domain.GoalLose, domain.Macros{Protein: 264, Carbs: 0, Fat: 0}, false},
		// 60kg * 2.2 = 132g = 528 kcal; 175 kcal fat would overshoot 700, so fat gets the 172 left.
		{"infeasible shrinks fat", 700, 60, domain.GoalLose, domain.Macros{Protein: 132, Carbs: 0, Fat: 19}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, feasible := ComputeMacros(tt.target, tt.weight, tt.goal)
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			if feasible != tt.feasible {
				t.Fatalf("expected feasible=%v, got %v", tt.feasible, feasible)
			}
			if got.Carbs < 0 || got.Fat < 0 || got.Protein < 0 {
				t.Fatalf("negative macro in %+v", got)
			}
		})
	}
}

func TestComputeMicronutrients(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		age    int
		want   domain.Micronutrients
	}{
		{"young", 70, 30, domain.Micronutrients{Fiber: 34, VitaminC: 90, VitaminB: 2.4, VitaminD: 600, Magnesium: 350, Omega3: 1.6}},
		{"fifty", 60, 50, domain.Micronutrients{Fiber: 29, VitaminC: 100, VitaminB: 2.4, VitaminD: 600, Magnesium: 300, Omega3: 1.6}},
		{"seventy", 80, 70, domain.Micronutrients{Fiber: 39, VitaminC: 100, VitaminB: 2.4, VitaminD: 800, Magnesium: 400, Omega3: 1.6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeMicronutrients(tt.weight, tt.age); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestComputePlanScenarios(t *testing.T) {
	tests := []struct {
		name string
		user domain.UserData
		want domain.NutritionPlan
	}{
		{
			// BMR 1617.5, TDEE 2507.125.
			name: "male moderate maintain",
			user: domain.UserData{HeightCm: 170, WeightKg: 70, Age: 30, Sex: domain.SexMale, ActivityLevel: domain.ActivityModerate, Goal: domain.GoalMaintain},
			want: domain.NutritionPlan{
				BMR: 1618, TDEE: 2507, TargetCalories: 2507,
				Macros:         domain.Macros{Protein: 126, Carbs: 344, Fat: 70},
				Micronutrients: ComputeMicronutrients(70, 30),
			},
		},
		{
			// BMR 1314, TDEE 1576.8, target 1076.8.
			name: "female sedentary lose",
			user: domain.UserData{HeightCm: 160, WeightKg: 60, Age: 25, Sex: domain.SexFemale, ActivityLevel: domain.ActivitySedentary, Goal: domain.GoalLose},
			want: domain.NutritionPlan{
				BMR: 1314, TDEE: 1577, TargetCalories: 1077,
				Macros:         domain.Macros{Protein: 132, Carbs: 70, Fat: 30},
				Micronutrients: ComputeMicronutrients(60, 25),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePlan(tt.user)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestComputePlanInfeasibleWarns(t *testing.T) {
	u := domain.UserData{HeightCm: 150, WeightKg: 150, Age: 120, Sex: domain.SexFemale, ActivityLevel: domain.ActivitySedentary, Goal: domain.GoalLose}
	plan := ComputePlan(u)
	if plan.Macros.Carbs != 0 {
		t.Fatalf("expected carbs clamped to 0, got %d", plan.Macros.Carbs)
	}
	if len(plan.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", plan.Warnings)
	}
}

func TestTDEENeverBelowBMR(t *testing.T) {
	for _, sex := range []domain.Sex{domain.SexMale, domain.SexFemale} {
		for _, level := range domain.ActivityLevels {
			for w := float64(domain.MinWeightKg); w <= domain.MaxWeightKg; w += 45 {
				for h := float64(domain.MinHeightCm); h <= domain.MaxHeightCm; h += 30 {
					for age := domain.MinAge; age <= domain.MaxAge; age += 22 {
						p := ComputePlan(domain.UserData{HeightCm: h, WeightKg: w, Age: age, Sex: sex, ActivityLevel: level, Goal: domain.GoalMaintain})
						if p.TDEE < p.BMR {
							t.Fatalf("tdee %d < bmr %d for w=%v h=%v age=%d %s %s", p.TDEE, p.BMR, w, h, age, sex, level)
						}
					}
				}
			}
		}
	}
}

func TestComputePlanIdempotent(t *testing.T) {
	u := domain.UserData{HeightCm: 182.5, WeightKg: 91.3, Age: 44, Sex: domain.SexMale, ActivityLevel: domain.ActivityActive, Goal: domain.GoalGain}
	a := ComputePlan(u)
	b := ComputePlan(u)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("plans differ: %+v vs %+v", a, b)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0.5, 1}, {1.49, 1}, {103.65, 104}, {-0.5, 0}, {-1.5, -1}, {2584.625, 2585},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Fatalf("Round(%v): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := domain.UserData{HeightCm: 170, WeightKg: 70, Age: 30, Sex: domain.SexMale, ActivityLevel: domain.ActivityModerate, Goal: domain.GoalMaintain}

	tests := []struct {
		name   string
		mutate func(u *domain.UserData)
		fields []string
	}{
		{"valid", func(u *domain.UserData) {}, nil},
		{"short", func(u *domain.UserData) { u.HeightCm = 99 }, []string{"height"}},
		{"heavy", func(u *domain.UserData) { u.WeightKg = 301 }, []string{"weight"}},
		{"nan weight", func(u *domain.UserData) { u.WeightKg = math.NaN() }, []string{"weight"}},
		{"infinite height", func(u *domain.UserData) { u.HeightCm = math.Inf(1) }, []string{"height"}},
		{"young", func(u *domain.UserData) { u.Age = 9 }, []string{"age"}},
		{"old", func(u *domain.UserData) { u.Age = 121 }, []string{"age"}},
		{"bounds inclusive", func(u *domain.UserData) { u.HeightCm, u.WeightKg, u.Age = 250, 30, 10 }, nil},
		{"capitalised sex", func(u *domain.UserData) { u.Sex = "Male" }, []string{"gender"}},
		{"unknown activity", func(u *domain.UserData) { u.ActivityLevel = "couch" }, []string{"activityLevel"}},
		{"auto goal", func(u *domain.UserData) { u.Goal = domain.GoalAuto }, []string{"goal"}},
		{"everything", func(u *domain.UserData) { *u = domain.UserData{} }, []string{"height", "weight", "age", "gender", "activityLevel", "goal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			err := Validate(u)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if len(verr.Fields) != len(tt.fields) {
				t.Fatalf("expected fields %v, got %+v", tt.fields, verr.Fields)
			}
			for i, f := range tt.fields {
				if verr.Fields[i].Field != f {
					t.Fatalf("field %d: expected %s, got %s", i, f, verr.Fields[i].Field)
				}
			}
		})
	}
}

func TestValidateReasons(t *testing.T) {
	err := Validate(domain.UserData{HeightCm: 170, WeightKg: 20, Age: 30, Sex: domain.SexFemale, ActivityLevel: domain.ActivityLight, Goal: domain.GoalLose})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := "weight must be between 30 and 300 kg"
	if got := verr.Error(); got != "invalid user data: "+want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNormalize(t *testing.T) {
	u := Normalize(domain.UserData{HeightCm: 170, WeightKg: 70, Age: 30, Sex: " Male", ActivityLevel: "MODERATE", Goal: "Maintain "})
	if u.Sex != domain.SexMale || u.ActivityLevel != domain.ActivityModerate || u.Goal != domain.GoalMaintain {
		t.Fatalf("unexpected normalized enums: %+v", u)
	}
	if err := Validate(u); err != nil {
		t.Fatalf("normalized data should validate: %v", err)
	}
}

func TestResolveGoal(t *testing.T) {
	tests := []struct {
		name   string
		goal   domain.Goal
		weight float64
		height float64
		want   domain.Goal
	}{
		{"concrete passes through", domain.GoalGain, 120, 170, domain.GoalGain},
		{"underweight gains", domain.GoalAuto, 50, 180, domain.GoalGain},
		{"normal maintains", domain.GoalAuto, 70, 175, domain.GoalMaintain},
		{"overweight loses", domain.GoalAuto, 90, 170, domain.GoalLose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveGoal(tt.goal, tt.weight, tt.height); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

package domain

// Macros holds macronutrient amounts in grams.
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// Micronutrients holds the daily reference intakes.
type Micronutrients struct {
	Fiber     int     `json:"fiber"`     // g
	VitaminC  int     `json:"vitaminC"`  // mg
	VitaminB  float64 `json:"vitaminB"`  // mcg (B12)
	VitaminD  int     `json:"vitaminD"`  // IU
	Magnesium int     `json:"magnesium"` // mg
	Omega3    float64 `json:"omega3"`    // g
}

// NutritionPlan is the aggregate daily target derived from UserData.
type NutritionPlan struct {
	BMR            int            `json:"bmr"`
	TDEE           int            `json:"tdee"`
	TargetCalories int            `json:"targetCalories"`
	Macros         Macros         `json:"macros"`
	Micronutrients Micronutrients `json:"micronutrients"`
	Warnings       []string       `json:"warnings,omitempty"`
}

// FoodItem is an atomic nutritional record. Treat it as immutable.
type FoodItem struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fat      int    `json:"fat"`
}

// MealSlot identifies a meal within the day.
type MealSlot string

const (
	SlotBreakfast      MealSlot = "breakfast"
	SlotMorningSnack   MealSlot = "morning_snack"
	SlotLunch          MealSlot = "lunch"
	SlotAfternoonSnack MealSlot = "afternoon_snack"
	SlotDinner         MealSlot = "dinner"
	// SlotEveningSnack is reserved; the generator never emits it.
	SlotEveningSnack MealSlot = "evening_snack"
)

// RequiredSlots lists the five slots every generated plan carries, in
// chronological order.
var RequiredSlots = []MealSlot{
	SlotBreakfast,
	SlotMorningSnack,
	SlotLunch,
	SlotAfternoonSnack,
	SlotDinner,
}

// Title returns the display name of the slot.
func (s MealSlot) Title() string {
	switch s {
	case SlotBreakfast:
		return "Breakfast"
	case SlotMorningSnack:
		return "Morning Snack"
	case SlotLunch:
		return "Lunch"
	case SlotAfternoonSnack:
		return "Afternoon Snack"
	case SlotDinner:
		return "Dinner"
	case SlotEveningSnack:
		return "Evening Snack"
	default:
		return string(s)
	}
}

// Valid reports whether s names a known slot.
func (s MealSlot) Valid() bool {
	for _, r := range RequiredSlots {
		if s == r {
			return true
		}
	}
	return s == SlotEveningSnack
}

// MealTarget is the percentage-based intended allocation for one meal.
type MealTarget struct {
	Share    float64 `json:"share"`
	Calories int     `json:"calories"`
	Protein  int     `json:"protein"`
	Carbs    int     `json:"carbs"`
	Fat      int     `json:"fat"`
}

// Meal is a named allocation with concrete foods. TotalCalories and
// Macros always equal the sums over Foods.
type Meal struct {
	Slot          MealSlot   `json:"slot"`
	Name          string     `json:"name"`
	Foods         []FoodItem `json:"foods"`
	TotalCalories int        `json:"totalCalories"`
	Macros        Macros     `json:"macros"`
	Target        MealTarget `json:"target"`
}

// DailyTotal aggregates every meal of a DietPlan.
type DailyTotal struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
}

// DietPlan is a full day of meals. DailyTotal always equals the sum over
// Meals.
type DietPlan struct {
	Meals      []Meal     `json:"meals"`
	DailyTotal DailyTotal `json:"dailyTotal"`
}

// Meal returns the meal for slot, or nil.
func (p *DietPlan) Meal(slot MealSlot) *Meal {
	for i := range p.Meals {
		if p.Meals[i].Slot == slot {
			return &p.Meals[i]
		}
	}
	return nil
}

// Clone returns a deep copy so edits never alias the original.
func (p DietPlan) Clone() DietPlan {
	out := DietPlan{
		Meals:      make([]Meal, len(p.Meals)),
		DailyTotal: p.DailyTotal,
	}
	for i, m := range p.Meals {
		m.Foods = append([]FoodItem(nil), m.Foods...)
		out.Meals[i] = m
	}
	return out
}

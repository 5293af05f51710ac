package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/nutriplan/internal/domain"
)

var (
	tableHeadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)

	numStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))
)

// RenderNutritionPlan renders the daily targets and micronutrients.
func RenderNutritionPlan(p domain.NutritionPlan) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Daily targets") + "\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		labelStyle.Render("BMR"), numStyle.Render(fmt.Sprintf("%d kcal", p.BMR)),
		labelStyle.Render("TDEE"), numStyle.Render(fmt.Sprintf("%d kcal", p.TDEE)))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Calories"), numStyle.Render(fmt.Sprintf("%d kcal", p.TargetCalories)))
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		labelStyle.Render("Protein"), numStyle.Render(fmt.Sprintf("%dg", p.Macros.Protein)),
		labelStyle.Render("Carbs"), numStyle.Render(fmt.Sprintf("%dg", p.Macros.Carbs)),
		labelStyle.Render("Fat"), numStyle.Render(fmt.Sprintf("%dg", p.Macros.Fat)))

	m := p.Micronutrients
	b.WriteString("\n" + headerStyle.Render("Micronutrients") + "\n")
	fmt.Fprintf(&b, "%s %dg   %s %dmg   %s %smcg\n",
		labelStyle.Render("Fiber"), m.Fiber,
		labelStyle.Render("Vitamin C"), m.VitaminC,
		labelStyle.Render("Vitamin B12"), trimFloat(m.VitaminB))
	fmt.Fprintf(&b, "%s %dIU   %s %dmg   %s %sg\n",
		labelStyle.Render("Vitamin D"), m.VitaminD,
		labelStyle.Render("Magnesium"), m.Magnesium,
		labelStyle.Render("Omega-3"), trimFloat(m.Omega3))

	for _, w := range p.Warnings {
		b.WriteString(urgentOutputStyle.Render("! "+w) + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderMeal renders one meal with its foods, totals and target.
func RenderMeal(m domain.Meal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render(m.Name),
		secondaryStyle.Render(fmt.Sprintf("(target %d kcal, %.0f%% of the day)", m.Target.Calories, m.Target.Share*100)))
	b.WriteString(tableHeadStyle.Render(fmt.Sprintf("  %-3s %-26s %-18s %6s %5s %5s %5s", "#", "Food", "Quantity", "kcal", "P", "C", "F")) + "\n")
	for i, f := range m.Foods {
		b.WriteString(primaryStyle.Render(fmt.Sprintf("  %-3d %-26s %-18s %6d %5d %5d %5d",
			i+1, clip(f.Name, 26), clip(f.Quantity, 18), f.Calories, f.Protein, f.Carbs, f.Fat)) + "\n")
	}
	b.WriteString(okStyle.Render(fmt.Sprintf("  %-3s %-26s %-18s %6d %5d %5d %5d",
		"", "Total", "", m.TotalCalories, m.Macros.Protein, m.Macros.Carbs, m.Macros.Fat)))
	return b.String()
}

// RenderDietPlan renders every meal followed by the daily total.
func RenderDietPlan(p domain.DietPlan) string {
	var b strings.Builder
	for _, m := range p.Meals {
		b.WriteString(RenderMeal(m))
		b.WriteString("\n\n")
	}
	d := p.DailyTotal
	b.WriteString(boxStyle.Render(fmt.Sprintf("%s %s   %s %s  %s %s  %s %s",
		labelStyle.Render("Day total"), numStyle.Render(fmt.Sprintf("%d kcal", d.Calories)),
		labelStyle.Render("P"), numStyle.Render(fmt.Sprintf("%dg", d.Protein)),
		labelStyle.Render("C"), numStyle.Render(fmt.Sprintf("%dg", d.Carbs)),
		labelStyle.Render("F"), numStyle.Render(fmt.Sprintf("%dg", d.Fat)))))
	return b.String()
}

// RenderFoods renders a numbered list of foods.
func RenderFoods(title string, foods []domain.FoodItem) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title) + "\n")
	if len(foods) == 0 {
		b.WriteString(secondaryStyle.Render("  (none)"))
		return b.String()
	}
	for i, f := range foods {
		b.WriteString(primaryStyle.Render(fmt.Sprintf("  %2d. %-26s %-18s %5d kcal  P%d C%d F%d",
			i+1, clip(f.Name, 26), clip(f.Quantity, 18), f.Calories, f.Protein, f.Carbs, f.Fat)))
		if i < len(foods)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderCatalog renders catalog foods grouped under their category.
func RenderCatalog(foods []domain.CatalogFood) string {
	if len(foods) == 0 {
		return secondaryStyle.Render("  no matching foods")
	}
	var b strings.Builder
	var current domain.FoodCategory
	for i, f := range foods {
		if i == 0 || f.Category != current {
			current = f.Category
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(headerStyle.Render(string(current)) + "\n")
		}
		b.WriteString(primaryStyle.Render(fmt.Sprintf("  %-26s %-18s %5d kcal",
			clip(f.Name, 26), clip(f.Quantity, 18), f.Calories)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderAnalysis renders the foods recognised in a photo.
func RenderAnalysis(a domain.FoodAnalysis) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Identified %d food(s)", len(a.Foods))) + "\n")
	for _, f := range a.Foods {
		conf := okStyle
		switch f.Confidence {
		case domain.ConfidenceMedium:
			conf = warnStyle
		case domain.ConfidenceLow:
			conf = urgentOutputStyle
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			primaryStyle.Render(f.Name),
			secondaryStyle.Render(strings.TrimSpace(f.Portion+" "+paren(f.EstimatedWeight))),
			conf.Render("["+string(f.Confidence)+"]"))
		fmt.Fprintf(&b, "    %s kcal  P%sg C%sg F%sg\n",
			numStyle.Render(trimFloat(f.Calories)),
			trimFloat(f.Macros.Protein), trimFloat(f.Macros.Carbs), trimFloat(f.Macros.Fat))
		if len(f.Alternatives) > 0 {
			b.WriteString(secondaryStyle.Render("    could also be: "+strings.Join(f.Alternatives, ", ")) + "\n")
		}
	}
	b.WriteString(okStyle.Render(fmt.Sprintf("Total: %d kcal  P%dg C%dg F%dg",
		a.TotalCalories, a.TotalMacros.Protein, a.TotalMacros.Carbs, a.TotalMacros.Fat)))
	return b.String()
}

// ── Helpers ──────────────────────────────────────────────────────

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func paren(s string) string {
	if s == "" {
		return ""
	}
	return "(" + s + ")"
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}

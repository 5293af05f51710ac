package main

// lines.go centralises every user-facing sentence of the REPL. Keep lines
// short and direct.

import (
	"fmt"
	"strings"
)

// ── Greeting / Global ────────────────────────────────────────────

func lineWelcome() string {
	return "Hi. Six quick questions and you'll have your nutrition plan."
}

func lineBye() string {
	return "Bye. Eat well."
}

func lineUnknown(input string) string {
	return fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", input)
}

// ── Quiz ─────────────────────────────────────────────────────────

func lineQuizProgress(answered, total int) string {
	return fmt.Sprintf("Question %d of %d", answered+1, total)
}

func lineQuizDone() string {
	return "That's everything I need."
}

func lineQuizNotDone(missing []string) string {
	return "Finish the quiz first. Still missing: " + strings.Join(missing, ", ") + "."
}

// ── Payment ──────────────────────────────────────────────────────

func linePaymentGate() string {
	return "Your plan is ready to unlock. Type 'pay' to check out."
}

func lineCheckout(url string) string {
	if url == "" {
		return "Opening checkout..."
	}
	return "Checkout: " + url
}

func linePaid() string {
	return "Payment confirmed. Here is your plan."
}

func lineAlreadyPaid() string {
	return "Already unlocked."
}

// ── Plan edits ───────────────────────────────────────────────────

func lineSwapped(slot, oldName, newName string, dayKcal int) string {
	return fmt.Sprintf("%s: swapped %s for %s. Day total is now %d kcal.", slot, oldName, newName, dayKcal)
}

func lineSwapUsage() string {
	return "Usage: swap <meal> <item #> <food name | alternative #>. Example: swap lunch 2 3"
}

func lineMealUsage() string {
	return "Usage: meal <breakfast | morning | lunch | afternoon | dinner>"
}

func lineNoPlanYet() string {
	return "No plan yet. Type 'plan' once you're unlocked."
}

// ── Vision ───────────────────────────────────────────────────────

func lineAIDisabled() string {
	return "Photo analysis is off. Set OPENAI_API_KEY to enable it."
}

func lineAnalyzing() string {
	return "Looking at your plate..."
}

func lineAnalyzeUsage() string {
	return "Usage: analyze <path to photo>"
}

// ── Session ──────────────────────────────────────────────────────

func lineReset() string {
	return "Starting over. Your answers and plan were cleared."
}

func lineStatus(answered, total int, paid bool, dayKcal, targetKcal int) string {
	state := "locked"
	if paid {
		state = "unlocked"
	}
	s := fmt.Sprintf("Quiz %d/%d, plan %s", answered, total, state)
	if dayKcal > 0 {
		s += fmt.Sprintf(", menu %d kcal against a %d kcal target", dayKcal, targetKcal)
	}
	return s + "."
}

func helpText() []string {
	return []string{
		"plan                      show your targets and full menu",
		"targets                   show calorie, macro and micronutrient targets",
		"meal <meal>               show one meal",
		"alternatives <meal>       list swap suggestions for a meal",
		"swap <meal> <#> <food>    replace an item (food name or alternative #)",
		"foods [query]             browse or search the food catalog",
		"analyze <photo>           estimate the calories on a plate",
		"pay                       unlock your plan",
		"status                    quiz and payment status",
		"reset                     clear everything and start over",
		"quit                      exit",
	}
}

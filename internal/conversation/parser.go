// Package conversation provides command parsing, quiz answer parsing and
// user notification for the interactive front end.
package conversation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches the first word of user input against command
// keywords. Everything after the keyword becomes the intent's arguments.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(plan|diet|meals|menu)$`), domain.IntentShowPlan},
		{regexp.MustCompile(`(?i)^(targets|macros|summary|goals)$`), domain.IntentShowTargets},
		{regexp.MustCompile(`(?i)^(meal|show)$`), domain.IntentShowMeal},
		{regexp.MustCompile(`(?i)^(swap|replace|change|sub)$`), domain.IntentSwapFood},
		{regexp.MustCompile(`(?i)^(alternatives|alts|options)$`), domain.IntentAlternatives},
		{regexp.MustCompile(`(?i)^(analyze|analyse|scan|photo)$`), domain.IntentAnalyzeImage},
		{regexp.MustCompile(`(?i)^(foods|search|find)$`), domain.IntentSearchFoods},
		{regexp.MustCompile(`(?i)^(pay|unlock|checkout)$`), domain.IntentPay},
		{regexp.MustCompile(`(?i)^(reset|restart|logout)$`), domain.IntentReset},
		{regexp.MustCompile(`(?i)^(status|info|where)$`), domain.IntentStatus},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.IntentHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.IntentQuit},
	}
	return p
}

// Parse converts user input into an intent. Unrecognised input yields
// IntentUnknown with the whole input as payload.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	keyword, rest, _ := strings.Cut(trimmed, " ")
	rest = strings.TrimSpace(rest)

	for _, rule := range p.patterns {
		if rule.regex.MatchString(keyword) {
			p.log.Debug("matched intent: %s", rule.intent)
			return &domain.Intent{Type: rule.intent, Args: strings.Fields(rest), Payload: rest}, nil
		}
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Payload: trimmed}, nil
}

// slotAliases maps user words to meal slots.
var slotAliases = map[string]domain.MealSlot{
	"breakfast":       domain.SlotBreakfast,
	"morning":         domain.SlotMorningSnack,
	"morning_snack":   domain.SlotMorningSnack,
	"morningsnack":    domain.SlotMorningSnack,
	"lunch":           domain.SlotLunch,
	"afternoon":       domain.SlotAfternoonSnack,
	"afternoon_snack": domain.SlotAfternoonSnack,
	"afternoonsnack":  domain.SlotAfternoonSnack,
	"dinner":          domain.SlotDinner,
	"supper":          domain.SlotDinner,
}

// ParseSlot resolves a meal reference: a slot name, an alias such as
// "morning", or its 1-based position in the day.
func ParseSlot(s string) (domain.MealSlot, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimSuffix(strings.TrimSuffix(key, " snack"), "-snack")
	if slot, ok := slotAliases[key]; ok {
		return slot, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(domain.RequiredSlots) {
		return domain.RequiredSlots[n-1], nil
	}
	return "", fmt.Errorf("%w: unknown meal %q", domain.ErrInvalidInput, s)
}

// ParseIndex parses a 1-based list position and returns it 0-based.
func ParseIndex(s string, size int) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n < 1 || n > size {
		return 0, fmt.Errorf("%w: pick a number from 1 to %d", domain.ErrInvalidInput, size)
	}
	return n - 1, nil
}

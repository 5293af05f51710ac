package domain

// IntentType represents the kind of action the user wants.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentShowPlan
	IntentShowTargets
	IntentShowMeal
	IntentSwapFood
	IntentAlternatives
	IntentAnalyzeImage
	IntentSearchFoods
	IntentPay
	IntentReset
	IntentStatus
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent name.
func (i IntentType) String() string {
	switch i {
	case IntentShowPlan:
		return "show_plan"
	case IntentShowTargets:
		return "show_targets"
	case IntentShowMeal:
		return "show_meal"
	case IntentSwapFood:
		return "swap_food"
	case IntentAlternatives:
		return "alternatives"
	case IntentAnalyzeImage:
		return "analyze_image"
	case IntentSearchFoods:
		return "search_foods"
	case IntentPay:
		return "pay"
	case IntentReset:
		return "reset"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent is a parsed user command. Args carries the whitespace-separated
// arguments that followed the command keyword; Payload is the same text
// unsplit (file paths may contain spaces).
type Intent struct {
	Type    IntentType
	Args    []string
	Payload string
}

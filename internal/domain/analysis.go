package domain

// Confidence is the vision model's certainty about one identification.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Valid reports whether c is one of the three tiers.
func (c Confidence) Valid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// RecognizedFood is one food identified in a photo.
type RecognizedFood struct {
	Name            string     `json:"name"`
	Portion         string     `json:"portion"`
	EstimatedWeight string     `json:"estimatedWeight"`
	Calories        float64    `json:"calories"`
	Macros          FoodMacros `json:"macros"`
	Confidence      Confidence `json:"confidence"`
	Alternatives    []string   `json:"alternatives,omitempty"`
}

// FoodMacros are the model's (fractional) macro estimates.
type FoodMacros struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// FoodAnalysis is the result of analysing one photo.
type FoodAnalysis struct {
	Foods         []RecognizedFood `json:"foods"`
	TotalCalories int              `json:"totalCalories"`
	TotalMacros   Macros           `json:"totalMacros"`
}

package domain

import "context"

// SessionStore persists sessions. Implementations can be in-memory,
// SQLite-backed or Redis-backed.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Session, error)
}

// IntentParser converts raw user input into structured intents.
type IntentParser interface {
	Parse(ctx context.Context, input string) (*Intent, error)
}

// FoodCategory groups catalog foods for substitution.
type FoodCategory string

const (
	CategoryProtein   FoodCategory = "protein"
	CategoryCarb      FoodCategory = "carb"
	CategoryFat       FoodCategory = "fat"
	CategoryVegetable FoodCategory = "vegetable"
	CategoryFruit     FoodCategory = "fruit"
	CategoryDairy     FoodCategory = "dairy"
	CategoryOther     FoodCategory = "other"
)

// CatalogFood is a FoodItem tagged with its category.
type CatalogFood struct {
	FoodItem
	Category FoodCategory `json:"category"`
}

// FoodCatalog provides foods for substitution and plan solving.
type FoodCatalog interface {
	List(ctx context.Context) ([]CatalogFood, error)
	ByCategory(ctx context.Context, category FoodCategory) ([]CatalogFood, error)
	FindByName(ctx context.Context, name string) (*CatalogFood, error)
	Search(ctx context.Context, query string) ([]CatalogFood, error)
	Alternatives(ctx context.Context, slot MealSlot) ([]FoodItem, error)
}

// FoodAnalyzer recognises foods in a base64 data-URL image.
type FoodAnalyzer interface {
	Analyze(ctx context.Context, image string) (*FoodAnalysis, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/nutrition"
)

// Compile-time interface check.
var _ domain.FoodAnalyzer = (*Analyzer)(nil)

// Retry defaults for rate-limited requests.
const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = time.Second
)

// Chatter is the slice of Client the analyzer needs.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// AnalyzerOption configures the Analyzer.
type AnalyzerOption func(*Analyzer)

// WithRetry sets how many times a rate-limited call is retried and the
// base delay, doubled after each attempt.
func WithRetry(maxRetries int, baseDelay time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		a.maxRetries = maxRetries
		a.baseDelay = baseDelay
	}
}

// WithCache reuses results for images analysed before.
func WithCache(c *Cache) AnalyzerOption {
	return func(a *Analyzer) { a.cache = c }
}

// WithSleep replaces the backoff wait, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) AnalyzerOption {
	return func(a *Analyzer) { a.sleep = sleep }
}

// Analyzer turns a food photo into a FoodAnalysis.
type Analyzer struct {
	client     Chatter
	cache      *Cache
	log        *logger.Logger
	maxRetries int
	baseDelay  time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewAnalyzer creates an analyzer backed by client.
func NewAnalyzer(client Chatter, log *logger.Logger, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		client:     client,
		log:        log,
		maxRetries: DefaultMaxRetries,
		baseDelay:  DefaultBaseDelay,
		sleep:      sleepCtx,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze validates the image, asks the model to identify its foods and
// returns them with rounded totals. Errors are *Error values.
func (a *Analyzer) Analyze(ctx context.Context, image string) (*domain.FoodAnalysis, error) {
	mediaType, data, err := ValidateImage(image)
	if err != nil {
		return nil, err
	}
	a.log.Debug("analyzing %s (%d bytes)", mediaType, len(data))

	if a.cache != nil {
		if cached, ok := a.cache.Get(image); ok {
			return cached, nil
		}
	}

	messages := []Message{ImageMessage(PromptAnalyzeFood, image)}

	var raw string
	err = a.retry(ctx, func() error {
		var err error
		raw, err = a.client.Chat(ctx, messages)
		return err
	})
	if err != nil {
		return nil, err
	}

	analysis, err := ParseAnalysis(raw)
	if err != nil {
		a.log.Error("unparseable reply: %v\nraw: %s", err, truncate(raw, 500))
		return nil, err
	}
	a.log.Info("identified %d food(s), %d kcal", len(analysis.Foods), analysis.TotalCalories)

	if a.cache != nil {
		a.cache.Put(image, analysis)
	}
	return analysis, nil
}

// retry runs fn, retrying rate-limited failures with exponential backoff.
func (a *Analyzer) retry(ctx context.Context, fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !Retryable(err) || attempt >= a.maxRetries {
			return err
		}
		delay := a.baseDelay << attempt
		a.log.Warn("rate limited, retrying in %s (attempt %d/%d)", delay, attempt+1, a.maxRetries)
		if err := a.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ── Parsing ──────────────────────────────────────────────────────

type replyFood struct {
	Name            string      `json:"name"`
	Portion         string      `json:"portion"`
	EstimatedWeight flexString  `json:"estimatedWeight"`
	Calories        float64     `json:"calories"`
	Macros          *replyMacro `json:"macros"`
	Confidence      string      `json:"confidence"`
	Alternatives    []string    `json:"alternatives"`
}

type replyMacro struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

type reply struct {
	Foods *[]replyFood `json:"foods"`
}

// flexString accepts a JSON string or number; models are inconsistent
// about "250" versus 250.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String() + "g")
	return nil
}

// ParseAnalysis decodes a model reply, tolerating markdown code fences.
// A reply without a "foods" array is KindMalformedResponse; an empty
// array is KindNoFood.
func ParseAnalysis(raw string) (*domain.FoodAnalysis, error) {
	malformed := func(err error) error {
		return &Error{Kind: KindMalformedResponse, Err: err}
	}

	var r reply
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &r); err != nil {
		return nil, malformed(fmt.Errorf("invalid JSON: %w", err))
	}
	if r.Foods == nil {
		return nil, malformed(errors.New(`"foods" array missing`))
	}
	if len(*r.Foods) == 0 {
		return nil, &Error{Kind: KindNoFood, Err: errors.New("no foods identified")}
	}

	out := &domain.FoodAnalysis{Foods: make([]domain.RecognizedFood, 0, len(*r.Foods))}
	var cal, protein, carbs, fat float64
	for i, f := range *r.Foods {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, malformed(fmt.Errorf("food %d has no name", i+1))
		}
		if f.Calories < 0 {
			return nil, malformed(fmt.Errorf("food %q has negative calories", name))
		}
		food := domain.RecognizedFood{
			Name:            name,
			Portion:         f.Portion,
			EstimatedWeight: string(f.EstimatedWeight),
			Calories:        f.Calories,
			Confidence:      domain.Confidence(strings.ToLower(f.Confidence)),
			Alternatives:    f.Alternatives,
		}
		if f.Macros != nil {
			food.Macros = domain.FoodMacros{Protein: f.Macros.Protein, Carbs: f.Macros.Carbs, Fat: f.Macros.Fat}
		}
		if !food.Confidence.Valid() {
			food.Confidence = domain.ConfidenceLow
		}
		out.Foods = append(out.Foods, food)

		cal += food.Calories
		protein += food.Macros.Protein
		carbs += food.Macros.Carbs
		fat += food.Macros.Fat
	}

	out.TotalCalories = nutrition.Round(cal)
	out.TotalMacros = domain.Macros{
		Protein: nutrition.Round(protein),
		Carbs:   nutrition.Round(carbs),
		Fat:     nutrition.Round(fat),
	}
	return out, nil
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// Package planner implements the user session flow: quiz, payment gate,
// plan generation and plan edits.
package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/nutriplan/internal/conversation"
	"github.com/hammamikhairi/nutriplan/internal/dietplan"
	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/nutrition"
)

// Solver names accepted by NewSolver.
const (
	SolverStatic = "static"
	SolverGreedy = "greedy"
)

// Option configures the planner.
type Option func(*Planner)

// WithSolver sets the food solver used for new diet plans.
func WithSolver(s dietplan.Solver) Option {
	return func(p *Planner) {
		p.solver = s
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) {
		p.now = now
	}
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(p *Planner) {
		p.newID = gen
	}
}

// Planner manages NutriPlan sessions. It depends only on interfaces and
// is fully testable with the in-memory implementations.
type Planner struct {
	store   domain.SessionStore
	catalog domain.FoodCatalog
	solver  dietplan.Solver
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
	locks   *sessionLocks
}

// New creates a planner with the given dependencies and options.
func New(store domain.SessionStore, catalog domain.FoodCatalog, log *logger.Logger, opts ...Option) *Planner {
	p := &Planner{
		store:   store,
		catalog: catalog,
		solver:  dietplan.StaticSolver{},
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
		locks:   newSessionLocks(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewSolver builds a solver by name. The greedy solver draws from the
// whole catalog.
func NewSolver(ctx context.Context, name string, catalog domain.FoodCatalog) (dietplan.Solver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SolverStatic:
		return dietplan.StaticSolver{}, nil
	case SolverGreedy:
		foods, err := catalog.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("planner: listing foods: %w", err)
		}
		return dietplan.NewGreedySolver(foods), nil
	default:
		return nil, fmt.Errorf("%w: unknown solver %q", domain.ErrInvalidInput, name)
	}
}

// Catalog exposes the food catalog backing swaps and alternatives.
func (p *Planner) Catalog() domain.FoodCatalog { return p.catalog }

// StartSession creates an empty session.
func (p *Planner) StartSession(ctx context.Context) (*domain.Session, error) {
	now := p.now()
	session := &domain.Session{
		ID:        p.newID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	p.log.Info("started session %s", session.ID)
	return session, nil
}

// Session loads a session by ID.
func (p *Planner) Session(ctx context.Context, id string) (*domain.Session, error) {
	session, err := p.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return session, nil
}

// NextQuestion returns the first unanswered quiz step, or false when the
// quiz is complete.
func NextQuestion(session *domain.Session) (domain.QuizStep, bool) {
	missing := session.Quiz.Missing()
	if len(missing) == 0 {
		return 0, false
	}
	return missing[0], true
}

// AnswerQuiz parses raw as the answer to step and stores it. Changing an
// answer discards any plan computed from the old answers.
func (p *Planner) AnswerQuiz(ctx context.Context, id string, step domain.QuizStep, raw string) (*domain.Session, error) {
	return p.update(ctx, id, func(s *domain.Session) error {
		if err := conversation.Apply(&s.Quiz, step, raw); err != nil {
			return err
		}
		s.Plan = nil
		s.DietPlan = nil
		p.log.Debug("session %s answered %s=%q", s.ID, step, raw)
		return nil
	})
}

// MarkPaid unlocks plan generation for the session.
func (p *Planner) MarkPaid(ctx context.Context, id string) (*domain.Session, error) {
	return p.update(ctx, id, func(s *domain.Session) error {
		if !s.Paid {
			s.Paid = true
			s.PaidAt = p.now()
			p.log.Info("session %s marked paid", s.ID)
		}
		return nil
	})
}

// Plan returns the session's nutrition and diet plans, computing and
// storing them on first call. The quiz must be complete and the session
// paid. A stored diet plan, including any swaps, is returned as is.
func (p *Planner) Plan(ctx context.Context, id string) (*domain.NutritionPlan, *domain.DietPlan, error) {
	var plan *domain.NutritionPlan
	var diet *domain.DietPlan
	_, err := p.update(ctx, id, func(s *domain.Session) error {
		if !s.Quiz.Complete() {
			return fmt.Errorf("%w: missing %v", domain.ErrQuizIncomplete, s.Quiz.Missing())
		}
		if !s.Paid {
			return domain.ErrPaymentRequired
		}
		if s.Plan == nil || s.DietPlan == nil {
			np, dp, err := p.ComputeWith(UserData(s.Quiz), p.solver)
			if err != nil {
				return err
			}
			s.Plan = &np
			s.DietPlan = &dp
			p.log.Info("session %s: plan computed, target %d kcal", s.ID, np.TargetCalories)
		}
		plan = s.Plan
		diet = s.DietPlan
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return plan, diet, nil
}

// SwapFood replaces the food at index in the slot's meal of the stored
// diet plan with food. The meal and daily totals are recomputed.
func (p *Planner) SwapFood(ctx context.Context, id string, slot domain.MealSlot, index int, food domain.FoodItem) (*domain.DietPlan, error) {
	if strings.TrimSpace(food.Name) == "" {
		return nil, fmt.Errorf("%w: food name is required", domain.ErrInvalidInput)
	}
	var out *domain.DietPlan
	_, err := p.update(ctx, id, func(s *domain.Session) error {
		if s.DietPlan == nil {
			return fmt.Errorf("%w: no diet plan yet", domain.ErrNotFound)
		}
		next, err := dietplan.ReplaceFood(*s.DietPlan, slot, index, food)
		if err != nil {
			return err
		}
		s.DietPlan = &next
		out = &next
		p.log.Info("session %s: %s #%d -> %s", s.ID, slot, index+1, food.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SwapFoodByName looks the replacement up in the catalog first.
func (p *Planner) SwapFoodByName(ctx context.Context, id string, slot domain.MealSlot, index int, name string) (*domain.DietPlan, error) {
	food, err := p.catalog.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("finding food %q: %w", name, err)
	}
	return p.SwapFood(ctx, id, slot, index, food.FoodItem)
}

// Alternatives lists replacement suggestions for a meal slot.
func (p *Planner) Alternatives(ctx context.Context, slot domain.MealSlot) ([]domain.FoodItem, error) {
	return p.catalog.Alternatives(ctx, slot)
}

// Reset clears answers, payment and plans, keeping the session ID.
func (p *Planner) Reset(ctx context.Context, id string) (*domain.Session, error) {
	return p.update(ctx, id, func(s *domain.Session) error {
		s.Clear()
		p.log.Info("session %s reset", s.ID)
		return nil
	})
}

// End deletes the session.
func (p *Planner) End(ctx context.Context, id string) error {
	unlock := p.locks.lock(id)
	defer unlock()

	if err := p.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	p.log.Info("ended session %s", id)
	return nil
}

// Compute validates u and builds both plans with the configured solver.
func (p *Planner) Compute(u domain.UserData) (domain.NutritionPlan, domain.DietPlan, error) {
	return p.ComputeWith(u, p.solver)
}

// ComputeWith is Compute with an explicit solver. Enum values are
// normalized and the auto goal is resolved from BMI before validation.
func (p *Planner) ComputeWith(u domain.UserData, solver dietplan.Solver) (domain.NutritionPlan, domain.DietPlan, error) {
	u = nutrition.Normalize(u)
	u.Goal = nutrition.ResolveGoal(u.Goal, u.WeightKg, u.HeightCm)
	if err := nutrition.Validate(u); err != nil {
		return domain.NutritionPlan{}, domain.DietPlan{}, err
	}
	plan := nutrition.ComputePlan(u)
	for _, w := range plan.Warnings {
		p.log.Warn("plan: %s", w)
	}
	return plan, dietplan.Generate(plan, solver), nil
}

// UserData converts quiz answers to calculator input.
func UserData(q domain.QuizAnswers) domain.UserData {
	return domain.UserData{
		HeightCm:      q.HeightCm,
		WeightKg:      q.WeightKg,
		Age:           q.Age,
		Sex:           q.Sex,
		ActivityLevel: q.ActivityLevel,
		Goal:          q.Goal,
	}
}

// update loads, mutates and saves a session under its lock. Nothing is
// saved when fn fails. The lock is process-local; replicas sharing one
// Redis store are not serialized against each other.
func (p *Planner) update(ctx context.Context, id string, fn func(s *domain.Session) error) (*domain.Session, error) {
	unlock := p.locks.lock(id)
	defer unlock()

	session, err := p.store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = p.now()
	if err := p.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return session, nil
}

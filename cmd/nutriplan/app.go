package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/nutriplan/internal/conversation"
	"github.com/hammamikhairi/nutriplan/internal/display"
	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/planner"
	"github.com/hammamikhairi/nutriplan/internal/vision"
)

// output is the subset of display.UI the REPL writes to.
type output interface {
	Println(a ...interface{})
	PrintChat(text string)
	PrintHeader(text string)
	PrintText(text string)
	PrintHint(text string)
	PrintUrgent(text string)
	PrintBlock(block string)
}

var _ output = (*display.UI)(nil)

// cliApp wires the planner to the terminal REPL.
type cliApp struct {
	planner     *planner.Planner
	parser      domain.IntentParser
	notifier    domain.Notifier
	analyzer    domain.FoodAnalyzer // nil when photo analysis is disabled
	log         *logger.Logger
	out         output
	checkoutURL string
	readFile    func(name string) ([]byte, error)

	sessionID string

	mu     sync.Mutex
	status display.Status
}

func newCLIApp(p *planner.Planner, analyzer domain.FoodAnalyzer, out output, log *logger.Logger) *cliApp {
	return &cliApp{
		planner:  p,
		parser:   conversation.NewKeywordParser(log.Named("parser")),
		notifier: conversation.NewCLINotifier(log.Named("notifier"), out.PrintChat, out.PrintUrgent),
		analyzer: analyzer,
		log:      log,
		out:      out,
		readFile: os.ReadFile,
		status:   display.Status{QuizTotal: len(domain.QuizSteps)},
	}
}

// runREPL starts the Bubble Tea UI and the command loop. It returns the
// process exit code.
func runREPL(ctx context.Context, p *planner.Planner, analyzer *vision.Analyzer, log *logger.Logger) int {
	var fa domain.FoodAnalyzer
	if analyzer != nil {
		fa = analyzer
	}

	var app *cliApp
	ui := display.NewUI(func() display.Status { return app.snapshot() })
	app = newCLIApp(p, fa, ui, log.Named("cli"))
	app.checkoutURL = os.Getenv(envCheckoutURL)

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  " + display.Tagline))
	fmt.Println()

	go func() {
		ui.WaitReady()
		app.run(ctx, ui.InputChan())
		ui.Quit()
	}()

	if err := ui.Run(); err != nil {
		log.Error("ui: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if app.sessionID != "" {
		p.End(context.Background(), app.sessionID)
	}
	return 0
}

// snapshot returns the status bar state. Safe for concurrent use.
func (a *cliApp) snapshot() display.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *cliApp) refreshStatus(s *domain.Session) {
	if s == nil {
		return
	}
	st := display.Status{
		QuizAnswered: len(domain.QuizSteps) - len(s.Quiz.Missing()),
		QuizTotal:    len(domain.QuizSteps),
		Paid:         s.Paid,
	}
	if s.Plan != nil {
		st.TargetCalories = s.Plan.TargetCalories
	}
	if s.DietPlan != nil {
		st.HasPlan = true
		st.PlanCalories = s.DietPlan.DailyTotal.Calories
	}
	a.mu.Lock()
	a.status = st
	a.mu.Unlock()
}

// run reads commands until the input closes, ctx ends or the user quits.
func (a *cliApp) run(ctx context.Context, input <-chan string) {
	s, err := a.planner.StartSession(ctx)
	if err != nil {
		a.log.Error("starting session: %v", err)
		a.warn(err.Error())
		return
	}
	a.sessionID = s.ID
	a.refreshStatus(s)

	a.out.PrintChat(lineWelcome())
	a.out.Println("")
	a.askNext(ctx)

	for {
		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return
		case line, ok = <-input:
			if !ok {
				return
			}
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, line)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}
		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)

		if !a.handleIntent(ctx, intent) {
			return
		}
	}
}

// handleIntent dispatches one command. It returns false when the user
// asked to quit.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentUnknown:
		if step, pending := a.pendingStep(ctx); pending {
			a.answer(ctx, step, intent.Payload)
		} else {
			a.out.PrintHint(lineUnknown(intent.Payload))
		}
	case domain.IntentShowPlan:
		a.showPlan(ctx, true)
	case domain.IntentShowTargets:
		a.showPlan(ctx, false)
	case domain.IntentShowMeal:
		a.showMeal(ctx, intent.Args)
	case domain.IntentAlternatives:
		a.showAlternatives(ctx, intent.Args)
	case domain.IntentSwapFood:
		a.swap(ctx, intent.Args)
	case domain.IntentAnalyzeImage:
		a.analyze(ctx, intent.Payload)
	case domain.IntentSearchFoods:
		a.searchFoods(ctx, intent.Payload)
	case domain.IntentPay:
		a.pay(ctx)
	case domain.IntentReset:
		a.reset(ctx)
	case domain.IntentStatus:
		a.showStatus(ctx)
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentQuit:
		a.out.PrintChat(lineBye())
		return false
	}
	return true
}

// pendingStep returns the next unanswered quiz step, if any.
func (a *cliApp) pendingStep(ctx context.Context) (domain.QuizStep, bool) {
	s, err := a.planner.Session(ctx, a.sessionID)
	if err != nil {
		a.log.Error("loading session: %v", err)
		return 0, false
	}
	return planner.NextQuestion(s)
}

// askNext prints the next quiz question, or the payment gate once the
// quiz is complete.
func (a *cliApp) askNext(ctx context.Context) {
	s, err := a.planner.Session(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	step, pending := planner.NextQuestion(s)
	if !pending {
		if !s.Paid {
			a.out.PrintChat(linePaymentGate())
		}
		return
	}
	answered := len(domain.QuizSteps) - len(s.Quiz.Missing())
	a.out.PrintHint(lineQuizProgress(answered, len(domain.QuizSteps)))
	a.out.PrintChat(conversation.Question(step))
	for i, opt := range conversation.Options(step) {
		a.out.PrintText(fmt.Sprintf("  %d. %s", i+1, opt))
	}
}

func (a *cliApp) answer(ctx context.Context, step domain.QuizStep, raw string) {
	s, err := a.planner.AnswerQuiz(ctx, a.sessionID, step, raw)
	if err != nil {
		a.report(err)
		a.askNext(ctx)
		return
	}
	a.refreshStatus(s)
	if s.Quiz.Complete() {
		a.out.PrintChat(lineQuizDone())
	}
	a.askNext(ctx)
}

func (a *cliApp) pay(ctx context.Context) {
	s, err := a.planner.Session(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	if !s.Quiz.Complete() {
		a.report(domain.ErrQuizIncomplete)
		return
	}
	if s.Paid {
		a.out.PrintHint(lineAlreadyPaid())
		return
	}
	a.out.PrintHint(lineCheckout(a.checkoutURL))
	s, err = a.planner.MarkPaid(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	a.refreshStatus(s)
	a.notifier.Notify(ctx, linePaid())
	a.showPlan(ctx, true)
}

// showPlan prints the targets and, when full is set, the menu.
func (a *cliApp) showPlan(ctx context.Context, full bool) {
	np, dp, err := a.planner.Plan(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	a.refreshSession(ctx)
	a.out.PrintBlock(display.RenderNutritionPlan(*np))
	if full {
		a.out.PrintBlock(display.RenderDietPlan(*dp))
	}
}

func (a *cliApp) showMeal(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.out.PrintHint(lineMealUsage())
		return
	}
	slot, err := conversation.ParseSlot(strings.Join(args, " "))
	if err != nil {
		a.report(err)
		return
	}
	_, dp, err := a.planner.Plan(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	m := dp.Meal(slot)
	if m == nil {
		a.report(fmt.Errorf("%w: no %s in today's plan", domain.ErrNotFound, slot.Title()))
		return
	}
	a.out.PrintBlock(display.RenderMeal(*m))
}

func (a *cliApp) showAlternatives(ctx context.Context, args []string) {
	if len(args) == 0 {
		a.out.PrintHint(lineMealUsage())
		return
	}
	slot, err := conversation.ParseSlot(strings.Join(args, " "))
	if err != nil {
		a.report(err)
		return
	}
	alts, err := a.planner.Alternatives(ctx, slot)
	if err != nil {
		a.report(err)
		return
	}
	a.out.PrintBlock(display.RenderFoods("Alternatives for "+slot.Title(), alts))
}

// swap handles "swap <meal> <item #> <food>". The food is either a
// position in the meal's alternatives list or a name from the catalog.
func (a *cliApp) swap(ctx context.Context, args []string) {
	if len(args) < 3 {
		a.out.PrintHint(lineSwapUsage())
		return
	}
	slot, err := conversation.ParseSlot(args[0])
	if err != nil {
		a.report(err)
		return
	}
	_, dp, err := a.planner.Plan(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	m := dp.Meal(slot)
	if m == nil {
		a.report(fmt.Errorf("%w: no %s in today's plan", domain.ErrNotFound, slot.Title()))
		return
	}
	index, err := conversation.ParseIndex(args[1], len(m.Foods))
	if err != nil {
		a.report(err)
		return
	}
	oldName := m.Foods[index].Name
	name := strings.Join(args[2:], " ")

	replacement, err := a.resolveFood(ctx, slot, name)
	if err != nil {
		a.report(err)
		return
	}
	updated, err := a.planner.SwapFood(ctx, a.sessionID, slot, index, replacement)
	if err != nil {
		a.report(err)
		return
	}
	a.refreshSession(ctx)
	a.out.PrintChat(lineSwapped(slot.Title(), oldName, replacement.Name, updated.DailyTotal.Calories))
	if nm := updated.Meal(slot); nm != nil {
		a.out.PrintBlock(display.RenderMeal(*nm))
	}
}

// resolveFood finds the food a swap refers to: an alternatives index, a
// catalog name, or a partial match against the alternatives.
func (a *cliApp) resolveFood(ctx context.Context, slot domain.MealSlot, name string) (domain.FoodItem, error) {
	alts, err := a.planner.Alternatives(ctx, slot)
	if err != nil {
		return domain.FoodItem{}, err
	}
	if _, err := strconv.Atoi(strings.TrimPrefix(name, "#")); err == nil {
		i, err := conversation.ParseIndex(name, len(alts))
		if err != nil {
			return domain.FoodItem{}, err
		}
		return alts[i], nil
	}

	found, err := a.planner.Catalog().FindByName(ctx, name)
	if err == nil {
		return found.FoodItem, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.FoodItem{}, err
	}

	needle := strings.ToLower(name)
	for _, alt := range alts {
		if strings.Contains(strings.ToLower(alt.Name), needle) {
			return alt, nil
		}
	}
	return domain.FoodItem{}, fmt.Errorf("%w: no food called %q (try 'alternatives %s')", domain.ErrNotFound, name, slot)
}

func (a *cliApp) searchFoods(ctx context.Context, query string) {
	catalog := a.planner.Catalog()
	var (
		list []domain.CatalogFood
		err  error
	)
	if query == "" {
		list, err = catalog.List(ctx)
	} else {
		list, err = catalog.Search(ctx, query)
	}
	if err != nil {
		a.report(err)
		return
	}
	if len(list) == 0 {
		a.out.PrintHint(fmt.Sprintf("No foods match %q.", query))
		return
	}
	a.out.PrintBlock(display.RenderCatalog(list))
}

func (a *cliApp) analyze(ctx context.Context, path string) {
	if a.analyzer == nil {
		a.out.PrintHint(lineAIDisabled())
		return
	}
	if path == "" {
		a.out.PrintHint(lineAnalyzeUsage())
		return
	}
	image, err := readImage(a.readFile, path)
	if err != nil {
		a.report(err)
		return
	}
	a.out.PrintHint(lineAnalyzing())
	result, err := a.analyzer.Analyze(ctx, image)
	if err != nil {
		a.log.Warn("analyze %s: %v", path, err)
		msg, suggestion := vision.UserMessage(err)
		a.warn(msg)
		if suggestion != "" {
			a.out.PrintHint(suggestion)
		}
		return
	}
	a.out.PrintBlock(display.RenderAnalysis(*result))
}

func (a *cliApp) reset(ctx context.Context) {
	s, err := a.planner.Reset(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	a.refreshStatus(s)
	a.out.PrintChat(lineReset())
	a.askNext(ctx)
}

func (a *cliApp) showStatus(ctx context.Context) {
	s, err := a.planner.Session(ctx, a.sessionID)
	if err != nil {
		a.report(err)
		return
	}
	a.refreshStatus(s)
	st := a.snapshot()
	a.out.PrintText(lineStatus(st.QuizAnswered, st.QuizTotal, st.Paid, st.PlanCalories, st.TargetCalories))
}

func (a *cliApp) showHelp() {
	a.out.PrintHeader("Commands")
	for _, line := range helpText() {
		a.out.PrintText("  " + line)
	}
}

func (a *cliApp) refreshSession(ctx context.Context) {
	if s, err := a.planner.Session(ctx, a.sessionID); err == nil {
		a.refreshStatus(s)
	}
}

// report turns an error into a user-facing line.
func (a *cliApp) report(err error) {
	switch {
	case errors.Is(err, domain.ErrQuizIncomplete):
		s, lerr := a.planner.Session(context.Background(), a.sessionID)
		if lerr != nil {
			a.warn(err.Error())
			return
		}
		var missing []string
		for _, step := range s.Quiz.Missing() {
			missing = append(missing, step.String())
		}
		a.out.PrintHint(lineQuizNotDone(missing))
	case errors.Is(err, domain.ErrPaymentRequired):
		a.out.PrintHint(linePaymentGate())
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
		a.warn(err.Error())
	default:
		a.log.Error("%v", err)
		a.warn("Something went wrong: " + err.Error())
	}
}

// warn sends an error line through the urgent notification channel.
func (a *cliApp) warn(msg string) {
	if err := a.notifier.NotifyUrgent(context.Background(), msg); err != nil {
		a.log.Warn("notify: %v", err)
	}
}

// readImage loads a photo from disk as a data URL.
func readImage(read func(string) ([]byte, error), path string) (string, error) {
	data, err := read(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidInput, path, err)
	}
	mediaType := http.DetectContentType(data)
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%w: %s is not an image (%s)", domain.ErrInvalidInput, path, mediaType)
	}
	return vision.EncodeDataURL(mediaType, data), nil
}

// loadImage reads a photo from the local filesystem.
func loadImage(path string) (string, error) {
	return readImage(os.ReadFile, path)
}

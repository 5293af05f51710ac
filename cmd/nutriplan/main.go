// NutriPlan: personalised nutrition targets and a five-meal day.
//
// Usage:
//
//	nutriplan [-verbose] [-quiet] [-store memory|sqlite|redis] [-solver static|greedy]
//	nutriplan -serve [-addr :8080]
//	nutriplan -weight 70 -height 175 -age 30 -sex male -activity moderate -goal maintain
//	nutriplan -analyze plate.jpg
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/nutriplan/internal/api"
	"github.com/hammamikhairi/nutriplan/internal/conversation"
	"github.com/hammamikhairi/nutriplan/internal/display"
	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/expiry"
	"github.com/hammamikhairi/nutriplan/internal/foods"
	"github.com/hammamikhairi/nutriplan/internal/logger"
	"github.com/hammamikhairi/nutriplan/internal/planner"
	"github.com/hammamikhairi/nutriplan/internal/storage"
	"github.com/hammamikhairi/nutriplan/internal/vision"
)

// Environment variables.
const (
	envAPIKey         = "OPENAI_API_KEY"
	envVisionEndpoint = "NUTRIPLAN_VISION_ENDPOINT"
	envVisionModel    = "NUTRIPLAN_VISION_MODEL"
	envCheckoutURL    = "NUTRIPLAN_CHECKOUT_URL"
	envSQLitePath     = "NUTRIPLAN_SQLITE_PATH"
	envRedisAddr      = "REDIS_ADDR"
	envPort           = "PORT"
)

func main() {
	os.Exit(run())
}

// run wires the application and returns the process exit code. Deferred
// cleanup runs before main exits.
func run() int {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".nutriplan-logs/nutriplan.log", "file to write logs to (use \"stderr\" to log to console)")
	serve := flag.Bool("serve", false, "run the HTTP API instead of the interactive REPL")
	addr := flag.String("addr", "", "HTTP listen address (default :$PORT or :8080)")
	storeKind := flag.String("store", "memory", "session store: memory, sqlite or redis")
	solverName := flag.String("solver", planner.SolverStatic, "meal solver: static or greedy")
	sessionTTL := flag.Duration("session-ttl", 24*time.Hour, "server mode: drop sessions idle for this long (memory and sqlite stores; 0 disables)")
	noAI := flag.Bool("no-ai", false, "disable photo analysis even if OPENAI_API_KEY is set")
	cacheDir := flag.String("cache-dir", ".nutriplan-cache", "directory for cached photo analyses (empty disables the disk cache)")
	analyze := flag.String("analyze", "", "analyze a food photo and exit")
	asJSON := flag.Bool("json", false, "print one-shot results as JSON")

	weight := flag.String("weight", "", "one-shot: body weight (kg, or e.g. \"154lb\")")
	height := flag.String("height", "", "one-shot: height (cm, metres, or e.g. \"70in\")")
	age := flag.String("age", "", "one-shot: age in years")
	sex := flag.String("sex", "", "one-shot: male or female")
	activity := flag.String("activity", "moderate", "one-shot: sedentary, light, moderate, active or very_active")
	goal := flag.String("goal", "maintain", "one-shot: lose, maintain, gain or auto")
	flag.Parse()

	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// The REPL logs to a file by default so the terminal stays clean; the
	// server and one-shot modes log to stderr unless told otherwise.
	var logOut io.Writer = os.Stderr
	interactive := !*serve && *analyze == "" && *weight == ""
	if *logFile != "" && *logFile != "stderr" && (interactive || isFlagSet("log-file")) {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Third-party libraries log through the standard package.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire dependencies.
	store, closeStore, err := openStore(ctx, *storeKind, *verbose, log.Named("store"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeStore()

	catalog := foods.NewMemoryCatalog(log.Named("foods"))
	solver, err := planner.NewSolver(ctx, *solverName, catalog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	plan := planner.New(store, catalog, log.Named("planner"), planner.WithSolver(solver))

	var analyzer *vision.Analyzer
	if key := os.Getenv(envAPIKey); key != "" && !*noAI {
		analyzer = newAnalyzer(key, *cacheDir, log.Named("vision"))
		log.Info("photo analysis enabled")
	} else if !*noAI {
		log.Info("photo analysis disabled: set %s to enable", envAPIKey)
	}

	switch {
	case *analyze != "":
		return runAnalyze(ctx, analyzer, *analyze, *asJSON)
	case *weight != "":
		answers := map[domain.QuizStep]string{
			domain.QuizWeight:   *weight,
			domain.QuizHeight:   *height,
			domain.QuizAge:      *age,
			domain.QuizSex:      *sex,
			domain.QuizGoal:     *goal,
			domain.QuizActivity: *activity,
		}
		return runOneShot(plan, answers, *asJSON)
	case *serve:
		listen := *addr
		if listen == "" {
			port := os.Getenv(envPort)
			if port == "" {
				port = "8080"
			}
			listen = ":" + port
		}
		var fa domain.FoodAnalyzer
		if analyzer != nil {
			fa = analyzer
		}
		if *storeKind != "redis" && *sessionTTL > 0 {
			sweeper := expiry.New(store, log.Named("expiry"), expiry.WithIdleTTL(*sessionTTL))
			sweeper.Start(ctx)
			defer sweeper.Stop()
		}
		srv := api.New(plan, fa, log.Named("api"))
		if err := srv.Run(ctx, listen); err != nil {
			log.Error("server: %v", err)
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	default:
		return runREPL(ctx, plan, analyzer, log)
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// openStore builds the session store selected by kind.
func openStore(ctx context.Context, kind string, debug bool, log *logger.Logger) (domain.SessionStore, func(), error) {
	switch kind {
	case "memory", "":
		return storage.NewMemoryStore(log), func() {}, nil
	case "sqlite":
		path := os.Getenv(envSQLitePath)
		if path == "" {
			path = "nutriplan.db"
		}
		s, err := storage.NewSQLiteStore(storage.SQLiteConfig{Path: path, Debug: debug}, log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, func() { s.Close() }, nil
	case "redis":
		addr := os.Getenv(envRedisAddr)
		if addr == "" {
			addr = "localhost:6379"
		}
		s, err := storage.NewRedisStore(ctx, addr, log)
		if err != nil {
			return nil, nil, fmt.Errorf("opening redis store: %w", err)
		}
		return s, func() { s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q (want memory, sqlite or redis)", kind)
	}
}

func newAnalyzer(key, cacheDir string, log *logger.Logger) *vision.Analyzer {
	var opts []vision.ClientOption
	if ep := os.Getenv(envVisionEndpoint); ep != "" {
		opts = append(opts, vision.WithEndpoint(ep))
	}
	model := vision.DefaultModel
	if m := os.Getenv(envVisionModel); m != "" {
		model = m
		opts = append(opts, vision.WithModel(m))
	}
	client := vision.NewClient(key, log, opts...)
	cache := vision.NewCache(model, cacheDir, cacheDir != "", log)
	return vision.NewAnalyzer(client, log, vision.WithCache(cache))
}

// runOneShot computes a plan from flag values and prints it.
func runOneShot(p *planner.Planner, answers map[domain.QuizStep]string, asJSON bool) int {
	var q domain.QuizAnswers
	for _, step := range domain.QuizSteps {
		if err := conversation.Apply(&q, step, answers[step]); err != nil {
			fmt.Fprintf(os.Stderr, "error: -%s: %v\n", flagFor(step), err)
			return 2
		}
	}
	np, dp, err := p.Compute(planner.UserData(q))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]any{"plan": np, "dietPlan": dp})
		return 0
	}
	fmt.Println(display.RenderNutritionPlan(np))
	fmt.Println()
	fmt.Println(display.RenderDietPlan(dp))
	return 0
}

func flagFor(step domain.QuizStep) string {
	if step == domain.QuizActivity {
		return "activity"
	}
	return step.String()
}

// runAnalyze analyses one photo and prints the result.
func runAnalyze(ctx context.Context, analyzer *vision.Analyzer, path string, asJSON bool) int {
	if analyzer == nil {
		fmt.Fprintln(os.Stderr, "error: "+lineAIDisabled())
		return 2
	}
	image, err := loadImage(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	result, err := analyzer.Analyze(ctx, image)
	if err != nil {
		msg, suggestion := vision.UserMessage(err)
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		if suggestion != "" {
			fmt.Fprintln(os.Stderr, suggestion)
		}
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result)
		return 0
	}
	fmt.Println(display.RenderAnalysis(*result))
	return 0
}

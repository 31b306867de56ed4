// Command scorer evaluates a repository against a weighted rubric using a
// tool-calling LLM agent and writes a scored report.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/alexeygrigorev/github-project-scorer/pkg/analyzer"
	"github.com/alexeygrigorev/github-project-scorer/pkg/config"
	"github.com/alexeygrigorev/github-project-scorer/pkg/criteria"
	"github.com/alexeygrigorev/github-project-scorer/pkg/evaluator"
	"github.com/alexeygrigorev/github-project-scorer/pkg/logging"
	"github.com/alexeygrigorev/github-project-scorer/pkg/model"
	"github.com/alexeygrigorev/github-project-scorer/pkg/report"
	"github.com/alexeygrigorev/github-project-scorer/pkg/repository"
	"github.com/alexeygrigorev/github-project-scorer/pkg/telemetry"
	"github.com/alexeygrigorev/github-project-scorer/pkg/tool"
	"github.com/alexeygrigorev/github-project-scorer/pkg/usage"
)

var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath   = flag.String("config", "", "path to config YAML (optional)")
		criteriaPath = flag.String("criteria", "", "path to criteria YAML (overrides config)")
		pricingPath  = flag.String("pricing", "", "path to model pricing YAML (overrides config)")
		modelName    = flag.String("model", "", "model to use (overrides config)")
		baseURL      = flag.String("base-url", "", "provider base URL (overrides config)")
		outputPath   = flag.String("output", "", "report output path (default: <output dir>/<repo>_report.md)")
		noCleanup    = flag.Bool("no-cleanup", false, "keep cloned repositories on exit")
		timeout      = flag.Duration("timeout", 0, "per-criterion timeout (0 = none, overrides config)")
		quiet        = flag.Bool("quiet", false, "suppress live progress output")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <repository-url-or-path>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("scorer %s (%s)\n", version, commit)
		return 0
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	repoRef := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 2
	}
	if *criteriaPath != "" {
		cfg.Criteria.File = *criteriaPath
	}
	if *pricingPath != "" {
		cfg.Pricing.File = *pricingPath
	}
	if *modelName != "" {
		cfg.Model.Name = *modelName
	}
	if *baseURL != "" {
		cfg.Model.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.Model.CriterionTimeout = *timeout
	}

	apiKey, err := cfg.APIKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	rubric, err := criteria.LoadFromFile(cfg.Criteria.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading criteria: %v\n", err)
		return 2
	}

	pricing := usage.DefaultPricing()
	if cfg.Pricing.File != "" {
		pricing, err = usage.LoadPricing(cfg.Pricing.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading pricing: %v\n", err)
			return 2
		}
	}

	runID := ulid.Make().String()
	logger, err := logging.NewLogger(cfg.Logging.Dir, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		return 1
	}
	defer logger.Close()
	logger.SetMinLevel(logging.Level(cfg.Logging.MinLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := repository.NewManager(os.TempDir(), logger)
	if !*noCleanup {
		defer manager.Cleanup()
	}

	fmt.Printf("Acquiring repository: %s\n", repoRef)
	repoPath, err := manager.Acquire(ctx, repoRef)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error acquiring repository: %v\n", err)
		return 1
	}

	registry := tool.NewRegistry(analyzer.New(repoPath))

	client := model.NewClient(apiKey, cfg.Model.BaseURL)
	ledger := usage.NewLedger(pricing)

	hub := telemetry.NewHub()
	defer hub.Close()
	if !*quiet {
		events, unsubscribe := hub.Subscribe()
		defer unsubscribe()
		go watchEvents(events)
	}

	eval := evaluator.New(client, cfg.Model.Name, registry, ledger, repoPath,
		evaluator.WithRunID(runID),
		evaluator.WithLogger(logger),
		evaluator.WithTelemetry(hub),
		evaluator.WithCriterionTimeout(cfg.Model.CriterionTimeout),
		evaluator.WithMaxSteps(cfg.Model.MaxSteps))

	fmt.Printf("Evaluating %d criteria with %s\n\n", len(rubric), cfg.Model.Name)
	results, progress, err := eval.EvaluateAll(ctx, rubric)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during evaluation: %v\n", err)
		return 1
	}
	if progress.Failed() > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d criteria failed to evaluate\n", progress.Failed())
	}

	improvements := report.Improvements(results)
	evaluation := criteria.NewProjectEvaluation(repoRef, repoPath, results, improvements)

	if cfg.Output.Console {
		fmt.Println()
		report.Console(os.Stdout, evaluation)
	}

	out := *outputPath
	if out == "" {
		out = filepath.Join(cfg.Output.Dir, reportFileName(repoRef))
	}
	savedPath, err := report.Save(evaluation, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving report: %v\n", err)
		return 1
	}
	fmt.Printf("\nReport saved to %s\n", savedPath)
	fmt.Println(ledger.FormatSummary())

	return 0
}

// watchEvents prints live progress from the telemetry hub.
func watchEvents(events <-chan telemetry.Event) {
	for event := range events {
		switch event.Type {
		case telemetry.EventCriterionStarted:
			fmt.Printf("  [%s] evaluating %s\n", timestamp(event.Timestamp), event.Criterion)
		case telemetry.EventCriterionCompleted:
			fmt.Printf("  [%s] done: %s (score %v/%v)\n", timestamp(event.Timestamp),
				event.Criterion, event.Data["score"], event.Data["max_score"])
		case telemetry.EventCriterionFailed:
			fmt.Printf("  [%s] FAILED: %s (%v)\n", timestamp(event.Timestamp),
				event.Criterion, event.Data["error"])
		case telemetry.EventToolCompleted:
			fmt.Printf("  [%s]   tool %v\n", timestamp(event.Timestamp), event.Data["tool"])
		}
	}
}

func timestamp(t time.Time) string {
	return t.Format("15:04:05")
}

// reportFileName derives a report name from the repository reference.
func reportFileName(repoRef string) string {
	loc := repository.ParseURL(repoRef)
	base := filepath.Base(loc.CloneURL)
	if ext := filepath.Ext(base); ext == ".git" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" || base == "." || base == "/" {
		base = "project"
	}
	return base + "_report.md"
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ducminhle1904/funding-arb-advisor/internal/advisor"
	"github.com/ducminhle1904/funding-arb-advisor/internal/config"
	"github.com/ducminhle1904/funding-arb-advisor/internal/logger"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
	"github.com/ducminhle1904/funding-arb-advisor/pkg/reporting"
)

func main() {
	var (
		configFile    = flag.String("config", "", "Configuration file (YAML); defaults apply when omitted")
		envFile       = flag.String("env", ".env", "Environment file path")
		profilePath   = flag.String("profile", "", "Capital profile path - overrides config")
		jsonOut       = flag.Bool("json", false, "Print results as JSON instead of tables")
		xlsxPath      = flag.String("xlsx", "", "Also write the run to an xlsx workbook at this path")
		csvPath       = flag.String("csv", "", "Also write the recommendations to a CSV file at this path")
		target        = flag.Bool("target", false, "Check progress toward the daily return target")
		opportunities = flag.Bool("opportunities", false, "Run a recommendation cycle (the default action)")
		executeID     = flag.String("execute", "", "Execute the opportunity with this id")
		size          = flag.Float64("size", 0, "Position size in USD for -execute")
		closeID       = flag.String("close", "", "Close the execution with this id")
		showMetrics   = flag.Bool("platform-metrics", false, "Show platform-side metrics")
	)
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		log.Printf("Warning: could not load env file (%v), using process environment", err)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *profilePath != "" {
		cfg.Profile.Path = *profilePath
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	client, err := platform.NewClient(platform.Config{
		BaseURL:        cfg.Platform.BaseURL,
		APIKey:         cfg.Platform.APIKey,
		Timeout:        cfg.Timeout(),
		RequestsPerSec: cfg.Platform.RequestsPerSec,
		Burst:          cfg.Platform.Burst,
		Retry: platform.RetryConfig{
			MaxRetries:    cfg.Platform.MaxRetries,
			InitialDelay:  cfg.RetryInitial(),
			MaxDelay:      cfg.RetryMax(),
			BackoffFactor: 2.0,
			JitterEnabled: true,
		},
	}, zlog)
	if err != nil {
		log.Fatalf("Failed to create platform client: %v", err)
	}

	engine := advisor.New(client, advisor.Config{
		Store:        profile.NewStore(cfg.Profile.Path),
		PerPairLimit: cfg.Scan.PerPairLimit,
		SortBy:       cfg.Scan.SortBy,
	}, zlog)
	if err := engine.LoadProfile(); err != nil {
		log.Fatalf("Failed to load capital profile: %v", err)
	}

	reporter := reporting.NewReporter()
	ctx := context.Background()

	switch {
	case *executeID != "":
		runExecute(ctx, client, reporter, *executeID, *size, *jsonOut)
	case *closeID != "":
		runClose(ctx, client, reporter, *closeID, *jsonOut)
	case *showMetrics:
		runPlatformMetrics(ctx, client, reporter, *jsonOut)
	case *target:
		runTarget(ctx, engine, reporter, *jsonOut)
	default:
		_ = *opportunities
		runRecommendations(ctx, engine, reporter, reporting.Options{
			JSON:     *jsonOut,
			XLSXPath: *xlsxPath,
			CSVPath:  *csvPath,
		})
	}
}

func runRecommendations(ctx context.Context, engine *advisor.Engine, reporter *reporting.Reporter, opts reporting.Options) {
	rec, err := engine.GetRecommendations(ctx)
	if err != nil {
		log.Fatalf("Recommendation run failed: %v", err)
	}

	snap := reporting.Snapshot{Recommendation: rec, Positions: engine.Positions()}
	if summary, err := engine.BalanceSummary(); err == nil {
		snap.Balances = summary
	}

	if err := reporter.ReportRun(snap, opts); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if !opts.JSON {
		if snap.Balances != nil {
			reporter.PrintBalances(snap.Balances, portfolio.RebalanceSuggestions(snap.Balances))
		}
		if analysis, err := engine.Diversification(); err == nil {
			reporter.PrintDiversification(&analysis)
		}
	}
	if opts.XLSXPath != "" {
		fmt.Printf("\n📄 Workbook written to %s\n", opts.XLSXPath)
	}
	if opts.CSVPath != "" {
		fmt.Printf("📄 CSV written to %s\n", opts.CSVPath)
	}
}

func runTarget(ctx context.Context, engine *advisor.Engine, reporter *reporting.Reporter, jsonOut bool) {
	tp, err := engine.CheckTargetProgress(ctx)
	if err != nil {
		log.Fatalf("Target progress check failed: %v", err)
	}
	if jsonOut {
		if err := reporter.PrintJSON(tp); err != nil {
			log.Fatalf("Failed to encode target progress: %v", err)
		}
		return
	}
	reporter.PrintTargetProgress(tp)
}

func runExecute(ctx context.Context, client *platform.Client, reporter *reporting.Reporter, id string, size float64, jsonOut bool) {
	if size <= 0 {
		log.Fatal("Please specify a positive -size for -execute")
	}
	exec, err := client.ExecuteOpportunity(ctx, platform.ExecuteRequest{
		OpportunityID: id,
		Size:          decimal.NewFromFloat(size),
	})
	if err != nil {
		log.Fatalf("Execution failed: %v", err)
	}
	if jsonOut {
		if err := reporter.PrintJSON(exec); err != nil {
			log.Fatalf("Failed to encode execution: %v", err)
		}
		return
	}
	fmt.Printf("✅ Execution %s opened: %s %s->%s, size $%s\n",
		exec.ID, exec.Symbol, exec.LongExchange, exec.ShortExchange, exec.InputAmount.StringFixed(2))
}

func runClose(ctx context.Context, client *platform.Client, reporter *reporting.Reporter, id string, jsonOut bool) {
	result, err := client.CloseExecution(ctx, id)
	if err != nil {
		log.Fatalf("Close failed: %v", err)
	}
	if jsonOut {
		if err := reporter.PrintJSON(result); err != nil {
			log.Fatalf("Failed to encode close result: %v", err)
		}
		return
	}
	fmt.Printf("✅ Execution %s is %s, realized PnL $%s\n",
		result.ExecutionID, result.Status, result.RealizedPnl.StringFixed(2))
}

func runPlatformMetrics(ctx context.Context, client *platform.Client, reporter *reporting.Reporter, jsonOut bool) {
	m, err := client.FetchMetrics(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch platform metrics: %v", err)
	}
	if jsonOut {
		if err := reporter.PrintJSON(m); err != nil {
			log.Fatalf("Failed to encode metrics: %v", err)
		}
		return
	}
	reporter.PrintPlatformMetrics(m)
}

// loadEnvFile loads environment variables from a file
func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}

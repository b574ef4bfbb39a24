package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ducminhle1904/funding-arb-advisor/internal/advisor"
	"github.com/ducminhle1904/funding-arb-advisor/internal/config"
	"github.com/ducminhle1904/funding-arb-advisor/internal/logger"
	"github.com/ducminhle1904/funding-arb-advisor/internal/monitoring"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
	"github.com/ducminhle1904/funding-arb-advisor/pkg/reporting"
)

// clearScreen is the ANSI erase-display plus cursor-home sequence.
const clearScreen = "\033[2J\033[H"

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file (YAML); defaults apply when omitted")
		envFile     = flag.String("env", ".env", "Environment file path")
		profilePath = flag.String("profile", "", "Capital profile path - overrides config")
		refresh     = flag.Int("refresh", 0, "Refresh interval in seconds - overrides config")
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
	if *refresh > 0 {
		cfg.Dashboard.RefreshSeconds = *refresh
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
	if _, err := engine.Profile(); err != nil {
		log.Fatal("No capital profile configured - create one with profilectl -init")
	}

	health := monitoring.NewHealthChecker(3 * cfg.RefreshInterval())
	health.SetProfileLoaded(true)

	if cfg.Dashboard.MetricsPort > 0 {
		go serveMetrics(cfg.Dashboard.MetricsPort, health, zlog)
	}

	fmt.Println("🚀 Funding Arb Dashboard starting...")

	reporter := reporting.NewConsoleReporter()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.RefreshInterval())
	defer ticker.Stop()

	ctx := context.Background()
	render(ctx, engine, reporter, health, cfg.Dashboard.RefreshSeconds)

	for {
		select {
		case <-sigChan:
			fmt.Println("\n🛑 Shutdown signal received, stopping dashboard")
			return
		case <-ticker.C:
			render(ctx, engine, reporter, health, cfg.Dashboard.RefreshSeconds)
		}
	}
}

// render runs one full advisor cycle and repaints the terminal. Failures
// leave the previous frame on screen so stale numbers stay visible
// rather than vanishing.
func render(ctx context.Context, engine *advisor.Engine, reporter *reporting.ConsoleReporter, health *monitoring.HealthChecker, refreshSeconds int) {
	rec, err := engine.GetRecommendations(ctx)
	if err != nil {
		health.RecordRefresh(err)
		fmt.Printf("⚠️ Refresh failed: %v\n", err)
		return
	}
	if rec.PortfolioStale {
		health.RecordRefresh(fmt.Errorf("portfolio refresh failed"))
	} else {
		health.RecordRefresh(nil)
	}

	fmt.Print(clearScreen)
	fmt.Printf("FUNDING ARB DASHBOARD - %s (refreshes every %ds, Ctrl+C to quit)\n",
		time.Now().Format("15:04:05"), refreshSeconds)
	if rec.PortfolioStale {
		fmt.Println("⚠️ PORTFOLIO DATA IS STALE - the last platform refresh failed")
	}

	reporter.PrintRecommendations(rec)
	reporter.PrintPositions(engine.Positions())
	if summary, err := engine.BalanceSummary(); err == nil {
		reporter.PrintBalances(summary, portfolio.RebalanceSuggestions(summary))
	}
	if analysis, err := engine.Diversification(); err == nil {
		reporter.PrintDiversification(&analysis)
	}
	if tp, err := engine.CheckTargetProgress(ctx); err == nil {
		reporter.PrintTargetProgress(tp)
	}
}

func serveMetrics(port int, health *monitoring.HealthChecker, zlog *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", health)

	addr := fmt.Sprintf(":%d", port)
	zlog.Info("metrics server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		zlog.Warn("metrics server stopped", zap.Error(err))
	}
}

// loadEnvFile loads environment variables from a file
func loadEnvFile(envFile string) error {
	if _, err := os.Stat(envFile); err == nil {
		return godotenv.Load(envFile)
	}
	return fmt.Errorf("env file %s not found", envFile)
}

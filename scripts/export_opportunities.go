package main

// Pulls the current funding-rate arbitrage opportunities for a set of
// exchanges and writes them to a CSV file for offline analysis.
//
// Usage:
//
//	FUNDING_ARB_API_KEY=... go run ./scripts -exchanges bybit,kucoin,okx -out opportunities.csv

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ducminhle1904/funding-arb-advisor/internal/config"
	"github.com/ducminhle1904/funding-arb-advisor/internal/logger"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
)

func main() {
	var (
		exchanges = flag.String("exchanges", "bybit,kucoin", "Comma-separated exchanges to scan pairwise")
		limit     = flag.Int("limit", 25, "Opportunities per directed exchange pair")
		sortBy    = flag.String("sort", "spread", "Platform sort order: spread, score or volume")
		out       = flag.String("out", "opportunities.csv", "Output CSV path")
	)
	flag.Parse()

	names := splitList(*exchanges)
	if len(names) < 2 {
		log.Fatal("Need at least two exchanges to form a pair")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
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

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"Symbol", "Long", "Short", "Spread", "Long_Funding", "Short_Funding", "Liquidity", "Hours_To_Funding", "Fetched_At",
	}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	ctx := context.Background()
	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	total := 0

	for _, long := range names {
		for _, short := range names {
			if long == short {
				continue
			}
			opps, err := client.FetchOpportunities(ctx, platform.OpportunityQuery{
				LongExchange:  long,
				ShortExchange: short,
				Limit:         *limit,
				SortBy:        *sortBy,
			})
			if err != nil {
				log.Printf("Skipping %s->%s: %v", long, short, err)
				continue
			}
			for _, opp := range opps {
				row := []string{
					opp.Symbol,
					opp.LongExchange,
					opp.ShortExchange,
					fmt.Sprintf("%.6f", opp.Spread),
					fmt.Sprintf("%.6f", opp.LongFundingRate),
					fmt.Sprintf("%.6f", opp.ShortFundingRate),
					fmt.Sprintf("%.1f", opp.Liquidity()),
					fmt.Sprintf("%.2f", opp.FundingHours()),
					fetchedAt,
				}
				if err := w.Write(row); err != nil {
					log.Fatalf("Failed to write row: %v", err)
				}
				total++
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush CSV: %v", err)
	}

	fmt.Printf("Wrote %d opportunities to %s\n", total, *out)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

package reporting

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/funding-arb-advisor/internal/advisor"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
	"github.com/ducminhle1904/funding-arb-advisor/internal/risk"
)

func sampleRecommendation() *advisor.StrategyRecommendation {
	rec := &advisor.StrategyRecommendation{
		GeneratedAt: time.Date(2026, 8, 22, 9, 30, 0, 0, time.UTC),
		Recommendations: []advisor.RecommendedOpportunity{
			{
				Opportunity: platform.Opportunity{
					ID:            "opp-1",
					Symbol:        "BTCUSDT",
					LongExchange:  "bybit",
					ShortExchange: "kucoin",
					Spread:        0.05,
				},
				Score:           17.56,
				RecommendedSize: 400,
				ExpectedReturn:  15,
				RiskFactors: risk.RiskFactors{
					SpreadRisk:      50,
					VolumeRisk:      20,
					FundingTimeRisk: 5,
					Overall:         22,
				},
				SizingReasoning: []string{
					"Base size $400.00 (20% of $2000.00 capital)",
					"Rounded down to whole dollars",
				},
			},
		},
		ExpectedDailyReturn: 15,
		CapitalUtilization:  20,
		ProgressToTarget:    750,
		RiskLevel:           "low",
		PositionsOpen:       1,
		PositionsMax:        5,
	}
	rec.Summary = "Recommending 1 new position(s) totaling $400. Expected daily return 15.00% at 20.0% capital utilization."
	return rec
}

func samplePositions() []portfolio.CurrentPosition {
	openedAt := time.Date(2026, 8, 22, 5, 0, 0, 0, time.UTC)
	return []portfolio.CurrentPosition{
		{
			ExecutionID:          "exec-1",
			Symbol:               "BTCUSDT",
			LongExchange:         "bybit",
			ShortExchange:        "kucoin",
			Size:                 600,
			UnrealizedPnl:        3.6,
			UnrealizedPnlPercent: 0.6,
			EstimatedDailyReturn: 0.9,
			HoursOpen:            4.5,
			OpenedAt:             openedAt,
		},
		{
			ExecutionID:          "exec-2",
			Symbol:               "ETHUSDT",
			LongExchange:         "okx",
			ShortExchange:        "binance",
			Size:                 400,
			UnrealizedPnl:        -1.2,
			UnrealizedPnlPercent: -0.3,
			EstimatedDailyReturn: 0.45,
			HoursOpen:            1.5,
			OpenedAt:             openedAt,
		},
	}
}

func sampleBalances() *portfolio.BalanceSummary {
	return &portfolio.BalanceSummary{
		Exchanges: map[string]*portfolio.ExchangeBalance{
			"bybit":  {Exchange: "bybit", Total: 1000, Allocated: 200, Available: 800, MarginInUse: 40},
			"kucoin": {Exchange: "kucoin", Total: 1000, Allocated: 200, Available: 800, MarginInUse: 40},
		},
		TotalCapital:       2000,
		TotalAllocated:     400,
		TotalAvailable:     1600,
		UtilizationPercent: 20,
	}
}

// A full run renders the headline block, the scored table and the
// per-candidate sizing detail.
func TestConsoleReporter_PrintRecommendations(t *testing.T) {
	rec := sampleRecommendation()

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintRecommendations(rec)

	out := buf.String()
	assert.Contains(t, out, "STRATEGY RECOMMENDATIONS")
	assert.Contains(t, out, "Expected Daily:      15.00%")
	assert.Contains(t, out, "Progress To Target:  750.0%")
	assert.Contains(t, out, "Capital Utilization: 20.0%")
	assert.Contains(t, out, "Risk Level:          LOW")
	assert.Contains(t, out, "Open Positions:      1/5")
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "bybit->kucoin")
	assert.Contains(t, out, "5.000%")
	assert.Contains(t, out, "17.56")
	assert.Contains(t, out, "$400.00")
	assert.Contains(t, out, "Sizing Detail:")
	assert.Contains(t, out, "Base size $400.00 (20% of $2000.00 capital)")
	assert.Contains(t, out, rec.Summary)
}

// An empty run prints the no-candidates line instead of a table, and
// warnings render on their own lines.
func TestConsoleReporter_PrintRecommendations_Empty(t *testing.T) {
	rec := sampleRecommendation()
	rec.Recommendations = nil
	rec.Warnings = []string{"Maximum positions reached (5/5) - no new recommendations"}
	rec.Summary = "No new positions recommended right now."

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintRecommendations(rec)

	out := buf.String()
	assert.Contains(t, out, "No new opportunities recommended right now.")
	assert.Contains(t, out, "Maximum positions reached (5/5)")
	assert.NotContains(t, out, "Sizing Detail")
}

func TestConsoleReporter_PrintTargetProgress(t *testing.T) {
	tp := &advisor.TargetProgress{
		TargetPercent:        2,
		CurrentReturnPercent: 1.2,
		ProgressPercent:      60,
		DeployedCapital:      1000,
		AvailableCapital:     1000,
		PositionsOpen:        2,
		PositionsNeeded:      1,
		Suggestions:          []string{"Halfway to the daily target - about 1 more position(s) at current returns"},
		PortfolioStale:       true,
	}

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintTargetProgress(tp)

	out := buf.String()
	assert.Contains(t, out, "DAILY TARGET PROGRESS")
	assert.Contains(t, out, "Daily Target:      2.00%")
	assert.Contains(t, out, "Current Return:    1.20%")
	assert.Contains(t, out, "Progress:          60.0%")
	assert.Contains(t, out, "Deployed Capital:  $1000.00")
	assert.Contains(t, out, "Positions Needed:  1")
	assert.Contains(t, out, "figures use the last known snapshot")
	assert.Contains(t, out, "Halfway to the daily target")
}

// The needed-positions line and the stale marker only render when they
// carry information.
func TestConsoleReporter_PrintTargetProgress_TargetMet(t *testing.T) {
	tp := &advisor.TargetProgress{
		TargetPercent:        0.5,
		CurrentReturnPercent: 0.6,
		ProgressPercent:      120,
	}

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintTargetProgress(tp)

	out := buf.String()
	assert.NotContains(t, out, "Positions Needed")
	assert.NotContains(t, out, "last known snapshot")
}

func TestConsoleReporter_PrintPositions(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintPositions(samplePositions())

	out := buf.String()
	assert.Contains(t, out, "OPEN POSITIONS")
	assert.Contains(t, out, "BTCUSDT")
	assert.Contains(t, out, "bybit->kucoin")
	assert.Contains(t, out, "okx->binance")
	assert.Contains(t, out, "$600.00")
	assert.Contains(t, out, "$-1.20")
	assert.Contains(t, out, "Total Deployed: $1000.00")
	assert.Contains(t, out, "Est. Daily Return: 1.35%")
}

func TestConsoleReporter_PrintPositions_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintPositions(nil)

	assert.Contains(t, buf.String(), "No positions open.")
}

func TestConsoleReporter_PrintBalances(t *testing.T) {
	suggestions := []portfolio.RebalanceSuggestion{
		{From: "bybit", To: "kucoin", Amount: 100, Reason: "kucoin is low on available balance ($90.00)"},
	}

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintBalances(sampleBalances(), suggestions)

	out := buf.String()
	assert.Contains(t, out, "EXCHANGE BALANCES")
	assert.Contains(t, out, "bybit")
	assert.Contains(t, out, "kucoin")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "$1600.00")
	assert.Contains(t, out, "Utilization: 20.0%")
	assert.Contains(t, out, "Move $100.00 from bybit to kucoin")
	assert.Contains(t, out, "kucoin is low on available balance ($90.00)")
}

func TestConsoleReporter_PrintDiversification(t *testing.T) {
	analysis := &portfolio.DiversificationAnalysis{
		Score:       50,
		ByExchange:  map[string]float64{"bybit": 50, "kucoin": 50},
		BySymbol:    map[string]float64{"BTCUSDT": 100},
		Warnings:    []string{"Symbol BTCUSDT is 100.0% of deployed capital (limit 20.0%)"},
		Suggestions: []string{"Spread capital across more markets than BTCUSDT"},
	}

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintDiversification(analysis)

	out := buf.String()
	assert.Contains(t, out, "DIVERSIFICATION")
	assert.Contains(t, out, "Score: 50/100")
	assert.Contains(t, out, "By exchange:")
	assert.Contains(t, out, "By symbol:")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "Symbol BTCUSDT is 100.0% of deployed capital")
	assert.Contains(t, out, "Spread capital across more markets")
}

func TestConsoleReporter_PrintProfile(t *testing.T) {
	prof, err := profile.New(profile.RiskConservative)
	require.NoError(t, err)
	require.NoError(t, prof.SetBalance("bybit", 1000))
	require.NoError(t, prof.SetBalance("kucoin", 1000))
	prof.SetExchangeEnabled("kucoin", false)

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintProfile(prof)

	out := buf.String()
	assert.Contains(t, out, "CAPITAL PROFILE")
	assert.Contains(t, out, "conservative")
	assert.Contains(t, out, "2.00%")
	assert.Contains(t, out, "0.0500")
	assert.Contains(t, out, "$2000.00")
	assert.Contains(t, out, "EXCHANGES")
	assert.Contains(t, out, "✅")
	assert.Contains(t, out, "❌")
	assert.Contains(t, out, "Updated:")
}

func TestConsoleReporter_PrintPlatformMetrics(t *testing.T) {
	m := &platform.Metrics{
		PairsScanned:     1520,
		OpportunitiesNow: 14,
		ActiveExecutions: 3,
		SuccessRate:      0.97,
		FundingCollected: decimal.NewFromFloat(41.23),
		UpdatedAt:        time.Date(2026, 8, 22, 9, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	NewConsoleReporterTo(&buf).PrintPlatformMetrics(m)

	out := buf.String()
	assert.Contains(t, out, "PLATFORM METRICS")
	assert.Contains(t, out, "Pairs Scanned:     1520")
	assert.Contains(t, out, "Opportunities Now: 14")
	assert.Contains(t, out, "Active Executions: 3")
	assert.Contains(t, out, "Success Rate:      97.0%")
	assert.Contains(t, out, "Funding Collected: $41.23")
}

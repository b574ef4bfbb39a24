package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

func newTestProfile(t *testing.T, level profile.RiskLevel, balances map[string]float64) *profile.CapitalProfile {
	t.Helper()
	prof, err := profile.New(level)
	if err != nil {
		t.Fatalf("profile.New(%s): %v", level, err)
	}
	for exchange, amount := range balances {
		if err := prof.SetBalance(exchange, amount); err != nil {
			t.Fatalf("SetBalance(%s): %v", exchange, err)
		}
	}
	return prof
}

// TestCalculatePositionSize_BaseSizeUncapped covers the happy path: a
// conservative profile with $1000 on each leg takes the full 20% base
// size with no further caps.
func TestCalculatePositionSize_BaseSizeUncapped(t *testing.T) {
	prof := newTestProfile(t, profile.RiskConservative, map[string]float64{"bybit": 1000, "kucoin": 1000})
	opp := platform.Opportunity{
		Symbol:         "BTCUSDT",
		LongExchange:   "bybit",
		ShortExchange:  "kucoin",
		Spread:         0.05,
		LiquidityScore: floatPtr(80),
		HoursToFunding: floatPtr(1),
	}

	rec := CalculatePositionSize(opp, prof, 0)

	assert.Equal(t, 400.0, rec.Size)
	assert.Len(t, rec.Reasoning, 1)
	assert.Contains(t, rec.Reasoning[0], "Base size $400.00")
}

// TestCalculatePositionSize_ThinLegCapsAndKills checks that a route
// whose thinner leg holds almost nothing gets capped below the viable
// minimum and collapses to zero.
func TestCalculatePositionSize_ThinLegCapsAndKills(t *testing.T) {
	prof := newTestProfile(t, profile.RiskConservative, map[string]float64{"bybit": 1000, "kucoin": 100})
	opp := platform.Opportunity{
		Symbol:        "BTCUSDT",
		LongExchange:  "bybit",
		ShortExchange: "kucoin",
		Spread:        0.05,
	}

	rec := CalculatePositionSize(opp, prof, 0)

	assert.Equal(t, 0.0, rec.Size)
	assert.Contains(t, rec.Reasoning[1], "Capped at $40.00 by conservative preset")
	assert.Contains(t, rec.Reasoning[len(rec.Reasoning)-1], "too small, skipping")
}

// TestCalculatePositionSize_NoBalances checks that a profile with no
// funded exchanges sizes every route to zero instead of erroring.
func TestCalculatePositionSize_NoBalances(t *testing.T) {
	prof := newTestProfile(t, profile.RiskConservative, nil)
	opp := platform.Opportunity{
		Symbol:        "BTCUSDT",
		LongExchange:  "bybit",
		ShortExchange: "kucoin",
		Spread:        0.05,
	}

	rec := CalculatePositionSize(opp, prof, 0)

	assert.Equal(t, 0.0, rec.Size)
	assert.Len(t, rec.Reasoning, 2)
	assert.Contains(t, rec.Reasoning[0], "Base size $0.00")
	assert.Contains(t, rec.Reasoning[1], "too small, skipping")
}

// TestCalculatePositionSize_MaxPositionsTerminal checks that a full
// position book stops the pipeline before any division by slot count.
func TestCalculatePositionSize_MaxPositionsTerminal(t *testing.T) {
	prof := newTestProfile(t, profile.RiskConservative, map[string]float64{"bybit": 1000, "kucoin": 1000})
	opp := platform.Opportunity{
		Symbol:        "BTCUSDT",
		LongExchange:  "bybit",
		ShortExchange: "kucoin",
		Spread:        0.05,
	}

	rec := CalculatePositionSize(opp, prof, prof.MaxOpenPositions)

	assert.Equal(t, 0.0, rec.Size)
	assert.Contains(t, rec.Reasoning[len(rec.Reasoning)-1], "Maximum positions reached (5/5)")
}

// TestCalculatePositionSize_SlotCap checks that capital reserved for the
// remaining position slots caps an oversized base.
func TestCalculatePositionSize_SlotCap(t *testing.T) {
	prof := newTestProfile(t, profile.RiskModerate, map[string]float64{"bybit": 1500, "kucoin": 1500})
	opp := platform.Opportunity{
		Symbol:         "ETHUSDT",
		LongExchange:   "bybit",
		ShortExchange:  "kucoin",
		Spread:         0.05,
		LiquidityScore: floatPtr(80),
		HoursToFunding: floatPtr(1),
	}

	rec := CalculatePositionSize(opp, prof, 0)

	// Base is 40% of $3000 = $1200; three slots reserve it down to $1000.
	assert.Equal(t, 1000.0, rec.Size)
	assert.Contains(t, rec.Reasoning[1], "Reserved capital across 3 position slots: $1000.00")
}

// TestCalculatePositionSize_HighRiskHalves checks the 50% haircut above
// overall risk 70 and the whole-dollar rounding after it.
func TestCalculatePositionSize_HighRiskHalves(t *testing.T) {
	prof := newTestProfile(t, profile.RiskModerate, map[string]float64{"bybit": 1000, "kucoin": 1000})
	opp := platform.Opportunity{
		Symbol:         "DOGEUSDT",
		LongExchange:   "bybit",
		ShortExchange:  "kucoin",
		Spread:         0.01,
		LiquidityScore: floatPtr(10),
		HoursToFunding: floatPtr(20),
		PriceDiffPct:   floatPtr(1),
	}

	rec := CalculatePositionSize(opp, prof, 0)

	// Base $800 -> slot cap $666.67 -> halved to $333.33 -> floored.
	assert.Equal(t, 333.0, rec.Size)
	assert.Contains(t, rec.Reasoning[2], "size halved")
	assert.Contains(t, rec.Reasoning[3], "Rounded down to whole dollars")
}

// TestCalculatePositionSize_ElevatedRiskShrinks checks the 25% haircut
// between overall risk 50 and 70.
func TestCalculatePositionSize_ElevatedRiskShrinks(t *testing.T) {
	prof := newTestProfile(t, profile.RiskAggressive, map[string]float64{"bybit": 1000, "kucoin": 1000})
	opp := platform.Opportunity{
		Symbol:        "SOLUSDT",
		LongExchange:  "bybit",
		ShortExchange: "kucoin",
		// Spread risk 80, volume risk 80, time risk 40: overall 56.
		Spread:         0.02,
		LiquidityScore: floatPtr(20),
	}

	rec := CalculatePositionSize(opp, prof, 0)

	assert.Equal(t, 1200.0, rec.Size)
	assert.Contains(t, rec.Reasoning[1], "size reduced to $1200.00")
}

// TestCalculatePositionSize_MinViableOverride checks that raising the
// viable minimum kills sizes the default would have allowed.
func TestCalculatePositionSize_MinViableOverride(t *testing.T) {
	old := MinViablePositionSize
	MinViablePositionSize = 500
	defer func() { MinViablePositionSize = old }()

	prof := newTestProfile(t, profile.RiskConservative, map[string]float64{"bybit": 1000, "kucoin": 1000})
	opp := platform.Opportunity{
		Symbol:        "BTCUSDT",
		LongExchange:  "bybit",
		ShortExchange: "kucoin",
		Spread:        0.05,
	}

	rec := CalculatePositionSize(opp, prof, 0)

	assert.Equal(t, 0.0, rec.Size)
	assert.Contains(t, rec.Reasoning[len(rec.Reasoning)-1], "below $500 minimum")
}

// TestCalculatePositionSize_NeverExceedsBase checks the pipeline only
// ever shrinks: whatever the caps do, the result stays at or below the
// base size.
func TestCalculatePositionSize_NeverExceedsBase(t *testing.T) {
	prof := newTestProfile(t, profile.RiskModerate, map[string]float64{"bybit": 800, "kucoin": 2500})
	base := prof.TotalCapital() * prof.MaxPositionSizePercent / 100

	opps := []platform.Opportunity{
		{Symbol: "BTCUSDT", LongExchange: "bybit", ShortExchange: "kucoin", Spread: 0.05},
		{Symbol: "ETHUSDT", LongExchange: "kucoin", ShortExchange: "bybit", Spread: 0.2, LiquidityScore: floatPtr(95)},
		{Symbol: "DOGEUSDT", LongExchange: "bybit", ShortExchange: "kucoin", Spread: 0.01, LiquidityScore: floatPtr(5), HoursToFunding: floatPtr(23)},
	}

	for _, opp := range opps {
		for open := 0; open < prof.MaxOpenPositions; open++ {
			rec := CalculatePositionSize(opp, prof, open)
			if rec.Size > base {
				t.Errorf("size %.2f for %s with %d open exceeds base %.2f", rec.Size, opp.Symbol, open, base)
			}
		}
	}
}

package advisor

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

func fundedExec(id string, input, netFunding float64) platform.Execution {
	exec := runningExec(id, input)
	exec.NetFunding = decimal.NewFromFloat(netFunding)
	return exec
}

func TestCheckTargetProgress_NoProfile(t *testing.T) {
	engine := newTestEngine(t, &stubPlatform{}, nil)

	_, err := engine.CheckTargetProgress(context.Background())

	assert.ErrorIs(t, err, ErrNoProfile)
}

// TestCheckTargetProgress_EmptyBook checks the estimate falls back to
// the default per-position return when nothing is open yet.
func TestCheckTargetProgress_EmptyBook(t *testing.T) {
	engine := newTestEngine(t, &stubPlatform{}, conservativeProfile(t))

	progress, err := engine.CheckTargetProgress(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, progress.TargetPercent)
	assert.Equal(t, 0.0, progress.CurrentReturnPercent)
	assert.Equal(t, 0.0, progress.ProgressPercent)
	assert.Equal(t, 0.0, progress.DeployedCapital)
	assert.Equal(t, 2000.0, progress.AvailableCapital)
	assert.Equal(t, 0, progress.PositionsOpen)
	// 2% remaining at the default 0.2% per position.
	assert.Equal(t, 10, progress.PositionsNeeded)
	assert.Contains(t, progress.Suggestions, "Far from the daily target - about 10 more position(s) needed at current returns")
	assert.Contains(t, progress.Suggestions, "No positions open - run a recommendation cycle to find opportunities")
}

// TestCheckTargetProgress_TargetReached checks the congratulation path
// once the book out-earns the target.
func TestCheckTargetProgress_TargetReached(t *testing.T) {
	prof, err := profile.New(profile.RiskAggressive)
	require.NoError(t, err)
	require.NoError(t, prof.SetBalance("bybit", 1000))
	require.NoError(t, prof.SetBalance("kucoin", 1000))

	stub := &stubPlatform{
		// $2 funding on $1000 is 0.6% daily against a 0.5% target.
		portfolio: &platform.Portfolio{Executions: []platform.Execution{fundedExec("exec-1", 1000, 2)}},
	}
	engine := newTestEngine(t, stub, prof)

	progress, err := engine.CheckTargetProgress(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 0.6, progress.CurrentReturnPercent, 1e-9)
	assert.InDelta(t, 120.0, progress.ProgressPercent, 1e-9)
	assert.Equal(t, 0, progress.PositionsNeeded)
	assert.Contains(t, progress.Suggestions, "Daily target reached - consider locking in gains or raising the target")
}

// TestCheckTargetProgress_AlmostThere checks the 75% bucket and the
// per-position average drawn from live returns.
func TestCheckTargetProgress_AlmostThere(t *testing.T) {
	stub := &stubPlatform{
		// $4 funding on $750 is 1.6% daily against a 2% target.
		portfolio: &platform.Portfolio{Executions: []platform.Execution{fundedExec("exec-1", 750, 4)}},
	}
	engine := newTestEngine(t, stub, conservativeProfile(t))

	progress, err := engine.CheckTargetProgress(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 80.0, progress.ProgressPercent, 1e-6)
	assert.Equal(t, 1, progress.PositionsNeeded)
	assert.Contains(t, progress.Suggestions, "Almost there: 80% of the daily target")
}

// TestCheckTargetProgress_Halfway checks the 50% bucket.
func TestCheckTargetProgress_Halfway(t *testing.T) {
	stub := &stubPlatform{
		// $4 funding on $1000 is 1.2% daily against a 2% target.
		portfolio: &platform.Portfolio{Executions: []platform.Execution{fundedExec("exec-1", 1000, 4)}},
	}
	engine := newTestEngine(t, stub, conservativeProfile(t))

	progress, err := engine.CheckTargetProgress(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 60.0, progress.ProgressPercent, 1e-6)
	assert.Contains(t, progress.Suggestions, "Halfway to the daily target - about 1 more position(s) at current returns")
}

// TestCheckTargetProgress_LowAvailableCapital checks the low-capital
// nudge when almost everything is deployed or the account is small.
func TestCheckTargetProgress_LowAvailableCapital(t *testing.T) {
	prof, err := profile.New(profile.RiskConservative)
	require.NoError(t, err)
	require.NoError(t, prof.SetBalance("bybit", 60))
	require.NoError(t, prof.SetBalance("kucoin", 30))

	engine := newTestEngine(t, &stubPlatform{}, prof)

	progress, err := engine.CheckTargetProgress(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 90.0, progress.AvailableCapital)
	assert.Contains(t, progress.Suggestions, "Available capital is low ($90.00) - consider adding funds or closing positions")
}

// TestCheckTargetProgress_NoTargetConfigured checks a zero target asks
// for configuration instead of reporting progress.
func TestCheckTargetProgress_NoTargetConfigured(t *testing.T) {
	prof := conservativeProfile(t)
	prof.DailyTargetPercent = 0

	engine := newTestEngine(t, &stubPlatform{}, prof)

	progress, err := engine.CheckTargetProgress(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, progress.ProgressPercent)
	assert.Equal(t, 0, progress.PositionsNeeded)
	assert.Contains(t, progress.Suggestions, "No daily target set - configure one to track progress")
}

// TestCheckTargetProgress_StaleSnapshot checks a failed refresh is
// flagged, not fatal.
func TestCheckTargetProgress_StaleSnapshot(t *testing.T) {
	stub := &stubPlatform{portfolioErr: errors.New("platform down")}
	engine := newTestEngine(t, stub, conservativeProfile(t))

	progress, err := engine.CheckTargetProgress(context.Background())
	require.NoError(t, err)

	assert.True(t, progress.PortfolioStale)
}

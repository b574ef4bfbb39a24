package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
)

func runningExecution(id string, input, netFunding float64, openedAt time.Time) platform.Execution {
	return platform.Execution{
		ID:            id,
		Symbol:        "BTCUSDT",
		LongExchange:  "bybit",
		ShortExchange: "kucoin",
		Status:        platform.StatusRunning,
		InputAmount:   decimal.NewFromFloat(input),
		NetFunding:    decimal.NewFromFloat(netFunding),
		OpenedAt:      openedAt,
	}
}

// TestMapExecutions_FiltersNonRunning checks closed and failed
// executions never become positions.
func TestMapExecutions_FiltersNonRunning(t *testing.T) {
	now := time.Now()
	pf := &platform.Portfolio{
		Executions: []platform.Execution{
			runningExecution("exec-1", 1000, 2, now),
			{ID: "exec-2", Status: platform.StatusClosed, InputAmount: decimal.NewFromInt(500)},
			{ID: "exec-3", Status: platform.StatusFailed},
			{ID: "exec-4", Status: platform.StatusClosing},
		},
	}

	positions := MapExecutions(pf, now)

	assert.Len(t, positions, 1)
	assert.Equal(t, "exec-1", positions[0].ExecutionID)
}

func TestMapExecutions_NilPortfolio(t *testing.T) {
	assert.Nil(t, MapExecutions(nil, time.Now()))
}

// TestMapExecutions_DailyReturn checks the funding-per-period figure is
// annualized to three periods a day.
func TestMapExecutions_DailyReturn(t *testing.T) {
	now := time.Now()
	exec := runningExecution("exec-1", 1000, 2, now.Add(-90*time.Minute))
	exec.TotalPnl = decimal.NewFromFloat(5.5)
	exec.TotalPnlPct = decimal.NewFromFloat(0.015)

	positions := MapExecutions(&platform.Portfolio{Executions: []platform.Execution{exec}}, now)

	pos := positions[0]
	// $2 funding on $1000 is 0.2% per period, 0.6% per day.
	assert.InDelta(t, 0.6, pos.EstimatedDailyReturn, 1e-9)
	assert.InDelta(t, 5.5, pos.UnrealizedPnl, 1e-9)
	assert.InDelta(t, 1.5, pos.UnrealizedPnlPercent, 1e-9)
	assert.InDelta(t, 1.5, pos.HoursOpen, 1e-9)
	assert.Equal(t, 1000.0, pos.Size)
}

// TestMapExecutions_ZeroInputAmount checks a zero-sized execution maps
// without dividing by zero.
func TestMapExecutions_ZeroInputAmount(t *testing.T) {
	now := time.Now()
	pf := &platform.Portfolio{
		Executions: []platform.Execution{runningExecution("exec-1", 0, 3, now)},
	}

	positions := MapExecutions(pf, now)

	assert.Equal(t, 0.0, positions[0].EstimatedDailyReturn)
}

// TestMapExecutions_SpreadsUnknown checks mapped positions carry zero
// spreads until the portfolio API exposes them.
func TestMapExecutions_SpreadsUnknown(t *testing.T) {
	now := time.Now()
	pf := &platform.Portfolio{
		Executions: []platform.Execution{runningExecution("exec-1", 1000, 2, now)},
	}

	positions := MapExecutions(pf, now)

	assert.Equal(t, 0.0, positions[0].EntrySpread)
	assert.Equal(t, 0.0, positions[0].CurrentSpread)
}

func TestTotalDeployed(t *testing.T) {
	positions := []CurrentPosition{{Size: 400}, {Size: 250.5}, {Size: 100}}

	assert.InDelta(t, 750.5, TotalDeployed(positions), 1e-9)
	assert.Equal(t, 0.0, TotalDeployed(nil))
}

func TestTotalDailyReturn(t *testing.T) {
	positions := []CurrentPosition{
		{EstimatedDailyReturn: 0.6},
		{EstimatedDailyReturn: 0.3},
	}

	assert.InDelta(t, 0.9, TotalDailyReturn(positions), 1e-9)
	assert.Equal(t, 0.0, TotalDailyReturn(nil))
}

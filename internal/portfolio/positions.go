// Package portfolio tracks open delta-neutral positions, the per-exchange
// balance ledger they imply and how diversified the book is.
package portfolio

import (
	"time"

	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
)

// FundingPeriodsPerDay converts one 8-hour funding period to a daily
// figure.
const FundingPeriodsPerDay = 3

// CurrentPosition is the engine's view of one running execution. Money
// is float64 here; wire decimals convert at this boundary.
type CurrentPosition struct {
	ExecutionID          string    `json:"executionId"`
	Symbol               string    `json:"symbol"`
	Pair                 string    `json:"pair,omitempty"`
	LongExchange         string    `json:"longExchange"`
	ShortExchange        string    `json:"shortExchange"`
	Size                 float64   `json:"size"`
	EntrySpread          float64   `json:"entrySpread"`
	CurrentSpread        float64   `json:"currentSpread"`
	UnrealizedPnl        float64   `json:"unrealizedPnl"`
	UnrealizedPnlPercent float64   `json:"unrealizedPnlPercent"`
	EstimatedDailyReturn float64   `json:"estimatedDailyReturn"`
	HoursOpen            float64   `json:"hoursOpen"`
	OpenedAt             time.Time `json:"openedAt"`
}

// MapExecutions converts the platform portfolio's running executions
// into positions. Closed and failed executions are dropped.
func MapExecutions(p *platform.Portfolio, now time.Time) []CurrentPosition {
	if p == nil {
		return nil
	}
	positions := make([]CurrentPosition, 0, len(p.Executions))
	for _, exec := range p.Executions {
		if !exec.IsRunning() {
			continue
		}
		positions = append(positions, mapExecution(exec, now))
	}
	return positions
}

func mapExecution(exec platform.Execution, now time.Time) CurrentPosition {
	input := exec.InputAmount.InexactFloat64()
	netFunding := exec.NetFunding.InexactFloat64()

	daily := 0.0
	if input > 0 {
		daily = netFunding / input * 100 * FundingPeriodsPerDay
	}

	return CurrentPosition{
		ExecutionID:          exec.ID,
		Symbol:               exec.Symbol,
		Pair:                 exec.Pair,
		LongExchange:         exec.LongExchange,
		ShortExchange:        exec.ShortExchange,
		Size:                 input,
		// TODO: populate entry/current spread once the portfolio API
		// exposes them; until then 0 means "unknown" and the spread
		// inversion stop never fires from mapped data.
		EntrySpread:          0,
		CurrentSpread:        0,
		UnrealizedPnl:        exec.TotalPnl.InexactFloat64(),
		UnrealizedPnlPercent: exec.TotalPnlPct.InexactFloat64() * 100,
		EstimatedDailyReturn: daily,
		HoursOpen:            now.Sub(exec.OpenedAt).Hours(),
		OpenedAt:             exec.OpenedAt,
	}
}

// TotalDeployed sums the capital sitting in open positions.
func TotalDeployed(positions []CurrentPosition) float64 {
	total := 0.0
	for _, pos := range positions {
		total += pos.Size
	}
	return total
}

// TotalDailyReturn sums the estimated daily return across open
// positions.
func TotalDailyReturn(positions []CurrentPosition) float64 {
	total := 0.0
	for _, pos := range positions {
		total += pos.EstimatedDailyReturn
	}
	return total
}

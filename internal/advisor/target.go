package advisor

import (
	"context"
	"fmt"
	"math"

	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
)

// DefaultAvgReturnPerPosition seeds the positions-needed estimate before
// any open position has collected funding. 0.2% per position per day is
// a deliberately modest assumption.
var DefaultAvgReturnPerPosition = 0.2

// CheckTargetProgress compares the open positions' estimated daily
// return against the profile's target and suggests next steps.
func (e *Engine) CheckTargetProgress(ctx context.Context) (*TargetProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.prof == nil {
		return nil, ErrNoProfile
	}
	prof := e.prof

	stale := e.refreshPositionsLocked(ctx)
	positions := e.positions

	current := portfolio.TotalDailyReturn(positions)
	target := prof.DailyTargetPercent

	progress := 0.0
	if target > 0 {
		progress = current / target * 100
	}

	deployed := portfolio.TotalDeployed(positions)
	available := math.Max(0, prof.TotalCapital()-deployed)

	remaining := math.Max(0, target-current)
	avg := DefaultAvgReturnPerPosition
	if n := len(positions); n > 0 {
		if perPosition := current / float64(n); perPosition > 0 {
			avg = perPosition
		}
	}
	needed := 0
	if remaining > 0 {
		needed = int(math.Ceil(remaining / avg))
	}

	result := &TargetProgress{
		TargetPercent:        target,
		CurrentReturnPercent: current,
		ProgressPercent:      progress,
		DeployedCapital:      deployed,
		AvailableCapital:     available,
		PositionsOpen:        len(positions),
		PositionsNeeded:      needed,
		Suggestions:          targetSuggestions(target, progress, needed, available, len(positions)),
		PortfolioStale:       stale,
	}
	return result, nil
}

func targetSuggestions(target, progress float64, needed int, available float64, openPositions int) []string {
	var suggestions []string

	if target <= 0 {
		suggestions = append(suggestions, "No daily target set - configure one to track progress")
	} else {
		switch {
		case progress >= 100:
			suggestions = append(suggestions, "Daily target reached - consider locking in gains or raising the target")
		case progress >= 75:
			suggestions = append(suggestions, fmt.Sprintf("Almost there: %.0f%% of the daily target", progress))
		case progress >= 50:
			suggestions = append(suggestions, fmt.Sprintf("Halfway to the daily target - about %d more position(s) at current returns", needed))
		default:
			suggestions = append(suggestions, fmt.Sprintf("Far from the daily target - about %d more position(s) needed at current returns", needed))
		}
	}

	if openPositions == 0 {
		suggestions = append(suggestions, "No positions open - run a recommendation cycle to find opportunities")
	}
	if available < portfolio.RebalanceThreshold {
		suggestions = append(suggestions, fmt.Sprintf("Available capital is low ($%.2f) - consider adding funds or closing positions", available))
	}

	return suggestions
}

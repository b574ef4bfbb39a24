package portfolio

import (
	"fmt"
	"math"
	"sort"

	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

// DiversificationAnalysis grades how spread out the open positions are.
// Score runs 0 (all eggs in one basket, or nothing open) to 100.
type DiversificationAnalysis struct {
	Score       float64            `json:"score"`
	ByExchange  map[string]float64 `json:"byExchange"`
	BySymbol    map[string]float64 `json:"bySymbol"`
	Warnings    []string           `json:"warnings"`
	Suggestions []string           `json:"suggestions"`
}

// AnalyzeDiversification computes exchange and symbol concentration for
// the open positions against the preset's diversification minimum.
func AnalyzeDiversification(positions []CurrentPosition, preset profile.Preset) DiversificationAnalysis {
	analysis := DiversificationAnalysis{
		ByExchange: make(map[string]float64),
		BySymbol:   make(map[string]float64),
	}

	totalSize := TotalDeployed(positions)
	if len(positions) == 0 || totalSize <= 0 {
		analysis.Warnings = append(analysis.Warnings, "No positions open")
		return analysis
	}

	for _, pos := range positions {
		halfShare := pos.Size / 2 / totalSize * 100
		analysis.ByExchange[pos.LongExchange] += halfShare
		analysis.ByExchange[pos.ShortExchange] += halfShare
		analysis.BySymbol[pos.Symbol] += pos.Size / totalSize * 100
	}

	divMin := preset.DiversificationMin
	maxAllowed := 100 / float64(divMin)

	maxExchange := 0.0
	for _, name := range sortedKeys(analysis.ByExchange) {
		share := analysis.ByExchange[name]
		if share > maxExchange {
			maxExchange = share
		}
		if share > maxAllowed {
			analysis.Warnings = append(analysis.Warnings,
				fmt.Sprintf("Exchange %s holds %.1f%% of deployed capital (limit %.1f%%)", name, share, maxAllowed))
		}
	}

	maxSymbol := 0.0
	for _, name := range sortedKeys(analysis.BySymbol) {
		share := analysis.BySymbol[name]
		if share > maxSymbol {
			maxSymbol = share
		}
		if share > maxAllowed {
			analysis.Warnings = append(analysis.Warnings,
				fmt.Sprintf("Symbol %s is %.1f%% of deployed capital (limit %.1f%%)", name, share, maxAllowed))
			analysis.Suggestions = append(analysis.Suggestions,
				fmt.Sprintf("Spread capital across more markets than %s", name))
		}
	}

	positionScore := math.Min(100, float64(len(positions))/float64(divMin)*100)
	penalty := (maxExchange + maxSymbol) / 4
	analysis.Score = clampScore(positionScore - penalty)

	if len(positions) < divMin {
		analysis.Suggestions = append(analysis.Suggestions,
			fmt.Sprintf("Open %d more position(s) to reach the diversification minimum of %d", divMin-len(positions), divMin))
	}

	return analysis
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package risk

import (
	"fmt"
	"math"

	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

// MinViablePositionSize is the smallest position worth opening once fees
// and slippage on both legs are paid. Sizes below it collapse to zero.
// A var so operators with fee rebates can lower it.
var MinViablePositionSize = 50.0

// Risk-based shrink factors applied to the provisional size.
const (
	highRiskThreshold     = 70.0
	elevatedRiskThreshold = 50.0
	highRiskShrink        = 0.5
	elevatedRiskShrink    = 0.75
)

// SizeRecommendation is the outcome of the sizing pipeline: the dollars
// to deploy across both legs and the trail of caps that produced it.
type SizeRecommendation struct {
	Size      float64  `json:"size"`
	Reasoning []string `json:"reasoning"`
}

// CalculatePositionSize walks an opportunity through the sizing
// pipeline. Every step can only shrink the size, so the result is
// bounded by the first cap. A zero size means "do not open this" and the
// last reasoning line says why.
func CalculatePositionSize(opp platform.Opportunity, prof *profile.CapitalProfile, openPositions int) SizeRecommendation {
	preset := profile.PresetFor(prof.RiskProfile)
	total := prof.TotalCapital()
	reasoning := make([]string, 0, 6)

	size := total * prof.MaxPositionSizePercent / 100
	reasoning = append(reasoning, fmt.Sprintf("Base size $%.2f (%.0f%% of $%.2f total capital)",
		size, prof.MaxPositionSizePercent, total))

	// Both legs need size/2 in margin, so only twice the thinner leg's
	// balance is usable for this route.
	relevant := 2 * math.Min(prof.Balance(opp.LongExchange), prof.Balance(opp.ShortExchange))
	if presetCap := relevant * preset.MaxPositionSizePercent / 100; size > presetCap {
		size = presetCap
		reasoning = append(reasoning, fmt.Sprintf("Capped at $%.2f by %s preset (%.0f%% of $%.2f usable on %s/%s)",
			size, prof.RiskProfile, preset.MaxPositionSizePercent, relevant, opp.LongExchange, opp.ShortExchange))
	}

	if openPositions >= prof.MaxOpenPositions {
		reasoning = append(reasoning, fmt.Sprintf("Maximum positions reached (%d/%d)", openPositions, prof.MaxOpenPositions))
		return SizeRecommendation{Size: 0, Reasoning: reasoning}
	}

	if slotCap := total / float64(prof.MaxOpenPositions); size > slotCap {
		size = slotCap
		reasoning = append(reasoning, fmt.Sprintf("Reserved capital across %d position slots: $%.2f",
			prof.MaxOpenPositions, size))
	}

	factors := CalculateRiskFactors(opp)
	switch {
	case factors.Overall > highRiskThreshold:
		size *= highRiskShrink
		reasoning = append(reasoning, fmt.Sprintf("High overall risk %.1f: size halved to $%.2f", factors.Overall, size))
	case factors.Overall > elevatedRiskThreshold:
		size *= elevatedRiskShrink
		reasoning = append(reasoning, fmt.Sprintf("Elevated overall risk %.1f: size reduced to $%.2f", factors.Overall, size))
	}

	if size < MinViablePositionSize {
		reasoning = append(reasoning, fmt.Sprintf("Size $%.2f below $%.0f minimum - too small, skipping",
			size, MinViablePositionSize))
		return SizeRecommendation{Size: 0, Reasoning: reasoning}
	}

	if floored := math.Floor(size); floored != size {
		size = floored
		reasoning = append(reasoning, fmt.Sprintf("Rounded down to whole dollars: $%.0f", size))
	}

	return SizeRecommendation{Size: size, Reasoning: reasoning}
}

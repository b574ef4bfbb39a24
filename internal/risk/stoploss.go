package risk

import (
	"fmt"

	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

// Fixed bounds for the stop-loss band. The recommended level sits at the
// preset's stop-loss percent between them.
const (
	ConservativeStopPercent = 2.0
	AggressiveStopPercent   = 10.0
)

// spreadInversionFloor is how far negative the live spread may drift
// before the position is paying funding instead of collecting it.
const spreadInversionFloor = -0.02

// StopLossLevels is the advised stop band for an entry price.
type StopLossLevels struct {
	ConservativePrice  float64 `json:"conservativePrice"`
	RecommendedPrice   float64 `json:"recommendedPrice"`
	AggressivePrice    float64 `json:"aggressivePrice"`
	RecommendedPercent float64 `json:"recommendedPercent"`
	Reasoning          string  `json:"reasoning"`
}

// StopLossRecommendation computes stop prices below the entry: a tight
// 2% conservative stop, a loose 10% aggressive stop and the preset's
// percent as the recommendation for the given risk level.
func StopLossRecommendation(entryPrice float64, level profile.RiskLevel) StopLossLevels {
	preset := profile.PresetFor(level)

	return StopLossLevels{
		ConservativePrice:  stopPrice(entryPrice, ConservativeStopPercent),
		RecommendedPrice:   stopPrice(entryPrice, preset.StopLossPercent),
		AggressivePrice:    stopPrice(entryPrice, AggressiveStopPercent),
		RecommendedPercent: preset.StopLossPercent,
		Reasoning: fmt.Sprintf("%s profile: exit at %.1f%% below entry to cap downside while funding accrues",
			level, preset.StopLossPercent),
	}
}

func stopPrice(entryPrice, percent float64) float64 {
	return entryPrice * (1 - percent/100)
}

// StopOutCheck is the verdict on whether a position should be unwound.
type StopOutCheck struct {
	Stop   bool   `json:"stop"`
	Reason string `json:"reason,omitempty"`
}

// ShouldStopOut decides whether a position has to go. The realized loss
// check runs before the spread inversion check, so when both apply the
// reported reason is the loss.
func ShouldStopOut(unrealizedPnlPercent, currentSpread float64, level profile.RiskLevel) StopOutCheck {
	preset := profile.PresetFor(level)

	if unrealizedPnlPercent < -preset.StopLossPercent {
		return StopOutCheck{
			Stop: true,
			Reason: fmt.Sprintf("unrealized loss %.2f%% breaches the %.1f%% stop-loss",
				unrealizedPnlPercent, preset.StopLossPercent),
		}
	}
	if currentSpread < 0 && currentSpread < spreadInversionFloor {
		return StopOutCheck{
			Stop: true,
			Reason: fmt.Sprintf("funding spread inverted to %.4f; position now pays funding",
				currentSpread),
		}
	}
	return StopOutCheck{}
}

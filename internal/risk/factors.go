// Package risk turns raw opportunities into risk factors, scores, sized
// positions and stop-loss advice. All functions are pure so callers can
// evaluate candidates without touching any shared state.
package risk

import (
	"math"

	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

// RiskFactors decomposes an opportunity's risk into 0-100 components.
// Higher is riskier.
type RiskFactors struct {
	SpreadRisk      float64 `json:"spreadRisk"`
	VolumeRisk      float64 `json:"volumeRisk"`
	FundingTimeRisk float64 `json:"fundingTimeRisk"`
	PriceDeviation  float64 `json:"priceDeviation"`
	Overall         float64 `json:"overall"`
}

// Blend weights for the overall risk score. Spread quality and liquidity
// dominate; funding timing and price drift refine.
const (
	weightSpread         = 0.3
	weightVolume         = 0.3
	weightFundingTime    = 0.2
	weightPriceDeviation = 0.2
)

// CalculateRiskFactors derives the factor breakdown for one opportunity.
// Thin spreads are risky (fees eat them), low liquidity is risky, far-off
// funding leaves more time for the spread to decay, and a price gap
// between the legs risks convergence loss.
func CalculateRiskFactors(opp platform.Opportunity) RiskFactors {
	spreadRisk := clampFactor(100 - opp.Spread*1000)
	volumeRisk := clampFactor(100 - opp.Liquidity())
	fundingTimeRisk := clampFactor(opp.FundingHours() * 5)
	priceDeviation := clampFactor(math.Abs(opp.PriceDeviation()) * 100)

	overall := weightSpread*spreadRisk +
		weightVolume*volumeRisk +
		weightFundingTime*fundingTimeRisk +
		weightPriceDeviation*priceDeviation

	return RiskFactors{
		SpreadRisk:      spreadRisk,
		VolumeRisk:      volumeRisk,
		FundingTimeRisk: fundingTimeRisk,
		PriceDeviation:  priceDeviation,
		Overall:         overall,
	}
}

// Score rates an opportunity for a risk level. Spread pays, risk costs
// (weighted by the preset's risk weight), liquidity and imminent funding
// pay bonuses. Scores never go negative.
func Score(opp platform.Opportunity, level profile.RiskLevel) float64 {
	return ScoreWithFactors(opp, CalculateRiskFactors(opp), level)
}

// ScoreWithFactors is Score for callers that already computed the
// factors.
func ScoreWithFactors(opp platform.Opportunity, factors RiskFactors, level profile.RiskLevel) float64 {
	preset := profile.PresetFor(level)

	score := opp.Spread * 100
	score -= factors.Overall * preset.RiskWeight / 100
	score += opp.Liquidity() / 10
	score += timeBonus(opp.FundingHours())

	return math.Max(0, score)
}

// timeBonus rewards funding events close enough to act on.
func timeBonus(hoursToFunding float64) float64 {
	switch {
	case hoursToFunding < 2:
		return 5
	case hoursToFunding < 4:
		return 2
	default:
		return 0
	}
}

// RiskBucket maps a mean overall risk score onto the coarse low, medium,
// high buckets used in summaries.
func RiskBucket(overall float64) string {
	switch {
	case overall < 30:
		return "low"
	case overall < 60:
		return "medium"
	default:
		return "high"
	}
}

func clampFactor(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

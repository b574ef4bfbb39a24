package advisor

import (
	"time"

	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/risk"
)

// RecommendedOpportunity is one scored, sized candidate the user can
// hand to the platform for execution.
type RecommendedOpportunity struct {
	Opportunity     platform.Opportunity `json:"opportunity"`
	Score           float64              `json:"score"`
	RecommendedSize float64              `json:"recommendedSize"`
	ExpectedReturn  float64              `json:"expectedReturn"`
	RiskFactors     risk.RiskFactors     `json:"riskFactors"`
	SizingReasoning []string             `json:"sizingReasoning"`
}

// StrategyRecommendation is the full outcome of one recommendation run.
type StrategyRecommendation struct {
	GeneratedAt         time.Time                `json:"generatedAt"`
	Recommendations     []RecommendedOpportunity `json:"recommendations"`
	ExpectedDailyReturn float64                  `json:"expectedDailyReturn"`
	CapitalUtilization  float64                  `json:"capitalUtilization"`
	ProgressToTarget    float64                  `json:"progressToTarget"`
	RiskLevel           string                   `json:"riskLevel"`
	Warnings            []string                 `json:"warnings,omitempty"`
	Summary             string                   `json:"summary"`
	PositionsOpen       int                      `json:"positionsOpen"`
	PositionsMax        int                      `json:"positionsMax"`
	PortfolioStale      bool                     `json:"portfolioStale,omitempty"`
}

// TargetProgress reports where the day stands against the configured
// return target.
type TargetProgress struct {
	TargetPercent        float64  `json:"targetPercent"`
	CurrentReturnPercent float64  `json:"currentReturnPercent"`
	ProgressPercent      float64  `json:"progressPercent"`
	DeployedCapital      float64  `json:"deployedCapital"`
	AvailableCapital     float64  `json:"availableCapital"`
	PositionsOpen        int      `json:"positionsOpen"`
	PositionsNeeded      int      `json:"positionsNeeded"`
	Suggestions          []string `json:"suggestions,omitempty"`
	PortfolioStale       bool     `json:"portfolioStale,omitempty"`
}

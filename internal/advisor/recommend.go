package advisor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ducminhle1904/funding-arb-advisor/internal/monitoring"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
	"github.com/ducminhle1904/funding-arb-advisor/internal/risk"
)

// lowUtilizationPercent is the utilization below which an empty
// recommendation list earns a warning.
const lowUtilizationPercent = 50.0

// defaultMeanRisk stands in for the mean candidate risk when no
// candidate survived filtering.
const defaultMeanRisk = 50.0

// GetRecommendations runs one full advisory cycle: refresh positions,
// fetch opportunities for every enabled exchange pair, filter, size,
// score, and fill the remaining position slots with the best candidates.
func (e *Engine) GetRecommendations(ctx context.Context) (*StrategyRecommendation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.prof == nil {
		return nil, ErrNoProfile
	}
	prof := e.prof

	stale := e.refreshPositionsLocked(ctx)
	positions := e.positions

	opportunities := e.fetchOpportunitiesLocked(ctx, prof)
	candidates, meanRisk := e.buildCandidatesLocked(opportunities, prof, positions)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	open := len(positions)
	slots := prof.MaxOpenPositions - open

	var warnings []string
	if stale {
		warnings = append(warnings, "Portfolio refresh failed - using the last known snapshot")
	}

	var selected []RecommendedOpportunity
	if slots <= 0 {
		warnings = append(warnings, fmt.Sprintf("Maximum positions reached (%d/%d) - no new recommendations", open, prof.MaxOpenPositions))
	} else {
		if slots > len(candidates) {
			slots = len(candidates)
		}
		selected = candidates[:slots]
	}

	newCapital := 0.0
	expectedDaily := portfolio.TotalDailyReturn(positions)
	for _, rec := range selected {
		newCapital += rec.RecommendedSize
		expectedDaily += rec.ExpectedReturn
	}

	utilization := 0.0
	if total := prof.TotalCapital(); total > 0 {
		utilization = (portfolio.TotalDeployed(positions) + newCapital) / total * 100
	}

	progress := 0.0
	if prof.DailyTargetPercent > 0 {
		progress = expectedDaily / prof.DailyTargetPercent * 100
	}

	if len(selected) == 0 && utilization < lowUtilizationPercent {
		warnings = append(warnings, fmt.Sprintf("Capital utilization is low (%.1f%%) and no suitable opportunities were found", utilization))
	}
	if progress < 50 {
		warnings = append(warnings, fmt.Sprintf("Expected daily return %.2f%% is below half of the %.2f%% target", expectedDaily, prof.DailyTargetPercent))
	}
	warnings = append(warnings, e.stopOutWarningsLocked(positions, prof)...)

	monitoring.RecordRecommendations(len(selected))
	monitoring.UpdateCapitalUtilization(utilization)
	monitoring.UpdateProgressToTarget(progress)

	result := &StrategyRecommendation{
		GeneratedAt:         time.Now(),
		Recommendations:     selected,
		ExpectedDailyReturn: expectedDaily,
		CapitalUtilization:  utilization,
		ProgressToTarget:    progress,
		RiskLevel:           risk.RiskBucket(meanRisk),
		Warnings:            warnings,
		Summary:             buildSummary(selected, newCapital, expectedDaily, utilization),
		PositionsOpen:       open,
		PositionsMax:        prof.MaxOpenPositions,
		PortfolioStale:      stale,
	}

	e.log.Info("recommendation run complete",
		zap.Int("opportunities", len(opportunities)),
		zap.Int("candidates", len(candidates)),
		zap.Int("recommended", len(selected)),
		zap.Float64("utilization", utilization))

	return result, nil
}

// fetchOpportunitiesLocked queries every directed pair of enabled
// exchanges and deduplicates by opportunity key, first occurrence wins.
// A failing pair is skipped, never fatal.
func (e *Engine) fetchOpportunitiesLocked(ctx context.Context, prof *profile.CapitalProfile) []platform.Opportunity {
	enabled := prof.EnabledExchanges()
	seen := make(map[string]struct{})
	var out []platform.Opportunity

	for _, long := range enabled {
		for _, short := range enabled {
			if long == short {
				continue
			}
			batch, err := e.client.FetchOpportunities(ctx, platform.OpportunityQuery{
				LongExchange:  long,
				ShortExchange: short,
				Limit:         e.perPairLimit,
				SortBy:        e.sortBy,
			})
			if err != nil {
				e.log.Warn("opportunity fetch failed, skipping pair",
					zap.String("long", long),
					zap.String("short", short),
					zap.Error(err))
				continue
			}
			for _, opp := range batch {
				key := opp.Key()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				out = append(out, opp)
			}
		}
	}
	return out
}

// buildCandidatesLocked filters, sizes and scores the fetched
// opportunities. It returns the surviving candidates and the mean
// overall risk across them (pre-selection), which feeds the run's risk
// level.
func (e *Engine) buildCandidatesLocked(opportunities []platform.Opportunity, prof *profile.CapitalProfile, positions []portfolio.CurrentPosition) ([]RecommendedOpportunity, float64) {
	open := len(positions)
	var candidates []RecommendedOpportunity
	riskSum := 0.0

	for _, opp := range opportunities {
		if opp.Spread < prof.MinSpread {
			continue
		}
		if !prof.IsExchangeEnabled(opp.LongExchange) || !prof.IsExchangeEnabled(opp.ShortExchange) {
			continue
		}

		sized := risk.CalculatePositionSize(opp, prof, open)
		if sized.Size <= 0 {
			e.log.Debug("opportunity skipped by sizing",
				zap.String("key", opp.Key()),
				zap.Strings("reasoning", sized.Reasoning))
			continue
		}

		if check := portfolio.HasCapitalFor(prof, positions, opp.LongExchange, opp.ShortExchange, sized.Size); !check.OK {
			e.log.Debug("opportunity skipped by capital check",
				zap.String("key", opp.Key()),
				zap.String("reason", check.Reason))
			continue
		}

		factors := risk.CalculateRiskFactors(opp)
		riskSum += factors.Overall
		candidates = append(candidates, RecommendedOpportunity{
			Opportunity:     opp,
			Score:           risk.ScoreWithFactors(opp, factors, prof.RiskProfile),
			RecommendedSize: sized.Size,
			ExpectedReturn:  opp.Spread * 100 * portfolio.FundingPeriodsPerDay,
			RiskFactors:     factors,
			SizingReasoning: sized.Reasoning,
		})
	}

	monitoring.RecordOpportunitiesScored(len(candidates))

	meanRisk := defaultMeanRisk
	if len(candidates) > 0 {
		meanRisk = riskSum / float64(len(candidates))
	}
	return candidates, meanRisk
}

// stopOutWarningsLocked flags open positions that breach the stop rules.
func (e *Engine) stopOutWarningsLocked(positions []portfolio.CurrentPosition, prof *profile.CapitalProfile) []string {
	var warnings []string
	for _, pos := range positions {
		check := risk.ShouldStopOut(pos.UnrealizedPnlPercent, pos.CurrentSpread, prof.RiskProfile)
		if check.Stop {
			warnings = append(warnings, fmt.Sprintf("Consider closing %s (%s/%s): %s",
				pos.Symbol, pos.LongExchange, pos.ShortExchange, check.Reason))
		}
	}
	return warnings
}

func buildSummary(selected []RecommendedOpportunity, newCapital, expectedDaily, utilization float64) string {
	if len(selected) == 0 {
		return fmt.Sprintf("No new positions recommended right now. Expected daily return from open positions is %.2f%% at %.1f%% capital utilization.",
			expectedDaily, utilization)
	}
	return fmt.Sprintf("Recommending %d new position(s) totaling $%.0f. Expected daily return %.2f%% at %.1f%% capital utilization.",
		len(selected), newCapital, expectedDaily, utilization)
}

// Package advisor hosts the recommendation engine: it owns the capital
// profile and the open-position snapshot, pulls opportunities from the
// platform and turns them into sized, scored recommendations.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ducminhle1904/funding-arb-advisor/internal/monitoring"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

// ErrNoProfile is returned by operations that need a configured capital
// profile before the user has set one up.
var ErrNoProfile = errors.New("no capital profile configured")

// Platform is the slice of the API client the engine consumes.
type Platform interface {
	FetchOpportunities(ctx context.Context, q platform.OpportunityQuery) ([]platform.Opportunity, error)
	FetchPortfolio(ctx context.Context) (*platform.Portfolio, error)
}

// Config tunes engine behavior beyond the capital profile.
type Config struct {
	// Store persists profile mutations when set.
	Store *profile.Store
	// PerPairLimit caps how many opportunities each directed exchange
	// pair contributes per run.
	PerPairLimit int
	// SortBy is passed through to the platform opportunity queries.
	SortBy string
}

// Engine is the recommendation orchestrator. All exported methods
// serialize on an internal mutex, so one Engine can back a CLI command
// and a dashboard refresh loop at the same time.
type Engine struct {
	mu          sync.Mutex
	client      Platform
	store       *profile.Store
	log         *zap.Logger
	prof        *profile.CapitalProfile
	positions   []portfolio.CurrentPosition
	lastRefresh time.Time

	perPairLimit int
	sortBy       string
}

// New creates an engine. The profile starts unset; call LoadProfile or
// SetProfile before asking for recommendations.
func New(client Platform, cfg Config, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.PerPairLimit <= 0 {
		cfg.PerPairLimit = 10
	}
	if cfg.SortBy == "" {
		cfg.SortBy = "spread"
	}
	return &Engine{
		client:       client,
		store:        cfg.Store,
		log:          log.Named("advisor"),
		perPairLimit: cfg.PerPairLimit,
		sortBy:       cfg.SortBy,
	}
}

// LoadProfile pulls the persisted profile from the store. A missing
// document leaves the engine unconfigured without error.
func (e *Engine) LoadProfile() error {
	if e.store == nil {
		return nil
	}
	prof, err := e.store.Load()
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prof = prof
	return nil
}

// SetProfile installs a validated profile and persists it.
func (e *Engine) SetProfile(p *profile.CapitalProfile) error {
	if p == nil {
		return fmt.Errorf("profile must not be nil")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prof = p.Clone()
	return e.persistLocked()
}

// Profile returns a copy of the active profile.
func (e *Engine) Profile() (*profile.CapitalProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prof == nil {
		return nil, ErrNoProfile
	}
	return e.prof.Clone(), nil
}

// SetRiskProfile switches the risk level and re-seeds the preset-derived
// guard rails.
func (e *Engine) SetRiskProfile(level profile.RiskLevel) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prof == nil {
		return ErrNoProfile
	}
	if err := e.prof.ApplyPreset(level); err != nil {
		return err
	}
	return e.persistLocked()
}

// SetDailyTarget updates the daily return target percent.
func (e *Engine) SetDailyTarget(percent float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prof == nil {
		return ErrNoProfile
	}
	if percent < 0 || percent > 100 {
		return &profile.ValidationError{Field: "dailyTargetPercent", Message: fmt.Sprintf("must be within [0,100], got %.2f", percent)}
	}
	e.prof.DailyTargetPercent = percent
	e.prof.Touch()
	return e.persistLocked()
}

// SetBalance records the balance held on an exchange.
func (e *Engine) SetBalance(exchange string, amount float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prof == nil {
		return ErrNoProfile
	}
	if err := e.prof.SetBalance(exchange, amount); err != nil {
		return err
	}
	return e.persistLocked()
}

// SetExchangeEnabled toggles an exchange's participation.
func (e *Engine) SetExchangeEnabled(exchange string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prof == nil {
		return ErrNoProfile
	}
	e.prof.SetExchangeEnabled(exchange, enabled)
	return e.persistLocked()
}

func (e *Engine) persistLocked() error {
	if e.store == nil || e.prof == nil {
		return nil
	}
	if err := e.store.Save(e.prof); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// Refresh fetches the portfolio snapshot, returning the fetch error for
// callers that need to know. Engine runs themselves degrade gracefully
// instead of failing on this.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.refreshPositionsLocked(ctx) {
		return fmt.Errorf("portfolio refresh failed; snapshot from %s kept", e.lastRefresh.Format(time.RFC3339))
	}
	return nil
}

// refreshPositionsLocked updates the position snapshot. On failure the
// previous snapshot is kept and true (stale) is returned; a refresh
// failure must never abort a recommendation run.
func (e *Engine) refreshPositionsLocked(ctx context.Context) bool {
	pf, err := e.client.FetchPortfolio(ctx)
	if err != nil {
		e.log.Warn("portfolio refresh failed, keeping previous snapshot",
			zap.Time("lastRefresh", e.lastRefresh),
			zap.Error(err))
		return true
	}
	e.positions = portfolio.MapExecutions(pf, time.Now())
	e.lastRefresh = time.Now()
	monitoring.UpdateOpenPositions(len(e.positions))
	return false
}

// Positions returns a copy of the current position snapshot.
func (e *Engine) Positions() []portfolio.CurrentPosition {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]portfolio.CurrentPosition, len(e.positions))
	copy(out, e.positions)
	return out
}

// BalanceSummary builds the per-exchange ledger from the profile and the
// current snapshot.
func (e *Engine) BalanceSummary() (*portfolio.BalanceSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prof == nil {
		return nil, ErrNoProfile
	}
	return portfolio.BuildBalanceSummary(e.prof, e.positions), nil
}

// Diversification analyzes the current snapshot against the profile's
// preset.
func (e *Engine) Diversification() (portfolio.DiversificationAnalysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.prof == nil {
		return portfolio.DiversificationAnalysis{}, ErrNoProfile
	}
	preset := profile.PresetFor(e.prof.RiskProfile)
	return portfolio.AnalyzeDiversification(e.positions, preset), nil
}

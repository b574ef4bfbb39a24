// Package profile defines the user's capital profile: how much money
// sits on which exchange, the risk appetite and the guard rails every
// recommendation run must respect.
package profile

import (
	"fmt"
	"sort"
	"time"
)

// RiskLevel selects one of the built-in risk presets.
type RiskLevel string

const (
	RiskConservative RiskLevel = "conservative"
	RiskModerate     RiskLevel = "moderate"
	RiskAggressive   RiskLevel = "aggressive"
)

// Valid reports whether the level is one of the known presets.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskConservative, RiskModerate, RiskAggressive:
		return true
	}
	return false
}

// CapitalProfile captures the capital a user is willing to deploy and
// the constraints recommendations must honor. All writes go through the
// engine so UpdatedAt stays truthful.
type CapitalProfile struct {
	Balances               map[string]float64 `json:"balances"`
	RiskProfile            RiskLevel          `json:"riskProfile"`
	DailyTargetPercent     float64            `json:"dailyTargetPercent"`
	MaxPositionSizePercent float64            `json:"maxPositionSizePercent"`
	MaxOpenPositions       int                `json:"maxOpenPositions"`
	MinSpread              float64            `json:"minSpread"`
	Exchanges              map[string]bool    `json:"exchanges"`
	CreatedAt              time.Time          `json:"createdAt"`
	UpdatedAt              time.Time          `json:"updatedAt"`
}

// New seeds a profile from the preset for the given risk level. Balances
// start empty; exchanges are enabled as balances are added.
func New(level RiskLevel) (*CapitalProfile, error) {
	if !level.Valid() {
		return nil, &ValidationError{Field: "riskProfile", Message: fmt.Sprintf("unknown risk level %q", level)}
	}
	preset := PresetFor(level)
	now := time.Now()
	return &CapitalProfile{
		Balances:               make(map[string]float64),
		RiskProfile:            level,
		DailyTargetPercent:     preset.DailyTargetPercent,
		MaxPositionSizePercent: preset.MaxPositionSizePercent,
		MaxOpenPositions:       preset.DiversificationMin,
		MinSpread:              preset.MinSpread,
		Exchanges:              make(map[string]bool),
		CreatedAt:              now,
		UpdatedAt:              now,
	}, nil
}

// TotalCapital sums the balances across all exchanges.
func (p *CapitalProfile) TotalCapital() float64 {
	total := 0.0
	for _, amount := range p.Balances {
		total += amount
	}
	return total
}

// Balance returns the balance held on an exchange, zero when the
// exchange has no entry.
func (p *CapitalProfile) Balance(exchange string) float64 {
	return p.Balances[exchange]
}

// HasBalance reports whether the exchange has a balance entry at all.
func (p *CapitalProfile) HasBalance(exchange string) bool {
	_, ok := p.Balances[exchange]
	return ok
}

// IsExchangeEnabled reports whether opportunities touching the exchange
// are actionable.
func (p *CapitalProfile) IsExchangeEnabled(exchange string) bool {
	return p.Exchanges[exchange]
}

// EnabledExchanges returns the enabled exchange names in sorted order so
// pair enumeration is deterministic.
func (p *CapitalProfile) EnabledExchanges() []string {
	names := make([]string, 0, len(p.Exchanges))
	for name, enabled := range p.Exchanges {
		if enabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SetBalance records the balance for an exchange and enables it when it
// was not yet known.
func (p *CapitalProfile) SetBalance(exchange string, amount float64) error {
	if amount < 0 {
		return &ValidationError{Field: "balances", Message: fmt.Sprintf("balance for %s must be non-negative, got %.2f", exchange, amount)}
	}
	if p.Balances == nil {
		p.Balances = make(map[string]float64)
	}
	if p.Exchanges == nil {
		p.Exchanges = make(map[string]bool)
	}
	p.Balances[exchange] = amount
	if _, known := p.Exchanges[exchange]; !known {
		p.Exchanges[exchange] = true
	}
	p.Touch()
	return nil
}

// SetExchangeEnabled toggles whether an exchange participates in
// recommendations.
func (p *CapitalProfile) SetExchangeEnabled(exchange string, enabled bool) {
	if p.Exchanges == nil {
		p.Exchanges = make(map[string]bool)
	}
	p.Exchanges[exchange] = enabled
	p.Touch()
}

// ApplyPreset switches the risk level and re-seeds the preset-derived
// fields. Balances and exchange flags are kept.
func (p *CapitalProfile) ApplyPreset(level RiskLevel) error {
	if !level.Valid() {
		return &ValidationError{Field: "riskProfile", Message: fmt.Sprintf("unknown risk level %q", level)}
	}
	preset := PresetFor(level)
	p.RiskProfile = level
	p.DailyTargetPercent = preset.DailyTargetPercent
	p.MaxPositionSizePercent = preset.MaxPositionSizePercent
	p.MinSpread = preset.MinSpread
	p.MaxOpenPositions = preset.DiversificationMin
	p.Touch()
	return nil
}

// Touch bumps UpdatedAt after a mutation.
func (p *CapitalProfile) Touch() {
	p.UpdatedAt = time.Now()
}

// Clone returns a deep copy so callers can hand out snapshots without
// sharing the maps.
func (p *CapitalProfile) Clone() *CapitalProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Balances = make(map[string]float64, len(p.Balances))
	for k, v := range p.Balances {
		cp.Balances[k] = v
	}
	cp.Exchanges = make(map[string]bool, len(p.Exchanges))
	for k, v := range p.Exchanges {
		cp.Exchanges[k] = v
	}
	return &cp
}

// Validate reports the first constraint violation. A profile that fails
// validation must not drive recommendations.
func (p *CapitalProfile) Validate() error {
	if !p.RiskProfile.Valid() {
		return &ValidationError{Field: "riskProfile", Message: fmt.Sprintf("unknown risk level %q", p.RiskProfile)}
	}
	if p.DailyTargetPercent < 0 || p.DailyTargetPercent > 100 {
		return &ValidationError{Field: "dailyTargetPercent", Message: fmt.Sprintf("must be within [0,100], got %.2f", p.DailyTargetPercent)}
	}
	if p.MaxPositionSizePercent < 0 || p.MaxPositionSizePercent > 100 {
		return &ValidationError{Field: "maxPositionSizePercent", Message: fmt.Sprintf("must be within [0,100], got %.2f", p.MaxPositionSizePercent)}
	}
	if p.MaxOpenPositions < 0 {
		return &ValidationError{Field: "maxOpenPositions", Message: fmt.Sprintf("must be non-negative, got %d", p.MaxOpenPositions)}
	}
	if p.MinSpread < 0 {
		return &ValidationError{Field: "minSpread", Message: fmt.Sprintf("must be non-negative, got %.4f", p.MinSpread)}
	}
	for exchange, amount := range p.Balances {
		if amount < 0 {
			return &ValidationError{Field: "balances", Message: fmt.Sprintf("balance for %s must be non-negative, got %.2f", exchange, amount)}
		}
	}
	return nil
}

// ValidationError describes a profile field that violates its
// constraint.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid profile field %s: %s", e.Field, e.Message)
}

package platform

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Quality-field defaults applied when the scanner omits a value. Zero is
// a legal value for all three, so absence is carried as a nil pointer.
const (
	DefaultLiquidityScore = 50.0
	DefaultHoursToFunding = 8.0
	DefaultPriceDiffPct   = 0.0
)

// Opportunity is a funding-rate arbitrage candidate reported by the
// platform scanner: long one exchange, short the other, collect the
// funding spread. The engine treats it as read-only.
type Opportunity struct {
	ID               string     `json:"id,omitempty"`
	Symbol           string     `json:"symbol"`
	Pair             string     `json:"pair,omitempty"`
	LongExchange     string     `json:"long_exchange"`
	ShortExchange    string     `json:"short_exchange"`
	Spread           float64    `json:"spread"`
	LongFundingRate  float64    `json:"long_funding_rate"`
	ShortFundingRate float64    `json:"short_funding_rate"`
	LiquidityScore   *float64   `json:"liquidity_score,omitempty"`
	HoursToFunding   *float64   `json:"hours_to_funding,omitempty"`
	PriceDiffPct     *float64   `json:"price_diff_pct,omitempty"`
	DetectedAt       *time.Time `json:"detected_at,omitempty"`
}

// Key identifies an opportunity across pair queries. The platform id
// wins when present; scanners that omit ids fall back to the route.
func (o Opportunity) Key() string {
	if o.ID != "" {
		return o.ID
	}
	return fmt.Sprintf("%s|%s|%s", o.Symbol, o.LongExchange, o.ShortExchange)
}

// Route renders the long/short legs for display, e.g. "bybit->kucoin".
func (o Opportunity) Route() string {
	return fmt.Sprintf("%s->%s", o.LongExchange, o.ShortExchange)
}

// Liquidity returns the liquidity score, defaulting when the scanner
// omitted it.
func (o Opportunity) Liquidity() float64 {
	if o.LiquidityScore == nil {
		return DefaultLiquidityScore
	}
	return *o.LiquidityScore
}

// FundingHours returns hours until the next funding event, defaulting to
// a full period when the scanner omitted it.
func (o Opportunity) FundingHours() float64 {
	if o.HoursToFunding == nil {
		return DefaultHoursToFunding
	}
	return *o.HoursToFunding
}

// PriceDeviation returns the percentage price difference between the two
// legs, defaulting to zero when the scanner omitted it.
func (o Opportunity) PriceDeviation() float64 {
	if o.PriceDiffPct == nil {
		return DefaultPriceDiffPct
	}
	return *o.PriceDiffPct
}

// OpportunityQuery narrows an opportunity fetch to one directed exchange
// pair.
type OpportunityQuery struct {
	LongExchange  string
	ShortExchange string
	Limit         int
	SortBy        string
}

// Execution lifecycle states reported by the platform.
const (
	StatusRunning = "running"
	StatusClosing = "closing"
	StatusClosed  = "closed"
	StatusFailed  = "failed"
)

// Execution is a live or historical delta-neutral position managed by
// the platform. Money fields arrive as JSON strings and are kept as
// decimals until the position mapping converts them.
type Execution struct {
	ID            string          `json:"id"`
	Symbol        string          `json:"symbol"`
	Pair          string          `json:"pair,omitempty"`
	LongExchange  string          `json:"long_exchange"`
	ShortExchange string          `json:"short_exchange"`
	Status        string          `json:"status"`
	InputAmount   decimal.Decimal `json:"input_amount"`
	NetFunding    decimal.Decimal `json:"net_funding"`
	TotalPnl      decimal.Decimal `json:"total_pnl"`
	TotalPnlPct   decimal.Decimal `json:"total_pnl_pct"`
	OpenedAt      time.Time       `json:"opened_at"`
	ClosedAt      *time.Time      `json:"closed_at,omitempty"`
}

// IsRunning reports whether the execution still holds both legs.
func (e Execution) IsRunning() bool {
	return e.Status == StatusRunning
}

// AccountSummary aggregates the platform-side account state.
type AccountSummary struct {
	TotalValue  decimal.Decimal `json:"total_value"`
	TotalPnl    decimal.Decimal `json:"total_pnl"`
	ActiveCount int             `json:"active_count"`
}

// Portfolio is the authoritative view of the user's executions on the
// platform.
type Portfolio struct {
	Executions []Execution    `json:"executions"`
	Summary    AccountSummary `json:"summary"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Running returns only the executions still holding positions.
func (p *Portfolio) Running() []Execution {
	out := make([]Execution, 0, len(p.Executions))
	for _, e := range p.Executions {
		if e.IsRunning() {
			out = append(out, e)
		}
	}
	return out
}

// ExecuteRequest asks the platform to open both legs of an opportunity.
type ExecuteRequest struct {
	OpportunityID string          `json:"opportunity_id"`
	Size          decimal.Decimal `json:"size"`
}

// CloseResult reports the outcome of closing an execution.
type CloseResult struct {
	ExecutionID string          `json:"execution_id"`
	Status      string          `json:"status"`
	RealizedPnl decimal.Decimal `json:"realized_pnl"`
	ClosedAt    time.Time       `json:"closed_at"`
}

// Metrics is the platform-side performance summary.
type Metrics struct {
	PairsScanned     int64           `json:"pairs_scanned"`
	OpportunitiesNow int64           `json:"opportunities_now"`
	ActiveExecutions int             `json:"active_executions"`
	SuccessRate      float64         `json:"success_rate"`
	FundingCollected decimal.Decimal `json:"funding_collected"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

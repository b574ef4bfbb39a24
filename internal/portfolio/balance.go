package portfolio

import (
	"fmt"
	"math"
	"sort"

	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

// Dollar thresholds for balance housekeeping. Vars so operators with
// cheaper transfer routes can tune them.
var (
	// RebalanceThreshold is the gap below which moving money between
	// exchanges is not worth the transfer cost. It doubles as the
	// low-balance floor and the fixed top-up amount.
	RebalanceThreshold = 100.0
	// HealthyAvailable is the available balance an exchange must keep
	// before it can donate a top-up.
	HealthyAvailable = 200.0
)

// marginRate approximates the fraction of allocated capital held as
// margin on each exchange.
const marginRate = 0.2

// ExchangeBalance is the per-exchange line of the ledger.
type ExchangeBalance struct {
	Exchange    string  `json:"exchange"`
	Total       float64 `json:"total"`
	Allocated   float64 `json:"allocated"`
	Available   float64 `json:"available"`
	MarginInUse float64 `json:"marginInUse"`
}

// BalanceSummary is the full ledger derived from a profile and the open
// positions.
type BalanceSummary struct {
	Exchanges          map[string]*ExchangeBalance `json:"exchanges"`
	TotalCapital       float64                     `json:"totalCapital"`
	TotalAllocated     float64                     `json:"totalAllocated"`
	TotalAvailable     float64                     `json:"totalAvailable"`
	UtilizationPercent float64                     `json:"utilizationPercent"`
}

// BuildBalanceSummary derives the ledger: each open position parks half
// its size on each leg's exchange. Legs on exchanges with no balance
// entry are not tracked; aggregates cover only exchanges with entries.
func BuildBalanceSummary(prof *profile.CapitalProfile, positions []CurrentPosition) *BalanceSummary {
	summary := &BalanceSummary{
		Exchanges: make(map[string]*ExchangeBalance, len(prof.Balances)),
	}
	for exchange, total := range prof.Balances {
		summary.Exchanges[exchange] = &ExchangeBalance{Exchange: exchange, Total: total}
	}

	for _, pos := range positions {
		half := pos.Size / 2
		if entry, ok := summary.Exchanges[pos.LongExchange]; ok {
			entry.Allocated += half
		}
		if entry, ok := summary.Exchanges[pos.ShortExchange]; ok {
			entry.Allocated += half
		}
	}

	for _, entry := range summary.Exchanges {
		entry.Available = math.Max(0, entry.Total-entry.Allocated)
		entry.MarginInUse = entry.Allocated * marginRate
		summary.TotalCapital += entry.Total
		summary.TotalAllocated += entry.Allocated
		summary.TotalAvailable += entry.Available
	}
	if summary.TotalCapital > 0 {
		summary.UtilizationPercent = summary.TotalAllocated / summary.TotalCapital * 100
	}
	return summary
}

// RebalanceSuggestion proposes one transfer between exchanges.
type RebalanceSuggestion struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// RebalanceSuggestions looks for lopsided available balances. Two rules:
// when the best-funded exchange is far ahead of the worst (more than 30%
// of its total and more than the threshold), move half the gap; and any
// exchange running low gets a fixed top-up from a healthy donor.
func RebalanceSuggestions(summary *BalanceSummary) []RebalanceSuggestion {
	if len(summary.Exchanges) < 2 {
		return nil
	}

	names := make([]string, 0, len(summary.Exchanges))
	for name := range summary.Exchanges {
		names = append(names, name)
	}
	sort.Strings(names)

	highest := summary.Exchanges[names[0]]
	lowest := summary.Exchanges[names[0]]
	for _, name := range names[1:] {
		entry := summary.Exchanges[name]
		if entry.Available > highest.Available {
			highest = entry
		}
		if entry.Available < lowest.Available {
			lowest = entry
		}
	}

	var suggestions []RebalanceSuggestion

	gap := highest.Available - lowest.Available
	if gap > math.Max(highest.Total*0.3, RebalanceThreshold) {
		suggestions = append(suggestions, RebalanceSuggestion{
			From:   highest.Exchange,
			To:     lowest.Exchange,
			Amount: gap / 2,
			Reason: fmt.Sprintf("available balance gap of $%.2f between %s and %s", gap, highest.Exchange, lowest.Exchange),
		})
	}

	for _, name := range names {
		entry := summary.Exchanges[name]
		if entry.Available >= RebalanceThreshold {
			continue
		}
		donor := findDonor(summary, names, name)
		if donor == nil {
			continue
		}
		suggestions = append(suggestions, RebalanceSuggestion{
			From:   donor.Exchange,
			To:     entry.Exchange,
			Amount: RebalanceThreshold,
			Reason: fmt.Sprintf("%s is low on available balance ($%.2f)", entry.Exchange, entry.Available),
		})
	}

	return suggestions
}

// findDonor picks the best-funded exchange still above the healthy
// floor.
func findDonor(summary *BalanceSummary, names []string, exclude string) *ExchangeBalance {
	var donor *ExchangeBalance
	for _, name := range names {
		if name == exclude {
			continue
		}
		entry := summary.Exchanges[name]
		if entry.Available <= HealthyAvailable {
			continue
		}
		if donor == nil || entry.Available > donor.Available {
			donor = entry
		}
	}
	return donor
}

// CapitalCheck reports whether both legs of a prospective position are
// fundable and, when not, which check failed first.
type CapitalCheck struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// HasCapitalFor verifies a position of the given size can be opened:
// both legs need a balance entry and size/2 of available balance. Checks
// run in a fixed order so the reported reason is stable.
func HasCapitalFor(prof *profile.CapitalProfile, positions []CurrentPosition, longExchange, shortExchange string, size float64) CapitalCheck {
	summary := BuildBalanceSummary(prof, positions)
	half := size / 2

	long, ok := summary.Exchanges[longExchange]
	if !ok {
		return CapitalCheck{Reason: fmt.Sprintf("no balance configured for long exchange %s", longExchange)}
	}
	short, ok := summary.Exchanges[shortExchange]
	if !ok {
		return CapitalCheck{Reason: fmt.Sprintf("no balance configured for short exchange %s", shortExchange)}
	}
	if long.Available < half {
		return CapitalCheck{Reason: fmt.Sprintf("insufficient capital on %s: need $%.2f, available $%.2f",
			longExchange, half, long.Available)}
	}
	if short.Available < half {
		return CapitalCheck{Reason: fmt.Sprintf("insufficient capital on %s: need $%.2f, available $%.2f",
			shortExchange, half, short.Available)}
	}
	return CapitalCheck{OK: true}
}

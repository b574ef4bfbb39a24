// Package reporting renders advisor output for humans (console tables),
// machines (JSON) and spreadsheets (xlsx workbooks).
package reporting

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/funding-arb-advisor/internal/advisor"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

const timeLayout = "2006-01-02 15:04:05 MST"

// ConsoleReporter prints advisor output to a terminal.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout}
}

// NewConsoleReporterTo creates a reporter writing to the given writer.
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// PrintRecommendations renders a full recommendation run: the headline
// numbers, the scored opportunity table, per-opportunity sizing detail
// and any warnings.
func (r *ConsoleReporter) PrintRecommendations(rec *advisor.StrategyRecommendation) {
	r.header("📊 STRATEGY RECOMMENDATIONS")

	fmt.Fprintf(r.out, "🕒 Generated:           %s\n", rec.GeneratedAt.Format(timeLayout))
	fmt.Fprintf(r.out, "📈 Expected Daily:      %.2f%%\n", rec.ExpectedDailyReturn)
	fmt.Fprintf(r.out, "🎯 Progress To Target:  %.1f%%\n", rec.ProgressToTarget)
	fmt.Fprintf(r.out, "💼 Capital Utilization: %.1f%%\n", rec.CapitalUtilization)
	fmt.Fprintf(r.out, "⚖️ Risk Level:          %s\n", strings.ToUpper(rec.RiskLevel))
	fmt.Fprintf(r.out, "🔓 Open Positions:      %d/%d\n", rec.PositionsOpen, rec.PositionsMax)
	fmt.Fprintln(r.out)

	if len(rec.Recommendations) == 0 {
		fmt.Fprintln(r.out, "No new opportunities recommended right now.")
	} else {
		t := r.newTable("RECOMMENDED OPPORTUNITIES")
		t.AppendHeader(table.Row{"#", "Symbol", "Route", "Spread", "Score", "Size", "Est. Daily", "Risk"})
		for i, item := range rec.Recommendations {
			t.AppendRow(table.Row{
				i + 1,
				item.Opportunity.Symbol,
				item.Opportunity.Route(),
				fmt.Sprintf("%.3f%%", item.Opportunity.Spread*100),
				fmt.Sprintf("%.2f", item.Score),
				fmt.Sprintf("$%.2f", item.RecommendedSize),
				fmt.Sprintf("%.2f%%", item.ExpectedReturn),
				fmt.Sprintf("%.0f", item.RiskFactors.Overall),
			})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 1, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
			{Number: 5, Align: text.AlignRight},
			{Number: 6, Align: text.AlignRight},
			{Number: 7, Align: text.AlignRight},
			{Number: 8, Align: text.AlignRight},
		})
		t.Render()

		fmt.Fprintln(r.out, "\n💡 Sizing Detail:")
		for _, item := range rec.Recommendations {
			fmt.Fprintf(r.out, "  %s (%s)\n", item.Opportunity.Symbol, item.Opportunity.Route())
			for _, line := range item.SizingReasoning {
				fmt.Fprintf(r.out, "    • %s\n", line)
			}
		}
	}

	r.printWarnings(rec.Warnings)
	fmt.Fprintf(r.out, "\n📝 %s\n", rec.Summary)
}

// PrintTargetProgress renders where the day stands against the target.
func (r *ConsoleReporter) PrintTargetProgress(tp *advisor.TargetProgress) {
	r.header("🎯 DAILY TARGET PROGRESS")

	fmt.Fprintf(r.out, "🎯 Daily Target:      %.2f%%\n", tp.TargetPercent)
	fmt.Fprintf(r.out, "📈 Current Return:    %.2f%%\n", tp.CurrentReturnPercent)
	fmt.Fprintf(r.out, "📊 Progress:          %.1f%%\n", tp.ProgressPercent)
	fmt.Fprintf(r.out, "💼 Deployed Capital:  $%.2f\n", tp.DeployedCapital)
	fmt.Fprintf(r.out, "💰 Available Capital: $%.2f\n", tp.AvailableCapital)
	fmt.Fprintf(r.out, "🔓 Open Positions:    %d\n", tp.PositionsOpen)
	if tp.PositionsNeeded > 0 {
		fmt.Fprintf(r.out, "➕ Positions Needed:  %d\n", tp.PositionsNeeded)
	}
	if tp.PortfolioStale {
		fmt.Fprintln(r.out, "⚠️ Portfolio refresh failed - figures use the last known snapshot")
	}
	if len(tp.Suggestions) > 0 {
		fmt.Fprintln(r.out)
		for _, s := range tp.Suggestions {
			fmt.Fprintf(r.out, "💡 %s\n", s)
		}
	}
}

// PrintPositions renders the open positions table.
func (r *ConsoleReporter) PrintPositions(positions []portfolio.CurrentPosition) {
	r.header("📌 OPEN POSITIONS")
	if len(positions) == 0 {
		fmt.Fprintln(r.out, "No positions open.")
		return
	}

	t := r.newTable("")
	t.AppendHeader(table.Row{"Symbol", "Route", "Size", "PnL", "PnL %", "Est. Daily", "Hours Open"})
	for _, pos := range positions {
		t.AppendRow(table.Row{
			pos.Symbol,
			pos.LongExchange + "->" + pos.ShortExchange,
			fmt.Sprintf("$%.2f", pos.Size),
			fmt.Sprintf("$%.2f", pos.UnrealizedPnl),
			fmt.Sprintf("%.2f%%", pos.UnrealizedPnlPercent),
			fmt.Sprintf("%.2f%%", pos.EstimatedDailyReturn),
			fmt.Sprintf("%.1f", pos.HoursOpen),
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(r.out, "\n💼 Total Deployed: $%.2f  📈 Est. Daily Return: %.2f%%\n",
		portfolio.TotalDeployed(positions), portfolio.TotalDailyReturn(positions))
}

// PrintBalances renders the per-exchange ledger plus any rebalance
// suggestions.
func (r *ConsoleReporter) PrintBalances(summary *portfolio.BalanceSummary, suggestions []portfolio.RebalanceSuggestion) {
	r.header("💰 EXCHANGE BALANCES")

	names := make([]string, 0, len(summary.Exchanges))
	for name := range summary.Exchanges {
		names = append(names, name)
	}
	sort.Strings(names)

	t := r.newTable("")
	t.AppendHeader(table.Row{"Exchange", "Total", "Allocated", "Margin In Use", "Available"})
	for _, name := range names {
		entry := summary.Exchanges[name]
		t.AppendRow(table.Row{
			entry.Exchange,
			fmt.Sprintf("$%.2f", entry.Total),
			fmt.Sprintf("$%.2f", entry.Allocated),
			fmt.Sprintf("$%.2f", entry.MarginInUse),
			fmt.Sprintf("$%.2f", entry.Available),
		})
	}
	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("$%.2f", summary.TotalCapital),
		fmt.Sprintf("$%.2f", summary.TotalAllocated),
		"",
		fmt.Sprintf("$%.2f", summary.TotalAvailable),
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()

	fmt.Fprintf(r.out, "\n📊 Utilization: %.1f%%\n", summary.UtilizationPercent)

	for _, s := range suggestions {
		fmt.Fprintf(r.out, "🔁 Move $%.2f from %s to %s (%s)\n", s.Amount, s.From, s.To, s.Reason)
	}
}

// PrintDiversification renders the concentration breakdown.
func (r *ConsoleReporter) PrintDiversification(analysis *portfolio.DiversificationAnalysis) {
	r.header("🧺 DIVERSIFICATION")

	fmt.Fprintf(r.out, "📊 Score: %.0f/100\n", analysis.Score)

	if len(analysis.ByExchange) > 0 {
		fmt.Fprintln(r.out, "\nBy exchange:")
		for _, name := range sortedShareKeys(analysis.ByExchange) {
			fmt.Fprintf(r.out, "  %-12s %.1f%%\n", name, analysis.ByExchange[name])
		}
	}
	if len(analysis.BySymbol) > 0 {
		fmt.Fprintln(r.out, "\nBy symbol:")
		for _, name := range sortedShareKeys(analysis.BySymbol) {
			fmt.Fprintf(r.out, "  %-12s %.1f%%\n", name, analysis.BySymbol[name])
		}
	}

	r.printWarnings(analysis.Warnings)
	if len(analysis.Suggestions) > 0 {
		fmt.Fprintln(r.out)
		for _, s := range analysis.Suggestions {
			fmt.Fprintf(r.out, "💡 %s\n", s)
		}
	}
}

// PrintProfile renders the capital profile the way the advisor sees it.
func (r *ConsoleReporter) PrintProfile(prof *profile.CapitalProfile) {
	t := r.newTable("CAPITAL PROFILE")
	t.AppendRows([]table.Row{
		{"⚖️ Risk Profile", string(prof.RiskProfile)},
		{"🎯 Daily Target", fmt.Sprintf("%.2f%%", prof.DailyTargetPercent)},
		{"📏 Max Position Size", fmt.Sprintf("%.0f%% of capital", prof.MaxPositionSizePercent)},
		{"🔓 Max Open Positions", fmt.Sprintf("%d", prof.MaxOpenPositions)},
		{"📉 Min Spread", fmt.Sprintf("%.4f", prof.MinSpread)},
		{"💰 Total Capital", fmt.Sprintf("$%.2f", prof.TotalCapital())},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 22, WidthMax: 22, Align: text.AlignLeft},
		{Number: 2, WidthMin: 25, WidthMax: 40, Align: text.AlignLeft},
	})
	t.Render()

	names := make([]string, 0, len(prof.Balances))
	for name := range prof.Balances {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		bt := r.newTable("EXCHANGES")
		bt.AppendHeader(table.Row{"Exchange", "Balance", "Enabled"})
		for _, name := range names {
			enabled := "✅"
			if !prof.IsExchangeEnabled(name) {
				enabled = "❌"
			}
			bt.AppendRow(table.Row{name, fmt.Sprintf("$%.2f", prof.Balances[name]), enabled})
		}
		bt.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignCenter},
		})
		bt.Render()
	}

	fmt.Fprintf(r.out, "🕒 Updated: %s\n", prof.UpdatedAt.Format(timeLayout))
}

// PrintPlatformMetrics renders the scanner-side health numbers.
func (r *ConsoleReporter) PrintPlatformMetrics(m *platform.Metrics) {
	r.header("🛰️ PLATFORM METRICS")

	fmt.Fprintf(r.out, "🔍 Pairs Scanned:     %d\n", m.PairsScanned)
	fmt.Fprintf(r.out, "✨ Opportunities Now: %d\n", m.OpportunitiesNow)
	fmt.Fprintf(r.out, "🔄 Active Executions: %d\n", m.ActiveExecutions)
	fmt.Fprintf(r.out, "✅ Success Rate:      %.1f%%\n", m.SuccessRate*100)
	fmt.Fprintf(r.out, "💵 Funding Collected: $%s\n", m.FundingCollected.StringFixed(2))
	fmt.Fprintf(r.out, "🕒 Updated:           %s\n", m.UpdatedAt.Format(timeLayout))
}

func (r *ConsoleReporter) header(title string) {
	fmt.Fprintln(r.out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(r.out, title)
	fmt.Fprintln(r.out, strings.Repeat("=", 50))
}

func (r *ConsoleReporter) printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(r.out)
	for _, w := range warnings {
		fmt.Fprintf(r.out, "⚠️ %s\n", w)
	}
}

func (r *ConsoleReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	if title != "" {
		t.SetTitle(title)
	}
	t.SetStyle(table.StyleRounded)
	return t
}

func sortedShareKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

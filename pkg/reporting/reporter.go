package reporting

import (
	"github.com/ducminhle1904/funding-arb-advisor/internal/advisor"
	"github.com/ducminhle1904/funding-arb-advisor/internal/platform"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
	"github.com/ducminhle1904/funding-arb-advisor/internal/profile"
)

// Snapshot bundles everything one advisor run knows, for file export.
type Snapshot struct {
	Recommendation *advisor.StrategyRecommendation
	Positions      []portfolio.CurrentPosition
	Balances       *portfolio.BalanceSummary
}

// Options selects the outputs for one run.
type Options struct {
	JSON     bool
	XLSXPath string
	CSVPath  string
}

// Reporter bundles the console, file and JSON writers behind one entry
// point for the CLIs.
type Reporter struct {
	console *ConsoleReporter
	csv     *CSVReporter
	excel   *ExcelReporter
	json    *JSONFormatter
}

// NewReporter creates a reporter with all writers wired.
func NewReporter() *Reporter {
	return &Reporter{
		console: NewConsoleReporter(),
		csv:     NewCSVReporter(),
		excel:   NewExcelReporter(),
		json:    NewJSONFormatter(),
	}
}

// ReportRun renders one recommendation run according to the options:
// JSON or console tables, plus any requested file exports.
func (r *Reporter) ReportRun(snap Snapshot, opts Options) error {
	if opts.JSON {
		if err := r.json.Print(snap.Recommendation); err != nil {
			return err
		}
	} else {
		r.console.PrintRecommendations(snap.Recommendation)
	}
	if opts.XLSXPath != "" {
		if err := r.excel.WriteReportXLSX(snap, opts.XLSXPath); err != nil {
			return err
		}
	}
	if opts.CSVPath != "" {
		if err := r.csv.WriteRecommendationsCSV(snap.Recommendation, opts.CSVPath); err != nil {
			return err
		}
	}
	return nil
}

// Console output methods

func (r *Reporter) PrintRecommendations(rec *advisor.StrategyRecommendation) {
	r.console.PrintRecommendations(rec)
}

func (r *Reporter) PrintTargetProgress(tp *advisor.TargetProgress) {
	r.console.PrintTargetProgress(tp)
}

func (r *Reporter) PrintPositions(positions []portfolio.CurrentPosition) {
	r.console.PrintPositions(positions)
}

func (r *Reporter) PrintBalances(summary *portfolio.BalanceSummary, suggestions []portfolio.RebalanceSuggestion) {
	r.console.PrintBalances(summary, suggestions)
}

func (r *Reporter) PrintDiversification(analysis *portfolio.DiversificationAnalysis) {
	r.console.PrintDiversification(analysis)
}

func (r *Reporter) PrintProfile(prof *profile.CapitalProfile) {
	r.console.PrintProfile(prof)
}

func (r *Reporter) PrintPlatformMetrics(m *platform.Metrics) {
	r.console.PrintPlatformMetrics(m)
}

// JSON output methods

func (r *Reporter) PrintJSON(v interface{}) error {
	return r.json.Print(v)
}

package reporting

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ducminhle1904/funding-arb-advisor/internal/advisor"
)

// CSVReporter writes recommendation runs as flat CSV files.
type CSVReporter struct{}

// NewCSVReporter creates a new CSV reporter.
func NewCSVReporter() *CSVReporter {
	return &CSVReporter{}
}

// WriteRecommendationsCSV writes the scored recommendations to path. A
// path ending in .xlsx delegates to the Excel writer.
func (r *CSVReporter) WriteRecommendationsCSV(rec *advisor.StrategyRecommendation, path string) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return WriteReportXLSX(Snapshot{Recommendation: rec}, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"Rank", "Symbol", "Route", "Spread_%", "Score", "Size_$", "Est_Daily_%", "Risk", "Sizing_Reasoning",
	}); err != nil {
		return err
	}

	for i, item := range rec.Recommendations {
		row := []string{
			strconv.Itoa(i + 1),
			item.Opportunity.Symbol,
			item.Opportunity.Route(),
			fmt.Sprintf("%.4f", item.Opportunity.Spread*100),
			fmt.Sprintf("%.2f", item.Score),
			fmt.Sprintf("%.2f", item.RecommendedSize),
			fmt.Sprintf("%.2f", item.ExpectedReturn),
			fmt.Sprintf("%.1f", item.RiskFactors.Overall),
			strings.Join(item.SizingReasoning, " | "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("SUMMARY: expected_daily=%.2f%%; utilization=%.1f%%; progress=%.1f%%; risk=%s; positions=%d/%d",
		rec.ExpectedDailyReturn, rec.CapitalUtilization, rec.ProgressToTarget,
		rec.RiskLevel, rec.PositionsOpen, rec.PositionsMax)
	summaryRow := make([]string, 9)
	summaryRow[8] = summary
	return w.Write(summaryRow)
}

// Package-level convenience function
func WriteRecommendationsCSV(rec *advisor.StrategyRecommendation, path string) error {
	reporter := NewCSVReporter()
	return reporter.WriteRecommendationsCSV(rec, path)
}

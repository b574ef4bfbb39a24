package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/funding-arb-advisor/internal/advisor"
	"github.com/ducminhle1904/funding-arb-advisor/internal/portfolio"
)

// ExcelReporter writes advisor runs as xlsx workbooks.
type ExcelReporter struct{}

// NewExcelReporter creates a new Excel reporter.
func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

type excelStyles struct {
	header   int
	currency int
	percent  int
	base     int
	gain     int
	loss     int
	summary  int
}

// WriteReportXLSX writes one advisor run to a workbook: a sheet of
// recommendations, one of open positions and one of exchange balances.
func (r *ExcelReporter) WriteReportXLSX(snap Snapshot, path string) error {
	if snap.Recommendation == nil {
		return fmt.Errorf("nothing to export: snapshot has no recommendation run")
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const recSheet = "Recommendations"
	const posSheet = "Positions"
	const balSheet = "Balances"

	fx.SetSheetName(fx.GetSheetName(0), recSheet)
	fx.NewSheet(posSheet)
	fx.NewSheet(balSheet)

	styles, err := r.createStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeRecommendationsSheet(fx, recSheet, snap.Recommendation, styles); err != nil {
		return err
	}
	if err := r.writePositionsSheet(fx, posSheet, snap.Positions, styles); err != nil {
		return err
	}
	if err := r.writeBalancesSheet(fx, balSheet, snap.Balances, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

func (r *ExcelReporter) createStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.currency, err = fx.NewStyle(&excelize.Style{
		NumFmt: 7,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Percent cells hold fractions; the format multiplies by 100.
	styles.percent, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.gain, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10,
		Font: &excelize.Font{
			Color: "008000",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.loss, err = fx.NewStyle(&excelize.Style{
		NumFmt: 10,
		Font: &excelize.Font{
			Color: "FF0000",
		},
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.base, err = fx.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "E0E0E0", Style: 1},
			{Type: "right", Color: "E0E0E0", Style: 1},
			{Type: "bottom", Color: "E0E0E0", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	styles.summary, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 2},
			{Type: "right", Color: "000000", Style: 2},
			{Type: "top", Color: "000000", Style: 2},
			{Type: "bottom", Color: "000000", Style: 2},
		},
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func (r *ExcelReporter) writeRecommendationsSheet(fx *excelize.File, sheet string, rec *advisor.StrategyRecommendation, styles excelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 6)
	fx.SetColWidth(sheet, "B", "B", 14)
	fx.SetColWidth(sheet, "C", "C", 22)
	fx.SetColWidth(sheet, "D", "D", 10)
	fx.SetColWidth(sheet, "E", "E", 10)
	fx.SetColWidth(sheet, "F", "F", 12)
	fx.SetColWidth(sheet, "G", "G", 12)
	fx.SetColWidth(sheet, "H", "H", 8)
	fx.SetColWidth(sheet, "I", "I", 70)

	fx.MergeCell(sheet, "A1:I1", "")
	fx.SetCellValue(sheet, "A1", fmt.Sprintf("STRATEGY RECOMMENDATIONS - generated %s", rec.GeneratedAt.Format(timeLayout)))
	fx.SetCellStyle(sheet, "A1", "A1", styles.summary)
	fx.SetRowHeight(sheet, 1, 24)

	headers := []string{"#", "Symbol", "Route", "Spread", "Score", "Size", "Est. Daily", "Risk", "Sizing Reasoning"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.header)
	}

	row := 4
	for i, item := range rec.Recommendations {
		values := []interface{}{
			i + 1,
			item.Opportunity.Symbol,
			item.Opportunity.Route(),
			item.Opportunity.Spread,
			item.Score,
			item.RecommendedSize,
			item.ExpectedReturn / 100,
			item.RiskFactors.Overall,
			strings.Join(item.SizingReasoning, " | "),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			fx.SetCellValue(sheet, cell, v)
			switch j {
			case 3, 6:
				fx.SetCellStyle(sheet, cell, cell, styles.percent)
			case 5:
				fx.SetCellStyle(sheet, cell, cell, styles.currency)
			default:
				fx.SetCellStyle(sheet, cell, cell, styles.base)
			}
		}
		row++
	}
	if len(rec.Recommendations) == 0 {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		fx.SetCellValue(sheet, cell, "No new opportunities recommended")
		fx.SetCellStyle(sheet, cell, cell, styles.base)
		row++
	}

	row++
	summaryLines := []string{
		fmt.Sprintf("Expected daily return: %.2f%%", rec.ExpectedDailyReturn),
		fmt.Sprintf("Capital utilization: %.1f%%", rec.CapitalUtilization),
		fmt.Sprintf("Progress to target: %.1f%%", rec.ProgressToTarget),
		fmt.Sprintf("Risk level: %s", rec.RiskLevel),
		fmt.Sprintf("Open positions: %d/%d", rec.PositionsOpen, rec.PositionsMax),
	}
	for _, line := range summaryLines {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		fx.MergeCell(sheet, fmt.Sprintf("A%d:I%d", row, row), "")
		fx.SetCellValue(sheet, cell, line)
		fx.SetCellStyle(sheet, cell, cell, styles.base)
		row++
	}
	for _, warning := range rec.Warnings {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		fx.MergeCell(sheet, fmt.Sprintf("A%d:I%d", row, row), "")
		fx.SetCellValue(sheet, cell, "WARNING: "+warning)
		fx.SetCellStyle(sheet, cell, cell, styles.base)
		row++
	}

	return nil
}

func (r *ExcelReporter) writePositionsSheet(fx *excelize.File, sheet string, positions []portfolio.CurrentPosition, styles excelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 22)
	fx.SetColWidth(sheet, "B", "B", 14)
	fx.SetColWidth(sheet, "C", "C", 22)
	fx.SetColWidth(sheet, "D", "D", 12)
	fx.SetColWidth(sheet, "E", "E", 12)
	fx.SetColWidth(sheet, "F", "F", 10)
	fx.SetColWidth(sheet, "G", "G", 12)
	fx.SetColWidth(sheet, "H", "H", 12)
	fx.SetColWidth(sheet, "I", "I", 20)

	headers := []string{"Execution", "Symbol", "Route", "Size", "PnL", "PnL %", "Est. Daily", "Hours Open", "Opened At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.header)
	}

	if len(positions) == 0 {
		fx.SetCellValue(sheet, "A2", "No positions open")
		fx.SetCellStyle(sheet, "A2", "A2", styles.base)
		return nil
	}

	row := 2
	for _, pos := range positions {
		pnlStyle := styles.gain
		if pos.UnrealizedPnl < 0 {
			pnlStyle = styles.loss
		}
		values := []interface{}{
			pos.ExecutionID,
			pos.Symbol,
			pos.LongExchange + "->" + pos.ShortExchange,
			pos.Size,
			pos.UnrealizedPnl,
			pos.UnrealizedPnlPercent / 100,
			pos.EstimatedDailyReturn / 100,
			pos.HoursOpen,
			pos.OpenedAt.Format("2006-01-02 15:04"),
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			fx.SetCellValue(sheet, cell, v)
			switch j {
			case 3:
				fx.SetCellStyle(sheet, cell, cell, styles.currency)
			case 4:
				fx.SetCellStyle(sheet, cell, cell, styles.currency)
			case 5:
				fx.SetCellStyle(sheet, cell, cell, pnlStyle)
			case 6:
				fx.SetCellStyle(sheet, cell, cell, styles.percent)
			default:
				fx.SetCellStyle(sheet, cell, cell, styles.base)
			}
		}
		row++
	}

	fx.MergeCell(sheet, fmt.Sprintf("A%d:I%d", row, row), "")
	cell, _ := excelize.CoordinatesToCellName(1, row)
	fx.SetCellValue(sheet, cell, fmt.Sprintf("TOTAL - deployed $%.2f, est. daily return %.2f%%",
		portfolio.TotalDeployed(positions), portfolio.TotalDailyReturn(positions)))
	fx.SetCellStyle(sheet, cell, cell, styles.summary)

	return nil
}

func (r *ExcelReporter) writeBalancesSheet(fx *excelize.File, sheet string, summary *portfolio.BalanceSummary, styles excelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 14)
	fx.SetColWidth(sheet, "B", "E", 14)

	headers := []string{"Exchange", "Total", "Allocated", "Margin In Use", "Available"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.header)
	}

	if summary == nil {
		fx.SetCellValue(sheet, "A2", "No balances configured")
		fx.SetCellStyle(sheet, "A2", "A2", styles.base)
		return nil
	}

	names := make([]string, 0, len(summary.Exchanges))
	for name := range summary.Exchanges {
		names = append(names, name)
	}
	sort.Strings(names)

	row := 2
	for _, name := range names {
		entry := summary.Exchanges[name]
		values := []interface{}{entry.Exchange, entry.Total, entry.Allocated, entry.MarginInUse, entry.Available}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			fx.SetCellValue(sheet, cell, v)
			if j == 0 {
				fx.SetCellStyle(sheet, cell, cell, styles.base)
			} else {
				fx.SetCellStyle(sheet, cell, cell, styles.currency)
			}
		}
		row++
	}

	totals := []interface{}{"TOTAL", summary.TotalCapital, summary.TotalAllocated, "", summary.TotalAvailable}
	for j, v := range totals {
		cell, _ := excelize.CoordinatesToCellName(j+1, row)
		fx.SetCellValue(sheet, cell, v)
		fx.SetCellStyle(sheet, cell, cell, styles.header)
	}
	row += 2

	fx.MergeCell(sheet, fmt.Sprintf("A%d:E%d", row, row), "")
	cell, _ := excelize.CoordinatesToCellName(1, row)
	fx.SetCellValue(sheet, cell, fmt.Sprintf("Utilization: %.1f%%", summary.UtilizationPercent))
	fx.SetCellStyle(sheet, cell, cell, styles.summary)

	return nil
}

// WriteReportXLSX is a package-level convenience using the default
// reporter.
func WriteReportXLSX(snap Snapshot, path string) error {
	reporter := NewExcelReporter()
	return reporter.WriteReportXLSX(snap, path)
}

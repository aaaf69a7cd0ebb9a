package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/internal/services"
	"startupcli/pkg/contracts/domain"
)

// DashboardSheet is the first sheet of the workbook.
const DashboardSheet = "Dashboard"

// maxSheetName is Excel's limit on worksheet names.
const maxSheetName = 31

// Recorder counts written artifacts. *infrastructure.Metrics satisfies it.
type Recorder interface {
	Export(kind string, err error)
}

type noopRecorder struct{}

func (noopRecorder) Export(string, error) {}

// WorkbookExporter writes the report as an Excel workbook: the dashboard
// cards on the first sheet and one sheet per region with industry
// statistics and the most active investors.
type WorkbookExporter struct {
	svc      *services.InsightsService
	topN     int
	recorder Recorder
	logger   *slog.Logger
}

// NewWorkbookExporter creates an exporter; topInvestors limits the
// investor table of each region sheet.
func NewWorkbookExporter(svc *services.InsightsService, topInvestors int, recorder Recorder, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &WorkbookExporter{
		svc:      svc,
		topN:     topInvestors,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "workbook_exporter")),
	}
}

// Export writes the workbook to path.
func (e *WorkbookExporter) Export(path string) error {
	err := e.export(path)
	e.recorder.Export("workbook", err)
	return err
}

func (e *WorkbookExporter) export(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewExportError("failed to create header style", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), DashboardSheet); err != nil {
		return apperrors.NewExportError("failed to name dashboard sheet", err)
	}

	part := e.svc.Partition()
	agg := e.svc.Aggregator()

	regions, err := part.Subsets()
	if err != nil {
		return err
	}

	row := 1
	row, err = writeTable(f, DashboardSheet, row, bold, CardsTable(agg.DashboardMetrics(part.All())))
	if err != nil {
		return err
	}
	share := Table{Headers: []string{"Region", "Startups"}}
	for _, rv := range agg.RegionShare(regions) {
		share.Rows = append(share.Rows, []string{rv.Region, formatInt(int(rv.Value))})
	}
	if _, err := writeTable(f, DashboardSheet, row+1, bold, share); err != nil {
		return err
	}
	if err := f.SetColWidth(DashboardSheet, "A", "B", 24); err != nil {
		return apperrors.NewExportError("failed to size columns", err)
	}

	for _, region := range regions {
		if err := e.writeRegion(f, bold, region); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewExportError("failed to create directory", err).WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewExportError("failed to save workbook", err).WithContext("path", path)
	}

	e.logger.Info("Workbook exported",
		slog.String("path", path),
		slog.Int("region_sheets", len(regions)))
	return nil
}

func (e *WorkbookExporter) writeRegion(f *excelize.File, bold int, region domain.Subset) error {
	sheet := SheetName(region.Name)
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewExportError("failed to add sheet", err).WithContext("sheet", sheet)
	}

	stats, err := IndustryStats(e.svc.Aggregator(), region)
	if err != nil {
		// an empty region still gets its sheet
		e.logger.Warn("Industry statistics unavailable",
			slog.String("region", region.Name),
			slog.String("error", err.Error()))
		stats = Table{Headers: industryHeaders}
	}

	row, err := writeTable(f, sheet, 1, bold, stats)
	if err != nil {
		return err
	}

	investors := InvestorTable(dataprocessing.InvestorFrequency(region, e.topN), "Investments", true)
	if _, err := writeTable(f, sheet, row+1, bold, investors); err != nil {
		return err
	}

	if err := f.SetColWidth(sheet, "A", "A", 32); err != nil {
		return apperrors.NewExportError("failed to size columns", err)
	}
	return f.SetColWidth(sheet, "B", "D", 20)
}

var industryHeaders = []string{"Industry", "Startups", "Total Valuation ($B)", "Average Valuation ($B)"}

// IndustryStats returns count, total and mean valuation per industry,
// most startups first.
func IndustryStats(agg *dataprocessing.Aggregator, subset domain.Subset) (Table, error) {
	counts, err := agg.Aggregate(subset, dataprocessing.Request{Metric: domain.MetricCount, GroupBy: domain.ColumnIndustry})
	if err != nil {
		return Table{}, err
	}
	sums, err := agg.Aggregate(subset, dataprocessing.Request{Metric: domain.MetricSum, Column: domain.ColumnValuation, GroupBy: domain.ColumnIndustry})
	if err != nil {
		return Table{}, err
	}
	means, err := agg.Aggregate(subset, dataprocessing.Request{Metric: domain.MetricMean, Column: domain.ColumnValuation, GroupBy: domain.ColumnIndustry})
	if err != nil {
		return Table{}, err
	}
	if len(counts.Groups) == 0 {
		return Table{}, apperrors.NewInvalidAggregationError(fmt.Sprintf("no industries in %q", subset.Name))
	}

	t := Table{Headers: industryHeaders}
	for _, g := range counts.SortedByValue() {
		sum, _ := sums.Lookup(g.Key)
		mean, _ := means.Lookup(g.Key)
		t.Rows = append(t.Rows, []string{
			g.Key,
			formatInt(int(g.Value.Number)),
			formatFloat(sum.Number),
			formatFloat(mean.Number),
		})
	}
	return t, nil
}

// writeTable writes t starting at startRow and returns the next free row.
// Numeric cells are stored as numbers.
func writeTable(f *excelize.File, sheet string, startRow, headerStyle int, t Table) (int, error) {
	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	cell, err := excelize.CoordinatesToCellName(1, startRow)
	if err != nil {
		return 0, apperrors.NewExportError("invalid cell", err)
	}
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return 0, apperrors.NewExportError("failed to write header", err).WithContext("sheet", sheet)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), startRow)
	if err != nil {
		return 0, apperrors.NewExportError("invalid cell", err)
	}
	if err := f.SetCellStyle(sheet, cell, last, headerStyle); err != nil {
		return 0, apperrors.NewExportError("failed to style header", err).WithContext("sheet", sheet)
	}

	for i, r := range t.Rows {
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, startRow+1+i)
		if err != nil {
			return 0, apperrors.NewExportError("invalid cell", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return 0, apperrors.NewExportError("failed to write row", err).WithContext("sheet", sheet)
		}
	}
	return startRow + 1 + len(t.Rows), nil
}

// SheetName makes a region name usable as a worksheet name.
func SheetName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if clean == "" || clean == DashboardSheet {
		clean = "Region " + clean
	}
	if runes := []rune(clean); len(runes) > maxSheetName {
		clean = string(runes[:maxSheetName])
	}
	return clean
}

package dataprocessing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/go-playground/validator/v10"

	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

// missingMarkers are cell values read as "no value". gota renders NA cells
// of string series as "NaN".
var missingMarkers = []string{"NA", "NaN", "<nil>"}

// DatasetLoader reads the startup CSV into an immutable Dataset.
type DatasetLoader struct {
	logger   *slog.Logger
	validate *validator.Validate
	recorder Recorder
}

// NewDatasetLoader creates a loader. A nil recorder disables metrics.
func NewDatasetLoader(logger *slog.Logger, recorder Recorder) *DatasetLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetLoader{
		logger:   logger.With(slog.String("component", "dataset_loader")),
		validate: validator.New(),
		recorder: recorderOrNoop(recorder),
	}
}

// Load reads the dataset at path. Any failure is a DataLoadError.
func (l *DatasetLoader) Load(ctx context.Context, path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError("failed to open dataset", err).
			WithContext("path", path)
	}
	defer file.Close()

	return l.LoadReader(ctx, path, file)
}

// LoadReader reads a dataset from r; name identifies the source in errors.
func (l *DatasetLoader) LoadReader(ctx context.Context, name string, r io.Reader) (*domain.Dataset, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.NewDataLoadError("failed to read dataset", err).
			WithContext("path", name)
	}

	// Remove BOM if present
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, apperrors.NewDataLoadError("dataset is empty", nil).
			WithContext("path", name)
	}

	df := dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missingMarkers),
	)
	if df.Err != nil {
		return nil, apperrors.NewDataLoadError("malformed CSV", df.Err).
			WithContext("path", name)
	}

	columns, present := findColumns(df.Names())
	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := present[col]; !ok {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewDataLoadError("required columns not found", nil).
			WithContext("path", name).
			WithContext("missing", strings.Join(missing, ", "))
	}

	if df.Nrow() == 0 {
		return nil, apperrors.NewDataLoadError("dataset has no data rows", nil).
			WithContext("path", name)
	}

	cells := make(map[domain.Column][]string, len(present))
	for col, header := range present {
		cells[col] = df.Col(header).Records()
	}

	records := make([]domain.StartupRecord, df.Nrow())
	for i := range records {
		rec, err := l.parseRow(cells, i)
		if err != nil {
			l.recorder.RowRejected()
			// header is line 1
			return nil, apperrors.NewDataLoadError("unparseable row", err).
				WithContext("path", name).
				WithContext("line", i+2)
		}
		records[i] = rec
	}

	l.recorder.RowsLoaded(len(records))
	l.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", name),
		slog.Int("records", len(records)),
		slog.Int("columns", len(columns)))

	return domain.NewDataset(name, columns, records), nil
}

// findColumns maps header names to known columns, ignoring surrounding
// whitespace and zero-width characters. Unknown headers are skipped.
func findColumns(header []string) ([]domain.Column, map[domain.Column]string) {
	present := make(map[domain.Column]string)
	var columns []domain.Column

	for _, raw := range header {
		clean := strings.TrimSpace(raw)
		clean = strings.TrimLeft(clean, "\u200B\u200C\u200D\u2060\uFEFF")
		clean = strings.TrimSpace(clean)

		col := domain.Column(clean)
		if !col.IsKnown() {
			continue
		}
		if _, dup := present[col]; dup {
			continue
		}
		present[col] = raw
		columns = append(columns, col)
	}

	return columns, present
}

func (l *DatasetLoader) parseRow(cells map[domain.Column][]string, i int) (domain.StartupRecord, error) {
	get := func(col domain.Column) (string, bool) {
		values, ok := cells[col]
		if !ok {
			return "", false
		}
		v := strings.TrimSpace(values[i])
		if v == "" || isMissing(v) {
			return "", false
		}
		return v, true
	}

	text := func(col domain.Column) string {
		v, _ := get(col)
		return v
	}

	rawValuation, ok := get(domain.ColumnValuation)
	if !ok {
		return domain.StartupRecord{}, fmt.Errorf("column %q: missing valuation", domain.ColumnValuation)
	}
	valuation, err := parseValuation(rawValuation)
	if err != nil {
		return domain.StartupRecord{}, fmt.Errorf("column %q: %w", domain.ColumnValuation, err)
	}

	rec := domain.StartupRecord{
		Company:   text(domain.ColumnCompany),
		Country:   text(domain.ColumnCountry),
		City:      text(domain.ColumnCity),
		Industry:  text(domain.ColumnIndustry),
		Valuation: valuation,
	}
	if lat, ok := get(domain.ColumnLatitude); ok {
		rec.Latitude = parseCoordinate(lat, 90)
	}
	if lon, ok := get(domain.ColumnLongitude); ok {
		rec.Longitude = parseCoordinate(lon, 180)
	}
	if investors, ok := get(domain.ColumnInvestors); ok {
		rec.Investors = &investors
	}

	if err := l.validate.Struct(rec); err != nil {
		return domain.StartupRecord{}, fmt.Errorf("invalid record: %w", err)
	}

	return rec, nil
}

// parseValuation accepts "12", "$12.5" and "1,200.5".
func parseValuation(raw string) (float64, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid valuation %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("valuation %q must be a finite non-negative number", raw)
	}
	return v, nil
}

// parseCoordinate returns nil for unparsable or out of range values.
func parseCoordinate(raw string, limit float64) *float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > limit {
		return nil
	}
	return &v
}

func isMissing(v string) bool {
	for _, m := range missingMarkers {
		if v == m {
			return true
		}
	}
	return false
}

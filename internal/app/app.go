package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"startupcli/internal/charts"
	"startupcli/internal/config"
	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/internal/exporter"
	"startupcli/internal/infrastructure"
	"startupcli/internal/services"
	"startupcli/internal/validation"
	"startupcli/pkg/contracts"
)

// csvDir holds CSV exports, relative to the reports directory.
const csvDir = "data"

// Options are the command-line overrides applied on top of the loaded
// configuration.
type Options struct {
	ConfigFile string
	DataFile   string
	LogLevel   string
}

// Application represents the main application container
type Application struct {
	Config   *config.Config
	Paths    *config.Paths
	Logger   *slog.Logger
	Metrics  *infrastructure.Metrics
	Files    *validation.FileValidator
	Insights *services.InsightsService
	Renderer *charts.Renderer
	CSV      *exporter.CSVWriter
	Workbook *exporter.WorkbookExporter
	Map      *exporter.MapExporter
}

// NewApplication loads configuration, sets up logging and metrics, loads
// the dataset and wires every component. A dataset that cannot be loaded
// is a DataLoadError and nothing else is initialized.
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.DataFile != "" {
		cfg.Data.File = opts.DataFile
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}

	paths, err := config.ResolvePaths(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logCfg := cfg.Logging
	if logCfg.FilePath != "" {
		logCfg.FilePath = paths.GetLogPath(logCfg.FilePath)
	}
	logger, err := infrastructure.InitializeLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))
	paths.LogPathResolution()

	files := validation.NewFileValidator(logger)
	if err := files.ValidateDataset(paths.DataFile); err != nil {
		return nil, err
	}

	metrics := infrastructure.NewMetrics()

	ds, err := dataprocessing.NewDatasetLoader(logger, metrics).Load(ctx, paths.DataFile)
	if err != nil {
		return nil, err
	}

	insights, err := services.NewInsightsService(cfg, ds, metrics, logger)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:   cfg,
		Paths:    paths,
		Logger:   logger,
		Metrics:  metrics,
		Files:    files,
		Insights: insights,
		Renderer: charts.NewRenderer(cfg.Regions, metrics, logger),
		CSV:      exporter.NewCSVWriter(paths),
		Workbook: exporter.NewWorkbookExporter(insights, cfg.Investors.TopByCount, metrics, logger),
		Map:      exporter.NewMapExporter(metrics, logger),
	}, nil
}

// Close dumps metrics when enabled and closes the log file.
func (a *Application) Close() error {
	var firstErr error
	if a.Config.Metrics.Enabled && a.Paths.MetricsFile != "" {
		err := os.MkdirAll(filepath.Dir(a.Paths.MetricsFile), 0755)
		if err == nil {
			err = a.Metrics.WriteTextfile(a.Paths.MetricsFile)
		}
		if err != nil {
			a.Logger.Error("Failed to write metrics", slog.String("error", err.Error()))
			firstErr = err
		} else {
			a.Logger.Debug("Metrics written", slog.String("path", a.Paths.MetricsFile))
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Charts builds the named views and renders every chart that could be
// built into dir, or the charts directory when dir is empty.
func (a *Application) Charts(ctx context.Context, dir string, views []string, f services.Filter) ([]string, error) {
	if len(views) == 0 {
		views = services.ViewNames
	}
	if dir == "" {
		dir = a.Paths.ChartsDir
	} else {
		dir = a.Paths.Resolve(dir)
	}

	if err := a.Files.ValidateOutputDirectory(dir); err != nil {
		return nil, err
	}

	var paths []string
	for _, name := range views {
		v, err := a.Insights.View(name, f)
		if err != nil {
			return paths, err
		}
		paths = append(paths, a.Renderer.RenderAll(v.Charts, dir)...)
	}

	a.Logger.InfoContext(ctx, "Charts rendered",
		slog.Int("files", len(paths)),
		slog.String("dir", dir))
	return paths, nil
}

// ExportCSV writes the selected records and, per view, the cards and the
// data behind every chart that could be built. Files go under data/ in the
// reports directory.
func (a *Application) ExportCSV(ctx context.Context, f services.Filter) ([]string, error) {
	subset, err := a.Insights.Select(f)
	if err != nil {
		return nil, err
	}

	var paths []string
	write := func(rel string, fn func(string) error) error {
		err := fn(rel)
		a.Metrics.Export("csv", err)
		if err != nil {
			return apperrors.NewExportError("failed to write CSV", err).WithContext("path", rel)
		}
		paths = append(paths, a.Paths.GetReportPath(rel))
		return nil
	}

	if err := write(filepath.Join(csvDir, "startups.csv"), func(rel string) error {
		return a.CSV.WriteSubset(rel, subset)
	}); err != nil {
		return paths, err
	}

	for _, name := range services.ViewNames {
		if name == services.ViewMap {
			continue
		}
		v, err := a.Insights.View(name, f)
		if err != nil {
			return paths, err
		}
		if len(v.Cards) > 0 {
			if err := write(filepath.Join(csvDir, name, "cards.csv"), func(rel string) error {
				return a.CSV.WriteTable(rel, exporter.CardsTable(v.Cards))
			}); err != nil {
				return paths, err
			}
		}
		for _, c := range v.Charts {
			if c.Failed() {
				continue
			}
			rel := filepath.Join(csvDir, name, strings.TrimSuffix(charts.FileName(c), ".png")+".csv")
			if err := write(rel, func(rel string) error {
				return a.CSV.WriteTable(rel, exporter.ChartTable(c))
			}); err != nil {
				return paths, err
			}
		}
	}

	a.Logger.InfoContext(ctx, "CSV export written",
		slog.String("subset", subset.Name),
		slog.Int("files", len(paths)))
	return paths, nil
}

// ExportMap writes the interactive map for the selected regions.
func (a *Application) ExportMap(ctx context.Context, f services.Filter) (string, error) {
	groups, err := a.Insights.MapMarkers(f)
	if err != nil {
		return "", err
	}
	if err := a.Files.ValidateOutputFile(a.Paths.MapFile, ".html", ".htm"); err != nil {
		return "", err
	}
	if err := a.Map.Export(a.Paths.MapFile, groups); err != nil {
		return "", err
	}
	return a.Paths.MapFile, nil
}

// ExportWorkbook writes the Excel report.
func (a *Application) ExportWorkbook(ctx context.Context) (string, error) {
	if err := a.Files.ValidateOutputFile(a.Paths.WorkbookFile, ".xlsx"); err != nil {
		return "", err
	}
	if err := a.Workbook.Export(a.Paths.WorkbookFile); err != nil {
		return "", err
	}
	return a.Paths.WorkbookFile, nil
}

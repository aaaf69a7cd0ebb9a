package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths, resolved to absolute form.
type Paths struct {
	BaseDir      string
	DataFile     string
	ReportsDir   string
	ChartsDir    string
	LogsDir      string
	MapFile      string
	WorkbookFile string
	MetricsFile  string
}

// ResolvePaths resolves every configured path against the base directory.
// The base directory is Paths.BaseDir from config, or the working directory
// at process start when unset.
func ResolvePaths(cfg *Config) (*Paths, error) {
	base := cfg.Paths.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	reportsDir := resolve(base, cfg.Paths.ReportsDir)

	paths := &Paths{
		BaseDir:      base,
		DataFile:     resolve(base, cfg.Data.File),
		ReportsDir:   reportsDir,
		ChartsDir:    resolve(base, cfg.Paths.ChartsDir),
		LogsDir:      resolve(base, cfg.Paths.LogsDir),
		MapFile:      filepath.Join(reportsDir, MapFileName),
		WorkbookFile: resolve(reportsDir, cfg.Paths.WorkbookFile),
	}
	if cfg.Metrics.TextfilePath != "" {
		paths.MetricsFile = resolve(base, cfg.Metrics.TextfilePath)
	}

	return paths, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// EnsureDirectories creates the output directories if they don't exist.
// The input file's directory is never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	logger := slog.Default()

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return resolve(p.ReportsDir, filename)
}

// GetChartPath returns the path for a rendered chart
func (p *Paths) GetChartPath(filename string) string {
	return resolve(p.ChartsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return resolve(p.LogsDir, filename)
}

// LogPathResolution logs every resolved path at debug level.
func (p *Paths) LogPathResolution() {
	slog.Default().Debug("Resolved paths",
		slog.Group("paths",
			slog.String("base_dir", p.BaseDir),
			slog.String("data_file", p.DataFile),
			slog.String("reports_dir", p.ReportsDir),
			slog.String("charts_dir", p.ChartsDir),
			slog.String("logs_dir", p.LogsDir),
			slog.String("map_file", p.MapFile),
			slog.String("workbook_file", p.WorkbookFile),
		),
	)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Resolve returns p made absolute against the base directory.
func (p *Paths) Resolve(rel string) string {
	return resolve(p.BaseDir, rel)
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig          `yaml:"data" envconfig:"DATA"`
	Regions   []domain.RegionRule `yaml:"regions" ignored:"true" validate:"required,min=1,dive"`
	Investors InvestorsConfig     `yaml:"investors" envconfig:"INVESTORS"`
	Dashboard DashboardConfig     `yaml:"dashboard" envconfig:"DASHBOARD"`
	Logging   LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Metrics   MetricsConfig       `yaml:"metrics" envconfig:"METRICS"`
}

// DataConfig locates the input dataset
type DataConfig struct {
	File string `yaml:"file" envconfig:"FILE" validate:"required"`
}

// InvestorsConfig controls investor aggregations
type InvestorsConfig struct {
	// Attribution is "full" (every co-investor is credited the whole
	// valuation) or "split" (valuation divided evenly between them).
	Attribution string `yaml:"attribution" envconfig:"ATTRIBUTION" validate:"oneof=full split"`
	TopByCount  int    `yaml:"top_by_count" envconfig:"TOP_BY_COUNT" validate:"gte=1"`
	TopByValue  int    `yaml:"top_by_value" envconfig:"TOP_BY_VALUE" validate:"gte=1"`
}

// DashboardConfig sizes the top-N charts
type DashboardConfig struct {
	TopCities            int     `yaml:"top_cities" envconfig:"TOP_CITIES" validate:"gte=1"`
	CompareTopIndustries int     `yaml:"compare_top_industries" envconfig:"COMPARE_TOP_INDUSTRIES" validate:"gte=1"`
	UnicornThreshold     float64 `yaml:"unicorn_threshold" envconfig:"UNICORN_THRESHOLD" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`

	// FilePath is resolved against the logs directory when relative.
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	ChartsDir    string `yaml:"charts_dir" envconfig:"CHARTS_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
	WorkbookFile string `yaml:"workbook_file" envconfig:"WORKBOOK_FILE" validate:"required"`
}

// MetricsConfig controls the Prometheus textfile dump
type MetricsConfig struct {
	Enabled      bool   `yaml:"enabled" envconfig:"ENABLED"`
	TextfilePath string `yaml:"textfile_path" envconfig:"TEXTFILE_PATH"`
}

// Load builds the configuration from defaults, then the YAML config file
// (if one is found), then STARTUP_* environment variables. configFile may be
// empty to search the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).
				WithContext("path", configFile)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys missing from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filePath, err)
	}

	return nil
}

func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	c.Investors.Attribution = strings.ToLower(strings.TrimSpace(c.Investors.Attribution))

	for i := range c.Regions {
		c.Regions[i].Name = strings.TrimSpace(c.Regions[i].Name)
		for j := range c.Regions[i].Countries {
			c.Regions[i].Countries[j] = strings.TrimSpace(c.Regions[i].Countries[j])
		}
	}
}

// Validate checks struct constraints and cross-field rules.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging file_path is required for file output", nil)
	}

	if c.Metrics.Enabled && c.Metrics.TextfilePath == "" {
		return apperrors.NewConfigError("metrics textfile_path is required when metrics are enabled", nil)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if env := os.Getenv(EnvPrefix + "_CONFIG_FILE"); env != "" {
		return env
	}

	locations := []string{
		"startupcli.yaml",
		"configs/startupcli.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			File: DefaultDataFile,
		},
		Regions: DefaultRegions(),
		Investors: InvestorsConfig{
			Attribution: "full",
			TopByCount:  10,
			TopByValue:  8,
		},
		Dashboard: DashboardConfig{
			TopCities:            5,
			CompareTopIndustries: 5,
			UnicornThreshold:     1,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "startupcli.log",
		},
		Paths: PathsConfig{
			ReportsDir:   DefaultReportsDir,
			ChartsDir:    DefaultChartsDir,
			LogsDir:      DefaultLogsDir,
			WorkbookFile: DefaultWorkbookFile,
		},
	}
}

// DefaultRegions returns the stock region table: the United States, China
// and a fixed list of European countries. Adding a country to Europe means
// editing this list or overriding regions in the config file.
func DefaultRegions() []domain.RegionRule {
	usa := domain.ExactCountry("USA", "United States")
	usa.Color = "#1a73e8"

	china := domain.ExactCountry("China", "China")
	china.Color = "#dc3912"

	europe := domain.AnyCountry("Europe",
		"Sweden", "United Kingdom", "Germany", "Netherlands", "Belgium", "Lithuania",
		"Estonia", "France", "Austria", "Ireland", "Switzerland", "Spain",
		"Luxembourg", "Finland", "Denmark", "Norway", "Czech Republic", "Croatia",
	)
	europe.Color = "#ff9900"

	return []domain.RegionRule{usa, china, europe}
}

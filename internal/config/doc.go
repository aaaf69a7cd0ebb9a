// Package config provides centralized configuration management for startupcli.
// It handles loading configuration from multiple sources, validation, and path
// resolution for the input dataset and generated reports.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//	1. Default values (Default, DefaultRegions)
//	2. YAML configuration file (startupcli.yaml, configs/startupcli.yaml,
//	   or the file named by STARTUP_CONFIG_FILE)
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern STARTUP_<SECTION>_<KEY>:
//
//	STARTUP_DATA_FILE=startups_with_coordinates.csv
//	STARTUP_LOGGING_LEVEL=debug
//	STARTUP_INVESTORS_ATTRIBUTION=split
//	STARTUP_METRICS_TEXTFILE_PATH=reports/startupcli.prom
//
// # Regions
//
// The region table is configuration, not a package constant, so alternate
// rule sets can be supplied from YAML:
//
//	regions:
//	  - name: USA
//	    countries: ["United States"]
//	  - name: Nordics
//	    countries: ["Sweden", "Norway", "Denmark", "Finland"]
//
// # Paths
//
// Relative paths are resolved against paths.base_dir, or the working
// directory at process start:
//
//	paths, err := config.ResolvePaths(cfg)
//	reportPath := paths.GetReportPath("industries.csv")
package config

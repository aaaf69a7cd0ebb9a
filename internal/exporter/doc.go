// Package exporter writes the report artifacts of the startup insights tool.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility. Aggregation and chart data are laid
// out as a Table first so the same rows feed CSV files, worksheets and the
// terminal.
//
// WorkbookExporter: Writes the Excel report with a Dashboard sheet (headline
// metrics and startups per region) and one sheet per region holding its
// industry statistics and top investors.
//
// MapExporter: Renders the interactive Leaflet map with one marker cluster
// per region.
//
// Example usage:
//
//	workbook := exporter.NewWorkbookExporter(insights, 10, metrics, logger)
//	err := workbook.Export("reports/startup_insights.xlsx")
//
//	groups, _ := insights.MapMarkers(services.Filter{})
//	err = exporter.NewMapExporter(metrics, logger).Export("reports/circle_marker_cluster_map.html", groups)
package exporter

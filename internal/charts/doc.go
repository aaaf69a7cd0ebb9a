// Package charts renders chart data built by the services package into PNG
// files. Bar, box, scatter, grouped bar and heatmap charts are drawn with
// gonum/plot; pie charts with go-chart. Regions keep their configured
// colors across every chart.
package charts

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/internal/exporter"
	"startupcli/internal/services"
	"startupcli/pkg/contracts/domain"
)

func newSummaryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the headline metrics of the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subset, err := c.app.Insights.Select(c.filter())
			if err != nil {
				return err
			}
			cards := c.app.Insights.Aggregator().DashboardMetrics(subset)
			return c.printer(cmd).print(cards, section{
				Title: subset.Name,
				Table: exporter.CardsTable(cards),
			})
		},
	}
}

func newAggregateCmd(c *cli) *cobra.Command {
	var (
		metric  string
		column  string
		groupBy string
		sort    string
		top     int
		out     string
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Compute a metric over a column, optionally per group",
		Example: `  startupcli aggregate --metric mean --column valuation --group-by industry --sort desc --top 5
  startupcli aggregate --metric distinct --column city --region Europe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := parseRequest(metric, column, groupBy)
			if err != nil {
				return err
			}
			order, err := parseSort(sort)
			if err != nil {
				return err
			}

			subset, err := c.app.Insights.Select(c.filter())
			if err != nil {
				return err
			}
			res, err := c.app.Insights.Aggregator().Aggregate(subset, req)
			if err != nil {
				return err
			}

			groups := services.OrderGroups(res, order, top)
			table := exporter.AggregationTable(res, groups)
			if out != "" {
				if err := c.app.CSV.WriteTable(out, table); err != nil {
					return apperrors.NewExportError("failed to write aggregation", err).WithContext("path", out)
				}
			}

			if res.IsGrouped() {
				res.Groups = groups
			}
			return c.printer(cmd).print(res, section{Table: table})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&metric, "metric", "m", "count", "metric: count, sum, mean, median, mode or distinct")
	f.StringVar(&column, "column", "", "column the metric reads (not needed for count)")
	f.StringVarP(&groupBy, "group-by", "g", "", "categorical column to group by")
	f.StringVar(&sort, "sort", "", "group order: desc, asc, key or empty for first seen")
	f.IntVarP(&top, "top", "n", 0, "keep at most n groups (0 keeps all)")
	f.StringVarP(&out, "out", "o", "", "also write the table to this CSV file (relative to the reports directory)")
	return cmd
}

func newTopCmd(c *cli) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "top COLUMN",
		Short: "Rank the most frequent values of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := parseColumn(args[0])
			if err != nil {
				return err
			}
			subset, err := c.app.Insights.Select(c.filter())
			if err != nil {
				return err
			}
			groups, err := c.app.Insights.Aggregator().TopN(subset, col, n)
			if err != nil {
				return err
			}

			res := domain.AggregationResult{
				Subset:  subset.Name,
				Metric:  domain.MetricCount,
				GroupBy: col,
				Groups:  groups,
			}
			return c.printer(cmd).print(res, section{
				Title: fmt.Sprintf("Top %s in %s", col, subset.Name),
				Table: exporter.AggregationTable(res, groups),
			})
		},
	}

	cmd.Flags().IntVarP(&n, "limit", "n", 10, "number of values to show")
	return cmd
}

func newBinsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "bins",
		Short: "Show the valuation distribution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subset, err := c.app.Insights.Select(c.filter())
			if err != nil {
				return err
			}
			dist, err := c.app.Insights.Binner().Distribution(subset)
			if err != nil {
				return err
			}
			return c.printer(cmd).print(dist, section{
				Title: "Valuation Distribution - " + subset.Name,
				Table: exporter.DistributionTable(dist),
			})
		},
	}
}

func newInvestorsCmd(c *cli) *cobra.Command {
	var (
		by          string
		n           int
		attribution string
	)

	cmd := &cobra.Command{
		Use:   "investors",
		Short: "Rank investors by deal count or portfolio valuation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subset, err := c.app.Insights.Select(c.filter())
			if err != nil {
				return err
			}

			var (
				totals []dataprocessing.InvestorTotal
				table  exporter.Table
			)
			switch strings.ToLower(by) {
			case "count":
				totals = dataprocessing.InvestorFrequency(subset, n)
				table = exporter.InvestorTable(totals, "Startups", true)
			case "value":
				attr := c.app.Insights.Attribution()
				if attribution != "" {
					var ok bool
					if attr, ok = dataprocessing.ParseAttribution(attribution); !ok {
						return apperrors.NewConfigError(fmt.Sprintf("unknown attribution %q", attribution), nil)
					}
				}
				totals = dataprocessing.InvestorPortfolio(subset, attr, n)
				table = exporter.InvestorTable(totals, "Portfolio Valuation ($B)", false)
			default:
				return apperrors.NewInvalidAggregationError(fmt.Sprintf("unknown ranking %q, want count or value", by))
			}

			return c.printer(cmd).print(totals, section{
				Title: "Top Investors - " + subset.Name,
				Table: table,
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&by, "by", "count", "rank by count or value")
	f.IntVarP(&n, "limit", "n", 10, "number of investors to show")
	f.StringVar(&attribution, "attribution", "", "valuation credit for co-investors: full or split (default from config)")
	return cmd
}

func newCompareCmd(c *cli) *cobra.Command {
	var topIndustries int

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare regions side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			regions, err := c.app.Insights.Partition().Subsets(c.regions...)
			if err != nil {
				return err
			}
			if topIndustries <= 0 {
				topIndustries = c.app.Config.Dashboard.CompareTopIndustries
			}

			cmp := c.app.Insights.Aggregator().CompareRegions(regions, topIndustries, c.app.Config.Dashboard.UnicornThreshold)
			return c.printer(cmd).print(cmp,
				section{Title: "Mean Valuation ($B)", Table: regionTable(cmp.MeanValuation, "Mean Valuation ($B)", false)},
				section{Title: "Unicorns", Table: regionTable(cmp.Unicorns, "Startups", true)},
				section{Title: "Industries", Table: industryTable(cmp)},
			)
		},
	}

	cmd.Flags().IntVar(&topIndustries, "top-industries", 0, "industries taken from each region (default from config)")
	return cmd
}

func regionTable(values []dataprocessing.RegionValue, header string, asCount bool) exporter.Table {
	t := exporter.Table{Headers: []string{"Region", header}}
	for _, v := range values {
		cell := fmt.Sprintf("%.2f", v.Value)
		if asCount {
			cell = fmt.Sprintf("%d", int(v.Value))
		}
		if v.Err != "" {
			cell = "n/a: " + v.Err
		}
		t.Rows = append(t.Rows, []string{v.Region, cell})
	}
	return t
}

func industryTable(cmp dataprocessing.Comparison) exporter.Table {
	t := exporter.Table{Headers: append([]string{"Industry"}, cmp.Regions...)}
	for i, industry := range cmp.Industries {
		row := []string{industry}
		for r := range cmp.Regions {
			row = append(row, fmt.Sprintf("%d", cmp.Counts[r][i]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func newViewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "view NAME",
		Short:     "Build a report view and print its data",
		Long:      "Build a report view and print its cards and chart data. Views: " + strings.Join(services.ViewNames, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: services.ViewNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := c.app.Insights.View(args[0], c.filter())
			if err != nil {
				return err
			}

			var sections []section
			if len(v.Cards) > 0 {
				sections = append(sections, section{Title: "Summary", Table: exporter.CardsTable(v.Cards)})
			}
			for _, chart := range v.Charts {
				if chart.Failed() {
					sections = append(sections, section{
						Title: chart.Title,
						Table: exporter.Table{Headers: []string{"Error"}, Rows: [][]string{{chart.Err}}},
					})
					continue
				}
				sections = append(sections, section{Title: chart.Title, Table: exporter.ChartTable(chart)})
			}
			for _, g := range v.Markers {
				sections = append(sections, section{Title: g.Region, Table: markerTable(g)})
			}
			return c.printer(cmd).print(v, sections...)
		},
	}
}

func markerTable(g services.MarkerGroup) exporter.Table {
	t := exporter.Table{Headers: []string{"Company", "City", "Country", "Valuation ($B)", "Latitude", "Longitude"}}
	for _, m := range g.Markers {
		t.Rows = append(t.Rows, []string{
			m.Company, m.City, m.Country,
			fmt.Sprintf("%.2f", m.Valuation),
			fmt.Sprintf("%.4f", m.Latitude),
			fmt.Sprintf("%.4f", m.Longitude),
		})
	}
	return t
}

func newChartsCmd(c *cli) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:       "charts [VIEW...]",
		Short:     "Render the charts of the given views (all views by default) as PNG files",
		ValidArgs: services.ViewNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := c.app.Charts(c.ctx, out, args, c.filter())
			if err != nil {
				return err
			}
			return c.printer(cmd).lines(relative(c.app.Paths.BaseDir, paths))
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: the configured charts directory)")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var xlsx, csv bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the Excel workbook and, with --csv, the CSV data files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !xlsx && !csv {
				return apperrors.NewExportError("nothing to export, enable --xlsx or --csv", nil)
			}

			var paths []string
			if xlsx {
				path, err := c.app.ExportWorkbook(c.ctx)
				if err != nil {
					return err
				}
				paths = append(paths, path)
			}
			if csv {
				written, err := c.app.ExportCSV(c.ctx, c.filter())
				paths = append(paths, written...)
				if err != nil {
					return err
				}
			}
			return c.printer(cmd).lines(relative(c.app.Paths.BaseDir, paths))
		},
	}

	cmd.Flags().BoolVar(&xlsx, "xlsx", true, "write the Excel workbook")
	cmd.Flags().BoolVar(&csv, "csv", false, "write the selected records and every view's data as CSV")
	return cmd
}

func newMapCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Write the interactive startup map as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := c.app.ExportMap(c.ctx, c.filter())
			if err != nil {
				return err
			}
			return c.printer(cmd).lines(relative(c.app.Paths.BaseDir, []string{path}))
		},
	}
}

func parseRequest(metric, column, groupBy string) (dataprocessing.Request, error) {
	m, ok := domain.ParseMetric(metric)
	if !ok {
		return dataprocessing.Request{}, apperrors.NewInvalidAggregationError(fmt.Sprintf("unknown metric %q", metric))
	}

	req := dataprocessing.Request{Metric: m}
	if column != "" {
		col, err := parseColumn(column)
		if err != nil {
			return req, err
		}
		req.Column = col
	}
	if groupBy != "" {
		col, err := parseColumn(groupBy)
		if err != nil {
			return req, err
		}
		req.GroupBy = col
	}
	return req, nil
}

func parseColumn(name string) (domain.Column, error) {
	if col, ok := domain.ParseColumn(name); ok {
		return col, nil
	}
	if col := domain.Column(strings.TrimSpace(name)); col.IsKnown() {
		return col, nil
	}
	return "", apperrors.NewInvalidAggregationError(fmt.Sprintf("unknown column %q", name))
}

func parseSort(s string) (services.SortOrder, error) {
	switch order := services.SortOrder(strings.ToLower(s)); order {
	case services.SortNone, services.SortDesc, services.SortAsc, services.SortKey:
		return order, nil
	}
	return "", apperrors.NewInvalidAggregationError(fmt.Sprintf("unknown sort %q, want desc, asc or key", s))
}

// relative shortens paths under base for display.
func relative(base string, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p
		if rel, err := filepath.Rel(base, p); err == nil && !strings.HasPrefix(rel, "..") {
			out[i] = rel
		}
	}
	return out
}

package exporter

import (
	"startupcli/internal/dataprocessing"
	"startupcli/internal/services"
	"startupcli/pkg/contracts/domain"
)

// Table is a header row plus data rows, ready for CSV, a worksheet or the
// terminal.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AggregationTable lays out an aggregation result. Grouped results get one
// row per group in the order given.
func AggregationTable(res domain.AggregationResult, groups []domain.GroupValue) Table {
	label := string(res.Metric)
	if res.Column != "" {
		label += " " + string(res.Column)
	}

	if !res.IsGrouped() {
		return Table{
			Headers: []string{"Subset", label},
			Rows:    [][]string{{res.Subset, res.Scalar.String()}},
		}
	}

	t := Table{Headers: []string{string(res.GroupBy), label}}
	if res.Metric == domain.MetricMode {
		t.Headers = append(t.Headers, "Frequency")
	}
	for _, g := range groups {
		row := []string{g.Key, g.Value.String()}
		if res.Metric == domain.MetricMode {
			row = append(row, formatInt(int(g.Value.Number)))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// DistributionTable lays out a valuation histogram.
func DistributionTable(dist []dataprocessing.BinCount) Table {
	t := Table{Headers: []string{"Valuation Range", "Startups"}}
	for _, bc := range dist {
		t.Rows = append(t.Rows, []string{bc.Bin.Label, formatInt(bc.Count)})
	}
	return t
}

// InvestorTable lays out investor totals; valueHeader names the figure.
func InvestorTable(totals []dataprocessing.InvestorTotal, valueHeader string, asCount bool) Table {
	t := Table{Headers: []string{"Investor", valueHeader}}
	for _, it := range totals {
		v := formatFloat(it.Value)
		if asCount {
			v = formatInt(int(it.Value))
		}
		t.Rows = append(t.Rows, []string{it.Investor, v})
	}
	return t
}

// CardsTable lays out dashboard cards. Failed cards show their error.
func CardsTable(cards []dataprocessing.MetricCard) Table {
	t := Table{Headers: []string{"Metric", "Value"}}
	for _, c := range cards {
		v := c.Value
		if c.Err != "" {
			v = "n/a: " + c.Err
		}
		t.Rows = append(t.Rows, []string{c.Title, v})
	}
	return t
}

// ChartTable lays out a chart's data, one column per series.
func ChartTable(c services.Chart) Table {
	t := Table{Headers: []string{"Label"}}
	if len(c.Series) == 0 {
		return t
	}

	if c.Kind == services.ChartScatter {
		t.Headers = append(t.Headers, c.XLabel, c.YLabel)
		for _, p := range c.Series[0].Points {
			t.Rows = append(t.Rows, []string{p.Label, formatFloat(p.X), formatFloat(p.Y)})
		}
		return t
	}

	for _, s := range c.Series {
		t.Headers = append(t.Headers, s.Name)
	}
	for i, p := range c.Series[0].Points {
		row := []string{p.Label}
		for _, s := range c.Series {
			if i < len(s.Points) {
				row = append(row, formatFloat(s.Points[i].Y))
			} else {
				row = append(row, "")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

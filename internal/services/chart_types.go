package services

import (
	"startupcli/pkg/contracts/domain"
)

// ChartKind selects how a chart is drawn.
type ChartKind string

const (
	ChartBar     ChartKind = "bar"
	ChartHBar    ChartKind = "hbar"
	ChartPie     ChartKind = "pie"
	ChartBox     ChartKind = "box"
	ChartScatter ChartKind = "scatter"
	ChartHeatmap ChartKind = "heatmap"
	ChartGrouped ChartKind = "grouped"
)

// ChartSource selects where a chart's numbers come from. The zero value
// aggregates Metric over Column, grouped by GroupBy.
type ChartSource string

const (
	SourceAggregate     ChartSource = ""
	SourceBins          ChartSource = "bins"
	SourceInvestorCount ChartSource = "investor_count"
	SourceInvestorValue ChartSource = "investor_value"
)

// SortOrder orders grouped points.
type SortOrder string

const (
	// SortNone keeps first-encountered order.
	SortNone SortOrder = ""
	// SortDesc puts the largest value first.
	SortDesc SortOrder = "desc"
	// SortAsc puts the largest TopN values last, the way horizontal bar
	// charts read bottom to top.
	SortAsc SortOrder = "asc"
	SortKey SortOrder = "key"
)

// ChartSpec describes one chart independently of the region it is drawn
// for.
type ChartSpec struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Kind    ChartKind     `json:"kind"`
	Source  ChartSource   `json:"source,omitempty"`
	Metric  domain.Metric `json:"metric,omitempty"`
	Column  domain.Column `json:"column,omitempty"`
	GroupBy domain.Column `json:"group_by,omitempty"`
	TopN    int           `json:"top_n,omitempty"`
	Sort    SortOrder     `json:"sort,omitempty"`
	XLabel  string        `json:"x_label,omitempty"`
	YLabel  string        `json:"y_label,omitempty"`
}

// Point is one datum. Bar, pie and box charts use Label and Y; scatter
// charts use X and Y with Label naming the point.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y"`
}

// Series is one named run of points. Multi-region charts carry one series
// per region, in rule order.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color,omitempty"`
	Points []Point `json:"points"`
}

// Chart is a chart ready for rendering. When Err is set the chart could not
// be built and carries no data.
type Chart struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Kind   ChartKind `json:"kind"`
	Subset string    `json:"subset"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Series []Series  `json:"series,omitempty"`
	Notes  []string  `json:"notes,omitempty"`
	Err    string    `json:"error,omitempty"`
}

// Failed reports whether the chart carries an error instead of data.
func (c Chart) Failed() bool {
	return c.Err != ""
}

// Labels returns the point labels of the first series.
func (c Chart) Labels() []string {
	if len(c.Series) == 0 {
		return nil
	}
	out := make([]string, len(c.Series[0].Points))
	for i, p := range c.Series[0].Points {
		out[i] = p.Label
	}
	return out
}

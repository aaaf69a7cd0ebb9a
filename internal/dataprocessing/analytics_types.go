package dataprocessing

import "startupcli/pkg/contracts/domain"

// Recorder receives counters from the loader and the aggregator.
// *infrastructure.Metrics satisfies it.
type Recorder interface {
	RowsLoaded(n int)
	RowRejected()
	Aggregation(metric string, err error)
}

type noopRecorder struct{}

func (noopRecorder) RowsLoaded(int)            {}
func (noopRecorder) RowRejected()              {}
func (noopRecorder) Aggregation(string, error) {}

func recorderOrNoop(r Recorder) Recorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

// Request describes one aggregation: a metric over a column, optionally
// grouped by a categorical column. Column is ignored for MetricCount.
type Request struct {
	Metric  domain.Metric
	Column  domain.Column
	GroupBy domain.Column
}

// MetricCard is one headline number of the dashboard. Err is set instead
// of Value when the underlying aggregation failed.
type MetricCard struct {
	Title string `json:"title"`
	Value string `json:"value,omitempty"`
	Err   string `json:"error,omitempty"`
}

// RegionValue is one region's figure in a comparison.
type RegionValue struct {
	Region string  `json:"region"`
	Value  float64 `json:"value"`
	Err    string  `json:"error,omitempty"`
}

// Comparison contrasts the named regions side by side.
type Comparison struct {
	Regions       []string      `json:"regions"`
	MeanValuation []RegionValue `json:"mean_valuation"`
	Unicorns      []RegionValue `json:"unicorns"`
	// Industries is the union of every region's top industries, first-seen
	// order with regions taken in rule order.
	Industries []string `json:"industries"`
	// Counts[r][i] is the number of startups of Industries[i] in Regions[r].
	Counts [][]int `json:"counts"`
}

package domain

import (
	"sort"
	"strings"
)

// Metric names a summary statistic.
type Metric string

const (
	MetricCount    Metric = "count"
	MetricSum      Metric = "sum"
	MetricMean     Metric = "mean"
	MetricMedian   Metric = "median"
	MetricMode     Metric = "mode"
	MetricDistinct Metric = "distinct"
)

// Metrics lists every supported metric.
var Metrics = []Metric{MetricCount, MetricSum, MetricMean, MetricMedian, MetricMode, MetricDistinct}

// IsNumeric reports whether the metric needs a numeric column.
func (m Metric) IsNumeric() bool {
	return m == MetricSum || m == MetricMean || m == MetricMedian
}

// ParseMetric resolves a metric name, accepting a few common aliases.
func ParseMetric(name string) (Metric, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "count", "size":
		return MetricCount, true
	case "sum", "total":
		return MetricSum, true
	case "mean", "avg", "average":
		return MetricMean, true
	case "median":
		return MetricMedian, true
	case "mode":
		return MetricMode, true
	case "distinct", "nunique", "distinct-count":
		return MetricDistinct, true
	}
	return "", false
}

// MetricValue is the outcome of one metric computation. Text is set for
// mode results, where the most frequent value may not be a number.
type MetricValue struct {
	Number float64 `json:"number"`
	Text   string  `json:"text,omitempty"`
}

// String renders the value for tables and logs.
func (v MetricValue) String() string {
	if v.Text != "" {
		return v.Text
	}
	return formatNumber(v.Number)
}

// GroupValue is one group's metric value.
type GroupValue struct {
	Key   string      `json:"key"`
	Value MetricValue `json:"value"`
}

// AggregationResult holds either a scalar (GroupBy empty) or one value per
// group present in the subset. Groups keep first-encountered order.
type AggregationResult struct {
	Subset  string       `json:"subset"`
	Metric  Metric       `json:"metric"`
	Column  Column       `json:"column,omitempty"`
	GroupBy Column       `json:"group_by,omitempty"`
	Scalar  MetricValue  `json:"scalar"`
	Groups  []GroupValue `json:"groups,omitempty"`
}

// IsGrouped reports whether the result carries per-group values.
func (r AggregationResult) IsGrouped() bool {
	return r.GroupBy != ""
}

// SortedByValue returns the groups ordered by descending value. The sort is
// stable so ties keep first-encountered order.
func (r AggregationResult) SortedByValue() []GroupValue {
	out := make([]GroupValue, len(r.Groups))
	copy(out, r.Groups)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value.Number > out[j].Value.Number
	})
	return out
}

// SortedByKey returns the groups ordered by key.
func (r AggregationResult) SortedByKey() []GroupValue {
	out := make([]GroupValue, len(r.Groups))
	copy(out, r.Groups)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out
}

// Top returns the first n groups by descending value; n <= 0 returns all.
func (r AggregationResult) Top(n int) []GroupValue {
	sorted := r.SortedByValue()
	if n > 0 && n < len(sorted) {
		return sorted[:n]
	}
	return sorted
}

// Lookup returns the value recorded for key.
func (r AggregationResult) Lookup(key string) (MetricValue, bool) {
	for _, g := range r.Groups {
		if g.Key == key {
			return g.Value, true
		}
	}
	return MetricValue{}, false
}

package dataprocessing

import (
	"fmt"

	"github.com/go-gota/gota/series"

	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

// Aggregator computes metrics over subsets. It holds no state besides the
// recorder, so calls with identical inputs give identical results.
type Aggregator struct {
	recorder Recorder
}

// NewAggregator creates an aggregator. A nil recorder disables metrics.
func NewAggregator(recorder Recorder) *Aggregator {
	return &Aggregator{recorder: recorderOrNoop(recorder)}
}

// Aggregate evaluates req over subset. Without GroupBy the result is a
// scalar; otherwise there is one value per group present in the subset,
// in first-encountered order. Rows whose group value is missing are
// skipped.
//
// For mode, Text holds the most frequent value and Number its frequency.
func (a *Aggregator) Aggregate(subset domain.Subset, req Request) (domain.AggregationResult, error) {
	res, err := a.aggregate(subset, req)
	a.recorder.Aggregation(string(req.Metric), err)
	return res, err
}

func (a *Aggregator) aggregate(subset domain.Subset, req Request) (domain.AggregationResult, error) {
	result := domain.AggregationResult{
		Subset:  subset.Name,
		Metric:  req.Metric,
		Column:  req.Column,
		GroupBy: req.GroupBy,
	}

	if err := checkRequest(req); err != nil {
		return result, err
	}

	if req.GroupBy == "" {
		v, err := evaluate(req.Metric, req.Column, subset)
		if err != nil {
			return result, apperrors.NewInvalidAggregationError(
				fmt.Sprintf("%s over %q: %s", req.Metric, subset.Name, err))
		}
		result.Scalar = v
		return result, nil
	}

	var keys []string
	groups := make(map[string][]int)
	for _, idx := range subset.Rows() {
		key, ok := subset.Source().At(idx).Text(req.GroupBy)
		if !ok {
			continue
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], idx)
	}

	result.Groups = make([]domain.GroupValue, 0, len(keys))
	for _, key := range keys {
		group := domain.NewSubset(key, subset.Source(), groups[key])
		v, err := evaluate(req.Metric, req.Column, group)
		if err != nil {
			return result, apperrors.NewInvalidAggregationError(
				fmt.Sprintf("%s over %q group %q: %s", req.Metric, subset.Name, key, err))
		}
		result.Groups = append(result.Groups, domain.GroupValue{Key: key, Value: v})
	}
	return result, nil
}

func checkRequest(req Request) error {
	switch req.Metric {
	case domain.MetricCount:
	case domain.MetricSum, domain.MetricMean, domain.MetricMedian:
		if !req.Column.IsNumeric() {
			return apperrors.NewInvalidAggregationError(
				fmt.Sprintf("%s needs a numeric column, got %q", req.Metric, req.Column))
		}
	case domain.MetricMode, domain.MetricDistinct:
		if !req.Column.IsKnown() {
			return apperrors.NewInvalidAggregationError(fmt.Sprintf("unknown column %q", req.Column))
		}
	default:
		return apperrors.NewInvalidAggregationError(fmt.Sprintf("unknown metric %q", req.Metric))
	}

	if req.GroupBy != "" && !req.GroupBy.IsKnown() {
		return apperrors.NewInvalidAggregationError(fmt.Sprintf("unknown group column %q", req.GroupBy))
	}
	return nil
}

func evaluate(metric domain.Metric, col domain.Column, s domain.Subset) (domain.MetricValue, error) {
	switch metric {
	case domain.MetricCount:
		return domain.MetricValue{Number: float64(s.Len())}, nil

	case domain.MetricDistinct:
		seen := make(map[string]struct{})
		s.Each(func(rec *domain.StartupRecord) bool {
			if v, ok := rec.Text(col); ok {
				seen[v] = struct{}{}
			}
			return true
		})
		return domain.MetricValue{Number: float64(len(seen))}, nil

	case domain.MetricMode:
		value, freq, ok := mode(col, s)
		if !ok {
			return domain.MetricValue{}, fmt.Errorf("no %q values", col)
		}
		return domain.MetricValue{Number: float64(freq), Text: value}, nil
	}

	values := numbers(col, s)
	if values.Len() == 0 {
		return domain.MetricValue{}, fmt.Errorf("no %q values", col)
	}

	switch metric {
	case domain.MetricSum:
		return domain.MetricValue{Number: values.Sum()}, nil
	case domain.MetricMean:
		return domain.MetricValue{Number: values.Mean()}, nil
	default:
		return domain.MetricValue{Number: values.Median()}, nil
	}
}

// numbers collects the non-missing values of col as a float series.
func numbers(col domain.Column, s domain.Subset) series.Series {
	values := make([]float64, 0, s.Len())
	s.Each(func(rec *domain.StartupRecord) bool {
		if v, ok := rec.Number(col); ok {
			values = append(values, v)
		}
		return true
	})
	return series.Floats(values)
}

// mode returns the most frequent non-missing value; ties go to the value
// seen first.
func mode(col domain.Column, s domain.Subset) (string, int, bool) {
	counts := make(map[string]int)
	var order []string
	s.Each(func(rec *domain.StartupRecord) bool {
		if v, ok := rec.Text(col); ok {
			if counts[v] == 0 {
				order = append(order, v)
			}
			counts[v]++
		}
		return true
	})

	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, bestCount, bestCount > 0
}

// TopN counts records per value of column and returns the n most frequent,
// ties in first-encountered order. n <= 0 returns all groups.
func (a *Aggregator) TopN(subset domain.Subset, column domain.Column, n int) ([]domain.GroupValue, error) {
	res, err := a.Aggregate(subset, Request{Metric: domain.MetricCount, GroupBy: column})
	if err != nil {
		return nil, err
	}
	return res.Top(n), nil
}

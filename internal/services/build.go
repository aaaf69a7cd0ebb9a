package services

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

var printer = message.NewPrinter(language.English)

// BuildChart builds one chart for one subset. Every per-region chart goes
// through it; failures are reported in Chart.Err rather than returned.
func (s *InsightsService) BuildChart(subset domain.Subset, spec ChartSpec) Chart {
	return s.buildChart("adhoc", subset, spec)
}

func (s *InsightsService) buildChart(view string, subset domain.Subset, spec ChartSpec) Chart {
	return s.guard(view, spec, subset.Name, func() (Chart, error) {
		points, notes, err := s.points(subset, spec)
		if err != nil {
			return Chart{}, err
		}
		if err := checkPoints(spec.Kind, points); err != nil {
			return Chart{}, err
		}
		c := newChart(spec, subset.Name)
		c.Series = []Series{{Name: subset.Name, Color: s.color(subset.Name), Points: points}}
		c.Notes = notes
		return c, nil
	})
}

func (s *InsightsService) points(subset domain.Subset, spec ChartSpec) ([]Point, []string, error) {
	switch spec.Source {
	case SourceBins:
		dist, err := s.binner.Distribution(subset)
		if err != nil {
			return nil, nil, err
		}
		points := make([]Point, len(dist))
		for i, bc := range dist {
			points[i] = Point{Label: bc.Bin.Label, Y: float64(bc.Count)}
		}
		return points, nil, nil

	case SourceInvestorCount:
		return investorPoints(dataprocessing.InvestorFrequency(subset, spec.TopN), spec.Sort), nil, nil

	case SourceInvestorValue:
		return investorPoints(dataprocessing.InvestorPortfolio(subset, s.attribution, spec.TopN), spec.Sort), nil, nil

	case SourceAggregate:
	default:
		return nil, nil, apperrors.NewNotFoundError(fmt.Sprintf("chart source %q", spec.Source))
	}

	switch spec.Kind {
	case ChartBox:
		return s.boxPoints(subset, spec)
	case ChartScatter:
		return s.scatterPoints(subset, spec)
	}

	res, err := s.aggregator.Aggregate(subset, dataprocessing.Request{
		Metric:  spec.Metric,
		Column:  spec.Column,
		GroupBy: spec.GroupBy,
	})
	if err != nil {
		return nil, nil, err
	}
	if !res.IsGrouped() {
		return []Point{{Label: spec.Title, Y: res.Scalar.Number}}, nil, nil
	}

	groups := OrderGroups(res, spec.Sort, spec.TopN)
	points := make([]Point, len(groups))
	for i, g := range groups {
		points[i] = Point{Label: g.Key, Y: g.Value.Number}
	}
	return points, nil, nil
}

// checkPoints rejects data a chart of the given kind cannot draw: no points
// at all, or a pie without a positive slice.
func checkPoints(kind ChartKind, points []Point) error {
	if len(points) == 0 {
		return apperrors.NewInvalidAggregationError("no data to plot")
	}
	if kind != ChartPie {
		return nil
	}
	for _, p := range points {
		if p.Y > 0 {
			return nil
		}
	}
	return apperrors.NewInvalidAggregationError("pie chart has no positive values")
}

// boxPoints returns every value of the column with the company as label,
// plus a median note.
func (s *InsightsService) boxPoints(subset domain.Subset, spec ChartSpec) ([]Point, []string, error) {
	median, err := s.aggregator.Aggregate(subset, dataprocessing.Request{Metric: domain.MetricMedian, Column: spec.Column})
	if err != nil {
		return nil, nil, err
	}

	points := make([]Point, 0, subset.Len())
	subset.Each(func(rec *domain.StartupRecord) bool {
		if v, ok := rec.Number(spec.Column); ok {
			points = append(points, Point{Label: rec.Company, Y: v})
		}
		return true
	})
	return points, []string{printer.Sprintf("Median: %.2f", median.Scalar.Number)}, nil
}

// scatterPoints puts one point per group at (record count, metric value).
func (s *InsightsService) scatterPoints(subset domain.Subset, spec ChartSpec) ([]Point, []string, error) {
	if spec.GroupBy == "" {
		return nil, nil, apperrors.NewInvalidAggregationError("scatter chart needs a group column")
	}

	counts, err := s.aggregator.Aggregate(subset, dataprocessing.Request{Metric: domain.MetricCount, GroupBy: spec.GroupBy})
	if err != nil {
		return nil, nil, err
	}
	values, err := s.aggregator.Aggregate(subset, dataprocessing.Request{
		Metric:  spec.Metric,
		Column:  spec.Column,
		GroupBy: spec.GroupBy,
	})
	if err != nil {
		return nil, nil, err
	}

	points := make([]Point, 0, len(counts.Groups))
	for _, g := range counts.Groups {
		v, ok := values.Lookup(g.Key)
		if !ok {
			continue
		}
		points = append(points, Point{Label: g.Key, X: g.Value.Number, Y: v.Number})
	}
	return points, nil, nil
}

// OrderGroups arranges grouped results for display and keeps at most n.
// SortDesc, SortAsc and SortKey keep the n largest values and then order
// them; SortNone keeps the first n groups encountered.
func OrderGroups(res domain.AggregationResult, order SortOrder, n int) []domain.GroupValue {
	var groups []domain.GroupValue
	switch order {
	case SortDesc:
		groups = res.Top(n)
	case SortAsc:
		top := res.Top(n)
		groups = make([]domain.GroupValue, len(top))
		for i, g := range top {
			groups[len(top)-1-i] = g
		}
	case SortKey:
		top := res
		top.Groups = res.Top(n)
		groups = top.SortedByKey()
	default:
		groups = res.Groups
	}
	if n > 0 && n < len(groups) {
		groups = groups[:n]
	}
	return groups
}

func investorPoints(totals []dataprocessing.InvestorTotal, order SortOrder) []Point {
	points := make([]Point, len(totals))
	for i, t := range totals {
		points[i] = Point{Label: t.Investor, Y: t.Value}
	}
	if order == SortAsc {
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	}
	return points
}

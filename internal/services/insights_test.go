package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

func TestNewInsightsService_RejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Regions = append(cfg.Regions, domain.ExactCountry("Americas", "United States"))

	_, err := NewInsightsService(cfg, testDataset(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))

	cfg = testConfig()
	cfg.Investors.Attribution = "weighted"
	_, err = NewInsightsService(cfg, testDataset(), nil, nil)
	assert.True(t, apperrors.IsConfig(err))
}

func TestBuildChart_Aggregate(t *testing.T) {
	svc := newTestService(t)
	usa, err := svc.Subset("USA")
	require.NoError(t, err)

	chart := svc.BuildChart(usa, ChartSpec{
		ID:      "cities",
		Title:   "Cities",
		Kind:    ChartBar,
		Metric:  domain.MetricCount,
		GroupBy: domain.ColumnCity,
		Sort:    SortDesc,
		TopN:    1,
	})

	require.False(t, chart.Failed(), chart.Err)
	assert.Equal(t, "USA", chart.Subset)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, "#1a73e8", chart.Series[0].Color)
	assert.Equal(t, []Point{{Label: "San Francisco", Y: 2}}, chart.Series[0].Points)
}

func TestBuildChart_SortOrders(t *testing.T) {
	svc := newTestService(t)
	all, err := svc.Subset(domain.AllRegions)
	require.NoError(t, err)

	spec := ChartSpec{
		ID:      "industry_valuation",
		Kind:    ChartHBar,
		Metric:  domain.MetricSum,
		Column:  domain.ColumnValuation,
		GroupBy: domain.ColumnIndustry,
		TopN:    3,
	}

	tests := []struct {
		sort SortOrder
		want []string
	}{
		{sort: SortNone, want: []string{"Fintech", "Aerospace", "Artificial intelligence"}},
		{sort: SortDesc, want: []string{"Artificial intelligence", "Fintech", "Aerospace"}},
		{sort: SortAsc, want: []string{"Aerospace", "Fintech", "Artificial intelligence"}},
		{sort: SortKey, want: []string{"Aerospace", "Artificial intelligence", "Fintech"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			spec.Sort = tt.sort
			chart := svc.BuildChart(all, spec)
			require.False(t, chart.Failed(), chart.Err)
			assert.Equal(t, tt.want, chart.Labels())
		})
	}
}

func TestOrderGroups_KeyOrderKeepsLargestValues(t *testing.T) {
	res := domain.AggregationResult{
		Metric:  domain.MetricCount,
		GroupBy: domain.ColumnCity,
		Groups: []domain.GroupValue{
			{Key: "Austin", Value: domain.MetricValue{Number: 1}},
			{Key: "London", Value: domain.MetricValue{Number: 5}},
			{Key: "Beijing", Value: domain.MetricValue{Number: 3}},
			{Key: "Berlin", Value: domain.MetricValue{Number: 2}},
		},
	}

	keys := func(groups []domain.GroupValue) []string {
		out := make([]string, len(groups))
		for i, g := range groups {
			out[i] = g.Key
		}
		return out
	}

	assert.Equal(t, []string{"Beijing", "London"}, keys(OrderGroups(res, SortKey, 2)))
	assert.Equal(t, []string{"Austin", "Beijing", "Berlin", "London"}, keys(OrderGroups(res, SortKey, 0)))
	assert.Equal(t, []string{"Austin", "London"}, keys(OrderGroups(res, SortNone, 2)))
}

func TestBuildChart_Sources(t *testing.T) {
	svc := newTestService(t)
	all, err := svc.Subset(domain.AllRegions)
	require.NoError(t, err)

	bins := svc.BuildChart(all, ChartSpec{ID: "bins", Kind: ChartBar, Source: SourceBins})
	require.False(t, bins.Failed(), bins.Err)
	assert.Equal(t, []string{"0-1B", "1-2B", "2-5B", "5-10B", "10B+"}, bins.Labels())

	investors := svc.BuildChart(all, ChartSpec{ID: "inv", Kind: ChartHBar, Source: SourceInvestorCount, TopN: 2})
	require.False(t, investors.Failed(), investors.Err)
	assert.Equal(t, []string{"Sequoia Capital", "Index Ventures"}, investors.Labels())

	portfolio := svc.BuildChart(all, ChartSpec{ID: "pf", Kind: ChartPie, Source: SourceInvestorValue, TopN: 1})
	require.False(t, portfolio.Failed(), portfolio.Err)
	require.Len(t, portfolio.Series[0].Points, 1)
	assert.Equal(t, "Sequoia Capital", portfolio.Series[0].Points[0].Label)
	assert.InDelta(t, 196.3, portfolio.Series[0].Points[0].Y, 1e-9)

	unknown := svc.BuildChart(all, ChartSpec{ID: "x", Kind: ChartBar, Source: "weather"})
	assert.True(t, unknown.Failed())
}

func TestBuildChart_BoxAndScatter(t *testing.T) {
	svc := newTestService(t)
	china, err := svc.Subset("China")
	require.NoError(t, err)

	box := svc.BuildChart(china, ChartSpec{ID: "box", Kind: ChartBox, Column: domain.ColumnValuation})
	require.False(t, box.Failed(), box.Err)
	assert.Len(t, box.Series[0].Points, 2)
	assert.Equal(t, []string{"Median: 77.50"}, box.Notes)

	all, err := svc.Subset(domain.AllRegions)
	require.NoError(t, err)
	scatter := svc.BuildChart(all, ChartSpec{
		ID:      "scatter",
		Kind:    ChartScatter,
		Metric:  domain.MetricMean,
		Column:  domain.ColumnValuation,
		GroupBy: domain.ColumnIndustry,
	})
	require.False(t, scatter.Failed(), scatter.Err)
	first := scatter.Series[0].Points[0]
	assert.Equal(t, "Fintech", first.Label)
	assert.Equal(t, 4.0, first.X)
	assert.InDelta(t, 32.375, first.Y, 1e-9)

	noGroup := svc.BuildChart(all, ChartSpec{ID: "scatter", Kind: ChartScatter, Metric: domain.MetricMean, Column: domain.ColumnValuation})
	assert.True(t, noGroup.Failed())
}

func TestBuildChart_FailureIsIsolated(t *testing.T) {
	rec := &MockRecorder{}
	rec.On("Aggregation", mock.Anything, mock.Anything).Return()
	rec.On("Chart", "adhoc", mock.Anything).Return()

	svc, err := NewInsightsService(testConfig(), testDataset(), rec, nil)
	require.NoError(t, err)

	empty := svc.Dataset().All().Filter("empty", func(*domain.StartupRecord) bool { return false })
	chart := svc.BuildChart(empty, ChartSpec{ID: "mean", Kind: ChartBar, Metric: domain.MetricMean, Column: domain.ColumnValuation})

	assert.True(t, chart.Failed())
	assert.Contains(t, chart.Err, "INVALID_AGGREGATION")
	assert.Empty(t, chart.Series)
	rec.AssertCalled(t, "Chart", "adhoc", mock.MatchedBy(func(err error) bool { return err != nil }))
}

func TestGuard_RecoversPanics(t *testing.T) {
	svc := newTestService(t)

	chart := svc.guard("test", ChartSpec{ID: "boom"}, "USA", func() (Chart, error) {
		var m map[string][]int
		m["x"][3]++
		return Chart{}, nil
	})

	assert.True(t, chart.Failed())
	assert.Contains(t, chart.Err, "panic")
	assert.Equal(t, "boom", chart.ID)
}

func TestSelection(t *testing.T) {
	svc := newTestService(t)

	subset, regions, err := svc.selection(Filter{})
	require.NoError(t, err)
	assert.Equal(t, 8, subset.Len(), "no filter covers every record")
	assert.Len(t, regions, 3)

	subset, regions, err = svc.selection(Filter{Regions: []string{"Europe", "China"}})
	require.NoError(t, err)
	assert.Equal(t, "China+Europe", subset.Name)
	assert.Equal(t, 4, subset.Len())
	assert.IsIncreasing(t, subset.Rows())
	assert.Len(t, regions, 2)

	_, _, err = svc.selection(Filter{Regions: []string{"Mars"}})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestSelect(t *testing.T) {
	svc := newTestService(t)

	other, err := svc.Select(Filter{Regions: []string{"Other"}})
	require.NoError(t, err)
	assert.Equal(t, 1, other.Len())

	all, err := svc.Select(Filter{})
	require.NoError(t, err)
	assert.Equal(t, 8, all.Len())

	pair, err := svc.Select(Filter{Regions: []string{"USA", "China"}})
	require.NoError(t, err)
	assert.Equal(t, "USA+China", pair.Name)
	assert.Equal(t, 5, pair.Len())
}

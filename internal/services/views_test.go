package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

func TestView_UnknownName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.View("weather", Filter{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))

	_, err = svc.View(ViewDashboard, Filter{Regions: []string{"Atlantis"}})
	assert.Error(t, err)
}

func TestView_AllViewsBuild(t *testing.T) {
	svc := newTestService(t)

	for _, name := range ViewNames {
		t.Run(name, func(t *testing.T) {
			v, err := svc.View(name, Filter{})
			require.NoError(t, err)
			assert.Equal(t, name, v.Name)
			assert.Empty(t, v.FailedCharts())
		})
	}
}

func TestDashboard(t *testing.T) {
	svc := newTestService(t)

	v, err := svc.Dashboard(Filter{Regions: []string{"USA"}})
	require.NoError(t, err)

	require.Len(t, v.Cards, 8)
	assert.Equal(t, dataprocessing.MetricCard{Title: dataprocessing.CardTotalStartups, Value: "3"}, v.Cards[0])

	require.Len(t, v.Charts, 3)
	assert.Equal(t, "valuation_distribution", v.Charts[0].ID)

	share := v.Charts[1]
	assert.Equal(t, ChartPie, share.Kind)
	assert.Equal(t, []Point{{Label: "USA", Y: 3}}, share.Series[0].Points)

	cities := v.Charts[2]
	assert.Equal(t, []string{"San Francisco", "Hawthorne"}, cities.Labels())
}

func TestRegionalOverview_ChartsPerRegion(t *testing.T) {
	svc := newTestService(t)

	v, err := svc.RegionalOverview(Filter{Regions: []string{"China", "USA"}})
	require.NoError(t, err)

	ids := make([]string, len(v.Charts))
	for i, c := range v.Charts {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{
		"valuation_spread_USA", "industry_counts_USA",
		"valuation_spread_China", "industry_counts_China",
	}, ids)
	assert.Equal(t, "Valuation Distribution - USA", v.Charts[0].Title)
}

func TestInvestors_UsesConfiguredLimits(t *testing.T) {
	svc := newTestService(t)

	v, err := svc.Investors(Filter{Regions: []string{"USA"}})
	require.NoError(t, err)
	require.Len(t, v.Charts, 2)

	byCount := v.Charts[0]
	assert.Len(t, byCount.Series[0].Points, 3)
	last := byCount.Series[0].Points[2]
	assert.Equal(t, "Sequoia Capital", last.Label, "ascending for horizontal bars")
	assert.Equal(t, 2.0, last.Y)

	byValue := v.Charts[1]
	assert.Len(t, byValue.Series[0].Points, 2)
}

func TestInvestors_RegionWithoutInvestorsFailsItsCharts(t *testing.T) {
	ds := domain.NewDataset("test.csv", nil, []domain.StartupRecord{
		{Company: "Stripe", Country: "United States", City: "San Francisco", Industry: "Fintech", Valuation: 95},
		{Company: "Shein", Country: "China", City: "Shenzhen", Industry: "E-commerce", Valuation: 15,
			Investors: strPtr("Tiger Global Management")},
	})
	svc, err := NewInsightsService(testConfig(), ds, nil, nil)
	require.NoError(t, err)

	v, err := svc.Investors(Filter{Regions: []string{"USA", "China"}})
	require.NoError(t, err)
	require.Len(t, v.Charts, 4)

	for _, c := range v.Charts[:2] {
		assert.True(t, c.Failed(), c.ID)
		assert.Contains(t, c.Err, "INVALID_AGGREGATION")
		assert.Empty(t, c.Series)
	}
	for _, c := range v.Charts[2:] {
		assert.False(t, c.Failed(), c.Err)
	}
	assert.Len(t, v.FailedCharts(), 2)
}

func TestCompare(t *testing.T) {
	svc := newTestService(t)

	v, err := svc.Compare(Filter{})
	require.NoError(t, err)
	require.Len(t, v.Charts, 4)

	mean := v.Charts[0]
	assert.Equal(t, []string{"USA", "China", "Europe"}, mean.Labels())

	unicorns := v.Charts[1]
	assert.Equal(t, ChartPie, unicorns.Kind)

	grouped := v.Charts[2]
	require.Len(t, grouped.Series, 3)
	assert.Equal(t, "#dc3912", grouped.Series[1].Color)
	assert.Equal(t, []string{"Fintech", "Artificial intelligence"}, grouped.Labels())

	heatmap := v.Charts[3]
	assert.Equal(t, ChartHeatmap, heatmap.Kind)
	assert.Equal(t, grouped.Series, heatmap.Series)
}

func TestCompare_EmptyRegionFailsOnlyItsChart(t *testing.T) {
	cfg := testConfig()
	cfg.Regions = append(cfg.Regions, cfg.Regions[0])
	cfg.Regions[3].Name = "Japan"
	cfg.Regions[3].Countries = []string{"Japan"}

	svc, err := NewInsightsService(cfg, testDataset(), nil, nil)
	require.NoError(t, err)

	v, err := svc.Compare(Filter{})
	require.NoError(t, err)

	assert.True(t, v.Charts[0].Failed(), "mean of an empty region")
	assert.False(t, v.Charts[1].Failed())
	assert.False(t, v.Charts[2].Failed())
}

func TestView_Repeatable(t *testing.T) {
	svc := newTestService(t)
	f := Filter{Regions: []string{"USA", "Europe"}}

	for _, name := range ViewNames {
		first, err := svc.View(name, f)
		require.NoError(t, err)
		second, err := svc.View(name, f)
		require.NoError(t, err)
		assert.Equal(t, first, second, name)
	}
}

func TestMapMarkers(t *testing.T) {
	svc := newTestService(t)

	groups, err := svc.MapMarkers(Filter{})
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "USA", groups[0].Region)
	assert.Equal(t, "#1a73e8", groups[0].Color)
	require.Len(t, groups[0].Markers, 2, "Plaid has no coordinates")
	assert.Equal(t, Marker{
		Company:   "Stripe",
		City:      "San Francisco",
		Country:   "United States",
		Valuation: 95,
		Latitude:  37.77,
		Longitude: -122.42,
	}, groups[0].Markers[0])

	assert.Len(t, groups[1].Markers, 1)
	assert.Len(t, groups[2].Markers, 1)

	only, err := svc.MapMarkers(Filter{Regions: []string{"Europe"}})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "Klarna", only[0].Markers[0].Company)
}

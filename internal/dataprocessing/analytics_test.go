package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupcli/pkg/contracts/domain"
)

func TestDashboardMetrics(t *testing.T) {
	p := samplePartition(t)
	cards := NewAggregator(nil).DashboardMetrics(region(t, p, "USA"))

	want := []MetricCard{
		{Title: CardTotalStartups, Value: "3"},
		{Title: CardTotalValuation, Value: "$195.80B"},
		{Title: CardMedianValuation, Value: "$95.00B"},
		{Title: CardAvgValuation, Value: "$65.27B"},
		{Title: CardActiveCities, Value: "2"},
		{Title: CardActiveMarkets, Value: "1"},
		{Title: CardTopIndustry, Value: "Fintech (2 startups)"},
		{Title: CardTotalIndustries, Value: "2"},
	}
	assert.Equal(t, want, cards)
}

func TestDashboardMetrics_ThousandsSeparator(t *testing.T) {
	records := make([]domain.StartupRecord, 1200)
	for i := range records {
		records[i] = domain.StartupRecord{Company: "c", City: "x", Country: "y", Industry: "z", Valuation: 1}
	}
	cards := NewAggregator(nil).DashboardMetrics(domain.NewDataset("x.csv", nil, records).All())

	assert.Equal(t, "1,200", cards[0].Value)
	assert.Equal(t, "$1,200.00B", cards[1].Value)
}

func TestDashboardMetrics_EmptySubsetFailsPerCard(t *testing.T) {
	empty := sampleDataset().All().Filter("none", func(*domain.StartupRecord) bool { return false })
	cards := NewAggregator(nil).DashboardMetrics(empty)
	require.Len(t, cards, 8)

	assert.Equal(t, "0", cards[0].Value)
	assert.Empty(t, cards[0].Err)
	for _, c := range cards[1:4] {
		assert.Empty(t, c.Value, c.Title)
		assert.Contains(t, c.Err, "INVALID_AGGREGATION", c.Title)
	}
	assert.Equal(t, "0", cards[4].Value)
	assert.NotEmpty(t, cards[6].Err)
}

func TestRegionShare(t *testing.T) {
	regions, err := samplePartition(t).Subsets()
	require.NoError(t, err)
	share := NewAggregator(nil).RegionShare(regions)

	assert.Equal(t, []RegionValue{
		{Region: "USA", Value: 3},
		{Region: "China", Value: 2},
		{Region: "Europe", Value: 2},
	}, share)
}

func TestCompareRegions(t *testing.T) {
	regions, err := samplePartition(t).Subsets()
	require.NoError(t, err)
	cmp := NewAggregator(nil).CompareRegions(regions, 1, 1)

	assert.Equal(t, []string{"USA", "China", "Europe"}, cmp.Regions)

	require.Len(t, cmp.MeanValuation, 3)
	assert.InDelta(t, 195.8/3, cmp.MeanValuation[0].Value, 1e-9)
	assert.InDelta(t, 77.5, cmp.MeanValuation[1].Value, 1e-9)
	assert.InDelta(t, 17, cmp.MeanValuation[2].Value, 1e-9)

	assert.Equal(t, []RegionValue{
		{Region: "USA", Value: 2},
		{Region: "China", Value: 2},
		{Region: "Europe", Value: 2},
	}, cmp.Unicorns)

	// top-1 per region: Fintech (USA), Artificial intelligence (China, tie
	// with E-commerce broken by first seen), Fintech (Europe)
	assert.Equal(t, []string{"Fintech", "Artificial intelligence"}, cmp.Industries)
	assert.Equal(t, [][]int{{2, 0}, {0, 1}, {2, 0}}, cmp.Counts)
}

func TestCompareRegions_EmptyRegion(t *testing.T) {
	rules := append(sampleRules(), domain.ExactCountry("Japan", "Japan"))
	partitioner, err := NewPartitioner(rules)
	require.NoError(t, err)

	regions, err := partitioner.Partition(sampleDataset()).Subsets()
	require.NoError(t, err)
	cmp := NewAggregator(nil).CompareRegions(regions, 5, 1)

	require.Len(t, cmp.MeanValuation, 4)
	assert.NotEmpty(t, cmp.MeanValuation[3].Err)
	assert.Equal(t, 0.0, cmp.Unicorns[3].Value)
	assert.Len(t, cmp.Counts[3], len(cmp.Industries))
}

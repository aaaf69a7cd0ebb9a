package dataprocessing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"startupcli/pkg/contracts/domain"
)

// Dashboard card titles.
const (
	CardTotalStartups   = "Total Startups"
	CardTotalValuation  = "Total Valuation"
	CardMedianValuation = "Median Valuation"
	CardAvgValuation    = "Average Valuation"
	CardActiveCities    = "Active Cities"
	CardActiveMarkets   = "Active Markets"
	CardTopIndustry     = "Top Industry"
	CardTotalIndustries = "Total Industries"
)

var printer = message.NewPrinter(language.English)

// DashboardMetrics computes the eight headline cards for subset. Each card
// is independent: a failing card carries its error and the rest are still
// filled in.
func (a *Aggregator) DashboardMetrics(subset domain.Subset) []MetricCard {
	cards := []struct {
		title  string
		req    Request
		format func(domain.MetricValue) string
	}{
		{CardTotalStartups, Request{Metric: domain.MetricCount}, formatCount},
		{CardTotalValuation, Request{Metric: domain.MetricSum, Column: domain.ColumnValuation}, formatBillions},
		{CardMedianValuation, Request{Metric: domain.MetricMedian, Column: domain.ColumnValuation}, formatBillions},
		{CardAvgValuation, Request{Metric: domain.MetricMean, Column: domain.ColumnValuation}, formatBillions},
		{CardActiveCities, Request{Metric: domain.MetricDistinct, Column: domain.ColumnCity}, formatCount},
		{CardActiveMarkets, Request{Metric: domain.MetricDistinct, Column: domain.ColumnCountry}, formatCount},
		{CardTopIndustry, Request{Metric: domain.MetricMode, Column: domain.ColumnIndustry}, formatMode},
		{CardTotalIndustries, Request{Metric: domain.MetricDistinct, Column: domain.ColumnIndustry}, formatCount},
	}

	out := make([]MetricCard, len(cards))
	for i, c := range cards {
		out[i].Title = c.title
		res, err := a.Aggregate(subset, c.req)
		if err != nil {
			out[i].Err = err.Error()
			continue
		}
		out[i].Value = c.format(res.Scalar)
	}
	return out
}

func formatCount(v domain.MetricValue) string {
	return printer.Sprintf("%d", int64(v.Number))
}

func formatBillions(v domain.MetricValue) string {
	return printer.Sprintf("$%.2fB", v.Number)
}

func formatMode(v domain.MetricValue) string {
	return printer.Sprintf("%s (%d startups)", v.Text, int64(v.Number))
}

// RegionShare returns the number of startups in each region.
func (a *Aggregator) RegionShare(regions []domain.Subset) []RegionValue {
	out := make([]RegionValue, len(regions))
	for i, s := range regions {
		out[i] = RegionValue{Region: s.Name, Value: float64(s.Len())}
	}
	return out
}

// CompareRegions contrasts the given regions: mean valuation, the number
// of startups valued at or above unicornThreshold, and startup counts for
// the union of each region's topIndustries industries.
func (a *Aggregator) CompareRegions(regions []domain.Subset, topIndustries int, unicornThreshold float64) Comparison {
	names := make([]string, len(regions))
	for i, s := range regions {
		names[i] = s.Name
	}
	cmp := Comparison{
		Regions:       names,
		MeanValuation: make([]RegionValue, len(names)),
		Unicorns:      make([]RegionValue, len(names)),
	}

	seen := make(map[string]bool)
	perRegion := make([]domain.AggregationResult, len(names))

	for i, s := range regions {
		name := s.Name

		cmp.MeanValuation[i].Region = name
		mean, err := a.Aggregate(s, Request{Metric: domain.MetricMean, Column: domain.ColumnValuation})
		if err != nil {
			cmp.MeanValuation[i].Err = err.Error()
		} else {
			cmp.MeanValuation[i].Value = mean.Scalar.Number
		}

		unicorns := s.Filter(name, func(rec *domain.StartupRecord) bool {
			return rec.Valuation >= unicornThreshold
		})
		cmp.Unicorns[i] = RegionValue{Region: name, Value: float64(unicorns.Len())}

		counts, err := a.Aggregate(s, Request{Metric: domain.MetricCount, GroupBy: domain.ColumnIndustry})
		if err != nil {
			continue
		}
		perRegion[i] = counts
		for _, g := range counts.Top(topIndustries) {
			if !seen[g.Key] {
				seen[g.Key] = true
				cmp.Industries = append(cmp.Industries, g.Key)
			}
		}
	}

	cmp.Counts = make([][]int, len(names))
	for i := range names {
		cmp.Counts[i] = make([]int, len(cmp.Industries))
		for j, industry := range cmp.Industries {
			if v, ok := perRegion[i].Lookup(industry); ok {
				cmp.Counts[i][j] = int(v.Number)
			}
		}
	}
	return cmp
}

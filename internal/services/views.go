package services

import (
	"fmt"
	"log/slog"

	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

// View names.
const (
	ViewDashboard        = "dashboard"
	ViewRegionalOverview = "regional"
	ViewIndustries       = "industries"
	ViewInvestors        = "investors"
	ViewCompare          = "compare"
	ViewMap              = "map"
)

// ViewNames lists every view in menu order.
var ViewNames = []string{
	ViewDashboard,
	ViewRegionalOverview,
	ViewIndustries,
	ViewInvestors,
	ViewCompare,
	ViewMap,
}

// View is one section of the report.
type View struct {
	Name    string                      `json:"name"`
	Filter  Filter                      `json:"filter"`
	Cards   []dataprocessing.MetricCard `json:"cards,omitempty"`
	Charts  []Chart                     `json:"charts,omitempty"`
	Markers []MarkerGroup               `json:"markers,omitempty"`
}

// FailedCharts returns the charts that could not be built.
func (v *View) FailedCharts() []Chart {
	var out []Chart
	for _, c := range v.Charts {
		if c.Failed() {
			out = append(out, c)
		}
	}
	return out
}

// View builds the named view. An unknown name is a NotFound error; so is
// a filter naming an unknown region.
func (s *InsightsService) View(name string, f Filter) (*View, error) {
	var (
		v   *View
		err error
	)
	switch name {
	case ViewDashboard:
		v, err = s.Dashboard(f)
	case ViewRegionalOverview:
		v, err = s.RegionalOverview(f)
	case ViewIndustries:
		v, err = s.Industries(f)
	case ViewInvestors:
		v, err = s.Investors(f)
	case ViewCompare:
		v, err = s.Compare(f)
	case ViewMap:
		v, err = s.Map(f)
	default:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("view %q", name))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("View built",
		slog.String("view", name),
		slog.Any("regions", f.Regions),
		slog.Int("charts", len(v.Charts)),
		slog.Int("failed", len(v.FailedCharts())))
	return v, nil
}

// Dashboard holds the headline cards, the valuation histogram, the region
// share and the busiest cities of the selection.
func (s *InsightsService) Dashboard(f Filter) (*View, error) {
	subset, regions, err := s.selection(f)
	if err != nil {
		return nil, err
	}

	v := &View{Name: ViewDashboard, Filter: f}
	v.Cards = s.aggregator.DashboardMetrics(subset)
	v.Charts = []Chart{
		s.buildChart(ViewDashboard, subset, ChartSpec{
			ID:     "valuation_distribution",
			Title:  "Valuation Distribution",
			Kind:   ChartBar,
			Source: SourceBins,
			XLabel: "Valuation Range",
			YLabel: "Number of Startups",
		}),
		s.regionShareChart(regions),
		s.buildChart(ViewDashboard, subset, ChartSpec{
			ID:      "top_cities",
			Title:   fmt.Sprintf("Top %d Cities", s.cfg.Dashboard.TopCities),
			Kind:    ChartBar,
			Metric:  domain.MetricCount,
			GroupBy: domain.ColumnCity,
			TopN:    s.cfg.Dashboard.TopCities,
			Sort:    SortDesc,
			XLabel:  "City",
			YLabel:  "Number of Startups",
		}),
	}
	return v, nil
}

func (s *InsightsService) regionShareChart(regions []domain.Subset) Chart {
	spec := ChartSpec{ID: "region_share", Title: "Regional Distribution", Kind: ChartPie}
	return s.guard(ViewDashboard, spec, domain.AllRegions, func() (Chart, error) {
		c := newChart(spec, domain.AllRegions)
		c.Series = []Series{s.regionSeries("Startups", s.aggregator.RegionShare(regions))}
		return c, nil
	})
}

// RegionalOverview shows each selected region's valuation spread and its
// industry mix.
func (s *InsightsService) RegionalOverview(f Filter) (*View, error) {
	return s.perRegion(ViewRegionalOverview, f, []ChartSpec{
		{
			ID:     "valuation_spread",
			Title:  "Valuation Distribution",
			Kind:   ChartBox,
			Column: domain.ColumnValuation,
			YLabel: "Valuation ($B)",
		},
		{
			ID:      "industry_counts",
			Title:   "Industry Distribution",
			Kind:    ChartBar,
			Metric:  domain.MetricCount,
			GroupBy: domain.ColumnIndustry,
			Sort:    SortDesc,
			XLabel:  "Industry",
			YLabel:  "Number of Startups",
		},
	})
}

// Industries shows total valuation per industry and how startup count
// relates to average valuation.
func (s *InsightsService) Industries(f Filter) (*View, error) {
	return s.perRegion(ViewIndustries, f, []ChartSpec{
		{
			ID:      "industry_valuation",
			Title:   "Total Valuation by Industry",
			Kind:    ChartHBar,
			Metric:  domain.MetricSum,
			Column:  domain.ColumnValuation,
			GroupBy: domain.ColumnIndustry,
			Sort:    SortAsc,
			XLabel:  "Total Valuation ($B)",
		},
		{
			ID:      "industry_count_vs_valuation",
			Title:   "Startup Count vs Average Valuation",
			Kind:    ChartScatter,
			Metric:  domain.MetricMean,
			Column:  domain.ColumnValuation,
			GroupBy: domain.ColumnIndustry,
			XLabel:  "Number of Startups",
			YLabel:  "Average Valuation ($B)",
		},
	})
}

// Investors shows the most active investors and the largest portfolios.
func (s *InsightsService) Investors(f Filter) (*View, error) {
	return s.perRegion(ViewInvestors, f, []ChartSpec{
		{
			ID:     "top_investors",
			Title:  fmt.Sprintf("Top %d Investors by Number of Investments", s.cfg.Investors.TopByCount),
			Kind:   ChartHBar,
			Source: SourceInvestorCount,
			TopN:   s.cfg.Investors.TopByCount,
			Sort:   SortAsc,
			XLabel: "Number of Investments",
		},
		{
			ID:     "investor_portfolio",
			Title:  fmt.Sprintf("Top %d Investors by Portfolio Value", s.cfg.Investors.TopByValue),
			Kind:   ChartPie,
			Source: SourceInvestorValue,
			TopN:   s.cfg.Investors.TopByValue,
		},
	})
}

func (s *InsightsService) perRegion(view string, f Filter, specs []ChartSpec) (*View, error) {
	_, regions, err := s.selection(f)
	if err != nil {
		return nil, err
	}

	v := &View{Name: view, Filter: f}
	for _, region := range regions {
		for _, spec := range specs {
			spec.ID = spec.ID + "_" + region.Name
			spec.Title = fmt.Sprintf("%s - %s", spec.Title, region.Name)
			v.Charts = append(v.Charts, s.buildChart(view, region, spec))
		}
	}
	return v, nil
}

// Compare contrasts the selected regions side by side.
func (s *InsightsService) Compare(f Filter) (*View, error) {
	_, regions, err := s.selection(f)
	if err != nil {
		return nil, err
	}

	cmp := s.aggregator.CompareRegions(regions, s.cfg.Dashboard.CompareTopIndustries, s.cfg.Dashboard.UnicornThreshold)

	v := &View{Name: ViewCompare, Filter: f}
	v.Charts = []Chart{
		s.compareChart(ChartSpec{
			ID:     "mean_valuation",
			Title:  "Average Valuation by Region",
			Kind:   ChartBar,
			XLabel: "Region",
			YLabel: "Average Valuation ($B)",
		}, func() ([]Series, error) {
			for _, rv := range cmp.MeanValuation {
				if rv.Err != "" {
					return nil, apperrors.NewInvalidAggregationError(fmt.Sprintf("%s: %s", rv.Region, rv.Err))
				}
			}
			return []Series{s.regionSeries("Average Valuation", cmp.MeanValuation)}, nil
		}),
		s.compareChart(ChartSpec{
			ID:    "unicorns",
			Title: "Unicorn Distribution",
			Kind:  ChartPie,
		}, func() ([]Series, error) {
			return []Series{s.regionSeries("Unicorns", cmp.Unicorns)}, nil
		}),
		s.compareChart(ChartSpec{
			ID:     "industry_comparison",
			Title:  fmt.Sprintf("Top %d Industries by Region", s.cfg.Dashboard.CompareTopIndustries),
			Kind:   ChartGrouped,
			XLabel: "Industry",
			YLabel: "Number of Startups",
		}, func() ([]Series, error) {
			return s.industrySeries(cmp)
		}),
		s.compareChart(ChartSpec{
			ID:     "industry_heatmap",
			Title:  "Startups by Region and Industry",
			Kind:   ChartHeatmap,
			XLabel: "Industry",
			YLabel: "Region",
		}, func() ([]Series, error) {
			return s.industrySeries(cmp)
		}),
	}
	return v, nil
}

func (s *InsightsService) compareChart(spec ChartSpec, build func() ([]Series, error)) Chart {
	return s.guard(ViewCompare, spec, domain.AllRegions, func() (Chart, error) {
		series, err := build()
		if err != nil {
			return Chart{}, err
		}
		for _, sr := range series {
			if err := checkPoints(spec.Kind, sr.Points); err != nil {
				return Chart{}, err
			}
		}
		c := newChart(spec, domain.AllRegions)
		c.Series = series
		return c, nil
	})
}

// regionSeries makes one series with a point per region.
func (s *InsightsService) regionSeries(name string, values []dataprocessing.RegionValue) Series {
	series := Series{Name: name, Points: make([]Point, len(values))}
	for i, rv := range values {
		series.Points[i] = Point{Label: rv.Region, Y: rv.Value}
	}
	return series
}

// industrySeries makes one series per region over the compared industries.
func (s *InsightsService) industrySeries(cmp dataprocessing.Comparison) ([]Series, error) {
	if len(cmp.Industries) == 0 {
		return nil, apperrors.NewInvalidAggregationError("no industries to compare")
	}
	out := make([]Series, len(cmp.Regions))
	for r, region := range cmp.Regions {
		out[r] = Series{Name: region, Color: s.color(region), Points: make([]Point, len(cmp.Industries))}
		for i, industry := range cmp.Industries {
			out[r].Points[i] = Point{Label: industry, Y: float64(cmp.Counts[r][i])}
		}
	}
	return out, nil
}

// Map returns the marker groups of the selected regions.
func (s *InsightsService) Map(f Filter) (*View, error) {
	markers, err := s.MapMarkers(f)
	if err != nil {
		return nil, err
	}
	return &View{Name: ViewMap, Filter: f, Markers: markers}, nil
}

package services

import (
	"fmt"
	"log/slog"
	"sort"

	"startupcli/internal/config"
	"startupcli/internal/dataprocessing"
	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

// Recorder receives aggregation and chart counters.
// *infrastructure.Metrics satisfies it.
type Recorder interface {
	dataprocessing.Recorder
	Chart(view string, err error)
}

type noopRecorder struct{}

func (noopRecorder) RowsLoaded(int)            {}
func (noopRecorder) RowRejected()              {}
func (noopRecorder) Aggregation(string, error) {}
func (noopRecorder) Chart(string, error)       {}

// Filter narrows a view to some regions. No regions means all of them.
type Filter struct {
	Regions []string `json:"regions,omitempty"`
}

// InsightsService is the presentation boundary: it owns the loaded dataset
// and its region partition and turns them into views of cards, charts and
// map markers. The dataset is never modified, so views can be rebuilt any
// number of times with identical results.
type InsightsService struct {
	cfg         *config.Config
	dataset     *domain.Dataset
	partition   *dataprocessing.Partition
	aggregator  *dataprocessing.Aggregator
	binner      *dataprocessing.Binner
	attribution dataprocessing.Attribution
	recorder    Recorder
	logger      *slog.Logger
}

// NewInsightsService partitions ds with the configured regions.
func NewInsightsService(cfg *config.Config, ds *domain.Dataset, recorder Recorder, logger *slog.Logger) (*InsightsService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	partitioner, err := dataprocessing.NewPartitioner(cfg.Regions)
	if err != nil {
		return nil, err
	}

	binner, err := dataprocessing.NewBinner(dataprocessing.ValuationBins())
	if err != nil {
		return nil, err
	}

	attribution, ok := dataprocessing.ParseAttribution(cfg.Investors.Attribution)
	if !ok {
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown attribution %q", cfg.Investors.Attribution), nil)
	}

	partition := partitioner.Partition(ds)

	logger = logger.With(slog.String("component", "insights"))
	for _, name := range partition.Names() {
		s, _ := partition.Region(name)
		logger.Debug("Region partitioned",
			slog.String("region", name),
			slog.Int("records", s.Len()))
	}
	if partition.Unmatched.Len() > 0 {
		logger.Info("Records outside every region",
			slog.Int("records", partition.Unmatched.Len()))
	}

	return &InsightsService{
		cfg:         cfg,
		dataset:     ds,
		partition:   partition,
		aggregator:  dataprocessing.NewAggregator(recorder),
		binner:      binner,
		attribution: attribution,
		recorder:    recorder,
		logger:      logger,
	}, nil
}

// Dataset returns the loaded dataset.
func (s *InsightsService) Dataset() *domain.Dataset {
	return s.dataset
}

// Partition returns the region partition.
func (s *InsightsService) Partition() *dataprocessing.Partition {
	return s.partition
}

// Aggregator returns the aggregator the service computes with.
func (s *InsightsService) Aggregator() *dataprocessing.Aggregator {
	return s.aggregator
}

// Binner returns the valuation binner.
func (s *InsightsService) Binner() *dataprocessing.Binner {
	return s.binner
}

// Attribution returns the configured portfolio attribution.
func (s *InsightsService) Attribution() dataprocessing.Attribution {
	return s.attribution
}

// Subset resolves a region name ("All", "Other" or a configured region).
func (s *InsightsService) Subset(name string) (domain.Subset, error) {
	return s.partition.Lookup(name)
}

// Select resolves a filter to one subset. A single name may also be "All"
// or the unmatched bucket; several names must all be configured regions.
func (s *InsightsService) Select(f Filter) (domain.Subset, error) {
	if len(f.Regions) == 1 {
		return s.Subset(f.Regions[0])
	}
	subset, _, err := s.selection(f)
	return subset, err
}

// selection returns the subset a filter covers and its regions. With no
// regions selected the subset is the whole dataset, unmatched rows
// included.
func (s *InsightsService) selection(f Filter) (domain.Subset, []domain.Subset, error) {
	regions, err := s.partition.Subsets(f.Regions...)
	if err != nil {
		return domain.Subset{}, nil, err
	}
	if len(f.Regions) == 0 {
		return s.partition.All(), regions, nil
	}

	var rows []int
	name := ""
	for i, r := range regions {
		rows = append(rows, r.Rows()...)
		if i > 0 {
			name += "+"
		}
		name += r.Name
	}
	sort.Ints(rows)
	return domain.NewSubset(name, s.dataset, rows), regions, nil
}

func (s *InsightsService) color(region string) string {
	if rule, ok := s.partition.Rule(region); ok {
		return rule.Color
	}
	return ""
}

// guard runs build, turning an error or a panic into a failed chart so one
// chart never takes down the rest of its view.
func (s *InsightsService) guard(view string, spec ChartSpec, subset string, build func() (Chart, error)) (chart Chart) {
	defer func() {
		if r := recover(); r != nil {
			chart = failedChart(spec, subset, fmt.Errorf("panic: %v", r))
			s.logger.Error("Chart build panicked",
				slog.String("view", view),
				slog.String("chart", spec.ID),
				slog.String("subset", subset),
				slog.Any("panic", r))
			s.recorder.Chart(view, fmt.Errorf("panic"))
		}
	}()

	chart, err := build()
	if err != nil {
		s.logger.Warn("Chart unavailable",
			slog.String("view", view),
			slog.String("chart", spec.ID),
			slog.String("subset", subset),
			slog.String("error", err.Error()))
		chart = failedChart(spec, subset, err)
	}
	s.recorder.Chart(view, err)
	return chart
}

func failedChart(spec ChartSpec, subset string, err error) Chart {
	c := newChart(spec, subset)
	c.Err = err.Error()
	return c
}

func newChart(spec ChartSpec, subset string) Chart {
	return Chart{
		ID:     spec.ID,
		Title:  spec.Title,
		Kind:   spec.Kind,
		Subset: subset,
		XLabel: spec.XLabel,
		YLabel: spec.YLabel,
	}
}

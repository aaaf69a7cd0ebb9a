// Package dataprocessing turns the startup CSV into figures. It loads the
// dataset, splits it into regions and computes the metrics every view is
// built from.
//
// # Components
//
//  1. DatasetLoader: reads and validates the CSV into a domain.Dataset
//  2. Partitioner: assigns each record to at most one configured region
//  3. Aggregator: count, sum, mean, median, mode and distinct metrics,
//     optionally grouped by a categorical column
//  4. Binner: valuation histogram with half-open bins
//  5. Investor tallies: frequency and portfolio value per investor
//
// # Usage
//
//	loader := dataprocessing.NewDatasetLoader(logger, metrics)
//	ds, err := loader.Load(ctx, "startups_with_coordinates.csv")
//	if err != nil {
//	    return err // DataLoadError
//	}
//
//	partitioner, err := dataprocessing.NewPartitioner(cfg.Regions)
//	part := partitioner.Partition(ds)
//	usa, _ := part.Region("USA")
//
//	agg := dataprocessing.NewAggregator(metrics)
//	res, err := agg.Aggregate(usa, dataprocessing.Request{
//	    Metric:  domain.MetricMean,
//	    Column:  domain.ColumnValuation,
//	    GroupBy: domain.ColumnIndustry,
//	})
//
// # Error Handling
//
// Load failures are DataLoadErrors and are fatal to the caller. Metrics
// that cannot be computed for a subset return InvalidAggregationError so
// that a single chart can fail without taking down its view.
//
// The dataset and every subset derived from it are read-only; all
// functions here are safe to call repeatedly with the same inputs.
package dataprocessing

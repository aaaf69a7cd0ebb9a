// Package services implements the presentation boundary of the startup
// insights tool. InsightsService owns the loaded dataset and its region
// partition and turns them into views: metric cards, chart data and map
// markers that the renderer and exporters consume.
//
// # Charts
//
// Every chart is described by a ChartSpec and built for one subset by the
// same routine, BuildChart. A chart that cannot be built (an empty region,
// a metric that does not apply to a column) comes back with Err set; the
// other charts of the view are unaffected.
//
// # Views
//
//	dashboard   headline cards, valuation histogram, region share, top cities
//	regional    valuation box plot and industry counts per region
//	industries  total valuation per industry, count vs average valuation
//	investors   most active investors, largest portfolios
//	compare     mean valuation, unicorns, industry mix across regions
//	map         startup markers grouped by region
//
// Views are pure functions of the dataset, the configuration and the
// filter; building the same view twice gives identical results.
package services

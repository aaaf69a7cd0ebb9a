package exporter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"startupcli/internal/config"
	"startupcli/internal/services"
	"startupcli/pkg/contracts/domain"
)

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func testService(t *testing.T) *services.InsightsService {
	t.Helper()
	ds := domain.NewDataset("test.csv", nil, []domain.StartupRecord{
		{Company: "Stripe", Country: "United States", City: "San Francisco", Industry: "Fintech", Valuation: 95,
			Latitude: floatPtr(37.77), Longitude: floatPtr(-122.42), Investors: strPtr("Sequoia Capital, Khosla Ventures")},
		{Company: "SpaceX", Country: "United States", City: "Hawthorne", Industry: "Aerospace", Valuation: 100.3,
			Latitude: floatPtr(33.92), Longitude: floatPtr(-118.33), Investors: strPtr("Founders Fund, Sequoia Capital")},
		{Company: "Plaid", Country: "United States", City: "San Francisco", Industry: "Fintech", Valuation: 0.5},
		{Company: "ByteDance", Country: "China", City: "Beijing", Industry: "Artificial intelligence", Valuation: 140,
			Latitude: floatPtr(39.9), Longitude: floatPtr(116.4)},
		{Company: "Klarna <AB>", Country: "Sweden", City: "Stockholm", Industry: "Fintech", Valuation: 1,
			Latitude: floatPtr(59.33), Longitude: floatPtr(18.07)},
	})

	svc, err := services.NewInsightsService(config.Default(), ds, nil, nil)
	require.NoError(t, err)
	return svc
}

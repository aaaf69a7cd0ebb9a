package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"startupcli/pkg/contracts/domain"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// sampleRecords is a small dataset spanning three regions plus an
// unmatched row.
func sampleRecords() []domain.StartupRecord {
	return []domain.StartupRecord{
		{Company: "Stripe", Country: "United States", City: "San Francisco", Industry: "Fintech", Valuation: 95,
			Latitude: floatPtr(37.77), Longitude: floatPtr(-122.42), Investors: strPtr("Sequoia Capital, Khosla Ventures")},
		{Company: "SpaceX", Country: "United States", City: "Hawthorne", Industry: "Aerospace", Valuation: 100.3,
			Latitude: floatPtr(33.92), Longitude: floatPtr(-118.33), Investors: strPtr("Founders Fund, Sequoia Capital")},
		{Company: "Plaid", Country: "United States", City: "San Francisco", Industry: "Fintech", Valuation: 0.5,
			Investors: strPtr("Index Ventures")},
		{Company: "ByteDance", Country: "China", City: "Beijing", Industry: "Artificial intelligence", Valuation: 140,
			Latitude: floatPtr(39.9), Longitude: floatPtr(116.4), Investors: strPtr("Sequoia Capital China, SIG Asia Investments")},
		{Company: "Shein", Country: "China", City: "Shenzhen", Industry: "E-commerce", Valuation: 15,
			Investors: strPtr("Tiger Global Management, Sequoia Capital China")},
		{Company: "Klarna", Country: "Sweden", City: "Stockholm", Industry: "Fintech", Valuation: 1,
			Latitude: floatPtr(59.33), Longitude: floatPtr(18.07), Investors: strPtr("Institutional Venture Partners, Sequoia Capital")},
		{Company: "Revolut", Country: "United Kingdom", City: "London", Industry: "Fintech", Valuation: 33,
			Investors: strPtr("index ventures, DST Global")},
		{Company: "Canva", Country: "Australia", City: "Surry Hills", Industry: "Internet software & services", Valuation: 40},
	}
}

func sampleDataset() *domain.Dataset {
	return domain.NewDataset("sample.csv", append(append([]domain.Column{}, domain.RequiredColumns...), domain.OptionalColumns...), sampleRecords())
}

func sampleRules() []domain.RegionRule {
	return []domain.RegionRule{
		domain.ExactCountry("USA", "United States"),
		domain.ExactCountry("China", "China"),
		domain.AnyCountry("Europe", "Sweden", "United Kingdom", "Germany"),
	}
}

func samplePartition(t *testing.T) *Partition {
	t.Helper()
	p, err := NewPartitioner(sampleRules())
	require.NoError(t, err)
	return p.Partition(sampleDataset())
}

func region(t *testing.T, p *Partition, name string) domain.Subset {
	t.Helper()
	s, ok := p.Region(name)
	require.True(t, ok, "region %s", name)
	return s
}

package services

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"startupcli/internal/config"
	"startupcli/pkg/contracts/domain"
)

// MockRecorder is a mock for the Recorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RowsLoaded(n int) {
	m.Called(n)
}

func (m *MockRecorder) RowRejected() {
	m.Called()
}

func (m *MockRecorder) Aggregation(metric string, err error) {
	m.Called(metric, err)
}

func (m *MockRecorder) Chart(view string, err error) {
	m.Called(view, err)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func testDataset() *domain.Dataset {
	return domain.NewDataset("test.csv", nil, []domain.StartupRecord{
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
			Investors: strPtr("Index Ventures, DST Global")},
		{Company: "Canva", Country: "Australia", City: "Surry Hills", Industry: "Internet software & services", Valuation: 40},
	})
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Investors.TopByCount = 3
	cfg.Investors.TopByValue = 2
	cfg.Dashboard.TopCities = 2
	cfg.Dashboard.CompareTopIndustries = 1
	return cfg
}

func newTestService(t *testing.T) *InsightsService {
	t.Helper()
	svc, err := NewInsightsService(testConfig(), testDataset(), nil, nil)
	require.NoError(t, err)
	return svc
}

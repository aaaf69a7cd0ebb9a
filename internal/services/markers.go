package services

import (
	"startupcli/pkg/contracts/domain"
)

// Marker is one startup on the map.
type Marker struct {
	Company   string  `json:"company"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Valuation float64 `json:"valuation_b"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MarkerGroup is one region's cluster of markers.
type MarkerGroup struct {
	Region  string   `json:"region"`
	Color   string   `json:"color"`
	Markers []Marker `json:"markers"`
}

// MapMarkers returns one group per selected region, in rule order. Records
// without valid coordinates are left off the map.
func (s *InsightsService) MapMarkers(f Filter) ([]MarkerGroup, error) {
	_, regions, err := s.selection(f)
	if err != nil {
		return nil, err
	}

	groups := make([]MarkerGroup, len(regions))
	for i, region := range regions {
		groups[i] = MarkerGroup{Region: region.Name, Color: s.color(region.Name), Markers: []Marker{}}
		region.Each(func(rec *domain.StartupRecord) bool {
			if !rec.HasCoordinates() {
				return true
			}
			groups[i].Markers = append(groups[i].Markers, Marker{
				Company:   rec.Company,
				City:      rec.City,
				Country:   rec.Country,
				Valuation: rec.Valuation,
				Latitude:  *rec.Latitude,
				Longitude: *rec.Longitude,
			})
			return true
		})
	}
	return groups, nil
}

package domain

import (
	"strconv"
	"strings"
)

// Column names as they appear in the startup CSV header.
const (
	ColumnCompany   Column = "Company"
	ColumnCountry   Column = "Country"
	ColumnCity      Column = "City"
	ColumnIndustry  Column = "Industry"
	ColumnValuation Column = "Valuation ($B)"
	ColumnLatitude  Column = "Latitude"
	ColumnLongitude Column = "Longitude"
	ColumnInvestors Column = "Select Investors"
)

// Column identifies one field of a StartupRecord.
type Column string

// RequiredColumns must be present in every input file.
var RequiredColumns = []Column{
	ColumnCompany,
	ColumnCountry,
	ColumnCity,
	ColumnIndustry,
	ColumnValuation,
}

// OptionalColumns may be missing from the header entirely.
var OptionalColumns = []Column{
	ColumnLatitude,
	ColumnLongitude,
	ColumnInvestors,
}

// IsNumeric reports whether sum/mean/median are defined for the column.
func (c Column) IsNumeric() bool {
	switch c {
	case ColumnValuation, ColumnLatitude, ColumnLongitude:
		return true
	}
	return false
}

// IsKnown reports whether c names a StartupRecord field.
func (c Column) IsKnown() bool {
	for _, col := range RequiredColumns {
		if c == col {
			return true
		}
	}
	for _, col := range OptionalColumns {
		if c == col {
			return true
		}
	}
	return false
}

// ParseColumn resolves a user supplied column name. Matching is
// case-insensitive and accepts a few short aliases.
func ParseColumn(name string) (Column, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "company":
		return ColumnCompany, true
	case "country":
		return ColumnCountry, true
	case "city":
		return ColumnCity, true
	case "industry":
		return ColumnIndustry, true
	case "valuation", "valuation ($b)", "valuation_b":
		return ColumnValuation, true
	case "latitude", "lat":
		return ColumnLatitude, true
	case "longitude", "lon", "lng":
		return ColumnLongitude, true
	case "investors", "select investors", "select_investors":
		return ColumnInvestors, true
	}
	return "", false
}

// StartupRecord is one row of the startup dataset.
//
// Latitude, Longitude and Investors are optional: a nil pointer means the
// value was absent or could not be interpreted, which consumers treat as
// "no value" rather than an error.
type StartupRecord struct {
	Company   string   `json:"company" validate:"required"`
	Country   string   `json:"country"`
	City      string   `json:"city"`
	Industry  string   `json:"industry"`
	Valuation float64  `json:"valuation_b" validate:"gte=0"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Investors *string  `json:"select_investors,omitempty"`
}

// HasCoordinates reports whether the record can be placed on a map.
func (r *StartupRecord) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Text returns the textual value of col and whether it is present.
// Blank strings count as missing.
func (r *StartupRecord) Text(col Column) (string, bool) {
	var v string
	switch col {
	case ColumnCompany:
		v = r.Company
	case ColumnCountry:
		v = r.Country
	case ColumnCity:
		v = r.City
	case ColumnIndustry:
		v = r.Industry
	case ColumnInvestors:
		if r.Investors == nil {
			return "", false
		}
		v = *r.Investors
	case ColumnValuation, ColumnLatitude, ColumnLongitude:
		n, ok := r.Number(col)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	default:
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Number returns the numeric value of col and whether it is present.
func (r *StartupRecord) Number(col Column) (float64, bool) {
	switch col {
	case ColumnValuation:
		return r.Valuation, true
	case ColumnLatitude:
		if r.Latitude == nil {
			return 0, false
		}
		return *r.Latitude, true
	case ColumnLongitude:
		if r.Longitude == nil {
			return 0, false
		}
		return *r.Longitude, true
	}
	return 0, false
}

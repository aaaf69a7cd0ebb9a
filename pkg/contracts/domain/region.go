package domain

import "strings"

// RegionRule decides membership of a record in a named region using only
// the record's Country field. A rule with one country is an exact match; a
// rule with several is a set-membership test.
type RegionRule struct {
	Name      string   `json:"name" yaml:"name" validate:"required"`
	Countries []string `json:"countries" yaml:"countries" validate:"required,min=1,dive,required"`
	Color     string   `json:"color,omitempty" yaml:"color"`
}

// ExactCountry builds a rule matching a single country.
func ExactCountry(name, country string) RegionRule {
	return RegionRule{Name: name, Countries: []string{country}}
}

// AnyCountry builds a rule matching any of the listed countries.
func AnyCountry(name string, countries ...string) RegionRule {
	list := make([]string, len(countries))
	copy(list, countries)
	return RegionRule{Name: name, Countries: list}
}

// Matches reports whether country satisfies the rule. Comparison is exact
// after trimming surrounding whitespace; a blank country never matches.
func (r RegionRule) Matches(country string) bool {
	country = strings.TrimSpace(country)
	if country == "" {
		return false
	}
	for _, c := range r.Countries {
		if c == country {
			return true
		}
	}
	return false
}

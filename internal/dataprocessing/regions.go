package dataprocessing

import (
	"fmt"

	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

// UnmatchedRegion names the rows that belong to no configured region.
const UnmatchedRegion = "Other"

// Partitioner splits a dataset into the configured regions.
type Partitioner struct {
	rules []domain.RegionRule
}

// NewPartitioner validates the rule table: region names must be unique and
// non-empty, every rule needs a country, and no country may belong to two
// regions, which keeps the regions pairwise disjoint.
func NewPartitioner(rules []domain.RegionRule) (*Partitioner, error) {
	names := make(map[string]bool, len(rules))
	owner := make(map[string]string)

	for _, rule := range rules {
		if rule.Name == "" {
			return nil, apperrors.NewConfigError("region name is empty", nil)
		}
		if rule.Name == domain.AllRegions || rule.Name == UnmatchedRegion {
			return nil, apperrors.NewConfigError("region name is reserved", nil).
				WithContext("region", rule.Name)
		}
		if names[rule.Name] {
			return nil, apperrors.NewConfigError("duplicate region", nil).
				WithContext("region", rule.Name)
		}
		names[rule.Name] = true

		if len(rule.Countries) == 0 {
			return nil, apperrors.NewConfigError("region has no countries", nil).
				WithContext("region", rule.Name)
		}
		for _, country := range rule.Countries {
			if prev, taken := owner[country]; taken && prev != rule.Name {
				return nil, apperrors.NewConfigError(
					fmt.Sprintf("country %q is claimed by regions %q and %q", country, prev, rule.Name), nil)
			}
			owner[country] = rule.Name
		}
	}

	copied := make([]domain.RegionRule, len(rules))
	copy(copied, rules)
	return &Partitioner{rules: copied}, nil
}

// Rules returns the rule table in order.
func (p *Partitioner) Rules() []domain.RegionRule {
	out := make([]domain.RegionRule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Partition assigns every record to at most one region. Records whose
// country matches no rule, including blank countries, land in Unmatched.
func (p *Partitioner) Partition(d *domain.Dataset) *Partition {
	rows := make([][]int, len(p.rules))
	var unmatched []int

	for i := 0; i < d.Len(); i++ {
		country := d.At(i).Country
		matched := false
		for r, rule := range p.rules {
			if rule.Matches(country) {
				rows[r] = append(rows[r], i)
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, i)
		}
	}

	part := &Partition{
		dataset:   d,
		rules:     p.Rules(),
		regions:   make(map[string]domain.Subset, len(p.rules)),
		Unmatched: domain.NewSubset(UnmatchedRegion, d, unmatched),
	}
	for r, rule := range p.rules {
		part.regions[rule.Name] = domain.NewSubset(rule.Name, d, rows[r])
	}
	return part
}

// Partition is the outcome of splitting a dataset by region. It is
// read-only after construction.
type Partition struct {
	dataset   *domain.Dataset
	rules     []domain.RegionRule
	regions   map[string]domain.Subset
	Unmatched domain.Subset
}

// Dataset returns the partitioned dataset.
func (p *Partition) Dataset() *domain.Dataset {
	return p.dataset
}

// All returns a subset over the whole dataset.
func (p *Partition) All() domain.Subset {
	return p.dataset.All()
}

// Names returns region names in rule order.
func (p *Partition) Names() []string {
	names := make([]string, len(p.rules))
	for i, rule := range p.rules {
		names[i] = rule.Name
	}
	return names
}

// Rule returns the rule of a region.
func (p *Partition) Rule(name string) (domain.RegionRule, bool) {
	for _, rule := range p.rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return domain.RegionRule{}, false
}

// Region returns the subset of a region.
func (p *Partition) Region(name string) (domain.Subset, bool) {
	s, ok := p.regions[name]
	return s, ok
}

// Lookup resolves a subset by name, accepting the whole dataset ("All"),
// the unmatched rows ("Other") and any configured region.
func (p *Partition) Lookup(name string) (domain.Subset, error) {
	switch name {
	case "", domain.AllRegions:
		return p.All(), nil
	case UnmatchedRegion:
		return p.Unmatched, nil
	}
	if s, ok := p.regions[name]; ok {
		return s, nil
	}
	return domain.Subset{}, apperrors.NewNotFoundError(fmt.Sprintf("region %q", name))
}

// Subsets returns the subsets for a selection of region names in rule
// order. An empty selection means every region.
func (p *Partition) Subsets(names ...string) ([]domain.Subset, error) {
	if len(names) == 0 {
		names = p.Names()
	}

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := p.regions[name]; !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("region %q", name))
		}
		selected[name] = true
	}

	out := make([]domain.Subset, 0, len(selected))
	for _, rule := range p.rules {
		if selected[rule.Name] {
			out = append(out, p.regions[rule.Name])
		}
	}
	return out, nil
}

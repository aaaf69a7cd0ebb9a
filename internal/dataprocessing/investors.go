package dataprocessing

import (
	"sort"
	"strings"

	"startupcli/pkg/contracts/domain"
)

// Attribution decides how a startup's valuation is credited to the
// investors listed on it.
type Attribution string

const (
	// AttributeFull credits every listed investor with the whole valuation,
	// so co-invested startups are counted once per investor.
	AttributeFull Attribution = "full"
	// AttributeSplit divides the valuation evenly between the row's distinct
	// investors.
	AttributeSplit Attribution = "split"
)

// ParseAttribution resolves an attribution name; blank means full.
func ParseAttribution(name string) (Attribution, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "full":
		return AttributeFull, true
	case "split":
		return AttributeSplit, true
	}
	return "", false
}

// InvestorTotal is one investor's figure.
type InvestorTotal struct {
	Investor string  `json:"investor"`
	Value    float64 `json:"value"`
}

// ParseInvestors splits a "Select Investors" cell. A nil cell has no
// investors.
func ParseInvestors(raw *string) []string {
	if raw == nil {
		return nil
	}
	return ParseInvestorField(*raw)
}

// ParseInvestorField splits on commas, trims names and drops empty ones.
// Order and duplicates are kept.
func ParseInvestorField(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// distinctInvestors returns the row's investors with repeats removed.
func distinctInvestors(rec *domain.StartupRecord) []string {
	names := ParseInvestors(rec.Investors)
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// InvestorFrequency counts the rows that mention each investor and returns
// the n most frequent, ties in first-encountered order. n <= 0 returns all.
func InvestorFrequency(subset domain.Subset, n int) []InvestorTotal {
	return tally(subset, n, func(rec *domain.StartupRecord, names []string) float64 {
		return 1
	})
}

// InvestorPortfolio sums the valuation credited to each investor and
// returns the n largest, ties in first-encountered order.
func InvestorPortfolio(subset domain.Subset, attribution Attribution, n int) []InvestorTotal {
	return tally(subset, n, func(rec *domain.StartupRecord, names []string) float64 {
		if attribution == AttributeSplit {
			return rec.Valuation / float64(len(names))
		}
		return rec.Valuation
	})
}

func tally(subset domain.Subset, n int, credit func(*domain.StartupRecord, []string) float64) []InvestorTotal {
	totals := make(map[string]float64)
	var order []string

	subset.Each(func(rec *domain.StartupRecord) bool {
		names := distinctInvestors(rec)
		if len(names) == 0 {
			return true
		}
		share := credit(rec, names)
		for _, name := range names {
			if _, seen := totals[name]; !seen {
				order = append(order, name)
			}
			totals[name] += share
		}
		return true
	})

	out := make([]InvestorTotal, len(order))
	for i, name := range order {
		out[i] = InvestorTotal{Investor: name, Value: totals[name]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

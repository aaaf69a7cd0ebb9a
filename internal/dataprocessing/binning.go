package dataprocessing

import (
	"fmt"
	"math"

	apperrors "startupcli/internal/errors"
	"startupcli/pkg/contracts/domain"
)

// Bin is a half-open valuation range [Lower, Upper). The last bin of a
// Binner has Upper = +Inf.
type Bin struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// BinCount is one bar of a distribution.
type BinCount struct {
	Bin   Bin `json:"bin"`
	Count int `json:"count"`
}

// ValuationBins returns the dashboard bins, in billions.
func ValuationBins() []Bin {
	return []Bin{
		{Label: "0-1B", Lower: 0, Upper: 1},
		{Label: "1-2B", Lower: 1, Upper: 2},
		{Label: "2-5B", Lower: 2, Upper: 5},
		{Label: "5-10B", Lower: 5, Upper: 10},
		{Label: "10B+", Lower: 10, Upper: math.Inf(1)},
	}
}

// Binner assigns values to a contiguous list of bins.
type Binner struct {
	bins []Bin
}

// NewBinner checks that bins are non-empty, contiguous and ascending.
func NewBinner(bins []Bin) (*Binner, error) {
	if len(bins) == 0 {
		return nil, apperrors.NewConfigError("no bins", nil)
	}
	for i, b := range bins {
		if !(b.Lower < b.Upper) {
			return nil, apperrors.NewConfigError(fmt.Sprintf("bin %q is empty", b.Label), nil)
		}
		if i > 0 && bins[i-1].Upper != b.Lower {
			return nil, apperrors.NewConfigError(fmt.Sprintf("bin %q does not follow %q", b.Label, bins[i-1].Label), nil)
		}
	}
	copied := make([]Bin, len(bins))
	copy(copied, bins)
	return &Binner{bins: copied}, nil
}

// Bin returns the bin containing v.
func (b *Binner) Bin(v float64) (Bin, error) {
	if math.IsNaN(v) {
		return Bin{}, apperrors.NewInvalidAggregationError("cannot bin NaN")
	}
	for _, bin := range b.bins {
		if v >= bin.Lower && v < bin.Upper {
			return bin, nil
		}
	}
	return Bin{}, apperrors.NewInvalidAggregationError(fmt.Sprintf("value %g is outside every bin", v))
}

// Distribution counts the subset's valuations per bin. Every bin is
// reported, in bin order, including empty ones.
func (b *Binner) Distribution(subset domain.Subset) ([]BinCount, error) {
	out := make([]BinCount, len(b.bins))
	for i, bin := range b.bins {
		out[i].Bin = bin
	}

	var err error
	subset.Each(func(rec *domain.StartupRecord) bool {
		for i, bin := range b.bins {
			if rec.Valuation >= bin.Lower && rec.Valuation < bin.Upper {
				out[i].Count++
				return true
			}
		}
		err = apperrors.NewInvalidAggregationError(
			fmt.Sprintf("valuation %g of %q is outside every bin", rec.Valuation, rec.Company))
		return false
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

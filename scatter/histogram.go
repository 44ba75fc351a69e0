package scatter

import (
	"fmt"
	"sort"
)

// Histogram is a normalized piecewise-constant probability density over a set
// of ascending bin bounds.
type Histogram struct {
	bounds, density, cdf []float64
}

// NewHistogram creates a histogram from len(bounds) - 1 non-negative bin
// heights. The heights are normalized so that the density integrates to one.
func NewHistogram(bounds, values []float64) (*Histogram, error) {
	if len(bounds) < 2 {
		return nil, fmt.Errorf("%w: histogram has %d bounds", ErrTable, len(bounds))
	} else if len(values) != len(bounds)-1 {
		return nil, fmt.Errorf(
			"%w: histogram has %d bounds but %d values",
			ErrTable, len(bounds), len(values),
		)
	}

	total := 0.0
	for i, v := range values {
		if !(bounds[i] < bounds[i+1]) {
			return nil, fmt.Errorf(
				"%w: histogram bounds not ascending at index %d", ErrTable, i,
			)
		} else if v < 0 {
			return nil, fmt.Errorf("%w: histogram value %d is %g", ErrTable, i, v)
		}
		total += v * (bounds[i+1] - bounds[i])
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: histogram has no weight", ErrCannotSample)
	}

	h := &Histogram{
		bounds:  bounds,
		density: make([]float64, len(values)),
		cdf:     make([]float64, len(bounds)),
	}
	for i, v := range values {
		h.density[i] = v / total
		h.cdf[i+1] = h.cdf[i] + h.density[i]*(bounds[i+1]-bounds[i])
	}
	h.cdf[len(h.cdf)-1] = 1
	return h, nil
}

func (h *Histogram) Lower() float64 { return h.bounds[0] }
func (h *Histogram) Upper() float64 { return h.bounds[len(h.bounds)-1] }

// Sample maps the percentile xi in [0, 1) onto the distribution by
// inverting the CDF. Empty bins are never selected.
func (h *Histogram) Sample(xi float64) float64 {
	n := len(h.density)
	i := sort.Search(n, func(i int) bool { return h.cdf[i+1] > xi })
	if i == n {
		return h.Upper()
	}
	return h.bounds[i] + (xi-h.cdf[i])/h.density[i]
}

// CDF returns the probability of sampling a value <= x.
func (h *Histogram) CDF(x float64) float64 {
	if x <= h.bounds[0] {
		return 0
	} else if x >= h.Upper() {
		return 1
	}
	i := sort.Search(len(h.bounds), func(i int) bool { return h.bounds[i] > x }) - 1
	return h.cdf[i] + h.density[i]*(x-h.bounds[i])
}

// PDF returns the normalized density at x.
func (h *Histogram) PDF(x float64) float64 {
	if x < h.bounds[0] || x > h.Upper() {
		return 0
	} else if x == h.Upper() {
		return h.density[len(h.density)-1]
	}
	i := sort.Search(len(h.bounds), func(i int) bool { return h.bounds[i] > x }) - 1
	return h.density[i]
}

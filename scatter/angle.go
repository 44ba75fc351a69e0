package scatter

import (
	"fmt"

	"github.com/phil-mansfield/gocollide/rand"
)

// Isotropic is the isotropic angular distribution.
type Isotropic struct{}

func (Isotropic) angleLaw() {}

// SampleCosine uses one draw.
func (Isotropic) SampleCosine(e float64, rng rand.Stream) (float64, error) {
	return 2*rng.Float64() - 1, nil
}

// TabularCosine is a scattering cosine distribution tabulated at a set of
// incoming energies. Between tabulated energies the same percentile is
// sampled from both bracketing tables and the two cosines are interpolated,
// so each sample uses exactly one draw.
type TabularCosine struct {
	grid   energyGrid
	tables []*Histogram
}

// NewTabularCosine creates a TabularCosine. Every table must lie inside
// [-1, 1].
func NewTabularCosine(
	energies []float64, tables []*Histogram, policy BoundaryPolicy,
) (*TabularCosine, error) {
	grid, err := newEnergyGrid(energies, len(tables), policy)
	if err != nil {
		return nil, err
	}
	for i, t := range tables {
		if t.Lower() < -1 || t.Upper() > 1 {
			return nil, fmt.Errorf(
				"%w: cosine table %d covers [%g, %g]", ErrTable, i, t.Lower(), t.Upper(),
			)
		}
	}
	return &TabularCosine{grid, tables}, nil
}

func (tc *TabularCosine) Energies() []float64    { return tc.grid.Energies() }
func (tc *TabularCosine) Policy() BoundaryPolicy { return tc.grid.Policy() }

func (tc *TabularCosine) angleLaw() {}

func (tc *TabularCosine) SampleCosine(e float64, rng rand.Stream) (float64, error) {
	i, r, err := tc.grid.locate(e)
	if err != nil {
		return 0, err
	}
	xi := rng.Float64()
	return lerp(tc.tables[i].Sample(xi), tc.tables[i+1].Sample(xi), r), nil
}

// CDF returns the probability that a particle with energy e scatters with a
// cosine <= mu.
func (tc *TabularCosine) CDF(e, mu float64) (float64, error) {
	i, r, err := tc.grid.locate(e)
	if err != nil {
		return 0, err
	}
	return lerp(tc.tables[i].CDF(mu), tc.tables[i+1].CDF(mu), r), nil
}

// SampleCosineBelow samples a cosine restricted to [-1, muMax]. One draw is
// used.
func (tc *TabularCosine) SampleCosineBelow(
	e, muMax float64, rng rand.Stream,
) (float64, error) {
	i, r, err := tc.grid.locate(e)
	if err != nil {
		return 0, err
	}
	lo, hi := tc.tables[i], tc.tables[i+1]
	xi := rng.Float64()
	return lerp(lo.Sample(xi*lo.CDF(muMax)), hi.Sample(xi*hi.CDF(muMax)), r), nil
}

func lerp(y0, y1, r float64) float64 {
	if r == 0 {
		return y0
	} else if r == 1 {
		return y1
	}
	return y0 + r*(y1-y0)
}

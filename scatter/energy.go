package scatter

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/rand"
)

////////////////////
// HistogramTable //
////////////////////

// HistogramTable is an outgoing energy distribution tabulated at a set of
// incoming energies, with a histogram at each one.
//
// Each in-range sample uses exactly two draws. The first belongs to table
// interpolation and the second is the CDF percentile. With Correlated
// interpolation the same percentile is sampled from both bracketing tables
// and the two energies are interpolated. With UnitBase the first draw picks
// one of the tables with the interpolation fraction and its sample is
// rescaled onto bounds interpolated between the two tables.
type HistogramTable struct {
	grid   energyGrid
	tables []*Histogram
	interp TableInterpolation
}

// TableInterpolation is the scheme a HistogramTable uses between two
// tabulated incoming energies.
type TableInterpolation int

const (
	Correlated TableInterpolation = iota
	UnitBase
)

func (ti TableInterpolation) String() string {
	switch ti {
	case Correlated:
		return "Correlated"
	case UnitBase:
		return "UnitBase"
	}
	return fmt.Sprintf("TableInterpolation(%d)", int(ti))
}

// NewHistogramTable creates a HistogramTable with Correlated interpolation.
// energies must be strictly ascending and have one entry per table.
func NewHistogramTable(
	energies []float64, tables []*Histogram, policy BoundaryPolicy,
) (*HistogramTable, error) {
	return NewInterpolatedHistogramTable(energies, tables, policy, Correlated)
}

// NewInterpolatedHistogramTable creates a HistogramTable which uses the
// given interpolation scheme.
func NewInterpolatedHistogramTable(
	energies []float64, tables []*Histogram,
	policy BoundaryPolicy, interp TableInterpolation,
) (*HistogramTable, error) {
	if interp != Correlated && interp != UnitBase {
		return nil, fmt.Errorf("%w: unrecognized %v", ErrTable, interp)
	}
	grid, err := newEnergyGrid(energies, len(tables), policy)
	if err != nil {
		return nil, err
	}
	return &HistogramTable{grid, tables, interp}, nil
}

func (ht *HistogramTable) Energies() []float64               { return ht.grid.Energies() }
func (ht *HistogramTable) Policy() BoundaryPolicy            { return ht.grid.Policy() }
func (ht *HistogramTable) Tables() []*Histogram              { return ht.tables }
func (ht *HistogramTable) Interpolation() TableInterpolation { return ht.interp }

func (ht *HistogramTable) energyLaw() {}

// SampleEnergy samples an outgoing energy for the incoming energy e. Outside
// of an Extend grid the lowest or highest table is sampled directly.
func (ht *HistogramTable) SampleEnergy(e float64, rng rand.Stream) (float64, error) {
	i, r, err := ht.grid.locate(e)
	if err != nil {
		return 0, err
	}
	lo, hi := ht.tables[i], ht.tables[i+1]
	xi1, xi2 := rng.Float64(), rng.Float64()

	if ht.interp == Correlated {
		return lerp(lo.Sample(xi2), hi.Sample(xi2), r), nil
	}

	l := lo
	if xi1 < r {
		l = hi
	}
	x := l.Sample(xi2)
	if r == 0 || r == 1 {
		return x, nil
	}

	e1 := lo.Lower() + r*(hi.Lower()-lo.Lower())
	eK := lo.Upper() + r*(hi.Upper()-lo.Upper())
	return e1 + (x-l.Lower())*(eK-e1)/(l.Upper()-l.Lower()), nil
}

/////////////////
// Evaporation //
/////////////////

// Evaporation is the evaporation spectrum
//
//     f(E -> E') ~ E' exp(-E'/T(E)),  0 <= E' <= E - U,
//
// with a tabulated nuclear temperature T(E) and a restriction energy U.
type Evaporation struct {
	temperature *interpolate.Tabulated
	restriction float64
}

// NewEvaporation creates an evaporation spectrum.
func NewEvaporation(temperature *interpolate.Tabulated, restriction float64) *Evaporation {
	return &Evaporation{temperature, restriction}
}

func (ev *Evaporation) energyLaw() {}

// SampleEnergy samples an outgoing energy by rejection. Trials are recorded
// on rng if it counts them.
func (ev *Evaporation) SampleEnergy(e float64, rng rand.Stream) (float64, error) {
	emax := e - ev.restriction
	t := ev.temperature.Eval(e)
	if emax <= 0 || t <= 0 {
		return 0, fmt.Errorf(
			"%w: evaporation at %g MeV has T = %g, E - U = %g",
			ErrCannotSample, e, t, emax,
		)
	}

	for trials := uint64(1); trials <= maxTrials; trials++ {
		// 1 - xi is in (0, 1], so the log is finite.
		x := -t * math.Log((1-rng.Float64())*(1-rng.Float64()))
		if x <= emax {
			rand.CountTrials(rng, trials, 1)
			return x, nil
		}
	}
	rand.CountTrials(rng, maxTrials, 0)
	return 0, fmt.Errorf("%w: evaporation rejection did not converge", ErrCannotSample)
}

////////////////////
// LevelInelastic //
////////////////////

// LevelInelastic is inelastic scattering to a discrete excited level. The
// outgoing center-of-mass energy is
//
//     E' = (A/(A+1))^2 (E - (A+1)/A |Q|).
//
// It is normally paired with an angle law inside EnergyAngle with the
// center-of-mass flag set.
type LevelInelastic struct {
	a, q float64
}

// NewLevelInelastic creates a level law for a target with mass ratio a and
// level Q-value q.
func NewLevelInelastic(a, q float64) *LevelInelastic {
	if a <= 0 {
		panic(fmt.Sprintf("scatter: target mass ratio %g is not positive", a))
	}
	return &LevelInelastic{a, math.Abs(q)}
}

// ThresholdEnergy returns the lowest incoming energy which can excite the
// level.
func (li *LevelInelastic) ThresholdEnergy() float64 {
	return (li.a + 1) / li.a * li.q
}

func (li *LevelInelastic) energyLaw() {}

// SampleEnergy returns the outgoing energy. No draws are used.
func (li *LevelInelastic) SampleEnergy(e float64, rng rand.Stream) (float64, error) {
	if e < li.ThresholdEnergy() {
		return 0, fmt.Errorf(
			"%w: %g MeV is below level threshold %g MeV",
			ErrEnergyOutOfRange, e, li.ThresholdEnergy(),
		)
	}
	f := li.a / (li.a + 1)
	return f * f * (e - li.ThresholdEnergy()), nil
}

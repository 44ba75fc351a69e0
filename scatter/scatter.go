/*package scatter contains the sampling laws which turn an interaction into
outgoing particle states.

The set of laws is closed: every law implements an unexported marker method,
so the only implementations of Law, EnergyLaw, AngleLaw and Multiplicity are
the ones in this package. Laws are immutable after construction and may be
shared between goroutines. All randomness comes from the rand.Stream passed
to each call.
*/
package scatter

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
)

var (
	// ErrTable is returned by constructors given malformed tables.
	ErrTable = errors.New("scatter: invalid table")
	// ErrEnergyOutOfRange is returned when a Strict table is asked to sample
	// outside of its incoming energy grid, or when a law is evaluated below
	// its kinematic threshold.
	ErrEnergyOutOfRange = errors.New("scatter: energy outside of table range")
	// ErrCannotSample is returned when a distribution is degenerate (zero
	// width, zero probability everywhere, or a rejection loop which never
	// accepts).
	ErrCannotSample = errors.New("scatter: cannot sample")
)

// maxTrials bounds every rejection loop.
const maxTrials = 1000

// BoundaryPolicy decides what a tabulated law does with incoming energies
// outside of its grid. It is fixed when the table is built.
type BoundaryPolicy int

const (
	// Strict tables return ErrEnergyOutOfRange.
	Strict BoundaryPolicy = iota
	// Extend tables use the nearest boundary table.
	Extend
)

func (bp BoundaryPolicy) String() string {
	switch bp {
	case Strict:
		return "Strict"
	case Extend:
		return "Extend"
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", int(bp))
}

////////////////
// Interfaces //
////////////////

// Law is a complete scattering distribution. Scatter updates p in place and
// pushes any particles the interaction creates onto bank.
type Law interface {
	Scatter(p *particle.State, bank *particle.Bank, rng rand.Stream) error
	law()
}

// EnergyLaw samples an outgoing energy given an incoming energy.
type EnergyLaw interface {
	SampleEnergy(e float64, rng rand.Stream) (float64, error)
	energyLaw()
}

// AngleLaw samples a scattering angle cosine given an incoming energy.
type AngleLaw interface {
	SampleCosine(e float64, rng rand.Stream) (float64, error)
	angleLaw()
}

// Multiplicity samples the number of particles leaving an interaction.
type Multiplicity interface {
	SampleMultiplicity(e float64, rng rand.Stream) int
	multiplicity()
}

var (
	_ EnergyLaw = &HistogramTable{}
	_ EnergyLaw = &Evaporation{}
	_ EnergyLaw = &LevelInelastic{}

	_ AngleLaw = Isotropic{}
	_ AngleLaw = &TabularCosine{}

	_ Multiplicity = FixedMultiplicity(1)
	_ Multiplicity = &TabulatedMultiplicity{}

	_ Law = &TwoBodyElastic{}
	_ Law = &EnergyAngle{}
	_ Law = &KleinNishina{}
	_ Law = Thomson{}
	_ Law = &PairProduction{}
	_ Law = Annihilation{}
	_ Law = &CutoffElastic{}
	_ Law = &MomentPreserving{}
	_ Law = &HybridElastic{}
	_ Law = &AtomicExcitation{}
	_ Law = &Bremsstrahlung{}
	_ Law = &Ionization{}
)

///////////////////////
// Incoming energies //
///////////////////////

// energyGrid is the incoming energy grid shared by the tabulated laws.
type energyGrid struct {
	search interpolate.Searcher
	policy BoundaryPolicy
}

func newEnergyGrid(energies []float64, tables int, policy BoundaryPolicy) (energyGrid, error) {
	if len(energies) != tables {
		return energyGrid{}, fmt.Errorf(
			"%w: %d incoming energies, but %d tables", ErrTable, len(energies), tables,
		)
	}
	s, err := interpolate.NewHashSearcher(energies, len(energies), interpolate.Linear)
	if err != nil {
		return energyGrid{}, fmt.Errorf("%w: %v", ErrTable, err)
	}
	return energyGrid{s, policy}, nil
}

// locate returns the lower bin bracketing e and the interpolation fraction
// inside it. Energies outside of the grid are rejected under Strict and
// clamped to the first or last bin (with fraction 0 or 1) under Extend.
func (g *energyGrid) locate(e float64) (int, float64, error) {
	xs := g.search.Grid()
	n := len(xs)
	if !g.search.IsWithinBounds(e) {
		if g.policy == Strict {
			return 0, 0, fmt.Errorf(
				"%w: %g not in [%g, %g]", ErrEnergyOutOfRange, e, xs[0], xs[n-1],
			)
		} else if e < xs[0] {
			return 0, 0, nil
		}
		return n - 2, 1, nil
	}

	i := g.search.LowerBinIndex(e)
	return i, (e - xs[i]) / (xs[i+1] - xs[i]), nil
}

func (g *energyGrid) Energies() []float64    { return g.search.Grid() }
func (g *energyGrid) Policy() BoundaryPolicy { return g.policy }

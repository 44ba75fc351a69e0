package scatter

import (
	"math"

	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/rand"
)

// FixedMultiplicity always produces the same number of particles. No draws
// are used.
type FixedMultiplicity int

func (m FixedMultiplicity) multiplicity() {}

func (m FixedMultiplicity) SampleMultiplicity(e float64, rng rand.Stream) int {
	return int(m)
}

// TabulatedMultiplicity has an energy-dependent average multiplicity (e.g.
// fission nu-bar). An average of nu produces floor(nu) particles, plus one
// more with probability nu - floor(nu).
type TabulatedMultiplicity struct {
	nu *interpolate.Tabulated
}

func NewTabulatedMultiplicity(nu *interpolate.Tabulated) *TabulatedMultiplicity {
	return &TabulatedMultiplicity{nu}
}

// Average returns the average multiplicity at e.
func (m *TabulatedMultiplicity) Average(e float64) float64 { return m.nu.Eval(e) }

func (m *TabulatedMultiplicity) multiplicity() {}

// SampleMultiplicity uses one draw.
func (m *TabulatedMultiplicity) SampleMultiplicity(e float64, rng rand.Stream) int {
	nu := m.nu.Eval(e)
	n := math.Floor(nu)
	if rng.Float64() < nu-n {
		n++
	}
	return int(n)
}

/*package collision evaluates reaction cross sections and dispatches
collisions to the scattering law of the selected reaction.
*/
package collision

import (
	"errors"
	"fmt"

	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
	"github.com/phil-mansfield/gocollide/scatter"
)

// ErrCannotSample is returned when no reaction can be selected because the
// total cross section vanishes. It is the same error the scatter package
// uses for degenerate distributions.
var ErrCannotSample = scatter.ErrCannotSample

// Reaction is one channel of a nuclide or atom. Its cross section is zero
// below the threshold energy.
type Reaction interface {
	Type() Type
	ThresholdEnergy() float64
	CrossSection(e float64) float64
	// React applies the reaction to p, pushing any secondaries onto bank.
	// The collision number of p is incremented exactly once.
	React(p *particle.State, bank *particle.Bank, rng rand.Stream) error
}

var (
	_ Reaction = &AbsorptionReaction{}
	_ Reaction = &ScatteringReaction{}
	_ Reaction = &DistributionReaction{}
)

// table is the part of a reaction shared by every implementation.
type table struct {
	typ Type
	xs  *interpolate.Tabulated
}

func (t *table) Type() Type                     { return t.typ }
func (t *table) ThresholdEnergy() float64       { return t.xs.ThresholdValue() }
func (t *table) CrossSection(e float64) float64 { return t.xs.Eval(e) }

// CrossSectionTable returns the tabulated cross section.
func (t *table) CrossSectionTable() *interpolate.Tabulated { return t.xs }

////////////////
// Absorption //
////////////////

// AbsorptionReaction terminates the incoming particle.
type AbsorptionReaction struct {
	table
}

func NewAbsorptionReaction(typ Type, xs *interpolate.Tabulated) *AbsorptionReaction {
	return &AbsorptionReaction{table{typ, xs}}
}

// React uses no draws.
func (r *AbsorptionReaction) React(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	p.IncrementCollisionNumber()
	p.SetAsGone()
	return nil
}

////////////////
// Scattering //
////////////////

// ScatteringReaction emits the incoming particle again, possibly with
// additional copies of it (e.g. (n,2n) or fission). The incoming particle is
// scattered in place and each additional copy starts from the pre-collision
// state, one generation further from the source, and is scattered
// independently.
type ScatteringReaction struct {
	table
	law  scatter.Law
	mult scatter.Multiplicity
}

// NewScatteringReaction creates a reaction with a fixed multiplicity.
func NewScatteringReaction(
	typ Type, xs *interpolate.Tabulated, law scatter.Law, mult int,
) *ScatteringReaction {
	if mult < 0 {
		panic(fmt.Sprintf("collision: multiplicity %d is negative", mult))
	}
	return &ScatteringReaction{table{typ, xs}, law, scatter.FixedMultiplicity(mult)}
}

// NewMultiplyingReaction creates a reaction with an energy-dependent average
// multiplicity.
func NewMultiplyingReaction(
	typ Type, xs *interpolate.Tabulated, law scatter.Law, nu *interpolate.Tabulated,
) *ScatteringReaction {
	return &ScatteringReaction{table{typ, xs}, law, scatter.NewTabulatedMultiplicity(nu)}
}

func (r *ScatteringReaction) Law() scatter.Law                   { return r.law }
func (r *ScatteringReaction) Multiplicity() scatter.Multiplicity { return r.mult }

// React samples the multiplicity (one draw for tabulated multiplicities),
// then scatters the incoming particle, then each copy in turn. A multiplicity
// of zero terminates the particle.
func (r *ScatteringReaction) React(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	p.IncrementCollisionNumber()
	n := r.mult.SampleMultiplicity(p.Energy, rng)
	if n <= 0 {
		p.SetAsGone()
		return nil
	}

	var pre *particle.State
	if n > 1 {
		pre = p.Clone()
	}
	if err := r.law.Scatter(p, bank, rng); err != nil {
		return fmt.Errorf("collision: %s: %w", r.typ, err)
	}

	for i := 1; i < n; i++ {
		c := pre.Clone()
		c.Generation++
		c.Collision = 0
		if err := r.law.Scatter(c, bank, rng); err != nil {
			return fmt.Errorf("collision: %s copy %d: %w", r.typ, i, err)
		}
		if !c.IsGone() {
			bank.Push(c)
		}
	}
	return nil
}

//////////////////
// Distribution //
//////////////////

// DistributionReaction hands the particle to a law which creates any
// secondaries itself, such as pair production or bremsstrahlung.
type DistributionReaction struct {
	table
	law scatter.Law
}

func NewDistributionReaction(
	typ Type, xs *interpolate.Tabulated, law scatter.Law,
) *DistributionReaction {
	return &DistributionReaction{table{typ, xs}, law}
}

func (r *DistributionReaction) Law() scatter.Law { return r.law }

func (r *DistributionReaction) React(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	p.IncrementCollisionNumber()
	if err := r.law.Scatter(p, bank, rng); err != nil {
		return fmt.Errorf("collision: %s: %w", r.typ, err)
	}
	return nil
}

/////////
// Set //
/////////

// Set is the collection of reactions available to one particle type in one
// nuclide or atom.
type Set struct {
	name      string
	reactions []Reaction
}

// NewSet creates a reaction set. Reactions are sampled in the order given.
func NewSet(name string, reactions ...Reaction) *Set {
	return &Set{name, reactions}
}

func (s *Set) Name() string          { return s.name }
func (s *Set) Reactions() []Reaction { return s.reactions }
func (s *Set) Add(r Reaction)        { s.reactions = append(s.reactions, r) }

// TotalCrossSection returns the sum of the reaction cross sections at e.
func (s *Set) TotalCrossSection(e float64) float64 {
	sum := 0.0
	for _, r := range s.reactions {
		sum += r.CrossSection(e)
	}
	return sum
}

// AbsorptionCrossSection returns the summed cross section of the absorption
// reactions at e.
func (s *Set) AbsorptionCrossSection(e float64) float64 {
	sum := 0.0
	for _, r := range s.reactions {
		if r.Type().IsAbsorption() {
			sum += r.CrossSection(e)
		}
	}
	return sum
}

// CrossSection returns the summed cross section of every reaction of type t.
func (s *Set) CrossSection(e float64, t Type) float64 {
	sum := 0.0
	for _, r := range s.reactions {
		if r.Type() == t {
			sum += r.CrossSection(e)
		}
	}
	return sum
}

// Sample selects a reaction with probability proportional to its cross
// section at e. One draw is used.
func (s *Set) Sample(e float64, rng rand.Stream) (Reaction, error) {
	total := s.TotalCrossSection(e)
	if total <= 0 {
		return nil, fmt.Errorf(
			"%w: %s has no cross section at %g MeV", ErrCannotSample, s.name, e,
		)
	}

	target := rng.Float64() * total
	sum := 0.0
	var last Reaction
	for _, r := range s.reactions {
		xs := r.CrossSection(e)
		if xs <= 0 {
			continue
		}
		sum += xs
		last = r
		if target < sum {
			return r, nil
		}
	}
	return last, nil
}

// Collide samples a reaction at the particle's energy and applies it.
func (s *Set) Collide(p *particle.State, bank *particle.Bank, rng rand.Stream) error {
	r, err := s.Sample(p.Energy, rng)
	if err != nil {
		return err
	}
	return r.React(p, bank, rng)
}

// IsCannotSample reports whether err came from a degenerate distribution.
func IsCannotSample(err error) bool { return errors.Is(err, ErrCannotSample) }

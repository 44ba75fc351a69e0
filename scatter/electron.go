package scatter

import (
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
)

var (
	_ AngleLaw = &CutoffElastic{}
	_ AngleLaw = &MomentPreserving{}
	_ AngleLaw = &HybridElastic{}
)

///////////////////
// CutoffElastic //
///////////////////

// CutoffElastic is tabulated electron elastic scattering restricted to
// cosines at or below a cutoff cosine. A cutoff of 1 keeps the full table.
type CutoffElastic struct {
	table  *TabularCosine
	cutoff float64
}

func NewCutoffElastic(table *TabularCosine, cutoff float64) (*CutoffElastic, error) {
	if cutoff <= -1 || cutoff > 1 {
		return nil, fmt.Errorf("%w: cutoff cosine %g not in (-1, 1]", ErrTable, cutoff)
	}
	return &CutoffElastic{table, cutoff}, nil
}

func (ce *CutoffElastic) CutoffCosine() float64 { return ce.cutoff }

func (ce *CutoffElastic) law()      {}
func (ce *CutoffElastic) angleLaw() {}

// SampleCosine uses one draw.
func (ce *CutoffElastic) SampleCosine(e float64, rng rand.Stream) (float64, error) {
	if ce.cutoff >= 1 {
		return ce.table.SampleCosine(e, rng)
	}
	return ce.table.SampleCosineBelow(e, ce.cutoff, rng)
}

func (ce *CutoffElastic) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	return scatterWith(ce, p, rng)
}

// scatterWith rotates p through a cosine sampled from an angle law, leaving
// its energy unchanged.
func scatterWith(al AngleLaw, p *particle.State, rng rand.Stream) error {
	mu, err := al.SampleCosine(p.Energy, rng)
	if err != nil {
		return err
	}
	particle.Scatter(p, mu, rng)
	return nil
}

//////////////////////
// MomentPreserving //
//////////////////////

// DiscreteCosines is a discrete set of scattering cosines with weights.
type DiscreteCosines struct {
	cosines, cdf []float64
}

// NewDiscreteCosines creates a discrete cosine distribution. The weights
// are normalized.
func NewDiscreteCosines(cosines, weights []float64) (*DiscreteCosines, error) {
	if len(cosines) == 0 || len(cosines) != len(weights) {
		return nil, fmt.Errorf(
			"%w: %d discrete cosines with %d weights",
			ErrTable, len(cosines), len(weights),
		)
	}

	dc := &DiscreteCosines{cosines, make([]float64, len(weights))}
	total := 0.0
	for i, w := range weights {
		if w < 0 || cosines[i] < -1 || cosines[i] > 1 {
			return nil, fmt.Errorf(
				"%w: discrete cosine %g with weight %g", ErrTable, cosines[i], w,
			)
		}
		total += w
		dc.cdf[i] = total
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: discrete cosines have no weight", ErrCannotSample)
	}
	for i := range dc.cdf {
		dc.cdf[i] /= total
	}
	dc.cdf[len(dc.cdf)-1] = 1
	return dc, nil
}

func (dc *DiscreteCosines) Sample(xi float64) float64 {
	i := sort.Search(len(dc.cdf), func(i int) bool { return dc.cdf[i] > xi })
	if i == len(dc.cdf) {
		i--
	}
	return dc.cosines[i]
}

// MomentPreserving is electron elastic scattering approximated by a few
// discrete cosines per tabulated energy, chosen to preserve the low order
// moments of the full distribution.
type MomentPreserving struct {
	grid   energyGrid
	tables []*DiscreteCosines
}

func NewMomentPreserving(
	energies []float64, tables []*DiscreteCosines, policy BoundaryPolicy,
) (*MomentPreserving, error) {
	grid, err := newEnergyGrid(energies, len(tables), policy)
	if err != nil {
		return nil, err
	}
	return &MomentPreserving{grid, tables}, nil
}

func (mp *MomentPreserving) Policy() BoundaryPolicy { return mp.grid.Policy() }

func (mp *MomentPreserving) law()      {}
func (mp *MomentPreserving) angleLaw() {}

// SampleCosine uses two draws: the table and the discrete cosine.
func (mp *MomentPreserving) SampleCosine(e float64, rng rand.Stream) (float64, error) {
	i, r, err := mp.grid.locate(e)
	if err != nil {
		return 0, err
	}
	if rng.Float64() < r {
		i++
	}
	return mp.tables[i].Sample(rng.Float64()), nil
}

func (mp *MomentPreserving) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	return scatterWith(mp, p, rng)
}

///////////////////
// HybridElastic //
///////////////////

// HybridElastic mixes cutoff and moment-preserving elastic scattering. The
// cutoff part covers cosines below the cutoff cosine, and the probability of
// using it is
//
//     ratio = sc cdf(muc) / (sc cdf(muc) + smp),
//
// where sc and smp are the cutoff and moment-preserving cross sections. The
// two cross sections are separate tables and may use different grids.
type HybridElastic struct {
	cutoff  *CutoffElastic
	mp      *MomentPreserving
	sc, smp *interpolate.Tabulated
}

func NewHybridElastic(
	cutoff *CutoffElastic, sc *interpolate.Tabulated,
	mp *MomentPreserving, smp *interpolate.Tabulated,
) *HybridElastic {
	return &HybridElastic{cutoff, mp, sc, smp}
}

func (he *HybridElastic) law()      {}
func (he *HybridElastic) angleLaw() {}

// Ratio returns the probability that a collision at energy e uses the cutoff
// distribution.
func (he *HybridElastic) Ratio(e float64) (float64, error) {
	cdf, err := he.cutoff.table.CDF(e, he.cutoff.cutoff)
	if err != nil {
		return 0, err
	}
	sc := he.sc.Eval(e) * cdf
	total := sc + he.smp.Eval(e)
	if total <= 0 {
		return 0, fmt.Errorf(
			"%w: no hybrid elastic cross section at %g MeV", ErrCannotSample, e,
		)
	}
	return sc / total, nil
}

// SampleCosine uses one draw to choose a distribution and then that
// distribution's draws.
func (he *HybridElastic) SampleCosine(e float64, rng rand.Stream) (float64, error) {
	ratio, err := he.Ratio(e)
	if err != nil {
		return 0, err
	}
	if rng.Float64() < ratio {
		return he.cutoff.SampleCosine(e, rng)
	}
	return he.mp.SampleCosine(e, rng)
}

func (he *HybridElastic) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	return scatterWith(he, p, rng)
}

/////////////////
// Energy loss //
/////////////////

// AtomicExcitation removes a tabulated, energy-dependent amount of energy
// from an electron without deflecting it. No draws are used.
type AtomicExcitation struct {
	loss *interpolate.Tabulated
}

func NewAtomicExcitation(loss *interpolate.Tabulated) *AtomicExcitation {
	return &AtomicExcitation{loss}
}

func (ae *AtomicExcitation) law() {}

func (ae *AtomicExcitation) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	p.Energy -= ae.loss.Eval(p.Energy)
	if p.Energy <= 0 {
		p.Energy = 0
		p.SetAsGone()
	}
	return nil
}

// Bremsstrahlung emits a photon along the electron's direction of flight,
// with an energy sampled from an energy law, and removes that energy from the
// electron.
type Bremsstrahlung struct {
	photon EnergyLaw
}

func NewBremsstrahlung(photon EnergyLaw) *Bremsstrahlung {
	return &Bremsstrahlung{photon}
}

func (b *Bremsstrahlung) law() {}

func (b *Bremsstrahlung) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	k, err := b.photon.SampleEnergy(p.Energy, rng)
	if err != nil {
		return err
	}
	k = math.Min(math.Max(k, 0), p.Energy)
	if k == 0 {
		return nil
	}

	g := p.Spawn(particle.Photon)
	g.Energy = k
	bank.Push(g)

	p.Energy -= k
	if p.Energy <= 0 {
		p.Energy = 0
		p.SetAsGone()
	}
	return nil
}

// Ionization ejects a bound electron. The knock-on energy is sampled from an
// energy law, the binding energy is lost, and both electrons leave with
// free two-body kinematics on opposite sides of the incoming direction.
type Ionization struct {
	knockOn EnergyLaw
	binding float64
}

func NewIonization(knockOn EnergyLaw, binding float64) *Ionization {
	return &Ionization{knockOn, binding}
}

func (ion *Ionization) law() {}

// Scatter uses the draws of the knock-on law and one azimuthal draw.
func (ion *Ionization) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	e := p.Energy
	avail := e - ion.binding
	if avail <= 0 {
		return fmt.Errorf(
			"%w: %g MeV is below the %g MeV binding energy",
			ErrEnergyOutOfRange, e, ion.binding,
		)
	}
	t, err := ion.knockOn.SampleEnergy(e, rng)
	if err != nil {
		return err
	}
	t = math.Min(math.Max(t, 0), avail)
	ep := avail - t

	d := p.Direction
	phi := particle.SampleAzimuth(rng)
	if t > 0 {
		k := p.Spawn(particle.Electron)
		k.Energy = t
		k.Direction = particle.Rotate(d, freeCosine(t, e), phi)
		bank.Push(k)
	}

	p.Energy = ep
	if ep <= 0 {
		p.Energy = 0
		p.SetAsGone()
		return nil
	}
	p.Direction = particle.Rotate(d, freeCosine(ep, e), phi+math.Pi)
	return nil
}

// freeCosine is the cosine at which an electron with kinetic energy t leaves
// a collision between an electron of kinetic energy e and one at rest.
func freeCosine(t, e float64) float64 {
	mu := math.Sqrt(t * (e + 2*mc2) / (e * (t + 2*mc2)))
	return math.Min(mu, 1)
}

package scatter

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
	"gonum.org/v1/gonum/spatial/r3"
)

const mc2 = particle.ElectronRestMassEnergy

//////////////////
// KleinNishina //
//////////////////

// KleinNishina is incoherent scattering off a free electron at rest.
type KleinNishina struct {
	recoil bool
}

// NewKleinNishina creates an incoherent scattering law. If recoil is true the
// Compton electron is pushed onto the bank.
func NewKleinNishina(recoil bool) *KleinNishina { return &KleinNishina{recoil} }

func (kn *KleinNishina) law() {}

// SampleInverseRatio samples k = E/E' for a photon of energy e using Kahn's
// rejection method. Each trial uses three draws.
func (kn *KleinNishina) SampleInverseRatio(e float64, rng rand.Stream) (float64, error) {
	alpha := e / mc2
	branch := (1 + 2*alpha) / (9 + 2*alpha)

	for trials := uint64(1); trials <= maxTrials; trials++ {
		r1, r2, r3 := rng.Float64(), rng.Float64(), rng.Float64()
		if r1 <= branch {
			k := 1 + 2*alpha*r2
			if r3 <= 4*(1/k-1/(k*k)) {
				rand.CountTrials(rng, trials, 1)
				return k, nil
			}
		} else {
			k := (1 + 2*alpha) / (1 + 2*alpha*r2)
			mu := 1 - (k-1)/alpha
			if r3 <= 0.5*(mu*mu+1/k) {
				rand.CountTrials(rng, trials, 1)
				return k, nil
			}
		}
	}
	rand.CountTrials(rng, maxTrials, 0)
	return 0, fmt.Errorf("%w: Klein-Nishina rejection at %g MeV", ErrCannotSample, e)
}

func (kn *KleinNishina) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	if p.Energy <= 0 {
		return fmt.Errorf("%w: photon energy %g", ErrEnergyOutOfRange, p.Energy)
	}
	k, err := kn.SampleInverseRatio(p.Energy, rng)
	if err != nil {
		return err
	}

	e0, d0 := p.Energy, p.Direction
	mu := 1 - (k-1)*mc2/e0
	p.Energy = e0 / k
	particle.Scatter(p, mu, rng)

	if kn.recoil && e0 > p.Energy {
		elec := p.Spawn(particle.Electron)
		elec.Energy = e0 - p.Energy
		// Momentum conservation, in units of MeV/c.
		elec.SetDirection(r3.Sub(r3.Scale(e0, d0), r3.Scale(p.Energy, p.Direction)))
		bank.Push(elec)
	}
	return nil
}

/////////////
// Thomson //
/////////////

// Thomson is coherent scattering with the (1 + mu^2) angular distribution.
// The energy is unchanged.
type Thomson struct{}

func (Thomson) law() {}

// Scatter uses two draws per rejection trial and one azimuthal draw.
func (Thomson) Scatter(p *particle.State, bank *particle.Bank, rng rand.Stream) error {
	for trials := uint64(1); trials <= maxTrials; trials++ {
		mu := 2*rng.Float64() - 1
		if rng.Float64() <= 0.5*(1+mu*mu) {
			rand.CountTrials(rng, trials, 1)
			particle.Scatter(p, mu, rng)
			return nil
		}
	}
	rand.CountTrials(rng, maxTrials, 0)
	return fmt.Errorf("%w: Thomson rejection", ErrCannotSample)
}

////////////////////
// PairProduction //
////////////////////

// PairProduction converts a photon into an electron-positron pair (or, in
// the field of an atomic electron, a triplet of two electrons and a
// positron). Kinetic energy is shared evenly between the leptons and each is
// emitted at the characteristic angle mc^2/E from the photon direction.
//
// By default the positron annihilates at rest where it was created: the
// incoming photon becomes one of the two annihilation photons and the other
// is pushed onto the bank in the opposite direction.
type PairProduction struct {
	triplet, emitPositron bool
}

// NewPairProduction creates a pair production law. If emitPositron is true
// the positron is pushed onto the bank and the photon is terminated instead.
func NewPairProduction(emitPositron bool) *PairProduction {
	return &PairProduction{emitPositron: emitPositron}
}

// NewTripletProduction creates a triplet production law.
func NewTripletProduction(emitPositron bool) *PairProduction {
	return &PairProduction{triplet: true, emitPositron: emitPositron}
}

// ThresholdEnergy returns the minimum photon energy.
func (pp *PairProduction) ThresholdEnergy() float64 {
	if pp.triplet {
		return 4 * mc2
	}
	return 2 * mc2
}

func (pp *PairProduction) law() {}

// Scatter uses one azimuthal draw for the leptons and, if the positron
// annihilates, two draws for the photon direction.
func (pp *PairProduction) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	threshold := pp.ThresholdEnergy()
	if p.Energy <= threshold {
		return fmt.Errorf(
			"%w: %g MeV is below the %g MeV pair threshold",
			ErrEnergyOutOfRange, p.Energy, threshold,
		)
	}

	leptons := 2
	if pp.triplet {
		leptons = 3
	}
	t := (p.Energy - threshold) / float64(leptons)
	mu := math.Cos(mc2 / p.Energy)
	phi := particle.SampleAzimuth(rng)

	types := []particle.Type{particle.Electron, particle.Positron, particle.Electron}
	for i := 0; i < leptons; i++ {
		if types[i] == particle.Positron && !pp.emitPositron {
			continue
		}
		l := p.Spawn(types[i])
		l.Energy = t
		l.Direction = particle.Rotate(
			p.Direction, mu, phi+2*math.Pi*float64(i)/float64(leptons),
		)
		bank.Push(l)
	}

	if pp.emitPositron {
		p.SetAsGone()
		return nil
	}

	p.Generation++
	p.Collision = 0
	p.Energy = mc2
	p.Direction = particle.SampleIsotropic(rng)
	second := p.Clone()
	second.Direction = r3.Scale(-1, p.Direction)
	bank.Push(second)
	return nil
}

//////////////////
// Annihilation //
//////////////////

// Annihilation is positron annihilation at rest: the positron is terminated
// and two back-to-back photons of energy mc^2 are pushed onto the bank.
type Annihilation struct{}

func (Annihilation) law() {}

// Scatter uses two draws for the photon direction.
func (Annihilation) Scatter(p *particle.State, bank *particle.Bank, rng rand.Stream) error {
	d := particle.SampleIsotropic(rng)
	for _, sign := range []float64{1, -1} {
		g := p.Spawn(particle.Photon)
		g.Energy = mc2
		g.Direction = r3.Scale(sign, d)
		bank.Push(g)
	}
	p.SetAsGone()
	return nil
}

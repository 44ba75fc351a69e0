package scatter

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
)

// TwoBodyElastic is elastic scattering off a target whose mass is a times
// the projectile's. The cosine is sampled in the center-of-mass frame and
// the lab energy and direction follow from two-body kinematics.
type TwoBodyElastic struct {
	a  float64
	cm AngleLaw
}

// NewTwoBodyElastic creates an elastic law. A nil cm law is isotropic.
func NewTwoBodyElastic(a float64, cm AngleLaw) *TwoBodyElastic {
	if a <= 0 {
		panic(fmt.Sprintf("scatter: target mass ratio %g is not positive", a))
	}
	if cm == nil {
		cm = Isotropic{}
	}
	return &TwoBodyElastic{a, cm}
}

func (tb *TwoBodyElastic) law() {}

// Scatter uses the draws of the angle law followed by one azimuthal draw.
func (tb *TwoBodyElastic) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	mu, err := tb.cm.SampleCosine(p.Energy, rng)
	if err != nil {
		return err
	}

	a := tb.a
	s := a*a + 2*a*mu + 1
	p.Energy *= s / ((a + 1) * (a + 1))
	muLab := 1.0
	if s > 0 {
		muLab = (1 + a*mu) / math.Sqrt(s)
	}
	particle.Scatter(p, muLab, rng)
	return nil
}

// EnergyAngle samples the outgoing energy and cosine independently. If the
// law is given in the center-of-mass frame, the pair is converted to the lab
// frame for a target with mass ratio a.
type EnergyAngle struct {
	energy EnergyLaw
	angle  AngleLaw
	a      float64
	cm     bool
}

// NewEnergyAngle creates a lab-frame energy-angle law. A nil angle law is
// isotropic.
func NewEnergyAngle(energy EnergyLaw, angle AngleLaw) *EnergyAngle {
	if angle == nil {
		angle = Isotropic{}
	}
	return &EnergyAngle{energy: energy, angle: angle}
}

// NewCenterOfMassEnergyAngle creates an energy-angle law whose samples are in
// the center-of-mass frame of a target with mass ratio a.
func NewCenterOfMassEnergyAngle(energy EnergyLaw, angle AngleLaw, a float64) *EnergyAngle {
	if a <= 0 {
		panic(fmt.Sprintf("scatter: target mass ratio %g is not positive", a))
	}
	ea := NewEnergyAngle(energy, angle)
	ea.a, ea.cm = a, true
	return ea
}

func (ea *EnergyAngle) law() {}

// Scatter samples the energy, then the cosine, then the azimuth.
func (ea *EnergyAngle) Scatter(
	p *particle.State, bank *particle.Bank, rng rand.Stream,
) error {
	e, err := ea.energy.SampleEnergy(p.Energy, rng)
	if err != nil {
		return err
	}
	mu, err := ea.angle.SampleCosine(p.Energy, rng)
	if err != nil {
		return err
	}

	if ea.cm {
		e, mu = centerOfMassToLab(p.Energy, e, mu, ea.a)
	}
	p.Energy = e
	particle.Scatter(p, mu, rng)
	return nil
}

// centerOfMassToLab converts an outgoing center-of-mass energy and cosine
// into the lab frame for incoming lab energy ein.
func centerOfMassToLab(ein, ecm, mucm, a float64) (elab, mulab float64) {
	ap1 := a + 1
	elab = ecm + (ein+2*mucm*ap1*math.Sqrt(ein*ecm))/(ap1*ap1)
	if elab <= 0 {
		return 0, mucm
	}
	mulab = mucm*math.Sqrt(ecm/elab) + math.Sqrt(ein/elab)/ap1
	return elab, math.Max(-1, math.Min(1, mulab))
}

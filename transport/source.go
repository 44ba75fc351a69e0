package transport

import (
	"fmt"

	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
	"github.com/phil-mansfield/gocollide/scatter"
	"gonum.org/v1/gonum/spatial/r3"
)

// Source is a point source.
type Source struct {
	Type     particle.Type
	Position r3.Vec
	// Direction is the direction of emission. The zero vector means
	// isotropic emission.
	Direction r3.Vec
	// Energy is the emission energy, used when Spectrum is nil.
	Energy   float64
	Spectrum *scatter.Histogram
}

func (s *Source) Validate() error {
	if s.Spectrum == nil && !(s.Energy > 0) {
		return fmt.Errorf("transport: source energy %g is not positive", s.Energy)
	} else if s.Spectrum != nil && s.Spectrum.Lower() < 0 {
		return fmt.Errorf("transport: source spectrum starts at %g", s.Spectrum.Lower())
	}
	return nil
}

// Sample creates the source particle of a history. An isotropic source uses
// two draws and a spectrum uses one more, in that order.
func (s *Source) Sample(history uint64, rng rand.Stream) *particle.State {
	p := particle.New(s.Type, history)
	p.Position = s.Position
	if s.Direction == (r3.Vec{}) {
		p.Direction = particle.SampleIsotropic(rng)
	} else {
		p.SetDirection(s.Direction)
	}

	p.Energy = s.Energy
	if s.Spectrum != nil {
		p.Energy = s.Spectrum.Sample(rng.Float64())
	}
	return p
}

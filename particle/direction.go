package particle

import (
	"math"

	"github.com/phil-mansfield/gocollide/rand"
	"gonum.org/v1/gonum/spatial/r3"
)

// Rotate returns the unit direction found by scattering d through the polar
// angle with cosine mu and the azimuthal angle phi.
func Rotate(d r3.Vec, mu, phi float64) r3.Vec {
	if mu > 1 {
		mu = 1
	} else if mu < -1 {
		mu = -1
	}
	sinTheta := math.Sqrt(1 - mu*mu)
	sinPhi, cosPhi := math.Sincos(phi)

	// Close to the z-axis the usual formula divides by ~0, so rotate about
	// x instead.
	w2 := 1 - d.Z*d.Z
	if w2 < 1e-10 {
		sgn := 1.0
		if d.Z < 0 {
			sgn = -1.0
		}
		return r3.Unit(r3.Vec{
			X: sinTheta * cosPhi,
			Y: sinTheta * sinPhi,
			Z: sgn * mu,
		})
	}

	s := math.Sqrt(w2)
	out := r3.Vec{
		X: mu*d.X + sinTheta*(d.X*d.Z*cosPhi-d.Y*sinPhi)/s,
		Y: mu*d.Y + sinTheta*(d.Y*d.Z*cosPhi+d.X*sinPhi)/s,
		Z: mu*d.Z - sinTheta*cosPhi*s,
	}
	return r3.Unit(out)
}

// SampleAzimuth returns a uniformly distributed azimuthal angle.
func SampleAzimuth(rng rand.Stream) float64 {
	return 2 * math.Pi * rng.Float64()
}

// SampleIsotropic returns a direction uniformly distributed on the unit
// sphere. Two draws are used: the polar cosine and then the azimuth.
func SampleIsotropic(rng rand.Stream) r3.Vec {
	mu := 2*rng.Float64() - 1
	phi := SampleAzimuth(rng)
	s := math.Sqrt(1 - mu*mu)
	sinPhi, cosPhi := math.Sincos(phi)
	return r3.Vec{X: s * cosPhi, Y: s * sinPhi, Z: mu}
}

// Scatter rotates the direction of p through the polar angle with cosine mu
// and a uniformly sampled azimuth.
func Scatter(p *State, mu float64, rng rand.Stream) {
	p.Direction = Rotate(p.Direction, mu, SampleAzimuth(rng))
}

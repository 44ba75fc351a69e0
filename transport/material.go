/*package transport is a small history loop which drives the collision
kernel through a one-dimensional slab geometry. It is intended for
exercising estimators and reaction data end to end, not for production
geometry.
*/
package transport

import (
	"fmt"

	"github.com/phil-mansfield/gocollide/collision"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
)

// Component is one nuclide or element of a material.
type Component struct {
	Set *collision.Set
	// Density is the number density in atoms per barn-cm, so that a
	// microscopic cross section in barns gives a macroscopic cross section
	// in 1/cm.
	Density float64
}

// Material is a mixture of components, grouped by the particle type their
// reactions apply to.
type Material struct {
	name       string
	components map[particle.Type][]Component
}

func NewMaterial(name string) *Material {
	return &Material{name, map[particle.Type][]Component{}}
}

func (m *Material) Name() string { return m.name }

// Add adds a component for particles of type t.
func (m *Material) Add(t particle.Type, set *collision.Set, density float64) error {
	if !(density > 0) {
		return fmt.Errorf(
			"transport: material '%s' has density %g for %s", m.name, density, set.Name(),
		)
	}
	m.components[t] = append(m.components[t], Component{set, density})
	return nil
}

// Components returns the components for particles of type t.
func (m *Material) Components(t particle.Type) []Component { return m.components[t] }

// TotalCrossSection returns the macroscopic total cross section for a
// particle of type t at energy e.
func (m *Material) TotalCrossSection(t particle.Type, e float64) float64 {
	sum := 0.0
	for _, c := range m.components[t] {
		sum += c.Density * c.Set.TotalCrossSection(e)
	}
	return sum
}

// Collide selects a component with probability proportional to its
// macroscopic cross section, using one draw, and collides p with it.
func (m *Material) Collide(p *particle.State, bank *particle.Bank, rng rand.Stream) error {
	cs := m.components[p.Type]
	total := m.TotalCrossSection(p.Type, p.Energy)
	if total <= 0 {
		return fmt.Errorf(
			"%w: material '%s' has no %s cross section at %g MeV",
			collision.ErrCannotSample, m.name, p.Type, p.Energy,
		)
	}

	target := rng.Float64() * total
	sum := 0.0
	for i, c := range cs {
		sum += c.Density * c.Set.TotalCrossSection(p.Energy)
		if target < sum || i == len(cs)-1 {
			return c.Set.Collide(p, bank, rng)
		}
	}
	return nil
}

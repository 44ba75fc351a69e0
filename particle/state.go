package particle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the phase space state of a single particle.
//
// A State is owned by exactly one history. Once it has been marked as gone it
// is never transported again.
type State struct {
	History    uint64
	Generation uint32
	Collision  uint32
	Type       Type

	Position  r3.Vec
	Direction r3.Vec // Unit length.
	Energy    float64 // MeV
	Weight    float64
	Time      float64 // s

	Cell uint64

	gone bool
}

// New creates a live particle of the given type belonging to the given
// history. It starts at the origin travelling along +z with unit weight.
func New(t Type, history uint64) *State {
	return &State{
		History:   history,
		Type:      t,
		Direction: r3.Vec{X: 0, Y: 0, Z: 1},
		Weight:    1,
	}
}

// IsGone returns true if the particle has been absorbed, has escaped, or
// has been cut off.
func (p *State) IsGone() bool { return p.gone }

// SetAsGone terminates the particle.
func (p *State) SetAsGone() { p.gone = true }

// IncrementCollisionNumber records a collision.
func (p *State) IncrementCollisionNumber() { p.Collision++ }

// SetDirection sets the direction of flight to the normalized value of d.
func (p *State) SetDirection(d r3.Vec) {
	n := r3.Norm(d)
	if n == 0 || math.IsNaN(n) {
		panic(fmt.Sprintf("particle: invalid direction %v", d))
	}
	p.Direction = r3.Scale(1/n, d)
}

// Clone returns an identical copy of p.
func (p *State) Clone() *State {
	q := *p
	return &q
}

// Spawn creates a secondary particle of type t at the location of p. The
// secondary belongs to the same history and cell, is one generation further
// from the source, starts with no collisions and inherits the weight of p.
func (p *State) Spawn(t Type) *State {
	return &State{
		History:    p.History,
		Generation: p.Generation + 1,
		Type:       t,
		Position:   p.Position,
		Direction:  p.Direction,
		Energy:     p.Energy,
		Weight:     p.Weight,
		Time:       p.Time,
		Cell:       p.Cell,
	}
}

// Speed returns the speed of the particle in cm/s.
func (p *State) Speed() float64 {
	m := p.Type.RestMassEnergy()
	if m == 0 {
		return SpeedOfLight
	}
	gamma := (p.Energy + m) / m
	return SpeedOfLight * math.Sqrt(1-1/(gamma*gamma))
}

// Advance moves the particle the given distance (cm) along its direction of
// flight and updates its time.
func (p *State) Advance(dist float64) {
	p.Position = r3.Add(p.Position, r3.Scale(dist, p.Direction))
	if v := p.Speed(); v > 0 {
		p.Time += dist / v
	}
}

func (p *State) String() string {
	return fmt.Sprintf(
		"%s{history=%d gen=%d coll=%d E=%g w=%g t=%g cell=%d gone=%v}",
		p.Type, p.History, p.Generation, p.Collision,
		p.Energy, p.Weight, p.Time, p.Cell, p.gone,
	)
}

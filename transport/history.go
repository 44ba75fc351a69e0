package transport

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gocollide/estimator"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
)

// DefaultMaxCollisions is the default limit on the collisions of a single
// particle.
const DefaultMaxCollisions = 100000

// Problem is everything needed to run a history.
type Problem struct {
	Geometry *Slabs
	Source   *Source
	// Cutoffs holds the energy below which particles of each type are
	// terminated. Types without an entry are followed down to zero energy.
	Cutoffs map[particle.Type]float64
	// MaxCollisions is the limit on the collisions of a single particle. If
	// zero, DefaultMaxCollisions is used.
	MaxCollisions uint32
}

func (pr *Problem) Validate() error {
	if pr.Geometry == nil {
		return fmt.Errorf("transport: problem has no geometry")
	} else if pr.Source == nil {
		return fmt.Errorf("transport: problem has no source")
	}
	return pr.Source.Validate()
}

func (pr *Problem) maxCollisions() uint32 {
	if pr.MaxCollisions == 0 {
		return DefaultMaxCollisions
	}
	return pr.MaxCollisions
}

// RunHistory simulates history n: the source particle and every secondary
// it produces. rng is reseeded for the history, so the outcome only depends
// on n and the seed of rng. On success the history is committed to h. On
// failure it is discarded and the bank is cleared.
func (pr *Problem) RunHistory(
	n uint64, rng *rand.Context, bank *particle.Bank, h *estimator.Handler,
) error {
	rng.SeedForHistory(n)
	bank.Clear()

	err := pr.transport(pr.Source.Sample(n, rng), true, rng, bank, h)
	for err == nil && !bank.IsEmpty() {
		p, _ := bank.Pop()
		err = pr.transport(p, false, rng, bank, h)
	}

	if err != nil {
		h.DiscardHistory()
		bank.Clear()
		return err
	}
	h.CommitHistory()
	return nil
}

// transport follows p until it is absorbed, escapes or falls below the
// energy cutoff. Particles created by the source are reported as entering
// their starting cell; secondaries are not, since their energy was already
// accounted for by their parent.
func (pr *Problem) transport(
	p *particle.State, fromSource bool,
	rng rand.Stream, bank *particle.Bank, h *estimator.Handler,
) error {
	geom, d := pr.Geometry, h.Dispatcher()
	cutoff := pr.Cutoffs[p.Type]

	cell := geom.Locate(p.Position.Z)
	p.Cell = cell
	if cell == Outside {
		p.SetAsGone()
		return nil
	}
	if fromSource {
		d.DispatchEnteringCellEvent(p, cell)
	}

	for !p.IsGone() {
		if p.Energy <= cutoff {
			p.SetAsGone()
			break
		} else if p.Collision >= pr.maxCollisions() {
			return fmt.Errorf("transport: %s exceeded %d collisions", p, pr.maxCollisions())
		}

		mat := geom.Material(cell)
		sigma := 0.0
		if mat != nil {
			sigma = mat.TotalCrossSection(p.Type, p.Energy)
		}

		dist, surface, next := geom.Boundary(p, cell)
		flight, collide := dist, false
		if sigma > 0 {
			if s := -math.Log(1-rng.Float64()) / sigma; s < dist {
				flight, collide = s, true
			}
		}
		if math.IsInf(flight, +1) {
			// Moving parallel to the planes through a void.
			p.SetAsGone()
			break
		}

		d.DispatchTrackingInCellEvent(p, cell, flight)
		p.Advance(flight)

		if collide {
			d.DispatchCollidingInCellEvent(p, cell, 1/sigma)
			if err := mat.Collide(p, bank, rng); err != nil {
				return err
			}
			continue
		}

		d.DispatchCrossingSurfaceEvent(p, surface, p.Direction.Z)
		d.DispatchLeavingCellEvent(p, cell)
		cell = next
		p.Cell = cell
		if cell == Outside {
			p.SetAsGone()
			break
		}
		d.DispatchEnteringCellEvent(p, cell)
	}
	return nil
}

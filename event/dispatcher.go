package event

import (
	"fmt"

	"github.com/phil-mansfield/gocollide/particle"
)

// Dispatcher routes events on each entity to the observers attached to it.
// Observers are updated in the order they were attached.
//
// Dispatching is safe to do concurrently once every observer is attached,
// provided the observers themselves are. Attaching and detaching are not.
type Dispatcher struct {
	observers [numKinds]map[uint64][]Observer
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{}
	for k := range d.observers {
		d.observers[k] = map[uint64][]Observer{}
	}
	return d
}

// AttachObserver registers obs on every entity for every kind of event in its
// kind set. An observer which does not implement the typed interface for one
// of its kinds, or which is already attached to one of the entities, is
// rejected without being attached anywhere.
func (d *Dispatcher) AttachObserver(obs Observer, entities []uint64) error {
	kinds := obs.Kinds().Kinds()
	if len(kinds) == 0 {
		return fmt.Errorf("%w: observer %d has no event kinds", ErrObserver, obs.ID())
	}

	for _, k := range kinds {
		if !implements(obs, k) {
			return fmt.Errorf(
				"%w: observer %d requests %s events but cannot receive them",
				ErrObserver, obs.ID(), k,
			)
		}
		for _, e := range entities {
			for _, other := range d.observers[k][e] {
				if other.ID() == obs.ID() {
					return fmt.Errorf(
						"%w: observer %d already attached to entity %d",
						ErrObserver, obs.ID(), e,
					)
				}
			}
		}
	}

	for _, k := range kinds {
		for _, e := range entities {
			d.observers[k][e] = append(d.observers[k][e], obs)
		}
	}
	return nil
}

// DetachObserver removes the observer with the given id from every entity.
func (d *Dispatcher) DetachObserver(id uint64) {
	for k := range d.observers {
		for e, obs := range d.observers[k] {
			kept := obs[:0]
			for _, o := range obs {
				if o.ID() != id {
					kept = append(kept, o)
				}
			}
			if len(kept) == 0 {
				delete(d.observers[k], e)
			} else {
				d.observers[k][e] = kept
			}
		}
	}
}

// HasObservers returns true if any entity has an observer of kind k.
func (d *Dispatcher) HasObservers(k Kind) bool { return len(d.observers[k]) > 0 }

// Observers returns the observers of kind k attached to entity.
func (d *Dispatcher) Observers(k Kind, entity uint64) []Observer {
	return d.observers[k][entity]
}

// The Dispatch methods are no-ops for entities without observers.

func (d *Dispatcher) DispatchCollidingInCellEvent(
	p *particle.State, cell uint64, inverseTotalXS float64,
) {
	for _, o := range d.observers[CollidingInCell][cell] {
		o.(CollidingInCellObserver).UpdateFromCollidingInCell(p, cell, inverseTotalXS)
	}
}

func (d *Dispatcher) DispatchTrackingInCellEvent(
	p *particle.State, cell uint64, trackLength float64,
) {
	for _, o := range d.observers[TrackingInCell][cell] {
		o.(TrackingInCellObserver).UpdateFromTrackingInCell(p, cell, trackLength)
	}
}

func (d *Dispatcher) DispatchCrossingSurfaceEvent(
	p *particle.State, surface uint64, angleCosine float64,
) {
	for _, o := range d.observers[CrossingSurface][surface] {
		o.(CrossingSurfaceObserver).UpdateFromCrossingSurface(p, surface, angleCosine)
	}
}

func (d *Dispatcher) DispatchEnteringCellEvent(p *particle.State, cell uint64) {
	for _, o := range d.observers[EnteringCell][cell] {
		o.(EnteringCellObserver).UpdateFromEnteringCell(p, cell)
	}
}

func (d *Dispatcher) DispatchLeavingCellEvent(p *particle.State, cell uint64) {
	for _, o := range d.observers[LeavingCell][cell] {
		o.(LeavingCellObserver).UpdateFromLeavingCell(p, cell)
	}
}

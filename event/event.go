/*package event routes particle events reported by a geometry to the
observers (usually estimators) registered on the entity where the event
happened.

An observer declares the kinds of event it wants through a KindSet and must
implement the matching typed interface for each of them. Entities are cells
or surfaces, identified by their ids.
*/
package event

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phil-mansfield/gocollide/particle"
)

// ErrObserver is returned when an observer cannot be attached.
var ErrObserver = errors.New("event: invalid observer")

// Kind is a kind of particle event.
type Kind int

const (
	// CollidingInCell is reported at every collision site.
	CollidingInCell Kind = iota
	// TrackingInCell is reported for every straight track segment inside
	// a cell.
	TrackingInCell
	// CrossingSurface is reported whenever a particle crosses a surface.
	CrossingSurface
	// EnteringCell is reported when a particle enters a cell, including
	// when it is born there.
	EnteringCell
	// LeavingCell is reported when a particle leaves a cell.
	LeavingCell

	numKinds
)

var kindNames = [numKinds]string{
	"CollidingInCell", "TrackingInCell", "CrossingSurface",
	"EnteringCell", "LeavingCell",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// AllKinds returns every event kind.
func AllKinds() []Kind {
	ks := make([]Kind, numKinds)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// KindSet is a set of event kinds.
type KindSet uint8

func NewKindSet(ks ...Kind) KindSet {
	var s KindSet
	for _, k := range ks {
		s = s.Add(k)
	}
	return s
}

func (s KindSet) Add(k Kind) KindSet { return s | 1<<uint(k) }
func (s KindSet) Has(k Kind) bool    { return s&(1<<uint(k)) != 0 }

// Kinds returns the members of the set in ascending order.
func (s KindSet) Kinds() []Kind {
	ks := []Kind{}
	for k := Kind(0); k < numKinds; k++ {
		if s.Has(k) {
			ks = append(ks, k)
		}
	}
	return ks
}

func (s KindSet) String() string {
	names := []string{}
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

///////////////
// Observers //
///////////////

// Observer is anything that listens for events. For every kind in Kinds()
// it must also implement the corresponding typed interface below.
type Observer interface {
	ID() uint64
	Kinds() KindSet
}

// CollidingInCellObserver receives collisions. inverseTotalXS is the
// reciprocal of the macroscopic total cross section at the collision site.
type CollidingInCellObserver interface {
	Observer
	UpdateFromCollidingInCell(p *particle.State, cell uint64, inverseTotalXS float64)
}

// TrackingInCellObserver receives track segments. p is the state at the
// start of the segment.
type TrackingInCellObserver interface {
	Observer
	UpdateFromTrackingInCell(p *particle.State, cell uint64, trackLength float64)
}

// CrossingSurfaceObserver receives surface crossings. angleCosine is the
// cosine between the direction of flight and the surface normal.
type CrossingSurfaceObserver interface {
	Observer
	UpdateFromCrossingSurface(p *particle.State, surface uint64, angleCosine float64)
}

type EnteringCellObserver interface {
	Observer
	UpdateFromEnteringCell(p *particle.State, cell uint64)
}

type LeavingCellObserver interface {
	Observer
	UpdateFromLeavingCell(p *particle.State, cell uint64)
}

// implements returns true if obs implements the typed interface of k.
func implements(obs Observer, k Kind) bool {
	switch k {
	case CollidingInCell:
		_, ok := obs.(CollidingInCellObserver)
		return ok
	case TrackingInCell:
		_, ok := obs.(TrackingInCellObserver)
		return ok
	case CrossingSurface:
		_, ok := obs.(CrossingSurfaceObserver)
		return ok
	case EnteringCell:
		_, ok := obs.(EnteringCellObserver)
		return ok
	case LeavingCell:
		_, ok := obs.(LeavingCellObserver)
		return ok
	}
	return false
}

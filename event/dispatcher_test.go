package event

import (
	"errors"
	"testing"

	"github.com/phil-mansfield/gocollide/particle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type counter struct {
	id    uint64
	kinds KindSet

	collisions, tracks, crossings, entries, exits int
	length                                        float64
}

func (c *counter) ID() uint64     { return c.id }
func (c *counter) Kinds() KindSet { return c.kinds }

func (c *counter) UpdateFromCollidingInCell(p *particle.State, cell uint64, inv float64) {
	c.collisions++
}

func (c *counter) UpdateFromTrackingInCell(p *particle.State, cell uint64, l float64) {
	c.tracks++
	c.length += l
}

func (c *counter) UpdateFromCrossingSurface(p *particle.State, surf uint64, mu float64) {
	c.crossings++
}

func (c *counter) UpdateFromEnteringCell(p *particle.State, cell uint64) { c.entries++ }
func (c *counter) UpdateFromLeavingCell(p *particle.State, cell uint64)  { c.exits++ }

// collisionOnly can only receive collisions.
type collisionOnly struct{ kinds KindSet }

func (c *collisionOnly) ID() uint64     { return 9 }
func (c *collisionOnly) Kinds() KindSet { return c.kinds }
func (c *collisionOnly) UpdateFromCollidingInCell(p *particle.State, cell uint64, inv float64) {
}

type DispatcherSuite struct {
	suite.Suite
	d *Dispatcher
	p *particle.State
}

func (s *DispatcherSuite) SetupTest() {
	s.d = NewDispatcher()
	s.p = particle.New(particle.Neutron, 0)
}

func (s *DispatcherSuite) TestRoutesByEntityAndKind() {
	c := &counter{id: 1, kinds: NewKindSet(CollidingInCell, TrackingInCell)}
	s.Require().NoError(s.d.AttachObserver(c, []uint64{1, 2}))

	s.d.DispatchCollidingInCellEvent(s.p, 1, 0.5)
	s.d.DispatchCollidingInCellEvent(s.p, 3, 0.5)
	s.d.DispatchTrackingInCellEvent(s.p, 2, 1.5)
	s.d.DispatchTrackingInCellEvent(s.p, 2, 1.0)
	s.d.DispatchCrossingSurfaceEvent(s.p, 1, 1.0)
	s.d.DispatchEnteringCellEvent(s.p, 1)

	s.Equal(1, c.collisions)
	s.Equal(2, c.tracks)
	s.Equal(2.5, c.length)
	s.Equal(0, c.crossings)
	s.Equal(0, c.entries)
	s.True(s.d.HasObservers(TrackingInCell))
	s.False(s.d.HasObservers(LeavingCell))
}

func (s *DispatcherSuite) TestDetach() {
	a := &counter{id: 1, kinds: NewKindSet(EnteringCell, LeavingCell)}
	b := &counter{id: 2, kinds: NewKindSet(EnteringCell)}
	s.Require().NoError(s.d.AttachObserver(a, []uint64{4}))
	s.Require().NoError(s.d.AttachObserver(b, []uint64{4}))
	s.Len(s.d.Observers(EnteringCell, 4), 2)

	s.d.DetachObserver(1)
	s.d.DispatchEnteringCellEvent(s.p, 4)
	s.d.DispatchLeavingCellEvent(s.p, 4)
	s.Equal(0, a.entries)
	s.Equal(0, a.exits)
	s.Equal(1, b.entries)
	s.False(s.d.HasObservers(LeavingCell))

	// Detaching an unknown id does nothing.
	s.d.DetachObserver(100)
	s.Len(s.d.Observers(EnteringCell, 4), 1)
}

func (s *DispatcherSuite) TestRejectsBadObservers() {
	bad := &collisionOnly{NewKindSet(CollidingInCell, CrossingSurface)}
	err := s.d.AttachObserver(bad, []uint64{1})
	s.True(errors.Is(err, ErrObserver))
	s.False(s.d.HasObservers(CollidingInCell), "nothing attached on failure")

	err = s.d.AttachObserver(&collisionOnly{}, []uint64{1})
	s.True(errors.Is(err, ErrObserver))

	c := &counter{id: 1, kinds: NewKindSet(CrossingSurface)}
	s.Require().NoError(s.d.AttachObserver(c, []uint64{1}))
	err = s.d.AttachObserver(c, []uint64{2, 1})
	s.True(errors.Is(err, ErrObserver))
	s.Empty(s.d.Observers(CrossingSurface, 2))
}

func (s *DispatcherSuite) TestUnknownEntityIsNoOp() {
	s.NotPanics(func() {
		s.d.DispatchCollidingInCellEvent(s.p, 77, 1)
		s.d.DispatchTrackingInCellEvent(s.p, 77, 1)
		s.d.DispatchCrossingSurfaceEvent(s.p, 77, 1)
		s.d.DispatchEnteringCellEvent(s.p, 77)
		s.d.DispatchLeavingCellEvent(s.p, 77)
	})
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func TestKindSet(t *testing.T) {
	s := NewKindSet(LeavingCell, CollidingInCell)
	assert.True(t, s.Has(CollidingInCell))
	assert.False(t, s.Has(TrackingInCell))
	assert.Equal(t, []Kind{CollidingInCell, LeavingCell}, s.Kinds())
	assert.Equal(t, "{CollidingInCell, LeavingCell}", s.String())
	assert.Len(t, AllKinds(), 5)
	assert.Equal(t, "Kind(12)", Kind(12).String())
}

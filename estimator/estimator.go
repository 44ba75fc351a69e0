package estimator

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gocollide/event"
	"github.com/phil-mansfield/gocollide/particle"
)

// Estimator is an event observer which accumulates scores over histories.
type Estimator interface {
	event.Observer
	// Kind names the estimator type.
	Kind() string
	Multiplier() float64
	Entities() []uint64
	PhaseSpace() *PhaseSpace
	// ParticleTypes returns the scored particle types. An empty list means
	// every type is scored.
	ParticleTypes() []particle.Type
	// Moments returns the moments of an entity, or nil if the entity is not
	// observed.
	Moments(entity uint64) *Moments

	CommitHistory()
	DiscardHistory()
	Histories() uint64

	// Fork returns an estimator with the same configuration and no scores.
	Fork() Estimator
	// Merge adds the committed scores of a fork of the same estimator.
	Merge(e Estimator) error
	Result() Result
}

var (
	_ event.CollidingInCellObserver = &CellCollisionFlux{}
	_ event.TrackingInCellObserver  = &CellTrackLengthFlux{}
	_ event.CrossingSurfaceObserver = &SurfaceFlux{}
	_ event.CrossingSurfaceObserver = &SurfaceCurrent{}
	_ event.EnteringCellObserver    = &CellPulseHeight{}
	_ event.LeavingCellObserver     = &CellPulseHeight{}

	_ Estimator = &CellCollisionFlux{}
	_ Estimator = &CellTrackLengthFlux{}
	_ Estimator = &SurfaceFlux{}
	_ Estimator = &SurfaceCurrent{}
	_ Estimator = &CellPulseHeight{}
)

// Config is the configuration shared by every estimator.
type Config struct {
	ID uint64
	// Multiplier scales every score. Zero is treated as one.
	Multiplier float64
	Entities   []uint64
	// Norms holds the volume or area of each entity. Means are divided by
	// it. If nil, every norm is one.
	Norms []float64
	// Space is the phase space discretization. If nil, a single bin is
	// used.
	Space *PhaseSpace
	// Types restricts the scored particle types. If empty, every type is
	// scored.
	Types []particle.Type
}

// base is the part of an estimator shared by every implementation.
type base struct {
	cfg     Config
	index   map[uint64]int
	accept  map[particle.Type]bool
	moments []*Moments
	buf     Buffer
}

func newBase(cfg Config) (base, error) {
	if len(cfg.Entities) == 0 {
		return base{}, fmt.Errorf(
			"%w: estimator %d observes no entities", ErrDiscretization, cfg.ID,
		)
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 1
	}
	if cfg.Space == nil {
		cfg.Space, _ = NewPhaseSpace()
	}
	if cfg.Norms == nil {
		cfg.Norms = make([]float64, len(cfg.Entities))
		for i := range cfg.Norms {
			cfg.Norms[i] = 1
		}
	} else if len(cfg.Norms) != len(cfg.Entities) {
		return base{}, fmt.Errorf(
			"%w: estimator %d has %d entities but %d norms",
			ErrDiscretization, cfg.ID, len(cfg.Entities), len(cfg.Norms),
		)
	}

	b := base{cfg: cfg, index: map[uint64]int{}, accept: map[particle.Type]bool{}}
	for i, e := range cfg.Entities {
		if _, ok := b.index[e]; ok {
			return base{}, fmt.Errorf(
				"%w: estimator %d observes entity %d twice", ErrDiscretization, cfg.ID, e,
			)
		} else if !(cfg.Norms[i] > 0) {
			return base{}, fmt.Errorf(
				"%w: estimator %d has norm %g for entity %d",
				ErrDiscretization, cfg.ID, cfg.Norms[i], e,
			)
		}
		b.index[e] = i
	}
	for _, t := range cfg.Types {
		b.accept[t] = true
	}
	b.reset()
	return b, nil
}

func (b *base) reset() {
	b.moments = make([]*Moments, len(b.cfg.Entities))
	for i := range b.moments {
		b.moments[i] = NewMoments(b.cfg.Space.NumberOfBins())
	}
}

// fork returns a copy of b with the same configuration and no scores.
func (b *base) fork() base {
	f := base{cfg: b.cfg, index: b.index, accept: b.accept}
	f.reset()
	return f
}

func (b *base) merge(b2 *base) error {
	if b.cfg.ID != b2.cfg.ID || len(b.moments) != len(b2.moments) {
		return fmt.Errorf(
			"%w: cannot merge estimator %d into estimator %d",
			ErrDiscretization, b2.cfg.ID, b.cfg.ID,
		)
	}
	for i := range b.moments {
		if err := b.moments[i].Merge(b2.moments[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *base) ID() uint64              { return b.cfg.ID }
func (b *base) Multiplier() float64     { return b.cfg.Multiplier }
func (b *base) Entities() []uint64      { return b.cfg.Entities }
func (b *base) PhaseSpace() *PhaseSpace { return b.cfg.Space }

func (b *base) ParticleTypes() []particle.Type { return b.cfg.Types }

func (b *base) Moments(entity uint64) *Moments {
	i, ok := b.index[entity]
	if !ok {
		return nil
	}
	return b.moments[i]
}

func (b *base) accepts(t particle.Type) bool {
	return len(b.accept) == 0 || b.accept[t]
}

// score adds x to every bin of entity containing pt.
func (b *base) score(entity uint64, pt Point, x float64) {
	i, ok := b.index[entity]
	if !ok {
		return
	}
	m := b.moments[i]
	for _, wb := range b.cfg.Space.BinsOf(pt, &b.buf) {
		m.Add(wb.Index, x*b.cfg.Multiplier*wb.Weight)
	}
}

func (b *base) CommitHistory() {
	for _, m := range b.moments {
		m.Commit()
	}
}

func (b *base) DiscardHistory() {
	for _, m := range b.moments {
		m.Discard()
	}
}

func (b *base) Histories() uint64 { return b.moments[0].Histories() }

func (b *base) result(kind string) Result {
	space := b.cfg.Space
	r := Result{
		ID:            b.cfg.ID,
		Kind:          kind,
		Multiplier:    b.cfg.Multiplier,
		Entities:      b.cfg.Entities,
		Norms:         b.cfg.Norms,
		Dimensions:    space.Dimensions(),
		Labels:        make([]string, space.NumberOfBins()),
		ParticleTypes: b.cfg.Types,
		Histories:     b.Histories(),
		Mean:          make([][]float64, len(b.moments)),
		RelativeError: make([][]float64, len(b.moments)),
	}
	for i := range r.Labels {
		r.Labels[i] = space.Label(i)
	}
	if dims := space.Discretizations(); len(dims) > 0 {
		if o, ok := dims[0].(*Ordered); ok {
			r.Edges = o.Bounds()
		}
	}
	for j, m := range b.moments {
		r.Mean[j] = make([]float64, m.Bins())
		r.RelativeError[j] = make([]float64, m.Bins())
		for i := range r.Mean[j] {
			r.Mean[j][i] = m.Mean(i, b.cfg.Norms[j])
			r.RelativeError[j][i] = m.RelativeError(i)
		}
	}
	return r
}

func mergeError(into, from Estimator) error {
	return fmt.Errorf(
		"%w: cannot merge %s estimator into %s estimator",
		ErrDiscretization, from.Kind(), into.Kind(),
	)
}

///////////////////////
// CellCollisionFlux //
///////////////////////

// CellCollisionFlux estimates the flux in a cell as the weight divided by the
// total macroscopic cross section at each collision.
type CellCollisionFlux struct {
	base
}

func NewCellCollisionFlux(cfg Config) (*CellCollisionFlux, error) {
	b, err := newBase(cfg)
	if err != nil {
		return nil, err
	}
	return &CellCollisionFlux{b}, nil
}

func (e *CellCollisionFlux) Kind() string         { return "CellCollisionFlux" }
func (e *CellCollisionFlux) Kinds() event.KindSet { return event.NewKindSet(event.CollidingInCell) }
func (e *CellCollisionFlux) Result() Result       { return e.result(e.Kind()) }
func (e *CellCollisionFlux) Fork() Estimator      { return &CellCollisionFlux{e.fork()} }

func (e *CellCollisionFlux) Merge(e2 Estimator) error {
	f, ok := e2.(*CellCollisionFlux)
	if !ok {
		return mergeError(e, e2)
	}
	return e.merge(&f.base)
}

func (e *CellCollisionFlux) UpdateFromCollidingInCell(
	p *particle.State, cell uint64, inverseTotalXS float64,
) {
	if e.accepts(p.Type) {
		e.score(cell, PointOf(p), p.Weight*inverseTotalXS)
	}
}

/////////////////////////
// CellTrackLengthFlux //
/////////////////////////

// CellTrackLengthFlux estimates the flux in a cell as the weighted length of
// every track segment inside it. Along the time dimension each segment is
// apportioned between the time bins it crosses.
type CellTrackLengthFlux struct {
	base
}

func NewCellTrackLengthFlux(cfg Config) (*CellTrackLengthFlux, error) {
	b, err := newBase(cfg)
	if err != nil {
		return nil, err
	}
	return &CellTrackLengthFlux{b}, nil
}

func (e *CellTrackLengthFlux) Kind() string         { return "CellTrackLengthFlux" }
func (e *CellTrackLengthFlux) Kinds() event.KindSet { return event.NewKindSet(event.TrackingInCell) }
func (e *CellTrackLengthFlux) Result() Result       { return e.result(e.Kind()) }
func (e *CellTrackLengthFlux) Fork() Estimator      { return &CellTrackLengthFlux{e.fork()} }

func (e *CellTrackLengthFlux) Merge(e2 Estimator) error {
	f, ok := e2.(*CellTrackLengthFlux)
	if !ok {
		return mergeError(e, e2)
	}
	return e.merge(&f.base)
}

func (e *CellTrackLengthFlux) UpdateFromTrackingInCell(
	p *particle.State, cell uint64, trackLength float64,
) {
	if !e.accepts(p.Type) || trackLength <= 0 {
		return
	}
	pt := PointOf(p)
	if v := p.Speed(); v > 0 {
		pt.TimeEnd = p.Time + trackLength/v
	}
	e.score(cell, pt, p.Weight*trackLength)
}

/////////////////
// SurfaceFlux //
/////////////////

// DefaultCosineCutoff is the default SurfaceFlux cosine cutoff.
const DefaultCosineCutoff = 0.001

// SurfaceFlux estimates the flux through a surface as the weight divided by
// the absolute crossing cosine. Crossings with |mu| below the cosine cutoff
// use cutoff/2 instead, which keeps the variance finite for grazing
// crossings.
type SurfaceFlux struct {
	base
	cutoff float64
}

func NewSurfaceFlux(cfg Config, cutoff float64) (*SurfaceFlux, error) {
	if cutoff < 0 || cutoff >= 1 {
		return nil, fmt.Errorf(
			"%w: surface flux cosine cutoff %g not in [0, 1)", ErrDiscretization, cutoff,
		)
	}
	b, err := newBase(cfg)
	if err != nil {
		return nil, err
	}
	return &SurfaceFlux{b, cutoff}, nil
}

func (e *SurfaceFlux) CosineCutoff() float64 { return e.cutoff }

func (e *SurfaceFlux) Kind() string         { return "SurfaceFlux" }
func (e *SurfaceFlux) Kinds() event.KindSet { return event.NewKindSet(event.CrossingSurface) }
func (e *SurfaceFlux) Result() Result       { return e.result(e.Kind()) }
func (e *SurfaceFlux) Fork() Estimator      { return &SurfaceFlux{e.fork(), e.cutoff} }

func (e *SurfaceFlux) Merge(e2 Estimator) error {
	f, ok := e2.(*SurfaceFlux)
	if !ok {
		return mergeError(e, e2)
	}
	return e.merge(&f.base)
}

func (e *SurfaceFlux) UpdateFromCrossingSurface(
	p *particle.State, surface uint64, angleCosine float64,
) {
	if !e.accepts(p.Type) {
		return
	}
	mu := math.Abs(angleCosine)
	if mu < e.cutoff {
		mu = e.cutoff / 2
	}
	if mu == 0 {
		return
	}
	pt := PointOf(p)
	pt.Cosine = angleCosine
	e.score(surface, pt, p.Weight/mu)
}

////////////////////
// SurfaceCurrent //
////////////////////

// SurfaceCurrent counts the weight crossing a surface.
type SurfaceCurrent struct {
	base
}

func NewSurfaceCurrent(cfg Config) (*SurfaceCurrent, error) {
	b, err := newBase(cfg)
	if err != nil {
		return nil, err
	}
	return &SurfaceCurrent{b}, nil
}

func (e *SurfaceCurrent) Kind() string         { return "SurfaceCurrent" }
func (e *SurfaceCurrent) Kinds() event.KindSet { return event.NewKindSet(event.CrossingSurface) }
func (e *SurfaceCurrent) Result() Result       { return e.result(e.Kind()) }
func (e *SurfaceCurrent) Fork() Estimator      { return &SurfaceCurrent{e.fork()} }

func (e *SurfaceCurrent) Merge(e2 Estimator) error {
	f, ok := e2.(*SurfaceCurrent)
	if !ok {
		return mergeError(e, e2)
	}
	return e.merge(&f.base)
}

func (e *SurfaceCurrent) UpdateFromCrossingSurface(
	p *particle.State, surface uint64, angleCosine float64,
) {
	if !e.accepts(p.Type) {
		return
	}
	pt := PointOf(p)
	pt.Cosine = angleCosine
	e.score(surface, pt, p.Weight)
}

/////////////////////
// CellPulseHeight //
/////////////////////

// CellPulseHeight records the energy each history deposits in a cell: the
// weighted energy of particles entering it minus that of particles leaving
// it. At the end of the history a score of one is made in the energy bin of
// the deposit of every cell the history visited. Only the energy dimension
// of the phase space is meaningful.
type CellPulseHeight struct {
	base
	deposit []float64
	visited []bool
}

func NewCellPulseHeight(cfg Config) (*CellPulseHeight, error) {
	if cfg.Space != nil {
		for _, d := range cfg.Space.Dimensions() {
			if d != EnergyDimension {
				return nil, fmt.Errorf(
					"%w: pulse height estimator %d cannot bin by %s",
					ErrDiscretization, cfg.ID, d,
				)
			}
		}
	}
	b, err := newBase(cfg)
	if err != nil {
		return nil, err
	}
	return newPulseHeight(b), nil
}

func newPulseHeight(b base) *CellPulseHeight {
	n := len(b.cfg.Entities)
	return &CellPulseHeight{b, make([]float64, n), make([]bool, n)}
}

func (e *CellPulseHeight) Kind() string { return "CellPulseHeight" }
func (e *CellPulseHeight) Kinds() event.KindSet {
	return event.NewKindSet(event.EnteringCell, event.LeavingCell)
}
func (e *CellPulseHeight) Result() Result  { return e.result(e.Kind()) }
func (e *CellPulseHeight) Fork() Estimator { return newPulseHeight(e.fork()) }

func (e *CellPulseHeight) Merge(e2 Estimator) error {
	f, ok := e2.(*CellPulseHeight)
	if !ok {
		return mergeError(e, e2)
	}
	return e.merge(&f.base)
}

func (e *CellPulseHeight) add(p *particle.State, cell uint64, sign float64) {
	if !e.accepts(p.Type) {
		return
	}
	if i, ok := e.index[cell]; ok {
		e.deposit[i] += sign * p.Weight * p.Energy
		e.visited[i] = true
	}
}

func (e *CellPulseHeight) UpdateFromEnteringCell(p *particle.State, cell uint64) {
	e.add(p, cell, +1)
}

func (e *CellPulseHeight) UpdateFromLeavingCell(p *particle.State, cell uint64) {
	e.add(p, cell, -1)
}

// Deposit returns the energy deposited in cell so far in this history.
func (e *CellPulseHeight) Deposit(cell uint64) float64 {
	if i, ok := e.index[cell]; ok {
		return e.deposit[i]
	}
	return 0
}

func (e *CellPulseHeight) CommitHistory() {
	for i, cell := range e.cfg.Entities {
		if e.visited[i] {
			e.score(cell, Point{Energy: e.deposit[i]}, 1)
		}
	}
	e.clear()
	e.base.CommitHistory()
}

func (e *CellPulseHeight) DiscardHistory() {
	e.clear()
	e.base.DiscardHistory()
}

func (e *CellPulseHeight) clear() {
	for i := range e.deposit {
		e.deposit[i], e.visited[i] = 0, false
	}
}

/*package rand supplies the random number streams used by the collision
kernel.

Every sampling routine takes a Stream explicitly. Production code uses a
Context, which owns a PCG generator that can be reseeded per history so that
results are reproducible no matter how histories are spread across workers.
Tests use Sequence, which replays a fixed list of draws.
*/
package rand

import (
	"fmt"

	xrand "golang.org/x/exp/rand"
)

// Stream is a source of uniform random numbers in [0, 1).
type Stream interface {
	Float64() float64
}

// TrialCounter is implemented by streams which record how many rejection
// sampling trials were made with them.
type TrialCounter interface {
	AddTrials(trials, samples uint64)
}

// CountTrials records trials rejection trials which produced samples
// accepted samples, if the stream keeps such records.
func CountTrials(s Stream, trials, samples uint64) {
	if tc, ok := s.(TrialCounter); ok {
		tc.AddTrials(trials, samples)
	}
}

var (
	_ Stream       = &Context{}
	_ TrialCounter = &Context{}
	_ Stream       = &Sequence{}
	_ TrialCounter = &Sequence{}
)

/////////////
// Context //
/////////////

// Context is a reproducible random number stream owned by a single worker.
// It is not safe for concurrent use; each goroutine needs its own.
type Context struct {
	seed    uint64
	history uint64
	rng     *xrand.Rand

	trials, samples uint64
}

// NewContext creates a Context whose per-history streams are derived from
// seed.
func NewContext(seed uint64) *Context {
	c := &Context{seed: seed, rng: xrand.New(&xrand.PCGSource{})}
	c.SeedForHistory(0)
	return c
}

// splitmix64 scrambles x so that neighbouring history numbers give
// unrelated seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// SeedForHistory resets the stream to the state associated with history n.
func (c *Context) SeedForHistory(n uint64) {
	c.history = n
	c.rng.Seed(splitmix64(c.seed ^ splitmix64(n)))
}

// History returns the history number the stream was last seeded for.
func (c *Context) History() uint64 { return c.history }

// Seed returns the base seed of the context.
func (c *Context) Seed() uint64 { return c.seed }

func (c *Context) Float64() float64 { return c.rng.Float64() }

func (c *Context) AddTrials(trials, samples uint64) {
	c.trials += trials
	c.samples += samples
}

// Efficiency returns the fraction of rejection trials which were accepted,
// and 1 if no trials have been recorded.
func (c *Context) Efficiency() float64 {
	if c.trials == 0 {
		return 1
	}
	return float64(c.samples) / float64(c.trials)
}

// Trials returns the recorded number of rejection trials and accepted
// samples.
func (c *Context) Trials() (trials, samples uint64) { return c.trials, c.samples }

//////////////
// Sequence //
//////////////

// Sequence replays a fixed list of draws, cycling back to the start when
// the list is exhausted.
type Sequence struct {
	xs  []float64
	idx int

	Trials, Samples uint64
}

// NewSequence creates a Sequence. Every value must be in [0, 1).
func NewSequence(xs ...float64) *Sequence {
	if len(xs) == 0 {
		panic("rand: Sequence needs at least one value")
	}
	for i, x := range xs {
		if x < 0 || x >= 1 {
			panic(fmt.Sprintf("rand: Sequence value %d is %g, not in [0, 1)", i, x))
		}
	}
	return &Sequence{xs: xs}
}

func (s *Sequence) Float64() float64 {
	x := s.xs[s.idx]
	s.idx = (s.idx + 1) % len(s.xs)
	return x
}

func (s *Sequence) AddTrials(trials, samples uint64) {
	s.Trials += trials
	s.Samples += samples
}

// Used returns the number of draws taken since the last wrap-around.
func (s *Sequence) Used() int { return s.idx }

// Reset rewinds the sequence to its first value.
func (s *Sequence) Reset() { s.idx = 0 }

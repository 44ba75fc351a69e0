package estimator

import (
	"fmt"
)

// PhaseSpace is an ordered list of discretizations of distinct dimensions.
// Global bin indices are mixed-radix numbers whose first digit, the bin of
// the first dimension, varies fastest. An empty PhaseSpace has a single bin.
//
// PhaseSpace is immutable and may be shared between estimators and workers.
type PhaseSpace struct {
	dims    []Discretization
	strides []int
	bins    int
}

// NewPhaseSpace creates a phase space from discretizations in the given
// order.
func NewPhaseSpace(dims ...Discretization) (*PhaseSpace, error) {
	ps := &PhaseSpace{dims: dims, strides: make([]int, len(dims)), bins: 1}
	seen := map[Dimension]bool{}
	for i, d := range dims {
		if seen[d.Dimension()] {
			return nil, fmt.Errorf(
				"%w: %s discretized more than once", ErrDiscretization, d.Dimension(),
			)
		} else if d.NumberOfBins() < 1 {
			return nil, fmt.Errorf("%w: %s has no bins", ErrDiscretization, d.Dimension())
		}
		seen[d.Dimension()] = true
		ps.strides[i] = ps.bins
		ps.bins *= d.NumberOfBins()
	}
	return ps, nil
}

func (ps *PhaseSpace) Discretizations() []Discretization { return ps.dims }
func (ps *PhaseSpace) NumberOfBins() int                { return ps.bins }

// Dimensions returns the dimensions in binning order.
func (ps *PhaseSpace) Dimensions() []Dimension {
	out := make([]Dimension, len(ps.dims))
	for i, d := range ps.dims {
		out[i] = d.Dimension()
	}
	return out
}

// Has returns true if dim is discretized.
func (ps *PhaseSpace) Has(dim Dimension) bool {
	for _, d := range ps.dims {
		if d.Dimension() == dim {
			return true
		}
	}
	return false
}

// Index combines per-dimension bin indices into a global index.
func (ps *PhaseSpace) Index(local ...int) int {
	if len(local) != len(ps.dims) {
		panic(fmt.Sprintf(
			"estimator: %d local indices for %d dimensions", len(local), len(ps.dims),
		))
	}
	idx := 0
	for i, l := range local {
		idx += l * ps.strides[i]
	}
	return idx
}

// Unravel splits a global index into per-dimension bin indices. If an output
// array is given, the indices are written to it.
func (ps *PhaseSpace) Unravel(idx int, out ...[]int) []int {
	if len(out) == 0 {
		out = [][]int{make([]int, len(ps.dims))}
	}
	for i, d := range ps.dims {
		out[0][i] = idx % d.NumberOfBins()
		idx /= d.NumberOfBins()
	}
	return out[0]
}

// Label describes a global bin.
func (ps *PhaseSpace) Label(idx int) string {
	if len(ps.dims) == 0 {
		return "all"
	}
	local := ps.Unravel(idx)
	s := ""
	for i, d := range ps.dims {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%s", d.Dimension(), d.Label(local[i]))
	}
	return s
}

// Buffer holds the scratch space used while binning a point. Every goroutine
// needs its own.
type Buffer struct {
	cur, next, local []WeightedBin
}

// BinsOf returns the global bins containing pt and the fraction of a score
// each receives. The result is only valid until buf is used again. If pt is
// outside of any dimension, no bins are returned.
func (ps *PhaseSpace) BinsOf(pt Point, buf *Buffer) []WeightedBin {
	buf.cur = append(buf.cur[:0], WeightedBin{0, 1})
	for i, d := range ps.dims {
		buf.local = d.BinsOf(pt, buf.local[:0])
		if len(buf.local) == 0 {
			return buf.cur[:0]
		}

		buf.next = buf.next[:0]
		for _, c := range buf.cur {
			for _, l := range buf.local {
				buf.next = append(buf.next, WeightedBin{
					c.Index + l.Index*ps.strides[i], c.Weight * l.Weight,
				})
			}
		}
		buf.cur, buf.next = buf.next, buf.cur
	}
	return buf.cur
}

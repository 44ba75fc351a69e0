package interpolate

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrGrid is returned by constructors which are given a malformed grid.
	ErrGrid = errors.New("interpolate: invalid grid")
)

// Transform describes how grid values are hashed into buckets.
type Transform int

const (
	// Linear buckets grid values directly.
	Linear Transform = iota
	// Log buckets the logarithm of grid values. Log-spaced energy grids
	// are much better balanced this way.
	Log
)

func (tr Transform) String() string {
	switch tr {
	case Linear:
		return "Linear"
	case Log:
		return "Log"
	}
	return fmt.Sprintf("Transform(%d)", int(tr))
}

func (tr Transform) apply(x float64) float64 {
	if tr == Log {
		return math.Log(x)
	}
	return x
}

// Searcher finds the grid bin which brackets a value.
type Searcher interface {
	// LowerBinIndex returns i such that grid[i] <= x < grid[i+1]. If x is
	// the last grid point, the last bin, len(grid) - 2, is returned.
	//
	// LowerBinIndex panics if x is outside the grid. Callers should check
	// IsWithinBounds first.
	LowerBinIndex(x float64) int
	IsWithinBounds(x float64) bool
	Grid() []float64
}

var (
	_ Searcher = &HashSearcher{}
	_ Searcher = &BinarySearcher{}
	_ Searcher = &UniformSearcher{}
)

func checkGrid(xs []float64) error {
	if len(xs) < 2 {
		return fmt.Errorf("%w: grid has %d points, need at least 2", ErrGrid, len(xs))
	}
	for i := 0; i < len(xs)-1; i++ {
		if !(xs[i] < xs[i+1]) {
			return fmt.Errorf(
				"%w: grid not strictly ascending at index %d (%g >= %g)",
				ErrGrid, i, xs[i], xs[i+1],
			)
		}
	}
	return nil
}

// bsearch returns the largest index in [lo, hi] whose grid value is <= x.
func bsearch(xs []float64, x float64, lo, hi int) int {
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	if xs[hi] <= x {
		return hi
	}
	return lo
}

func outOfBounds(x float64, xs []float64) string {
	return fmt.Sprintf(
		"interpolate: point %g out of grid bounds [%g, %g]",
		x, xs[0], xs[len(xs)-1],
	)
}

////////////////////////
// HashSearcher       //
////////////////////////

// HashSearcher is a grid searcher which partitions the (transformed) grid
// range into uniform buckets and remembers which grid indices each bucket
// can map to. A lookup selects a bucket in O(1) and then binary searches the
// handful of grid points inside it.
//
// HashSearcher is immutable after construction and may be shared between
// goroutines.
type HashSearcher struct {
	xs     []float64
	tr     Transform
	h0, dh float64
	starts []int
}

// NewHashSearcher creates a hash-based searcher over the strictly ascending
// grid xs using the given number of buckets.
//
// xs must not be modified throughout the lifetime of the searcher.
func NewHashSearcher(xs []float64, buckets int, tr Transform) (*HashSearcher, error) {
	if err := checkGrid(xs); err != nil {
		return nil, err
	}
	if buckets < 1 {
		return nil, fmt.Errorf("%w: need at least one bucket, got %d", ErrGrid, buckets)
	}
	if tr == Log && xs[0] <= 0 {
		return nil, fmt.Errorf(
			"%w: Log transform requires positive grid values, got %g", ErrGrid, xs[0],
		)
	}

	hs := &HashSearcher{xs: xs, tr: tr}
	hs.h0 = tr.apply(xs[0])
	hs.dh = (tr.apply(xs[len(xs)-1]) - hs.h0) / float64(buckets)

	// starts[b] is the largest grid index whose hash is <= the lower edge
	// of bucket b. starts[buckets] closes the last bucket.
	hs.starts = make([]int, buckets+1)
	last := len(xs) - 2
	i := 0
	for b := 0; b < buckets; b++ {
		edge := hs.h0 + float64(b)*hs.dh
		for i < last && tr.apply(xs[i+1]) <= edge {
			i++
		}
		hs.starts[b] = i
	}
	hs.starts[buckets] = last

	return hs, nil
}

// Buckets returns the number of hash buckets.
func (hs *HashSearcher) Buckets() int { return len(hs.starts) - 1 }

func (hs *HashSearcher) Grid() []float64 { return hs.xs }

func (hs *HashSearcher) IsWithinBounds(x float64) bool {
	return x >= hs.xs[0] && x <= hs.xs[len(hs.xs)-1]
}

func (hs *HashSearcher) LowerBinIndex(x float64) int {
	if !hs.IsWithinBounds(x) {
		panic(outOfBounds(x, hs.xs))
	}

	nb := len(hs.starts) - 1
	b := int((hs.tr.apply(x) - hs.h0) / hs.dh)
	if b >= nb {
		b = nb - 1
	} else if b < 0 {
		b = 0
	}

	// Widen by one bucket on each side to absorb rounding in the hash.
	lo, hi := b-1, b+2
	if lo < 0 {
		lo = 0
	}
	if hi > nb {
		hi = nb
	}
	return bsearch(hs.xs, x, hs.starts[lo], hs.starts[hi])
}

////////////////////////
// BinarySearcher     //
////////////////////////

// BinarySearcher is a plain O(log n) searcher.
type BinarySearcher struct {
	xs []float64
}

func NewBinarySearcher(xs []float64) (*BinarySearcher, error) {
	if err := checkGrid(xs); err != nil {
		return nil, err
	}
	return &BinarySearcher{xs}, nil
}

func (bs *BinarySearcher) Grid() []float64 { return bs.xs }

func (bs *BinarySearcher) IsWithinBounds(x float64) bool {
	return x >= bs.xs[0] && x <= bs.xs[len(bs.xs)-1]
}

func (bs *BinarySearcher) LowerBinIndex(x float64) int {
	if !bs.IsWithinBounds(x) {
		panic(outOfBounds(x, bs.xs))
	}
	return bsearch(bs.xs, x, 0, len(bs.xs)-2)
}

////////////////////////
// UniformSearcher    //
////////////////////////

// UniformSearcher searches a uniformly spaced grid in O(1).
type UniformSearcher struct {
	xs     []float64
	x0, dx float64
}

// NewUniformSearcher creates a searcher for the n point grid starting at x0
// and separated by dx.
func NewUniformSearcher(x0, dx float64, n int) (*UniformSearcher, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: grid has %d points, need at least 2", ErrGrid, n)
	} else if dx <= 0 {
		return nil, fmt.Errorf("%w: uniform spacing must be positive, got %g", ErrGrid, dx)
	}

	us := &UniformSearcher{x0: x0, dx: dx, xs: make([]float64, n)}
	for i := range us.xs {
		us.xs[i] = x0 + float64(i)*dx
	}
	return us, nil
}

func (us *UniformSearcher) Grid() []float64 { return us.xs }

func (us *UniformSearcher) IsWithinBounds(x float64) bool {
	return x >= us.xs[0] && x <= us.xs[len(us.xs)-1]
}

func (us *UniformSearcher) LowerBinIndex(x float64) int {
	if !us.IsWithinBounds(x) {
		panic(outOfBounds(x, us.xs))
	}
	i := int((x - us.x0) / us.dx)
	if i > len(us.xs)-2 {
		i = len(us.xs) - 2
	}
	// The grid points are computed, so the guess can be off by one.
	if us.xs[i] > x && i > 0 {
		i--
	} else if i < len(us.xs)-2 && us.xs[i+1] <= x {
		i++
	}
	return i
}

package estimator

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// WeightedBin is a local bin index and the fraction of a score it receives.
type WeightedBin struct {
	Index  int
	Weight float64
}

// Discretization splits one phase space dimension into bins.
type Discretization interface {
	Dimension() Dimension
	NumberOfBins() int
	// BinsOf appends the bins containing pt to out and returns it. Points
	// outside of every bin append nothing. Point-like values get a single
	// bin with weight 1; ranges get every bin they overlap, weighted by the
	// fraction of the range inside it.
	BinsOf(pt Point, out []WeightedBin) []WeightedBin
	// Label describes bin i.
	Label(i int) string
}

var (
	_ Discretization = &Ordered{}
	_ Discretization = &Unordered{}
	_ Discretization = Octant{}
)

/////////////
// Ordered //
/////////////

// Ordered discretizes a continuous dimension with ascending bin boundaries.
// Bins are half-open, [b[i], b[i+1]), except the last one, which includes
// its upper boundary. If the discretization is extended, values below the
// first boundary go into the first bin and values above the last boundary go
// into the last bin.
//
// Along the time dimension, a point with TimeEnd > Time is treated as a range
// and is apportioned between the bins it overlaps.
type Ordered struct {
	dim    Dimension
	bounds []float64
	extend bool
}

// NewOrdered creates an ordered discretization.
func NewOrdered(dim Dimension, bounds []float64, extend bool) (*Ordered, error) {
	if dim == DirectionDimension || dim < 0 || dim >= numDimensions {
		return nil, fmt.Errorf(
			"%w: %s cannot be discretized by boundaries", ErrDiscretization, dim,
		)
	} else if len(bounds) < 2 {
		return nil, fmt.Errorf(
			"%w: %s needs at least 2 boundaries, got %d",
			ErrDiscretization, dim, len(bounds),
		)
	}
	for i := 0; i < len(bounds)-1; i++ {
		if !(bounds[i] < bounds[i+1]) {
			return nil, fmt.Errorf(
				"%w: %s boundaries not ascending at index %d (%g >= %g)",
				ErrDiscretization, dim, i, bounds[i], bounds[i+1],
			)
		}
	}
	return &Ordered{dim, bounds, extend}, nil
}

func (o *Ordered) Dimension() Dimension { return o.dim }
func (o *Ordered) NumberOfBins() int    { return len(o.bounds) - 1 }
func (o *Ordered) Bounds() []float64    { return o.bounds }
func (o *Ordered) IsExtended() bool     { return o.extend }

func (o *Ordered) Label(i int) string {
	end := ")"
	if i == o.NumberOfBins()-1 {
		end = "]"
	}
	return fmt.Sprintf("[%g, %g%s", o.bounds[i], o.bounds[i+1], end)
}

// Bin returns the bin containing x and true, or false if there is none.
func (o *Ordered) Bin(x float64) (int, bool) {
	n := o.NumberOfBins()
	switch {
	case math.IsNaN(x):
		return 0, false
	case x < o.bounds[0]:
		return 0, o.extend
	case x > o.bounds[n]:
		return n - 1, o.extend
	case x == o.bounds[n]:
		return n - 1, true
	}
	return sort.Search(n+1, func(i int) bool { return o.bounds[i] > x }) - 1, true
}

func (o *Ordered) BinsOf(pt Point, out []WeightedBin) []WeightedBin {
	if o.dim == TimeDimension && pt.TimeEnd > pt.Time {
		return o.rangeBins(pt.Time, pt.TimeEnd, out)
	}
	if i, ok := o.Bin(pt.value(o.dim)); ok {
		out = append(out, WeightedBin{i, 1})
	}
	return out
}

// rangeBins apportions the range [lo, hi] between the bins it overlaps.
func (o *Ordered) rangeBins(lo, hi float64, out []WeightedBin) []WeightedBin {
	n := o.NumberOfBins()
	width := hi - lo
	for i := 0; i < n; i++ {
		start, end := o.bounds[i], o.bounds[i+1]
		if o.extend && i == 0 {
			start = math.Inf(-1)
		}
		if o.extend && i == n-1 {
			end = math.Inf(+1)
		}
		overlap := math.Min(hi, end) - math.Max(lo, start)
		if overlap > 0 {
			out = append(out, WeightedBin{i, overlap / width})
		}
	}
	return out
}

///////////////
// Unordered //
///////////////

// Unordered discretizes an integer dimension into bins which are explicit
// sets of values. Values in no set are not binned.
type Unordered struct {
	dim  Dimension
	sets [][]int
}

// NewUnordered creates an unordered discretization. No value may appear in
// more than one set.
func NewUnordered(dim Dimension, sets [][]int) (*Unordered, error) {
	if dim != CollisionNumberDimension {
		return nil, fmt.Errorf(
			"%w: %s is not a discrete dimension", ErrDiscretization, dim,
		)
	} else if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %s has no bins", ErrDiscretization, dim)
	}

	seen := map[int]bool{}
	for i, set := range sets {
		if len(set) == 0 {
			return nil, fmt.Errorf("%w: %s bin %d is empty", ErrDiscretization, dim, i)
		}
		for _, v := range set {
			if seen[v] {
				return nil, fmt.Errorf(
					"%w: %s value %d is in more than one bin", ErrDiscretization, dim, v,
				)
			}
			seen[v] = true
		}
	}
	return &Unordered{dim, sets}, nil
}

// NewCollisionNumber creates a collision number discretization with one bin
// per value in [0, n) and a final bin for every value in [n, limit].
func NewCollisionNumber(n, limit int) (*Unordered, error) {
	if n < 1 || limit < n {
		return nil, fmt.Errorf(
			"%w: collision number bins with n = %d and limit %d",
			ErrDiscretization, n, limit,
		)
	}
	sets := make([][]int, n+1)
	for i := 0; i < n; i++ {
		sets[i] = []int{i}
	}
	for v := n; v <= limit; v++ {
		sets[n] = append(sets[n], v)
	}
	return NewUnordered(CollisionNumberDimension, sets)
}

func (u *Unordered) Dimension() Dimension { return u.dim }
func (u *Unordered) NumberOfBins() int    { return len(u.sets) }
func (u *Unordered) Sets() [][]int        { return u.sets }

func (u *Unordered) Label(i int) string {
	vals := make([]string, len(u.sets[i]))
	for j, v := range u.sets[i] {
		vals[j] = fmt.Sprint(v)
	}
	return "{" + strings.Join(vals, ",") + "}"
}

func (u *Unordered) BinsOf(pt Point, out []WeightedBin) []WeightedBin {
	v := int(pt.value(u.dim))
	for i, set := range u.sets {
		for _, x := range set {
			if x == v {
				return append(out, WeightedBin{i, 1})
			}
		}
	}
	return out
}

////////////
// Octant //
////////////

// Octant discretizes the direction of flight by the signs of its
// components. Bin i has a negative x-component if bit 0 of i is set, a
// negative y-component if bit 1 is set and a negative z-component if bit 2
// is set.
type Octant struct{}

func (Octant) Dimension() Dimension { return DirectionDimension }
func (Octant) NumberOfBins() int    { return 8 }

func (Octant) Label(i int) string {
	s := []byte("+x+y+z")
	for b := 0; b < 3; b++ {
		if i&(1<<uint(b)) != 0 {
			s[2*b] = '-'
		}
	}
	return string(s)
}

func (Octant) BinsOf(pt Point, out []WeightedBin) []WeightedBin {
	i := 0
	if pt.Direction.X < 0 {
		i |= 1
	}
	if pt.Direction.Y < 0 {
		i |= 2
	}
	if pt.Direction.Z < 0 {
		i |= 4
	}
	return append(out, WeightedBin{i, 1})
}

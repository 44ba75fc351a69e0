package interpolate

import (
	"fmt"
	"math"
)

// Policy is the interpolation scheme used between two grid points. The first
// half of the name refers to the grid axis, the second to the value axis.
type Policy int

const (
	LinLin Policy = iota
	LogLog
	LinLog
	LogLin
)

func (p Policy) String() string {
	switch p {
	case LinLin:
		return "LinLin"
	case LogLog:
		return "LogLog"
	case LinLog:
		return "LinLog"
	case LogLin:
		return "LogLin"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	for _, p := range []Policy{LinLin, LogLog, LinLog, LogLin} {
		if p.String() == name {
			return p, nil
		}
	}
	return LinLin, fmt.Errorf("interpolate: unrecognized policy '%s'", name)
}

// Interpolate evaluates the policy between (x0, y0) and (x1, y1) at x. Log
// policies fall back to LinLin when an endpoint they take the log of is not
// positive.
func (p Policy) Interpolate(x0, x1, y0, y1, x float64) float64 {
	switch p {
	case LogLog:
		if x0 > 0 && y0 > 0 && y1 > 0 {
			return y0 * math.Exp(math.Log(y1/y0)*math.Log(x/x0)/math.Log(x1/x0))
		}
	case LinLog:
		if y0 > 0 && y1 > 0 {
			return y0 * math.Exp(math.Log(y1/y0)*(x-x0)/(x1-x0))
		}
	case LogLin:
		if x0 > 0 {
			return y0 + (y1-y0)*math.Log(x/x0)/math.Log(x1/x0)
		}
	}
	return y0 + (y1-y0)*(x-x0)/(x1-x0)
}

// Tabulated is a tabulated function: a grid shared through a Searcher and
// a value array which starts at a threshold index of that grid. Several
// Tabulated functions (e.g. all the reactions of one nuclide) typically share
// a single Searcher.
//
// Tabulated is immutable and safe to share between goroutines.
type Tabulated struct {
	search    Searcher
	vals      []float64
	threshold int
	policy    Policy
}

// NewTabulated creates a tabulated function over the grid of s whose values
// start at grid index threshold, so len(vals) must equal
// len(grid) - threshold.
//
// vals must not be modified throughout the lifetime of the function.
func NewTabulated(
	s Searcher, vals []float64, threshold int, policy Policy,
) (*Tabulated, error) {
	xs := s.Grid()
	if threshold < 0 || threshold > len(xs)-2 {
		return nil, fmt.Errorf(
			"%w: threshold index %d outside of grid with %d points",
			ErrGrid, threshold, len(xs),
		)
	} else if len(vals) != len(xs)-threshold {
		return nil, fmt.Errorf(
			"%w: len(vals) = %d, but len(grid) = %d and threshold = %d",
			ErrGrid, len(vals), len(xs), threshold,
		)
	}
	return &Tabulated{s, vals, threshold, policy}, nil
}

// NewLinear creates a tabulated function with no threshold over the grid xs,
// using a hash searcher with one bucket per grid point.
func NewLinear(xs, vals []float64, policy Policy) (*Tabulated, error) {
	s, err := NewHashSearcher(xs, len(xs), Linear)
	if err != nil {
		return nil, err
	}
	return NewTabulated(s, vals, 0, policy)
}

// NewUniformLinear creates a tabulated function over a uniformly spaced grid
// starting at x0 and separated by dx. Lookups are O(1).
func NewUniformLinear(x0, dx float64, vals []float64) (*Tabulated, error) {
	s, err := NewUniformSearcher(x0, dx, len(vals))
	if err != nil {
		return nil, err
	}
	return NewTabulated(s, vals, 0, LinLin)
}

func (t *Tabulated) Searcher() Searcher { return t.search }
func (t *Tabulated) Grid() []float64    { return t.search.Grid() }
func (t *Tabulated) Values() []float64  { return t.vals }
func (t *Tabulated) Policy() Policy     { return t.policy }

// ThresholdIndex returns the grid index of the first tabulated value.
func (t *Tabulated) ThresholdIndex() int { return t.threshold }

// ThresholdValue returns the grid value below which Eval returns zero.
func (t *Tabulated) ThresholdValue() float64 { return t.search.Grid()[t.threshold] }

// Eval returns the interpolated value at x. The function is zero below the
// threshold and above the last grid point, and exactly the last tabulated
// value at the last grid point.
func (t *Tabulated) Eval(x float64) float64 {
	xs := t.search.Grid()
	n := len(xs)
	if !(x >= xs[t.threshold] && x <= xs[n-1]) {
		return 0
	} else if x == xs[n-1] {
		return t.vals[len(t.vals)-1]
	}

	i := t.search.LowerBinIndex(x)
	j := i - t.threshold
	return t.policy.Interpolate(xs[i], xs[i+1], t.vals[j], t.vals[j+1], x)
}

// EvalAll evaluates the function at all the given x values. If an output
// array is given, the output is written to that array (the array is still
// returned as a convenience).
//
// If more than one output array is provided, only the first is used.
func (t *Tabulated) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		out[0][i] = t.Eval(x)
	}
	return out[0]
}

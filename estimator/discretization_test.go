package estimator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func ordered(t *testing.T, dim Dimension, bounds []float64, extend bool) *Ordered {
	o, err := NewOrdered(dim, bounds, extend)
	require.NoError(t, err)
	return o
}

func TestOrderedHalfOpen(t *testing.T) {
	o := ordered(t, EnergyDimension, []float64{0.0, 0.1, 1.0}, false)
	table := []struct {
		x   float64
		bin int
		ok  bool
	}{
		{0.05, 0, true},
		{0.5, 1, true},
		{0.1, 1, true},
		{0.0, 0, true},
		{1.0, 1, true},
		{1.5, 0, false},
		{-0.1, 0, false},
		{math.NaN(), 0, false},
	}
	for _, tt := range table {
		bin, ok := o.Bin(tt.x)
		assert.Equal(t, tt.ok, ok, "x = %g", tt.x)
		if tt.ok {
			assert.Equal(t, tt.bin, bin, "x = %g", tt.x)
		}
	}

	assert.Empty(t, o.BinsOf(Point{Energy: 2}, nil))
	assert.Equal(t, []WeightedBin{{1, 1}}, o.BinsOf(Point{Energy: 0.5}, nil))
	assert.Equal(t, "[0, 0.1)", o.Label(0))
	assert.Equal(t, "[0.1, 1]", o.Label(1))
}

func TestOrderedExtended(t *testing.T) {
	o := ordered(t, EnergyDimension, []float64{0.0, 0.1, 1.0}, true)
	bin, ok := o.Bin(-3)
	assert.True(t, ok)
	assert.Equal(t, 0, bin)
	bin, ok = o.Bin(30)
	assert.True(t, ok)
	assert.Equal(t, 1, bin)
}

func TestOrderedTimeRange(t *testing.T) {
	o := ordered(t, TimeDimension, []float64{0, 1, 2}, false)

	bins := o.BinsOf(Point{Time: 0.5, TimeEnd: 1.5}, nil)
	require.Len(t, bins, 2)
	assert.InDelta(t, 0.5, bins[0].Weight, 1e-12)
	assert.InDelta(t, 0.5, bins[1].Weight, 1e-12)

	bins = o.BinsOf(Point{Time: -1, TimeEnd: 0.5}, nil)
	require.Len(t, bins, 1)
	assert.InDelta(t, 1.0/3, bins[0].Weight, 1e-12)

	assert.Empty(t, o.BinsOf(Point{Time: 3, TimeEnd: 4}, nil))

	ext := ordered(t, TimeDimension, []float64{0, 1, 2}, true)
	bins = ext.BinsOf(Point{Time: -1, TimeEnd: 0.5}, nil)
	require.Len(t, bins, 1)
	assert.InDelta(t, 1.0, bins[0].Weight, 1e-12)

	// Zero-length ranges are points.
	bins = o.BinsOf(Point{Time: 1, TimeEnd: 1}, nil)
	assert.Equal(t, []WeightedBin{{1, 1}}, bins)
}

func TestOrderedErrors(t *testing.T) {
	_, err := NewOrdered(EnergyDimension, []float64{1}, false)
	assert.True(t, errors.Is(err, ErrDiscretization))
	_, err = NewOrdered(EnergyDimension, []float64{1, 1}, false)
	assert.True(t, errors.Is(err, ErrDiscretization))
	_, err = NewOrdered(DirectionDimension, []float64{0, 1}, false)
	assert.True(t, errors.Is(err, ErrDiscretization))
}

func TestCollisionNumber(t *testing.T) {
	u, err := NewCollisionNumber(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, u.NumberOfBins())
	assert.Equal(t, []WeightedBin{{0, 1}}, u.BinsOf(Point{CollisionNumber: 0}, nil))
	assert.Equal(t, []WeightedBin{{2, 1}}, u.BinsOf(Point{CollisionNumber: 5}, nil))
	assert.Empty(t, u.BinsOf(Point{CollisionNumber: 11}, nil))
	assert.Equal(t, "{1}", u.Label(1))

	_, err = NewUnordered(CollisionNumberDimension, [][]int{{1, 2}, {2}})
	assert.True(t, errors.Is(err, ErrDiscretization))
	_, err = NewUnordered(EnergyDimension, [][]int{{1}})
	assert.True(t, errors.Is(err, ErrDiscretization))
}

func TestOctant(t *testing.T) {
	o := Octant{}
	assert.Equal(t, []WeightedBin{{0, 1}}, o.BinsOf(Point{Direction: r3.Vec{X: 1, Y: 1, Z: 1}}, nil))
	assert.Equal(t, []WeightedBin{{5, 1}}, o.BinsOf(Point{Direction: r3.Vec{X: -1, Y: 1, Z: -1}}, nil))
	assert.Equal(t, "-x+y-z", o.Label(5))
}

func TestPhaseSpaceMixedRadix(t *testing.T) {
	energy := ordered(t, EnergyDimension, []float64{0, 1, 2}, false)
	ps, err := NewPhaseSpace(energy, Octant{})
	require.NoError(t, err)
	assert.Equal(t, 16, ps.NumberOfBins())
	assert.Equal(t, []Dimension{EnergyDimension, DirectionDimension}, ps.Dimensions())

	buf := &Buffer{}
	bins := ps.BinsOf(Point{Energy: 1.5, Direction: r3.Vec{X: -1}}, buf)
	assert.Equal(t, []WeightedBin{{3, 1}}, bins)
	assert.Equal(t, []int{1, 1}, ps.Unravel(3))
	assert.Equal(t, 3, ps.Index(1, 1))
	assert.Equal(t, "Energy=[1, 2] Direction=-x+y+z", ps.Label(3))

	assert.Empty(t, ps.BinsOf(Point{Energy: 5}, buf))

	time := ordered(t, TimeDimension, []float64{0, 1, 2}, false)
	ps, err = NewPhaseSpace(time, energy)
	require.NoError(t, err)
	bins = ps.BinsOf(Point{Energy: 0.5, Time: 0.5, TimeEnd: 1.5}, buf)
	require.Len(t, bins, 2)
	assert.Equal(t, 0, bins[0].Index)
	assert.Equal(t, 1, bins[1].Index)

	_, err = NewPhaseSpace(energy, energy)
	assert.True(t, errors.Is(err, ErrDiscretization))

	empty, err := NewPhaseSpace()
	require.NoError(t, err)
	assert.Equal(t, 1, empty.NumberOfBins())
	assert.Equal(t, []WeightedBin{{0, 1}}, empty.BinsOf(Point{}, buf))
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("collisionnumber")
	require.NoError(t, err)
	assert.Equal(t, CollisionNumberDimension, d)
	_, err = ParseDimension("Spin")
	assert.True(t, errors.Is(err, ErrDiscretization))
}

package interpolate

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	llo, lhi := math.Log(lo), math.Log(hi)
	for i := range xs {
		xs[i] = math.Exp(llo + (lhi-llo)*float64(i)/float64(n-1))
	}
	xs[0], xs[n-1] = lo, hi
	return xs
}

func checkBracket(t *testing.T, s Searcher, x float64) {
	xs := s.Grid()
	i := s.LowerBinIndex(x)
	if x == xs[len(xs)-1] {
		assert.Equal(t, len(xs)-2, i, "last grid point %g", x)
		return
	}
	if !assert.True(t, i >= 0 && i < len(xs)-1, "index %d for %g", i, x) {
		return
	}
	assert.True(t, xs[i] <= x && x < xs[i+1],
		"%g not in [%g, %g) (index %d)", x, xs[i], xs[i+1], i)
}

func TestSearchersBracket(t *testing.T) {
	grids := map[string][]float64{
		"small":  {1.0, 2.0},
		"uneven": {0.0, 1e-3, 1e-2, 0.5, 0.51, 0.52, 3.0, 100.0},
		"log":    logspace(1e-11, 20.0, 500),
	}

	for name, xs := range grids {
		searchers := []Searcher{}
		for _, buckets := range []int{1, 3, 100} {
			hs, err := NewHashSearcher(xs, buckets, Linear)
			require.NoError(t, err, name)
			searchers = append(searchers, hs)
			if xs[0] > 0 {
				hs, err = NewHashSearcher(xs, buckets, Log)
				require.NoError(t, err, name)
				searchers = append(searchers, hs)
			}
		}
		bs, err := NewBinarySearcher(xs)
		require.NoError(t, err)
		searchers = append(searchers, bs)

		gen := rand.New(rand.NewSource(7))
		for _, s := range searchers {
			for _, x := range xs {
				checkBracket(t, s, x)
			}
			for k := 0; k < 500; k++ {
				lo, hi := xs[0], xs[len(xs)-1]
				checkBracket(t, s, lo+(hi-lo)*gen.Float64())
			}
		}
	}
}

func TestUniformSearcher(t *testing.T) {
	us, err := NewUniformSearcher(0, 0.1, 11)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		checkBracket(t, us, float64(i)/1000)
	}
	checkBracket(t, us, 1.0)
	assert.Equal(t, 9, us.LowerBinIndex(1.0), "last point")
}

func TestSearcherBounds(t *testing.T) {
	hs, err := NewHashSearcher([]float64{1, 2, 4, 8}, 2, Log)
	require.NoError(t, err)

	assert.True(t, hs.IsWithinBounds(1))
	assert.True(t, hs.IsWithinBounds(8))
	assert.False(t, hs.IsWithinBounds(0.999))
	assert.False(t, hs.IsWithinBounds(8.001))
	assert.Equal(t, 2, hs.LowerBinIndex(8))
	assert.Panics(t, func() { hs.LowerBinIndex(9) })
	assert.Panics(t, func() { hs.LowerBinIndex(0.5) })
}

func TestSearcherConfigErrors(t *testing.T) {
	table := []struct {
		name    string
		xs      []float64
		buckets int
		tr      Transform
	}{
		{"too short", []float64{1}, 4, Linear},
		{"not ascending", []float64{1, 3, 2}, 4, Linear},
		{"repeated", []float64{1, 2, 2, 3}, 4, Linear},
		{"no buckets", []float64{1, 2}, 0, Linear},
		{"log of zero", []float64{0, 1, 2}, 4, Log},
	}

	for _, tt := range table {
		_, err := NewHashSearcher(tt.xs, tt.buckets, tt.tr)
		assert.True(t, errors.Is(err, ErrGrid), tt.name)
	}

	_, err := NewUniformSearcher(0, -1, 4)
	assert.True(t, errors.Is(err, ErrGrid))
}

func BenchmarkHashSearcher(b *testing.B) {
	xs := logspace(1e-11, 20.0, 100000)
	hs, _ := NewHashSearcher(xs, 1000, Log)
	gen := rand.New(rand.NewSource(1))
	pts := make([]float64, 1024)
	for i := range pts {
		pts[i] = math.Exp(math.Log(1e-11) + gen.Float64()*math.Log(20.0/1e-11))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hs.LowerBinIndex(pts[i%len(pts)])
	}
}

func BenchmarkBinarySearcher(b *testing.B) {
	xs := logspace(1e-11, 20.0, 100000)
	bs, _ := NewBinarySearcher(xs)
	gen := rand.New(rand.NewSource(1))
	pts := make([]float64, 1024)
	for i := range pts {
		pts[i] = math.Exp(math.Log(1e-11) + gen.Float64()*math.Log(20.0/1e-11))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bs.LowerBinIndex(pts[i%len(pts)])
	}
}

package scatter

import (
	"errors"
	"math"
	"testing"

	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/rand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const eps = 1e-12

func constant(t *testing.T, v float64) *interpolate.Tabulated {
	tab, err := interpolate.NewLinear([]float64{1e-11, 100}, []float64{v, v}, interpolate.LinLin)
	require.NoError(t, err)
	return tab
}

func histogram(t *testing.T, bounds, values []float64) *Histogram {
	h, err := NewHistogram(bounds, values)
	require.NoError(t, err)
	return h
}

func referenceTable(t *testing.T, policy BoundaryPolicy) *HistogramTable {
	lo := histogram(t, []float64{1, 2, 3, 4, 5}, []float64{0.2, 0.2, 0.2, 0.2})
	hi := histogram(t, []float64{2, 3, 4, 5, 6}, []float64{0.1, 0.1, 0.1, 0.1})
	ht, err := NewHistogramTable([]float64{1, 2}, []*Histogram{lo, hi}, policy)
	require.NoError(t, err)
	return ht
}

func TestHistogram(t *testing.T) {
	h := histogram(t, []float64{1, 2, 3, 4, 5}, []float64{0.2, 0.2, 0.2, 0.2})
	assert.InDelta(t, 3.0, h.Sample(0.5), eps)
	assert.InDelta(t, 1.0, h.Sample(0), eps)
	assert.InDelta(t, 0.25, h.CDF(2), eps)
	assert.InDelta(t, 0.25, h.PDF(4.5), eps)
	assert.Equal(t, 0.0, h.CDF(0))
	assert.Equal(t, 1.0, h.CDF(7))

	// Empty bins are skipped.
	gap := histogram(t, []float64{0, 1, 2, 3}, []float64{1, 0, 1})
	assert.InDelta(t, 2.0, gap.Sample(0.5), eps)
	assert.InDelta(t, 0.5, gap.Sample(0.25), eps)

	_, err := NewHistogram([]float64{0, 1}, []float64{1, 1})
	assert.True(t, errors.Is(err, ErrTable))
	_, err = NewHistogram([]float64{0, 1, 2}, []float64{0, 0})
	assert.True(t, errors.Is(err, ErrCannotSample))
	_, err = NewHistogram([]float64{0, 1, 1}, []float64{1, 1})
	assert.True(t, errors.Is(err, ErrTable))
}

func TestHistogramTableReference(t *testing.T) {
	ht := referenceTable(t, Strict)

	e, err := ht.SampleEnergy(1.5, rand.NewSequence(0.25, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, 3.5, e, eps)

	e, err = ht.SampleEnergy(1.0, rand.NewSequence(0.25, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, e, eps)

	e, err = ht.SampleEnergy(1.5, rand.NewSequence(0.75, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, 3.5, e, eps)

	seq := rand.NewSequence(0.25, 0.5)
	_, err = ht.SampleEnergy(1.5, seq)
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Used(), "exactly two draws")
}

func skewedTables(t *testing.T) []*Histogram {
	return []*Histogram{
		histogram(t, []float64{1, 5}, []float64{0.25}),
		histogram(t, []float64{2, 3, 6}, []float64{0.5, 1.0 / 6}),
	}
}

func TestHistogramTableCorrelated(t *testing.T) {
	ht, err := NewHistogramTable([]float64{1, 2}, skewedTables(t), Strict)
	require.NoError(t, err)
	assert.Equal(t, Correlated, ht.Interpolation())

	// The 25th percentile is 2.0 in the lower table and 2.5 in the upper.
	for _, xi1 := range []float64{0.25, 0.75} {
		e, err := ht.SampleEnergy(1.5, rand.NewSequence(xi1, 0.25))
		require.NoError(t, err)
		assert.InDelta(t, 2.25, e, eps)
	}

	e, err := ht.SampleEnergy(1.25, rand.NewSequence(0.9, 0.75))
	require.NoError(t, err)
	assert.InDelta(t, 0.75*4+0.25*4.5, e, eps)
}

func TestHistogramTableUnitBase(t *testing.T) {
	ht, err := NewInterpolatedHistogramTable(
		[]float64{1, 2}, skewedTables(t), Extend, UnitBase,
	)
	require.NoError(t, err)
	assert.Equal(t, UnitBase, ht.Interpolation())
	assert.Equal(t, "UnitBase", ht.Interpolation().String())

	e, err := ht.SampleEnergy(1.5, rand.NewSequence(0.25, 0.25))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, e, eps)
	e, err = ht.SampleEnergy(1.5, rand.NewSequence(0.75, 0.25))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, e, eps)

	e, err = ht.SampleEnergy(0.5, rand.NewSequence(0.75, 0.25))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, e, eps)
	e, err = ht.SampleEnergy(3, rand.NewSequence(0.25, 0.25))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, e, eps)

	_, err = NewInterpolatedHistogramTable(
		[]float64{1, 2}, skewedTables(t), Strict, TableInterpolation(7),
	)
	assert.True(t, errors.Is(err, ErrTable))
}

func TestHistogramTableDeterministic(t *testing.T) {
	ht := referenceTable(t, Strict)
	draws := []float64{0.1, 0.9, 0.35, 0.62, 0.8, 0.05}

	a, b := rand.NewSequence(draws...), rand.NewSequence(draws...)
	for i := 0; i < 20; i++ {
		e := 1 + float64(i)/20
		ea, err := ht.SampleEnergy(e, a)
		require.NoError(t, err)
		eb, err := ht.SampleEnergy(e, b)
		require.NoError(t, err)
		assert.Equal(t, ea, eb)
	}
}

func TestHistogramTableBoundaries(t *testing.T) {
	strict := referenceTable(t, Strict)
	_, err := strict.SampleEnergy(0.5, rand.NewSequence(0.25, 0.5))
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))
	_, err = strict.SampleEnergy(2.5, rand.NewSequence(0.25, 0.5))
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))

	extend := referenceTable(t, Extend)
	assert.Equal(t, Extend, extend.Policy())
	e, err := extend.SampleEnergy(0.5, rand.NewSequence(0.25, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, e, eps)
	e, err = extend.SampleEnergy(2.5, rand.NewSequence(0.25, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, 4.0, e, eps)

	_, err = NewHistogramTable([]float64{1, 2}, []*Histogram{extend.Tables()[0]}, Strict)
	assert.True(t, errors.Is(err, ErrTable))
}

func TestTabularCosine(t *testing.T) {
	lo := histogram(t, []float64{-1, 1}, []float64{1})
	hi := histogram(t, []float64{0, 1}, []float64{1})
	tc, err := NewTabularCosine([]float64{1, 2}, []*Histogram{lo, hi}, Strict)
	require.NoError(t, err)

	mu, err := tc.SampleCosine(1.5, rand.NewSequence(0.5))
	require.NoError(t, err)
	assert.InDelta(t, 0.25, mu, eps)

	cdf, err := tc.CDF(1.5, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5*0.75+0.5*0.5, cdf, eps)

	mu, err = tc.SampleCosineBelow(1, 0, rand.NewSequence(0.5))
	require.NoError(t, err)
	assert.InDelta(t, -0.5, mu, eps)

	wide := histogram(t, []float64{-2, 1}, []float64{1})
	_, err = NewTabularCosine([]float64{1, 2}, []*Histogram{lo, wide}, Strict)
	assert.True(t, errors.Is(err, ErrTable))
}

func TestTabularCosineBoundaries(t *testing.T) {
	lo := histogram(t, []float64{-1, 1}, []float64{1})
	hi := histogram(t, []float64{0, 1}, []float64{1})

	strict, err := NewTabularCosine([]float64{1, 2}, []*Histogram{lo, hi}, Strict)
	require.NoError(t, err)
	_, err = strict.SampleCosine(0.5, rand.NewSequence(0.5))
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))
	_, err = strict.SampleCosine(2.5, rand.NewSequence(0.5))
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))
	_, err = strict.CDF(2.5, 0)
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))

	extend, err := NewTabularCosine([]float64{1, 2}, []*Histogram{lo, hi}, Extend)
	require.NoError(t, err)
	assert.Equal(t, Extend, extend.Policy())
	mu, err := extend.SampleCosine(0.5, rand.NewSequence(0.75))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mu, eps)
	mu, err = extend.SampleCosine(2.5, rand.NewSequence(0.75))
	require.NoError(t, err)
	assert.InDelta(t, 0.75, mu, eps)
	cdf, err := extend.CDF(0.5, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, cdf, eps)
	cdf, err = extend.CDF(2.5, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, cdf, eps)
}

func TestEvaporation(t *testing.T) {
	ev := NewEvaporation(constant(t, 1), 0)
	seq := rand.NewSequence(0.5, 0.5)
	e, err := ev.SampleEnergy(10, seq)
	require.NoError(t, err)
	assert.InDelta(t, -math.Log(0.25), e, eps)
	assert.Equal(t, uint64(1), seq.Trials)
	assert.Equal(t, uint64(1), seq.Samples)

	ctx := rand.NewContext(3)
	for i := 0; i < 1000; i++ {
		e, err := ev.SampleEnergy(2, ctx)
		require.NoError(t, err)
		assert.True(t, e >= 0 && e <= 2)
	}

	_, err = NewEvaporation(constant(t, 1), 3).SampleEnergy(2, ctx)
	assert.True(t, errors.Is(err, ErrCannotSample))
}

func TestLevelInelastic(t *testing.T) {
	li := NewLevelInelastic(1, -1)
	assert.Equal(t, 2.0, li.ThresholdEnergy())
	e, err := li.SampleEnergy(4, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, e, eps)

	_, err = li.SampleEnergy(1, nil)
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))
}

func TestTwoBodyElastic(t *testing.T) {
	tb := NewTwoBodyElastic(1, nil)
	p := particle.New(particle.Neutron, 0)
	p.Energy = 2
	d0 := p.Direction

	require.NoError(t, tb.Scatter(p, particle.NewBank(), rand.NewSequence(0.5, 0.3)))
	assert.InDelta(t, 1.0, p.Energy, eps)
	assert.InDelta(t, 1/math.Sqrt2, r3.Dot(d0, p.Direction), 1e-9)
	assert.InDelta(t, 1.0, r3.Norm(p.Direction), 1e-12)
}

func TestEnergyAngleCenterOfMass(t *testing.T) {
	// A level law with Q = 0 on an infinitely heavy target leaves the
	// energy and the cosine unchanged.
	ea := NewCenterOfMassEnergyAngle(NewLevelInelastic(1e12, 0), nil, 1e12)
	p := particle.New(particle.Neutron, 0)
	p.Energy = 3
	d0 := p.Direction

	require.NoError(t, ea.Scatter(p, particle.NewBank(), rand.NewSequence(0.75, 0.1)))
	assert.InDelta(t, 3.0, p.Energy, 1e-9)
	assert.InDelta(t, 0.5, r3.Dot(d0, p.Direction), 1e-6)
}

func TestKleinNishina(t *testing.T) {
	kn := NewKleinNishina(true)
	ctx := rand.NewContext(11)
	bank := particle.NewBank()

	for i := 0; i < 1000; i++ {
		p := particle.New(particle.Photon, uint64(i))
		p.Energy = 1
		require.NoError(t, kn.Scatter(p, bank, ctx))

		alpha := 1 / mc2
		assert.True(t, p.Energy >= 1/(1+2*alpha)-eps && p.Energy <= 1+eps)
		if !bank.IsEmpty() {
			e, err := bank.Pop()
			require.NoError(t, err)
			assert.Equal(t, particle.Electron, e.Type)
			assert.InDelta(t, 1.0, p.Energy+e.Energy, eps)
		}
	}
	trials, samples := ctx.Trials()
	assert.Equal(t, uint64(1000), samples)
	assert.True(t, trials >= samples)
	assert.True(t, ctx.Efficiency() > 0 && ctx.Efficiency() <= 1)
}

func TestThomson(t *testing.T) {
	p := particle.New(particle.Photon, 0)
	p.Energy = 0.01
	seq := rand.NewSequence(0.5, 0.9, 0.0, 0.2, 0.5)

	// The first trial (mu = 0) is rejected, the second (mu = -1) accepted.
	require.NoError(t, Thomson{}.Scatter(p, particle.NewBank(), seq))
	assert.Equal(t, 0.01, p.Energy)
	assert.InDelta(t, -1.0, p.Direction.Z, 1e-9)
	assert.Equal(t, uint64(2), seq.Trials)
}

func TestPairProduction(t *testing.T) {
	seq := rand.NewSequence(0.1, 0.3, 0.7)

	p := particle.New(particle.Photon, 4)
	p.Energy = 10
	bank := particle.NewBank()
	require.NoError(t, NewPairProduction(false).Scatter(p, bank, seq))

	require.Equal(t, 2, bank.Size())
	second, err := bank.Pop()
	require.NoError(t, err)
	elec, err := bank.Pop()
	require.NoError(t, err)

	assert.Equal(t, particle.Photon, second.Type)
	assert.InDelta(t, -1.0, r3.Dot(p.Direction, second.Direction), eps)
	for _, g := range []*particle.State{p, second} {
		assert.Equal(t, mc2, g.Energy)
		assert.Equal(t, uint32(1), g.Generation)
		assert.Equal(t, uint32(0), g.Collision)
		assert.Equal(t, uint64(4), g.History)
		assert.False(t, g.IsGone())
	}
	assert.Equal(t, particle.Electron, elec.Type)
	assert.InDelta(t, (10-2*mc2)/2, elec.Energy, eps)

	trip := particle.New(particle.Photon, 4)
	trip.Energy = 10
	require.NoError(t, NewTripletProduction(false).Scatter(trip, bank, seq))
	assert.Equal(t, 3, bank.Size())

	bank.Clear()
	pos := particle.New(particle.Photon, 4)
	pos.Energy = 10
	require.NoError(t, NewPairProduction(true).Scatter(pos, bank, seq))
	assert.Equal(t, 2, bank.Size())
	assert.True(t, pos.IsGone())

	low := particle.New(particle.Photon, 4)
	low.Energy = 1
	err = NewPairProduction(false).Scatter(low, bank, seq)
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))
}

func TestAnnihilation(t *testing.T) {
	p := particle.New(particle.Positron, 0)
	bank := particle.NewBank()
	require.NoError(t, Annihilation{}.Scatter(p, bank, rand.NewSequence(0.2, 0.6)))

	assert.True(t, p.IsGone())
	require.Equal(t, 2, bank.Size())
	a, _ := bank.Pop()
	b, _ := bank.Pop()
	assert.InDelta(t, -1.0, r3.Dot(a.Direction, b.Direction), eps)
	assert.Equal(t, mc2, a.Energy)
}

func hybrid(t *testing.T) *HybridElastic {
	full := histogram(t, []float64{-1, 1}, []float64{1})
	tc, err := NewTabularCosine([]float64{1, 2}, []*Histogram{full, full}, Strict)
	require.NoError(t, err)
	cutoff, err := NewCutoffElastic(tc, 0)
	require.NoError(t, err)

	lo, err := NewDiscreteCosines([]float64{0.9}, []float64{1})
	require.NoError(t, err)
	hi, err := NewDiscreteCosines([]float64{0.5, 0.8}, []float64{1, 1})
	require.NoError(t, err)
	mp, err := NewMomentPreserving([]float64{1, 2}, []*DiscreteCosines{lo, hi}, Strict)
	require.NoError(t, err)

	return NewHybridElastic(cutoff, constant(t, 2), mp, constant(t, 1))
}

func TestMomentPreservingBoundaries(t *testing.T) {
	lo, err := NewDiscreteCosines([]float64{0.9}, []float64{1})
	require.NoError(t, err)
	hi, err := NewDiscreteCosines([]float64{0.5, 0.8}, []float64{1, 1})
	require.NoError(t, err)
	tables := []*DiscreteCosines{lo, hi}

	strict, err := NewMomentPreserving([]float64{1, 2}, tables, Strict)
	require.NoError(t, err)
	_, err = strict.SampleCosine(0.5, rand.NewSequence(0.5, 0.5))
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))
	_, err = strict.SampleCosine(2.5, rand.NewSequence(0.5, 0.5))
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))

	// Below the grid only the lowest table can be chosen, above it only the
	// highest.
	extend, err := NewMomentPreserving([]float64{1, 2}, tables, Extend)
	require.NoError(t, err)
	assert.Equal(t, Extend, extend.Policy())
	mu, err := extend.SampleCosine(0.5, rand.NewSequence(0.0, 0.9))
	require.NoError(t, err)
	assert.Equal(t, 0.9, mu)
	mu, err = extend.SampleCosine(2.5, rand.NewSequence(0.99, 0.9))
	require.NoError(t, err)
	assert.Equal(t, 0.8, mu)
	mu, err = extend.SampleCosine(2.5, rand.NewSequence(0.99, 0.1))
	require.NoError(t, err)
	assert.Equal(t, 0.5, mu)
}

func TestHybridElastic(t *testing.T) {
	he := hybrid(t)

	ratio, err := he.Ratio(1.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ratio, eps)

	mu, err := he.SampleCosine(1.5, rand.NewSequence(0.25, 0.5))
	require.NoError(t, err)
	assert.InDelta(t, -0.5, mu, eps)

	mu, err = he.SampleCosine(1.5, rand.NewSequence(0.75, 0.0, 0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.8, mu)

	mu, err = he.SampleCosine(1.5, rand.NewSequence(0.75, 0.9, 0.5))
	require.NoError(t, err)
	assert.Equal(t, 0.9, mu)

	_, err = he.SampleCosine(3, rand.NewSequence(0.5))
	assert.True(t, errors.Is(err, ErrEnergyOutOfRange))
}

func TestElectronEnergyLoss(t *testing.T) {
	flat := histogram(t, []float64{0.01, 0.02}, []float64{1})
	law, err := NewHistogramTable([]float64{1e-3, 10}, []*Histogram{flat, flat}, Extend)
	require.NoError(t, err)
	seq := rand.NewSequence(0.3, 0.5, 0.7)

	ion := NewIonization(law, 1e-3)
	p := particle.New(particle.Electron, 0)
	p.Energy = 1
	bank := particle.NewBank()
	require.NoError(t, ion.Scatter(p, bank, seq))
	require.Equal(t, 1, bank.Size())
	k, _ := bank.Pop()
	assert.InDelta(t, 1.0, p.Energy+k.Energy+1e-3, eps)
	assert.InDelta(t, 1.0, r3.Norm(p.Direction), 1e-12)

	brem := NewBremsstrahlung(law)
	p.Energy = 1
	require.NoError(t, brem.Scatter(p, bank, seq))
	g, err := bank.Pop()
	require.NoError(t, err)
	assert.Equal(t, particle.Photon, g.Type)
	assert.InDelta(t, 1.0, p.Energy+g.Energy, eps)

	ae := NewAtomicExcitation(constant(t, 0.25))
	p.Energy = 1
	require.NoError(t, ae.Scatter(p, bank, seq))
	assert.InDelta(t, 0.75, p.Energy, eps)
	p.Energy = 0.2
	require.NoError(t, ae.Scatter(p, bank, seq))
	assert.True(t, p.IsGone())
}

func TestMultiplicity(t *testing.T) {
	assert.Equal(t, 3, FixedMultiplicity(3).SampleMultiplicity(1, nil))

	m := NewTabulatedMultiplicity(constant(t, 2.4))
	assert.InDelta(t, 2.4, m.Average(1), eps)
	assert.Equal(t, 3, m.SampleMultiplicity(1, rand.NewSequence(0.3)))
	assert.Equal(t, 2, m.SampleMultiplicity(1, rand.NewSequence(0.5)))
}

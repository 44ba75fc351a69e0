package particle

import (
	"math"
	"testing"

	"github.com/phil-mansfield/gocollide/rand"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

const testEps = 1e-12

func TestSpawn(t *testing.T) {
	p := New(Photon, 17)
	p.Generation = 2
	p.Collision = 5
	p.Energy = 1.5
	p.Weight = 0.5
	p.Cell = 3
	p.Position = r3.Vec{X: 1, Y: 2, Z: 3}

	q := p.Spawn(Electron)
	assert.Equal(t, uint64(17), q.History)
	assert.Equal(t, uint32(3), q.Generation)
	assert.Equal(t, uint32(0), q.Collision)
	assert.Equal(t, Electron, q.Type)
	assert.Equal(t, p.Position, q.Position)
	assert.Equal(t, 0.5, q.Weight)
	assert.Equal(t, uint64(3), q.Cell)
	assert.False(t, q.IsGone())
}

func TestGoneIsPermanent(t *testing.T) {
	p := New(Neutron, 0)
	assert.False(t, p.IsGone())
	p.SetAsGone()
	assert.True(t, p.IsGone())
	assert.True(t, p.Clone().IsGone())
}

func TestSpeedAndAdvance(t *testing.T) {
	p := New(Photon, 0)
	assert.Equal(t, SpeedOfLight, p.Speed())
	p.Advance(SpeedOfLight)
	assert.InDelta(t, 1.0, p.Time, testEps)
	assert.InDelta(t, SpeedOfLight, p.Position.Z, 1e-3)

	n := New(Neutron, 0)
	n.Energy = 0.0253e-6
	// Thermal neutrons travel at about 2200 m/s.
	assert.InDelta(t, 2.2e5, n.Speed(), 0.01e5)
}

func TestRotate(t *testing.T) {
	dirs := []r3.Vec{
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: -1},
		r3.Unit(r3.Vec{X: 1, Y: 2, Z: 3}),
		r3.Unit(r3.Vec{X: -1, Y: 0.5, Z: 0}),
	}
	for _, d := range dirs {
		for _, mu := range []float64{-1, -0.3, 0, 0.7, 1} {
			for _, phi := range []float64{0, 1, 4} {
				out := Rotate(d, mu, phi)
				assert.InDelta(t, 1.0, r3.Norm(out), 1e-9)
				assert.InDelta(t, mu, r3.Dot(d, out), 1e-9)
			}
		}
	}
}

func TestSampleIsotropic(t *testing.T) {
	s := rand.NewSequence(0.5, 0.25)
	d := SampleIsotropic(s)
	assert.InDelta(t, 0.0, d.Z, testEps)
	assert.InDelta(t, 0.0, d.X, testEps)
	assert.InDelta(t, 1.0, d.Y, testEps)

	c := rand.NewContext(3)
	var sum r3.Vec
	for i := 0; i < 20000; i++ {
		v := SampleIsotropic(c)
		assert.InDelta(t, 1.0, r3.Norm(v), 1e-9)
		sum = r3.Add(sum, v)
	}
	assert.True(t, r3.Norm(sum)/20000 < 0.03)
}

func TestParseType(t *testing.T) {
	for _, ty := range AllTypes() {
		got, err := ParseType(ty.String())
		assert.NoError(t, err)
		assert.Equal(t, ty, got)
	}
	got, err := ParseType(" photon ")
	assert.NoError(t, err)
	assert.Equal(t, Photon, got)
	_, err = ParseType("muon")
	assert.Error(t, err)

	assert.True(t, AdjointPhoton.IsAdjoint())
	assert.False(t, Photon.IsAdjoint())
	assert.Equal(t, 0.0, Photon.RestMassEnergy())
	assert.True(t, math.Abs(Positron.RestMassEnergy()-0.511) < 1e-3)
}

package transport

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gocollide/particle"
)

// Outside is the cell id of everything outside the slabs.
const Outside uint64 = 0

// Slabs is a stack of infinite slabs perpendicular to the z-axis. Plane i,
// at z = planes[i], is surface i+1, and the slab between planes i and i+1 is
// cell i+1. Surface normals point along +z.
type Slabs struct {
	planes    []float64
	materials []*Material
}

// NewSlabs creates a slab geometry. There must be one material per slab. A
// nil material is a void.
func NewSlabs(planes []float64, materials []*Material) (*Slabs, error) {
	if len(planes) < 2 {
		return nil, fmt.Errorf("transport: need at least 2 planes, got %d", len(planes))
	} else if len(materials) != len(planes)-1 {
		return nil, fmt.Errorf(
			"transport: %d planes need %d materials, got %d",
			len(planes), len(planes)-1, len(materials),
		)
	}
	for i := 0; i < len(planes)-1; i++ {
		if !(planes[i] < planes[i+1]) {
			return nil, fmt.Errorf("transport: planes not ascending at index %d", i)
		}
	}
	return &Slabs{planes, materials}, nil
}

func (s *Slabs) Cells() int        { return len(s.materials) }
func (s *Slabs) Planes() []float64 { return s.planes }

// Thickness returns the width of a cell, which is its volume per unit area.
func (s *Slabs) Thickness(cell uint64) float64 {
	return s.planes[cell] - s.planes[cell-1]
}

// Material returns the material filling cell, or nil for voids.
func (s *Slabs) Material(cell uint64) *Material {
	if cell == Outside || cell > uint64(len(s.materials)) {
		return nil
	}
	return s.materials[cell-1]
}

// Locate returns the cell containing z. Cells include their lower plane.
func (s *Slabs) Locate(z float64) uint64 {
	n := len(s.planes)
	if z < s.planes[0] || z >= s.planes[n-1] {
		return Outside
	}
	for i := 1; i < n; i++ {
		if z < s.planes[i] {
			return uint64(i)
		}
	}
	return Outside
}

// Boundary returns the distance p must travel to leave cell, the surface
// it crosses and the cell on the other side. Particles moving parallel to
// the planes never leave.
func (s *Slabs) Boundary(p *particle.State, cell uint64) (dist float64, surface, next uint64) {
	dz, z := p.Direction.Z, p.Position.Z
	switch {
	case dz > 0:
		next = cell + 1
		if next > uint64(len(s.materials)) {
			next = Outside
		}
		return math.Max(0, (s.planes[cell]-z)/dz), cell + 1, next
	case dz < 0:
		return math.Max(0, (s.planes[cell-1]-z)/dz), cell, cell - 1
	}
	return math.Inf(+1), 0, cell
}

/*package estimator accumulates weighted scores from transport events into
multi-dimensional phase space bins.

Estimators are event.Observers. Each one owns a PhaseSpace describing how
an event is binned, and a set of Moments per entity (cell or surface) which
hold the per-bin sum and sum of squares of the per-history scores. Scores
made during a history are buffered and only committed when the history
ends, so an estimator always reflects a whole number of histories.

Estimators are not safe for concurrent use. A Handler is forked once per
worker, and the forks are merged back together once the workers finish.
*/
package estimator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/phil-mansfield/gocollide/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrDiscretization is returned for malformed discretizations and phase
// spaces, and for estimators which cannot be built from them.
var ErrDiscretization = errors.New("estimator: invalid discretization")

// Dimension is a phase space axis.
type Dimension int

const (
	EnergyDimension Dimension = iota
	// CosineDimension is the cosine between the direction of flight and the
	// surface normal for surface events, and the z-component of the direction
	// for cell events.
	CosineDimension
	TimeDimension
	CollisionNumberDimension
	DirectionDimension

	numDimensions
)

var dimensionNames = [numDimensions]string{
	"Energy", "Cosine", "Time", "CollisionNumber", "Direction",
}

func (d Dimension) String() string {
	if d < 0 || d >= numDimensions {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// ParseDimension converts a case-insensitive dimension name into a Dimension.
func ParseDimension(name string) (Dimension, error) {
	name = strings.TrimSpace(name)
	for i, dn := range dimensionNames {
		if strings.EqualFold(dn, name) {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognized dimension '%s'", ErrDiscretization, name)
}

// Point is the location of an event in phase space. For events which cover
// a range of times (track segments) TimeEnd is the time at the end of the
// range. Otherwise it equals Time.
type Point struct {
	Energy, Cosine  float64
	Time, TimeEnd   float64
	CollisionNumber uint32
	Direction       r3.Vec
}

// PointOf returns the phase space point of p, using the z-component of its
// direction as the cosine.
func PointOf(p *particle.State) Point {
	return Point{
		Energy:          p.Energy,
		Cosine:          p.Direction.Z,
		Time:            p.Time,
		TimeEnd:         p.Time,
		CollisionNumber: p.Collision,
		Direction:       p.Direction,
	}
}

// value returns the scalar coordinate of pt along d.
func (pt *Point) value(d Dimension) float64 {
	switch d {
	case EnergyDimension:
		return pt.Energy
	case CosineDimension:
		return pt.Cosine
	case TimeDimension:
		return pt.Time
	case CollisionNumberDimension:
		return float64(pt.CollisionNumber)
	}
	panic(fmt.Sprintf("estimator: %s has no scalar value", d))
}

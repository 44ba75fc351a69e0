package estimator

import (
	"fmt"
	"math"
)

// Moments accumulates per-bin scores. Scores added during a history are
// summed in a buffer and only enter the first and second moments when the
// history is committed, so each moment is a sum over histories.
type Moments struct {
	sum, sumSq []float64
	histories  uint64

	hist    []float64
	live    []bool
	touched []int
}

func NewMoments(bins int) *Moments {
	return &Moments{
		sum:   make([]float64, bins),
		sumSq: make([]float64, bins),
		hist:  make([]float64, bins),
		live:  make([]bool, bins),
	}
}

func (m *Moments) Bins() int         { return len(m.sum) }
func (m *Moments) Histories() uint64 { return m.histories }
func (m *Moments) Sum(i int) float64 { return m.sum[i] }

// SumSq returns the sum over histories of the squared history score.
func (m *Moments) SumSq(i int) float64 { return m.sumSq[i] }

// Add scores x in bin i for the current history.
func (m *Moments) Add(i int, x float64) {
	if !m.live[i] {
		m.live[i] = true
		m.touched = append(m.touched, i)
	}
	m.hist[i] += x
}

// Pending returns the score bin i has received during the current history.
func (m *Moments) Pending(i int) float64 { return m.hist[i] }

// Commit ends the current history.
func (m *Moments) Commit() {
	for _, i := range m.touched {
		x := m.hist[i]
		m.sum[i] += x
		m.sumSq[i] += x * x
		m.hist[i], m.live[i] = 0, false
	}
	m.touched = m.touched[:0]
	m.histories++
}

// Discard drops the scores of the current history without counting it.
func (m *Moments) Discard() {
	for _, i := range m.touched {
		m.hist[i], m.live[i] = 0, false
	}
	m.touched = m.touched[:0]
}

// Merge adds the committed moments of m2 to m.
func (m *Moments) Merge(m2 *Moments) error {
	if len(m.sum) != len(m2.sum) {
		return fmt.Errorf(
			"%w: merging moments with %d and %d bins",
			ErrDiscretization, len(m.sum), len(m2.sum),
		)
	}
	for i := range m.sum {
		m.sum[i] += m2.sum[i]
		m.sumSq[i] += m2.sumSq[i]
	}
	m.histories += m2.histories
	return nil
}

// Mean returns the mean score per history in bin i divided by norm.
func (m *Moments) Mean(i int, norm float64) float64 {
	if m.histories == 0 {
		return 0
	}
	return m.sum[i] / (float64(m.histories) * norm)
}

// RelativeError returns the estimated relative standard error of the mean
// in bin i, or 0 if the bin is empty.
func (m *Moments) RelativeError(i int) float64 {
	if m.histories == 0 || m.sum[i] == 0 {
		return 0
	}
	n := float64(m.histories)
	r2 := m.sumSq[i]/(m.sum[i]*m.sum[i]) - 1/n
	if r2 <= 0 {
		return 0
	}
	return math.Sqrt(r2)
}

/*package io reads gocollide's configuration and data files and writes its
results.

Cross sections and source spectra are read from whitespace-separated column
files. Results are written either as a binary file, which the plot command
reads back, or as a plain text table.
*/
package io

import (
	"fmt"
	"path/filepath"

	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/scatter"
	"github.com/phil-mansfield/table"
)

// ReadCrossSection reads a cross section from the first two columns of a
// text file: energy in MeV and cross section in barns.
func ReadCrossSection(fname string, policy interpolate.Policy) (*interpolate.Tabulated, error) {
	cols, err := table.ReadTable(fname, []int{0, 1}, nil)
	if err != nil {
		return nil, err
	}
	xs, err := NewCrossSection(cols[0], cols[1], policy)
	if err != nil {
		return nil, fmt.Errorf("io: cross section file '%s': %w", fname, err)
	}
	return xs, nil
}

// NewCrossSection creates a tabulated cross section over the energy grid es.
// Leading zeros in vals are dropped and the first non-zero point becomes the
// threshold of the function.
func NewCrossSection(
	es, vals []float64, policy interpolate.Policy,
) (*interpolate.Tabulated, error) {
	if len(es) != len(vals) {
		return nil, fmt.Errorf(
			"%w: %d energies but %d cross sections",
			interpolate.ErrGrid, len(es), len(vals),
		)
	}

	tr := interpolate.Linear
	if len(es) > 0 && es[0] > 0 {
		tr = interpolate.Log
	}
	s, err := interpolate.NewHashSearcher(es, len(es), tr)
	if err != nil {
		return nil, err
	}

	threshold := 0
	for threshold < len(vals)-2 && vals[threshold] == 0 {
		threshold++
	}
	for i, v := range vals {
		if v < 0 {
			return nil, fmt.Errorf(
				"%w: cross section %g at energy %g is negative",
				interpolate.ErrGrid, v, es[i],
			)
		}
	}

	return interpolate.NewTabulated(s, vals[threshold:], threshold, policy)
}

// ReadSpectrum reads a source energy spectrum from the first two columns of
// a text file: the lower edge of each energy bin and the height of the
// spectrum across that bin. The last row only closes the final bin, so its
// height is ignored.
func ReadSpectrum(fname string) (*scatter.Histogram, error) {
	cols, err := table.ReadTable(fname, []int{0, 1}, nil)
	if err != nil {
		return nil, err
	}
	edges, heights := cols[0], cols[1]
	if len(edges) < 2 {
		return nil, fmt.Errorf(
			"io: spectrum file '%s' has %d rows, need at least 2",
			fname, len(edges),
		)
	}

	h, err := scatter.NewHistogram(edges, heights[:len(heights)-1])
	if err != nil {
		return nil, fmt.Errorf("io: spectrum file '%s': %w", fname, err)
	}
	return h, nil
}

// dataPath resolves fname against dir unless it is already absolute.
func dataPath(dir, fname string) string {
	if dir == "" || filepath.IsAbs(fname) {
		return fname
	}
	return filepath.Join(dir, fname)
}

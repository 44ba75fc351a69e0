package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/phil-mansfield/gocollide/estimator"
	"github.com/phil-mansfield/gocollide/particle"
)

var end = binary.LittleEndian

/*
The binary format used for result files is as follows:
    |-- 1 --||-- 2 --||-- ... 3 ... --| ... |-- ... 3 ... --|

    1 - (ResultHeader) Meta-information about the run, beginning with a flag
        giving the endianness of the file and the size of the header.
    2 - (int64) Number of estimator blocks.
    3 - One block per estimator: an EstimatorHeader, then its entity ids
        ([]uint64), norms ([]float64), particle types ([]int64), dimension
        codes ([]int64), bin edges ([]float64), bin labels (an int64 length
        followed by the bytes of each label), means ([]float64, entity-major)
        and relative errors ([]float64, entity-major).
*/

// ResultHeader describes the run which produced a result file.
type ResultHeader struct {
	Endianness int64
	HeaderSize int64
	RunID      uuid.UUID
	Seed       uint64
	Histories  uint64
}

// EstimatorHeader describes the sizes of an estimator block.
type EstimatorHeader struct {
	ID         uint64
	Kind       int64
	Multiplier float64
	Histories  uint64

	Entities, Bins, Types, Dimensions, Edges int64
}

// NewResultHeader creates the header of a run.
func NewResultHeader(id uuid.UUID, seed, histories uint64) ResultHeader {
	hd := ResultHeader{RunID: id, Seed: seed, Histories: histories}
	if end == binary.LittleEndian {
		hd.Endianness = -1
	}
	hd.HeaderSize = int64(binary.Size(hd))
	return hd
}

func kindCode(kind string) (int64, error) {
	for i, k := range estimatorKinds {
		if k == kind {
			return int64(i), nil
		}
	}
	return -1, fmt.Errorf("io: no result code for estimator kind '%s'", kind)
}

// WriteResults writes a result file.
func WriteResults(wr io.Writer, hd ResultHeader, results []estimator.Result) error {
	if err := binary.Write(wr, end, &hd); err != nil {
		return err
	}
	if err := binary.Write(wr, end, int64(len(results))); err != nil {
		return err
	}
	for i := range results {
		if err := writeResult(wr, &results[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeResult(wr io.Writer, r *estimator.Result) error {
	code, err := kindCode(r.Kind)
	if err != nil {
		return err
	}
	bins := 0
	if len(r.Mean) > 0 {
		bins = len(r.Mean[0])
	}

	ehd := EstimatorHeader{
		ID: r.ID, Kind: code, Multiplier: r.Multiplier, Histories: r.Histories,
		Entities: int64(len(r.Entities)), Bins: int64(bins),
		Types: int64(len(r.ParticleTypes)), Dimensions: int64(len(r.Dimensions)),
		Edges: int64(len(r.Edges)),
	}

	types := make([]int64, len(r.ParticleTypes))
	for i, t := range r.ParticleTypes {
		types[i] = int64(t)
	}
	dims := make([]int64, len(r.Dimensions))
	for i, d := range r.Dimensions {
		dims[i] = int64(d)
	}
	norms := r.Norms
	if len(norms) != len(r.Entities) {
		norms = make([]float64, len(r.Entities))
		for i := range norms {
			norms[i] = 1
		}
	}

	for _, x := range []interface{}{&ehd, r.Entities, norms, types, dims, r.Edges} {
		if err := binary.Write(wr, end, x); err != nil {
			return err
		}
	}
	for _, label := range r.Labels {
		if err := binary.Write(wr, end, int64(len(label))); err != nil {
			return err
		}
		if _, err := io.WriteString(wr, label); err != nil {
			return err
		}
	}
	for _, rows := range [][][]float64{r.Mean, r.RelativeError} {
		for _, row := range rows {
			if err := binary.Write(wr, end, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadResults reads a result file written by WriteResults.
func ReadResults(rd io.Reader) (ResultHeader, []estimator.Result, error) {
	hd := ResultHeader{}
	if err := binary.Read(rd, end, &hd); err != nil {
		return hd, nil, err
	}
	if hd.Endianness != -1 {
		return hd, nil, fmt.Errorf("io: result file is not little endian")
	} else if hd.HeaderSize != int64(binary.Size(hd)) {
		return hd, nil, fmt.Errorf(
			"io: result header has size %d, expected %d",
			hd.HeaderSize, binary.Size(hd),
		)
	}

	var n int64
	if err := binary.Read(rd, end, &n); err != nil {
		return hd, nil, err
	}
	results := make([]estimator.Result, n)
	for i := range results {
		if err := readResult(rd, &results[i]); err != nil {
			return hd, nil, fmt.Errorf("io: estimator block %d: %w", i, err)
		}
	}
	return hd, results, nil
}

func readResult(rd io.Reader, r *estimator.Result) error {
	ehd := EstimatorHeader{}
	if err := binary.Read(rd, end, &ehd); err != nil {
		return err
	}
	if ehd.Kind < 0 || ehd.Kind >= int64(len(estimatorKinds)) {
		return fmt.Errorf("unrecognized estimator kind code %d", ehd.Kind)
	}

	r.ID, r.Kind = ehd.ID, estimatorKinds[ehd.Kind]
	r.Multiplier, r.Histories = ehd.Multiplier, ehd.Histories
	r.Entities = make([]uint64, ehd.Entities)
	r.Norms = make([]float64, ehd.Entities)
	types := make([]int64, ehd.Types)
	dims := make([]int64, ehd.Dimensions)
	if ehd.Edges > 0 {
		r.Edges = make([]float64, ehd.Edges)
	}

	for _, x := range []interface{}{r.Entities, r.Norms, types, dims, r.Edges} {
		if err := binary.Read(rd, end, x); err != nil {
			return err
		}
	}
	for _, t := range types {
		r.ParticleTypes = append(r.ParticleTypes, particle.Type(t))
	}
	r.Dimensions = make([]estimator.Dimension, len(dims))
	for i, d := range dims {
		r.Dimensions[i] = estimator.Dimension(d)
	}

	r.Labels = make([]string, ehd.Bins)
	for i := range r.Labels {
		var n int64
		if err := binary.Read(rd, end, &n); err != nil {
			return err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(rd, buf); err != nil {
			return err
		}
		r.Labels[i] = string(buf)
	}

	r.Mean = make([][]float64, ehd.Entities)
	r.RelativeError = make([][]float64, ehd.Entities)
	for _, rows := range [][][]float64{r.Mean, r.RelativeError} {
		for j := range rows {
			rows[j] = make([]float64, ehd.Bins)
			if err := binary.Read(rd, end, rows[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTable writes a result as a whitespace-separated text table with one
// row per entity and bin: entity, bin, lower and upper edge of the first
// dimension, mean and relative error. Edges are NaN when the first dimension
// is not ordered. Header lines start with '#'.
func WriteTable(wr io.Writer, r *estimator.Result) error {
	dims := make([]string, len(r.Dimensions))
	for i, d := range r.Dimensions {
		dims[i] = d.String()
	}
	if len(dims) == 0 {
		dims = append(dims, "none")
	}

	header := fmt.Sprintf(
		"# %s %d: %d histories, multiplier %g\n"+
			"# Dimensions: %s\n"+
			"# %6s %6s %12s %12s %14s %12s\n",
		r.Kind, r.ID, r.Histories, r.Multiplier,
		strings.Join(dims, ", "),
		"Entity", "Bin", "Low", "High", "Mean", "RelErr",
	)
	if _, err := io.WriteString(wr, header); err != nil {
		return err
	}

	// The first dimension varies fastest across bins.
	for j, ent := range r.Entities {
		for i, mean := range r.Mean[j] {
			lo, hi := math.NaN(), math.NaN()
			if len(r.Edges) > 1 {
				k := i % (len(r.Edges) - 1)
				lo, hi = r.Edges[k], r.Edges[k+1]
			}
			_, err := fmt.Fprintf(
				wr, "  %6d %6d %12.5g %12.5g %14.7g %12.5g\n",
				ent, i, lo, hi, mean, r.RelativeError[j][i],
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ErrorSummary describes the distribution of the relative errors of the
// non-empty bins of a result.
type ErrorSummary struct {
	Bins, Empty       int
	Max, Median, Mean float64
}

// SummarizeErrors computes an ErrorSummary. Bins with a mean of zero are
// counted as empty and excluded.
func SummarizeErrors(r *estimator.Result) (ErrorSummary, error) {
	sum := ErrorSummary{}
	errs := []float64{}
	for j := range r.Mean {
		for i, m := range r.Mean[j] {
			sum.Bins++
			if m == 0 {
				sum.Empty++
				continue
			}
			errs = append(errs, r.RelativeError[j][i])
		}
	}
	if len(errs) == 0 {
		return sum, nil
	}

	var err error
	if sum.Max, err = stats.Max(errs); err != nil {
		return sum, err
	}
	if sum.Median, err = stats.Median(errs); err != nil {
		return sum, err
	}
	if sum.Mean, err = stats.Mean(errs); err != nil {
		return sum, err
	}
	return sum, nil
}

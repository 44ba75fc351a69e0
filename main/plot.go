package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/gocollide/estimator"
	"github.com/phil-mansfield/gocollide/io"

	plt "github.com/phil-mansfield/pyplot"
)

var colors = []string{
	"DarkSlateBlue", "DarkSlateGray", "DarkTurquoise",
	"DarkViolet", "DeepPink", "DimGray",
}

func newPlotCmd() *cobra.Command {
	var (
		id  uint64
		out string
	)
	cmd := &cobra.Command{
		Use:   "plot results-file",
		Short: "Plot the means of one estimator of a results file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			hd, results, err := io.ReadResults(f)
			if err != nil {
				return err
			}
			for i := range results {
				if results[i].ID == id {
					logger.Debug("Plotting", "run", hd.RunID, "estimator", id)
					plotResult(&results[i], out)
					return nil
				}
			}
			return fmt.Errorf("%s has no estimator with id %d", args[0], id)
		},
	}
	cmd.Flags().Uint64Var(&id, "id", 1, "Id of the estimator to plot.")
	cmd.Flags().StringVar(&out, "out", "gocollide.png", "Output image file.")
	return cmd
}

// plotResult plots the mean of every entity of r, one color per entity in
// the order of r.Entities, against the bins of its first dimension.
// Unordered bins are plotted against their index.
func plotResult(r *estimator.Result, fname string) {
	plt.Figure()

	xlabel := "Bin"
	logX := false
	if len(r.Edges) > 1 {
		xlabel = r.Dimensions[0].String()
		logX = r.Dimensions[0] == estimator.EnergyDimension && r.Edges[0] > 0
	}

	for j := range r.Entities {
		xs, ys := binPoints(r, j)
		plt.Plot(xs, ys, plt.LW(2), plt.C(colors[j%len(colors)]))
	}

	plt.Title(fmt.Sprintf("%s %d, %d histories", r.Kind, r.ID, r.Histories))
	plt.XLabel(xlabel, plt.FontSize(16))
	plt.YLabel("Mean", plt.FontSize(16))
	if logX {
		plt.XScale("log")
	}
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
	plt.Execute()
}

// binPoints returns a step curve of entity j over the bins of the first
// dimension, summed over the remaining dimensions.
func binPoints(r *estimator.Result, j int) (xs, ys []float64) {
	mean := r.Mean[j]
	if len(r.Edges) < 2 {
		xs, ys = make([]float64, len(mean)), make([]float64, len(mean))
		for i, m := range mean {
			xs[i], ys[i] = float64(i), m
		}
		return xs, ys
	}

	n := len(r.Edges) - 1
	sums := make([]float64, n)
	for i, m := range mean {
		sums[i%n] += m
	}
	for k := 0; k < n; k++ {
		xs = append(xs, r.Edges[k], r.Edges[k+1])
		ys = append(ys, sums[k], sums[k])
	}
	return xs, ys
}

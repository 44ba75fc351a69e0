package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/gocollide/io"
	"github.com/phil-mansfield/gocollide/transport"
)

const (
	dataDirEnv  = "GOCOLLIDE_DATA_DIR"
	logLevelEnv = "GOCOLLIDE_LOG_LEVEL"
)

var envFile, logLevel string

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "gocollide",
})

func main() {
	rootCmd := &cobra.Command{
		Use:   "gocollide",
		Short: "Monte Carlo particle transport through slab geometries",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env", ".env", "File of environment defaults, if it exists.",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "",
		"One of [ debug | info | warn | error ]. Defaults to $"+logLevelEnv+
			" and then to info.",
	)

	rootCmd.AddCommand(newRunCmd(), newExampleConfigCmd(), newPlotCmd())

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// setup loads environment defaults and configures the logger.
func setup() error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", envFile, err)
	}

	if logLevel == "" {
		logLevel = os.Getenv(logLevelEnv)
	}
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	return nil
}

func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Print an example configuration file to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), io.ExampleConfigFile)
			return err
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		histories, workers int
		table              bool
	)
	cmd := &cobra.Command{
		Use:   "run config-file",
		Short: "Run the problem described by a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			con, err := io.ReadConfig(args[0])
			if err != nil {
				return err
			}
			if histories > 0 {
				con.Run.Histories = histories
			}
			if workers > 0 {
				con.Run.Workers = workers
			}
			return run(cmd, con, table)
		},
	}
	cmd.Flags().IntVar(&histories, "histories", 0, "Overrides Run.Histories.")
	cmd.Flags().IntVar(&workers, "workers", 0, "Overrides Run.Workers.")
	cmd.Flags().BoolVar(&table, "table", false, "Also print text tables of the results.")
	return cmd
}

func run(cmd *cobra.Command, con *io.Config, table bool) error {
	dataDir := ""
	if !con.Run.ValidDataDir() {
		dataDir = os.Getenv(dataDirEnv)
	}
	pr, h, err := con.Build(dataDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner, err := transport.NewRunner(
		pr, h, con.Run.Workers, uint64(con.Run.Seed), logger,
	)
	if err != nil {
		return err
	}
	sum, runErr := runner.Run(ctx, uint64(con.Run.Histories))
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	// Interrupted runs still write the histories which were completed.
	id := uuid.New()
	f, err := os.Create(con.Run.Output)
	if err != nil {
		return err
	}
	defer f.Close()

	results := h.Results()
	hd := io.NewResultHeader(id, uint64(con.Run.Seed), sum.Histories)
	if err := io.WriteResults(f, hd, results); err != nil {
		return err
	}
	logger.Info("Wrote results", "file", con.Run.Output, "run", id)

	names := con.EstimatorNames()
	for i := range results {
		es, err := io.SummarizeErrors(&results[i])
		if err != nil {
			return err
		}
		logger.Info("Relative errors", "estimator", names[i],
			"bins", es.Bins, "empty", es.Empty,
			"max", es.Max, "median", es.Median,
		)
		if table {
			if err := io.WriteTable(cmd.OutOrStdout(), &results[i]); err != nil {
				return err
			}
		}
	}
	return runErr
}

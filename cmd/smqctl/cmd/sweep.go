package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jthornber/smq/internal/harness"
	"github.com/jthornber/smq/internal/storage"
	"github.com/jthornber/smq/pkg/config"
)

var (
	sweepOutputDir         string
	sweepNrBlocks          int
	sweepHitsPerGeneration int
	sweepNrGenerations     int
	sweepGzip              bool
	sweepArchive           bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the full experiment suite and write its .dat tables",
	Long: `sweep runs every experiment in the harness suite once: PDF and
summation tables, level population traces, hit-analysis sweeps across level
counts and adjustments, and the autotune demonstration. Each experiment's
output is written as a whitespace-delimited .dat file under the output
directory.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	binName := BinName()
	sweepCmd.Example = `  # Run a sweep with the defaults (8192 blocks, 100 generations)
  ` + binName + ` sweep -o ./sweep-output

  # Run a smaller sweep for a quick look
  ` + binName + ` sweep -o ./sweep-output -b 1024 -g 10`

	sweepCmd.Flags().StringVarP(&sweepOutputDir, "output", "o", "./sweep-output", "Directory to write .dat files into")
	sweepCmd.Flags().IntVarP(&sweepNrBlocks, "blocks", "b", 0, "Number of blocks to simulate (0 uses the config default)")
	sweepCmd.Flags().IntVar(&sweepHitsPerGeneration, "hits-per-generation", 0, "Hits sampled per generation (0 uses the config default)")
	sweepCmd.Flags().IntVarP(&sweepNrGenerations, "generations", "g", 0, "Number of generations to run (0 uses the config default)")
	sweepCmd.Flags().BoolVar(&sweepGzip, "gzip", false, "Gzip each .dat file alongside the original")
	sweepCmd.Flags().BoolVar(&sweepArchive, "archive", false, "Upload the sweep output through the configured storage backend")
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	h := harness.New(log)
	h.NrBlocks = cfg.Sweep.NrBlocks
	h.HitsPerGeneration = cfg.Sweep.HitsPerGeneration
	h.NrGenerations = cfg.Sweep.NrGenerations

	if sweepNrBlocks > 0 {
		h.NrBlocks = sweepNrBlocks
	}
	if sweepHitsPerGeneration > 0 {
		h.HitsPerGeneration = sweepHitsPerGeneration
	}
	if sweepNrGenerations > 0 {
		h.NrGenerations = sweepNrGenerations
	}

	outDir := sweepOutputDir
	if !cmd.Flags().Changed("output") && cfg.Sweep.OutputDir != "" {
		outDir = cfg.Sweep.OutputDir
	}

	log.Info("running sweep: blocks=%d hits/gen=%d generations=%d", h.NrBlocks, h.HitsPerGeneration, h.NrGenerations)

	ctx := context.Background()
	if err := h.Sweep(ctx, outDir); err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	log.Info("sweep complete, output written to %s", outDir)

	gzip := sweepGzip || cfg.Sweep.Gzip
	if gzip {
		if err := h.CompressOutputs(outDir); err != nil {
			return fmt.Errorf("compressing sweep output failed: %w", err)
		}
	}

	if sweepArchive {
		store, err := storage.NewStorage(&cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to build storage backend: %w", err)
		}
		if err := h.Archive(ctx, store, outDir, filepath.Base(outDir)); err != nil {
			return fmt.Errorf("archiving sweep output failed: %w", err)
		}
		log.Info("sweep output archived via %s storage", cfg.Storage.Type)
	}

	return nil
}

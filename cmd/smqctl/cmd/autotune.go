package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jthornber/smq/internal/harness"
	"github.com/jthornber/smq/internal/harness/pdfset"
)

var autotuneNrBlocks int

var autotuneCmd = &cobra.Command{
	Use:   "autotune",
	Short: "Run the changing-workload autotune demonstration",
	Long: `autotune runs a single multiqueue under ShuffleWithAutotune against
a workload that periodically switches between two distributions, printing
each generation's hit-analysis ratio next to the adjustment autotune chose
for it. It is a quick way to see the tuner react to a workload shift
without running the full sweep.`,
	RunE: runAutotune,
}

func init() {
	rootCmd.AddCommand(autotuneCmd)

	autotuneCmd.Flags().IntVarP(&autotuneNrBlocks, "blocks", "b", harness.DefaultNrBlocks, "Number of blocks to simulate")
}

func runAutotune(cmd *cobra.Command, args []string) error {
	h := harness.New(GetLogger())
	h.NrBlocks = autotuneNrBlocks

	if err := h.HaWithChangingPdfAndAutotune(context.Background(), pdfset.Primary(), pdfset.Secondary(), os.Stdout); err != nil {
		return fmt.Errorf("autotune demo failed: %w", err)
	}
	return nil
}

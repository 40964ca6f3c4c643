package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/jthornber/smq/internal/harness"
	"github.com/jthornber/smq/internal/harness/pdfset"
	"github.com/jthornber/smq/internal/smq"
	"github.com/jthornber/smq/pkg/sampler"
)

var (
	runNrBlocks          int
	runNrLevels          int
	runGenerations       int
	runHitsPerGeneration int
	runPercent           int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single multiqueue and print its level populations and hit-analysis each generation",
	Long: `run builds one multiqueue from --blocks/--levels, replays a
sampler-driven workload against it for --generations generations, and
prints each generation's level populations alongside a hit-analysis
summary: the mean and variance of the per-block hit counts, and the
hits-in-levels ratio at the --percent cutoff.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	binName := BinName()
	runCmd.Example = `  # Run the default-sized multiqueue for 20 generations
  ` + binName + ` run -g 20

  # Run a smaller, finer-grained multiqueue
  ` + binName + ` run -b 1024 -l 32 -g 50`

	runCmd.Flags().IntVarP(&runNrBlocks, "blocks", "b", harness.DefaultNrBlocks, "Number of blocks to simulate")
	runCmd.Flags().IntVarP(&runNrLevels, "levels", "l", harness.DefaultLevels, "Number of levels in the multiqueue")
	runCmd.Flags().IntVarP(&runGenerations, "generations", "g", harness.DefaultNrGenerations, "Number of generations to run")
	runCmd.Flags().IntVar(&runHitsPerGeneration, "hits-per-generation", harness.DefaultHitsPerGeneration, "Hits sampled per generation")
	runCmd.Flags().IntVarP(&runPercent, "percent", "p", 10, "Hit-analysis cutoff percent")
}

func runRun(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	mq := smq.New(runNrBlocks, runNrLevels)
	s := sampler.New(runNrBlocks, pdfset.Primary(), nil)

	log.Info("running multiqueue: blocks=%d levels=%d generations=%d", runNrBlocks, runNrLevels, runGenerations)

	hitsF := make([]float64, runNrBlocks)

	for generation := 0; generation < runGenerations; generation++ {
		for i := 0; i < runHitsPerGeneration; i++ {
			mq.Hit(s.Sample())
		}
		mq.Shuffle(1)

		hits := mq.GetHits()
		for i, h := range hits {
			hitsF[i] = float64(h)
		}
		mean, variance := stat.MeanVariance(hitsF, nil)

		ha := mq.GetHitAnalysis(runPercent)

		fmt.Fprintf(os.Stdout, "generation=%d levels=%v mean_hits=%.2f hit_variance=%.2f ha(%d%%)=%.4f\n",
			generation, mq.LevelPopulations(), mean, variance, runPercent, ha.Ratio())

		mq.ClearHits()
	}

	return nil
}

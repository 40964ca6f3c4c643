package harness

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jthornber/smq/internal/harness/pdfset"
	"github.com/jthornber/smq/pkg/errors"
	"github.com/jthornber/smq/pkg/utils"
)

// OutputFiles lists the .dat files Sweep produces, in run order.
var OutputFiles = []string{
	"pdf.dat",
	"summation_table.dat",
	"level_population.dat",
	"hits_vs_levels.dat",
	"hits_vs_adjustments.dat",
	"ha_vs_levels.dat",
	"ha_vs_percent.dat",
	"ha_with_changing_pdf_vs_adjustments.dat",
	"ha_with_changing_pdf_and_autotune.dat",
}

// Sweep runs every experiment in the suite and writes its output file into
// outDir, creating it if necessary. Experiments run in OutputFiles order;
// the first one that fails stops the sweep and its error is returned, so
// later files are not written.
func (h *Harness) Sweep(ctx context.Context, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to create output directory", err)
	}

	pdf1 := pdfset.Primary()
	pdf2 := pdfset.Secondary()

	runs := []struct {
		file string
		run  func(timer *utils.Timer) error
	}{
		{"pdf.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "pdf.dat", func(w *os.File) error {
				return h.ShowPDF(pdf1, pdf2, w)
			})
		}},
		{"summation_table.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "summation_table.dat", func(w *os.File) error {
				return h.ShowSummation(pdf1, w)
			})
		}},
		{"level_population.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "level_population.dat", func(w *os.File) error {
				return h.LevelPopulations(ctx, pdf1, w)
			})
		}},
		{"hits_vs_levels.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "hits_vs_levels.dat", func(w *os.File) error {
				return h.HitsVsLevels(ctx, pdf1, w)
			})
		}},
		{"hits_vs_adjustments.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "hits_vs_adjustments.dat", func(w *os.File) error {
				return h.HitsVsAdjustments(ctx, pdf1, w)
			})
		}},
		{"ha_vs_levels.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "ha_vs_levels.dat", func(w *os.File) error {
				return h.HaVsLevels(ctx, pdf1, 10, w)
			})
		}},
		{"ha_vs_percent.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "ha_vs_percent.dat", func(w *os.File) error {
				return h.HaVsPercent(ctx, pdf1, w)
			})
		}},
		{"ha_with_changing_pdf_vs_adjustments.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "ha_with_changing_pdf_vs_adjustments.dat", func(w *os.File) error {
				return h.HaWithChangingPdfVsAdjustments(ctx, pdf1, pdf2, w)
			})
		}},
		{"ha_with_changing_pdf_and_autotune.dat", func(timer *utils.Timer) error {
			return h.withFile(outDir, "ha_with_changing_pdf_and_autotune.dat", func(w *os.File) error {
				return h.HaWithChangingPdfAndAutotune(ctx, pdf1, pdf2, w)
			})
		}},
	}

	timer := utils.NewTimer("sweep", utils.WithLogger(h.Logger))
	defer timer.PrintSummary()

	for _, r := range runs {
		phase := timer.Start(r.file)
		h.Logger.Info("running %s", r.file)
		if err := r.run(timer); err != nil {
			phase.Stop()
			return errors.Wrap(errors.CodeSweepError, "experiment "+r.file+" failed", err)
		}
		phase.Stop()
	}

	return nil
}

// withFile opens name under dir for writing, runs fn against it, and
// closes it, mirroring the original harness's with_file helper.
func (h *Harness) withFile(dir, name string, fn func(*os.File) error) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to create "+name, err)
	}
	defer f.Close()
	return fn(f)
}

package harness

import (
	"context"
	"io"

	"github.com/jthornber/smq/internal/smq"
	"github.com/jthornber/smq/pkg/errors"
	"github.com/jthornber/smq/pkg/sampler"
	"github.com/jthornber/smq/pkg/writer"
)

// ShowPDF writes the normalised density tables of two samplers built over
// pdf1 and pdf2 side by side, one bin per row.
func (h *Harness) ShowPDF(pdf1, pdf2 sampler.PDF, out io.Writer) error {
	_, span := tracer.Start(context.Background(), "harness.ShowPDF")
	defer span.End()

	s1 := h.newSampler(pdf1, nil)
	s2 := h.newSampler(pdf2, nil)

	rows := make([]writer.Row, s1.NumBins())
	p1, p2 := s1.PDF(), s2.PDF()
	for i := range rows {
		rows[i] = writer.Row{writer.Float(p1[i]), writer.Float(p2[i])}
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write pdf table", err)
	}
	return nil
}

// ShowSummation writes a single sampler's cumulative sum table, one bin per
// row, the table Sample performs its binary search over.
func (h *Harness) ShowSummation(pdf sampler.PDF, out io.Writer) error {
	_, span := tracer.Start(context.Background(), "harness.ShowSummation")
	defer span.End()

	s := h.newSampler(pdf, nil)
	summation := s.Summation()

	rows := make([]writer.Row, len(summation))
	for i, v := range summation {
		rows[i] = writer.Row{writer.Float(v)}
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write summation table", err)
	}
	return nil
}

// LevelPopulations runs a single L=DefaultLevels multiqueue for
// NrGenerations generations against pdf, writing the level populations
// after each generation's shuffle.
func (h *Harness) LevelPopulations(ctx context.Context, pdf sampler.PDF, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "harness.LevelPopulations")
	defer span.End()

	s := h.newSampler(pdf, nil)
	mq := smq.New(h.NrBlocks, DefaultLevels)

	rows := make([]writer.Row, 0, h.NrGenerations)
	for generation := 0; generation < h.NrGenerations; generation++ {
		h.hitAll(ctx, s, []*smq.MultiQueue{mq})
		mq.Shuffle(1)
		mq.ClearHits()

		pops := mq.LevelPopulations()
		row := make(writer.Row, len(pops))
		for i, p := range pops {
			row[i] = writer.Int(p)
		}
		rows = append(rows, row)
		h.Logger.Debug("level_populations generation %d/%d complete", generation+1, h.NrGenerations)
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write level populations", err)
	}
	return nil
}

// buildSweep constructs one multiqueue per entry in levels, all of size
// NrBlocks.
func (h *Harness) buildSweep(levels []int) []*smq.MultiQueue {
	mqs := make([]*smq.MultiQueue, len(levels))
	for i, l := range levels {
		mqs[i] = smq.New(h.NrBlocks, l)
	}
	return mqs
}

// HaVsLevels runs one multiqueue per entry in LevelSweep against a shared
// sampler, shuffling each after every generation, and reports each one's
// hit-analysis ratio at the given percent cutoff per generation.
func (h *Harness) HaVsLevels(ctx context.Context, pdf sampler.PDF, percent int, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "harness.HaVsLevels")
	defer span.End()

	s := h.newSampler(pdf, nil)
	mqs := h.buildSweep(LevelSweep)

	rows := make([]writer.Row, 0, h.NrGenerations)
	for generation := 0; generation < h.NrGenerations; generation++ {
		h.hitAll(ctx, s, mqs)

		for _, mq := range mqs {
			mq.Shuffle(1)
		}

		row := writer.Row{writer.Int(generation)}
		for _, mq := range mqs {
			stats := mq.GetHitAnalysis(percent)
			row = append(row, writer.Float(ratio(stats.HitsInLevels, stats.HitsActual)))
		}
		rows = append(rows, row)

		for _, mq := range mqs {
			mq.ClearHits()
		}
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write hit analysis vs levels", err)
	}
	return nil
}

// HaVsPercent runs a single L=DefaultLevels multiqueue against pdf for
// NrGenerations generations, then reports the hit-analysis ratio for every
// percent cutoff from 0 to 100.
func (h *Harness) HaVsPercent(ctx context.Context, pdf sampler.PDF, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "harness.HaVsPercent")
	defer span.End()

	s := h.newSampler(pdf, nil)
	mq := smq.New(h.NrBlocks, DefaultLevels)

	for generation := 0; generation < h.NrGenerations; generation++ {
		h.hitAll(ctx, s, []*smq.MultiQueue{mq})
		mq.Shuffle(1)
		mq.ClearHits()
	}

	rows := make([]writer.Row, 0, 101)
	for percent := 0; percent < 101; percent++ {
		stats := mq.GetHitAnalysis(percent)
		rows = append(rows, writer.Row{writer.Float(ratio(stats.HitsInLevels, stats.HitsActual))})
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write hit analysis vs percent", err)
	}
	return nil
}

// HaWithChangingPdfVsAdjustments runs six L=DefaultLevels multiqueues, each
// shuffled with a different fixed adjustment (1, 2, 4, ...), against a
// workload that alternates between pdf1 and pdf2 every SwitchingNrGenerations
// generations. It reports each multiqueue's hit-analysis ratio at the 10%
// cutoff per generation.
func (h *Harness) HaWithChangingPdfVsAdjustments(ctx context.Context, pdf1, pdf2 sampler.PDF, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "harness.HaWithChangingPdfVsAdjustments")
	defer span.End()

	s1 := h.newSampler(pdf1, nil)
	s2 := h.newSampler(pdf2, nil)

	const nrMultiqueues = 6
	levels := make([]int, nrMultiqueues)
	for i := range levels {
		levels[i] = DefaultLevels
	}
	mqs := h.buildSweep(levels)

	totalGenerations := SwitchingNrGenerations * 100

	rows := make([]writer.Row, 0, totalGenerations)
	for generation := 0; generation < totalGenerations; generation++ {
		h.hitAll(ctx, h.runChangingPDF(generation, s1, s2), mqs)

		row := writer.Row{writer.Int(generation)}
		for i, mq := range mqs {
			mq.Shuffle(1 << uint(i))

			stats := mq.GetHitAnalysis(10)
			row = append(row, writer.Float(ratio(stats.HitsInLevels, stats.HitsActual)))

			mq.ClearHits()
		}
		rows = append(rows, row)

		if generation%50 == 0 {
			h.Logger.Debug("ha_with_changing_pdf_vs_adjustments generation %d/%d", generation, totalGenerations)
		}
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write changing-pdf vs adjustments", err)
	}
	return nil
}

// HaWithChangingPdfAndAutotune runs a single L=DefaultLevels multiqueue
// under ShuffleWithAutotune against a workload that alternates between pdf1
// and pdf2 every SwitchingNrGenerations generations, reporting the 10%
// hit-analysis ratio and the adjustment autotune chose, per generation.
func (h *Harness) HaWithChangingPdfAndAutotune(ctx context.Context, pdf1, pdf2 sampler.PDF, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "harness.HaWithChangingPdfAndAutotune")
	defer span.End()

	s1 := h.newSampler(pdf1, nil)
	s2 := h.newSampler(pdf2, nil)
	mq := smq.New(h.NrBlocks, DefaultLevels)

	totalGenerations := SwitchingNrGenerations * 6

	rows := make([]writer.Row, 0, totalGenerations)
	for generation := 0; generation < totalGenerations; generation++ {
		h.hitAll(ctx, h.runChangingPDF(generation, s1, s2), []*smq.MultiQueue{mq})

		// get_autotune_adjustment is zeroed out by Shuffle, so it must be
		// read before shuffling.
		adjustment := mq.GetAutotuneAdjustment()
		mq.ShuffleWithAutotune()

		stats := mq.GetHitAnalysis(10)
		rows = append(rows, writer.Row{
			writer.Int(generation),
			writer.Float(ratio(stats.HitsInLevels, stats.HitsActual)),
			writer.Int(adjustment),
		})

		mq.ClearHits()
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write changing-pdf autotune trace", err)
	}
	return nil
}

// HitsVsLevels runs one multiqueue per entry in LevelSweep against a shared
// sampler for NrGenerations generations, autotuning every shuffle, then
// reports every block's final hit count across every multiqueue, one row
// per block.
func (h *Harness) HitsVsLevels(ctx context.Context, pdf sampler.PDF, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "harness.HitsVsLevels")
	defer span.End()

	s := h.newSampler(pdf, nil)
	mqs := h.buildSweep(LevelSweep)

	for generation := 0; generation < h.NrGenerations; generation++ {
		h.hitAll(ctx, s, mqs)
		for _, mq := range mqs {
			mq.ShuffleWithAutotune()
		}
	}

	return h.writeHitsTable(mqs, out)
}

// HitsVsAdjustments runs four L=DefaultLevels multiqueues, each shuffled
// with a different fixed doubling adjustment, against a shared sampler for
// NrGenerations generations, then reports every block's final hit count
// across every multiqueue, one row per block.
func (h *Harness) HitsVsAdjustments(ctx context.Context, pdf sampler.PDF, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "harness.HitsVsAdjustments")
	defer span.End()

	levels := make([]int, len(AdjustmentSweep))
	for i := range levels {
		levels[i] = DefaultLevels
	}
	s := h.newSampler(pdf, nil)
	mqs := h.buildSweep(levels)

	for generation := 0; generation < h.NrGenerations; generation++ {
		h.hitAll(ctx, s, mqs)
		for i, mq := range mqs {
			mq.Shuffle(AdjustmentSweep[i])
			mq.ClearHits()
		}
	}

	return h.writeHitsTable(mqs, out)
}

// writeHitsTable writes GetHits() for every multiqueue in mqs side by side.
// Row b holds the b-th block in each multiqueue's level order (the ordinal
// in the first column), not the block whose index is b.
func (h *Harness) writeHitsTable(mqs []*smq.MultiQueue, out io.Writer) error {
	hits := make([][]uint64, len(mqs))
	for i, mq := range mqs {
		hits[i] = mq.GetHits()
	}

	rows := make([]writer.Row, h.NrBlocks)
	for b := 0; b < h.NrBlocks; b++ {
		row := make(writer.Row, 0, len(mqs)+1)
		row = append(row, writer.Int(b))
		for q := range mqs {
			row = append(row, writer.Uint64(hits[q][b]))
		}
		rows[b] = row
	}

	if err := h.writer.Write(rows, out); err != nil {
		return errors.Wrap(errors.CodeWriterError, "failed to write hits table", err)
	}
	return nil
}

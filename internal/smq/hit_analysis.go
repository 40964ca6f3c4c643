package smq

import "sort"

// HitAnalysis is an oracle diagnostic comparing the engine's actual level
// ordering against a true ranking by hit count. It is never consulted by
// Hit or Shuffle; it exists purely to measure how well the level structure
// approximates perfect LRU-by-frequency ordering.
type HitAnalysis struct {
	// Percent is the top-percent cutoff this analysis was run at.
	Percent int

	// HitsInLevels is the sum of hit counts for the top Percent of blocks
	// as ranked by the engine's own level/position ordering (walked from
	// the highest level down, back to front within each level).
	HitsInLevels uint64

	// HitsActual is the sum of hit counts for the top Percent of blocks as
	// ranked by a true sort on hit count. This is the best any ordering
	// could have done, so HitsInLevels <= HitsActual always.
	HitsActual uint64
}

// Ratio returns HitsInLevels/HitsActual, a measure in [0, 1] of how close
// the engine's ordering comes to the true top-K ranking. It returns 0 when
// HitsActual is zero (no hits recorded, or Percent is 0).
func (h HitAnalysis) Ratio() float64 {
	if h.HitsActual == 0 {
		return 0
	}
	return float64(h.HitsInLevels) / float64(h.HitsActual)
}

// GetHitAnalysis computes a HitAnalysis for the top percent of blocks (0-100).
func (mq *MultiQueue) GetHitAnalysis(percent int) HitAnalysis {
	result := HitAnalysis{Percent: percent}

	k := (len(mq.blocks) * percent) / 100

	remaining := k
	for level := len(mq.levels) - 1; level >= 0 && remaining > 0; level-- {
		idx := mq.levels[level].tail
		for idx != nilIndex && remaining > 0 {
			result.HitsInLevels += mq.blocks[idx].HitCount
			idx = mq.blocks[idx].prev
			remaining--
		}
	}

	sorted := make([]uint64, len(mq.blocks))
	for i := range mq.blocks {
		sorted[i] = mq.blocks[i].HitCount
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })
	for i := 0; i < k && i < len(sorted); i++ {
		result.HitsActual += sorted[i]
	}

	return result
}

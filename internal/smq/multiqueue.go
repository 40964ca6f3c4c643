package smq

import "math"

// MultiQueue partitions a fixed population of blocks across an ordered set
// of levels and rebalances them via periodic shuffles rather than on every
// access. Hits are O(1): unlink the block, bump its hit count, push it to
// the back of its current level. All promotion/demotion happens in Shuffle,
// which is expected to run on a slower cadence (e.g. once per generation).
//
// A MultiQueue is not safe for concurrent use; callers that shard a cache
// across multiple MultiQueues are expected to serialize access to each
// instance themselves (see the harness's per-worker ownership model).
type MultiQueue struct {
	blocks []Block
	levels []levelQueue

	autotuneHits     uint64
	autotuneMisses   uint64
	autotuneOverfull bool
}

// New builds a MultiQueue of nrBlocks blocks, all initially resident in
// level 0. nrLevels is clamped to at least 1.
func New(nrBlocks, nrLevels int) *MultiQueue {
	if nrLevels < 1 {
		nrLevels = 1
	}
	if nrBlocks < 0 {
		nrBlocks = 0
	}

	mq := &MultiQueue{
		blocks: make([]Block, nrBlocks),
		levels: make([]levelQueue, nrLevels),
	}
	for i := range mq.levels {
		mq.levels[i] = newLevelQueue()
	}
	for i := range mq.blocks {
		mq.blocks[i] = Block{prev: nilIndex, next: nilIndex}
		mq.levels[0].pushBack(mq.blocks, int32(i))
	}
	return mq
}

// NumBlocks returns the fixed population size.
func (mq *MultiQueue) NumBlocks() int { return len(mq.blocks) }

// NumLevels returns the fixed level count.
func (mq *MultiQueue) NumLevels() int { return len(mq.levels) }

// inCache reports whether b's level is in the top eighth of levels, the
// dividing line used to classify a hit as "in cache" for autotuning
// purposes.
func (mq *MultiQueue) inCache(b *Block) bool {
	return b.Level > (len(mq.levels)/8)*7
}

// Hit records an access to the block at index, promoting it to the back of
// its current level (the most-recently-hit position) without otherwise
// moving it between levels. Out-of-range indices are ignored.
func (mq *MultiQueue) Hit(index int) {
	if index < 0 || index >= len(mq.blocks) {
		return
	}
	b := &mq.blocks[index]
	level := &mq.levels[b.Level]

	b.HitCount++

	if mq.inCache(b) {
		mq.autotuneHits++
	} else {
		mq.autotuneMisses++
	}

	level.erase(mq.blocks, int32(index))
	level.pushBack(mq.blocks, int32(index))
}

// ClearHits resets every block's hit count to zero. It does not touch level
// membership or the autotune hit/miss counters.
func (mq *MultiQueue) ClearHits() {
	for i := range mq.blocks {
		mq.blocks[i].HitCount = 0
	}
}

// LevelPopulations returns the number of blocks currently held by each
// level, in level order.
func (mq *MultiQueue) LevelPopulations() []int {
	r := make([]int, len(mq.levels))
	for i := range mq.levels {
		r[i] = mq.levels[i].count
	}
	return r
}

// GetHits returns every block's hit count, ordered level by level and
// front-to-back within each level.
func (mq *MultiQueue) GetHits() []uint64 {
	r := make([]uint64, 0, len(mq.blocks))
	for l := range mq.levels {
		idx := mq.levels[l].head
		for idx != nilIndex {
			r = append(r, mq.blocks[idx].HitCount)
			idx = mq.blocks[idx].next
		}
	}
	return r
}

// BlockLevel returns the level currently holding the block at index.
func (mq *MultiQueue) BlockLevel(index int) int { return mq.blocks[index].Level }

// BlockHitCount returns the hit count of the block at index.
func (mq *MultiQueue) BlockHitCount(index int) uint64 { return mq.blocks[index].HitCount }

// LevelMembers returns the block indices currently held by level, ordered
// front to back. Intended for diagnostics and tests; it allocates and
// should not be called from a hot path.
func (mq *MultiQueue) LevelMembers(level int) []int {
	var r []int
	idx := mq.levels[level].head
	for idx != nilIndex {
		r = append(r, int(idx))
		idx = mq.blocks[idx].next
	}
	return r
}

// AutotuneOverfull reports whether the most recent Shuffle had to move
// blocks more than one level in a single pass to hit its targets.
func (mq *MultiQueue) AutotuneOverfull() bool { return mq.autotuneOverfull }

// Shuffle rebalances blocks between levels. adjustment tunes how
// aggressively blocks move; values below 1 are clamped to 1. Shuffle resets
// the hit/miss counters used by GetAutotuneAdjustment.
//
// Each level computes a target number of blocks to move based on how far
// its population sits above the even share (N/L), plus the adjustment. The
// bottom level's promote target and the top level's demote target are
// doubled, since those are the levels under the most one-directional
// pressure. Blocks that must cross more than one level in a single shuffle
// (a large adjustment relative to N/L) jump directly to their destination
// rather than being walked level by level; AutotuneOverfull records whether
// that happened on this pass.
//
// Promoted blocks land at the front of their destination level; demoted
// blocks land at the back. Both sides are staged in scratch queues during
// the per-level pass so a block can never be re-visited within the same
// Shuffle call, then spliced into place once every level has been
// processed.
func (mq *MultiQueue) Shuffle(adjustment int) {
	if adjustment < 1 {
		adjustment = 1
	}
	mq.autotuneOverfull = false

	nrLevels := len(mq.levels)
	nrBlocks := len(mq.blocks)
	targetPerLevel := nrBlocks / nrLevels

	promotes := make([]levelQueue, nrLevels)
	demotes := make([]levelQueue, nrLevels)
	for i := range promotes {
		promotes[i] = newLevelQueue()
		demotes[i] = newLevelQueue()
	}

	for level := 0; level < nrLevels; level++ {
		l := &mq.levels[level]

		target := 0
		if l.count > targetPerLevel+4 {
			target = (l.count - targetPerLevel) / 4
		}
		target += adjustment

		if level < nrLevels-1 {
			promoteTarget := target
			if level == 0 {
				promoteTarget *= 2
			}

			jump := mq.jump(promoteTarget, targetPerLevel)
			newLevel := level + jump
			if newLevel > nrLevels-1 {
				newLevel = nrLevels - 1
			}

			for count := 0; count < promoteTarget && !l.empty(); count++ {
				idx := l.back()
				l.erase(mq.blocks, idx)
				mq.blocks[idx].Level = newLevel
				promotes[newLevel].pushFront(mq.blocks, idx)
			}
		}

		if level > 0 {
			demoteTarget := target
			if level == nrLevels-1 {
				demoteTarget *= 2
			}

			jump := mq.jump(demoteTarget, targetPerLevel)
			newLevel := 0
			if jump <= level {
				newLevel = level - jump
			}

			for count := 0; count < demoteTarget && !l.empty(); count++ {
				idx := l.front()
				l.erase(mq.blocks, idx)
				mq.blocks[idx].Level = newLevel
				demotes[newLevel].pushBack(mq.blocks, idx)
			}
		}
	}

	for level := 0; level < nrLevels; level++ {
		mq.levels[level].spliceFront(mq.blocks, &promotes[level])
		mq.levels[level].spliceBack(mq.blocks, &demotes[level])
	}

	mq.autotuneHits = 0
	mq.autotuneMisses = 0
}

// jump computes how many levels a batch of size target should cross,
// recording an overfull shuffle when that is more than one level. A zero
// targetPerLevel (more levels than blocks) falls back to a single-level
// jump rather than dividing by zero.
func (mq *MultiQueue) jump(target, targetPerLevel int) int {
	j := 1
	if targetPerLevel > 0 {
		if v := target / targetPerLevel; v > j {
			j = v
		}
	}
	if j > 1 {
		mq.autotuneOverfull = true
	}
	return j
}

// GetAutotuneAdjustment derives the next Shuffle adjustment from the
// hit/miss counts accumulated since the last Shuffle call (ClearHits does
// not reset them): a
// rising miss ratio calls for a larger adjustment, clamped to
// (NumBlocks/NumLevels)/4 at the top and 1 at the bottom. If no hits have
// been recorded since the last reset, the miss ratio is undefined; rather
// than propagate a NaN, that case saturates to the cap.
func (mq *MultiQueue) GetAutotuneAdjustment() int {
	maxAdjustment := (len(mq.blocks) / len(mq.levels)) / 4
	if maxAdjustment < 1 {
		maxAdjustment = 1
	}

	if mq.autotuneHits == 0 {
		return maxAdjustment
	}

	missRatio := float64(mq.autotuneMisses) / float64(mq.autotuneHits)
	missRatio = (missRatio-1.0)*4.0 + 1.0
	if missRatio > float64(maxAdjustment) {
		missRatio = float64(maxAdjustment)
	}
	if missRatio < 1.0 {
		missRatio = 1.0
	}
	return int(math.Floor(missRatio))
}

// ShuffleWithAutotune runs Shuffle using GetAutotuneAdjustment's result.
func (mq *MultiQueue) ShuffleWithAutotune() {
	mq.Shuffle(mq.GetAutotuneAdjustment())
}

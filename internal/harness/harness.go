// Package harness reproduces the experiment suite the engine was designed
// against: it drives sampled hit traffic through one or more multiqueues
// and records how level populations, hit analyses, and autotune behavior
// evolve over successive generations.
package harness

import (
	"context"
	"math/rand"

	"go.opentelemetry.io/otel"

	"github.com/jthornber/smq/internal/smq"
	"github.com/jthornber/smq/pkg/collections"
	"github.com/jthornber/smq/pkg/parallel"
	"github.com/jthornber/smq/pkg/sampler"
	"github.com/jthornber/smq/pkg/utils"
	"github.com/jthornber/smq/pkg/writer"
)

// Standard experiment parameters, carried over from the original harness.
const (
	DefaultNrBlocks          = 8192
	DefaultHitsPerGeneration = 10000
	DefaultNrGenerations     = 100
	// SwitchingNrGenerations is used by experiments that alternate between
	// two PDFs, switching every SwitchingNrGenerations generations.
	SwitchingNrGenerations = 50
	DefaultLevels          = 64
)

// LevelSweep is the set of level counts used by experiments that compare
// engines of different granularity against the same workload.
var LevelSweep = []int{1, 2, 4, 8, 16, 32, 64, 128}

// AdjustmentSweep is the set of shuffle adjustments used by
// HitsVsAdjustments.
var AdjustmentSweep = []int{1, 2, 4, 8}

var tracer = otel.Tracer("smqctl/harness")

// Harness runs experiments and writes their output through a DatWriter,
// logging progress and timing each phase.
type Harness struct {
	NrBlocks          int
	HitsPerGeneration int
	NrGenerations     int

	Logger     utils.Logger
	PoolConfig parallel.PoolConfig

	writer     *writer.DatWriter
	samplePool *collections.SlicePool[int]
}

// New builds a Harness with the standard parameters, a worker pool sized by
// parallel.DefaultPoolConfig, and the given logger (nil is fine; log calls
// become no-ops via utils.NullLogger).
func New(logger utils.Logger) *Harness {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Harness{
		NrBlocks:          DefaultNrBlocks,
		HitsPerGeneration: DefaultHitsPerGeneration,
		NrGenerations:     DefaultNrGenerations,
		Logger:            logger,
		PoolConfig:        parallel.DefaultPoolConfig(),
		writer:            writer.NewDatWriter(),
		samplePool:        collections.NewSlicePool[int](DefaultHitsPerGeneration),
	}
}

// newSampler builds a sampler over NrBlocks bins from pdf, using rng (or a
// freshly seeded one if nil).
func (h *Harness) newSampler(pdf sampler.PDF, rng *rand.Rand) *sampler.Sampler {
	return sampler.New(h.NrBlocks, pdf, rng)
}

// hitAll draws HitsPerGeneration samples from s and applies every one to
// every multiqueue in mqs. The sample sequence is drawn once and replayed
// identically against each multiqueue; applying it is embarrassingly
// parallel across mqs since each multiqueue owns its own block arena, so
// independent queues are fanned out across the worker pool.
func (h *Harness) hitAll(ctx context.Context, s *sampler.Sampler, mqs []*smq.MultiQueue) {
	samples := h.samplePool.Get()
	defer h.samplePool.Put(samples)

	for i := 0; i < h.HitsPerGeneration; i++ {
		*samples = append(*samples, s.Sample())
	}

	parallel.ForEach(ctx, mqs, h.PoolConfig, func(_ context.Context, mq *smq.MultiQueue) error {
		for _, v := range *samples {
			mq.Hit(v)
		}
		return nil
	})
}

// runChangingPDF picks which of two samplers is active for generation,
// switching every SwitchingNrGenerations generations starting on s2.
func (h *Harness) runChangingPDF(generation int, s1, s2 *sampler.Sampler) *sampler.Sampler {
	if (generation/SwitchingNrGenerations)&1 != 0 {
		return s1
	}
	return s2
}

func ratio(hitsInLevels, hitsActual uint64) float64 {
	if hitsActual == 0 {
		return 0
	}
	return float64(hitsInLevels) / float64(hitsActual)
}

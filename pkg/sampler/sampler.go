// Package sampler draws weighted random bin indices from an arbitrary
// probability density function, the workload generator used to drive
// synthetic hit traffic against a multiqueue.
package sampler

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// PDF computes the (unnormalised) density at a point alpha in [0, 1). It is
// evaluated once per bin to build the sampler's distribution.
type PDF func(alpha float64) float64

// Sampler draws bin indices in [0, NumBins()) according to a PDF, via
// inverse-CDF sampling over a precomputed cumulative table.
type Sampler struct {
	rng       *rand.Rand
	pdf       []float64
	summation []float64
}

// New builds a Sampler over nrBins bins, evaluating gen at nrBins evenly
// spaced points across [0, 1), normalising the resulting weights, and
// precomputing their cumulative sum for sampling.
//
// rng may be nil, in which case a new source seeded from the global
// math/rand generator is used; tests that need determinism should pass
// their own.
func New(nrBins int, gen PDF, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	s := &Sampler{
		rng:       rng,
		pdf:       make([]float64, nrBins),
		summation: make([]float64, nrBins),
	}

	s.calcPDF(gen)
	s.normalisePDF()
	s.calcSummation()

	return s
}

func (s *Sampler) calcPDF(gen PDF) {
	nrBins := len(s.pdf)
	for i := 0; i < nrBins; i++ {
		alpha := float64(i) / float64(nrBins)
		s.pdf[i] = gen(alpha)
	}
}

// normalisePDF rescales pdf so it sums to 1. A PDF whose total weight is
// negligible (below 1e-5) is left untouched rather than divided by
// something close to zero.
func (s *Sampler) normalisePDF() {
	total := floats.Sum(s.pdf)

	if total > 0.00001 {
		for i := range s.pdf {
			s.pdf[i] /= total
		}
	}
}

func (s *Sampler) calcSummation() {
	total := 0.0
	for i, v := range s.pdf {
		total += v
		s.summation[i] = total
	}
}

// Sample draws a bin index weighted by the configured PDF, via binary
// search over the cumulative table (the Go analogue of std::lower_bound).
func (s *Sampler) Sample() int {
	r := s.rng.Float64()
	index := sort.SearchFloat64s(s.summation, r)
	if index >= len(s.summation) {
		index--
	}
	return index
}

// NumBins returns the number of bins this sampler was built with.
func (s *Sampler) NumBins() int { return len(s.pdf) }

// PDF returns the normalised probability density table.
func (s *Sampler) PDF() []float64 { return s.pdf }

// Summation returns the cumulative sum of PDF, the table Sample searches.
func (s *Sampler) Summation() []float64 { return s.summation }

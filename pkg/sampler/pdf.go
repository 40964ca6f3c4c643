package sampler

import "gonum.org/v1/gonum/stat/distuv"

// ConstantPDF is a uniform density, returning the same weight everywhere.
func ConstantPDF(alpha float64) float64 {
	return 1.0
}

// GaussianPDF returns a PDF evaluating the normal density with the given
// mean and standard deviation at alpha, via gonum's distuv.Normal.
func GaussianPDF(mean, deviation float64) PDF {
	dist := distuv.Normal{Mu: mean, Sigma: deviation}
	return func(alpha float64) float64 {
		return dist.Prob(alpha)
	}
}

// MixturePDF sums any number of component PDFs into a single one, the
// shape used to build multi-peaked workloads out of several Gaussians (and
// optionally a constant floor).
func MixturePDF(components ...PDF) PDF {
	return func(alpha float64) float64 {
		total := 0.0
		for _, c := range components {
			total += c(alpha)
		}
		return total
	}
}

// ScaledPDF multiplies the output of base by weight, used to give mixture
// components different relative heights.
func ScaledPDF(base PDF, weight float64) PDF {
	return func(alpha float64) float64 {
		return weight * base(alpha)
	}
}

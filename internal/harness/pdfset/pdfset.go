// Package pdfset holds the two named workload shapes the harness drives
// experiments with: a fixed mixture of Gaussians representing a stable hot
// set, and a second mixture used to simulate a workload shift.
package pdfset

import "github.com/jthornber/smq/pkg/sampler"

// Primary is a three-peaked workload: a narrow hot spike at alpha=0.5, a
// broader warm region at alpha=0.1, a wide region at alpha=0.8, and a small
// constant floor so every bin gets occasional traffic.
func Primary() sampler.PDF {
	return sampler.MixturePDF(
		sampler.GaussianPDF(0.5, 0.02),
		sampler.GaussianPDF(0.1, 0.05),
		sampler.GaussianPDF(0.8, 0.1),
		sampler.ScaledPDF(sampler.ConstantPDF, 0.01),
	)
}

// Secondary is a differently shaped mixture used to simulate the working
// set shifting: the hottest peak moves to alpha=0.3, a smaller peak
// remains near the old hot spot, and a third peak near alpha=0.8 is
// de-emphasised.
func Secondary() sampler.PDF {
	return sampler.MixturePDF(
		sampler.ScaledPDF(sampler.GaussianPDF(0.6, 0.02), 0.3),
		sampler.GaussianPDF(0.3, 0.05),
		sampler.ScaledPDF(sampler.GaussianPDF(0.8, 0.1), 0.1),
		sampler.ScaledPDF(sampler.ConstantPDF, 0.01),
	)
}

package results

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MeanCI returns the mean of values and the half-width of the
// two-sided confidence interval at the given level, computed from the
// Student's t-distribution with n-1 degrees of freedom. Fewer than two
// values yield a zero interval.
func MeanCI(values []float64, confidence float64) (mean, halfWidth float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	mean = stat.Mean(values, nil)
	if n < 2 {
		return mean, 0
	}

	sd := stat.StdDev(values, nil)
	if sd == 0 {
		return mean, 0
	}

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}
	crit := t.Quantile(0.5 + confidence/2)
	return mean, crit * sd / math.Sqrt(float64(n))
}

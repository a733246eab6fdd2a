package probe

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/23skdu/longbow-probe/internal/logger"
)

const nearZeroVariance = 1e-10

// Diagnose logs read-only statistics over an extraction: near-zero
// variance feature count, global value range, label distribution, and for
// two-class tasks a between/total variance separability ratio. It never
// alters control flow.
func Diagnose(task string, layer int, ext *Extraction, numClasses int) {
	n, d := ext.X.Dims()

	flat := ext.X.RawMatrix().Data
	globalMin, globalMax := math.Inf(1), math.Inf(-1)
	for _, v := range flat {
		if v < globalMin {
			globalMin = v
		}
		if v > globalMax {
			globalMax = v
		}
	}
	globalMean := stat.Mean(flat, nil)
	globalStd := stat.StdDev(flat, nil)

	lowVar := 0
	for j := 0; j < d; j++ {
		if stat.Variance(mat.Col(nil, j, ext.X), nil) < nearZeroVariance {
			lowVar++
		}
	}

	counts := make([]int, numClasses)
	for _, y := range ext.Labels {
		counts[y]++
	}

	logger.Log.Info("activation diagnostics",
		"task", task,
		"layer", layer,
		"examples", n,
		"dims", d,
		"mean", globalMean,
		"std", globalStd,
		"min", globalMin,
		"max", globalMax,
		"near_zero_variance_dims", lowVar,
		"label_counts", counts)

	if numClasses == 2 {
		logger.Log.Info("class separability",
			"task", task,
			"layer", layer,
			"ratio", SeparabilityRatio(ext.X, ext.Labels))
	}
}

// SeparabilityRatio computes between-class variance over total variance,
// averaged across dimensions, for a two-class extraction. Values near
// zero mean the class means are indistinguishable.
func SeparabilityRatio(X *mat.Dense, y []int) float64 {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return 0
	}

	ratioSum := 0.0
	used := 0
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, X)

		mean := stat.Mean(col, nil)
		total := 0.0
		for _, v := range col {
			total += (v - mean) * (v - mean)
		}
		total /= float64(n)
		if total < nearZeroVariance {
			continue
		}

		var sum0, sum1 float64
		var n0, n1 int
		for i, v := range col {
			if y[i] == 0 {
				sum0 += v
				n0++
			} else {
				sum1 += v
				n1++
			}
		}
		if n0 == 0 || n1 == 0 {
			continue
		}
		m0 := sum0 / float64(n0)
		m1 := sum1 / float64(n1)
		between := (float64(n0)*(m0-mean)*(m0-mean) + float64(n1)*(m1-mean)*(m1-mean)) / float64(n)

		ratioSum += between / total
		used++
	}

	if used == 0 {
		return 0
	}
	return ratioSum / float64(used)
}

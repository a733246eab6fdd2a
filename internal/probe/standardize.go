package probe

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/metrics"
)

// Standardize z-scores each column of X using statistics fit on X itself.
// This is a within-sample transform: downstream metrics describe the
// decodability of this sample, not generalization. Zero-variance columns
// pass through centered only; they are counted as a degeneracy but do not
// stop the run.
func Standardize(X *mat.Dense) *mat.Dense {
	n, d := X.Dims()
	out := mat.NewDense(n, d, nil)

	degenerate := 0
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, X)

		mean := 0.0
		for _, v := range col {
			mean += v
		}
		mean /= float64(n)

		variance := 0.0
		for _, v := range col {
			dev := v - mean
			variance += dev * dev
		}
		variance /= float64(n)
		std := math.Sqrt(variance)

		if std == 0 {
			degenerate++
			std = 1
		}
		for i, v := range col {
			out.Set(i, j, (v-mean)/std)
		}
	}

	if degenerate > 0 {
		logger.Log.Warn("zero-variance features", "count", degenerate, "total", d)
		metrics.NumericDegeneracy.WithLabelValues("zero_variance").Add(float64(degenerate))
	}

	return out
}

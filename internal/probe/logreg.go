package probe

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/metrics"
)

// Iteration cap for the classifier. Generous so fits converge reliably;
// hitting it is logged as a degeneracy, never an error.
const logregMaxIter = 2000

const (
	logregLearnRate = 0.5
	logregTol       = 1e-7
	logregL2        = 1e-4
)

// fitPredict trains a multinomial logistic-regression probe on X against
// y and returns its predictions on the same rows. In-sample evaluation is
// the point: the probe measures fit capacity, not generalization. Weight
// initialization is the only stochastic step and is driven by seed.
func fitPredict(X *mat.Dense, y []int, numClasses int, seed int64) []int {
	n, d := X.Dims()
	rng := rand.New(rand.NewSource(seed))

	// One weight row per class, plus bias in the last column.
	w := make([][]float64, numClasses)
	for c := range w {
		w[c] = make([]float64, d+1)
		for j := 0; j < d; j++ {
			w[c][j] = rng.NormFloat64() * 0.01
		}
	}

	logits := make([]float64, numClasses)
	grad := make([][]float64, numClasses)
	for c := range grad {
		grad[c] = make([]float64, d+1)
	}

	prevLoss := math.Inf(1)
	converged := false

	for iter := 0; iter < logregMaxIter; iter++ {
		for c := range grad {
			for j := range grad[c] {
				grad[c][j] = 0
			}
		}

		loss := 0.0
		for i := 0; i < n; i++ {
			row := X.RawRowView(i)
			for c := 0; c < numClasses; c++ {
				z := w[c][d]
				for j, x := range row {
					z += w[c][j] * x
				}
				logits[c] = z
			}
			softmax(logits)
			loss -= math.Log(math.Max(logits[y[i]], 1e-300))

			for c := 0; c < numClasses; c++ {
				delta := logits[c]
				if c == y[i] {
					delta -= 1
				}
				for j, x := range row {
					grad[c][j] += delta * x
				}
				grad[c][d] += delta
			}
		}
		loss /= float64(n)

		for c := 0; c < numClasses; c++ {
			for j := 0; j < d; j++ {
				loss += 0.5 * logregL2 * w[c][j] * w[c][j]
				grad[c][j] = grad[c][j]/float64(n) + logregL2*w[c][j]
				w[c][j] -= logregLearnRate * grad[c][j]
			}
			w[c][d] -= logregLearnRate * grad[c][d] / float64(n)
		}

		if math.Abs(prevLoss-loss) < logregTol {
			converged = true
			break
		}
		prevLoss = loss
	}

	if !converged {
		logger.Log.Debug("classifier hit iteration cap", "max_iter", logregMaxIter)
		metrics.NumericDegeneracy.WithLabelValues("non_convergence").Inc()
	}

	pred := make([]int, n)
	for i := 0; i < n; i++ {
		row := X.RawRowView(i)
		best, bestZ := 0, math.Inf(-1)
		for c := 0; c < numClasses; c++ {
			z := w[c][d]
			for j, x := range row {
				z += w[c][j] * x
			}
			if z > bestZ {
				best, bestZ = c, z
			}
		}
		pred[i] = best
	}
	return pred
}

func softmax(z []float64) {
	maxZ := z[0]
	for _, v := range z[1:] {
		if v > maxZ {
			maxZ = v
		}
	}
	sum := 0.0
	for i, v := range z {
		z[i] = math.Exp(v - maxZ)
		sum += z[i]
	}
	for i := range z {
		z[i] /= sum
	}
}

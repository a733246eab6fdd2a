package probe

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/metrics"
)

// Result is the outcome of one probe fit.
type Result struct {
	MutualInformation float64
	Accuracy          float64
	F1                float64
	NFeatures         int
}

// PCAOutcome carries per-component variance alongside the per-run probe
// metrics.
type PCAOutcome struct {
	ExplainedVariance  []float64
	CumulativeVariance []float64
	Runs               []Result
}

// PCAProbe standardizes X, fits a PCA once, projects onto nComponents,
// then trains nRuns classifiers that differ only in their init seed
// (seed+run). Evaluation is in-sample throughout.
func PCAProbe(task string, X *mat.Dense, y []int, numClasses, nComponents, nRuns int, seed int64) (*PCAOutcome, error) {
	n, d := X.Dims()
	if nComponents > d {
		logger.Log.Warn("clamping n_components", "requested", nComponents, "dims", d)
		nComponents = d
	}
	if max := min(n, d); nComponents > max {
		metrics.NumericDegeneracy.WithLabelValues("rank_deficient").Inc()
		nComponents = max
	}

	Xs := Standardize(X)

	var pc stat.PC
	if ok := pc.PrincipalComponents(Xs, nil); !ok {
		return nil, fmt.Errorf("PCA decomposition failed (n=%d, d=%d)", n, d)
	}

	vars := pc.VarsTo(nil)
	total := 0.0
	for _, v := range vars {
		total += v
	}

	out := &PCAOutcome{
		ExplainedVariance:  make([]float64, nComponents),
		CumulativeVariance: make([]float64, nComponents),
	}
	cum := 0.0
	for i := 0; i < nComponents; i++ {
		ratio := 0.0
		if total > 0 {
			ratio = vars[i] / total
		}
		cum += ratio
		out.ExplainedVariance[i] = ratio
		out.CumulativeVariance[i] = cum
	}

	var vec mat.Dense
	pc.VectorsTo(&vec)
	var proj mat.Dense
	proj.Mul(Xs, vec.Slice(0, d, 0, nComponents))
	reduced := mat.DenseCopyOf(&proj)

	for run := 0; run < nRuns; run++ {
		start := time.Now()
		pred := fitPredict(reduced, y, numClasses, seed+int64(run))
		metrics.ProbeDuration.WithLabelValues("pca").Observe(time.Since(start).Seconds())
		metrics.ProbeRunsTotal.WithLabelValues(task, "pca").Inc()

		out.Runs = append(out.Runs, Result{
			MutualInformation: MutualInformation(y, pred, numClasses),
			Accuracy:          Accuracy(y, pred),
			F1:                MacroF1(y, pred, numClasses),
			NFeatures:         nComponents,
		})
	}

	logger.Log.Debug("pca probe done",
		"task", task,
		"components", nComponents,
		"cumulative_variance", out.CumulativeVariance[nComponents-1],
		"runs", nRuns)

	return out, nil
}

package probe

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/23skdu/longbow-probe/internal/config"
	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/metrics"
)

// Bounded attempts at drawing a subset not seen earlier in the same run.
// A duplicate is accepted rather than failing the trial.
const duplicateAttempts = 1000

// RandomSpec parameterizes the random-baseline subset sizing.
type RandomSpec struct {
	NSubsets int
	Policy   config.SizePolicy
	// FixedRatio gives size = D/FixedRatio under PolicyFixed.
	FixedRatio int
	// Mean and Std drive PolicyGaussian; Mean 0 means D/20, Std 0 means 5.
	Mean int
	Std  int
}

// RandomProbe is the null comparator: instead of PCA components it trains
// one classifier per randomly drawn raw feature subset, with the same
// standardization and in-sample evaluation as the PCA path. Every trial
// is seeded by seed+trial so reruns reproduce the same subsets.
func RandomProbe(task string, X *mat.Dense, y []int, numClasses int, spec RandomSpec, seed int64) ([]Result, error) {
	_, d := X.Dims()
	if d == 0 {
		return nil, fmt.Errorf("activation matrix has no features")
	}

	Xs := Standardize(X)

	seen := make(map[string]bool, spec.NSubsets)
	results := make([]Result, 0, spec.NSubsets)

	for trial := 0; trial < spec.NSubsets; trial++ {
		rng := rand.New(rand.NewSource(seed + int64(trial)))
		size := subsetSize(rng, d, spec)

		var cols []int
		for attempt := 0; ; attempt++ {
			cols = rng.Perm(d)[:size]
			sort.Ints(cols)
			key := fmt.Sprint(cols)
			if !seen[key] {
				seen[key] = true
				break
			}
			if attempt+1 >= duplicateAttempts {
				logger.Log.Warn("accepting duplicate feature subset",
					"trial", trial, "attempts", duplicateAttempts)
				break
			}
		}

		sub := selectColumns(Xs, cols)

		start := time.Now()
		pred := fitPredict(sub, y, numClasses, seed+int64(trial))
		metrics.ProbeDuration.WithLabelValues("random").Observe(time.Since(start).Seconds())
		metrics.ProbeRunsTotal.WithLabelValues(task, "random").Inc()

		results = append(results, Result{
			MutualInformation: MutualInformation(y, pred, numClasses),
			Accuracy:          Accuracy(y, pred),
			F1:                MacroF1(y, pred, numClasses),
			NFeatures:         size,
		})
	}

	logger.Log.Debug("random probe done",
		"task", task,
		"policy", spec.Policy.String(),
		"trials", len(results))

	return results, nil
}

// subsetSize realizes one trial's feature count under the active policy,
// clamped so it never exceeds the available columns.
func subsetSize(rng *rand.Rand, d int, spec RandomSpec) int {
	var size int
	switch spec.Policy {
	case config.PolicyFixed:
		ratio := spec.FixedRatio
		if ratio <= 0 {
			ratio = 20
		}
		size = d / ratio
	case config.PolicyUniform:
		size = 1 + rng.Intn(d)
	default:
		mean := float64(spec.Mean)
		if spec.Mean == 0 {
			mean = float64(d) / 20
		}
		std := float64(spec.Std)
		if spec.Std == 0 {
			std = 5
		}
		size = int(math.Round(rng.NormFloat64()*std + mean))
		lo := 10
		if lo > d {
			lo = 1
		}
		if size < lo {
			size = lo
		}
	}

	if size < 1 {
		size = 1
	}
	if size > d {
		size = d
	}
	return size
}

func selectColumns(X *mat.Dense, cols []int) *mat.Dense {
	n, _ := X.Dims()
	out := mat.NewDense(n, len(cols), nil)
	for i := 0; i < n; i++ {
		row := X.RawRowView(i)
		for j, c := range cols {
			out.Set(i, j, row[c])
		}
	}
	return out
}

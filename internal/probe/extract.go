package probe

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/23skdu/longbow-probe/internal/dataset"
	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/metrics"
)

// ActivationSource is the model surface the extractor needs: tokenize,
// decode single tokens, and run one cached forward pass.
type ActivationSource interface {
	ToTokens(text string) []int
	TokenString(id int) string
	RunWithCache(tokens []int, layers []int, hook string) (map[int][][]float32, error)
}

// Extraction is the aligned output for one (task, layer) pair: row i of X
// and Labels[i] both belong to the i-th non-skipped example in dataset
// order.
type Extraction struct {
	X      *mat.Dense
	Labels []int
}

// Extract runs src over every example of ds once and returns, per
// requested layer, the activation matrix at the target token position
// with its aligned label vector. Examples whose target word cannot be
// located are skipped with a warning. All layers come out of a single
// forward pass per example; the per-layer output is identical to running
// each layer separately.
func Extract(src ActivationSource, ds dataset.Dataset, layers []int, hook string) (map[int]*Extraction, error) {
	rows := make(map[int][][]float64, len(layers))
	var labels []int

	for i, ex := range ds.Examples {
		tokens := src.ToTokens(ex.Text)

		pos, err := Locate(tokens, src.TokenString, ex.Text, ex.TargetWord)
		if err != nil {
			if errors.Is(err, ErrTargetNotFound) {
				logger.Log.Warn("skipping example",
					"task", ds.Task,
					"index", i,
					"target", ex.TargetWord,
					"error", err)
				metrics.ExamplesSkipped.WithLabelValues(ds.Task).Inc()
				continue
			}
			return nil, err
		}

		cache, err := src.RunWithCache(tokens, layers, hook)
		if err != nil {
			return nil, fmt.Errorf("forward pass failed on example %d: %w", i, err)
		}

		for _, l := range layers {
			acts, ok := cache[l]
			if !ok || pos >= len(acts) {
				return nil, fmt.Errorf("layer %d missing position %d in cache", l, pos)
			}
			vec := make([]float64, len(acts[pos]))
			for j, v := range acts[pos] {
				vec[j] = float64(v)
			}
			rows[l] = append(rows[l], vec)
		}
		labels = append(labels, ex.Label)
		metrics.ExamplesExtracted.WithLabelValues(ds.Task).Inc()
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("no examples extracted for task %s", ds.Task)
	}

	out := make(map[int]*Extraction, len(layers))
	for _, l := range layers {
		d := len(rows[l][0])
		x := mat.NewDense(len(rows[l]), d, nil)
		for r, vec := range rows[l] {
			x.SetRow(r, vec)
		}
		out[l] = &Extraction{X: x, Labels: labels}
	}

	logger.Log.Debug("extraction complete",
		"task", ds.Task,
		"examples", len(labels),
		"skipped", len(ds.Examples)-len(labels),
		"layers", len(layers))

	return out, nil
}

package probe

import "math"

// Accuracy is the fraction of predictions matching the true labels.
func Accuracy(truth, pred []int) float64 {
	if len(truth) == 0 {
		return 0
	}
	correct := 0
	for i, t := range truth {
		if pred[i] == t {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}

// MacroF1 averages per-class F1 over every class present in either the
// truth or the predictions. Classes with no support and no predictions
// contribute zero, matching the usual macro convention.
func MacroF1(truth, pred []int, numClasses int) float64 {
	if len(truth) == 0 || numClasses == 0 {
		return 0
	}

	tp := make([]float64, numClasses)
	fp := make([]float64, numClasses)
	fn := make([]float64, numClasses)
	for i, t := range truth {
		p := pred[i]
		if p == t {
			tp[t]++
		} else {
			fp[p]++
			fn[t]++
		}
	}

	sum := 0.0
	for c := 0; c < numClasses; c++ {
		denom := 2*tp[c] + fp[c] + fn[c]
		if denom > 0 {
			sum += 2 * tp[c] / denom
		}
	}
	return sum / float64(numClasses)
}

// MutualInformation computes I(truth; pred) in nats from the empirical
// joint distribution of labels and point predictions.
func MutualInformation(truth, pred []int, numClasses int) float64 {
	n := len(truth)
	if n == 0 {
		return 0
	}

	joint := make([][]float64, numClasses)
	for c := range joint {
		joint[c] = make([]float64, numClasses)
	}
	pTruth := make([]float64, numClasses)
	pPred := make([]float64, numClasses)

	inv := 1.0 / float64(n)
	for i, t := range truth {
		p := pred[i]
		joint[t][p] += inv
		pTruth[t] += inv
		pPred[p] += inv
	}

	mi := 0.0
	for t := 0; t < numClasses; t++ {
		for p := 0; p < numClasses; p++ {
			if joint[t][p] > 0 {
				mi += joint[t][p] * math.Log(joint[t][p]/(pTruth[t]*pPred[p]))
			}
		}
	}
	if mi < 0 {
		mi = 0
	}
	return mi
}

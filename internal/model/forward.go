package model

import (
	"fmt"
	"math"
	"time"

	"github.com/23skdu/longbow-probe/internal/metrics"
)

// RunWithCache runs one full-sequence forward pass and returns, for each
// requested layer, the residual stream at the given hook: one Dim-length
// vector per token position. The returned slices are copies; callers may
// keep them across calls.
func (e *Engine) RunWithCache(tokens []int, layers []int, hook string) (map[int][][]float32, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty token sequence")
	}
	if hook != HookResidPre && hook != HookResidPost {
		return nil, fmt.Errorf("unknown hook %q", hook)
	}
	wanted := make(map[int]bool, len(layers))
	for _, l := range layers {
		if l < 0 || l >= e.Params.Layers {
			return nil, fmt.Errorf("layer %d out of range [0, %d)", l, e.Params.Layers)
		}
		wanted[l] = true
	}

	defer metrics.ObserveForward(time.Now())

	p := e.Params
	seq := len(tokens)

	// Residual stream, one row per position.
	hidden := make([][]float32, seq)
	for pos, tok := range tokens {
		hidden[pos] = make([]float32, p.Dim)
		if tok >= 0 && (tok+1)*p.Dim <= len(e.TokenEmb) {
			copy(hidden[pos], e.TokenEmb[tok*p.Dim:(tok+1)*p.Dim])
		}
	}

	cache := make(map[int][][]float32, len(wanted))
	snapshot := func(layer int) {
		rows := make([][]float32, seq)
		for pos := range hidden {
			rows[pos] = append([]float32(nil), hidden[pos]...)
		}
		cache[layer] = rows
	}

	kvDim := p.KVHeads * p.HeadDim
	groups := p.Heads / p.KVHeads

	for l := 0; l < p.Layers; l++ {
		if wanted[l] && hook == HookResidPre {
			snapshot(l)
		}

		blk := &e.Blocks[l]

		// Attention
		q := make([][]float32, seq)
		k := make([][]float32, seq)
		v := make([][]float32, seq)
		for pos := 0; pos < seq; pos++ {
			x := rmsNorm(hidden[pos], blk.AttnNorm, p.Eps)
			q[pos] = matVec(blk.Wq, x, p.Dim, p.Dim)
			k[pos] = matVec(blk.Wk, x, p.Dim, kvDim)
			v[pos] = matVec(blk.Wv, x, p.Dim, kvDim)
			applyRope(q[pos], pos, p.Heads, p.HeadDim, p.RopeTheta)
			applyRope(k[pos], pos, p.KVHeads, p.HeadDim, p.RopeTheta)
		}

		scale := 1.0 / math.Sqrt(float64(p.HeadDim))
		for pos := 0; pos < seq; pos++ {
			attnOut := make([]float32, p.Dim)
			for h := 0; h < p.Heads; h++ {
				kvHead := h / groups
				qOff := h * p.HeadDim
				kvOff := kvHead * p.HeadDim

				// Causal scores over positions <= pos
				scores := make([]float64, pos+1)
				for t := 0; t <= pos; t++ {
					dot := 0.0
					for i := 0; i < p.HeadDim; i++ {
						dot += float64(q[pos][qOff+i]) * float64(k[t][kvOff+i])
					}
					scores[t] = dot * scale
				}
				softmaxInPlace(scores)

				for t := 0; t <= pos; t++ {
					w := float32(scores[t])
					for i := 0; i < p.HeadDim; i++ {
						attnOut[qOff+i] += w * v[t][kvOff+i]
					}
				}
			}

			proj := matVec(blk.Wo, attnOut, p.Dim, p.Dim)
			for i := range hidden[pos] {
				hidden[pos][i] += proj[i]
			}
		}

		// SwiGLU FFN
		for pos := 0; pos < seq; pos++ {
			x := rmsNorm(hidden[pos], blk.FfnNorm, p.Eps)
			gate := matVec(blk.Wgate, x, p.Dim, p.HiddenDim)
			up := matVec(blk.Wup, x, p.Dim, p.HiddenDim)
			for i := range gate {
				gate[i] = silu(gate[i]) * up[i]
			}
			down := matVec(blk.Wdown, gate, p.HiddenDim, p.Dim)
			for i := range hidden[pos] {
				hidden[pos][i] += down[i]
			}
		}

		if wanted[l] && hook == HookResidPost {
			snapshot(l)
		}
	}

	return cache, nil
}

// matVec computes w·x where w is row-major (out rows of length in), the
// GGUF layout for 2D tensors.
func matVec(w, x []float32, in, out int) []float32 {
	y := make([]float32, out)
	for o := 0; o < out; o++ {
		row := w[o*in : (o+1)*in]
		sum := float64(0)
		for i, xi := range x {
			sum += float64(row[i]) * float64(xi)
		}
		y[o] = float32(sum)
	}
	return y
}

func rmsNorm(x, weight []float32, eps float32) []float32 {
	ss := float64(0)
	for _, v := range x {
		ss += float64(v) * float64(v)
	}
	inv := 1.0 / math.Sqrt(ss/float64(len(x))+float64(eps))

	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(float64(v)*inv) * weight[i]
	}
	return out
}

// applyRope rotates query/key pairs in the neox interleaving (pair i with
// i + headDim/2 inside each head).
func applyRope(x []float32, pos, heads, headDim int, theta float32) {
	half := headDim / 2
	for h := 0; h < heads; h++ {
		off := h * headDim
		for i := 0; i < half; i++ {
			freq := 1.0 / math.Pow(float64(theta), float64(2*i)/float64(headDim))
			angle := float64(pos) * freq
			sin, cos := math.Sincos(angle)

			a := float64(x[off+i])
			b := float64(x[off+i+half])
			x[off+i] = float32(a*cos - b*sin)
			x[off+i+half] = float32(a*sin + b*cos)
		}
	}
}

func softmaxInPlace(scores []float64) {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	sum := 0.0
	for i, s := range scores {
		scores[i] = math.Exp(s - maxScore)
		sum += scores[i]
	}
	for i := range scores {
		scores[i] /= sum
	}
}

func silu(x float32) float32 {
	return float32(float64(x) / (1.0 + math.Exp(-float64(x))))
}

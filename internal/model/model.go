package model

import (
	"fmt"

	"github.com/23skdu/longbow-probe/internal/gguf"
	"github.com/23skdu/longbow-probe/internal/logger"
	"github.com/23skdu/longbow-probe/internal/tokenizer"
)

// Hook names addressable via RunWithCache.
const (
	HookResidPre  = "resid_pre"
	HookResidPost = "resid_post"
)

// Params describes the loaded architecture.
type Params struct {
	Dim       int
	HiddenDim int
	Layers    int
	Heads     int
	KVHeads   int
	HeadDim   int
	VocabSize int
	Eps       float32
	RopeTheta float32
}

func (p *Params) Validate() error {
	if p.Dim <= 0 {
		return fmt.Errorf("invalid dim: %d (must be positive)", p.Dim)
	}
	if p.Layers <= 0 {
		return fmt.Errorf("invalid layers: %d (must be positive)", p.Layers)
	}
	if p.Heads <= 0 {
		return fmt.Errorf("invalid heads: %d (must be positive)", p.Heads)
	}
	if p.KVHeads <= 0 || p.KVHeads > p.Heads {
		return fmt.Errorf("invalid kv_heads: %d (must be in [1, %d])", p.KVHeads, p.Heads)
	}
	if p.Heads%p.KVHeads != 0 {
		return fmt.Errorf("heads (%d) not a multiple of kv_heads (%d)", p.Heads, p.KVHeads)
	}
	if p.HeadDim <= 0 || p.Dim != p.Heads*p.HeadDim {
		return fmt.Errorf("dim mismatch: %d != heads(%d) * head_dim(%d)", p.Dim, p.Heads, p.HeadDim)
	}
	if p.HiddenDim <= 0 {
		return fmt.Errorf("invalid hidden_dim: %d (must be positive)", p.HiddenDim)
	}
	if p.VocabSize <= 0 {
		return fmt.Errorf("invalid vocab_size: %d (must be positive)", p.VocabSize)
	}
	if p.Eps <= 0 {
		return fmt.Errorf("invalid eps: %f (must be positive)", p.Eps)
	}
	if p.RopeTheta <= 0 {
		return fmt.Errorf("invalid rope_theta: %f (must be positive)", p.RopeTheta)
	}
	return nil
}

// LayerWeights holds the dense float32 weights of one transformer block.
type LayerWeights struct {
	AttnNorm []float32
	Wq       []float32
	Wk       []float32
	Wv       []float32
	Wo       []float32
	FfnNorm  []float32
	Wgate    []float32
	Wup      []float32
	Wdown    []float32
}

// Engine is a CPU activation source over a llama-style GGUF model. It runs
// full-sequence forward passes and exposes the residual stream at every
// block boundary; there is no sampling or KV cache, probing only ever
// needs one pass per example.
type Engine struct {
	Params   Params
	TokenEmb []float32
	Blocks   []LayerWeights
	Tok      *tokenizer.Tokenizer
}

// Load opens a GGUF model and dequantizes the weights the forward pass
// needs. Any failure here is fatal to the run.
func Load(path string) (*Engine, error) {
	f, err := gguf.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load GGUF: %w", err)
	}
	defer f.Close()

	arch, _ := f.KV["general.architecture"].(string)
	if arch == "" {
		arch = "llama"
	}

	params, err := readParams(f, arch)
	if err != nil {
		return nil, err
	}

	tok, err := tokenizer.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer: %w", err)
	}

	e := &Engine{
		Params: params,
		Blocks: make([]LayerWeights, params.Layers),
		Tok:    tok,
	}

	emb := f.Tensor("token_embd.weight")
	if emb == nil {
		return nil, fmt.Errorf("token_embd.weight not found")
	}
	if e.TokenEmb, err = gguf.Float32Data(emb); err != nil {
		return nil, err
	}

	for l := 0; l < params.Layers; l++ {
		blk := &e.Blocks[l]
		fields := []struct {
			name string
			dst  *[]float32
		}{
			{"attn_norm.weight", &blk.AttnNorm},
			{"attn_q.weight", &blk.Wq},
			{"attn_k.weight", &blk.Wk},
			{"attn_v.weight", &blk.Wv},
			{"attn_output.weight", &blk.Wo},
			{"ffn_norm.weight", &blk.FfnNorm},
			{"ffn_gate.weight", &blk.Wgate},
			{"ffn_up.weight", &blk.Wup},
			{"ffn_down.weight", &blk.Wdown},
		}
		for _, field := range fields {
			name := fmt.Sprintf("blk.%d.%s", l, field.name)
			t := f.Tensor(name)
			if t == nil {
				return nil, fmt.Errorf("tensor %s not found", name)
			}
			if *field.dst, err = gguf.Float32Data(t); err != nil {
				return nil, err
			}
		}
	}

	logger.Log.Info("model loaded",
		"arch", arch,
		"dim", params.Dim,
		"layers", params.Layers,
		"heads", params.Heads,
		"vocab", params.VocabSize)

	return e, nil
}

func readParams(f *gguf.File, arch string) (Params, error) {
	p := Params{
		Eps:       1e-5,
		RopeTheta: 10000.0,
	}

	key := func(suffix string) string { return arch + "." + suffix }

	var ok bool
	if p.Dim, ok = f.Uint(key("embedding_length")); !ok {
		return p, fmt.Errorf("%s not found", key("embedding_length"))
	}
	if p.Layers, ok = f.Uint(key("block_count")); !ok {
		return p, fmt.Errorf("%s not found", key("block_count"))
	}
	if p.Heads, ok = f.Uint(key("attention.head_count")); !ok {
		return p, fmt.Errorf("%s not found", key("attention.head_count"))
	}
	if p.KVHeads, ok = f.Uint(key("attention.head_count_kv")); !ok {
		p.KVHeads = p.Heads
	}
	if p.HiddenDim, ok = f.Uint(key("feed_forward_length")); !ok {
		return p, fmt.Errorf("%s not found", key("feed_forward_length"))
	}
	if eps, ok := f.Float(key("attention.layer_norm_rms_epsilon")); ok {
		p.Eps = eps
	}
	if theta, ok := f.Float(key("rope.freq_base")); ok {
		p.RopeTheta = theta
	}
	p.HeadDim = 0
	if p.Heads > 0 {
		p.HeadDim = p.Dim / p.Heads
	}

	if toks, ok := f.KV["tokenizer.ggml.tokens"].([]interface{}); ok {
		p.VocabSize = len(toks)
	}

	return p, p.Validate()
}

// ToTokens tokenizes text. No BOS is prepended: reconstruction-based
// target location needs the decoded tokens to cover exactly the text.
func (e *Engine) ToTokens(text string) []int {
	return e.Tok.Encode(text)
}

// TokenString returns the plain-text fragment one token decodes to.
func (e *Engine) TokenString(id int) string {
	return e.Tok.TokenString(id)
}

func (e *Engine) NumLayers() int { return e.Params.Layers }
func (e *Engine) Dim() int       { return e.Params.Dim }

package gguf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Float32Data dequantizes a tensor to a dense float32 slice. Only the
// formats the probing engine loads are supported; heavier k-quants are
// rejected with a clear error rather than silently misread.
func Float32Data(t *TensorInfo) ([]float32, error) {
	n := int(t.NumElements())

	switch t.Type {
	case GGMLTypeF32:
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(t.Data[i*4:]))
		}
		return out, nil
	case GGMLTypeF16:
		out := make([]float32, n)
		for i := 0; i < n; i++ {
			out[i] = Float16ToFloat32(binary.LittleEndian.Uint16(t.Data[i*2:]))
		}
		return out, nil
	case GGMLTypeQ8_0:
		return dequantizeQ8_0(t.Data, n)
	default:
		return nil, fmt.Errorf("tensor %s: unsupported quantization %s (use an f16 or q8_0 export)", t.Name, t.Type)
	}
}

// dequantizeQ8_0 decodes Q8_0 blocks: 32 weights per block, each block a
// f16 scale followed by 32 int8 quants (34 bytes).
func dequantizeQ8_0(data []byte, n int) ([]float32, error) {
	const blockWeights = 32
	const blockBytes = 34

	if n%blockWeights != 0 {
		return nil, fmt.Errorf("q8_0: element count %d not a multiple of %d", n, blockWeights)
	}
	blocks := n / blockWeights
	if len(data) < blocks*blockBytes {
		return nil, fmt.Errorf("q8_0: tensor data truncated")
	}

	out := make([]float32, n)
	for b := 0; b < blocks; b++ {
		block := data[b*blockBytes:]
		d := Float16ToFloat32(binary.LittleEndian.Uint16(block[0:2]))
		qs := block[2 : 2+blockWeights]
		for i := 0; i < blockWeights; i++ {
			out[b*blockWeights+i] = d * float32(int8(qs[i]))
		}
	}
	return out, nil
}

func Float16ToFloat32(b uint16) float32 {
	sign := uint32(b&0x8000) << 16
	exp := uint32(b&0x7C00) >> 10
	frac := uint32(b&0x03FF) << 13

	if exp == 0 {
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// subnormal
		f := float64(frac>>13) * math.Pow(2, -24)
		if sign != 0 {
			f = -f
		}
		return float32(f)
	} else if exp == 0x1F {
		if frac == 0 {
			if sign != 0 {
				return float32(math.Inf(-1))
			}
			return float32(math.Inf(1))
		}
		return float32(math.NaN())
	}

	return math.Float32frombits(sign | ((exp + 112) << 23) | frac)
}

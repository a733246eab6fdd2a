package gguf

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// ggufBuilder assembles a minimal valid GGUF v3 file for tests.
type ggufBuilder struct {
	kv      bytes.Buffer
	kvCount uint64
	info    bytes.Buffer
	tensors uint64
	data    bytes.Buffer
}

func (b *ggufBuilder) writeString(w *bytes.Buffer, s string) {
	binary.Write(w, binary.LittleEndian, uint64(len(s)))
	w.WriteString(s)
}

func (b *ggufBuilder) addKVUint32(key string, v uint32) {
	b.writeString(&b.kv, key)
	binary.Write(&b.kv, binary.LittleEndian, uint32(MetadataUint32))
	binary.Write(&b.kv, binary.LittleEndian, v)
	b.kvCount++
}

func (b *ggufBuilder) addKVFloat32(key string, v float32) {
	b.writeString(&b.kv, key)
	binary.Write(&b.kv, binary.LittleEndian, uint32(MetadataFloat32))
	binary.Write(&b.kv, binary.LittleEndian, v)
	b.kvCount++
}

func (b *ggufBuilder) addKVString(key, v string) {
	b.writeString(&b.kv, key)
	binary.Write(&b.kv, binary.LittleEndian, uint32(MetadataString))
	b.writeString(&b.kv, v)
	b.kvCount++
}

func (b *ggufBuilder) addKVStringArray(key string, vals []string) {
	b.writeString(&b.kv, key)
	binary.Write(&b.kv, binary.LittleEndian, uint32(MetadataArray))
	binary.Write(&b.kv, binary.LittleEndian, uint32(MetadataString))
	binary.Write(&b.kv, binary.LittleEndian, uint64(len(vals)))
	for _, v := range vals {
		b.writeString(&b.kv, v)
	}
	b.kvCount++
}

func (b *ggufBuilder) addTensorF32(name string, dims []uint64, data []float32) {
	b.writeString(&b.info, name)
	binary.Write(&b.info, binary.LittleEndian, uint32(len(dims)))
	for _, d := range dims {
		binary.Write(&b.info, binary.LittleEndian, d)
	}
	binary.Write(&b.info, binary.LittleEndian, uint32(GGMLTypeF32))
	binary.Write(&b.info, binary.LittleEndian, uint64(b.data.Len()))
	for _, v := range data {
		binary.Write(&b.data, binary.LittleEndian, math.Float32bits(v))
	}
	// keep each tensor 32-byte aligned within the data section
	for b.data.Len()%32 != 0 {
		b.data.WriteByte(0)
	}
	b.tensors++
}

func (b *ggufBuilder) addTensorQ8(name string, scale float32, quants []int8) {
	b.writeString(&b.info, name)
	binary.Write(&b.info, binary.LittleEndian, uint32(1))
	binary.Write(&b.info, binary.LittleEndian, uint64(len(quants)))
	binary.Write(&b.info, binary.LittleEndian, uint32(GGMLTypeQ8_0))
	binary.Write(&b.info, binary.LittleEndian, uint64(b.data.Len()))

	for blk := 0; blk < len(quants)/32; blk++ {
		binary.Write(&b.data, binary.LittleEndian, float32ToFloat16(scale))
		for _, q := range quants[blk*32 : blk*32+32] {
			b.data.WriteByte(byte(q))
		}
	}
	for b.data.Len()%32 != 0 {
		b.data.WriteByte(0)
	}
	b.tensors++
}

func (b *ggufBuilder) writeTo(t *testing.T, path string) {
	t.Helper()
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, uint32(GGUFMagic))
	binary.Write(&out, binary.LittleEndian, uint32(3))
	binary.Write(&out, binary.LittleEndian, b.tensors)
	binary.Write(&out, binary.LittleEndian, b.kvCount)
	out.Write(b.kv.Bytes())
	out.Write(b.info.Bytes())
	for out.Len()%32 != 0 {
		out.WriteByte(0)
	}
	out.Write(b.data.Bytes())

	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write test gguf: %v", err)
	}
}

// float32ToFloat16 is a narrow test-only encoder, only exact for small
// values like the scales used here.
func float32ToFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & 0x8000
	exp := int32((bits>>23)&0xFF) - 127 + 15
	frac := uint16(bits>>13) & 0x3FF
	if exp <= 0 {
		return sign
	}
	return sign | uint16(exp)<<10 | frac
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gguf")

	b := &ggufBuilder{}
	b.addKVString("general.architecture", "llama")
	b.addKVUint32("llama.block_count", 2)
	b.addKVUint32("llama.embedding_length", 8)
	b.addKVFloat32("llama.attention.layer_norm_rms_epsilon", 1e-5)
	b.addKVStringArray("tokenizer.ggml.tokens", []string{"<unk>", "The", "Ġcat"})
	emb := []float32{0.5, -0.25, 1, 2, 3, 4, 5, 6}
	b.addTensorF32("token_embd.weight", []uint64{8, 1}, emb)
	b.writeTo(t, path)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	defer f.Close()

	if f.Header.Version != 3 {
		t.Errorf("expected version 3, got %d", f.Header.Version)
	}
	if arch, _ := f.KV["general.architecture"].(string); arch != "llama" {
		t.Errorf("expected architecture llama, got %v", f.KV["general.architecture"])
	}
	if v, ok := f.Uint("llama.block_count"); !ok || v != 2 {
		t.Errorf("expected block_count 2, got %v ok=%v", v, ok)
	}
	if eps, ok := f.Float("llama.attention.layer_norm_rms_epsilon"); !ok || eps != 1e-5 {
		t.Errorf("expected eps 1e-5, got %v ok=%v", eps, ok)
	}

	toks, ok := f.KV["tokenizer.ggml.tokens"].([]interface{})
	if !ok || len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %v", f.KV["tokenizer.ggml.tokens"])
	}
	if toks[2].(string) != "Ġcat" {
		t.Errorf("expected token Ġcat, got %v", toks[2])
	}

	tensor := f.Tensor("token_embd.weight")
	if tensor == nil {
		t.Fatal("token_embd.weight not found")
	}
	if tensor.Type != GGMLTypeF32 {
		t.Errorf("expected F32, got %v", tensor.Type)
	}

	data, err := Float32Data(tensor)
	if err != nil {
		t.Fatalf("Float32Data failed: %v", err)
	}
	for i, want := range emb {
		if data[i] != want {
			t.Errorf("element %d: got %v, want %v", i, data[i], want)
		}
	}
}

func TestLoadFileBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gguf")
	junk := make([]byte, 64)
	copy(junk, []byte("NOTAGGUF"))
	if err := os.WriteFile(path, junk, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected error for bad magic")
	}
	if _, ok := err.(ErrInvalidMagic); !ok {
		t.Errorf("expected ErrInvalidMagic, got %T: %v", err, err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/model.gguf"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDequantizeQ8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q8.gguf")

	quants := make([]int8, 32)
	for i := range quants {
		quants[i] = int8(i - 16)
	}

	b := &ggufBuilder{}
	b.addKVString("general.architecture", "llama")
	b.addTensorQ8("blk.0.attn_q.weight", 0.5, quants)
	b.writeTo(t, path)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	defer f.Close()

	data, err := Float32Data(f.Tensor("blk.0.attn_q.weight"))
	if err != nil {
		t.Fatalf("Float32Data failed: %v", err)
	}
	for i, q := range quants {
		want := 0.5 * float32(q)
		if diff := data[i] - want; diff > 1e-3 || diff < -1e-3 {
			t.Errorf("element %d: got %v, want %v", i, data[i], want)
		}
	}
}

func TestFloat16ToFloat32(t *testing.T) {
	tests := []struct {
		bits uint16
		want float32
	}{
		{0x0000, 0},
		{0x3C00, 1},
		{0xBC00, -1},
		{0x4000, 2},
		{0x3800, 0.5},
		{0x7C00, float32(math.Inf(1))},
		{0xFC00, float32(math.Inf(-1))},
	}

	for _, tt := range tests {
		got := Float16ToFloat32(tt.bits)
		if got != tt.want {
			t.Errorf("Float16ToFloat32(%#x) = %v, want %v", tt.bits, got, tt.want)
		}
	}
	if !math.IsNaN(float64(Float16ToFloat32(0x7E00))) {
		t.Error("expected NaN for 0x7E00")
	}
}

func TestUnsupportedQuantization(t *testing.T) {
	ti := &TensorInfo{Name: "blk.0.ffn_up.weight", Type: GGMLTypeQ4_K, Dimensions: []uint64{256}}
	if _, err := Float32Data(ti); err == nil {
		t.Error("expected error for unsupported quantization")
	}
}

package tokenizer

import (
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	vocab := []string{"<unk>", "The", "Ġcat", "Ġcats", "Ġsit", "s", ".", "Ġ", "a", "t", "c"}
	tok := FromVocab(vocab)

	tests := []string{
		"The cats sit.",
		"The cat sits.",
		"The cat.",
	}

	for _, text := range tests {
		ids := tok.Encode(text)
		if got := tok.Decode(ids); got != text {
			t.Errorf("round trip of %q = %q", text, got)
		}
	}
}

func TestEncodeGreedyLongestMatch(t *testing.T) {
	vocab := []string{"The", "Ġcat", "Ġcats", "Ġsit", ".", "s"}
	tok := FromVocab(vocab)

	ids := tok.Encode("The cats sit.")
	want := []int{0, 2, 3, 4} // The, Ġcats, Ġsit, .
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("Encode = %v, want %v", ids, want)
	}
}

func TestTokenString(t *testing.T) {
	vocab := []string{"The", "Ġcat", "<0x41>", "<0xE2>"}
	tok := FromVocab(vocab)

	tests := []struct {
		id   int
		want string
	}{
		{0, "The"},
		{1, " cat"},
		{2, "A"},          // byte token
		{3, "\xE2"},       // raw byte of a multi-byte fragment
		{-1, ""},          // out of range
		{99, ""},          // out of range
	}
	for _, tt := range tests {
		if got := tok.TokenString(tt.id); got != tt.want {
			t.Errorf("TokenString(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestByteFallback(t *testing.T) {
	vocab := []string{"Hello"}
	for i := 0; i < 256; i++ {
		vocab = append(vocab, string([]byte{'<', '0', 'x', hexDigit(i >> 4), hexDigit(i & 0xF), '>'}))
	}
	tok := FromVocab(vocab)

	text := "Hello!"
	ids := tok.Encode(text)
	if got := tok.Decode(ids); got != text {
		t.Errorf("byte fallback round trip = %q, want %q", got, text)
	}
}

func hexDigit(n int) byte {
	const digits = "0123456789ABCDEF"
	return digits[n]
}

func TestSentencePieceSpaceMark(t *testing.T) {
	vocab := []string{"The", "▁cat", "▁sits", "."}
	tok := FromVocab(vocab)

	ids := tok.Encode("The cat sits.")
	if got := tok.Decode(ids); got != "The cat sits." {
		t.Errorf("sentencepiece round trip = %q", got)
	}
	if got := tok.TokenString(1); got != " cat" {
		t.Errorf("TokenString(1) = %q, want %q", got, " cat")
	}
}

package tokenizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/23skdu/longbow-probe/internal/gguf"
	"github.com/23skdu/longbow-probe/internal/logger"
)

// Tokenizer is a greedy longest-match tokenizer over a GGUF vocabulary.
// It is not a faithful BPE (no merge ranks), but Encode/Decode round-trip
// byte-exactly, which is what target-position reconstruction needs.
type Tokenizer struct {
	Tokens []string
	Vocab  map[string]int

	spaceMark string // "Ġ" for GPT-2 style vocabs, "▁" for SentencePiece
	maxPiece  int
}

func New(path string) (*Tokenizer, error) {
	f, err := gguf.LoadFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	val, ok := f.KV["tokenizer.ggml.tokens"]
	if !ok {
		return nil, fmt.Errorf("tokenizer.ggml.tokens not found in GGUF")
	}
	arr, ok := val.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid type for tokenizer.ggml.tokens")
	}

	tokens := make([]string, len(arr))
	for i, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("token %d is not a string", i)
		}
		tokens[i] = s
	}

	return FromVocab(tokens), nil
}

// FromVocab builds a tokenizer from an explicit token list. Used by tests
// and by fake activation sources.
func FromVocab(tokens []string) *Tokenizer {
	t := &Tokenizer{
		Tokens:    tokens,
		Vocab:     make(map[string]int, len(tokens)),
		spaceMark: "Ġ",
	}

	sawUnderbar := false
	for i, tok := range tokens {
		t.Vocab[tok] = i
		if len(tok) > t.maxPiece {
			t.maxPiece = len(tok)
		}
		if strings.HasPrefix(tok, "▁") {
			sawUnderbar = true
		}
	}
	if sawUnderbar {
		t.spaceMark = "▁"
	}
	return t
}

// Encode tokenizes text with greedy longest-match over the vocabulary,
// falling back to <0xNN> byte tokens for uncovered bytes.
func (t *Tokenizer) Encode(text string) []int {
	// Word-initial spaces live inside the token pieces (Ġcat / ▁cat).
	pre := strings.ReplaceAll(text, " ", t.spaceMark)

	var ids []int
	for pos := 0; pos < len(pre); {
		end := pos + t.maxPiece
		if end > len(pre) {
			end = len(pre)
		}

		matched := false
		for e := end; e > pos; e-- {
			if id, ok := t.Vocab[pre[pos:e]]; ok {
				ids = append(ids, id)
				pos = e
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		// Byte fallback
		if id, ok := t.Vocab[fmt.Sprintf("<0x%02X>", pre[pos])]; ok {
			ids = append(ids, id)
		} else {
			logger.Log.Warn("no token for byte, dropping", "byte", pre[pos])
		}
		pos++
	}
	return ids
}

// TokenString returns the plain-text fragment a single token decodes to:
// space markers become spaces and <0xNN> tokens become their raw byte.
func (t *Tokenizer) TokenString(id int) string {
	if id < 0 || id >= len(t.Tokens) {
		return ""
	}
	piece := t.Tokens[id]

	if len(piece) == 6 && strings.HasPrefix(piece, "<0x") && piece[5] == '>' {
		if b, err := strconv.ParseUint(piece[3:5], 16, 8); err == nil {
			return string([]byte{byte(b)})
		}
	}

	return strings.ReplaceAll(piece, t.spaceMark, " ")
}

// Decode concatenates the plain-text fragments of ids.
func (t *Tokenizer) Decode(ids []int) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(t.TokenString(id))
	}
	return sb.String()
}

package probe

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTargetNotFound marks a recoverable per-example failure: the target
// word is absent from the text or the token reconstruction cannot cover
// it. Callers skip the example and continue.
var ErrTargetNotFound = errors.New("target word not found")

// Locate maps target's first case-insensitive occurrence in text to the
// index of the last token covering it. Tokenizers give no offset mapping,
// so the word boundary is recovered by re-assembling decoded fragments:
// the answer is the first token whose cumulative decoded length reaches
// the end of the target's span. Falls back to the last token if the
// reconstruction comes up short.
func Locate(tokens []int, decode func(int) string, text, target string) (int, error) {
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: empty token sequence", ErrTargetNotFound)
	}

	off := strings.Index(strings.ToLower(text), strings.ToLower(target))
	if off < 0 {
		return 0, fmt.Errorf("%w: %q not in text", ErrTargetNotFound, target)
	}
	end := off + len(target)

	rebuilt := 0
	for i, id := range tokens {
		rebuilt += len(decode(id))
		if rebuilt >= end {
			return i, nil
		}
	}
	return len(tokens) - 1, nil
}

package probe

import (
	"errors"
	"strings"
	"testing"
)

// decoderFor returns a token decoder over a fixed piece table.
func decoderFor(pieces []string) func(int) string {
	return func(id int) string { return pieces[id] }
}

func tokenIDs(pieces []string) []int {
	ids := make([]int, len(pieces))
	for i := range pieces {
		ids[i] = i
	}
	return ids
}

func TestLocateSubwordBoundary(t *testing.T) {
	// "cats" split across sub-word fragments: the locator must land on
	// the token completing the word, not the one holding "ca".
	pieces := []string{"The", " ca", "ts", " sit", "."}
	tokens := tokenIDs(pieces)

	pos, err := Locate(tokens, decoderFor(pieces), "The cats sit.", "cats")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if pos != 2 {
		t.Fatalf("got token %d (%q), want 2 (%q)", pos, pieces[pos], pieces[2])
	}

	rebuilt := strings.Join(pieces[:pos+1], "")
	if !strings.Contains(rebuilt, "cats") {
		t.Errorf("decoded prefix %q does not include the full word", rebuilt)
	}
}

func TestLocateCaseInsensitive(t *testing.T) {
	pieces := []string{"Paris", " has", " grown", "."}
	pos, err := Locate(tokenIDs(pieces), decoderFor(pieces), "Paris has grown.", "paris")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if pos != 0 {
		t.Fatalf("got %d, want 0", pos)
	}
}

func TestLocateBounds(t *testing.T) {
	pieces := []string{"She", " walks", " to", " work", "."}
	tokens := tokenIDs(pieces)
	text := "She walks to work."

	for _, target := range []string{"She", "walks", "work"} {
		pos, err := Locate(tokens, decoderFor(pieces), text, target)
		if err != nil {
			t.Fatalf("Locate(%q): %v", target, err)
		}
		if pos < 0 || pos >= len(tokens) {
			t.Fatalf("Locate(%q) = %d out of bounds", target, pos)
		}
		end := strings.Index(strings.ToLower(text), strings.ToLower(target)) + len(target)
		if got := len(strings.Join(pieces[:pos+1], "")); got < end {
			t.Errorf("Locate(%q): prefix length %d < span end %d", target, got, end)
		}
	}
}

func TestLocateTargetMissing(t *testing.T) {
	pieces := []string{"The", " dog", " barks", "."}
	_, err := Locate(tokenIDs(pieces), decoderFor(pieces), "The dog barks.", "cat")
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("got %v, want ErrTargetNotFound", err)
	}
}

func TestLocateShortReconstructionFallsBack(t *testing.T) {
	// Decoder drops characters so the rebuilt text never reaches the
	// target span; the locator falls back to the last token.
	pieces := []string{"x", "y"}
	pos, err := Locate(tokenIDs(pieces), decoderFor(pieces), "xy tail", "tail")
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if pos != 1 {
		t.Fatalf("got %d, want last token 1", pos)
	}
}

func TestLocateEmptyTokens(t *testing.T) {
	_, err := Locate(nil, decoderFor(nil), "text", "text")
	if !errors.Is(err, ErrTargetNotFound) {
		t.Fatalf("got %v, want ErrTargetNotFound", err)
	}
}

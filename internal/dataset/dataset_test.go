package dataset

import (
	"strings"
	"testing"
)

func TestByNameKnownTasks(t *testing.T) {
	tasks := []string{"pos", "sentiment", "ner", "word_length", "verb_tense", "plurality"}
	for _, task := range tasks {
		d, err := ByName(task)
		if err != nil {
			t.Fatalf("ByName(%q): %v", task, err)
		}
		if d.Task != task {
			t.Errorf("ByName(%q) returned task %q", task, d.Task)
		}
		if len(d.Examples) == 0 {
			t.Errorf("task %q has no examples", task)
		}
	}
}

func TestByNameUnknown(t *testing.T) {
	if _, err := ByName("morphology"); err == nil {
		t.Fatal("expected error for unknown task")
	}
}

func TestProviderInvariants(t *testing.T) {
	for _, d := range []Dataset{
		PartOfSpeech(), Sentiment(), NamedEntity(),
		WordLength(), VerbTense(), Plurality(),
	} {
		t.Run(d.Task, func(t *testing.T) {
			if d.NumClasses() < 2 {
				t.Fatalf("NumClasses = %d", d.NumClasses())
			}
			counts := make([]int, d.NumClasses())
			for i, ex := range d.Examples {
				if ex.Label < 0 || ex.Label >= d.NumClasses() {
					t.Fatalf("example %d label %d out of range", i, ex.Label)
				}
				counts[ex.Label]++
				if ex.TargetWord == "" {
					t.Fatalf("example %d has empty target", i)
				}
				if !strings.Contains(strings.ToLower(ex.Text), strings.ToLower(ex.TargetWord)) {
					t.Errorf("example %d: target %q not in text %q", i, ex.TargetWord, ex.Text)
				}
			}
			// Balanced classes keep chance accuracy at 1/k.
			for label, n := range counts {
				if n != counts[0] {
					t.Errorf("class %q has %d examples, class %q has %d",
						d.ClassNames[label], n, d.ClassNames[0], counts[0])
				}
			}
		})
	}
}

func TestWordLengthBuckets(t *testing.T) {
	d := WordLength()
	for _, ex := range d.Examples {
		n := len(ex.TargetWord)
		var want int
		switch {
		case n <= 5:
			want = 0
		case n <= 8:
			want = 1
		default:
			want = 2
		}
		if ex.Label != want {
			t.Errorf("target %q (%d letters) labeled %d, want %d", ex.TargetWord, n, ex.Label, want)
		}
	}
}

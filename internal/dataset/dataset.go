package dataset

import "fmt"

// Example is one labeled probing item. TargetWord always occurs
// (case-insensitively) in Text; providers are tested for this.
type Example struct {
	Text       string
	TargetWord string
	Label      int
}

// Dataset is the fixed example list for one task.
type Dataset struct {
	Task       string
	ClassNames []string
	Examples   []Example
}

// NumClasses returns the number of label classes.
func (d *Dataset) NumClasses() int { return len(d.ClassNames) }

// ByName returns the dataset provider output for a task name.
func ByName(task string) (Dataset, error) {
	switch task {
	case "pos":
		return PartOfSpeech(), nil
	case "sentiment":
		return Sentiment(), nil
	case "ner":
		return NamedEntity(), nil
	case "word_length":
		return WordLength(), nil
	case "verb_tense":
		return VerbTense(), nil
	case "plurality":
		return Plurality(), nil
	default:
		return Dataset{}, fmt.Errorf("unknown task %q", task)
	}
}

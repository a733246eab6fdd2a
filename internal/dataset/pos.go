package dataset

// PartOfSpeech labels: 0=noun, 1=verb, 2=adjective, 3=adverb.
func PartOfSpeech() Dataset {
	type row struct {
		text, target string
	}

	nouns := []row{
		{"The cat sits on the windowsill.", "cat"},
		{"A doctor examines patients carefully.", "doctor"},
		{"The mountain rises above the valley.", "mountain"},
		{"Her garden blooms every spring.", "garden"},
		{"The engineer designs bridges.", "engineer"},
		{"A letter arrived this morning.", "letter"},
		{"The river flows toward the sea.", "river"},
		{"His guitar sounds wonderful.", "guitar"},
		{"The library opens at nine.", "library"},
		{"A storm gathered over the coast.", "storm"},
		{"The teacher explains the lesson.", "teacher"},
		{"Their kitchen smells of bread.", "kitchen"},
	}
	verbs := []row{
		{"The children run across the field.", "run"},
		{"She writes letters every week.", "writes"},
		{"They build houses from timber.", "build"},
		{"He swims in the cold lake.", "swims"},
		{"The birds sing at dawn.", "sing"},
		{"We cook dinner together.", "cook"},
		{"The dog barks at strangers.", "barks"},
		{"She paints landscapes on weekends.", "paints"},
		{"They dance until midnight.", "dance"},
		{"He reads the newspaper daily.", "reads"},
		{"The crowd cheers loudly.", "cheers"},
		{"She teaches history at school.", "teaches"},
	}
	adjectives := []row{
		{"The happy child laughed loudly.", "happy"},
		{"A tall building blocks the view.", "tall"},
		{"The ancient ruins attract tourists.", "ancient"},
		{"Her bright smile warmed the room.", "bright"},
		{"The heavy box strained his back.", "heavy"},
		{"A gentle breeze cooled the porch.", "gentle"},
		{"The narrow street was crowded.", "narrow"},
		{"His quiet voice calmed everyone.", "quiet"},
		{"The fresh bread smelled delicious.", "fresh"},
		{"A clever plan saved the day.", "clever"},
		{"The empty room echoed strangely.", "empty"},
		{"Her warm coat kept out the cold.", "warm"},
	}
	adverbs := []row{
		{"She spoke softly to the baby.", "softly"},
		{"He quickly finished his homework.", "quickly"},
		{"They carefully crossed the bridge.", "carefully"},
		{"The train arrived promptly at noon.", "promptly"},
		{"She smiled warmly at the guests.", "warmly"},
		{"He answered honestly every question.", "honestly"},
		{"The snow fell silently overnight.", "silently"},
		{"They argued loudly in the hall.", "loudly"},
		{"She rarely misses a deadline.", "rarely"},
		{"He walked slowly along the shore.", "slowly"},
		{"The engine hummed steadily.", "steadily"},
		{"She gladly accepted the offer.", "gladly"},
	}

	d := Dataset{
		Task:       "pos",
		ClassNames: []string{"noun", "verb", "adjective", "adverb"},
	}
	for label, group := range [][]row{nouns, verbs, adjectives, adverbs} {
		for _, r := range group {
			d.Examples = append(d.Examples, Example{Text: r.text, TargetWord: r.target, Label: label})
		}
	}
	return d
}

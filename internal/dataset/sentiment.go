package dataset

// Sentiment labels: 0=positive, 1=negative, 2=neutral.
func Sentiment() Dataset {
	type row struct {
		text, target string
	}

	positive := []row{
		{"The movie was wonderful from start to finish.", "wonderful"},
		{"She gave an excellent presentation.", "excellent"},
		{"The food tasted delicious.", "delicious"},
		{"It was a fantastic day at the beach.", "fantastic"},
		{"Their new album is brilliant.", "brilliant"},
		{"The view from the summit was magnificent.", "magnificent"},
		{"He did an amazing job on the project.", "amazing"},
		{"The hotel staff were delightful.", "delightful"},
		{"Her performance was superb tonight.", "superb"},
		{"We had a lovely afternoon in the park.", "lovely"},
	}
	negative := []row{
		{"The service was terrible at that restaurant.", "terrible"},
		{"His attitude made everyone miserable.", "miserable"},
		{"The weather turned awful by evening.", "awful"},
		{"It was a dreadful mistake to leave early.", "dreadful"},
		{"The traffic was horrible this morning.", "horrible"},
		{"That was a disgusting thing to say.", "disgusting"},
		{"The ending of the book was disappointing.", "disappointing"},
		{"Their response was pathetic.", "pathetic"},
		{"The room smelled unpleasant.", "unpleasant"},
		{"It was a painful lesson to learn.", "painful"},
	}
	neutral := []row{
		{"The table is made of oak.", "table"},
		{"The meeting starts at three.", "meeting"},
		{"The report contains five sections.", "report"},
		{"Water boils at one hundred degrees.", "boils"},
		{"The building has ten floors.", "building"},
		{"The train stops at every station.", "stops"},
		{"The document was printed yesterday.", "document"},
		{"The box weighs two kilograms.", "weighs"},
		{"The road runs parallel to the river.", "parallel"},
		{"The calendar shows next month.", "calendar"},
	}

	d := Dataset{
		Task:       "sentiment",
		ClassNames: []string{"positive", "negative", "neutral"},
	}
	for label, group := range [][]row{positive, negative, neutral} {
		for _, r := range group {
			d.Examples = append(d.Examples, Example{Text: r.text, TargetWord: r.target, Label: label})
		}
	}
	return d
}

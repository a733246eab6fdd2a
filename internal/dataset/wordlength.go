package dataset

// WordLength labels: 0=short (3-5 letters), 1=medium (6-8), 2=long (9+).
func WordLength() Dataset {
	type row struct {
		text, target string
	}

	short := []row{
		{"The cat slept all day.", "cat"},
		{"A bird flew past the window.", "bird"},
		{"The lake froze in January.", "lake"},
		{"His desk faces the door.", "desk"},
		{"The rope held the weight.", "rope"},
		{"Her ring shone in the light.", "ring"},
		{"The path leads to the barn.", "path"},
		{"A stone blocked the drain.", "stone"},
		{"The bread went stale.", "bread"},
		{"The clock ticks loudly.", "clock"},
	}
	medium := []row{
		{"The teacher graded the exams.", "teacher"},
		{"A painter rented the studio.", "painter"},
		{"The factory runs day and night.", "factory"},
		{"Her brother lives abroad.", "brother"},
		{"The concert ended at midnight.", "concert"},
		{"A soldier guarded the gate.", "soldier"},
		{"The morning fog lifted slowly.", "morning"},
		{"The channel broadcasts news.", "channel"},
		{"Her jacket hangs in the closet.", "jacket"},
		{"The village holds a market.", "village"},
	}
	long := []row{
		{"The university opened a new wing.", "university"},
		{"A helicopter circled the stadium.", "helicopter"},
		{"The celebration lasted all night.", "celebration"},
		{"Her imagination knows no limits.", "imagination"},
		{"The temperature dropped sharply.", "temperature"},
		{"The government passed the bill.", "government"},
		{"A photographer captured the scene.", "photographer"},
		{"The conversation drifted to politics.", "conversation"},
		{"The archaeologist found pottery.", "archaeologist"},
		{"Their neighborhood is quiet.", "neighborhood"},
	}

	d := Dataset{
		Task:       "word_length",
		ClassNames: []string{"short", "medium", "long"},
	}
	for label, group := range [][]row{short, medium, long} {
		for _, r := range group {
			d.Examples = append(d.Examples, Example{Text: r.text, TargetWord: r.target, Label: label})
		}
	}
	return d
}

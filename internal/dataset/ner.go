package dataset

// NamedEntity labels: 0=common noun, 1=named entity.
func NamedEntity() Dataset {
	type row struct {
		text, target string
	}

	common := []row{
		{"The city has grown rapidly.", "city"},
		{"A company opened near the station.", "company"},
		{"The university admits students yearly.", "university"},
		{"The river floods in spring.", "river"},
		{"A museum displays old paintings.", "museum"},
		{"The mountain attracts climbers.", "mountain"},
		{"The hospital expanded its wards.", "hospital"},
		{"A festival happens every summer.", "festival"},
		{"The airport handles many flights.", "airport"},
		{"The language has many dialects.", "language"},
		{"A scientist published the results.", "scientist"},
		{"The country exports grain.", "country"},
	}
	named := []row{
		{"Paris has grown rapidly.", "Paris"},
		{"Toyota opened near the station.", "Toyota"},
		{"Harvard admits students yearly.", "Harvard"},
		{"The Danube floods in spring.", "Danube"},
		{"The Louvre displays old paintings.", "Louvre"},
		{"Everest attracts climbers.", "Everest"},
		{"Microsoft expanded its offices.", "Microsoft"},
		{"Christmas happens every winter.", "Christmas"},
		{"Heathrow handles many flights.", "Heathrow"},
		{"Spanish has many dialects.", "Spanish"},
		{"Einstein published the results.", "Einstein"},
		{"Brazil exports grain.", "Brazil"},
	}

	d := Dataset{
		Task:       "ner",
		ClassNames: []string{"common", "entity"},
	}
	for label, group := range [][]row{common, named} {
		for _, r := range group {
			d.Examples = append(d.Examples, Example{Text: r.text, TargetWord: r.target, Label: label})
		}
	}
	return d
}

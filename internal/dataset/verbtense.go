package dataset

// VerbTense labels: 0=present, 1=past.
func VerbTense() Dataset {
	type row struct {
		text, target string
	}

	present := []row{
		{"She walks to work every day.", "walks"},
		{"He plays chess on Sundays.", "plays"},
		{"The choir sings in the cathedral.", "sings"},
		{"They travel during the holidays.", "travel"},
		{"She bakes bread each morning.", "bakes"},
		{"The gardener waters the roses.", "waters"},
		{"He drives a delivery van.", "drives"},
		{"The committee meets on Fridays.", "meets"},
		{"She studies late into the night.", "studies"},
		{"The fountain sparkles in the sun.", "sparkles"},
		{"He repairs old watches.", "repairs"},
		{"The team trains before dawn.", "trains"},
	}
	past := []row{
		{"She walked to work yesterday.", "walked"},
		{"He played chess last Sunday.", "played"},
		{"The choir sang in the cathedral.", "sang"},
		{"They traveled during the holidays.", "traveled"},
		{"She baked bread this morning.", "baked"},
		{"The gardener watered the roses.", "watered"},
		{"He drove a delivery van.", "drove"},
		{"The committee met on Friday.", "met"},
		{"She studied late into the night.", "studied"},
		{"The fountain sparkled in the sun.", "sparkled"},
		{"He repaired old watches.", "repaired"},
		{"The team trained before dawn.", "trained"},
	}

	d := Dataset{
		Task:       "verb_tense",
		ClassNames: []string{"present", "past"},
	}
	for label, group := range [][]row{present, past} {
		for _, r := range group {
			d.Examples = append(d.Examples, Example{Text: r.text, TargetWord: r.target, Label: label})
		}
	}
	return d
}

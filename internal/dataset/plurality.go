package dataset

// Plurality labels: 0=singular, 1=plural. The task showed no separable
// signal in practice and is off by default, but remains selectable.
func Plurality() Dataset {
	type row struct {
		text, target string
	}

	singular := []row{
		{"The cat sits on the windowsill.", "cat"},
		{"A dog barks at strangers.", "dog"},
		{"The horse gallops across the field.", "horse"},
		{"An apple fell from the tree.", "apple"},
		{"The student studies diligently.", "student"},
		{"A candle flickered in the dark.", "candle"},
		{"The bridge spans the river.", "bridge"},
		{"A wheel came loose on the cart.", "wheel"},
		{"The teacher explains the rule.", "teacher"},
		{"A bottle stood on the shelf.", "bottle"},
		{"The island appears at low tide.", "island"},
		{"A farmer plows the field.", "farmer"},
	}
	plural := []row{
		{"The cats sit on the windowsill.", "cats"},
		{"Dogs bark at strangers.", "Dogs"},
		{"The horses gallop across the field.", "horses"},
		{"Apples fell from the tree.", "Apples"},
		{"The students study diligently.", "students"},
		{"Candles flickered in the dark.", "Candles"},
		{"The bridges span the river.", "bridges"},
		{"Wheels came loose on the cart.", "Wheels"},
		{"The teachers explain the rule.", "teachers"},
		{"Bottles stood on the shelf.", "Bottles"},
		{"The islands appear at low tide.", "islands"},
		{"Farmers plow the fields.", "Farmers"},
	}

	d := Dataset{
		Task:       "plurality",
		ClassNames: []string{"singular", "plural"},
	}
	for label, group := range [][]row{singular, plural} {
		for _, r := range group {
			d.Examples = append(d.Examples, Example{Text: r.text, TargetWord: r.target, Label: label})
		}
	}
	return d
}

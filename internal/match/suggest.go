package match

import "sort"

// SuggestMinScore is the least similarity a name needs to be suggested.
const SuggestMinScore = 0.6

// Suggest returns up to limit names from candidates that look like name,
// best first. It is used for "did you mean" hints on misspelled fields.
func Suggest(name string, candidates []string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var list []scored
	for _, c := range candidates {
		if s := Similarity(name, c); s >= SuggestMinScore {
			list = append(list, scored{c, s})
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		return list[i].name < list[j].name
	})

	out := make([]string, 0, min(limit, len(list)))
	for i := 0; i < len(list) && i < limit; i++ {
		out = append(out, list[i].name)
	}

	return out
}

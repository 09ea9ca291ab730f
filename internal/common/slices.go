package common

// Dedupe returns s without repeated elements, keeping first occurrences.
func Dedupe[S ~[]E, E comparable](s S) S {
	seen := make(map[E]struct{}, len(s))
	out := s[:0:0]
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

package match

import (
	"strings"
	"unicode"
)

// Tokens splits a Go identifier or a column name into lower-case words.
// CamelCase boundaries, acronyms and the separators _ - and space all end a
// word:
//
//	"HomeDir"    -> home dir
//	"UserID"     -> user id
//	"HTTPServer" -> http server
//	"created_at" -> created at
func Tokens(s string) []string {
	var (
		words []string
		cur   []rune
	)

	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			flush()
			continue
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// orderID splits before I; XMLParser splits before P.
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || unicode.IsUpper(prev) && nextLower {
				flush()
			}
		}

		cur = append(cur, r)
	}
	flush()

	return words
}

// SnakeCase is the default column name of a struct field: HomeDir becomes
// home_dir.
func SnakeCase(s string) string {
	return strings.Join(Tokens(s), "_")
}

// Fold reduces a name to its words run together, so that HomeDir, home_dir
// and homedir compare equal.
func Fold(s string) string {
	return strings.Join(Tokens(s), "")
}

// Levenshtein returns the number of single-byte insertions, deletions and
// substitutions that turn a into b.
func Levenshtein(a, b string) int {
	if len(a) > len(b) {
		a, b = b, a
	}

	row := make([]int, len(a)+1)
	for i := range row {
		row[i] = i
	}

	for j := 1; j <= len(b); j++ {
		diag := row[0]
		row[0] = j

		for i := 1; i <= len(a); i++ {
			up := row[i]

			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[i] = min(row[i]+1, row[i-1]+1, diag+cost)

			diag = up
		}
	}

	return row[len(a)]
}

// Similarity scores two names between 0 (nothing in common) and 1 (equal
// once folded).
func Similarity(a, b string) float64 {
	fa, fb := Fold(a), Fold(b)

	longest := max(len(fa), len(fb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(fa, fb))/float64(longest)
}

// stemSuffixes are trailing words that carry little meaning in column names.
var stemSuffixes = map[string]bool{"id": true, "ids": true, "at": true, "utc": true, "timestamp": true}

// stemSimilarity is Similarity with one trailing low-value word removed from
// each name, so owner_id and owner score as a likely rename.
func stemSimilarity(a, b string) float64 {
	stem := func(s string) string {
		words := Tokens(s)
		if n := len(words); n > 1 && stemSuffixes[words[n-1]] {
			words = words[:n-1]
		}
		return strings.Join(words, "")
	}

	return Similarity(stem(a), stem(b))
}

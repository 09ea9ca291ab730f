package match

import (
	"sort"
)

// Column is a column of a live table, as seen by a rename search.
type Column struct {
	Name     string
	Position int
	Affinity string
}

// Candidate is a live column that may be the renamed form of an expected
// column.
type Candidate struct {
	Expected string
	Actual   Column

	// Scoring components
	NameScore     float64 // normalized Levenshtein similarity (0-1)
	SamePosition  bool
	AffinityMatch bool

	// Combined score for ranking (higher is better)
	CombinedScore float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankColumns scores every column of actual as a rename of the expected
// column at position pos with the given affinity. Returns candidates sorted by
// combined score (descending).
func RankColumns(expected string, pos int, affinity string, actual []Column) CandidateList {
	candidates := make(CandidateList, 0, len(actual))

	for _, col := range actual {
		nameScore := Similarity(expected, col.Name)
		if stripped := stemSimilarity(expected, col.Name); stripped > nameScore {
			nameScore = stripped
		}

		c := Candidate{
			Expected:      expected,
			Actual:        col,
			NameScore:     nameScore,
			SamePosition:  col.Position == pos,
			AffinityMatch: affinity == "" || col.Affinity == "" || affinity == col.Affinity,
		}
		c.CombinedScore = calculateCombinedScore(c)

		candidates = append(candidates, c)
	}

	sort.Sort(candidates)

	return candidates
}

// calculateCombinedScore computes a combined score.
// Weights:
//   - Name similarity: 60% (0.0-0.6)
//   - Same position: 30%
//   - Affinity match: 10%
func calculateCombinedScore(c Candidate) float64 {
	const (
		nameWeight     = 0.6
		positionWeight = 0.3
		affinityWeight = 0.1
	)

	score := c.NameScore * nameWeight
	if c.SamePosition {
		score += positionWeight
	}

	if c.AffinityMatch {
		score += affinityWeight
	}

	return score
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by combined score descending, then by position for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CombinedScore != c[j].CombinedScore {
		return c[i].CombinedScore > c[j].CombinedScore
	}

	return c[i].Actual.Position < c[j].Actual.Position
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within the threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}
	diff := c[0].CombinedScore - c[1].CombinedScore
	return diff < threshold
}

// HighConfidence returns the best candidate if it is a likely rename: either
// it sits at the same position, or its name is similar enough. Returns nil if
// no clear winner exists.
func (c CandidateList) HighConfidence(minScore, minGap float64) *Candidate {
	if len(c) == 0 {
		return nil
	}
	best := &c[0]

	if best.CombinedScore < minScore {
		return nil
	}

	if len(c) > 1 && !best.SamePosition {
		gap := c[0].CombinedScore - c[1].CombinedScore
		if gap < minGap {
			return nil
		}
	}

	return best
}

// Confidence thresholds for accepting a rename.
const (
	// DefaultMinScore is the minimum combined score for a rename. A column at
	// the same position with the same affinity reaches it on its own.
	DefaultMinScore = 0.4
	// DefaultMinGap is the minimum score gap between top candidates.
	DefaultMinGap = 0.1
)

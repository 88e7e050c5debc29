// Package fuzzy scores approximate string similarity on a 0-100 scale.
//
// Inputs are compared as given; callers lower-case both sides first.
package fuzzy

import "math"

// Scorer compares two strings and returns a similarity in [0,100].
type Scorer func(a, b string) int

// Score is the whole-string similarity ratio derived from the insert/delete
// edit distance over the combined rune length. A substitution costs two
// edits, so strings sharing no runes score 0.
func Score(a, b string) int {
	return ratio([]rune(a), []rune(b))
}

// PartialScore slides the shorter string over every same-length window of the
// longer one and returns the best window ratio.
func PartialScore(needle, haystack string) int {
	short, long := []rune(needle), []rune(haystack)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	best := 0
	for i := 0; i+len(short) <= len(long); i++ {
		s := ratio(short, long[i:i+len(short)])
		if s > best {
			best = s
			if best == 100 {
				break
			}
		}
	}
	return best
}

// BestOf returns the highest score of text against any candidate, or 0 when
// there are no candidates.
func BestOf(text string, candidates []string, scorer Scorer) int {
	best := 0
	for _, c := range candidates {
		if s := scorer(text, c); s > best {
			best = s
		}
	}
	return best
}

func ratio(a, b []rune) int {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	dist := total - 2*lcs(a, b)
	return int(math.RoundToEven(100 * float64(total-dist) / float64(total)))
}

// lcs returns the length of the longest common subsequence of a and b.
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for _, ra := range a {
		for j, rb := range b {
			switch {
			case ra == rb:
				cur[j+1] = prev[j] + 1
			case prev[j+1] >= cur[j]:
				cur[j+1] = prev[j+1]
			default:
				cur[j+1] = cur[j]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Package fuzzy scores string similarity on a 0-100 scale.
//
// Ratio is the normalized indel similarity 2*LCS/(len(a)+len(b)) and
// PartialRatio is the best Ratio of the shorter string against any window of
// the longer one. Both operate on runes and are case-sensitive; callers lower
// their inputs when they want case-insensitive matching.
package fuzzy

import "math"

// Ratio returns the indel similarity of a and b in [0, 100]
func Ratio(a, b string) float64 {
	return ratio([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter input and every
// equal-length window of the longer input, including windows clipped at
// either edge.
func PartialRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 100
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	best := partial(ra, rb)
	if len(ra) == len(rb) && best < 100 {
		best = math.Max(best, partial(rb, ra))
	}
	return best
}

// Score rounds a similarity to the nearest integer
func Score(similarity float64) int {
	return int(math.Round(similarity))
}

func partial(needle, hay []rune) float64 {
	n, h := len(needle), len(hay)
	best := 0.0

	try := func(window []rune) bool {
		if r := ratio(needle, window); r > best {
			best = r
		}
		return best == 100
	}

	// windows clipped at the left edge
	for i := 1; i < n; i++ {
		if try(hay[:i]) {
			return best
		}
	}
	// full windows
	for i := 0; i+n <= h; i++ {
		if try(hay[i : i+n]) {
			return best
		}
	}
	// windows clipped at the right edge
	for i := h - n + 1; i < h; i++ {
		if i < 0 {
			continue
		}
		if try(hay[i:]) {
			return best
		}
	}
	return best
}

func ratio(a, b []rune) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcs(a, b)) / float64(total)
}

// lcs returns the length of the longest common subsequence
func lcs(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

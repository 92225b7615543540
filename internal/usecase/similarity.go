package usecase

import (
	"math"
	"unicode/utf8"
)

// Similarity scores two strings from 0 to 100 using Levenshtein distance over
// their normalized forms. A side that normalizes to nothing scores 0, so a
// missing field can never look like a perfect match.
func Similarity(a, b string) int {
	na := Normalize(a)
	nb := Normalize(b)
	if na == "" || nb == "" {
		return 0
	}

	longest := max(utf8.RuneCountInString(na), utf8.RuneCountInString(nb))
	distance := levenshteinDistance(na, nb)
	if distance > longest {
		// Levenshtein never exceeds the longer length
		distance = longest
	}

	return int(math.Round((1 - float64(distance)/float64(longest)) * 100))
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

package archive

import (
	"math"
	"unicode/utf8"
)

// entropy computes the Shannon entropy (bits per symbol) of s's character
// distribution: H = -Σ p_i·log2(p_i). Returns 0 for the empty string and
// for any string composed of a single repeated character.
func entropy(s string) float64 {
	if s == "" {
		return 0
	}

	counts := make(map[rune]int)
	for _, r := range s {
		counts[r]++
	}

	length := float64(utf8.RuneCountInString(s))
	var h float64
	for _, c := range counts {
		p := float64(c) / length
		h -= p * math.Log2(p)
	}
	return h
}

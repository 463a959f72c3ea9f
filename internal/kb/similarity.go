package kb

import "strings"

// similarity is the Ratcliff/Obershelp measure between two strings after
// lowercasing and trimming: twice the matched character count over the
// total length. Matches are found by recursively taking the longest common
// substring, so the result is in [0, 1] with 1 for identical input.
func similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return 2 * float64(matchedRunes(ra, rb)) / float64(len(ra)+len(rb))
}

func matchedRunes(a, b []rune) int {
	size, ai, bi := longestCommonRun(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchedRunes(a[:ai], b[:bi]) +
		matchedRunes(a[ai+size:], b[bi+size:])
}

// longestCommonRun finds the longest common substring, preferring the one
// that starts earliest in a, then earliest in b.
func longestCommonRun(a, b []rune) (size, ai, bi int) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				curr[j+1] = 0
				continue
			}
			curr[j+1] = prev[j] + 1
			if curr[j+1] > size {
				size = curr[j+1]
				ai = i - size + 1
				bi = j - size + 1
			}
		}
		prev, curr = curr, prev
	}
	return size, ai, bi
}

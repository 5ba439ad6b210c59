package matching

import (
	"math"
	"strings"
)

// IndelDistance is the edit distance allowing only insertions and deletions
// (a substitution costs two). It works on runes.
func IndelDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return len(rb)
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}
	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		for i := 1; i <= len(ra); i++ {
			if ra[i-1] == rb[j-1] {
				curr[i] = prev[i-1]
				continue
			}
			curr[i] = min(prev[i], curr[i-1]) + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}

// Ratio scores the similarity of two strings from 0 to 100, rounded, as
// 100 * (1 - indel / (len(a)+len(b))). Either side empty scores 0.
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	total := la + lb
	d := IndelDistance(a, b)
	return int(math.Round(100 * float64(total-d) / float64(total)))
}

// NameScore is Ratio over lower-cased names.
func NameScore(a, b string) int {
	return Ratio(strings.ToLower(a), strings.ToLower(b))
}

package spelling

import (
	"strings"

	"github.com/ppiankov/shartnoma/internal/model"
)

// Summary aggregates spelling errors for reports
type Summary struct {
	TotalErrors  int                             `json:"total_errors"`
	ByKind       map[model.SpellingErrorKind]int `json:"by_type"`
	ByLanguage   map[model.Language]int          `json:"by_language"`
	UniqueErrors int                             `json:"unique_errors"` // distinct words, case-insensitive
}

// Summarize counts errors by kind and language
func Summarize(errs []model.SpellingError) Summary {
	s := Summary{
		TotalErrors: len(errs),
		ByKind:      make(map[model.SpellingErrorKind]int),
		ByLanguage:  make(map[model.Language]int),
	}
	unique := make(map[string]struct{})
	for _, e := range errs {
		s.ByKind[e.Kind]++
		s.ByLanguage[e.Language]++
		unique[strings.ToLower(e.Word)] = struct{}{}
	}
	s.UniqueErrors = len(unique)
	return s
}

// similarity is the Ratcliff/Obershelp ratio 2*M/T over runes
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	i, j, n := longestCommonRun(a, b)
	if n == 0 {
		return 0
	}
	return n + matchingRunes(a[:i], b[:j]) + matchingRunes(a[i+n:], b[j+n:])
}

// longestCommonRun returns the earliest longest common substring of a and b
func longestCommonRun(a, b []rune) (int, int, int) {
	bestI, bestJ, best := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
					bestI, bestJ = i-cur[j], j-cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return bestI, bestJ, best
}

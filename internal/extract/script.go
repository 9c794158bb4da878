package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// cyrillicRatio returns Cyrillic letters divided by all letters, 0 for no letters
func cyrillicRatio(text string) float64 {
	var letters, cyrillic int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Cyrillic, r) {
			cyrillic++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(cyrillic) / float64(letters)
}

func isCyrillic(r rune) bool {
	return unicode.Is(unicode.Cyrillic, r)
}

func isLatin(r rune) bool {
	return unicode.Is(unicode.Latin, r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || r == '\''
}

func decodeRune(s string) (rune, int) {
	return utf8.DecodeRuneInString(s)
}

// hasLower reports whether s contains any lowercase letter
func hasLower(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

// hasLetter reports whether s contains any letter
func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// containsFold reports whether substr occurs in s, ignoring case
func containsFold(s, substr string) bool {
	return indexFold(s, substr) >= 0
}

// indexFold returns the byte offset in s of the first case-insensitive
// occurrence of substr, or -1
func indexFold(s, substr string) int {
	if substr == "" {
		return 0
	}
	first, _ := utf8.DecodeRuneInString(substr)
	for i, r := range s {
		if !runeEqualFold(r, first) {
			continue
		}
		if hasPrefixFold(s[i:], substr) {
			return i
		}
	}
	return -1
}

func hasPrefixFold(s, prefix string) bool {
	for _, pr := range prefix {
		if s == "" {
			return false
		}
		r, size := utf8.DecodeRuneInString(s)
		if !runeEqualFold(r, pr) {
			return false
		}
		s = s[size:]
	}
	return true
}

func runeEqualFold(a, b rune) bool {
	return a == b || unicode.SimpleFold(a) == b || unicode.ToLower(a) == unicode.ToLower(b)
}

// excerpt returns s[start-radius : end+radius] snapped to rune boundaries
func excerpt(s string, start, end, radius int) string {
	from := start - radius
	if from < 0 {
		from = 0
	}
	to := end + radius
	if to > len(s) {
		to = len(s)
	}
	for from > 0 && !utf8.RuneStart(s[from]) {
		from--
	}
	for to < len(s) && !utf8.RuneStart(s[to]) {
		to++
	}
	return strings.TrimSpace(s[from:to])
}

// Excerpt is the exported form of excerpt for sibling packages
func Excerpt(s string, start, end, radius int) string {
	return excerpt(s, start, end, radius)
}

// IndexFold is the exported form of indexFold for sibling packages
func IndexFold(s, substr string) int {
	return indexFold(s, substr)
}

// ContainsAnyFold reports whether any of the needles occurs in s, ignoring case
func ContainsAnyFold(s string, needles ...string) bool {
	for _, n := range needles {
		if containsFold(s, n) {
			return true
		}
	}
	return false
}

package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	hyphenBreakPattern     = regexp.MustCompile(`(\p{L})-[ \t]*\n[ \t]*(\p{L})`)
	horizontalSpacePattern = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2007}\x{202F}]{2,}`)

	// whitespace followed by "3. WORD", "IV) WORD", "A. WORD"
	headerPrefixBreakPattern = regexp.MustCompile(`[ \t]+((?:\d{1,2}|[IVXLC]{1,4}|\p{Lu}{1,3})[.)][ \t]*\p{Lu}{2,})`)

	numberingTokenPattern = regexp.MustCompile(`^(?:\d{1,2}(?:\.\d{1,2})*|[IVXLC]{1,4}|\p{Lu}{1,3})[.)]$`)

	knownHeaderBreakPattern = buildKnownHeaderPattern()
)

var apostropheReplacer = strings.NewReplacer(
	"`", "'",
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‛", "'", // single high-reversed-9
	"ʻ", "'", // modifier letter turned comma (o‘zbek)
	"ʼ", "'", // modifier letter apostrophe
	"ʹ", "'", // modifier letter prime
	"´", "'", // acute accent
	"′", "'", // prime
)

// latinToCyrillic maps Latin glyphs to the Cyrillic letters they are drawn identically to
var latinToCyrillic = map[rune]rune{
	'A': 'А', 'B': 'В', 'E': 'Е', 'K': 'К', 'M': 'М', 'H': 'Н',
	'O': 'О', 'P': 'Р', 'C': 'С', 'T': 'Т', 'X': 'Х', 'Y': 'У',
	'a': 'а', 'e': 'е', 'k': 'к', 'o': 'о', 'p': 'р', 'c': 'с',
	'x': 'х', 'y': 'у',
}

// knownHeaderPhrases are headings OCR frequently glues to the end of the previous paragraph
var knownHeaderPhrases = []string{
	"ШАРТНОМА ПРЕДМЕТИ", "ПРЕДМЕТ ДОГОВОРА", "SHARTNOMA PREDMETI",
	"ШАРТНОМА НАРХИ", "ЦЕНА ДОГОВОРА", "SHARTNOMA NARXI",
	"ТОМОНЛАРНИНГ ҲУҚУҚ ВА МАЖБУРИЯТЛАРИ", "ПРАВА И ОБЯЗАННОСТИ СТОРОН", "TOMONLARNING HUQUQ VA MAJBURIYATLARI",
	"ТОМОНЛАРНИНГ ЖАВОБГАРЛИГИ", "ОТВЕТСТВЕННОСТЬ СТОРОН", "TOMONLARNING JAVOBGARLIGI",
	"ФОРС-МАЖОР", "FORS-MAJOR",
	"НИЗОЛАРНИ ҲАЛ ҚИЛИШ", "ПОРЯДОК РАЗРЕШЕНИЯ СПОРОВ", "NIZOLARNI HAL QILISH",
	"ТОМОНЛАРНИНГ РЕКВИЗИТЛАРИ", "РЕКВИЗИТЫ СТОРОН", "TOMONLARNING REKVIZITLARI",
	"ЮРИДИК МАНЗИЛЛАР", "ЮРИДИЧЕСКИЕ АДРЕСА", "YURIDIK MANZILLAR",
	"СРОК ДЕЙСТВИЯ ДОГОВОРА", "ШАРТНОМАНИНГ АМАЛ ҚИЛИШ МУДДАТИ", "SHARTNOMANING AMAL QILISH MUDDATI",
}

func buildKnownHeaderPattern() *regexp.Regexp {
	quoted := make([]string, len(knownHeaderPhrases))
	for i, p := range knownHeaderPhrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`[ \t]+((?:\d{1,2}[.)][ \t]*)?(?:` + strings.Join(quoted, "|") + `))`)
}

// Normalize repairs OCR artifacts so header patterns can match.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = apostropheReplacer.Replace(text)
	text = replaceUntilStable(hyphenBreakPattern, text, "$1$2")
	text = horizontalSpacePattern.ReplaceAllString(text, " ")

	if cyrillicRatio(text) >= 0.6 {
		// remapped letters may now compose with a following combining mark
		text = norm.NFC.String(remapLookalikes(text))
	}

	text = breakBefore(text, headerPrefixBreakPattern)
	text = breakBefore(text, knownHeaderBreakPattern)
	return text
}

func replaceUntilStable(re *regexp.Regexp, text, repl string) string {
	for i := 0; i < 16; i++ {
		next := re.ReplaceAllString(text, repl)
		if next == text {
			break
		}
		text = next
	}
	return text
}

// remapLookalikes converts Latin lookalike glyphs to Cyrillic inside words
// that already contain Cyrillic letters, and rewrites words of two or more
// letters drawn only from lookalike glyphs ("HAPX") unless a neighbouring
// word on the same line is plainly Latin ("BETA SERVIS"). Roman numerals
// made of X and C are left alone.
func remapLookalikes(text string) string {
	runes := []rune(text)
	words := letterRuns(runes)

	changed := false
	for i, w := range words {
		switch w.kind {
		case wordMixed:
		case wordLookalike:
			if w.end-w.start < 2 || isRomanXC(runes[w.start:w.end]) {
				continue
			}
			if latinNeighbour(runes, words, i) {
				continue
			}
		default:
			continue
		}
		for k := w.start; k < w.end; k++ {
			if c, ok := latinToCyrillic[runes[k]]; ok {
				runes[k] = c
				changed = true
			}
		}
	}
	if !changed {
		return text
	}
	return string(runes)
}

type wordKind int

const (
	wordOther     wordKind = iota // Cyrillic only, or no letters worth remapping
	wordMixed                     // Cyrillic plus Latin lookalikes
	wordLookalike                 // Latin lookalikes only
	wordLatin                     // has a Latin letter with no Cyrillic twin and no Cyrillic
)

type letterRun struct {
	start, end int
	kind       wordKind
}

func letterRuns(runes []rune) []letterRun {
	var out []letterRun
	for i := 0; i < len(runes); {
		if !unicode.IsLetter(runes[i]) {
			i++
			continue
		}
		j := i
		var cyr, look, latin bool
		for j < len(runes) && unicode.IsLetter(runes[j]) {
			r := runes[j]
			switch {
			case isCyrillic(r):
				cyr = true
			case latinToCyrillic[r] != 0:
				look = true
			case isLatin(r):
				latin = true
			}
			j++
		}
		kind := wordOther
		switch {
		case cyr && look:
			kind = wordMixed
		case cyr:
		case latin:
			kind = wordLatin
		case look:
			kind = wordLookalike
		}
		out = append(out, letterRun{start: i, end: j, kind: kind})
		i = j
	}
	return out
}

// latinNeighbour reports whether the word before or after words[i] on the
// same line is plainly Latin
func latinNeighbour(runes []rune, words []letterRun, i int) bool {
	if i > 0 && words[i-1].kind == wordLatin && !hasNewline(runes[words[i-1].end:words[i].start]) {
		return true
	}
	if i+1 < len(words) && words[i+1].kind == wordLatin && !hasNewline(runes[words[i].end:words[i+1].start]) {
		return true
	}
	return false
}

func hasNewline(rs []rune) bool {
	for _, r := range rs {
		if r == '\n' {
			return true
		}
	}
	return false
}

func isRomanXC(rs []rune) bool {
	for _, r := range rs {
		if r != 'X' && r != 'C' {
			return false
		}
	}
	return true
}

// breakBefore replaces the horizontal whitespace in front of each match's
// first group with a newline, unless the preceding token is itself part of a
// heading (a numbering prefix or an all-uppercase word) or ends in a hyphen.
func breakBefore(text string, re *regexp.Regexp) string {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		wsStart, target := m[0], m[2]
		if !shouldBreak(text, wsStart) {
			continue
		}
		b.WriteString(text[last:wsStart])
		b.WriteByte('\n')
		last = target
	}
	b.WriteString(text[last:])
	return b.String()
}

func shouldBreak(text string, wsStart int) bool {
	if wsStart == 0 {
		return false
	}
	prev := text[wsStart-1]
	if prev == '\n' || prev == '-' {
		return false
	}
	tokenStart := strings.LastIndexAny(text[:wsStart], " \t\n") + 1
	token := text[tokenStart:wsStart]
	if numberingTokenPattern.MatchString(token) {
		return false
	}
	if hasLetter(token) && !hasLower(token) {
		return false
	}
	return true
}

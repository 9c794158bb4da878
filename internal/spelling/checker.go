package spelling

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
)

const (
	contextRadius      = 30
	minExternalRunes   = 3
	maxAcronymRunes    = 5
	maxTitleArtifact   = 12
	titleLines         = 3
	minProperNounRatio = 0.85
)

// Words are letter runs joined by inner apostrophes, so "to'lov" and
// "bo`lim" stay whole
var wordPattern = regexp.MustCompile("\\p{L}+(?:['`ʻʼ‘’]\\p{L}+)*")

// Checker finds lexical errors in Uzbek and Russian contract text
type Checker struct {
	backend Backend
	mode    model.SpellingMode
	logger  *zap.Logger
}

// Option configures a Checker
type Option func(*Checker)

// WithLogger sets the checker logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// WithBackend sets the external backend consulted after the dictionaries
func WithBackend(b Backend) Option {
	return func(c *Checker) { c.backend = b }
}

// WithMode selects hybrid or external-only checking
func WithMode(m model.SpellingMode) Option {
	return func(c *Checker) { c.mode = m }
}

// NewChecker creates a checker. Without a backend only the built-in
// dictionaries run.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{mode: model.SpellingHybrid}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	return c
}

// Check runs CheckContext with a background context
func (c *Checker) Check(text string, lang model.Language) []model.SpellingError {
	return c.CheckContext(context.Background(), text, lang)
}

// CheckContext reports spelling errors in text. lang is the document
// language; each word is re-classified by its own letters. Errors found
// before a failure are still returned.
func (c *Checker) CheckContext(ctx context.Context, text string, lang model.Language) (errs []model.SpellingError) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Debug("spelling check failed", zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if c.mode == model.SpellingExternalOnly {
		if c.backend == nil {
			return nil
		}
		c.eachWord(text, lang, func(t token) {
			if e, ok := c.checkExternal(ctx, t, lang, false); ok {
				errs = append(errs, e)
			}
		})
		return errs
	}

	seen := make(map[dedupKey]bool)
	c.eachWord(text, lang, func(t token) {
		e, ok := c.checkWord(ctx, t)
		if !ok {
			return
		}
		k := dedupKey{t.lineNo, e.Position, t.lower, e.Kind, strings.ToLower(e.Suggestion)}
		if seen[k] {
			return
		}
		seen[k] = true
		errs = append(errs, e)
	})
	return errs
}

type dedupKey struct {
	line       int
	pos        int
	word       string
	kind       model.SpellingErrorKind
	suggestion string
}

// token is one word with its location
type token struct {
	word   string
	lower  string
	line   string
	lineNo int
	col    int // byte offset in line
	pos    int // byte offset in text
	lang   model.Language
}

func (c *Checker) eachWord(text string, docLang model.Language, fn func(token)) {
	offset := 0
	for i, line := range strings.Split(text, "\n") {
		for _, loc := range wordPattern.FindAllStringIndex(line, -1) {
			word := line[loc[0]:loc[1]]
			fn(token{
				word:   word,
				lower:  strings.ToLower(word),
				line:   line,
				lineNo: i + 1,
				col:    loc[0],
				pos:    offset + loc[0],
				lang:   wordLanguage(word, docLang),
			})
		}
		offset += len(line) + 1
	}
}

// checkWord tries each heuristic in order and stops at the first finding
func (c *Checker) checkWord(ctx context.Context, t token) (model.SpellingError, bool) {
	if fix, ok := corrections[t.lower]; ok {
		if strings.EqualFold(fix, t.word) {
			return model.SpellingError{}, false
		}
		fix = matchCase(t.word, fix)
		kind := correctionKind(t.word, fix)
		return c.newError(t, fix, kind, t.lang, correctionDescription(kind, t.word, fix)), true
	}

	if fix, ok := xInsteadOfH(t); ok {
		return c.newError(t, fix, model.SpellWrongLetter, t.lang,
			fmt.Sprintf("'x' o'rniga 'h' bo'lishi kerak: '%s' → '%s'", t.word, fix)), true
	}

	if strings.Contains(t.word, "`") {
		fix := strings.ReplaceAll(t.word, "`", "'")
		return c.newError(t, fix, model.SpellApostrophe, model.LangUzLatin,
			"Tutuq belgisi noto'g'ri: '`' o'rniga \"'\" ishlatilishi kerak"), true
	}

	if fix, ok := missingApostrophe[t.lower]; ok {
		fix = matchCase(t.word, fix)
		return c.newError(t, fix, model.SpellApostrophe, model.LangUzLatin,
			fmt.Sprintf("Tutuq belgisi tushib qolgan: '%s' → '%s'", t.word, fix)), true
	}

	if isMixedScript(t.word) && !isTitleArtifact(t) {
		return c.newError(t, fixMixedScript(t.word), model.SpellScriptMix, model.LangMixed,
			fmt.Sprintf("So'zda lotin va kirill harflari aralashgan: '%s'", t.word)), true
	}

	return c.checkExternal(ctx, t, t.lang, true)
}

// checkExternal consults the backend. strict applies the proper-noun and
// whitelist filters used in hybrid mode.
func (c *Checker) checkExternal(ctx context.Context, t token, lang model.Language, strict bool) (model.SpellingError, bool) {
	if !c.shouldAskBackend(t.word) {
		return model.SpellingError{}, false
	}
	capitalized := startsUpper(t.word)
	if strict {
		if isUpper(t.word) {
			return model.SpellingError{}, false
		}
		if capitalized && hasSurnameSuffix(t.lower) {
			return model.SpellingError{}, false
		}
		if _, ok := whitelist[t.lower]; ok {
			return model.SpellingError{}, false
		}
	}

	v, err := c.backend.Check(ctx, t.word, lang)
	if err != nil {
		c.logger.Debug("spelling backend failed", zap.String("word", t.word), zap.Error(err))
		return model.SpellingError{}, false
	}
	if v.Correct || v.Suggestion == "" || strings.EqualFold(v.Suggestion, t.word) {
		return model.SpellingError{}, false
	}

	if strict && capitalized {
		if similarity(t.word, v.Suggestion) < minProperNounRatio {
			return model.SpellingError{}, false
		}
		if !sameInitial(t.word, v.Suggestion) {
			return model.SpellingError{}, false
		}
	}

	fix := matchCase(t.word, v.Suggestion)
	return c.newError(t, fix, model.SpellTypo, lang,
		fmt.Sprintf("Imloviy xato: '%s' → '%s'", t.word, fix)), true
}

func (c *Checker) shouldAskBackend(word string) bool {
	if c.backend == nil {
		return false
	}
	n := utf8.RuneCountInString(word)
	if n < minExternalRunes {
		return false
	}
	if strings.IndexFunc(word, unicode.IsDigit) >= 0 {
		return false
	}
	return !(isUpper(word) && n <= maxAcronymRunes)
}

func (c *Checker) newError(t token, suggestion string, kind model.SpellingErrorKind, lang model.Language, desc string) model.SpellingError {
	return model.SpellingError{
		Word:        t.word,
		Suggestion:  suggestion,
		Kind:        kind,
		Position:    t.pos,
		Line:        t.lineNo,
		Context:     contextAround(t.line, t.col, len(t.word)),
		Language:    lang,
		Description: desc,
	}
}

func wordLanguage(word string, docLang model.Language) model.Language {
	if !strings.ContainsFunc(word, isCyrillic) {
		return model.LangUzLatin
	}
	if strings.ContainsAny(word, "ғқҳўҒҚҲЎ") {
		return model.LangUzCyrillic
	}
	if strings.ContainsAny(word, "ыщЫЩ") {
		return model.LangRussian
	}
	if docLang == model.LangRussian {
		return model.LangRussian
	}
	return model.LangUzCyrillic
}

func xInsteadOfH(t token) (string, bool) {
	if !strings.HasPrefix(t.lower, "x") || len(t.lower) < 2 {
		return "", false
	}
	if _, ok := hWords["h"+t.lower[1:]]; !ok {
		return "", false
	}
	switch {
	case isUpper(t.word):
		return "H" + strings.ToUpper(t.word[1:]), true
	case startsUpper(t.word):
		return "H" + strings.ToLower(t.word[1:]), true
	default:
		return "h" + t.word[1:], true
	}
}

func correctionKind(wrong, right string) model.SpellingErrorKind {
	w, r := utf8.RuneCountInString(wrong), utf8.RuneCountInString(right)
	switch {
	case w > r:
		return model.SpellExtraLetter
	case w < r:
		return model.SpellMissingLetter
	default:
		return model.SpellWrongLetter
	}
}

func correctionDescription(kind model.SpellingErrorKind, wrong, right string) string {
	switch kind {
	case model.SpellMissingLetter:
		return fmt.Sprintf("Harf tushib qolgan: '%s' → '%s'", wrong, right)
	case model.SpellExtraLetter:
		return fmt.Sprintf("Ortiqcha harf: '%s' → '%s'", wrong, right)
	case model.SpellWrongLetter:
		return fmt.Sprintf("Noto'g'ri harf: '%s' → '%s'", wrong, right)
	default:
		return fmt.Sprintf("Imloviy xato: '%s' → '%s'", wrong, right)
	}
}

func isMixedScript(word string) bool {
	var latin, cyrillic bool
	for _, r := range word {
		switch {
		case r < utf8.RuneSelf && unicode.IsLetter(r):
			latin = true
		case isBasicCyrillic(r):
			cyrillic = true
		}
	}
	return latin && cyrillic
}

// isTitleArtifact matches short all-caps words on the first lines, where
// OCR of decorated titles mixes scripts most
func isTitleArtifact(t token) bool {
	return t.lineNo <= titleLines && isUpper(t.word) && utf8.RuneCountInString(t.word) <= maxTitleArtifact
}

// fixMixedScript rewrites lookalike letters into the word's majority script
func fixMixedScript(word string) string {
	var latin, cyrillic int
	for _, r := range word {
		switch {
		case r < utf8.RuneSelf && unicode.IsLetter(r):
			latin++
		case isBasicCyrillic(r):
			cyrillic++
		}
	}

	toCyrillic := make(map[rune]rune, len(lookalikes))
	for cyr, lat := range lookalikes {
		toCyrillic[lat] = cyr
	}

	return strings.Map(func(r rune) rune {
		if latin > cyrillic {
			if lat, ok := lookalikes[r]; ok {
				return lat
			}
			return r
		}
		if cyr, ok := toCyrillic[r]; ok {
			return cyr
		}
		return r
	}, word)
}

func isCyrillic(r rune) bool {
	return r >= 0x0400 && r <= 0x04FF
}

func isBasicCyrillic(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}

func hasSurnameSuffix(lower string) bool {
	for _, s := range surnameSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// sameInitial compares first letters, treating x/h and х/ҳ as the same
func sameInitial(a, b string) bool {
	ra, _ := utf8.DecodeRuneInString(a)
	rb, _ := utf8.DecodeRuneInString(b)
	ra, rb = unicode.ToLower(ra), unicode.ToLower(rb)
	if ra == rb {
		return true
	}
	pair := string([]rune{ra, rb})
	return pair == "xh" || pair == "hx" || pair == "хҳ" || pair == "ҳх"
}

func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// matchCase shapes suggestion like original: all caps, capitalized or as is
func matchCase(original, suggestion string) string {
	switch {
	case suggestion == "":
		return suggestion
	case isUpper(original):
		return strings.ToUpper(suggestion)
	case startsUpper(original):
		return capitalize(suggestion)
	default:
		return suggestion
	}
}

func contextAround(line string, col, n int) string {
	before := []rune(line[:col])
	after := []rune(line[col+n:])
	prefix, suffix := "", ""
	if len(before) > contextRadius {
		before = before[len(before)-contextRadius:]
		prefix = "..."
	}
	if len(after) > contextRadius {
		after = after[:contextRadius]
		suffix = "..."
	}
	return prefix + string(before) + line[col:col+n] + string(after) + suffix
}

package extract

import (
	"strings"
	"unicode"

	"github.com/ppiankov/shartnoma/internal/model"
)

const languageProbeRunes = 2000

var (
	uzbekCyrillicLetters   = "ғҳқўҒҲҚЎ"
	russianSpecificLetters = "ъыэёЪЫЭЁ"

	russianSignalWords = map[string]bool{
		"договор": true, "договора": true, "поставщик": true, "покупатель": true,
		"заказчик": true, "исполнитель": true, "стороны": true, "настоящий": true,
		"обязуется": true, "именуемое": true, "именуемый": true, "действующего": true,
	}
)

// DetectLanguage classifies the document script and language
func DetectLanguage(text string) model.Language {
	if hasStandaloneWord(firstRunes(text, languageProbeRunes), "договор") {
		return model.LangRussian
	}

	if cyrillicRatio(text) <= 0.5 {
		return model.LangUzLatin
	}

	var uzLetters, ruLetters int
	for _, r := range text {
		switch {
		case strings.ContainsRune(uzbekCyrillicLetters, r):
			uzLetters++
		case strings.ContainsRune(russianSpecificLetters, r):
			ruLetters++
		}
	}
	if uzLetters > ruLetters {
		return model.LangUzCyrillic
	}

	ruWords := 0
	for _, w := range words(text) {
		if russianSignalWords[strings.ToLower(w)] {
			ruWords++
		}
	}
	if ruLetters >= 3 || ruWords >= 2 {
		return model.LangRussian
	}
	return model.LangUzCyrillic
}

func firstRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// words splits s into runs of letters
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
}

func hasStandaloneWord(s, word string) bool {
	for _, w := range words(s) {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}

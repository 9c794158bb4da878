package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/shartnoma/internal/model"
)

const (
	minLegalElements  = 2
	invalidExcerptLen = 500
)

var contractKeywords = []string{
	"shartnoma", "kelishuv", "bitim", "kontrakt",
	"шартнома", "келишув", "битим",
	"договор", "соглашение", "контракт",
}

var partyKeywords = []string{
	"buyurtmachi", "pudratchi", "ijara beruvchi", "ijara oluvchi",
	"sotuvchi", "xaridor", "ish beruvchi", "xodim", "tomon",
	"буюртмачи", "пудратчи", "ижарага берувчи", "ижарачи",
	"сотувчи", "харидор", "иш берувчи", "ходим", "томон",
	"заказчик", "подрядчик", "арендодатель", "арендатор",
	"продавец", "покупатель", "работодатель", "работник", "сторона",
}

var legalKeywords = []string{
	"muddat", "narx", "summa", "majburiyat", "huquq", "javobgarlik", "imzo",
	"муддат", "нарх", "сумма", "мажбурият", "ҳуқуқ", "жавобгарлик", "имзо",
	"срок", "цена", "обязательство", "право", "ответственность", "подпись",
}

// IsContract decides whether a document is worth a rule check. Typed
// documents always pass; an "other" document needs a contract word plus
// party words or at least two legal terms.
func IsContract(text string, ct model.ContractType) bool {
	if ct != model.ContractOther && ct != "" {
		return true
	}

	lower := strings.ToLower(text)
	if !containsAny(lower, contractKeywords) {
		return false
	}
	return containsAny(lower, partyKeywords) || countContained(lower, legalKeywords) >= minLegalElements
}

// InvalidDocumentIssue is the single finding reported for a document that
// is not a contract
func InvalidDocumentIssue(text string) model.ComplianceIssue {
	return model.ComplianceIssue{
		Type:        model.IssueInvalidDocument,
		Severity:    model.SeverityCritical,
		Title:       "Hujjat shartnoma emas",
		Description: "Yuklangan hujjat hech qaysi shartnoma turiga to'g'ri kelmaydi. Iltimos, to'g'ri shartnoma hujjatini yuklang.",
		TextExcerpt: truncateRunes(text, invalidExcerptLen),
		Suggestion:  "Shartnoma hujjati quyidagi elementlarni o'z ichiga olishi kerak: tomonlar, shartnoma predmeti, huquq va majburiyatlar, muddat, narx.",
	}
}

// InvalidDocumentRecommendations replace score recommendations for
// documents rejected by IsContract
func InvalidDocumentRecommendations() []string {
	return []string{
		"To'g'ri shartnoma hujjatini yuklang",
		"Shartnoma quyidagi turlardan biri bo'lishi kerak: xizmat ko'rsatish, mol yetkazib berish, pudrat, mehnat, ijara, davlat xaridi, qarz",
		"Shartnomada tomonlar, muddat, narx va boshqa majburiy elementlar bo'lishi kerak",
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func countContained(s string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			n++
		}
	}
	return n
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

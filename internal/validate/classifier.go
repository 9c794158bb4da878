package validate

import (
	"strings"

	"github.com/ppiankov/shartnoma/internal/model"
)

// defaultTypeKeywords are the lowercase phrases that vote for a contract type
var defaultTypeKeywords = map[model.ContractType][]string{
	model.ContractService: {
		"xizmat ko'rsatish", "xizmatlar", "хизмат кўрсатиш", "хизматлар",
		"оказание услуг", "услуги", "сервис",
	},
	model.ContractSupply: {
		"mol yetkazib berish", "yetkazib berish", "mahsulot yetkazish",
		"етказиб бериш", "маҳсулот", "поставка", "товар",
	},
	model.ContractWork: {
		"pudrat", "qurilish", "qurish", "ta'mirlash",
		"пудрат", "қурилиш", "курилиш", "қуриш", "иншоот", "иншоат", "таъмирлаш",
		"подряд", "строительство", "ремонт",
	},
	model.ContractLabor: {
		"mehnat shartnomasi", "ish haqi", "xodim",
		"меҳнат шартномаси", "иш ҳақи", "ходим",
		"трудовой договор", "заработная плата",
	},
	model.ContractLease: {
		"ijara", "ijaraga berish", "ijaraga olish", "ижара", "аренда",
	},
	model.ContractProcurement: {
		"davlat xaridi", "tender", "konkurs", "давлат харид",
		"государственная закупка", "тендер",
	},
	model.ContractLoan: {
		"qarz", "kredit", "ssuda", "қарз", "кредит", "займ",
	},
}

// TypeClassifier guesses the contract type from its vocabulary
type TypeClassifier struct {
	keywords map[model.ContractType][]string
}

// NewTypeClassifier creates a classifier. extra adds keywords per type tag;
// unknown tags are ignored.
func NewTypeClassifier(extra map[string][]string) *TypeClassifier {
	c := &TypeClassifier{keywords: make(map[model.ContractType][]string, len(defaultTypeKeywords))}
	for ct, kws := range defaultTypeKeywords {
		c.keywords[ct] = append([]string(nil), kws...)
	}

	for tag, kws := range extra {
		ct := model.ParseContractType(strings.ToLower(strings.TrimSpace(tag)))
		if ct == model.ContractOther {
			continue
		}
		for _, kw := range kws {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				c.keywords[ct] = append(c.keywords[ct], kw)
			}
		}
	}
	return c
}

// Scores counts the distinct keywords of each type found in text
func (c *TypeClassifier) Scores(text string) map[model.ContractType]int {
	lower := strings.ToLower(text)
	scores := make(map[model.ContractType]int, len(c.keywords))
	for ct, kws := range c.keywords {
		for _, kw := range kws {
			if strings.Contains(lower, kw) {
				scores[ct]++
			}
		}
	}
	return scores
}

// Classify returns the best-scoring type, or "other" when nothing matched.
// Ties go to the type listed first in model.ContractTypes.
func (c *TypeClassifier) Classify(text string) model.ContractType {
	scores := c.Scores(text)

	best, bestScore := model.ContractOther, 0
	for _, ct := range model.ContractTypes {
		if scores[ct] > bestScore {
			best, bestScore = ct, scores[ct]
		}
	}
	return best
}

// Resolve keeps a caller-supplied type and detects one otherwise. The
// second result reports whether the type was detected.
func (c *TypeClassifier) Resolve(text string, supplied model.ContractType) (model.ContractType, bool) {
	if supplied != "" && supplied != model.ContractOther {
		return supplied, false
	}
	return c.Classify(text), true
}

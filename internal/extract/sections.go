package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/ppiankov/shartnoma/internal/model"
)

// sectionPriority resolves headings that match several section types at
// the same offset; earlier entries win.
var sectionPriority = []model.SectionType{
	model.SectionRequisites,
	model.SectionLiability,
	model.SectionTerm,
	model.SectionPrice,
	model.SectionSubject,
	model.SectionForceMajeure,
	model.SectionDispute,
	model.SectionTermination,
	model.SectionWarranty,
	model.SectionQuality,
	model.SectionDelivery,
	model.SectionConfidential,
	model.SectionObligations,
	model.SectionRights,
	model.SectionAdditional,
	model.SectionSignatures,
	model.SectionOther,
	model.SectionParties,
}

// sectionHeaders lists heading phrasings per section type in Uzbek Latin,
// Uzbek Cyrillic and Russian. Matching is case-insensitive.
var sectionHeaders = map[model.SectionType][]string{
	model.SectionParties: {
		`SHARTNOMA\s+TOMONLARI`, `TOMONLAR`,
		`ШАРТНОМА\s+ТОМОНЛАРИ`, `ТОМОНЛАР`,
		`СТОРОНЫ\s+ДОГОВОРА`, `СТОРОНЫ`,
	},
	model.SectionSubject: {
		`SHARTNOMA(?:NING)?\s+PREDMETI`, `SHARTNOMA\s+MAVZUSI`, `PREDMET`,
		`ШАРТНОМА(?:НИНГ)?\s+ПРЕДМЕТИ`, `ШАРТНОМА\s+МАВЗУСИ`,
		`ПРЕДМЕТ\s+(?:ДОГОВОРА|КОНТРАКТА)`, `ПРЕДМЕТ`,
	},
	model.SectionPrice: {
		`SHARTNOMA(?:NING)?\s+(?:NARXI|QIYMATI|SUMMASI)`, `NARX\s+VA\s+TO'?LOV`, `TO'?LOV\s+TARTIBI`,
		`HISOB[-\s]?KITOB`, `NARX`,
		`ШАРТНОМА(?:НИНГ)?\s+(?:НАРХИ|БАҲОСИ|СУММАСИ|ҚИЙМАТИ)`, `НАРХ`, `ТЎЛОВ\s+ТАРТИБИ`, `ҲИСОБ[-\s]?КИТОБ`,
		`ЦЕНА`, `СТОИМОСТЬ`, `ПОРЯДОК\s+(?:ОПЛАТЫ|РАСЧЕТОВ|РАСЧЁТОВ)`,
	},
	model.SectionTerm: {
		`SHARTNOMA(?:NING)?\s+(?:AMAL\s+QILISH\s+)?MUDDATI`, `AMAL\s+QILISH\s+MUDDATI`, `MUDDAT`,
		`ШАРТНОМА(?:НИНГ)?\s+(?:АМАЛ\s+ҚИЛИШ\s+)?МУДДАТИ`, `АМАЛ\s+ҚИЛИШ\s+МУДДАТИ`, `МУДДАТ`,
		`СРОКИ?\s+(?:ДЕЙСТВИЯ|ИСПОЛНЕНИЯ)`, `СРОК\s+ДОГОВОРА`,
	},
	model.SectionLiability: {
		`(?:TOMONLARNING\s+)?JAVOBGARLI[GK]`,
		`(?:ТОМОНЛАРНИНГ\s+)?(?:МУЛКИЙ\s+)?ЖАВОБГАРЛИ[ГК]`,
		`ОТВЕТСТВЕННОСТЬ`,
	},
	model.SectionRequisites: {
		`(?:TOMONLARNING\s+)?(?:BANK\s+)?REKVIZITLAR`, `(?:TOMONLARNING\s+)?YURIDIK\s+MANZIL`, `MANZILLAR\s+VA\s+REKVIZITLAR`,
		`(?:ТОМОНЛАРНИНГ\s+)?(?:БАНК\s+)?РЕКВИЗИТЛАР`, `(?:ТОМОНЛАРНИНГ\s+)?ЮРИДИК\s+МАНЗИЛ`, `МАНЗИЛЛАР\s+ВА\s+(?:БАНК\s+)?РЕКВИЗИТЛАР`,
		`РЕКВИЗИТЫ`, `ЮРИДИЧЕСКИЕ\s+АДРЕСА`, `АДРЕСА\s+И\s+(?:БАНКОВСКИЕ\s+)?РЕКВИЗИТЫ`,
	},
	model.SectionDelivery: {
		`Y?ETKAZIB\s+BERISH`, `TOPSHIRISH\s+VA\s+QABUL`,
		`ЕТКАЗИБ\s+БЕРИШ`, `ТОВАРНИ\s+ЕТКАЗИБ`, `ТОПШИРИШ\s+ВА\s+ҚАБУЛ`,
		`(?:ПОРЯДОК|УСЛОВИЯ|СРОКИ)\s+ПОСТАВКИ`, `ПОСТАВКА`, `ДОСТАВКА`, `ПРИ[ЕЁ]МКА`,
	},
	model.SectionQuality: {
		`(?:MAHSULOT\s+)?SIFAT`, `(?:МАҲСУЛОТ\s+)?СИФАТ`, `КАЧЕСТВО`,
	},
	model.SectionWarranty: {
		`KAFOLAT`, `КАФОЛАТ`, `ГАРАНТИ`,
	},
	model.SectionForceMajeure: {
		`FORS[-\s]?MAJOR`, `ENGIB\s+BO'?LMAYDIGAN`, `FAVQULODDA`,
		`ФОРС[-\s]?МАЖОР`, `ЕНГИБ\s+БЎЛМАЙДИГАН`, `ФАВҚУЛОДДА`,
		`ОБСТОЯТЕЛЬСТВА\s+НЕПРЕОДОЛИМОЙ\s+СИЛЫ`, `НЕПРЕОДОЛИМАЯ\s+СИЛА`,
	},
	model.SectionDispute: {
		`NIZOLARNI\s+HAL\s+QILISH`, `NIZOLAR`,
		`НИЗОЛАРНИ\s+ҲАЛ\s+ҚИЛИШ`, `НИЗОЛАР`,
		`(?:ПОРЯДОК\s+)?РАЗРЕШЕНИ[ЕЯ]\s+СПОРОВ`, `СПОРЫ`,
	},
	model.SectionTermination: {
		`SHARTNOMANI\s+(?:O'ZGARTIRISH\s+VA\s+)?BEKOR\s+QILISH`, `BEKOR\s+QILISH`,
		`ШАРТНОМАНИ\s+(?:ЎЗГАРТИРИШ\s+ВА\s+)?БЕКОР\s+ҚИЛИШ`, `БЕКОР\s+ҚИЛИШ`,
		`(?:ИЗМЕНЕНИЕ\s+И\s+|ПОРЯДОК\s+)?РАСТОРЖЕНИ[ЕЯ]`,
	},
	model.SectionConfidential: {
		`MAXFIYLIK`, `МАХФИЙЛИК`, `КОНФИДЕНЦИАЛЬНОСТЬ`,
	},
	model.SectionAdditional: {
		`QO'SHIMCHA\s+SHARTLAR`, `YAKUNIY\s+QOIDALAR`, `BOSHQA\s+SHARTLAR`,
		`ҚЎШИМЧА\s+ШАРТЛАР`, `ЯКУНИЙ\s+ҚОИДАЛАР`, `БОШҚА\s+ШАРТЛАР`,
		`ЗАКЛЮЧИТЕЛЬНЫЕ\s+ПОЛОЖЕНИЯ`, `ПРОЧИЕ\s+УСЛОВИЯ`, `ДОПОЛНИТЕЛЬНЫЕ\s+УСЛОВИЯ`,
	},
	model.SectionSignatures: {
		`(?:TOMONLARNING\s+)?IMZOLARI?`, `(?:ТОМОНЛАРНИНГ\s+)?ИМЗОЛАРИ?`, `ПОДПИСИ(?:\s+СТОРОН)?`,
	},
	model.SectionRights: {
		`(?:TOMONLARNING\s+)?HUQUQ`, `(?:ТОМОНЛАРНИНГ\s+)?ҲУҚУҚ`, `ПРАВА`,
	},
	model.SectionObligations: {
		`(?:TOMONLARNING\s+)?(?:HUQUQ(?:LARI)?\s+VA\s+)?MAJBURIYAT`,
		`(?:ТОМОНЛАРНИНГ\s+)?(?:ҲУҚУҚ(?:ЛАРИ)?\s+ВА\s+)?МАЖБУРИЯТ`,
		`ПРАВА\s+И\s+ОБЯЗАННОСТИ`, `ОБЯЗАННОСТИ\s+СТОРОН`, `ОБЯЗАТЕЛЬСТВА\s+СТОРОН`,
	},
	model.SectionOther: {
		`UMUMIY\s+QOIDALAR`, `УМУМИЙ\s+ҚОИДАЛАР`, `ОБЩИЕ\s+ПОЛОЖЕНИЯ`,
	},
}

// headingPrefix is an optional "3.", "IV)", "A." ordinal before a heading
const headingPrefix = `(?:(?:\d{1,2}|[IVXLC]{1,4}|\p{Lu}{1,3})[.)][ \t]*)?`

type sectionPattern struct {
	sectionType model.SectionType
	rank        int
	re          *regexp.Regexp
}

var sectionPatterns = compileSectionPatterns()

var (
	clauseStartPattern   = regexp.MustCompile(`(?m)^[ \t]*(\d+(?:\.\d+)*)[.:)][ \t]*`)
	sectionNumberPattern = regexp.MustCompile(`^(\d{1,2}|[IVXLC]{1,4}|\p{Lu}{1,3})[.)]`)
)

func compileSectionPatterns() []sectionPattern {
	patterns := make([]sectionPattern, 0, len(sectionPriority))
	for rank, st := range sectionPriority {
		phrases := sectionHeaders[st]
		if len(phrases) == 0 {
			continue
		}
		re := regexp.MustCompile(`(?im)^[ \t]*` + headingPrefix + `(?:` + strings.Join(phrases, "|") + `)`)
		patterns = append(patterns, sectionPattern{sectionType: st, rank: rank, re: re})
	}
	return patterns
}

type headingCandidate struct {
	start int
	end   int
	rank  int
	st    model.SectionType
	title string
}

// findHeadings collects heading matches, resolves same-offset collisions by
// priority and drops candidates that overlap an earlier heading.
func findHeadings(text string) []headingCandidate {
	var cands []headingCandidate
	for _, sp := range sectionPatterns {
		for _, m := range sp.re.FindAllStringIndex(text, -1) {
			start := m[0]
			for start < m[1] && (text[start] == ' ' || text[start] == '\t') {
				start++
			}
			if !looksLikeHeading(text, start, m[1]) {
				continue
			}
			end := headingEnd(text, start, m[1])
			cands = append(cands, headingCandidate{
				start: start,
				end:   end,
				rank:  sp.rank,
				st:    sp.sectionType,
				title: strings.TrimSpace(text[start:end]),
			})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		return cands[i].rank < cands[j].rank
	})

	var out []headingCandidate
	for _, c := range cands {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if c.start == prev.start || c.start < prev.end {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// looksLikeHeading accepts an upper-case match, or a short line that does
// not read as a sentence
func looksLikeHeading(text string, start, end int) bool {
	if !hasLower(text[start:end]) {
		return true
	}
	return isShortHeadingLine(lineAt(text, start))
}

func isShortHeadingLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if len(strings.Fields(line)) > 6 || strings.ContainsAny(line[len(line)-1:], ".,;") {
		return false
	}
	// "Muddat: 31.12.2024" is a labelled value, not a heading
	body := strings.TrimSpace(sectionNumberPattern.ReplaceAllString(line, ""))
	if strings.IndexFunc(body, unicode.IsDigit) >= 0 {
		return false
	}
	if i := strings.IndexByte(body, ':'); i >= 0 && i < len(body)-1 {
		return false
	}
	return true
}

func lineAt(text string, start int) string {
	lineEnd := strings.IndexByte(text[start:], '\n')
	if lineEnd < 0 {
		return text[start:]
	}
	return text[start : start+lineEnd]
}

// headingEnd extends a heading match to the end of its line when the rest of
// the line is part of the heading, otherwise to the end of the current word
// plus trailing ':' or '.'
func headingEnd(text string, start, end int) int {
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += end
	}
	rest := text[end:lineEnd]
	if !hasLower(rest) || isShortHeadingLine(text[start:lineEnd]) {
		return start + len(strings.TrimRight(text[start:lineEnd], " \t"))
	}

	i := end
	for i < lineEnd {
		r, size := decodeRune(text[i:])
		if !isWordRune(r) {
			break
		}
		i += size
	}
	for i < lineEnd && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i < lineEnd && (text[i] == ':' || text[i] == '.') {
		i++
	}
	return i
}

// ParseSections splits normalized text into ordered, non-overlapping sections
func ParseSections(text string) []model.Section {
	headings := findHeadings(text)
	if len(headings) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		content, _ := trimmedSpan(text, 0, len(text))
		return []model.Section{{
			Type:     model.SectionHeader,
			Title:    model.SectionHeader.NameUz(),
			Content:  content,
			StartPos: 0,
			EndPos:   len(text),
		}}
	}

	sections := make([]model.Section, 0, len(headings)+1)
	if pre := strings.TrimSpace(text[:headings[0].start]); pre != "" {
		sections = append(sections, model.Section{
			Type:     model.SectionHeader,
			Title:    model.SectionHeader.NameUz(),
			Content:  pre,
			StartPos: 0,
			EndPos:   headings[0].start,
		})
	}

	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].start
		}
		content, contentStart := trimmedSpan(text, h.end, end)
		section := model.Section{
			Type:     h.st,
			Title:    h.title,
			Number:   sectionNumber(h.title),
			Content:  content,
			StartPos: h.start,
			EndPos:   end,
		}
		section.Clauses = ParseClauses(content, contentStart, h.st)
		sections = append(sections, section)
	}
	return sections
}

// ParseClauses finds numbered clauses in a section's content. base is the
// content's offset in the normalized text.
func ParseClauses(content string, base int, st model.SectionType) []model.Clause {
	matches := clauseStartPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return nil
	}

	clauses := make([]model.Clause, 0, len(matches))
	for i, m := range matches {
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body, bodyStart := trimmedSpan(content, m[1], end)
		if body == "" {
			continue
		}
		clauses = append(clauses, model.Clause{
			Number:      content[m[2]:m[3]],
			Content:     body,
			SectionType: st,
			StartPos:    base + bodyStart,
			EndPos:      base + bodyStart + len(body),
		})
	}
	return clauses
}

func sectionNumber(title string) string {
	if m := sectionNumberPattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// trimmedSpan returns text[from:to] without surrounding whitespace and the
// offset where the trimmed text starts
func trimmedSpan(text string, from, to int) (string, int) {
	if from > to {
		from = to
	}
	span := text[from:to]
	trimmedLeft := strings.TrimLeft(span, " \t\n")
	start := from + len(span) - len(trimmedLeft)
	return strings.TrimRight(trimmedLeft, " \t\n"), start
}

package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/model"
)

const (
	requisitesWindow = 1500
	partyLookbehind  = 3000
	partyLookahead   = 2000
	introWindow      = 400
	labelWindow      = 400
	maxPartyName     = 200

	// amounts below this are clause numbers, days or percentages
	amountFloor = 50000
)

var contractNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^[ \t]*(?:ШАРТНОМА(?:СИ)?|SHARTNOMA(?:SI)?|ДОГОВОР|КОНТРАКТ|CONTRACT)[ \t]*(?:№|No\.?|N)[ \t]*([\p{L}\d][\p{L}\d\-/]*)`),
	regexp.MustCompile(`(?i)(?:shartnoma[ \t]+raqami|шартнома[ \t]+рақами|номер[ \t]+договора|№)[ \t]*[:.]?[ \t]*([\p{L}\d][\p{L}\d\-/]*)`),
	regexp.MustCompile(`(?i)([\p{L}\d][\p{L}\d\-/]*?)[ \t]*-?[ \t]*(?:сонли|sonli)`),
}

const (
	latinMonths    = `yanvar|fevral|mart|aprel|may|iyun|iyul|avgust|sentabr|sentyabr|oktabr|oktyabr|noyabr|dekabr`
	cyrillicMonths = `январ|феврал|март|апрел|май|мая|июн|июл|август|сентябр|октябр|ноябр|декабр`
)

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:^|[^\d.])(\d{1,2}[./-]\d{1,2}[./-]\d{4})(?:[^\d]|$)`),
	// two-digit years need text before them on the line, so clause numbers
	// such as "3.1.12." at the start of a line are not dates
	regexp.MustCompile(`(?:[^\d.\s]|[^\d.\n][ \t]+)(\d{1,2}[./-]\d{1,2}[./-]\d{2})(?:[^\d]|$)`),
	regexp.MustCompile(`(?:^|[^\d])(\d{4}-\d{2}-\d{2})(?:[^\d]|$)`),
	regexp.MustCompile(`(?i)(\d{4}[ \t]*(?:yil|y\.)?[ \t]*[«"]?\d{1,2}[»"]?[ \t\-]*(?:` + latinMonths + `)\p{L}*)`),
	regexp.MustCompile(`(?i)(\d{4}[ \t]*(?:йил|й\.|г\.|года)?[ \t]*[«"]?\d{1,2}[»"]?[ \t\-]*(?:` + cyrillicMonths + `)\p{L}*)`),
	regexp.MustCompile(`(?i)([«"]?\d{1,2}[»"]?[ \t\-]*(?:` + latinMonths + `)\p{L}*(?:[ \t,]*\d{4}(?:[ \t]*(?:yil|y\.))?)?)`),
	regexp.MustCompile(`(?i)([«"]?\d{1,2}[»"]?[ \t\-]*(?:` + cyrillicMonths + `)\p{L}*(?:[ \t,]*\d{4}(?:[ \t]*(?:йил|й\.|г\.|года))?)?)`),
}

var (
	innLabelPattern = regexp.MustCompile(`(?i)(?:ИНН|INN|STIR|СТИР)[ \t]*(?:/[ \t]*(?:ИНН|INN|STIR|СТИР)[ \t]*)?[:№.\-]?[ \t]*(\d{9}|\d{3}[ \-]?\d{3}[ \-]?\d{3})(?:[^\d]|$)`)
	innBarePattern  = regexp.MustCompile(`(?:^|[^\d+])(\d{9}|\d{3}[ \-]\d{3}[ \-]\d{3})(?:[^\d]|$)`)

	// what follows a bare number that is really an amount
	amountTailPattern = regexp.MustCompile(`(?i)^[ \t\x{00A0}]*(?:[.,]\d{1,2})?[ \t\x{00A0}]*(?:\(|сўм|сум|so'm|som(?:[^\p{L}]|$)|UZS|USD|EUR|\$|€)`)

	requisitesAnchorPattern = regexp.MustCompile(`(?i)(?:реквизит|rekvizit|юридик[ \t]+манзил|yuridik[ \t]+manzil|юридические[ \t]+адреса|manzillar|манзиллар)`)
)

const amountNumber = `(\d{1,3}(?:[ \x{00A0}.,']\d{3})+|\d{4,})(?:[.,]\d{1,2})?`

var amountPatterns = []*regexp.Regexp{
	// number then currency, with an optional "(in words)" aside
	regexp.MustCompile(`(?i)(?:^|[^\d.,])` + amountNumber + `[ \t]*(?:\([^)\n]{0,200}\)[ \t]*)?(?:сўм|сум|so'm|som\b|UZS|USD|EUR|доллар|dollar|евро|evro|рубл|\$|€)`),
	// currency then number
	regexp.MustCompile(`(?i)(?:\$|€|USD|EUR|UZS)[ \t]*` + amountNumber),
	// total keyword then number
	regexp.MustCompile(`(?i)(?:jami|итого|всего|umumiy[ \t]+summa|умумий[ \t]+сумма|сумма[ \t]+договора|shartnoma[ \t]+summasi|шартнома[ \t]+суммаси|общая[ \t]+сумма|qiymati|қиймати|стоимость)[^\d\n]{0,40}` + amountNumber),
}

var (
	usdPattern = regexp.MustCompile(`(?i)(?:(?:^|[^A-Z])USD(?:[^A-Z]|$)|\$|доллар|dollar)`)
	eurPattern = regexp.MustCompile(`(?i)(?:(?:^|[^A-Z])EUR(?:[^A-Z]|$)|€|евро|(?:^|[^A-Z])evro(?:[^A-Z]|$))`)
)

const legalForms = `МЧЖ|MChJ|MCHJ|АЖ|AJ|ХК|XK|ҚК|QK|ООО|ОАО|ЗАО|АО|ЧП|ИП|ДУК|DUK|ЯТТ|YaTT|ХФ|XF|ФХ|FX|УК|ГУП|АТБ|ATB|АК|AK|ДК|DK|SSS`

var (
	orgAfterPattern  = regexp.MustCompile(`[«"“]([^«»"“”\n]{2,120})[»"”][ \t]*(` + legalForms + `)(?:[^\p{L}]|$)`)
	orgBeforePattern = regexp.MustCompile(`(?:^|[^\p{L}])(` + legalForms + `)[ \t]*[«"“]([^«»"“”\n]{2,120})[»"”]`)
	legalFormPattern = regexp.MustCompile(`(?:^|[^\p{L}])(?:` + legalForms + `)(?:[^\p{L}]|$)`)

	introMarkerPattern = regexp.MustCompile(`(?i)(?:deb[ \t]+yuritiladi|деб[ \t]+юритилади|deb[ \t]+ataladi|деб[ \t]+аталади|именуем)`)

	partyALinePattern = regexp.MustCompile(`(?im)^[ \t]*(?:1[ \t]*-?[ \t]*(?:tomon|томон)|birinchi[ \t]+tomon|биринчи[ \t]+томон)[^\n:]{0,40}?[:\-–—][ \t]*([^\n]{3,})$`)
	partyBLinePattern = regexp.MustCompile(`(?im)^[ \t]*(?:2[ \t]*-?[ \t]*(?:tomon|томон)|ikkinchi[ \t]+tomon|иккинчи[ \t]+томон)[^\n:]{0,40}?[:\-–—][ \t]*([^\n]{3,})$`)

	partyALabelPattern = regexp.MustCompile(`(?i)(?:заказчик|покупатель|арендатор|работодатель|буюртмачи|buyurtmachi|харидор|xaridor|ижарачи|ijarachi|иш[ \t]+берувчи|ish[ \t]+beruvchi)`)
	partyBLabelPattern = regexp.MustCompile(`(?i)(?:исполнитель|поставщик|подрядчик|арендодатель|работник|ижрочи|ijrochi|етказиб[ \t]+берувчи|yetkazib[ \t]+beruvchi|пудратчи|pudratchi|ижарага[ \t]+берувчи|ijaraga[ \t]+beruvchi|сотувчи|sotuvchi|ходим|xodim)`)

	nameLinePattern    = regexp.MustCompile(`(?im)^[ \t]*(?:наименование|название|номи|nomi|korxona[ \t]+nomi|корхона[ \t]+номи)[ \t]*:[ \t]*([^\n]{3,})$`)
	labelInlinePattern = regexp.MustCompile(`^[»"”)]?[ \t]*[:\-–—][ \t]*([^\n]{3,})`)
)

// productHeaderWords mark "Наименование:" lines that describe goods, not parties
var productHeaderWords = []string{"товар", "услуг", "работ", "продукц", "mahsulot", "tovar", "xizmat", "хизмат", "маҳсулот", "ish turi"}

type span struct {
	start int
	end   int
}

type orgMatch struct {
	start int
	end   int
	name  string
}

// partyStrategy fills party names it can find; empty strings mean no opinion
type partyStrategy struct {
	name string
	fn   func(text string, md *model.ContractMetadata) (string, string)
}

var partyStrategies = []partyStrategy{
	{"explicit_lines", partiesFromExplicitLines},
	{"intro_markers", partiesFromIntroMarkers},
	{"labels", partiesFromLabels},
	{"inn_proximity", partiesFromINNProximity},
	{"inn_registry", partiesFromRegistry},
}

// ExtractMetadata pulls contract number, date, INNs, party names, amount,
// currency and language from normalized text. Each extractor is isolated:
// a failure leaves its field empty and the others still run.
func (p *Parser) ExtractMetadata(text string) model.ContractMetadata {
	var md model.ContractMetadata

	p.guard("contract_number", func() { md.ContractNumber = findContractNumber(text) })
	p.guard("contract_date", func() { md.ContractDate = findDate(text) })
	p.guard("inn", func() {
		inns := findINNs(text)
		if len(inns) > 0 {
			md.PartyAINN = inns[0]
		}
		if len(inns) > 1 {
			md.PartyBINN = inns[1]
		}
	})
	p.guard("amount", func() { md.TotalAmount = p.findAmount(text) })
	p.guard("currency", func() { md.Currency = detectCurrency(text) })
	p.guard("language", func() { md.Language = DetectLanguage(text) })

	for _, s := range partyStrategies {
		if md.PartyAName != "" && md.PartyBName != "" {
			break
		}
		s := s
		p.guard("parties/"+s.name, func() {
			a, b := s.fn(text, &md)
			if md.PartyAName == "" && a != "" {
				md.PartyAName = a
			}
			if md.PartyBName == "" && b != "" {
				md.PartyBName = b
			}
			splitIdenticalParties(&md)
		})
	}

	return md
}

func findContractNumber(text string) string {
	for _, re := range contractNumberPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			num := strings.Trim(m[1], "-/")
			if strings.IndexFunc(num, unicode.IsDigit) >= 0 {
				return num
			}
		}
	}
	return ""
}

func findDate(text string) string {
	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// findINNs returns up to two distinct 9-digit taxpayer numbers, preferring
// labelled numbers near the requisites block. Unlabelled numbers are only
// taken from the requisites block and never when they read as an amount.
func findINNs(text string) []string {
	var found []string
	seen := make(map[string]bool)
	add := func(raw string) {
		d := digitsOnly(raw)
		if len(d) == 9 && !seen[d] {
			seen[d] = true
			found = append(found, d)
		}
	}

	windows := requisitesWindows(text)
	for _, w := range windows {
		for _, m := range innLabelPattern.FindAllStringSubmatch(text[w.start:w.end], -1) {
			add(m[1])
		}
	}
	for _, m := range innLabelPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	if len(found) < 2 {
		amounts := make(map[string]bool)
		for _, a := range amountCandidates(text) {
			amounts[a] = true
		}
		for _, w := range windows {
			chunk := text[w.start:w.end]
			for _, m := range innBarePattern.FindAllStringSubmatchIndex(chunk, -1) {
				raw := chunk[m[2]:m[3]]
				if amounts[digitsOnly(raw)] || amountTailPattern.MatchString(chunk[m[3]:]) {
					continue
				}
				add(raw)
			}
		}
	}

	if len(found) > 2 {
		found = found[:2]
	}
	return found
}

// requisitesWindows returns merged spans following each requisites anchor
func requisitesWindows(text string) []span {
	var out []span
	for _, m := range requisitesAnchorPattern.FindAllStringIndex(text, -1) {
		w := span{start: m[0], end: snapForward(text, m[0]+requisitesWindow)}
		if n := len(out); n > 0 && w.start <= out[n-1].end {
			if w.end > out[n-1].end {
				out[n-1].end = w.end
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

func (p *Parser) findAmount(text string) string {
	candidates := amountCandidates(text)
	var best string
	for _, c := range candidates {
		if greaterDigits(c, best) {
			best = c
		}
	}
	if len(candidates) > 1 {
		p.logger.Debug("amount candidates disagree",
			zap.Strings("candidates", candidates),
			zap.String("chosen", best))
	}
	return best
}

// amountCandidates returns every distinct amount at or above the floor, in
// pattern order, as digits without leading zeros
func amountCandidates(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			digits := strings.TrimLeft(digitsOnly(m[1]), "0")
			if meetsAmountFloor(digits) && !seen[digits] {
				seen[digits] = true
				out = append(out, digits)
			}
		}
	}
	return out
}

func meetsAmountFloor(digits string) bool {
	if len(digits) > 5 {
		return true
	}
	if len(digits) < 5 {
		return false
	}
	return digits >= "50000"
}

// greaterDigits compares two non-negative integers written without leading zeros
func greaterDigits(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

func detectCurrency(text string) string {
	switch {
	case usdPattern.MatchString(text):
		return "USD"
	case eurPattern.MatchString(text):
		return "EUR"
	default:
		return "UZS"
	}
}

func partiesFromExplicitLines(text string, _ *model.ContractMetadata) (string, string) {
	var a, b string
	if m := partyALinePattern.FindStringSubmatch(text); m != nil {
		a = cleanPartyName(m[1])
	}
	if m := partyBLinePattern.FindStringSubmatch(text); m != nil {
		b = cleanPartyName(m[1])
	}
	return a, b
}

// partiesFromIntroMarkers takes the organizations introduced with
// "... deb yuritiladi" / "именуемое в дальнейшем" in order of appearance
func partiesFromIntroMarkers(text string, _ *model.ContractMetadata) (string, string) {
	var names []string
	for _, org := range findOrgs(text, 0) {
		window := text[org.end:snapForward(text, org.end+introWindow)]
		if !introMarkerPattern.MatchString(window) {
			continue
		}
		if len(names) == 1 && names[0] == org.name {
			continue
		}
		names = append(names, org.name)
		if len(names) == 2 {
			break
		}
	}
	var a, b string
	if len(names) > 0 {
		a = names[0]
	}
	if len(names) > 1 {
		b = names[1]
	}
	return a, b
}

func partiesFromLabels(text string, _ *model.ContractMetadata) (string, string) {
	return nameAfterLabel(text, partyALabelPattern), nameAfterLabel(text, partyBLabelPattern)
}

func nameAfterLabel(text string, label *regexp.Regexp) string {
	for _, m := range label.FindAllStringIndex(text, -1) {
		window := text[m[1]:snapForward(text, m[1]+labelWindow)]
		if nm := nameLinePattern.FindStringSubmatch(window); nm != nil && !ContainsAnyFold(nm[1], productHeaderWords...) {
			return cleanPartyName(nm[1])
		}
		if im := labelInlinePattern.FindStringSubmatch(window); im != nil {
			v := im[1]
			if strings.ContainsAny(v, `«"“`) || legalFormPattern.MatchString(v) {
				return cleanPartyName(v)
			}
		}
	}
	return ""
}

// partiesFromINNProximity looks for organization names around each INN,
// preferring names that follow a party label, then the closest one
func partiesFromINNProximity(text string, md *model.ContractMetadata) (string, string) {
	return nearestOrg(text, md.PartyAINN, partyALabelPattern), nearestOrg(text, md.PartyBINN, partyBLabelPattern)
}

func nearestOrg(text, inn string, label *regexp.Regexp) string {
	pos := innPosition(text, inn)
	if pos < 0 {
		return ""
	}
	from := snapBackward(text, pos-partyLookbehind)
	to := snapForward(text, pos+partyLookahead)

	best := ""
	bestAnchored := false
	bestDist := -1
	for _, org := range findOrgs(text[from:to], from) {
		lead := text[snapBackward(text, org.start-labelWindow/2):org.start]
		anchored := label.MatchString(lead)
		dist := org.start - pos
		if dist < 0 {
			dist = -dist
		}
		better := bestDist < 0 ||
			(anchored && !bestAnchored) ||
			(anchored == bestAnchored && dist < bestDist)
		if better {
			best, bestAnchored, bestDist = org.name, anchored, dist
		}
	}
	return best
}

func partiesFromRegistry(_ string, md *model.ContractMetadata) (string, string) {
	a, _ := LookupINN(md.PartyAINN)
	b, _ := LookupINN(md.PartyBINN)
	return a, b
}

// splitIdenticalParties separates a single captured string that holds both
// quoted party names. Identical names that cannot be split clear party B so
// a later strategy can fill it.
func splitIdenticalParties(md *model.ContractMetadata) {
	if md.PartyAName == "" || md.PartyAName != md.PartyBName {
		return
	}
	orgs := findOrgs(md.PartyAName, 0)
	if len(orgs) >= 2 && orgs[0].name != orgs[1].name {
		md.PartyAName, md.PartyBName = orgs[0].name, orgs[1].name
		return
	}
	md.PartyBName = ""
}

// innPosition finds the INN in text, allowing the separators OCR leaves between digit groups
func innPosition(text, inn string) int {
	if len(inn) != 9 {
		return -1
	}
	if i := strings.Index(text, inn); i >= 0 {
		return i
	}
	re := regexp.MustCompile(inn[0:3] + `[ \-]?` + inn[3:6] + `[ \-]?` + inn[6:9])
	if loc := re.FindStringIndex(text); loc != nil {
		return loc[0]
	}
	return -1
}

// findOrgs returns quoted organization names with a legal-form marker,
// ordered by position. base is added to the returned offsets.
func findOrgs(text string, base int) []orgMatch {
	var out []orgMatch
	for _, m := range orgAfterPattern.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, orgMatch{
			start: base + m[0],
			end:   base + m[5],
			name:  cleanPartyName(text[m[0]:m[5]]),
		})
	}
	for _, m := range orgBeforePattern.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, orgMatch{
			start: base + m[2],
			end:   base + m[1],
			name:  cleanPartyName(text[m[2]:m[1]]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].start < out[j].start })

	deduped := out[:0]
	for _, o := range out {
		if n := len(deduped); n > 0 && o.start < deduped[n-1].end {
			continue
		}
		deduped = append(deduped, o)
	}
	return deduped
}

func cleanPartyName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, " ,;.")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxPartyName {
		s = string([]rune(s)[:maxPartyName])
	}
	return s
}

func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func snapForward(s string, i int) int {
	if i >= len(s) {
		return len(s)
	}
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

func snapBackward(s string, i int) int {
	if i <= 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

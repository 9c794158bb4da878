package compliance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/extract"
	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
)

const (
	prohibitedExcerptRadius = 50
	balanceExcerptRadius    = 30
	riskyExcerptRadius      = 60

	// daily penalty rate, in percent, above which a clause is flagged
	maxDailyPenalty = 4.0
)

type balancePattern struct {
	re    *regexp.Regexp
	title string
}

var balancePatterns = []balancePattern{
	{regexp.MustCompile(`(?i)bir\s+tomonlama\s+(?:tartibda\s+)?bekor\s+qilish`), "Bir tomonlama bekor qilish huquqi"},
	{regexp.MustCompile(`(?i)бир\s+томонлама\s+(?:тартибда\s+)?бекор\s+қилиш`), "Bir tomonlama bekor qilish huquqi"},
	{regexp.MustCompile(`(?i)односторонн\p{L}*\s+(?:отказ|расторжени|порядке)`), "Bir tomonlama rad etish"},
	{regexp.MustCompile(`(?i)без\s+(?:письменного\s+)?согласия`), "Rozilikisiz o'zgartirish"},
	{regexp.MustCompile(`(?i)(?:roziligisiz|розилигисиз)`), "Rozilikisiz o'zgartirish"},
	{regexp.MustCompile(`(?i)faqat\s+(?:buyurtmachi|ijrochi)`), "Faqat bir tomonga berilgan huquq"},
	{regexp.MustCompile(`(?i)фақат\s+(?:буюртмачи|ижрочи)`), "Faqat bir tomonga berilgan huquq"},
	{regexp.MustCompile(`(?i)только\s+(?:заказчик|исполнитель|поставщик|покупатель)`), "Faqat bir tomonga berilgan huquq"},
}

var (
	unlimitedLiabilityPattern = regexp.MustCompile(`(?i)(?:cheksiz|чексиз|неограниченн\p{L}*)\s+(?:moddiy\s+|моддий\s+)?(?:javobgar|жавобгар|ответственност)|ответственност\p{L}*\s+без\s+ограничени`)
	illegalProvisionPattern   = regexp.MustCompile(`(?i)qonunga\s+zid|қонунга\s+зид|противореч\p{L}*\s+(?:действующему\s+)?законодательств|javobgarlikdan\s+to'liq\s+ozod|жавобгарликдан\s+тўлиқ\s+озод|полностью\s+освобожда\p{L}*\s+от\s+(?:любой\s+)?ответственности|sudga\s+murojaat\s+qilish\s+huquqidan\s+voz|судга\s+мурожаат\s+қилиш\s+ҳуқуқидан\s+воз|отказыва\p{L}*\s+от\s+права\s+на\s+(?:обращение\s+в\s+)?суд`)

	dailyMarker          = `(?:har\s+bir\s+kun|ҳар\s+бир\s+кун|за\s+каждый\s+(?:календарный\s+)?день|kunlik|кунлик|в\s+день)`
	penaltyAfterPattern  = regexp.MustCompile(`(?i)` + dailyMarker + `[^\n]{0,60}?(\d{1,3}(?:[.,]\d+)?)\s*%`)
	penaltyBeforePattern = regexp.MustCompile(`(?i)(\d{1,3}(?:[.,]\d+)?)\s*%[^\n]{0,60}?` + dailyMarker)
)

// Engine checks parsed contracts against the legal rule catalog.
// It holds only its rule list after construction and is safe for concurrent use.
type Engine struct {
	rules  []model.LegalRule
	logger *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger for pass failures
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRules appends custom rules after the built-in catalog
func WithRules(rules ...model.LegalRule) Option {
	return func(e *Engine) {
		e.rules = append(e.rules, rules...)
	}
}

// WithTemplates appends the template rules of the given contract types
func WithTemplates(types ...model.ContractType) Option {
	return func(e *Engine) {
		for _, ct := range types {
			e.rules = append(e.rules, TemplateRules(ct)...)
		}
	}
}

// NewEngine creates a compliance engine over the built-in catalog
func NewEngine(opts ...Option) *Engine {
	e := &Engine{rules: BuiltinRules()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrNop(e.logger)
	return e
}

// Rules returns every rule the engine evaluates
func (e *Engine) Rules() []model.LegalRule {
	out := make([]model.LegalRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// RulesFor returns the rules in force for a contract type
func (e *Engine) RulesFor(ct model.ContractType) []model.LegalRule {
	var out []model.LegalRule
	for _, r := range e.rules {
		if r.Applies(ct) {
			out = append(out, r)
		}
	}
	return out
}

// Check runs every compliance pass and concatenates their issues
func (e *Engine) Check(sections []model.Section, md model.ContractMetadata, ct model.ContractType) []model.ComplianceIssue {
	doc := newDocument(sections)
	issues := make([]model.ComplianceIssue, 0)

	passes := []struct {
		name string
		fn   func() []model.ComplianceIssue
	}{
		{"required_sections", func() []model.ComplianceIssue { return e.checkRequiredSections(doc, ct) }},
		{"rules", func() []model.ComplianceIssue { return e.checkRules(doc, md, ct) }},
		{"balance", func() []model.ComplianceIssue { return checkBalance(sections) }},
		{"metadata", func() []model.ComplianceIssue { return checkMetadata(md, ct) }},
		{"risky_clauses", func() []model.ComplianceIssue { return checkRiskyClauses(sections) }},
	}
	for _, p := range passes {
		issues = append(issues, e.run(p.name, p.fn)...)
	}

	e.logger.Debug("compliance check finished",
		zap.String("contract_type", string(ct)),
		zap.Int("sections", len(sections)),
		zap.Int("issues", len(issues)))
	return issues
}

func (e *Engine) run(name string, fn func() []model.ComplianceIssue) (out []model.ComplianceIssue) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("compliance pass failed", zap.String("pass", name), zap.String("panic", fmt.Sprint(r)))
			out = nil
		}
	}()
	return fn()
}

// document indexes sections by type and keeps the full text for leniency sweeps
type document struct {
	byType   map[model.SectionType][]model.Section
	fullText string
}

func newDocument(sections []model.Section) document {
	d := document{byType: make(map[model.SectionType][]model.Section)}
	var b strings.Builder
	for _, s := range sections {
		d.byType[s.Type] = append(d.byType[s.Type], s)
		b.WriteString(s.Title)
		b.WriteByte('\n')
		b.WriteString(s.Content)
		b.WriteByte('\n')
	}
	d.fullText = b.String()
	return d
}

func (d document) has(st model.SectionType) bool {
	return len(d.byType[st]) > 0
}

func (d document) mentions(keywords ...string) bool {
	return extract.ContainsAnyFold(d.fullText, keywords...)
}

// matches reports whether re matches the document; nil never matches
func (d document) matches(re *regexp.Regexp) bool {
	return re != nil && re.MatchString(d.fullText)
}

// recoverable reports whether an absent section is evidenced elsewhere in the text
func (d document) recoverable(st model.SectionType) bool {
	if st == model.SectionRequisites && d.matches(requisitesPattern) {
		return true
	}
	return d.matches(sectionFallbackPatterns[st])
}

func (e *Engine) checkRequiredSections(doc document, ct model.ContractType) []model.ComplianceIssue {
	var issues []model.ComplianceIssue
	for _, st := range RequiredSections(ct) {
		if doc.has(st) || doc.recoverable(st) {
			continue
		}
		name := st.NameUz()
		issues = append(issues, model.ComplianceIssue{
			Type:        model.IssueMissingClause,
			Severity:    model.SeverityHigh,
			Title:       "Yetishmayotgan bo'lim: " + name,
			Description: fmt.Sprintf("Shartnomada '%s' bo'limi topilmadi", name),
			Section:     st,
			LawName:     civilCode,
			LawArticle:  "354-modda",
			Suggestion:  fmt.Sprintf("'%s' bo'limini qo'shing", name),
		})
	}
	return issues
}

func (e *Engine) checkRules(doc document, md model.ContractMetadata, ct model.ContractType) []model.ComplianceIssue {
	var issues []model.ComplianceIssue
	for _, rule := range e.RulesFor(ct) {
		if rule.SectionType == "" {
			continue
		}
		if !doc.has(rule.SectionType) {
			if issue, ok := absentSectionIssue(doc, rule, md); ok {
				issues = append(issues, issue)
			}
			continue
		}
		switch rule.CheckType {
		case model.CheckMandatory:
			if issue, ok := mandatoryIssue(doc, rule); ok {
				issues = append(issues, issue)
			}
		case model.CheckProhibited:
			issues = append(issues, prohibitedIssues(doc, rule)...)
		}
	}
	return issues
}

func absentSectionIssue(doc document, rule model.LegalRule, md model.ContractMetadata) (model.ComplianceIssue, bool) {
	st := rule.SectionType
	switch {
	case rule.CheckType != model.CheckMandatory:
		return model.ComplianceIssue{}, false
	case st == model.SectionPrice && md.TotalAmount != "":
		return model.ComplianceIssue{}, false
	case st == model.SectionTerm && doc.matches(sectionFallbackPatterns[model.SectionTerm]):
		return model.ComplianceIssue{}, false
	case lenientSections[st] || doc.mentions(rule.Keywords...):
		return model.ComplianceIssue{}, false
	}
	return model.ComplianceIssue{
		Type:        model.IssueMissingClause,
		Severity:    rule.Severity,
		Title:       rule.Title,
		Description: rule.Description,
		Section:     st,
		LawName:     rule.LawName,
		LawArticle:  rule.LawArticle,
		Suggestion:  fmt.Sprintf("'%s' bo'limini qo'shing", st.NameUz()),
		RuleID:      rule.ID,
	}, true
}

func mandatoryIssue(doc document, rule model.LegalRule) (model.ComplianceIssue, bool) {
	st := rule.SectionType
	if selfEvidentSections[st] {
		return model.ComplianceIssue{}, false
	}
	for _, s := range doc.byType[st] {
		if extract.ContainsAnyFold(s.Content, rule.Keywords...) {
			return model.ComplianceIssue{}, false
		}
	}
	return model.ComplianceIssue{
		Type:             model.IssueMissingInfo,
		Severity:         rule.Severity,
		Title:            rule.Title,
		Description:      rule.Description,
		Section:          st,
		SectionReference: doc.byType[st][0].Title,
		LawName:          rule.LawName,
		LawArticle:       rule.LawArticle,
		Suggestion:       "Ushbu ma'lumotlarni qo'shing: " + strings.Join(firstN(rule.Keywords, 3), ", "),
		RuleID:           rule.ID,
	}, true
}

// prohibitedIssues reports the first forbidden keyword found in each section of the rule's type
func prohibitedIssues(doc document, rule model.LegalRule) []model.ComplianceIssue {
	var issues []model.ComplianceIssue
	for _, s := range doc.byType[rule.SectionType] {
		for _, kw := range rule.Keywords {
			idx := extract.IndexFold(s.Content, kw)
			if idx < 0 {
				continue
			}
			issues = append(issues, model.ComplianceIssue{
				Type:             model.IssueIllegal,
				Severity:         rule.Severity,
				Title:            rule.Title,
				Description:      rule.Description,
				Section:          s.Type,
				SectionReference: s.Title,
				TextExcerpt:      extract.Excerpt(s.Content, idx, idx+len(kw), prohibitedExcerptRadius),
				LawName:          rule.LawName,
				LawArticle:       rule.LawArticle,
				Suggestion:       "Bu bandni o'chirib tashlang yoki o'zgartiring",
				RuleID:           rule.ID,
			})
			break
		}
	}
	return issues
}

func checkBalance(sections []model.Section) []model.ComplianceIssue {
	var issues []model.ComplianceIssue
	for _, s := range sections {
		for _, bp := range balancePatterns {
			for _, m := range bp.re.FindAllStringIndex(s.Content, -1) {
				issues = append(issues, model.ComplianceIssue{
					Type:             model.IssueOneSided,
					Severity:         model.SeverityMedium,
					Title:            bp.title,
					Description:      "Bu band bir tomonga ortiqcha ustunlik berishi mumkin",
					Section:          s.Type,
					SectionReference: s.Title,
					TextExcerpt:      extract.Excerpt(s.Content, m[0], m[1], balanceExcerptRadius),
					Suggestion:       "Bandni ikkala tomon uchun muvozanatli qiling",
				})
			}
		}
	}
	return issues
}

func checkMetadata(md model.ContractMetadata, ct model.ContractType) []model.ComplianceIssue {
	var issues []model.ComplianceIssue
	if md.ContractDate == "" {
		issues = append(issues, model.ComplianceIssue{
			Type:        model.IssueMissingInfo,
			Severity:    model.SeverityMedium,
			Title:       "Shartnoma sanasi ko'rsatilmagan",
			Description: "Shartnoma tuzilgan sana aniqlanmadi",
			LawName:     "Fuqarolik kodeksi",
			LawArticle:  "107-modda",
			Suggestion:  "Shartnoma sanasini aniq ko'rsating",
		})
	}
	if md.PartyAINN == "" {
		issues = append(issues, model.ComplianceIssue{
			Type:        model.IssueMissingInfo,
			Severity:    model.SeverityMedium,
			Title:       "1-tomon INN/STIR ko'rsatilmagan",
			Description: "Birinchi tomonning identifikatsiya raqami topilmadi",
			Suggestion:  "Tomonning INN/STIR raqamini qo'shing",
		})
	}
	if md.PartyBINN == "" {
		issues = append(issues, model.ComplianceIssue{
			Type:        model.IssueMissingInfo,
			Severity:    model.SeverityMedium,
			Title:       "2-tomon INN/STIR ko'rsatilmagan",
			Description: "Ikkinchi tomonning identifikatsiya raqami topilmadi",
			Suggestion:  "Tomonning INN/STIR raqamini qo'shing",
		})
	}
	if ct.IsCommercial() && md.TotalAmount == "" {
		issues = append(issues, model.ComplianceIssue{
			Type:        model.IssueMissingInfo,
			Severity:    model.SeverityMedium,
			Title:       "Shartnoma summasi ko'rsatilmagan",
			Description: "Shartnomaning umumiy summasi aniqlanmadi",
			LawName:     "Fuqarolik kodeksi",
			LawArticle:  "356-modda",
			Suggestion:  "Shartnoma summasini aniq ko'rsating",
		})
	}
	return issues
}

// checkRiskyClauses reports at most one issue per risk category, at its first match
func checkRiskyClauses(sections []model.Section) []model.ComplianceIssue {
	var issues []model.ComplianceIssue

	if s, loc := firstMatch(sections, unlimitedLiabilityPattern); loc != nil {
		issues = append(issues, model.ComplianceIssue{
			Type:             model.IssueInvalidClause,
			Severity:         model.SeverityHigh,
			Title:            "Cheksiz javobgarlik sharti",
			Description:      "Javobgarlik miqdori cheklanmagan, bu tomon uchun nomutanosib xavf tug'diradi",
			Section:          s.Type,
			SectionReference: s.Title,
			TextExcerpt:      extract.Excerpt(s.Content, loc[0], loc[1], riskyExcerptRadius),
			LawName:          civilCode,
			LawArticle:       "333-modda",
			Suggestion:       "Javobgarlikning yuqori chegarasini belgilang",
		})
	}

	if s, loc := firstMatch(sections, illegalProvisionPattern); loc != nil {
		issues = append(issues, model.ComplianceIssue{
			Type:             model.IssueIllegal,
			Severity:         model.SeverityCritical,
			Title:            "Qonunga zid shart",
			Description:      "Band qonun hujjatlariga zid bo'lgan shartni o'z ichiga oladi va haqiqiy emas deb topilishi mumkin",
			Section:          s.Type,
			SectionReference: s.Title,
			TextExcerpt:      extract.Excerpt(s.Content, loc[0], loc[1], riskyExcerptRadius),
			LawName:          civilCode,
			LawArticle:       "116-modda",
			Suggestion:       "Bu bandni o'chirib tashlang yoki qonunga muvofiqlashtiring",
		})
	}

	if s, loc, rate, ok := firstHighPenalty(sections); ok {
		issues = append(issues, model.ComplianceIssue{
			Type:             model.IssueInvalidClause,
			Severity:         model.SeverityMedium,
			Title:            "Yuqori penya stavkasi",
			Description:      fmt.Sprintf("Kunlik penya %s%% belgilangan, bu odatiy chegaradan (%.0f%%) yuqori", formatRate(rate), maxDailyPenalty),
			Section:          s.Type,
			SectionReference: s.Title,
			TextExcerpt:      extract.Excerpt(s.Content, loc[0], loc[1], riskyExcerptRadius),
			LawName:          civilCode,
			LawArticle:       "326-modda",
			Suggestion:       "Penya stavkasini kamaytiring yoki umumiy miqdorini cheklang",
		})
	}
	return issues
}

func firstMatch(sections []model.Section, re *regexp.Regexp) (model.Section, []int) {
	for _, s := range sections {
		if loc := re.FindStringIndex(s.Content); loc != nil {
			return s, loc
		}
	}
	return model.Section{}, nil
}

func firstHighPenalty(sections []model.Section) (model.Section, []int, float64, bool) {
	for _, s := range sections {
		for _, re := range []*regexp.Regexp{penaltyAfterPattern, penaltyBeforePattern} {
			for _, m := range re.FindAllStringSubmatchIndex(s.Content, -1) {
				rate, err := strconv.ParseFloat(strings.Replace(s.Content[m[2]:m[3]], ",", ".", 1), 64)
				if err != nil || rate <= maxDailyPenalty {
					continue
				}
				return s, m[:2], rate, true
			}
		}
	}
	return model.Section{}, nil, 0, false
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

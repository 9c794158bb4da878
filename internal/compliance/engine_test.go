package compliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/shartnoma/internal/model"
)

func section(st model.SectionType, title, content string) model.Section {
	return model.Section{Type: st, Title: title, Content: content}
}

func completeMetadata() model.ContractMetadata {
	return model.ContractMetadata{
		ContractNumber: "45",
		ContractDate:   "2024 йил 15 май",
		PartyAName:     `"ALFA" МЧЖ`,
		PartyAINN:      "200640852",
		PartyBName:     `"BETA" МЧЖ`,
		PartyBINN:      "305127905",
		TotalAmount:    "12000000",
		Currency:       "UZS",
	}
}

func filter(issues []model.ComplianceIssue, typ model.IssueType, st model.SectionType) []model.ComplianceIssue {
	var out []model.ComplianceIssue
	for _, i := range issues {
		if i.Type == typ && (st == "" || i.Section == st) {
			out = append(out, i)
		}
	}
	return out
}

func TestCheck_PriceKeywordSatisfiesMissingHeading(t *testing.T) {
	sections := []model.Section{
		section(model.SectionHeader, "Sarlavha", "Договор поставки. Поставщик передает товар, цена указана в спецификации."),
		section(model.SectionSubject, "1. ПРЕДМЕТ ДОГОВОРА", "Поставщик обязуется поставить товар."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractSupply)

	assert.Empty(t, filter(issues, model.IssueMissingClause, model.SectionPrice))
}

func TestCheck_LaborWithoutPrice(t *testing.T) {
	sections := []model.Section{
		section(model.SectionHeader, "Sarlavha", "МЕҲНАТ ШАРТНОМАСИ"),
		section(model.SectionSubject, "1. ШАРТНОМА ПРЕДМЕТИ", "Ходим бухгалтер лавозимига ишга қабул қилинади."),
	}
	issues := NewEngine(WithTemplates(model.ContractLabor)).Check(sections, model.ContractMetadata{}, model.ContractLabor)

	price := filter(issues, model.IssueMissingClause, model.SectionPrice)
	require.Len(t, price, 1)
	assert.Equal(t, model.SeverityHigh, price[0].Severity)
	assert.Equal(t, "Yetishmayotgan bo'lim: Narx va to'lov shartlari", price[0].Title)
	assert.Equal(t, "'Narx va to'lov shartlari' bo'limini qo'shing", price[0].Suggestion)
}

func TestCheck_OneSidedTermination(t *testing.T) {
	sections := []model.Section{
		section(model.SectionTermination, "7. ШАРТНОМАНИ БЕКОР ҚИЛИШ",
			"Буюртмачи шартномани бир томонлама бекор қилиш ҳуқуқига эга."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)

	oneSided := filter(issues, model.IssueOneSided, "")
	require.NotEmpty(t, oneSided)
	assert.Equal(t, model.SeverityMedium, oneSided[0].Severity)
	assert.Equal(t, "7. ШАРТНОМАНИ БЕКОР ҚИЛИШ", oneSided[0].SectionReference)
	assert.Contains(t, oneSided[0].TextExcerpt, "бир томонлама бекор қилиш")
}

func TestCheck_EachBalanceMatchIsReported(t *testing.T) {
	sections := []model.Section{
		section(model.SectionRights, "ПРАВА", "Только заказчик вправе изменить сроки. Только исполнитель вправе привлекать третьих лиц."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)
	assert.Len(t, filter(issues, model.IssueOneSided, ""), 2)
}

func TestCheck_RequisitesRecoveredFromTokens(t *testing.T) {
	sections := []model.Section{
		section(model.SectionHeader, "Sarlavha", "Buyurtmachi: \"ALFA\" MChJ, STIR 200640852, h/r 20208000900123456001"),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)
	assert.Empty(t, filter(issues, model.IssueMissingClause, model.SectionRequisites))
}

func TestCheck_RequisitesTokensMatchWholeWords(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		missing bool
	}{
		{"code inside a word", "Договор составлен в двух подлинных экземплярах, имеющих одинаковую силу.", true},
		{"bankruptcy is not a bank", "Договор прекращается при банкротстве одной из сторон.", true},
		{"standalone INN", "Заказчик: ООО \"Альфа\", ИНН: 301234567", false},
		{"bank account", "Оплата производится через банк Исполнителя.", false},
		{"settlement account", "расчётный счет 20208000900123456001", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := []model.Section{
				section(model.SectionSubject, "1. ПРЕДМЕТ ДОГОВОРА", "Исполнитель оказывает услуги."),
				section(model.SectionAdditional, "8. ЗАКЛЮЧИТЕЛЬНЫЕ ПОЛОЖЕНИЯ", tt.text),
			}
			issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)
			assert.Equal(t, tt.missing, len(filter(issues, model.IssueMissingClause, model.SectionRequisites)) == 1)
		})
	}
}

func TestCheck_FallbackStemsStartWords(t *testing.T) {
	tests := []struct {
		name    string
		st      model.SectionType
		text    string
		missing bool
	}{
		{"nizom is not a dispute", model.SectionDispute, "Ijrochi o'z nizomi asosida faoliyat yuritadi.", true},
		{"nizo recovers dispute", model.SectionDispute, "Nizolar iqtisodiy sudda ko'riladi.", false},
		{"transport is not a dispute", model.SectionDispute, "Транспортные расходы несет Поставщик.", true},
		{"guest is not a standard", model.SectionQuality, "Размещение в гостинице оплачивает Заказчик.", true},
		{"standard recovers quality", model.SectionQuality, "Товар соответствует ГОСТ 1234-89.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sections := []model.Section{
				section(model.SectionAdditional, "8. ҚЎШИМЧА ШАРТЛАР", tt.text),
			}
			issues := NewEngine().Check(sections, completeMetadata(), model.ContractProcurement)
			assert.Equal(t, tt.missing, len(filter(issues, model.IssueMissingClause, tt.st)) == 1)
		})
	}
}

func TestCheck_MissingSectionWithoutFallback(t *testing.T) {
	sections := []model.Section{
		section(model.SectionSubject, "1. ПРЕДМЕТ", "Поставщик поставляет товар."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractSupply)

	warranty := filter(issues, model.IssueMissingClause, model.SectionWarranty)
	// one from the required-section pass, one from rule FK_417_1
	require.Len(t, warranty, 2)
	assert.Equal(t, "FK_417_1", warranty[1].RuleID)
}

func TestCheck_MandatoryKeywordMissing(t *testing.T) {
	sections := []model.Section{
		section(model.SectionWarranty, "6. КАФОЛАТ", "Маҳсулот алмаштирилади."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractSupply)

	info := filter(issues, model.IssueMissingInfo, model.SectionWarranty)
	require.Len(t, info, 1)
	assert.Equal(t, "FK_417_1", info[0].RuleID)
	assert.Equal(t, "6. КАФОЛАТ", info[0].SectionReference)
	assert.Equal(t, "Ushbu ma'lumotlarni qo'shing: kafolat, кафолат, гарантия", info[0].Suggestion)
}

func TestCheck_SelfEvidentSectionsSkipKeywordCheck(t *testing.T) {
	sections := []model.Section{
		section(model.SectionPrice, "2. НАРХ", "Ҳисоб-китоб банк орқали амалга оширилади."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)
	assert.Empty(t, filter(issues, model.IssueMissingInfo, model.SectionPrice))
}

func TestCheck_ProhibitedKeyword(t *testing.T) {
	content := strings.Repeat("а", 80) + " Ижрочи ҳар қандай ҳолатда жавобгарликдан озод қилинади. " + strings.Repeat("б", 80)
	sections := []model.Section{
		section(model.SectionLiability, "5. ЖАВОБГАРЛИК", content),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)

	illegal := filter(issues, model.IssueIllegal, model.SectionLiability)
	require.Len(t, illegal, 1)
	assert.Equal(t, "FK_325_1", illegal[0].RuleID)
	assert.Equal(t, model.SeverityCritical, illegal[0].Severity)
	assert.Contains(t, illegal[0].TextExcerpt, "жавобгарликдан озод")
	assert.Less(t, len([]rune(illegal[0].TextExcerpt)), len([]rune(content)))
}

func TestCheck_MetadataIssuesAreMedium(t *testing.T) {
	issues := NewEngine().Check(nil, model.ContractMetadata{}, model.ContractSupply)

	info := filter(issues, model.IssueMissingInfo, "")
	require.Len(t, info, 4)
	for _, i := range info {
		assert.Equal(t, model.SeverityMedium, i.Severity)
	}
}

func TestCheck_AmountNotRequiredForLabor(t *testing.T) {
	md := completeMetadata()
	md.TotalAmount = ""
	issues := NewEngine().Check(nil, md, model.ContractLabor)
	for _, i := range issues {
		assert.NotEqual(t, "Shartnoma summasi ko'rsatilmagan", i.Title)
	}
}

func TestCheck_RiskyClauses(t *testing.T) {
	sections := []model.Section{
		section(model.SectionLiability, "5. ЖАВОБГАРЛИК",
			"Ижрочи чексиз жавобгарликка эга. Кечиктирилган ҳар бир кун учун 5% пеня тўланади. Иккинчи ҳолатда ҳар бир кун учун 10% тўланади."),
		section(model.SectionAdditional, "9. ҚЎШИМЧА ШАРТЛАР", "Томонлар қонунга зид шартларни ҳам бажаради."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)

	var titles []string
	for _, i := range issues {
		switch i.Title {
		case "Cheksiz javobgarlik sharti":
			assert.Equal(t, model.SeverityHigh, i.Severity)
			assert.Equal(t, model.IssueInvalidClause, i.Type)
		case "Qonunga zid shart":
			assert.Equal(t, model.SeverityCritical, i.Severity)
			assert.Equal(t, model.IssueIllegal, i.Type)
		case "Yuqori penya stavkasi":
			assert.Equal(t, model.SeverityMedium, i.Severity)
			assert.Contains(t, i.Description, "5%")
		default:
			continue
		}
		titles = append(titles, i.Title)
	}
	assert.Equal(t, []string{"Cheksiz javobgarlik sharti", "Qonunga zid shart", "Yuqori penya stavkasi"}, titles)
}

func TestCheck_LowPenaltyNotFlagged(t *testing.T) {
	sections := []model.Section{
		section(model.SectionLiability, "5. ЖАВОБГАРЛИК", "Тўлов кечиктирилганда ҳар бир кун учун 0,1% пеня тўланади."),
	}
	issues := NewEngine().Check(sections, completeMetadata(), model.ContractService)
	for _, i := range issues {
		assert.NotEqual(t, "Yuqori penya stavkasi", i.Title)
	}
}

func TestCheck_UnknownTypeUsesServiceSections(t *testing.T) {
	assert.Equal(t, RequiredSections(model.ContractService), RequiredSections(model.ContractOther))
}

func TestCheck_TemplateRulesOnlyWhenRequested(t *testing.T) {
	plain := NewEngine()
	withTemplates := NewEngine(WithTemplates(model.ContractLabor))

	assert.Len(t, withTemplates.RulesFor(model.ContractLabor), len(plain.RulesFor(model.ContractLabor))+2)
	for _, r := range TemplateRules(model.ContractLabor) {
		assert.NotEqual(t, model.SectionPrice, r.SectionType)
	}
}

func TestRulesFor(t *testing.T) {
	e := NewEngine()
	for _, r := range e.RulesFor(model.ContractSupply) {
		assert.True(t, r.Applies(model.ContractSupply), r.ID)
	}

	ids := map[string]bool{}
	for _, r := range e.RulesFor(model.ContractSupply) {
		ids[r.ID] = true
	}
	assert.True(t, ids["FK_417_1"])
	assert.False(t, ids["MK_72_1"])
	assert.Len(t, e.Rules(), 13)
}

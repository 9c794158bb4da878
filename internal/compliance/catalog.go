package compliance

import (
	"regexp"
	"strings"

	"github.com/ppiankov/shartnoma/internal/model"
)

const (
	civilCode = "O'zbekiston Respublikasi Fuqarolik kodeksi"
	laborCode = "O'zbekiston Respublikasi Mehnat kodeksi"
)

// builtinRules is the static catalog evaluated for every contract
var builtinRules = []model.LegalRule{
	{
		ID:          "FK_354_1",
		Title:       "Shartnoma predmeti majburiy",
		Description: "Shartnomada predmet (mavzu) aniq ko'rsatilishi shart",
		LawName:     civilCode,
		LawArticle:  "354-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionSubject,
		Severity:    model.SeverityCritical,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"predmet", "mavzu", "предмет"},
	},
	{
		ID:          "FK_355_1",
		Title:       "Tomonlar to'liq ko'rsatilishi shart",
		Description: "Shartnoma tomonlarining to'liq nomi, manzili va rekvizitlari ko'rsatilishi kerak",
		LawName:     civilCode,
		LawArticle:  "355-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionParties,
		Severity:    model.SeverityCritical,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"tomon", "buyurtmachi", "ijrochi", "заказчик", "исполнитель"},
	},
	{
		ID:          "FK_356_1",
		Title:       "Narx sharti",
		Description: "Shartnomada narx yoki narxni aniqlash tartibi ko'rsatilishi kerak",
		LawName:     civilCode,
		LawArticle:  "356-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionPrice,
		Severity:    model.SeverityHigh,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"narx", "summa", "to'lov", "цена", "стоимость", "оплата"},
	},
	{
		ID:          "FK_357_1",
		Title:       "Shartnoma muddati",
		Description: "Shartnomaning amal qilish muddati belgilanishi kerak",
		LawName:     civilCode,
		LawArticle:  "357-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionTerm,
		Severity:    model.SeverityHigh,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"muddat", "срок", "дата", "sana"},
	},
	{
		ID:          "FK_325_1",
		Title:       "Javobgarlikni cheklash",
		Description: "Qasddan yetkazilgan zarar uchun javobgarlikni oldindan cheklash mumkin emas",
		LawName:     civilCode,
		LawArticle:  "325-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionLiability,
		Severity:    model.SeverityCritical,
		CheckType:   model.CheckProhibited,
		Keywords:    []string{"javobgarlikdan ozod", "жавобгарликдан озод", "освобождение от ответственности"},
	},
	{
		ID:          "FK_417_1",
		Title:       "Mol sifati kafolati",
		Description: "Mol yetkazib berish shartnomalarida kafolat muddati ko'rsatilishi kerak",
		LawName:     civilCode,
		LawArticle:  "417-modda",
		AppliesTo:   []string{string(model.ContractSupply)},
		SectionType: model.SectionWarranty,
		Severity:    model.SeverityHigh,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"kafolat", "кафолат", "гарантия", "sifat", "качество"},
	},
	{
		ID:          "FK_333_1",
		Title:       "Fors-major holatlari",
		Description: "Fors-major holatlari va ularning oqibatlari belgilanishi tavsiya etiladi",
		LawName:     civilCode,
		LawArticle:  "333-modda",
		AppliesTo:   []string{string(model.ContractSupply), string(model.ContractWork), string(model.ContractProcurement)},
		SectionType: model.SectionForceMajeure,
		Severity:    model.SeverityMedium,
		CheckType:   model.CheckRecommended,
		Keywords:    []string{"fors-major", "форс-мажор", "favqulodda"},
	},
	{
		ID:          "FK_327_1",
		Title:       "Penya miqdori",
		Description: "Penya miqdori asosiy qarzdan oshmasligi kerak (ayrim holatlar bundan mustasno)",
		LawName:     civilCode,
		LawArticle:  "327-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionLiability,
		Severity:    model.SeverityHigh,
		CheckType:   model.CheckLimit,
		Keywords:    []string{"penya", "пеня", "jarima", "штраф", "neustoyka"},
	},
	{
		ID:          "DX_2021_1",
		Title:       "Davlat xaridi majburiy shartlari",
		Description: "Davlat xaridlari shartnomalarida maxsus talablar bajarilishi shart",
		LawName:     "Davlat xaridlari to'g'risida qonun",
		LawArticle:  "25-modda",
		AppliesTo:   []string{string(model.ContractProcurement)},
		Severity:    model.SeverityCritical,
		CheckType:   model.CheckFormat,
		Keywords:    []string{"davlat xaridi", "государственная закупка", "tender"},
	},
	{
		ID:          "MK_72_1",
		Title:       "Mehnat shartnomasi majburiy shartlari",
		Description: "Mehnat shartnomasi ish joyi, lavozim, ish haqi va ish vaqtini o'z ichiga olishi kerak",
		LawName:     laborCode,
		LawArticle:  "72-modda",
		AppliesTo:   []string{string(model.ContractLabor)},
		SectionType: model.SectionSubject,
		Severity:    model.SeverityCritical,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"mehnat", "труд", "ish haqi", "заработная плата"},
	},
	{
		ID:          "FK_107_1",
		Title:       "Yozma shakl talabi",
		Description: "Yuridik shaxslar orasidagi shartnomalar yozma shaklda tuzilishi shart",
		LawName:     civilCode,
		LawArticle:  "107-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionSignatures,
		Severity:    model.SeverityCritical,
		CheckType:   model.CheckFormat,
		Keywords:    []string{"imzo", "подпись", "muhr", "печать"},
	},
	{
		ID:          "FK_355_2",
		Title:       "Bank rekvizitlari",
		Description: "Tomonlarning bank rekvizitlari to'liq ko'rsatilishi kerak",
		LawName:     civilCode,
		LawArticle:  "355-modda",
		AppliesTo:   []string{model.AppliesToAll},
		SectionType: model.SectionRequisites,
		Severity:    model.SeverityHigh,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"bank", "hisob raqam", "расчетный счет", "р/с", "MFO"},
	},
	{
		ID:          "XPK_25_1",
		Title:       "Nizolarni hal qilish tartibi",
		Description: "Davlat xaridi shartnomasida nizolarni ko'rib chiqadigan sud yoki tartib ko'rsatilishi kerak",
		LawName:     "O'zbekiston Respublikasi Iqtisodiy protsessual kodeksi",
		LawArticle:  "25-modda",
		AppliesTo:   []string{string(model.ContractProcurement)},
		SectionType: model.SectionDispute,
		Severity:    model.SeverityMedium,
		CheckType:   model.CheckMandatory,
		Keywords:    []string{"sud", "суд", `nizo(?:[^m]|$)`, `низо(?:[^м]|$)`, `спор(?:[^т]|$)`, "арбитраж"},
	},
}

// templateRules are extra rules appended per contract type at engine construction
var templateRules = map[model.ContractType][]model.LegalRule{
	model.ContractLabor: {
		{
			ID:          "MK_115_1",
			Title:       "Ish vaqti",
			Description: "Mehnat shartnomasida ish vaqti va dam olish vaqti belgilanishi kerak",
			LawName:     laborCode,
			LawArticle:  "115-modda",
			AppliesTo:   []string{string(model.ContractLabor)},
			SectionType: model.SectionObligations,
			Severity:    model.SeverityHigh,
			CheckType:   model.CheckMandatory,
			Keywords:    []string{"ish vaqti", "иш вақти", "рабочее время", "soat", "соат", "час"},
		},
		{
			ID:          "MK_134_1",
			Title:       "Ijtimoiy kafolatlar",
			Description: "Xodimning mehnat ta'tili va ijtimoiy kafolatlari ko'rsatilishi kerak",
			LawName:     laborCode,
			LawArticle:  "134-modda",
			AppliesTo:   []string{string(model.ContractLabor)},
			SectionType: model.SectionRights,
			Severity:    model.SeverityMedium,
			CheckType:   model.CheckMandatory,
			Keywords:    []string{"ta'til", "таътил", "отпуск", "ijtimoiy", "ижтимоий", "социальн"},
		},
	},
}

// requiredSections lists the sections each contract type must contain
var requiredSections = map[model.ContractType][]model.SectionType{
	model.ContractService: {
		model.SectionParties, model.SectionSubject, model.SectionPrice,
		model.SectionTerm, model.SectionLiability, model.SectionRequisites,
	},
	model.ContractSupply: {
		model.SectionParties, model.SectionSubject, model.SectionPrice, model.SectionDelivery,
		model.SectionQuality, model.SectionWarranty, model.SectionLiability, model.SectionRequisites,
	},
	model.ContractWork: {
		model.SectionParties, model.SectionSubject, model.SectionPrice, model.SectionTerm,
		model.SectionQuality, model.SectionLiability, model.SectionRequisites,
	},
	model.ContractLabor: {
		model.SectionParties, model.SectionSubject, model.SectionRights, model.SectionObligations,
		model.SectionPrice, model.SectionTerm, model.SectionLiability,
	},
	model.ContractLease: {
		model.SectionParties, model.SectionSubject, model.SectionPrice, model.SectionTerm,
		model.SectionRights, model.SectionObligations, model.SectionLiability, model.SectionRequisites,
	},
	model.ContractProcurement: {
		model.SectionParties, model.SectionSubject, model.SectionPrice, model.SectionDelivery,
		model.SectionQuality, model.SectionWarranty, model.SectionLiability,
		model.SectionForceMajeure, model.SectionDispute, model.SectionRequisites,
	},
	model.ContractLoan: {
		model.SectionParties, model.SectionSubject, model.SectionPrice,
		model.SectionTerm, model.SectionLiability, model.SectionRequisites,
	},
}

// RequiredSections returns the sections a contract type must contain.
// Types without their own list use the service list.
func RequiredSections(ct model.ContractType) []model.SectionType {
	req, ok := requiredSections[ct]
	if !ok {
		req = requiredSections[model.ContractService]
	}
	out := make([]model.SectionType, len(req))
	copy(out, req)
	return out
}

// BuiltinRules returns a copy of the static catalog
func BuiltinRules() []model.LegalRule {
	out := make([]model.LegalRule, len(builtinRules))
	copy(out, builtinRules)
	return out
}

// TemplateRules returns the template rules registered for a contract type
func TemplateRules(ct model.ContractType) []model.LegalRule {
	out := make([]model.LegalRule, len(templateRules[ct]))
	copy(out, templateRules[ct])
	return out
}

// requisitesPattern counts REQUISITES as present anywhere in the document.
// Short codes must stand alone so "ИНН" inside "подлинных" does not count,
// and "bank" must not be the start of "bankrot".
var requisitesPattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d])(?:` +
	`(?:ИНН|INN|STIR|СТИР|МФО|MFO|р/сч?|h/r|х/р|ҳ/р)(?:[^\p{L}]|$)` +
	`|расч[её]тный[ \t]+сч[её]т|hisob[ \t]+raqam|ҳисоб[ \t]+рақам` +
	`|(?:банк|bank)(?:[^rр]|$))`)

// sectionFallbackKeywords let a missing heading be recovered from body text.
// Entries are regexp fragments matched at the start of a word.
var sectionFallbackKeywords = map[model.SectionType][]string{
	model.SectionPrice: {
		"цена", "стоимость", "сумма", "оплата", "тўлов", "нарх", "қиймат", "сўм",
		"narx", "to'lov", "summa", "qiymat", "so'm",
	},
	model.SectionTerm: {
		"muddat", "муддат", "срок", "amal qiladi", "амал қилади", "действует", "действия договора",
	},
	model.SectionSubject: {
		"predmet", "предмет", "mavzu", "мавзу", "ushbu shartnoma bo'yicha", "ушбу шартнома бўйича", "по настоящему договору",
	},
	model.SectionParties: {
		"tomonlar", "томонлар", "стороны", "buyurtmachi", "буюртмачи", "заказчик",
		"ijrochi", "ижрочи", "исполнитель", "поставщик", "deb yuritiladi", "деб юритилади", "именуем",
	},
	model.SectionLiability: {
		"javobgar", "жавобгар", "ответственност", "penya", "пеня", "jarima", "жарима", "штраф", "неустойк",
	},
	model.SectionDelivery: {
		`yetkazib[ \t]+berish`, `етказиб[ \t]+бериш`, "поставк", "доставк", "topshirish", "топшириш",
	},
	model.SectionQuality: {
		"sifat", "сифат", "качеств", "standart", "стандарт", `ГОСТ(?:[^\p{L}]|$)`,
	},
	model.SectionWarranty: {
		"kafolat", "кафолат", "гарант",
	},
	model.SectionForceMajeure: {
		"fors-major", "форс-мажор", `engib[ \t]+bo'lmaydigan`, `енгиб[ \t]+бўлмайдиган`, "непреодолим",
	},
	model.SectionDispute: {
		`nizo(?:[^m]|$)`, `низо(?:[^м]|$)`, `спор(?:[^т]|$)`, "iqtisodiy sud", "иқтисодий суд", "арбитраж",
	},
	model.SectionRights: {
		"huquq", "ҳуқуқ", "вправе", "право", "haqli", "ҳақли",
	},
	model.SectionObligations: {
		"majbur", "мажбур", "обязан", "обязуется",
	},
	model.SectionRequisites: {
		"rekvizit", "реквизит", "yuridik manzil", "юридик манзил", "адрес",
	},
	model.SectionTermination: {
		"bekor qilish", "бекор қилиш", "расторж",
	},
	model.SectionConfidential: {
		"maxfiy", "махфий", "конфиденциал",
	},
}

// lenientSections never raise a per-rule MISSING_CLAUSE when absent
var lenientSections = map[model.SectionType]bool{
	model.SectionRequisites: true,
	model.SectionTerm:       true,
	model.SectionPrice:      true,
	model.SectionSubject:    true,
}

// selfEvidentSections skip the mandatory-keyword check when the section exists
var selfEvidentSections = map[model.SectionType]bool{
	model.SectionSubject:    true,
	model.SectionParties:    true,
	model.SectionTerm:       true,
	model.SectionRequisites: true,
	model.SectionPrice:      true,
}

// sectionFallbackPatterns are sectionFallbackKeywords compiled once
var sectionFallbackPatterns = compileFallbacks(sectionFallbackKeywords)

func compileFallbacks(keywords map[model.SectionType][]string) map[model.SectionType]*regexp.Regexp {
	out := make(map[model.SectionType]*regexp.Regexp, len(keywords))
	for st, stems := range keywords {
		out[st] = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d'])(?:` + strings.Join(stems, "|") + `)`)
	}
	return out
}

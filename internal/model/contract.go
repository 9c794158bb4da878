package model

// SectionType labels one structural region of a contract
type SectionType string

const (
	SectionParties      SectionType = "parties"
	SectionSubject      SectionType = "subject"
	SectionPrice        SectionType = "price"
	SectionTerm         SectionType = "term"
	SectionLiability    SectionType = "liability"
	SectionRequisites   SectionType = "requisites"
	SectionDelivery     SectionType = "delivery"
	SectionQuality      SectionType = "quality"
	SectionWarranty     SectionType = "warranty"
	SectionForceMajeure SectionType = "force_majeure"
	SectionDispute      SectionType = "dispute"
	SectionTermination  SectionType = "termination"
	SectionConfidential SectionType = "confidential"
	SectionAdditional   SectionType = "additional"
	SectionSignatures   SectionType = "signatures"
	SectionRights       SectionType = "rights"
	SectionObligations  SectionType = "obligations"
	SectionHeader       SectionType = "header"
	SectionOther        SectionType = "other"
)

// sectionNamesUz are the Uzbek display names used in issue titles
var sectionNamesUz = map[SectionType]string{
	SectionParties:      "Tomonlar",
	SectionSubject:      "Shartnoma predmeti",
	SectionPrice:        "Narx va to'lov shartlari",
	SectionTerm:         "Shartnoma muddati",
	SectionLiability:    "Javobgarlik",
	SectionRequisites:   "Tomonlar rekvizitlari",
	SectionDelivery:     "Yetkazib berish shartlari",
	SectionQuality:      "Sifat talablari",
	SectionWarranty:     "Kafolat",
	SectionForceMajeure: "Fors-major",
	SectionDispute:      "Nizolarni hal qilish",
	SectionTermination:  "Shartnomani bekor qilish",
	SectionConfidential: "Maxfiylik",
	SectionAdditional:   "Qo'shimcha shartlar",
	SectionSignatures:   "Imzolar",
	SectionRights:       "Huquqlar",
	SectionObligations:  "Majburiyatlar",
	SectionHeader:       "Sarlavha",
	SectionOther:        "Boshqa",
}

// NameUz returns the Uzbek display name of the section type
func (t SectionType) NameUz() string {
	if name, ok := sectionNamesUz[t]; ok {
		return name
	}
	return string(t)
}

// Section is one labeled region of a parsed contract
type Section struct {
	Type     SectionType `json:"section_type"`
	Title    string      `json:"title"`            // Raw matched header text
	Number   string      `json:"number,omitempty"` // Ordinal from the header prefix ("3", "IV", "A")
	Content  string      `json:"content"`
	StartPos int         `json:"start_pos"` // Byte offset of the header in normalized text
	EndPos   int         `json:"end_pos"`   // Byte offset where the next section starts
	Clauses  []Clause    `json:"clauses,omitempty"`
}

// Clause is a numbered sub-unit inside a section
type Clause struct {
	Number      string      `json:"number"`
	Content     string      `json:"content"`
	SectionType SectionType `json:"section_type"`
	StartPos    int         `json:"start_pos"`
	EndPos      int         `json:"end_pos"`
}

// Language of a contract document
type Language string

const (
	LangUzLatin    Language = "uz-latn"
	LangUzCyrillic Language = "uz-cyrl"
	LangRussian    Language = "ru"
	LangMixed      Language = "mixed"
)

// ContractMetadata holds header-level facts recovered from the text.
// Empty strings mean "not found".
type ContractMetadata struct {
	ContractNumber string   `json:"contract_number,omitempty"`
	ContractDate   string   `json:"contract_date,omitempty"` // Raw matched string
	PartyAName     string   `json:"party_a_name,omitempty"`
	PartyAINN      string   `json:"party_a_inn,omitempty"`
	PartyBName     string   `json:"party_b_name,omitempty"`
	PartyBINN      string   `json:"party_b_inn,omitempty"`
	TotalAmount    string   `json:"total_amount,omitempty"` // Whole currency units, digits only
	Currency       string   `json:"currency,omitempty"`
	Language       Language `json:"language,omitempty"`
}

// ContractType is the closed vocabulary of supported contract kinds
type ContractType string

const (
	ContractService     ContractType = "service"
	ContractSupply      ContractType = "supply"
	ContractWork        ContractType = "work"
	ContractLabor       ContractType = "labor"
	ContractLease       ContractType = "lease"
	ContractProcurement ContractType = "procurement"
	ContractLoan        ContractType = "loan"
	ContractOther       ContractType = "other"
)

// ContractTypes lists every contract type in display order
var ContractTypes = []ContractType{
	ContractService, ContractSupply, ContractWork, ContractLabor,
	ContractLease, ContractProcurement, ContractLoan, ContractOther,
}

// ParseContractType maps a tag to a ContractType, falling back to "other"
func ParseContractType(s string) ContractType {
	for _, t := range ContractTypes {
		if string(t) == s {
			return t
		}
	}
	return ContractOther
}

var contractTypeNamesUz = map[ContractType]string{
	ContractService:     "Xizmat ko'rsatish shartnomasi",
	ContractSupply:      "Mol yetkazib berish shartnomasi",
	ContractWork:        "Pudrat shartnomasi",
	ContractLabor:       "Mehnat shartnomasi",
	ContractLease:       "Ijara shartnomasi",
	ContractProcurement: "Davlat xaridi shartnomasi",
	ContractLoan:        "Qarz shartnomasi",
	ContractOther:       "Boshqa hujjat",
}

// NameUz returns the Uzbek display name of the contract type
func (t ContractType) NameUz() string {
	if name, ok := contractTypeNamesUz[t]; ok {
		return name
	}
	return string(t)
}

// IsCommercial reports whether the contract type must state a total amount
func (t ContractType) IsCommercial() bool {
	switch t {
	case ContractSupply, ContractService, ContractWork, ContractProcurement:
		return true
	}
	return false
}

package validate

import (
	"testing"

	"github.com/ppiankov/shartnoma/internal/model"
)

func TestTypeClassifier_Classify(t *testing.T) {
	classifier := NewTypeClassifier(nil)

	tests := []struct {
		text     string
		expected model.ContractType
		desc     string
	}{
		{
			text:     "XIZMAT KO'RSATISH SHARTNOMASI. Ijrochi buxgalteriya xizmatlarini ko'rsatadi.",
			expected: model.ContractService,
			desc:     "Latin service contract",
		},
		{
			text:     "ДОГОВОР ПОСТАВКИ. Поставщик обязуется передать товар покупателю.",
			expected: model.ContractSupply,
			desc:     "Russian supply contract",
		},
		{
			text:     "ҚУРИЛИШ ПУДРАТ ШАРТНОМАСИ. Пудратчи иншоотни қуриш ишларини бажаради.",
			expected: model.ContractWork,
			desc:     "Cyrillic work contract",
		},
		{
			text:     "MEHNAT SHARTNOMASI. Xodimga oylik ish haqi to'lanadi.",
			expected: model.ContractLabor,
			desc:     "Labor contract",
		},
		{
			text:     "Аренда нежилого помещения по договору",
			expected: model.ContractLease,
			desc:     "Russian lease",
		},
		{
			text:     "Davlat xaridi bo'yicha tender natijalariga ko'ra",
			expected: model.ContractProcurement,
			desc:     "Procurement",
		},
		{
			text:     "Qarz shartnomasi: qarz beruvchi kredit mablag'ini beradi",
			expected: model.ContractLoan,
			desc:     "Loan",
		},
		{
			text:     "Majlis bayonnomasi. Kun tartibi: hisobot.",
			expected: model.ContractOther,
			desc:     "No contract vocabulary",
		},
		{
			text:     "",
			expected: model.ContractOther,
			desc:     "Empty text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			result := classifier.Classify(tt.text)
			if result != tt.expected {
				t.Errorf("Expected %v for %q, got %v (scores %v)", tt.expected, tt.text, result, classifier.Scores(tt.text))
			}
		})
	}
}

func TestTypeClassifier_TieGoesToFirstType(t *testing.T) {
	classifier := NewTypeClassifier(nil)

	// one service keyword, one lease keyword
	result := classifier.Classify("сервис ва ижара")
	if result != model.ContractService {
		t.Errorf("Expected service on tie, got %v", result)
	}
}

func TestTypeClassifier_ExtraKeywords(t *testing.T) {
	text := "Lizing shartnomasi: lizing oluvchi lizing to'lovlarini amalga oshiradi"

	if got := NewTypeClassifier(nil).Classify(text); got != model.ContractOther {
		t.Fatalf("Expected other without extra keywords, got %v", got)
	}

	classifier := NewTypeClassifier(map[string][]string{
		"Lease":  {"  LIZING "},
		"barter": {"lizing"},
		"loan":   {""},
	})
	if got := classifier.Classify(text); got != model.ContractLease {
		t.Errorf("Expected lease with extra keywords, got %v", got)
	}
	if got := classifier.Scores(text)[model.ContractLease]; got != 1 {
		t.Errorf("Expected lease score 1, got %d", got)
	}
}

func TestTypeClassifier_ExtraKeywordsDoNotLeak(t *testing.T) {
	_ = NewTypeClassifier(map[string][]string{"service": {"maslahat"}})

	if got := NewTypeClassifier(nil).Scores("maslahat")[model.ContractService]; got != 0 {
		t.Errorf("Expected defaults untouched, got service score %d", got)
	}
}

func TestTypeClassifier_Resolve(t *testing.T) {
	classifier := NewTypeClassifier(nil)
	text := "ДОГОВОР ПОСТАВКИ товара"

	tests := []struct {
		supplied     model.ContractType
		expected     model.ContractType
		wantDetected bool
	}{
		{model.ContractLabor, model.ContractLabor, false},
		{"", model.ContractSupply, true},
		{model.ContractOther, model.ContractSupply, true},
	}

	for _, tt := range tests {
		got, detected := classifier.Resolve(text, tt.supplied)
		if got != tt.expected || detected != tt.wantDetected {
			t.Errorf("Resolve(%q) = %v, %v; want %v, %v", tt.supplied, got, detected, tt.expected, tt.wantDetected)
		}
	}
}

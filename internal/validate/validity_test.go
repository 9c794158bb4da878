package validate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/shartnoma/internal/model"
)

func TestIsContract(t *testing.T) {
	tests := []struct {
		name string
		text string
		ct   model.ContractType
		want bool
	}{
		{"typed document always passes", "Salom", model.ContractService, true},
		{"contract word and parties", "Ушбу шартнома буюртмачи ва ижрочи ўртасида тузилди", model.ContractOther, true},
		{"contract word and two legal terms", "Shartnoma muddati va narxi kelishildi", model.ContractOther, true},
		{"contract word and one legal term", "Shartnoma muddati", model.ContractOther, false},
		{"no contract word", "Buyurtmachi va pudratchi javobgarlik, muddat, narx", model.ContractOther, false},
		{"empty type treated as other", "Kun tartibi", "", false},
		{"russian", "Договор между заказчиком и подрядчиком", model.ContractOther, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsContract(tt.text, tt.ct))
		})
	}
}

func TestInvalidDocumentIssue(t *testing.T) {
	text := strings.Repeat("ҳ", 600)
	issue := InvalidDocumentIssue(text)

	assert.Equal(t, model.IssueInvalidDocument, issue.Type)
	assert.Equal(t, model.SeverityCritical, issue.Severity)
	assert.Equal(t, "Hujjat shartnoma emas", issue.Title)
	assert.Equal(t, 500, utf8.RuneCountInString(issue.TextExcerpt))
	assert.NotEmpty(t, issue.Suggestion)

	short := InvalidDocumentIssue("Kun tartibi")
	assert.Equal(t, "Kun tartibi", short.TextExcerpt)
}

func TestInvalidDocumentRecommendations(t *testing.T) {
	recs := InvalidDocumentRecommendations()
	assert.Len(t, recs, 3)
	assert.Equal(t, "To'g'ri shartnoma hujjatini yuklang", recs[0])
}

package llm

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/shartnoma/internal/model"
)

func TestParseJudgment(t *testing.T) {
	j := ParseJudgment(judgmentJSON)

	assert.Equal(t, model.VerdictNonCompliant, j.Compliance)
	assert.Equal(t, []string{"Penya cheklanmagan", "Bir tomonlama javobgarlik"}, j.Risks)
	assert.Equal(t, []string{"Penya chegarasini belgilang"}, j.Recommendations)
	assert.Empty(t, j.Rewrite)
}

func TestParseJudgment_CodeFenceAndProse(t *testing.T) {
	raw := "Mana javob:\n```json\n{\"compliance\": \"  MOS \", \"risks\": [], \"recommendations\": [\"  \", \"Muddatni aniqlang\"], \"rewrite\": \" Yangi matn \"}\n```"
	j := ParseJudgment(raw)

	assert.Equal(t, model.VerdictCompliant, j.Compliance)
	assert.Empty(t, j.Risks)
	assert.Equal(t, []string{"Muddatni aniqlang"}, j.Recommendations)
	assert.Equal(t, "Yangi matn", j.Rewrite)
}

func TestParseJudgment_Malformed(t *testing.T) {
	for _, raw := range []string{"", "Band qonunga mos keladi.", `{"compliance": "mos", "risks": "bitta"}`, "{broken"} {
		j := ParseJudgment(raw)
		assert.Equal(t, model.VerdictUnclear, j.Compliance, raw)
		assert.Empty(t, j.Risks, raw)
		assert.Equal(t, strings.TrimSpace(raw), j.Rewrite)
	}
}

func TestParseJudgment_UnknownVerdict(t *testing.T) {
	j := ParseJudgment(`{"compliance": "qisman mos"}`)
	assert.Equal(t, model.VerdictUnclear, j.Compliance)

	j = ParseJudgment(`{"compliance": "Mos   emas"}`)
	assert.Equal(t, model.VerdictNonCompliant, j.Compliance)
}

func TestParseJudgment_CapsItems(t *testing.T) {
	var risks []string
	for i := 0; i < 9; i++ {
		risks = append(risks, fmt.Sprintf("%q", fmt.Sprintf("xavf %d", i)))
	}
	raw := fmt.Sprintf(`{"compliance":"noaniq","risks":[%s],"recommendations":[%s]}`,
		strings.Join(risks, ","), strings.Join(risks, ","))

	j := ParseJudgment(raw)
	assert.Len(t, j.Risks, 6)
	assert.Len(t, j.Recommendations, 6)
	assert.Equal(t, "xavf 5", j.Risks[5])
}

func TestBuildClausePrompt(t *testing.T) {
	prompt := BuildClausePrompt(model.ContractSupply, model.SectionLiability, "  Пеня 5% ҳар кун учун.  ")

	assert.Contains(t, prompt, "Shartnoma turi: supply")
	assert.Contains(t, prompt, "Bo'lim: Javobgarlik")
	assert.Contains(t, prompt, "BAND:\nПеня 5% ҳар кун учун.\n")
	assert.Contains(t, prompt, `"compliance": "mos|mos emas|noaniq"`)
}

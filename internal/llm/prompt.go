package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/shartnoma/internal/model"
)

// SystemPrompt frames the judge as a JSON-only legal assistant
const SystemPrompt = "Siz O'zbekiston qonunchiligi bo'yicha ekspert yuridik yordamchisiz. " +
	"Faqat JSON qaytaring; matnli izohlar, prefix/suffix kerak emas."

const jsonSchemaHint = `Qaytaring faqat quyidagi JSON formatda (boshqa hech narsa qo'shmang):
{
  "compliance": "mos|mos emas|noaniq",
  "risks": ["..."],
  "recommendations": ["..."],
  "rewrite": "..."
}`

// BuildClausePrompt asks for a structured judgment of one clause
func BuildClausePrompt(ct model.ContractType, section model.SectionType, clause string) string {
	var b strings.Builder
	b.WriteString("Quyidagi bandni tahlil qiling va qat'iy JSON qaytaring.\n\n")
	fmt.Fprintf(&b, "Shartnoma turi: %s\n", ct)
	fmt.Fprintf(&b, "Bo'lim: %s\n\n", section.NameUz())
	fmt.Fprintf(&b, "BAND:\n%s\n\n", strings.TrimSpace(clause))
	b.WriteString("Talablar:\n")
	b.WriteString("- compliance: 'mos', 'mos emas' yoki 'noaniq'\n")
	b.WriteString("- risks: 2-4 aniq punkt\n")
	b.WriteString("- recommendations: 1-3 amaliy tavsiya\n")
	b.WriteString("- rewrite: kerak bo'lsa, taklif etilgan band matni\n\n")
	b.WriteString(jsonSchemaHint)
	return b.String()
}

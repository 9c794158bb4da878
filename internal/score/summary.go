package score

import (
	"fmt"
	"strings"

	"github.com/ppiankov/shartnoma/internal/model"
)

// Summary renders a plain-text Uzbek report of a risk score
func Summary(rs model.RiskScore) string {
	var b strings.Builder

	b.WriteString("SHARTNOMA XAVF BAHOSI\n")
	b.WriteString("=====================\n")
	fmt.Fprintf(&b, "Umumiy ball: %d/100\n", rs.Overall)
	fmt.Fprintf(&b, "Xavf darajasi: %s\n", LevelLabel(rs.Level))
	if rs.EnhancedByLLM {
		b.WriteString("Bandlar qo'shimcha ravishda sun'iy intellekt yordamida tahlil qilindi\n")
	}

	b.WriteString("\nTarkibiy ballar:\n")
	fmt.Fprintf(&b, "- Qonunga moslik: %d/100\n", rs.Compliance)
	fmt.Fprintf(&b, "- To'liqlik: %d/100\n", rs.Completeness)
	fmt.Fprintf(&b, "- Aniqlik: %d/100\n", rs.Clarity)
	fmt.Fprintf(&b, "- Muvozanat: %d/100\n", rs.Balance)

	sev := rs.Breakdown.BySeverity
	fmt.Fprintf(&b, "\nJami muammolar: %d\n", rs.Breakdown.TotalIssues)
	fmt.Fprintf(&b, "- Jiddiy: %d\n", sev[model.SeverityCritical])
	fmt.Fprintf(&b, "- Yuqori: %d\n", sev[model.SeverityHigh])
	fmt.Fprintf(&b, "- O'rta: %d\n", sev[model.SeverityMedium])
	fmt.Fprintf(&b, "- Past: %d\n", sev[model.SeverityLow])

	if len(rs.RiskyClauses) > 0 {
		fmt.Fprintf(&b, "\nXavfli bandlar: %d\n", len(rs.RiskyClauses))
		for _, rc := range rs.RiskyClauses {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", rc.Section.NameUz(), rc.Compliance, rc.Severity)
			for _, risk := range rc.Risks {
				fmt.Fprintf(&b, "    * %s\n", risk)
			}
		}
	}

	b.WriteString("\nTAVSIYALAR:\n")
	for i, rec := range rs.Recommendations {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
	}
	return b.String()
}

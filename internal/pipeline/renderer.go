package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/shartnoma/internal/model"
	"github.com/ppiankov/shartnoma/internal/score"
)

const reportFooter = "_Ushbu hisobot avtomatik tahlil natijasi bo'lib, yuridik maslahat o'rnini bosmaydi._"

// Renderer writes reports as JSON, Markdown and a plain-text summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// WriteJSON encodes the report as indented JSON
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// RenderJSON writes the report to path as JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error { return r.WriteJSON(w, report) })
}

// RenderMarkdown writes the report to path as Markdown
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.Markdown(report))
		return err
	})
}

// RenderSummary prints the risk summary
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	_, _ = fmt.Fprintf(w, "\n%s\n", report.Source)
	_, _ = fmt.Fprintln(w, report.Summary)
	_, _ = fmt.Fprintln(w)
	_, _ = io.WriteString(w, score.Summary(report.Score))
}

func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

var severityLabels = map[model.IssueSeverity]string{
	model.SeverityCritical: "Jiddiy",
	model.SeverityHigh:     "Yuqori",
	model.SeverityMedium:   "O'rta",
	model.SeverityLow:      "Past",
	model.SeverityInfo:     "Ma'lumot",
}

// Markdown renders the full report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Shartnoma tahlili: %s\n\n", filepath.Base(report.Source))
	fmt.Fprintf(&b, "- **ID:** `%s`\n", report.ID)
	fmt.Fprintf(&b, "- **Tahlil vaqti:** %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	typ := report.ContractType.NameUz()
	if report.TypeDetected {
		typ += " (avtomatik aniqlangan)"
	}
	fmt.Fprintf(&b, "- **Shartnoma turi:** %s\n", typ)
	if report.Metadata.Language != "" {
		fmt.Fprintf(&b, "- **Til:** %s\n", report.Metadata.Language)
	}
	fmt.Fprintf(&b, "- **Manba:** %s, ishonchlilik %.0f%%\n\n", report.SourceInfo.Format, report.SourceInfo.Confidence*100)
	fmt.Fprintf(&b, "%s\n\n", report.Summary)

	rs := report.Score
	b.WriteString("## Xavf bahosi\n\n")
	b.WriteString("| Ko'rsatkich | Ball |\n|---|---|\n")
	fmt.Fprintf(&b, "| **Umumiy** | **%d/100** (%s) |\n", rs.Overall, score.LevelLabel(rs.Level))
	fmt.Fprintf(&b, "| Qonunga moslik | %d |\n", rs.Compliance)
	fmt.Fprintf(&b, "| To'liqlik | %d |\n", rs.Completeness)
	fmt.Fprintf(&b, "| Aniqlik | %d |\n", rs.Clarity)
	fmt.Fprintf(&b, "| Muvozanat | %d |\n\n", rs.Balance)

	writeMetadata(&b, report.Metadata)

	if len(report.Sections) > 0 {
		b.WriteString("## Bo'limlar\n\n")
		for _, s := range report.Sections {
			fmt.Fprintf(&b, "- %s _(%s)_\n", mdInline(s.Title), s.Type.NameUz())
		}
		b.WriteString("\n")
	}

	writeIssues(&b, report.Issues)
	writeClauseAnalyses(&b, report.ClauseAnalyses)

	if len(rs.Recommendations) > 0 {
		b.WriteString("## Tavsiyalar\n\n")
		for i, rec := range rs.Recommendations {
			fmt.Fprintf(&b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString(reportFooter)
		b.WriteString("\n")
	}
	return b.String()
}

func writeMetadata(b *strings.Builder, md model.ContractMetadata) {
	rows := [][2]string{
		{"Shartnoma raqami", md.ContractNumber},
		{"Sana", md.ContractDate},
		{"Birinchi tomon", md.PartyAName},
		{"Birinchi tomon STIR", md.PartyAINN},
		{"Ikkinchi tomon", md.PartyBName},
		{"Ikkinchi tomon STIR", md.PartyBINN},
		{"Summa", strings.TrimSpace(md.TotalAmount + " " + md.Currency)},
	}

	b.WriteString("## Rekvizitlar\n\n")
	b.WriteString("| Maydon | Qiymat |\n|---|---|\n")
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "_topilmadi_"
		}
		fmt.Fprintf(b, "| %s | %s |\n", row[0], mdCell(value))
	}
	b.WriteString("\n")
}

func writeIssues(b *strings.Builder, issues []model.ComplianceIssue) {
	b.WriteString("## Muammolar\n\n")
	if len(issues) == 0 {
		b.WriteString("Muammolar aniqlanmadi.\n\n")
		return
	}

	for _, sev := range model.Severities {
		var group []model.ComplianceIssue
		for _, i := range issues {
			if i.Severity == sev {
				group = append(group, i)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(b, "### %s (%d)\n\n", severityLabels[sev], len(group))
		for _, i := range group {
			fmt.Fprintf(b, "- **%s**", mdInline(i.Title))
			if i.SectionReference != "" {
				fmt.Fprintf(b, " [%s]", mdInline(i.SectionReference))
			}
			b.WriteString("\n")
			if i.Description != "" {
				fmt.Fprintf(b, "  - %s\n", mdInline(i.Description))
			}
			if i.LawName != "" {
				fmt.Fprintf(b, "  - Asos: %s %s\n", i.LawName, i.LawArticle)
			}
			if i.TextExcerpt != "" {
				fmt.Fprintf(b, "  - Matn: \"%s\"\n", mdInline(i.TextExcerpt))
			}
			if i.Suggestion != "" {
				fmt.Fprintf(b, "  - Tavsiya: %s\n", mdInline(i.Suggestion))
			}
		}
		b.WriteString("\n")
	}
}

func writeClauseAnalyses(b *strings.Builder, analyses []model.ClauseAnalysis) {
	if len(analyses) == 0 {
		return
	}

	b.WriteString("## Bandlar tahlili\n\n")
	for _, a := range analyses {
		fmt.Fprintf(b, "### %s: %s (%s)\n\n", a.Section.NameUz(), a.Compliance, a.Severity)
		for _, risk := range a.Risks {
			fmt.Fprintf(b, "- Xavf: %s\n", mdInline(risk))
		}
		for _, rec := range a.Recommendations {
			fmt.Fprintf(b, "- Tavsiya: %s\n", mdInline(rec))
		}
		if a.Rewrite != "" {
			fmt.Fprintf(b, "\n> %s\n", mdInline(a.Rewrite))
		}
		b.WriteString("\n")
	}
}

// mdInline keeps text on one line
func mdInline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func mdCell(s string) string {
	return strings.ReplaceAll(mdInline(s), "|", `\|`)
}

package score

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/shartnoma/internal/model"
)

const longContent = "Томонлар ушбу бўлимда келишилган шартларни тўлиқ ва ўз вақтида бажаради."

func serviceSections() []model.Section {
	var out []model.Section
	for _, st := range []model.SectionType{
		model.SectionParties, model.SectionSubject, model.SectionPrice,
		model.SectionTerm, model.SectionLiability, model.SectionRequisites,
	} {
		out = append(out, model.Section{Type: st, Title: st.NameUz(), Content: longContent})
	}
	return out
}

func fullMetadata() model.ContractMetadata {
	return model.ContractMetadata{
		ContractNumber: "45/2024",
		ContractDate:   "15.05.2024",
		PartyAName:     `"ALFA" МЧЖ`,
		PartyAINN:      "200640852",
		PartyBName:     `"BETA" МЧЖ`,
		PartyBINN:      "305127905",
	}
}

func issue(typ model.IssueType, sev model.IssueSeverity, suggestion string) model.ComplianceIssue {
	return model.ComplianceIssue{Type: typ, Severity: sev, Title: string(typ), Suggestion: suggestion}
}

func TestCalculate_CleanContract(t *testing.T) {
	rs := NewScorer().Calculate(serviceSections(), fullMetadata(), nil, model.ContractService, nil)

	assert.Equal(t, 100, rs.Compliance)
	assert.Equal(t, 100, rs.Completeness)
	assert.Equal(t, 100, rs.Clarity)
	assert.Equal(t, 100, rs.Balance)
	assert.Equal(t, 100, rs.Overall)
	assert.Equal(t, model.RiskLow, rs.Level)
	assert.Equal(t, []string{"Shartnoma asosan qonun talablariga mos keladi"}, rs.Recommendations)
	assert.False(t, rs.EnhancedByLLM)
	assert.Nil(t, rs.RiskyClauses)
}

func TestCalculate_ComplianceDeductions(t *testing.T) {
	issues := []model.ComplianceIssue{
		issue(model.IssueIllegal, model.SeverityCritical, ""),
		issue(model.IssueMissingClause, model.SeverityHigh, ""),
	}
	for i := 0; i < 10; i++ {
		issues = append(issues, issue(model.IssueSpelling, model.SeverityLow, ""))
	}

	rs := NewScorer().Calculate(serviceSections(), fullMetadata(), issues, model.ContractService, nil)
	assert.Equal(t, 71, rs.Compliance)
	assert.Equal(t, 88, rs.Overall)
}

func TestCalculate_ComplianceCapAndFloor(t *testing.T) {
	var issues []model.ComplianceIssue
	for i := 0; i < 20; i++ {
		issues = append(issues, issue(model.IssueIllegal, model.SeverityCritical, ""))
	}
	rs := NewScorer().Calculate(nil, model.ContractMetadata{}, issues, model.ContractService, nil)
	assert.Equal(t, 20, rs.Compliance)
	assert.GreaterOrEqual(t, rs.Compliance, complianceFloor)
}

func TestCalculate_CriticalIssueNeverRaisesCompliance(t *testing.T) {
	scorer := NewScorer()
	var issues []model.ComplianceIssue
	prev := scorer.Calculate(nil, model.ContractMetadata{}, issues, model.ContractSupply, nil).Compliance

	kinds := []model.IssueType{model.IssueSpelling, model.IssueOneSided, model.IssueMissingInfo, model.IssueFormat}
	for i := 0; i < 30; i++ {
		issues = append(issues, issue(kinds[i%len(kinds)], model.Severities[i%len(model.Severities)], ""))
		base := scorer.Calculate(nil, model.ContractMetadata{}, issues, model.ContractSupply, nil).Compliance

		withCritical := append(append([]model.ComplianceIssue{}, issues...), issue(model.IssueIllegal, model.SeverityCritical, ""))
		got := scorer.Calculate(nil, model.ContractMetadata{}, withCritical, model.ContractSupply, nil).Compliance

		assert.LessOrEqual(t, got, base)
		assert.LessOrEqual(t, base, prev)
		prev = base
	}
}

func TestCalculate_ScoreBounds(t *testing.T) {
	short := []model.Section{}
	for i := 0; i < 40; i++ {
		short = append(short, model.Section{Type: model.SectionOther, Content: "taxminan"})
	}
	var issues []model.ComplianceIssue
	for i := 0; i < 12; i++ {
		issues = append(issues, issue(model.IssueOneSided, model.SeverityMedium, ""))
	}
	analyses := []model.ClauseAnalysis{
		{Compliance: model.VerdictNonCompliant, Severity: "critical", Risks: []string{"unfair", "bir tomonlama"}},
	}

	for _, ct := range model.ContractTypes {
		for _, sections := range [][]model.Section{nil, short, serviceSections()} {
			rs := NewScorer().Calculate(sections, model.ContractMetadata{}, issues, ct, analyses)
			assert.True(t, rs.Overall >= 0 && rs.Overall <= 100, "overall %d", rs.Overall)
			assert.True(t, rs.Compliance >= 10 && rs.Compliance <= 100)
			for _, v := range []int{rs.Completeness, rs.Clarity, rs.Balance} {
				assert.True(t, v >= 0 && v <= 100, "sub-score %d", v)
			}
		}
	}

	rs := NewScorer().Calculate(short, model.ContractMetadata{}, issues, model.ContractService, nil)
	assert.Equal(t, 0, rs.Completeness)
	assert.Equal(t, 0, rs.Clarity)
	assert.Equal(t, 0, rs.Balance)
}

func TestCalculate_Completeness(t *testing.T) {
	sections := serviceSections()[:3] // parties, subject, price
	rs := NewScorer().Calculate(sections, fullMetadata(), nil, model.ContractService, nil)
	assert.Equal(t, 30*100/54, rs.Completeness)

	other := NewScorer().Calculate(sections, fullMetadata(), nil, model.ContractOther, nil)
	assert.Equal(t, rs.Completeness, other.Completeness)
}

func TestCalculate_Clarity(t *testing.T) {
	sections := []model.Section{
		{Type: model.SectionSubject, Content: "qisqa"},
		{Type: model.SectionPrice, Content: longContent + " va hokazo, va hokazo; и т.д."},
	}
	rs := NewScorer().Calculate(sections, model.ContractMetadata{}, nil, model.ContractService, nil)
	assert.Equal(t, 100-35-3-6, rs.Clarity)

	md := model.ContractMetadata{PartyAINN: "200640852", PartyBName: `"BETA" МЧЖ`}
	rs = NewScorer().Calculate(nil, md, nil, model.ContractService, nil)
	assert.Equal(t, 85, rs.Clarity)
}

func TestCalculate_Balance(t *testing.T) {
	issues := []model.ComplianceIssue{
		issue(model.IssueOneSided, model.SeverityMedium, ""),
		issue(model.IssueOneSided, model.SeverityMedium, ""),
	}
	rs := NewScorer().Calculate(serviceSections(), fullMetadata(), issues, model.ContractService, nil)
	assert.Equal(t, 70, rs.Balance)

	analyses := []model.ClauseAnalysis{
		{Compliance: model.VerdictUnclear, Severity: "medium", Risks: []string{"Bir tomonlama bekor qilish huquqi"}},
		{Compliance: model.VerdictUnclear, Severity: "medium", Risks: []string{"Muddat aniq emas"}},
	}
	rs = NewScorer().Calculate(serviceSections(), fullMetadata(), issues, model.ContractService, analyses)
	assert.Equal(t, 58, rs.Balance)
}

func TestCalculate_ClauseAnalyses(t *testing.T) {
	analyses := []model.ClauseAnalysis{
		{Section: model.SectionSubject, Compliance: model.VerdictCompliant, Severity: "low"},
		{Section: model.SectionTerm, Compliance: model.VerdictUnclear, Severity: "medium", Risks: []string{"Muddat aniq emas"}},
		{
			Section:         model.SectionLiability,
			Compliance:      model.VerdictNonCompliant,
			Severity:        "critical",
			Risks:           []string{"r1", "r2", "r3", "r4"},
			Recommendations: []string{"t1", "t2", "t3"},
		},
	}
	rs := NewScorer().Calculate(serviceSections(), fullMetadata(), nil, model.ContractService, analyses)

	assert.True(t, rs.EnhancedByLLM)
	assert.Equal(t, 100-20-12, rs.Compliance)

	require.Len(t, rs.RiskyClauses, 2)
	assert.Equal(t, model.SectionLiability, rs.RiskyClauses[0].Section)
	assert.Equal(t, []string{"r1", "r2", "r3"}, rs.RiskyClauses[0].Risks)
	assert.Equal(t, []string{"t1", "t2"}, rs.RiskyClauses[0].Recommendations)
	assert.Equal(t, model.SectionTerm, rs.RiskyClauses[1].Section)
}

func TestCalculate_Recommendations(t *testing.T) {
	issues := []model.ComplianceIssue{
		issue(model.IssueMissingInfo, model.SeverityHigh, "B"),
		issue(model.IssueMissingInfo, model.SeverityMedium, "M"),
		issue(model.IssueMissingInfo, model.SeverityCritical, "A"),
		issue(model.IssueMissingInfo, model.SeverityHigh, "B"),
	}
	analyses := []model.ClauseAnalysis{
		{Compliance: model.VerdictNonCompliant, Severity: "critical", Recommendations: []string{"A", "R1", "R2", "R3"}},
	}
	rs := NewScorer().Calculate(serviceSections(), fullMetadata(), issues, model.ContractService, analyses)

	require.NotEmpty(t, rs.Recommendations)
	assert.Equal(t, bandMessage(rs.Overall), rs.Recommendations[0])
	assert.Equal(t, []string{"A", "B", "R1", "R2"}, rs.Recommendations[1:])
}

func TestCalculate_RecommendationsCapped(t *testing.T) {
	var issues []model.ComplianceIssue
	for i := 0; i < 10; i++ {
		issues = append(issues, issue(model.IssueIllegal, model.SeverityCritical, fmt.Sprintf("fix %d", i)))
	}
	analyses := []model.ClauseAnalysis{
		{Compliance: model.VerdictNonCompliant, Severity: "high", Recommendations: []string{"x", "y", "z"}},
	}
	rs := NewScorer().Calculate(nil, model.ContractMetadata{}, issues, model.ContractService, analyses)

	assert.Len(t, rs.Recommendations, maxRecommendations)
	assert.Equal(t, "fix 4", rs.Recommendations[5])
	assert.Equal(t, []string{"x", "y"}, rs.Recommendations[6:])
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score int
		want  model.RiskLevel
	}{
		{100, model.RiskLow},
		{70, model.RiskLow},
		{69, model.RiskMedium},
		{30, model.RiskMedium},
		{29, model.RiskHigh},
		{0, model.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score), "score %d", tt.score)
	}
}

func TestClauseSeverity(t *testing.T) {
	assert.Equal(t, "critical", ClauseSeverity(model.ClauseAnalysis{Compliance: model.VerdictNonCompliant, Risks: []string{"a", "b"}}))
	assert.Equal(t, "high", ClauseSeverity(model.ClauseAnalysis{Compliance: model.VerdictNonCompliant, Risks: []string{"a"}}))
	assert.Equal(t, "medium", ClauseSeverity(model.ClauseAnalysis{Compliance: model.VerdictUnclear}))
	assert.Equal(t, "low", ClauseSeverity(model.ClauseAnalysis{Compliance: model.VerdictCompliant, Risks: []string{"a", "b"}}))
}

func TestNewBreakdown(t *testing.T) {
	b := NewBreakdown([]model.ComplianceIssue{
		issue(model.IssueSpelling, model.SeverityLow, ""),
		issue(model.IssueSpelling, model.SeverityLow, ""),
		issue(model.IssueIllegal, model.SeverityCritical, ""),
	})
	assert.Equal(t, 3, b.TotalIssues)
	assert.Equal(t, 2, b.BySeverity[model.SeverityLow])
	assert.Equal(t, 0, b.BySeverity[model.SeverityHigh])
	assert.Contains(t, b.BySeverity, model.SeverityInfo)
	assert.Equal(t, 2, b.ByType[model.IssueSpelling])
	assert.Equal(t, 1, b.ByType[model.IssueIllegal])
}

func TestSummary(t *testing.T) {
	analyses := []model.ClauseAnalysis{
		{Section: model.SectionLiability, Compliance: model.VerdictNonCompliant, Severity: "high", Risks: []string{"Penya juda yuqori"}},
	}
	rs := NewScorer().Calculate(serviceSections(), fullMetadata(), nil, model.ContractService, analyses)
	out := Summary(rs)

	assert.True(t, strings.HasPrefix(out, "SHARTNOMA XAVF BAHOSI\n"))
	assert.Contains(t, out, fmt.Sprintf("Umumiy ball: %d/100", rs.Overall))
	assert.Contains(t, out, "Xavf darajasi: PAST XAVF")
	assert.Contains(t, out, "- Javobgarlik (mos emas, high)")
	assert.Contains(t, out, "* Penya juda yuqori")
	assert.Contains(t, out, "1. "+rs.Recommendations[0])
}

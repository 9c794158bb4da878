package score

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/compliance"
	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
)

// Sub-score weights, in percent
const (
	weightCompliance   = 40
	weightCompleteness = 25
	weightClarity      = 20
	weightBalance      = 15
)

const (
	maxComplianceDeduction = 80
	complianceFloor        = 10
	nonCompliantDeduction  = 20
	severeClauseDeduction  = 12
	oneSidedDeduction      = 15
	asymmetryDeduction     = 12
	shortSectionRunes      = 50
	shortSectionDeduction  = 3
	vagueMarkerDeduction   = 2
	defaultSectionWeight   = 5
	maxIssueSuggestions    = 5
	maxClauseSuggestions   = 2
	maxRecommendations     = 8
	maxClauseRisks         = 3
	maxClauseRecs          = 2
)

var severityBase = map[model.IssueSeverity]float64{
	model.SeverityCritical: 15,
	model.SeverityHigh:     10,
	model.SeverityMedium:   5,
	model.SeverityLow:      2,
	model.SeverityInfo:     0,
}

// typeWeight scales the severity deduction; weights above 1 are capped
var typeWeight = map[model.IssueType]float64{
	model.IssueIllegal:       1.5,
	model.IssueMissingClause: 1.2,
	model.IssueInvalidClause: 1.3,
	model.IssueOneSided:      1.1,
	model.IssueConflict:      1.2,
	model.IssueMissingInfo:   1.0,
	model.IssueUnclear:       0.8,
	model.IssueFormat:        0.7,
	model.IssueOther:         0.5,
	model.IssueGrammar:       0.3,
	model.IssueSpelling:      0.2,
}

var sectionWeight = map[model.SectionType]int{
	model.SectionParties:      10,
	model.SectionSubject:      10,
	model.SectionPrice:        10,
	model.SectionTerm:         8,
	model.SectionObligations:  8,
	model.SectionLiability:    8,
	model.SectionRequisites:   8,
	model.SectionWarranty:     6,
	model.SectionDelivery:     6,
	model.SectionQuality:      6,
	model.SectionForceMajeure: 4,
	model.SectionDispute:      4,
	model.SectionRights:       4,
	model.SectionTermination:  3,
	model.SectionConfidential: 2,
	model.SectionAdditional:   2,
}

var vagueMarkers = []string{
	"va hokazo", "va boshqalar", "taxminan",
	"ва ҳоказо", "ва бошқалар", "тахминан",
	"и т.д.", "и прочее", "примерно",
}

var asymmetryMarkers = []string{
	"bir tomonli", "bir tomonlama", "notengi", "noteng",
	"бир томонлама", "нотенг",
	"односторон", "неравн",
	"unfair", "one-sided", "imbalanced",
}

// Scorer turns analysis findings into a RiskScore
type Scorer struct {
	logger *zap.Logger
}

// Option configures a Scorer
type Option func(*Scorer)

// WithLogger sets the scorer logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.logger = l }
}

// NewScorer creates a new scorer
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Calculate scores a parsed contract. analyses are optional clause
// judgments; nil or empty means rule-based scoring only.
func (s *Scorer) Calculate(sections []model.Section, md model.ContractMetadata, issues []model.ComplianceIssue, ct model.ContractType, analyses []model.ClauseAnalysis) model.RiskScore {
	result := model.RiskScore{
		Compliance:    s.compliance(issues, analyses),
		Completeness:  s.completeness(sections, ct),
		Clarity:       s.clarity(sections, md),
		Balance:       s.balance(issues, analyses),
		Breakdown:     NewBreakdown(issues),
		EnhancedByLLM: len(analyses) > 0,
	}

	result.Overall = (result.Compliance*weightCompliance +
		result.Completeness*weightCompleteness +
		result.Clarity*weightClarity +
		result.Balance*weightBalance) / 100
	result.Level = LevelFor(result.Overall)
	result.Recommendations = recommendations(issues, analyses, result.Overall)
	if len(analyses) > 0 {
		result.RiskyClauses = riskyClauses(analyses)
	}

	s.logger.Debug("risk score calculated",
		zap.Int("overall", result.Overall),
		zap.Int("compliance", result.Compliance),
		zap.Int("completeness", result.Completeness),
		zap.Int("clarity", result.Clarity),
		zap.Int("balance", result.Balance),
		zap.Bool("enhanced", result.EnhancedByLLM),
	)
	return result
}

// LevelFor bands an overall score
func LevelFor(overall int) model.RiskLevel {
	switch {
	case overall >= 70:
		return model.RiskLow
	case overall >= 30:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// ClauseSeverity derives the severity of a clause judgment
func ClauseSeverity(a model.ClauseAnalysis) string {
	switch {
	case a.Compliance == model.VerdictNonCompliant && len(a.Risks) >= 2:
		return string(model.SeverityCritical)
	case a.Compliance == model.VerdictNonCompliant:
		return string(model.SeverityHigh)
	case a.Compliance == model.VerdictUnclear:
		return string(model.SeverityMedium)
	default:
		return string(model.SeverityLow)
	}
}

func (s *Scorer) compliance(issues []model.ComplianceIssue, analyses []model.ClauseAnalysis) int {
	var deduction float64
	for _, issue := range issues {
		base, ok := severityBase[issue.Severity]
		if !ok {
			base = 5
		}
		w, ok := typeWeight[issue.Type]
		if !ok || w > 1 {
			w = 1
		}
		deduction += base * w
	}

	for _, a := range analyses {
		if a.Compliance == model.VerdictNonCompliant {
			deduction += nonCompliantDeduction
		}
		if isSevere(a.Severity) {
			deduction += severeClauseDeduction
		}
	}

	if deduction > maxComplianceDeduction {
		deduction = maxComplianceDeduction
	}
	// fractional weights accumulate float error; 10 x 0.4 must stay 4
	return clamp(100-int(math.Floor(deduction+1e-9)), complianceFloor, 100)
}

func (s *Scorer) completeness(sections []model.Section, ct model.ContractType) int {
	required := compliance.RequiredSections(ct)
	if len(required) == 0 {
		return 100
	}

	found := make(map[model.SectionType]bool, len(sections))
	for _, sec := range sections {
		found[sec.Type] = true
	}

	total, present := 0, 0
	for _, st := range required {
		w, ok := sectionWeight[st]
		if !ok {
			w = defaultSectionWeight
		}
		total += w
		if found[st] {
			present += w
		}
	}
	if total == 0 {
		return 100
	}
	return clamp(present*100/total, 0, 100)
}

func (s *Scorer) clarity(sections []model.Section, md model.ContractMetadata) int {
	score := 100
	if md.ContractNumber == "" {
		score -= 5
	}
	if md.ContractDate == "" {
		score -= 10
	}
	if md.PartyAName == "" && md.PartyAINN == "" {
		score -= 10
	}
	if md.PartyBName == "" && md.PartyBINN == "" {
		score -= 10
	}

	for _, sec := range sections {
		if utf8.RuneCountInString(strings.TrimSpace(sec.Content)) < shortSectionRunes {
			score -= shortSectionDeduction
		}
		content := strings.ToLower(sec.Content)
		for _, marker := range vagueMarkers {
			score -= vagueMarkerDeduction * strings.Count(content, marker)
		}
	}
	return clamp(score, 0, 100)
}

func (s *Scorer) balance(issues []model.ComplianceIssue, analyses []model.ClauseAnalysis) int {
	score := 100
	for _, issue := range issues {
		if issue.Type == model.IssueOneSided {
			score -= oneSidedDeduction
		}
	}
	for _, a := range analyses {
		if hasAsymmetry(a.Risks) {
			score -= asymmetryDeduction
		}
	}
	return clamp(score, 0, 100)
}

func hasAsymmetry(risks []string) bool {
	for _, r := range risks {
		lower := strings.ToLower(r)
		for _, m := range asymmetryMarkers {
			if strings.Contains(lower, m) {
				return true
			}
		}
	}
	return false
}

// recommendations opens with a line keyed to the score band, then adds
// suggestions from severe issues and severe clause judgments
func recommendations(issues []model.ComplianceIssue, analyses []model.ClauseAnalysis, overall int) []string {
	out := []string{bandMessage(overall)}
	seen := map[string]bool{out[0]: true}

	severe := make([]model.ComplianceIssue, 0, len(issues))
	for _, issue := range issues {
		if isSevere(string(issue.Severity)) && issue.Suggestion != "" {
			severe = append(severe, issue)
		}
	}
	sort.SliceStable(severe, func(i, j int) bool {
		return severe[i].Severity.Rank() < severe[j].Severity.Rank()
	})

	added := 0
	for _, issue := range severe {
		if added == maxIssueSuggestions {
			break
		}
		if seen[issue.Suggestion] {
			continue
		}
		seen[issue.Suggestion] = true
		out = append(out, issue.Suggestion)
		added++
	}

	added = 0
	for _, a := range bySeverity(analyses) {
		if !isSevere(a.Severity) {
			continue
		}
		for _, rec := range a.Recommendations {
			if added == maxClauseSuggestions {
				break
			}
			rec = strings.TrimSpace(rec)
			if rec == "" || seen[rec] {
				continue
			}
			seen[rec] = true
			out = append(out, rec)
			added++
		}
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}

func bandMessage(overall int) string {
	switch {
	case overall < 30:
		return "Shartnomani tubdan qayta ko'rib chiqish tavsiya etiladi"
	case overall < 50:
		return "Shartnomada bir nechta muhim kamchiliklar mavjud"
	case overall < 70:
		return "Shartnoma yaxshi, lekin ayrim o'zgartirishlar kiritish kerak"
	default:
		return "Shartnoma asosan qonun talablariga mos keladi"
	}
}

func riskyClauses(analyses []model.ClauseAnalysis) []model.RiskyClause {
	var out []model.RiskyClause
	for _, a := range bySeverity(analyses) {
		if a.Compliance == model.VerdictCompliant && len(a.Risks) == 0 {
			continue
		}
		out = append(out, model.RiskyClause{
			Section:         a.Section,
			Compliance:      a.Compliance,
			Severity:        a.Severity,
			Risks:           head(a.Risks, maxClauseRisks),
			Recommendations: head(a.Recommendations, maxClauseRecs),
		})
	}
	return out
}

// bySeverity returns analyses ordered critical first, keeping input order
// within a severity
func bySeverity(analyses []model.ClauseAnalysis) []model.ClauseAnalysis {
	sorted := make([]model.ClauseAnalysis, len(analyses))
	copy(sorted, analyses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return model.IssueSeverity(sorted[i].Severity).Rank() < model.IssueSeverity(sorted[j].Severity).Rank()
	})
	return sorted
}

// NewBreakdown counts issues by severity and type
func NewBreakdown(issues []model.ComplianceIssue) model.Breakdown {
	b := model.Breakdown{
		BySeverity:  make(map[model.IssueSeverity]int, len(model.Severities)),
		ByType:      make(map[model.IssueType]int),
		TotalIssues: len(issues),
	}
	for _, sev := range model.Severities {
		b.BySeverity[sev] = 0
	}
	for _, issue := range issues {
		b.BySeverity[issue.Severity]++
		b.ByType[issue.Type]++
	}
	return b
}

func isSevere(severity string) bool {
	s := model.IssueSeverity(strings.ToLower(severity))
	return s == model.SeverityCritical || s == model.SeverityHigh
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LevelLabel is the display label of a risk level
func LevelLabel(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return "YUQORI XAVF"
	case model.RiskMedium:
		return "O'RTA XAVF"
	case model.RiskLow:
		return "PAST XAVF"
	default:
		return fmt.Sprint(level)
	}
}

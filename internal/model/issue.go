package model

// IssueType classifies a compliance finding
type IssueType string

const (
	IssueMissingClause   IssueType = "missing_clause"
	IssueInvalidClause   IssueType = "invalid_clause"
	IssueOneSided        IssueType = "one_sided"
	IssueUnclear         IssueType = "unclear"
	IssueConflict        IssueType = "conflict"
	IssueIllegal         IssueType = "illegal"
	IssueMissingInfo     IssueType = "missing_info"
	IssueFormat          IssueType = "format"
	IssueSpelling        IssueType = "spelling"
	IssueGrammar         IssueType = "grammar"
	IssueStructural      IssueType = "structural"
	IssueInvalidDocument IssueType = "invalid_document"
	IssueOther           IssueType = "other"
)

// IssueSeverity ranks a finding
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityHigh     IssueSeverity = "high"
	SeverityMedium   IssueSeverity = "medium"
	SeverityLow      IssueSeverity = "low"
	SeverityInfo     IssueSeverity = "info"
)

// Severities lists severities from most to least severe
var Severities = []IssueSeverity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}

// Rank orders severities; lower is more severe
func (s IssueSeverity) Rank() int {
	for i, sev := range Severities {
		if sev == s {
			return i
		}
	}
	return len(Severities)
}

// ParseSeverity maps a lowercase tag to a severity, defaulting to low
func ParseSeverity(s string) IssueSeverity {
	for _, sev := range Severities {
		if string(sev) == s {
			return sev
		}
	}
	return SeverityLow
}

// ComplianceIssue is one finding produced by an analysis run
type ComplianceIssue struct {
	Type             IssueType     `json:"issue_type"`
	Severity         IssueSeverity `json:"severity"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Section          SectionType   `json:"section,omitempty"`           // Section type the finding is about
	SectionReference string        `json:"section_reference,omitempty"` // Section title or "N-qator"
	TextExcerpt      string        `json:"text_excerpt,omitempty"`
	LawName          string        `json:"law_name,omitempty"`
	LawArticle       string        `json:"law_article,omitempty"`
	Suggestion       string        `json:"suggestion,omitempty"`
	RuleID           string        `json:"rule_id,omitempty"`
}

// CheckType says how a LegalRule is evaluated
type CheckType string

const (
	CheckMandatory   CheckType = "mandatory"
	CheckProhibited  CheckType = "prohibited"
	CheckFormat      CheckType = "format"
	CheckLimit       CheckType = "limit"
	CheckRecommended CheckType = "recommended"
)

// AppliesToAll marks a rule that applies to every contract type
const AppliesToAll = "all"

// LegalRule is one declarative catalog entry
type LegalRule struct {
	ID          string        `json:"rule_id" yaml:"rule_id"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	LawName     string        `json:"law_name" yaml:"law_name"`
	LawArticle  string        `json:"law_article" yaml:"law_article"`
	AppliesTo   []string      `json:"applies_to" yaml:"applies_to"`
	SectionType SectionType   `json:"section_type,omitempty" yaml:"section_type,omitempty"`
	Severity    IssueSeverity `json:"severity" yaml:"severity"`
	CheckType   CheckType     `json:"check_type" yaml:"check_type"`
	Keywords    []string      `json:"keywords" yaml:"keywords"`
}

// Applies reports whether the rule is in force for the contract type
func (r LegalRule) Applies(contractType ContractType) bool {
	for _, t := range r.AppliesTo {
		if t == AppliesToAll || t == string(contractType) {
			return true
		}
	}
	return false
}

package model

import "time"

// Report is the complete analysis result for one document
type Report struct {
	ID             string            `json:"id"`                        // UUID of this analysis run
	Source         string            `json:"source"`                    // File path or caller-supplied name
	SourceInfo     SourceInfo        `json:"source_info"`               // What the text source reported
	ContractType   ContractType      `json:"contract_type"`             // Supplied or detected type
	TypeDetected   bool              `json:"type_detected"`             // True when the type was inferred
	AnalyzedAt     time.Time         `json:"analyzed_at"`               // When the analysis finished
	Sections       []Section         `json:"sections"`                  // Parsed sections in document order
	Metadata       ContractMetadata  `json:"metadata"`                  // Recovered header facts
	Issues         []ComplianceIssue `json:"issues"`                    // Compliance + spelling findings
	SpellingErrors []SpellingError   `json:"spelling_errors,omitempty"` // Raw spelling findings
	ClauseAnalyses []ClauseAnalysis  `json:"clause_analyses,omitempty"` // External judgments, if any
	Score          RiskScore         `json:"score"`                     // Final verdict
	Summary        string            `json:"summary"`                   // One-paragraph Uzbek summary
}

// SourceInfo is what the text-source collaborator reported about the document
type SourceInfo struct {
	Confidence float64 `json:"confidence"`
	IsScanned  bool    `json:"is_scanned"`
	Format     string  `json:"format,omitempty"`
}

// RiskLevel is the banded verdict derived from the overall score
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskScore is the analysis verdict
type RiskScore struct {
	Overall         int           `json:"overall_score"`
	Level           RiskLevel     `json:"risk_level"`
	Compliance      int           `json:"compliance_score"`
	Completeness    int           `json:"completeness_score"`
	Clarity         int           `json:"clarity_score"`
	Balance         int           `json:"balance_score"`
	Breakdown       Breakdown     `json:"breakdown"`
	Recommendations []string      `json:"recommendations"`
	RiskyClauses    []RiskyClause `json:"risky_clauses,omitempty"`
	EnhancedByLLM   bool          `json:"enhanced_by_llm"`
}

// Breakdown counts issues for display
type Breakdown struct {
	BySeverity  map[IssueSeverity]int `json:"by_severity"`
	ByType      map[IssueType]int     `json:"by_type"`
	TotalIssues int                   `json:"total_issues"`
}

// RiskyClause summarises one external clause judgment that flagged a problem
type RiskyClause struct {
	Section         SectionType `json:"section"`
	Compliance      Verdict     `json:"compliance"`
	Severity        string      `json:"severity"`
	Risks           []string    `json:"risks"`
	Recommendations []string    `json:"recommendations"`
}

// Verdict is the compliance answer of an external clause judgment
type Verdict string

const (
	VerdictCompliant    Verdict = "mos"
	VerdictNonCompliant Verdict = "mos emas"
	VerdictUnclear      Verdict = "noaniq"
)

// ClauseAnalysis is a structured judgment about one clause from the
// optional external judge
type ClauseAnalysis struct {
	Section         SectionType `json:"section"`
	ClauseText      string      `json:"clause_text"`
	Compliance      Verdict     `json:"compliance"`
	Risks           []string    `json:"risks"`
	Recommendations []string    `json:"recommendations"`
	Rewrite         string      `json:"rewrite,omitempty"`
	Severity        string      `json:"severity"` // critical, high, medium, low
}

// SpellingErrorKind classifies a lexical error
type SpellingErrorKind string

const (
	SpellTypo          SpellingErrorKind = "typo"
	SpellMissingLetter SpellingErrorKind = "missing_letter"
	SpellExtraLetter   SpellingErrorKind = "extra_letter"
	SpellWrongLetter   SpellingErrorKind = "wrong_letter"
	SpellScriptMix     SpellingErrorKind = "latin_cyrillic_mix"
	SpellApostrophe    SpellingErrorKind = "apostrophe"
	SpellCapitalize    SpellingErrorKind = "capitalization"
)

// SpellingError is one lexical finding
type SpellingError struct {
	Word        string            `json:"word"`
	Suggestion  string            `json:"suggestion"`
	Kind        SpellingErrorKind `json:"error_type"`
	Position    int               `json:"position"`    // Byte offset in the checked text
	Line        int               `json:"line_number"` // 1-based
	Context     string            `json:"context"`
	Language    Language          `json:"language"`
	Description string            `json:"description"`
}

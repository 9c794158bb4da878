package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/cache"
	"github.com/ppiankov/shartnoma/internal/compliance"
	"github.com/ppiankov/shartnoma/internal/extract"
	"github.com/ppiankov/shartnoma/internal/llm"
	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
	"github.com/ppiankov/shartnoma/internal/score"
	"github.com/ppiankov/shartnoma/internal/spelling"
	"github.com/ppiankov/shartnoma/internal/validate"
	"github.com/ppiankov/shartnoma/internal/worker"
)

// Pipeline orchestrates the complete analysis of one document
type Pipeline struct {
	sources    *Registry
	parser     *extract.Parser
	classifier *validate.TypeClassifier
	engine     *compliance.Engine
	speller    *spelling.Checker
	scorer     *score.Scorer
	judge      *llm.Judge // Optional clause judge (nil if disabled)
	renderer   *Renderer
	config     *model.Config
	logger     *zap.Logger
	out        io.Writer
	now        func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger; components inherit it
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithJudge replaces the judge built from the llm config
func WithJudge(j *llm.Judge) Option {
	return func(p *Pipeline) { p.judge = j }
}

// WithSpellChecker replaces the checker built from the spelling config
func WithSpellChecker(c *spelling.Checker) Option {
	return func(p *Pipeline) { p.speller = c }
}

// WithSources replaces the default source registry
func WithSources(r *Registry) Option {
	return func(p *Pipeline) { p.sources = r }
}

// WithOutput redirects the printed summary and progress lines
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// NewPipeline creates a new pipeline with the given configuration. Only a
// broken custom rules file is fatal; a misconfigured judge is skipped with
// a warning.
func NewPipeline(cfg *model.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		config: cfg,
		out:    os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNop(p.logger)

	engineOpts := []compliance.Option{
		compliance.WithLogger(p.logger),
		compliance.WithTemplates(model.ContractTypes...),
	}
	if cfg.Analysis.RulesFile != "" {
		rules, err := compliance.LoadRulesFile(cfg.Analysis.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load custom rules: %w", err)
		}
		engineOpts = append(engineOpts, compliance.WithRules(rules...))
		p.logger.Info("loaded custom rules", zap.String("file", cfg.Analysis.RulesFile), zap.Int("rules", len(rules)))
	}

	shared := cache.New(cfg.Cache)

	if p.sources == nil {
		p.sources = NewRegistry()
	}
	if p.speller == nil {
		p.speller = newSpellChecker(cfg, shared, p.logger)
	}
	if p.judge == nil && cfg.LLM.Provider != "" {
		j, err := newJudge(cfg, shared, p.logger)
		if err != nil {
			p.logger.Warn("clause judge disabled", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		} else {
			p.judge = j
		}
	}

	p.parser = extract.NewParser(extract.WithLogger(p.logger))
	p.classifier = validate.NewTypeClassifier(cfg.Analysis.TypeKeywords)
	p.engine = compliance.NewEngine(engineOpts...)
	p.scorer = score.NewScorer(score.WithLogger(p.logger))
	p.renderer = NewRenderer(cfg.Output.IncludeFooter)
	return p, nil
}

func newSpellChecker(cfg *model.Config, c cache.Cache, logger *zap.Logger) *spelling.Checker {
	opts := []spelling.Option{
		spelling.WithLogger(logger),
		spelling.WithMode(cfg.Analysis.SpellingMode),
	}
	backend := spelling.NewHTTPBackend(cfg.Spelling,
		spelling.WithCache(c, cfg.Cache.DiskTTL),
		spelling.WithBackendLogger(logger))
	if backend != nil {
		opts = append(opts, spelling.WithBackend(spelling.NewChain(logger, backend)))
	}
	return spelling.NewChecker(opts...)
}

func newJudge(cfg *model.Config, c cache.Cache, logger *zap.Logger) (*llm.Judge, error) {
	llmCfg := llm.ConfigFromModel(cfg.LLM)
	provider, err := llm.NewProvider(llmCfg)
	if err != nil {
		return nil, err
	}
	return llm.NewJudge(provider, llmCfg,
		llm.WithCache(c, cfg.Cache.DiskTTL),
		llm.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
		llm.WithLogger(logger),
		llm.WithWorkers(cfg.Concurrency.Workers))
}

// Judge returns the clause judge, or nil when none is configured
func (p *Pipeline) Judge() *llm.Judge {
	return p.judge
}

// Engine returns the compliance engine in use
func (p *Pipeline) Engine() *compliance.Engine {
	return p.engine
}

// AnalyzeFile loads a document from disk and analyzes it with the
// configured contract type
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	doc, err := p.sources.Load(path)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, *doc, model.ParseContractType(p.config.Analysis.ContractType))
}

// Analyze runs the full analysis on a document. ct may be empty or
// "other" to request type detection. Only an empty document or a cancelled
// context is an error; every other failure degrades the report.
func (p *Pipeline) Analyze(ctx context.Context, doc Document, ct model.ContractType) (*model.Report, error) {
	if strings.TrimSpace(doc.Text) == "" {
		return nil, ErrEmptyDocument
	}
	if doc.Info == (model.SourceInfo{}) {
		doc.Info = model.SourceInfo{Confidence: 1, Format: "text"}
	}

	start := p.now()
	log := p.logger.With(zap.String("source", doc.Name))

	// 1. Normalize and parse
	parsed := p.parser.Parse(doc.Text)

	// 2. Resolve contract type
	ct, detected := p.classifier.Resolve(parsed.Text, ct)
	log.Debug("contract type resolved", zap.String("type", string(ct)), zap.Bool("detected", detected))

	report := &model.Report{
		ID:           uuid.NewString(),
		Source:       doc.Name,
		SourceInfo:   doc.Info,
		ContractType: ct,
		TypeDetected: detected,
		Sections:     parsed.Sections,
		Metadata:     parsed.Metadata,
	}

	// 3. Reject documents that are not contracts
	if !validate.IsContract(parsed.Text, ct) {
		report.SpellingErrors = p.checkSpelling(ctx, doc.Text, parsed.Metadata.Language)
		report.Issues = append([]model.ComplianceIssue{validate.InvalidDocumentIssue(parsed.Text)},
			SpellingIssues(report.SpellingErrors)...)
		report.Score = invalidScore(report.Issues)
		return p.finish(ctx, report, start, log)
	}

	// 4. Compliance and spelling run side by side
	var (
		wg       sync.WaitGroup
		issues   []model.ComplianceIssue
		spellErr []model.SpellingError
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		issues = p.engine.Check(parsed.Sections, parsed.Metadata, ct)
	}()
	go func() {
		defer wg.Done()
		spellErr = p.checkSpelling(ctx, doc.Text, parsed.Metadata.Language)
	}()
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", doc.Name, err)
	}
	log.Debug("rule checks done", zap.Int("issues", len(issues)), zap.Int("spelling_errors", len(spellErr)))

	// 5. Text quality gate
	if qi, ok := QualityIssue(parsed.Text, doc.Info, p.config.OCR); ok {
		issues = append(issues, qi)
	}
	issues = append(issues, SpellingIssues(spellErr)...)
	report.Issues = issues
	report.SpellingErrors = spellErr

	// 6. Optional clause judgments (never fail the analysis)
	if p.judge != nil {
		analyses, err := p.judge.JudgeSections(ctx, ct, parsed.Sections)
		if err != nil {
			log.Warn("clause judge failed", zap.String("provider", p.judge.ProviderName()), zap.Error(err))
		}
		report.ClauseAnalyses = analyses
	}

	// 7. Score
	report.Score = p.scorer.Calculate(parsed.Sections, parsed.Metadata, report.Issues, ct, report.ClauseAnalyses)
	return p.finish(ctx, report, start, log)
}

func (p *Pipeline) finish(ctx context.Context, report *model.Report, start time.Time, log *zap.Logger) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", report.Source, err)
	}
	report.AnalyzedAt = p.now().UTC()
	report.Summary = summaryText(report)

	log.Info("analysis complete",
		zap.String("id", report.ID),
		zap.String("type", string(report.ContractType)),
		zap.Int("issues", len(report.Issues)),
		zap.Int("score", report.Score.Overall),
		zap.Bool("enhanced", report.Score.EnhancedByLLM),
		zap.Duration("elapsed", p.now().Sub(start)))
	return report, nil
}

func (p *Pipeline) checkSpelling(ctx context.Context, text string, lang model.Language) []model.SpellingError {
	if !p.config.Analysis.SpellingEnabled || p.speller == nil {
		return nil
	}
	return p.speller.CheckContext(ctx, text, lang)
}

// SpellingIssues converts spelling findings into low-severity issues
func SpellingIssues(errs []model.SpellingError) []model.ComplianceIssue {
	if len(errs) == 0 {
		return nil
	}
	out := make([]model.ComplianceIssue, 0, len(errs))
	for _, e := range errs {
		out = append(out, model.ComplianceIssue{
			Type:             model.IssueSpelling,
			Severity:         model.SeverityLow,
			Title:            "Imloviy xato: " + e.Word,
			Description:      e.Description,
			SectionReference: fmt.Sprintf("%d-qator", e.Line),
			TextExcerpt:      e.Context,
			Suggestion:       "To'g'ri yozilishi: " + e.Suggestion,
		})
	}
	return out
}

func invalidScore(issues []model.ComplianceIssue) model.RiskScore {
	return model.RiskScore{
		Level:           model.RiskHigh,
		Breakdown:       score.NewBreakdown(issues),
		Recommendations: validate.InvalidDocumentRecommendations(),
	}
}

func summaryText(r *model.Report) string {
	if len(r.Issues) > 0 && r.Issues[0].Type == model.IssueInvalidDocument {
		return "Yuklangan hujjat shartnoma sifatida tanilmadi, shu sababli qonunchilikka moslik tekshiruvi o'tkazilmadi."
	}

	var b strings.Builder
	b.WriteString(r.ContractType.NameUz())
	if r.TypeDetected {
		b.WriteString(" (turi avtomatik aniqlandi)")
	}
	sev := r.Score.Breakdown.BySeverity
	fmt.Fprintf(&b, ". Umumiy ball: %d/100, %s. Aniqlangan muammolar: %d, shundan jiddiy: %d, yuqori: %d.",
		r.Score.Overall, strings.ToLower(score.LevelLabel(r.Score.Level)),
		r.Score.Breakdown.TotalIssues, sev[model.SeverityCritical], sev[model.SeverityHigh])
	if n := len(r.SpellingErrors); n > 0 {
		fmt.Fprintf(&b, " Imloviy xatolar: %d.", n)
	}
	if r.Score.EnhancedByLLM {
		b.WriteString(" Asosiy bandlar sun'iy intellekt yordamida qo'shimcha tahlil qilindi.")
	}
	return b.String()
}

// RenderReport renders the report to the specified outputs and prints the
// summary
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(p.out, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			_, _ = fmt.Fprintf(p.out, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(p.out, report)
	return nil
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

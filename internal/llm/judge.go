package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/cache"
	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
	"github.com/ppiankov/shartnoma/internal/score"
	"github.com/ppiankov/shartnoma/internal/worker"
)

// KeySections are the section types sent to the judge, in priority order
var KeySections = []model.SectionType{
	model.SectionSubject,
	model.SectionPrice,
	model.SectionLiability,
	model.SectionTerm,
	model.SectionTermination,
	model.SectionDispute,
}

const (
	maxClauseRunes  = 800
	judgeMaxTokens  = 768
	defaultJudgeTTL = 7 * 24 * time.Hour
)

// Judge asks a provider for structured judgments of key clauses
type Judge struct {
	provider   Provider
	cache      cache.Cache
	cacheTTL   time.Duration
	limiter    *worker.Limiter
	logger     *zap.Logger
	model      string
	maxClauses int
	workers    int
}

// JudgeOption configures a Judge
type JudgeOption func(*Judge)

// WithCache stores judgments in c
func WithCache(c cache.Cache, ttl time.Duration) JudgeOption {
	return func(j *Judge) {
		j.cache = c
		j.cacheTTL = ttl
	}
}

// WithLimiter throttles provider calls, keyed by provider name
func WithLimiter(l *worker.Limiter) JudgeOption {
	return func(j *Judge) { j.limiter = l }
}

// WithLogger sets the judge logger
func WithLogger(l *zap.Logger) JudgeOption {
	return func(j *Judge) { j.logger = l }
}

// WithWorkers sets how many clauses are judged at once
func WithWorkers(n int) JudgeOption {
	return func(j *Judge) { j.workers = n }
}

// NewJudge creates a judge over p
func NewJudge(p Provider, cfg Config, opts ...JudgeOption) (*Judge, error) {
	if p == nil {
		return nil, ErrNoProvider
	}

	j := &Judge{
		provider:   p,
		model:      cfg.Model,
		maxClauses: cfg.MaxClauses,
		cacheTTL:   defaultJudgeTTL,
		workers:    1,
	}
	for _, opt := range opts {
		opt(j)
	}
	if j.maxClauses <= 0 {
		j.maxClauses = len(KeySections)
	}
	j.logger = logging.OrNop(j.logger)
	return j, nil
}

// ProviderName reports which provider backs the judge
func (j *Judge) ProviderName() string {
	return j.provider.Name()
}

// JudgeClause returns the judgment of one clause
func (j *Judge) JudgeClause(ctx context.Context, ct model.ContractType, section model.SectionType, text string) (model.ClauseAnalysis, error) {
	text = truncateRunes(text, maxClauseRunes)
	key := cache.Key("judge", j.provider.Name(), j.model, string(ct), string(section), text)

	var judgment Judgment
	if !cache.GetJSON(j.cache, key, &judgment) {
		if j.limiter != nil {
			if err := j.limiter.Wait(ctx, j.provider.Name()); err != nil {
				return model.ClauseAnalysis{}, fmt.Errorf("rate limit: %w", err)
			}
		}

		resp, err := j.provider.Complete(ctx, CompletionRequest{
			System:    SystemPrompt,
			Prompt:    BuildClausePrompt(ct, section, text),
			Model:     j.model,
			MaxTokens: judgeMaxTokens,
			JSON:      true,
		})
		if err != nil {
			return model.ClauseAnalysis{}, fmt.Errorf("judge %s clause: %w", section, err)
		}

		judgment = ParseJudgment(resp.Text)
		if err := cache.SetJSON(j.cache, key, judgment, j.cacheTTL); err != nil {
			j.logger.Debug("judgment cache write failed", zap.Error(err))
		}
	}

	analysis := model.ClauseAnalysis{
		Section:         section,
		ClauseText:      text,
		Compliance:      judgment.Compliance,
		Risks:           judgment.Risks,
		Recommendations: judgment.Recommendations,
		Rewrite:         judgment.Rewrite,
	}
	analysis.Severity = score.ClauseSeverity(analysis)
	return analysis, nil
}

// SelectClauses picks the key sections to judge, in document order
func (j *Judge) SelectClauses(sections []model.Section) []model.Section {
	key := make(map[model.SectionType]bool, len(KeySections))
	for _, st := range KeySections {
		key[st] = true
	}

	var out []model.Section
	for _, sec := range sections {
		if len(out) == j.maxClauses {
			break
		}
		if key[sec.Type] && sec.Content != "" {
			out = append(out, sec)
		}
	}
	return out
}

type clauseJob struct {
	judge   *Judge
	ct      model.ContractType
	section model.Section
}

type clauseResult struct {
	analysis model.ClauseAnalysis
	err      error
}

func (r *clauseResult) GetError() error { return r.err }

func (c *clauseJob) Execute(ctx context.Context) worker.Result {
	a, err := c.judge.JudgeClause(ctx, c.ct, c.section.Type, c.section.Content)
	return &clauseResult{analysis: a, err: err}
}

// JudgeSections judges the key sections of a contract. Failed clauses are
// logged and skipped; the error is non-nil only when every clause failed.
func (j *Judge) JudgeSections(ctx context.Context, ct model.ContractType, sections []model.Section) ([]model.ClauseAnalysis, error) {
	selected := j.SelectClauses(sections)
	if len(selected) == 0 {
		return nil, nil
	}

	pool := worker.NewPool(ctx, j.workers)
	pool.Start()
	for _, sec := range selected {
		pool.Submit(&clauseJob{judge: j, ct: ct, section: sec})
	}
	results := pool.Wait()

	var analyses []model.ClauseAnalysis
	var errs []error
	for i, sec := range selected {
		if i >= len(results) || results[i] == nil {
			errs = append(errs, fmt.Errorf("judge %s clause: %w", sec.Type, context.Canceled))
			continue
		}
		res := results[i].(*clauseResult)
		if res.err != nil {
			j.logger.Warn("clause judgment failed", zap.String("section", string(sec.Type)), zap.Error(res.err))
			errs = append(errs, res.err)
			continue
		}
		analyses = append(analyses, res.analysis)
	}

	if len(analyses) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return analyses, nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

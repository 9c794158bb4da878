package extract

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
)

// Result is a parsed contract. Section and clause offsets refer to Text.
type Result struct {
	Text     string                 // normalized text
	Sections []model.Section        // ordered by StartPos
	Metadata model.ContractMetadata // best-effort fields, empty when not found
}

// Parser segments contract text into sections and extracts metadata
type Parser struct {
	logger *zap.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used for extraction diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// NewParser creates a parser
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNop(p.logger)
	return p
}

// Parse normalizes text, then splits it into sections and extracts metadata.
// Parse never fails; fields that cannot be found are left empty.
func (p *Parser) Parse(text string) Result {
	normalized := Normalize(text)

	var sections []model.Section
	p.guard("sections", func() { sections = ParseSections(normalized) })

	res := Result{
		Text:     normalized,
		Sections: sections,
		Metadata: p.ExtractMetadata(normalized),
	}
	p.logger.Debug("parsed contract",
		zap.Int("sections", len(res.Sections)),
		zap.String("language", string(res.Metadata.Language)),
		zap.String("contract_number", res.Metadata.ContractNumber))
	return res
}

// guard runs one extraction step and contains any panic to that step
func (p *Parser) guard(step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Debug("extraction step failed",
				zap.String("step", step),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()
	fn()
}

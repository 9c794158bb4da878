package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	contractTyp string
	rulesFile   string
	timeout     time.Duration
	noCache     bool
	noSpelling  bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single contract and generate a risk report",
	Long: `Analyze reads one contract (.txt or .html) and:
- Splits it into sections and recovers parties, INNs, dates and amounts
- Detects the contract type unless --type is given
- Checks the text against the legal rule catalog
- Finds spelling and script-mixing errors
- Optionally asks an LLM to judge the key clauses
- Scores compliance, completeness, clarity and balance

Example:
  shartnoma analyze contract.txt
  shartnoma analyze contract.html --type supply --json report.json --md report.md
  shartnoma analyze contract.txt --llm --llm-provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().StringVar(&contractTyp, "type", "", "contract type (service, supply, work, labor, lease, procurement, loan, other); detected when empty")
	analyzeCmd.Flags().StringVar(&rulesFile, "rules", "", "extra YAML rule catalog")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().BoolVar(&noSpelling, "no-spelling", false, "skip the spelling check")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable judgment and spelling caches")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM clause judgments")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ct, err := parseTypeFlag(contractTyp)
	if err != nil {
		return err
	}
	if ct != "" {
		cfg.Analysis.ContractType = ct
	}
	if rulesFile != "" {
		cfg.Analysis.RulesFile = rulesFile
	}
	if noSpelling {
		cfg.Analysis.SpellingEnabled = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if llmEnabled {
		if err := applyLLMFlags(cfg, llmProvider, llmModel); err != nil {
			return err
		}
	}

	if verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		_, _ = fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		_, _ = fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		_, _ = fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger), pipeline.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	report, err := p.AnalyzeFile(ctx, path)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	logger.Debug("report ready", zap.String("id", report.ID))

	if verbose {
		_, _ = fmt.Fprintf(os.Stderr, "✓ Contract type: %s (detected: %v)\n", report.ContractType, report.TypeDetected)
		_, _ = fmt.Fprintf(os.Stderr, "✓ Parsed %d sections\n", len(report.Sections))
		_, _ = fmt.Fprintf(os.Stderr, "✓ Found %d issues, %d spelling errors\n", len(report.Issues), len(report.SpellingErrors))
		if report.Score.EnhancedByLLM {
			_, _ = fmt.Fprintf(os.Stderr, "✓ Judged %d clauses using %s\n", len(report.ClauseAnalyses), cfg.LLM.Provider)
		}
		_, _ = fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

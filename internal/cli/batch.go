package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/shartnoma/internal/model"
	"github.com/ppiankov/shartnoma/internal/pipeline"
	"github.com/ppiankov/shartnoma/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	docTimeout   time.Duration
	writeMD      bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|listfile>",
	Short: "Analyze many contracts in parallel",
	Long: `Batch analyzes multiple contracts concurrently:
- Take every .txt/.html file under a directory, or the paths listed in a file (one per line)
- Analyze documents in parallel with a configurable worker count
- Write one JSON report (and optionally Markdown) per document

Example:
  shartnoma batch ./contracts
  shartnoma batch list.txt --concurrency 8 --output-dir ./reports --md
  shartnoma batch ./contracts --timeout 30m --doc-timeout 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./shartnoma-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&docTimeout, "doc-timeout", 2*time.Minute, "timeout for each document")
	batchCmd.Flags().BoolVar(&writeMD, "md", false, "also write Markdown reports")
	batchCmd.Flags().StringVar(&contractTyp, "type", "", "contract type for every document; detected when empty")
	batchCmd.Flags().BoolVar(&noSpelling, "no-spelling", false, "skip the spelling check")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable judgment and spelling caches")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM clause judgments")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	input := args[0]

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
	if noSpelling {
		cfg.Analysis.SpellingEnabled = false
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}

	_, _ = fmt.Fprintf(os.Stderr, "\n")
	_, _ = fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(os.Stderr, "  Shartnoma Batch Analysis\n")
	_, _ = fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(os.Stderr, "\n")
	_, _ = fmt.Fprintf(os.Stderr, "  Input:        %s\n", input)
	_, _ = fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	_, _ = fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	_, _ = fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)

	if llmEnabled {
		if err := applyLLMFlags(cfg, llmProvider, llmModel); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	_, _ = fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers,
		worker.WithTimeout(docTimeout),
		worker.WithLogger(logger))

	_, _ = fmt.Fprintf(os.Stderr, "⚙️  Analyzing documents...\n\n")
	results, err := processor.ProcessInput(ctx, input)
	if err != nil {
		return fmt.Errorf("process input: %w", err)
	}

	successCount, failureCount := 0, 0
	renderer := p.Renderer()
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			_, _ = fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Path, result.Error)
			continue
		}

		base := reportBaseName(result.Path, result.Report)
		jsonPath := filepath.Join(outputDir, base+".json")
		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			_, _ = fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Path, err)
			continue
		}
		if writeMD {
			if err := renderer.RenderMarkdown(result.Report, filepath.Join(outputDir, base+".md")); err != nil {
				failureCount++
				_, _ = fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Path, err)
				continue
			}
		}

		successCount++
		_, _ = fmt.Fprintf(os.Stderr, "✓ %s (%s, score: %d/100, issues: %d)\n",
			result.Path, result.Report.ContractType, result.Report.Score.Overall, len(result.Report.Issues))
	}

	_, _ = fmt.Fprintf(os.Stderr, "\n")
	_, _ = fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	_, _ = fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	_, _ = fmt.Fprintf(os.Stderr, "\n")
	_, _ = fmt.Fprintf(os.Stderr, "  Total:     %d documents\n", len(results))
	_, _ = fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	_, _ = fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	_, _ = fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	_, _ = fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d documents failed", failureCount)
	}
	return nil
}

// reportBaseName names a report after its document plus the first block of
// the report ID, so documents with the same name in different folders do not
// overwrite each other
func reportBaseName(path string, report *model.Report) string {
	name := sanitizeFilename(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	id, _, _ := strings.Cut(report.ID, "-")
	if id == "" {
		return name
	}
	return name + "-" + id
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a string for use as a filename
func sanitizeFilename(s string) string {
	s = filenameReplacer.Replace(strings.TrimSpace(s))
	if s == "" || s == "." || s == ".." {
		return "report"
	}

	// Limit length without splitting a rune
	runes := []rune(s)
	if len(runes) > 100 {
		s = string(runes[:100])
	}
	return s
}

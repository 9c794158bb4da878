package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
)

// DocumentExtensions are the file types picked up from a batch directory
var DocumentExtensions = []string{".txt", ".html", ".htm"}

// Analyzer defines the interface for analyzing one document file
type Analyzer interface {
	AnalyzeFile(ctx context.Context, path string) (*model.Report, error)
}

// AnalyzeJob analyzes one document
type AnalyzeJob struct {
	Path     string
	Analyzer Analyzer
	Timeout  time.Duration
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := j.Analyzer.AnalyzeFile(ctx, j.Path)
	return &FileResult{
		Path:     j.Path,
		Report:   report,
		Error:    err,
		Duration: time.Since(start),
	}
}

// FileResult represents the result of an analysis job
type FileResult struct {
	Path     string
	Report   *model.Report
	Error    error
	Duration time.Duration
}

// GetError returns the error from the analysis result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple documents concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	timeout     time.Duration
	logger      *zap.Logger
}

// BatchOption configures a BatchProcessor
type BatchOption func(*BatchProcessor)

// WithTimeout bounds the analysis of each document
func WithTimeout(d time.Duration) BatchOption {
	return func(b *BatchProcessor) { b.timeout = d }
}

// WithLogger sets the batch logger
func WithLogger(l *zap.Logger) BatchOption {
	return func(b *BatchProcessor) { b.logger = l }
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int, opts ...BatchOption) *BatchProcessor {
	b := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.OrNop(b.logger)
	return b
}

// ProcessFiles analyzes every path and returns one result per path, in
// input order
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&AnalyzeJob{
			Path:     path,
			Analyzer: b.analyzer,
			Timeout:  b.timeout,
		})
	}

	results := pool.Wait()

	out := make([]*FileResult, len(paths))
	for i, path := range paths {
		var res *FileResult
		if i < len(results) && results[i] != nil {
			res = results[i].(*FileResult)
		} else {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			res = &FileResult{Path: path, Error: fmt.Errorf("not analyzed: %w", err)}
		}
		out[i] = res

		if res.Error != nil {
			b.logger.Warn("document analysis failed", zap.String("path", path), zap.Error(res.Error))
			continue
		}
		b.logger.Info("document analyzed",
			zap.String("path", path),
			zap.Duration("duration", res.Duration),
			zap.Int("issues", len(res.Report.Issues)),
			zap.Int("score", res.Report.Score.Overall),
		)
	}
	return out
}

// ProcessInput resolves a directory or list file and analyzes its documents
func (b *BatchProcessor) ProcessInput(ctx context.Context, input string) ([]*FileResult, error) {
	paths, err := ResolveInput(input)
	if err != nil {
		return nil, err
	}
	return b.ProcessFiles(ctx, paths), nil
}

// ResolveInput lists documents under a directory, or reads a list file
func ResolveInput(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return CollectDocuments(input)
	}
	paths, err := ReadPathsFromFile(input)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return paths, nil
}

// CollectDocuments walks dir and returns supported documents, sorted
func CollectDocuments(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isDocument(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func isDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range DocumentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadPathsFromFile reads document paths from a file (one per line).
// Relative paths are resolved against the list file's directory.
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	base := filepath.Dir(filePath)

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(base, line)
		}
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

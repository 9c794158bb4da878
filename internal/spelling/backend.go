package spelling

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/shartnoma/internal/cache"
	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
	"github.com/ppiankov/shartnoma/internal/util"
	"github.com/ppiankov/shartnoma/internal/worker"
)

// Verdict is a backend's opinion about one word
type Verdict struct {
	Correct    bool   `json:"correct"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Backend checks single words against an external dictionary
type Backend interface {
	Check(ctx context.Context, word string, lang model.Language) (Verdict, error)
}

// Chain asks backends in order and returns the first verdict that flags the
// word. A failing backend has no opinion.
type Chain struct {
	backends []Backend
	logger   *zap.Logger
}

// NewChain builds a chain; nil backends are skipped
func NewChain(logger *zap.Logger, backends ...Backend) *Chain {
	c := &Chain{logger: logging.OrNop(logger)}
	for _, b := range backends {
		if b != nil {
			c.backends = append(c.backends, b)
		}
	}
	return c
}

func (c *Chain) Check(ctx context.Context, word string, lang model.Language) (Verdict, error) {
	for _, b := range c.backends {
		v, err := b.Check(ctx, word, lang)
		if err != nil {
			c.logger.Debug("spelling backend failed", zap.String("word", word), zap.Error(err))
			continue
		}
		if !v.Correct {
			return v, nil
		}
	}
	return Verdict{Correct: true}, nil
}

// Len reports how many backends the chain holds
func (c *Chain) Len() int {
	return len(c.backends)
}

const httpMaxRetries = 3

// HTTPBackend speaks the uzspell JSON API: POST {word, script} and read
// {correct, suggestions}. Only Uzbek is supported; other languages get no
// opinion without a request.
type HTTPBackend struct {
	endpoint string
	client   *http.Client
	limiter  *worker.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	backoff  time.Duration
	sleep    func(time.Duration)
	logger   *zap.Logger
}

// HTTPOption configures an HTTPBackend
type HTTPOption func(*HTTPBackend)

// WithCache stores verdicts in c
func WithCache(c cache.Cache, ttl time.Duration) HTTPOption {
	return func(b *HTTPBackend) {
		b.cache = c
		b.cacheTTL = ttl
	}
}

// WithLimiter shares a limiter between backends
func WithLimiter(l *worker.Limiter) HTTPOption {
	return func(b *HTTPBackend) { b.limiter = l }
}

// WithHTTPClient replaces the default client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(b *HTTPBackend) { b.client = c }
}

// WithBackendLogger sets the backend logger
func WithBackendLogger(l *zap.Logger) HTTPOption {
	return func(b *HTTPBackend) { b.logger = l }
}

// withSleep replaces the sleep between retries
func withSleep(fn func(time.Duration)) HTTPOption {
	return func(b *HTTPBackend) { b.sleep = fn }
}

// NewHTTPBackend returns nil when no backend URL is configured
func NewHTTPBackend(cfg model.SpellingConfig, opts ...HTTPOption) *HTTPBackend {
	if cfg.BackendURL == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	b := &HTTPBackend{
		endpoint: strings.TrimRight(cfg.BackendURL, "/") + "/api/spell",
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: util.NewProxyFunc("", "", "")},
		},
		backoff: 250 * time.Millisecond,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.limiter == nil {
		b.limiter = worker.NewLimiter(cfg.RequestsPerSecond, 5)
	}
	b.logger = logging.OrNop(b.logger)
	return b
}

type spellRequest struct {
	Word   string `json:"word"`
	Script string `json:"script"`
}

type spellResponse struct {
	Word        string   `json:"word"`
	Script      string   `json:"script"`
	Correct     bool     `json:"correct"`
	Suggestions []string `json:"suggestions"`
}

// retryableError marks failures worth another attempt
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Check is safe on a nil backend, which has no opinion
func (b *HTTPBackend) Check(ctx context.Context, word string, lang model.Language) (Verdict, error) {
	script := scriptFor(lang)
	if b == nil || script == "" {
		return Verdict{Correct: true}, nil
	}

	key := cache.Key("spell", script, strings.ToLower(word))
	var cached Verdict
	if cache.GetJSON(b.cache, key, &cached) {
		return cached, nil
	}

	v, err := b.checkWithRetry(ctx, word, script)
	if err != nil {
		return Verdict{}, err
	}
	if err := cache.SetJSON(b.cache, key, v, b.cacheTTL); err != nil {
		b.logger.Debug("spelling cache write failed", zap.Error(err))
	}
	return v, nil
}

func (b *HTTPBackend) checkWithRetry(ctx context.Context, word, script string) (Verdict, error) {
	var lastErr error
	for attempt := 0; attempt < httpMaxRetries; attempt++ {
		v, err := b.checkOnce(ctx, word, script)
		if err == nil {
			return v, nil
		}
		lastErr = err
		var retry *retryableError
		if !errors.As(err, &retry) || ctx.Err() != nil {
			return Verdict{}, err
		}
		if attempt < httpMaxRetries-1 {
			b.sleep(time.Duration(1<<uint(attempt)) * b.backoff)
		}
	}
	return Verdict{}, lastErr
}

func (b *HTTPBackend) checkOnce(ctx context.Context, word, script string) (Verdict, error) {
	if err := b.limiter.WaitURL(ctx, b.endpoint); err != nil {
		return Verdict{}, fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(spellRequest{Word: word, Script: script})
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		if isRetryableNetworkError(err) {
			return Verdict{}, &retryableError{fmt.Errorf("request failed: %w", err)}
		}
		return Verdict{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("spelling backend returned %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return Verdict{}, &retryableError{err}
		}
		return Verdict{}, err
	}

	var out spellResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Verdict{}, fmt.Errorf("decode response: %w", err)
	}

	v := Verdict{Correct: out.Correct}
	if !out.Correct && len(out.Suggestions) > 0 {
		v.Suggestion = out.Suggestions[0]
	}
	return v, nil
}

func scriptFor(lang model.Language) string {
	switch lang {
	case model.LangUzLatin:
		return "latin"
	case model.LangUzCyrillic:
		return "cyrillic"
	default:
		return ""
	}
}

func isRetryableNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

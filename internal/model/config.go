package model

import "time"

// Config holds the complete runtime configuration
type Config struct {
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	OCR          OCRConfig          `yaml:"ocr" mapstructure:"ocr"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Spelling     SpellingConfig     `yaml:"spelling" mapstructure:"spelling"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// SpellingMode selects how the spelling checker finds errors
type SpellingMode string

const (
	SpellingHybrid       SpellingMode = "hybrid"        // Dictionaries first, then external backends
	SpellingExternalOnly SpellingMode = "external_only" // External backends only
)

// AnalysisConfig controls the analysis pipeline
type AnalysisConfig struct {
	ContractType    string       `yaml:"contract_type" mapstructure:"contract_type"` // Empty means detect
	SpellingEnabled bool         `yaml:"spelling_enabled" mapstructure:"spelling_enabled"`
	SpellingMode    SpellingMode `yaml:"spelling_mode" mapstructure:"spelling_mode"`
	RulesFile       string       `yaml:"rules_file,omitempty" mapstructure:"rules_file"` // Extra YAML rules

	// TypeKeywords adds detection keywords per contract type tag
	TypeKeywords map[string][]string `yaml:"type_keywords,omitempty" mapstructure:"type_keywords"`
}

// OCRConfig holds the thresholds applied to text coming from the OCR collaborator
type OCRConfig struct {
	MaxPages     int     `yaml:"max_pages" mapstructure:"max_pages"`
	DPI          int     `yaml:"dpi" mapstructure:"dpi"`
	QualityMin   float64 `yaml:"quality_min" mapstructure:"quality_min"`
	GibberishMax float64 `yaml:"gibberish_max" mapstructure:"gibberish_max"`
}

// LLMConfig configures the optional clause judge
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxClauses int    `yaml:"max_clauses" mapstructure:"max_clauses"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// SpellingConfig configures the external spelling backend
type SpellingConfig struct {
	BackendURL        string        `yaml:"backend_url,omitempty" mapstructure:"backend_url"` // uzspell-compatible endpoint
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// CacheConfig configures judgment and spelling caches
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits calls to the clause judge
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string   `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format      string   `yaml:"format" mapstructure:"format"` // json or console
	OutputPaths []string `yaml:"output_paths" mapstructure:"output_paths"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			SpellingEnabled: true,
			SpellingMode:    SpellingHybrid,
		},
		OCR: OCRConfig{
			MaxPages:     50,
			DPI:          300,
			QualityMin:   0.5,
			GibberishMax: 0.3,
		},
		LLM: LLMConfig{
			Timeout:    30,
			MaxTokens:  800,
			MaxClauses: 6,
		},
		Spelling: SpellingConfig{
			Timeout:           5 * time.Second,
			RequestsPerSecond: 20,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".shartnoma-cache",
			MemoryTTL: time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:       "warn",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		},
	}
}

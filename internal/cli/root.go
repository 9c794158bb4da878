package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/shartnoma/internal/logging"
	"github.com/ppiankov/shartnoma/internal/model"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=..."
var Version = "v0.3.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shartnoma",
	Short: "Shartnoma - compliance and risk analysis of Uzbek contracts",
	Long: `Shartnoma analyzes contracts written in Uzbek (Latin or Cyrillic) or
Russian against the legislation of the Republic of Uzbekistan.

It splits a contract into sections, recovers parties, INNs, dates and
amounts, checks the text against a catalog of Civil and Labor Code rules,
finds spelling errors and produces a 0-100 risk score with
recommendations.

Shartnoma is an aid for lawyers, not a substitute for legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "shartnoma %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.shartnoma/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	v := viper.GetViper()
	if err := setDefaults(v); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		v.AddConfigPath(filepath.Join(home, ".shartnoma"))
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}
	bindEnv(v)

	if err := v.ReadInConfig(); err == nil && verbose {
		_, _ = fmt.Fprintf(os.Stderr, "Using config file: %s\n", v.ConfigFileUsed())
	}
}

// bindEnv maps SHARTNOMA_LLM_API_KEY to llm.api_key and so on
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SHARTNOMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every default so that environment variables can
// override keys that no config file mentions
func setDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	for key, value := range tree {
		v.SetDefault(key, value)
	}
	// omitempty keys are missing from the marshalled tree
	for _, key := range envOnlyKeys {
		v.SetDefault(key, "")
	}
	return nil
}

var envOnlyKeys = []string{
	"analysis.rules_file",
	"llm.api_key", "llm.base_url", "llm.http_proxy", "llm.https_proxy", "llm.no_proxy",
	"spelling.backend_url",
}

// loadConfig unmarshals the merged configuration over the defaults
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and builds the logger shared by a command
func setup() (*model.Config, *zap.Logger, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Output.Verbose = true
		if logging.ParseLevel(cfg.Log.Level) > zap.InfoLevel {
			cfg.Log.Level = "info"
		}
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// applyLLMFlags enables the clause judge and resolves its API key
func applyLLMFlags(cfg *model.Config, provider, modelName string) error {
	cfg.LLM.Provider = provider
	if modelName != "" {
		cfg.LLM.Model = modelName
	}
	if cfg.LLM.APIKey != "" {
		return nil
	}

	switch provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}

// parseTypeFlag validates a --type value; empty means detect
func parseTypeFlag(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if ct := model.ParseContractType(s); string(ct) != s {
		names := make([]string, 0, len(model.ContractTypes))
		for _, t := range model.ContractTypes {
			names = append(names, string(t))
		}
		return "", fmt.Errorf("unknown contract type %q (want one of: %s)", s, strings.Join(names, ", "))
	}
	return s, nil
}

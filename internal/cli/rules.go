package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/shartnoma/internal/compliance"
	"github.com/ppiankov/shartnoma/internal/model"
)

var rulesType string

// rulesCmd lists the rule catalog
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List legal rules and required sections",
	Long: `Rules prints the built-in rule catalog, template rules and any custom
rules from analysis.rules_file, together with the sections each contract
type must contain.

Example:
  shartnoma rules
  shartnoma rules --type labor`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringVar(&rulesType, "type", "", "only show rules for this contract type")
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	ct, err := parseTypeFlag(rulesType)
	if err != nil {
		return err
	}

	opts := []compliance.Option{compliance.WithTemplates(model.ContractTypes...)}
	if cfg.Analysis.RulesFile != "" {
		custom, err := compliance.LoadRulesFile(cfg.Analysis.RulesFile)
		if err != nil {
			return fmt.Errorf("load custom rules: %w", err)
		}
		opts = append(opts, compliance.WithRules(custom...))
	}
	engine := compliance.NewEngine(opts...)

	types := model.ContractTypes
	rules := engine.Rules()
	if ct != "" {
		types = []model.ContractType{model.ContractType(ct)}
		rules = engine.RulesFor(model.ContractType(ct))
	}

	printRules(cmd.OutOrStdout(), types, rules)
	return nil
}

func printRules(w io.Writer, types []model.ContractType, rules []model.LegalRule) {
	_, _ = fmt.Fprintf(w, "Required sections\n")
	_, _ = fmt.Fprintf(w, "─────────────────\n")
	for _, ct := range types {
		names := make([]string, 0, 8)
		for _, st := range compliance.RequiredSections(ct) {
			names = append(names, st.NameUz())
		}
		_, _ = fmt.Fprintf(w, "%-12s %s\n", ct, strings.Join(names, ", "))
	}

	_, _ = fmt.Fprintf(w, "\nRules (%d)\n", len(rules))
	_, _ = fmt.Fprintf(w, "─────────\n")
	for _, r := range rules {
		_, _ = fmt.Fprintf(w, "%-10s %-9s %-12s %s\n", r.ID, r.Severity, r.CheckType, r.Title)
		if r.LawName != "" {
			_, _ = fmt.Fprintf(w, "%33s%s %s\n", "", r.LawName, r.LawArticle)
		}
		_, _ = fmt.Fprintf(w, "%33sapplies to: %s\n", "", strings.Join(r.AppliesTo, ", "))
	}
}

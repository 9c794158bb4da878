package compliance

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/shartnoma/internal/model"
)

// ruleFile is the on-disk layout of a custom rule catalog
type ruleFile struct {
	Rules []model.LegalRule `yaml:"rules"`
}

var validCheckTypes = map[model.CheckType]bool{
	model.CheckMandatory:   true,
	model.CheckProhibited:  true,
	model.CheckFormat:      true,
	model.CheckLimit:       true,
	model.CheckRecommended: true,
}

// LoadRules decodes a YAML rule catalog
func LoadRules(r io.Reader) ([]model.LegalRule, error) {
	var f ruleFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	seen := make(map[string]bool)
	for i := range f.Rules {
		rule := &f.Rules[i]
		if err := validateRule(*rule); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("rule %d: duplicate rule_id %q", i+1, rule.ID)
		}
		seen[rule.ID] = true
		if len(rule.AppliesTo) == 0 {
			rule.AppliesTo = []string{model.AppliesToAll}
		}
	}
	return f.Rules, nil
}

// LoadRulesFile reads a YAML rule catalog from disk
func LoadRulesFile(path string) ([]model.LegalRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rules, err := LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

func validateRule(r model.LegalRule) error {
	if r.ID == "" {
		return errors.New("rule_id is required")
	}
	if r.Title == "" {
		return fmt.Errorf("%s: title is required", r.ID)
	}
	if !validCheckTypes[r.CheckType] {
		return fmt.Errorf("%s: unknown check_type %q", r.ID, r.CheckType)
	}
	if r.Severity.Rank() == len(model.Severities) {
		return fmt.Errorf("%s: unknown severity %q", r.ID, r.Severity)
	}
	if r.SectionType != "" && r.SectionType.NameUz() == string(r.SectionType) {
		return fmt.Errorf("%s: unknown section_type %q", r.ID, r.SectionType)
	}
	if (r.CheckType == model.CheckMandatory || r.CheckType == model.CheckProhibited) && len(r.Keywords) == 0 {
		return fmt.Errorf("%s: %s rules need keywords", r.ID, r.CheckType)
	}
	for _, t := range r.AppliesTo {
		if t != model.AppliesToAll && model.ParseContractType(t) == model.ContractOther && t != string(model.ContractOther) {
			return fmt.Errorf("%s: unknown contract type %q", r.ID, t)
		}
	}
	return nil
}

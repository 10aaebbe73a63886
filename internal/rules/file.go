package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileRuleSet is the YAML shape of a rule-set overlay. Zero-valued fields
// keep their defaults, so a file only has to spell out what it changes.
type fileRuleSet struct {
	MinLength       int      `yaml:"min_length"`
	MaxLength       int      `yaml:"max_length"`
	ForbiddenWords  []string `yaml:"forbidden_words"`
	AllowedSuffixes []string `yaml:"allowed_suffixes"`
	ErrorWeight     int      `yaml:"error_weight"`
	WarningWeight   int      `yaml:"warning_weight"`
}

// LoadFile reads a rule-set overlay and applies it on top of the defaults.
// A file that cannot be parsed is a fatal configuration error; the one
// condition that aborts startup rather than being handled per request.
func LoadFile(path string) (RuleSet, error) {
	rs := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return rs, fmt.Errorf("reading rule set: %w", err)
	}

	var f fileRuleSet
	if err := yaml.Unmarshal(data, &f); err != nil {
		return rs, fmt.Errorf("parsing rule set %s: %w", path, err)
	}

	if f.MinLength > 0 {
		rs.MinLength = f.MinLength
	}
	if f.MaxLength > 0 {
		rs.MaxLength = f.MaxLength
	}
	if len(f.ForbiddenWords) > 0 {
		rs.ForbiddenWords = f.ForbiddenWords
	}
	if len(f.AllowedSuffixes) > 0 {
		rs.AllowedSuffixes = f.AllowedSuffixes
	}
	if f.ErrorWeight > 0 {
		rs.ErrorWeight = f.ErrorWeight
	}
	if f.WarningWeight > 0 {
		rs.WarningWeight = f.WarningWeight
	}

	if rs.MinLength > rs.MaxLength {
		return rs, fmt.Errorf("invalid rule set %s: min_length %d exceeds max_length %d",
			path, rs.MinLength, rs.MaxLength)
	}

	return rs, nil
}

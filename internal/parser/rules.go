package parser

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML shape of a noise-rule override file:
//
//	noise_patterns:
//	  - pattern: '\s*\b[A-Z0-9]{12,}$'
//	    require_digit: true
//	  - pattern: '\s+MY STORE [A-Z]{2}$'
type rulesFile struct {
	NoisePatterns []struct {
		Pattern      string `yaml:"pattern"`
		RequireDigit bool   `yaml:"require_digit"`
	} `yaml:"noise_patterns"`
}

// LoadRules reads a noise-rule override file. The loaded set replaces
// the defaults entirely.
func LoadRules(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rs, nil
}

// ParseRules builds a Ruleset from YAML bytes. Every pattern must
// compile and the file must list at least one.
func ParseRules(data []byte) (*Ruleset, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(rf.NoisePatterns) == 0 {
		return nil, fmt.Errorf("no noise_patterns listed")
	}

	rs := &Ruleset{}
	for _, np := range rf.NoisePatterns {
		re, err := regexp.Compile(np.Pattern)
		if err != nil {
			return nil, fmt.Errorf("noise pattern %q: %w", np.Pattern, err)
		}
		rs.rules = append(rs.rules, noiseRule{pattern: re, requireDigit: np.RequireDigit})
	}
	return rs, nil
}

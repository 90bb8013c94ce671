package parser

import (
	"regexp"
	"strings"
)

// maxCleanPasses bounds the fixpoint loop; the built-in rule set
// converges in two or three passes, the cap only matters for
// pathological custom rules.
const maxCleanPasses = 32

// noiseRule is one compiled cleaning rule. requireDigit guards
// order-identifier rules against eating digit-less merchant words (RE2
// cannot express that guard as a lookahead).
type noiseRule struct {
	pattern      *regexp.Regexp
	requireDigit bool
}

// Ruleset holds the description cleaner's noise rules. Build one with
// DefaultRules, ParseRules, or LoadRules.
type Ruleset struct {
	rules []noiseRule
}

// DefaultRules returns the built-in noise rules: a trailing
// order-identifier token (12+ uppercase alphanumerics carrying a digit)
// and the trailing store/location suffixes this statement family
// prints.
func DefaultRules() *Ruleset {
	return &Ruleset{rules: []noiseRule{
		{pattern: regexp.MustCompile(`\s*\b[A-Z0-9]{12,}$`), requireDigit: true},
		{pattern: regexp.MustCompile(`\s+(?:AMZN\.COM/BILL|AMAZON\.COM|SEATTLE)\s+WA$`)},
	}}
}

// Clean strips noise substrings from a raw description and collapses
// redundant whitespace. Rules apply to a fixpoint, which is what makes
// cleaning idempotent. A rule application that would empty the
// description is skipped: under-cleaning beats corrupting a merchant
// name.
func (rs *Ruleset) Clean(desc string) string {
	out := collapseSpaces(desc)
	for i := 0; i < maxCleanPasses; i++ {
		next := rs.applyOnce(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func (rs *Ruleset) applyOnce(desc string) string {
	for _, rule := range rs.rules {
		loc := rule.pattern.FindStringIndex(desc)
		if loc == nil {
			continue
		}
		if rule.requireDigit && !containsDigit(desc[loc[0]:loc[1]]) {
			continue
		}
		stripped := collapseSpaces(desc[:loc[0]] + desc[loc[1]:])
		if stripped == "" || stripped == desc {
			continue
		}
		return stripped
	}
	return desc
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

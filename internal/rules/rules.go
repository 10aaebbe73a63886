package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/registrarlabs/namegate/internal/name"
)

// Severity classifies rule findings.
type Severity int

const (
	SeverityError   Severity = iota // Blocks availability
	SeverityWarning                 // Reported but does not block
)

// Code identifies a rule finding for machine consumption.
type Code string

const (
	CodeLengthOutOfRange Code = "LENGTH_OUT_OF_RANGE"
	CodeForbiddenWord    Code = "FORBIDDEN_WORD"
	CodeMissingSuffix    Code = "MISSING_OR_UNKNOWN_SUFFIX"
	CodeInvalidChars     Code = "INVALID_CHARACTERS"
	CodeStartsWithDigit  Code = "STARTS_WITH_DIGIT"
)

// Issue represents a single rule finding.
type Issue struct {
	Severity Severity
	Code     Code
	Message  string
}

func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, i.Code, i.Message)
}

// Result holds all findings for one name plus the compliance sub-score.
type Result struct {
	Issues []Issue
	Score  int // 0-100, independent of registry conflicts
}

// HasErrors returns true if any finding blocks availability.
func (r *Result) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only error-severity findings.
func (r *Result) Errors() []Issue {
	var errs []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs = append(errs, i)
		}
	}
	return errs
}

// Warnings returns only warning-severity findings.
func (r *Result) Warnings() []Issue {
	var warns []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			warns = append(warns, i)
		}
	}
	return warns
}

// RuleSet is the immutable rule configuration a validator runs with.
type RuleSet struct {
	MinLength      int
	MaxLength      int
	ForbiddenWords []string
	// AllowedSuffixes are compared case-insensitively against the end of the
	// raw name. A miss is a warning, not an error; the suffix can always be
	// appended later.
	AllowedSuffixes []string
	ErrorWeight     int
	WarningWeight   int
}

// Default returns the registrar rule set the original guidelines describe.
func Default() RuleSet {
	return RuleSet{
		MinLength: 3,
		MaxLength: 120,
		ForbiddenWords: []string{
			"bank", "insurance", "government", "ministry", "national",
			"central", "reserve", "federal", "authority", "commission",
			"registrar", "municipal", "panchayat",
		},
		AllowedSuffixes: []string{
			"private limited", "pvt ltd", "pvt. ltd.", "limited", "ltd", "ltd.", "llp",
		},
		ErrorWeight:   30,
		WarningWeight: 10,
	}
}

// Validate applies every rule to the candidate and derives the compliance
// sub-score. Pure function: same candidate and rule set, same result.
func (rs RuleSet) Validate(c name.Candidate) *Result {
	r := &Result{}

	raw := c.Raw
	if n := len([]rune(raw)); n < rs.MinLength || n > rs.MaxLength {
		r.Issues = append(r.Issues, Issue{SeverityError, CodeLengthOutOfRange,
			fmt.Sprintf("name is %d characters, must be between %d and %d", n, rs.MinLength, rs.MaxLength)})
	}

	for _, w := range rs.ForbiddenWords {
		if containsWord(c.Normalized, w) || containsWord(c.Suffix, w) {
			r.Issues = append(r.Issues, Issue{SeverityError, CodeForbiddenWord,
				fmt.Sprintf("forbidden word %q found in name", w)})
		}
	}

	if !rs.hasAllowedSuffix(raw) {
		r.Issues = append(r.Issues, Issue{SeverityWarning, CodeMissingSuffix,
			"name does not end with a recognized legal suffix (e.g. Pvt Ltd, Private Limited)"})
	}

	if bad := invalidChars(raw); bad != "" {
		r.Issues = append(r.Issues, Issue{SeverityError, CodeInvalidChars,
			fmt.Sprintf("characters not allowed in a company name: %s", bad)})
	}

	if first := firstRune(strings.TrimSpace(raw)); unicode.IsDigit(first) {
		r.Issues = append(r.Issues, Issue{SeverityError, CodeStartsWithDigit,
			"name cannot start with a digit"})
	}

	r.Score = rs.score(r)
	return r
}

// score starts at 100 and subtracts a fixed weight per finding, floored at 0.
func (rs RuleSet) score(r *Result) int {
	s := 100
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			s -= rs.ErrorWeight
		} else {
			s -= rs.WarningWeight
		}
	}
	if s < 0 {
		s = 0
	}
	return s
}

func (rs RuleSet) hasAllowedSuffix(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, suf := range rs.AllowedSuffixes {
		if strings.HasSuffix(lower, strings.ToLower(suf)) {
			return true
		}
	}
	return false
}

// containsWord reports whether w occurs as a whole word in the normalized text.
func containsWord(normalized, w string) bool {
	w = strings.ToLower(w)
	for _, tok := range strings.Fields(normalized) {
		if tok == w {
			return true
		}
	}
	return false
}

// invalidChars returns the distinct offending characters in raw, in order of
// first appearance. Letters, digits, spaces, dot, hyphen and ampersand are
// allowed.
func invalidChars(raw string) string {
	var bad []rune
	seen := make(map[rune]bool)
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			r == '.' || r == '-' || r == '&' {
			continue
		}
		if !seen[r] {
			seen[r] = true
			bad = append(bad, r)
		}
	}
	return string(bad)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// FormatResult renders findings for terminal display.
func FormatResult(r *Result) string {
	if len(r.Issues) == 0 {
		return fmt.Sprintf("All naming rules passed (compliance %d/100).", r.Score)
	}

	var b strings.Builder
	errors := r.Errors()
	warnings := r.Warnings()

	if len(errors) > 0 {
		b.WriteString(fmt.Sprintf("Errors (%d):\n", len(errors)))
		for _, e := range errors {
			b.WriteString(fmt.Sprintf("  %s\n", e))
		}
	}
	if len(warnings) > 0 {
		b.WriteString(fmt.Sprintf("Warnings (%d):\n", len(warnings)))
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("  %s\n", w))
		}
	}
	b.WriteString(fmt.Sprintf("Compliance score: %d/100\n", r.Score))
	return b.String()
}

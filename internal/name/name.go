package name

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidInput is returned when a raw name is empty or whitespace-only.
// It is the only error the normalizer produces; everything else downstream
// is a business-rule finding, not an error.
var ErrInvalidInput = errors.New("company name is empty")

// Source records where a candidate came from.
type Source string

const (
	SourceOriginal  Source = "original"
	SourceGenerated Source = "generated"
)

// Candidate is an immutable name flowing through the pipeline.
type Candidate struct {
	Raw        string // as entered, untouched
	Normalized string // canonical comparable form, suffix stripped
	Suffix     string // legal-entity suffix detected on the raw name, if any
	Source     Source
}

// legalSuffixes are stripped from the end of a name before comparison.
// Longest forms first so "private limited" wins over "limited".
var legalSuffixes = []string{
	"private limited",
	"pvt. ltd.",
	"pvt ltd",
	"limited",
	"ltd.",
	"ltd",
	"llp",
	"pvt",
	"private",
}

// New normalizes a raw name into a Candidate. The normalized form is
// lowercase, punctuation-free, single-spaced, with the legal-entity suffix
// stripped (kept separately in Suffix for rule checks).
func New(raw string, source Source) (Candidate, error) {
	if strings.TrimSpace(raw) == "" {
		return Candidate{}, ErrInvalidInput
	}

	normalized, suffix := Normalize(raw)
	if normalized == "" {
		// Name consisted of nothing but a suffix or punctuation.
		return Candidate{}, ErrInvalidInput
	}

	return Candidate{
		Raw:        raw,
		Normalized: normalized,
		Suffix:     suffix,
		Source:     source,
	}, nil
}

// Normalize reduces raw to its canonical comparable form and returns the
// stripped legal suffix (normalized spelling) alongside it.
// Idempotent: Normalize(Normalize(x)) yields the same comparable form.
func Normalize(raw string) (normalized, suffix string) {
	s := fold(raw)

	// Strip legal suffixes repeatedly; "pvt ltd" may follow "private".
	for {
		stripped := false
		for _, suf := range legalSuffixes {
			folded := fold(suf)
			if s == folded {
				break // suffix-only name, leave for the caller to reject
			}
			if strings.HasSuffix(s, " "+folded) {
				s = strings.TrimSpace(strings.TrimSuffix(s, folded))
				if suffix == "" {
					suffix = folded
				}
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}

	return s, suffix
}

// fold lowercases, replaces punctuation with spaces, and collapses
// whitespace. Punctuation separates tokens: "Tech-Solutions" folds to
// "tech solutions", not "techsolutions".
func fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true // swallow leading whitespace
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits a normalized name into its words.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

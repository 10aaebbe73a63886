// Package generate produces alternative company names when the requested one
// is unavailable or non-compliant. Generation is pure and deterministic: the
// same input name and lexicon always yield the same candidate pool, in the
// same order. Ranking happens downstream once each candidate has been through
// the full validation and conflict pipeline.
package generate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/registrarlabs/namegate/internal/name"
)

// Lexicon holds the curated modifier vocabularies candidates are built from.
type Lexicon struct {
	Sectors    []string `yaml:"sectors"`
	Services   []string `yaml:"services"`
	Structures []string `yaml:"structures"`
	Prefixes   []string `yaml:"prefixes"`
	// Suffix is appended to every generated name so alternatives come out
	// incorporation-ready.
	Suffix string `yaml:"suffix"`
}

// DefaultLexicon returns the built-in modifier vocabulary.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Sectors: []string{
			"technologies", "industries", "ventures", "labs", "works",
		},
		Services: []string{
			"solutions", "systems", "services", "consulting", "dynamics",
		},
		Structures: []string{
			"group", "global", "corp", "alliance", "holdings",
		},
		Prefixes: []string{
			"neo", "apex", "prime", "nova", "zen",
		},
		Suffix: "Pvt Ltd",
	}
}

// stopwords are dropped when extracting the significant tokens of a name.
// Legal suffixes never reach here; the normalizer already stripped them.
var stopwords = map[string]bool{
	"the": true, "and": true, "of": true, "for": true, "a": true, "an": true,
	"company": true, "co": true, "inc": true, "new": true,
}

// minLength/maxLength bound generated names on their raw form.
const (
	minLength = 3
	maxLength = 120
)

// Generator builds alternative name candidates.
type Generator struct {
	lexicon Lexicon
}

// New creates a Generator.
func New(lexicon Lexicon) *Generator {
	return &Generator{lexicon: lexicon}
}

// Generate returns up to want distinct alternative names for the original
// candidate. Callers ask for more than they need; availability filtering
// happens after generation and eats into the pool.
func (g *Generator) Generate(original name.Candidate, want int) []string {
	tokens := significantTokens(original.Normalized)
	if len(tokens) == 0 {
		// Nothing semantic to build on; fall back to the whole name.
		tokens = name.Tokens(original.Normalized)
	}
	if len(tokens) == 0 {
		return nil
	}

	base := strings.Join(tokens, " ")
	head := tokens[0]
	has := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		has[t] = true
	}

	var raw []string

	// Token set crossed with each modifier family, most specific first.
	// Modifiers the name already contains are skipped; "Tech Solutions
	// Solutions" helps nobody.
	for _, m := range g.lexicon.Services {
		if !has[m] {
			raw = append(raw, base+" "+m)
		}
	}
	for _, m := range g.lexicon.Sectors {
		if !has[m] {
			raw = append(raw, base+" "+m)
		}
	}
	for _, m := range g.lexicon.Structures {
		if has[m] {
			continue
		}
		raw = append(raw, base+" "+m)
		raw = append(raw, m+" "+base)
	}
	for _, p := range g.lexicon.Prefixes {
		raw = append(raw, p+" "+base)
		raw = append(raw, p+head)
	}
	// Two-family combinations widen the pool when single modifiers run out.
	for _, s := range g.lexicon.Structures {
		for _, m := range g.lexicon.Services {
			if has[s] || has[m] {
				continue
			}
			raw = append(raw, base+" "+m+" "+s)
		}
	}

	seen := map[string]bool{original.Normalized: true}
	var out []string
	for _, r := range raw {
		candidate := titleWords(r)
		if g.lexicon.Suffix != "" {
			candidate += " " + g.lexicon.Suffix
		}
		if n := len(candidate); n < minLength || n > maxLength {
			continue
		}
		normalized, _ := name.Normalize(candidate)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, candidate)
		if want > 0 && len(out) >= want {
			break
		}
	}
	return out
}

// significantTokens drops stopwords and generic fillers from a normalized
// name, keeping the order of what remains.
func significantTokens(normalized string) []string {
	var out []string
	for _, tok := range name.Tokens(normalized) {
		if stopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// titleWords capitalizes the first rune of each word. Rune-wise, not
// byte-wise: "über" becomes "Über", never mangled UTF-8.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

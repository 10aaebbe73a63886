// Package offline synthesizes plausible conflicting names without touching
// the network. It backs the degraded mode: when the live registry is
// unreachable the pipeline still produces a deterministic, scoreable result,
// and demo/test runs work with no credentials at all.
package offline

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/registrarlabs/namegate/internal/registry"
)

func init() {
	registry.Register(&Offline{})
}

// Offline is the deterministic fallback provider.
type Offline struct{}

func (o *Offline) Name() string { return "offline" }

// sectorPatterns seed the synthesis: a query containing one of these words
// collides with the crowded part of the register, so we fabricate the kind of
// neighbors a live search would have returned.
var sectorPatterns = []string{
	"tech", "solutions", "systems", "services", "innovations",
	"enterprises", "consulting", "digital", "software", "info",
}

// perPattern caps synthesized conflicts per matched sector word.
const perPattern = 3

var suffixVariants = []string{"Private Limited", "Pvt Ltd", "Limited"}

// Lookup deterministically derives conflicts from the query itself: for each
// sector word present, emit registered-looking variants of the query. Same
// input, same output, every time.
func (o *Offline) Lookup(ctx context.Context, normalized string, opts registry.LookupOptions) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return nil, nil
	}

	var names []string
	for _, pattern := range sectorPatterns {
		if !containsToken(tokens, pattern) {
			continue
		}
		base := titleCase(normalized)
		variants := []string{
			base + " " + suffixVariants[0],
			base + " " + titleCase(pattern) + " " + suffixVariants[1],
			strings.ReplaceAll(base, " ", "") + " " + suffixVariants[2],
		}
		for i, v := range variants {
			if i >= perPattern {
				break
			}
			names = append(names, v)
		}
	}

	names = dedupe(names)
	if opts.Limit > 0 && len(names) > opts.Limit {
		names = names[:opts.Limit]
	}
	return names, nil
}

func containsToken(tokens []string, w string) bool {
	for _, t := range tokens {
		if t == w {
			return true
		}
	}
	return false
}

// titleCase capitalizes the first rune of each word, keeping multi-byte
// letters intact.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

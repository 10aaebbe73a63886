package similarity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/registrarlabs/namegate/internal/name"
)

// Tier buckets how close a candidate is to an existing registered name.
type Tier string

const (
	TierExact    Tier = "exact"
	TierHigh     Tier = "high"
	TierModerate Tier = "moderate"
	TierLow      Tier = "low"
	TierNone     Tier = "none"
)

// Thresholds define the tier boundaries. Scores are compared inclusively at
// the lower bound, so exactly 0.95 classifies as exact.
type Thresholds struct {
	Exact    float64
	High     float64
	Moderate float64
	// MaxMatches caps how many conflicts are reported per candidate.
	MaxMatches int
}

// DefaultThresholds mirror the registrar guidance: ≥0.95 exact, ≥0.70 high,
// ≥0.40 moderate; anything below is noise and not reported.
func DefaultThresholds() Thresholds {
	return Thresholds{Exact: 0.95, High: 0.70, Moderate: 0.40, MaxMatches: 10}
}

// Match is one scored conflict against an existing registered name.
type Match struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Tier  Tier    `json:"tier"`
}

// Classify buckets a score into a tier.
func (t Thresholds) Classify(score float64) Tier {
	switch {
	case score >= t.Exact:
		return TierExact
	case score >= t.High:
		return TierHigh
	case score >= t.Moderate:
		return TierModerate
	case score > 0:
		return TierLow
	default:
		return TierNone
	}
}

// Score computes a similarity in [0,1] between a normalized candidate and an
// existing name. Token order must not matter ("solutions tech" vs
// "tech solutions" is a near-exact conflict), so the result is the best of a
// plain edit-distance ratio, a token-sort ratio, and a token-set ratio.
func Score(candidate, existing string) float64 {
	a := candidate
	b, _ := name.Normalize(existing)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	s := ratio(a, b)
	if ts := ratio(sortTokens(a), sortTokens(b)); ts > s {
		s = ts
	}
	if ts := tokenSetRatio(a, b); ts > s {
		s = ts
	}
	return s
}

// Rank scores every existing name against the candidate, keeps moderate and
// above, sorts descending by score with lexicographic tie-break, and caps the
// result. Deterministic for a fixed input list.
func Rank(candidate name.Candidate, existing []string, t Thresholds) []Match {
	var matches []Match
	seen := make(map[string]bool, len(existing))

	for _, e := range existing {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true

		score := Score(candidate.Normalized, e)
		tier := t.Classify(score)
		if tier != TierExact && tier != TierHigh && tier != TierModerate {
			continue
		}
		matches = append(matches, Match{Name: e, Score: score, Tier: tier})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})

	if t.MaxMatches > 0 && len(matches) > t.MaxMatches {
		matches = matches[:t.MaxMatches]
	}
	return matches
}

// HasBlocking reports whether any match forces unavailability.
func HasBlocking(matches []Match) bool {
	for _, m := range matches {
		if m.Tier == TierExact || m.Tier == TierHigh {
			return true
		}
	}
	return false
}

// ratio is a normalized edit-distance similarity: 1 − distance/maxLen.
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func sortTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// tokenSetRatio compares the shared token core against each side's full token
// set, so a name that wholly contains the other still scores high.
func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var common, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	core := strings.Join(common, " ")
	full1 := strings.TrimSpace(core + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(core + " " + strings.Join(onlyB, " "))

	if core == "" {
		return ratio(full1, full2)
	}

	best := ratio(core, full1)
	if r := ratio(core, full2); r > best {
		best = r
	}
	if r := ratio(full1, full2); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

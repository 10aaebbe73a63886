package pipeline

import (
	"fmt"

	"github.com/registrarlabs/namegate/internal/name"
	"github.com/registrarlabs/namegate/internal/rules"
	"github.com/registrarlabs/namegate/internal/similarity"
)

// Validation is the rule-check portion of a verdict, shaped for export.
// Errors and Warnings carry rule codes, not prose.
type Validation struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Score    int      `json:"score"`
}

// Verdict is the full availability decision for one name. Its JSON form is
// the export contract downstream consumers rely on: name, cleaned_name,
// is_available, existing_companies, validation, recommendation; plus the
// scored detail this tool adds on top.
type Verdict struct {
	Name              string             `json:"name"`
	CleanedName       string             `json:"cleaned_name"`
	Suffix            string             `json:"suffix,omitempty"`
	Source            name.Source        `json:"source"`
	IsAvailable       bool               `json:"is_available"`
	Score             int                `json:"score"`
	Degraded          bool               `json:"degraded"`
	ExistingCompanies []string           `json:"existing_companies"`
	Matches           []similarity.Match `json:"matches,omitempty"`
	Validation        Validation         `json:"validation"`
	Recommendation    string             `json:"recommendation"`

	// FromCache is diagnostic only and never exported.
	FromCache bool `json:"-"`
}

// AlternativeSet is a ranked list of available alternative names.
type AlternativeSet struct {
	Original  string     `json:"original"`
	Requested int        `json:"requested"`
	Verdicts  []*Verdict `json:"alternatives"`
	// Insufficient reports that fewer than Requested candidates survived
	// filtering. That is a status, not a failure.
	Insufficient bool `json:"insufficient"`
	Degraded     bool `json:"degraded"`
}

// conflict penalty weights for the overall score. The top match dominates;
// each additional reported conflict chips a little more off, capped so a
// crowded register cannot zero out a compliant name on moderate hits alone.
const (
	topMatchWeight   = 60
	extraMatchWeight = 4
	extraMatchCap    = 5
)

// overallScore combines the compliance sub-score with the conflict penalty.
// Monotonic by construction: a higher top similarity or more matches can only
// lower the result. Clamped to [0,100].
func overallScore(compliance int, matches []similarity.Match) int {
	s := compliance
	if len(matches) > 0 {
		penalty := int(float64(topMatchWeight)*matches[0].Score + 0.5)
		extra := len(matches) - 1
		if extra > extraMatchCap {
			extra = extraMatchCap
		}
		s -= penalty + extra*extraMatchWeight
	}
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return s
}

func buildVerdict(c name.Candidate, vr *rules.Result, matches []similarity.Match, degraded bool) *Verdict {
	v := &Verdict{
		Name:              c.Raw,
		CleanedName:       c.Normalized,
		Suffix:            c.Suffix,
		Source:            c.Source,
		Degraded:          degraded,
		Matches:           matches,
		ExistingCompanies: make([]string, 0, len(matches)),
	}

	for _, m := range matches {
		v.ExistingCompanies = append(v.ExistingCompanies, m.Name)
	}

	v.Validation = Validation{
		IsValid:  !vr.HasErrors(),
		Errors:   codes(vr.Errors()),
		Warnings: codes(vr.Warnings()),
		Score:    vr.Score,
	}

	v.IsAvailable = v.Validation.IsValid && !similarity.HasBlocking(matches)
	v.Score = overallScore(vr.Score, matches)
	v.Recommendation = recommend(v)
	return v
}

func codes(issues []rules.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, string(i.Code))
	}
	return out
}

// recommend mirrors the registrar guidance wording: conflicts first, then
// rule failures, then warnings, then the all-clear.
func recommend(v *Verdict) string {
	if similarity.HasBlocking(v.Matches) {
		if len(v.Matches) > 0 && v.Matches[0].Tier == similarity.TierExact {
			return "Name not available - exact match found in registrar database"
		}
		return fmt.Sprintf("Name may be rejected - %d similar companies found", len(v.Matches))
	}
	if !v.Validation.IsValid {
		return fmt.Sprintf("Name validation failed - %d naming convention errors", len(v.Validation.Errors))
	}
	if n := len(v.Validation.Warnings); n > 0 {
		return fmt.Sprintf("Name available with minor issues - %d warnings to consider", n)
	}
	return "Name appears available and compliant with registrar guidelines"
}

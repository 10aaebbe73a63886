package pipeline

import (
	"context"
	"sort"

	"github.com/registrarlabs/namegate/internal/name"
)

// Alternatives generates candidate replacement names for an unavailable (or
// merely unloved) original and ranks the ones that survive the full pipeline.
// Fewer survivors than requested is reported via Insufficient, never as an
// error.
func (c *Checker) Alternatives(ctx context.Context, original *Verdict, count int) (*AlternativeSet, error) {
	if count <= 0 {
		count = c.topN
	}

	set := &AlternativeSet{
		Original:  original.Name,
		Requested: count,
		Verdicts:  []*Verdict{},
	}

	candidate, err := name.New(original.Name, name.SourceOriginal)
	if err != nil {
		return nil, err
	}

	// Overgenerate: availability filtering eats into the pool.
	want := c.overgen
	if min := count * 3 / 2; want < min {
		want = min
	}
	generated := c.generator.Generate(candidate, want)

	verdicts, err := c.checkBatch(ctx, generated, name.SourceGenerated)
	if err != nil {
		// Cancelled mid-batch: rank whatever finished.
		c.logger.Warn("alternative generation interrupted", "error", err)
	}

	for _, v := range verdicts {
		if v == nil {
			continue
		}
		if v.Degraded {
			set.Degraded = true
		}
		if !v.IsAvailable {
			continue
		}
		set.Verdicts = append(set.Verdicts, v)
	}

	// Score descending; ties go to the shorter name, then lexicographic.
	sort.Slice(set.Verdicts, func(i, j int) bool {
		a, b := set.Verdicts[i], set.Verdicts[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.Name) != len(b.Name) {
			return len(a.Name) < len(b.Name)
		}
		return a.Name < b.Name
	})

	if len(set.Verdicts) > count {
		set.Verdicts = set.Verdicts[:count]
	}
	set.Insufficient = len(set.Verdicts) < count

	return set, nil
}

// Package pipeline orchestrates the full name check:
// normalize → validate rules → registry lookup → similarity ranking →
// combined verdict, with an alternatives path that re-runs generated
// candidates through the same stages.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/registrarlabs/namegate/internal/cache"
	"github.com/registrarlabs/namegate/internal/config"
	"github.com/registrarlabs/namegate/internal/generate"
	"github.com/registrarlabs/namegate/internal/history"
	"github.com/registrarlabs/namegate/internal/name"
	"github.com/registrarlabs/namegate/internal/registry"
	"github.com/registrarlabs/namegate/internal/rules"
	"github.com/registrarlabs/namegate/internal/similarity"
)

// maxWorkers caps the batch pool regardless of CPU count; registrar APIs
// rate-limit well below what a big machine could generate.
const maxWorkers = 8

// Checker runs the availability pipeline. Construction wires in everything
// read-only (rule set, lexicon, thresholds); per-request state does not exist,
// so one Checker serves concurrent checks.
type Checker struct {
	ruleSet    rules.RuleSet
	thresholds similarity.Thresholds
	resolver   *registry.Resolver
	generator  *generate.Generator
	verdicts   *cache.FileCache
	history    *history.Log
	workers    int
	topN       int
	overgen    int
	logger     *slog.Logger
}

// New assembles a Checker from configuration. A rule set or lexicon file that
// cannot be parsed is fatal here; nothing else is.
func New(cfg *config.Config) (*Checker, error) {
	ruleSet := rules.Default()
	if cfg.RulesFile != "" {
		rs, err := rules.LoadFile(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		ruleSet = rs
	}

	lexicon := generate.DefaultLexicon()
	if cfg.LexiconFile != "" {
		lex, err := generate.LoadLexicon(cfg.LexiconFile)
		if err != nil {
			return nil, err
		}
		lexicon = lex
	}

	primary, err := registry.Get(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("resolving provider: %w", err)
	}
	var fallback registry.Provider
	if cfg.FallbackProvider != "" && cfg.FallbackProvider != cfg.Provider {
		fallback, err = registry.Get(cfg.FallbackProvider)
		if err != nil {
			return nil, fmt.Errorf("resolving fallback provider: %w", err)
		}
	}

	timeout, err := time.ParseDuration(cfg.LookupTimeout)
	if err != nil {
		timeout = 3 * time.Second
	}

	c := &Checker{
		ruleSet:    ruleSet,
		thresholds: thresholdsFrom(cfg),
		resolver:   registry.NewResolver(primary, fallback, timeout, cfg.LookupLimit),
		generator:  generate.New(lexicon),
		workers:    workerCount(cfg.Workers),
		topN:       cfg.TopN,
		overgen:    cfg.Overgenerate,
		logger:     slog.Default(),
	}

	if !cfg.NoCache {
		ttl, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			ttl = time.Hour
		}
		vc, err := cache.New(filepath.Join(cfg.CacheDir, "verdicts"), ttl)
		if err != nil {
			slog.Warn("failed to create verdict cache, continuing without", "error", err)
		} else {
			c.verdicts = vc
		}
	}

	if cfg.HistoryFile != "" {
		h, err := history.Open(cfg.HistoryFile)
		if err != nil {
			slog.Warn("failed to open history log, continuing without", "error", err)
		} else {
			c.history = h
		}
	}

	return c, nil
}

// Check runs one name through the full pipeline. The only error it returns is
// ErrInvalidInput for empty input; lookup failures degrade, rule violations
// land in the verdict.
func (c *Checker) Check(ctx context.Context, raw string) (*Verdict, error) {
	return c.check(ctx, raw, name.SourceOriginal)
}

func (c *Checker) check(ctx context.Context, raw string, source name.Source) (*Verdict, error) {
	candidate, err := name.New(raw, source)
	if err != nil {
		return nil, err
	}

	if v := c.cachedVerdict(candidate.Raw); v != nil {
		return v, nil
	}

	vr := c.ruleSet.Validate(candidate)
	lookup := c.resolver.Lookup(ctx, candidate.Normalized)
	matches := similarity.Rank(candidate, lookup.Names, c.thresholds)

	v := buildVerdict(candidate, vr, matches, lookup.Degraded)

	// Degraded verdicts stay out of the cache; a later check should retry
	// the live registry instead of replaying the fallback.
	if !v.Degraded {
		c.storeVerdict(v)
	}
	c.record(v)

	c.logger.Debug("check complete", "name", raw,
		"available", v.IsAvailable, "score", v.Score,
		"conflicts", len(v.Matches), "degraded", v.Degraded)
	return v, nil
}

// cachedVerdict is keyed by the raw name, not the normalized form: rule
// findings depend on the raw spelling ("Tech@Solutions" and "Tech Solutions"
// normalize identically but validate differently), so spellings that fold to
// the same form must not share a verdict.
func (c *Checker) cachedVerdict(raw string) *Verdict {
	if c.verdicts == nil {
		return nil
	}
	entry, fresh := c.verdicts.Get(raw)
	if !fresh {
		return nil
	}
	var v Verdict
	if err := json.Unmarshal(entry.Body, &v); err != nil {
		return nil
	}
	v.FromCache = true
	return &v
}

func (c *Checker) storeVerdict(v *Verdict) {
	if c.verdicts == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.verdicts.Set(v.Name, &cache.Entry{Body: data})
}

func (c *Checker) record(v *Verdict) {
	if c.history == nil {
		return
	}
	if err := c.history.Append(v.Name, v.IsAvailable, v.Score, v.Degraded); err != nil {
		c.logger.Warn("history append failed", "error", err)
	}
}

func thresholdsFrom(cfg *config.Config) similarity.Thresholds {
	t := similarity.DefaultThresholds()
	if cfg.Similarity.Exact > 0 {
		t.Exact = cfg.Similarity.Exact
	}
	if cfg.Similarity.High > 0 {
		t.High = cfg.Similarity.High
	}
	if cfg.Similarity.Moderate > 0 {
		t.Moderate = cfg.Similarity.Moderate
	}
	if cfg.Similarity.MaxMatches > 0 {
		t.MaxMatches = cfg.Similarity.MaxMatches
	}
	return t
}

func workerCount(configured int) int {
	if configured > 0 {
		return configured
	}
	n := runtime.NumCPU()
	if n > maxWorkers {
		n = maxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

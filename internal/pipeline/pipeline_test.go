package pipeline

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/registrarlabs/namegate/internal/config"
	"github.com/registrarlabs/namegate/internal/registry"
	"github.com/registrarlabs/namegate/internal/similarity"
)

// stubProvider serves canned lookup results keyed by normalized query.
type stubProvider struct {
	name    string
	results map[string][]string
	err     error
	delay   map[string]time.Duration
	onCall  func()
	// echoConflict makes every query collide with an exact registered name.
	echoConflict bool
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Lookup(ctx context.Context, normalized string, opts registry.LookupOptions) ([]string, error) {
	if s.onCall != nil {
		s.onCall()
	}
	if d := s.delay[normalized]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.echoConflict {
		return []string{normalized + " Private Limited"}, nil
	}
	return s.results[normalized], nil
}

func testConfig(provider string) *config.Config {
	return &config.Config{
		Provider:      provider,
		LookupLimit:   25,
		LookupTimeout: "1s",
		CacheTTL:      "1h",
		NoCache:       true,
		Workers:       2,
		TopN:          20,
		Overgenerate:  30,
	}
}

func newChecker(t *testing.T, stub *stubProvider) *Checker {
	t.Helper()
	registry.Register(stub)
	c, err := New(testConfig(stub.name))
	if err != nil {
		t.Fatalf("building checker: %v", err)
	}
	return c
}

func TestCheckCleanNameIsAvailable(t *testing.T) {
	c := newChecker(t, &stubProvider{name: "stub-clean"})

	v, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !v.IsAvailable {
		t.Error("expected available")
	}
	if v.Score < 95 || v.Score > 100 {
		t.Errorf("expected score in [95,100], got %d", v.Score)
	}
	if len(v.ExistingCompanies) != 0 {
		t.Errorf("expected no conflicts, got %v", v.ExistingCompanies)
	}
	if v.Degraded {
		t.Error("expected live verdict")
	}
	if v.CleanedName != "tech solutions" {
		t.Errorf("cleaned_name = %q", v.CleanedName)
	}
	if v.Recommendation != "Name appears available and compliant with registrar guidelines" {
		t.Errorf("recommendation = %q", v.Recommendation)
	}
}

func TestCheckExactConflictBlocks(t *testing.T) {
	c := newChecker(t, &stubProvider{
		name: "stub-exact",
		results: map[string][]string{
			"tech solutions": {"Tech Solutions Private Limited"},
		},
	})

	v, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.IsAvailable {
		t.Error("expected unavailable for exact conflict")
	}
	if len(v.Matches) != 1 || v.Matches[0].Tier != similarity.TierExact {
		t.Errorf("matches = %+v", v.Matches)
	}
	if v.Recommendation != "Name not available - exact match found in registrar database" {
		t.Errorf("recommendation = %q", v.Recommendation)
	}
	if v.Score >= v.Validation.Score {
		t.Errorf("conflict penalty missing: overall %d, compliance %d", v.Score, v.Validation.Score)
	}
}

func TestCheckHighTierConflictBlocks(t *testing.T) {
	c := newChecker(t, &stubProvider{
		name: "stub-high",
		results: map[string][]string{
			"tech solutions": {"Techno Solutions Pvt Ltd"},
		},
	})

	v, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(v.Matches) != 1 || v.Matches[0].Tier != similarity.TierHigh {
		t.Fatalf("expected one high-tier match, got %+v", v.Matches)
	}
	if v.IsAvailable {
		t.Error("high-tier conflict must force unavailability")
	}
}

func TestCheckModerateConflictDoesNotBlock(t *testing.T) {
	c := newChecker(t, &stubProvider{
		name: "stub-moderate",
		results: map[string][]string{
			"tech solutions": {"Tech Traders Pvt Ltd"},
		},
	})

	v, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, m := range v.Matches {
		if m.Tier == similarity.TierExact || m.Tier == similarity.TierHigh {
			t.Fatalf("test setup: expected at most moderate tiers, got %+v", m)
		}
	}
	if !v.IsAvailable {
		t.Error("moderate conflicts alone must not block availability")
	}
}

func TestCheckRuleErrorBlocks(t *testing.T) {
	c := newChecker(t, &stubProvider{name: "stub-rules"})

	v, err := c.Check(context.Background(), "XYZ Bank Pvt Ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v.IsAvailable {
		t.Error("rule error must force unavailability")
	}
	if v.Validation.Score > 85 {
		t.Errorf("expected compliance ≤ 85, got %d", v.Validation.Score)
	}
	found := false
	for _, code := range v.Validation.Errors {
		if code == "FORBIDDEN_WORD" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected FORBIDDEN_WORD code, got %v", v.Validation.Errors)
	}
	if v.Recommendation != "Name validation failed - 1 naming convention errors" {
		t.Errorf("recommendation = %q", v.Recommendation)
	}
}

func TestCheckDeterministic(t *testing.T) {
	c := newChecker(t, &stubProvider{
		name: "stub-deterministic",
		results: map[string][]string{
			"tech solutions": {"Techno Solutions Pvt Ltd", "Tech Traders Pvt Ltd"},
		},
	})

	a, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("verdicts differ across identical runs:\n%+v\n%+v", a, b)
	}
}

func TestCheckDegradesOnLookupFailure(t *testing.T) {
	stub := &stubProvider{name: "stub-failing", err: context.DeadlineExceeded}
	registry.Register(stub)
	fallback := &stubProvider{
		name: "stub-fallback",
		results: map[string][]string{
			"tech solutions": {"Tech Solutions Private Limited"},
		},
	}
	registry.Register(fallback)

	cfg := testConfig(stub.name)
	cfg.FallbackProvider = fallback.name
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	v, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatalf("lookup failure must not surface: %v", err)
	}
	if !v.Degraded {
		t.Error("expected degraded verdict")
	}
	if v.IsAvailable {
		t.Error("fallback conflict should still block")
	}
}

func TestCheckInvalidInput(t *testing.T) {
	c := newChecker(t, &stubProvider{name: "stub-invalid"})

	if _, err := c.Check(context.Background(), "   "); err == nil {
		t.Error("expected error for whitespace-only input")
	}
}

func TestCheckUsesVerdictCache(t *testing.T) {
	stub := &stubProvider{name: "stub-cached"}
	registry.Register(stub)

	cfg := testConfig(stub.name)
	cfg.NoCache = false
	cfg.CacheDir = t.TempDir()
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	first, err := c.Check(context.Background(), "Zenith Marbles Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}
	if first.FromCache {
		t.Error("first check should not come from cache")
	}

	second, err := c.Check(context.Background(), "Zenith Marbles Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}
	if !second.FromCache {
		t.Error("second check should come from cache")
	}
	if second.Score != first.Score || second.IsAvailable != first.IsAvailable {
		t.Error("cached verdict differs from original")
	}
}

func TestCheckCacheKeyedByRawSpelling(t *testing.T) {
	stub := &stubProvider{name: "stub-cache-raw"}
	registry.Register(stub)

	cfg := testConfig(stub.name)
	cfg.NoCache = false
	cfg.CacheDir = t.TempDir()
	c, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Both spellings fold to "tech solutions", but only one is clean.
	if _, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd"); err != nil {
		t.Fatal(err)
	}
	v, err := c.Check(context.Background(), "Tech@Solutions Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}

	if v.FromCache {
		t.Error("a different raw spelling must not replay the cached verdict")
	}
	if v.Name != "Tech@Solutions Pvt Ltd" {
		t.Errorf("verdict echoes the wrong spelling: %q", v.Name)
	}
	found := false
	for _, code := range v.Validation.Errors {
		if code == "INVALID_CHARACTERS" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected INVALID_CHARACTERS, got %v", v.Validation.Errors)
	}
}

func TestOverallScoreMonotonic(t *testing.T) {
	none := overallScore(100, nil)
	low := overallScore(100, []similarity.Match{{Score: 0.45, Tier: similarity.TierModerate}})
	high := overallScore(100, []similarity.Match{{Score: 0.90, Tier: similarity.TierHigh}})
	more := overallScore(100, []similarity.Match{
		{Score: 0.90, Tier: similarity.TierHigh},
		{Score: 0.50, Tier: similarity.TierModerate},
	})

	if !(none >= low && low >= high && high >= more) {
		t.Errorf("score not monotonic: %d %d %d %d", none, low, high, more)
	}
	if none != 100 {
		t.Errorf("no conflicts should leave compliance untouched, got %d", none)
	}
}

func TestOverallScoreClamped(t *testing.T) {
	if s := overallScore(10, []similarity.Match{{Score: 1.0}}); s != 0 {
		t.Errorf("expected clamp at 0, got %d", s)
	}
}

package pipeline

import (
	"context"
	"testing"

	"github.com/registrarlabs/namegate/internal/name"
	"github.com/registrarlabs/namegate/internal/registry"
)

func TestAlternativesReturnsRequestedCount(t *testing.T) {
	c := newChecker(t, &stubProvider{name: "stub-alt-clean"})

	original, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}

	set, err := c.Alternatives(context.Background(), original, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Insufficient {
		t.Error("clean registry should satisfy the request")
	}
	if len(set.Verdicts) != 10 {
		t.Fatalf("expected 10 alternatives, got %d", len(set.Verdicts))
	}

	seen := make(map[string]bool)
	for _, v := range set.Verdicts {
		if !v.IsAvailable {
			t.Errorf("unavailable alternative %q offered", v.Name)
		}
		if v.Source != name.SourceGenerated {
			t.Errorf("alternative %q not marked generated", v.Name)
		}
		if v.CleanedName == original.CleanedName {
			t.Errorf("alternative %q collides with the original", v.Name)
		}
		if seen[v.CleanedName] {
			t.Errorf("duplicate alternative %q", v.Name)
		}
		seen[v.CleanedName] = true
	}

	for i := 1; i < len(set.Verdicts); i++ {
		if set.Verdicts[i].Score > set.Verdicts[i-1].Score {
			t.Errorf("alternatives not sorted by score at %d", i)
		}
	}
}

func TestAlternativesDeterministic(t *testing.T) {
	c := newChecker(t, &stubProvider{name: "stub-alt-deterministic"})

	original, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}

	a, err := c.Alternatives(context.Background(), original, 8)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Alternatives(context.Background(), original, 8)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Verdicts) != len(b.Verdicts) {
		t.Fatalf("lengths differ: %d vs %d", len(a.Verdicts), len(b.Verdicts))
	}
	for i := range a.Verdicts {
		if a.Verdicts[i].Name != b.Verdicts[i].Name {
			t.Errorf("order differs at %d: %q vs %q", i, a.Verdicts[i].Name, b.Verdicts[i].Name)
		}
	}
}

func TestAlternativesInsufficientWhenRegistryIsFull(t *testing.T) {
	c := newChecker(t, &stubProvider{name: "stub-alt-full", echoConflict: true})

	original, err := c.Check(context.Background(), "Tech Solutions Pvt Ltd")
	if err != nil {
		t.Fatal(err)
	}

	set, err := c.Alternatives(context.Background(), original, 10)
	if err != nil {
		t.Fatalf("a crowded registry is not an error: %v", err)
	}

	if len(set.Verdicts) != 0 {
		t.Errorf("every candidate conflicts, yet %d offered", len(set.Verdicts))
	}
	if !set.Insufficient {
		t.Error("expected Insufficient to be set")
	}
}

func TestAlternativesFlagsDegradedLookups(t *testing.T) {
	stub := &stubProvider{name: "stub-alt-degraded", err: context.DeadlineExceeded}
	registry.Register(stub)

	c, err := New(testConfig(stub.name))
	if err != nil {
		t.Fatal(err)
	}

	set, err := c.Alternatives(context.Background(), &Verdict{Name: "Tech Solutions Pvt Ltd"}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.Degraded {
		t.Error("expected degraded flag when every lookup fell back")
	}
}

func TestAlternativesDefaultsToConfiguredTopN(t *testing.T) {
	c := newChecker(t, &stubProvider{name: "stub-alt-topn"})

	set, err := c.Alternatives(context.Background(), &Verdict{Name: "Zenith Marbles Pvt Ltd"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if set.Requested != 20 {
		t.Errorf("expected request to default to 20, got %d", set.Requested)
	}
}

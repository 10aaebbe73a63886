package registry

import (
	"context"
	"log/slog"
	"time"
)

// Result is what a resolved lookup hands to the pipeline. Degraded marks
// results produced without a successful live lookup.
type Result struct {
	Names    []string
	Degraded bool
	Provider string
}

// Resolver runs lookups against a primary provider with a hard per-call
// timeout and falls back to a deterministic offline provider when the live
// one is unreachable. Downstream scoring stays deterministic either way.
type Resolver struct {
	primary  Provider
	fallback Provider
	timeout  time.Duration
	limit    int
	logger   *slog.Logger
}

// NewResolver builds a resolver. fallback may be nil, in which case a failed
// lookup degrades to an empty result set.
func NewResolver(primary, fallback Provider, timeout time.Duration, limit int) *Resolver {
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		limit:    limit,
		logger:   slog.Default(),
	}
}

// Lookup never returns an error: transport failures and timeouts are
// recovered locally and surfaced only through the Degraded flag.
func (r *Resolver) Lookup(ctx context.Context, normalized string) Result {
	opts := LookupOptions{Limit: r.limit}

	if r.primary != nil {
		lctx, cancel := context.WithTimeout(ctx, r.timeout)
		names, err := r.primary.Lookup(lctx, normalized, opts)
		cancel()
		if err == nil {
			return Result{Names: names, Provider: r.primary.Name()}
		}
		r.logger.Warn("registry lookup failed, degrading",
			"provider", r.primary.Name(), "error", err)
	}

	if r.fallback == nil {
		return Result{Degraded: true}
	}

	// The offline fallback is pure computation; the parent context still
	// applies so a cancelled batch does not start synthesis.
	names, err := r.fallback.Lookup(ctx, normalized, opts)
	if err != nil {
		return Result{Degraded: true, Provider: r.fallback.Name()}
	}
	return Result{Names: names, Degraded: true, Provider: r.fallback.Name()}
}

// Package ephemeris (adapter) implements spec.md §6's "consumed from
// the ephemeris collaborator" contract: an HTTP fetch against a remote
// ephemeris service, backed by a cache, with retry/backoff and
// CacheIncomplete detection. The core (internal/astro/ephemeris) never
// imports this package — it only consumes the ephemeris.View interface
// this adapter builds.
package ephemeris

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	coreephemeris "github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/cache"
)

// Loader is the interface the driver's caller obtains a populated
// ephemeris.View from.
type Loader interface {
	Fetch(ctx context.Context, bodies []catalog.Body, start, end time.Time) (coreephemeris.View, error)
}

// FetchPolicy bounds retry behavior against the upstream ephemeris API,
// mirroring spec.md §6's "retry count, initial/maximum backoff, backoff
// multiplier" configuration.
type FetchPolicy struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultFetchPolicy mirrors the teacher's hand-rolled retry constants
// in spirit (few retries, short initial backoff, capped growth).
func DefaultFetchPolicy() FetchPolicy {
	return FetchPolicy{
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

func (p FetchPolicy) backoffFor(attempt int) time.Duration {
	d := float64(p.InitialBackoff) * math.Pow(p.BackoffMultiplier, float64(attempt))
	if d > float64(p.MaxBackoff) {
		d = float64(p.MaxBackoff)
	}
	return time.Duration(d)
}

// FetchFailureError wraps the error the upstream Fetcher returned after
// exhausting every retry — spec.md §7's FetchFailure kind.
type FetchFailureError struct {
	Attempts int
	Err      error
}

func (e *FetchFailureError) Error() string {
	return fmt.Sprintf("ephemeris fetch failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *FetchFailureError) Unwrap() error { return e.Err }

// CacheIncompleteError is spec.md §7's CacheIncomplete kind: the cache
// held fewer samples than the range requires.
type CacheIncompleteError struct {
	Expected, Got int
}

func (e *CacheIncompleteError) Error() string {
	return fmt.Sprintf("cache incomplete: expected %d samples, got %d", e.Expected, e.Got)
}

// Fetcher is the narrow upstream surface a CachingLoader fetches
// through — an HTTP client against the configured ephemeris API in
// production, a fixture in tests.
type Fetcher interface {
	FetchRange(ctx context.Context, bodies []catalog.Body, start, end time.Time) (map[catalog.Body]map[time.Time]coreephemeris.Sample, error)
}

// CachingLoader wraps a Fetcher with a cache.Store, retrying the
// upstream fetch per policy and refetching once if the cache turns out
// incomplete for the requested range.
type CachingLoader struct {
	Fetcher Fetcher
	Store   cache.Store
	Policy  FetchPolicy
}

// NewCachingLoader builds a CachingLoader with DefaultFetchPolicy.
func NewCachingLoader(fetcher Fetcher, store cache.Store) *CachingLoader {
	return &CachingLoader{Fetcher: fetcher, Store: store, Policy: DefaultFetchPolicy()}
}

// Fetch satisfies Loader: it first tries to assemble a complete view
// from the cache, and only calls through to the Fetcher if the cache
// does not already cover every (body, minute) in the range.
func (l *CachingLoader) Fetch(ctx context.Context, bodies []catalog.Body, start, end time.Time) (coreephemeris.View, error) {
	view := coreephemeris.NewMapView()
	expected := coreephemeris.ExpectedSampleCount(start, end) * len(bodies)

	if err := l.fillFromCache(ctx, view, bodies, start, end); err != nil {
		return nil, fmt.Errorf("loading cached samples: %w", err)
	}

	if countPopulated(view, bodies, start, end) >= expected {
		return view, nil
	}

	samples, err := l.fetchWithRetry(ctx, bodies, start, end)
	if err != nil {
		return nil, err
	}
	l.merge(ctx, view, samples)

	got := countPopulated(view, bodies, start, end)
	if got < expected {
		return nil, &CacheIncompleteError{Expected: expected, Got: got}
	}

	return view, nil
}

func (l *CachingLoader) fillFromCache(ctx context.Context, view *coreephemeris.MapView, bodies []catalog.Body, start, end time.Time) error {
	if l.Store == nil {
		return nil
	}
	for _, b := range bodies {
		for ts := start; !ts.After(end); ts = ts.Add(time.Minute) {
			key := cache.SampleKey(b, ts.UTC().Format(time.RFC3339))
			var s coreephemeris.Sample
			if err := l.Store.GetJSON(ctx, key, &s); err == nil {
				view.Set(b, ts, s)
			}
		}
	}
	return nil
}

func (l *CachingLoader) fetchWithRetry(ctx context.Context, bodies []catalog.Body, start, end time.Time) (map[catalog.Body]map[time.Time]coreephemeris.Sample, error) {
	var lastErr error
	for attempt := 0; attempt <= l.Policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(l.Policy.backoffFor(attempt - 1)):
			}
		}

		samples, err := l.Fetcher.FetchRange(ctx, bodies, start, end)
		if err == nil {
			return samples, nil
		}
		lastErr = err
	}
	return nil, &FetchFailureError{Attempts: l.Policy.MaxRetries + 1, Err: lastErr}
}

func (l *CachingLoader) merge(ctx context.Context, view *coreephemeris.MapView, samples map[catalog.Body]map[time.Time]coreephemeris.Sample) {
	for body, byTime := range samples {
		for ts, sample := range byTime {
			view.Set(body, ts, sample)
			if l.Store != nil {
				key := cache.SampleKey(body, ts.UTC().Format(time.RFC3339))
				_ = l.Store.SetJSON(ctx, key, sample)
			}
		}
	}
}

func countPopulated(view *coreephemeris.MapView, bodies []catalog.Body, start, end time.Time) int {
	count := 0
	for _, b := range bodies {
		for ts := start; !ts.After(end); ts = ts.Add(time.Minute) {
			if _, err := view.Longitude(b, ts); err == nil {
				count++
			}
		}
	}
	return count
}

package ephemeris

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	coreephemeris "github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/cache"
)

func ts(i int) time.Time {
	return time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC)
}

func sampleAt(lon float64) coreephemeris.Sample {
	return coreephemeris.Sample{Longitude: &lon}
}

type stubFetcher struct {
	calls   int
	failN   int
	samples map[catalog.Body]map[time.Time]coreephemeris.Sample
}

func (f *stubFetcher) FetchRange(ctx context.Context, bodies []catalog.Body, start, end time.Time) (map[catalog.Body]map[time.Time]coreephemeris.Sample, error) {
	f.calls++
	if f.calls <= f.failN {
		return nil, errors.New("upstream unavailable")
	}
	return f.samples, nil
}

func TestCachingLoaderFetchesOnCacheMiss(t *testing.T) {
	samples := map[catalog.Body]map[time.Time]coreephemeris.Sample{
		catalog.Sun: {ts(0): sampleAt(10), ts(1): sampleAt(11)},
	}
	fetcher := &stubFetcher{samples: samples}
	store := cache.NewInMemoryStore()
	loader := NewCachingLoader(fetcher, store)

	view, err := loader.Fetch(context.Background(), []catalog.Body{catalog.Sun}, ts(0), ts(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lon, err := view.Longitude(catalog.Sun, ts(0))
	if err != nil || lon != 10 {
		t.Errorf("expected longitude 10, got %v err %v", lon, err)
	}
	if fetcher.calls != 1 {
		t.Errorf("expected exactly one fetch call, got %d", fetcher.calls)
	}
}

func TestCachingLoaderServesFromCacheWithoutFetching(t *testing.T) {
	store := cache.NewInMemoryStore()
	key := cache.SampleKey(catalog.Sun, ts(0).UTC().Format(time.RFC3339))
	if err := store.SetJSON(context.Background(), key, sampleAt(42)); err != nil {
		t.Fatalf("priming cache: %v", err)
	}

	fetcher := &stubFetcher{}
	loader := NewCachingLoader(fetcher, store)

	view, err := loader.Fetch(context.Background(), []catalog.Body{catalog.Sun}, ts(0), ts(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lon, err := view.Longitude(catalog.Sun, ts(0))
	if err != nil || lon != 42 {
		t.Errorf("expected longitude 42 from cache, got %v err %v", lon, err)
	}
	if fetcher.calls != 0 {
		t.Errorf("expected no fetch calls when cache already satisfies the range, got %d", fetcher.calls)
	}
}

func TestCachingLoaderRetriesThenSucceeds(t *testing.T) {
	samples := map[catalog.Body]map[time.Time]coreephemeris.Sample{
		catalog.Sun: {ts(0): sampleAt(5)},
	}
	fetcher := &stubFetcher{samples: samples, failN: 2}
	loader := NewCachingLoader(fetcher, cache.NewInMemoryStore())
	loader.Policy = FetchPolicy{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, BackoffMultiplier: 2}

	_, err := loader.Fetch(context.Background(), []catalog.Body{catalog.Sun}, ts(0), ts(0))
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if fetcher.calls != 3 {
		t.Errorf("expected 3 attempts (2 failures + 1 success), got %d", fetcher.calls)
	}
}

func TestCachingLoaderFetchFailureAfterExhaustingRetries(t *testing.T) {
	fetcher := &stubFetcher{failN: 10}
	loader := NewCachingLoader(fetcher, cache.NewInMemoryStore())
	loader.Policy = FetchPolicy{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, BackoffMultiplier: 2}

	_, err := loader.Fetch(context.Background(), []catalog.Body{catalog.Sun}, ts(0), ts(0))
	var failure *FetchFailureError
	if !errors.As(err, &failure) {
		t.Fatalf("expected a FetchFailureError, got %v", err)
	}
	if failure.Attempts != 3 {
		t.Errorf("expected 3 attempts recorded, got %d", failure.Attempts)
	}
}

func TestCachingLoaderCacheIncompleteWhenFetcherReturnsPartialData(t *testing.T) {
	samples := map[catalog.Body]map[time.Time]coreephemeris.Sample{
		catalog.Sun: {ts(0): sampleAt(5)},
	}
	fetcher := &stubFetcher{samples: samples}
	loader := NewCachingLoader(fetcher, cache.NewInMemoryStore())

	_, err := loader.Fetch(context.Background(), []catalog.Body{catalog.Sun}, ts(0), ts(2))
	var incomplete *CacheIncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected a CacheIncompleteError, got %v", err)
	}
}

package ephemeris

import (
	"errors"
	"testing"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
)

func TestMapViewMissingSample(t *testing.T) {
	v := NewMapView()
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := v.Longitude(catalog.Sun, ts)
	if err == nil {
		t.Fatal("expected MissingSample error for unset sample")
	}
	if !errors.Is(err, ErrMissingSample) {
		t.Errorf("expected errors.Is to match ErrMissingSample, got %v", err)
	}
	var missing *MissingSampleError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *MissingSampleError, got %T", err)
	}
	if missing.Body != catalog.Sun || missing.Field != Longitude {
		t.Errorf("unexpected missing-sample context: %+v", missing)
	}
}

func TestMapViewRoundTrip(t *testing.T) {
	v := NewMapView()
	ts := time.Date(2026, 1, 1, 12, 30, 0, 0, time.UTC)
	lon := 123.45

	v.Set(catalog.Moon, ts, Sample{Longitude: &lon})

	got, err := v.Longitude(catalog.Moon, ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != lon {
		t.Errorf("Longitude = %v, want %v", got, lon)
	}

	if _, err := v.Latitude(catalog.Moon, ts); err == nil {
		t.Fatal("expected MissingSample for unset latitude")
	}
}

func TestExpectedSampleCount(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(59 * time.Minute)
	if got := ExpectedSampleCount(start, end); got != 60 {
		t.Errorf("ExpectedSampleCount = %d, want 60", got)
	}
	if got := ExpectedSampleCount(start, start); got != 1 {
		t.Errorf("ExpectedSampleCount(start, start) = %d, want 1", got)
	}
}

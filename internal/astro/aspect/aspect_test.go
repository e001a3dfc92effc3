package aspect

import (
	"testing"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
)

func minute(i int) time.Time {
	return time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC)
}

func setLongitude(v *ephemeris.MapView, body catalog.Body, ts time.Time, lon float64) {
	v.Set(body, ts, ephemeris.Sample{Longitude: &lon})
}

func TestDetectPairExactOpposition(t *testing.T) {
	v := ephemeris.NewMapView()
	setLongitude(v, catalog.Sun, minute(0), 179)
	setLongitude(v, catalog.Sun, minute(1), 180)
	setLongitude(v, catalog.Sun, minute(2), 181)
	setLongitude(v, catalog.Moon, minute(0), 0)
	setLongitude(v, catalog.Moon, minute(1), 0)
	setLongitude(v, catalog.Moon, minute(2), 0)

	edge, err := DetectPair(v, catalog.Sun, catalog.Moon, minute(0), minute(1), minute(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge == nil {
		t.Fatal("expected an edge")
	}
	if edge.Aspect != catalog.Opposite || edge.Phase != catalog.Exact {
		t.Errorf("edge = %+v, want exact opposite", edge)
	}
}

func TestDetectPairTrineForming(t *testing.T) {
	v := ephemeris.NewMapView()
	setLongitude(v, catalog.Sun, minute(0), 0)
	setLongitude(v, catalog.Sun, minute(1), 0)
	setLongitude(v, catalog.Sun, minute(2), 0)
	setLongitude(v, catalog.Venus, minute(0), 127)
	setLongitude(v, catalog.Venus, minute(1), 125)
	setLongitude(v, catalog.Venus, minute(2), 123)

	edge, err := DetectPair(v, catalog.Sun, catalog.Venus, minute(0), minute(1), minute(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge == nil || edge.Aspect != catalog.Trine || edge.Phase != catalog.Forming {
		t.Errorf("edge = %+v, want forming trine", edge)
	}
}

func TestDetectPairMissingSampleFailsOnlyThatPair(t *testing.T) {
	v := ephemeris.NewMapView()
	setLongitude(v, catalog.Sun, minute(0), 0)
	setLongitude(v, catalog.Sun, minute(1), 0)
	setLongitude(v, catalog.Sun, minute(2), 0)
	// Moon has no samples at all.

	_, err := DetectPair(v, catalog.Sun, catalog.Moon, minute(0), minute(1), minute(2))
	if err == nil {
		t.Fatal("expected MissingSample error")
	}
}

func TestDetectMinuteContinuesPastFailures(t *testing.T) {
	v := ephemeris.NewMapView()
	for _, m := range []time.Time{minute(0), minute(1), minute(2)} {
		setLongitude(v, catalog.Sun, m, 0)
		setLongitude(v, catalog.Mercury, m, 180)
	}
	// Venus deliberately left unset to produce a failure for every pair
	// involving it.

	edges, failures := DetectMinute(v, []catalog.Body{catalog.Sun, catalog.Mercury, catalog.Venus}, minute(0), minute(1), minute(2))

	if len(failures) == 0 {
		t.Fatal("expected failures for pairs involving Venus")
	}
	found := false
	for _, e := range edges {
		if e.Body1 == catalog.Sun && e.Body2 == catalog.Mercury && e.Aspect == catalog.Opposite {
			found = true
		}
	}
	if !found {
		t.Error("expected Sun-Mercury opposite edge despite Venus failures")
	}
}

func TestAtMostOneEdgePerPairPerMinute(t *testing.T) {
	v := ephemeris.NewMapView()
	for i, lon := range []float64{2, 0.5, 1} {
		setLongitude(v, catalog.Sun, minute(i), 0)
		setLongitude(v, catalog.Moon, minute(i), lon)
	}
	edge, err := DetectPair(v, catalog.Sun, catalog.Moon, minute(0), minute(1), minute(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge == nil {
		t.Fatal("expected a conjunction edge")
	}
	// A single call returns at most one edge by construction (*Edge, not
	// a slice) — this just documents the invariant at the call site.
}

func TestPairsCanonicalOrder(t *testing.T) {
	pairs := Pairs([]catalog.Body{catalog.Moon, catalog.Sun, catalog.Venus})
	for _, p := range pairs {
		if p[0].Index() >= p[1].Index() {
			t.Errorf("pair %v not canonically ordered", p)
		}
	}
}

package driver

import (
	"context"
	"testing"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/event"
)

type memorySink struct {
	records []event.Record
}

func (m *memorySink) Emit(records []event.Record) error {
	m.records = append(m.records, records...)
	return nil
}

func minute(i int) time.Time {
	return time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC)
}

// fullSample fills in every field the detectors in this minute read, so
// a minimal two-body run does not trip MissingSample for fields this
// test does not care about.
func fullSample(lon float64) ephemeris.Sample {
	zero := 0.0
	elev := -45.0
	dist := 1.0
	diam := 0.5
	illum := 0.5
	return ephemeris.Sample{
		Longitude: &lon, Latitude: &zero, Azimuth: &zero,
		Elevation: &elev, Illumination: &illum, Distance: &dist, Diameter: &diam,
	}
}

func TestRunDetectsExactOppositionSeedScenario(t *testing.T) {
	v := ephemeris.NewMapView()
	bodies := []catalog.Body{catalog.Sun, catalog.Moon}

	sunLons := map[int]float64{0: 0, 1: 0, 2: 0}
	moonLons := map[int]float64{0: 179, 1: 180, 2: 181}

	for i := 0; i <= 2; i++ {
		v.Set(catalog.Sun, minute(i), fullSample(sunLons[i]))
		v.Set(catalog.Moon, minute(i), fullSample(moonLons[i]))
	}

	sink := &memorySink{}
	cfg := Config{Start: minute(0), End: minute(2), Bodies: bodies}

	records, err := Run(context.Background(), cfg, v, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, r := range records {
		if r.Kind == event.KindAspect && r.Aspect != nil && *r.Aspect == catalog.Opposite &&
			r.AspectPhase != nil && *r.AspectPhase == catalog.Exact {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an exact opposite event, got %+v", records)
	}
	if len(sink.records) == 0 {
		t.Errorf("expected the sink to receive the run's events")
	}
}

func TestRunCancellation(t *testing.T) {
	v := ephemeris.NewMapView()
	for i := 0; i <= 5; i++ {
		v.Set(catalog.Sun, minute(i), fullSample(0))
		v.Set(catalog.Moon, minute(i), fullSample(90))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Start: minute(0), End: minute(5), Bodies: []catalog.Body{catalog.Sun, catalog.Moon}}
	_, err := Run(ctx, cfg, v, nil)
	if err == nil {
		t.Errorf("expected cancellation to surface an error")
	}
}

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/eventline/internal/astro/catalog"
	coreephemeris "github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/eventbus"
)

type fakeLoader struct {
	view coreephemeris.View
	err  error
}

func (f *fakeLoader) Fetch(ctx context.Context, bodies []catalog.Body, start, end time.Time) (coreephemeris.View, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func minute(i int) time.Time {
	return time.Date(2026, 3, 1, 0, i, 0, 0, time.UTC)
}

func fullSample(lon float64) coreephemeris.Sample {
	zero, elev, dist, diam, illum := 0.0, -45.0, 1.0, 0.5, 0.5
	return coreephemeris.Sample{
		Longitude: &lon, Latitude: &zero, Azimuth: &zero,
		Elevation: &elev, Illumination: &illum, Distance: &dist, Diameter: &diam,
	}
}

func waitForTerminal(t *testing.T, e *Engine, id string) *Run {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		run, ok := e.Get(id)
		require.True(t, ok, "run %s not found", id)
		if run.Status == StatusCompleted || run.Status == StatusFailed {
			return run
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("run %s did not reach a terminal state in time", id)
	return nil
}

func TestEngineSubmitCompletesSuccessfully(t *testing.T) {
	v := coreephemeris.NewMapView()
	for i := 0; i <= 2; i++ {
		v.Set(catalog.Sun, minute(i), fullSample(0))
		v.Set(catalog.Moon, minute(i), fullSample(90))
	}

	e := New(&fakeLoader{view: v}, eventbus.NewInMemoryBus())
	id, err := e.Submit(RunRequest{
		Start:  minute(0),
		End:    minute(2),
		Bodies: []catalog.Body{catalog.Sun, catalog.Moon},
	})
	require.NoError(t, err)

	run := waitForTerminal(t, e, id)
	require.Equal(t, StatusCompleted, run.Status, "run error: %v", run.Err)
	assert.Equal(t, "healthy", e.Health().Status)
}

func TestEngineSubmitReportsLoaderFailure(t *testing.T) {
	e := New(&fakeLoader{err: errors.New("upstream down")}, nil)
	id, err := e.Submit(RunRequest{Start: minute(0), End: minute(1), Bodies: []catalog.Body{catalog.Sun}})
	require.NoError(t, err)

	run := waitForTerminal(t, e, id)
	assert.Equal(t, StatusFailed, run.Status)
	assert.Equal(t, "degraded", e.Health().Status)
}

func TestEngineGetUnknownRun(t *testing.T) {
	e := New(&fakeLoader{}, nil)
	_, ok := e.Get("nonexistent")
	assert.False(t, ok)
}

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skywatch/eventline/internal/api/websocket"
	"github.com/skywatch/eventline/internal/astro/catalog"
	coreephemeris "github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/engine"
	"github.com/skywatch/eventline/internal/eventbus"
)

type fakeLoader struct{ view coreephemeris.View }

func (f *fakeLoader) Fetch(ctx context.Context, bodies []catalog.Body, start, end time.Time) (coreephemeris.View, error) {
	return f.view, nil
}

func buildView() coreephemeris.View {
	v := coreephemeris.NewMapView()
	lon := func(x float64) *float64 { return &x }
	sample := func(l float64) coreephemeris.Sample {
		z := 0.0
		return coreephemeris.Sample{Longitude: lon(l), Latitude: &z, Azimuth: &z, Elevation: &z, Illumination: &z, Distance: lon(1), Diameter: lon(0.5)}
	}
	for i := 0; i <= 2; i++ {
		ts := time.Date(2026, 3, 1, 0, i, 0, 0, time.UTC)
		v.Set(catalog.Sun, ts, sample(0))
		v.Set(catalog.Moon, ts, sample(90))
	}
	return v
}

func testServer() *Server {
	eng := engine.New(&fakeLoader{view: buildView()}, eventbus.NewInMemoryBus())
	return NewServer(eng, websocket.NewHub())
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateRunRejectsInvalidBody(t *testing.T) {
	s := testServer()
	body := []byte(`{"start":"2026-03-01T00:00:00Z","end":"2026-03-01T00:02:00Z","bodies":["Nonexistent"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unknown body, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateRunAndPollEvents(t *testing.T) {
	s := testServer()
	body := []byte(`{"start":"2026-03-01T00:00:00Z","end":"2026-03-01T00:02:00Z","bodies":["Sun","Moon"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var created runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	var last *httptest.ResponseRecorder
	for time.Now().Before(deadline) {
		getReq := httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+created.ID+"/events", nil)
		last = httptest.NewRecorder()
		s.Router().ServeHTTP(last, getReq)
		if last.Code == http.StatusOK {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("run never completed, last response: %d %s", last.Code, last.Body.String())
}

func TestGetRunUnknownID(t *testing.T) {
	s := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/does-not-exist", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

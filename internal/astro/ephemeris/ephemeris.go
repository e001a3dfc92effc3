// Package ephemeris defines the read-only accessor the detection engine
// consumes for per-body, per-minute samples. It never fetches, parses,
// or caches anything itself — that is the external collaborator's job
// (see internal/adapter/ephemeris) — it only defines the narrow surface
// the driver and detectors are allowed to call.
package ephemeris

import (
	"fmt"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
)

// Field identifies which sample field was missing, for a MissingSample
// error's structured context.
type Field int

const (
	Longitude Field = iota
	Latitude
	Azimuth
	Elevation
	Illumination
	Distance
	Diameter
)

func (f Field) String() string {
	switch f {
	case Longitude:
		return "longitude"
	case Latitude:
		return "latitude"
	case Azimuth:
		return "azimuth"
	case Elevation:
		return "elevation"
	case Illumination:
		return "illumination"
	case Distance:
		return "distance"
	case Diameter:
		return "diameter"
	default:
		return "unknown field"
	}
}

// MissingSampleError is returned when a requested (body, timestamp,
// field) has no datum in the underlying store. It identifies exactly
// what was missing so the driver can log it and skip only the affected
// path, per the engine's recoverable-per-minute-failure policy.
type MissingSampleError struct {
	Body      catalog.Body
	Timestamp time.Time
	Field     Field
}

func (e *MissingSampleError) Error() string {
	return fmt.Sprintf("missing sample: body=%s timestamp=%s field=%s",
		e.Body, e.Timestamp.UTC().Format(time.RFC3339), e.Field)
}

// Is enables errors.Is(err, ephemeris.ErrMissingSample) without pinning
// callers to the exact body/timestamp/field that failed.
func (e *MissingSampleError) Is(target error) bool {
	return target == ErrMissingSample
}

// ErrMissingSample is the sentinel MissingSampleError wraps, for callers
// that only care whether a sample was missing.
var ErrMissingSample = fmt.Errorf("missing sample")

// View is the read-only, shared surface over per-body, per-timestamp
// ephemeris data. Timestamps are always canonical UTC; a View never
// performs timezone conversion. Samples are assumed uniformly spaced at
// one-minute intervals over the range the View was built for.
type View interface {
	Longitude(body catalog.Body, ts time.Time) (float64, error)
	Latitude(body catalog.Body, ts time.Time) (float64, error)
	Azimuth(body catalog.Body, ts time.Time) (float64, error)
	Elevation(body catalog.Body, ts time.Time) (float64, error)
	Illumination(body catalog.Body, ts time.Time) (float64, error)
	Distance(body catalog.Body, ts time.Time) (float64, error)
	Diameter(body catalog.Body, ts time.Time) (float64, error)
}

// Sample is one body's full set of optional per-minute measurements.
// Every field is a pointer so that "absent" is distinguishable from
// "zero" — GetJSON-style round-tripping through the adapter's cache
// relies on that distinction to reconstruct MissingSample failures
// faithfully.
type Sample struct {
	Longitude    *float64
	Latitude     *float64
	Azimuth      *float64
	Elevation    *float64
	Illumination *float64
	Distance     *float64
	Diameter     *float64
}

// MapView is an in-memory View backed by a plain map, the shape the
// adapter layer materializes a fetched range into before handing it to
// the driver. Keys are canonical RFC3339 UTC timestamp strings, matching
// spec's "canonical ISO-8601 UTC timestamp string" key convention.
type MapView struct {
	samples map[catalog.Body]map[string]Sample
}

// NewMapView creates an empty MapView. Callers populate it with Set
// before handing it to the driver.
func NewMapView() *MapView {
	return &MapView{samples: make(map[catalog.Body]map[string]Sample)}
}

// Set records a body's sample at a timestamp, overwriting any prior
// value for that (body, timestamp) pair.
func (v *MapView) Set(body catalog.Body, ts time.Time, s Sample) {
	key := canonicalKey(ts)
	if v.samples[body] == nil {
		v.samples[body] = make(map[string]Sample)
	}
	v.samples[body][key] = s
}

func canonicalKey(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}

func (v *MapView) lookup(body catalog.Body, ts time.Time) (Sample, bool) {
	byTime, ok := v.samples[body]
	if !ok {
		return Sample{}, false
	}
	s, ok := byTime[canonicalKey(ts)]
	return s, ok
}

func (v *MapView) field(body catalog.Body, ts time.Time, field Field, get func(Sample) *float64) (float64, error) {
	s, ok := v.lookup(body, ts)
	if !ok || get(s) == nil {
		return 0, &MissingSampleError{Body: body, Timestamp: ts, Field: field}
	}
	return *get(s), nil
}

func (v *MapView) Longitude(body catalog.Body, ts time.Time) (float64, error) {
	return v.field(body, ts, Longitude, func(s Sample) *float64 { return s.Longitude })
}

func (v *MapView) Latitude(body catalog.Body, ts time.Time) (float64, error) {
	return v.field(body, ts, Latitude, func(s Sample) *float64 { return s.Latitude })
}

func (v *MapView) Azimuth(body catalog.Body, ts time.Time) (float64, error) {
	return v.field(body, ts, Azimuth, func(s Sample) *float64 { return s.Azimuth })
}

func (v *MapView) Elevation(body catalog.Body, ts time.Time) (float64, error) {
	return v.field(body, ts, Elevation, func(s Sample) *float64 { return s.Elevation })
}

func (v *MapView) Illumination(body catalog.Body, ts time.Time) (float64, error) {
	return v.field(body, ts, Illumination, func(s Sample) *float64 { return s.Illumination })
}

func (v *MapView) Distance(body catalog.Body, ts time.Time) (float64, error) {
	return v.field(body, ts, Distance, func(s Sample) *float64 { return s.Distance })
}

func (v *MapView) Diameter(body catalog.Body, ts time.Time) (float64, error) {
	return v.field(body, ts, Diameter, func(s Sample) *float64 { return s.Diameter })
}

// ExpectedSampleCount returns the number of one-minute samples expected
// over [start, end] inclusive: floor((end-start)/60s) + 1. The adapter
// compares a fetched range's populated count against this to detect
// CacheIncomplete.
func ExpectedSampleCount(start, end time.Time) int {
	return int(end.Sub(start)/time.Minute) + 1
}

// Package driver wires every detector package into the minute-by-minute
// loop spec.md §2's "Data flow" paragraph describes: for each minute it
// materializes a (previous, current, next) window from the ephemeris
// view, runs the aspect, cycle, eclipse, and composite pattern
// detectors, accumulates the point events they produce, and runs the
// duration pairer once as a final pass.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/skywatch/eventline/internal/astro/aspect"
	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/cycle"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/event"
	"github.com/skywatch/eventline/internal/astro/pairer"
	"github.com/skywatch/eventline/internal/astro/pattern"
)

// Config bounds one driver invocation.
type Config struct {
	Start  time.Time
	End    time.Time
	Bodies []catalog.Body
	// SubWindow, when nonzero, partitions [Start, End] into disjoint
	// ranges of this duration, each evaluated with a one-minute overlap
	// at its seams so every interior minute still gets a full
	// (previous, current, next) window. Zero means evaluate the whole
	// range as one window.
	SubWindow time.Duration
}

// Run iterates every minute of cfg bounded by the ephemeris view,
// invokes every detector family, and hands the accumulated, paired
// event list to sink. It returns early with an error only on a fatal
// failure (anything that is not a MissingSample); a MissingSample is
// logged at WARN and the affected detector path is skipped for that
// minute.
func Run(ctx context.Context, cfg Config, view ephemeris.View, sink event.Sink) ([]event.Record, error) {
	var raw []event.Record
	var err error

	if cfg.SubWindow <= 0 {
		raw, err = detectWindow(ctx, cfg.Start, cfg.End, cfg.Bodies, view)
	} else {
		raw, err = detectPartitioned(ctx, cfg, view)
	}
	if err != nil {
		return nil, err
	}

	event.SortStable(raw)
	paired := pairer.Pair(raw)

	if sink != nil {
		if err := sink.Emit(paired); err != nil {
			return paired, fmt.Errorf("event sink: %w", err)
		}
	}
	return paired, nil
}

// detectPartitioned runs detectWindow over disjoint sub-ranges of
// cfg.SubWindow with a one-minute overlap at each seam, merging the raw
// point events in range order. Pairing happens once, in Run, over the
// merged result — never per-partition — so a forming/dissolving pair
// whose two halves land in different partitions still pairs correctly.
func detectPartitioned(ctx context.Context, cfg Config, view ephemeris.View) ([]event.Record, error) {
	var all []event.Record
	cursor := cfg.Start
	for cursor.Before(cfg.End) {
		windowEnd := cursor.Add(cfg.SubWindow)
		if windowEnd.After(cfg.End) {
			windowEnd = cfg.End
		}

		seamStart := cursor.Add(-time.Minute)
		if seamStart.Before(cfg.Start) {
			seamStart = cfg.Start
		}
		seamEnd := windowEnd.Add(time.Minute)
		if seamEnd.After(cfg.End) {
			seamEnd = cfg.End
		}

		records, err := detectWindow(ctx, seamStart, seamEnd, cfg.Bodies, view)
		if err != nil {
			return all, err
		}
		all = append(all, filterInRange(records, cursor, windowEnd)...)

		cursor = windowEnd
	}
	return all, nil
}

func filterInRange(records []event.Record, start, end time.Time) []event.Record {
	var out []event.Record
	for _, r := range records {
		if r.Start.Before(start) || !r.Start.Before(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// detectWindow evaluates every minute of (start, end) and returns the
// unpaired point events detectMinute produced, in no particular order.
func detectWindow(ctx context.Context, start, end time.Time, bodies []catalog.Body, view ephemeris.View) ([]event.Record, error) {
	var records []event.Record

	minute := start.Add(time.Minute)
	for !minute.After(end.Add(-time.Minute)) {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		previous := minute.Add(-time.Minute)
		current := minute
		next := minute.Add(time.Minute)

		minuteRecords, err := detectMinute(view, bodies, previous, current, next)
		if err != nil {
			return records, err
		}
		records = append(records, minuteRecords...)

		minute = minute.Add(time.Minute)
	}

	return records, nil
}

// detectMinute runs every detector family at one (previous, current,
// next) window. A MissingSample failure from any individual detector
// call is logged and skipped; any other error aborts the run.
func detectMinute(view ephemeris.View, bodies []catalog.Body, previous, current, next time.Time) ([]event.Record, error) {
	var records []event.Record

	edges, failures := aspect.DetectMinute(view, bodies, previous, current, next)
	for _, f := range failures {
		logMissingSample(f.Err, "aspect detector", "body1", f.Body1, "body2", f.Body2)
	}
	for _, e := range edges {
		records = append(records, aspectToRecord(e))
	}

	matches, err := pattern.DetectAll(view, bodies, previous, current, next)
	if !handleErr(err, "pattern detector") {
		return records, err
	}
	for _, m := range matches {
		records = append(records, patternToRecord(m))
	}

	stelliums, err := pattern.DetectStellium(view, bodies, previous, current, next)
	if !handleErr(err, "stellium detector") {
		return records, err
	}
	for _, m := range stelliums {
		records = append(records, patternToRecord(m))
	}

	for _, b := range []catalog.Body{catalog.Sun, catalog.Moon} {
		horizonEvents, err := cycle.DetectDaily(view, b, previous, current, next)
		if !handleErr(err, "daily cycle detector") {
			return records, err
		}
		for _, h := range horizonEvents {
			records = append(records, horizonToRecord(h))
		}
	}

	lunarPhases, err := cycle.DetectLunarPhase(view, previous, current, next)
	if !handleErr(err, "lunar phase detector") {
		return records, err
	}
	for _, p := range lunarPhases {
		records = append(records, lunarPhaseToRecord(p))
	}

	for _, b := range []catalog.Body{catalog.Mercury, catalog.Venus, catalog.Mars} {
		planetPhases, err := cycle.DetectPlanetaryPhase(view, b, previous, current, next)
		if !handleErr(err, "planetary phase detector") {
			return records, err
		}
		for _, p := range planetPhases {
			records = append(records, planetaryPhaseToRecord(p))
		}
	}

	eclipses, err := cycle.DetectEclipse(view, previous, current, next)
	if !handleErr(err, "eclipse detector") {
		return records, err
	}
	for _, e := range eclipses {
		records = append(records, eclipseToRecord(e))
	}

	apsides, err := cycle.DetectApsides(view, bodies, previous, current, next)
	if !handleErr(err, "apsis detector") {
		return records, err
	}
	for _, a := range apsides {
		records = append(records, apsisToRecord(a))
	}

	return records, nil
}

// handleErr reports whether the caller should keep going: true means
// either no error, or a MissingSample that was logged and should be
// treated as "this detector produced nothing this minute". false means
// a fatal error the caller must propagate.
func handleErr(err error, detector string) bool {
	if err == nil {
		return true
	}
	var missing *ephemeris.MissingSampleError
	if errors.As(err, &missing) {
		logMissingSample(err, detector)
		return true
	}
	return false
}

func logMissingSample(err error, detector string, extra ...any) {
	args := append([]any{"detector", detector, "error", err}, extra...)
	slog.Warn("missing ephemeris sample", args...)
}

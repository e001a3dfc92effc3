package pairer

import (
	"testing"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/event"
)

func ts(i int) time.Time {
	return time.Date(2026, 5, 1, 0, i, 0, 0, time.UTC)
}

func aspectRecord(phase catalog.AspectPhase, start time.Time, summary string) event.Record {
	a := catalog.Trine
	p := phase
	return event.Record{
		Kind:        event.KindAspect,
		Start:       start,
		End:         start,
		Bodies:      []catalog.Body{catalog.Sun, catalog.Moon},
		Aspect:      &a,
		AspectPhase: &p,
		Summary:     summary,
	}
}

func TestPairFormingDissolving(t *testing.T) {
	forming := aspectRecord(catalog.Forming, ts(0), "→ Sun trine Moon")
	dissolving := aspectRecord(catalog.Dissolving, ts(10), "← Sun trine Moon")

	out := Pair([]event.Record{forming, dissolving})

	if len(out) != 1 {
		t.Fatalf("expected one interval event, got %d: %+v", len(out), out)
	}
	got := out[0]
	if !got.Start.Equal(ts(0)) || !got.End.Equal(ts(10)) {
		t.Errorf("expected interval [0,10], got [%v,%v]", got.Start, got.End)
	}
	if got.Summary != "Sun trine Moon" {
		t.Errorf("expected phase marker stripped, got %q", got.Summary)
	}
	if got.AspectPhase != nil {
		t.Errorf("expected interval event to drop AspectPhase, got %v", *got.AspectPhase)
	}
}

func TestPairRejectsOutOfOrderDissolving(t *testing.T) {
	forming := aspectRecord(catalog.Forming, ts(10), "→ Sun trine Moon")
	dissolving := aspectRecord(catalog.Dissolving, ts(5), "← Sun trine Moon")

	out := Pair([]event.Record{forming, dissolving})

	if len(out) != 2 {
		t.Fatalf("expected both events to remain unpaired, got %d: %+v", len(out), out)
	}
	for _, r := range out {
		if !r.IsPoint() {
			t.Errorf("expected unpaired record to remain a point event, got %+v", r)
		}
	}
}

func TestPairUnmatchedFormingRemainsPoint(t *testing.T) {
	forming := aspectRecord(catalog.Forming, ts(0), "→ Sun trine Moon")

	out := Pair([]event.Record{forming})

	if len(out) != 1 {
		t.Fatalf("expected the lone forming event to pass through, got %d", len(out))
	}
	if !out[0].IsPoint() {
		t.Errorf("expected unmatched forming event to remain a point event")
	}
}

func TestPairRoundTrip(t *testing.T) {
	// Round-trip property from the testable-properties list: pairing
	// and then reading back {start, end} reproduces the original
	// forming/dissolving timestamps.
	formingTS := ts(3)
	dissolvingTS := ts(20)
	forming := aspectRecord(catalog.Forming, formingTS, "→ Sun trine Moon")
	dissolving := aspectRecord(catalog.Dissolving, dissolvingTS, "← Sun trine Moon")

	out := Pair([]event.Record{forming, dissolving})
	if len(out) != 1 {
		t.Fatalf("expected one interval, got %d", len(out))
	}
	if !out[0].Start.Equal(formingTS) || !out[0].End.Equal(dissolvingTS) {
		t.Errorf("round-trip failed: got start=%v end=%v", out[0].Start, out[0].End)
	}
}

func lunarPhaseRecord(kind string, phase catalog.AspectPhase, start time.Time, summary string) event.Record {
	p := phase
	return event.Record{
		Kind:        event.KindLunarPhase,
		Start:       start,
		End:         start,
		Bodies:      []catalog.Body{catalog.Moon},
		AspectPhase: &p,
		Summary:     summary,
		Categories:  []string{"lunar-phase", kind},
	}
}

func TestPairLunarPhaseSameKindPairs(t *testing.T) {
	forming := lunarPhaseRecord("new moon", catalog.Forming, ts(0), "→ Moon new moon")
	dissolving := lunarPhaseRecord("new moon", catalog.Dissolving, ts(10), "← Moon new moon")

	out := Pair([]event.Record{forming, dissolving})

	if len(out) != 1 {
		t.Fatalf("expected one interval event for matching lunar-phase kinds, got %d: %+v", len(out), out)
	}
	if !out[0].Start.Equal(ts(0)) || !out[0].End.Equal(ts(10)) {
		t.Errorf("expected interval [0,10], got [%v,%v]", out[0].Start, out[0].End)
	}
}

func TestPairDoesNotCrossLunarPhaseKinds(t *testing.T) {
	// EquivalenceKey shares event.KindLunarPhase across all four phase
	// kinds, so the sub-kind in Categories must keep them from zipping
	// together — a forming NewMoon must never pair with a dissolving
	// FirstQuarter just because they share a Kind and a body.
	forming := lunarPhaseRecord("new moon", catalog.Forming, ts(0), "→ Moon new moon")
	dissolving := lunarPhaseRecord("first quarter", catalog.Dissolving, ts(10), "← Moon first quarter")

	out := Pair([]event.Record{forming, dissolving})

	if len(out) != 2 {
		t.Fatalf("expected both events to remain unpaired across distinct lunar-phase kinds, got %d: %+v", len(out), out)
	}
	for _, r := range out {
		if !r.IsPoint() {
			t.Errorf("expected unpaired record to remain a point event, got %+v", r)
		}
	}
}

func TestPairExactEventsPassThrough(t *testing.T) {
	exact := aspectRecord(catalog.Exact, ts(5), "🎯 Sun trine Moon")
	out := Pair([]event.Record{exact})

	if len(out) != 1 || out[0].Summary != "🎯 Sun trine Moon" {
		t.Errorf("expected exact event untouched, got %+v", out)
	}
}

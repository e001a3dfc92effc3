// Package pairer folds the forming/dissolving point events every other
// detector emits into interval events: one run's worth of point events
// in, the same events out except each matched forming/dissolving
// pair collapses into a single interval with a start and an end.
package pairer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/event"
)

// EquivalenceKey returns the key a record is grouped by before pairing:
// aspects key on (canonical body pair, aspect); patterns key on (sorted
// body tuple, pattern name); everything else (cycles, phases, eclipses)
// keys on (kind, bodies, full category tuple), since the specific
// sub-kind of those families — which lunar phase, which eclipse variant
// — is carried somewhere in Categories rather than a typed field on
// Record, and its position within Categories varies by family (e.g.
// lunar-phase puts the kind at index 1, apsis at index 2). Joining the
// whole tuple keys every family correctly without depending on a fixed
// index.
func EquivalenceKey(r event.Record) string {
	bodies := make([]catalog.Body, len(r.Bodies))
	copy(bodies, r.Bodies)
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].Index() < bodies[j].Index() })

	switch {
	case r.Aspect != nil:
		return fmt.Sprintf("aspect|%v|%d", bodies, int(*r.Aspect))
	case r.Pattern != nil:
		return fmt.Sprintf("pattern|%v|%d", bodies, int(*r.Pattern))
	default:
		return fmt.Sprintf("%s|%v|%s", r.Kind, bodies, strings.Join(r.Categories, "/"))
	}
}

func isFormingLike(r event.Record) bool {
	if r.AspectPhase != nil {
		return *r.AspectPhase == catalog.Forming
	}
	if r.EventPhase != nil {
		return *r.EventPhase == catalog.Beginning
	}
	return false
}

func isDissolvingLike(r event.Record) bool {
	if r.AspectPhase != nil {
		return *r.AspectPhase == catalog.Dissolving
	}
	if r.EventPhase != nil {
		return *r.EventPhase == catalog.Ending
	}
	return false
}

var markerPrefixes = []string{"→ ", "🎯 ", "← ", "▶ ", "◀ "}

func stripPhaseMarker(summary string) string {
	for _, p := range markerPrefixes {
		if strings.HasPrefix(summary, p) {
			return strings.TrimPrefix(summary, p)
		}
	}
	return summary
}

// Pair groups records by EquivalenceKey and, within each group, zips the
// timestamp-sorted forming-like sequence against the timestamp-sorted
// dissolving-like sequence: the i-th forming pairs with the i-th
// dissolving only if the dissolving timestamp strictly follows it. A
// pair that fails that check, and any events beyond the shorter
// sequence's length, are returned unmodified as point events.
//
// Records that are neither forming-like nor dissolving-like (exact,
// maximum, and anything point-only) pass through untouched.
func Pair(records []event.Record) []event.Record {
	forming := make(map[string][]event.Record)
	dissolving := make(map[string][]event.Record)
	var passthrough []event.Record

	for _, r := range records {
		switch {
		case isFormingLike(r):
			key := EquivalenceKey(r)
			forming[key] = append(forming[key], r)
		case isDissolvingLike(r):
			key := EquivalenceKey(r)
			dissolving[key] = append(dissolving[key], r)
		default:
			passthrough = append(passthrough, r)
		}
	}

	var out []event.Record
	out = append(out, passthrough...)

	seen := make(map[string]bool)
	for key := range forming {
		seen[key] = true
	}
	for key := range dissolving {
		seen[key] = true
	}

	for key := range seen {
		f := forming[key]
		d := dissolving[key]
		sort.Slice(f, func(i, j int) bool { return f[i].Start.Before(f[j].Start) })
		sort.Slice(d, func(i, j int) bool { return d[i].Start.Before(d[j].Start) })

		n := len(f)
		if len(d) < n {
			n = len(d)
		}

		usedF := make([]bool, len(f))
		usedD := make([]bool, len(d))

		for i := 0; i < n; i++ {
			if d[i].Start.After(f[i].Start) {
				out = append(out, toInterval(f[i], d[i]))
				usedF[i] = true
				usedD[i] = true
			}
		}

		for i, r := range f {
			if !usedF[i] {
				out = append(out, r)
			}
		}
		for i, r := range d {
			if !usedD[i] {
				out = append(out, r)
			}
		}
	}

	event.SortStable(out)
	return out
}

func toInterval(forming, dissolving event.Record) event.Record {
	r := forming
	r.Start = forming.Start
	r.End = dissolving.Start
	r.Summary = stripPhaseMarker(forming.Summary)
	r.AspectPhase = nil
	r.EventPhase = nil
	return r
}

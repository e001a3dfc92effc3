// Package aspect implements the pairwise aspect detector: for every
// ordered body pair and every aspect angle, it turns three adjacent
// ecliptic-longitude samples into at most one point event per
// (pair, minute), tagged forming/exact/dissolving.
package aspect

import (
	"sort"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/discriminator"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// Edge is the intermediate record the pattern engine and duration pairer
// both consume: a canonicalized (sorted) body pair, the aspect that
// matched, the minute it matched at, and its phase.
type Edge struct {
	Body1     catalog.Body
	Body2     catalog.Body
	Aspect    catalog.Aspect
	Timestamp time.Time
	Phase     catalog.AspectPhase
}

func phaseOf(p discriminator.Phase) (catalog.AspectPhase, bool) {
	switch p {
	case discriminator.Forming:
		return catalog.Forming, true
	case discriminator.Exact:
		return catalog.Exact, true
	case discriminator.Dissolving:
		return catalog.Dissolving, true
	default:
		return 0, false
	}
}

// Pairs enumerates every unordered pair of bodies, canonicalized so that
// body1.Index() < body2.Index(), in catalog order.
func Pairs(bodies []catalog.Body) [][2]catalog.Body {
	sorted := append([]catalog.Body(nil), bodies...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Index() < sorted[j].Index() })

	combos := mathkernel.Combinations(sorted, 2)
	pairs := make([][2]catalog.Body, 0, len(combos))
	for _, c := range combos {
		pairs = append(pairs, [2]catalog.Body{c[0], c[1]})
	}
	return pairs
}

// DetectPair evaluates every aspect, in major → minor → specialty and
// then declared canonical order within each family, against the
// separation of (body1, body2) at previous/current/next. It returns at
// most one edge: the first aspect whose phase is non-null. Orbs within a
// family do not overlap; where orbs of different families overlap (e.g.
// semisextile and undecile near 32°), the earlier family wins.
//
// A missing sample for body1 or body2 at any of the three minutes fails
// only this pair's computation for this minute; the caller is expected
// to record the error and continue with other pairs.
func DetectPair(view ephemeris.View, body1, body2 catalog.Body, previous, current, next time.Time) (*Edge, error) {
	sepAt := func(ts time.Time) (float64, error) {
		lon1, err := view.Longitude(body1, ts)
		if err != nil {
			return 0, err
		}
		lon2, err := view.Longitude(body2, ts)
		if err != nil {
			return 0, err
		}
		return mathkernel.ShortestArc(lon1, lon2), nil
	}

	sepPrev, err := sepAt(previous)
	if err != nil {
		return nil, err
	}
	sepCur, err := sepAt(current)
	if err != nil {
		return nil, err
	}
	sepNext, err := sepAt(next)
	if err != nil {
		return nil, err
	}

	w := discriminator.Window{Previous: sepPrev, Current: sepCur, Next: sepNext}

	for _, family := range catalog.FamilyOrder() {
		for _, a := range family {
			angle, err := a.Angle()
			if err != nil {
				return nil, err
			}
			orb, err := a.Orb()
			if err != nil {
				return nil, err
			}

			result := discriminator.Classify(w, angle, orb, a.IsSymmetric())
			phase, ok := phaseOf(result)
			if !ok {
				continue
			}

			return &Edge{
				Body1:     body1,
				Body2:     body2,
				Aspect:    a,
				Timestamp: current,
				Phase:     phase,
			}, nil
		}
	}

	return nil, nil
}

// PairFailure records that a given pair's computation failed for a
// minute (typically MissingSample), so the driver can log it and move
// on without losing the rest of the minute's work.
type PairFailure struct {
	Body1, Body2 catalog.Body
	Err          error
}

// DetectMinute evaluates every eligible body pair at one minute and
// returns the edges found plus any per-pair failures. It never aborts
// on a failure — a bad pair is recorded and skipped.
func DetectMinute(view ephemeris.View, bodies []catalog.Body, previous, current, next time.Time) ([]Edge, []PairFailure) {
	var edges []Edge
	var failures []PairFailure

	for _, pair := range Pairs(bodies) {
		edge, err := DetectPair(view, pair[0], pair[1], previous, current, next)
		if err != nil {
			failures = append(failures, PairFailure{Body1: pair[0], Body2: pair[1], Err: err})
			continue
		}
		if edge != nil {
			edges = append(edges, *edge)
		}
	}

	return edges, failures
}

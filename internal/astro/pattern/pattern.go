// Package pattern implements the composite pattern engine: it composes
// 3- to 6-body chart patterns out of the aspect catalog's fixed edge
// skeletons, under the tie-breaking rules needed to disambiguate
// configurations that share the same body tuple (e.g. Mystic Rectangle
// vs. Hourglass both start from two oppositions).
//
// Existence is always evaluated geometrically against raw longitudes at
// the minute in question — never by reusing the aspect detector's
// cached forming/exact/dissolving edges, which only fire at transition
// minutes, not on every minute a configuration happens to hold.
package pattern

import (
	"math"
	"sort"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// Match is one pattern found at a single minute, with the phase
// assigned by the tightness functional.
type Match struct {
	Pattern   catalog.PatternName
	Bodies    []catalog.Body // canonical order: sorted by catalog index
	Phase     catalog.AspectPhase
	Timestamp time.Time
}

// separations is a memoized shortest-arc lookup over one snapshot's
// longitudes, indexed by position within a fixed candidate tuple.
type separations struct {
	tuple []catalog.Body
	lons  []float64
}

func snapshot(view ephemeris.View, tuple []catalog.Body, ts time.Time) (*separations, error) {
	lons := make([]float64, len(tuple))
	for i, b := range tuple {
		lon, err := view.Longitude(b, ts)
		if err != nil {
			return nil, err
		}
		lons[i] = lon
	}
	return &separations{tuple: tuple, lons: lons}, nil
}

func (s *separations) sep(i, j int) float64 {
	return mathkernel.ShortestArc(s.lons[i], s.lons[j])
}

// requiredAspects returns the distinct aspects a skeleton's edges name.
func requiredAspects(skel catalog.Skeleton) []catalog.Aspect {
	seen := make(map[catalog.Aspect]bool)
	var out []catalog.Aspect
	for _, e := range skel.Edges {
		if !seen[e.Aspect] {
			seen[e.Aspect] = true
			out = append(out, e.Aspect)
		}
	}
	return out
}

// candidatePool restricts the search to bodies that participate in at
// least one in-orb edge of a type the skeleton requires, pruning the
// k-combination search over the full catalog.
func candidatePool(view ephemeris.View, bodies []catalog.Body, skel catalog.Skeleton, ts time.Time) ([]catalog.Body, error) {
	needed := requiredAspects(skel)
	seen := make(map[catalog.Body]bool)
	var pool []catalog.Body

	n := len(bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			lon1, err := view.Longitude(bodies[i], ts)
			if err != nil {
				continue // a missing sample just drops that body from this minute's pool
			}
			lon2, err := view.Longitude(bodies[j], ts)
			if err != nil {
				continue
			}
			sep := mathkernel.ShortestArc(lon1, lon2)

			for _, a := range needed {
				angle, _ := a.Angle()
				orb, _ := a.Orb()
				if math.Abs(sep-angle) <= orb {
					if !seen[bodies[i]] {
						seen[bodies[i]] = true
						pool = append(pool, bodies[i])
					}
					if !seen[bodies[j]] {
						seen[bodies[j]] = true
						pool = append(pool, bodies[j])
					}
				}
			}
		}
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].Index() < pool[j].Index() })
	return pool, nil
}

// bestLabeling tries every symmetric relabeling in skel.Labelings against
// snap and returns whether any satisfies every required edge (and no
// forbidden aspect among any pair of the tuple), plus the matching
// labeling with the lowest tightness.
func bestLabeling(snap *separations, skel catalog.Skeleton) (matched bool, labeling []int, tightness float64) {
	best := math.Inf(1)
	var bestLabel []int

	for _, labeling := range skel.Labelings {
		if !satisfies(snap, skel, labeling) {
			continue
		}
		t := tightnessOf(snap, skel, labeling)
		if t < best {
			best = t
			bestLabel = labeling
		}
	}

	if bestLabel == nil {
		return false, nil, 0
	}
	return true, bestLabel, best
}

func satisfies(snap *separations, skel catalog.Skeleton, labeling []int) bool {
	for _, e := range skel.Edges {
		angle, _ := e.Aspect.Angle()
		orb, _ := e.Aspect.Orb()
		sep := snap.sep(labeling[e.I], labeling[e.J])
		if math.Abs(sep-angle) > orb {
			return false
		}
	}

	for _, forbidden := range skel.Forbidden {
		angle, _ := forbidden.Angle()
		orb, _ := forbidden.Orb()
		n := len(snap.tuple)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.Abs(snap.sep(i, j)-angle) <= orb {
					return false
				}
			}
		}
	}

	return true
}

// tightnessOf sums the absolute deviation of every required edge's
// separation from its aspect's ideal angle, under one fixed labeling.
// This is evaluated independent of whether the pattern "exists" under
// that labeling — it is also used to score previous/next snapshots for
// the exact-phase local-minimum test.
func tightnessOf(snap *separations, skel catalog.Skeleton, labeling []int) float64 {
	sum := 0.0
	for _, e := range skel.Edges {
		angle, _ := e.Aspect.Angle()
		sum += math.Abs(snap.sep(labeling[e.I], labeling[e.J]) - angle)
	}
	return sum
}

// canonicalTuple reorders bodies by catalog index, the deduplication key
// so symmetric relabelings of the same body set never emit more than one
// event.
func canonicalTuple(bodies []catalog.Body) []catalog.Body {
	out := append([]catalog.Body(nil), bodies...)
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// DetectSkeleton searches for one fixed-arity pattern among bodies at
// the minute bounded by (previous, current, next), returning at most one
// Match per canonical body tuple.
func DetectSkeleton(view ephemeris.View, bodies []catalog.Body, skel catalog.Skeleton, previous, current, next time.Time) ([]Match, error) {
	pool, err := candidatePool(view, bodies, skel, current)
	if err != nil {
		return nil, err
	}
	if len(pool) < skel.BodyCount {
		return nil, nil
	}

	var matches []Match
	for _, combo := range mathkernel.Combinations(pool, skel.BodyCount) {
		tuple := canonicalTuple(combo)

		snapCur, err := snapshot(view, tuple, current)
		if err != nil {
			continue // missing sample: skip this candidate, not the whole minute
		}
		existsCur, labelingCur, tightCur := bestLabeling(snapCur, skel)

		snapPrev, err := snapshot(view, tuple, previous)
		existsPrev := false
		if err == nil {
			existsPrev, _, _ = bestLabeling(snapPrev, skel)
		}

		snapNext, err := snapshot(view, tuple, next)
		existsNext := false
		if err == nil {
			existsNext, _, _ = bestLabeling(snapNext, skel)
		}

		forming := !existsPrev && existsCur
		dissolving := existsCur && !existsNext

		exact := false
		if existsCur && snapPrev != nil && snapNext != nil {
			tPrev := tightnessOf(snapPrev, skel, labelingCur)
			tNext := tightnessOf(snapNext, skel, labelingCur)
			exact = tightCur < tPrev && tightCur < tNext
		}

		var phase catalog.AspectPhase
		switch {
		case exact:
			phase = catalog.Exact
		case forming:
			phase = catalog.Forming
		case dissolving:
			phase = catalog.Dissolving
		default:
			continue
		}

		matches = append(matches, Match{Pattern: skel.Name, Bodies: tuple, Phase: phase, Timestamp: current})
	}

	return matches, nil
}

// DetectAll runs every fixed-arity skeleton (everything but Stellium)
// against bodies at the minute bounded by (previous, current, next).
func DetectAll(view ephemeris.View, bodies []catalog.Body, previous, current, next time.Time) ([]Match, error) {
	var all []Match
	for _, skel := range catalog.Skeletons() {
		matches, err := DetectSkeleton(view, bodies, skel, previous, current, next)
		if err != nil {
			return all, err
		}
		all = append(all, matches...)
	}
	return all, nil
}

// Package event defines the immutable records the detection engine
// produces and the Sink contract it hands them to. Nothing here mutates
// after construction: detectors build PointEvents, the duration pairer
// folds some of them into IntervalEvents, and both are handed by value
// to whatever Sink the caller configured.
package event

import (
	"sort"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
)

// Kind identifies which detector family produced an event.
type Kind int

const (
	KindAspect Kind = iota
	KindPattern
	KindSolarCycle
	KindLunarCycle
	KindLunarPhase
	KindPlanetaryPhase
	KindEclipse
	KindApsis
)

func (k Kind) String() string {
	switch k {
	case KindAspect:
		return "aspect"
	case KindPattern:
		return "pattern"
	case KindSolarCycle:
		return "solar-cycle"
	case KindLunarCycle:
		return "lunar-cycle"
	case KindLunarPhase:
		return "lunar-phase"
	case KindPlanetaryPhase:
		return "planetary-phase"
	case KindEclipse:
		return "eclipse"
	case KindApsis:
		return "apsis"
	default:
		return "unknown"
	}
}

// Record is the shape both PointEvent and IntervalEvent share: start and
// end are equal for a point event. Aspect/Phase/EventPhase are optional
// depending on Kind — aspects, patterns, lunar phases and planetary
// rise/set use AspectPhase (forming, exact, dissolving); eclipses use
// EventPhase (beginning, maximum, ending); horizon and apsis records
// carry neither.
type Record struct {
	Kind        Kind
	Start       time.Time
	End         time.Time
	Bodies      []catalog.Body
	Aspect      *catalog.Aspect
	Pattern     *catalog.PatternName
	AspectPhase *catalog.AspectPhase
	EventPhase  *catalog.EventPhase
	Summary     string
	Description string
	Categories  []string
}

// IsPoint reports whether the record's start and end coincide.
func (r Record) IsPoint() bool {
	return r.Start.Equal(r.End)
}

// Sink is the external collaborator the driver hands accumulated events
// to. Calendar serialization and filesystem output live behind whatever
// concrete Sink an adapter implements — the core never writes a file or
// formats an .ics entry itself.
type Sink interface {
	Emit(records []Record) error
}

// SortStable orders records by (timestamp, aspect-family, body pair,
// aspect) as spec's ordering guarantee requires: nondecreasing
// timestamp, with same-minute ties broken by family/pair/aspect for
// determinism. Aspect family order follows catalog.FamilyOrder's major →
// minor → specialty declaration.
func SortStable(records []Record) {
	familyRank := make(map[catalog.Aspect]int)
	for famIdx, family := range catalog.FamilyOrder() {
		for order, a := range family {
			familyRank[a] = famIdx*1000 + order
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		ar, br := aspectRank(a, familyRank), aspectRank(b, familyRank)
		if af, bf := familyOfRank(ar), familyOfRank(br); af != bf {
			return af < bf
		}
		if bodiesLess(a.Bodies, b.Bodies) || bodiesLess(b.Bodies, a.Bodies) {
			return bodiesLess(a.Bodies, b.Bodies)
		}
		return ar < br
	})
}

func familyOfRank(rank int) int {
	if rank < 0 {
		return -1
	}
	return rank / 1000
}

func aspectRank(r Record, familyRank map[catalog.Aspect]int) int {
	if r.Aspect == nil {
		return -1
	}
	return familyRank[*r.Aspect]
}

func bodiesLess(a, b []catalog.Body) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

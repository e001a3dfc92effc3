package cycle

import (
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/discriminator"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// LunarPhaseKind names one of the four monthly lunar phase events.
type LunarPhaseKind int

const (
	NewMoon LunarPhaseKind = iota
	FirstQuarter
	FullMoon
	LastQuarter
)

func (k LunarPhaseKind) String() string {
	switch k {
	case NewMoon:
		return "new moon"
	case FirstQuarter:
		return "first quarter"
	case FullMoon:
		return "full moon"
	case LastQuarter:
		return "last quarter"
	default:
		return "unknown"
	}
}

// quarterOrb bounds how far from exact half-illumination a sample may
// sit and still count as a quarter-moon crossing; newFullOrb bounds how
// far from 0 or 1 a sample may sit for new/full moon.
const (
	quarterOrb = 0.01
	newFullOrb = 0.01
)

// LunarPhaseEvent is one forming/exact/dissolving firing of a lunar
// phase, adopting the same convention aspects use.
type LunarPhaseEvent struct {
	Kind      LunarPhaseKind
	Phase     catalog.AspectPhase
	Timestamp time.Time
}

// DetectLunarPhase evaluates all four lunar phase kinds against the
// Moon's illumination fraction at previous/current/next.
func DetectLunarPhase(view ephemeris.View, previous, current, next time.Time) ([]LunarPhaseEvent, error) {
	illumAt := func(ts time.Time) (float64, error) {
		return view.Illumination(catalog.Moon, ts)
	}

	iPrev, err := illumAt(previous)
	if err != nil {
		return nil, err
	}
	iCur, err := illumAt(current)
	if err != nil {
		return nil, err
	}
	iNext, err := illumAt(next)
	if err != nil {
		return nil, err
	}

	var events []LunarPhaseEvent

	// New moon: illumination bottoms out near 0, the same bounce rule
	// conjunction uses.
	if phase, ok := boundedExtremum(iPrev, iCur, iNext, 0, newFullOrb, true); ok {
		events = append(events, LunarPhaseEvent{Kind: NewMoon, Phase: phase, Timestamp: current})
	}

	// Full moon: illumination peaks near 1, the mirror-image bounce.
	if phase, ok := boundedExtremum(iPrev, iCur, iNext, 1, newFullOrb, false); ok {
		events = append(events, LunarPhaseEvent{Kind: FullMoon, Phase: phase, Timestamp: current})
	}

	// Quarters: ordinary signed zero-crossing of illumination around
	// 0.5 — waxing crossing is the first quarter, waning is the last.
	w := discriminator.Window{Previous: iPrev, Current: iCur, Next: iNext}
	result := discriminator.Classify(w, 0.5, quarterOrb, false)
	if phase, ok := phaseOf(result); ok {
		kind := FirstQuarter
		if iCur-iPrev < 0 {
			kind = LastQuarter
		}
		events = append(events, LunarPhaseEvent{Kind: kind, Phase: phase, Timestamp: current})
	}

	return events, nil
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

// boundedExtremum tests a quantity bounded at one end (0 or 1, as
// illumination is) for a forming/exact/dissolving transition against
// that bound: exact is a local minimum when bouncing off the low bound,
// a local maximum when bouncing off the high bound.
func boundedExtremum(prev, cur, next, bound, orb float64, lowBound bool) (catalog.AspectPhase, bool) {
	curInOrb := absWithin(cur, bound, orb)
	if !curInOrb {
		return 0, false
	}

	w := mathkernel.Window{Previous: prev, Current: cur, Next: next}
	var exact bool
	if lowBound {
		exact = w.IsMinimum()
	} else {
		exact = w.IsMaximum()
	}
	if exact {
		return catalog.Exact, true
	}

	prevInOrb := absWithin(prev, bound, orb)
	nextInOrb := absWithin(next, bound, orb)
	switch {
	case !prevInOrb && curInOrb:
		return catalog.Forming, true
	case curInOrb && !nextInOrb:
		return catalog.Dissolving, true
	default:
		return 0, false
	}
}

func absWithin(x, target, orb float64) bool {
	d := x - target
	if d < 0 {
		d = -d
	}
	return d <= orb
}

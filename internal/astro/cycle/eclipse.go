package cycle

import (
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// EclipseKind distinguishes solar (Sun-Moon conjunction) from lunar
// (Sun-Moon opposition) eclipses.
type EclipseKind int

const (
	SolarEclipse EclipseKind = iota
	LunarEclipse
)

func (k EclipseKind) String() string {
	if k == LunarEclipse {
		return "lunar eclipse"
	}
	return "solar eclipse"
}

// EclipseEvent is one beginning/maximum/ending firing of an eclipse.
type EclipseEvent struct {
	Kind      EclipseKind
	Phase     catalog.EventPhase
	Timestamp time.Time
}

// alignmentDeviation folds the Sun-Moon longitude separation against a
// target alignment (0 for conjunction, 180 for opposition) into a
// single quantity that dips to zero exactly at alignment, whichever
// target is in play — |sep - target| reduces to sep itself at target 0
// and to (180 - sep) at target 180, since sep is already bounded to
// [0, 180] by ShortestArc.
func alignmentDeviation(sep, target float64) float64 {
	d := sep - target
	if d < 0 {
		d = -d
	}
	return d
}

// DetectEclipse tests both solar and lunar eclipse alignment at the
// minute bounded by (previous, current, next). The combined apparent
// diameter of Sun and Moon at the current minute doubles as both the
// orb for the longitude alignment test and the latitude gate: true
// eclipses additionally require the two bodies' ecliptic latitudes to
// sit within that same diameter of each other.
func DetectEclipse(view ephemeris.View, previous, current, next time.Time) ([]EclipseEvent, error) {
	sepAt := func(ts time.Time) (float64, error) {
		sunLon, err := view.Longitude(catalog.Sun, ts)
		if err != nil {
			return 0, err
		}
		moonLon, err := view.Longitude(catalog.Moon, ts)
		if err != nil {
			return 0, err
		}
		return mathkernel.ShortestArc(sunLon, moonLon), nil
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

	diamSun, err := view.Diameter(catalog.Sun, current)
	if err != nil {
		return nil, err
	}
	diamMoon, err := view.Diameter(catalog.Moon, current)
	if err != nil {
		return nil, err
	}
	combined := diamSun + diamMoon

	latSun, err := view.Latitude(catalog.Sun, current)
	if err != nil {
		return nil, err
	}
	latMoon, err := view.Latitude(catalog.Moon, current)
	if err != nil {
		return nil, err
	}
	latGate := absVal(latSun-latMoon) <= combined

	var events []EclipseEvent
	if !latGate {
		return events, nil
	}

	for _, kind := range []struct {
		k      EclipseKind
		target float64
	}{
		{SolarEclipse, 0},
		{LunarEclipse, 180},
	} {
		dPrev := alignmentDeviation(sepPrev, kind.target)
		dCur := alignmentDeviation(sepCur, kind.target)
		dNext := alignmentDeviation(sepNext, kind.target)

		if dCur > combined {
			continue
		}

		w := mathkernel.Window{Previous: dPrev, Current: dCur, Next: dNext}
		switch {
		case w.IsMinimum():
			events = append(events, EclipseEvent{Kind: kind.k, Phase: catalog.Maximum, Timestamp: current})
		case dPrev > combined && dCur <= combined:
			events = append(events, EclipseEvent{Kind: kind.k, Phase: catalog.Beginning, Timestamp: current})
		case dCur <= combined && dNext > combined:
			events = append(events, EclipseEvent{Kind: kind.k, Phase: catalog.Ending, Timestamp: current})
		}
	}

	return events, nil
}

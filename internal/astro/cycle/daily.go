// Package cycle implements the daily solar/lunar rise-zenith-set-nadir
// cycle, the monthly lunar phase cycle, planetary phase events for the
// inner/outer visible planets, eclipses, and apsides — everything in
// spec §4.7 that is not an aspect between two bodies but still reduces
// to a local-extremum or threshold-crossing test on a per-minute stream.
package cycle

import (
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// HorizonEventKind names which of the four daily horizon/culmination
// events fired.
type HorizonEventKind int

const (
	Rise HorizonEventKind = iota
	Set
	Zenith
	Nadir
)

func (k HorizonEventKind) String() string {
	switch k {
	case Rise:
		return "rise"
	case Set:
		return "set"
	case Zenith:
		return "zenith"
	case Nadir:
		return "nadir"
	default:
		return "unknown"
	}
}

// HorizonEvent is one rise/set/zenith/nadir firing for a body at a
// minute.
type HorizonEvent struct {
	Body      catalog.Body
	Kind      HorizonEventKind
	Timestamp time.Time
}

// SunRadiusDegrees is the 16-arcminute horizon-dip threshold spec uses
// for both Sun and Moon rise/set, even though the Moon's mean apparent
// radius (~15') differs slightly. Preserved verbatim per spec's open
// question — not "fixed" to per-body values absent product confirmation.
const SunRadiusDegrees = 16.0 / 60.0

// DetectDaily evaluates rise/set/zenith/nadir for one body's elevation
// stream. At most one of {rise, set} and at most one of {zenith, nadir}
// fire per minute; both a horizon crossing and an extremum may fire
// together.
func DetectDaily(view ephemeris.View, body catalog.Body, previous, current, next time.Time) ([]HorizonEvent, error) {
	elevPrev, err := view.Elevation(body, previous)
	if err != nil {
		return nil, err
	}
	elevCur, err := view.Elevation(body, current)
	if err != nil {
		return nil, err
	}
	elevNext, err := view.Elevation(body, next)
	if err != nil {
		return nil, err
	}

	var events []HorizonEvent
	const r = SunRadiusDegrees

	switch {
	case elevPrev < -r && elevCur >= -r:
		events = append(events, HorizonEvent{Body: body, Kind: Rise, Timestamp: current})
	case elevPrev > -r && elevCur <= -r:
		events = append(events, HorizonEvent{Body: body, Kind: Set, Timestamp: current})
	}

	w := mathkernel.Window{Previous: elevPrev, Current: elevCur, Next: elevNext}
	switch {
	case w.IsMaximum():
		events = append(events, HorizonEvent{Body: body, Kind: Zenith, Timestamp: current})
	case w.IsMinimum():
		events = append(events, HorizonEvent{Body: body, Kind: Nadir, Timestamp: current})
	}

	return events, nil
}

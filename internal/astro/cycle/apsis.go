package cycle

import (
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// ApsisKind names a body's distance extremum. The Moon uses the lunar
// perigee/apogee names; every other eligible body uses the general
// perihelion/aphelion names.
type ApsisKind int

const (
	Perigee ApsisKind = iota
	Apogee
	Perihelion
	Aphelion
)

func (k ApsisKind) String() string {
	switch k {
	case Perigee:
		return "perigee"
	case Apogee:
		return "apogee"
	case Perihelion:
		return "perihelion"
	case Aphelion:
		return "aphelion"
	default:
		return "unknown"
	}
}

// ApsisEvent is one distance-extremum firing for a body.
type ApsisEvent struct {
	Body      catalog.Body
	Kind      ApsisKind
	Timestamp time.Time
}

// DetectApsis evaluates the distance extremum for one body eligible for
// apsis events at the minute bounded by (previous, current, next).
func DetectApsis(view ephemeris.View, body catalog.Body, previous, current, next time.Time) (*ApsisEvent, error) {
	if !catalog.EligibleForApsis(body) {
		return nil, nil
	}

	dPrev, err := view.Distance(body, previous)
	if err != nil {
		return nil, err
	}
	dCur, err := view.Distance(body, current)
	if err != nil {
		return nil, err
	}
	dNext, err := view.Distance(body, next)
	if err != nil {
		return nil, err
	}

	w := mathkernel.Window{Previous: dPrev, Current: dCur, Next: dNext}

	near, far := Perihelion, Aphelion
	if body == catalog.Moon {
		near, far = Perigee, Apogee
	}

	switch {
	case w.IsMinimum():
		return &ApsisEvent{Body: body, Kind: near, Timestamp: current}, nil
	case w.IsMaximum():
		return &ApsisEvent{Body: body, Kind: far, Timestamp: current}, nil
	default:
		return nil, nil
	}
}

// DetectApsides evaluates every eligible body's distance extremum at the
// minute bounded by (previous, current, next).
func DetectApsides(view ephemeris.View, bodies []catalog.Body, previous, current, next time.Time) ([]ApsisEvent, error) {
	var events []ApsisEvent
	for _, b := range bodies {
		evt, err := DetectApsis(view, b, previous, current, next)
		if err != nil {
			return events, err
		}
		if evt != nil {
			events = append(events, *evt)
		}
	}
	return events, nil
}

package cycle

import (
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// PlanetaryPhaseKind names one of the inner/outer-planet visibility
// phase events, all derived from elongation, illumination, and distance.
type PlanetaryPhaseKind int

const (
	InferiorConjunction PlanetaryPhaseKind = iota
	SuperiorConjunction
	GreatestElongationEast
	GreatestElongationWest
	MorningRise
	MorningSet
	EveningRise
	EveningSet
	GreatestBrilliancy
)

func (k PlanetaryPhaseKind) String() string {
	switch k {
	case InferiorConjunction:
		return "inferior conjunction"
	case SuperiorConjunction:
		return "superior conjunction"
	case GreatestElongationEast:
		return "greatest eastern elongation"
	case GreatestElongationWest:
		return "greatest western elongation"
	case MorningRise:
		return "morning rise"
	case MorningSet:
		return "morning set"
	case EveningRise:
		return "evening rise"
	case EveningSet:
		return "evening set"
	case GreatestBrilliancy:
		return "greatest brilliancy"
	default:
		return "unknown"
	}
}

// PlanetaryPhaseEvent is one firing of a planetary visibility phase for
// a body. It carries no forming/exact/dissolving tag; the driver derives
// one from Kind when it converts the event to a record.
type PlanetaryPhaseEvent struct {
	Body      catalog.Body
	Kind      PlanetaryPhaseKind
	Timestamp time.Time
}

// eveningThreshold is the apparent-elongation magnitude, in degrees,
// past which an inner planet clears twilight and becomes visible.
const eveningThreshold = 6.0

// signedElongation is positive when body trails the Sun eastward
// (an evening object) and negative when it leads it westward (a
// morning object).
func signedElongation(view ephemeris.View, body catalog.Body, ts time.Time) (float64, error) {
	bodyLon, err := view.Longitude(body, ts)
	if err != nil {
		return 0, err
	}
	sunLon, err := view.Longitude(catalog.Sun, ts)
	if err != nil {
		return 0, err
	}
	return mathkernel.NormalizeForComparison(bodyLon-sunLon, 0), nil
}

// DetectPlanetaryPhase evaluates conjunction, greatest elongation,
// morning/evening rise-set, and greatest brilliancy for one planet
// (the driver calls it for Mercury, Venus and Mars) at the minute bounded by
// (previous, current, next).
func DetectPlanetaryPhase(view ephemeris.View, body catalog.Body, previous, current, next time.Time) ([]PlanetaryPhaseEvent, error) {
	elongAt := func(ts time.Time) (float64, error) { return signedElongation(view, body, ts) }

	ePrev, err := elongAt(previous)
	if err != nil {
		return nil, err
	}
	eCur, err := elongAt(current)
	if err != nil {
		return nil, err
	}
	eNext, err := elongAt(next)
	if err != nil {
		return nil, err
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

	iPrev, err := view.Illumination(body, previous)
	if err != nil {
		return nil, err
	}
	iCur, err := view.Illumination(body, current)
	if err != nil {
		return nil, err
	}
	iNext, err := view.Illumination(body, next)
	if err != nil {
		return nil, err
	}

	var events []PlanetaryPhaseEvent

	// Conjunction: local minimum of |elongation|, the symmetric bounce
	// rule conjunction aspects use. The sign of the distance extremum at
	// the same minute distinguishes inferior (body passing near Earth)
	// from superior (body passing behind the Sun).
	absPrev, absCur, absNext := absVal(ePrev), absVal(eCur), absVal(eNext)
	wAbs := mathkernel.Window{Previous: absPrev, Current: absCur, Next: absNext}
	if absCur <= eveningThreshold && wAbs.IsMinimum() {
		wDist := mathkernel.Window{Previous: dPrev, Current: dCur, Next: dNext}
		switch {
		case wDist.IsMinimum():
			events = append(events, PlanetaryPhaseEvent{Body: body, Kind: InferiorConjunction, Timestamp: current})
		case wDist.IsMaximum():
			events = append(events, PlanetaryPhaseEvent{Body: body, Kind: SuperiorConjunction, Timestamp: current})
		}
	}

	// Greatest elongation: a local extremum of signed elongation away
	// from conjunction.
	wSigned := mathkernel.Window{Previous: ePrev, Current: eCur, Next: eNext}
	switch {
	case eCur > 0 && wSigned.IsMaximum():
		events = append(events, PlanetaryPhaseEvent{Body: body, Kind: GreatestElongationEast, Timestamp: current})
	case eCur < 0 && wSigned.IsMinimum():
		events = append(events, PlanetaryPhaseEvent{Body: body, Kind: GreatestElongationWest, Timestamp: current})
	}

	// Morning/evening rise-set: a true signed-direction crossing of the
	// twilight threshold, mirroring daily.go's rise/set test rather than
	// a narrow-band discriminator (which dwells across many samples and
	// fires both Forming and Dissolving for a single real crossing).
	switch {
	case ePrev < eveningThreshold && eCur >= eveningThreshold:
		events = append(events, PlanetaryPhaseEvent{Body: body, Kind: EveningRise, Timestamp: current})
	case ePrev > eveningThreshold && eCur <= eveningThreshold:
		events = append(events, PlanetaryPhaseEvent{Body: body, Kind: EveningSet, Timestamp: current})
	}

	switch {
	case ePrev > -eveningThreshold && eCur <= -eveningThreshold:
		events = append(events, PlanetaryPhaseEvent{Body: body, Kind: MorningRise, Timestamp: current})
	case ePrev < -eveningThreshold && eCur >= -eveningThreshold:
		events = append(events, PlanetaryPhaseEvent{Body: body, Kind: MorningSet, Timestamp: current})
	}

	// Greatest brilliancy: local maximum of the illuminated-area over
	// distance-squared brightness proxy.
	proxy := func(i, d float64) float64 { return i / (d * d) }
	wBrightness := mathkernel.Window{
		Previous: proxy(iPrev, dPrev),
		Current:  proxy(iCur, dCur),
		Next:     proxy(iNext, dNext),
	}
	if wBrightness.IsMaximum() {
		events = append(events, PlanetaryPhaseEvent{Body: body, Kind: GreatestBrilliancy, Timestamp: current})
	}

	return events, nil
}

func absVal(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Package catalog holds the compile-time tables the rest of the engine
// looks up against: the fixed body catalog, the aspect angles and orbs,
// display symbols, and the eligible-body set per event family. Every
// lookup here is total over its declared domain — asking for a body or
// aspect outside that domain is a catalog-integrity bug, not a
// recoverable condition.
package catalog

import (
	"fmt"
	"strings"
)

// Body is the fixed catalog of celestial bodies the engine knows how to
// detect events for.
type Body int

const (
	Sun Body = iota
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Chiron
	Lilith
	Ceres
	Pallas
	Juno
	Vesta
	Halley
	NorthNode
	SouthNode
	LunarApogee
	LunarPerigee
)

// bodyInfo carries a body's display name and symbol. Index order in the
// catalog (Body's iota value) is the canonical ordering used to sort
// pairs and tuples throughout the engine.
type bodyInfo struct {
	name   string
	symbol string
}

var bodyTable = map[Body]bodyInfo{
	Sun:          {"Sun", "☉"},
	Moon:         {"Moon", "☽"},
	Mercury:      {"Mercury", "☿"},
	Venus:        {"Venus", "♀"},
	Mars:         {"Mars", "♂"},
	Jupiter:      {"Jupiter", "♃"},
	Saturn:       {"Saturn", "♄"},
	Uranus:       {"Uranus", "♅"},
	Neptune:      {"Neptune", "♆"},
	Pluto:        {"Pluto", "♇"},
	Chiron:       {"Chiron", "⚷"},
	Lilith:       {"Lilith", "⚸"},
	Ceres:        {"Ceres", "⚳"},
	Pallas:       {"Pallas", "⚴"},
	Juno:         {"Juno", "⚵"},
	Vesta:        {"Vesta", "⚶"},
	Halley:       {"Halley", "☄"},
	NorthNode:    {"North Node", "☊"},
	SouthNode:    {"South Node", "☋"},
	LunarApogee:  {"Lunar Apogee", "⚸"},
	LunarPerigee: {"Lunar Perigee", "⚲"},
}

// ParseBody looks up a body by its display name, case-insensitively —
// the form a run request over HTTP or CLI names a body in.
func ParseBody(name string) (Body, error) {
	for b, info := range bodyTable {
		if strings.EqualFold(info.name, name) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBody, name)
}

// AllBodies returns every body in the catalog, in canonical order.
func AllBodies() []Body {
	bodies := make([]Body, 0, len(bodyTable))
	for b := Sun; b <= LunarPerigee; b++ {
		bodies = append(bodies, b)
	}
	return bodies
}

// Name returns a body's display name, or an UnknownBody error if b is
// outside the declared catalog domain.
func (b Body) Name() (string, error) {
	info, ok := bodyTable[b]
	if !ok {
		return "", fmt.Errorf("%w: body %d", ErrUnknownBody, int(b))
	}
	return info.name, nil
}

// String returns the body's display name, or a placeholder for an
// out-of-domain value. Use Name for a lookup that reports failure.
func (b Body) String() string {
	name, err := b.Name()
	if err != nil {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return name
}

// Symbol returns a body's display glyph, or an UnknownBody error.
func (b Body) Symbol() (string, error) {
	info, ok := bodyTable[b]
	if !ok {
		return "", fmt.Errorf("%w: body %d", ErrUnknownBody, int(b))
	}
	return info.symbol, nil
}

// Index returns b's canonical catalog position, used to order pairs and
// tuples so that (A,B) and (B,A) canonicalize to the same key.
func (b Body) Index() int {
	return int(b)
}

// eligibility tags a body for the families that only apply to a subset
// of the catalog (e.g. illumination is only tracked for the Moon,
// Mercury, Venus and Mars).
type family int

const (
	familyIllumination family = iota
	familyDiameter
	familyElongation
	familyApsis
)

var eligibility = map[family]map[Body]bool{
	familyIllumination: {Moon: true, Mercury: true, Venus: true, Mars: true},
	familyDiameter:      {Sun: true, Moon: true},
	familyElongation:    {Mercury: true, Venus: true, Mars: true},
	familyApsis:         {Moon: true, Mercury: true, Venus: true, Mars: true, Jupiter: true, Saturn: true, Uranus: true, Neptune: true, Pluto: true},
}

// EligibleForIllumination reports whether b is a body for which an
// illumination fraction is meaningful (Moon, Mercury, Venus, Mars).
func EligibleForIllumination(b Body) bool { return eligibility[familyIllumination][b] }

// EligibleForDiameter reports whether b is a body for which apparent
// angular diameter is meaningful (Sun, Moon).
func EligibleForDiameter(b Body) bool { return eligibility[familyDiameter][b] }

// EligibleForElongation reports whether b is an inner/outer planet whose
// elongation from the Sun drives a planetary-phase cycle.
func EligibleForElongation(b Body) bool { return eligibility[familyElongation][b] }

// EligibleForApsis reports whether b is a body with a meaningful
// perihelion/aphelion (or perigee/apogee, for the Moon) cycle.
func EligibleForApsis(b Body) bool { return eligibility[familyApsis][b] }

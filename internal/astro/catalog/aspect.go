package catalog

import "fmt"

// AspectKind partitions the aspect catalog into the three families the
// aspect detector iterates in order: major, then minor, then specialty.
type AspectKind int

const (
	Major AspectKind = iota
	Minor
	Specialty
)

// Aspect is a named angular separation the aspect detector searches for
// between two bodies.
type Aspect int

const (
	Conjunct Aspect = iota
	Sextile
	Square
	Trine
	Opposite

	Semisextile
	Semisquare
	Sesquiquadrate
	Quincunx

	Undecile
	Decile
	Novile
	Septile
	Quintile
	Tredecile
	Biquintile
)

type aspectInfo struct {
	kind   AspectKind
	angle  float64
	orb    float64
	symbol string
	name   string
}

// aspectTable is frozen at package init. Angle is the aspect's exact
// separation in degrees; orb is the tolerance either side of it within
// which the aspect is active.
var aspectTable = map[Aspect]aspectInfo{
	Conjunct: {Major, 0, 8, "☌", "conjunct"},
	Sextile:  {Major, 60, 4, "⚹", "sextile"},
	Square:   {Major, 90, 6, "□", "square"},
	Trine:    {Major, 120, 6, "△", "trine"},
	Opposite: {Major, 180, 8, "☍", "opposite"},

	Semisextile:    {Minor, 30, 2, "⚺", "semisextile"},
	Semisquare:     {Minor, 45, 2, "∠", "semisquare"},
	Sesquiquadrate: {Minor, 135, 2, "⚼", "sesquiquadrate"},
	Quincunx:       {Minor, 150, 3, "⚻", "quincunx"},

	Undecile:  {Specialty, 360.0 / 11.0, 1, "", "undecile"},
	Decile:    {Specialty, 36, 1, "", "decile"},
	Novile:    {Specialty, 40, 1, "", "novile"},
	Septile:   {Specialty, 360.0 / 7.0, 1, "", "septile"},
	Quintile:  {Specialty, 72, 2, "Q", "quintile"},
	Tredecile: {Specialty, 108, 1, "", "tredecile"},
	Biquintile: {Specialty, 144, 2, "bQ", "biquintile"},
}

// majorOrder, minorOrder, and specialtyOrder are the declared canonical
// iteration orders within each family: the aspect detector tries them in
// this order and takes the first whose phase is non-null, relying on the
// fact that orbs within a family do not overlap.
var (
	majorOrder     = []Aspect{Conjunct, Sextile, Square, Trine, Opposite}
	minorOrder     = []Aspect{Semisextile, Semisquare, Sesquiquadrate, Quincunx}
	specialtyOrder = []Aspect{Undecile, Decile, Novile, Septile, Quintile, Tredecile, Biquintile}
)

// FamilyOrder returns the families in iteration order (major, minor,
// specialty) and, for each, its aspects in declared canonical order.
func FamilyOrder() [][]Aspect {
	return [][]Aspect{majorOrder, minorOrder, specialtyOrder}
}

// Angle returns an aspect's exact separation in degrees.
func (a Aspect) Angle() (float64, error) {
	info, ok := aspectTable[a]
	if !ok {
		return 0, fmt.Errorf("%w: aspect %d", ErrUnknownAspect, int(a))
	}
	return info.angle, nil
}

// Orb returns an aspect's orb tolerance in degrees.
func (a Aspect) Orb() (float64, error) {
	info, ok := aspectTable[a]
	if !ok {
		return 0, fmt.Errorf("%w: aspect %d", ErrUnknownAspect, int(a))
	}
	return info.orb, nil
}

// Kind returns which family (major/minor/specialty) an aspect belongs to.
func (a Aspect) Kind() (AspectKind, error) {
	info, ok := aspectTable[a]
	if !ok {
		return 0, fmt.Errorf("%w: aspect %d", ErrUnknownAspect, int(a))
	}
	return info.kind, nil
}

// Symbol returns an aspect's display glyph (may be empty for aspects
// with no conventional glyph).
func (a Aspect) Symbol() (string, error) {
	info, ok := aspectTable[a]
	if !ok {
		return "", fmt.Errorf("%w: aspect %d", ErrUnknownAspect, int(a))
	}
	return info.symbol, nil
}

// String returns an aspect's lower-case name (e.g. "trine"), used in
// summaries and categories.
func (a Aspect) String() string {
	info, ok := aspectTable[a]
	if !ok {
		return fmt.Sprintf("Aspect(%d)", int(a))
	}
	return info.name
}

// IsSymmetric reports whether the aspect's angular target is 0°, the one
// case (conjunction) where the three-sample discriminator's "exact" test
// degenerates to a bounce at the minimum of the unsigned separation
// rather than a signed zero-crossing.
func (a Aspect) IsSymmetric() bool {
	info, ok := aspectTable[a]
	return ok && info.angle == 0
}

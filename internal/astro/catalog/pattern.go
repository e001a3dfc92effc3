package catalog

// PatternName enumerates the composite chart patterns the pattern engine
// recognizes. Hammer is deliberately absent: spec labels it
// "vendor-defined, not in hot path", so it is not part of the
// authoritative edge-skeleton table below (see §4.6's treatment of
// Hammer/Butterfly/Hourglass as a single open question).
type PatternName int

const (
	TSquare PatternName = iota
	GrandTrine
	Yod
	GrandCross
	Kite
	MysticRectangle
	Cradle
	Boomerang
	Butterfly
	Hourglass
	Pentagram
	Hexagram
	Stellium
)

func (p PatternName) String() string {
	switch p {
	case TSquare:
		return "T-square"
	case GrandTrine:
		return "Grand Trine"
	case Yod:
		return "Yod"
	case GrandCross:
		return "Grand Cross"
	case Kite:
		return "Kite"
	case MysticRectangle:
		return "Mystic Rectangle"
	case Cradle:
		return "Cradle"
	case Boomerang:
		return "Boomerang"
	case Butterfly:
		return "Butterfly"
	case Hourglass:
		return "Hourglass"
	case Pentagram:
		return "Pentagram"
	case Hexagram:
		return "Hexagram"
	case Stellium:
		return "Stellium"
	default:
		return "unknown pattern"
	}
}

// EdgeRequirement names one required edge of a pattern skeleton, by the
// indices of the two roles it connects (roles are 0..BodyCount-1 in the
// skeleton's canonical labeling) and the aspect that must hold between
// them.
type EdgeRequirement struct {
	I, J   int
	Aspect Aspect
}

// Skeleton is a pattern's fixed edge-type skeleton: a role count, the
// edges required among those roles, the role permutations ("labelings")
// that are symmetric relabelings of the same skeleton, and — for
// patterns like Hourglass that are defined partly by an absence —
// aspects that must NOT appear among any pair of the matched bodies.
//
// A candidate body tuple matches the skeleton if there exists a
// permutation of roles under which every EdgeRequirement holds against
// the minute's edge set and no Forbidden aspect is present between any
// pair.
type Skeleton struct {
	Name       PatternName
	BodyCount  int
	Edges      []EdgeRequirement
	Labelings  [][]int
	Forbidden  []Aspect
}

// identityLabeling is the trivial (no relabeling) permutation for a
// skeleton of the given size.
func identityLabeling(n int) []int {
	id := make([]int, n)
	for i := range id {
		id[i] = i
	}
	return id
}

// Skeletons returns the authoritative edge-skeleton table for every
// fixed-arity pattern (everything except Stellium, which is detected by
// connected-component / clique expansion over conjunction edges instead
// of a fixed skeleton — see the pattern engine).
func Skeletons() []Skeleton {
	return []Skeleton{
		{
			// 2 squares + 1 opposite: apex (2) squares both ends (0,1) of
			// the opposition.
			Name:      TSquare,
			BodyCount: 3,
			Edges: []EdgeRequirement{
				{0, 1, Opposite},
				{0, 2, Square},
				{1, 2, Square},
			},
			Labelings: [][]int{
				{0, 1, 2},
				{1, 0, 2},
			},
		},
		{
			Name:      GrandTrine,
			BodyCount: 3,
			Edges: []EdgeRequirement{
				{0, 1, Trine},
				{1, 2, Trine},
				{0, 2, Trine},
			},
			Labelings: [][]int{identityLabeling(3)},
		},
		{
			// apex (2) quincunx both ends (0,1) of a sextile base.
			Name:      Yod,
			BodyCount: 3,
			Edges: []EdgeRequirement{
				{0, 1, Sextile},
				{0, 2, Quincunx},
				{1, 2, Quincunx},
			},
			Labelings: [][]int{
				{0, 1, 2},
				{1, 0, 2},
			},
		},
		{
			// Two oppositions (0-2, 1-3) with all four cross-pairs square.
			// Three distinct pairings of which two bodies oppose each
			// other are tried as separate labelings.
			Name:      GrandCross,
			BodyCount: 4,
			Edges: []EdgeRequirement{
				{0, 2, Opposite},
				{1, 3, Opposite},
				{0, 1, Square},
				{1, 2, Square},
				{2, 3, Square},
				{3, 0, Square},
			},
			Labelings: [][]int{
				{0, 1, 2, 3},
				{0, 2, 1, 3},
				{0, 1, 3, 2},
			},
		},
		{
			// Grand trine (0,1,2) with an opposite from the apex (0) to a
			// fourth body (3), sextile to the two trine wings.
			Name:      Kite,
			BodyCount: 4,
			Edges: []EdgeRequirement{
				{0, 1, Trine},
				{1, 2, Trine},
				{0, 2, Trine},
				{0, 3, Opposite},
				{1, 3, Sextile},
				{2, 3, Sextile},
			},
			Labelings: [][]int{
				{0, 1, 2, 3},
				{1, 2, 0, 3},
				{2, 0, 1, 3},
			},
		},
		{
			Name:      MysticRectangle,
			BodyCount: 4,
			Edges: []EdgeRequirement{
				{0, 2, Opposite},
				{1, 3, Opposite},
				{0, 1, Sextile},
				{1, 2, Sextile},
				{2, 3, Sextile},
				{3, 0, Sextile},
			},
			Labelings: [][]int{
				{0, 1, 2, 3},
				{0, 2, 1, 3},
			},
		},
		{
			// Sextile-trine chain: 0-1 sextile, 1-2 trine, 2-3 sextile,
			// 3-0 trine, closing the cradle.
			Name:      Cradle,
			BodyCount: 4,
			Edges: []EdgeRequirement{
				{0, 1, Sextile},
				{1, 2, Trine},
				{2, 3, Sextile},
				{3, 0, Trine},
			},
			Labelings: [][]int{
				{0, 1, 2, 3},
				{1, 2, 3, 0},
				{2, 3, 0, 1},
				{3, 0, 1, 2},
			},
		},
		{
			// Yod (0,1 sextile base; 2 apex via quincunx) plus an
			// opposite from the fourth body (3) to the apex.
			Name:      Boomerang,
			BodyCount: 4,
			Edges: []EdgeRequirement{
				{0, 1, Sextile},
				{0, 2, Quincunx},
				{1, 2, Quincunx},
				{2, 3, Opposite},
			},
			Labelings: [][]int{
				{0, 1, 2, 3},
				{1, 0, 2, 3},
			},
		},
		{
			Name:      Butterfly,
			BodyCount: 4,
			Edges: []EdgeRequirement{
				{0, 1, Trine},
				{2, 3, Trine},
				{0, 2, Square},
				{1, 3, Square},
				{0, 3, Sextile},
				{1, 2, Sextile},
			},
			Labelings: [][]int{
				{0, 1, 2, 3},
				{1, 0, 3, 2},
			},
		},
		{
			// Two oppositions across the diagonals, with no sextile among
			// any pair of the four bodies (distinguishes Hourglass from
			// Mystic Rectangle, which requires those sextiles).
			Name:      Hourglass,
			BodyCount: 4,
			Edges: []EdgeRequirement{
				{0, 2, Opposite},
				{1, 3, Opposite},
			},
			Labelings: [][]int{
				{0, 1, 2, 3},
				{0, 2, 1, 3},
			},
			Forbidden: []Aspect{Sextile},
		},
		{
			// Five-pointed star: each vertex quintile to its two
			// non-adjacent neighbors (360/5 = 72 skip-connectivity).
			Name:      Pentagram,
			BodyCount: 5,
			Edges: []EdgeRequirement{
				{0, 2, Quintile},
				{2, 4, Quintile},
				{4, 1, Quintile},
				{1, 3, Quintile},
				{3, 0, Quintile},
			},
			Labelings: [][]int{
				{0, 1, 2, 3, 4},
				{1, 2, 3, 4, 0},
				{2, 3, 4, 0, 1},
				{3, 4, 0, 1, 2},
				{4, 0, 1, 2, 3},
			},
		},
		{
			// Two interlocking grand trines (0,2,4 and 1,3,5) plus the
			// six sextiles connecting consecutive vertices of the hexagon.
			Name:      Hexagram,
			BodyCount: 6,
			Edges: []EdgeRequirement{
				{0, 2, Trine}, {2, 4, Trine}, {4, 0, Trine},
				{1, 3, Trine}, {3, 5, Trine}, {5, 1, Trine},
				{0, 1, Sextile}, {1, 2, Sextile}, {2, 3, Sextile},
				{3, 4, Sextile}, {4, 5, Sextile}, {5, 0, Sextile},
			},
			Labelings: [][]int{
				{0, 1, 2, 3, 4, 5},
				{1, 2, 3, 4, 5, 0},
				{2, 3, 4, 5, 0, 1},
				{3, 4, 5, 0, 1, 2},
				{4, 5, 0, 1, 2, 3},
				{5, 0, 1, 2, 3, 4},
			},
		},
	}
}

// MinStelliumSize is the minimum cluster size for a Stellium: at least 4
// bodies in mutual conjunction.
const MinStelliumSize = 4

// Package discriminator implements the one primitive every other
// detector in the engine is built on: given three adjacent samples of a
// scalar quantity, a target value, and a tolerance, classify what (if
// anything) happened at the middle sample. The aspect detector and the
// lunar quarter phases call it — only the quantity, target, and symmetry
// flag change. Daily rise/set, planetary phases, new/full moon and
// eclipses use their own threshold or extremum tests instead.
package discriminator

import "github.com/skywatch/eventline/internal/astro/mathkernel"

// Phase is the three-way classification a window can produce. Only one
// is ever returned: precedence is Exact > Forming > Dissolving > None.
type Phase int

const (
	None Phase = iota
	Forming
	Exact
	Dissolving
)

// Window is the three adjacent samples of the quantity under test,
// already expressed relative to whatever the target/symmetry
// combination needs: for a symmetric (e.g. conjunction) target, this is
// the unsigned shortest-arc separation; for any other target it is the
// same unsigned separation, compared by sign of its deviation from the
// target.
type Window struct {
	Previous float64
	Current  float64
	Next     float64
}

func inOrb(x, target, orb float64) bool {
	d := x - target
	if d < 0 {
		d = -d
	}
	return d <= orb
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Classify applies the three-sample discriminator to w against target
// and orb. symmetric must be true only for the target == 0 case (the
// conjunction aspect), where the quantity is a non-negative separation
// that "bounces" at its minimum rather than crossing a signed zero —
// spec deliberately preserves this asymmetry rather than unifying it
// with the generic signed-crossing rule.
func Classify(w Window, target, orb float64, symmetric bool) Phase {
	curInOrb := inOrb(w.Current, target, orb)

	if symmetric {
		if curInOrb && (mathkernel.Window{Previous: w.Previous, Current: w.Current, Next: w.Next}).IsMinimum() {
			return Exact
		}
	} else if curInOrb {
		prevSign := sign(w.Previous - target)
		curSign := sign(w.Current - target)
		if prevSign*curSign <= 0 {
			return Exact
		}
	}

	prevInOrb := inOrb(w.Previous, target, orb)
	if !prevInOrb && curInOrb {
		return Forming
	}

	nextInOrb := inOrb(w.Next, target, orb)
	if curInOrb && !nextInOrb {
		return Dissolving
	}

	return None
}

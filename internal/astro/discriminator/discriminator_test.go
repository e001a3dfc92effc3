package discriminator

import "testing"

func TestExactOpposition(t *testing.T) {
	// Body1 longitudes 179, 180, 181 against a fixed body2 at 0: the
	// shortest-arc separation sequence is 179, 180, 179 — current sits
	// exactly on the 180° target, so the signed-deviation product at
	// (previous, current) is zero and the window classifies as exact.
	w := Window{Previous: 179, Current: 180, Next: 179}
	if got := Classify(w, 180, 8, false); got != Exact {
		t.Errorf("Classify = %v, want Exact", got)
	}
}

func TestTrineForming(t *testing.T) {
	// Orb boundary at 120±6 = [114, 126]. 127 is outside, 125 is inside.
	w := Window{Previous: 127, Current: 125, Next: 123}
	if got := Classify(w, 120, 6, false); got != Forming {
		t.Errorf("Classify = %v, want Forming", got)
	}
}

func TestTrineDissolving(t *testing.T) {
	w := Window{Previous: 117, Current: 115, Next: 113}
	if got := Classify(w, 120, 6, false); got != Dissolving {
		t.Errorf("Classify = %v, want Dissolving", got)
	}
}

func TestNoTransitionWithinOrb(t *testing.T) {
	w := Window{Previous: 117, Current: 119, Next: 121}
	if got := Classify(w, 120, 6, false); got != None {
		t.Errorf("Classify = %v, want None (both neighbors also in orb, no crossing)", got)
	}
}

func TestNoTransitionOutsideOrb(t *testing.T) {
	w := Window{Previous: 10, Current: 12, Next: 14}
	if got := Classify(w, 120, 6, false); got != None {
		t.Errorf("Classify = %v, want None", got)
	}
}

func TestConjunctionBounce(t *testing.T) {
	// Unsigned separation approaches 0 then recedes: a local minimum of
	// the unsigned separation, not a signed zero-crossing.
	w := Window{Previous: 2, Current: 0.5, Next: 1}
	if got := Classify(w, 0, 8, true); got != Exact {
		t.Errorf("Classify = %v, want Exact (conjunction bounce)", got)
	}
}

func TestConjunctionNoBounceOnMonotonicApproach(t *testing.T) {
	// Still approaching, not yet at the minimum: not exact.
	w := Window{Previous: 3, Current: 2, Next: 1}
	if got := Classify(w, 0, 8, true); got == Exact {
		t.Error("monotonic approach must not classify as exact")
	}
}

func TestPrecedenceExactBeatsFormingAndDissolving(t *testing.T) {
	// Current lands exactly on target while also being a fresh entry
	// into orb and about to leave — exact must win.
	w := Window{Previous: 200, Current: 180, Next: 200}
	if got := Classify(w, 180, 1, false); got != Exact {
		t.Errorf("Classify = %v, want Exact to take precedence", got)
	}
}

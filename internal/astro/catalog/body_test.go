package catalog

import "testing"

func TestParseBodyCaseInsensitive(t *testing.T) {
	cases := []struct {
		input string
		want  Body
	}{
		{"Sun", Sun},
		{"sun", Sun},
		{"MOON", Moon},
		{"Lunar Apogee", LunarApogee},
	}
	for _, c := range cases {
		got, err := ParseBody(c.input)
		if err != nil {
			t.Errorf("ParseBody(%q): unexpected error: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseBody(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestParseBodyUnknown(t *testing.T) {
	if _, err := ParseBody("Planet X"); err == nil {
		t.Errorf("expected an error for an unknown body name")
	}
}

func TestAllBodiesCanonicalOrder(t *testing.T) {
	bodies := AllBodies()
	if len(bodies) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	for i := range bodies {
		if bodies[i].Index() != i {
			t.Errorf("AllBodies()[%d].Index() = %d, want %d (canonical order)", i, bodies[i].Index(), i)
		}
	}
}

package pattern

import (
	"math"
	"sort"
	"time"

	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/ephemeris"
	"github.com/skywatch/eventline/internal/astro/mathkernel"
)

// stelliumCliques builds the conjunction graph over bodies at ts, then
// extracts connected components of size >= MinStelliumSize that are also
// cliques (every pair within the component is itself a conjunction
// edge) — a component that is merely connected, but not fully mutual, is
// not a Stellium.
func stelliumCliques(view ephemeris.View, bodies []catalog.Body, ts time.Time) ([][]catalog.Body, error) {
	angle, _ := catalog.Conjunct.Angle()
	orb, _ := catalog.Conjunct.Orb()

	n := len(bodies)
	lons := make([]float64, n)
	present := make([]bool, n)
	for i, b := range bodies {
		lon, err := view.Longitude(b, ts)
		if err != nil {
			continue // missing sample drops this body from consideration, not the whole minute
		}
		lons[i] = lon
		present[i] = true
	}

	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for i := 0; i < n; i++ {
		if !present[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !present[j] {
				continue
			}
			if math.Abs(mathkernel.ShortestArc(lons[i], lons[j])-angle) <= orb {
				adj[i][j] = true
				adj[j][i] = true
			}
		}
	}

	visited := make([]bool, n)
	var cliques [][]catalog.Body

	for i := 0; i < n; i++ {
		if visited[i] || !present[i] {
			continue
		}
		component := bfs(i, adj, present, visited)
		if len(component) < catalog.MinStelliumSize {
			continue
		}
		if !isClique(component, adj) {
			continue
		}
		tuple := make([]catalog.Body, len(component))
		for k, idx := range component {
			tuple[k] = bodies[idx]
		}
		sort.Slice(tuple, func(a, b int) bool { return tuple[a].Index() < tuple[b].Index() })
		cliques = append(cliques, tuple)
	}

	return cliques, nil
}

func bfs(start int, adj [][]bool, present, visited []bool) []int {
	queue := []int{start}
	visited[start] = true
	var component []int

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		component = append(component, cur)
		for j, connected := range adj[cur] {
			if connected && present[j] && !visited[j] {
				visited[j] = true
				queue = append(queue, j)
			}
		}
	}
	return component
}

func isClique(component []int, adj [][]bool) bool {
	for i := 0; i < len(component); i++ {
		for j := i + 1; j < len(component); j++ {
			if !adj[component[i]][component[j]] {
				return false
			}
		}
	}
	return true
}

// longitudeSpread returns max-min of a cluster's longitudes, the
// Stellium tightness functional.
func longitudeSpread(view ephemeris.View, tuple []catalog.Body, ts time.Time) (float64, error) {
	if len(tuple) == 0 {
		return 0, nil
	}
	min, max := math.Inf(1), math.Inf(-1)
	for _, b := range tuple {
		lon, err := view.Longitude(b, ts)
		if err != nil {
			return 0, err
		}
		lon = mathkernel.NormalizeDegrees(lon)
		if lon < min {
			min = lon
		}
		if lon > max {
			max = lon
		}
	}
	return max - min, nil
}

func containsTuple(cliques [][]catalog.Body, target []catalog.Body) bool {
	for _, c := range cliques {
		if sameTuple(c, target) {
			return true
		}
	}
	return false
}

func sameTuple(a, b []catalog.Body) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DetectStellium finds Stellium patterns (>=4 mutually conjunct bodies)
// at the minute bounded by (previous, current, next), using
// longitudeSpread (max-min of the cluster) as the tightness functional in
// place of an edge-deviation sum.
func DetectStellium(view ephemeris.View, bodies []catalog.Body, previous, current, next time.Time) ([]Match, error) {
	curCliques, err := stelliumCliques(view, bodies, current)
	if err != nil {
		return nil, err
	}
	prevCliques, _ := stelliumCliques(view, bodies, previous)
	nextCliques, _ := stelliumCliques(view, bodies, next)

	var matches []Match
	for _, tuple := range curCliques {
		existsPrev := containsTuple(prevCliques, tuple)
		existsNext := containsTuple(nextCliques, tuple)

		forming := !existsPrev
		dissolving := !existsNext

		exact := false
		tCur, err := longitudeSpread(view, tuple, current)
		if err == nil {
			tPrev, errP := longitudeSpread(view, tuple, previous)
			tNext, errN := longitudeSpread(view, tuple, next)
			if errP == nil && errN == nil {
				exact = tCur < tPrev && tCur < tNext
			}
		}

		var phase catalog.AspectPhase
		switch {
		case exact:
			phase = catalog.Exact
		case forming:
			phase = catalog.Forming
		case dissolving:
			phase = catalog.Dissolving
		default:
			continue
		}

		matches = append(matches, Match{Pattern: catalog.Stellium, Bodies: tuple, Phase: phase, Timestamp: current})
	}

	return matches, nil
}

package driver

import (
	"fmt"

	"github.com/skywatch/eventline/internal/astro/aspect"
	"github.com/skywatch/eventline/internal/astro/catalog"
	"github.com/skywatch/eventline/internal/astro/cycle"
	"github.com/skywatch/eventline/internal/astro/event"
	"github.com/skywatch/eventline/internal/astro/pattern"
)

func aspectToRecord(e aspect.Edge) event.Record {
	a := e.Aspect
	p := e.Phase
	description := fmt.Sprintf("%s %s %s %s", e.Body1, p, a, e.Body2)
	return event.Record{
		Kind:        event.KindAspect,
		Start:       e.Timestamp,
		End:         e.Timestamp,
		Bodies:      []catalog.Body{e.Body1, e.Body2},
		Aspect:      &a,
		AspectPhase: &p,
		Summary:     p.Marker() + " " + description,
		Description: description,
		Categories:  []string{"aspect", e.Body1.String(), e.Body2.String(), a.String()},
	}
}

func patternToRecord(m pattern.Match) event.Record {
	pat := m.Pattern
	p := m.Phase
	names := bodyNames(m.Bodies)
	description := fmt.Sprintf("%s %s among %v", pat, p, names)
	categories := append([]string{"pattern", pat.String()}, names...)
	return event.Record{
		Kind:        event.KindPattern,
		Start:       m.Timestamp,
		End:         m.Timestamp,
		Bodies:      m.Bodies,
		Pattern:     &pat,
		AspectPhase: &p,
		Summary:     p.Marker() + " " + description,
		Description: description,
		Categories:  categories,
	}
}

func bodyNames(bodies []catalog.Body) []string {
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = b.String()
	}
	return names
}

func horizonToRecord(h cycle.HorizonEvent) event.Record {
	description := fmt.Sprintf("%s %s", h.Body, h.Kind)
	marker := markerForEventLikePhase(h.Kind)
	return event.Record{
		Kind:        kindForHorizon(h.Body),
		Start:       h.Timestamp,
		End:         h.Timestamp,
		Bodies:      []catalog.Body{h.Body},
		Summary:     marker + " " + description,
		Description: description,
		Categories:  []string{"cycle", h.Body.String(), h.Kind.String()},
	}
}

func kindForHorizon(b catalog.Body) event.Kind {
	if b == catalog.Moon {
		return event.KindLunarCycle
	}
	return event.KindSolarCycle
}

func markerForEventLikePhase(k cycle.HorizonEventKind) string {
	switch k {
	case cycle.Rise:
		return "▶"
	case cycle.Set:
		return "◀"
	default:
		return "🎯"
	}
}

func lunarPhaseToRecord(p cycle.LunarPhaseEvent) event.Record {
	description := fmt.Sprintf("Moon %s", p.Kind)
	return event.Record{
		Kind:        event.KindLunarPhase,
		Start:       p.Timestamp,
		End:         p.Timestamp,
		Bodies:      []catalog.Body{catalog.Moon},
		AspectPhase: &p.Phase,
		Summary:     p.Phase.Marker() + " " + description,
		Description: description,
		Categories:  []string{"lunar-phase", p.Kind.String()},
	}
}

func planetaryPhaseToRecord(p cycle.PlanetaryPhaseEvent) event.Record {
	description := fmt.Sprintf("%s %s", p.Body, p.Kind)
	marker := "🎯"
	var phase *catalog.AspectPhase
	switch p.Kind {
	case cycle.MorningRise, cycle.EveningRise:
		f := catalog.Forming
		phase = &f
		marker = f.Marker()
	case cycle.MorningSet, cycle.EveningSet:
		d := catalog.Dissolving
		phase = &d
		marker = d.Marker()
	}
	return event.Record{
		Kind:        event.KindPlanetaryPhase,
		Start:       p.Timestamp,
		End:         p.Timestamp,
		Bodies:      []catalog.Body{p.Body},
		AspectPhase: phase,
		Summary:     marker + " " + description,
		Description: description,
		Categories:  []string{"planetary-phase", p.Body.String(), p.Kind.String()},
	}
}

func eclipseToRecord(e cycle.EclipseEvent) event.Record {
	description := fmt.Sprintf("%s %s", e.Kind, e.Phase)
	phase := e.Phase
	return event.Record{
		Kind:        event.KindEclipse,
		Start:       e.Timestamp,
		End:         e.Timestamp,
		Bodies:      []catalog.Body{catalog.Sun, catalog.Moon},
		EventPhase:  &phase,
		Summary:     phase.Marker() + " " + description,
		Description: description,
		Categories:  []string{e.Kind.String(), "eclipse"},
	}
}

func apsisToRecord(a cycle.ApsisEvent) event.Record {
	description := fmt.Sprintf("%s %s", a.Body, a.Kind)
	return event.Record{
		Kind:        event.KindApsis,
		Start:       a.Timestamp,
		End:         a.Timestamp,
		Bodies:      []catalog.Body{a.Body},
		Summary:     "🎯 " + description,
		Description: description,
		Categories:  []string{"apsis", a.Body.String(), a.Kind.String()},
	}
}

package graph

import (
	"fmt"
	"strings"

	"github.com/TaroNakasendo/modularsynth"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a rack snapshot.
// It applies semantic styling per module role:
// - Generator (sources only): ([Stadium])
// - Output (sinks only): ((Circle))
// - Processor: [Rectangle]
// Each cable becomes an edge labelled with its jack names and drawn in the
// cable's color. The module a drag started from is highlighted.
func GenerateMermaid(snap modularsynth.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, m := range snap.Modules {
		safeID := sanitizeMermaidID(m.Name)

		opener, closer := "[", "]"
		switch role(m) {
		case domain.Source:
			opener, closer = "([", "])"
		case domain.Sink:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, m.Name, closer))
	}

	for i, c := range snap.Cables {
		fromMod, fromJack := split(c.Source)
		toMod, toJack := split(c.Sink)
		sb.WriteString(fmt.Sprintf("    %s -- \"%s → %s\" --> %s\n",
			sanitizeMermaidID(fromMod), fromJack, toJack, sanitizeMermaidID(toMod)))
		if c.Color != "" {
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:%s,stroke-width:2px;\n", i, c.Color))
		}
	}

	if snap.Drag != nil {
		origin, _ := split(snap.Drag.Origin)
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef dragging fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString(fmt.Sprintf("    class %s dragging;\n", sanitizeMermaidID(origin)))
	}

	return sb.String()
}

// role returns Source for pure generators, Sink for pure outputs and "" otherwise.
func role(m modularsynth.ModuleView) domain.Direction {
	var sources, sinks int
	for _, j := range m.Jacks {
		if j.Direction == domain.Source {
			sources++
		} else {
			sinks++
		}
	}
	switch {
	case sources > 0 && sinks == 0:
		return domain.Source
	case sinks > 0 && sources == 0:
		return domain.Sink
	}
	return ""
}

func split(qualified string) (module, jack string) {
	i := strings.LastIndex(qualified, ".")
	if i < 0 {
		return qualified, ""
	}
	return qualified[:i], qualified[i+1:]
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

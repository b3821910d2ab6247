package graph_test

import (
	"strings"
	"testing"

	"github.com/TaroNakasendo/modularsynth"
	"github.com/TaroNakasendo/modularsynth/internal/presentation/graph"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
)

func module(name string, dirs ...domain.Direction) modularsynth.ModuleView {
	m := modularsynth.ModuleView{Name: name}
	for _, d := range dirs {
		m.Jacks = append(m.Jacks, modularsynth.JackView{Direction: d})
	}
	return m
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		snap     modularsynth.Snapshot
		contains []string
		excludes []string
	}{
		{
			name: "Module Shapes",
			snap: modularsynth.Snapshot{Modules: []modularsynth.ModuleView{
				module("LFO", domain.Source),
				module("VCF", domain.Sink, domain.Source),
				module("OUTPUT", domain.Sink),
			}},
			contains: []string{
				`LFO(["LFO"])`,
				`VCF["VCF"]`,
				`OUTPUT(("OUTPUT"))`,
			},
		},
		{
			name: "ID Sanitization",
			snap: modularsynth.Snapshot{Modules: []modularsynth.ModuleView{
				module("VCO-1", domain.Source, domain.Sink),
				module("SEQ-8", domain.Source),
			}},
			contains: []string{
				`VCO_1["VCO-1"]`,
				`SEQ_8(["SEQ-8"])`,
			},
		},
		{
			name: "Cables",
			snap: modularsynth.Snapshot{
				Modules: []modularsynth.ModuleView{module("VCO-1", domain.Source), module("VCF", domain.Sink)},
				Cables: []domain.CableView{
					{Source: "VCO-1.OUT", Sink: "VCF.IN", Color: "#d9408c"},
					{Source: "VCO-1.OUT", Sink: "VCF.CV"},
				},
			},
			contains: []string{
				`VCO_1 -- "OUT → IN" --> VCF`,
				`linkStyle 0 stroke:#d9408c,stroke-width:2px;`,
				`VCO_1 -- "OUT → CV" --> VCF`,
			},
			excludes: []string{"linkStyle 1"},
		},
		{
			name: "Drag Overlay",
			snap: modularsynth.Snapshot{
				Modules: []modularsynth.ModuleView{module("VCO-1", domain.Source)},
				Drag:    &domain.DragPath{Origin: "VCO-1.OUT"},
			},
			contains: []string{"class VCO_1 dragging;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.snap)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

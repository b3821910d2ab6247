package modularsynth_test

import (
	"context"
	"fmt"
	"log"

	"github.com/TaroNakasendo/modularsynth"
	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/modules"
)

// ExampleRack_Connect patches a tiny voice by name.
func ExampleRack_Connect() {
	ctx := context.Background()
	r := modularsynth.New()
	for _, kind := range []string{"VCO", "VCA", "OUTPUT"} {
		m, err := modules.New(kind, "")
		if err != nil {
			log.Fatal(err)
		}
		if err := r.AddModule(m); err != nil {
			log.Fatal(err)
		}
	}

	// Argument order does not matter; the source end is found by direction.
	if _, err := r.Connect(ctx, "VCA.IN", "VCO.OUT"); err != nil {
		log.Fatal(err)
	}
	if _, err := r.Connect(ctx, "VCA.OUT", "OUTPUT.IN"); err != nil {
		log.Fatal(err)
	}

	for _, c := range r.CurrentCables() {
		fmt.Printf("%s -> %s\n", c.Source, c.Sink)
	}
	// Output:
	// VCO.OUT -> VCA.IN
	// VCA.OUT -> OUTPUT.IN
}

// ExampleRack_ReleaseAt shows the click gesture: a release close to the press
// point unpatches the jack.
func ExampleRack_ReleaseAt() {
	ctx := context.Background()
	r := modularsynth.New()
	for _, kind := range []string{"LFO", "VCF"} {
		m, _ := modules.New(kind, "")
		_ = r.AddModule(m)
	}
	_, _ = r.Connect(ctx, "LFO.OUT", "VCF.CV")

	out, _ := r.Resolve("LFO.OUT")
	_, _ = r.PressOn(out.ID(), domain.Point{X: 10, Y: 10})
	outcome, err := r.ReleaseAt(ctx, domain.Point{X: 11, Y: 11}, out.ID())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(outcome.Resolution, len(outcome.Removed), len(r.Cables()))
	// Output: disconnect 1 0
}

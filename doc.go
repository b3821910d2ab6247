/*
Package modularsynth is the patching core of a virtual modular synthesizer.

A Rack holds modules (oscillators, filters, amplifiers, envelopes...), each
exposing named jacks. Jacks are either sources (outputs) or sinks (inputs),
and every jack is bound to one endpoint in an external signal engine. A cable
connects one source to one sink; the patch graph keeps the set of cables and
the engine's physical connections in step.

# Concept

The rack never processes audio. It owns the authoritative patch and drives a
ports.SignalEngine to materialize or sever connections as cables come and go.
Engines are adapters: an in-memory engine for tests and headless use, a Redis
mirror that publishes the live patch to an out-of-process DSP host, or your own.

# Key Features

  - Direction-normalized cables: connect(a, b) and connect(b, a) are the same cable.
  - Idempotent patching: duplicates and invalid pairs are absorbed, never errors.
  - Engine truth: a cable is recorded only after the engine accepted it.
  - Gesture handling: press, drag and release resolve to connect, disconnect or nothing.
  - Rebuild: replay every cable after an engine restart.

# Usage

	r, err := modularsynth.FromFile(ctx, rackfile.Default())
	if err != nil {
		log.Fatal(err)
	}

	// Patch by name...
	if _, err := r.Connect(ctx, "NOISE.OUT", "VCF.IN"); err != nil {
		log.Fatal(err)
	}

	// ...or by gesture, as a UI would.
	out, _ := r.Resolve("LFO.OUT")
	target, _ := r.Resolve("VCA.CV")
	r.PressOn(out.ID(), r.PositionOf(out))
	r.MoveTo(domain.Point{X: 400, Y: 300})
	outcome, err := r.ReleaseAt(ctx, domain.Point{X: 400, Y: 300}, target.ID())

Renderers poll CurrentCables and CurrentDragPath, or take a full Inspect snapshot.
*/
package modularsynth

package modules

import "github.com/TaroNakasendo/modularsynth/pkg/domain"

func keyboard(name string) (*domain.Module, error) {
	return build("KEYBOARD", name,
		[]port{out("CV", "cv"), out("GATE", "gate")},
		nil)
}

func sequencer(name string) (*domain.Module, error) {
	return build("SEQ-8", name,
		[]port{out("CV", "cv"), out("GATE", "gate")},
		[]knob{{label: "RATE", min: 50, max: 1000, def: 300}})
}

func vco(name string) (*domain.Module, error) {
	return build("VCO", name,
		[]port{out("OUT", "oscillator"), in("FM", "fm")},
		[]knob{
			{label: "FREQ", min: 20, max: 2000, def: 440, node: "oscillator", param: "frequency"},
			{label: "DETUNE", min: -1200, max: 1200, def: 0, node: "oscillator", param: "detune"},
		})
}

func lfo(name string) (*domain.Module, error) {
	return build("LFO", name,
		[]port{out("OUT", "oscillator")},
		[]knob{{label: "RATE", min: 0.1, max: 20, def: 1, node: "oscillator", param: "frequency"}})
}

func noise(name string) (*domain.Module, error) {
	return build("NOISE", name,
		[]port{out("OUT", "output")},
		nil)
}

func vcf(name string) (*domain.Module, error) {
	return build("VCF", name,
		[]port{in("IN", "filter"), out("OUT", "filter"), in("CV", "cv"), in("ENV", "env")},
		[]knob{
			{label: "FREQ", min: 20, max: 20000, def: 1000, node: "filter", param: "frequency"},
			{label: "RES", min: 0, max: 20, def: 1, node: "filter", param: "q"},
		})
}

func vca(name string) (*domain.Module, error) {
	return build("VCA", name,
		[]port{in("IN", "gain"), param("CV", "gain", "gain"), out("OUT", "gain")},
		[]knob{{label: "GAIN", min: 0, max: 1, def: 0, node: "gain", param: "gain"}})
}

func adsr(name string) (*domain.Module, error) {
	return build("ADSR", name,
		[]port{in("GATE", "gate"), out("OUT", "envelope")},
		[]knob{
			{label: "A", min: 0.001, max: 2, def: 0.01},
			{label: "D", min: 0.001, max: 2, def: 0.1},
			{label: "S", min: 0, max: 1, def: 0.5},
			{label: "R", min: 0.001, max: 5, def: 0.3},
		})
}

func delay(name string) (*domain.Module, error) {
	return build("DELAY", name,
		[]port{in("IN", "input"), out("OUT", "output")},
		[]knob{
			{label: "TIME", min: 0.01, max: 1, def: 0.3, node: "delay", param: "time"},
			{label: "FB", min: 0, max: 0.95, def: 0.4, node: "feedback", param: "gain"},
			{label: "MIX", min: 0, max: 1, def: 0.5},
		})
}

func reverb(name string) (*domain.Module, error) {
	return build("REVERB", name,
		[]port{in("IN", "input"), out("OUT", "output")},
		[]knob{
			{label: "TIME", min: 0.1, max: 10, def: 3, node: "convolver", param: "time"},
			{label: "MIX", min: 0, max: 1, def: 0.5, node: "mix", param: "gain"},
		})
}

func vocoder(name string) (*domain.Module, error) {
	return build("VOCODER", name,
		[]port{in("CARRIER", "carrier"), in("MOD", "modulator"), out("OUT", "output")},
		[]knob{{label: "SENS", min: 0, max: 5, def: 1, node: "modulator", param: "gain"}})
}

func output(name string) (*domain.Module, error) {
	return build("OUTPUT", name,
		[]port{in("IN", "master")},
		[]knob{{label: "VOL", min: 0, max: 1, def: 0.5, node: "master", param: "gain"}})
}

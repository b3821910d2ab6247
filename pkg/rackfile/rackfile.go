// Package rackfile reads rack assembly descriptions.
//
// A rack file lists the modules to instantiate, optional knob positions and the
// cables to patch at startup. It describes setup only: the running patch is
// never written back.
package rackfile

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/TaroNakasendo/modularsynth/pkg/domain"
	"github.com/TaroNakasendo/modularsynth/pkg/modules"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultRack []byte

// ModuleSpec declares one module instance.
type ModuleSpec struct {
	Kind  string             `json:"kind" mapstructure:"kind"`
	Name  string             `json:"name" mapstructure:"name"`
	Knobs map[string]float64 `json:"knobs" mapstructure:"knobs"`
}

// InstanceName returns the name the module will be registered under.
func (m ModuleSpec) InstanceName() string {
	if m.Name != "" {
		return m.Name
	}
	return strings.ToUpper(m.Kind)
}

// CableSpec declares a cable by qualified jack names ("VCO-1.OUT").
type CableSpec struct {
	From string `json:"from" mapstructure:"from"`
	To   string `json:"to" mapstructure:"to"`
}

// File is a parsed rack description.
type File struct {
	Modules []ModuleSpec `json:"modules" mapstructure:"modules"`
	Patch   []CableSpec  `json:"patch" mapstructure:"patch"`
}

// Default returns the built-in rack.
func Default() *File {
	f, err := Parse(defaultRack, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded rack is invalid: %v", err))
	}
	return f
}

// Load reads a rack file (YAML, or JSON when the extension is .json).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rack file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a rack description. Knob values given as strings are accepted.
func Parse(data []byte, ext string) (*File, error) {
	var raw map[string]any
	if strings.ToLower(ext) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse rack json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse rack yaml: %w", err)
		}
	}

	var f File
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid rack description: %w", err)
	}
	return &f, nil
}

// SplitQualified splits "MODULE.JACK" at the last dot.
func SplitQualified(qualified string) (module, jack string, err error) {
	qualified, err = SanitizeName(qualified)
	if err != nil {
		return "", "", err
	}
	i := strings.LastIndex(qualified, ".")
	if i <= 0 || i == len(qualified)-1 {
		return "", "", fmt.Errorf("%w: %q is not MODULE.JACK", domain.ErrJackNotFound, qualified)
	}
	return qualified[:i], qualified[i+1:], nil
}

// Validate builds every module and resolves every cable end without touching
// an engine. It reports all problems at once.
func (f *File) Validate() error {
	var errs []error
	built := make(map[string]*domain.Module)

	for i, spec := range f.Modules {
		name := spec.InstanceName()
		if _, dup := built[name]; dup {
			errs = append(errs, fmt.Errorf("modules[%d]: %w: %s", i, domain.ErrDuplicateModule, name))
			continue
		}
		m, err := modules.New(spec.Kind, spec.Name)
		if err != nil {
			errs = append(errs, fmt.Errorf("modules[%d]: %w", i, err))
			continue
		}
		for label := range spec.Knobs {
			if _, err := m.SetKnob(label, spec.Knobs[label]); err != nil {
				errs = append(errs, fmt.Errorf("modules[%d]: %w", i, err))
			}
		}
		built[name] = m
	}

	resolve := func(q string) (*domain.Jack, error) {
		modName, jackName, err := SplitQualified(q)
		if err != nil {
			return nil, err
		}
		m, ok := built[modName]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, modName)
		}
		return m.Resolve(jackName)
	}

	for i, c := range f.Patch {
		from, errFrom := resolve(c.From)
		to, errTo := resolve(c.To)
		if errFrom != nil || errTo != nil {
			errs = append(errs, fmt.Errorf("patch[%d]: %w", i, errors.Join(errFrom, errTo)))
			continue
		}
		if from.Direction() == to.Direction() {
			errs = append(errs, fmt.Errorf("patch[%d]: %s and %s are both %s jacks", i, c.From, c.To, from.Direction()))
		}
	}

	return errors.Join(errs...)
}

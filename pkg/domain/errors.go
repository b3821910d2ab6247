package domain

import "errors"

// ErrJackNotFound is returned when a jack cannot be resolved by name or id.
var ErrJackNotFound = errors.New("no such jack")

// ErrDuplicatePort is returned when a module declares the same port name twice.
var ErrDuplicatePort = errors.New("port already declared")

// ErrModuleNotFound is returned when a module name is not part of the rack.
var ErrModuleNotFound = errors.New("module not found")

// ErrDuplicateModule is returned when two modules with the same name are added to a rack.
var ErrDuplicateModule = errors.New("module already registered")

// ErrUnknownModuleKind is returned by the module catalog for unregistered kinds.
var ErrUnknownModuleKind = errors.New("unknown module kind")

// ErrMaterialize wraps engine failures that prevented a cable from being recorded.
var ErrMaterialize = errors.New("failed to materialize connection")

// ErrKnobNotFound is returned when a knob label is not declared on a module.
var ErrKnobNotFound = errors.New("no such knob")

// ErrDuplicateKnob is returned when a module declares the same knob label twice.
var ErrDuplicateKnob = errors.New("knob already declared")

// ErrInvalidKnobRange is returned when a knob is declared with min > max.
var ErrInvalidKnobRange = errors.New("invalid knob range")

package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Direction tells whether a jack emits or receives a signal.
type Direction string

const (
	// Source jacks are free-running outputs and may fan out to many cables.
	Source Direction = "source"
	// Sink jacks are inputs, either a whole node input or a parameter input.
	Sink Direction = "sink"
)

// Valid reports whether d is one of the known directions.
func (d Direction) Valid() bool {
	return d == Source || d == Sink
}

// JackID is the durable identity of a jack, assigned at declaration.
type JackID string

// NewJackID returns a fresh random identifier.
func NewJackID() JackID {
	return JackID(uuid.NewString())
}

// Endpoint is an opaque reference into the signal engine.
// Param is empty when the endpoint addresses a whole node.
type Endpoint struct {
	Node  string `json:"node" yaml:"node"`
	Param string `json:"param,omitempty" yaml:"param,omitempty"`
}

// IsParam reports whether the endpoint targets a parameter input.
func (e Endpoint) IsParam() bool {
	return e.Param != ""
}

// IsZero reports whether the endpoint is unset.
func (e Endpoint) IsZero() bool {
	return e.Node == "" && e.Param == ""
}

func (e Endpoint) String() string {
	if e.Param != "" {
		return e.Node + "#" + e.Param
	}
	return e.Node
}

// Connection is a physical edge between two engine endpoints.
type Connection struct {
	Source Endpoint `json:"source"`
	Sink   Endpoint `json:"sink"`
}

func (c Connection) String() string {
	return fmt.Sprintf("%s -> %s", c.Source, c.Sink)
}

// Jack is a named, directional port on a Module.
// Its direction and endpoint are fixed at declaration.
type Jack struct {
	id        JackID
	module    string
	name      string
	direction Direction
	endpoint  Endpoint
	handle    string
}

// ID returns the durable identity of the jack.
func (j *Jack) ID() JackID { return j.id }

// Name returns the port name as declared on its module.
func (j *Jack) Name() string { return j.name }

// Module returns the name of the owning module.
func (j *Jack) Module() string { return j.module }

// Direction returns whether the jack is a source or a sink.
func (j *Jack) Direction() Direction { return j.direction }

// Endpoint returns the engine endpoint the jack is bound to.
func (j *Jack) Endpoint() Endpoint { return j.endpoint }

// Handle is the key renderers use to locate the jack on screen.
func (j *Jack) Handle() string { return j.handle }

// QualifiedName returns "MODULE.JACK".
func (j *Jack) QualifiedName() string {
	return j.module + "." + j.name
}

func (j *Jack) String() string {
	return fmt.Sprintf("%s(%s)", j.QualifiedName(), j.direction)
}
